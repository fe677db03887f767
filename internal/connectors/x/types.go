package x

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

// User is an X account.
type User struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Username      string       `json:"username"`
	Description   string       `json:"description,omitempty"`
	CreatedAt     *time.Time   `json:"created_at,omitempty"`
	PublicMetrics *UserMetrics `json:"public_metrics,omitempty"`
}

// UserMetrics are the public counters of a user.
type UserMetrics struct {
	Followers int `json:"followers_count"`
	Following int `json:"following_count"`
	Tweets    int `json:"tweet_count"`
}

// Tweet is a post.
type Tweet struct {
	ID             string        `json:"id"`
	Text           string        `json:"text"`
	AuthorID       string        `json:"author_id,omitempty"`
	ConversationID string        `json:"conversation_id,omitempty"`
	CreatedAt      *time.Time    `json:"created_at,omitempty"`
	PublicMetrics  *TweetMetrics `json:"public_metrics,omitempty"`
}

// TweetMetrics are the public counters of a tweet.
type TweetMetrics struct {
	Retweets int `json:"retweet_count"`
	Replies  int `json:"reply_count"`
	Likes    int `json:"like_count"`
	Quotes   int `json:"quote_count"`
}

// TweetRequest is the body of a new tweet.
type TweetRequest struct {
	Text         string
	ReplyTo      string
	QuoteTweetID string
	MediaIDs     []string
}

// ProblemDetail is an entry of the errors array X returns next to, or
// instead of, data.
type ProblemDetail struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
	Value  string `json:"value,omitempty"`
}

type envelope[T any] struct {
	Data   *T              `json:"data"`
	Errors []ProblemDetail `json:"errors"`
}

type listEnvelope[T any] struct {
	Data []T `json:"data"`
	Meta struct {
		ResultCount int    `json:"result_count"`
		NextToken   string `json:"next_token"`
	} `json:"meta"`
}

// unwrap returns data, or the problem X reported in a 200 response.
func (e envelope[T]) unwrap() (*T, error) {
	if e.Data != nil {
		return e.Data, nil
	}
	return nil, problemError(e.Errors)
}

func problemError(problems []ProblemDetail) error {
	if len(problems) == 0 {
		return errors.New("x: response carried no data")
	}
	p := problems[0]
	msg := p.Detail
	if msg == "" {
		msg = p.Title
	}
	if strings.Contains(p.Type, "resource-not-found") || strings.Contains(p.Title, "Not Found") {
		return fmt.Errorf("x: %s: %w", msg, domain.ErrNotFound)
	}
	return fmt.Errorf("x: %s", msg)
}
