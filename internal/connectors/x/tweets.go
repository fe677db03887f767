package x

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

// MaxTweetLength is the character limit for standard accounts.
const MaxTweetLength = 280

type createTweetBody struct {
	Text  string `json:"text"`
	Reply *struct {
		InReplyToTweetID string `json:"in_reply_to_tweet_id"`
	} `json:"reply,omitempty"`
	QuoteTweetID string `json:"quote_tweet_id,omitempty"`
	Media        *struct {
		MediaIDs []string `json:"media_ids"`
	} `json:"media,omitempty"`
}

// GetTweet fetches a tweet by ID.
func (c *Client) GetTweet(ctx context.Context, id string) (*Tweet, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: tweet id is required", domain.ErrInvalidInput)
	}

	var resp envelope[Tweet]
	if err := c.api.Get(ctx, "tweets/"+url.PathEscape(id), url.Values{"tweet.fields": {tweetFields}}, &resp); err != nil {
		return nil, fmt.Errorf("get tweet %s: %w", id, err)
	}
	return resp.unwrap()
}

// PostTweet publishes a tweet.
func (c *Client) PostTweet(ctx context.Context, req TweetRequest) (*Tweet, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" && len(req.MediaIDs) == 0 {
		return nil, fmt.Errorf("%w: tweet text is required", domain.ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(text); n > MaxTweetLength {
		return nil, fmt.Errorf("%w: tweet is %d characters, limit is %d", domain.ErrInvalidInput, n, MaxTweetLength)
	}

	body := createTweetBody{Text: text, QuoteTweetID: req.QuoteTweetID}
	if req.ReplyTo != "" {
		body.Reply = &struct {
			InReplyToTweetID string `json:"in_reply_to_tweet_id"`
		}{InReplyToTweetID: req.ReplyTo}
	}
	if len(req.MediaIDs) > 0 {
		body.Media = &struct {
			MediaIDs []string `json:"media_ids"`
		}{MediaIDs: req.MediaIDs}
	}

	var resp envelope[Tweet]
	if err := c.api.Post(ctx, "tweets", body, &resp); err != nil {
		return nil, fmt.Errorf("post tweet: %w", err)
	}
	return resp.unwrap()
}

// PostThread posts parts as a reply chain. It stops at the first failure
// and returns the tweets already posted together with the error; nothing
// is rolled back. onPosted, when set, is called after each tweet.
func (c *Client) PostThread(ctx context.Context, parts []string, onPosted func(i int, t *Tweet)) ([]Tweet, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: thread is empty", domain.ErrInvalidInput)
	}

	posted := make([]Tweet, 0, len(parts))
	replyTo := ""
	for i, part := range parts {
		tweet, err := c.PostTweet(ctx, TweetRequest{Text: part, ReplyTo: replyTo})
		if err != nil {
			return posted, fmt.Errorf("thread part %d/%d: %w", i+1, len(parts), err)
		}
		posted = append(posted, *tweet)
		if onPosted != nil {
			onPosted(i, tweet)
		}
		replyTo = tweet.ID
	}
	return posted, nil
}

// DeleteTweet deletes one of the authenticated user's tweets.
func (c *Client) DeleteTweet(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: tweet id is required", domain.ErrInvalidInput)
	}

	var resp envelope[struct {
		Deleted bool `json:"deleted"`
	}]
	if _, err := c.api.Do(ctx, rest.Request{Method: http.MethodDelete, Path: "tweets/" + url.PathEscape(id)}, &resp); err != nil {
		return fmt.Errorf("delete tweet %s: %w", id, err)
	}
	data, err := resp.unwrap()
	if err != nil {
		return err
	}
	if !data.Deleted {
		return fmt.Errorf("x: tweet %s was not deleted", id)
	}
	return nil
}

// Like likes a tweet as the authenticated user.
func (c *Client) Like(ctx context.Context, tweetID string) error {
	if tweetID == "" {
		return fmt.Errorf("%w: tweet id is required", domain.ErrInvalidInput)
	}
	me, err := c.userID(ctx)
	if err != nil {
		return err
	}

	var resp envelope[struct {
		Liked bool `json:"liked"`
	}]
	body := map[string]string{"tweet_id": tweetID}
	if err := c.api.Post(ctx, "users/"+url.PathEscape(me)+"/likes", body, &resp); err != nil {
		return fmt.Errorf("like tweet %s: %w", tweetID, err)
	}
	_, err = resp.unwrap()
	return err
}

// UserTweets lists a user's recent tweets.
func (c *Client) UserTweets(ctx context.Context, userID string, opts rest.PageOptions) (*rest.Page[Tweet], error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	path := "users/" + url.PathEscape(userID) + "/tweets"
	query := url.Values{"max_results": {pageSize(opts, 5, 100)}}

	return rest.Paginate(ctx, opts, func(ctx context.Context, cursor string) ([]Tweet, string, error) {
		return c.listPage(ctx, path, query, "pagination_token", cursor)
	})
}

// SearchRecent searches tweets from the last seven days.
func (c *Client) SearchRecent(ctx context.Context, query string, opts rest.PageOptions) (*rest.Page[Tweet], error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", domain.ErrInvalidInput)
	}
	q := url.Values{
		"query":       {query},
		"max_results": {pageSize(opts, 10, 100)},
	}

	return rest.Paginate(ctx, opts, func(ctx context.Context, cursor string) ([]Tweet, string, error) {
		return c.listPage(ctx, "tweets/search/recent", q, "next_token", cursor)
	})
}
