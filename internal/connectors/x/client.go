package x

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

const (
	// DefaultBaseURL is the API v2 root.
	DefaultBaseURL = "https://api.x.com/2"

	// DefaultUploadURL is the v1.1 simple media upload endpoint.
	DefaultUploadURL = "https://upload.twitter.com/1.1/media/upload.json"

	// ProactiveRate stays well under the per-15-minute user limits.
	ProactiveRate = 1.0

	// defaultPageSize is max_results for timeline and search listings.
	defaultPageSize = 100
)

// Fields requested for every tweet and user.
const (
	tweetFields = "created_at,author_id,conversation_id,public_metrics"
	userFields  = "created_at,description,public_metrics"
)

// Client wraps the X API.
type Client struct {
	api       *rest.Client
	uploadURL string

	mu   sync.Mutex
	meID string
}

// NewClient creates a client. Empty URLs use the defaults.
func NewClient(auth rest.Authorizer, baseURL, uploadURL string, opts ...rest.Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if uploadURL == "" {
		uploadURL = DefaultUploadURL
	}
	opts = append([]rest.Option{rest.WithRateLimit(ProactiveRate, 3)}, opts...)
	api, err := rest.New("x", baseURL, auth, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{api: api, uploadURL: uploadURL}, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp envelope[User]
	if err := c.api.Get(ctx, "users/me", url.Values{"user.fields": {userFields}}, &resp); err != nil {
		return nil, fmt.Errorf("get authenticated user: %w", err)
	}
	user, err := resp.unwrap()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.meID = user.ID
	c.mu.Unlock()
	return user, nil
}

// userID returns the authenticated user's ID, fetching it once.
func (c *Client) userID(ctx context.Context) (string, error) {
	c.mu.Lock()
	id := c.meID
	c.mu.Unlock()
	if id != "" {
		return id, nil
	}

	user, err := c.Me(ctx)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// LookupUser resolves a username (with or without @).
func (c *Client) LookupUser(ctx context.Context, username string) (*User, error) {
	username = trimAt(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}

	var resp envelope[User]
	path := "users/by/username/" + url.PathEscape(username)
	if err := c.api.Get(ctx, path, url.Values{"user.fields": {userFields}}, &resp); err != nil {
		return nil, fmt.Errorf("look up @%s: %w", username, err)
	}
	return resp.unwrap()
}

// listPage fetches one page of a tweet listing.
func (c *Client) listPage(ctx context.Context, path string, query url.Values, tokenParam, cursor string) ([]Tweet, string, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("tweet.fields", tweetFields)
	if cursor != "" {
		q.Set(tokenParam, cursor)
	}

	var resp listEnvelope[Tweet]
	if err := c.api.Get(ctx, path, q, &resp); err != nil {
		return nil, "", err
	}
	return resp.Data, resp.Meta.NextToken, nil
}

func pageSize(opts rest.PageOptions, min, max int) string {
	n := opts.PageSize
	if n <= 0 {
		n = defaultPageSize
	}
	if n < min {
		n = min
	}
	if n > max {
		n = max
	}
	return strconv.Itoa(n)
}

func trimAt(s string) string {
	for len(s) > 0 && s[0] == '@' {
		s = s[1:]
	}
	return s
}
