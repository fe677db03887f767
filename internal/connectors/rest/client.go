package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/custodia-labs/switchboard/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// maxBodySize bounds how much of a response body is read.
	maxBodySize = 32 << 20
)

// UserAgent is sent with every request.
var UserAgent = "switchboard"

// Client is a JSON HTTP client bound to one vendor base URL.
type Client struct {
	vendor  string
	baseURL string
	auth    Authorizer
	http    *http.Client
	limiter *RateLimiter
	headers http.Header
}

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	rps        float64
	burst      int
	headers    http.Header
	cache      bool
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRateLimit sets the proactive throttle.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		o.rps = rps
		o.burst = burst
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(o *options) { o.headers.Set(key, value) }
}

// WithCache enables an in-memory HTTP cache honouring ETag and Cache-Control.
func WithCache() Option {
	return func(o *options) { o.cache = true }
}

// New creates a client for vendor rooted at baseURL.
func New(vendor, baseURL string, auth Authorizer, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: invalid base URL %q", vendor, baseURL)
	}

	o := options{timeout: DefaultTimeout, headers: http.Header{}}
	for _, opt := range opts {
		opt(&o)
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{}
	}
	if o.cache {
		base := hc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		cached := httpcache.NewMemoryCacheTransport()
		cached.Transport = base
		clone := *hc
		clone.Transport = cached
		hc = &clone
	}
	if hc.Timeout == 0 && o.timeout > 0 {
		clone := *hc
		clone.Timeout = o.timeout
		hc = &clone
	}

	return &Client{
		vendor:  vendor,
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    auth,
		http:    hc,
		limiter: NewRateLimiter(vendor, o.rps, o.burst),
		headers: o.headers,
	}, nil
}

// Vendor returns the vendor name used in errors.
func (c *Client) Vendor() string {
	return c.vendor
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RateLimiter returns the client's limiter.
func (c *Client) RateLimiter() *RateLimiter {
	return c.limiter
}

// Request describes one API call.
type Request struct {
	Method string
	// Path is joined onto the base URL unless it is an absolute URL.
	Path  string
	Query url.Values
	// Body is JSON encoded, except url.Values (form encoded) and io.Reader (sent as is).
	Body        any
	ContentType string
	Header      http.Header
}

// Do performs the request and decodes a JSON response into out when out is
// non-nil. The returned response body has already been read and is replayable.
func (c *Client) Do(ctx context.Context, r Request, out any) (*http.Response, error) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if c.auth != nil {
		if err := c.auth.Authorize(req); err != nil {
			return nil, fmt.Errorf("%s: authorize: %w", c.vendor, err)
		}
	}

	logger.Debug("%s %s", req.Method, req.URL.Redacted())
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %s %s: %w", c.vendor, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", c.vendor, err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	logger.Debug("%s %s -> %d (%s)", req.Method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if err := c.limiter.CheckRateLimit(resp); err != nil {
		return resp, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, &APIError{
			Vendor:     c.vendor,
			StatusCode: resp.StatusCode,
			Message:    ExtractMessage(data, resp.StatusCode),
			Method:     req.Method,
			URL:        req.URL.Path,
		}
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp, fmt.Errorf("%s: decode response: %w", c.vendor, err)
		}
	}
	return resp, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
	return err
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
	return err
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	_, err := c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
	return err
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	_, err := c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
	return err
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	_, err := c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
	return err
}

func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	target := r.Path
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = c.baseURL + "/" + strings.TrimLeft(target, "/")
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid request path %q: %w", c.vendor, r.Path, err)
	}
	if len(r.Query) > 0 {
		q := u.Query()
		for k, vs := range r.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	body, contentType, err := encodeBody(r.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", c.vendor, err)
	}
	if r.ContentType != "" {
		contentType = r.ContentType
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", c.vendor, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, vs := range c.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range r.Header {
		req.Header[k] = append([]string(nil), vs...)
	}
	return req, nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case url.Values:
		return strings.NewReader(b.Encode()), "application/x-www-form-urlencoded", nil
	case io.Reader:
		return b, "application/octet-stream", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// ExtractMessage pulls a human-readable message out of an error body.
// It recognises the shapes used by the supported vendors and falls back
// to the HTTP status text.
func ExtractMessage(body []byte, status int) string {
	fallback := http.StatusText(status)
	if fallback == "" {
		fallback = fmt.Sprintf("status %d", status)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fallback
	}

	var payload map[string]any
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		if len(trimmed) <= 200 && !bytes.HasPrefix(trimmed, []byte("<")) {
			return string(trimmed)
		}
		return fallback
	}

	for _, key := range []string{"message", "msg", "err", "error_message"} {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	switch e := payload["error"].(type) {
	case string:
		if e != "" {
			if desc, ok := payload["error_description"].(string); ok && desc != "" {
				return e + ": " + desc
			}
			return e
		}
	case map[string]any:
		if s, ok := e["message"].(string); ok && s != "" {
			return s
		}
	}
	if list, ok := payload["errors"].([]any); ok && len(list) > 0 {
		switch first := list[0].(type) {
		case string:
			return first
		case map[string]any:
			for _, key := range []string{"message", "title", "detail"} {
				if s, ok := first[key].(string); ok && s != "" {
					return s
				}
			}
		}
	}
	for _, key := range []string{"detail", "title"} {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// IsAPIError reports whether err is an *APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
