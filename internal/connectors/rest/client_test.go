package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, auth Authorizer, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithHTTPClient(server.Client()), WithRateLimit(1000, 100)}, opts...)
	c, err := New("acme", server.URL+"/v2/", auth, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New("acme", "not a url", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid base URL")
}

func TestClient_GetDecodesJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/users/me", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("page_size"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-01", r.Header.Get("API-Version"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u1","name":"Ada"}`))
	}, BearerAuth{Token: "secret"}, WithHeader("API-Version", "2024-01"))

	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err := c.Get(context.Background(), "/users/me", url.Values{"page_size": {"10"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "u1", out.ID)
	assert.Equal(t, "Ada", out.Name)
}

func TestClient_PostEncodesJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["text"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}, nil)

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, c.Post(context.Background(), "tweets", map[string]string{"text": "hello"}, &out))
	assert.True(t, out.OK)
}

func TestClient_FormAndReaderBodies(t *testing.T) {
	var contentTypes []string
	var bodies []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentTypes = append(contentTypes, r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(data))
		w.WriteHeader(http.StatusNoContent)
	}, nil)

	ctx := context.Background()
	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "form", Body: url.Values{"a": {"1"}}}, nil)
	require.NoError(t, err)
	_, err = c.Do(ctx, Request{Method: http.MethodPost, Path: "raw", Body: strings.NewReader("xyz"), ContentType: "text/plain"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"application/x-www-form-urlencoded", "text/plain"}, contentTypes)
	assert.Equal(t, []string{"a=1", "xyz"}, bodies)
}

func TestClient_EmptyResponseBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, nil)

	var out map[string]any
	require.NoError(t, c.Delete(context.Background(), "meetings/1", &out))
	assert.Nil(t, out)
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":3001,"message":"Meeting does not exist"}`))
	}, nil)

	err := c.Get(context.Background(), "meetings/42", nil, nil)
	require.Error(t, err)

	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "acme", apiErr.Vendor)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Equal(t, "Meeting does not exist", apiErr.Message)
	assert.Equal(t, http.MethodGet, apiErr.Method)
	assert.Equal(t, "/v2/meetings/42", apiErr.URL)

	assert.True(t, IsNotFound(err))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.False(t, IsUnauthorized(err))
	assert.Equal(t, 404, StatusCode(err))
}

func TestClient_RateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}, nil)

	err := c.Get(context.Background(), "tasks", nil, nil)
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
	assert.Equal(t, 429, StatusCode(err))

	var rlErr *RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.False(t, rlErr.ResetAt.IsZero())
}

func TestClient_AuthorizerError(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, AuthorizerFunc(func(*http.Request) error { return errors.New("no token") }))

	err := c.Get(context.Background(), "x", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authorize")
	assert.False(t, called)
}

func TestClient_AbsolutePath(t *testing.T) {
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1.1/media/upload.json", r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer other.Close()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("base server should not be called")
	}, nil)

	require.NoError(t, c.Get(context.Background(), other.URL+"/1.1/media/upload.json", nil, nil))
}

func TestClient_WithCache(t *testing.T) {
	hits := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Cache-Control", "max-age=60")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"n":1}`))
	}, nil, WithCache())

	ctx := context.Background()
	require.NoError(t, c.Get(ctx, "boards", nil, nil))
	require.NoError(t, c.Get(ctx, "boards", nil, nil))
	assert.Equal(t, 1, hits)
}

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message", `{"message":"bad"}`, "bad"},
		{"clickup err", `{"err":"Task not found","ECODE":"ITEM_015"}`, "Task not found"},
		{"oauth error", `{"error":"invalid_client","error_description":"Invalid client_id"}`, "invalid_client: Invalid client_id"},
		{"error object", `{"error":{"message":"nested"}}`, "nested"},
		{"errors array", `{"errors":[{"message":"first"}],"detail":"later"}`, "first"},
		{"errors title", `{"errors":[{"title":"Forbidden"}]}`, "Forbidden"},
		{"detail", `{"title":"Unauthorized","detail":"Unauthorized request"}`, "Unauthorized request"},
		{"plain text", `upstream unavailable`, "upstream unavailable"},
		{"html", `<html><body>oops</body></html>`, "Bad Gateway"},
		{"empty", ``, "Bad Gateway"},
		{"unknown shape", `{"foo":"bar"}`, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMessage([]byte(tt.body), http.StatusBadGateway))
		})
	}
}
