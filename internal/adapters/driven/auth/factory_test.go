package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/switchboard/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/core/domain"
	"github.com/custodia-labs/switchboard/internal/core/services"
)

type fakeCredentials map[domain.VendorID]map[string]string

func (f fakeCredentials) Load(vendor domain.VendorID) (domain.Credentials, error) {
	return domain.Credentials{Vendor: vendor, Values: f[vendor], Source: "test"}, nil
}

func (f fakeCredentials) Path(vendor domain.VendorID) string {
	return "/creds/" + string(vendor) + ".env"
}

func (f fakeCredentials) Dir() string {
	return "/creds"
}

func newTestFactory(t *testing.T, creds fakeCredentials, config map[string]any, opts ...FactoryOption) (*Factory, *memory.TokenCache) {
	t.Helper()
	store := memory.NewConfigStore()
	for k, v := range config {
		require.NoError(t, store.Set(k, v))
	}
	tokens := memory.NewTokenCache()
	f := NewFactory(services.NewVendorRegistry(), services.NewSettingsService(store), creds, tokens, opts...)
	return f, tokens
}

func TestFactory_Credentials_Missing(t *testing.T) {
	f, _ := newTestFactory(t, fakeCredentials{
		domain.VendorX: {"X_API_KEY": "key"},
	}, nil)

	_, err := f.X(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
	assert.Contains(t, err.Error(), "X_ACCESS_TOKEN, X_ACCESS_TOKEN_SECRET, X_API_SECRET")
	assert.Contains(t, err.Error(), "/creds/x.env")
}

func TestFactory_Credentials_UnknownVendor(t *testing.T) {
	f, _ := newTestFactory(t, fakeCredentials{}, nil)

	_, err := f.Credentials("twitter")
	assert.ErrorIs(t, err, domain.ErrUnsupportedVendor)
}

func TestFactory_ReusesClientsUntilReset(t *testing.T) {
	f, _ := newTestFactory(t, fakeCredentials{
		domain.VendorClickUp: {"CLICKUP_API_TOKEN": "pk_1"},
		domain.VendorHubSpot: {"HUBSPOT_ACCESS_TOKEN": "pat-1"},
		domain.VendorMonday:  {"MONDAY_API_TOKEN": "m-1"},
	}, nil)
	ctx := context.Background()

	first, err := f.ClickUp(ctx)
	require.NoError(t, err)
	second, err := f.ClickUp(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)

	f.Reset()
	third, err := f.ClickUp(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, third)

	_, err = f.HubSpot(ctx)
	assert.NoError(t, err)
	_, err = f.Monday(ctx)
	assert.NoError(t, err)
}

func TestFactory_Zoom_CachesToken(t *testing.T) {
	var tokenCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/oauth/token":
			tokenCalls.Add(1)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "account_credentials", r.PostForm.Get("grant_type"))
			assert.Equal(t, "acct", r.PostForm.Get("account_id"))
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "cid", user)
			assert.Equal(t, "secret", pass)
			_, _ = w.Write([]byte(`{"access_token":"zoom-token","token_type":"bearer","expires_in":3600}`))
		case "/v2/users":
			assert.Equal(t, "Bearer zoom-token", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"users":[{"id":"u1","email":"a@example.com"}]}`))
		default:
			t.Errorf("unexpected %s", r.URL.Path)
		}
	}))
	defer server.Close()

	f, tokens := newTestFactory(t, fakeCredentials{
		domain.VendorZoom: {"ZOOM_ACCOUNT_ID": "acct", "ZOOM_CLIENT_ID": "cid", "ZOOM_CLIENT_SECRET": "secret"},
	}, map[string]any{
		"zoom.base_url":  server.URL + "/v2",
		"zoom.token_url": server.URL + "/oauth/token",
	}, WithHTTPClient(server.Client()))

	ctx := context.Background()
	c, err := f.Zoom(ctx)
	require.NoError(t, err)

	for range 2 {
		page, err := c.ListUsers(ctx, rest.PageOptions{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
	}
	assert.Equal(t, int32(1), tokenCalls.Load())

	cached, err := tokens.Load(domain.VendorZoom)
	require.NoError(t, err)
	assert.Equal(t, "zoom-token", cached.AccessToken)

	// A rebuilt client starts from the cached token.
	f.Reset()
	c, err = f.Zoom(ctx)
	require.NoError(t, err)
	_, err = c.ListUsers(ctx, rest.PageOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), tokenCalls.Load())
}

func TestFactory_Google_UsesEndpointOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/token":
			_, _ = w.Write([]byte(`{"access_token":"g-token","token_type":"Bearer","expires_in":3600}`))
		case strings.HasSuffix(r.URL.Path, "/files"):
			assert.Equal(t, "Bearer g-token", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"files":[]}`))
		default:
			t.Errorf("unexpected %s", r.URL.Path)
		}
	}))
	defer server.Close()

	f, _ := newTestFactory(t, fakeCredentials{
		domain.VendorGoogle: {
			"GOOGLE_CLIENT_ID":        "cid",
			"GOOGLE_CLIENT_SECRET":    "secret",
			"GOOGLE_REFRESH_TOKEN":    "refresh",
			"GOOGLE_UPLOAD_FOLDER_ID": "folder9",
		},
	}, map[string]any{
		"google.base_url":  server.URL,
		"google.token_url": server.URL + "/token",
	}, WithHTTPClient(server.Client()))

	ctx := context.Background()
	session, err := f.Google(ctx)
	require.NoError(t, err)
	svc, err := session.Drive(ctx)
	require.NoError(t, err)
	_, err = svc.Files.List().Context(ctx).Do()
	require.NoError(t, err)

	assert.Equal(t, "folder9", f.ImageFolder())
}
