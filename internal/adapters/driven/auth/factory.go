package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/switchboard/internal/connectors/clickup"
	"github.com/custodia-labs/switchboard/internal/connectors/google"
	"github.com/custodia-labs/switchboard/internal/connectors/hubspot"
	"github.com/custodia-labs/switchboard/internal/connectors/monday"
	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/connectors/x"
	"github.com/custodia-labs/switchboard/internal/connectors/zoom"
	"github.com/custodia-labs/switchboard/internal/core/domain"
	"github.com/custodia-labs/switchboard/internal/core/ports/driven"
	"github.com/custodia-labs/switchboard/internal/core/ports/driving"
	"github.com/custodia-labs/switchboard/internal/logger"
)

// Factory creates authenticated vendor clients from credentials and
// settings. Each client is built on first use and reused until Reset.
type Factory struct {
	vendors     driving.VendorRegistry
	settings    driving.SettingsService
	credentials driven.CredentialsSource
	tokens      driven.TokenCache

	httpClient *http.Client
	cache      bool

	mu      sync.Mutex
	x       *x.Client
	zoom    *zoom.Client
	clickup *clickup.Client
	hubspot *hubspot.Client
	monday  *monday.Client
	google  *google.Session
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithHTTPClient sends every vendor and token request through c.
func WithHTTPClient(c *http.Client) FactoryOption {
	return func(f *Factory) { f.httpClient = c }
}

// WithResponseCache enables conditional GET caching for long-lived processes.
func WithResponseCache() FactoryOption {
	return func(f *Factory) { f.cache = true }
}

// NewFactory creates a client factory.
func NewFactory(
	vendors driving.VendorRegistry,
	settings driving.SettingsService,
	credentials driven.CredentialsSource,
	tokens driven.TokenCache,
	opts ...FactoryOption,
) *Factory {
	f := &Factory{
		vendors:     vendors,
		settings:    settings,
		credentials: credentials,
		tokens:      tokens,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Reset drops every built client so the next call reloads credentials.
func (f *Factory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.x, f.zoom, f.clickup, f.hubspot, f.monday, f.google = nil, nil, nil, nil, nil, nil
	logger.Debug("vendor clients reset")
}

// Credentials loads the credentials of vendor and checks that every
// required key has a value.
func (f *Factory) Credentials(vendor domain.VendorID) (domain.Credentials, error) {
	v, err := f.vendors.Get(vendor)
	if err != nil {
		return domain.Credentials{}, err
	}
	creds, err := f.credentials.Load(vendor)
	if err != nil {
		return creds, fmt.Errorf("load %s credentials: %w", vendor, err)
	}
	if missing := creds.Missing(v.CredentialKeys); len(missing) > 0 {
		return creds, fmt.Errorf("%w for %s: %s (set them in %s or the environment)",
			domain.ErrMissingCredentials, vendor, strings.Join(missing, ", "), f.credentials.Path(vendor))
	}
	return creds, nil
}

// X returns the X.com client.
func (f *Factory) X(_ context.Context) (*x.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.x != nil {
		return f.x, nil
	}

	creds, err := f.Credentials(domain.VendorX)
	if err != nil {
		return nil, err
	}
	signer := NewOAuth1Signer(
		creds.Get("X_API_KEY"),
		creds.Get("X_API_SECRET"),
		creds.Get("X_ACCESS_TOKEN"),
		creds.Get("X_ACCESS_TOKEN_SECRET"),
	)
	c, err := x.NewClient(signer, f.settings.BaseURL(domain.VendorX), f.settings.UploadURL(domain.VendorX), f.restOptions()...)
	if err != nil {
		return nil, err
	}
	f.x = c
	return c, nil
}

// Zoom returns the Zoom client. Access tokens come from the account
// credentials grant and are kept in the token cache.
func (f *Factory) Zoom(ctx context.Context) (*zoom.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.zoom != nil {
		return f.zoom, nil
	}

	creds, err := f.Credentials(domain.VendorZoom)
	if err != nil {
		return nil, err
	}
	base := zoom.TokenSource(f.tokenContext(ctx),
		creds.Get("ZOOM_ACCOUNT_ID"),
		creds.Get("ZOOM_CLIENT_ID"),
		creds.Get("ZOOM_CLIENT_SECRET"),
		f.settings.TokenURL(domain.VendorZoom),
	)
	ts := NewCachingTokenSource(domain.VendorZoom, base, f.tokens)
	c, err := zoom.NewClient(rest.TokenSourceAuth{Source: ts}, f.settings.BaseURL(domain.VendorZoom), f.restOptions()...)
	if err != nil {
		return nil, err
	}
	f.zoom = c
	return c, nil
}

// ClickUp returns the ClickUp client.
func (f *Factory) ClickUp(_ context.Context) (*clickup.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clickup != nil {
		return f.clickup, nil
	}

	creds, err := f.Credentials(domain.VendorClickUp)
	if err != nil {
		return nil, err
	}
	c, err := clickup.NewClient(creds.Get("CLICKUP_API_TOKEN"), f.settings.BaseURL(domain.VendorClickUp), f.restOptions()...)
	if err != nil {
		return nil, err
	}
	f.clickup = c
	return c, nil
}

// HubSpot returns the HubSpot client.
func (f *Factory) HubSpot(_ context.Context) (*hubspot.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hubspot != nil {
		return f.hubspot, nil
	}

	creds, err := f.Credentials(domain.VendorHubSpot)
	if err != nil {
		return nil, err
	}
	c, err := hubspot.NewClient(creds.Get("HUBSPOT_ACCESS_TOKEN"), f.settings.BaseURL(domain.VendorHubSpot), f.restOptions()...)
	if err != nil {
		return nil, err
	}
	f.hubspot = c
	return c, nil
}

// Monday returns the Monday.com client.
func (f *Factory) Monday(_ context.Context) (*monday.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.monday != nil {
		return f.monday, nil
	}

	creds, err := f.Credentials(domain.VendorMonday)
	if err != nil {
		return nil, err
	}
	c, err := monday.NewClient(creds.Get("MONDAY_API_TOKEN"), f.settings.BaseURL(domain.VendorMonday), f.restOptions()...)
	if err != nil {
		return nil, err
	}
	f.monday = c
	return c, nil
}

// Google returns the Workspace session. The refresh token is exchanged for
// access tokens that are kept in the token cache.
func (f *Factory) Google(ctx context.Context) (*google.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.google != nil {
		return f.google, nil
	}

	creds, err := f.Credentials(domain.VendorGoogle)
	if err != nil {
		return nil, err
	}
	base := google.NewTokenSource(f.tokenContext(ctx),
		creds.Get("GOOGLE_CLIENT_ID"),
		creds.Get("GOOGLE_CLIENT_SECRET"),
		creds.Get("GOOGLE_REFRESH_TOKEN"),
		f.settings.TokenURL(domain.VendorGoogle),
	)
	ts := NewCachingTokenSource(domain.VendorGoogle, base, f.tokens)

	opts := []google.SessionOption{google.WithBaseTransport(f.transport())}
	if endpoint := f.settings.BaseURL(domain.VendorGoogle); endpoint != "" {
		opts = append(opts, google.WithEndpoint(strings.TrimRight(endpoint, "/")+"/"))
	}
	f.google = google.NewSession(ts, opts...)
	return f.google, nil
}

// ImageFolder returns the Drive folder for images uploaded into documents.
func (f *Factory) ImageFolder() string {
	creds, err := f.credentials.Load(domain.VendorGoogle)
	if err != nil {
		return ""
	}
	return creds.Get("GOOGLE_UPLOAD_FOLDER_ID")
}

func (f *Factory) restOptions() []rest.Option {
	opts := []rest.Option{rest.WithTimeout(f.settings.Get().HTTPTimeout)}
	if f.httpClient != nil {
		opts = append(opts, rest.WithHTTPClient(f.httpClient))
	}
	if f.cache {
		opts = append(opts, rest.WithCache())
	}
	return opts
}

// transport is the round tripper under the Google auth layer.
func (f *Factory) transport() http.RoundTripper {
	var rt http.RoundTripper = http.DefaultTransport
	if f.httpClient != nil && f.httpClient.Transport != nil {
		rt = f.httpClient.Transport
	}
	if f.cache {
		cached := httpcache.NewMemoryCacheTransport()
		cached.Transport = rt
		rt = cached
	}
	return rt
}

// tokenContext outlives the request that first builds a client, and routes
// token requests through the configured HTTP client.
func (f *Factory) tokenContext(ctx context.Context) context.Context {
	ctx = context.WithoutCancel(ctx)
	if f.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
	}
	return ctx
}
