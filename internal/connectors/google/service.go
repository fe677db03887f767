package google

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Session builds Google API services sharing one token source. Each
// service gets its own rate limiter.
type Session struct {
	ts       oauth2.TokenSource
	base     http.RoundTripper
	endpoint string

	mu       sync.Mutex
	limiters map[ServiceType]*RateLimiter
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithBaseTransport sets the transport under the auth and rate limit layers.
func WithBaseTransport(rt http.RoundTripper) SessionOption {
	return func(s *Session) { s.base = rt }
}

// WithEndpoint points every service at endpoint instead of Google.
// Used for tests and proxies.
func WithEndpoint(endpoint string) SessionOption {
	return func(s *Session) { s.endpoint = endpoint }
}

// WithRateLimit overrides the limiter of one service.
func WithRateLimit(service ServiceType, cfg RateLimitConfig) SessionOption {
	return func(s *Session) { s.limiters[service] = NewRateLimiterWithConfig(service, cfg) }
}

// NewSession creates a session. A nil ts sends unauthenticated requests.
func NewSession(ts oauth2.TokenSource, opts ...SessionOption) *Session {
	s := &Session{ts: ts, limiters: make(map[ServiceType]*RateLimiter)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limiter returns the rate limiter of a service.
func (s *Session) Limiter(service ServiceType) *RateLimiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[service]
	if !ok {
		l = NewRateLimiter(service)
		s.limiters[service] = l
	}
	return l
}

func (s *Session) clientOptions(service ServiceType) []option.ClientOption {
	rt := s.base
	if rt == nil {
		rt = http.DefaultTransport
	}
	if s.ts != nil {
		rt = &oauth2.Transport{Source: s.ts, Base: rt}
	}
	client := &http.Client{Transport: s.Limiter(service).Transport(rt)}

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if s.endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.endpoint))
	}
	return opts
}

// Docs creates a Google Docs API service.
func (s *Session) Docs(ctx context.Context) (*docs.Service, error) {
	svc, err := docs.NewService(ctx, s.clientOptions(ServiceDocs)...)
	if err != nil {
		return nil, fmt.Errorf("create docs service: %w", err)
	}
	return svc, nil
}

// Drive creates a Google Drive API service.
func (s *Session) Drive(ctx context.Context) (*drive.Service, error) {
	svc, err := drive.NewService(ctx, s.clientOptions(ServiceDrive)...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return svc, nil
}

// Gmail creates a Gmail API service.
func (s *Session) Gmail(ctx context.Context) (*gmail.Service, error) {
	svc, err := gmail.NewService(ctx, s.clientOptions(ServiceGmail)...)
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return svc, nil
}

// Calendar creates a Google Calendar API service.
func (s *Session) Calendar(ctx context.Context) (*calendar.Service, error) {
	svc, err := calendar.NewService(ctx, s.clientOptions(ServiceCalendar)...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return svc, nil
}

// Sheets creates a Google Sheets API service.
func (s *Session) Sheets(ctx context.Context) (*sheets.Service, error) {
	svc, err := sheets.NewService(ctx, s.clientOptions(ServiceSheets)...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}
