package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/switchboard/internal/core/domain"
	"github.com/custodia-labs/switchboard/internal/core/ports/driven"
	"github.com/custodia-labs/switchboard/internal/logger"
)

// Ensure CachingTokenSource implements the oauth2.TokenSource interface.
var _ oauth2.TokenSource = (*CachingTokenSource)(nil)

// CachingTokenSource returns the cached access token while it is valid and
// asks the base source for a new one otherwise. New tokens are written to
// the token cache so the next invocation can reuse them.
type CachingTokenSource struct {
	vendor domain.VendorID
	base   oauth2.TokenSource
	cache  driven.TokenCache
	now    func() time.Time

	mu      sync.Mutex
	current *domain.OAuthToken
}

// NewCachingTokenSource wraps base with the token cache for vendor.
func NewCachingTokenSource(vendor domain.VendorID, base oauth2.TokenSource, cache driven.TokenCache) *CachingTokenSource {
	return &CachingTokenSource{
		vendor: vendor,
		base:   base,
		cache:  cache,
		now:    time.Now,
	}
}

// Token returns a valid access token.
func (s *CachingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.usable(s.current, now) {
		return toOAuth2(s.current), nil
	}

	if s.cache != nil {
		cached, err := s.cache.Load(s.vendor)
		switch {
		case err == nil && s.usable(cached, now):
			logger.Debug("using cached %s token (expires %s)", s.vendor, cached.Expiry.Format(time.RFC3339))
			s.current = cached
			return toOAuth2(cached), nil
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			logger.Warn("read %s token cache: %v", s.vendor, err)
		}
	}

	fresh, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", s.vendor, domain.ErrTokenRefreshFailed, err)
	}

	token := &domain.OAuthToken{
		AccessToken:  fresh.AccessToken,
		RefreshToken: fresh.RefreshToken,
		TokenType:    fresh.TokenType,
		Expiry:       fresh.Expiry,
	}
	s.current = token

	if s.cache != nil {
		if err := s.cache.Save(s.vendor, token); err != nil {
			logger.Warn("write %s token cache: %v", s.vendor, err)
		} else {
			logger.Info("token cached for %s", s.vendor)
		}
	}
	return toOAuth2(token), nil
}

func (s *CachingTokenSource) usable(t *domain.OAuthToken, now time.Time) bool {
	return t != nil && t.AccessToken != "" && !t.IsExpiredAt(now)
}

func toOAuth2(t *domain.OAuthToken) *oauth2.Token {
	tokenType := t.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    tokenType,
		Expiry:       t.Expiry,
	}
}
