package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOAuthToken_IsExpired_ZeroExpiry(t *testing.T) {
	token := &OAuthToken{AccessToken: "test-token"}

	assert.False(t, token.IsExpired(), "Token with zero expiry should not be expired")
}

func TestOAuthToken_IsExpired_FutureExpiry(t *testing.T) {
	token := &OAuthToken{
		AccessToken: "test-token",
		Expiry:      time.Now().Add(time.Hour),
	}

	assert.False(t, token.IsExpired())
}

func TestOAuthToken_IsExpired_PastExpiry(t *testing.T) {
	token := &OAuthToken{
		AccessToken: "test-token",
		Expiry:      time.Now().Add(-time.Hour),
	}

	assert.True(t, token.IsExpired())
}

func TestOAuthToken_IsExpiredAt_WithinSkew(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := &OAuthToken{
		AccessToken: "test-token",
		Expiry:      now.Add(ExpirySkew / 2),
	}

	assert.True(t, token.IsExpiredAt(now), "token expiring inside the skew window counts as expired")
	assert.False(t, token.IsExpiredAt(now.Add(-ExpirySkew)))
}

func TestOAuthToken_Valid(t *testing.T) {
	var nilToken *OAuthToken
	assert.False(t, nilToken.Valid())

	assert.False(t, (&OAuthToken{}).Valid())
	assert.True(t, (&OAuthToken{AccessToken: "a"}).Valid())
	assert.False(t, (&OAuthToken{AccessToken: "a", Expiry: time.Now().Add(-time.Minute)}).Valid())
}
