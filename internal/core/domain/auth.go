package domain

import "time"

// ExpirySkew is subtracted from a token's expiry so a token is never used
// in the last moments of its lifetime.
const ExpirySkew = 60 * time.Second

// OAuthToken represents a cached OAuth 2.0 access token.
type OAuthToken struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// Expiry is when the access token expires.
	Expiry time.Time `json:"expiry,omitempty"`
}

// IsExpired returns true if the token has expired or expires within ExpirySkew.
// A zero expiry never expires.
func (t *OAuthToken) IsExpired() bool {
	return t.IsExpiredAt(time.Now())
}

// IsExpiredAt reports expiry relative to now.
func (t *OAuthToken) IsExpiredAt(now time.Time) bool {
	if t.Expiry.IsZero() {
		return false
	}
	return !now.Add(ExpirySkew).Before(t.Expiry)
}

// Valid returns true if the token has an access token and is not expired.
func (t *OAuthToken) Valid() bool {
	return t != nil && t.AccessToken != "" && !t.IsExpired()
}
