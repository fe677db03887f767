package memory

import (
	"sync"

	"github.com/custodia-labs/switchboard/internal/core/domain"
	"github.com/custodia-labs/switchboard/internal/core/ports/driven"
)

// Ensure TokenCache implements the interface.
var _ driven.TokenCache = (*TokenCache)(nil)

// TokenCache is an in-memory implementation of driven.TokenCache for testing.
type TokenCache struct {
	mu     sync.RWMutex
	tokens map[domain.VendorID]domain.OAuthToken
}

// NewTokenCache creates an empty token cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{tokens: make(map[domain.VendorID]domain.OAuthToken)}
}

// Load returns the cached token for vendor.
func (c *TokenCache) Load(vendor domain.VendorID) (*domain.OAuthToken, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tokens[vendor]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

// Save stores a copy of token.
func (c *TokenCache) Save(vendor domain.VendorID, token *domain.OAuthToken) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[vendor] = *token
	return nil
}

// Clear removes the cached token.
func (c *TokenCache) Clear(vendor domain.VendorID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tokens, vendor)
	return nil
}
