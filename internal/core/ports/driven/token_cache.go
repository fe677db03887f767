package driven

import "github.com/custodia-labs/switchboard/internal/core/domain"

// TokenCache persists OAuth access tokens between invocations.
type TokenCache interface {
	// Load returns the cached token for a vendor.
	// Returns domain.ErrNotFound when nothing is cached.
	Load(vendor domain.VendorID) (*domain.OAuthToken, error)

	// Save stores a token, replacing any previous one.
	Save(vendor domain.VendorID, token *domain.OAuthToken) error

	// Clear removes the cached token. Clearing an absent token is not an error.
	Clear(vendor domain.VendorID) error
}
