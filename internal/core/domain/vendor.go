package domain

import (
	"fmt"
	"strings"
)

// VendorID identifies a supported SaaS API.
type VendorID string

const (
	// VendorX is X.com (formerly Twitter), API v2.
	VendorX VendorID = "x"
	// VendorZoom is Zoom, API v2.
	VendorZoom VendorID = "zoom"
	// VendorClickUp is ClickUp, API v2.
	VendorClickUp VendorID = "clickup"
	// VendorGoogle is Google Workspace (Docs, Drive, Gmail, Calendar, Sheets).
	VendorGoogle VendorID = "google"
	// VendorHubSpot is HubSpot CRM v3/v4.
	VendorHubSpot VendorID = "hubspot"
	// VendorMonday is Monday.com, GraphQL API v2.
	VendorMonday VendorID = "monday"
)

// AllVendors lists every vendor in display order.
func AllVendors() []VendorID {
	return []VendorID{VendorX, VendorZoom, VendorClickUp, VendorGoogle, VendorHubSpot, VendorMonday}
}

// ParseVendorID validates a vendor identifier, case-insensitively.
func ParseVendorID(s string) (VendorID, error) {
	id := VendorID(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range AllVendors() {
		if v == id {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedVendor, s)
}

// AuthMethod defines how a vendor authenticates requests.
type AuthMethod string

const (
	// AuthMethodOAuth1 signs every request with OAuth 1.0a HMAC-SHA1.
	AuthMethodOAuth1 AuthMethod = "oauth1"
	// AuthMethodOAuth2 exchanges credentials for short-lived bearer tokens.
	AuthMethodOAuth2 AuthMethod = "oauth2"
	// AuthMethodToken sends a long-lived API token with every request.
	AuthMethodToken AuthMethod = "token"
)

// Vendor describes a supported SaaS API.
type Vendor struct {
	// ID is the unique identifier used on the command line.
	ID VendorID
	// Name is the human-readable display name.
	Name string
	// Description provides a brief explanation of what the connector covers.
	Description string
	// BaseURL is the default API root; it can be overridden in config.
	BaseURL string
	// AuthMethod specifies how the vendor authenticates.
	AuthMethod AuthMethod
	// CredentialKeys lists the credential values the vendor reads.
	CredentialKeys []CredentialKey
	// CachesTokens is true when the vendor stores access tokens in the token cache.
	CachesTokens bool
}

// CredentialKey describes one credential value.
type CredentialKey struct {
	// Key is the environment-variable style name.
	Key string
	// Description explains where to obtain the value.
	Description string
	// Required indicates whether the vendor cannot work without it.
	Required bool
	// Secret indicates whether the value must be masked when displayed.
	Secret bool
}

// RequiredKeys returns the names of the required credential keys.
func (v *Vendor) RequiredKeys() []string {
	var keys []string
	for _, k := range v.CredentialKeys {
		if k.Required {
			keys = append(keys, k.Key)
		}
	}
	return keys
}
