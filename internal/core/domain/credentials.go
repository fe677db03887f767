package domain

import (
	"sort"
	"strings"
)

// Credentials holds the secrets loaded for one vendor.
// Values are keyed by environment-variable style names such as "ZOOM_CLIENT_ID".
type Credentials struct {
	// Vendor is the vendor these credentials belong to.
	Vendor VendorID
	// Values maps credential keys to their values.
	Values map[string]string
	// Source describes where the values were read from (file path or "environment").
	Source string
}

// Get returns the value for key, or empty string.
func (c Credentials) Get(key string) string {
	if c.Values == nil {
		return ""
	}
	return strings.TrimSpace(c.Values[key])
}

// Has returns true if key has a non-empty value.
func (c Credentials) Has(key string) bool {
	return c.Get(key) != ""
}

// Missing returns the required keys without a value, sorted.
func (c Credentials) Missing(keys []CredentialKey) []string {
	var missing []string
	for _, k := range keys {
		if k.Required && !c.Has(k.Key) {
			missing = append(missing, k.Key)
		}
	}
	sort.Strings(missing)
	return missing
}
