package driving

import "github.com/custodia-labs/switchboard/internal/core/domain"

// SettingsService reads typed settings from configuration.
type SettingsService interface {
	// Get returns the current settings. Invalid values fall back to defaults.
	Get() domain.Settings

	// BaseURL returns the configured API root of a vendor, or "" for the default.
	BaseURL(vendor domain.VendorID) string

	// TokenURL returns the configured OAuth token endpoint of a vendor, or "".
	TokenURL(vendor domain.VendorID) string

	// UploadURL returns the configured media upload endpoint of a vendor, or "".
	UploadURL(vendor domain.VendorID) string
}
