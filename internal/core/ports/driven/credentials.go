package driven

import "github.com/custodia-labs/switchboard/internal/core/domain"

// CredentialsSource loads the secrets for a vendor.
// Values are read fresh on every call so edits take effect without restart.
type CredentialsSource interface {
	// Load returns the credentials for a vendor. A vendor with no values
	// at all returns empty Credentials, not an error.
	Load(vendor domain.VendorID) (domain.Credentials, error)

	// Path returns the file consulted for a vendor.
	Path(vendor domain.VendorID) string

	// Dir returns the directory holding credential files.
	Dir() string
}
