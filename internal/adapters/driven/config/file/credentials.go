package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/switchboard/internal/core/domain"
	"github.com/custodia-labs/switchboard/internal/core/ports/driven"
)

// Ensure CredentialsSource implements the interface.
var _ driven.CredentialsSource = (*CredentialsSource)(nil)

// CredentialsSource reads <dir>/<vendor>.env files. Variables set in the
// process environment override values from the file.
type CredentialsSource struct {
	dir    string
	keys   func(domain.VendorID) []domain.CredentialKey
	getenv func(string) string
}

// NewCredentialsSource creates a source rooted at dir. keys reports which
// environment variables belong to a vendor.
func NewCredentialsSource(dir string, keys func(domain.VendorID) []domain.CredentialKey) *CredentialsSource {
	return &CredentialsSource{dir: dir, keys: keys, getenv: os.Getenv}
}

// Dir returns the directory holding credential files.
func (s *CredentialsSource) Dir() string {
	return s.dir
}

// Path returns the .env file consulted for vendor.
func (s *CredentialsSource) Path(vendor domain.VendorID) string {
	return filepath.Join(s.dir, string(vendor)+".env")
}

// Load reads the vendor's file (when present) and overlays the environment.
func (s *CredentialsSource) Load(vendor domain.VendorID) (domain.Credentials, error) {
	path := s.Path(vendor)
	creds := domain.Credentials{Vendor: vendor, Values: make(map[string]string)}

	fromFile := false
	values, err := godotenv.Read(path)
	switch {
	case err == nil:
		for k, v := range values {
			creds.Values[k] = v
		}
		fromFile = len(values) > 0
	case os.IsNotExist(err):
	default:
		return creds, fmt.Errorf("read %s: %w", path, err)
	}

	fromEnv := false
	if s.keys != nil {
		for _, k := range s.keys(vendor) {
			if v := s.getenv(k.Key); v != "" {
				creds.Values[k.Key] = v
				fromEnv = true
			}
		}
	}

	switch {
	case fromFile && fromEnv:
		creds.Source = path + " + environment"
	case fromEnv:
		creds.Source = "environment"
	default:
		creds.Source = path
	}
	return creds, nil
}
