package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/switchboard/internal/core/domain"
	"github.com/custodia-labs/switchboard/internal/core/ports/driven"
)

// Ensure TokenCache implements the interface.
var _ driven.TokenCache = (*TokenCache)(nil)

// TokenCache stores tokens at <dir>/<vendor>.json with 0600 permissions.
type TokenCache struct {
	dir string
}

// NewTokenCache creates a cache rooted at dir. The directory is created on
// first save.
func NewTokenCache(dir string) *TokenCache {
	return &TokenCache{dir: dir}
}

// Path returns the file holding vendor's token.
func (c *TokenCache) Path(vendor domain.VendorID) string {
	return filepath.Join(c.dir, string(vendor)+".json")
}

// Load reads the cached token. Returns domain.ErrNotFound when absent.
func (c *TokenCache) Load(vendor domain.VendorID) (*domain.OAuthToken, error) {
	data, err := os.ReadFile(c.Path(vendor))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading token cache: %w", err)
	}

	var token domain.OAuthToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("decoding token cache %s: %w", c.Path(vendor), err)
	}
	return &token, nil
}

// Save writes the token atomically via a temp file and rename.
func (c *TokenCache) Save(vendor domain.VendorID, token *domain.OAuthToken) error {
	if token == nil {
		return fmt.Errorf("%w: nil token", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(c.dir, 0700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, "."+string(vendor)+"-*.json")
	if err != nil {
		return fmt.Errorf("creating temp token file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting token file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing token file: %w", err)
	}
	if err := os.Rename(tmpName, c.Path(vendor)); err != nil {
		return fmt.Errorf("replacing token file: %w", err)
	}
	return nil
}

// Clear removes the cached token. A missing file is not an error.
func (c *TokenCache) Clear(vendor domain.VendorID) error {
	if err := os.Remove(c.Path(vendor)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing token cache: %w", err)
	}
	return nil
}
