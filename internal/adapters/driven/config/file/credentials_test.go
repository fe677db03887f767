package file

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

func zoomKeys(domain.VendorID) []domain.CredentialKey {
	return []domain.CredentialKey{
		{Key: "ZOOM_ACCOUNT_ID", Required: true},
		{Key: "ZOOM_CLIENT_ID", Required: true},
		{Key: "ZOOM_CLIENT_SECRET", Required: true, Secret: true},
	}
}

func newTestSource(t *testing.T, env map[string]string) (*CredentialsSource, string) {
	t.Helper()
	dir := t.TempDir()
	s := NewCredentialsSource(dir, zoomKeys)
	s.getenv = func(k string) string { return env[k] }
	return s, dir
}

func TestCredentialsSource_Path(t *testing.T) {
	s, dir := newTestSource(t, nil)

	assert.Equal(t, dir, s.Dir())
	assert.Equal(t, filepath.Join(dir, "zoom.env"), s.Path(domain.VendorZoom))
}

func TestCredentialsSource_LoadFile(t *testing.T) {
	s, dir := newTestSource(t, nil)
	content := "# zoom server-to-server app\nZOOM_ACCOUNT_ID=acc\nZOOM_CLIENT_ID=\"cid\"\nZOOM_CLIENT_SECRET=secret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zoom.env"), []byte(content), 0600))

	creds, err := s.Load(domain.VendorZoom)
	require.NoError(t, err)

	assert.Equal(t, domain.VendorZoom, creds.Vendor)
	assert.Equal(t, "acc", creds.Get("ZOOM_ACCOUNT_ID"))
	assert.Equal(t, "cid", creds.Get("ZOOM_CLIENT_ID"))
	assert.Equal(t, "secret", creds.Get("ZOOM_CLIENT_SECRET"))
	assert.Equal(t, s.Path(domain.VendorZoom), creds.Source)
	assert.Empty(t, creds.Missing(zoomKeys(domain.VendorZoom)))
}

func TestCredentialsSource_EnvironmentWins(t *testing.T) {
	s, dir := newTestSource(t, map[string]string{"ZOOM_CLIENT_ID": "from-env"})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zoom.env"), []byte("ZOOM_CLIENT_ID=from-file\nZOOM_ACCOUNT_ID=acc\n"), 0600))

	creds, err := s.Load(domain.VendorZoom)
	require.NoError(t, err)

	assert.Equal(t, "from-env", creds.Get("ZOOM_CLIENT_ID"))
	assert.Equal(t, "acc", creds.Get("ZOOM_ACCOUNT_ID"))
	assert.Contains(t, creds.Source, "environment")
	assert.Contains(t, creds.Source, "zoom.env")
}

func TestCredentialsSource_MissingFile(t *testing.T) {
	s, _ := newTestSource(t, nil)

	creds, err := s.Load(domain.VendorZoom)
	require.NoError(t, err)

	assert.Empty(t, creds.Values)
	assert.Equal(t, []string{"ZOOM_ACCOUNT_ID", "ZOOM_CLIENT_ID", "ZOOM_CLIENT_SECRET"}, creds.Missing(zoomKeys(domain.VendorZoom)))
}

func TestCredentialsSource_EnvironmentOnly(t *testing.T) {
	s, _ := newTestSource(t, map[string]string{"ZOOM_ACCOUNT_ID": "acc"})

	creds, err := s.Load(domain.VendorZoom)
	require.NoError(t, err)

	assert.Equal(t, "environment", creds.Source)
	assert.Equal(t, "acc", creds.Get("ZOOM_ACCOUNT_ID"))
}

func TestCredentialsSource_UnreadableFile(t *testing.T) {
	s, dir := newTestSource(t, nil)
	// A directory where the file should be cannot be parsed.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "zoom.env"), 0700))

	_, err := s.Load(domain.VendorZoom)
	require.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}
