package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

func TestVendorRegistry_List_DisplayOrder(t *testing.T) {
	vendors := NewVendorRegistry().List()

	require.Len(t, vendors, len(domain.AllVendors()))
	for i, id := range domain.AllVendors() {
		assert.Equal(t, id, vendors[i].ID)
		assert.NotEmpty(t, vendors[i].Name)
		assert.NotEmpty(t, vendors[i].BaseURL)
		assert.NotEmpty(t, vendors[i].RequiredKeys())
	}
}

func TestVendorRegistry_Get(t *testing.T) {
	r := NewVendorRegistry()

	zoom, err := r.Get(domain.VendorZoom)
	require.NoError(t, err)
	assert.Equal(t, domain.AuthMethodOAuth2, zoom.AuthMethod)
	assert.True(t, zoom.CachesTokens)
	assert.Equal(t, []string{"ZOOM_ACCOUNT_ID", "ZOOM_CLIENT_ID", "ZOOM_CLIENT_SECRET"}, zoom.RequiredKeys())

	_, err = r.Get("twitter")
	assert.ErrorIs(t, err, domain.ErrUnsupportedVendor)
}

func TestVendorRegistry_AuthMethods(t *testing.T) {
	r := NewVendorRegistry()

	tests := map[domain.VendorID]domain.AuthMethod{
		domain.VendorX:       domain.AuthMethodOAuth1,
		domain.VendorZoom:    domain.AuthMethodOAuth2,
		domain.VendorClickUp: domain.AuthMethodToken,
		domain.VendorGoogle:  domain.AuthMethodOAuth2,
		domain.VendorHubSpot: domain.AuthMethodToken,
		domain.VendorMonday:  domain.AuthMethodToken,
	}
	for id, method := range tests {
		v, err := r.Get(id)
		require.NoError(t, err)
		assert.Equal(t, method, v.AuthMethod, id)
	}
}

func TestVendorRegistry_CredentialKeys(t *testing.T) {
	r := NewVendorRegistry()

	keys := r.CredentialKeys(domain.VendorGoogle)
	require.Len(t, keys, 4)
	assert.False(t, keys[3].Required)
	assert.Nil(t, r.CredentialKeys("unknown"))
}
