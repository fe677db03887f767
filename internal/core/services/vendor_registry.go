package services

import (
	"fmt"

	"github.com/custodia-labs/switchboard/internal/connectors/clickup"
	"github.com/custodia-labs/switchboard/internal/connectors/hubspot"
	"github.com/custodia-labs/switchboard/internal/connectors/monday"
	"github.com/custodia-labs/switchboard/internal/connectors/x"
	"github.com/custodia-labs/switchboard/internal/connectors/zoom"
	"github.com/custodia-labs/switchboard/internal/core/domain"
	"github.com/custodia-labs/switchboard/internal/core/ports/driving"
)

// Ensure VendorRegistry implements the interface.
var _ driving.VendorRegistry = (*VendorRegistry)(nil)

// googleBaseURL is the root shared by the Workspace APIs.
const googleBaseURL = "https://www.googleapis.com/"

// VendorRegistry provides information about the supported vendors.
type VendorRegistry struct {
	vendors map[domain.VendorID]domain.Vendor
}

// NewVendorRegistry creates a registry with every built-in vendor.
func NewVendorRegistry() *VendorRegistry {
	r := &VendorRegistry{vendors: make(map[domain.VendorID]domain.Vendor)}
	r.registerBuiltinVendors()
	return r
}

func (r *VendorRegistry) registerBuiltinVendors() {
	r.registerX()
	r.registerZoom()
	r.registerClickUp()
	r.registerGoogle()
	r.registerHubSpot()
	r.registerMonday()
}

func (r *VendorRegistry) registerX() {
	r.vendors[domain.VendorX] = domain.Vendor{
		ID:          domain.VendorX,
		Name:        "X",
		Description: "Tweets, threads, likes, timelines and recent search",
		BaseURL:     x.DefaultBaseURL,
		AuthMethod:  domain.AuthMethodOAuth1,
		CredentialKeys: []domain.CredentialKey{
			{Key: "X_API_KEY", Description: "Consumer key from the developer portal", Required: true, Secret: true},
			{Key: "X_API_SECRET", Description: "Consumer secret from the developer portal", Required: true, Secret: true},
			{Key: "X_ACCESS_TOKEN", Description: "User access token with read and write permission", Required: true, Secret: true},
			{Key: "X_ACCESS_TOKEN_SECRET", Description: "User access token secret", Required: true, Secret: true},
		},
	}
}

func (r *VendorRegistry) registerZoom() {
	r.vendors[domain.VendorZoom] = domain.Vendor{
		ID:          domain.VendorZoom,
		Name:        "Zoom",
		Description: "Users, meetings and cloud recordings",
		BaseURL:     zoom.DefaultBaseURL,
		AuthMethod:  domain.AuthMethodOAuth2,
		CredentialKeys: []domain.CredentialKey{
			{Key: "ZOOM_ACCOUNT_ID", Description: "Account ID of the server-to-server OAuth app", Required: true},
			{Key: "ZOOM_CLIENT_ID", Description: "Client ID of the server-to-server OAuth app", Required: true},
			{Key: "ZOOM_CLIENT_SECRET", Description: "Client secret of the server-to-server OAuth app", Required: true, Secret: true},
		},
		CachesTokens: true,
	}
}

func (r *VendorRegistry) registerClickUp() {
	r.vendors[domain.VendorClickUp] = domain.Vendor{
		ID:          domain.VendorClickUp,
		Name:        "ClickUp",
		Description: "Workspaces, spaces, lists, tasks and comments",
		BaseURL:     clickup.DefaultBaseURL,
		AuthMethod:  domain.AuthMethodToken,
		CredentialKeys: []domain.CredentialKey{
			{Key: "CLICKUP_API_TOKEN", Description: "Personal API token (pk_...)", Required: true, Secret: true},
		},
	}
}

func (r *VendorRegistry) registerGoogle() {
	r.vendors[domain.VendorGoogle] = domain.Vendor{
		ID:          domain.VendorGoogle,
		Name:        "Google Workspace",
		Description: "Docs, Drive, Gmail, Calendar and Sheets",
		BaseURL:     googleBaseURL,
		AuthMethod:  domain.AuthMethodOAuth2,
		CredentialKeys: []domain.CredentialKey{
			{Key: "GOOGLE_CLIENT_ID", Description: "OAuth client ID", Required: true},
			{Key: "GOOGLE_CLIENT_SECRET", Description: "OAuth client secret", Required: true, Secret: true},
			{Key: "GOOGLE_REFRESH_TOKEN", Description: "Refresh token granted for the Workspace scopes", Required: true, Secret: true},
			{Key: "GOOGLE_UPLOAD_FOLDER_ID", Description: "Drive folder for images uploaded into documents"},
		},
		CachesTokens: true,
	}
}

func (r *VendorRegistry) registerHubSpot() {
	r.vendors[domain.VendorHubSpot] = domain.Vendor{
		ID:          domain.VendorHubSpot,
		Name:        "HubSpot",
		Description: "CRM contacts, companies, deals, tickets and associations",
		BaseURL:     hubspot.DefaultBaseURL,
		AuthMethod:  domain.AuthMethodToken,
		CredentialKeys: []domain.CredentialKey{
			{Key: "HUBSPOT_ACCESS_TOKEN", Description: "Private app access token", Required: true, Secret: true},
		},
	}
}

func (r *VendorRegistry) registerMonday() {
	r.vendors[domain.VendorMonday] = domain.Vendor{
		ID:          domain.VendorMonday,
		Name:        "Monday.com",
		Description: "Boards, items, column values and updates",
		BaseURL:     monday.DefaultBaseURL,
		AuthMethod:  domain.AuthMethodToken,
		CredentialKeys: []domain.CredentialKey{
			{Key: "MONDAY_API_TOKEN", Description: "Personal API token", Required: true, Secret: true},
		},
	}
}

// List returns all vendors in display order.
func (r *VendorRegistry) List() []domain.Vendor {
	result := make([]domain.Vendor, 0, len(r.vendors))
	for _, id := range domain.AllVendors() {
		if v, ok := r.vendors[id]; ok {
			result = append(result, v)
		}
	}
	return result
}

// Get returns a vendor by ID.
func (r *VendorRegistry) Get(id domain.VendorID) (domain.Vendor, error) {
	v, ok := r.vendors[id]
	if !ok {
		return domain.Vendor{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedVendor, id)
	}
	return v, nil
}

// CredentialKeys returns the credential keys of a vendor, or nil.
func (r *VendorRegistry) CredentialKeys(id domain.VendorID) []domain.CredentialKey {
	return r.vendors[id].CredentialKeys
}
