package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestExtractVendor(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"switchboard://history/zoom", "zoom"},
		{"switchboard://history/", ""},
		{"switchboard://history", ""},
		{"switchboard://vendors", ""},
		{"other://history/zoom", ""},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, extractVendor(tt.uri))
		})
	}
}

func TestServer_handleVendorsResource(t *testing.T) {
	vendors := &mockVendorRegistry{vendors: []domain.Vendor{{
		ID:         domain.VendorClickUp,
		Name:       "ClickUp",
		AuthMethod: domain.AuthMethodToken,
		CredentialKeys: []domain.CredentialKey{
			{Key: "CLICKUP_API_TOKEN", Required: true, Secret: true},
		},
	}}}
	server, err := NewServer(&Ports{Clients: &fakeClients{}, Vendors: vendors})
	require.NoError(t, err)

	result, err := server.handleVendorsResource(context.Background(), readRequest("switchboard://vendors"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.JSONEq(t, `[{"id":"clickup","name":"ClickUp","auth_method":"token",
		"credential_keys":[{"key":"CLICKUP_API_TOKEN","required":true}]}]`, result.Contents[0].Text)
}

func TestServer_handleVendorsResource_NoRegistry(t *testing.T) {
	server, err := NewServer(&Ports{Clients: &fakeClients{}})
	require.NoError(t, err)

	result, err := server.handleVendorsResource(context.Background(), readRequest("switchboard://vendors"))

	require.NoError(t, err)
	assert.Equal(t, "[]", result.Contents[0].Text)
}

func TestServer_handleHistoryResource(t *testing.T) {
	created := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	activity := &mockActivityService{records: []domain.ActivityRecord{{
		ID:         "a1",
		Vendor:     domain.VendorZoom,
		Action:     "meeting.create",
		ResourceID: "857",
		CreatedAt:  created,
	}}}
	server, err := NewServer(&Ports{Clients: &fakeClients{}, Activity: activity})
	require.NoError(t, err)

	t.Run("all vendors", func(t *testing.T) {
		result, err := server.handleHistoryResource(context.Background(), readRequest("switchboard://history"))
		require.NoError(t, err)

		var records []domain.ActivityRecord
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "meeting.create", records[0].Action)
		assert.True(t, created.Equal(records[0].CreatedAt))
		assert.Empty(t, activity.filter.Vendor)
	})

	t.Run("one vendor", func(t *testing.T) {
		_, err := server.handleHistoryResource(context.Background(), readRequest("switchboard://history/Zoom"))
		require.NoError(t, err)
		assert.Equal(t, domain.VendorZoom, activity.filter.Vendor)
	})

	t.Run("unknown vendor", func(t *testing.T) {
		_, err := server.handleHistoryResource(context.Background(), readRequest("switchboard://history/slack"))
		assert.Error(t, err)
	})
}

func TestServer_handleHistoryResource_Errors(t *testing.T) {
	activity := &mockActivityService{err: errors.New("database is locked")}
	server, err := NewServer(&Ports{Clients: &fakeClients{}, Activity: activity})
	require.NoError(t, err)

	_, err = server.handleHistoryResource(context.Background(), readRequest("switchboard://history"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestServer_handleHistoryResource_NoActivity(t *testing.T) {
	server, err := NewServer(&Ports{Clients: &fakeClients{}})
	require.NoError(t, err)

	result, err := server.handleHistoryResource(context.Background(), readRequest("switchboard://history"))

	require.NoError(t, err)
	assert.Equal(t, "[]", result.Contents[0].Text)
}
