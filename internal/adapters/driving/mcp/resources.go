package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for switchboard resources.
	uriScheme = "switchboard://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "vendors",
		Name:        "vendors",
		Description: "Supported vendors and the credential keys each one reads",
		MIMEType:    "application/json",
	}, s.handleVendorsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recent mutating calls made through the CLI",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{vendor}",
		Name:        "vendor-history",
		Description: "Recent mutating calls against one vendor",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleVendorsResource returns the vendor catalogue.
func (s *Server) handleVendorsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type keyInfo struct {
		Key      string `json:"key"`
		Required bool   `json:"required"`
	}
	type vendorInfo struct {
		ID         string    `json:"id"`
		Name       string    `json:"name"`
		AuthMethod string    `json:"auth_method"`
		Keys       []keyInfo `json:"credential_keys"`
	}

	infos := []vendorInfo{}
	if s.ports.Vendors != nil {
		for _, v := range s.ports.Vendors.List() {
			info := vendorInfo{ID: string(v.ID), Name: v.Name, AuthMethod: string(v.AuthMethod)}
			for _, k := range v.CredentialKeys {
				info.Keys = append(info.Keys, keyInfo{Key: k.Key, Required: k.Required})
			}
			infos = append(infos, info)
		}
	}
	return jsonResource(req.Params.URI, infos)
}

// handleHistoryResource returns recent activity, optionally for one vendor.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	filter := domain.ActivityFilter{}
	if raw := extractVendor(req.Params.URI); raw != "" {
		vendor, err := domain.ParseVendorID(raw)
		if err != nil {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		filter.Vendor = vendor
	}

	records := []domain.ActivityRecord{}
	if s.ports.Activity != nil {
		recent, err := s.ports.Activity.Recent(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("listing activity: %w", err)
		}
		records = append(records, recent...)
	}
	return jsonResource(req.Params.URI, records)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractVendor extracts the vendor from a URI like switchboard://history/{vendor}.
func extractVendor(uri string) string {
	const prefix = uriScheme + "history/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
