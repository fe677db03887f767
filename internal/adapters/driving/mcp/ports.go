package mcp

import (
	"context"

	"github.com/custodia-labs/switchboard/internal/connectors/clickup"
	"github.com/custodia-labs/switchboard/internal/connectors/google"
	"github.com/custodia-labs/switchboard/internal/connectors/hubspot"
	"github.com/custodia-labs/switchboard/internal/connectors/monday"
	"github.com/custodia-labs/switchboard/internal/connectors/x"
	"github.com/custodia-labs/switchboard/internal/connectors/zoom"
	"github.com/custodia-labs/switchboard/internal/core/ports/driving"
)

// Clients builds authenticated vendor clients.
type Clients interface {
	X(ctx context.Context) (*x.Client, error)
	Zoom(ctx context.Context) (*zoom.Client, error)
	ClickUp(ctx context.Context) (*clickup.Client, error)
	HubSpot(ctx context.Context) (*hubspot.Client, error)
	Monday(ctx context.Context) (*monday.Client, error)
	Google(ctx context.Context) (*google.Session, error)
}

// Ports aggregates everything the MCP server calls into.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Clients provides the vendor clients behind every tool.
	Clients Clients

	// Vendors lists the supported vendors for the vendors resource.
	Vendors driving.VendorRegistry

	// Activity lists recorded mutations for the history resource.
	Activity driving.ActivityService

	// MaxPages caps every listing; zero uses the pagination default.
	MaxPages int
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Clients == nil {
		return ErrMissingClients
	}
	// Vendors and Activity are optional; their resources return empty lists.
	return nil
}
