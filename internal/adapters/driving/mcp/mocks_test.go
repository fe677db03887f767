package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/switchboard/internal/connectors/clickup"
	"github.com/custodia-labs/switchboard/internal/connectors/google"
	"github.com/custodia-labs/switchboard/internal/connectors/hubspot"
	"github.com/custodia-labs/switchboard/internal/connectors/monday"
	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/connectors/x"
	"github.com/custodia-labs/switchboard/internal/connectors/zoom"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

// fakeClients hands out real connector clients pointed at a test server.
type fakeClients struct {
	x       *x.Client
	zoom    *zoom.Client
	clickup *clickup.Client
	hubspot *hubspot.Client
	monday  *monday.Client
	google  *google.Session
	err     error
}

func (f *fakeClients) X(context.Context) (*x.Client, error) { return f.x, f.err }
func (f *fakeClients) Zoom(context.Context) (*zoom.Client, error) { return f.zoom, f.err }
func (f *fakeClients) ClickUp(context.Context) (*clickup.Client, error) { return f.clickup, f.err }
func (f *fakeClients) HubSpot(context.Context) (*hubspot.Client, error) { return f.hubspot, f.err }
func (f *fakeClients) Monday(context.Context) (*monday.Client, error) { return f.monday, f.err }
func (f *fakeClients) Google(context.Context) (*google.Session, error) { return f.google, f.err }

// newFakeClients starts a server routing /x, /zoom, /clickup, /hubspot,
// /monday and /google to the given handlers.
func newFakeClients(t *testing.T, mux *http.ServeMux) *fakeClients {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	opts := []rest.Option{rest.WithHTTPClient(server.Client()), rest.WithRateLimit(1000, 100)}
	token := rest.BearerAuth{Token: "test"}

	xc, err := x.NewClient(token, server.URL+"/x", server.URL+"/upload", opts...)
	require.NoError(t, err)
	zc, err := zoom.NewClient(token, server.URL+"/zoom", opts...)
	require.NoError(t, err)
	cc, err := clickup.NewClient("pk_test", server.URL+"/clickup", opts...)
	require.NoError(t, err)
	hc, err := hubspot.NewClient("pat-test", server.URL+"/hubspot", opts...)
	require.NoError(t, err)
	mc, err := monday.NewClient("m-test", server.URL+"/monday", opts...)
	require.NoError(t, err)
	session := google.NewSession(nil,
		google.WithEndpoint(server.URL+"/google/"),
		google.WithBaseTransport(server.Client().Transport),
		google.WithRateLimit(google.ServiceDrive, google.RateLimitConfig{RequestsPerSecond: 1000, BurstSize: 100}),
	)

	return &fakeClients{x: xc, zoom: zc, clickup: cc, hubspot: hc, monday: mc, google: session}
}

type mockVendorRegistry struct {
	vendors []domain.Vendor
}

func (m *mockVendorRegistry) List() []domain.Vendor {
	return m.vendors
}

func (m *mockVendorRegistry) Get(id domain.VendorID) (domain.Vendor, error) {
	for _, v := range m.vendors {
		if v.ID == id {
			return v, nil
		}
	}
	return domain.Vendor{}, domain.ErrUnsupportedVendor
}

type mockActivityService struct {
	records []domain.ActivityRecord
	filter  domain.ActivityFilter
	err     error
}

func (m *mockActivityService) Record(context.Context, domain.VendorID, string, string, string) {}

func (m *mockActivityService) Recent(_ context.Context, filter domain.ActivityFilter) ([]domain.ActivityRecord, error) {
	m.filter = filter
	return m.records, m.err
}
