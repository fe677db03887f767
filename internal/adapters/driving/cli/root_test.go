package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/switchboard/internal/adapters/driven/config/file"
	"github.com/custodia-labs/switchboard/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/switchboard/internal/connectors/clickup"
	"github.com/custodia-labs/switchboard/internal/connectors/google"
	"github.com/custodia-labs/switchboard/internal/connectors/hubspot"
	"github.com/custodia-labs/switchboard/internal/connectors/monday"
	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/connectors/x"
	"github.com/custodia-labs/switchboard/internal/connectors/zoom"
	"github.com/custodia-labs/switchboard/internal/core/domain"
	coreservices "github.com/custodia-labs/switchboard/internal/core/services"
)

// fakeFactory hands out real connector clients pointed at a test server.
type fakeFactory struct {
	x           *x.Client
	zoom        *zoom.Client
	clickup     *clickup.Client
	hubspot     *hubspot.Client
	monday      *monday.Client
	google      *google.Session
	imageFolder string
	resets      int
	err         error
}

func (f *fakeFactory) X(context.Context) (*x.Client, error) { return f.x, f.err }
func (f *fakeFactory) Zoom(context.Context) (*zoom.Client, error) { return f.zoom, f.err }
func (f *fakeFactory) ClickUp(context.Context) (*clickup.Client, error) { return f.clickup, f.err }
func (f *fakeFactory) HubSpot(context.Context) (*hubspot.Client, error) { return f.hubspot, f.err }
func (f *fakeFactory) Monday(context.Context) (*monday.Client, error) { return f.monday, f.err }
func (f *fakeFactory) Google(context.Context) (*google.Session, error) { return f.google, f.err }
func (f *fakeFactory) ImageFolder() string { return f.imageFolder }
func (f *fakeFactory) Reset() { f.resets++ }

// stubConfirmer answers every prompt with answer.
type stubConfirmer struct {
	answer  error
	prompts []string
}

func (s *stubConfirmer) Confirm(prompt string) error {
	s.prompts = append(s.prompts, prompt)
	return s.answer
}

// testEnv wires the package services to in-memory stores and a test server
// routing /x, /upload, /zoom, /clickup, /hubspot, /monday and /google.
type testEnv struct {
	clients   *fakeFactory
	activity  *memory.ActivityStore
	config    *memory.ConfigStore
	tokens    *memory.TokenCache
	confirmer *stubConfirmer
	credDir   string
}

func newTestEnv(t *testing.T, mux *http.ServeMux) *testEnv {
	t.Helper()
	if mux == nil {
		mux = http.NewServeMux()
	}
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

	registry := coreservices.NewVendorRegistry()
	env := &testEnv{
		clients:   &fakeFactory{x: xc, zoom: zc, clickup: cc, hubspot: hc, monday: mc, google: session},
		activity:  memory.NewActivityStore(),
		config:    memory.NewConfigStore(),
		tokens:    memory.NewTokenCache(),
		confirmer: &stubConfirmer{},
		credDir:   t.TempDir(),
	}
	services = &Services{
		Clients:     env.clients,
		Vendors:     registry,
		Activity:    coreservices.NewActivityService(env.activity),
		Settings:    coreservices.NewSettingsService(env.config),
		Config:      env.config,
		Credentials: file.NewCredentialsSource(env.credDir, registry.CredentialKeys),
		Tokens:      env.tokens,
		Confirmer:   env.confirmer,
	}
	t.Cleanup(func() {
		services = nil
		resetFlags(rootCmd)
	})
	return env
}

// run executes the command line and returns what it wrote to stdout and stderr.
func (e *testEnv) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	resetFlags(rootCmd)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// history returns the recorded activity, newest first.
func (e *testEnv) history(t *testing.T) []domain.ActivityRecord {
	t.Helper()
	records, err := e.activity.List(context.Background(), domain.ActivityFilter{Limit: 100})
	require.NoError(t, err)
	return records
}

// resetFlags restores every flag to its default so flag values do not leak
// between test runs of the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestRootCmd_RegistersVendorCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"x", "zoom", "clickup", "google", "hubspot", "monday",
		"vendors", "auth", "config", "history", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestSetup_RejectsUnknownOutput(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _, err := env.run("vendors", "--output", "yaml")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExecute_BootstrapsWithConfigDir(t *testing.T) {
	services = nil
	defer func() {
		services = nil
		bootstrap = nil
	}()

	var gotHome string
	closed := false
	b := func(home string) (*Services, error) {
		gotHome = home
		return &Services{
			Vendors: coreservices.NewVendorRegistry(),
			Close: func() error {
				closed = true
				return nil
			},
		}, nil
	}

	var stdout bytes.Buffer
	resetFlags(rootCmd)
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"--config-dir", "/tmp/sb-home", "vendors"})
	defer rootCmd.SetArgs(nil)

	code := Execute(b)

	assert.Equal(t, 0, code)
	assert.Equal(t, "/tmp/sb-home", gotHome)
	assert.True(t, closed)
	assert.Contains(t, stdout.String(), `"id": "zoom"`)
}

func TestExecute_ReportsBootstrapFailure(t *testing.T) {
	services = nil
	defer func() {
		services = nil
		bootstrap = nil
	}()

	var stderr bytes.Buffer
	resetFlags(rootCmd)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"vendors"})
	defer rootCmd.SetArgs(nil)

	code := Execute(func(string) (*Services, error) { return nil, errors.New("disk full") })

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error: initialise: disk full")
}

func TestPrintError_IncludesStatus(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, &rest.APIError{Vendor: "zoom", StatusCode: 403, Message: "no scope", Method: "GET", URL: "/users"})

	assert.Contains(t, buf.String(), "Error: zoom: API error 403: no scope")
	assert.Contains(t, buf.String(), "Status: 403\n")
}

func TestPrintError_RateLimited(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, &rest.RateLimitError{Vendor: "x"})

	assert.Contains(t, buf.String(), "Status: 429")
}

func TestPrintError_WithoutStatus(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.New("boom"))

	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestPageOptions(t *testing.T) {
	env := newTestEnv(t, nil)

	assert.Equal(t, rest.PageOptions{MaxPages: 10, PageSize: 25}, pageOptions(25))

	require.NoError(t, env.config.Set("pagination.max_pages", int64(3)))
	assert.Equal(t, 3, pageOptions(0).MaxPages)

	flagMaxPages = 7
	assert.Equal(t, 7, pageOptions(0).MaxPages)
}

func TestClientFactory_NotConfigured(t *testing.T) {
	services = nil

	_, err := clientFactory()

	assert.Error(t, err)
}

func TestVendorClientError_Propagates(t *testing.T) {
	env := newTestEnv(t, nil)
	env.clients.err = domain.ErrMissingCredentials

	_, _, err := env.run("clickup", "teams")

	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}
