package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/switchboard/internal/adapters/driving/mcp"
	"github.com/custodia-labs/switchboard/internal/connectors/google"
	"github.com/custodia-labs/switchboard/internal/connectors/monday"
	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/core/domain"
	"github.com/custodia-labs/switchboard/internal/core/ports/driven"
	"github.com/custodia-labs/switchboard/internal/core/ports/driving"
	"github.com/custodia-labs/switchboard/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// ClientFactory builds authenticated vendor clients.
type ClientFactory interface {
	mcp.Clients
	// ImageFolder returns the Drive folder for images uploaded into Docs, or "".
	ImageFolder() string
	// Reset drops cached clients so credentials are reloaded.
	Reset()
}

// Services holds everything the commands depend on.
type Services struct {
	Clients ClientFactory
	// ServerClients serves `mcp serve` and caches responses.
	// Nil falls back to Clients.
	ServerClients ClientFactory
	Vendors       driving.VendorRegistry
	Activity      driving.ActivityService
	Settings      driving.SettingsService
	Config        driven.ConfigStore
	Credentials   driven.CredentialsSource
	Tokens        driven.TokenCache
	// Confirmer gates destructive commands. Nil uses the terminal.
	Confirmer driven.Confirmer
	// Close releases held resources such as the history database.
	Close func() error
}

// Bootstrap builds the services for a switchboard home directory.
// An empty home means the default location.
type Bootstrap func(home string) (*Services, error)

var (
	services  *Services
	bootstrap Bootstrap
)

// Global flags.
var (
	flagVerbose   bool
	flagYes       bool
	flagOutput    string
	flagMaxPages  int
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "switchboard",
	Short: "Command-line connectors for SaaS APIs",
	Long: `Switchboard wraps the APIs of X, Zoom, ClickUp, Google Workspace,
HubSpot and Monday.com behind one command line.

Credentials are read from <home>/credentials/<vendor>.env, with environment
variables taking precedence. Run 'switchboard vendors' to see the keys each
vendor needs and 'switchboard auth status' to check what is configured.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log API calls to stderr")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "skip confirmation prompts")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", outputJSON, "output format (json, table)")
	rootCmd.PersistentFlags().IntVar(&flagMaxPages, "max-pages", 0, "page limit for listings (0 = pagination.max_pages)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "switchboard home directory (default $SWITCHBOARD_HOME or ~/.switchboard)")
}

// Execute runs the command line and returns the process exit code.
// SIGINT and SIGTERM cancel the command's context.
func Execute(b Bootstrap) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap = b
	err := rootCmd.ExecuteContext(ctx)
	if services != nil && services.Close != nil {
		if cerr := services.Close(); cerr != nil {
			logger.Warn("closing services: %v", cerr)
		}
	}
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)
	if flagOutput != outputJSON && flagOutput != outputTable {
		return fmt.Errorf("%w: --output %q, want %s or %s", domain.ErrInvalidInput, flagOutput, outputJSON, outputTable)
	}
	if services != nil || bootstrap == nil {
		return nil
	}

	s, err := bootstrap(flagConfigDir)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	services = s
	return nil
}

// printError writes the top-level error report.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", err)
	if code := statusCode(err); code != 0 {
		fmt.Fprintf(w, "Status: %d\n", code)
	}
}

// statusCode finds the HTTP status behind err across the connector error types.
func statusCode(err error) int {
	if code := rest.StatusCode(err); code != 0 {
		return code
	}
	var gqlErr *monday.GraphQLError
	if errors.As(err, &gqlErr) && gqlErr.StatusCode != 0 {
		return gqlErr.StatusCode
	}
	return google.StatusCode(err)
}

func clientFactory() (ClientFactory, error) {
	if services == nil || services.Clients == nil {
		return nil, errors.New("vendor clients not configured")
	}
	return services.Clients, nil
}

// pageOptions applies --max-pages, falling back to the configured limit.
func pageOptions(pageSize int) rest.PageOptions {
	maxPages := flagMaxPages
	if maxPages <= 0 && services != nil && services.Settings != nil {
		maxPages = services.Settings.Get().MaxPages
	}
	return rest.PageOptions{MaxPages: maxPages, PageSize: pageSize}
}

// recordActivity adds a mutating call to the history.
func recordActivity(ctx context.Context, vendor domain.VendorID, action, resourceID, detail string) {
	if services == nil || services.Activity == nil {
		return
	}
	services.Activity.Record(ctx, vendor, action, resourceID, detail)
}
