// Command switchboard wraps the APIs of X, Zoom, ClickUp, Google Workspace,
// HubSpot and Monday.com behind one command line and an MCP server.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/switchboard/internal/adapters/driven/auth"
	"github.com/custodia-labs/switchboard/internal/adapters/driven/config/file"
	tokenfile "github.com/custodia-labs/switchboard/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/switchboard/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/switchboard/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/switchboard/internal/adapters/driving/cli"
	"github.com/custodia-labs/switchboard/internal/core/ports/driven"
	"github.com/custodia-labs/switchboard/internal/core/services"
)

func main() {
	os.Exit(cli.Execute(bootstrap))
}

// bootstrap wires the adapters for a switchboard home directory.
func bootstrap(home string) (*cli.Services, error) {
	// 1. Configuration, from config.toml under home.
	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settings := services.NewSettingsService(configStore)
	registry := services.NewVendorRegistry()

	// 2. Credentials and cached access tokens.
	credentials := file.NewCredentialsSource(configStore.GetString(file.KeyCredentialsDir), registry.CredentialKeys)
	tokens := tokenfile.NewTokenCache(configStore.GetString(file.KeyTokensDir))

	// 3. Activity history. Disabled history keeps records for this run only.
	var activityStore driven.ActivityStore = memory.NewActivityStore()
	closeStore := activityStore.Close
	if settings.Get().HistoryEnabled {
		db, err := sqlite.NewStore(filepath.Join(configStore.Dir(), "data"))
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		activityStore = db.ActivityStore()
		closeStore = db.Close
	}

	// 4. Vendor clients. The MCP server is long-lived and revalidates
	// cached GET responses.
	clients := auth.NewFactory(registry, settings, credentials, tokens)
	serverClients := auth.NewFactory(registry, settings, credentials, tokens, auth.WithResponseCache())

	return &cli.Services{
		Clients:       clients,
		ServerClients: serverClients,
		Vendors:       registry,
		Activity:      services.NewActivityService(activityStore),
		Settings:      settings,
		Config:        configStore,
		Credentials:   credentials,
		Tokens:        tokens,
		Close:         closeStore,
	}, nil
}
