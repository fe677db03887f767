package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/switchboard/internal/adapters/driving/mcp"
	"github.com/custodia-labs/switchboard/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server exposing read-only connector tools:
x_search, zoom_meetings, clickup_tasks, hubspot_search, monday_items and
drive_search. Nothing that changes vendor data is exposed.

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead, for example for the MCP Inspector.

Credential files are watched while the server runs; editing one makes the
next tool call use the new values.

Examples:
  # Stdio mode (for desktop assistants)
  switchboard mcp serve

  # HTTP mode
  switchboard mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "switchboard": {
        "command": "/path/to/switchboard",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if services == nil {
		return errors.New("services not configured")
	}

	clients := services.ServerClients
	if clients == nil {
		clients = services.Clients
	}
	ports := &mcp.Ports{
		Clients:  clients,
		Vendors:  services.Vendors,
		Activity: services.Activity,
		MaxPages: pageOptions(0).MaxPages,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if clients != nil && services.Credentials != nil {
		dir := services.Credentials.Dir()
		go func() {
			if err := mcp.WatchCredentials(cmd.Context(), dir, clients.Reset); err != nil {
				logger.Warn("credential watcher stopped: %v", err)
			}
		}()
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
