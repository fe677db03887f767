package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/switchboard/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// shutdownTimeout bounds how long open HTTP sessions get to drain.
const shutdownTimeout = 5 * time.Second

// Server exposes read-only vendor lookups to MCP clients.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "switchboard",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{Instructions: Instructions()}),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Instructions tells MCP clients what the server can and cannot do.
func Instructions() string {
	var b strings.Builder
	b.WriteString("switchboard answers read-only questions against X.com, Zoom, ClickUp, ")
	b.WriteString("HubSpot, Monday.com and Google Drive using the credentials configured for the CLI.\n")
	b.WriteString("Tools: " + strings.Join(ToolNames, ", ") + ".\n")
	b.WriteString("Listings stop at the configured page limit; a truncated result carries next_cursor.\n")
	b.WriteString("Nothing here posts, updates or deletes. Run the switchboard CLI for changes.\n")
	b.WriteString("Resources: " + uriScheme + "vendors, " + uriScheme + "history, " + uriScheme + "history/{vendor}.")
	return b.String()
}

// Run serves over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving %d tools over stdio", len(ToolNames))
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: http shutdown: %v", err)
		}
	}()

	logger.Debug("mcp: serving %d tools on %s", len(ToolNames), addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
