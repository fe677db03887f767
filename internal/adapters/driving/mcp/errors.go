// Package mcp provides an MCP (Model Context Protocol) server adapter for
// switchboard. It exposes read-only connector calls as tools so AI
// assistants can look things up in the connected SaaS APIs. Mutating calls
// are not exposed.
package mcp

import "errors"

// ErrMissingClients is returned when no client factory is provided.
var ErrMissingClients = errors.New("mcp: client factory is required")
