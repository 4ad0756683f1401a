// Package mcp provides an MCP (Model Context Protocol) server for omexrun,
// so agent tooling can execute COMBINE archives and inspect the supported
// algorithms without shelling out to the CLI.
package mcp

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reprobio/omexrun/internal/engine"
	"github.com/reprobio/omexrun/internal/run"
)

// Server wraps the MCP SDK server and provides omexrun-specific tools.
type Server struct {
	server *sdk.Server
	runner *run.Runner
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "omexrun")
	Version string // Server version
	Engine  engine.Engine
	Log     *slog.Logger
}

// NewServer creates a new MCP server with omexrun tools.
func NewServer(cfg *Config) *Server {
	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		server: mcpServer,
		runner: run.NewRunner(cfg.Engine, cfg.Log),
	}
	s.registerTools()
	return s
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		cancel()
	}()

	return s.server.Run(ctx, &sdk.StdioTransport{})
}
