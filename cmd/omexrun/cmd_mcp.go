package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/reprobio/omexrun/internal/logging"
	"github.com/reprobio/omexrun/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run an MCP server over stdio",
		Long: `Run a Model Context Protocol server over stdio.

The server exposes archive execution and the algorithm registry as MCP
tools, so agent tooling can drive simulations without shelling out to
the CLI. Logs go to stderr; stdout carries the protocol.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			eng, err := buildEngine(cfg)
			if err != nil {
				return err
			}

			server := mcp.NewServer(&mcp.Config{
				Name:    "omexrun",
				Version: version,
				Engine:  eng,
				Log:     logging.NewLogger(cfg.Logging.Level, os.Stderr),
			})
			return server.Run(cmd.Context())
		},
	}
}
