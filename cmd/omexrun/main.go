package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reprobio/omexrun/internal/config"
	"github.com/reprobio/omexrun/internal/engine"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "omexrun",
		Short: "Execute COMBINE/OMEX simulation archives",
		Long: `omexrun executes simulation experiments packaged as COMBINE/OMEX archives.

It validates the SED-ML documents and SBML models inside an archive,
translates each uniform time course into calls to an external stochastic
simulation engine, and writes the requested reports as CSV and Arrow files.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for tooling consumption)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newValidateCmd(),
		newAlgorithmsCmd(),
		newLogCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("omexrun version %s\n", version)
			}
		},
	}
}

// loadConfig loads the layered configuration honoring the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// buildEngine constructs the external engine from the configuration.
func buildEngine(cfg *config.Config) (engine.Engine, error) {
	eng, err := engine.NewCommand(engine.CommandConfig{
		Argv:    cfg.Engine.Command,
		Timeout: cfg.Engine.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set engine.command in the config file or OMEXRUN_ENGINE)", err)
	}
	return eng, nil
}
