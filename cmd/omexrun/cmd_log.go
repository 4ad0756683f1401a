package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/reprobio/omexrun/internal/runlog"
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the task run log of an output directory",
		Long: `Print the task executions recorded in <outdir>/run.db.

Examples:
  omexrun log -o out
  omexrun log -o out --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outDir, _ := cmd.Flags().GetString("out-dir")
			jsonOut, _ := cmd.Flags().GetBool("json")

			if _, err := os.Stat(outDir); err != nil {
				return fmt.Errorf("output directory %s: %w", outDir, err)
			}

			log, err := runlog.Open(outDir)
			if err != nil {
				return err
			}
			defer log.Close()

			entries, err := log.List(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				list := make([]map[string]any, len(entries))
				for i, e := range entries {
					entry := map[string]any{
						"document":    e.Document,
						"task":        e.Task,
						"algorithm":   e.Algorithm,
						"status":      e.Status,
						"started_at":  e.StartedAt.Format(time.RFC3339Nano),
						"duration_ms": e.Duration.Milliseconds(),
					}
					if e.Error != "" {
						entry["error"] = e.Error
					}
					list[i] = entry
				}
				return json.NewEncoder(os.Stdout).Encode(map[string]any{"runs": list})
			}

			if len(entries) == 0 {
				fmt.Println("No recorded runs.")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%s  %-9s  %s / %s  (%s, %v)\n",
					e.StartedAt.Format(time.RFC3339), e.Status, e.Document, e.Task, e.Algorithm, e.Duration.Round(time.Millisecond))
				if e.Error != "" {
					fmt.Printf("    %s\n", e.Error)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringP("out-dir", "o", "", "Output directory containing run.db (required)")
	cmd.MarkFlagRequired("out-dir")

	return cmd
}
