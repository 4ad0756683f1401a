package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reprobio/omexrun/internal/run"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a COMBINE archive without running it",
		Long: `Validate a COMBINE archive without invoking the simulation engine.

This command checks:
  - The archive container and its manifest
  - Every SED-ML document (well-formedness and internal references)
  - Model files and their declared language
  - Algorithms and algorithm parameters against the supported set
  - Time course settings and requested output variables

Examples:
  omexrun validate -i experiment.omex
  omexrun validate -i experiment.omex --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			archivePath, _ := cmd.Flags().GetString("archive")
			jsonOut, _ := cmd.Flags().GetBool("json")

			issues, err := run.ValidateArchive(archivePath)
			if err != nil {
				return fmt.Errorf("failed to inspect archive: %w", err)
			}

			valid := len(issues) == 0

			if jsonOut {
				output := map[string]any{
					"valid":       valid,
					"issue_count": len(issues),
				}
				if len(issues) > 0 {
					list := make([]map[string]string, len(issues))
					for i, issue := range issues {
						list[i] = map[string]string{
							"document": issue.Document,
							"subject":  issue.Subject,
							"message":  issue.Message,
						}
					}
					output["issues"] = list
				}
				json.NewEncoder(os.Stdout).Encode(output)
			} else if valid {
				fmt.Printf("%s is valid\n", archivePath)
			} else {
				fmt.Printf("%s has %d issue(s):\n", archivePath, len(issues))
				for i, issue := range issues {
					fmt.Printf("%d. %s\n", i+1, issue)
				}
			}

			if !valid {
				// Exit non-zero without repeating the findings on stderr.
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
				return fmt.Errorf("archive is not valid")
			}
			return nil
		},
	}

	cmd.Flags().StringP("archive", "i", "", "Path to the COMBINE archive (required)")
	cmd.MarkFlagRequired("archive")

	return cmd
}
