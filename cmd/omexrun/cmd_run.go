package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reprobio/omexrun/internal/config"
	"github.com/reprobio/omexrun/internal/logging"
	"github.com/reprobio/omexrun/internal/report"
	"github.com/reprobio/omexrun/internal/run"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a COMBINE archive and write its reports",
		Long: `Execute every SED-ML document in a COMBINE archive.

Each report is written under the output directory, mirroring the archive's
document layout (<outdir>/<document>/<report>.<ext>). Task executions are
recorded in <outdir>/run.db.

Examples:
  omexrun run -i experiment.omex -o out
  omexrun run -i experiment.omex -o out --report-formats csv
  omexrun run -i experiment.omex -o out --keep-individual=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			archivePath, _ := cmd.Flags().GetString("archive")
			outDir, _ := cmd.Flags().GetString("out-dir")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyRunFlags(cmd, cfg)

			formats, err := parseFormats(cfg.Reports.Formats)
			if err != nil {
				return err
			}

			eng, err := buildEngine(cfg)
			if err != nil {
				return err
			}

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
			runner := run.NewRunner(eng, logger)
			runner.Trace = logging.NewTraceLogger(outDir, cfg.Logging.Level)
			defer runner.Trace.Close()

			result, err := runner.Archive(cmd.Context(), archivePath, outDir, run.ArchiveOptions{
				Formats:        formats,
				Bundle:         cfg.BundleOutputs(),
				KeepIndividual: cfg.KeepIndividualOutputs(),
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(runResultJSON(result))
			}

			fmt.Printf("Executed %s\n", archivePath)
			for _, rr := range result.Reports {
				fmt.Printf("  %s / %s: %d data sets\n", rr.Document, rr.ReportID, len(rr.DataSetIDs))
				for _, f := range rr.Files {
					fmt.Printf("    %s\n", f)
				}
			}
			if result.BundlePath != "" {
				fmt.Printf("  bundle: %s\n", result.BundlePath)
			}
			return nil
		},
	}

	cmd.Flags().StringP("archive", "i", "", "Path to the COMBINE archive (required)")
	cmd.Flags().StringP("out-dir", "o", "", "Directory to write reports to (required)")
	cmd.Flags().String("report-formats", "", "Comma-separated report formats: csv, arrow")
	cmd.Flags().Bool("bundle", true, "Bundle individual report files into reports.zip")
	cmd.Flags().Bool("keep-individual", true, "Keep per-report files after bundling")
	cmd.Flags().String("engine", "", "Engine command line (overrides config)")
	cmd.MarkFlagRequired("archive")
	cmd.MarkFlagRequired("out-dir")

	return cmd
}

// applyRunFlags overrides loaded configuration with explicitly set flags.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("report-formats") {
		s, _ := cmd.Flags().GetString("report-formats")
		cfg.Reports.Formats = strings.Split(s, ",")
	}
	if cmd.Flags().Changed("bundle") {
		v, _ := cmd.Flags().GetBool("bundle")
		cfg.Reports.Bundle = &v
	}
	if cmd.Flags().Changed("keep-individual") {
		v, _ := cmd.Flags().GetBool("keep-individual")
		cfg.Reports.KeepIndividual = &v
	}
	if cmd.Flags().Changed("engine") {
		s, _ := cmd.Flags().GetString("engine")
		cfg.Engine.Command = strings.Fields(s)
	}
}

func parseFormats(names []string) ([]report.Format, error) {
	formats := make([]report.Format, 0, len(names))
	for _, name := range names {
		f, err := report.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

func runResultJSON(result *run.ArchiveResult) map[string]any {
	reports := make([]map[string]any, len(result.Reports))
	for i, rr := range result.Reports {
		reports[i] = map[string]any{
			"document":  rr.Document,
			"report":    rr.ReportID,
			"files":     rr.Files,
			"data_sets": rr.DataSetIDs,
		}
	}
	out := map[string]any{
		"status":  "succeeded",
		"reports": reports,
	}
	if result.BundlePath != "" {
		out["bundle"] = result.BundlePath
	}
	return out
}
