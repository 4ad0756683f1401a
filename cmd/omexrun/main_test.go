package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/reprobio/omexrun/internal/combine"
	"github.com/reprobio/omexrun/internal/config"
	"github.com/reprobio/omexrun/internal/sedml"
)

// newTestRootCmd creates a root command with persistent flags for testing subcommands
func newTestRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "omexrun",
	}
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	return rootCmd
}

const testModel = `<?xml version="1.0" encoding="UTF-8"?>
<sbml xmlns="http://www.sbml.org/sbml/level2/version4" level="2" version="4">
  <model id="cell_cycle">
    <listOfSpecies>
      <species id="BE"/>
    </listOfSpecies>
  </model>
</sbml>
`

// buildTestArchive assembles a minimal COMBINE archive with one SBML model
// and one SED-ML document.
func buildTestArchive(t *testing.T, kisaoID string) string {
	t.Helper()
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "model_1.xml"), []byte(testModel), 0644); err != nil {
		t.Fatal(err)
	}

	doc := &sedml.Document{Level: 1, Version: 3}
	doc.Models = append(doc.Models, &sedml.Model{
		ID: "model_1", Source: "model_1.xml", Language: sedml.LanguageSBML,
	})
	doc.Simulations = append(doc.Simulations, &sedml.UniformTimeCourse{
		ID:              "sim_1",
		Algorithm:       sedml.Algorithm{KisaoID: kisaoID},
		OutputStartTime: 0,
		OutputEndTime:   1,
		NumberOfPoints:  10,
	})
	doc.Tasks = append(doc.Tasks, &sedml.Task{ID: "task_1", ModelID: "model_1", SimulationID: "sim_1"})
	doc.DataGenerators = append(doc.DataGenerators, &sedml.DataGenerator{
		ID: "data_gen_time", Math: "var_time",
		Variables: []sedml.Variable{{ID: "var_time", Symbol: sedml.SymbolTime, TaskID: "task_1"}},
	})
	doc.Reports = append(doc.Reports, &sedml.Report{
		ID:       "report_1",
		DataSets: []sedml.DataSet{{ID: "data_set_time", Label: "Time", DataGeneratorID: "data_gen_time"}},
	})
	if err := sedml.WriteFile(doc, filepath.Join(srcDir, "sim_1.sedml")); err != nil {
		t.Fatal(err)
	}

	archive := &combine.Archive{Contents: []combine.Content{
		{Location: "model_1.xml", Format: combine.FormatSBML},
		{Location: "sim_1.sedml", Format: combine.FormatSEDML, Master: true},
	}}
	archivePath := filepath.Join(dir, "archive.omex")
	if err := combine.Write(archive, srcDir, archivePath); err != nil {
		t.Fatal(err)
	}
	return archivePath
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()
	w.Close()

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestNewVersionCmd(t *testing.T) {
	cmd := newVersionCmd()
	if cmd.Use != "version" {
		t.Errorf("Use = %q, want %q", cmd.Use, "version")
	}
}

func TestSubcommandNames(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		want string
	}{
		{newRunCmd(), "run"},
		{newValidateCmd(), "validate"},
		{newAlgorithmsCmd(), "algorithms"},
		{newLogCmd(), "log"},
		{newMCPServerCmd(), "mcp-server"},
	}
	for _, tt := range tests {
		if tt.cmd.Use != tt.want {
			t.Errorf("Use = %q, want %q", tt.cmd.Use, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	formats, err := parseFormats([]string{"csv", "arrow"})
	if err != nil {
		t.Fatalf("parseFormats() error = %v", err)
	}
	if len(formats) != 2 {
		t.Errorf("formats = %v, want 2", formats)
	}

	if _, err := parseFormats([]string{"hdf5"}); err == nil {
		t.Error("parseFormats(hdf5) succeeded, want error")
	}
}

func TestApplyRunFlags(t *testing.T) {
	cmd := newRunCmd()
	cmd.Flags().Set("report-formats", "csv")
	cmd.Flags().Set("bundle", "false")
	cmd.Flags().Set("engine", "gillespy2-engine --quiet")

	cfg := config.Default()
	applyRunFlags(cmd, cfg)

	if len(cfg.Reports.Formats) != 1 || cfg.Reports.Formats[0] != "csv" {
		t.Errorf("formats = %v, want [csv]", cfg.Reports.Formats)
	}
	if cfg.BundleOutputs() {
		t.Error("bundle override ignored")
	}
	// keep-individual was not set, so the config default survives.
	if !cfg.KeepIndividualOutputs() {
		t.Error("keep-individual default lost")
	}
	if len(cfg.Engine.Command) != 2 || cfg.Engine.Command[0] != "gillespy2-engine" {
		t.Errorf("engine command = %v", cfg.Engine.Command)
	}
}

func TestValidateCmd(t *testing.T) {
	tests := []struct {
		name      string
		kisaoID   string
		wantErr   bool
		wantInOut string
	}{
		{"valid archive", "KISAO_0000029", false, "is valid"},
		{"unsupported algorithm", "KISAO_0000001", true, "is not supported. Algorithm must"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archivePath := buildTestArchive(t, tt.kisaoID)

			rootCmd := newTestRootCmd()
			rootCmd.AddCommand(newValidateCmd())
			rootCmd.SetArgs([]string{"validate", "-i", archivePath})
			rootCmd.SetOut(&bytes.Buffer{})
			rootCmd.SetErr(&bytes.Buffer{})

			var err error
			out := captureStdout(t, func() {
				err = rootCmd.Execute()
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(out, tt.wantInOut) {
				t.Errorf("output %q does not contain %q", out, tt.wantInOut)
			}
		})
	}
}

func TestLogCmdMissingDir(t *testing.T) {
	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newLogCmd())
	rootCmd.SetArgs([]string{"log", "-o", filepath.Join(t.TempDir(), "absent")})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	if err := rootCmd.Execute(); err == nil {
		t.Error("log on a missing directory succeeded, want error")
	}
}

func TestRunCmdRequiresEngine(t *testing.T) {
	archivePath := buildTestArchive(t, "KISAO_0000029")

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newRunCmd())
	rootCmd.SetArgs([]string{"run", "-i", archivePath, "-o", filepath.Join(t.TempDir(), "out")})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "engine command is not configured") {
		t.Errorf("Execute() error = %v, want engine configuration error", err)
	}
}
