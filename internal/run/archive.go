package run

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/reprobio/omexrun/internal/combine"
	"github.com/reprobio/omexrun/internal/report"
	"github.com/reprobio/omexrun/internal/runlog"
	"github.com/reprobio/omexrun/internal/sedml"
)

// ArchiveOptions controls report output for Archive.
type ArchiveOptions struct {
	// Formats are the report formats to write. Defaults to CSV when empty.
	Formats []report.Format

	// Bundle zips all individual report files into reports.zip.
	Bundle bool

	// KeepIndividual keeps per-report files after bundling. Ignored when
	// Bundle is false.
	KeepIndividual bool
}

// ReportResult describes one written report.
type ReportResult struct {
	// Document is the SED-ML document location within the archive.
	Document string

	// ReportID is the report id within the document.
	ReportID string

	// Files are the written file paths relative to the output directory,
	// one per requested format.
	Files []string

	// DataSetIDs are the report's data set ids in document order.
	DataSetIDs []string
}

// ArchiveResult summarizes an archive execution.
type ArchiveResult struct {
	Reports []ReportResult

	// BundlePath is the reports.zip path relative to the output
	// directory, or empty when bundling was off.
	BundlePath string
}

// Archive executes every report of every SED-ML document in the COMBINE
// archive at archivePath and writes the assembled reports under outDir,
// mirroring the archive's document layout
// (<outDir>/<document location>/<report id>.<ext>). Each executed task is
// recorded in the run log at <outDir>/run.db.
func (r *Runner) Archive(ctx context.Context, archivePath, outDir string, opts ArchiveOptions) (*ArchiveResult, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = []report.Format{report.FormatCSV}
	}

	workDir, err := os.MkdirTemp("", "omexrun-archive-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(workDir)

	archive, err := combine.Read(archivePath, workDir)
	if err != nil {
		return nil, err
	}
	docs := archive.SEDMLContents()
	if len(docs) == 0 {
		return nil, fmt.Errorf("archive %s contains no SED-ML documents", archivePath)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}
	log, err := runlog.Open(outDir)
	if err != nil {
		return nil, err
	}
	defer log.Close()

	result := &ArchiveResult{}
	for _, content := range docs {
		if err := r.execDocument(ctx, workDir, outDir, content, opts, log, result); err != nil {
			return nil, fmt.Errorf("document %s: %w", content.Location, err)
		}
	}

	if opts.Bundle {
		var files []string
		for _, rr := range result.Reports {
			files = append(files, rr.Files...)
		}
		if err := report.Bundle(outDir, files, filepath.Join(outDir, "reports.zip")); err != nil {
			return nil, err
		}
		result.BundlePath = "reports.zip"

		if !opts.KeepIndividual {
			for _, rr := range result.Reports {
				for _, f := range rr.Files {
					os.Remove(filepath.Join(outDir, filepath.FromSlash(f)))
				}
			}
			removeEmptyDirs(outDir)
		}
	}

	return result, nil
}

// execDocument runs all reports of one SED-ML document. Task results are
// cached so a task shared by several reports runs once.
func (r *Runner) execDocument(ctx context.Context, workDir, outDir string, content combine.Content, opts ArchiveOptions, log *runlog.Log, result *ArchiveResult) error {
	docPath := filepath.Join(workDir, filepath.FromSlash(content.Location))
	doc, err := sedml.ReadFile(docPath)
	if err != nil {
		return err
	}
	if len(doc.Reports) == 0 {
		r.Log.Warn("document has no reports", "document", content.Location)
		return nil
	}

	docDir := filepath.Dir(docPath)
	taskResults := map[string]VariableResults{}

	for _, rep := range doc.Reports {
		table, err := r.assembleReport(ctx, doc, docDir, content.Location, rep, taskResults, log)
		if err != nil {
			return fmt.Errorf("report %s: %w", rep.ID, err)
		}

		reportDir := filepath.Join(outDir, filepath.FromSlash(content.Location))
		rr := ReportResult{Document: content.Location, ReportID: rep.ID, DataSetIDs: table.DataSetIDs}
		for _, format := range opts.Formats {
			name, err := report.WriteTable(table, reportDir, format)
			if err != nil {
				return err
			}
			rr.Files = append(rr.Files, content.Location+"/"+name)
		}
		result.Reports = append(result.Reports, rr)
		r.Log.Info("wrote report", "document", content.Location, "report", rep.ID, "data_sets", len(table.DataSetIDs))
	}
	return nil
}

// assembleReport evaluates the data generators behind a report's data sets
// and assembles the report table. Only identity generators (math equal to
// the single variable) are supported.
func (r *Runner) assembleReport(ctx context.Context, doc *sedml.Document, docDir, docLocation string, rep *sedml.Report, taskResults map[string]VariableResults, log *runlog.Log) (*report.Table, error) {
	table := &report.Table{ID: rep.ID}

	for _, ds := range rep.DataSets {
		gen := doc.DataGenerator(ds.DataGeneratorID)
		v, err := identityVariable(gen)
		if err != nil {
			return nil, err
		}

		results, ok := taskResults[v.TaskID]
		if !ok {
			results, err = r.execDocTask(ctx, doc, docDir, docLocation, v.TaskID, log)
			if err != nil {
				return nil, err
			}
			taskResults[v.TaskID] = results
		}

		series, ok := results[v.ID]
		if !ok {
			return nil, fmt.Errorf("task %q produced no result for variable %q", v.TaskID, v.ID)
		}
		table.DataSetIDs = append(table.DataSetIDs, ds.ID)
		table.Labels = append(table.Labels, ds.Label)
		table.Values = append(table.Values, series)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// execDocTask runs one task of a document with all variables any data
// generator requests from it, and records the run.
func (r *Runner) execDocTask(ctx context.Context, doc *sedml.Document, docDir, docLocation, taskID string, log *runlog.Log) (VariableResults, error) {
	task := doc.Task(taskID)
	if task == nil {
		return nil, fmt.Errorf("undefined task %q", taskID)
	}
	model := doc.Model(task.ModelID)
	sim := doc.Simulation(task.SimulationID)

	// Collect every variable of this task across all data generators, so
	// the task runs once per document.
	var variables []sedml.Variable
	for _, gen := range doc.DataGenerators {
		for _, v := range gen.Variables {
			if v.TaskID == taskID {
				variables = append(variables, v)
			}
		}
	}

	resolved := *model
	if !filepath.IsAbs(resolved.Source) {
		resolved.Source = filepath.Join(docDir, filepath.FromSlash(resolved.Source))
	}

	started := time.Now()
	results, err := r.Task(ctx, &resolved, sim, variables)

	entry := runlog.Entry{
		Document:  docLocation,
		Task:      taskID,
		Algorithm: sim.Algorithm.KisaoID,
		Status:    runlog.StatusSucceeded,
		StartedAt: started,
		Duration:  time.Since(started),
	}
	if err != nil {
		entry.Status = runlog.StatusFailed
		entry.Error = err.Error()
	}
	if logErr := log.Record(ctx, entry); logErr != nil {
		r.Log.Warn("run log write failed", "error", logErr)
	}
	r.Trace.Log(map[string]any{
		"event": "task_done", "document": docLocation, "task": taskID, "status": entry.Status,
	})

	if err != nil {
		return nil, fmt.Errorf("task %s: %w", taskID, err)
	}
	return results, nil
}

// identityVariable returns the single variable of an identity data
// generator.
func identityVariable(gen *sedml.DataGenerator) (sedml.Variable, error) {
	if len(gen.Variables) != 1 {
		return sedml.Variable{}, fmt.Errorf("data generator %q has %d variables; only single-variable generators are supported",
			gen.ID, len(gen.Variables))
	}
	v := gen.Variables[0]
	if gen.Math != "" && gen.Math != v.ID {
		return sedml.Variable{}, fmt.Errorf("data generator %q math %q is not supported; math must be the variable itself",
			gen.ID, gen.Math)
	}
	return v, nil
}

// removeEmptyDirs prunes directories left empty after individual report
// files were removed. The root itself is kept.
func removeEmptyDirs(root string) {
	var dirs []string
	filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err == nil && d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	// Deepest first.
	for i := len(dirs) - 1; i >= 0; i-- {
		entries, err := os.ReadDir(dirs[i])
		if err == nil && len(entries) == 0 {
			os.Remove(dirs[i])
		}
	}
}
