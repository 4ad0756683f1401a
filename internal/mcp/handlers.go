package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reprobio/omexrun/internal/kisao"
	"github.com/reprobio/omexrun/internal/report"
	"github.com/reprobio/omexrun/internal/run"
)

// registerTools registers all omexrun MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "run_archive",
		Description: "Execute every simulation experiment in a COMBINE archive and write the reports",
	}, s.handleRunArchive)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "list_algorithms",
		Description: "List the supported simulation algorithms (KiSAO ids) and their parameters",
	}, s.handleListAlgorithms)
}

func (s *Server) handleRunArchive(ctx context.Context, req *sdk.CallToolRequest, args RunArchiveInput) (*sdk.CallToolResult, RunArchiveOutput, error) {
	formats := args.Formats
	if len(formats) == 0 {
		formats = []string{"csv"}
	}
	var parsed []report.Format
	for _, f := range formats {
		format, err := report.ParseFormat(f)
		if err != nil {
			return nil, RunArchiveOutput{}, err
		}
		parsed = append(parsed, format)
	}

	result, err := s.runner.Archive(ctx, args.Archive, args.OutDir, run.ArchiveOptions{
		Formats:        parsed,
		Bundle:         args.Bundle,
		KeepIndividual: true,
	})
	if err != nil {
		return nil, RunArchiveOutput{}, fmt.Errorf("execute archive: %w", err)
	}

	out := RunArchiveOutput{BundlePath: result.BundlePath}
	for _, rr := range result.Reports {
		out.Reports = append(out.Reports, ReportSummary{
			Document:   rr.Document,
			ReportID:   rr.ReportID,
			Files:      rr.Files,
			DataSetIDs: rr.DataSetIDs,
		})
	}
	out.Count = len(out.Reports)
	return nil, out, nil
}

func (s *Server) handleListAlgorithms(ctx context.Context, req *sdk.CallToolRequest, args ListAlgorithmsInput) (*sdk.CallToolResult, ListAlgorithmsOutput, error) {
	var out ListAlgorithmsOutput
	for _, alg := range kisao.Algorithms() {
		summary := AlgorithmSummary{
			KisaoID: alg.KisaoID,
			Name:    alg.Name,
			Method:  alg.Method,
		}
		for _, p := range alg.Parameters {
			summary.Parameters = append(summary.Parameters, ParameterSummary{
				KisaoID: p.KisaoID,
				Name:    p.Name,
				Kind:    string(p.Kind),
			})
		}
		out.Algorithms = append(out.Algorithms, summary)
	}
	out.Count = len(out.Algorithms)
	return nil, out, nil
}
