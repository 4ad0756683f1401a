package mcp

// RunArchiveInput defines the input for the run_archive tool.
type RunArchiveInput struct {
	Archive string   `json:"archive" jsonschema:"Path to the COMBINE archive (.omex) to execute"`
	OutDir  string   `json:"out_dir" jsonschema:"Directory to write the reports into"`
	Formats []string `json:"formats,omitempty" jsonschema:"Report formats to write: 'csv' and/or 'arrow' (default: csv)"`
	Bundle  bool     `json:"bundle,omitempty" jsonschema:"Also bundle individual report files into reports.zip (default: false)"`
}

// ReportSummary describes one written report.
type ReportSummary struct {
	Document   string   `json:"document" jsonschema:"SED-ML document location within the archive"`
	ReportID   string   `json:"report_id" jsonschema:"Report id within the document"`
	Files      []string `json:"files" jsonschema:"Written report files relative to the output directory"`
	DataSetIDs []string `json:"data_set_ids" jsonschema:"Data set ids in document order"`
}

// RunArchiveOutput defines the output for the run_archive tool.
type RunArchiveOutput struct {
	Reports    []ReportSummary `json:"reports" jsonschema:"Written reports"`
	Count      int             `json:"count" jsonschema:"Number of written reports"`
	BundlePath string          `json:"bundle_path,omitempty" jsonschema:"reports.zip path relative to the output directory, when bundling was requested"`
}

// ListAlgorithmsInput defines the input for the list_algorithms tool.
type ListAlgorithmsInput struct{}

// ParameterSummary describes one algorithm parameter.
type ParameterSummary struct {
	KisaoID string `json:"kisao_id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
}

// AlgorithmSummary describes one supported algorithm.
type AlgorithmSummary struct {
	KisaoID    string             `json:"kisao_id"`
	Name       string             `json:"name"`
	Method     string             `json:"method"`
	Parameters []ParameterSummary `json:"parameters,omitempty"`
}

// ListAlgorithmsOutput defines the output for the list_algorithms tool.
type ListAlgorithmsOutput struct {
	Algorithms []AlgorithmSummary `json:"algorithms"`
	Count      int                `json:"count"`
}
