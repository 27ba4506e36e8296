package mcptools

import "github.com/dusk-indust/logmerge/internal/logdoc"

// MergeLogsInput is the input schema for the merge_logs MCP tool.
type MergeLogsInput struct {
	Inputs []string `json:"inputs" jsonschema:"paths of the JSON log files to merge (minimum 2; the first is the base)"`
	Output string   `json:"output" jsonschema:"path to write the merged document to"`
	Pretty bool     `json:"pretty,omitempty" jsonschema:"indent the output JSON"`
}

// MergeLogsOutput is the result of the merge_logs MCP tool.
type MergeLogsOutput struct {
	Output           string `json:"output"`
	Records          int    `json:"records"`
	Sorted           bool   `json:"sorted"`
	BaseFile         string `json:"baseFile"`
	TotalFilesMerged int    `json:"totalFilesMerged"`
}

// InspectLineageInput is the input schema for the inspect_lineage MCP tool.
type InspectLineageInput struct {
	Path string `json:"path" jsonschema:"path of the log file to inspect"`
}

// InspectLineageOutput reports whether a file was produced by a merge and,
// if so, its full lineage.
type InspectLineageOutput struct {
	Merged  bool            `json:"merged"`
	Lineage *logdoc.Lineage `json:"lineage,omitempty"`
}

// ValidateLogInput is the input schema for the validate_log MCP tool.
type ValidateLogInput struct {
	Path string `json:"path" jsonschema:"path of the log file to validate"`
}

// ValidateLogOutput reports whether a file is a mergeable log document.
type ValidateLogOutput struct {
	Valid   bool   `json:"valid"`
	Records int    `json:"records"`
	Problem string `json:"problem,omitempty"`
}
