// Package mcptools exposes the log merger as MCP tools so that agents can
// drive it over stdio or HTTP.
package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/logmerge/internal/logdoc"
	"github.com/dusk-indust/logmerge/internal/logio"
	"github.com/dusk-indust/logmerge/internal/merge"
)

// MergeService handles MCP tool calls. It wires the loader, engine, and
// writer the same way the CLI does.
type MergeService struct {
	loader *logio.Loader
	engine *merge.Engine
}

// NewMergeService creates a MergeService.
func NewMergeService() *MergeService {
	return &MergeService{
		loader: logio.NewLoader(),
		engine: merge.NewEngine(),
	}
}

// MergeLogs loads the named inputs, merges them, and writes the result.
func (s *MergeService) MergeLogs(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MergeLogsInput,
) (*mcp.CallToolResult, MergeLogsOutput, error) {
	if len(input.Inputs) < 2 {
		return nil, MergeLogsOutput{}, fmt.Errorf("at least 2 input paths are required, got %d", len(input.Inputs))
	}
	if input.Output == "" {
		return nil, MergeLogsOutput{}, fmt.Errorf("output path is required")
	}

	docs, err := s.loader.LoadAll(ctx, input.Inputs)
	if err != nil {
		return nil, MergeLogsOutput{}, err
	}

	inputs := make([]merge.Input, len(docs))
	for i, doc := range docs {
		inputs[i] = merge.Input{Source: input.Inputs[i], Doc: doc}
	}

	result, err := s.engine.Merge(inputs)
	if err != nil {
		return nil, MergeLogsOutput{}, err
	}

	writer := logio.NewWriter(logio.WithPretty(input.Pretty))
	if err := writer.Write(result.Doc, input.Output); err != nil {
		return nil, MergeLogsOutput{}, err
	}

	lineage, _ := logdoc.LineageFrom(result.Doc)
	return nil, MergeLogsOutput{
		Output:           input.Output,
		Records:          result.RecordCount,
		Sorted:           result.Sorted,
		BaseFile:         lineage.BaseFile,
		TotalFilesMerged: lineage.TotalFilesMerged,
	}, nil
}

// InspectLineage reads a file and returns its merge lineage, if any.
func (s *MergeService) InspectLineage(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input InspectLineageInput,
) (*mcp.CallToolResult, InspectLineageOutput, error) {
	if input.Path == "" {
		return nil, InspectLineageOutput{}, fmt.Errorf("path is required")
	}

	doc, err := s.loader.Load(input.Path)
	if err != nil {
		return nil, InspectLineageOutput{}, err
	}

	lineage, merged := logdoc.LineageFrom(doc)
	if !merged {
		return nil, InspectLineageOutput{Merged: false}, nil
	}
	return nil, InspectLineageOutput{Merged: true, Lineage: &lineage}, nil
}

// ValidateLog reads a file and checks the mergeability requirements: valid
// JSON object with an array-shaped "data" field. Shape problems are
// reported in the output rather than as tool errors.
func (s *MergeService) ValidateLog(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ValidateLogInput,
) (*mcp.CallToolResult, ValidateLogOutput, error) {
	if input.Path == "" {
		return nil, ValidateLogOutput{}, fmt.Errorf("path is required")
	}

	doc, err := s.loader.Load(input.Path)
	if err != nil {
		return nil, ValidateLogOutput{Problem: err.Error()}, nil
	}

	records, err := doc.Records()
	if err != nil {
		return nil, ValidateLogOutput{Problem: err.Error()}, nil
	}

	return nil, ValidateLogOutput{Valid: true, Records: len(records)}, nil
}
