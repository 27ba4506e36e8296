package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewLogMergeMCPServer creates an MCP server with the 3 logmerge tools
// registered: merge_logs, inspect_lineage, and validate_log.
func NewLogMergeMCPServer(svc *MergeService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "logmerge",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge_logs",
		Description: "Merge two or more JSON log files into one document. The first path is the base; its top-level fields are kept and its merge lineage is extended. Records are combined and sorted by timestamp when possible.",
	}, svc.MergeLogs)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect_lineage",
		Description: "Read a log file and report its merge lineage: original base file, every file folded in, and snapshots of prior merge operations.",
	}, svc.InspectLineage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_log",
		Description: "Check whether a file is a mergeable log document: valid JSON object with an array-shaped 'data' field. Returns the record count on success.",
	}, svc.ValidateLog)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts an HTTP server exposing the logmerge MCP tools.
func RunHTTP(ctx context.Context, svc *MergeService, addr string) error {
	server := NewLogMergeMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
