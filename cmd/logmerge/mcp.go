package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dusk-indust/logmerge/internal/mcptools"
)

// runMCP serves the merge tools over MCP instead of running a one-shot
// merge. Stdio is the default transport; -mcp-http switches to HTTP.
func runMCP(flags cliFlags) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc := mcptools.NewMergeService()

	if flags.MCPAddr != "" {
		fmt.Fprintf(os.Stderr, "logmerge MCP server listening on %s\n", flags.MCPAddr)
		return mcptools.RunHTTP(ctx, svc, flags.MCPAddr)
	}
	return mcptools.RunStdio(ctx, mcptools.NewLogMergeMCPServer(svc))
}
