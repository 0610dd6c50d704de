// Package tools defines the Tool capability, its execution Outcome, and the
// Registry that holds the currently configured tools.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// Tool is a named, schema-described capability a host can call.
type Tool interface {
	Name() string
	Description() string
	InputSchema() mcp.ToolInputSchema

	// Execute runs the tool. Expected failures are reported in the Outcome.
	Execute(ctx context.Context, args map[string]any) Outcome
}

// Describe returns the descriptor advertised to hosts for t.
func Describe(t Tool) mcp.Tool {
	return mcp.Tool{
		Name:        t.Name(),
		Description: t.Description(),
		InputSchema: t.InputSchema(),
	}
}
