// Package mcp adapts the tool registry to the Model Context Protocol using
// mcp-go: listing, dispatch, rendering, and the documentation resources.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// fallbackToolName receives calls for names with no registered handler. It
// never appears in tools/list.
const fallbackToolName = "_rag_dispatch"

// requestedToolKey carries the name the host asked for through _meta when a
// call is rerouted to the fallback handler.
const requestedToolKey = "rag-mcp/requested-tool"

// NewServer creates an MCP server whose tool list and tool calls are served by d.
//
// mcp-go only routes calls to names it has handlers for. A before-call hook
// reroutes every other name to a hidden fallback handler, so unknown names and
// calls made before configuration still reach the dispatcher. What hosts see
// in tools/list is decided by the dispatcher through a tool filter.
func NewServer(d *Dispatcher, name, version string) *server.MCPServer {
	var s *server.MCPServer

	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(func(_ context.Context, _ any, req *mcp.CallToolRequest) {
		if s.GetTool(req.Params.Name) != nil {
			return
		}
		reroute(req)
	})

	s = server.NewMCPServer(name, version,
		server.WithToolCapabilities(true),
		server.WithHooks(hooks),
		server.WithResourceCapabilities(false, false),
		server.WithToolFilter(func(_ context.Context, _ []mcp.Tool) []mcp.Tool {
			return d.ListTools()
		}),
		server.WithRecovery(),
	)

	s.AddTools(
		server.ServerTool{Tool: ConfigureTool(), Handler: d.handler(ConfigureToolName)},
		server.ServerTool{Tool: mcp.NewTool(fallbackToolName), Handler: d.fallbackHandler()},
	)
	d.hooks = append(d.hooks, func() { syncTools(s, d) })

	s.AddResource(
		mcp.NewResource(DocsURI, "RAG MCP Server Documentation",
			mcp.WithResourceDescription("Documentation for using the RAG MCP server"),
			mcp.WithMIMEType("text/plain"),
		),
		func(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			text, err := ReadDoc(req.Params.URI)
			if err != nil {
				return nil, err
			}
			return []mcp.ResourceContents{
				mcp.TextResourceContents{URI: DocsURI, MIMEType: "text/plain", Text: text},
			}, nil
		},
	)
	s.AddResource(
		mcp.NewResource(StatusURI, "RAG MCP Server Status",
			mcp.WithResourceDescription("Whether the RAG tools are configured, and against which base URL"),
			mcp.WithMIMEType("text/plain"),
		),
		func(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return []mcp.ResourceContents{
				mcp.TextResourceContents{URI: StatusURI, MIMEType: "text/plain", Text: StatusText(d.registry, version)},
			}, nil
		},
	)

	return s
}

// syncTools registers handlers for every configured tool. AddTools notifies
// connected clients with notifications/tools/list_changed.
func syncTools(s *server.MCPServer, d *Dispatcher) {
	names := d.registry.Names()
	entries := make([]server.ServerTool, 0, len(names)+1)
	entries = append(entries, server.ServerTool{Tool: ConfigureTool(), Handler: d.handler(ConfigureToolName)})
	for _, t := range d.ListTools() {
		entries = append(entries, server.ServerTool{Tool: t, Handler: d.handler(t.Name)})
	}
	s.AddTools(entries...)
}

// handler returns the mcp-go handler dispatching calls to name.
func (d *Dispatcher) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toolResult(d.Call(ctx, name, req.GetArguments())), nil
	}
}

// fallbackHandler dispatches rerouted calls under the name the host asked for.
func (d *Dispatcher) fallbackHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toolResult(d.Call(ctx, requestedTool(req), req.GetArguments())), nil
	}
}

// reroute points req at the fallback handler, keeping the original name.
func reroute(req *mcp.CallToolRequest) {
	if req.Params.Meta == nil {
		req.Params.Meta = &mcp.Meta{}
	}
	if req.Params.Meta.AdditionalFields == nil {
		req.Params.Meta.AdditionalFields = map[string]any{}
	}
	req.Params.Meta.AdditionalFields[requestedToolKey] = req.Params.Name
	req.Params.Name = fallbackToolName
}

func requestedTool(req mcp.CallToolRequest) string {
	if req.Params.Meta != nil {
		if name, ok := req.Params.Meta.AdditionalFields[requestedToolKey].(string); ok {
			return name
		}
	}
	return req.Params.Name
}

func toolResult(r Response) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(r.Blocks))
	for _, b := range r.Blocks {
		content = append(content, mcp.NewTextContent(b))
	}
	return &mcp.CallToolResult{Content: content, IsError: r.IsError}
}
