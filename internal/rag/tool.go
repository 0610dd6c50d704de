package rag

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/rag-mcp/internal/tools"
)

// ToolName is the name hosts call the query tool by.
const ToolName = "rag_docs"

const toolDescription = "Performs an intelligent query on the RAG document database. " +
	"It searches company documents and answers from their actual content, including references to the source documents. " +
	"Use it to find specific information, details about people, processes, products or any other documented content."

// Definition returns the rag_docs tool definition. It is rebuilt on each call so the
// schema maps handed out are never shared.
func Definition() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription(toolDescription),
		mcp.WithString("query", mcp.Required(), mcp.Description("The question to ask the RAG system")),
	)
}

// QueryTool is the rag_docs tool.
type QueryTool struct {
	client *Client
}

// NewQueryTool creates the rag_docs tool backed by client.
func NewQueryTool(client *Client) *QueryTool {
	return &QueryTool{client: client}
}

func (t *QueryTool) Name() string                     { return ToolName }
func (t *QueryTool) Description() string              { return toolDescription }
func (t *QueryTool) InputSchema() mcp.ToolInputSchema { return Definition().InputSchema }

// Execute validates the query argument, issues one request, and normalises
// the result. It never retries.
func (t *QueryTool) Execute(ctx context.Context, args map[string]any) tools.Outcome {
	q, _ := args["query"].(string)
	if q == "" {
		return tools.Failed(tools.FailureValidation, "Query parameter is required", msgMissingQuery)
	}

	data, err := t.client.Query(ctx, q)
	if err != nil {
		return failureFor(err)
	}
	return tools.Succeeded(msgSuccess, q, data)
}

// failureFor maps a Client error onto the failure taxonomy.
func failureFor(err error) tools.Outcome {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return tools.Failed(tools.FailureRemoteAPI, apiErr.Error(), statusGuidance(apiErr.StatusCode))
	case errors.Is(err, tools.ErrTimeout):
		return tools.Failed(tools.FailureTimeout, "Request timeout", msgTimeout)
	case errors.Is(err, context.Canceled):
		return tools.Failed(tools.FailureUnexpected, "Request canceled", msgCanceled)
	default:
		return tools.Failed(tools.FailureUnexpected, err.Error(), msgUnexpected)
	}
}

// NewFactory returns a tools.Factory building the rag_docs tool for a set of
// credentials. opts apply to every client it creates.
func NewFactory(opts ...Option) tools.Factory {
	return func(creds tools.Credentials) ([]tools.Tool, error) {
		client, err := NewClient(creds, opts...)
		if err != nil {
			return nil, err
		}
		client.logger.Info().Str("endpoint", client.Endpoint()).Dur("timeout", client.timeout).Msg("rag client created")
		return []tools.Tool{NewQueryTool(client)}, nil
	}
}
