package mcp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/rag-mcp/internal/tools"
)

// Resource URIs served alongside the tools.
const (
	DocsURI   = "rag://docs"
	StatusURI = "rag://status"
)

// ErrResourceNotFound is returned for a resource URI the server does not serve.
var ErrResourceNotFound = errors.New("resource not found")

const docsText = `# RAG MCP Server

This MCP server provides access to RAG (Retrieval-Augmented Generation) features.

## Available Tools

### rag_docs
Executes a RAG query over your documents, including information about the source documents.
Parameters:
- query (string, required): the question to ask the RAG system

### configure_rag
Configures the RAG tools at runtime. Until it succeeds, it is the only tool listed.
Parameters:
- api_token (string, required): RAG API token for authentication
- base_url (string, optional): base URL of the RAG API, defaults to https://api.ragnet-ai.com

## Configuration
1. Set the RAG_API_TOKEN environment variable (or [rag] api_token in the config file) to configure at startup
2. Optionally set RAG_BASE_URL (defaults to https://api.ragnet-ai.com)
3. Otherwise call configure_rag from the host
4. The server runs in stdio mode for MCP integration by default; use -transport http for streamable HTTP

## Example usage
- Ask questions about your documents
- Get contextual answers based on your vector database
- Retrieve source document information with relevance scores
`

// ReadDoc returns the documentation resource text.
func ReadDoc(uri string) (string, error) {
	if uri != DocsURI {
		return "", fmt.Errorf("%w: %s", ErrResourceNotFound, uri)
	}
	return docsText, nil
}

// StatusText describes the live registry state. It never includes the token.
func StatusText(reg *tools.Registry, version string) string {
	var b strings.Builder
	b.WriteString("RAG MCP Server status\n")
	fmt.Fprintf(&b, "Version: %s\n", version)
	if !reg.Configured() {
		b.WriteString("Configured: no\n")
		b.WriteString("Call 'configure_rag' with your API token to enable the RAG tools.\n")
		return b.String()
	}
	b.WriteString("Configured: yes\n")
	fmt.Fprintf(&b, "Base URL: %s\n", reg.BaseURL())
	fmt.Fprintf(&b, "Tools: %s\n", strings.Join(reg.Names(), ", "))
	return b.String()
}
