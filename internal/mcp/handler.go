package mcp

import (
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/rag-mcp/internal/common"
)

// EndpointPath is where the streamable HTTP transport is mounted.
const EndpointPath = "/mcp"

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates a stateless streamable HTTP handler for s.
func NewHandler(s *mcpserver.MCPServer, logger *common.Logger) *Handler {
	streamable := mcpserver.NewStreamableHTTPServer(s,
		mcpserver.WithStateLess(true),
		mcpserver.WithEndpointPath(EndpointPath),
		mcpserver.WithLogger(transportLogger{logger}),
	)
	return &Handler{streamable: streamable, logger: logger}
}

// ServeHTTP logs the request and delegates to the streamable server.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.streamable.ServeHTTP(w, r)
	h.logger.Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("mcp http request")
}

// transportLogger routes mcp-go's transport logging into arbor.
type transportLogger struct {
	logger *common.Logger
}

func (l transportLogger) Infof(format string, v ...any) {
	l.logger.Info().Msg(fmt.Sprintf(format, v...))
}

func (l transportLogger) Errorf(format string, v ...any) {
	l.logger.Error().Msg(fmt.Sprintf(format, v...))
}
