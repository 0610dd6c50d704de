package server

import (
	"encoding/json"
	"net/http"

	"github.com/bobmcallan/rag-mcp/internal/config"
	"github.com/bobmcallan/rag-mcp/internal/mcp"
)

func (s *Server) setupRoutes(mcpHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle(mcp.EndpointPath, mcpHandler)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/version", s.handleVersion)

	return mux
}

// handleHealth handles GET /api/health. The server is healthy whether or not
// the RAG tools are configured; configured is reported for operators.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"configured": s.registry.Configured(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version":    config.GetVersion(),
		"build":      config.GetBuild(),
		"git_commit": config.GetGitCommit(),
	})
}

// writeJSON writes a JSON response with the specified status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}
