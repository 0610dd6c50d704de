package config

import "github.com/bobmcallan/rag-mcp/internal/common"

// DefaultBaseURL is the RAG API used when no base URL is configured.
const DefaultBaseURL = "https://api.ragnet-ai.com"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:      "RAG MCP Server",
			Transport: TransportStdio,
			Port:      4250,
		},
		RAG: RAGConfig{
			BaseURL: DefaultBaseURL,
			Timeout: "30s",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/rag-mcp.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}
