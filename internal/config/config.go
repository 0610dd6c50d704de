package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/rag-mcp/internal/common"
)

// Transport names accepted in server.transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	RAG     RAGConfig            `toml:"rag"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name      string `toml:"name"`
	Transport string `toml:"transport"` // "stdio" or "http"
	Port      int    `toml:"port"`      // streamable HTTP only
}

// RAGConfig holds the remote RAG API credentials and limits.
// An empty APIToken leaves the server unconfigured until configure_rag is called.
type RAGConfig struct {
	APIToken string `toml:"api_token"`
	BaseURL  string `toml:"base_url"`
	Timeout  string `toml:"timeout"`
}

// GetTimeout parses and returns the request timeout.
func (c *RAGConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies RAG_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if token := os.Getenv("RAG_API_TOKEN"); token != "" {
		config.RAG.APIToken = token
	}
	if baseURL := os.Getenv("RAG_BASE_URL"); baseURL != "" {
		config.RAG.BaseURL = baseURL
	}
	if timeout := os.Getenv("RAG_TIMEOUT"); timeout != "" {
		config.RAG.Timeout = timeout
	}
	if port := os.Getenv("RAG_MCP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if transport := os.Getenv("RAG_MCP_TRANSPORT"); transport != "" {
		config.Server.Transport = strings.ToLower(transport)
	}
	if level := os.Getenv("RAG_MCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, transport string) {
	if port > 0 {
		config.Server.Port = port
	}
	if transport != "" {
		config.Server.Transport = strings.ToLower(transport)
	}
}

// Validate returns a list of problems with the configuration. An empty list means valid.
// A missing API token is not a problem: the server starts unconfigured.
func (c *Config) Validate() []string {
	var issues []string

	switch c.Server.Transport {
	case TransportStdio:
	case TransportHTTP:
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			issues = append(issues, fmt.Sprintf("server.port %d is out of range (1-65535)", c.Server.Port))
		}
	default:
		issues = append(issues, fmt.Sprintf("server.transport %q must be %q or %q", c.Server.Transport, TransportStdio, TransportHTTP))
	}

	if c.RAG.BaseURL != "" {
		u, err := url.Parse(c.RAG.BaseURL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			issues = append(issues, fmt.Sprintf("rag.base_url %q must be an absolute http(s) URL", c.RAG.BaseURL))
		}
	}

	if c.RAG.Timeout != "" {
		if d, err := time.ParseDuration(c.RAG.Timeout); err != nil || d <= 0 {
			issues = append(issues, fmt.Sprintf("rag.timeout %q is not a positive duration", c.RAG.Timeout))
		}
	}

	return issues
}
