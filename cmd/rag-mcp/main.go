package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/rag-mcp/internal/common"
	"github.com/bobmcallan/rag-mcp/internal/config"
	"github.com/bobmcallan/rag-mcp/internal/mcp"
	"github.com/bobmcallan/rag-mcp/internal/rag"
	httpserver "github.com/bobmcallan/rag-mcp/internal/server"
	"github.com/bobmcallan/rag-mcp/internal/tools"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	stdio       = flag.Bool("stdio", false, "Use stdio transport (shorthand for -transport stdio)")
	transport   = flag.String("transport", "", "Transport: stdio or http (overrides config)")
	serverPort  = flag.Int("port", 0, "HTTP port (overrides config)")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	config.LoadVersionFromFile()
	if *showVersion {
		fmt.Printf("rag-mcp version %s\n", config.GetFullVersion())
		os.Exit(0)
	}

	if len(configFiles) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	finalTransport := *transport
	if *stdio {
		finalTransport = config.TransportStdio
	}
	config.ApplyFlagOverrides(cfg, *serverPort, finalTransport)

	if issues := cfg.Validate(); len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Configuration error:")
		fmt.Fprintln(os.Stderr, "")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "  - %s\n", issue)
		}
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Values can be set via TOML file, RAG_* environment variables, or CLI flags.")
		fmt.Fprintln(os.Stderr, "")
		os.Exit(1)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)
	logger.Info().
		Str("version", config.GetFullVersion()).
		Str("transport", cfg.Server.Transport).
		Str("base_url", cfg.RAG.BaseURL).
		Str("config_files", fmt.Sprintf("%v", configFiles)).
		Msg("configuration loaded")

	registry := tools.NewRegistry(
		rag.NewFactory(rag.WithTimeout(cfg.RAG.GetTimeout()), rag.WithLogger(logger)),
		mcp.ConfigureTool(),
	)
	if cfg.RAG.APIToken != "" {
		creds := tools.Credentials{APIToken: cfg.RAG.APIToken, BaseURL: cfg.RAG.BaseURL}
		if err := registry.Configure(creds); err != nil {
			logger.Error().Str("error", err.Error()).Msg("startup configuration failed, waiting for configure_rag")
		} else {
			logger.Info().Str("base_url", registry.BaseURL()).Msg("RAG tools configured from startup configuration")
		}
	} else {
		logger.Info().Msg("no API token configured, waiting for configure_rag")
	}

	dispatcher := mcp.NewDispatcher(registry, logger)
	mcpServer := mcp.NewServer(dispatcher, cfg.Server.Name, config.GetVersion())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Server.Transport {
	case config.TransportHTTP:
		err = serveHTTP(ctx, mcpServer, registry, cfg.Server.Port, logger)
	default:
		err = serveStdio(ctx, mcpServer, logger)
	}
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("server failed")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}

// serveStdio runs until stdin closes or ctx is canceled. Both are normal exits.
func serveStdio(ctx context.Context, s *server.MCPServer, logger *common.Logger) error {
	logger.Info().Msg("starting stdio transport")
	err := server.NewStdioServer(s).Listen(ctx, os.Stdin, os.Stdout)
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// serveHTTP serves the streamable HTTP transport until ctx is canceled, then
// shuts down gracefully.
func serveHTTP(ctx context.Context, s *server.MCPServer, registry *tools.Registry, port int, logger *common.Logger) error {
	srv := httpserver.New(mcp.NewHandler(s, logger), registry, port, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried before the working directory.
func configSearchPaths() []string {
	candidates := []string{"rag-mcp.toml", filepath.Join("config", "rag-mcp.toml")}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)
	paths := append([]string{
		filepath.Join(binDir, "rag-mcp.toml"),
		filepath.Join(binDir, "config", "rag-mcp.toml"),
	}, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}
