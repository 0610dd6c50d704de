package mcp

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/rag-mcp/internal/common"
	"github.com/bobmcallan/rag-mcp/internal/config"
	"github.com/bobmcallan/rag-mcp/internal/tools"
)

// ConfigureToolName is the pseudo-tool that installs credentials at runtime.
const ConfigureToolName = "configure_rag"

const (
	msgTokenRequired = "Error: api_token parameter is required for configuration"
	msgNotConfigured = "RAG tools not configured. Please call 'configure_rag' tool first with your API token."
)

// ConfigureTool returns the descriptor of the configure_rag pseudo-tool. It is
// what hosts see while no tools are configured.
func ConfigureTool() mcp.Tool {
	return mcp.NewTool(ConfigureToolName,
		mcp.WithDescription("Configure RAG tools with API token and base URL"),
		mcp.WithString("api_token",
			mcp.Required(),
			mcp.Description("RAG API token for authentication"),
		),
		mcp.WithString("base_url",
			mcp.Description("Base URL for RAG API (optional, defaults to "+config.DefaultBaseURL+")"),
			mcp.DefaultString(config.DefaultBaseURL),
		),
	)
}

// Dispatcher routes tool calls: configure_rag goes to the registry, every other
// name is resolved against it, executed, and rendered.
type Dispatcher struct {
	registry *tools.Registry
	logger   *common.Logger
	hooks    []func()
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithConfigureHook registers fn to run after every successful configure.
func WithConfigureHook(fn func()) DispatcherOption {
	return func(d *Dispatcher) {
		d.hooks = append(d.hooks, fn)
	}
}

// NewDispatcher creates a dispatcher over registry.
func NewDispatcher(registry *tools.Registry, logger *common.Logger, opts ...DispatcherOption) *Dispatcher {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	d := &Dispatcher{registry: registry, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ListTools returns what hosts should see right now.
func (d *Dispatcher) ListTools() []mcp.Tool {
	return d.registry.List()
}

// Call runs one tool call and renders its result. It never panics and never
// returns an empty Response.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (resp Response) {
	// Calls arriving over HTTP already carry the request's correlation logger.
	logger := common.LoggerFromContext(ctx, nil)
	if logger == nil {
		logger = d.logger.WithCorrelationId(uuid.NewString())
		ctx = common.WithLogger(ctx, logger)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Str("tool", name).
				Str("panic", fmt.Sprint(r)).
				Str("stack", string(debug.Stack())).
				Msg("tool call panicked")
			resp = errorResponse(fmt.Sprintf("Unexpected error occurred while executing tool '%s': %v", name, r))
		}
	}()

	if name == ConfigureToolName {
		return d.configure(logger, args)
	}

	if !d.registry.Configured() {
		logger.Warn().Str("tool", name).Msg("tool called before configuration")
		return errorResponse(msgNotConfigured)
	}

	tool, ok := d.registry.Resolve(name)
	if !ok {
		available := d.registry.Names()
		logger.Warn().Str("tool", name).Str("available", strings.Join(available, ",")).Msg("unknown tool")
		return errorResponse(fmt.Sprintf("Tool '%s' not found. Available tools: %s", name, strings.Join(available, ", ")))
	}

	logger.Info().Str("tool", name).Msg("tool call")
	start := time.Now()
	outcome := tool.Execute(ctx, args)
	elapsed := time.Since(start)

	if outcome.OK {
		logger.Info().Str("tool", name).Int64("duration_ms", elapsed.Milliseconds()).Msg("tool call succeeded")
	} else {
		logger.Warn().
			Str("tool", name).
			Str("kind", outcome.Kind.String()).
			Err(outcome.Err()).
			Int64("duration_ms", elapsed.Milliseconds()).
			Msg("tool call failed")
	}
	return Render(outcome)
}

// configure handles configure_rag. The token is never logged.
func (d *Dispatcher) configure(logger *common.Logger, args map[string]any) Response {
	token, _ := args["api_token"].(string)
	if strings.TrimSpace(token) == "" {
		logger.Warn().Msg("configure_rag called without api_token")
		return errorResponse(msgTokenRequired)
	}
	baseURL, _ := args["base_url"].(string)
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}

	if err := d.registry.Configure(tools.Credentials{APIToken: token, BaseURL: baseURL}); err != nil {
		logger.Error().Str("base_url", baseURL).Str("error", err.Error()).Msg("configure_rag failed")
		return errorResponse(fmt.Sprintf("Error configuring RAG tools: %v", err))
	}

	logger.Info().
		Str("base_url", baseURL).
		Str("tools", strings.Join(d.registry.Names(), ",")).
		Msg("RAG tools configured")
	for _, fn := range d.hooks {
		fn()
	}
	return textResponse("RAG tools configured successfully with base URL: " + baseURL)
}
