package tools

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/bobmcallan/rag-mcp/internal/config"
)

// Credentials configure the tools a Factory builds.
type Credentials struct {
	APIToken string
	BaseURL  string
}

// String redacts the token so credentials are safe to log.
func (c Credentials) String() string {
	token := "<empty>"
	if c.APIToken != "" {
		token = "<redacted>"
	}
	return fmt.Sprintf("{APIToken:%s BaseURL:%s}", token, c.BaseURL)
}

// Factory builds the full tool set for a set of credentials.
type Factory func(creds Credentials) ([]Tool, error)

// Registry holds the configured tools in registration order, unique by name.
// It starts empty and is populated by Configure; each Configure replaces the
// whole set. The set is built off-lock and swapped in, so readers see either
// the previous set or the new one, never a mix.
type Registry struct {
	mu      sync.RWMutex
	tools   *orderedmap.OrderedMap[string, Tool]
	baseURL string

	factory   Factory
	bootstrap mcp.Tool
}

// NewRegistry creates an empty registry. bootstrap is the descriptor listed
// while nothing is configured.
func NewRegistry(factory Factory, bootstrap mcp.Tool) *Registry {
	return &Registry{
		tools:     orderedmap.New[string, Tool](),
		factory:   factory,
		bootstrap: bootstrap,
	}
}

// Configure replaces the registered tools with the factory's tools for creds.
// An empty token fails with ErrConfiguration and leaves the registry unchanged.
// An empty base URL falls back to config.DefaultBaseURL. Every built tool
// must have a valid, unique name and an object input schema.
func (r *Registry) Configure(creds Credentials) error {
	if strings.TrimSpace(creds.APIToken) == "" {
		return fmt.Errorf("%w: api token is required", ErrConfiguration)
	}
	if creds.BaseURL == "" {
		creds.BaseURL = config.DefaultBaseURL
	}

	built, err := r.factory(creds)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if len(built) == 0 {
		return fmt.Errorf("%w: no tools built for %s", ErrConfiguration, creds.BaseURL)
	}

	next := orderedmap.New[string, Tool](orderedmap.WithCapacity[string, Tool](len(built)))
	for _, t := range built {
		if err := validateTool(t, r.bootstrap.Name); err != nil {
			return fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		if _, dup := next.Set(t.Name(), t); dup {
			return fmt.Errorf("%w: duplicate tool name %q", ErrConfiguration, t.Name())
		}
	}

	r.mu.Lock()
	r.tools = next
	r.baseURL = creds.BaseURL
	r.mu.Unlock()
	return nil
}

// List returns the descriptors of the registered tools in order. While the
// registry is unconfigured it returns the bootstrap descriptor alone, so the
// list is never empty.
func (r *Registry) List() []mcp.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.tools.Len() == 0 {
		return []mcp.Tool{r.bootstrap}
	}
	out := make([]mcp.Tool, 0, r.tools.Len())
	for p := r.tools.Oldest(); p != nil; p = p.Next() {
		out = append(out, Describe(p.Value))
	}
	return out
}

// Resolve returns the tool registered under name (exact, case-sensitive match).
func (r *Registry) Resolve(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools.Get(name)
}

// Names returns the registered tool names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, r.tools.Len())
	for p := r.tools.Oldest(); p != nil; p = p.Next() {
		names = append(names, p.Key)
	}
	return names
}

// Configured reports whether Configure has succeeded at least once.
func (r *Registry) Configured() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools.Len() > 0
}

// BaseURL returns the base URL of the last successful Configure, or "".
func (r *Registry) BaseURL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.baseURL
}
