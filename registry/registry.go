// Package registry maps tool names to schemas and implementations.
//
// A Registry is constructed explicitly and injected into the engine rather
// than accessed as ambient state, so tests can substitute a reduced tool
// set. Execution never propagates an implementation fault: unknown tools
// and handler failures both come back as an error payload the model can
// acknowledge in natural language.
package registry

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
)

// Handler is the function signature for tool implementations. Handlers
// receive the directive's keyword arguments and return a result payload;
// failures are reported inside the payload under the "error" key.
type Handler func(ctx context.Context, args map[string]any) map[string]any

type entry struct {
	tool    apsara.Tool
	handler Handler
}

// Registry holds the process-wide tool set. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	order   []string
	logger  *zap.Logger
}

// New creates an empty Registry. A nil logger defaults to no-op.
func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		entries: make(map[string]entry),
		logger:  logger,
	}
}

// Register adds a tool and its implementation. Registering an empty name
// or a duplicate is an error.
func (r *Registry) Register(tool apsara.Tool, handler Handler) error {
	if tool.Name == "" {
		return fmt.Errorf("register tool: empty name: %w", apsara.ErrValidation)
	}
	if handler == nil {
		return fmt.Errorf("register tool %s: nil handler: %w", tool.Name, apsara.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[tool.Name]; exists {
		return fmt.Errorf("register tool %s: already registered: %w", tool.Name, apsara.ErrValidation)
	}
	r.entries[tool.Name] = entry{tool: tool, handler: handler}
	r.order = append(r.order, tool.Name)
	return nil
}

// Declarations returns all tool declarations in registration order.
func (r *Registry) Declarations() []apsara.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]apsara.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.entries[name].tool)
	}
	return tools
}

// Names returns all registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Lookup returns the declaration for a single tool.
func (r *Registry) Lookup(name string) (apsara.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return apsara.Tool{}, fmt.Errorf("tool %q: %w", name, apsara.ErrToolNotFound)
	}
	return e.tool, nil
}

// SchemasFor returns the provider-ready configuration for the named tools.
// Unknown names are silently dropped rather than errored, so a caller can
// enable a subset without tracking registry contents.
func (r *Registry) SchemasFor(names []string) []apsara.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tools []apsara.Tool
	for _, name := range names {
		if e, ok := r.entries[name]; ok {
			tools = append(tools, e.tool)
		}
	}
	return tools
}

// Execute runs the named tool with the given keyword arguments. It never
// returns an error or lets a handler fault escape: unknown tools yield
// {"error": "Tool <name> not found"} and a panicking handler is recovered
// into the same shape.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (result map[string]any) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return map[string]any{"error": fmt.Sprintf("Tool %s not found", name)}
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool panicked",
				zap.String("tool", name), zap.Any("panic", rec))
			result = map[string]any{"error": fmt.Sprint(rec)}
		}
	}()

	r.logger.Debug("executing tool", zap.String("tool", name))
	return e.handler(ctx, args)
}
