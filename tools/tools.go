// Package tools provides the built-in tool implementations: a calculator,
// a weather lookup, a clock, and a topic search. Weather and search are
// canned stand-ins wired the way real back-ends would be.
package tools

import (
	"fmt"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
	"github.com/shubharthaksangharsha/apsara2.5/registry"
)

// Registration pairs a tool declaration with its implementation.
type Registration struct {
	Tool    apsara.Tool
	Handler registry.Handler
}

// All returns every built-in tool in a stable order.
func All() []Registration {
	return []Registration{
		Calculator(),
		Weather(),
		DateTime(),
		Search(),
	}
}

// RegisterAll registers every built-in tool on r.
func RegisterAll(r *registry.Registry) error {
	for _, reg := range All() {
		if err := r.Register(reg.Tool, reg.Handler); err != nil {
			return err
		}
	}
	return nil
}

func errPayload(format string, args ...any) map[string]any {
	return map[string]any{"error": fmt.Sprintf(format, args...)}
}

// stringArg extracts a string argument by key.
func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// intArg extracts an integer argument by key. Providers deliver JSON
// numbers as float64.
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}
