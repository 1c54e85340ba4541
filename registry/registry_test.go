package registry_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
	"github.com/shubharthaksangharsha/apsara2.5/registry"
)

func echoTool(name string) (apsara.Tool, registry.Handler) {
	tool := apsara.Tool{
		Name:        name,
		Description: "echoes its arguments",
		Parameters:  json.RawMessage(`{"type":"object","properties":{}}`),
	}
	handler := func(_ context.Context, args map[string]any) map[string]any {
		return map[string]any{"echo": args}
	}
	return tool, handler
}

func TestRegistry_RegisterAndDeclarations(t *testing.T) {
	t.Parallel()
	r := registry.New(nil)
	for _, name := range []string{"calculator", "weather", "clock"} {
		tool, handler := echoTool(name)
		require.NoError(t, r.Register(tool, handler))
	}

	decls := r.Declarations()
	require.Len(t, decls, 3)
	assert.Equal(t, "calculator", decls[0].Name)
	assert.Equal(t, "weather", decls[1].Name)
	assert.Equal(t, "clock", decls[2].Name)
	assert.Equal(t, []string{"calculator", "weather", "clock"}, r.Names())
}

func TestRegistry_RegisterRejectsDuplicates(t *testing.T) {
	t.Parallel()
	r := registry.New(nil)
	tool, handler := echoTool("dup")
	require.NoError(t, r.Register(tool, handler))
	assert.ErrorIs(t, r.Register(tool, handler), apsara.ErrValidation)
}

func TestRegistry_RegisterRejectsEmptyName(t *testing.T) {
	t.Parallel()
	r := registry.New(nil)
	tool, handler := echoTool("")
	assert.ErrorIs(t, r.Register(tool, handler), apsara.ErrValidation)
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()
	r := registry.New(nil)
	tool, handler := echoTool("known")
	require.NoError(t, r.Register(tool, handler))

	got, err := r.Lookup("known")
	require.NoError(t, err)
	assert.Equal(t, "known", got.Name)

	_, err = r.Lookup("unknown")
	assert.ErrorIs(t, err, apsara.ErrToolNotFound)
}

func TestRegistry_SchemasForDropsUnknownNames(t *testing.T) {
	t.Parallel()
	r := registry.New(nil)
	tool, handler := echoTool("known")
	require.NoError(t, r.Register(tool, handler))

	tools := r.SchemasFor([]string{"known", "ghost", "phantom"})
	require.Len(t, tools, 1)
	assert.Equal(t, "known", tools[0].Name)

	assert.Empty(t, r.SchemasFor([]string{"ghost"}))
}

func TestRegistry_ExecuteUnknownToolReturnsErrorPayload(t *testing.T) {
	t.Parallel()
	r := registry.New(nil)

	result := r.Execute(context.Background(), "nonexistent_tool", map[string]any{})
	assert.Equal(t, map[string]any{"error": "Tool nonexistent_tool not found"}, result)
}

func TestRegistry_ExecuteRecoversPanics(t *testing.T) {
	t.Parallel()
	r := registry.New(nil)
	require.NoError(t, r.Register(apsara.Tool{Name: "explosive"},
		func(_ context.Context, _ map[string]any) map[string]any {
			panic("boom")
		}))

	result := r.Execute(context.Background(), "explosive", nil)
	assert.Equal(t, map[string]any{"error": "boom"}, result)
}

func TestRegistry_ExecuteDelegates(t *testing.T) {
	t.Parallel()
	r := registry.New(nil)
	tool, handler := echoTool("echo")
	require.NoError(t, r.Register(tool, handler))

	result := r.Execute(context.Background(), "echo", map[string]any{"k": "v"})
	assert.Equal(t, map[string]any{"echo": map[string]any{"k": "v"}}, result)
}
