package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribeworks/scribe/pkg/types"
)

// fakeTool is a configurable tool for registry tests.
type fakeTool struct {
	name      string
	approval  bool
	breaking  bool
	execute   func(ctx context.Context, params map[string]string) (types.ToolResult, error)
}

func (f *fakeTool) Name() string                  { return f.name }
func (f *fakeTool) Description() string           { return "fake" }
func (f *fakeTool) Schema() map[string]interface{} { return BaseSchema(nil, nil) }
func (f *fakeTool) RequiresApproval() bool        { return f.approval }
func (f *fakeTool) IsLoopBreaking() bool          { return f.breaking }

func (f *fakeTool) Execute(ctx context.Context, params map[string]string, taskCtx *types.TaskContext) (types.ToolResult, error) {
	if f.execute != nil {
		return f.execute(ctx, params)
	}
	return types.OKResult("ok"), nil
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(&fakeTool{name: "a"}))
	assert.Error(t, r.Register(&fakeTool{name: "a"}), "duplicate registration")
	assert.Error(t, r.Register(&fakeTool{name: ""}), "empty name")
	assert.Error(t, r.Register(nil), "nil tool")

	_, ok := r.Get("a")
	assert.True(t, ok)
}

func TestRegistry_Names_Sorted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeTool{name: "zebra"}))
	require.NoError(t, r.Register(&fakeTool{name: "apple"}))

	assert.Equal(t, []string{"apple", "zebra"}, r.Names())
}

func TestRegistry_RequiresApproval(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeTool{name: "safe"}))
	require.NoError(t, r.Register(&fakeTool{name: "destructive", approval: true}))

	assert.False(t, r.RequiresApproval("safe"))
	assert.True(t, r.RequiresApproval("destructive"))
	assert.False(t, r.RequiresApproval("missing"))
}

func TestRegistry_Execute_UnknownTool(t *testing.T) {
	r := NewRegistry()

	result := r.Execute(context.Background(), "nope", nil, nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "unknown tool")
}

func TestRegistry_Execute_ErrorBecomesFailedResult(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeTool{
		name: "boom",
		execute: func(ctx context.Context, params map[string]string) (types.ToolResult, error) {
			return types.ToolResult{}, errors.New("disk full")
		},
	}))

	result := r.Execute(context.Background(), "boom", nil, nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "disk full")
}

func TestRegistry_Execute_PanicBecomesFailedResult(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeTool{
		name: "panics",
		execute: func(ctx context.Context, params map[string]string) (types.ToolResult, error) {
			panic("nil map write")
		},
	}))

	var result types.ToolResult
	assert.NotPanics(t, func() {
		result = r.Execute(context.Background(), "panics", nil, nil)
	})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "panicked")
}

func TestAttemptCompletionTool(t *testing.T) {
	tool := NewAttemptCompletionTool()

	assert.True(t, IsLoopBreaking(tool))
	assert.False(t, tool.RequiresApproval())

	result, err := tool.Execute(context.Background(), map[string]string{"result": "done"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "done", result.Content)

	_, err = tool.Execute(context.Background(), map[string]string{}, nil)
	assert.Error(t, err)
}

func TestIsLoopBreaking_NonBreaker(t *testing.T) {
	assert.True(t, IsLoopBreaking(&fakeTool{name: "x", breaking: true}))
	assert.False(t, IsLoopBreaking(&fakeTool{name: "y"}))
}
