// Package tools defines the capability contract between the agent loop and
// tool executors, and the registry that dispatches to them.
//
// The registry is the sole authority on whether a tool is destructive: the
// loop asks RequiresApproval and never special-cases tool names. Executor
// failures — returned errors or panics — are converted into failed
// ToolResults so a bad tool call is reported back to the model as data
// instead of crashing the turn.
package tools

import (
	"context"

	"github.com/scribeworks/scribe/pkg/types"
)

// Tool is one capability the model can invoke during a task.
//
// Example invocation format from the model:
//
//	<create_file>
//	<path>notes/a.md</path>
//	<content>hello</content>
//	</create_file>
type Tool interface {
	// Name returns the unique identifier for this tool (e.g. "create_file").
	// It doubles as the invocation tag name.
	Name() string

	// Description returns a model-facing description of what this tool does.
	Description() string

	// Schema returns the JSON schema for this tool's parameters, embedded
	// into the system prompt so the model knows how to call it.
	Schema() map[string]interface{}

	// RequiresApproval reports whether this tool must pass the human
	// approval gate before executing. Static and side-effect free.
	RequiresApproval() bool

	// Execute runs the tool. Implementations return a failed ToolResult for
	// expected problems (missing file, bad params) and reserve errors for
	// situations the registry should also convert to failed results.
	Execute(ctx context.Context, params map[string]string, taskCtx *types.TaskContext) (types.ToolResult, error)
}

// LoopBreaker is an optional interface for tools that terminate the agent
// loop when they execute, such as attempt_completion.
type LoopBreaker interface {
	IsLoopBreaking() bool
}

// IsLoopBreaking reports whether executing the tool ends the task.
func IsLoopBreaking(t Tool) bool {
	lb, ok := t.(LoopBreaker)
	return ok && lb.IsLoopBreaking()
}

// BaseSchema builds a JSON schema object from properties and required
// fields.
func BaseSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
