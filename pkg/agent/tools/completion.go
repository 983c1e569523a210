package tools

import (
	"context"
	"fmt"

	"github.com/scribeworks/scribe/pkg/types"
)

// AttemptCompletionTool is the loop-breaking tool the model invokes to
// signal the task is finished and present the final result.
type AttemptCompletionTool struct{}

// NewAttemptCompletionTool creates the completion tool.
func NewAttemptCompletionTool() *AttemptCompletionTool {
	return &AttemptCompletionTool{}
}

func (t *AttemptCompletionTool) Name() string {
	return "attempt_completion"
}

func (t *AttemptCompletionTool) Description() string {
	return "Signal that the task is complete and present the final result to the user. " +
		"Use this when you have finished all work. The result should be complete and " +
		"not end with questions or offers for further assistance."
}

func (t *AttemptCompletionTool) Schema() map[string]interface{} {
	return BaseSchema(
		map[string]interface{}{
			"result": map[string]interface{}{
				"type":        "string",
				"description": "The final result of the task.",
			},
		},
		[]string{"result"},
	)
}

func (t *AttemptCompletionTool) RequiresApproval() bool {
	return false
}

// Execute returns the model's final result for presentation to the user.
func (t *AttemptCompletionTool) Execute(ctx context.Context, params map[string]string, taskCtx *types.TaskContext) (types.ToolResult, error) {
	result := params["result"]
	if result == "" {
		return types.ToolResult{}, fmt.Errorf("result cannot be empty")
	}
	return types.OKResult(result), nil
}

// IsLoopBreaking returns true: completing ends the task.
func (t *AttemptCompletionTool) IsLoopBreaking() bool {
	return true
}
