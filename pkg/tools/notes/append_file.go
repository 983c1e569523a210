package notes

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/scribeworks/scribe/pkg/agent/tools"
	"github.com/scribeworks/scribe/pkg/security/workspace"
	"github.com/scribeworks/scribe/pkg/types"
)

// AppendFileTool appends content to the end of an existing note.
type AppendFileTool struct {
	guard *workspace.Guard
}

// NewAppendFileTool creates an AppendFileTool confined to the guard's
// workspace.
func NewAppendFileTool(guard *workspace.Guard) *AppendFileTool {
	return &AppendFileTool{guard: guard}
}

// Name returns the tool name.
func (t *AppendFileTool) Name() string {
	return "append_to_file"
}

// Description returns the tool description.
func (t *AppendFileTool) Description() string {
	return "Append content to the end of an existing note. A newline is inserted before the appended content if the note does not already end with one."
}

// Schema returns the JSON schema for the tool's parameters.
func (t *AppendFileTool) Schema() map[string]interface{} {
	return tools.BaseSchema(
		map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Path of the note to append to, relative to the workspace",
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Content to append",
			},
		},
		[]string{"path", "content"},
	)
}

// RequiresApproval reports that appending preserves existing content and is
// not gated.
func (t *AppendFileTool) RequiresApproval() bool {
	return false
}

// Execute appends to the note.
func (t *AppendFileTool) Execute(ctx context.Context, params map[string]string, taskCtx *types.TaskContext) (types.ToolResult, error) {
	path := params["path"]
	if path == "" {
		return types.FailedResult("missing required parameter: path"), nil
	}

	abs, err := t.guard.Resolve(path)
	if err != nil {
		return types.FailedResult(err.Error()), nil
	}

	existing, err := os.ReadFile(abs)
	if err != nil {
		return types.FailedResult(fmt.Sprintf("file not found: %s", path)), nil
	}

	content := params["content"]
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		content = "\n" + content
	}

	f, err := os.OpenFile(abs, os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return types.FailedResult(fmt.Sprintf("failed to open file: %v", err)), nil
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return types.FailedResult(fmt.Sprintf("failed to append: %v", err)), nil
	}

	return types.OKResult(fmt.Sprintf("Appended to %s", t.guard.Rel(abs))), nil
}
