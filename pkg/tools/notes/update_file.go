package notes

import (
	"context"
	"fmt"
	"os"

	"github.com/scribeworks/scribe/pkg/agent/tools"
	"github.com/scribeworks/scribe/pkg/security/workspace"
	"github.com/scribeworks/scribe/pkg/types"
)

// UpdateFileTool overwrites an existing note with new content.
type UpdateFileTool struct {
	guard *workspace.Guard
}

// NewUpdateFileTool creates an UpdateFileTool confined to the guard's
// workspace.
func NewUpdateFileTool(guard *workspace.Guard) *UpdateFileTool {
	return &UpdateFileTool{guard: guard}
}

// Name returns the tool name.
func (t *UpdateFileTool) Name() string {
	return "update_file"
}

// Description returns the tool description.
func (t *UpdateFileTool) Description() string {
	return "Replace the entire content of an existing note. Fails if the note does not exist. Requires user approval."
}

// Schema returns the JSON schema for the tool's parameters.
func (t *UpdateFileTool) Schema() map[string]interface{} {
	return tools.BaseSchema(
		map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Path of the note to update, relative to the workspace",
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "New content replacing the note",
			},
		},
		[]string{"path", "content"},
	)
}

// RequiresApproval reports that overwriting a note is destructive.
func (t *UpdateFileTool) RequiresApproval() bool {
	return true
}

// Execute overwrites the note.
func (t *UpdateFileTool) Execute(ctx context.Context, params map[string]string, taskCtx *types.TaskContext) (types.ToolResult, error) {
	path := params["path"]
	if path == "" {
		return types.FailedResult("missing required parameter: path"), nil
	}

	abs, err := t.guard.Resolve(path)
	if err != nil {
		return types.FailedResult(err.Error()), nil
	}

	info, err := os.Stat(abs)
	if err != nil {
		return types.FailedResult(fmt.Sprintf("file not found: %s", path)), nil
	}
	if info.IsDir() {
		return types.FailedResult(fmt.Sprintf("%s is a folder, not a note", path)), nil
	}

	if err := os.WriteFile(abs, []byte(params["content"]), info.Mode().Perm()); err != nil {
		return types.FailedResult(fmt.Sprintf("failed to write file: %v", err)), nil
	}

	return types.OKResult(fmt.Sprintf("Updated %s", t.guard.Rel(abs))), nil
}
