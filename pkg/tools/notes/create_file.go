// Package notes implements the built-in workspace tools: file and folder
// manipulation plus note search, all confined by the workspace guard.
package notes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scribeworks/scribe/pkg/agent/tools"
	"github.com/scribeworks/scribe/pkg/security/workspace"
	"github.com/scribeworks/scribe/pkg/types"
)

// CreateFileTool creates a new note, failing if the path already exists.
type CreateFileTool struct {
	guard *workspace.Guard
}

// NewCreateFileTool creates a CreateFileTool confined to the guard's
// workspace.
func NewCreateFileTool(guard *workspace.Guard) *CreateFileTool {
	return &CreateFileTool{guard: guard}
}

// Name returns the tool name.
func (t *CreateFileTool) Name() string {
	return "create_file"
}

// Description returns the tool description.
func (t *CreateFileTool) Description() string {
	return "Create a new note at the given path with the given content. Fails if the file already exists. Parent folders are created as needed."
}

// Schema returns the JSON schema for the tool's parameters.
func (t *CreateFileTool) Schema() map[string]interface{} {
	return tools.BaseSchema(
		map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Path for the new note, relative to the workspace",
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Initial content of the note",
			},
		},
		[]string{"path", "content"},
	)
}

// RequiresApproval reports that creating files does not need approval.
func (t *CreateFileTool) RequiresApproval() bool {
	return false
}

// Execute creates the note.
func (t *CreateFileTool) Execute(ctx context.Context, params map[string]string, taskCtx *types.TaskContext) (types.ToolResult, error) {
	path := params["path"]
	if path == "" {
		return types.FailedResult("missing required parameter: path"), nil
	}

	abs, err := t.guard.Resolve(path)
	if err != nil {
		return types.FailedResult(err.Error()), nil
	}

	if _, statErr := os.Stat(abs); statErr == nil {
		return types.FailedResult(fmt.Sprintf("file already exists: %s", path)), nil
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return types.FailedResult(fmt.Sprintf("failed to create parent folders: %v", err)), nil
	}

	if err := os.WriteFile(abs, []byte(params["content"]), 0o640); err != nil {
		return types.FailedResult(fmt.Sprintf("failed to write file: %v", err)), nil
	}

	return types.OKResult(fmt.Sprintf("Created %s", t.guard.Rel(abs))), nil
}
