package notes

import (
	"context"
	"fmt"
	"os"

	"github.com/scribeworks/scribe/pkg/agent/tools"
	"github.com/scribeworks/scribe/pkg/security/workspace"
	"github.com/scribeworks/scribe/pkg/types"
)

// CreateFolderTool creates a folder inside the workspace.
type CreateFolderTool struct {
	guard *workspace.Guard
}

// NewCreateFolderTool creates a CreateFolderTool confined to the guard's
// workspace.
func NewCreateFolderTool(guard *workspace.Guard) *CreateFolderTool {
	return &CreateFolderTool{guard: guard}
}

// Name returns the tool name.
func (t *CreateFolderTool) Name() string {
	return "create_folder"
}

// Description returns the tool description.
func (t *CreateFolderTool) Description() string {
	return "Create a folder at the given path, including any missing parent folders. Succeeds if the folder already exists."
}

// Schema returns the JSON schema for the tool's parameters.
func (t *CreateFolderTool) Schema() map[string]interface{} {
	return tools.BaseSchema(
		map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Path of the folder to create, relative to the workspace",
			},
		},
		[]string{"path"},
	)
}

// RequiresApproval reports that creating folders does not need approval.
func (t *CreateFolderTool) RequiresApproval() bool {
	return false
}

// Execute creates the folder.
func (t *CreateFolderTool) Execute(ctx context.Context, params map[string]string, taskCtx *types.TaskContext) (types.ToolResult, error) {
	path := params["path"]
	if path == "" {
		return types.FailedResult("missing required parameter: path"), nil
	}

	abs, err := t.guard.Resolve(path)
	if err != nil {
		return types.FailedResult(err.Error()), nil
	}

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return types.FailedResult(fmt.Sprintf("failed to create folder: %v", err)), nil
	}

	return types.OKResult(fmt.Sprintf("Created folder %s", t.guard.Rel(abs))), nil
}
