package notes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scribeworks/scribe/pkg/agent/tools"
	"github.com/scribeworks/scribe/pkg/security/workspace"
	"github.com/scribeworks/scribe/pkg/types"
)

// trashDir is where deleted notes are moved instead of being removed.
const trashDir = ".trash"

// DeleteFileTool moves a note or folder to the workspace trash.
type DeleteFileTool struct {
	guard *workspace.Guard
}

// NewDeleteFileTool creates a DeleteFileTool confined to the guard's
// workspace.
func NewDeleteFileTool(guard *workspace.Guard) *DeleteFileTool {
	return &DeleteFileTool{guard: guard}
}

// Name returns the tool name.
func (t *DeleteFileTool) Name() string {
	return "delete_file"
}

// Description returns the tool description.
func (t *DeleteFileTool) Description() string {
	return "Delete a note or folder by moving it to the workspace trash. Requires user approval."
}

// Schema returns the JSON schema for the tool's parameters.
func (t *DeleteFileTool) Schema() map[string]interface{} {
	return tools.BaseSchema(
		map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Path to delete, relative to the workspace",
			},
		},
		[]string{"path"},
	)
}

// RequiresApproval reports that deletion is destructive.
func (t *DeleteFileTool) RequiresApproval() bool {
	return true
}

// Execute moves the path into the trash folder.
func (t *DeleteFileTool) Execute(ctx context.Context, params map[string]string, taskCtx *types.TaskContext) (types.ToolResult, error) {
	path := params["path"]
	if path == "" {
		return types.FailedResult("missing required parameter: path"), nil
	}

	abs, err := t.guard.Resolve(path)
	if err != nil {
		return types.FailedResult(err.Error()), nil
	}
	if abs == t.guard.Root() {
		return types.FailedResult("cannot delete the workspace root"), nil
	}

	if _, err := os.Stat(abs); err != nil {
		return types.FailedResult(fmt.Sprintf("path not found: %s", path)), nil
	}

	rel := t.guard.Rel(abs)
	trashed := filepath.Join(t.guard.Root(), trashDir, rel)

	// Avoid clobbering an earlier deletion of the same path.
	if _, err := os.Stat(trashed); err == nil {
		base := strings.TrimSuffix(trashed, filepath.Ext(trashed))
		trashed = base + "-" + timestampSuffix() + filepath.Ext(trashed)
	}

	if err := os.MkdirAll(filepath.Dir(trashed), 0o750); err != nil {
		return types.FailedResult(fmt.Sprintf("failed to prepare trash folder: %v", err)), nil
	}
	if err := os.Rename(abs, trashed); err != nil {
		return types.FailedResult(fmt.Sprintf("failed to delete: %v", err)), nil
	}

	return types.OKResult(fmt.Sprintf("Moved %s to trash", rel)), nil
}
