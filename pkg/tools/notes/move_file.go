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

// MoveFileTool moves or renames a note or folder within the workspace.
type MoveFileTool struct {
	guard *workspace.Guard
}

// NewMoveFileTool creates a MoveFileTool confined to the guard's workspace.
func NewMoveFileTool(guard *workspace.Guard) *MoveFileTool {
	return &MoveFileTool{guard: guard}
}

// Name returns the tool name.
func (t *MoveFileTool) Name() string {
	return "move_file"
}

// Description returns the tool description.
func (t *MoveFileTool) Description() string {
	return "Move or rename a note or folder. Fails if the destination already exists. Requires user approval."
}

// Schema returns the JSON schema for the tool's parameters.
func (t *MoveFileTool) Schema() map[string]interface{} {
	return tools.BaseSchema(
		map[string]interface{}{
			"source": map[string]interface{}{
				"type":        "string",
				"description": "Current path, relative to the workspace",
			},
			"destination": map[string]interface{}{
				"type":        "string",
				"description": "New path, relative to the workspace",
			},
		},
		[]string{"source", "destination"},
	)
}

// RequiresApproval reports that moving files is destructive.
func (t *MoveFileTool) RequiresApproval() bool {
	return true
}

// Execute moves the note or folder.
func (t *MoveFileTool) Execute(ctx context.Context, params map[string]string, taskCtx *types.TaskContext) (types.ToolResult, error) {
	source := params["source"]
	destination := params["destination"]
	if source == "" || destination == "" {
		return types.FailedResult("missing required parameters: source and destination"), nil
	}

	srcAbs, err := t.guard.Resolve(source)
	if err != nil {
		return types.FailedResult(err.Error()), nil
	}
	dstAbs, err := t.guard.Resolve(destination)
	if err != nil {
		return types.FailedResult(err.Error()), nil
	}

	if _, err := os.Stat(srcAbs); err != nil {
		return types.FailedResult(fmt.Sprintf("source not found: %s", source)), nil
	}
	if _, err := os.Stat(dstAbs); err == nil {
		return types.FailedResult(fmt.Sprintf("destination already exists: %s", destination)), nil
	}

	if err := os.MkdirAll(filepath.Dir(dstAbs), 0o750); err != nil {
		return types.FailedResult(fmt.Sprintf("failed to create destination folder: %v", err)), nil
	}
	if err := os.Rename(srcAbs, dstAbs); err != nil {
		return types.FailedResult(fmt.Sprintf("failed to move: %v", err)), nil
	}

	return types.OKResult(fmt.Sprintf("Moved %s to %s", t.guard.Rel(srcAbs), t.guard.Rel(dstAbs))), nil
}
