package notes

import (
	"context"
	"fmt"
	"os"

	"github.com/scribeworks/scribe/pkg/agent/tools"
	"github.com/scribeworks/scribe/pkg/security/workspace"
	"github.com/scribeworks/scribe/pkg/types"
)

// maxReadBytes caps how much of a note is returned in one read.
const maxReadBytes = 256 * 1024

// ReadFileTool returns the content of a note.
type ReadFileTool struct {
	guard *workspace.Guard
}

// NewReadFileTool creates a ReadFileTool confined to the guard's workspace.
func NewReadFileTool(guard *workspace.Guard) *ReadFileTool {
	return &ReadFileTool{guard: guard}
}

// Name returns the tool name.
func (t *ReadFileTool) Name() string {
	return "read_file"
}

// Description returns the tool description.
func (t *ReadFileTool) Description() string {
	return "Read the content of a note at the given path."
}

// Schema returns the JSON schema for the tool's parameters.
func (t *ReadFileTool) Schema() map[string]interface{} {
	return tools.BaseSchema(
		map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Path of the note to read, relative to the workspace",
			},
		},
		[]string{"path"},
	)
}

// RequiresApproval reports that reading is never gated.
func (t *ReadFileTool) RequiresApproval() bool {
	return false
}

// Execute reads the note.
func (t *ReadFileTool) Execute(ctx context.Context, params map[string]string, taskCtx *types.TaskContext) (types.ToolResult, error) {
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

	data, err := os.ReadFile(abs)
	if err != nil {
		return types.FailedResult(fmt.Sprintf("failed to read file: %v", err)), nil
	}

	content := string(data)
	if len(content) > maxReadBytes {
		content = content[:maxReadBytes] + "\n... [truncated]"
	}
	return types.OKResult(content), nil
}
