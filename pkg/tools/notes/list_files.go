package notes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/scribeworks/scribe/pkg/agent/tools"
	"github.com/scribeworks/scribe/pkg/security/workspace"
	"github.com/scribeworks/scribe/pkg/types"
)

// maxListEntries caps the number of entries returned per listing.
const maxListEntries = 500

// ListFilesTool lists notes and folders under a workspace path.
type ListFilesTool struct {
	guard *workspace.Guard
}

// NewListFilesTool creates a ListFilesTool confined to the guard's
// workspace.
func NewListFilesTool(guard *workspace.Guard) *ListFilesTool {
	return &ListFilesTool{guard: guard}
}

// Name returns the tool name.
func (t *ListFilesTool) Name() string {
	return "list_files"
}

// Description returns the tool description.
func (t *ListFilesTool) Description() string {
	return "List notes and folders under a path. Pass recursive=true to walk subfolders. Omit path to list the workspace root."
}

// Schema returns the JSON schema for the tool's parameters.
func (t *ListFilesTool) Schema() map[string]interface{} {
	return tools.BaseSchema(
		map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Folder to list, relative to the workspace (defaults to the root)",
			},
			"recursive": map[string]interface{}{
				"type":        "string",
				"description": "Set to \"true\" to list subfolders recursively",
			},
		},
		nil,
	)
}

// RequiresApproval reports that listing is never gated.
func (t *ListFilesTool) RequiresApproval() bool {
	return false
}

// Execute lists the folder.
func (t *ListFilesTool) Execute(ctx context.Context, params map[string]string, taskCtx *types.TaskContext) (types.ToolResult, error) {
	path := params["path"]
	if path == "" {
		path = "."
	}

	abs, err := t.guard.Resolve(path)
	if err != nil {
		return types.FailedResult(err.Error()), nil
	}

	info, err := os.Stat(abs)
	if err != nil {
		return types.FailedResult(fmt.Sprintf("folder not found: %s", path)), nil
	}
	if !info.IsDir() {
		return types.FailedResult(fmt.Sprintf("%s is a note, not a folder", path)), nil
	}

	recursive := strings.EqualFold(params["recursive"], "true")

	var entries []string
	if recursive {
		entries, err = t.walk(abs)
	} else {
		entries, err = t.listShallow(abs)
	}
	if err != nil {
		return types.FailedResult(fmt.Sprintf("failed to list folder: %v", err)), nil
	}

	sort.Strings(entries)
	truncated := false
	if len(entries) > maxListEntries {
		entries = entries[:maxListEntries]
		truncated = true
	}

	if len(entries) == 0 {
		return types.OKResult(fmt.Sprintf("%s is empty", t.guard.Rel(abs))), nil
	}

	out := strings.Join(entries, "\n")
	if truncated {
		out += "\n... [truncated]"
	}
	return types.OKResult(out), nil
}

func (t *ListFilesTool) listShallow(abs string) ([]string, error) {
	dirEntries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}

	var entries []string
	for _, e := range dirEntries {
		rel := t.guard.Rel(filepath.Join(abs, e.Name()))
		if t.guard.IsIgnored(rel) {
			continue
		}
		if e.IsDir() {
			rel += "/"
		}
		entries = append(entries, rel)
	}
	return entries, nil
}

func (t *ListFilesTool) walk(abs string) ([]string, error) {
	var entries []string
	err := filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == abs {
			return nil
		}

		rel := t.guard.Rel(path)
		if t.guard.IsIgnored(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			rel += "/"
		}
		entries = append(entries, rel)
		return nil
	})
	return entries, err
}
