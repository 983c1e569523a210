package notes

import (
	"time"

	"github.com/scribeworks/scribe/pkg/agent/enrich"
	"github.com/scribeworks/scribe/pkg/agent/tools"
	"github.com/scribeworks/scribe/pkg/security/workspace"
)

// All returns the full built-in tool set for a workspace. The searcher may
// be nil, in which case search_notes reports itself unavailable.
func All(guard *workspace.Guard, searcher enrich.Searcher) []tools.Tool {
	return []tools.Tool{
		NewCreateFileTool(guard),
		NewReadFileTool(guard),
		NewUpdateFileTool(guard),
		NewAppendFileTool(guard),
		NewCreateFolderTool(guard),
		NewListFilesTool(guard),
		NewMoveFileTool(guard),
		NewDeleteFileTool(guard),
		NewSearchNotesTool(searcher),
	}
}

func timestampSuffix() string {
	return time.Now().Format("20060102-150405")
}
