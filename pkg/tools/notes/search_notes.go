package notes

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/scribeworks/scribe/pkg/agent/enrich"
	"github.com/scribeworks/scribe/pkg/agent/tools"
	"github.com/scribeworks/scribe/pkg/types"
)

// defaultSearchLimit is used when the model omits or mangles max_results.
const defaultSearchLimit = 5

// SearchNotesTool lets the model query the host's search capability
// mid-task.
type SearchNotesTool struct {
	searcher enrich.Searcher
}

// NewSearchNotesTool wraps a searcher as a tool.
func NewSearchNotesTool(searcher enrich.Searcher) *SearchNotesTool {
	return &SearchNotesTool{searcher: searcher}
}

// Name returns the tool name.
func (t *SearchNotesTool) Name() string {
	return "search_notes"
}

// Description returns the tool description.
func (t *SearchNotesTool) Description() string {
	return "Search the workspace for notes matching a query. Returns ranked excerpts with file paths."
}

// Schema returns the JSON schema for the tool's parameters.
func (t *SearchNotesTool) Schema() map[string]interface{} {
	return tools.BaseSchema(
		map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "What to search for",
			},
			"max_results": map[string]interface{}{
				"type":        "string",
				"description": "Maximum number of results (default 5)",
			},
		},
		[]string{"query"},
	)
}

// RequiresApproval reports that search is never gated.
func (t *SearchNotesTool) RequiresApproval() bool {
	return false
}

// Execute runs the search with a bounded timeout.
func (t *SearchNotesTool) Execute(ctx context.Context, params map[string]string, taskCtx *types.TaskContext) (types.ToolResult, error) {
	query := strings.TrimSpace(params["query"])
	if query == "" {
		return types.FailedResult("missing required parameter: query"), nil
	}
	if t.searcher == nil {
		return types.FailedResult("search is not available in this workspace"), nil
	}

	limit := defaultSearchLimit
	if raw := params["max_results"]; raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	searchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	results, err := t.searcher.Search(searchCtx, query, limit)
	if err != nil {
		return types.FailedResult(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return types.OKResult("No notes matched the query."), nil
	}

	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s (score %.3f)\n", i+1, r.FilePath, r.Score)
		if r.Heading != "" {
			fmt.Fprintf(&b, "   # %s\n", r.Heading)
		}
		excerpt := r.Content
		if len(excerpt) > 300 {
			excerpt = excerpt[:300] + "..."
		}
		b.WriteString("   " + strings.ReplaceAll(excerpt, "\n", "\n   ") + "\n")
	}
	return types.OKResult(strings.TrimRight(b.String(), "\n")), nil
}
