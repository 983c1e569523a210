// Package enrich folds search results into a task's context before the
// first model call. The search capability is queried at most once per task
// start, never mid-task.
package enrich

import (
	"context"

	"github.com/scribeworks/scribe/pkg/types"
)

// Searcher is the external search capability. Implementations may rank by
// vectors, full text, or anything else; the enricher only consumes the
// ranked results.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error)
}

// Enricher retrieves relevant documents for a task instruction.
type Enricher struct {
	searcher Searcher
	enabled  bool
	limit    int
}

// New creates an enricher. A nil searcher or disabled flag yields a no-op
// enricher.
func New(searcher Searcher, enabled bool, limit int) *Enricher {
	return &Enricher{searcher: searcher, enabled: enabled, limit: limit}
}

// Enrich returns a copy of taskCtx with RAGResults populated from the
// instruction. Search failures are swallowed: retrieval is best-effort and
// a task must not fail because context enrichment did.
func (e *Enricher) Enrich(ctx context.Context, instruction string, taskCtx types.TaskContext) types.TaskContext {
	if !e.enabled || e.searcher == nil || instruction == "" {
		return taskCtx
	}

	results, err := e.searcher.Search(ctx, instruction, e.limit)
	if err != nil {
		return taskCtx
	}

	taskCtx.RAGResults = results
	return taskCtx
}
