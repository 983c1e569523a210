// Package search provides a plain filesystem implementation of the search
// capability: term-frequency scoring over markdown files in the workspace.
// Hosts with a vector index inject their own enrich.Searcher instead.
package search

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/scribeworks/scribe/pkg/security/workspace"
	"github.com/scribeworks/scribe/pkg/types"
)

// snippetLength bounds the content excerpt returned per match.
const snippetLength = 500

// FilesystemSearcher scans workspace files for query terms.
type FilesystemSearcher struct {
	guard *workspace.Guard
}

// NewFilesystemSearcher creates a searcher confined to the guard's
// workspace.
func NewFilesystemSearcher(guard *workspace.Guard) *FilesystemSearcher {
	return &FilesystemSearcher{guard: guard}
}

// Search walks the workspace and ranks files by how many query terms they
// contain. Results are sorted by score descending, capped at limit.
func (s *FilesystemSearcher) Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	var results []types.SearchResult
	err := filepath.WalkDir(s.guard.Root(), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel := s.guard.Rel(path)
		if d.IsDir() {
			if s.guard.IsIgnored(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.guard.IsIgnored(rel) || !isTextFile(path) {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}

		score, matchIdx := scoreContent(string(data), terms)
		if score == 0 {
			return nil
		}

		results = append(results, types.SearchResult{
			FilePath: rel,
			Content:  snippet(string(data), matchIdx),
			Score:    score,
			Heading:  firstHeading(string(data)),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `.,!?"'`)
		if len(f) > 2 {
			terms = append(terms, f)
		}
	}
	return terms
}

func isTextFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".txt", ".markdown":
		return true
	}
	return false
}

// scoreContent returns the fraction of query terms present weighted by
// occurrence count, and the index of the first match for snippet placement.
func scoreContent(content string, terms []string) (float64, int) {
	lower := strings.ToLower(content)
	matched := 0
	occurrences := 0
	firstIdx := -1

	for _, term := range terms {
		idx := strings.Index(lower, term)
		if idx < 0 {
			continue
		}
		matched++
		occurrences += strings.Count(lower, term)
		if firstIdx < 0 || idx < firstIdx {
			firstIdx = idx
		}
	}
	if matched == 0 {
		return 0, 0
	}

	score := float64(matched)/float64(len(terms)) + float64(occurrences)*0.01
	return score, firstIdx
}

func snippet(content string, around int) string {
	start := around - snippetLength/4
	if start < 0 {
		start = 0
	}
	end := start + snippetLength
	if end > len(content) {
		end = len(content)
	}
	return strings.TrimSpace(content[start:end])
}

func firstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			return strings.TrimSpace(strings.TrimLeft(trimmed, "# "))
		}
	}
	return ""
}
