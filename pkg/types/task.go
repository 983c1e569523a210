package types

import (
	"fmt"
	"strings"
)

// Mode describes which surface of the host application launched the task.
type Mode string

const (
	ModeEditor    Mode = "editor"
	ModeOrganizer Mode = "organizer"
	ModeChat      Mode = "chat"
)

// Intent classifies what the user is asking for. It is derived by the host
// (or left empty) and drives the no-tool-used policy: a chat intent lets a
// free-text reply end the task, action intents demand tool usage.
type Intent string

const (
	IntentChat     Intent = "chat"
	IntentSearch   Intent = "search"
	IntentEdit     Intent = "edit"
	IntentCreate   Intent = "create"
	IntentOrganize Intent = "organize"
)

// IsActionOriented reports whether this intent expects the model to act on
// the workspace rather than converse.
func (i Intent) IsActionOriented() bool {
	switch i {
	case IntentEdit, IntentCreate, IntentOrganize:
		return true
	}
	return false
}

// SearchResult is one ranked document returned by the search capability.
type SearchResult struct {
	FilePath string
	Content  string
	Score    float64
	Heading  string
}

// TaskContext is the immutable input to a task. RAGResults may be filled in
// once by the context enricher at task start, never mid-task.
type TaskContext struct {
	WorkspacePath     string
	ActiveNote        string
	ActiveNoteContent string
	Mode              Mode
	Intent            Intent
	RAGResults        []SearchResult
}

// FormatRAGResults renders the retrieved documents as a prompt section.
// Returns an empty string when nothing was retrieved.
func (tc *TaskContext) FormatRAGResults() string {
	if len(tc.RAGResults) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<relevant_notes>\n")
	for _, r := range tc.RAGResults {
		b.WriteString(fmt.Sprintf("<note path=%q score=%.3f>\n", r.FilePath, r.Score))
		if r.Heading != "" {
			b.WriteString("# " + r.Heading + "\n")
		}
		b.WriteString(r.Content)
		b.WriteString("\n</note>\n")
	}
	b.WriteString("</relevant_notes>")
	return b.String()
}
