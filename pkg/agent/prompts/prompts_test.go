package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scribeworks/scribe/pkg/agent/tools"
	"github.com/scribeworks/scribe/pkg/types"
)

func TestBuild_IncludesToolSchemas(t *testing.T) {
	reg := tools.NewRegistry()
	assert.NoError(t, reg.Register(tools.NewAttemptCompletionTool()))

	prompt := NewBuilder().WithTools(reg.List()).Build()

	assert.Contains(t, prompt, "<available_tools>")
	assert.Contains(t, prompt, `<tool name="attempt_completion">`)
	assert.Contains(t, prompt, "Parameters schema:")
	assert.Contains(t, prompt, "<agent_loop>")
}

func TestBuild_TaskContextSection(t *testing.T) {
	taskCtx := &types.TaskContext{
		WorkspacePath: "/home/u/notes",
		ActiveNote:    "daily/today.md",
		Mode:          types.ModeEditor,
		Intent:        types.IntentEdit,
	}

	prompt := NewBuilder().WithTaskContext(taskCtx).Build()

	assert.Contains(t, prompt, "workspace: /home/u/notes")
	assert.Contains(t, prompt, "active note: daily/today.md")
	assert.Contains(t, prompt, "mode: editor")
	assert.Contains(t, prompt, "intent: edit")
}

func TestBuild_RAGResultsIncluded(t *testing.T) {
	taskCtx := &types.TaskContext{
		WorkspacePath: "/notes",
		RAGResults: []types.SearchResult{
			{FilePath: "recipes/bread.md", Content: "flour and water", Score: 0.91},
		},
	}

	prompt := NewBuilder().WithTaskContext(taskCtx).Build()

	assert.Contains(t, prompt, "<relevant_notes>")
	assert.Contains(t, prompt, "recipes/bread.md")
	assert.Contains(t, prompt, "flour and water")
}

func TestBuild_Deterministic(t *testing.T) {
	taskCtx := &types.TaskContext{WorkspacePath: "/notes"}
	b := func() string { return NewBuilder().WithTaskContext(taskCtx).Build() }

	assert.Equal(t, b(), b())
}

func TestToolResultMessage(t *testing.T) {
	ok := ToolResultMessage("read_file", types.OKResult("# Title"))
	assert.Contains(t, ok, `Tool "read_file" result:`)
	assert.Contains(t, ok, "# Title")

	failed := ToolResultMessage("read_file", types.FailedResult("no such file"))
	assert.Contains(t, failed, `Tool "read_file" failed:`)
	assert.Contains(t, failed, "no such file")
}

func TestTimeoutRetryMessage_CountsRetries(t *testing.T) {
	msg := TimeoutRetryMessage(2)
	assert.Contains(t, msg, "#2")
	assert.Contains(t, msg, "without repeating completed work")
}
