package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToolNames = []string{"create_file", "read_file", "create_folder", "search_notes"}

func TestParse_SingleToolCall(t *testing.T) {
	p := New(testToolNames)

	reply := p.Parse("I'll create the file now.\n<create_file><path>notes/a.md</path><content>hello</content></create_file>")

	require.Len(t, reply.ToolCalls, 1)
	call := reply.ToolCalls[0]
	assert.Equal(t, "create_file", call.Name)
	assert.Equal(t, "notes/a.md", call.Param("path"))
	assert.Equal(t, "hello", call.Param("content"))
	assert.False(t, reply.IsCompletion)
	assert.Equal(t, "I'll create the file now.", reply.CleanedText)
}

func TestParse_MultipleCallsDocumentOrder(t *testing.T) {
	p := New(testToolNames)

	raw := "<create_folder><path>notes</path></create_folder>\n" +
		"then\n" +
		"<create_file><path>notes/a.md</path><content>x</content></create_file>"
	reply := p.Parse(raw)

	require.Len(t, reply.ToolCalls, 2)
	assert.Equal(t, "create_folder", reply.ToolCalls[0].Name)
	assert.Equal(t, "create_file", reply.ToolCalls[1].Name)
}

func TestParse_CompletionTool(t *testing.T) {
	p := New(testToolNames)

	reply := p.Parse("<attempt_completion><result>All done.</result></attempt_completion>")

	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, CompletionToolName, reply.ToolCalls[0].Name)
	assert.True(t, reply.IsCompletion)
}

func TestParse_CompletionMarkerWithoutToolCall(t *testing.T) {
	p := New(testToolNames)

	reply := p.Parse("Everything is in place. TASK_COMPLETE")

	assert.Empty(t, reply.ToolCalls)
	assert.True(t, reply.IsCompletion)
	assert.Equal(t, "Everything is in place.", reply.CleanedText)
}

func TestParse_MarkerIgnoredWhenToolCallPresent(t *testing.T) {
	p := New(testToolNames)

	reply := p.Parse("TASK_COMPLETE <read_file><path>a.md</path></read_file>")

	require.Len(t, reply.ToolCalls, 1)
	// The marker only counts in a reply with no tool call.
	assert.False(t, reply.IsCompletion)
}

func TestParse_UnknownTagStaysInText(t *testing.T) {
	p := New(testToolNames)

	reply := p.Parse("See <em>this</em> note.")

	assert.Empty(t, reply.ToolCalls)
	assert.Equal(t, "See <em>this</em> note.", reply.CleanedText)
}

func TestParse_MismatchedCloseTagDegrades(t *testing.T) {
	p := New(testToolNames)

	reply := p.Parse("<create_file><path>a.md</path></read_file>")

	assert.Empty(t, reply.ToolCalls)
	assert.False(t, reply.IsCompletion)
}

func TestParse_UnterminatedCallDegrades(t *testing.T) {
	p := New(testToolNames)

	reply := p.Parse("<create_file><path>a.md</path>")

	assert.Empty(t, reply.ToolCalls)
}

func TestParse_MalformedParamsDegrade(t *testing.T) {
	p := New(testToolNames)

	reply := p.Parse("<create_file><path>a.md</wrong></create_file>")

	assert.Empty(t, reply.ToolCalls)
}

func TestParse_BareAmpersandInParam(t *testing.T) {
	p := New(testToolNames)

	reply := p.Parse("<create_file><path>a.md</path><content>bread & butter</content></create_file>")

	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "bread & butter", reply.ToolCalls[0].Param("content"))
}

func TestParse_ThinkingStrippedFromCleanedText(t *testing.T) {
	p := New(testToolNames)

	reply := p.Parse("<thinking>the user wants a file</thinking>Short answer.")

	assert.Equal(t, "Short answer.", reply.CleanedText)
}

func TestParse_ThinkingBeforeToolCall(t *testing.T) {
	p := New(testToolNames)

	raw := "<thinking>plan it out</thinking>\n<search_notes><query>recipes</query></search_notes>"
	reply := p.Parse(raw)

	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "search_notes", reply.ToolCalls[0].Name)
	assert.Empty(t, reply.CleanedText)
}

func TestCleanText_CodeFenceDelimitersStripped(t *testing.T) {
	cleaned := CleanText("```markdown\n# Title\n```")
	assert.Equal(t, "# Title", cleaned)
}

func TestParse_EmptyInput(t *testing.T) {
	p := New(testToolNames)

	reply := p.Parse("")

	assert.Empty(t, reply.ToolCalls)
	assert.False(t, reply.IsCompletion)
	assert.Empty(t, reply.CleanedText)
}

func TestParse_NeverPanics(t *testing.T) {
	p := New(testToolNames)

	inputs := []string{
		"<create_file>",
		"</create_file>",
		"<create_file><create_file></create_file></create_file>",
		"<<create_file>>",
		"<create_file><path></create_file>",
		"<attempt_completion></attempt_completion>",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { p.Parse(in) }, "input %q", in)
	}
}
