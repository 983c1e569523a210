// Package prompts assembles system prompts and corrective messages for the
// agent loop. Building is pure: the same inputs always produce the same
// prompt text.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scribeworks/scribe/pkg/agent/tools"
	"github.com/scribeworks/scribe/pkg/types"
)

// Builder constructs the system prompt from task context and tools.
type Builder struct {
	taskCtx *types.TaskContext
	tools   []tools.Tool
}

// NewBuilder creates a prompt builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithTaskContext sets the workspace/task context section inputs.
func (b *Builder) WithTaskContext(taskCtx *types.TaskContext) *Builder {
	b.taskCtx = taskCtx
	return b
}

// WithTools sets the tools whose schemas are advertised to the model.
func (b *Builder) WithTools(toolsList []tools.Tool) *Builder {
	b.tools = toolsList
	return b
}

// Build assembles the complete system prompt.
func (b *Builder) Build() string {
	var sb strings.Builder

	sb.WriteString(SystemCapabilitiesPrompt)
	sb.WriteString("\n\n")
	sb.WriteString(AgentLoopPrompt)
	sb.WriteString("\n\n")
	sb.WriteString(ToolCallingPrompt)
	sb.WriteString("\n\n")

	if len(b.tools) > 0 {
		sb.WriteString("<available_tools>\n")
		sb.WriteString(FormatToolSchemas(b.tools))
		sb.WriteString("</available_tools>\n\n")
	}

	if b.taskCtx != nil {
		sb.WriteString(formatTaskContext(b.taskCtx))
	}

	sb.WriteString(ConversationalPrompt)

	return sb.String()
}

// formatTaskContext renders the workspace section, including any documents
// the context enricher retrieved at task start.
func formatTaskContext(taskCtx *types.TaskContext) string {
	var sb strings.Builder

	sb.WriteString("<workspace_context>\n")
	sb.WriteString("workspace: " + taskCtx.WorkspacePath + "\n")
	if taskCtx.Mode != "" {
		sb.WriteString("mode: " + string(taskCtx.Mode) + "\n")
	}
	if taskCtx.Intent != "" {
		sb.WriteString("intent: " + string(taskCtx.Intent) + "\n")
	}
	if taskCtx.ActiveNote != "" {
		sb.WriteString("active note: " + taskCtx.ActiveNote + "\n")
	}
	sb.WriteString("</workspace_context>\n\n")

	if taskCtx.ActiveNoteContent != "" {
		sb.WriteString("<active_note_content>\n")
		sb.WriteString(taskCtx.ActiveNoteContent)
		sb.WriteString("\n</active_note_content>\n\n")
	}

	if rag := taskCtx.FormatRAGResults(); rag != "" {
		sb.WriteString(rag)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// FormatToolSchemas renders tool names, descriptions, and parameter
// schemas for the prompt.
func FormatToolSchemas(toolsList []tools.Tool) string {
	var sb strings.Builder

	for _, tool := range toolsList {
		sb.WriteString(fmt.Sprintf("<tool name=%q>\n", tool.Name()))
		sb.WriteString(tool.Description())
		sb.WriteString("\n")

		if schema := tool.Schema(); schema != nil {
			if data, err := json.MarshalIndent(schema, "", "  "); err == nil {
				sb.WriteString("Parameters schema:\n")
				sb.Write(data)
				sb.WriteString("\n")
			}
		}
		if tool.RequiresApproval() {
			sb.WriteString("This tool requires user approval before it runs.\n")
		}
		sb.WriteString("</tool>\n")
	}

	return sb.String()
}
