package prompts

import (
	"fmt"

	"github.com/scribeworks/scribe/pkg/types"
)

// NoToolUsedMessage is the directive appended when an action-oriented task
// got a free-text reply instead of a tool call.
func NoToolUsedMessage() string {
	return "You replied without using a tool, but this task requires workspace " +
		"actions. Respond with a tool invocation in the documented XML format, " +
		"or call attempt_completion if the task is already done."
}

// TransportErrorMessage explains a failed model call so the next attempt
// can adjust.
func TransportErrorMessage(err error) string {
	return fmt.Sprintf("The previous request failed before your reply was received (%v). "+
		"Continue the task from the last completed step; do not repeat tool calls "+
		"whose results already appear above.", err)
}

// RejectionMessage tells the model a tool was refused by the user so it can
// reconsider its approach.
func RejectionMessage(toolName string) string {
	return fmt.Sprintf("The user rejected the %q tool call. Do not retry it as-is. "+
		"Either take a different approach or call attempt_completion explaining "+
		"what was left undone.", toolName)
}

// ApprovalTimeoutMessage tells the model the approval request expired.
func ApprovalTimeoutMessage(toolName string) string {
	return fmt.Sprintf("The approval request for the %q tool timed out and the tool "+
		"was not executed. Continue without it or call attempt_completion.", toolName)
}

// TimeoutRetryMessage is the hint appended when the user manually retries a
// slow model call. History is untouched; only the in-flight call restarts.
func TimeoutRetryMessage(retryCount int) string {
	return fmt.Sprintf("Note: the previous model request was canceled after taking too "+
		"long (manual retry #%d). The conversation above is complete and correct; "+
		"continue from the current state without repeating completed work.", retryCount)
}

// ToolResultMessage folds a tool outcome into the conversation as the
// synthetic user message the model reads next turn.
func ToolResultMessage(toolName string, result types.ToolResult) string {
	if result.Success {
		return fmt.Sprintf("Tool %q result:\n%s", toolName, result.Content)
	}
	return fmt.Sprintf("Tool %q failed:\n%s\nAdjust your approach based on this error.", toolName, result.Error)
}
