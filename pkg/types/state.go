package types

import "time"

// TaskStatus is the lifecycle state of the current task.
type TaskStatus string

const (
	StatusIdle            TaskStatus = "idle"
	StatusRunning         TaskStatus = "running"
	StatusWaitingApproval TaskStatus = "waiting_approval"
	StatusCompleted       TaskStatus = "completed"
	StatusError           TaskStatus = "error"
	StatusAborted         TaskStatus = "aborted"
)

// IsTerminal reports whether the status ends the current task. Terminal
// statuses hold until the next StartTask.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusError, StatusAborted:
		return true
	}
	return false
}

// PendingTool describes a tool call suspended on human approval.
type PendingTool struct {
	ApprovalID string
	Call       ToolCall
}

// AgentState is the single mutable aggregate for one running task.
// It is owned by the state store; callers receive copies.
type AgentState struct {
	Status                TaskStatus
	Messages              []*Message
	PendingTool           *PendingTool
	ConsecutiveErrorCount int
	LLMRequestStartTime   time.Time
	LLMRequestCount       int

	// ErrorMessage carries the human-readable reason when Status is error.
	ErrorMessage string
}
