package types

// AgentEventType defines the type of event published by the state store.
type AgentEventType string

const (
	EventTypeStatusChanged    AgentEventType = "status_changed"    // EventTypeStatusChanged indicates the task status changed.
	EventTypeMessageAdded     AgentEventType = "message_added"     // EventTypeMessageAdded indicates a message was appended to the transcript.
	EventTypeMessagesReplaced AgentEventType = "messages_replaced" // EventTypeMessagesReplaced indicates the transcript was replaced wholesale (session restore).
	EventTypeToolCall         AgentEventType = "tool_call"         // EventTypeToolCall indicates a tool is about to execute.
	EventTypeToolResult       AgentEventType = "tool_result"       // EventTypeToolResult indicates a tool finished executing.
	EventTypeApprovalRequest  AgentEventType = "approval_request"  // EventTypeApprovalRequest indicates a tool is waiting for human approval.
	EventTypeApprovalGranted  AgentEventType = "approval_granted"  // EventTypeApprovalGranted indicates the user approved the pending tool.
	EventTypeApprovalRejected AgentEventType = "approval_rejected" // EventTypeApprovalRejected indicates the user rejected the pending tool.
	EventTypeApprovalTimeout  AgentEventType = "approval_timeout"  // EventTypeApprovalTimeout indicates the approval request timed out.
	EventTypeSlowRequest      AgentEventType = "slow_request"      // EventTypeSlowRequest indicates the in-flight model call exceeded the slow threshold.
	EventTypeTokenUsage       AgentEventType = "token_usage"       // EventTypeTokenUsage carries token counts for a completed model call.
	EventTypeTaskError        AgentEventType = "task_error"        // EventTypeTaskError indicates the task entered the error status.
	EventTypeTurnEnd          AgentEventType = "turn_end"          // EventTypeTurnEnd indicates one loop iteration finished.
)

// AgentEvent is one notification published to subscribers. Events exist so
// a UI can render live state without polling; they never feed back into the
// loop's control flow.
type AgentEvent struct {
	Type AgentEventType

	// Status is set for status_changed and task_error events.
	Status TaskStatus

	// Message is set for message_added events.
	Message *Message

	// ToolName and ToolInput are set for tool and approval events.
	ToolName  string
	ToolInput map[string]string

	// ToolResult is set for tool_result events.
	ToolResult *ToolResult

	// ApprovalID is set for approval events.
	ApprovalID string

	// Error carries the human-readable reason for task_error events.
	Error string

	// TokenUsage is set for token_usage events.
	TokenUsage *TokenUsage

	// ElapsedSeconds and RequestCount are set for slow_request events.
	ElapsedSeconds float64
	RequestCount   int
}

// TokenUsage contains token counts for one model call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// NewStatusChangedEvent creates a status change event.
func NewStatusChangedEvent(status TaskStatus) *AgentEvent {
	return &AgentEvent{Type: EventTypeStatusChanged, Status: status}
}

// NewMessageAddedEvent creates a message append event.
func NewMessageAddedEvent(msg *Message) *AgentEvent {
	return &AgentEvent{Type: EventTypeMessageAdded, Message: msg}
}

// NewMessagesReplacedEvent creates a transcript replacement event.
func NewMessagesReplacedEvent() *AgentEvent {
	return &AgentEvent{Type: EventTypeMessagesReplaced}
}

// NewToolCallEvent creates a tool call event.
func NewToolCallEvent(toolName string, input map[string]string) *AgentEvent {
	return &AgentEvent{Type: EventTypeToolCall, ToolName: toolName, ToolInput: input}
}

// NewToolResultEvent creates a tool result event.
func NewToolResultEvent(toolName string, result ToolResult) *AgentEvent {
	return &AgentEvent{Type: EventTypeToolResult, ToolName: toolName, ToolResult: &result}
}

// NewApprovalRequestEvent creates an approval request event.
func NewApprovalRequestEvent(approvalID, toolName string, input map[string]string) *AgentEvent {
	return &AgentEvent{Type: EventTypeApprovalRequest, ApprovalID: approvalID, ToolName: toolName, ToolInput: input}
}

// NewApprovalGrantedEvent creates an approval granted event.
func NewApprovalGrantedEvent(approvalID, toolName string) *AgentEvent {
	return &AgentEvent{Type: EventTypeApprovalGranted, ApprovalID: approvalID, ToolName: toolName}
}

// NewApprovalRejectedEvent creates an approval rejected event.
func NewApprovalRejectedEvent(approvalID, toolName string) *AgentEvent {
	return &AgentEvent{Type: EventTypeApprovalRejected, ApprovalID: approvalID, ToolName: toolName}
}

// NewApprovalTimeoutEvent creates an approval timeout event.
func NewApprovalTimeoutEvent(approvalID, toolName string) *AgentEvent {
	return &AgentEvent{Type: EventTypeApprovalTimeout, ApprovalID: approvalID, ToolName: toolName}
}

// NewSlowRequestEvent creates a slow request event.
func NewSlowRequestEvent(elapsedSeconds float64, requestCount int) *AgentEvent {
	return &AgentEvent{Type: EventTypeSlowRequest, ElapsedSeconds: elapsedSeconds, RequestCount: requestCount}
}

// NewTokenUsageEvent creates a token usage event.
func NewTokenUsageEvent(prompt, completion int) *AgentEvent {
	return &AgentEvent{
		Type:       EventTypeTokenUsage,
		TokenUsage: &TokenUsage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: prompt + completion},
	}
}

// NewTaskErrorEvent creates a task error event.
func NewTaskErrorEvent(reason string) *AgentEvent {
	return &AgentEvent{Type: EventTypeTaskError, Status: StatusError, Error: reason}
}

// NewTurnEndEvent creates a turn end event.
func NewTurnEndEvent() *AgentEvent {
	return &AgentEvent{Type: EventTypeTurnEnd}
}
