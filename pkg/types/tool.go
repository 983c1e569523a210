package types

// ToolCall is a structured request, extracted from model output, to invoke
// a named capability with parameters. It lives only for the turn that
// produced it and is never persisted.
type ToolCall struct {
	// Name is the registered tool name, taken from the outer tag.
	Name string

	// Params holds the parameter values keyed by tag name. Values are
	// strings as written by the model; executors coerce as needed.
	Params map[string]string

	// Raw is the original tag text, kept for approval previews.
	Raw string
}

// Param returns the named parameter or an empty string.
func (tc *ToolCall) Param(name string) string {
	if tc.Params == nil {
		return ""
	}
	return tc.Params[name]
}

// ToolResult is the outcome of one tool execution. It re-enters the
// conversation as a synthetic user-role message before the next model call.
type ToolResult struct {
	Success bool
	Content string
	Error   string
}

// OKResult builds a successful tool result.
func OKResult(content string) ToolResult {
	return ToolResult{Success: true, Content: content}
}

// FailedResult builds a failed tool result from an error message.
func FailedResult(errMsg string) ToolResult {
	return ToolResult{Success: false, Error: errMsg}
}
