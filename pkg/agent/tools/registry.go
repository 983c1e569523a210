package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/scribeworks/scribe/pkg/types"
)

// Registry maps tool names to executors. Registration happens at wiring
// time; lookups and execution are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Registering a duplicate or empty name is an error.
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("tool cannot be nil")
	}
	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q is already registered", name)
	}
	r.tools[name] = tool
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	return tool, ok
}

// Names returns all registered tool names, sorted for stable prompts.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all registered tools in name order.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]Tool, 0, len(names))
	for _, name := range names {
		list = append(list, r.tools[name])
	}
	return list
}

// RequiresApproval reports whether the named tool must pass the approval
// gate. Unknown tools report false; execution will fail them anyway.
func (r *Registry) RequiresApproval(name string) bool {
	tool, ok := r.Get(name)
	return ok && tool.RequiresApproval()
}

// Execute dispatches to the named tool. It never propagates a failure:
// unknown tools, executor errors, and executor panics all come back as
// failed ToolResults for the model to read and self-correct.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]string, taskCtx *types.TaskContext) (result types.ToolResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = types.FailedResult(fmt.Sprintf("tool %q panicked: %v", name, rec))
		}
	}()

	tool, ok := r.Get(name)
	if !ok {
		return types.FailedResult(fmt.Sprintf("unknown tool %q. Available tools: %v", name, r.Names()))
	}

	res, err := tool.Execute(ctx, params, taskCtx)
	if err != nil {
		return types.FailedResult(fmt.Sprintf("tool %q failed: %v", name, err))
	}
	return res
}
