// Package approval implements the human-in-the-loop rendezvous for tools
// that require explicit permission before executing.
//
// The rendezvous is single-shot: the loop suspends on Request until the
// user decides, the request times out, or the task is aborted. Abort
// force-resolves the pending decision as rejected so no caller is ever
// left waiting.
package approval

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scribeworks/scribe/pkg/types"
)

// EventEmitter publishes approval lifecycle events.
type EventEmitter func(event *types.AgentEvent)

// Decision is the outcome of one approval request.
type Decision int

const (
	// DecisionApproved means the user granted execution.
	DecisionApproved Decision = iota
	// DecisionRejected means the user refused execution.
	DecisionRejected
	// DecisionTimedOut means no decision arrived within the timeout.
	DecisionTimedOut
	// DecisionAborted means the task was canceled while waiting.
	DecisionAborted
)

// pending is one in-flight rendezvous. The response channel is resolved
// exactly once; resolveOnce guards against races between the user decision,
// the timeout, and a forced abort.
type pending struct {
	approvalID  string
	toolName    string
	response    chan bool
	resolveOnce sync.Once
}

func (p *pending) resolve(approved bool) {
	p.resolveOnce.Do(func() {
		p.response <- approved
		close(p.response)
	})
}

// Manager owns at most one pending approval at a time, matching the loop's
// strictly sequential tool execution.
type Manager struct {
	timeout   time.Duration
	emitEvent EventEmitter

	mu      sync.Mutex
	current *pending
}

// NewManager creates an approval manager. A zero timeout waits forever
// (until decision or abort).
func NewManager(timeout time.Duration, emitEvent EventEmitter) *Manager {
	return &Manager{timeout: timeout, emitEvent: emitEvent}
}

// Request suspends until the user decides on the given tool call, the
// timeout elapses, or ctx is canceled. It returns the approval ID alongside
// the decision so callers can correlate events.
func (m *Manager) Request(ctx context.Context, call types.ToolCall) (Decision, string) {
	p := &pending{
		approvalID: uuid.New().String(),
		toolName:   call.Name,
		response:   make(chan bool, 1),
	}

	m.mu.Lock()
	m.current = p
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		if m.current == p {
			m.current = nil
		}
		m.mu.Unlock()
	}()

	m.emitEvent(types.NewApprovalRequestEvent(p.approvalID, call.Name, call.Params))

	var timeoutC <-chan time.Time
	if m.timeout > 0 {
		timer := time.NewTimer(m.timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	select {
	case <-ctx.Done():
		// Force-resolve so HandleResponse finds nothing to deliver to.
		p.resolve(false)
		m.emitEvent(types.NewApprovalRejectedEvent(p.approvalID, p.toolName))
		return DecisionAborted, p.approvalID

	case <-timeoutC:
		p.resolve(false)
		m.emitEvent(types.NewApprovalTimeoutEvent(p.approvalID, p.toolName))
		return DecisionTimedOut, p.approvalID

	case approved := <-p.response:
		// Abort cancels ctx and then force-rejects; when both fire, the
		// cancellation wins so the task settles as aborted, not rejected.
		if ctx.Err() != nil {
			m.emitEvent(types.NewApprovalRejectedEvent(p.approvalID, p.toolName))
			return DecisionAborted, p.approvalID
		}
		if approved {
			m.emitEvent(types.NewApprovalGrantedEvent(p.approvalID, p.toolName))
			return DecisionApproved, p.approvalID
		}
		m.emitEvent(types.NewApprovalRejectedEvent(p.approvalID, p.toolName))
		return DecisionRejected, p.approvalID
	}
}

// HandleResponse delivers the user's decision. Safe to call from any
// goroutine; a response with no pending request is ignored.
func (m *Manager) HandleResponse(approved bool) {
	m.mu.Lock()
	p := m.current
	m.mu.Unlock()

	if p == nil {
		return
	}
	p.resolve(approved)
}

// ForceReject resolves any pending request as rejected. Used on abort to
// guarantee the loop never deadlocks on a decision that will never come.
func (m *Manager) ForceReject() {
	m.HandleResponse(false)
}

// HasPending reports whether a request is currently waiting.
func (m *Manager) HasPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}
