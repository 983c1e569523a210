package agent

import (
	"context"
	"sync"

	"github.com/scribeworks/scribe/pkg/types"
)

// loopControl holds the mutable run-state shared between the loop goroutine
// and the host-facing control methods.
type loopControl struct {
	mu             sync.Mutex
	running        bool
	taskCancel     context.CancelFunc
	callCancel     context.CancelFunc
	retryRequested bool
	retryCount     int
	done           chan struct{}
}

// Abort cancels the running task. The loop observes the cancellation at its
// next blocking point and settles in the aborted status; a tool waiting on
// approval is force-rejected so nothing deadlocks. Aborting an idle or
// already terminal task is a no-op.
func (l *Loop) Abort() {
	l.ctl.mu.Lock()
	cancel := l.ctl.taskCancel
	running := l.ctl.running
	l.ctl.mu.Unlock()

	if !running || cancel == nil {
		return
	}

	agentLog.Infof("abort requested")
	cancel()
	l.approvals.ForceReject()
}

// ApproveToolCall delivers the user's decision on the pending tool call.
// Ignored when nothing is waiting for approval.
func (l *Loop) ApproveToolCall(approved bool) {
	l.approvals.HandleResponse(approved)
}

// RetryLLMCall cancels the in-flight model call and reissues it against the
// unchanged conversation, with a hint noting the manual retry. A no-op when
// no call is in flight.
func (l *Loop) RetryLLMCall() {
	l.ctl.mu.Lock()
	defer l.ctl.mu.Unlock()

	if l.ctl.callCancel == nil {
		return
	}
	agentLog.Infof("manual retry of in-flight model call")
	l.ctl.retryRequested = true
	l.ctl.callCancel()
}

// SetMessages replaces the conversation transcript, used when resuming a
// persisted session. Rejected while a task is running.
func (l *Loop) SetMessages(messages []*types.Message) error {
	l.ctl.mu.Lock()
	running := l.ctl.running
	l.ctl.mu.Unlock()

	if running {
		return ErrTaskRunning
	}
	l.store.SetMessages(messages)
	return nil
}

// ClearChat resets the transcript and state back to idle. Rejected while a
// task is running.
func (l *Loop) ClearChat() error {
	l.ctl.mu.Lock()
	running := l.ctl.running
	l.ctl.mu.Unlock()

	if running {
		return ErrTaskRunning
	}
	l.store.Reset()
	return nil
}

// Done returns a channel closed when the current task settles in a terminal
// status. Returns a closed channel when no task has started.
func (l *Loop) Done() <-chan struct{} {
	l.ctl.mu.Lock()
	defer l.ctl.mu.Unlock()

	if l.ctl.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return l.ctl.done
}
