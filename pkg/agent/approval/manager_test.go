package approval

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/scribeworks/scribe/pkg/types"
)

// mockEventEmitter records emitted events for assertions.
type mockEventEmitter struct {
	mu     sync.Mutex
	events []*types.AgentEvent
}

func (m *mockEventEmitter) emit(event *types.AgentEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockEventEmitter) getEvents() []*types.AgentEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*types.AgentEvent, len(m.events))
	copy(out, m.events)
	return out
}

func testCall() types.ToolCall {
	return types.ToolCall{
		Name:   "delete_file",
		Params: map[string]string{"path": "notes/a.md"},
	}
}

func TestRequest_Approved(t *testing.T) {
	emitter := &mockEventEmitter{}
	manager := NewManager(5*time.Second, emitter.emit)

	go func() {
		// Wait until the request is registered before responding.
		for !manager.HasPending() {
			time.Sleep(time.Millisecond)
		}
		manager.HandleResponse(true)
	}()

	decision, approvalID := manager.Request(context.Background(), testCall())

	if decision != DecisionApproved {
		t.Errorf("decision = %v, want DecisionApproved", decision)
	}
	if approvalID == "" {
		t.Error("expected non-empty approval ID")
	}

	events := emitter.getEvents()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != types.EventTypeApprovalRequest {
		t.Errorf("first event = %v, want approval_request", events[0].Type)
	}
	if events[1].Type != types.EventTypeApprovalGranted {
		t.Errorf("second event = %v, want approval_granted", events[1].Type)
	}
	if events[1].ApprovalID != approvalID {
		t.Errorf("event approvalID = %v, want %v", events[1].ApprovalID, approvalID)
	}
}

func TestRequest_Rejected(t *testing.T) {
	emitter := &mockEventEmitter{}
	manager := NewManager(5*time.Second, emitter.emit)

	go func() {
		for !manager.HasPending() {
			time.Sleep(time.Millisecond)
		}
		manager.HandleResponse(false)
	}()

	decision, _ := manager.Request(context.Background(), testCall())

	if decision != DecisionRejected {
		t.Errorf("decision = %v, want DecisionRejected", decision)
	}

	events := emitter.getEvents()
	if events[len(events)-1].Type != types.EventTypeApprovalRejected {
		t.Errorf("last event = %v, want approval_rejected", events[len(events)-1].Type)
	}
}

func TestRequest_Timeout(t *testing.T) {
	emitter := &mockEventEmitter{}
	manager := NewManager(50*time.Millisecond, emitter.emit)

	decision, _ := manager.Request(context.Background(), testCall())

	if decision != DecisionTimedOut {
		t.Errorf("decision = %v, want DecisionTimedOut", decision)
	}

	events := emitter.getEvents()
	if events[len(events)-1].Type != types.EventTypeApprovalTimeout {
		t.Errorf("last event = %v, want approval_timeout", events[len(events)-1].Type)
	}
	if manager.HasPending() {
		t.Error("expected no pending approval after timeout")
	}
}

func TestRequest_AbortForceResolves(t *testing.T) {
	emitter := &mockEventEmitter{}
	manager := NewManager(5*time.Second, emitter.emit)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan Decision, 1)
	go func() {
		decision, _ := manager.Request(ctx, testCall())
		done <- decision
	}()

	for !manager.HasPending() {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case decision := <-done:
		if decision != DecisionAborted {
			t.Errorf("decision = %v, want DecisionAborted", decision)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Request did not return after context cancellation")
	}
}

func TestRequest_CancelThenRejectIsAborted(t *testing.T) {
	emitter := &mockEventEmitter{}
	manager := NewManager(5*time.Second, emitter.emit)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan Decision, 1)
	go func() {
		decision, _ := manager.Request(ctx, testCall())
		done <- decision
	}()

	for !manager.HasPending() {
		time.Sleep(time.Millisecond)
	}

	// An abort cancels the context and then force-rejects. Even if the
	// rejection is the branch that wins the select, the canceled context
	// must make the decision aborted.
	cancel()
	manager.ForceReject()

	select {
	case decision := <-done:
		if decision != DecisionAborted {
			t.Errorf("decision = %v, want DecisionAborted", decision)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Request did not return")
	}
}

func TestHandleResponse_NoPending(t *testing.T) {
	emitter := &mockEventEmitter{}
	manager := NewManager(time.Second, emitter.emit)

	// Must not panic or emit anything.
	manager.HandleResponse(true)
	manager.ForceReject()

	if len(emitter.getEvents()) != 0 {
		t.Errorf("expected no events, got %d", len(emitter.getEvents()))
	}
}

func TestRequest_DoubleResolveIsSafe(t *testing.T) {
	emitter := &mockEventEmitter{}
	manager := NewManager(5*time.Second, emitter.emit)

	go func() {
		for !manager.HasPending() {
			time.Sleep(time.Millisecond)
		}
		manager.HandleResponse(true)
		manager.HandleResponse(false)
		manager.ForceReject()
	}()

	decision, _ := manager.Request(context.Background(), testCall())

	if decision != DecisionApproved {
		t.Errorf("decision = %v, want DecisionApproved (first resolution wins)", decision)
	}
}
