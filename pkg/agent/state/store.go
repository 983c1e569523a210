// Package state owns the single source of truth for a task: status,
// transcript, pending tool, and error counters. Mutations are synchronous
// and serialized; subscribers observe changes through events instead of
// polling.
package state

import (
	"sync"
	"time"

	"github.com/scribeworks/scribe/pkg/types"
)

// Handler receives published events. Handlers run synchronously on the
// mutating goroutine and must not call back into the store.
type Handler func(event *types.AgentEvent)

// Store holds the AgentState aggregate for one task at a time.
type Store struct {
	mu    sync.Mutex
	state types.AgentState

	subMu    sync.RWMutex
	nextSub  int
	handlers map[types.AgentEventType]map[int]Handler
}

// NewStore creates a store in the idle status with an empty transcript.
func NewStore() *Store {
	return &Store{
		state:    types.AgentState{Status: types.StatusIdle},
		handlers: map[types.AgentEventType]map[int]Handler{},
	}
}

// On subscribes a handler to one event type and returns an unsubscribe
// function.
func (s *Store) On(eventType types.AgentEventType, handler Handler) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if s.handlers[eventType] == nil {
		s.handlers[eventType] = map[int]Handler{}
	}
	id := s.nextSub
	s.nextSub++
	s.handlers[eventType][id] = handler

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.handlers[eventType], id)
	}
}

// Publish delivers an event to subscribers of its type. Exposed so loop
// components (approval, timeout watcher) can share the store's event bus.
func (s *Store) Publish(event *types.AgentEvent) {
	s.subMu.RLock()
	subs := make([]Handler, 0, len(s.handlers[event.Type]))
	for _, h := range s.handlers[event.Type] {
		subs = append(subs, h)
	}
	s.subMu.RUnlock()

	for _, h := range subs {
		h(event)
	}
}

// Snapshot returns a copy of the current state. The message slice is
// copied so callers cannot mutate the transcript.
func (s *Store) Snapshot() types.AgentState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state
	snap.Messages = make([]*types.Message, len(s.state.Messages))
	copy(snap.Messages, s.state.Messages)
	if s.state.PendingTool != nil {
		pt := *s.state.PendingTool
		snap.PendingTool = &pt
	}
	return snap
}

// Status returns the current task status.
func (s *Store) Status() types.TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Status
}

// SetStatus transitions the task status and publishes the change.
func (s *Store) SetStatus(status types.TaskStatus) {
	s.mu.Lock()
	changed := s.state.Status != status
	s.state.Status = status
	if status != types.StatusError {
		s.state.ErrorMessage = ""
	}
	s.mu.Unlock()

	if changed {
		s.Publish(types.NewStatusChangedEvent(status))
	}
}

// Transition sets the status and the pending tool under one lock, so no
// snapshot can observe waiting_approval without its pending tool or a
// terminal status with one.
func (s *Store) Transition(status types.TaskStatus, pt *types.PendingTool) {
	s.mu.Lock()
	changed := s.state.Status != status
	s.state.Status = status
	s.state.PendingTool = pt
	if status != types.StatusError {
		s.state.ErrorMessage = ""
	}
	s.mu.Unlock()

	if changed {
		s.Publish(types.NewStatusChangedEvent(status))
	}
}

// SetError transitions to the error status with a human-readable reason.
// The pending tool is cleared: error is terminal.
func (s *Store) SetError(reason string) {
	s.mu.Lock()
	s.state.Status = types.StatusError
	s.state.ErrorMessage = reason
	s.state.PendingTool = nil
	s.mu.Unlock()

	s.Publish(types.NewStatusChangedEvent(types.StatusError))
	s.Publish(types.NewTaskErrorEvent(reason))
}

// Messages returns a copy of the transcript.
func (s *Store) Messages() []*types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*types.Message, len(s.state.Messages))
	copy(out, s.state.Messages)
	return out
}

// AddMessage appends to the transcript. Append-only: entries are never
// removed except via Reset or SetMessages.
func (s *Store) AddMessage(msg *types.Message) {
	s.mu.Lock()
	s.state.Messages = append(s.state.Messages, msg)
	s.mu.Unlock()

	s.Publish(types.NewMessageAddedEvent(msg))
}

// SetMessages replaces the transcript wholesale. Used only when resuming a
// persisted conversation.
func (s *Store) SetMessages(messages []*types.Message) {
	s.mu.Lock()
	s.state.Messages = make([]*types.Message, len(messages))
	copy(s.state.Messages, messages)
	s.mu.Unlock()

	s.Publish(types.NewMessagesReplacedEvent())
}

// ReplaceHead rewrites the system prompt at the head of the transcript, or
// initializes it when the transcript is empty. The only in-place mutation
// the transcript permits.
func (s *Store) ReplaceHead(systemPrompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := types.NewSystemMessage(systemPrompt)
	if len(s.state.Messages) > 0 && s.state.Messages[0].Role == types.RoleSystem {
		s.state.Messages[0] = msg
		return
	}
	s.state.Messages = append([]*types.Message{msg}, s.state.Messages...)
}

// SetPendingTool records the tool suspended on approval, maintaining the
// invariant that a pending tool exists iff status is waiting_approval.
func (s *Store) SetPendingTool(pt *types.PendingTool) {
	s.mu.Lock()
	s.state.PendingTool = pt
	s.mu.Unlock()
}

// PendingTool returns the currently suspended tool, if any.
func (s *Store) PendingTool() *types.PendingTool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.PendingTool == nil {
		return nil
	}
	pt := *s.state.PendingTool
	return &pt
}

// IncrementErrors bumps the consecutive-error counter and returns the new
// value.
func (s *Store) IncrementErrors() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ConsecutiveErrorCount++
	return s.state.ConsecutiveErrorCount
}

// ResetErrors clears the consecutive-error counter. Called on any
// successful tool execution or clean model turn.
func (s *Store) ResetErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ConsecutiveErrorCount = 0
}

// ErrorCount returns the current consecutive-error counter.
func (s *Store) ErrorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ConsecutiveErrorCount
}

// MarkLLMRequestStart records the dispatch time of a model call and bumps
// the request counter. Feeds the slow-request watcher.
func (s *Store) MarkLLMRequestStart(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LLMRequestStartTime = t
	s.state.LLMRequestCount++
}

// ClearLLMRequestStart marks no model call in flight.
func (s *Store) ClearLLMRequestStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LLMRequestStartTime = time.Time{}
}

// LLMRequestCount returns the number of model calls dispatched this task.
func (s *Store) LLMRequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LLMRequestCount
}

// Reset clears the aggregate back to idle with an empty transcript. Used by
// clearChat and at the start of a fresh task.
func (s *Store) Reset() {
	s.mu.Lock()
	s.state = types.AgentState{Status: types.StatusIdle}
	s.mu.Unlock()

	s.Publish(types.NewMessagesReplacedEvent())
	s.Publish(types.NewStatusChangedEvent(types.StatusIdle))
}
