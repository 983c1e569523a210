package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribeworks/scribe/pkg/types"
)

func TestSetStatus_PublishesOnChange(t *testing.T) {
	s := NewStore()

	var seen []types.TaskStatus
	s.On(types.EventTypeStatusChanged, func(e *types.AgentEvent) {
		seen = append(seen, e.Status)
	})

	s.SetStatus(types.StatusRunning)
	s.SetStatus(types.StatusRunning) // no-op, same status
	s.SetStatus(types.StatusCompleted)

	assert.Equal(t, []types.TaskStatus{types.StatusRunning, types.StatusCompleted}, seen)
}

func TestSetError_RecordsReason(t *testing.T) {
	s := NewStore()

	var errEvent *types.AgentEvent
	s.On(types.EventTypeTaskError, func(e *types.AgentEvent) {
		errEvent = e
	})

	s.SetError("too many consecutive errors")

	snap := s.Snapshot()
	assert.Equal(t, types.StatusError, snap.Status)
	assert.Equal(t, "too many consecutive errors", snap.ErrorMessage)
	require.NotNil(t, errEvent)
	assert.Equal(t, "too many consecutive errors", errEvent.Error)
}

func TestTransition_SetsStatusAndPendingTogether(t *testing.T) {
	s := NewStore()

	// Every status change must land with a consistent pending tool, even
	// when observed from a status-change handler.
	s.On(types.EventTypeStatusChanged, func(e *types.AgentEvent) {
		snap := s.Snapshot()
		if snap.Status == types.StatusWaitingApproval {
			assert.NotNil(t, snap.PendingTool)
		} else {
			assert.Nil(t, snap.PendingTool)
		}
	})

	s.Transition(types.StatusWaitingApproval, &types.PendingTool{
		Call: types.ToolCall{Name: "delete_file"},
	})
	require.NotNil(t, s.PendingTool())
	assert.Equal(t, types.StatusWaitingApproval, s.Status())

	s.Transition(types.StatusRunning, nil)
	assert.Nil(t, s.PendingTool())
	assert.Equal(t, types.StatusRunning, s.Status())
}

func TestSetError_ClearsPendingTool(t *testing.T) {
	s := NewStore()
	s.SetPendingTool(&types.PendingTool{Call: types.ToolCall{Name: "move_file"}})

	s.SetError("budget exhausted")

	assert.Nil(t, s.PendingTool())
	assert.Equal(t, types.StatusError, s.Status())
}

func TestSetStatus_ClearsErrorMessage(t *testing.T) {
	s := NewStore()
	s.SetError("boom")

	s.SetStatus(types.StatusRunning)

	assert.Empty(t, s.Snapshot().ErrorMessage)
}

func TestAddMessage_AppendsAndPublishes(t *testing.T) {
	s := NewStore()

	var added []*types.Message
	s.On(types.EventTypeMessageAdded, func(e *types.AgentEvent) {
		added = append(added, e.Message)
	})

	s.AddMessage(types.NewUserMessage("hello"))
	s.AddMessage(types.NewAssistantMessage("hi"))

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, types.RoleUser, msgs[0].Role)
	assert.Equal(t, types.RoleAssistant, msgs[1].Role)
	assert.Len(t, added, 2)
}

func TestSetMessages_ReplacesTranscript(t *testing.T) {
	s := NewStore()
	s.AddMessage(types.NewUserMessage("old"))

	replaced := false
	s.On(types.EventTypeMessagesReplaced, func(e *types.AgentEvent) {
		replaced = true
	})

	s.SetMessages([]*types.Message{
		types.NewSystemMessage("sys"),
		types.NewUserMessage("restored"),
	})

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "restored", msgs[1].Content)
	assert.True(t, replaced)
}

func TestReplaceHead_SwapsSystemPrompt(t *testing.T) {
	s := NewStore()
	s.SetMessages([]*types.Message{
		types.NewSystemMessage("old prompt"),
		types.NewUserMessage("task"),
	})

	s.ReplaceHead("new prompt")

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, types.RoleSystem, msgs[0].Role)
	assert.Equal(t, "new prompt", msgs[0].Content)
	assert.Equal(t, "task", msgs[1].Content)
}

func TestReplaceHead_PrependsWhenMissing(t *testing.T) {
	s := NewStore()
	s.AddMessage(types.NewUserMessage("task"))

	s.ReplaceHead("prompt")

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, types.RoleSystem, msgs[0].Role)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewStore()
	s.AddMessage(types.NewUserMessage("one"))
	s.SetPendingTool(&types.PendingTool{
		ApprovalID: "id-1",
		Call:       types.ToolCall{Name: "create_file"},
	})

	snap := s.Snapshot()
	snap.Messages[0] = types.NewUserMessage("mutated")
	snap.PendingTool.ApprovalID = "tampered"

	assert.Equal(t, "one", s.Messages()[0].Content)
	assert.Equal(t, "id-1", s.PendingTool().ApprovalID)
}

func TestErrorCounter(t *testing.T) {
	s := NewStore()

	assert.Equal(t, 1, s.IncrementErrors())
	assert.Equal(t, 2, s.IncrementErrors())
	s.ResetErrors()
	assert.Zero(t, s.ErrorCount())
}

func TestLLMRequestTracking(t *testing.T) {
	s := NewStore()

	start := time.Now()
	s.MarkLLMRequestStart(start)
	s.MarkLLMRequestStart(start.Add(time.Second))

	assert.Equal(t, 2, s.LLMRequestCount())

	s.ClearLLMRequestStart()
	assert.True(t, s.Snapshot().LLMRequestStartTime.IsZero())
}

func TestUnsubscribe(t *testing.T) {
	s := NewStore()

	calls := 0
	off := s.On(types.EventTypeStatusChanged, func(e *types.AgentEvent) {
		calls++
	})

	s.SetStatus(types.StatusRunning)
	off()
	s.SetStatus(types.StatusCompleted)

	assert.Equal(t, 1, calls)
}

func TestReset_ReturnsToIdle(t *testing.T) {
	s := NewStore()
	s.AddMessage(types.NewUserMessage("x"))
	s.SetStatus(types.StatusCompleted)
	s.IncrementErrors()

	s.Reset()

	snap := s.Snapshot()
	assert.Equal(t, types.StatusIdle, snap.Status)
	assert.Empty(t, snap.Messages)
	assert.Zero(t, snap.ConsecutiveErrorCount)
}
