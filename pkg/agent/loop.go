package agent

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/scribeworks/scribe/pkg/agent/approval"
	"github.com/scribeworks/scribe/pkg/agent/parser"
	"github.com/scribeworks/scribe/pkg/agent/prompts"
	"github.com/scribeworks/scribe/pkg/agent/tools"
	"github.com/scribeworks/scribe/pkg/config"
	"github.com/scribeworks/scribe/pkg/types"
)

// ErrTaskRunning is returned when an operation requires the loop to be
// settled but a task is still in flight.
var ErrTaskRunning = errors.New("a task is already running")

// replyOutcome tells the loop what to do after handling one model reply.
type replyOutcome int

const (
	outcomeContinue replyOutcome = iota
	outcomeTerminal
)

// taskSettings is the effective configuration for one task: the loop's
// configuration with per-task overrides applied.
type taskSettings struct {
	agent config.AgentConfig
	llm   config.LLMConfig
}

// TaskOption overrides loop policy for a single task. Options apply only to
// the task they are passed with; the loop's configuration is untouched.
type TaskOption func(*taskSettings)

// WithTaskMaxTurns caps loop iterations for this task.
func WithTaskMaxTurns(n int) TaskOption {
	return func(s *taskSettings) {
		if n > 0 {
			s.agent.MaxTurns = n
		}
	}
}

// WithTaskMaxConsecutiveErrors sets this task's consecutive-error budget.
func WithTaskMaxConsecutiveErrors(n int) TaskOption {
	return func(s *taskSettings) {
		if n > 0 {
			s.agent.MaxConsecutiveErrors = n
		}
	}
}

// WithTaskTemperature sets the sampling temperature for this task's model
// calls.
func WithTaskTemperature(t float64) TaskOption {
	return func(s *taskSettings) {
		if t >= 0 && t <= 2 {
			s.llm.Temperature = t
		}
	}
}

// StartTask begins a new task on the existing conversation. It returns
// immediately; progress is observable through events and State. Returns
// ErrTaskRunning if a task is already in flight.
func (l *Loop) StartTask(ctx context.Context, message string, taskCtx types.TaskContext, opts ...TaskOption) error {
	if strings.TrimSpace(message) == "" {
		return errors.New("task message cannot be empty")
	}

	l.ctl.mu.Lock()
	if l.ctl.running {
		l.ctl.mu.Unlock()
		return ErrTaskRunning
	}
	taskRunCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.ctl.running = true
	l.ctl.taskCancel = cancel
	l.ctl.retryCount = 0
	l.ctl.retryRequested = false
	l.ctl.done = done
	l.ctl.mu.Unlock()

	// One task runs at a time, so the effective settings can be stored on
	// the loop; the goroutine start orders this write before any read.
	settings := taskSettings{agent: l.agentCfg, llm: l.llmCfg}
	for _, opt := range opts {
		opt(&settings)
	}
	l.taskCfg = settings

	agentLog.Infof("task started: mode=%s intent=%s", taskCtx.Mode, taskCtx.Intent)

	// Per-task counters reset; the transcript is preserved so tasks chain
	// into one conversation.
	l.store.ResetErrors()
	l.store.SetPendingTool(nil)

	enriched := l.enricher.Enrich(taskRunCtx, message, taskCtx)

	systemPrompt := prompts.NewBuilder().
		WithTaskContext(&enriched).
		WithTools(l.registry.List()).
		Build()

	// Refresh the head so a resumed conversation sees current tools and
	// workspace context rather than the prompt it was persisted with.
	l.store.ReplaceHead(systemPrompt)
	l.store.AddMessage(types.NewUserMessage(message))
	l.store.SetStatus(types.StatusRunning)

	go l.run(taskRunCtx, cancel, done, enriched)
	return nil
}

// run is the loop goroutine. It settles the task in exactly one terminal
// status before returning.
func (l *Loop) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}, taskCtx types.TaskContext) {
	defer close(done)
	defer cancel()
	defer func() {
		l.ctl.mu.Lock()
		l.ctl.running = false
		l.ctl.taskCancel = nil
		l.ctl.mu.Unlock()
	}()

	for turn := 0; turn < l.taskCfg.agent.MaxTurns; turn++ {
		if ctx.Err() != nil {
			l.finishAborted()
			return
		}

		content, err := l.callModel(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.finishAborted()
				return
			}
			// Transport error: fold into the conversation and let the model
			// continue, within the consecutive-error budget.
			agentLog.Errorf("model call failed: %v", err)
			l.store.AddMessage(types.NewUserMessage(prompts.TransportErrorMessage(err)))
			if l.countError("repeated model call failures") {
				return
			}
			l.store.Publish(types.NewTurnEndEvent())
			continue
		}

		l.store.AddMessage(types.NewAssistantMessage(content))
		reply := l.parser.Parse(content)

		outcome := l.handleReply(ctx, reply, taskCtx)
		l.store.Publish(types.NewTurnEndEvent())
		if outcome == outcomeTerminal {
			return
		}
	}

	agentLog.Errorf("turn limit reached (%d)", l.taskCfg.agent.MaxTurns)
	l.store.SetError("task exceeded the maximum number of turns")
}

// handleReply applies the reply-handling policy: execute tool calls in
// order, honor completion signals, and enforce the no-tool-used rules.
func (l *Loop) handleReply(ctx context.Context, reply *parser.Reply, taskCtx types.TaskContext) replyOutcome {
	if len(reply.ToolCalls) > 0 {
		return l.processToolCalls(ctx, reply.ToolCalls, taskCtx)
	}

	// Completion marker with no tool call.
	if reply.IsCompletion {
		l.finishCompleted()
		return outcomeTerminal
	}

	return l.handleNoToolUsed(reply.CleanedText, taskCtx)
}

// handleNoToolUsed decides whether a free-text reply ends the task.
//
// Chat-intent tasks complete on any free text. Action-oriented tasks accept
// a short reply or a question as terminal (the model is talking to the
// user); anything else gets a corrective nudge and counts against the
// consecutive-error budget.
func (l *Loop) handleNoToolUsed(cleaned string, taskCtx types.TaskContext) replyOutcome {
	if !taskCtx.Intent.IsActionOriented() {
		l.finishCompleted()
		return outcomeTerminal
	}

	trimmed := strings.TrimSpace(cleaned)
	isShort := len(trimmed) < l.taskCfg.agent.ConversationalMaxChars
	isQuestion := strings.HasSuffix(trimmed, "?")
	if isShort || isQuestion {
		l.finishCompleted()
		return outcomeTerminal
	}

	agentLog.Warnf("action-oriented task got a long free-text reply with no tool call")
	l.store.AddMessage(types.NewUserMessage(prompts.NoToolUsedMessage()))
	if l.countError("model repeatedly replied without using tools") {
		return outcomeTerminal
	}
	return outcomeContinue
}

// processToolCalls executes a reply's tool calls sequentially in document
// order. A loop-breaking tool, an abort, or an exhausted error budget stops
// the walk.
func (l *Loop) processToolCalls(ctx context.Context, calls []types.ToolCall, taskCtx types.TaskContext) replyOutcome {
	for i := range calls {
		call := calls[i]

		if ctx.Err() != nil {
			l.finishAborted()
			return outcomeTerminal
		}

		if l.registry.RequiresApproval(call.Name) {
			outcome, proceed := l.gateOnApproval(ctx, call)
			if !proceed {
				return outcome
			}
		}

		result := l.executeTool(ctx, call, taskCtx)

		tool, _ := l.registry.Get(call.Name)
		if tool != nil && tools.IsLoopBreaking(tool) && result.Success {
			l.finishCompleted()
			return outcomeTerminal
		}

		l.store.AddMessage(types.NewUserMessage(prompts.ToolResultMessage(call.Name, result)))
		if result.Success {
			l.store.ResetErrors()
		} else if l.countError("repeated tool failures") {
			return outcomeTerminal
		}
	}
	return outcomeContinue
}

// gateOnApproval suspends the loop on the approval rendezvous. The second
// return value reports whether execution should proceed; when false, the
// first carries the loop outcome.
func (l *Loop) gateOnApproval(ctx context.Context, call types.ToolCall) (replyOutcome, bool) {
	// The status and the pending tool move together so no snapshot ever
	// sees waiting_approval without a pending tool. The approval ID is
	// minted inside Request; the request event upgrades the record.
	off := l.store.On(types.EventTypeApprovalRequest, func(e *types.AgentEvent) {
		if e.ToolName == call.Name {
			l.store.SetPendingTool(&types.PendingTool{ApprovalID: e.ApprovalID, Call: call})
		}
	})
	l.store.Transition(types.StatusWaitingApproval, &types.PendingTool{Call: call})

	decision, _ := l.approvals.Request(ctx, call)
	off()

	// A canceled task context outranks whatever decision won the race.
	if ctx.Err() != nil {
		l.finishAborted()
		return outcomeTerminal, false
	}

	switch decision {
	case approval.DecisionApproved:
		l.store.Transition(types.StatusRunning, nil)
		return outcomeContinue, true

	case approval.DecisionRejected:
		agentLog.Infof("user rejected tool %q", call.Name)
		l.store.Transition(types.StatusRunning, nil)
		l.store.AddMessage(types.NewUserMessage(prompts.RejectionMessage(call.Name)))
		if l.countError("user repeatedly rejected tool calls") {
			return outcomeTerminal, false
		}
		return outcomeContinue, false

	case approval.DecisionTimedOut:
		agentLog.Warnf("approval for tool %q timed out", call.Name)
		l.store.Transition(types.StatusRunning, nil)
		l.store.AddMessage(types.NewUserMessage(prompts.ApprovalTimeoutMessage(call.Name)))
		if l.countError("approval requests repeatedly timed out") {
			return outcomeTerminal, false
		}
		return outcomeContinue, false

	default: // aborted
		l.finishAborted()
		return outcomeTerminal, false
	}
}

// executeTool runs one tool call with events around it. Failures come back
// as failed results, never as loop errors.
func (l *Loop) executeTool(ctx context.Context, call types.ToolCall, taskCtx types.TaskContext) types.ToolResult {
	l.store.Publish(types.NewToolCallEvent(call.Name, call.Params))

	start := time.Now()
	result := l.registry.Execute(ctx, call.Name, call.Params, &taskCtx)
	agentLog.Debugf("tool %q finished in %s success=%t", call.Name, time.Since(start), result.Success)

	l.store.Publish(types.NewToolResultEvent(call.Name, result))
	return result
}

// countError bumps the consecutive-error counter and settles the task in
// the error status when the budget is exhausted. Returns true when the task
// is now terminal.
func (l *Loop) countError(reason string) bool {
	count := l.store.IncrementErrors()
	if count < l.taskCfg.agent.MaxConsecutiveErrors {
		return false
	}
	agentLog.Errorf("consecutive error budget exhausted (%d): %s", count, reason)
	l.store.SetError(reason)
	return true
}

// finishCompleted settles the task as completed. The error counter tracks
// consecutive failures, so a clean completion clears it.
func (l *Loop) finishCompleted() {
	l.store.ResetErrors()
	l.store.Transition(types.StatusCompleted, nil)
}

func (l *Loop) finishAborted() {
	agentLog.Infof("task aborted")
	l.store.Transition(types.StatusAborted, nil)
}
