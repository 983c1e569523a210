package agent

import (
	"context"
	"time"

	"github.com/scribeworks/scribe/pkg/agent/prompts"
	"github.com/scribeworks/scribe/pkg/llm"
	"github.com/scribeworks/scribe/pkg/types"
)

// callModel sends the current transcript to the provider and returns the
// reply content.
//
// Two kinds of cancellation meet here and must stay distinct. Task abort
// cancels ctx and surfaces as an error with ctx.Err set. A manual retry
// cancels only the per-call context: the failed call is absorbed, a retry
// hint is appended to the transcript, and the call reissues against
// otherwise unchanged history.
func (l *Loop) callModel(ctx context.Context) (string, error) {
	for {
		callCtx, cancel := context.WithCancel(ctx)

		l.ctl.mu.Lock()
		l.ctl.callCancel = cancel
		l.ctl.mu.Unlock()

		start := time.Now()
		l.store.MarkLLMRequestStart(start)

		// Slow-request watcher. It only signals; the call keeps running
		// until it finishes, the user retries, or the task aborts.
		slowTimer := time.AfterFunc(l.taskCfg.agent.LLMSlowThreshold, func() {
			elapsed := time.Since(start).Seconds()
			agentLog.Warnf("model call slow: %.0fs elapsed", elapsed)
			l.store.Publish(types.NewSlowRequestEvent(elapsed, l.store.LLMRequestCount()))
		})

		completion, err := l.provider.Call(callCtx, l.store.Messages(), llm.CallOptions{
			Temperature: l.taskCfg.llm.Temperature,
		})

		slowTimer.Stop()
		l.store.ClearLLMRequestStart()

		l.ctl.mu.Lock()
		l.ctl.callCancel = nil
		cancel()
		retried := l.ctl.retryRequested
		l.ctl.retryRequested = false
		l.ctl.mu.Unlock()

		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if retried {
				l.ctl.mu.Lock()
				l.ctl.retryCount++
				count := l.ctl.retryCount
				l.ctl.mu.Unlock()

				l.store.AddMessage(types.NewUserMessage(prompts.TimeoutRetryMessage(count)))
				continue
			}
			return "", err
		}

		l.emitTokenUsage(completion)
		return completion.Content, nil
	}
}

// emitTokenUsage publishes provider-reported usage, falling back to
// client-side counting when the provider returned none.
func (l *Loop) emitTokenUsage(completion *llm.Completion) {
	if completion.Usage != nil {
		l.store.Publish(types.NewTokenUsageEvent(completion.Usage.PromptTokens, completion.Usage.CompletionTokens))
		return
	}
	if l.tokenizer == nil {
		return
	}
	promptTokens := l.tokenizer.CountMessagesTokens(l.store.Messages())
	completionTokens := l.tokenizer.CountTokens(completion.Content)
	l.store.Publish(types.NewTokenUsageEvent(promptTokens, completionTokens))
}
