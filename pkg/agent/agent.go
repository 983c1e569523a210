// Package agent implements the autonomous task loop: it drives the model
// through iterations of reply parsing, tool execution, and approval gating
// until the task completes, errors out, or is aborted.
//
// The loop owns no UI. Hosts start tasks, answer approval requests, and
// render progress from the event stream published by the state store.
package agent

import (
	"time"

	"github.com/scribeworks/scribe/pkg/agent/approval"
	"github.com/scribeworks/scribe/pkg/agent/enrich"
	"github.com/scribeworks/scribe/pkg/agent/parser"
	"github.com/scribeworks/scribe/pkg/agent/state"
	"github.com/scribeworks/scribe/pkg/agent/tools"
	"github.com/scribeworks/scribe/pkg/config"
	"github.com/scribeworks/scribe/pkg/llm"
	"github.com/scribeworks/scribe/pkg/llm/tokenizer"
	"github.com/scribeworks/scribe/pkg/logging"
	"github.com/scribeworks/scribe/pkg/types"
)

var agentLog *logging.Logger

func init() {
	var err error
	agentLog, err = logging.NewLogger("agent")
	if err != nil {
		agentLog.Warnf("agent logger fell back to stderr: %v", err)
	}
}

// Loop drives one task at a time through the agent state machine.
type Loop struct {
	provider  llm.Provider
	registry  *tools.Registry
	store     *state.Store
	approvals *approval.Manager
	enricher  *enrich.Enricher
	parser    *parser.Parser
	tokenizer *tokenizer.Tokenizer

	agentCfg config.AgentConfig
	llmCfg   config.LLMConfig

	// taskCfg is the effective configuration of the task in flight: the
	// loop configuration with StartTask's per-task overrides applied.
	taskCfg taskSettings

	ctl loopControl
}

// Option configures a Loop.
type Option func(*Loop)

// WithConfig applies loop policy and model tuning from a loaded Config.
func WithConfig(cfg *config.Config) Option {
	return func(l *Loop) {
		l.agentCfg = cfg.Agent
		l.llmCfg = cfg.LLM
	}
}

// WithEnricher sets the context enricher queried once at task start.
func WithEnricher(e *enrich.Enricher) Option {
	return func(l *Loop) {
		l.enricher = e
	}
}

// WithApprovalTimeout overrides the configured approval timeout.
func WithApprovalTimeout(timeout time.Duration) Option {
	return func(l *Loop) {
		l.agentCfg.ApprovalTimeout = timeout
	}
}

// New creates a loop over the given provider and tool registry. The
// completion tool is registered automatically if the wiring did not add it.
func New(provider llm.Provider, registry *tools.Registry, opts ...Option) *Loop {
	if registry == nil {
		registry = tools.NewRegistry()
	}
	if _, ok := registry.Get(parser.CompletionToolName); !ok {
		// Ignore the error: the only failure mode is a duplicate, checked above.
		_ = registry.Register(tools.NewAttemptCompletionTool())
	}

	defaults := config.Default()
	l := &Loop{
		provider: provider,
		registry: registry,
		store:    state.NewStore(),
		agentCfg: defaults.Agent,
		llmCfg:   defaults.LLM,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.enricher == nil {
		l.enricher = enrich.New(nil, false, 0)
	}

	// Token counting is best effort; a nil tokenizer falls back to provider
	// reported usage only.
	if tok, err := tokenizer.New(); err == nil {
		l.tokenizer = tok
	} else {
		agentLog.Warnf("tokenizer unavailable, relying on provider usage: %v", err)
	}

	l.parser = parser.New(registry.Names())
	l.approvals = approval.NewManager(l.agentCfg.ApprovalTimeout, l.store.Publish)

	return l
}

// State returns a copy of the current agent state.
func (l *Loop) State() types.AgentState {
	return l.store.Snapshot()
}

// On subscribes to loop events. Returns an unsubscribe function.
func (l *Loop) On(eventType types.AgentEventType, handler state.Handler) func() {
	return l.store.On(eventType, handler)
}

// Messages returns a copy of the conversation transcript.
func (l *Loop) Messages() []*types.Message {
	return l.store.Messages()
}
