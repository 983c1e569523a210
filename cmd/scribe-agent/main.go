// Package main provides the scribe headless agent runner: a single task is
// executed against a notes workspace from the command line, with approval
// prompts on stdin. Useful for scripting and for exercising the agent core
// without an embedding host.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/scribeworks/scribe/pkg/agent"
	"github.com/scribeworks/scribe/pkg/agent/enrich"
	"github.com/scribeworks/scribe/pkg/agent/tools"
	"github.com/scribeworks/scribe/pkg/config"
	"github.com/scribeworks/scribe/pkg/llm"
	"github.com/scribeworks/scribe/pkg/llm/anthropic"
	"github.com/scribeworks/scribe/pkg/llm/openai"
	"github.com/scribeworks/scribe/pkg/search"
	"github.com/scribeworks/scribe/pkg/security/workspace"
	"github.com/scribeworks/scribe/pkg/tools/notes"
	"github.com/scribeworks/scribe/pkg/types"
)

const version = "0.1.0"

type cliFlags struct {
	configFile  string
	workspace   string
	task        string
	intent      string
	mode        string
	provider    string
	model       string
	autoApprove bool
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		fmt.Printf("scribe-agent v%s\n", version)
		return
	}

	if err := run(flags); err != nil {
		fmt.Fprintf(os.Stderr, "scribe-agent: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() *cliFlags {
	flags := &cliFlags{}

	flag.StringVar(&flags.configFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&flags.workspace, "workspace", ".", "Notes workspace directory")
	flag.StringVar(&flags.task, "task", "", "Task to run (required)")
	flag.StringVar(&flags.intent, "intent", "chat", "Task intent: chat, search, edit, create, organize")
	flag.StringVar(&flags.mode, "mode", "chat", "Host surface: editor, organizer, chat")
	flag.StringVar(&flags.provider, "provider", "", "LLM provider: openai or anthropic (overrides config)")
	flag.StringVar(&flags.model, "model", "", "Model name (overrides config)")
	flag.BoolVar(&flags.autoApprove, "auto-approve", false, "Approve all tool calls without prompting")
	flag.BoolVar(&flags.showVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "scribe-agent - headless task runner for notes workspaces\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scribe-agent [options]\n\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  scribe-agent -task \"summarize this week's journal\" -workspace ~/notes\n")
		fmt.Fprintf(os.Stderr, "  scribe-agent -task \"file loose notes into folders\" -intent organize -auto-approve\n")
	}

	flag.Parse()
	return flags
}

func run(flags *cliFlags) error {
	if strings.TrimSpace(flags.task) == "" {
		flag.Usage()
		return fmt.Errorf("-task is required")
	}

	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return err
	}
	if flags.workspace != "" {
		cfg.Workspace = flags.workspace
	}
	if flags.provider != "" {
		cfg.LLM.Provider = flags.provider
	}
	if flags.model != "" {
		cfg.LLM.Model = flags.model
	}

	guard, err := workspace.NewGuard(cfg.Workspace)
	if err != nil {
		return err
	}

	provider, err := buildProvider(cfg.LLM)
	if err != nil {
		return err
	}

	searcher := search.NewFilesystemSearcher(guard)
	registry := tools.NewRegistry()
	for _, tool := range notes.All(guard, searcher) {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}

	loop := agent.New(provider, registry,
		agent.WithConfig(cfg),
		agent.WithEnricher(enrich.New(searcher, cfg.Agent.EnableSearch, cfg.Agent.SearchResultLimit)),
	)

	renderEvents(loop)
	wireApprovals(loop, flags.autoApprove)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\naborting...")
		loop.Abort()
	}()

	taskCtx := types.TaskContext{
		WorkspacePath: guard.Root(),
		Mode:          types.Mode(flags.mode),
		Intent:        types.Intent(flags.intent),
	}
	if err := loop.StartTask(ctx, flags.task, taskCtx); err != nil {
		return err
	}
	<-loop.Done()

	final := loop.State()
	switch final.Status {
	case types.StatusCompleted:
		return nil
	case types.StatusAborted:
		return fmt.Errorf("task aborted")
	default:
		return fmt.Errorf("task failed: %s", final.ErrorMessage)
	}
}

// buildProvider selects the model backend from configuration.
func buildProvider(cfg config.LLMConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		var opts []anthropic.ProviderOption
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(cfg.Model))
		}
		return anthropic.NewProvider(cfg.APIKey, opts...)

	case "openai", "":
		var opts []openai.ProviderOption
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.NewProvider(cfg.APIKey, opts...)

	default:
		return nil, fmt.Errorf("unknown llm provider %q (want openai or anthropic)", cfg.Provider)
	}
}

// renderEvents prints task progress to stdout.
func renderEvents(loop *agent.Loop) {
	loop.On(types.EventTypeStatusChanged, func(e *types.AgentEvent) {
		fmt.Printf("[status] %s\n", e.Status)
	})
	loop.On(types.EventTypeToolCall, func(e *types.AgentEvent) {
		fmt.Printf("[tool] %s %v\n", e.ToolName, e.ToolInput)
	})
	loop.On(types.EventTypeToolResult, func(e *types.AgentEvent) {
		if e.ToolResult.Success {
			fmt.Printf("[ok] %s\n", firstLine(e.ToolResult.Content))
		} else {
			fmt.Printf("[failed] %s\n", firstLine(e.ToolResult.Error))
		}
	})
	loop.On(types.EventTypeMessageAdded, func(e *types.AgentEvent) {
		if e.Message.Role == types.RoleAssistant {
			fmt.Println(e.Message.Content)
		}
	})
	loop.On(types.EventTypeSlowRequest, func(e *types.AgentEvent) {
		fmt.Fprintf(os.Stderr, "[slow] model call running for %.0fs\n", e.ElapsedSeconds)
	})
	loop.On(types.EventTypeTaskError, func(e *types.AgentEvent) {
		fmt.Fprintf(os.Stderr, "[error] %s\n", e.Error)
	})
}

// wireApprovals answers approval requests, either automatically or by
// prompting on stdin.
func wireApprovals(loop *agent.Loop, autoApprove bool) {
	loop.On(types.EventTypeApprovalRequest, func(e *types.AgentEvent) {
		if autoApprove {
			fmt.Printf("[approval] auto-approving %s\n", e.ToolName)
			loop.ApproveToolCall(true)
			return
		}
		// The handler runs on the loop goroutine; prompt asynchronously so
		// the approval timeout still applies while waiting on stdin.
		go func() {
			fmt.Printf("[approval] allow %s %v? [y/N] ", e.ToolName, e.ToolInput)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			loop.ApproveToolCall(answer == "y" || answer == "yes")
		}()
	})
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
