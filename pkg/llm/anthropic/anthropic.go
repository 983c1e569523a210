// Package anthropic provides a Claude provider built on the official
// Anthropic Go SDK.
package anthropic

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/scribeworks/scribe/pkg/llm"
	"github.com/scribeworks/scribe/pkg/types"
)

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 8192
)

// Provider implements llm.Provider for the Anthropic Messages API.
type Provider struct {
	client anthropic.Client
	model  string
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithModel sets the model to use for completions.
func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		p.model = model
	}
}

// NewProvider creates a provider with the given API key. An empty key falls
// back to the ANTHROPIC_API_KEY environment variable.
func NewProvider(apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (provide via parameter or ANTHROPIC_API_KEY environment variable)")
	}

	p := &Provider{
		model:  defaultModel,
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Call sends the message history and returns the complete response.
//
// The Messages API takes the system prompt as a top-level field rather than
// a system-role message, so the head of the transcript is split off here.
func (p *Provider) Call(ctx context.Context, messages []*types.Message, opts llm.CallOptions) (*llm.Completion, error) {
	system, turns := splitSystem(messages)

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(maxTokens),
		Messages:  turns,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if opts.Temperature > 0 {
		params.Temperature = anthropic.Float(opts.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("messages request failed: %w", err)
	}

	var content strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	return &llm.Completion{
		Content: content.String(),
		Usage: &types.TokenUsage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}, nil
}

// Model returns the model name being used.
func (p *Provider) Model() string {
	return p.model
}

// splitSystem separates the system prompt from the conversational turns.
func splitSystem(messages []*types.Message) (string, []anthropic.MessageParam) {
	var system string
	turns := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case types.RoleSystem:
			if system == "" {
				system = msg.Content
			} else {
				system += "\n\n" + msg.Content
			}
		case types.RoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return system, turns
}
