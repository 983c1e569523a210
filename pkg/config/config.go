// Package config loads scribe configuration from an optional YAML file with
// environment variable overrides. Values are plain data; there is no global
// singleton — callers load a Config once and pass it down explicitly.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Defaults for the loop's soft thresholds. These are deliberately
// configuration, not constants: the free-text completion heuristics are
// fuzzy and hosts tune them.
const (
	DefaultMaxConsecutiveErrors   = 3
	DefaultConversationalMaxChars = 300
	DefaultLLMSlowThreshold       = 2 * time.Minute
	DefaultApprovalTimeout        = 5 * time.Minute
	DefaultTemperature            = 0.7
	DefaultMaxTurns               = 25
	DefaultSearchResultLimit      = 5
)

// LLMConfig selects and tunes the model provider.
type LLMConfig struct {
	Provider    string  `yaml:"provider" env:"SCRIBE_LLM_PROVIDER"`
	Model       string  `yaml:"model" env:"SCRIBE_LLM_MODEL"`
	APIKey      string  `yaml:"api_key" env:"SCRIBE_LLM_API_KEY"`
	BaseURL     string  `yaml:"base_url" env:"SCRIBE_LLM_BASE_URL"`
	Temperature float64 `yaml:"temperature" env:"SCRIBE_LLM_TEMPERATURE"`
}

// AgentConfig tunes the agent loop policies.
type AgentConfig struct {
	// MaxConsecutiveErrors is the consecutive-error budget: back-to-back
	// recoverable failures tolerated before the task enters the error state.
	MaxConsecutiveErrors int `yaml:"max_consecutive_errors" env:"SCRIBE_AGENT_MAX_CONSECUTIVE_ERRORS"`

	// ConversationalMaxChars bounds a free-text reply that is still accepted
	// as terminal for action-oriented intents.
	ConversationalMaxChars int `yaml:"conversational_max_chars" env:"SCRIBE_AGENT_CONVERSATIONAL_MAX_CHARS"`

	// LLMSlowThreshold is how long a model call may run before a
	// slow-request signal is surfaced. The call is not auto-canceled.
	LLMSlowThreshold time.Duration `yaml:"llm_slow_threshold" env:"SCRIBE_AGENT_LLM_SLOW_THRESHOLD"`

	// ApprovalTimeout bounds how long a tool waits for a human decision.
	// A timeout is treated as a rejection.
	ApprovalTimeout time.Duration `yaml:"approval_timeout" env:"SCRIBE_AGENT_APPROVAL_TIMEOUT"`

	// MaxTurns caps loop iterations per task as a runaway guard.
	MaxTurns int `yaml:"max_turns" env:"SCRIBE_AGENT_MAX_TURNS"`

	// EnableSearch controls whether the context enricher queries the search
	// capability at task start.
	EnableSearch bool `yaml:"enable_search" env:"SCRIBE_AGENT_ENABLE_SEARCH"`

	// SearchResultLimit caps retrieved documents per task.
	SearchResultLimit int `yaml:"search_result_limit" env:"SCRIBE_AGENT_SEARCH_RESULT_LIMIT"`
}

// Config is the root configuration.
type Config struct {
	Workspace string      `yaml:"workspace" env:"SCRIBE_WORKSPACE"`
	LLM       LLMConfig   `yaml:"llm"`
	Agent     AgentConfig `yaml:"agent"`
}

// Default returns a Config populated with defaults only.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Temperature: DefaultTemperature,
		},
		Agent: AgentConfig{
			MaxConsecutiveErrors:   DefaultMaxConsecutiveErrors,
			ConversationalMaxChars: DefaultConversationalMaxChars,
			LLMSlowThreshold:       DefaultLLMSlowThreshold,
			ApprovalTimeout:        DefaultApprovalTimeout,
			MaxTurns:               DefaultMaxTurns,
			EnableSearch:           true,
			SearchResultLimit:      DefaultSearchResultLimit,
		},
	}
}

// Load reads the YAML file at path (if it exists), applies environment
// overrides, and validates the result. An empty path skips the file step.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks invariants that would otherwise surface as confusing
// runtime behavior.
func (c *Config) Validate() error {
	if c.Agent.MaxConsecutiveErrors < 1 {
		return fmt.Errorf("agent.max_consecutive_errors must be at least 1, got %d", c.Agent.MaxConsecutiveErrors)
	}
	if c.Agent.ConversationalMaxChars < 1 {
		return fmt.Errorf("agent.conversational_max_chars must be at least 1, got %d", c.Agent.ConversationalMaxChars)
	}
	if c.Agent.LLMSlowThreshold <= 0 {
		return fmt.Errorf("agent.llm_slow_threshold must be positive, got %v", c.Agent.LLMSlowThreshold)
	}
	if c.Agent.MaxTurns < 1 {
		return fmt.Errorf("agent.max_turns must be at least 1, got %d", c.Agent.MaxTurns)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be in [0, 2], got %v", c.LLM.Temperature)
	}
	return nil
}
