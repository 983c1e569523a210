// Package llm defines the provider contract the agent loop calls models
// through. Providers own API communication and return plain completions;
// the agent layer owns orchestration, state, and events.
package llm

import (
	"context"

	"github.com/scribeworks/scribe/pkg/types"
)

// CallOptions carries per-call tuning. The zero value means provider
// defaults.
type CallOptions struct {
	Temperature float64
	MaxTokens   int
}

// Completion is the full response from a non-streaming model call.
type Completion struct {
	Content string
	Usage   *types.TokenUsage
}

// Provider defines the non-streaming model contract the loop depends on.
// Exactly one call is in flight per task; cancellation arrives through ctx.
type Provider interface {
	// Call sends the full message history and blocks until the model
	// responds or ctx is canceled. Transport failures are returned as
	// errors; the loop classifies and absorbs them.
	Call(ctx context.Context, messages []*types.Message, opts CallOptions) (*Completion, error)

	// Model returns the model name being used.
	Model() string
}

// ChunkType tags the payload of a streaming chunk.
type ChunkType string

const (
	ChunkTypeContent ChunkType = "content"
	ChunkTypeUsage   ChunkType = "usage"
	ChunkTypeError   ChunkType = "error"
	ChunkTypeDone    ChunkType = "done"
)

// StreamChunk is one increment of a streaming response.
type StreamChunk struct {
	Type    ChunkType
	Content string
	Usage   *types.TokenUsage
	Err     error
}

// IsError reports whether this chunk carries a stream-time error.
func (c *StreamChunk) IsError() bool {
	return c.Err != nil
}

// Streamer is an optional interface providers may implement. The core loop
// works against Provider; hosts that render incremental output can type
// assert for this.
type Streamer interface {
	StreamCall(ctx context.Context, messages []*types.Message, opts CallOptions) (<-chan *StreamChunk, error)
}
