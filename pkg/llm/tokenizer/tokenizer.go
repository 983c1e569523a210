// Package tokenizer provides client-side token counting for budgeting and
// usage events when the provider does not report usage itself.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/scribeworks/scribe/pkg/types"
)

// encoding is a reasonable default across current chat models.
const encoding = "cl100k_base"

// perMessageOverhead approximates the role and framing tokens added per
// message by chat completion APIs.
const perMessageOverhead = 4

// Tokenizer counts tokens using tiktoken encodings.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// New creates a tokenizer with the default encoding.
func New() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", encoding, err)
	}
	return &Tokenizer{enc: enc}, nil
}

// CountTokens returns the token count for a single string.
func (t *Tokenizer) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(t.enc.Encode(text, nil, nil))
}

// CountMessagesTokens returns the approximate token count for a full
// message history.
func (t *Tokenizer) CountMessagesTokens(messages []*types.Message) int {
	total := 0
	for _, msg := range messages {
		total += t.CountTokens(msg.Content) + t.CountTokens(string(msg.Role)) + perMessageOverhead
	}
	return total
}
