// Package parser turns raw model output into a structured reply: tool
// invocations in document order, a completion flag, and cleaned narrative
// text. Malformed fragments never fail a turn; they degrade to "no tool
// call recognized" and are handled by the loop's no-tool-used policy.
package parser

import (
	"encoding/xml"
	"io"
	"regexp"
	"strings"

	"github.com/scribeworks/scribe/pkg/types"
)

// CompletionToolName is the loop-breaking tool the model invokes to signal
// it is done.
const CompletionToolName = "attempt_completion"

// CompletionMarker is the literal marker accepted as a completion signal in
// a reply that carries no tool call.
const CompletionMarker = "TASK_COMPLETE"

// maxReplySize caps the text the tag scanner will process.
const maxReplySize = 10 * 1024 * 1024

var (
	// thinkingRegex matches internal reasoning blocks, which are stripped
	// for heuristic classification but preserved in the stored transcript.
	thinkingRegex = regexp.MustCompile(`(?s)<thinking>.*?</thinking>`)

	// fenceRegex matches code fence delimiter lines.
	fenceRegex = regexp.MustCompile("(?m)^```[a-zA-Z0-9_-]*[ \t]*$")

	// tagRegex finds candidate opening tags.
	tagRegex = regexp.MustCompile(`<([a-z][a-z0-9_]*)>`)

	// ampersandEntityRegex matches ampersands already part of XML entities
	// so the fallback escaper does not double-escape them.
	ampersandEntityRegex = regexp.MustCompile(`&(?:amp|lt|gt|quot|apos|#\d+|#x[0-9a-fA-F]+);`)
)

// Reply is the structured form of one assistant message.
type Reply struct {
	ToolCalls    []types.ToolCall
	IsCompletion bool
	CleanedText  string
}

// Parser recognizes tool invocations against a fixed set of tool names.
// Tags that are not registered tool names are left in the narrative text.
type Parser struct {
	toolNames map[string]bool
}

// New creates a parser that recognizes the given tool names.
func New(toolNames []string) *Parser {
	names := make(map[string]bool, len(toolNames)+1)
	for _, n := range toolNames {
		names[n] = true
	}
	// The completion tool is always recognized, registered or not.
	names[CompletionToolName] = true
	return &Parser{toolNames: names}
}

// Parse extracts tool calls and the completion signal from raw model
// output. It never returns an error: malformed tags are skipped and the
// fragment stays in the narrative text.
func (p *Parser) Parse(raw string) *Reply {
	if len(raw) > maxReplySize {
		raw = raw[:maxReplySize]
	}

	reply := &Reply{}
	remaining := raw
	var narrative strings.Builder

	for {
		call, before, after, ok := p.nextToolCall(remaining)
		if !ok {
			narrative.WriteString(remaining)
			break
		}
		narrative.WriteString(before)
		remaining = after

		if call.Name == CompletionToolName {
			reply.IsCompletion = true
		}
		reply.ToolCalls = append(reply.ToolCalls, *call)
	}

	reply.CleanedText = CleanText(narrative.String())

	// A bare completion marker counts only when no tool call was parsed.
	if len(reply.ToolCalls) == 0 && strings.Contains(reply.CleanedText, CompletionMarker) {
		reply.IsCompletion = true
		reply.CleanedText = strings.TrimSpace(strings.ReplaceAll(reply.CleanedText, CompletionMarker, ""))
	}

	return reply
}

// nextToolCall scans for the first well-formed tool invocation. Returns the
// call, the text before it, the text after it, and whether one was found.
// Openings without a matching close tag, or with unparsable parameters, are
// treated as narrative text.
func (p *Parser) nextToolCall(text string) (*types.ToolCall, string, string, bool) {
	offset := 0
	for {
		loc := tagRegex.FindStringSubmatchIndex(text[offset:])
		if loc == nil {
			return nil, "", "", false
		}

		openStart := offset + loc[0]
		openEnd := offset + loc[1]
		name := text[offset+loc[2] : offset+loc[3]]

		if !p.toolNames[name] {
			offset = openEnd
			continue
		}

		closeTag := "</" + name + ">"
		closeIdx := strings.Index(text[openEnd:], closeTag)
		if closeIdx < 0 {
			// Unterminated invocation. Leave it in the narrative.
			offset = openEnd
			continue
		}

		inner := text[openEnd : openEnd+closeIdx]
		end := openEnd + closeIdx + len(closeTag)

		params, err := parseParams(inner)
		if err != nil {
			// Parameters did not parse. Degrade to no tool call and keep
			// scanning past this opening tag.
			offset = openEnd
			continue
		}

		call := &types.ToolCall{
			Name:   name,
			Params: params,
			Raw:    text[openStart:end],
		}
		return call, text[:openStart], text[end:], true
	}
}

// parseParams decodes `<param>value</param>` children into a string map.
// Only direct children are captured; nested markup stays inside the value.
func parseParams(inner string) (map[string]string, error) {
	wrapped := "<arguments>" + inner + "</arguments>"

	params, err := decodeParams(wrapped)
	if err == nil {
		return params, nil
	}

	// Retry with bare ampersands escaped. Models routinely emit raw & in
	// prose and file contents.
	return decodeParams(escapeUnescapedAmpersands(wrapped))
}

func decodeParams(wrapped string) (map[string]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(wrapped))

	params := make(map[string]string)
	depth := 0
	var current string
	var value strings.Builder

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				current = t.Name.Local
				value.Reset()
			} else if depth > 2 {
				// Nested markup is kept verbatim inside the value.
				value.WriteString("<" + t.Name.Local + ">")
			}
		case xml.EndElement:
			if depth == 2 && t.Name.Local == current {
				params[current] = strings.TrimSpace(value.String())
			} else if depth > 2 {
				value.WriteString("</" + t.Name.Local + ">")
			}
			depth--
		case xml.CharData:
			if depth >= 2 {
				value.Write(t)
			}
		}
	}

	return params, nil
}

// escapeUnescapedAmpersands replaces bare & with &amp; while preserving
// existing entities.
func escapeUnescapedAmpersands(text string) string {
	entityPositions := make(map[int]bool)
	for _, match := range ampersandEntityRegex.FindAllStringIndex(text, -1) {
		entityPositions[match[0]] = true
	}

	var result strings.Builder
	result.Grow(len(text) + 16)
	for i := 0; i < len(text); i++ {
		if text[i] == '&' && !entityPositions[i] {
			result.WriteString("&amp;")
		} else {
			result.WriteByte(text[i])
		}
	}
	return result.String()
}

// CleanText strips reasoning markup and code fence delimiters for the
// heuristic classification path. The stored transcript always keeps the
// raw reply.
func CleanText(text string) string {
	text = thinkingRegex.ReplaceAllString(text, "")
	text = fenceRegex.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
