// Package stream decodes the line-delimited stream-json events emitted by
// cursor-agent and renders them as compact progress lines.
package stream

import (
	"encoding/json"
	"strings"
)

// EventType identifies the kind of event on a stream-json line.
type EventType string

const (
	// EventSystem carries session metadata such as the model name.
	EventSystem EventType = "system"
	// EventAssistant carries an incremental chunk of generated text.
	EventAssistant EventType = "assistant"
	// EventToolCall reports a tool starting or completing.
	EventToolCall EventType = "tool_call"
	// EventResult is the final event of a run.
	EventResult EventType = "result"
)

// Event subtypes.
const (
	SubtypeInit      = "init"
	SubtypeStarted   = "started"
	SubtypeCompleted = "completed"
)

// Event is one decoded stream-json line. Only the fields the interpreter
// reads are modelled; everything else is ignored.
type Event struct {
	Type       EventType         `json:"type"`
	Subtype    string            `json:"subtype,omitempty"`
	Model      string            `json:"model,omitempty"`
	Message    *AssistantMessage `json:"message,omitempty"`
	ToolCall   *ToolCall         `json:"tool_call,omitempty"`
	DurationMS json.Number       `json:"duration_ms,omitempty"`
}

// AssistantMessage holds generated content.
type AssistantMessage struct {
	Content []ContentBlock `json:"content"`
}

// ContentBlock is one piece of assistant content.
type ContentBlock struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text,omitempty"`
}

// ToolCall names the tool involved. At most one field is expected to be set;
// when both are, the write takes precedence.
type ToolCall struct {
	Write *ToolInvocation `json:"writeToolCall,omitempty"`
	Read  *ToolInvocation `json:"readToolCall,omitempty"`
}

// ToolInvocation is the arguments and, once completed, the result of a call.
type ToolInvocation struct {
	Args   ToolArgs    `json:"args"`
	Result *ToolResult `json:"result,omitempty"`
}

// ToolArgs are the arguments shared by the read and write tools.
type ToolArgs struct {
	Path string `json:"path,omitempty"`
}

// ToolResult is present on completed tool calls. Success is nil when the
// tool failed.
type ToolResult struct {
	Success *ToolSuccess `json:"success,omitempty"`
}

// ToolSuccess holds the counters reported by a successful tool call.
type ToolSuccess struct {
	LinesCreated int   `json:"linesCreated,omitempty"`
	FileSize     int64 `json:"fileSize,omitempty"`
	TotalLines   int   `json:"totalLines,omitempty"`
}

// ParseEvent decodes a single line. It reports false for blank lines,
// anything that is not a JSON object, and objects without a type.
func ParseEvent(line string) (*Event, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] != '{' {
		return nil, false
	}

	var ev Event
	if err := json.Unmarshal([]byte(line), &ev); err != nil {
		return nil, false
	}
	if ev.Type == "" {
		return nil, false
	}
	return &ev, true
}

// Text returns the text of the first content block, if any.
func (e *Event) Text() string {
	if e.Message == nil || len(e.Message.Content) == 0 {
		return ""
	}
	return e.Message.Content[0].Text
}

// Duration returns the reported duration_ms, or "0" when absent.
func (e *Event) Duration() string {
	if e.DurationMS == "" {
		return "0"
	}
	return e.DurationMS.String()
}
