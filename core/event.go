package core

import (
	"time"

	"github.com/google/uuid"
)

// EventType categorizes an event for consumers filtering a run's stream.
type EventType string

const (
	// EventMessage carries (possibly partial) assistant or user content.
	EventMessage EventType = "message"
	// EventToolCall signals that an agent requested a tool execution.
	EventToolCall EventType = "tool_call"
	// EventToolResult reports the outcome of a tool execution.
	EventToolResult EventType = "tool_result"
	// EventError reports a non-fatal failure surfaced as a value rather
	// than as the stream's terminal error (e.g. a merged sibling failing
	// under the ContinueAndCollect policy).
	EventError EventType = "error"
)

// Event is the unit of communication between agents, the runner and external
// clients. After emission it must be treated as immutable; the streaming
// core moves, buffers and occasionally drops events but never mutates them.
type Event struct {
	ID           string            `json:"id"`
	RunID        string            `json:"run_id"`
	Author       string            `json:"author"`
	Type         EventType         `json:"type"`
	Timestamp    time.Time         `json:"timestamp"`
	Content      *Content          `json:"content,omitempty"`
	Partial      bool              `json:"partial,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// NewID generates a unique identifier for events and runs.
func NewID() string { return uuid.NewString() }

// NewEvent creates a bare event authored by author and bound to a run.
// Prefer the helper constructors for common semantic categories.
func NewEvent(runID, author string, t EventType) Event {
	return Event{
		ID:        NewID(),
		RunID:     runID,
		Author:    author,
		Type:      t,
		Timestamp: time.Now().UTC(),
	}
}

// NewMessageEvent creates a message event with a single text part. partial
// marks streaming fragments that will be followed by a final message.
func NewMessageEvent(runID, author, text string, partial bool) Event {
	e := NewEvent(runID, author, EventMessage)
	c := NewTextContent("assistant", text)
	e.Content = &c
	e.Partial = partial
	return e
}

// NewUserMessageEvent creates a user-authored text message event.
func NewUserMessageEvent(runID, text string) Event {
	e := NewEvent(runID, "user", EventMessage)
	c := NewTextContent("user", text)
	e.Content = &c
	return e
}

// NewToolCallEvent records an agent requesting execution of a named tool.
func NewToolCallEvent(runID, author string, call ToolCall) Event {
	e := NewEvent(runID, author, EventToolCall)
	e.Content = &Content{Role: "assistant", Parts: []Part{ToolCallPart{Call: call}}}
	return e
}

// NewToolResultEvent records the completion result (or failure) of a tool
// call.
func NewToolResultEvent(runID, author string, result ToolResult) Event {
	e := NewEvent(runID, author, EventToolResult)
	e.Content = &Content{Role: "tool", Parts: []Part{ToolResultPart{Result: result}}}
	return e
}

// NewErrorEvent downgrades an error into a regular event value.
func NewErrorEvent(runID, author string, err error) Event {
	e := NewEvent(runID, author, EventError)
	if err != nil {
		e.ErrorMessage = err.Error()
	}
	return e
}

// Text returns the concatenated text content of the event, or "" for
// control-only events.
func (e Event) Text() string {
	if e.Content == nil {
		return ""
	}
	return e.Content.Text()
}

// ToolCalls returns any tool call parts contained in the event content.
func (e Event) ToolCalls() []ToolCall {
	if e.Content == nil {
		return nil
	}
	return e.Content.ToolCalls()
}

// ToolResults returns any tool result parts contained in the event content.
func (e Event) ToolResults() []ToolResult {
	if e.Content == nil {
		return nil
	}
	return e.Content.ToolResults()
}

// IsError reports whether the event carries a downgraded failure.
func (e Event) IsError() bool { return e.Type == EventError }

// IsFinalResponse reports whether the event completes an assistant turn: a
// non-partial message with no pending tool activity.
func (e Event) IsFinalResponse() bool {
	return e.Type == EventMessage && !e.Partial && len(e.ToolCalls()) == 0
}
