package core

// Content groups the parts of a single conversational message together with
// the role that produced it ("user", "assistant", "system", "tool").
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part is one fragment of message content. Implementations are small value
// types; the sealed marker keeps the set closed within this package.
type Part interface {
	isPart()
}

// TextPart carries plain text.
type TextPart struct {
	Text string `json:"text"`
}

func (TextPart) isPart() {}

// ToolCall describes a request to execute a named tool.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON-encoded argument object
}

// ToolCallPart embeds a tool call into message content.
type ToolCallPart struct {
	Call ToolCall `json:"call"`
}

func (ToolCallPart) isPart() {}

// ToolResult captures the outcome of a previously requested tool call. Err
// holds the failure message when the call did not succeed.
type ToolResult struct {
	CallID string `json:"call_id"`
	Name   string `json:"name"`
	Output string `json:"output"`
	Err    string `json:"error,omitempty"`
}

// ToolResultPart embeds a tool result into message content.
type ToolResultPart struct {
	Result ToolResult `json:"result"`
}

func (ToolResultPart) isPart() {}

// NewTextContent is a convenience constructor for a single-part text message.
func NewTextContent(role, text string) Content {
	return Content{Role: role, Parts: []Part{TextPart{Text: text}}}
}

// Text concatenates all text parts of the content.
func (c Content) Text() string {
	var out string
	for _, p := range c.Parts {
		if tp, ok := p.(TextPart); ok {
			out += tp.Text
		}
	}
	return out
}

// ToolCalls returns the tool call parts in their original order.
func (c Content) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, p := range c.Parts {
		if tc, ok := p.(ToolCallPart); ok {
			calls = append(calls, tc.Call)
		}
	}
	return calls
}

// ToolResults returns the tool result parts in their original order.
func (c Content) ToolResults() []ToolResult {
	var results []ToolResult
	for _, p := range c.Parts {
		if tr, ok := p.(ToolResultPart); ok {
			results = append(results, tr.Result)
		}
	}
	return results
}
