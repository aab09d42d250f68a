package model

import (
	"context"
	"fmt"

	"github.com/slindgren720/eventflow/core"
	"github.com/slindgren720/eventflow/stream"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Request captures normalized model input.
type Request struct {
	Instructions string           `json:"instructions"`
	Contents     []core.Content   `json:"contents"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
	Stream       bool             `json:"stream,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a partial or final chunk emitted by a model.
type Response struct {
	ID           string       `json:"id"`
	Partial      bool         `json:"partial"`
	Content      core.Content `json:"content"`
	FinishReason string       `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by agents to drive generation.
// Generate returns immediately; the pipeline carries the response chunks and
// terminates with the provider error, if any.
type Model interface {
	Generate(ctx context.Context, req Request) *stream.Pipeline[Response]

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests and examples.
type MockModel struct {
	info      Info
	responses map[string]string
	err       error
}

// NewMockModel constructs a MockModel with tool support flagged on.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock", SupportsTools: true},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// FailWith makes every subsequent Generate terminate with err.
func (m *MockModel) FailWith(err error) { m.err = err }

// Generate implements Model. With Stream set it emits per-rune partial chunks
// before the final response.
func (m *MockModel) Generate(ctx context.Context, req Request) *stream.Pipeline[Response] {
	return stream.New(ctx, func(ctx context.Context, out *stream.Channel[Response]) error {
		if m.err != nil {
			return m.err
		}
		if len(req.Contents) == 0 {
			return fmt.Errorf("no contents provided")
		}
		prompt := req.Contents[len(req.Contents)-1].Text()
		full := m.responses[prompt]
		if full == "" {
			full = fmt.Sprintf("Mock response to: %s", prompt)
		}
		if req.Stream {
			for _, r := range full {
				if err := ctx.Err(); err != nil {
					return err
				}
				out.Write(Response{
					Partial: true,
					Content: core.NewTextContent("assistant", string(r)),
				})
			}
		}
		out.Write(Response{
			Partial:      false,
			Content:      core.NewTextContent("assistant", full),
			FinishReason: "stop",
		})
		return nil
	})
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
