package model

import (
	"context"
	"fmt"
	"strings"
)

// TokenUsage captures token accounting for one generation.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// ToolCall is a tool invocation request surfaced by a model. Unified across
// vendors so downstream logic does not need per-provider branching.
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "stub", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Response is the complete result of one generation.
type Response struct {
	Content   string         `json:"content"`
	Usage     TokenUsage     `json:"usage"`
	ToolCalls []ToolCall     `json:"tool_calls,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Model is the minimal interface model-backed agents use to drive
// generation.
type Model interface {
	// Generate produces the complete response for prompt.
	Generate(ctx context.Context, prompt string) (*Response, error)

	// Stream invokes fn for each generated token in order and returns
	// after the final token. A non-nil error from fn stops the stream and
	// is returned unchanged.
	Stream(ctx context.Context, prompt string, fn func(token string) error) error

	// Info returns information about the model implementation.
	Info() Info
}

// RequestError is the structured error model implementations return when a
// generation request fails.
type RequestError struct {
	Msg string
	Err error
}

// Error renders the stable request failure message.
func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %s", e.Msg)
}

// Unwrap exposes the wrapped cause, if any.
func (e *RequestError) Unwrap() error { return e.Err }

// NewRequestError creates a request failure with a plain message.
func NewRequestError(msg string) *RequestError {
	return &RequestError{Msg: msg}
}

// WrapRequestError wraps an underlying provider error.
func WrapRequestError(err error) *RequestError {
	return &RequestError{Msg: err.Error(), Err: err}
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
type MockModel struct {
	info      Info
	responses map[string]string
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      provider,
			SupportsTools: true,
		},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Generate implements Model; returns the canned completion for prompt or a
// generic fallback.
func (m *MockModel) Generate(_ context.Context, prompt string) (*Response, error) {
	content := m.responses[prompt]
	if content == "" {
		content = fmt.Sprintf("mock response to: %s", prompt)
	}

	return &Response{
		Content: content,
		Usage: TokenUsage{
			InputTokens:  int64(len(prompt)),
			OutputTokens: int64(len(strings.Fields(content))),
		},
		Metadata: map[string]any{"provider": m.info.Provider, "model": m.info.Name},
	}, nil
}

// Stream implements Model; emits the completion word by word.
func (m *MockModel) Stream(ctx context.Context, prompt string, fn func(token string) error) error {
	resp, err := m.Generate(ctx, prompt)
	if err != nil {
		return err
	}

	for _, token := range strings.Fields(resp.Content) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(token); err != nil {
			return err
		}
	}

	return nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
