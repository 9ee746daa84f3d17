package model

import "context"

// Compile time check to ensure StubModel satisfies the Model interface.
var _ Model = (*StubModel)(nil)

// StubModel deterministically echoes prompts. It needs no credentials or
// network, which makes it the default model for tests, examples and
// offline development.
type StubModel struct{}

// NewStubModel creates the echo model.
func NewStubModel() *StubModel {
	return &StubModel{}
}

// Generate returns "echo: " + prompt with length-based token accounting.
func (m *StubModel) Generate(_ context.Context, prompt string) (*Response, error) {
	return &Response{
		Content: "echo: " + prompt,
		Usage: TokenUsage{
			InputTokens:  int64(len(prompt)),
			OutputTokens: 2,
		},
		Metadata: map[string]any{"provider": "stub", "model": "stub"},
	}, nil
}

// Stream emits "echo" followed by the prompt itself.
func (m *StubModel) Stream(ctx context.Context, prompt string, fn func(token string) error) error {
	for _, token := range []string{"echo", prompt} {
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
func (m *StubModel) Info() Info {
	return Info{Name: "stub", Provider: "stub", SupportsTools: false}
}
