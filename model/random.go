package model

import (
	"context"
	"math/rand/v2"
)

// Compile time check to ensure RandomReasoner satisfies the Model interface.
var _ Model = (*RandomReasoner)(nil)

// RandomReasonerOptions configures the pseudo-random reasoning model.
type RandomReasonerOptions struct {
	// Rand returns a uniform draw from [0, 1). Defaults to the shared
	// math/rand source; inject a fixed function for deterministic tests.
	Rand func() float64
}

// RandomReasoner produces canned reasoning and occasionally requests a
// math tool call, exercising tool-call handling paths without a real
// provider.
type RandomReasoner struct {
	randFloat func() float64
}

// NewRandomReasoner creates the reasoner with optional overrides.
func NewRandomReasoner(optFns ...func(o *RandomReasonerOptions)) *RandomReasoner {
	opts := RandomReasonerOptions{Rand: rand.Float64}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &RandomReasoner{randFloat: opts.Rand}
}

// Generate returns "reasoned: " + prompt and, with 20% probability, a
// single math tool call.
func (m *RandomReasoner) Generate(_ context.Context, prompt string) (*Response, error) {
	var calls []ToolCall
	if m.randFloat() < 0.2 {
		calls = append(calls, ToolCall{
			Name: "math",
			Args: map[string]any{"expression": "1+1"},
		})
	}

	return &Response{
		Content: "reasoned: " + prompt,
		Usage: TokenUsage{
			InputTokens:  int64(len(prompt)),
			OutputTokens: 3,
		},
		ToolCalls: calls,
		Metadata:  map[string]any{"provider": "random", "model": "reasoner"},
	}, nil
}

// Stream emits "reasoned" followed by the prompt itself.
func (m *RandomReasoner) Stream(ctx context.Context, prompt string, fn func(token string) error) error {
	for _, token := range []string{"reasoned", prompt} {
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
func (m *RandomReasoner) Info() Info {
	return Info{Name: "reasoner", Provider: "random", SupportsTools: true}
}
