// Package anthropic provides a model wrapper for the Anthropic Claude API.
package anthropic

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/agentrun/model"
)

// Compile time check to ensure Model satisfies the model.Model interface.
var _ model.Model = (*Model)(nil)

// Options configures the Anthropic model adapter (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// NewModel creates a new Anthropic model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Model{
		client: &client,
		opts:   opts,
	}
}

// NewModelFromClient creates a new Anthropic model from an existing client
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{
		client: client,
		opts:   opts,
	}
}

// Generate sends the prompt as a single user message and adapts the reply
// (text blocks plus tool_use blocks) into a model.Response.
func (m *Model) Generate(ctx context.Context, prompt string) (*model.Response, error) {
	resp, err := m.client.Messages.New(ctx, m.buildParams(prompt))
	if err != nil {
		return nil, model.WrapRequestError(err)
	}

	var content string
	var toolCalls []model.ToolCall

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			content += block.AsText().Text
		case "tool_use":
			toolBlock := block.AsToolUse()
			toolCalls = append(toolCalls, model.ToolCall{
				Name: toolBlock.Name,
				Args: decodeArgs(toolBlock.Input),
			})
		}
	}

	return &model.Response{
		Content: content,
		Usage: model.TokenUsage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
		ToolCalls: toolCalls,
		Metadata: map[string]any{
			"provider":    "anthropic",
			"model":       string(m.opts.Model),
			"stop_reason": string(resp.StopReason),
		},
	}, nil
}

// Stream forwards text deltas to fn as they arrive.
func (m *Model) Stream(ctx context.Context, prompt string, fn func(token string) error) error {
	stream := m.client.Messages.NewStreaming(ctx, m.buildParams(prompt))

	for stream.Next() {
		event := stream.Current()
		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch deltaVariant := eventVariant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if deltaVariant.Text == "" {
					continue
				}
				if err := fn(deltaVariant.Text); err != nil {
					return err
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return model.WrapRequestError(err)
	}

	return nil
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          string(m.opts.Model),
		Provider:      "anthropic",
		SupportsTools: true,
	}
}

func (m *Model) buildParams(prompt string) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:       m.opts.Model,
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
}

// decodeArgs converts the SDK's tool input into a plain map.
func decodeArgs(input any) map[string]any {
	args := map[string]any{}
	if input == nil {
		return args
	}
	raw, err := json.Marshal(input)
	if err != nil {
		return args
	}
	_ = json.Unmarshal(raw, &args)
	return args
}
