// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API. It adapts the SDK's message format into the runtime's
// normalized Response structure and back.
package openai

import (
	"context"
	"encoding/json"

	"github.com/hupe1980/agentrun/model"
	"github.com/openai/openai-go"
)

// Compile time check to ensure Model satisfies the model.Model interface.
var _ model.Model = (*Model)(nil)

// Options configure the OpenAI model adapter.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate sends the prompt as a single user message and adapts the first
// choice (content plus tool calls) into a model.Response.
func (m *Model) Generate(ctx context.Context, prompt string) (*model.Response, error) {
	resp, err := m.client.Chat.Completions.New(ctx, m.buildParams(prompt))
	if err != nil {
		return nil, model.WrapRequestError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, model.NewRequestError("no choices returned")
	}

	choice := resp.Choices[0]

	var toolCalls []model.ToolCall
	for _, tc := range choice.Message.ToolCalls {
		toolCalls = append(toolCalls, model.ToolCall{
			Name: tc.Function.Name,
			Args: decodeArgs(tc.Function.Arguments),
		})
	}

	return &model.Response{
		Content: choice.Message.Content,
		Usage: model.TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
		ToolCalls: toolCalls,
		Metadata: map[string]any{
			"provider":      "openai",
			"model":         m.opts.Model,
			"finish_reason": choice.FinishReason,
		},
	}, nil
}

// Stream forwards content deltas to fn as they arrive.
func (m *Model) Stream(ctx context.Context, prompt string, fn func(token string) error) error {
	stream := m.client.Chat.Completions.NewStreaming(ctx, m.buildParams(prompt))

	for stream.Next() {
		ck := stream.Current()
		for _, ch := range ck.Choices {
			if ch.Delta.Content == "" {
				continue
			}
			if err := fn(ch.Delta.Content); err != nil {
				return err
			}
		}
	}

	if err := stream.Err(); err != nil {
		return model.WrapRequestError(err)
	}

	return nil
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "openai",
		SupportsTools: true,
	}
}

func (m *Model) buildParams(prompt string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}
}

// decodeArgs converts the SDK's JSON argument string into a plain map.
func decodeArgs(arguments string) map[string]any {
	args := map[string]any{}
	if arguments == "" {
		return args
	}
	_ = json.Unmarshal([]byte(arguments), &args)
	return args
}
