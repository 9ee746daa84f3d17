package tool

import (
	"context"

	"github.com/hupe1980/agentrun/core"
)

// Compile-time check that BusSendTool satisfies the Tool interface.
var _ Tool = (*BusSendTool)(nil)

// BusSendTool publishes a message to a named agent over the shared message
// bus. Use it when a plan step should hand information to another agent in
// the same orchestrator.
type BusSendTool struct {
	bus core.MessageBus
}

// NewBusSendTool creates a bus send tool bound to the given bus.
func NewBusSendTool(bus core.MessageBus) *BusSendTool {
	return &BusSendTool{bus: bus}
}

// Name returns the tool identifier.
func (t *BusSendTool) Name() string { return "bus_send" }

// Description returns the tool description.
func (t *BusSendTool) Description() string {
	return "Sends a message to a named agent over the shared message bus."
}

// InputSchema declares the recipient and message arguments.
func (t *BusSendTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to": map[string]any{
				"type":        "string",
				"description": "Target agent name",
			},
			"message": map[string]any{
				"type":        "object",
				"description": "Message payload to deliver",
			},
		},
		"required": []string{"to", "message"},
	}
}

// OutputSchema declares the delivery acknowledgement.
func (t *BusSendTool) OutputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sent": map[string]any{"type": "boolean"},
			"to":   map[string]any{"type": "string"},
		},
	}
}

// Execute sends the message on the bus.
func (t *BusSendTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	to, ok := args["to"].(string)
	if !ok || to == "" {
		return nil, NewInvalidArgsError("to must be a non-empty string")
	}

	message, ok := args["message"].(map[string]any)
	if !ok {
		return nil, NewInvalidArgsError("message must be an object")
	}

	if err := t.bus.Send(ctx, to, message); err != nil {
		return nil, WrapExecutionError(err)
	}

	return map[string]any{
		"sent": true,
		"to":   to,
	}, nil
}
