package tool

import (
	"context"
	"time"

	"github.com/hupe1980/agentrun/logging"
)

// Compile-time checks that the builtin tools satisfy the Tool interface.
var (
	_ Tool = (*TimeTool)(nil)
	_ Tool = (*LogTool)(nil)
)

// TimeTool reports the current UTC time. It takes no arguments and returns
// an RFC 3339 timestamp string.
type TimeTool struct {
	now func() time.Time
}

// NewTimeTool creates the time tool.
func NewTimeTool() *TimeTool {
	return &TimeTool{now: time.Now}
}

// Name returns the tool identifier.
func (t *TimeTool) Name() string { return "time" }

// Description returns the tool description.
func (t *TimeTool) Description() string {
	return "Returns the current UTC time as an RFC 3339 timestamp."
}

// InputSchema returns the empty-object argument schema.
func (t *TimeTool) InputSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// OutputSchema declares the timestamp string result.
func (t *TimeTool) OutputSchema() map[string]any {
	return map[string]any{"type": "string"}
}

// Execute returns the current UTC time in RFC 3339 format.
func (t *TimeTool) Execute(_ context.Context, _ map[string]any) (any, error) {
	return t.now().UTC().Format(time.RFC3339), nil
}

// LogToolOptions configures a LogTool.
type LogToolOptions struct {
	// Logger receives the emitted messages. Defaults to the slog-backed
	// default logger.
	Logger logging.Logger
}

// LogTool emits a caller supplied message through the configured logger and
// acknowledges it. Useful for plans that want an observable side effect
// without touching external systems.
type LogTool struct {
	logger logging.Logger
}

// NewLogTool creates the log tool.
func NewLogTool(optFns ...func(o *LogToolOptions)) *LogTool {
	opts := LogToolOptions{
		Logger: logging.NewDefaultSlogLogger(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &LogTool{logger: opts.Logger}
}

// Name returns the tool identifier.
func (t *LogTool) Name() string { return "log" }

// Description returns the tool description.
func (t *LogTool) Description() string {
	return "Logs a message and acknowledges receipt."
}

// InputSchema declares the required message argument.
func (t *LogTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "The message to log",
			},
		},
		"required": []string{"message"},
	}
}

// OutputSchema declares the acknowledgement payload.
func (t *LogTool) OutputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"ack": map[string]any{"type": "boolean"},
		},
	}
}

// Execute logs the message and returns an acknowledgement.
func (t *LogTool) Execute(_ context.Context, args map[string]any) (any, error) {
	message, ok := args["message"].(string)
	if !ok {
		return nil, NewInvalidArgsError("message must be a string")
	}

	t.logger.Info("tool log message", "message", message)

	return map[string]any{"ack": true}, nil
}
