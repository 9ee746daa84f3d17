// Package tool implements the capability gateway that lets agents invoke
// structured tools (APIs, computations, side effects) with schema validated
// arguments, consistent error handling and policy enforcement. The Registry
// gates every invocation through role based access control, per-tool
// cooldowns and fixed-window rate limits before a tool body ever runs.
package tool

import (
	"context"
	"errors"
	"fmt"
)

// Tool defines the interface for extending agent capabilities with external
// functions.
//
// Tools are registered with a Registry under their Name and invoked by steps
// that carry the tool name plus a JSON-like argument payload. Schemas are
// JSON-schema-shaped maps describing the argument and result payloads.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define proper JSON schema for input and output
//   - Report argument problems as InvalidArgs and runtime problems as
//     Execution errors (see ToolError)
//   - Be thread-safe if used concurrently
type Tool interface {
	// Name returns the unique identifier for this tool.
	// Names should be descriptive and follow function naming conventions (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this tool does.
	Description() string

	// InputSchema returns a JSON schema describing the expected argument format.
	InputSchema() map[string]any

	// OutputSchema returns a JSON schema describing the result format.
	OutputSchema() map[string]any

	// Execute runs the tool body with already-decoded JSON-like arguments.
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// ToolErrorKind distinguishes argument problems from runtime problems inside
// a tool body.
type ToolErrorKind string

const (
	// ToolErrInvalidArgs marks arguments that fail the tool's contract.
	ToolErrInvalidArgs ToolErrorKind = "invalid_args"
	// ToolErrExecution marks a failure while the tool body ran.
	ToolErrExecution ToolErrorKind = "execution"
)

// ToolError represents errors that occur inside a tool body.
type ToolError struct {
	Kind ToolErrorKind
	Msg  string
	Err  error
}

// Error renders the stable, kind-specific message.
func (e *ToolError) Error() string {
	switch e.Kind {
	case ToolErrInvalidArgs:
		return fmt.Sprintf("invalid arguments: %s", e.Msg)
	default:
		return fmt.Sprintf("execution failed: %s", e.Msg)
	}
}

// Unwrap exposes the wrapped cause, if any.
func (e *ToolError) Unwrap() error { return e.Err }

// Is matches another *ToolError by kind.
func (e *ToolError) Is(target error) bool {
	var t *ToolError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// NewInvalidArgsError reports arguments that fail a tool's contract.
func NewInvalidArgsError(msg string) *ToolError {
	return &ToolError{Kind: ToolErrInvalidArgs, Msg: msg}
}

// NewExecutionError reports a failure inside a tool body.
func NewExecutionError(msg string) *ToolError {
	return &ToolError{Kind: ToolErrExecution, Msg: msg}
}

// WrapExecutionError wraps an underlying error as a tool execution failure
// keeping the cause available to errors.Is and errors.As.
func WrapExecutionError(err error) *ToolError {
	return &ToolError{Kind: ToolErrExecution, Msg: err.Error(), Err: err}
}
