package tool

import (
	"context"
	"errors"

	"github.com/hupe1980/agentrun/internal/util"
)

// Compile-time check that FunctionTool satisfies the Tool interface.
var _ Tool = (*FunctionTool)(nil)

// FunctionTool is a generic adapter that exposes a plain Go function as a
// tool.
//
// Responsibilities:
//   - Holds a lightweight JSON-Schema-like argument specification
//   - Validates caller supplied arguments against that schema before execution
//   - Normalizes error handling so callers receive *ToolError with consistent
//     kinds: schema mismatches surface as invalid arguments, any other
//     failure from the wrapped function as an execution error (a *ToolError
//     returned by the function is forwarded unchanged)
//
// Concurrency:
//
//	A FunctionTool has no internal mutable state after construction and is
//	safe for concurrent use by multiple goroutines.
//
// Argument Schema Expectations:
//
//	The input schema map should follow the minimal JSON Schema shape used
//	elsewhere in the project. Only the subset actually validated by
//	util.ValidateParameters needs to be supplied (type, properties,
//	required).
//
// Returned result:
//
//	The returned value can be any Go type that is JSON-serializable by the
//	higher layer. If more structure or streaming is required, create a
//	custom Tool implementation instead.
type FunctionTool struct {
	// Tool identifier (snake_case recommended)
	name string
	// Human-readable description shown to models
	description string
	// JSON schema describing accepted arguments
	inputSchema map[string]any
	// JSON schema describing the result payload
	outputSchema map[string]any
	// User supplied implementation
	fn func(ctx context.Context, args map[string]any) (any, error)
}

// NewFunctionTool constructs a FunctionTool from explicit schema and function.
//
// Arguments:
//
//	name        - unique tool name (avoid collisions; snake_case suggested)
//	description - concise, imperative description ("Calculate the …")
//	inputSchema - minimal JSON-Schema-like map describing the accepted arguments
//	fn          - implementation receiving a context plus already-validated args
//
// The output schema defaults to a generic object; use WithOutputSchema to
// declare a more specific result shape.
//
// Example:
//
//	sumTool := NewFunctionTool(
//	  "calculate_sum",
//	  "Calculate the sum of two numbers",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "a": map[string]any{"type": "number"},
//	      "b": map[string]any{"type": "number"},
//	    },
//	    "required": []string{"a", "b"},
//	  },
//	  func(ctx context.Context, args map[string]any) (any, error) {
//	    a := args["a"].(float64)
//	    b := args["b"].(float64)
//	    return a + b, nil
//	  },
//	)
func NewFunctionTool(
	name, description string,
	inputSchema map[string]any,
	fn func(ctx context.Context, args map[string]any) (any, error),
) *FunctionTool {
	return &FunctionTool{
		name:         name,
		description:  description,
		inputSchema:  inputSchema,
		outputSchema: map[string]any{"type": "object"},
		fn:           fn,
	}
}

// NewFunctionToolFromStruct derives the argument schema from a struct using
// reflection. It is a convenience for simple argument containers and produces
// a schema equivalent to util.CreateSchema(structType).
//
// Example:
//
//	type SumArgs struct {
//	  A float64 `json:"a" description:"First addend"`
//	  B float64 `json:"b" description:"Second addend"`
//	}
//
//	sumTool := NewFunctionToolFromStruct(
//	  "calculate_sum",
//	  "Calculate the sum of two numbers",
//	  SumArgs{},
//	  func(ctx context.Context, args map[string]any) (any, error) {
//	    return args["a"].(float64) + args["b"].(float64), nil
//	  },
//	)
func NewFunctionToolFromStruct(
	name, description string,
	structType any,
	fn func(ctx context.Context, args map[string]any) (any, error),
) *FunctionTool {
	schema := util.CreateSchema(structType)
	return NewFunctionTool(name, description, schema, fn)
}

// WithOutputSchema declares the result shape and returns the tool for
// chaining.
func (t *FunctionTool) WithOutputSchema(schema map[string]any) *FunctionTool {
	t.outputSchema = schema
	return t
}

// Name returns the unique tool name used in step bindings and routing.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// InputSchema returns the (minimal) JSON schema describing expected arguments.
func (t *FunctionTool) InputSchema() map[string]any { return t.inputSchema }

// OutputSchema returns the JSON schema describing the result payload.
func (t *FunctionTool) OutputSchema() map[string]any { return t.outputSchema }

// Execute validates the provided args against the declared schema then
// invokes the underlying function. Validation or execution failures are
// wrapped (or passed through) as *ToolError for uniform downstream handling.
func (t *FunctionTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	if err := util.ValidateParameters(args, t.inputSchema); err != nil {
		return nil, NewInvalidArgsError(err.Error())
	}

	result, err := t.fn(ctx, args)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) { // Already a ToolError -> forward unchanged
			return nil, toolErr
		}

		return nil, WrapExecutionError(err)
	}

	return result, nil
}
