package tool

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
)

// Compile-time check that MathTool satisfies the Tool interface.
var _ Tool = (*MathTool)(nil)

// MathTool evaluates arithmetic expressions with CEL and returns the result
// as a number. Expressions are compiled against an empty environment, so
// only literals and the built-in operators are available.
type MathTool struct {
	env *cel.Env
}

// NewMathTool creates the math tool. The CEL environment is built once and
// reused across invocations.
func NewMathTool() (*MathTool, error) {
	env, err := cel.NewEnv()
	if err != nil {
		return nil, fmt.Errorf("create expression environment: %w", err)
	}

	return &MathTool{env: env}, nil
}

// Name returns the tool identifier.
func (t *MathTool) Name() string { return "math" }

// Description returns the tool description.
func (t *MathTool) Description() string {
	return "Evaluates an arithmetic expression and returns the numeric result."
}

// InputSchema declares the required expression argument.
func (t *MathTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"expression": map[string]any{
				"type":        "string",
				"description": "The arithmetic expression to evaluate, e.g. \"2 * (3 + 4)\"",
			},
		},
		"required": []string{"expression"},
	}
}

// OutputSchema declares the numeric result.
func (t *MathTool) OutputSchema() map[string]any {
	return map[string]any{"type": "number"}
}

// Execute compiles and evaluates the expression. Compile and evaluation
// problems surface as invalid arguments since they stem from the expression
// text itself.
func (t *MathTool) Execute(_ context.Context, args map[string]any) (any, error) {
	expression, ok := args["expression"].(string)
	if !ok {
		return nil, NewInvalidArgsError("expression must be a string")
	}

	ast, iss := t.env.Compile(expression)
	if iss.Err() != nil {
		return nil, NewInvalidArgsError(fmt.Sprintf("invalid expression: %v", iss.Err()))
	}

	prg, err := t.env.Program(ast)
	if err != nil {
		return nil, WrapExecutionError(err)
	}

	out, _, err := prg.Eval(map[string]any{})
	if err != nil {
		return nil, NewInvalidArgsError(fmt.Sprintf("invalid expression: %v", err))
	}

	switch v := out.Value().(type) {
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return nil, NewInvalidArgsError(fmt.Sprintf("expression did not produce a number, got %T", out.Value()))
	}
}
