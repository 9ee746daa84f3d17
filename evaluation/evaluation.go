// Package evaluation scores agent runs. Evaluators grade step outputs,
// final outputs and candidate plans on a [0, 1] scale, and EvaluateRun
// folds per-step scores into a run report.
package evaluation

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentrun/core"
)

// EvalError reports a failed evaluation.
type EvalError struct {
	Msg string
}

// Error renders the stable evaluation failure message.
func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluation failed: %s", e.Msg)
}

// NewEvalError creates an evaluation failure with a plain message.
func NewEvalError(msg string) *EvalError {
	return &EvalError{Msg: msg}
}

// StepEvaluator scores the output of a single step. Scores range from 0.0
// (worst) to 1.0 (best).
type StepEvaluator interface {
	EvaluateStep(ctx context.Context, stepOutput any) (float64, error)
}

// StepEvaluatorFunc adapts a plain function into a StepEvaluator.
type StepEvaluatorFunc func(ctx context.Context, stepOutput any) (float64, error)

// EvaluateStep implements StepEvaluator.
func (f StepEvaluatorFunc) EvaluateStep(ctx context.Context, stepOutput any) (float64, error) {
	return f(ctx, stepOutput)
}

// OutputEvaluator scores the final output of a run.
type OutputEvaluator interface {
	EvaluateOutput(ctx context.Context, finalOutput any) (float64, error)
}

// PlanEvaluator orders candidate plans by preference, best first. The
// returned slice holds indexes into plans.
type PlanEvaluator interface {
	Rank(ctx context.Context, plans []*core.Plan) ([]int, error)
}

// Compile time checks for the bundled evaluators.
var (
	_ StepEvaluator = (*JSONValidityEvaluator)(nil)
	_ PlanEvaluator = (*PassThroughPlanEvaluator)(nil)
)

// JSONValidityEvaluator scores structured outputs. JSON object and array
// shapes score 1.0, everything else 0.0.
type JSONValidityEvaluator struct{}

// EvaluateStep implements StepEvaluator.
func (JSONValidityEvaluator) EvaluateStep(_ context.Context, stepOutput any) (float64, error) {
	switch stepOutput.(type) {
	case map[string]any, []any:
		return 1.0, nil
	default:
		return 0.0, nil
	}
}

// PassThroughPlanEvaluator keeps candidate plans in their original order.
type PassThroughPlanEvaluator struct{}

// Rank implements PlanEvaluator.
func (PassThroughPlanEvaluator) Rank(_ context.Context, plans []*core.Plan) ([]int, error) {
	order := make([]int, len(plans))
	for i := range order {
		order[i] = i
	}
	return order, nil
}
