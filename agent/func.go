package agent

import (
	"context"

	"github.com/hupe1980/agentrun/core"
)

// Compile time check to ensure FuncAgent satisfies the core.Agent interface.
var _ core.Agent = (*FuncAgent)(nil)

// PlanFunc produces a plan for the current context.
type PlanFunc func(ctx context.Context, actx *core.AgentContext) (core.Plan, error)

// ActFunc executes a single step.
type ActFunc func(ctx context.Context, step core.Step, actx *core.AgentContext) (core.StepOutcome, error)

// FuncAgent adapts a pair of plain functions into a core.Agent, mirroring
// how FunctionTool adapts a func into a tool. Handy for tests and small
// inline agents.
type FuncAgent struct {
	BaseAgent
	planFn PlanFunc
	actFn  ActFunc
}

// NewFuncAgent wraps planFn and actFn into an agent. A nil planFn yields an
// empty plan; a nil actFn succeeds every step with an empty output.
func NewFuncAgent(name string, planFn PlanFunc, actFn ActFunc) *FuncAgent {
	return &FuncAgent{
		BaseAgent: NewBaseAgent(name),
		planFn:    planFn,
		actFn:     actFn,
	}
}

// Plan implements core.Agent.
func (a *FuncAgent) Plan(ctx context.Context, actx *core.AgentContext) (core.Plan, error) {
	if a.planFn == nil {
		return core.Plan{}, nil
	}
	return a.planFn(ctx, actx)
}

// Act implements core.Agent.
func (a *FuncAgent) Act(ctx context.Context, step core.Step, actx *core.AgentContext) (core.StepOutcome, error) {
	if a.actFn == nil {
		return core.NewSuccessOutcome(step.ID, map[string]any{}), nil
	}
	return a.actFn(ctx, step, actx)
}
