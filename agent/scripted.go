package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/tool"
)

// Compile time check to ensure ScriptedAgent satisfies the core.Agent interface.
var _ core.Agent = (*ScriptedAgent)(nil)

// ScriptedAgentOptions configures a ScriptedAgent instance.
type ScriptedAgentOptions struct {
	Description string
	Registry    *tool.Registry
	Roles       []string
}

// ScriptedAgent replays a fixed plan. Steps naming a tool are executed
// through the registry's gated Invoke path; tool-less steps succeed with a
// no-op note. It is the workhorse for demos, examples and the CLI.
type ScriptedAgent struct {
	BaseAgent
	goal     string
	steps    []core.Step
	registry *tool.Registry
	roles    []string
}

// NewScriptedAgent creates an agent that always plans the given steps
// toward goal.
func NewScriptedAgent(name, goal string, steps []core.Step, optFns ...func(o *ScriptedAgentOptions)) *ScriptedAgent {
	opts := ScriptedAgentOptions{}

	for _, fn := range optFns {
		fn(&opts)
	}

	base := NewBaseAgent(name)
	if opts.Description != "" {
		base.SetDescription(opts.Description)
	}

	return &ScriptedAgent{
		BaseAgent: base,
		goal:      goal,
		steps:     steps,
		registry:  opts.Registry,
		roles:     opts.Roles,
	}
}

// Plan implements core.Agent. Every call returns a fresh copy of the
// scripted steps so executors may mutate them freely.
func (a *ScriptedAgent) Plan(_ context.Context, _ *core.AgentContext) (core.Plan, error) {
	steps := make([]core.Step, len(a.steps))
	for i, s := range a.steps {
		steps[i] = s.Clone()
	}

	return core.Plan{Goal: a.goal, Steps: steps}, nil
}

// Act implements core.Agent.
func (a *ScriptedAgent) Act(ctx context.Context, step core.Step, actx *core.AgentContext) (core.StepOutcome, error) {
	if step.Tool == "" || a.registry == nil {
		return core.NewSuccessOutcome(step.ID, map[string]any{"note": "no-op"}), nil
	}

	if !actx.ToolPermissions.Permits(step.Tool) {
		return core.StepOutcome{}, core.NewToolFailure(fmt.Errorf("tool not permitted: %s", step.Tool))
	}

	out, err := a.registry.Invoke(ctx, step.Tool, step.Args, a.roles)
	if err != nil {
		return core.StepOutcome{}, core.NewToolFailure(err)
	}

	return core.NewSuccessOutcome(step.ID, toOutput(out)), nil
}

// toOutput normalizes a tool result into a step output payload.
func toOutput(result any) map[string]any {
	if m, ok := result.(map[string]any); ok {
		return m
	}
	return map[string]any{"result": result}
}
