package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/model"
	"github.com/hupe1980/agentrun/tool"
)

// Compile time check to ensure ModelAgent satisfies the core.Agent interface.
var _ core.Agent = (*ModelAgent)(nil)
var _ core.Observer = (*ModelAgent)(nil)

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewModelAgent to override defaults.
type ModelAgentOptions struct {
	Instruction Instruction
	Registry    *tool.Registry
	Roles       []string
	MaxHistory  int
}

// ModelAgent plans and acts through a language model.
//
// Planning sends the resolved instruction, the goal and recent observations
// to the model. Tool calls in the response become tool steps executed
// through the registry's gated Invoke path; a plain completion becomes a
// single respond step carrying the content. ModelAgent embeds BaseAgent for
// identity.
type ModelAgent struct {
	BaseAgent
	llm         model.Model
	instruction Instruction
	registry    *tool.Registry
	roles       []string
	maxHistory  int
}

// NewModelAgent creates a new model-backed agent with sensible defaults.
//
// The agent is initialized with a generic assistant instruction, no tool
// registry and a 20-outcome observation window.
func NewModelAgent(name string, llm model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		Instruction: NewInstructionFromText(fmt.Sprintf("You are %s, a helpful AI assistant.", name)),
		MaxHistory:  20,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &ModelAgent{
		BaseAgent:   NewBaseAgent(name),
		llm:         llm,
		instruction: opts.Instruction,
		registry:    opts.Registry,
		roles:       opts.Roles,
		maxHistory:  opts.MaxHistory,
	}
}

// Plan implements core.Agent. Generation failures surface as planning
// errors so the control loop aborts the run.
func (a *ModelAgent) Plan(ctx context.Context, actx *core.AgentContext) (core.Plan, error) {
	prompt, err := a.buildPrompt(actx)
	if err != nil {
		return core.Plan{}, core.NewPlanningError(err.Error())
	}

	resp, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return core.Plan{}, core.NewPlanningError(err.Error())
	}

	plan := core.Plan{Goal: a.goalFor(actx)}

	if len(resp.ToolCalls) > 0 {
		for i, call := range resp.ToolCalls {
			plan.Steps = append(plan.Steps, core.Step{
				ID:          fmt.Sprintf("%s_%d", call.Name, i+1),
				Description: fmt.Sprintf("invoke %s", call.Name),
				Tool:        call.Name,
				Args:        call.Args,
			})
		}
		return plan, nil
	}

	plan.Steps = []core.Step{{
		ID:          "respond",
		Description: "deliver the model response",
		Args:        map[string]any{"content": resp.Content},
	}}

	return plan, nil
}

// Observe implements core.Observer. Outcomes accumulate in the context's
// step history, which feeds the observation window of the next planning
// prompt.
func (a *ModelAgent) Observe(_ context.Context, outcome core.StepOutcome, actx *core.AgentContext) error {
	actx.State.StepHistory = append(actx.State.StepHistory, outcome)
	return nil
}

// Act implements core.Agent. Tool steps go through the registry; respond
// steps emit the content planned for them; anything else asks the model
// directly.
func (a *ModelAgent) Act(ctx context.Context, step core.Step, actx *core.AgentContext) (core.StepOutcome, error) {
	if step.Tool != "" && a.registry != nil {
		if !actx.ToolPermissions.Permits(step.Tool) {
			return core.StepOutcome{}, core.NewToolFailure(fmt.Errorf("tool not permitted: %s", step.Tool))
		}

		out, err := a.registry.Invoke(ctx, step.Tool, step.Args, a.roles)
		if err != nil {
			return core.StepOutcome{}, core.NewToolFailure(err)
		}
		return core.NewSuccessOutcome(step.ID, toOutput(out)), nil
	}

	if content, ok := step.Args["content"].(string); ok {
		return core.NewSuccessOutcome(step.ID, map[string]any{"content": content}), nil
	}

	resp, err := a.llm.Generate(ctx, step.Description)
	if err != nil {
		return core.StepOutcome{}, core.NewExecutionError(err.Error())
	}

	return core.NewSuccessOutcome(step.ID, map[string]any{"content": resp.Content}), nil
}

func (a *ModelAgent) goalFor(actx *core.AgentContext) string {
	if goal, ok := actx.Metadata["goal"].(string); ok && goal != "" {
		return goal
	}
	return actx.Config.Description
}

// buildPrompt folds the instruction, goal and a bounded window of prior
// observations into one prompt string.
func (a *ModelAgent) buildPrompt(actx *core.AgentContext) (string, error) {
	instruction, err := a.instruction.Resolve(actx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(instruction)

	if goal := a.goalFor(actx); goal != "" {
		b.WriteString("\nGoal: ")
		b.WriteString(goal)
	}

	history := actx.State.StepHistory
	if a.maxHistory > 0 && len(history) > a.maxHistory {
		history = history[len(history)-a.maxHistory:]
	}
	for _, outcome := range history {
		for _, obs := range outcome.Observations {
			b.WriteString("\nObservation: ")
			b.WriteString(obs)
		}
	}

	return b.String(), nil
}
