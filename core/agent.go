package core

import "context"

// Agent is the capability every agent implementation must provide: produce
// a plan for the current context and act on a single step. Everything else
// in the lifecycle (initialize, think, observe, reflect) is optional and
// discovered through the hook interfaces below.
//
// Act failures are absorbed by the step executor's retry/fallback machinery
// and become failed StepOutcomes; they never abort a run on their own.
type Agent interface {
	Plan(ctx context.Context, actx *AgentContext) (Plan, error)
	Act(ctx context.Context, step Step, actx *AgentContext) (StepOutcome, error)
}

// Initializer is implemented by agents that need one-time setup before the
// control loop starts iterating. Returning an error aborts the run.
type Initializer interface {
	Initialize(ctx context.Context, actx *AgentContext) error
}

// Thinker is implemented by agents that customize how a plan is produced.
// When absent the control loop falls back to Plan.
type Thinker interface {
	Think(ctx context.Context, actx *AgentContext) (Plan, error)
}

// Observer is implemented by agents that inspect each step outcome as the
// loop records it. Returning an error aborts the run.
type Observer interface {
	Observe(ctx context.Context, outcome StepOutcome, actx *AgentContext) error
}

// Reflector is implemented by agents that consolidate state between steps
// and at the end of a run. The control loop always reflects once after the
// loop finishes; in reflection mode it additionally reflects after every
// step.
type Reflector interface {
	Reflect(ctx context.Context, actx *AgentContext) error
}
