package testutil

import (
	"github.com/hupe1980/agentrun/core"
)

// PlanBuilder helps construct plans with fluent chaining for tests.
// Example:
//
//	plan := NewPlanBuilder("ship it").
//		Step(NewStepBuilder("compile").Tool("make", nil).Build()).
//		Build()
type PlanBuilder struct {
	goal     string
	steps    []core.Step
	metadata map[string]any
}

// NewPlanBuilder creates a new builder for a plan with the given goal.
// Use chainable methods (Step, Steps, Metadata) then call Build.
func NewPlanBuilder(goal string) *PlanBuilder {
	return &PlanBuilder{goal: goal}
}

// Step appends a single step to the plan (chainable).
func (b *PlanBuilder) Step(step core.Step) *PlanBuilder {
	b.steps = append(b.steps, step)
	return b
}

// Steps appends multiple steps to the plan (chainable).
func (b *PlanBuilder) Steps(steps ...core.Step) *PlanBuilder {
	b.steps = append(b.steps, steps...)
	return b
}

// StepIDs appends one bare step per id, for tests that only care about
// ordering (chainable).
func (b *PlanBuilder) StepIDs(ids ...string) *PlanBuilder {
	for _, id := range ids {
		b.steps = append(b.steps, core.Step{ID: id, Description: id})
	}
	return b
}

// Metadata sets or overwrites a metadata key/value pair (chainable).
func (b *PlanBuilder) Metadata(key string, val any) *PlanBuilder {
	if b.metadata == nil {
		b.metadata = map[string]any{}
	}
	b.metadata[key] = val
	return b
}

// Build returns the assembled core.Plan.
func (b *PlanBuilder) Build() core.Plan {
	return core.Plan{Goal: b.goal, Steps: b.steps, Metadata: b.metadata}
}

// StepBuilder helps construct steps with fluent chaining for tests.
// Example:
//
//	step := NewStepBuilder("add").
//		Tool("math", map[string]any{"expression": "1+1"}).
//		Retry(2, 10).
//		Build()
type StepBuilder struct {
	step core.Step
}

// NewStepBuilder creates a builder for a step with the given id. The
// description defaults to the id.
func NewStepBuilder(id string) *StepBuilder {
	return &StepBuilder{step: core.Step{ID: id, Description: id}}
}

// Describe overrides the step description (chainable).
func (b *StepBuilder) Describe(desc string) *StepBuilder {
	b.step.Description = desc
	return b
}

// Tool binds the step to a tool invocation (chainable).
func (b *StepBuilder) Tool(name string, args map[string]any) *StepBuilder {
	b.step.Tool = name
	b.step.Args = args
	return b
}

// Retry sets the step retry policy (chainable).
func (b *StepBuilder) Retry(maxRetries int, backoffMS int64) *StepBuilder {
	b.step.Policies.Retry = core.RetryPolicy{MaxRetries: maxRetries, BackoffMS: backoffMS}
	return b
}

// Fallback sets the step fallback policy (chainable).
func (b *StepBuilder) Fallback(policy core.FallbackPolicy) *StepBuilder {
	b.step.Policies.Fallback = &policy
	return b
}

// Build returns the assembled core.Step.
func (b *StepBuilder) Build() core.Step {
	return b.step
}

// ContextBuilder helps construct agent contexts for tests.
// Example:
//
//	actx := NewContextBuilder("demo").MaxIterations(3).Metadata("goal", "greet").Build()
type ContextBuilder struct {
	cfg      core.AgentConfig
	metadata map[string]any
	memory   core.MemoryStore
}

// NewContextBuilder creates a builder for a context whose agent has the
// given name.
func NewContextBuilder(name string) *ContextBuilder {
	return &ContextBuilder{cfg: core.AgentConfig{Name: name, MaxIterations: 5}}
}

// MaxIterations overrides the iteration budget (chainable).
func (b *ContextBuilder) MaxIterations(n int) *ContextBuilder {
	b.cfg.MaxIterations = n
	return b
}

// RetryPolicy sets the run default retry policy (chainable).
func (b *ContextBuilder) RetryPolicy(policy core.RetryPolicy) *ContextBuilder {
	b.cfg.RetryPolicy = policy
	return b
}

// Metadata sets a metadata key/value pair on the context (chainable).
func (b *ContextBuilder) Metadata(key string, val any) *ContextBuilder {
	if b.metadata == nil {
		b.metadata = map[string]any{}
	}
	b.metadata[key] = val
	return b
}

// Memory attaches a memory store handle (chainable).
func (b *ContextBuilder) Memory(store core.MemoryStore) *ContextBuilder {
	b.memory = store
	return b
}

// Build returns the assembled *core.AgentContext.
func (b *ContextBuilder) Build() *core.AgentContext {
	actx := core.NewAgentContext(b.cfg)
	for k, v := range b.metadata {
		actx.Metadata[k] = v
	}
	if b.memory != nil {
		actx.Memory = b.memory
	}
	return actx
}
