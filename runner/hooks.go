package runner

import (
	"context"

	"github.com/hupe1980/agentrun/core"
)

// HookType defines the lifecycle points where hooks can be executed.
//
// Hooks provide a mechanism for observing the runner's execution pipeline
// without modifying core logic: metrics, auditing, progress reporting.
// Each type represents a specific point in the run lifecycle.
//
// Available hook types:
//   - RunStart/RunEnd: around a complete control loop run
//   - StepStart/StepEnd: around one step execution (including its retries
//     and fallback)
//   - Retry: each time the executor schedules another attempt
//   - Fallback: when the executor applies a fallback strategy
type HookType string

const (
	// HookRunStart fires before the control loop starts iterating.
	HookRunStart HookType = "run_start"

	// HookRunEnd fires after the control loop finished, successfully or not.
	HookRunEnd HookType = "run_end"

	// HookStepStart fires before a step enters the executor.
	HookStepStart HookType = "step_start"

	// HookStepEnd fires after the executor produced an outcome for a step.
	HookStepEnd HookType = "step_end"

	// HookRetry fires when the executor schedules a retry attempt.
	HookRetry HookType = "retry"

	// HookFallback fires when the executor applies a fallback strategy.
	HookFallback HookType = "fallback"
)

// HookContext carries the information available at a hook point. Fields are
// populated as far as the lifecycle point allows; a RunStart hook sees no
// step, a Retry hook sees no outcome.
type HookContext struct {
	// AgentName is the configured name of the running agent.
	AgentName string

	// Iteration is the control loop iteration the hook fired in.
	Iteration int

	// Step is the step being executed, when the hook point has one.
	Step *core.Step

	// Outcome is the produced step outcome for StepEnd and RunEnd points.
	Outcome *core.StepOutcome

	// Attempt counts consumed retries at Retry hook points.
	Attempt int

	// Fallback names the applied strategy at Fallback hook points.
	Fallback core.FallbackKind

	// Err carries the triggering error for Retry and Fallback points.
	Err error
}

// Hook is a single lifecycle observer. Execute runs synchronously on the
// run's goroutine; implementations should be fast and must not panic.
// Hook errors are logged and swallowed so that observers cannot alter run
// semantics.
type Hook interface {
	// Type returns the hook type this implementation handles.
	Type() HookType

	// Execute performs the hook logic with the provided context.
	Execute(ctx context.Context, hctx *HookContext) error
}

// FunctionHook wraps a plain function as a Hook.
//
// Example:
//
//	progress := NewFunctionHook(HookStepEnd, func(_ context.Context, hctx *HookContext) error {
//	    fmt.Printf("step %s done (success=%v)\n", hctx.Step.ID, hctx.Outcome.Success)
//	    return nil
//	})
type FunctionHook struct {
	hookType HookType
	fn       func(ctx context.Context, hctx *HookContext) error
}

// NewFunctionHook creates a function-based hook for the given type.
func NewFunctionHook(hookType HookType, fn func(ctx context.Context, hctx *HookContext) error) *FunctionHook {
	return &FunctionHook{hookType: hookType, fn: fn}
}

// Type returns the hook type this function handles.
func (h *FunctionHook) Type() HookType { return h.hookType }

// Execute calls the wrapped function.
func (h *FunctionHook) Execute(ctx context.Context, hctx *HookContext) error {
	return h.fn(ctx, hctx)
}

// Hooks routes lifecycle events to registered observers.
//
// Registration is not synchronized: register everything before the first
// run, then Fire is safe for concurrent use. Hooks fire in registration
// order per type.
type Hooks struct {
	hooks map[HookType][]Hook
}

// NewHooks creates an empty hook registry.
func NewHooks() *Hooks {
	return &Hooks{hooks: make(map[HookType][]Hook)}
}

// Register adds a hook under its declared type.
func (h *Hooks) Register(hook Hook) {
	hookType := hook.Type()
	h.hooks[hookType] = append(h.hooks[hookType], hook)
}

// Fire executes all hooks of the given type in registration order and
// returns the first hook error, if any. Callers decide whether to act on
// it; the runner logs and continues.
func (h *Hooks) Fire(ctx context.Context, hookType HookType, hctx *HookContext) error {
	if h == nil {
		return nil
	}

	for _, hook := range h.hooks[hookType] {
		if err := hook.Execute(ctx, hctx); err != nil {
			return err
		}
	}

	return nil
}
