package runner

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/logging"
)

// ControlMode selects how the control loop obtains the next step on each
// iteration.
type ControlMode string

const (
	// ModeDeterministic thinks once up front and walks the resulting plan
	// to completion.
	ModeDeterministic ControlMode = "deterministic"

	// ModeReactive thinks fresh on every iteration and executes only the
	// first step of each new plan.
	ModeReactive ControlMode = "reactive"

	// ModeProcedural walks the current plan and thinks again whenever it
	// runs out of steps, within the iteration budget.
	ModeProcedural ControlMode = "procedural"

	// ModeReflectionEnabled behaves like deterministic stepping but invokes
	// the agent's reflect hook after every step in addition to the final
	// reflect call.
	ModeReflectionEnabled ControlMode = "reflection_enabled"
)

// Options holds dependency and configuration overrides passed to
// NewControlLoop.
type Options struct {
	// Mode selects the step-selection strategy. Defaults to deterministic.
	Mode ControlMode
	// Delay suspends between iterations when non-zero.
	Delay time.Duration
	// Logger receives loop diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
	// Executor runs individual steps. Defaults to a fresh StepExecutor
	// sharing the loop's logger and hooks.
	Executor *StepExecutor
	// Hooks observe run and step lifecycle points. Optional.
	Hooks *Hooks
}

// ControlLoop drives one agent through a bounded run: initialize, think,
// then per iteration select the next step according to the mode, execute it
// through the StepExecutor, observe, and reflect.
//
// The loop is stateless across runs and safe for concurrent use; all
// per-run state lives in the AgentContext, which must not be shared between
// concurrent runs.
type ControlLoop struct {
	mode     ControlMode
	delay    time.Duration
	logger   logging.Logger
	executor *StepExecutor
	hooks    *Hooks
}

// NewControlLoop constructs a ControlLoop with optional overrides.
func NewControlLoop(optFns ...func(o *Options)) *ControlLoop {
	opts := Options{
		Mode:   ModeDeterministic,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Executor == nil {
		opts.Executor = NewStepExecutor(func(o *ExecutorOptions) {
			o.Logger = opts.Logger
			o.Hooks = opts.Hooks
		})
	}

	return &ControlLoop{
		mode:     opts.Mode,
		delay:    opts.Delay,
		logger:   opts.Logger,
		executor: opts.Executor,
		hooks:    opts.Hooks,
	}
}

// Mode returns the loop's step-selection mode.
func (c *ControlLoop) Mode() ControlMode { return c.mode }

// Run executes the agent for up to Config.MaxIterations iterations and
// returns the ordered step outcomes.
//
// Sequence: initialize once; think once up front for plan-ahead modes; per
// iteration stamp the iteration index, select the next step per mode (no
// step ends the loop early), execute it via the StepExecutor, observe the
// outcome, reflect after the step in reflection mode, then apply the
// inter-iteration delay. After the loop reflect fires once more
// unconditionally, so reflect runs at least once per run regardless of mode
// and twice per step in reflection mode.
//
// Act failures are absorbed into failed outcomes by the executor. Errors
// from the lifecycle hooks (initialize, think, observe, reflect) terminate
// the run; the outcomes produced so far return alongside the error so
// callers can distinguish "some steps failed" from "the run aborted".
func (c *ControlLoop) Run(ctx context.Context, agent core.Agent, actx *core.AgentContext) ([]core.StepOutcome, error) {
	start := time.Now()

	c.logger.Debug("control loop starting",
		"agent", actx.Config.Name, "mode", string(c.mode), "max_iterations", actx.Config.MaxIterations)
	c.fireHook(ctx, HookRunStart, &HookContext{AgentName: actx.Config.Name})

	results := make([]core.StepOutcome, 0)

	err := c.run(ctx, agent, actx, &results)

	c.fireHook(ctx, HookRunEnd, &HookContext{AgentName: actx.Config.Name, Iteration: actx.State.Iteration})
	c.logger.Debug("control loop finished",
		"agent", actx.Config.Name, "steps", len(results), "duration", time.Since(start), "error", err)

	return results, err
}

func (c *ControlLoop) run(ctx context.Context, agent core.Agent, actx *core.AgentContext, results *[]core.StepOutcome) error {
	if init, ok := agent.(core.Initializer); ok {
		if err := init.Initialize(ctx, actx); err != nil {
			return wrapLifecycleErr(core.ErrKindExecution, err)
		}
	}

	var executable *core.ExecutablePlan

	if c.mode == ModeDeterministic || c.mode == ModeReflectionEnabled {
		plan, err := think(ctx, agent, actx)
		if err != nil {
			return wrapLifecycleErr(core.ErrKindPlanning, err)
		}
		executable = plan.Executable()
		actx.State.Plan = executable
	}

	for iteration := 0; iteration < actx.Config.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		actx.State.Iteration = iteration

		var (
			step core.Step
			ok   bool
		)

		switch c.mode {
		case ModeDeterministic, ModeReflectionEnabled:
			if executable != nil {
				step, ok = executable.Next()
			}

		case ModeReactive:
			plan, err := think(ctx, agent, actx)
			if err != nil {
				return wrapLifecycleErr(core.ErrKindPlanning, err)
			}
			fresh := plan.Executable()
			actx.State.Plan = fresh
			step, ok = fresh.Next()

		case ModeProcedural:
			if executable != nil {
				step, ok = executable.Next()
			}
			if !ok {
				plan, err := think(ctx, agent, actx)
				if err != nil {
					return wrapLifecycleErr(core.ErrKindPlanning, err)
				}
				executable = plan.Executable()
				actx.State.Plan = executable
				step, ok = executable.Next()
			}
		}

		if !ok {
			c.logger.Debug("plan exhausted, ending run early",
				"agent", actx.Config.Name, "iteration", iteration)
			break
		}

		c.fireHook(ctx, HookStepStart, &HookContext{
			AgentName: actx.Config.Name,
			Iteration: iteration,
			Step:      &step,
		})

		outcome := c.executor.RunStep(ctx, agent, step, actx)

		c.fireHook(ctx, HookStepEnd, &HookContext{
			AgentName: actx.Config.Name,
			Iteration: iteration,
			Step:      &step,
			Outcome:   &outcome,
		})

		if obs, isObs := agent.(core.Observer); isObs {
			if err := obs.Observe(ctx, outcome, actx); err != nil {
				return wrapLifecycleErr(core.ErrKindExecution, err)
			}
		}

		*results = append(*results, outcome)

		if c.mode == ModeReflectionEnabled {
			if err := runReflect(ctx, agent, actx); err != nil {
				return wrapLifecycleErr(core.ErrKindExecution, err)
			}
		}

		if c.delay > 0 {
			sleepContext(ctx, c.delay)
		}
	}

	// Every mode reflects once at the end, on top of the per-step reflect
	// calls in reflection mode. A 1-step reflection run reflects twice.
	if err := runReflect(ctx, agent, actx); err != nil {
		return wrapLifecycleErr(core.ErrKindExecution, err)
	}

	return nil
}

// fireHook dispatches a loop hook, logging instead of propagating hook
// errors.
func (c *ControlLoop) fireHook(ctx context.Context, hookType HookType, hctx *HookContext) {
	if err := c.hooks.Fire(ctx, hookType, hctx); err != nil {
		c.logger.Warn("hook failed", "hook", string(hookType), "error", err)
	}
}

// think produces a plan through the agent's Think hook when implemented,
// falling back to Plan.
func think(ctx context.Context, agent core.Agent, actx *core.AgentContext) (core.Plan, error) {
	if thinker, ok := agent.(core.Thinker); ok {
		return thinker.Think(ctx, actx)
	}
	return agent.Plan(ctx, actx)
}

// runReflect invokes the agent's Reflect hook when implemented.
func runReflect(ctx context.Context, agent core.Agent, actx *core.AgentContext) error {
	if r, ok := agent.(core.Reflector); ok {
		return r.Reflect(ctx, actx)
	}
	return nil
}

// wrapLifecycleErr coerces lifecycle hook errors into the agent error
// taxonomy, preserving errors that already carry a classification.
func wrapLifecycleErr(kind core.AgentErrorKind, err error) error {
	var agentErr *core.AgentError
	if errors.As(err, &agentErr) {
		return err
	}

	if kind == core.ErrKindPlanning {
		return core.NewPlanningError(err.Error())
	}
	return core.NewExecutionError(err.Error())
}
