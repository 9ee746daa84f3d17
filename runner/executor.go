package runner

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/logging"
)

// ExecutorOptions holds dependency and configuration overrides passed to
// NewStepExecutor.
type ExecutorOptions struct {
	// Logger receives per-attempt diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
	// Hooks observe retries and fallback application. Optional.
	Hooks *Hooks
	// Sleep suspends between attempts. Overridable in tests; the default
	// honors context cancellation.
	Sleep func(ctx context.Context, d time.Duration)
	// RandInt returns a uniform value in [0, n). Overridable in tests.
	RandInt func(n int64) int64
}

// StepExecutor runs exactly one step against one agent, applying the step's
// retry policy and, once retries are exhausted, its fallback policy.
//
// RunStep never returns an error: act failures always become a failed
// StepOutcome so the control loop can proceed to the next step or halt per
// its iteration budget.
type StepExecutor struct {
	logger  logging.Logger
	hooks   *Hooks
	sleep   func(ctx context.Context, d time.Duration)
	randInt func(n int64) int64
}

// NewStepExecutor constructs a StepExecutor with optional overrides.
func NewStepExecutor(optFns ...func(o *ExecutorOptions)) *StepExecutor {
	opts := ExecutorOptions{
		Logger:  logging.NoOpLogger{},
		Sleep:   sleepContext,
		RandInt: rand.Int64N,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &StepExecutor{
		logger:  opts.Logger,
		hooks:   opts.Hooks,
		sleep:   opts.Sleep,
		randInt: opts.RandInt,
	}
}

// RunStep executes the step through agent.Act with retry and fallback
// recovery.
//
// The effective retry policy is the step's own when any of its fields are
// set, otherwise the run default from the context's config. On each act
// failure with retries remaining, the executor suspends for
// backoff_ms * (consumed+1) milliseconds (plus uniform jitter in
// [0, backoff_ms] when enabled; zero-length suspends are skipped) and tries
// again. Once retries are exhausted the step's fallback strategy decides
// the terminal outcome.
func (e *StepExecutor) RunStep(ctx context.Context, agent core.Agent, step core.Step, actx *core.AgentContext) core.StepOutcome {
	policy := resolveRetryPolicy(step, actx.Config.RetryPolicy)
	consumed := 0

	for {
		outcome, err := agent.Act(ctx, step, actx)
		if err == nil {
			outcome.Retries = consumed
			return outcome
		}

		if consumed < policy.MaxRetries {
			delay := e.backoffDelay(policy, consumed)
			consumed++

			e.fireHook(ctx, HookRetry, &HookContext{
				AgentName: actx.Config.Name,
				Step:      &step,
				Attempt:   consumed,
				Err:       err,
			})
			e.logger.Debug("step act failed, retrying",
				"step_id", step.ID, "attempt", consumed, "delay", delay, "error", err)

			if delay > 0 {
				e.sleep(ctx, delay)
			}

			continue
		}

		return e.applyFallback(ctx, agent, step, actx, err, consumed)
	}
}

// applyFallback produces the terminal outcome for a step whose retries are
// exhausted. Fallback exhaustion is terminal for this step only; the
// returned outcome never aborts the surrounding run.
func (e *StepExecutor) applyFallback(ctx context.Context, agent core.Agent, step core.Step, actx *core.AgentContext, actErr error, consumed int) core.StepOutcome {
	fb := step.Policies.Fallback
	if fb == nil {
		outcome := core.NewFailureOutcome(step.ID, actErr)
		outcome.Retries = consumed
		return outcome
	}

	e.fireHook(ctx, HookFallback, &HookContext{
		AgentName: actx.Config.Name,
		Step:      &step,
		Attempt:   consumed,
		Fallback:  fb.Kind,
		Err:       actErr,
	})
	e.logger.Info("applying fallback strategy",
		"step_id", step.ID, "strategy", fb.Kind, "retries", consumed, "error", actErr)

	switch fb.Kind {
	case core.FallbackSkip:
		return core.StepOutcome{
			StepID:       step.ID,
			Output:       map[string]any{"skipped": true, "error": actErr.Error()},
			Observations: []string{"skipped via fallback"},
			Success:      false,
			Retries:      consumed,
			FallbackUsed: true,
			ControlNotes: []string{"fallback: skip"},
		}

	case core.FallbackAbort:
		return core.StepOutcome{
			StepID:       step.ID,
			Output:       map[string]any{"error": actErr.Error()},
			Observations: []string{"aborted via fallback"},
			Success:      false,
			Retries:      consumed,
			FallbackUsed: true,
			ControlNotes: []string{"fallback: abort"},
		}

	case core.FallbackRetryWithLimit:
		total := consumed

		for attempt := 0; attempt <= fb.Limit; attempt++ {
			if attempt > 0 {
				total++
			}

			outcome, err := agent.Act(ctx, step, actx)
			if err == nil {
				outcome.Retries = total
				outcome.FallbackUsed = true
				outcome.ControlNotes = append(outcome.ControlNotes, "fallback: retry")
				return outcome
			}

			if attempt == fb.Limit {
				return core.StepOutcome{
					StepID:       step.ID,
					Output:       map[string]any{"error": err.Error()},
					Observations: []string{"retry fallback exhausted"},
					Success:      false,
					Retries:      total,
					FallbackUsed: true,
					ControlNotes: []string{"fallback: retry exhausted"},
				}
			}
		}

		// Negative limits grant no attempts at all.
		outcome := core.NewFailureOutcome(step.ID, actErr)
		outcome.Retries = consumed
		return outcome

	case core.FallbackAlternateTool:
		alternate := step.Clone()
		alternate.Tool = fb.Tool

		outcome, err := agent.Act(ctx, alternate, actx)
		if err != nil {
			return core.StepOutcome{
				StepID:       alternate.ID,
				Output:       map[string]any{"error": err.Error()},
				Observations: []string{"alternate tool failed"},
				Success:      false,
				Retries:      consumed,
				FallbackUsed: true,
				ControlNotes: []string{"fallback: alternate tool"},
			}
		}

		outcome.Retries = consumed
		outcome.FallbackUsed = true
		outcome.ControlNotes = append(outcome.ControlNotes, "fallback: alternate tool")
		return outcome

	default:
		outcome := core.NewFailureOutcome(step.ID, actErr)
		outcome.Retries = consumed
		return outcome
	}
}

// backoffDelay computes the suspend duration before the next attempt.
func (e *StepExecutor) backoffDelay(policy core.RetryPolicy, consumed int) time.Duration {
	base := policy.BackoffMS * int64(consumed+1)
	if base == 0 {
		return 0
	}

	if policy.Jitter {
		limit := policy.BackoffMS
		if limit < 1 {
			limit = 1
		}
		return time.Duration(base+e.randInt(limit+1)) * time.Millisecond
	}

	return time.Duration(base) * time.Millisecond
}

// fireHook dispatches an executor hook, logging instead of propagating any
// hook error so observability never changes step semantics.
func (e *StepExecutor) fireHook(ctx context.Context, hookType HookType, hctx *HookContext) {
	if err := e.hooks.Fire(ctx, hookType, hctx); err != nil {
		e.logger.Warn("hook failed", "hook", string(hookType), "error", err)
	}
}

// resolveRetryPolicy applies the override-resolution rule: a step policy
// with any field set wins over the run default.
func resolveRetryPolicy(step core.Step, defaultPolicy core.RetryPolicy) core.RetryPolicy {
	if !step.Policies.Retry.IsZero() {
		return step.Policies.Retry
	}
	return defaultPolicy
}

// sleepContext suspends for d but wakes early when the context is done.
func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
