// Package runner implements the core orchestration layer for AgentRun.
//
// Two pieces cooperate to drive a single agent run. The StepExecutor wraps
// each step invocation in a retry/backoff/fallback state machine so that a
// failing act call is retried per the step's policy and, on exhaustion,
// recovered through one of four fallback strategies (skip, bounded retry,
// alternate tool, abort). The ControlLoop sequences the run as a whole:
// initialize, think, then per iteration pick the next step according to the
// control mode, execute it through the StepExecutor, observe, and reflect.
//
// Act failures never abort a run on their own; they are always absorbed
// into failed StepOutcomes. Lifecycle hook failures (initialize, think,
// observe, reflect) terminate the run and propagate alongside the partial
// outcome list.
//
// # Responsibilities (abridged)
//   - Per-step retry with linear backoff and optional jitter
//   - Fallback strategy application after retry exhaustion
//   - Mode-dependent step selection (deterministic, reactive, procedural,
//     reflection-enabled)
//   - Lifecycle hook discovery and invocation
//   - Run-scoped observability hooks for callers (see hooks.go)
//
// See executor.go and loop.go for the operational implementation details.
package runner
