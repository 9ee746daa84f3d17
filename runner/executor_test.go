package runner

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/agentrun/core"
)

// flakyAgent fails its first `failures` act calls, then succeeds.
type flakyAgent struct {
	mu       sync.Mutex
	failures int
	acts     int
	tools    []string
}

func (a *flakyAgent) Plan(_ context.Context, _ *core.AgentContext) (core.Plan, error) {
	return core.Plan{
		Goal:  "flaky",
		Steps: []core.Step{{ID: "retry", Description: "sometimes fails"}},
	}, nil
}

func (a *flakyAgent) Act(_ context.Context, step core.Step, _ *core.AgentContext) (core.StepOutcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.acts++
	a.tools = append(a.tools, step.Tool)
	if a.acts <= a.failures {
		return core.StepOutcome{}, core.NewExecutionError("attempt fails")
	}

	return core.NewSuccessOutcome(step.ID, map[string]any{"ok": true}), nil
}

func (a *flakyAgent) actCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acts
}

// alternateToolAgent fails unless the step carries the "alt" tool.
type alternateToolAgent struct {
	acts  int
	tools []string
}

func (a *alternateToolAgent) Plan(_ context.Context, _ *core.AgentContext) (core.Plan, error) {
	return core.Plan{Goal: "fallback"}, nil
}

func (a *alternateToolAgent) Act(_ context.Context, step core.Step, _ *core.AgentContext) (core.StepOutcome, error) {
	a.acts++
	a.tools = append(a.tools, step.Tool)
	if step.Tool == "alt" {
		return core.NewSuccessOutcome(step.ID, map[string]any{"alt": true}), nil
	}

	return core.StepOutcome{}, core.NewExecutionError("primary tool unavailable")
}

// newQuietExecutor returns an executor that never really sleeps and has
// deterministic jitter.
func newQuietExecutor() *StepExecutor {
	return NewStepExecutor(func(o *ExecutorOptions) {
		o.Sleep = func(context.Context, time.Duration) {}
		o.RandInt = func(int64) int64 { return 0 }
	})
}

func testContext() *core.AgentContext {
	return core.NewAgentContext(core.AgentConfig{Name: "t", MaxIterations: 5})
}

func TestStepExecutorRetriesAndRecordsCounts(t *testing.T) {
	agent := &flakyAgent{failures: 1}
	step := core.Step{
		ID:       "retry",
		Policies: core.StepPolicies{Retry: core.RetryPolicy{MaxRetries: 1}},
	}

	outcome := newQuietExecutor().RunStep(context.Background(), agent, step, testContext())

	if !outcome.Success {
		t.Fatalf("expected success after retry, got %+v", outcome)
	}
	if outcome.Retries != 1 {
		t.Errorf("expected 1 retry consumed, got %d", outcome.Retries)
	}
	if got := agent.actCount(); got != 2 {
		t.Errorf("expected 2 act calls, got %d", got)
	}
}

func TestStepExecutorRetryExhaustionWithoutFallback(t *testing.T) {
	agent := &flakyAgent{failures: 1 << 30}
	step := core.Step{
		ID:       "doomed",
		Policies: core.StepPolicies{Retry: core.RetryPolicy{MaxRetries: 2}},
	}

	outcome := newQuietExecutor().RunStep(context.Background(), agent, step, testContext())

	if outcome.Success {
		t.Fatal("expected failed outcome")
	}
	if outcome.Retries != 2 {
		t.Errorf("expected retries == 2, got %d", outcome.Retries)
	}
	if got := agent.actCount(); got != 3 {
		t.Errorf("expected 3 act calls (1 + 2 retries), got %d", got)
	}
	if outcome.FallbackUsed {
		t.Error("no fallback configured, flag must stay false")
	}
	if got := outcome.Output["error"]; got != "execution failed: attempt fails" {
		t.Errorf("unexpected error payload: %v", got)
	}
	if len(outcome.Observations) != 1 || outcome.Observations[0] != "step failed" {
		t.Errorf("unexpected observations: %v", outcome.Observations)
	}
	if len(outcome.ControlNotes) != 1 || outcome.ControlNotes[0] != "failure" {
		t.Errorf("unexpected control notes: %v", outcome.ControlNotes)
	}
}

func TestStepExecutorUsesRunDefaultPolicy(t *testing.T) {
	agent := &flakyAgent{failures: 1 << 30}
	step := core.Step{ID: "inherits"} // zero retry policy -> run default applies

	actx := core.NewAgentContext(core.AgentConfig{
		Name:        "t",
		RetryPolicy: core.RetryPolicy{MaxRetries: 3},
	})

	outcome := newQuietExecutor().RunStep(context.Background(), agent, step, actx)

	if outcome.Retries != 3 {
		t.Errorf("expected default policy's 3 retries, got %d", outcome.Retries)
	}
	if got := agent.actCount(); got != 4 {
		t.Errorf("expected 4 act calls, got %d", got)
	}
}

func TestStepExecutorStepPolicyOverridesDefault(t *testing.T) {
	agent := &flakyAgent{failures: 1 << 30}
	step := core.Step{
		ID:       "overrides",
		Policies: core.StepPolicies{Retry: core.RetryPolicy{MaxRetries: 1}},
	}

	actx := core.NewAgentContext(core.AgentConfig{
		Name:        "t",
		RetryPolicy: core.RetryPolicy{MaxRetries: 5},
	})

	outcome := newQuietExecutor().RunStep(context.Background(), agent, step, actx)

	if outcome.Retries != 1 {
		t.Errorf("step policy should win over default, got %d retries", outcome.Retries)
	}
}

func TestStepExecutorSkipFallback(t *testing.T) {
	agent := &flakyAgent{failures: 1 << 30}
	step := core.Step{
		ID: "skippable",
		Policies: core.StepPolicies{
			Retry:    core.RetryPolicy{MaxRetries: 1},
			Fallback: core.Skip(),
		},
	}

	outcome := newQuietExecutor().RunStep(context.Background(), agent, step, testContext())

	if outcome.Success {
		t.Fatal("skip fallback must report failure")
	}
	if !outcome.FallbackUsed {
		t.Error("fallback_used must be set")
	}
	if got := outcome.Output["skipped"]; got != true {
		t.Errorf("expected skipped flag in output, got %v", outcome.Output)
	}
	if got, ok := outcome.Output["error"].(string); !ok || !strings.Contains(got, "attempt fails") {
		t.Errorf("expected error text in output, got %v", outcome.Output)
	}
	if len(outcome.Observations) != 1 || outcome.Observations[0] != "skipped via fallback" {
		t.Errorf("unexpected observations: %v", outcome.Observations)
	}
	if len(outcome.ControlNotes) != 1 || outcome.ControlNotes[0] != "fallback: skip" {
		t.Errorf("unexpected control notes: %v", outcome.ControlNotes)
	}
}

func TestStepExecutorAbortFallback(t *testing.T) {
	agent := &flakyAgent{failures: 1 << 30}
	step := core.Step{
		ID: "abortable",
		Policies: core.StepPolicies{
			Fallback: core.Abort(),
		},
	}

	outcome := newQuietExecutor().RunStep(context.Background(), agent, step, testContext())

	if outcome.Success || !outcome.FallbackUsed {
		t.Fatalf("expected failed outcome with fallback flag, got %+v", outcome)
	}
	if len(outcome.Observations) != 1 || outcome.Observations[0] != "aborted via fallback" {
		t.Errorf("unexpected observations: %v", outcome.Observations)
	}
	if len(outcome.ControlNotes) != 1 || outcome.ControlNotes[0] != "fallback: abort" {
		t.Errorf("unexpected control notes: %v", outcome.ControlNotes)
	}
}

func TestStepExecutorRetryWithLimitRecovers(t *testing.T) {
	// Two primary attempts fail, first fallback attempt fails, second
	// fallback attempt succeeds.
	agent := &flakyAgent{failures: 3}
	step := core.Step{
		ID: "extra",
		Policies: core.StepPolicies{
			Retry:    core.RetryPolicy{MaxRetries: 1},
			Fallback: core.RetryWithLimit(2),
		},
	}

	outcome := newQuietExecutor().RunStep(context.Background(), agent, step, testContext())

	if !outcome.Success {
		t.Fatalf("expected recovery via retry fallback, got %+v", outcome)
	}
	if !outcome.FallbackUsed {
		t.Error("fallback_used must be set")
	}
	if outcome.Retries != 2 {
		t.Errorf("expected 1 primary + 1 fallback retry recorded, got %d", outcome.Retries)
	}
	if got := agent.actCount(); got != 4 {
		t.Errorf("expected 4 act calls, got %d", got)
	}
	if len(outcome.ControlNotes) == 0 || outcome.ControlNotes[len(outcome.ControlNotes)-1] != "fallback: retry" {
		t.Errorf("expected trailing 'fallback: retry' note, got %v", outcome.ControlNotes)
	}
}

func TestStepExecutorRetryWithLimitExhausted(t *testing.T) {
	agent := &flakyAgent{failures: 1 << 30}
	step := core.Step{
		ID: "hopeless",
		Policies: core.StepPolicies{
			Fallback: core.RetryWithLimit(1),
		},
	}

	outcome := newQuietExecutor().RunStep(context.Background(), agent, step, testContext())

	if outcome.Success {
		t.Fatal("expected failure after fallback exhaustion")
	}
	if outcome.Retries != 1 {
		t.Errorf("expected 1 fallback retry recorded, got %d", outcome.Retries)
	}
	if got := agent.actCount(); got != 3 {
		t.Errorf("expected 3 act calls (primary + 2 fallback attempts), got %d", got)
	}
	if len(outcome.Observations) != 1 || outcome.Observations[0] != "retry fallback exhausted" {
		t.Errorf("unexpected observations: %v", outcome.Observations)
	}
	if len(outcome.ControlNotes) != 1 || outcome.ControlNotes[0] != "fallback: retry exhausted" {
		t.Errorf("unexpected control notes: %v", outcome.ControlNotes)
	}
}

func TestStepExecutorFallbackSwitchesTool(t *testing.T) {
	agent := &alternateToolAgent{}
	step := core.Step{
		ID:   "main",
		Tool: "primary",
		Args: map[string]any{"q": "unchanged"},
		Policies: core.StepPolicies{
			Retry:    core.RetryPolicy{MaxRetries: 1},
			Fallback: core.AlternateTool("alt"),
		},
	}

	outcome := newQuietExecutor().RunStep(context.Background(), agent, step, testContext())

	if !outcome.Success {
		t.Fatalf("expected success via alternate tool, got %+v", outcome)
	}
	if !outcome.FallbackUsed {
		t.Error("fallback_used must be set")
	}
	if outcome.Retries != 1 {
		t.Errorf("original retry count must be preserved, got %d", outcome.Retries)
	}
	if got := outcome.Output["alt"]; got != true {
		t.Errorf("expected alternate tool output, got %v", outcome.Output)
	}
	want := []string{"primary", "primary", "alt"}
	if len(agent.tools) != len(want) {
		t.Fatalf("expected tool sequence %v, got %v", want, agent.tools)
	}
	for i, tool := range want {
		if agent.tools[i] != tool {
			t.Errorf("act %d: expected tool %q, got %q", i, tool, agent.tools[i])
		}
	}
	// The caller's step value stays untouched.
	if step.Tool != "primary" {
		t.Errorf("fallback must clone the step, original tool changed to %q", step.Tool)
	}
}

func TestStepExecutorAlternateToolFailure(t *testing.T) {
	agent := &flakyAgent{failures: 1 << 30} // fails for every tool
	step := core.Step{
		ID:   "main",
		Tool: "primary",
		Policies: core.StepPolicies{
			Fallback: core.AlternateTool("alt"),
		},
	}

	outcome := newQuietExecutor().RunStep(context.Background(), agent, step, testContext())

	if outcome.Success {
		t.Fatal("expected failure when the alternate tool also fails")
	}
	if !outcome.FallbackUsed {
		t.Error("fallback_used must be set")
	}
	if len(outcome.Observations) != 1 || outcome.Observations[0] != "alternate tool failed" {
		t.Errorf("unexpected observations: %v", outcome.Observations)
	}
	if len(outcome.ControlNotes) != 1 || outcome.ControlNotes[0] != "fallback: alternate tool" {
		t.Errorf("unexpected control notes: %v", outcome.ControlNotes)
	}
}

func TestBackoffDelay(t *testing.T) {
	exec := NewStepExecutor(func(o *ExecutorOptions) {
		o.RandInt = func(int64) int64 { return 7 }
	})

	tests := []struct {
		name     string
		policy   core.RetryPolicy
		consumed int
		want     time.Duration
	}{
		{"first retry", core.RetryPolicy{BackoffMS: 100}, 0, 100 * time.Millisecond},
		{"third retry scales linearly", core.RetryPolicy{BackoffMS: 100}, 2, 300 * time.Millisecond},
		{"zero backoff", core.RetryPolicy{BackoffMS: 0}, 4, 0},
		{"jitter added", core.RetryPolicy{BackoffMS: 100, Jitter: true}, 0, 107 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exec.backoffDelay(tt.policy, tt.consumed); got != tt.want {
				t.Errorf("backoffDelay(%+v, %d) = %v, want %v", tt.policy, tt.consumed, got, tt.want)
			}
		})
	}
}

func TestStepExecutorSleepsBetweenRetries(t *testing.T) {
	var slept []time.Duration
	exec := NewStepExecutor(func(o *ExecutorOptions) {
		o.Sleep = func(_ context.Context, d time.Duration) { slept = append(slept, d) }
	})

	agent := &flakyAgent{failures: 2}
	step := core.Step{
		ID:       "slow",
		Policies: core.StepPolicies{Retry: core.RetryPolicy{MaxRetries: 2, BackoffMS: 10}},
	}

	outcome := exec.RunStep(context.Background(), agent, step, testContext())

	if !outcome.Success {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if len(slept) != 2 || slept[0] != 10*time.Millisecond || slept[1] != 20*time.Millisecond {
		t.Errorf("expected linear backoff sleeps [10ms 20ms], got %v", slept)
	}
}

func TestStepExecutorSkipsZeroSleeps(t *testing.T) {
	var sleeps int
	exec := NewStepExecutor(func(o *ExecutorOptions) {
		o.Sleep = func(context.Context, time.Duration) { sleeps++ }
	})

	agent := &flakyAgent{failures: 2}
	step := core.Step{
		ID:       "instant",
		Policies: core.StepPolicies{Retry: core.RetryPolicy{MaxRetries: 2}},
	}

	exec.RunStep(context.Background(), agent, step, testContext())

	if sleeps != 0 {
		t.Errorf("zero backoff must skip the suspend entirely, got %d sleeps", sleeps)
	}
}

func TestStepExecutorFiresRetryAndFallbackHooks(t *testing.T) {
	var retries, fallbacks int
	hooks := NewHooks()
	hooks.Register(NewFunctionHook(HookRetry, func(_ context.Context, hctx *HookContext) error {
		retries++
		if hctx.Err == nil {
			t.Error("retry hook must carry the triggering error")
		}
		return nil
	}))
	hooks.Register(NewFunctionHook(HookFallback, func(_ context.Context, hctx *HookContext) error {
		fallbacks++
		if hctx.Fallback != core.FallbackSkip {
			t.Errorf("expected skip fallback kind, got %q", hctx.Fallback)
		}
		return nil
	}))

	exec := NewStepExecutor(func(o *ExecutorOptions) {
		o.Hooks = hooks
		o.Sleep = func(context.Context, time.Duration) {}
	})

	agent := &flakyAgent{failures: 1 << 30}
	step := core.Step{
		ID: "observed",
		Policies: core.StepPolicies{
			Retry:    core.RetryPolicy{MaxRetries: 2},
			Fallback: core.Skip(),
		},
	}

	exec.RunStep(context.Background(), agent, step, testContext())

	if retries != 2 {
		t.Errorf("expected 2 retry hook firings, got %d", retries)
	}
	if fallbacks != 1 {
		t.Errorf("expected 1 fallback hook firing, got %d", fallbacks)
	}
}
