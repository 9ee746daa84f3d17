package agentrun

import (
	"context"
	"testing"

	"github.com/hupe1980/agentrun/agent"
	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/internal/testutil"
	"github.com/hupe1980/agentrun/memory"
	"github.com/hupe1980/agentrun/runner"
	"github.com/hupe1980/agentrun/tool"
)

func TestRuntimeRunsRegisteredAgent(t *testing.T) {
	rt := New()

	steps := []core.Step{
		testutil.NewStepBuilder("greet").Describe("say hello").Build(),
		testutil.NewStepBuilder("sum").Describe("compute a sum").Build(),
	}
	rt.RegisterAgent("demo", agent.NewScriptedAgent("demo", "run the demo", steps))

	runID, outcomes, err := rt.Run(context.Background(), "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runID == "" {
		t.Fatal("expected a non-empty run id")
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].StepID != "greet" || outcomes[1].StepID != "sum" {
		t.Fatalf("unexpected step order: %s, %s", outcomes[0].StepID, outcomes[1].StepID)
	}
	for i, outcome := range outcomes {
		if !outcome.Success {
			t.Fatalf("expected outcome %d to succeed", i)
		}
	}
}

func TestRuntimeRunUnknownAgent(t *testing.T) {
	rt := New()

	_, _, err := rt.Run(context.Background(), "ghost")
	if err == nil {
		t.Fatal("expected an error for an unregistered agent")
	}
}

func TestRuntimeRunIDsAreUnique(t *testing.T) {
	rt := New()

	rt.RegisterAgent("demo", agent.NewScriptedAgent("demo", "noop", []core.Step{
		testutil.NewStepBuilder("only").Build(),
	}))

	first, _, err := rt.Run(context.Background(), "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := rt.Run(context.Background(), "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct run ids, got %s twice", first)
	}
}

func TestRuntimeContextPersistsBetweenRuns(t *testing.T) {
	rt := New()

	rt.RegisterAgent("counter", agent.NewFuncAgent("counter",
		func(_ context.Context, actx *core.AgentContext) (core.Plan, error) {
			runs, _ := actx.Metadata["runs"].(int)
			actx.Metadata["runs"] = runs + 1
			return testutil.NewPlanBuilder("count").StepIDs("tick").Build(), nil
		},
		func(_ context.Context, step core.Step, actx *core.AgentContext) (core.StepOutcome, error) {
			return core.NewSuccessOutcome(step.ID, map[string]any{"runs": actx.Metadata["runs"]}), nil
		},
	))
	rt.RegisterContext("counter", testutil.NewContextBuilder("counter").MaxIterations(2).Build())

	_, first, err := rt.Run(context.Background(), "counter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := first[0].Output["runs"]; got != 1 {
		t.Fatalf("expected first run to see runs=1, got %v", got)
	}

	_, second, err := rt.Run(context.Background(), "counter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := second[0].Output["runs"]; got != 2 {
		t.Fatalf("expected second run to see runs=2, got %v", got)
	}
}

func TestRuntimeSharedMemory(t *testing.T) {
	rt := New(func(o *Options) {
		o.SharedMemory = memory.NewInMemoryStore()
	})

	rt.RegisterAgent("writer", agent.NewFuncAgent("writer",
		func(_ context.Context, _ *core.AgentContext) (core.Plan, error) {
			return testutil.NewPlanBuilder("write a note").StepIDs("write").Build(), nil
		},
		func(ctx context.Context, step core.Step, actx *core.AgentContext) (core.StepOutcome, error) {
			if err := actx.Memory.Put(ctx, "note", "from writer"); err != nil {
				return core.NewFailureOutcome(step.ID, err), nil
			}
			return core.NewSuccessOutcome(step.ID, map[string]any{"stored": true}), nil
		},
	))
	rt.RegisterAgent("reader", agent.NewFuncAgent("reader",
		func(_ context.Context, _ *core.AgentContext) (core.Plan, error) {
			return testutil.NewPlanBuilder("read the note").StepIDs("read").Build(), nil
		},
		func(ctx context.Context, step core.Step, actx *core.AgentContext) (core.StepOutcome, error) {
			val, ok, err := actx.Memory.Get(ctx, "note")
			if err != nil {
				return core.NewFailureOutcome(step.ID, err), nil
			}
			if !ok {
				return core.NewFailureOutcome(step.ID, core.NewMemoryNotFoundError("note")), nil
			}
			return core.NewSuccessOutcome(step.ID, map[string]any{"note": val}), nil
		},
	))

	ctx := context.Background()

	if _, _, err := rt.Run(ctx, "writer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, outcomes, err := rt.Run(ctx, "reader")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := outcomes[0].Output["note"]; got != "from writer" {
		t.Fatalf("expected reader to observe the writer's note, got %v", got)
	}
}

func TestRuntimeSendRecv(t *testing.T) {
	rt := New()
	ctx := context.Background()

	if err := rt.Send(ctx, "worker", map[string]any{"task": "fetch"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg, ok, err := rt.Recv(ctx, "worker")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a queued message")
	}
	if msg["task"] != "fetch" {
		t.Fatalf("unexpected message payload: %v", msg)
	}

	_, ok, err = rt.Recv(ctx, "worker")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected the queue to be drained")
	}
}

func TestRuntimeReactiveMode(t *testing.T) {
	rt := New(func(o *Options) {
		o.Mode = runner.ModeReactive
	})

	plans := 0
	rt.RegisterAgent("fresh", agent.NewFuncAgent("fresh",
		func(_ context.Context, _ *core.AgentContext) (core.Plan, error) {
			plans++
			return testutil.NewPlanBuilder("replan every turn").StepIDs("first", "second").Build(), nil
		},
		func(_ context.Context, step core.Step, _ *core.AgentContext) (core.StepOutcome, error) {
			return core.NewSuccessOutcome(step.ID, nil), nil
		},
	))
	rt.RegisterContext("fresh", testutil.NewContextBuilder("fresh").MaxIterations(3).Build())

	_, outcomes, err := rt.Run(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plans != 3 {
		t.Fatalf("expected a fresh plan per iteration, got %d plans", plans)
	}
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	for i, outcome := range outcomes {
		if outcome.StepID != "first" {
			t.Fatalf("expected iteration %d to execute the first step, got %s", i, outcome.StepID)
		}
	}
}

func TestRuntimeStepRetryPolicy(t *testing.T) {
	rt := New()

	attempts := 0
	rt.RegisterAgent("flaky", agent.NewFuncAgent("flaky",
		func(_ context.Context, _ *core.AgentContext) (core.Plan, error) {
			step := testutil.NewStepBuilder("wobble").Retry(2, 0).Build()
			return testutil.NewPlanBuilder("survive transient failures").Step(step).Build(), nil
		},
		func(_ context.Context, step core.Step, _ *core.AgentContext) (core.StepOutcome, error) {
			attempts++
			if attempts < 3 {
				return core.StepOutcome{}, core.NewExecutionError("transient")
			}
			return core.NewSuccessOutcome(step.ID, map[string]any{"attempts": attempts}), nil
		},
	))

	_, outcomes, err := rt.Run(context.Background(), "flaky")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcomes[0].Success {
		t.Fatalf("expected the step to succeed after retries: %+v", outcomes[0])
	}
	if outcomes[0].Retries != 2 {
		t.Fatalf("expected 2 retries, got %d", outcomes[0].Retries)
	}
}

func TestRuntimeToolBackedAgent(t *testing.T) {
	registry := tool.NewRegistry()
	registry.Register(tool.NewFunctionTool("double", "Double a number", nil,
		func(_ context.Context, args map[string]any) (any, error) {
			n, _ := args["n"].(float64)
			return n * 2, nil
		},
	))

	rt := New()

	steps := []core.Step{
		testutil.NewStepBuilder("calc").Tool("double", map[string]any{"n": 21.0}).Build(),
	}
	rt.RegisterAgent("calculator", agent.NewScriptedAgent("calculator", "double the input", steps,
		func(o *agent.ScriptedAgentOptions) {
			o.Registry = registry
		},
	))

	_, outcomes, err := rt.Run(context.Background(), "calculator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcomes[0].Success {
		t.Fatalf("expected the tool step to succeed: %+v", outcomes[0])
	}
	if got := outcomes[0].Output["result"]; got != 42.0 {
		t.Fatalf("expected 42, got %v", got)
	}
}
