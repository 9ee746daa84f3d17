package core

import (
	"testing"
)

func TestNewIDUniqueness(t *testing.T) {
	a := NewID()
	b := NewID()
	if a == "" || b == "" {
		t.Fatalf("expected non-empty ids")
	}
	if a == b {
		t.Fatalf("expected unique ids, got %q twice", a)
	}
}

func TestExecutablePlanYieldsEachStepOnce(t *testing.T) {
	plan := Plan{
		Goal: "demo",
		Steps: []Step{
			{ID: "s1", Description: "first"},
			{ID: "s2", Description: "second"},
			{ID: "s3", Description: "third"},
		},
	}
	ep := plan.Executable()
	if ep.Remaining() != 3 {
		t.Fatalf("expected 3 remaining, got %d", ep.Remaining())
	}
	var ids []string
	for {
		step, ok := ep.Next()
		if !ok {
			break
		}
		ids = append(ids, step.ID)
	}
	if len(ids) != 3 || ids[0] != "s1" || ids[1] != "s2" || ids[2] != "s3" {
		t.Fatalf("unexpected step order: %v", ids)
	}
	if _, ok := ep.Next(); ok {
		t.Fatalf("expected exhausted cursor to stay exhausted")
	}
	if ep.Remaining() != 0 {
		t.Fatalf("expected 0 remaining, got %d", ep.Remaining())
	}
}

func TestStepCloneIsolatesPayloads(t *testing.T) {
	step := Step{
		ID:   "s1",
		Tool: "math",
		Args: map[string]any{
			"expression": "1+1",
			"nested":     map[string]any{"depth": 1},
		},
	}
	step.RecordSubtask("s1.1", "sub work")
	step.AddThoughtNote("initial note")

	cp := step.Clone()
	cp.Args["expression"] = "2+2"
	cp.Args["nested"].(map[string]any)["depth"] = 9
	cp.Subtasks[0].Description = "changed"
	cp.AddThoughtNote("clone only")

	if step.Args["expression"] != "1+1" {
		t.Fatalf("clone mutated original args: %#v", step.Args)
	}
	if step.Args["nested"].(map[string]any)["depth"] != 1 {
		t.Fatalf("clone mutated nested args: %#v", step.Args)
	}
	if step.Subtasks[0].Description != "sub work" {
		t.Fatalf("clone mutated subtasks: %#v", step.Subtasks)
	}
	if n := len(step.Thought.Notes()); n != 1 {
		t.Fatalf("clone mutated thought notes, got %d", n)
	}
}

func TestStepWithToolRebinds(t *testing.T) {
	step := Step{ID: "s1", Description: "work"}
	bound := step.WithTool("time", map[string]any{"tz": "utc"})
	if bound.Tool != "time" || bound.Args["tz"] != "utc" {
		t.Fatalf("unexpected binding: %#v", bound)
	}
	if step.Tool != "" {
		t.Fatalf("WithTool mutated the receiver: %#v", step)
	}
}

func TestRetryPolicyIsZero(t *testing.T) {
	cases := []struct {
		name   string
		policy RetryPolicy
		want   bool
	}{
		{"zero", RetryPolicy{}, true},
		{"retries", RetryPolicy{MaxRetries: 1}, false},
		{"backoff", RetryPolicy{BackoffMS: 5}, false},
		{"jitter", RetryPolicy{Jitter: true}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.policy.IsZero(); got != tc.want {
				t.Fatalf("IsZero() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFallbackPolicyConstructors(t *testing.T) {
	if p := Skip(); p.Kind != FallbackSkip {
		t.Fatalf("unexpected skip policy: %#v", p)
	}
	if p := Abort(); p.Kind != FallbackAbort {
		t.Fatalf("unexpected abort policy: %#v", p)
	}
	if p := RetryWithLimit(2); p.Kind != FallbackRetryWithLimit || p.Limit != 2 {
		t.Fatalf("unexpected retry policy: %#v", p)
	}
	p := AlternateTool("backup").WithReason("primary flaky")
	if p.Kind != FallbackAlternateTool || p.Tool != "backup" || p.Reason != "primary flaky" {
		t.Fatalf("unexpected alternate policy: %#v", p)
	}
}

func TestOutcomeConstructors(t *testing.T) {
	ok := NewSuccessOutcome("s1", map[string]any{"value": 42})
	if !ok.Success || ok.StepID != "s1" || ok.Output["value"] != 42 {
		t.Fatalf("unexpected success outcome: %#v", ok)
	}
	fail := NewFailureOutcome("s2", NewExecutionError("boom"))
	if fail.Success {
		t.Fatalf("expected failed outcome")
	}
	if fail.Output["error"] != "execution failed: boom" {
		t.Fatalf("unexpected failure output: %#v", fail.Output)
	}
	if len(fail.Observations) != 1 || fail.Observations[0] != "step failed" {
		t.Fatalf("unexpected observations: %#v", fail.Observations)
	}
	if len(fail.ControlNotes) != 1 || fail.ControlNotes[0] != "failure" {
		t.Fatalf("unexpected control notes: %#v", fail.ControlNotes)
	}
}

func TestToolPermissions(t *testing.T) {
	open := ToolPermissions{}
	if !open.Permits("anything") {
		t.Fatalf("empty permissions should permit everything")
	}
	scoped := ToolPermissions{Allowed: []string{"time"}, Denied: []string{"file"}}
	if !scoped.Permits("time") {
		t.Fatalf("allowed tool rejected")
	}
	if scoped.Permits("math") {
		t.Fatalf("unlisted tool permitted despite allow list")
	}
	if scoped.Permits("file") {
		t.Fatalf("denied tool permitted")
	}
	denyOnly := ToolPermissions{Denied: []string{"file"}}
	if denyOnly.Permits("file") || !denyOnly.Permits("math") {
		t.Fatalf("deny list handling broken")
	}
}
