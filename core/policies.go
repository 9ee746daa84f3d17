package core

// StepPolicies bundles the retry, fallback and safety policies attached to a
// single step.
type StepPolicies struct {
	Retry    RetryPolicy     `json:"retry"`
	Fallback *FallbackPolicy `json:"fallback,omitempty"`
	Safety   SafetyPolicy    `json:"safety"`
}

func (p StepPolicies) clone() StepPolicies {
	cp := p
	if p.Fallback != nil {
		fb := *p.Fallback
		cp.Fallback = &fb
	}
	cp.Safety.RedactionRules = copyStrings(p.Safety.RedactionRules)
	cp.Safety.RBACRoles = copyStrings(p.Safety.RBACRoles)
	return cp
}

// RetryPolicy controls how a failing step is retried before any fallback
// applies. The zero value means "unset": the run's default policy applies
// instead. This is an explicit override-resolution rule, not silent
// inheritance.
type RetryPolicy struct {
	MaxRetries int   `json:"max_retries"`
	BackoffMS  int64 `json:"backoff_ms"`
	Jitter     bool  `json:"jitter"`
}

// IsZero reports whether the policy is the unset zero value.
func (p RetryPolicy) IsZero() bool {
	return p.MaxRetries == 0 && p.BackoffMS == 0 && !p.Jitter
}

// SafetyPolicy carries execution constraints recorded on a step. The runtime
// stores and propagates it; enforcement is the embedding application's
// concern (for example passing RBACRoles as caller roles to a registry).
type SafetyPolicy struct {
	AllowToolExecution bool     `json:"allow_tool_execution"`
	RedactionRules     []string `json:"redaction_rules,omitempty"`
	RBACRoles          []string `json:"rbac_roles,omitempty"`
}

// FallbackKind identifies the recovery strategy applied after a step's
// retries are exhausted.
type FallbackKind string

const (
	// FallbackSkip marks the step as intentionally bypassed.
	FallbackSkip FallbackKind = "skip"
	// FallbackRetryWithLimit grants a bounded number of extra attempts.
	FallbackRetryWithLimit FallbackKind = "retry_with_limit"
	// FallbackAlternateTool re-runs the step once with a substitute tool.
	FallbackAlternateTool FallbackKind = "alternate_tool"
	// FallbackAbort abandons the step; the run itself continues.
	FallbackAbort FallbackKind = "abort"
)

// FallbackPolicy selects a recovery strategy plus an optional human-readable
// reason recorded for diagnostics.
type FallbackPolicy struct {
	Kind   FallbackKind `json:"kind"`
	Limit  int          `json:"limit,omitempty"`
	Tool   string       `json:"tool,omitempty"`
	Reason string       `json:"reason,omitempty"`
}

// Skip returns a fallback policy that bypasses the step after retry
// exhaustion.
func Skip() *FallbackPolicy {
	return &FallbackPolicy{Kind: FallbackSkip}
}

// Abort returns a fallback policy that abandons the step after retry
// exhaustion.
func Abort() *FallbackPolicy {
	return &FallbackPolicy{Kind: FallbackAbort}
}

// RetryWithLimit returns a fallback policy granting up to n additional
// attempts beyond the retry policy.
func RetryWithLimit(n int) *FallbackPolicy {
	return &FallbackPolicy{Kind: FallbackRetryWithLimit, Limit: n}
}

// AlternateTool returns a fallback policy that re-runs the step once with
// the named substitute tool.
func AlternateTool(tool string) *FallbackPolicy {
	return &FallbackPolicy{Kind: FallbackAlternateTool, Tool: tool}
}

// WithReason attaches a human-readable reason and returns the policy for
// chaining.
func (f *FallbackPolicy) WithReason(reason string) *FallbackPolicy {
	f.Reason = reason
	return f
}
