package tool

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/agentrun/logging"
)

// AccessPolicy attaches a named role requirement to a tool on top of its
// AllowedRoles list. When RequiredRoles is non-empty the caller must hold at
// least one of them; PolicyName identifies the policy in denial reports.
type AccessPolicy struct {
	RequiredRoles []string
	PolicyName    string
}

// RateLimit caps invocations of one tool per fixed time window.
type RateLimit struct {
	MaxCalls int
	Window   time.Duration
}

// Meta carries the per-tool registration metadata the registry enforces.
// The zero value registers a tool without any gating beyond name lookup.
type Meta struct {
	Description  string
	Tags         []string
	AllowedRoles []string
	Cooldown     time.Duration
	Access       *AccessPolicy
	RateLimit    *RateLimit
}

// Info pairs a registered tool name with its metadata for listings.
type Info struct {
	Name string
	Meta Meta
}

type registration struct {
	tool Tool
	meta Meta
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// Logger receives invocation and denial records. Defaults to NoOpLogger.
	Logger logging.Logger
	// Clock supplies the current time for cooldown and rate-limit windows.
	// Overridable in tests; defaults to time.Now.
	Clock func() time.Time
}

// Registry holds named tools plus their policy metadata and gates every
// Invoke through three checks in a fixed order: access, cooldown, rate
// limit. The cooldown timestamps and rate-limit windows are per-registry
// tables guarded by one mutex; concurrent invocations from multiple agents
// against a single registry instance are expected.
type Registry struct {
	mu          sync.Mutex
	tools       map[string]registration
	lastInvoked map[string]time.Time
	windows     map[string]*rateWindow
	logger      logging.Logger
	now         func() time.Time
}

type rateWindow struct {
	start time.Time
	count int
}

// NewRegistry creates an empty registry with optional overrides.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{
		Logger: logging.NoOpLogger{},
		Clock:  time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Registry{
		tools:       map[string]registration{},
		lastInvoked: map[string]time.Time{},
		windows:     map[string]*rateWindow{},
		logger:      opts.Logger,
		now:         opts.Clock,
	}
}

// Register adds a tool under its name with optional metadata. Registration
// is last-wins: re-registering a name replaces the previous tool and resets
// nothing else (cooldown and rate-limit history for the name survive).
func (r *Registry) Register(t Tool, optFns ...func(m *Meta)) {
	meta := Meta{Description: t.Description()}
	for _, fn := range optFns {
		fn(&meta)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = registration{tool: t, meta: meta}
}

// Get returns the named tool without applying any policy checks.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return reg.tool, true
}

// List returns the registered tool names in lexical order so listings and
// tests are reproducible.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns name plus metadata for every registered tool in lexical
// name order.
func (r *Registry) Describe() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	infos := make([]Info, 0, len(r.tools))
	for name, reg := range r.tools {
		infos = append(infos, Info{Name: name, Meta: reg.meta})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Execute runs the named tool directly, bypassing the access, cooldown and
// rate-limit gates. It exists for callers that manage their own
// authorization, such as the step executor's alternate-tool fallback path.
// Production call sites should go through Invoke.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, &RegistryError{Kind: RegistryErrNotFound, Tool: name}
	}

	out, err := t.Execute(ctx, args)
	if err != nil {
		return nil, &RegistryError{Kind: RegistryErrToolFailed, Tool: name, Err: err}
	}

	return out, nil
}

// Invoke runs the named tool after passing the three policy gates in order:
//
//  1. access: the tool's AllowedRoles (when non-empty) must intersect the
//     caller roles, and an attached AccessPolicy with non-empty
//     RequiredRoles must intersect them too
//  2. cooldown: the configured duration must have elapsed since the last
//     passing cooldown check; the new timestamp registers eagerly, before
//     the rate-limit check runs
//  3. rate limit: a fixed-window counter per tool name; the window resets
//     once its period has elapsed
//
// Tool body errors are wrapped as RegistryErrToolFailed with the cause
// preserved.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any, callerRoles []string) (any, error) {
	r.mu.Lock()

	reg, ok := r.tools[name]
	if !ok {
		r.mu.Unlock()
		return nil, &RegistryError{Kind: RegistryErrNotFound, Tool: name}
	}

	if err := checkAccess(name, reg.meta, callerRoles); err != nil {
		r.mu.Unlock()
		r.logger.Warn("tool access denied", "tool", name, "roles", callerRoles)
		return nil, err
	}

	now := r.now()

	if cd := reg.meta.Cooldown; cd > 0 {
		if last, seen := r.lastInvoked[name]; seen {
			if elapsed := now.Sub(last); elapsed < cd {
				remaining := cd - elapsed
				r.mu.Unlock()
				r.logger.Debug("tool cooling down", "tool", name, "remaining_ms", remaining.Milliseconds())
				return nil, &RegistryError{Kind: RegistryErrCoolingDown, Tool: name, Remaining: remaining}
			}
		}
		// The timestamp registers even when the rate limit rejects below;
		// cooldown and rate limit are independent gates.
		r.lastInvoked[name] = now
	}

	if rl := reg.meta.RateLimit; rl != nil && rl.MaxCalls > 0 {
		w := r.windows[name]
		if w == nil || now.Sub(w.start) >= rl.Window {
			w = &rateWindow{start: now}
			r.windows[name] = w
		}
		if w.count >= rl.MaxCalls {
			retryAfter := rl.Window - now.Sub(w.start)
			r.mu.Unlock()
			r.logger.Debug("tool rate limited", "tool", name, "retry_after_ms", retryAfter.Milliseconds())
			return nil, &RegistryError{Kind: RegistryErrRateLimited, Tool: name, RetryAfter: retryAfter}
		}
		w.count++
	}

	r.mu.Unlock()

	start := time.Now()
	out, err := reg.tool.Execute(ctx, args)
	if err != nil {
		r.logger.Error("tool execution failed", "tool", name, "error", err, "duration", time.Since(start))
		return nil, &RegistryError{Kind: RegistryErrToolFailed, Tool: name, Err: err}
	}

	r.logger.Debug("tool execution completed", "tool", name, "duration", time.Since(start))

	return out, nil
}

// checkAccess applies the role gates. Denials name the access policy when
// one is attached, otherwise carry a generic reason.
func checkAccess(name string, meta Meta, callerRoles []string) *RegistryError {
	denied := func() *RegistryError {
		e := &RegistryError{Kind: RegistryErrAccessDenied, Tool: name, Reason: "caller lacks required role"}
		if meta.Access != nil && meta.Access.PolicyName != "" {
			e.Policy = meta.Access.PolicyName
		}
		return e
	}

	if len(meta.AllowedRoles) > 0 && !intersects(meta.AllowedRoles, callerRoles) {
		return denied()
	}
	if meta.Access != nil && len(meta.Access.RequiredRoles) > 0 && !intersects(meta.Access.RequiredRoles, callerRoles) {
		return denied()
	}

	return nil
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
