package tool

import (
	"errors"
	"fmt"
	"time"
)

// RegistryErrorKind classifies why the registry refused or failed an
// invocation.
type RegistryErrorKind string

const (
	// RegistryErrNotFound marks an unknown tool name.
	RegistryErrNotFound RegistryErrorKind = "not_found"
	// RegistryErrAccessDenied marks a caller without a matching role.
	RegistryErrAccessDenied RegistryErrorKind = "access_denied"
	// RegistryErrCoolingDown marks an invocation inside the cooldown window.
	RegistryErrCoolingDown RegistryErrorKind = "cooling_down"
	// RegistryErrRateLimited marks an invocation over the rate limit.
	RegistryErrRateLimited RegistryErrorKind = "rate_limited"
	// RegistryErrToolFailed wraps an error returned by the tool body.
	RegistryErrToolFailed RegistryErrorKind = "tool_failed"
)

// RegistryError is returned by Registry.Invoke when a gate rejects the call
// or the tool body fails. The kind-specific fields carry what a caller needs
// to react: Remaining for cooldowns, RetryAfter for rate limits, Policy for
// denials issued by a named access policy.
type RegistryError struct {
	Kind       RegistryErrorKind
	Tool       string
	Reason     string
	Policy     string
	Remaining  time.Duration
	RetryAfter time.Duration
	Err        error
}

// Error renders the stable, kind-specific message.
func (e *RegistryError) Error() string {
	switch e.Kind {
	case RegistryErrNotFound:
		return fmt.Sprintf("tool not found: %s", e.Tool)
	case RegistryErrAccessDenied:
		if e.Policy != "" {
			return fmt.Sprintf("access denied for tool %s: policy %s", e.Tool, e.Policy)
		}
		return fmt.Sprintf("access denied for tool %s: %s", e.Tool, e.Reason)
	case RegistryErrCoolingDown:
		return fmt.Sprintf("tool %s cooling down: %dms remaining", e.Tool, e.Remaining.Milliseconds())
	case RegistryErrRateLimited:
		return fmt.Sprintf("tool %s rate limited: retry after %dms", e.Tool, e.RetryAfter.Milliseconds())
	case RegistryErrToolFailed:
		return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
	default:
		return fmt.Sprintf("tool %s: %s", e.Tool, e.Reason)
	}
}

// Unwrap exposes the tool body error for RegistryErrToolFailed.
func (e *RegistryError) Unwrap() error { return e.Err }

// Is matches another *RegistryError by kind.
func (e *RegistryError) Is(target error) bool {
	var t *RegistryError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// AsRegistryError unwraps err into a *RegistryError when one is in the chain.
func AsRegistryError(err error) (*RegistryError, bool) {
	var re *RegistryError
	ok := errors.As(err, &re)
	return re, ok
}

// IsKind reports whether err is a RegistryError of the given kind.
func IsKind(err error, kind RegistryErrorKind) bool {
	re, ok := AsRegistryError(err)
	return ok && re.Kind == kind
}
