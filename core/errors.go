package core

import (
	"errors"
	"fmt"
)

// AgentErrorKind classifies the terminal failure conditions an agent run can
// surface. Each kind is a distinct condition: act failures are absorbed into
// failed StepOutcomes by the executor, every other kind propagates out of
// the control loop and terminates the run.
type AgentErrorKind string

const (
	// ErrKindPlanning marks a failure while producing a plan.
	ErrKindPlanning AgentErrorKind = "planning"
	// ErrKindExecution marks a failure while acting on a step.
	ErrKindExecution AgentErrorKind = "execution"
	// ErrKindTool marks a tool invocation failure surfaced to the agent.
	ErrKindTool AgentErrorKind = "tool"
	// ErrKindMemory marks a memory backend failure.
	ErrKindMemory AgentErrorKind = "memory"
	// ErrKindSafety marks a safety policy violation.
	ErrKindSafety AgentErrorKind = "safety"
	// ErrKindTimeout marks an exceeded deadline.
	ErrKindTimeout AgentErrorKind = "timeout"
	// ErrKindValidation marks malformed input or state.
	ErrKindValidation AgentErrorKind = "validation"
	// ErrKindRetryExhausted marks a step whose retry budget ran out.
	ErrKindRetryExhausted AgentErrorKind = "retry_exhausted"
)

// AgentError is the structured error type for run-level failures. Kind
// selects the rendering and carries matching data (Attempts for retry
// exhaustion). A wrapped cause, when present, participates in errors.Is and
// errors.As chains.
type AgentError struct {
	Kind     AgentErrorKind
	Msg      string
	Attempts int
	Err      error
}

// Error renders the stable, kind-specific message.
func (e *AgentError) Error() string {
	switch e.Kind {
	case ErrKindPlanning:
		return fmt.Sprintf("planning failed: %s", e.Msg)
	case ErrKindExecution:
		return fmt.Sprintf("execution failed: %s", e.Msg)
	case ErrKindTool:
		return fmt.Sprintf("tool failure: %s", e.Msg)
	case ErrKindMemory:
		return fmt.Sprintf("memory failure: %s", e.Msg)
	case ErrKindSafety:
		return fmt.Sprintf("safety violation: %s", e.Msg)
	case ErrKindTimeout:
		return "timeout"
	case ErrKindValidation:
		return fmt.Sprintf("validation failed: %s", e.Msg)
	case ErrKindRetryExhausted:
		return fmt.Sprintf("retry exhausted after %d attempts", e.Attempts)
	default:
		return e.Msg
	}
}

// Unwrap exposes the wrapped cause, if any.
func (e *AgentError) Unwrap() error { return e.Err }

// Is matches another *AgentError by kind, so callers can probe with
// errors.Is(err, &AgentError{Kind: ErrKindTimeout}).
func (e *AgentError) Is(target error) bool {
	var t *AgentError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// NewPlanningError reports a failure while producing a plan.
func NewPlanningError(msg string) *AgentError {
	return &AgentError{Kind: ErrKindPlanning, Msg: msg}
}

// NewExecutionError reports a failure while acting on a step.
func NewExecutionError(msg string) *AgentError {
	return &AgentError{Kind: ErrKindExecution, Msg: msg}
}

// NewToolFailure wraps a tool invocation error into the run-level taxonomy.
func NewToolFailure(err error) *AgentError {
	return &AgentError{Kind: ErrKindTool, Msg: err.Error(), Err: err}
}

// NewMemoryFailure wraps a memory backend error into the run-level taxonomy.
func NewMemoryFailure(err error) *AgentError {
	return &AgentError{Kind: ErrKindMemory, Msg: err.Error(), Err: err}
}

// NewSafetyViolation reports a safety policy violation.
func NewSafetyViolation(msg string) *AgentError {
	return &AgentError{Kind: ErrKindSafety, Msg: msg}
}

// NewTimeoutError reports an exceeded deadline.
func NewTimeoutError() *AgentError {
	return &AgentError{Kind: ErrKindTimeout}
}

// NewValidationError reports malformed input or state.
func NewValidationError(msg string) *AgentError {
	return &AgentError{Kind: ErrKindValidation, Msg: msg}
}

// NewRetryExhaustedError reports a step whose retry budget ran out after the
// given number of attempts.
func NewRetryExhaustedError(attempts int) *AgentError {
	return &AgentError{Kind: ErrKindRetryExhausted, Attempts: attempts}
}

// AsAgentError unwraps err into an *AgentError when one is in the chain.
func AsAgentError(err error) (*AgentError, bool) {
	var ae *AgentError
	ok := errors.As(err, &ae)
	return ae, ok
}

// MemoryErrorKind classifies memory capability failures.
type MemoryErrorKind string

const (
	// MemoryErrNotFound marks a key that does not exist.
	MemoryErrNotFound MemoryErrorKind = "not_found"
	// MemoryErrBackend marks an underlying store failure.
	MemoryErrBackend MemoryErrorKind = "backend"
	// MemoryErrUnsupported marks an operation the backend cannot perform.
	MemoryErrUnsupported MemoryErrorKind = "unsupported"
)

// MemoryError is the structured error memory stores return.
type MemoryError struct {
	Kind MemoryErrorKind
	Msg  string
	Err  error
}

// Error renders the stable, kind-specific message.
func (e *MemoryError) Error() string {
	switch e.Kind {
	case MemoryErrNotFound:
		return fmt.Sprintf("key not found: %s", e.Msg)
	case MemoryErrUnsupported:
		return fmt.Sprintf("unsupported operation: %s", e.Msg)
	default:
		return fmt.Sprintf("backend failure: %s", e.Msg)
	}
}

// Unwrap exposes the wrapped cause, if any.
func (e *MemoryError) Unwrap() error { return e.Err }

// Is matches another *MemoryError by kind.
func (e *MemoryError) Is(target error) bool {
	var t *MemoryError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// NewMemoryNotFoundError reports a missing key.
func NewMemoryNotFoundError(key string) *MemoryError {
	return &MemoryError{Kind: MemoryErrNotFound, Msg: key}
}

// NewMemoryBackendError wraps an underlying store failure.
func NewMemoryBackendError(err error) *MemoryError {
	return &MemoryError{Kind: MemoryErrBackend, Msg: err.Error(), Err: err}
}

// NewMemoryUnsupportedError reports an operation the backend cannot perform.
func NewMemoryUnsupportedError(op string) *MemoryError {
	return &MemoryError{Kind: MemoryErrUnsupported, Msg: op}
}
