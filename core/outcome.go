package core

// StepOutcome records the result of executing one step. Outcomes are
// append-only history entries: once produced by the executor they are never
// mutated.
type StepOutcome struct {
	StepID       string         `json:"step_id"`
	Output       map[string]any `json:"output"`
	Observations []string       `json:"observations"`
	Success      bool           `json:"success"`
	Retries      int            `json:"retries"`
	FallbackUsed bool           `json:"fallback_used"`
	ControlNotes []string       `json:"control_notes"`
}

// NewSuccessOutcome builds a successful outcome carrying the step's output
// payload.
func NewSuccessOutcome(stepID string, output map[string]any) StepOutcome {
	return StepOutcome{
		StepID:  stepID,
		Output:  output,
		Success: true,
	}
}

// NewFailureOutcome builds a failed outcome from the terminal error of a
// step. The error text lands in the output payload so downstream consumers
// see why the step failed without parsing logs.
func NewFailureOutcome(stepID string, err error) StepOutcome {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return StepOutcome{
		StepID:       stepID,
		Output:       map[string]any{"error": msg},
		Observations: []string{"step failed"},
		Success:      false,
		ControlNotes: []string{"failure"},
	}
}
