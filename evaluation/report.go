package evaluation

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentrun/core"
)

// StepScore pairs a step with its evaluator score. Error carries the
// evaluator failure text when the step could not be scored.
type StepScore struct {
	StepID string  `json:"step_id"`
	Score  float64 `json:"score"`
	Error  string  `json:"error,omitempty"`
}

// RunReport summarizes an evaluated run.
type RunReport struct {
	StepScores   []StepScore `json:"step_scores"`
	OverallScore float64     `json:"overall_score"`
	AllSucceeded bool        `json:"all_succeeded"`
	Summary      string      `json:"summary"`
}

// EvaluateRun scores every outcome of a run with evaluator and aggregates
// the results. Steps the evaluator fails on are reported with a zero score
// and excluded from the overall mean. A nil evaluator defaults to
// JSONValidityEvaluator.
func EvaluateRun(ctx context.Context, outcomes []core.StepOutcome, evaluator StepEvaluator) (*RunReport, error) {
	if evaluator == nil {
		evaluator = JSONValidityEvaluator{}
	}

	report := &RunReport{
		StepScores:   make([]StepScore, 0, len(outcomes)),
		AllSucceeded: true,
	}

	var total float64
	scored := 0
	failed := 0

	for _, outcome := range outcomes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !outcome.Success {
			report.AllSucceeded = false
			failed++
		}

		score, err := evaluator.EvaluateStep(ctx, outcome.Output)
		if err != nil {
			report.StepScores = append(report.StepScores, StepScore{
				StepID: outcome.StepID,
				Error:  err.Error(),
			})
			continue
		}

		report.StepScores = append(report.StepScores, StepScore{
			StepID: outcome.StepID,
			Score:  score,
		})
		total += score
		scored++
	}

	if scored > 0 {
		report.OverallScore = total / float64(scored)
	}

	switch {
	case len(outcomes) == 0:
		report.Summary = "no steps executed"
	case report.AllSucceeded:
		report.Summary = "all steps succeeded"
	default:
		report.Summary = fmt.Sprintf("%d of %d steps failed", failed, len(outcomes))
	}

	return report, nil
}
