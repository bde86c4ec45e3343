// Package scoring computes the 0-100 integrity score for one cycle's
// task outcomes. The computation is pure: it never mutates its inputs
// and depends on nothing but the task list and the config.
package scoring

import (
	"math"

	"github.com/praxislabs/praxis/internal/config"
	"github.com/praxislabs/praxis/internal/types"
)

// Compute scores a task set. Completed tasks add impact weighted by
// difficulty (discounted when late), missed tasks subtract their raw
// impact, and pending tasks contribute only to the denominator. The
// score is rawTotal/maxPossible clamped to [0,1] and scaled to 0-100;
// a cycle with no scoreable weight scores 0.
func Compute(tasks []types.Task, cfg config.ScoringConfig) types.IntegrityReport {
	var report types.IntegrityReport

	for _, task := range tasks {
		weight := cfg.DifficultyWeights[task.Difficulty]
		report.MaxPossible += task.EstimatedImpact * weight

		switch task.Status {
		case types.StatusCompleted:
			report.CompletedCount++
			multiplier := 1.0
			if task.OnTime {
				report.CompletedOnTime++
			} else {
				report.CompletedLate++
				multiplier = cfg.LateMultiplier
			}
			report.RawTotal += task.EstimatedImpact * weight * multiplier
		case types.StatusMissed:
			report.MissedCount++
			report.RawTotal -= task.EstimatedImpact
		default:
			report.PendingCount++
		}
	}

	if report.MaxPossible <= 0 {
		report.Score = 0
		return report
	}

	ratio := report.RawTotal / report.MaxPossible
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	report.Score = int(math.Round(ratio * 100))
	return report
}
