package pipeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/praxislabs/praxis/internal/config"
	"github.com/praxislabs/praxis/internal/types"
)

// generateTasks proposes candidate work from the ranked capability
// gaps: one task per open gap, hardest gaps first, with deterministic
// ids derived from the cycle sequence number. Due dates are spread
// across the window so the scheduler is not handed a single cliff.
func generateTasks(ranked []types.CapabilityGap, cycleSeq int, start time.Time, cycleDays int, cfg config.TaskGenConfig) []types.Task {
	var maxWeighted float64
	for _, gap := range ranked {
		if gap.WeightedGap > maxWeighted {
			maxWeighted = gap.WeightedGap
		}
	}
	if maxWeighted <= 0 {
		return nil
	}

	var out []types.Task
	for i, gap := range ranked {
		if gap.RawGap <= 0 || len(out) >= cfg.MaxCandidates {
			break // Ranked order puts closed gaps last
		}

		difficulty := 1
		switch {
		case gap.RawGap >= cfg.HardGap:
			difficulty = 3
		case gap.RawGap >= cfg.ModerateGap:
			difficulty = 2
		}

		impact := 0.4 + 0.6*(gap.WeightedGap/maxWeighted)
		if impact > 1 {
			impact = 1
		}
		if impact < 0.1 {
			impact = 0.1
		}

		dueOffset := 1 + i%cycleDays
		out = append(out, types.Task{
			ID:              fmt.Sprintf("c%d-%s-%s", cycleSeq, gap.Domain, gap.Capability),
			Domain:          gap.Domain,
			Capability:      gap.Capability,
			Title:           fmt.Sprintf("Advance %s/%s toward level %.0f", gap.Domain, gap.Capability, gap.TargetLevel),
			Difficulty:      difficulty,
			EstimatedImpact: impact,
			DueDate:         start.AddDate(0, 0, dueOffset),
			Status:          types.StatusPending,
		})
	}
	return out
}

// carryForward keeps the prior cycle's unresolved tasks in play as
// candidates for the new cycle, ahead of freshly generated work.
func carryForward(tasks []types.Task) []types.Task {
	var out []types.Task
	for _, task := range tasks {
		if task.Status == types.StatusPending {
			out = append(out, task)
		}
	}
	return out
}

// applyOutcomes folds the prior cycle's task outcomes into the
// identity: completions raise the touched capability, misses erode it
// slightly, and everything clamps to the 1-10 scale. Returns the new
// identity and the per-capability change records for the history entry.
func applyOutcomes(identity []types.CapabilityLevel, tasks []types.Task, cfg config.TaskGenConfig) ([]types.CapabilityLevel, []types.CapabilityChange) {
	deltas := make(map[string]float64)
	for _, task := range tasks {
		var gain float64
		switch task.Status {
		case types.StatusCompleted:
			gain = cfg.OnTimeGain
			if !task.OnTime {
				gain = cfg.LateGain
			}
		case types.StatusMissed:
			gain = -cfg.MissLoss
		default:
			continue
		}
		deltas[task.Domain+"/"+task.Capability] += task.EstimatedImpact * gain
	}

	after := make([]types.CapabilityLevel, len(identity))
	copy(after, identity)

	known := make(map[string]int, len(after))
	for i, cap := range after {
		known[cap.Key()] = i
	}

	keys := make([]string, 0, len(deltas))
	for key := range deltas {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var changes []types.CapabilityChange
	for _, key := range keys {
		idx, ok := known[key]
		if !ok {
			continue // Outcome for a capability the identity no longer tracks
		}
		before := after[idx].Level
		level := clampLevel(before + deltas[key])
		after[idx].Level = level
		changes = append(changes, types.CapabilityChange{
			Domain:     after[idx].Domain,
			Capability: after[idx].Capability,
			Before:     before,
			After:      level,
			Delta:      level - before,
		})
	}
	return after, changes
}

func clampLevel(level float64) float64 {
	if level < 1 {
		return 1
	}
	if level > 10 {
		return 10
	}
	return level
}

// deadlineCycleFor converts a due date into whole cycles from the
// window start: 0 for this cycle, 1 for the next, negative when the
// date already passed.
func deadlineCycleFor(due, start time.Time, cycleDays int) int {
	days := int(due.Sub(start).Hours() / 24)
	if days < 0 {
		// Integer division truncates toward zero; overdue dates must
		// land in a negative cycle, not cycle 0.
		return (days - cycleDays + 1) / cycleDays
	}
	return days / cycleDays
}
