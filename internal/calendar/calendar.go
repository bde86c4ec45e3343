// Package calendar builds the strategic calendar: upcoming cycles with
// their milestones, and a light/normal/heavy readiness classification
// that the compression stage uses to stretch or shrink capacity.
package calendar

import (
	"sort"
	"time"

	"github.com/praxislabs/praxis/internal/config"
	"github.com/praxislabs/praxis/internal/types"
)

// Readiness classifies a cycle's milestone load.
type Readiness string

const (
	ReadinessLight  Readiness = "light"
	ReadinessNormal Readiness = "normal"
	ReadinessHeavy  Readiness = "heavy"
)

// MilestoneKind distinguishes where a milestone came from.
type MilestoneKind string

const (
	MilestoneGoalDeadline MilestoneKind = "goal_deadline"
	MilestoneTaskDue      MilestoneKind = "task_due"
)

// Milestone is a dated commitment inside one cycle.
type Milestone struct {
	Label string        `json:"label"`
	Kind  MilestoneKind `json:"kind"`
	Date  time.Time     `json:"date"`
	Cycle int           `json:"cycle"` // 0 = current cycle
}

// Cycle is one planning window on the strategic calendar.
type Cycle struct {
	Index      int         `json:"index"`
	Start      time.Time   `json:"start"`
	End        time.Time   `json:"end"`
	Milestones []Milestone `json:"milestones,omitempty"`
	Readiness  Readiness   `json:"readiness"`
}

// Calendar covers the current cycle plus the configured horizon.
type Calendar struct {
	Cycles []Cycle `json:"cycles"`
}

// Build lays out the upcoming cycles from now and slots every dated
// commitment (task due dates, the goal deadline) into the cycle that
// contains it. Dates beyond the horizon are ignored.
func Build(now time.Time, cycleDays int, goal *types.Goal, tasks []types.Task, cfg config.CalendarConfig) Calendar {
	horizon := cfg.HorizonCycles
	if horizon < 1 {
		horizon = 1
	}
	if cycleDays < 1 {
		cycleDays = 7
	}

	cal := Calendar{Cycles: make([]Cycle, horizon)}
	for i := 0; i < horizon; i++ {
		cal.Cycles[i] = Cycle{
			Index: i,
			Start: now.AddDate(0, 0, i*cycleDays),
			End:   now.AddDate(0, 0, (i+1)*cycleDays),
		}
	}

	var milestones []Milestone
	for _, task := range tasks {
		if idx, ok := cycleIndex(now, cycleDays, horizon, task.DueDate); ok {
			milestones = append(milestones, Milestone{
				Label: task.ID,
				Kind:  MilestoneTaskDue,
				Date:  task.DueDate,
				Cycle: idx,
			})
		}
	}
	if goal != nil && goal.Deadline != nil {
		if idx, ok := cycleIndex(now, cycleDays, horizon, *goal.Deadline); ok {
			milestones = append(milestones, Milestone{
				Label: "goal deadline",
				Kind:  MilestoneGoalDeadline,
				Date:  *goal.Deadline,
				Cycle: idx,
			})
		}
	}

	sort.Slice(milestones, func(i, j int) bool {
		if !milestones[i].Date.Equal(milestones[j].Date) {
			return milestones[i].Date.Before(milestones[j].Date)
		}
		return milestones[i].Label < milestones[j].Label
	})

	for _, m := range milestones {
		cal.Cycles[m.Cycle].Milestones = append(cal.Cycles[m.Cycle].Milestones, m)
	}
	for i := range cal.Cycles {
		cal.Cycles[i].Readiness = classify(len(cal.Cycles[i].Milestones), cfg)
	}
	return cal
}

func cycleIndex(now time.Time, cycleDays, horizon int, date time.Time) (int, bool) {
	if date.Before(now) {
		return 0, true // Overdue commitments weigh on the current cycle
	}
	days := int(date.Sub(now).Hours() / 24)
	idx := days / cycleDays
	if idx >= horizon {
		return 0, false
	}
	return idx, true
}

func classify(milestones int, cfg config.CalendarConfig) Readiness {
	switch {
	case milestones >= cfg.HeavyMilestones:
		return ReadinessHeavy
	case milestones == 0:
		return ReadinessLight
	default:
		return ReadinessNormal
	}
}

// ReadinessFor returns the readiness of the given cycle index, normal
// when the index is outside the horizon.
func (c Calendar) ReadinessFor(index int) Readiness {
	if index < 0 || index >= len(c.Cycles) {
		return ReadinessNormal
	}
	return c.Cycles[index].Readiness
}

// HasMilestones reports whether the given cycle carries any milestones.
func (c Calendar) HasMilestones(index int) bool {
	if index < 0 || index >= len(c.Cycles) {
		return false
	}
	return len(c.Cycles[index].Milestones) > 0
}
