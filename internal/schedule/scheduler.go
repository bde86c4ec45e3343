// Package schedule bin-packs pending tasks into a capacity-constrained
// day/slot grid for the cycle window. Planning is a pure function of
// its inputs: the same tasks against the same window always produce the
// same placements.
package schedule

import (
	"sort"
	"time"

	"github.com/praxislabs/praxis/internal/config"
	"github.com/praxislabs/praxis/internal/types"
)

// Slot is one block of plannable time within a day.
type Slot struct {
	Index           int      `json:"index"`
	CapacityMinutes int      `json:"capacity_minutes"`
	UsedMinutes     int      `json:"used_minutes"`
	TaskIDs         []string `json:"task_ids,omitempty"`
}

// DaySlot is one day of the cycle window with its ordered slots.
// The grid is rebuilt fresh each cycle and never reused.
type DaySlot struct {
	Date  time.Time `json:"date"`
	Slots []Slot    `json:"slots"`
}

// Result is the scheduling outcome for one cycle. Every pending task id
// lands in exactly one of the day slots or OverflowTasks, never both.
type Result struct {
	Days                []DaySlot `json:"day_slots"`
	OverflowTasks       []string  `json:"overflow_tasks,omitempty"`
	TodayPriorityTaskID string    `json:"today_priority_task_id,omitempty"`
	CycleStart          time.Time `json:"cycle_start"`
	CycleEnd            time.Time `json:"cycle_end"`
}

// ScheduledCount returns how many tasks were placed into slots.
func (r *Result) ScheduledCount() int {
	count := 0
	for _, day := range r.Days {
		for _, slot := range day.Slots {
			count += len(slot.TaskIDs)
		}
	}
	return count
}

// Plan places pending tasks into the cycle's day/slot grid. Tasks are
// taken in (impact desc, difficulty desc, due date asc) order with an id
// tie-break. The highest-impact unplaced task gets one "power of today"
// attempt against day 0 before general placement; general placement
// tries every day between today and the task's due date, first slot
// with room wins. A task is never scheduled past its own due date;
// tasks that fit nowhere go to overflow.
func Plan(tasks []types.Task, now time.Time, cycleDays int, cfg config.ScheduleConfig) Result {
	if cycleDays < 1 {
		cycleDays = 7
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	result := Result{
		CycleStart: start,
		CycleEnd:   start.AddDate(0, 0, cycleDays),
		Days:       make([]DaySlot, cycleDays),
	}
	for d := 0; d < cycleDays; d++ {
		day := DaySlot{Date: start.AddDate(0, 0, d), Slots: make([]Slot, cfg.SlotsPerDay)}
		for s := 0; s < cfg.SlotsPerDay; s++ {
			day.Slots[s] = Slot{Index: s, CapacityMinutes: cfg.SlotCapacityMinutes}
		}
		result.Days[d] = day
	}

	pending := make([]types.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Status == types.StatusPending {
			pending = append(pending, task)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].EstimatedImpact != pending[j].EstimatedImpact {
			return pending[i].EstimatedImpact > pending[j].EstimatedImpact
		}
		if pending[i].Difficulty != pending[j].Difficulty {
			return pending[i].Difficulty > pending[j].Difficulty
		}
		if !pending[i].DueDate.Equal(pending[j].DueDate) {
			return pending[i].DueDate.Before(pending[j].DueDate)
		}
		return pending[i].ID < pending[j].ID
	})

	placed := make(map[string]bool, len(pending))

	// Power of today: the first high-impact task gets day 0 or nothing.
	for _, task := range pending {
		if task.EstimatedImpact < cfg.PriorityImpact {
			continue
		}
		if lastAllowedDay(start, cycleDays, task.DueDate) < 0 {
			continue
		}
		if placeInDay(&result.Days[0], task.ID, durationFor(task, cfg)) {
			result.TodayPriorityTaskID = task.ID
			placed[task.ID] = true
		}
		break
	}

	for _, task := range pending {
		if placed[task.ID] {
			continue
		}
		lastDay := lastAllowedDay(start, cycleDays, task.DueDate)
		duration := durationFor(task, cfg)
		for d := 0; d <= lastDay; d++ {
			if placeInDay(&result.Days[d], task.ID, duration) {
				placed[task.ID] = true
				break
			}
		}
		if !placed[task.ID] {
			result.OverflowTasks = append(result.OverflowTasks, task.ID)
		}
	}

	return result
}

// lastAllowedDay returns the last day index a task may occupy: the
// earlier of its due date and the window end. Negative when the task
// was already due before the window opened.
func lastAllowedDay(start time.Time, cycleDays int, due time.Time) int {
	dueDay := int(due.Sub(start).Hours() / 24)
	if due.Before(start) {
		return -1
	}
	if dueDay > cycleDays-1 {
		return cycleDays - 1
	}
	return dueDay
}

func durationFor(task types.Task, cfg config.ScheduleConfig) int {
	if d, ok := cfg.DurationMinutes[task.Difficulty]; ok {
		return d
	}
	return cfg.SlotCapacityMinutes
}

func placeInDay(day *DaySlot, taskID string, duration int) bool {
	for i := range day.Slots {
		slot := &day.Slots[i]
		if slot.CapacityMinutes-slot.UsedMinutes >= duration {
			slot.UsedMinutes += duration
			slot.TaskIDs = append(slot.TaskIDs, taskID)
			return true
		}
	}
	return false
}
