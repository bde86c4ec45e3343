package repl

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/praxislabs/praxis/internal/storage"
	"github.com/praxislabs/praxis/internal/types"
)

// cmdStatus shows the goal, identity, and latest cycle summary.
func (r *REPL) cmdStatus(args []string) error {
	ctx := r.ctx

	goal, err := r.store.GetGoal(ctx)
	if storage.IsNotFound(err) {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("\n%s No goal set. Use 'praxis init' to create one.\n\n", yellow("ℹ"))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get goal: %w", err)
	}

	identity, err := r.store.GetIdentity(ctx)
	if err != nil {
		return fmt.Errorf("failed to get identity: %w", err)
	}
	history, err := r.store.GetHistory(ctx)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("Goal"))
	fmt.Printf("  %s (%s)\n", goal.Outcome, goal.Type)
	if goal.Deadline != nil {
		fmt.Printf("  Deadline: %s (%d days left)\n",
			goal.Deadline.Format("2006-01-02"),
			int(goal.Deadline.Sub(r.now()).Hours()/24))
	}

	fmt.Printf("\n%s\n\n", cyan("Identity"))
	if len(identity) == 0 {
		fmt.Println("  (empty)")
	}
	for _, cap := range identity {
		fmt.Printf("  %-30s %.1f / 10\n", cap.Key(), cap.Level)
	}

	if len(history) > 0 {
		latest := history[len(history)-1]
		fmt.Printf("\n%s\n\n", cyan("Last Cycle"))
		fmt.Printf("  %s  integrity %s\n",
			latest.Timestamp.Format("2006-01-02"),
			scoreSprint(latest.Integrity.Score))
		fmt.Printf("  %d completed (%d on time), %d missed, %d pending\n",
			latest.Integrity.CompletedCount, latest.Integrity.CompletedOnTime,
			latest.Integrity.MissedCount, latest.Integrity.PendingCount)
	}
	fmt.Println()
	return nil
}

// cmdHistory lists past cycle scores.
func (r *REPL) cmdHistory(args []string) error {
	history, err := r.store.GetHistory(r.ctx)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}
	if len(history) == 0 {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("\n%s No cycles recorded yet.\n\n", yellow("ℹ"))
		return nil
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("Cycle History"))
	for i, entry := range history {
		fmt.Printf("  #%-3d %s  integrity %s  %dC/%dM/%dP\n",
			i+1,
			entry.Timestamp.Format("2006-01-02"),
			scoreSprint(entry.Integrity.Score),
			entry.Integrity.CompletedCount,
			entry.Integrity.MissedCount,
			entry.Integrity.PendingCount)
	}
	fmt.Println()
	return nil
}

// cmdTasks lists the current cycle's tasks.
func (r *REPL) cmdTasks(args []string) error {
	tasks, err := r.store.GetTasks(r.ctx)
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}
	if len(tasks) == 0 {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("\n%s No tasks in the current cycle.\n\n", yellow("ℹ"))
		return nil
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("Current Tasks"))
	for _, task := range tasks {
		fmt.Printf("  %s %-28s %s/%s  d%d  impact %.2f  due %s\n",
			statusGlyph(task.Status), task.ID, task.Domain, task.Capability,
			task.Difficulty, task.EstimatedImpact,
			task.DueDate.Format("2006-01-02"))
	}
	fmt.Println()
	return nil
}

func statusGlyph(status types.TaskStatus) string {
	switch status {
	case types.StatusCompleted:
		return color.New(color.FgGreen).Sprint("✓")
	case types.StatusMissed:
		return color.New(color.FgRed).Sprint("✗")
	default:
		return color.New(color.FgYellow).Sprint("·")
	}
}

func scoreSprint(score int) string {
	switch {
	case score < 40:
		return color.New(color.FgRed).Sprintf("%d", score)
	case score < 60:
		return color.New(color.FgYellow).Sprintf("%d", score)
	default:
		return color.New(color.FgGreen).Sprintf("%d", score)
	}
}
