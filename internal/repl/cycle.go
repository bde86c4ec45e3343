package repl

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/praxislabs/praxis/internal/pipeline"
	"github.com/praxislabs/praxis/internal/storage"
	"github.com/praxislabs/praxis/internal/types"
)

// loadInput assembles a pipeline input from the store.
func (r *REPL) loadInput(ctx context.Context) (pipeline.Input, error) {
	goal, err := r.store.GetGoal(ctx)
	if storage.IsNotFound(err) {
		return pipeline.Input{}, fmt.Errorf("no goal set; run 'praxis init' first")
	}
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("failed to get goal: %w", err)
	}
	identity, err := r.store.GetIdentity(ctx)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("failed to get identity: %w", err)
	}
	tasks, err := r.store.GetTasks(ctx)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("failed to get tasks: %w", err)
	}
	history, err := r.store.GetHistory(ctx)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("failed to get history: %w", err)
	}

	return pipeline.Input{
		Goal:      goal,
		Identity:  identity,
		Tasks:     tasks,
		History:   history,
		Now:       r.now().UTC(),
		CycleDays: r.engine.Health.DefaultCycleDays,
	}, nil
}

// cmdRun closes the current cycle and persists the next one.
func (r *REPL) cmdRun(args []string) error {
	ctx := r.ctx

	input, err := r.loadInput(ctx)
	if err != nil {
		return err
	}

	result := pipeline.Run(input, r.engine)
	if result.ErrorCode != "" {
		return fmt.Errorf("cycle aborted: %s", result.ErrorCode)
	}

	entry := result.History[len(result.History)-1]
	if err := r.store.SaveCycleOutcome(ctx, result.Tasks, result.Identity, entry); err != nil {
		return fmt.Errorf("failed to persist cycle: %w", err)
	}

	printCycleSummary(result)
	return nil
}

// cmdBoard previews the next cycle's board without persisting anything.
func (r *REPL) cmdBoard(args []string) error {
	input, err := r.loadInput(r.ctx)
	if err != nil {
		return err
	}

	result := pipeline.Run(input, r.engine)
	if result.ErrorCode != "" {
		return fmt.Errorf("preview aborted: %s", result.ErrorCode)
	}

	printBoard(result.TaskBoard)
	return nil
}

// cmdDone marks a task completed on time.
func (r *REPL) cmdDone(args []string) error {
	return r.markTask(args, types.StatusCompleted)
}

// cmdMiss marks a task missed.
func (r *REPL) cmdMiss(args []string) error {
	return r.markTask(args, types.StatusMissed)
}

func (r *REPL) markTask(args []string, status types.TaskStatus) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s <task-id>", map[types.TaskStatus]string{
			types.StatusCompleted: "done",
			types.StatusMissed:    "miss",
		}[status])
	}

	id := args[0]
	err := r.store.UpdateTaskStatus(r.ctx, id, status, status == types.StatusCompleted)
	if storage.IsNotFound(err) {
		return fmt.Errorf("no task with id %q", id)
	}
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", id, err)
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Task %s marked %s\n", green("✓"), id, status)
	return nil
}

func printCycleSummary(result pipeline.Result) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("Cycle Advanced"))
	fmt.Printf("  Integrity: %s\n", scoreSprint(result.Integrity.Score))
	fmt.Printf("  Health:    %s\n", string(result.Analysis.SystemHealth.Status))

	gov := result.Analysis.CycleGovernance
	fmt.Printf("  Mode:      %s (%d tasks allowed)\n", gov.Mode, gov.AllowedTasks)
	for _, advisory := range gov.Advisories {
		fmt.Printf("    - %s\n", advisory)
	}
	fmt.Printf("  Next cycle: %d tasks kept, %d scheduled, %d overflow\n",
		len(result.Tasks), result.Schedule.ScheduledCount(),
		len(result.Schedule.OverflowTasks))
	fmt.Println()
}

func printBoard(board pipeline.TaskBoard) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("Task Board (preview)"))

	for _, entry := range board.Entries {
		marker := "·"
		switch {
		case entry.GovernanceEligible:
			marker = color.New(color.FgGreen).Sprint("✓")
		case entry.Overflow:
			marker = color.New(color.FgRed).Sprint("!")
		}
		fmt.Printf("  %s %-28s %-8s score %.2f  %v\n",
			marker, entry.Task.ID, entry.Decision, entry.Score, entry.Reasons)
	}
	fmt.Printf("\n  kept %d / deferred %d / dropped %d, eligible %d\n\n",
		board.Summary.Kept, board.Summary.Deferred,
		board.Summary.Dropped, board.Summary.GovernanceEligible)
}
