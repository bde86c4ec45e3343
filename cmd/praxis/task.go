package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/praxislabs/praxis/internal/storage"
	"github.com/praxislabs/praxis/internal/types"
)

var taskLate bool

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Record task outcomes for the current cycle",
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return markTask(args[0], types.StatusCompleted, !taskLate)
	},
}

var taskMissCmd = &cobra.Command{
	Use:   "miss <task-id>",
	Short: "Mark a task missed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return markTask(args[0], types.StatusMissed, false)
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the current cycle's tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := store.GetTasks(context.Background())
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
			glyph := "·"
			switch task.Status {
			case types.StatusCompleted:
				glyph = color.New(color.FgGreen).Sprint("✓")
			case types.StatusMissed:
				glyph = color.New(color.FgRed).Sprint("✗")
			}
			fmt.Printf("  %s %-28s %s/%s  d%d  impact %.2f  due %s\n",
				glyph, task.ID, task.Domain, task.Capability,
				task.Difficulty, task.EstimatedImpact,
				task.DueDate.Format("2006-01-02"))
		}
		fmt.Println()
		return nil
	},
}

func markTask(id string, status types.TaskStatus, onTime bool) error {
	err := store.UpdateTaskStatus(context.Background(), id, status, onTime)
	if storage.IsNotFound(err) {
		return fmt.Errorf("no task with id %q; 'praxis task list' shows the current cycle", id)
	}
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", id, err)
	}

	green := color.New(color.FgGreen).SprintFunc()
	suffix := ""
	if status == types.StatusCompleted && !onTime {
		suffix = " (late)"
	}
	fmt.Printf("%s Task %s marked %s%s\n", green("✓"), id, status, suffix)
	return nil
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskMissCmd)
	taskCmd.AddCommand(taskListCmd)
	taskDoneCmd.Flags().BoolVar(&taskLate, "late", false, "The task was completed after its due date")
}
