package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/praxislabs/praxis/internal/storage"
	"github.com/praxislabs/praxis/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the goal, identity, and latest cycle summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		goal, err := store.GetGoal(ctx)
		if storage.IsNotFound(err) {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Printf("\n%s No goal set. Run 'praxis init' to create one.\n\n", yellow("ℹ"))
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get goal: %w", err)
		}

		identity, err := store.GetIdentity(ctx)
		if err != nil {
			return fmt.Errorf("failed to get identity: %w", err)
		}
		tasks, err := store.GetTasks(ctx)
		if err != nil {
			return fmt.Errorf("failed to get tasks: %w", err)
		}
		history, err := store.GetHistory(ctx)
		if err != nil {
			return fmt.Errorf("failed to get history: %w", err)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("Goal"))
		fmt.Printf("  %s %s\n", goal.Outcome, gray("("+string(goal.Type)+")"))
		if goal.Deadline != nil {
			fmt.Printf("  Deadline: %s\n", goal.Deadline.Format("2006-01-02"))
		}

		fmt.Printf("\n%s\n\n", cyan("Identity"))
		if len(identity) == 0 {
			fmt.Printf("  %s\n", gray("(empty)"))
		}
		for _, cap := range identity {
			fmt.Printf("  %-30s %s\n", cap.Key(), levelBar(cap.Level))
		}

		pending := 0
		for _, task := range tasks {
			if task.Status == types.StatusPending {
				pending++
			}
		}
		fmt.Printf("\n%s\n\n", cyan("Current Cycle"))
		fmt.Printf("  %d tasks, %d still pending\n", len(tasks), pending)

		if len(history) > 0 {
			latest := history[len(history)-1]
			fmt.Printf("  Last close %s, integrity %s over %d cycles\n",
				latest.Timestamp.Format("2006-01-02"),
				scoreSprint(latest.Integrity.Score),
				len(history))
		} else {
			fmt.Printf("  %s\n", gray("No cycles closed yet; 'praxis run' plans the first one"))
		}
		fmt.Println()
		return nil
	},
}

// levelBar renders a 1-10 capability level as a compact bar.
func levelBar(level float64) string {
	filled := int(level + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	bar := ""
	for i := 0; i < 10; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return fmt.Sprintf("%s %.1f", bar, level)
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

func healthSprint(status string) string {
	switch status {
	case "red":
		return color.New(color.FgRed).Sprint(status)
	case "yellow":
		return color.New(color.FgYellow).Sprint(status)
	default:
		return color.New(color.FgGreen).Sprint(status)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
