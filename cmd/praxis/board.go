package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/praxislabs/praxis/internal/compression"
	"github.com/praxislabs/praxis/internal/pipeline"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Preview the next cycle's task board",
	Long: `Compute the next cycle from the current state and show the full task
board: what compression kept, deferred, and dropped, which kept tasks
fall under the governance throughput cap, and where each task landed
on the schedule. Nothing is persisted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := loadInput(context.Background(), time.Now().UTC(), 0)
		if err != nil {
			return err
		}

		result := pipeline.Run(input, engineCfg)
		if result.ErrorCode != "" {
			return fmt.Errorf("preview aborted: %s", result.ErrorCode)
		}

		printTaskBoard(result)
		return nil
	},
}

func printTaskBoard(result pipeline.Result) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	board := result.TaskBoard
	fmt.Printf("\n%s\n\n", cyan("Task Board"))

	for _, entry := range board.Entries {
		var decision string
		switch entry.Decision {
		case compression.ActionKeep:
			if entry.GovernanceEligible {
				decision = green("keep")
			} else {
				decision = yellow("keep*") // kept but over the governance cap
			}
		case compression.ActionDefer:
			decision = yellow("defer")
		default:
			decision = red("drop")
		}

		placement := gray("unscheduled")
		if entry.Scheduled {
			placement = "scheduled"
		} else if entry.Overflow {
			placement = red("overflow")
		}

		status := ""
		if entry.DomainStatus == pipeline.DomainDominant {
			status = yellow(" [dominant domain]")
		}

		fmt.Printf("  %-7s %-28s score %.2f  %-11s %s%s\n",
			decision, entry.Task.ID, entry.Score, placement,
			gray(strings.Join(entry.Reasons, ",")), status)
	}

	summary := board.Summary
	fmt.Printf("\n  kept %d (eligible %d) / deferred %d / dropped %d, scheduled %d, overflow %d\n",
		summary.Kept, summary.GovernanceEligible, summary.Deferred,
		summary.Dropped, summary.Scheduled, summary.Overflow)

	gov := result.Analysis.CycleGovernance
	if summary.GovernanceEligible < summary.Kept {
		fmt.Printf("  %s\n", yellow(fmt.Sprintf(
			"keep* entries exceed the %s-mode cap of %d tasks", gov.Mode, gov.AllowedTasks)))
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
