package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past cycle scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := store.GetHistory(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get history: %w", err)
		}
		if len(history) == 0 {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Printf("\n%s No cycles recorded yet.\n\n", yellow("ℹ"))
			return nil
		}

		start := 0
		if historyLimit > 0 && len(history) > historyLimit {
			start = len(history) - historyLimit
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan("Cycle History"))
		for i := start; i < len(history); i++ {
			entry := history[i]
			fmt.Printf("  #%-3d %s  integrity %-3s  %d completed / %d missed / %d pending\n",
				i+1,
				entry.Timestamp.Format("2006-01-02"),
				scoreSprint(entry.Integrity.Score),
				entry.Integrity.CompletedCount,
				entry.Integrity.MissedCount,
				entry.Integrity.PendingCount)
			for _, change := range entry.Changes {
				fmt.Printf("       %s\n", gray(fmt.Sprintf("%s/%s %+.2f → %.2f",
					change.Domain, change.Capability, change.Delta, change.After)))
			}
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Show only the most recent N cycles (0 = all)")
}
