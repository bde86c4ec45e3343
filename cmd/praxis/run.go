package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/praxislabs/praxis/internal/pipeline"
	"github.com/praxislabs/praxis/internal/storage"
	"github.com/praxislabs/praxis/internal/types"
)

var (
	runNowFlag   string
	runCycleDays int
	runDryRun    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Close the current cycle and plan the next one",
	Long: `Advance the engine by one cycle: score the tasks of the cycle that just
ended, fold their outcomes into the capability identity, analyze
failure patterns, forecast progress, and produce the next cycle's
governed task plan. The outcome is committed atomically.

With --dry-run the cycle is computed and printed but nothing is
persisted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		now := time.Now().UTC()
		if runNowFlag != "" {
			parsed, err := time.Parse("2006-01-02", runNowFlag)
			if err != nil {
				return fmt.Errorf("invalid --now %q (want YYYY-MM-DD): %w", runNowFlag, err)
			}
			now = parsed
		}

		input, err := loadInput(ctx, now, runCycleDays)
		if err != nil {
			return err
		}

		result := pipeline.Run(input, engineCfg)
		if result.ErrorCode != "" {
			return fmt.Errorf("cycle aborted: %s", result.ErrorCode)
		}

		if !runDryRun {
			entry := result.History[len(result.History)-1]
			if err := store.SaveCycleOutcome(ctx, result.Tasks, result.Identity, entry); err != nil {
				return fmt.Errorf("failed to persist cycle: %w", err)
			}
		}

		printRunSummary(result, runDryRun)
		return nil
	},
}

// loadInput reads the four state snapshots concurrently. The reads are
// independent and the store serializes access, so this is safe.
func loadInput(ctx context.Context, now time.Time, cycleDays int) (pipeline.Input, error) {
	var (
		goal     *types.Goal
		identity []types.CapabilityLevel
		tasks    []types.Task
		history  []types.CycleHistoryEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		goal, err = store.GetGoal(gctx)
		if storage.IsNotFound(err) {
			return fmt.Errorf("no goal set; run 'praxis init' first")
		}
		return err
	})
	g.Go(func() error {
		var err error
		identity, err = store.GetIdentity(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = store.GetTasks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = store.GetHistory(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return pipeline.Input{}, err
	}

	if cycleDays <= 0 {
		cycleDays = engineCfg.Health.DefaultCycleDays
	}
	return pipeline.Input{
		Goal:      goal,
		Identity:  identity,
		Tasks:     tasks,
		History:   history,
		Now:       now,
		CycleDays: cycleDays,
	}, nil
}

func printRunSummary(result pipeline.Result, dryRun bool) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	title := "Cycle Advanced"
	if dryRun {
		title = "Cycle Preview (not persisted)"
	}
	fmt.Printf("\n%s\n\n", cyan(title))

	fmt.Printf("  Integrity: %s  (%d completed, %d missed, %d pending)\n",
		scoreSprint(result.Integrity.Score),
		result.Integrity.CompletedCount,
		result.Integrity.MissedCount,
		result.Integrity.PendingCount)
	fmt.Printf("  Health:    %s\n", healthSprint(string(result.Analysis.SystemHealth.Status)))

	gov := result.Analysis.CycleGovernance
	fmt.Printf("  Mode:      %s (severity %s, %d tasks allowed)\n", gov.Mode, gov.Severity, gov.AllowedTasks)
	for _, advisory := range gov.Advisories {
		fmt.Printf("    %s %s\n", gray("-"), advisory)
	}

	trend := result.Analysis.Failure
	fmt.Printf("  Trend:     %s (avg integrity %.0f, miss rate %.0f%%)\n",
		trend.Trend, trend.AvgIntegrity, trend.MissRate*100)

	forecast := result.Analysis.Forecast.Goal
	switch {
	case forecast.ProjectedDate != nil:
		fmt.Printf("  Forecast:  target around %s\n", forecast.ProjectedDate.Format("2006-01-02"))
	default:
		fmt.Printf("  Forecast:  no reliable projection yet\n")
	}

	fmt.Printf("\n  Next cycle: %d tasks kept, %d scheduled, %d overflow\n",
		len(result.Tasks),
		result.Schedule.ScheduledCount(),
		len(result.Schedule.OverflowTasks))
	if !dryRun {
		fmt.Printf("  %s\n", gray("praxis board  # see the full task board"))
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runNowFlag, "now", "", "Simulated cycle close date (YYYY-MM-DD, default today)")
	runCmd.Flags().IntVar(&runCycleDays, "cycle-days", 0, "Cycle window length in days (default from engine config)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Compute and print the cycle without persisting it")
}
