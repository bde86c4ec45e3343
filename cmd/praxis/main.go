// Command praxis is the CLI for the goal cycle engine: it owns the
// SQLite store and the engine configuration, and hands immutable
// snapshots to the pipeline.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/praxislabs/praxis/internal/config"
	"github.com/praxislabs/praxis/internal/storage"
)

var (
	dbPath    string
	store     storage.Storage
	engineCfg config.EngineConfig
)

var rootCmd = &cobra.Command{
	Use:   "praxis",
	Short: "Deterministic goal cycle engine",
	Long: `Praxis runs a goal through repeated execution cycles: it scores the
cycle that just ended, folds task outcomes into your capability levels,
analyzes failure patterns, forecasts progress, and plans the next
cycle under governance constraints.

State lives in a local SQLite database (.praxis/praxis.db by default).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		store, err = storage.NewStorage(context.Background(), &storage.Config{Path: dbPath})
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		engineCfg, err = config.Load(cwd)
		if err != nil {
			return fmt.Errorf("failed to load engine config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", ".praxis/praxis.db",
		"Path to the cycle database (\":memory:\" for a throwaway session)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
