// Package storage defines the persistence boundary for the cycle
// engine. The engine itself is side-effect-free; everything durable --
// the goal document, the identity state, the task list, and the
// append-only cycle history -- lives behind the Storage interface.
package storage

import (
	"context"
	"errors"

	"github.com/praxislabs/praxis/internal/storage/sqlite"
	"github.com/praxislabs/praxis/internal/types"
)

// ErrNotFound is returned when a requested record does not exist.
// Callers branch on it; every other storage error is opaque.
var ErrNotFound = sqlite.ErrNotFound

// Storage is the interface for cycle state backends.
type Storage interface {
	// Goal
	SaveGoal(ctx context.Context, goal *types.Goal) error
	GetGoal(ctx context.Context) (*types.Goal, error)

	// Identity
	SaveIdentity(ctx context.Context, identity []types.CapabilityLevel) error
	GetIdentity(ctx context.Context) ([]types.CapabilityLevel, error)

	// Tasks
	ReplaceTasks(ctx context.Context, tasks []types.Task) error
	GetTasks(ctx context.Context) ([]types.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status types.TaskStatus, onTime bool) error

	// History
	AppendHistory(ctx context.Context, entry types.CycleHistoryEntry) error
	GetHistory(ctx context.Context) ([]types.CycleHistoryEntry, error)

	// SaveCycleOutcome persists one advanced cycle atomically: the new
	// task list, the folded identity, and the new history entry commit
	// together or not at all.
	SaveCycleOutcome(ctx context.Context, tasks []types.Task, identity []types.CapabilityLevel, entry types.CycleHistoryEntry) error

	// Config
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error

	// Lifecycle
	Close() error
}

// Config holds database configuration.
type Config struct {
	// Path is the SQLite database file path.
	// Default: ".praxis/praxis.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Path: ".praxis/praxis.db",
	}
}

// NewStorage creates a new SQLite storage backend.
// The ctx parameter is currently unused but kept for API consistency
// and future extension possibilities.
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = ".praxis/praxis.db"
	}
	return sqlite.New(cfg.Path)
}

// IsNotFound reports whether err is the missing-record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
