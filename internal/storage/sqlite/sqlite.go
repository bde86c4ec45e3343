// Package sqlite implements the storage interface on SQLite via the
// cgo-free ncruces driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/praxislabs/praxis/internal/types"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// activeGoalKey is the config entry naming the goal the engine runs
// against.
const activeGoalKey = "active_goal"

// Store implements the storage interface using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at path and applies the
// schema. The special path ":memory:" opens a private in-memory
// database.
func New(path string) (*Store, error) {
	memory := path == ":memory:"
	dsn := path
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		// WAL for concurrent readers alongside the single writer.
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if memory {
		// Each connection gets its own in-memory database; keep one.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveGoal upserts the goal document and marks it active.
func (s *Store) SaveGoal(ctx context.Context, goal *types.Goal) error {
	if err := goal.Validate(); err != nil {
		return fmt.Errorf("invalid goal: %w", err)
	}
	data, err := json.Marshal(goal)
	if err != nil {
		return fmt.Errorf("failed to marshal goal: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO goals (id, data, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data
	`, goal.ID, string(data), goal.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}
	if err := setConfigTx(ctx, tx, activeGoalKey, goal.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// GetGoal returns the active goal, or ErrNotFound when none was saved.
func (s *Store) GetGoal(ctx context.Context) (*types.Goal, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT g.data FROM goals g
		JOIN config c ON c.key = ? AND c.value = g.id
	`, activeGoalKey).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	var goal types.Goal
	if err := json.Unmarshal([]byte(data), &goal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal goal: %w", err)
	}
	return &goal, nil
}

// SaveIdentity replaces the stored identity with the supplied one.
func (s *Store) SaveIdentity(ctx context.Context, identity []types.CapabilityLevel) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := replaceIdentityTx(ctx, tx, identity); err != nil {
		return err
	}
	return tx.Commit()
}

// GetIdentity returns the stored identity ordered by (domain,
// capability). An empty identity is not an error.
func (s *Store) GetIdentity(ctx context.Context) ([]types.CapabilityLevel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT domain, capability, level FROM identity
		ORDER BY domain, capability
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query identity: %w", err)
	}
	defer rows.Close()

	var identity []types.CapabilityLevel
	for rows.Next() {
		var cap types.CapabilityLevel
		if err := rows.Scan(&cap.Domain, &cap.Capability, &cap.Level); err != nil {
			return nil, fmt.Errorf("failed to scan identity row: %w", err)
		}
		identity = append(identity, cap)
	}
	return identity, rows.Err()
}

// ReplaceTasks replaces the current task list.
func (s *Store) ReplaceTasks(ctx context.Context, tasks []types.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := replaceTasksTx(ctx, tx, tasks); err != nil {
		return err
	}
	return tx.Commit()
}

// GetTasks returns the current task list ordered by due date then id.
func (s *Store) GetTasks(ctx context.Context) ([]types.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT data FROM tasks ORDER BY due_date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []types.Task
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		var task types.Task
		if err := json.Unmarshal([]byte(data), &task); err != nil {
			return nil, fmt.Errorf("failed to unmarshal task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpdateTaskStatus marks one task's outcome. Returns ErrNotFound when
// the id is unknown.
func (s *Store) UpdateTaskStatus(ctx context.Context, id string, status types.TaskStatus, onTime bool) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid task status: %s", status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRowContext(ctx, `SELECT data FROM tasks WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get task %s: %w", id, err)
	}

	var task types.Task
	if err := json.Unmarshal([]byte(data), &task); err != nil {
		return fmt.Errorf("failed to unmarshal task %s: %w", id, err)
	}
	task.Status = status
	task.OnTime = status == types.StatusCompleted && onTime

	updated, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task %s: %w", id, err)
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE tasks SET status = ?, data = ? WHERE id = ?
	`, string(status), string(updated), id)
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", id, err)
	}
	return tx.Commit()
}

// AppendHistory appends one cycle entry. History is append-only; there
// is no update or delete path.
func (s *Store) AppendHistory(ctx context.Context, entry types.CycleHistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cycle_history (created_at, data) VALUES (?, ?)
	`, entry.Timestamp, string(data))
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// GetHistory returns all cycle entries in insertion order.
func (s *Store) GetHistory(ctx context.Context) ([]types.CycleHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT data FROM cycle_history ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var history []types.CycleHistoryEntry
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		var entry types.CycleHistoryEntry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history entry: %w", err)
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}

// SaveCycleOutcome commits an advanced cycle in one transaction: the
// new task list, the folded identity, and the new history entry.
// A partial write would leave the history claiming outcomes the task
// table no longer shows, so all three move together.
func (s *Store) SaveCycleOutcome(ctx context.Context, tasks []types.Task, identity []types.CapabilityLevel, entry types.CycleHistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := replaceTasksTx(ctx, tx, tasks); err != nil {
		return err
	}
	if err := replaceIdentityTx(ctx, tx, identity); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO cycle_history (created_at, data) VALUES (?, ?)
	`, entry.Timestamp, string(data))
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return tx.Commit()
}

// GetConfig returns a config value, or ErrNotFound.
func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get config %s: %w", key, err)
	}
	return value, nil
}

// SetConfig upserts a config value.
func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

func setConfigTx(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

func replaceIdentityTx(ctx context.Context, tx *sql.Tx, identity []types.CapabilityLevel) error {
	for i := range identity {
		if err := identity[i].Validate(); err != nil {
			return fmt.Errorf("invalid identity entry %d: %w", i, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM identity`); err != nil {
		return fmt.Errorf("failed to clear identity: %w", err)
	}
	for _, cap := range identity {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO identity (domain, capability, level) VALUES (?, ?, ?)
		`, cap.Domain, cap.Capability, cap.Level)
		if err != nil {
			return fmt.Errorf("failed to insert identity %s: %w", cap.Key(), err)
		}
	}
	return nil
}

func replaceTasksTx(ctx context.Context, tx *sql.Tx, tasks []types.Task) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}
	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			return fmt.Errorf("invalid task %s: %w", task.ID, err)
		}
		data, err := json.Marshal(task)
		if err != nil {
			return fmt.Errorf("failed to marshal task %s: %w", task.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tasks (id, status, due_date, data) VALUES (?, ?, ?, ?)
		`, task.ID, string(task.Status), task.DueDate, string(data))
		if err != nil {
			return fmt.Errorf("failed to insert task %s: %w", task.ID, err)
		}
	}
	return nil
}
