package repl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxislabs/praxis/internal/config"
	"github.com/praxislabs/praxis/internal/storage"
	"github.com/praxislabs/praxis/internal/types"
)

var replNow = time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)

func newTestREPL(t *testing.T) *REPL {
	t.Helper()
	store, err := storage.NewStorage(context.Background(), &storage.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	r, err := New(&Config{
		Store:  store,
		Engine: config.Default(),
		Now:    func() time.Time { return replNow },
	})
	require.NoError(t, err)
	r.ctx = context.Background()
	return r
}

func seedGoal(t *testing.T, r *REPL) {
	t.Helper()
	deadline := replNow.AddDate(0, 0, 90)
	require.NoError(t, r.store.SaveGoal(r.ctx, &types.Goal{
		ID:       "goal-1",
		Outcome:  "Ship it",
		Type:     types.GoalOutcome,
		Deadline: &deadline,
		Requirements: []types.CapabilityRequirement{
			{Domain: "engineering", Capability: "go", TargetLevel: 6, Weight: 1},
		},
		CreatedAt: replNow.AddDate(0, 0, -7),
	}))
	require.NoError(t, r.store.SaveIdentity(r.ctx, []types.CapabilityLevel{
		{Domain: "engineering", Capability: "go", Level: 4},
	}))
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(&Config{})
	assert.Error(t, err)
}

func TestProcessInputUnknownCommandIsNotAnError(t *testing.T) {
	r := newTestREPL(t)
	assert.NoError(t, r.processInput("frobnicate"))
	assert.NoError(t, r.processInput("   "))
}

func TestLoadInputRequiresGoal(t *testing.T) {
	r := newTestREPL(t)
	_, err := r.loadInput(r.ctx)
	assert.Error(t, err)
}

func TestLoadInputAssemblesSnapshots(t *testing.T) {
	r := newTestREPL(t)
	seedGoal(t, r)

	input, err := r.loadInput(r.ctx)
	require.NoError(t, err)
	assert.Equal(t, "goal-1", input.Goal.ID)
	assert.Len(t, input.Identity, 1)
	assert.Equal(t, replNow, input.Now)
	assert.Equal(t, config.Default().Health.DefaultCycleDays, input.CycleDays)
}

func TestMarkTaskValidation(t *testing.T) {
	r := newTestREPL(t)
	assert.Error(t, r.cmdDone(nil))
	assert.Error(t, r.cmdMiss([]string{"a", "b"}))
	assert.Error(t, r.cmdDone([]string{"missing"}))
}

func TestMarkTaskUpdatesStore(t *testing.T) {
	r := newTestREPL(t)
	require.NoError(t, r.store.ReplaceTasks(r.ctx, []types.Task{{
		ID: "t-1", Domain: "engineering", Capability: "go",
		Difficulty: 1, EstimatedImpact: 0.5,
		DueDate: replNow.AddDate(0, 0, 3), Status: types.StatusPending,
	}}))

	require.NoError(t, r.cmdDone([]string{"t-1"}))
	tasks, err := r.store.GetTasks(r.ctx)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, tasks[0].Status)
	assert.True(t, tasks[0].OnTime)
}

func TestCmdRunPersistsCycle(t *testing.T) {
	r := newTestREPL(t)
	seedGoal(t, r)

	require.NoError(t, r.cmdRun(nil))

	history, err := r.store.GetHistory(r.ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)

	tasks, err := r.store.GetTasks(r.ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, tasks)

	// Board preview does not write.
	require.NoError(t, r.cmdBoard(nil))
	history, err = r.store.GetHistory(r.ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
