package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxislabs/praxis/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testGoal() *types.Goal {
	deadline := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	return &types.Goal{
		ID:       "goal-1",
		Outcome:  "Ship the thing",
		Type:     types.GoalOutcome,
		Deadline: &deadline,
		Requirements: []types.CapabilityRequirement{
			{Domain: "engineering", Capability: "go", TargetLevel: 8, Weight: 1},
		},
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func testTask(id string) types.Task {
	return types.Task{
		ID:              id,
		Domain:          "engineering",
		Capability:      "go",
		Title:           "Practice",
		Difficulty:      2,
		EstimatedImpact: 0.8,
		DueDate:         time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Status:          types.StatusPending,
	}
}

func TestGoalRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetGoal(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	goal := testGoal()
	require.NoError(t, store.SaveGoal(ctx, goal))

	got, err := store.GetGoal(ctx)
	require.NoError(t, err)
	assert.Equal(t, goal.ID, got.ID)
	assert.Equal(t, goal.Outcome, got.Outcome)
	require.NotNil(t, got.Deadline)
	assert.True(t, goal.Deadline.Equal(*got.Deadline))
	assert.Equal(t, goal.Requirements, got.Requirements)
}

func TestSaveGoalRejectsInvalid(t *testing.T) {
	store := newTestStore(t)
	err := store.SaveGoal(context.Background(), &types.Goal{ID: "g"})
	assert.Error(t, err)
}

func TestSaveGoalUpdatesActive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := testGoal()
	require.NoError(t, store.SaveGoal(ctx, first))

	second := testGoal()
	second.ID = "goal-2"
	second.Outcome = "Ship the other thing"
	require.NoError(t, store.SaveGoal(ctx, second))

	got, err := store.GetGoal(ctx)
	require.NoError(t, err)
	assert.Equal(t, "goal-2", got.ID)
}

func TestIdentityRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	empty, err := store.GetIdentity(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	identity := []types.CapabilityLevel{
		{Domain: "writing", Capability: "docs", Level: 4},
		{Domain: "engineering", Capability: "go", Level: 5.5},
	}
	require.NoError(t, store.SaveIdentity(ctx, identity))

	got, err := store.GetIdentity(ctx)
	require.NoError(t, err)
	// Ordered by (domain, capability) regardless of save order.
	require.Len(t, got, 2)
	assert.Equal(t, "engineering", got[0].Domain)
	assert.Equal(t, 5.5, got[0].Level)
	assert.Equal(t, "writing", got[1].Domain)
}

func TestSaveIdentityRejectsOutOfRangeLevel(t *testing.T) {
	store := newTestStore(t)
	err := store.SaveIdentity(context.Background(), []types.CapabilityLevel{
		{Domain: "engineering", Capability: "go", Level: 11},
	})
	assert.Error(t, err)
}

func TestTasksRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tasks := []types.Task{testTask("t-1"), testTask("t-2")}
	tasks[1].DueDate = tasks[0].DueDate.AddDate(0, 0, -1)
	require.NoError(t, store.ReplaceTasks(ctx, tasks))

	got, err := store.GetTasks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t-2", got[0].ID) // earlier due date first
	assert.Equal(t, "t-1", got[1].ID)

	// Replace drops rows that are no longer present.
	require.NoError(t, store.ReplaceTasks(ctx, tasks[:1]))
	got, err = store.GetTasks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t-1", got[0].ID)
}

func TestUpdateTaskStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceTasks(ctx, []types.Task{testTask("t-1")}))

	require.NoError(t, store.UpdateTaskStatus(ctx, "t-1", types.StatusCompleted, true))
	got, err := store.GetTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, got[0].Status)
	assert.True(t, got[0].OnTime)

	// OnTime is meaningless for a miss and must not stick.
	require.NoError(t, store.UpdateTaskStatus(ctx, "t-1", types.StatusMissed, true))
	got, err = store.GetTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.StatusMissed, got[0].Status)
	assert.False(t, got[0].OnTime)

	err = store.UpdateTaskStatus(ctx, "missing", types.StatusCompleted, true)
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.UpdateTaskStatus(ctx, "t-1", types.TaskStatus("bogus"), false)
	assert.Error(t, err)
}

func TestHistoryAppendOnlyOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := types.CycleHistoryEntry{
			Timestamp: base.AddDate(0, 0, 7*i),
			Integrity: types.IntegrityReport{Score: 50 + i},
		}
		require.NoError(t, store.AppendHistory(ctx, entry))
	}

	history, err := store.GetHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, entry := range history {
		assert.Equal(t, 50+i, entry.Integrity.Score)
		assert.True(t, base.AddDate(0, 0, 7*i).Equal(entry.Timestamp))
	}
}

func TestSaveCycleOutcomeAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceTasks(ctx, []types.Task{testTask("old-1")}))
	require.NoError(t, store.SaveIdentity(ctx, []types.CapabilityLevel{
		{Domain: "engineering", Capability: "go", Level: 5},
	}))

	newTasks := []types.Task{testTask("new-1"), testTask("new-2")}
	newIdentity := []types.CapabilityLevel{
		{Domain: "engineering", Capability: "go", Level: 5.3},
	}
	entry := types.CycleHistoryEntry{
		Timestamp: time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC),
		Integrity: types.IntegrityReport{Score: 72},
	}
	require.NoError(t, store.SaveCycleOutcome(ctx, newTasks, newIdentity, entry))

	tasks, err := store.GetTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	identity, err := store.GetIdentity(ctx)
	require.NoError(t, err)
	require.Len(t, identity, 1)
	assert.Equal(t, 5.3, identity[0].Level)

	history, err := store.GetHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 72, history[0].Integrity.Score)
}

func TestSaveCycleOutcomeRollsBackOnInvalidInput(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceTasks(ctx, []types.Task{testTask("old-1")}))

	bad := testTask("new-1")
	bad.Difficulty = 9
	err := store.SaveCycleOutcome(ctx, []types.Task{bad}, nil, types.CycleHistoryEntry{
		Timestamp: time.Now().UTC(),
	})
	require.Error(t, err)

	// Nothing from the failed cycle landed.
	tasks, getErr := store.GetTasks(ctx)
	require.NoError(t, getErr)
	require.Len(t, tasks, 1)
	assert.Equal(t, "old-1", tasks[0].ID)

	history, getErr := store.GetHistory(ctx)
	require.NoError(t, getErr)
	assert.Empty(t, history)
}

func TestConfigRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetConfig(ctx, "cycle_days")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SetConfig(ctx, "cycle_days", "7"))
	value, err := store.GetConfig(ctx, "cycle_days")
	require.NoError(t, err)
	assert.Equal(t, "7", value)

	require.NoError(t, store.SetConfig(ctx, "cycle_days", "5"))
	value, err = store.GetConfig(ctx, "cycle_days")
	require.NoError(t, err)
	assert.Equal(t, "5", value)
}

func TestFileBackedStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "praxis.db")
	store, err := New(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.SaveGoal(ctx, testGoal()))
	require.NoError(t, store.Close())

	// Reopen and verify persistence.
	store, err = New(path)
	require.NoError(t, err)
	defer store.Close()

	goal, err := store.GetGoal(ctx)
	require.NoError(t, err)
	assert.Equal(t, "goal-1", goal.ID)
}
