package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxislabs/praxis/internal/config"
	"github.com/praxislabs/praxis/internal/types"
)

var due = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func task(id string, impact float64, difficulty int, status types.TaskStatus, onTime bool) types.Task {
	return types.Task{
		ID:              id,
		Domain:          "engineering",
		Capability:      "go",
		Difficulty:      difficulty,
		EstimatedImpact: impact,
		DueDate:         due,
		Status:          status,
		OnTime:          onTime,
	}
}

func TestComputeMixedOutcomes(t *testing.T) {
	// One on-time completion (0.9 * 1.0) and one miss (-0.5):
	// rawTotal 0.4 over maxPossible 1.4 rounds to 29.
	tasks := []types.Task{
		task("a", 0.9, 2, types.StatusCompleted, true),
		task("b", 0.5, 2, types.StatusMissed, false),
	}

	report := Compute(tasks, config.Default().Scoring)

	assert.Equal(t, 29, report.Score)
	assert.InDelta(t, 1.4, report.MaxPossible, 1e-9)
	assert.InDelta(t, 0.4, report.RawTotal, 1e-9)
	assert.Equal(t, 1, report.CompletedCount)
	assert.Equal(t, 1, report.MissedCount)
	assert.Equal(t, 0, report.PendingCount)
}

func TestComputeLatePenalty(t *testing.T) {
	tasks := []types.Task{
		task("a", 1.0, 2, types.StatusCompleted, false),
	}

	report := Compute(tasks, config.Default().Scoring)

	assert.InDelta(t, 0.7, report.RawTotal, 1e-9)
	assert.Equal(t, 70, report.Score)
	assert.Equal(t, 1, report.CompletedLate)
	assert.Equal(t, 0, report.CompletedOnTime)
}

func TestComputeDifficultyWeights(t *testing.T) {
	tests := []struct {
		name       string
		difficulty int
		wantMax    float64
	}{
		{"easy discounts", 1, 0.8},
		{"standard holds", 2, 1.0},
		{"hard amplifies", 3, 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := []types.Task{task("a", 1.0, tt.difficulty, types.StatusCompleted, true)}
			report := Compute(tasks, config.Default().Scoring)
			assert.InDelta(t, tt.wantMax, report.MaxPossible, 1e-9)
			assert.Equal(t, 100, report.Score)
		})
	}
}

func TestComputeBounds(t *testing.T) {
	// All misses push rawTotal negative; score clamps to 0.
	tasks := []types.Task{
		task("a", 0.9, 3, types.StatusMissed, false),
		task("b", 0.8, 2, types.StatusMissed, false),
	}
	report := Compute(tasks, config.Default().Scoring)
	assert.Equal(t, 0, report.Score)
	assert.True(t, report.RawTotal < 0)

	// No tasks means no scoreable weight.
	report = Compute(nil, config.Default().Scoring)
	assert.Equal(t, 0, report.Score)
	assert.Equal(t, 0.0, report.MaxPossible)
}

func TestComputeZeroImpactScoresZero(t *testing.T) {
	tasks := []types.Task{
		task("a", 0, 2, types.StatusCompleted, true),
		task("b", 0, 2, types.StatusPending, false),
	}
	report := Compute(tasks, config.Default().Scoring)
	assert.Equal(t, 0, report.Score)
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	tasks := []types.Task{
		task("a", 0.9, 2, types.StatusCompleted, true),
		task("b", 0.5, 1, types.StatusPending, false),
	}
	original := make([]types.Task, len(tasks))
	copy(original, tasks)

	first := Compute(tasks, config.Default().Scoring)
	second := Compute(tasks, config.Default().Scoring)

	require.Equal(t, original, tasks)
	assert.Equal(t, first, second)
}
