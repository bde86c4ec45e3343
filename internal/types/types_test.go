package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGoal() Goal {
	deadline := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	return Goal{
		ID:       "goal-1",
		Outcome:  "Ship a production service",
		Type:     GoalOutcome,
		Deadline: &deadline,
		Requirements: []CapabilityRequirement{
			{Domain: "engineering", Capability: "go", TargetLevel: 7, Weight: 0.8},
		},
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGoalValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Goal)
		wantErr string
	}{
		{
			name:   "valid goal passes",
			mutate: func(g *Goal) {},
		},
		{
			name:    "missing id",
			mutate:  func(g *Goal) { g.ID = "" },
			wantErr: "id is required",
		},
		{
			name:    "missing outcome",
			mutate:  func(g *Goal) { g.Outcome = "  " },
			wantErr: "outcome is required",
		},
		{
			name:    "unknown goal type",
			mutate:  func(g *Goal) { g.Type = "aspiration" },
			wantErr: "invalid goal type",
		},
		{
			name:    "no requirements",
			mutate:  func(g *Goal) { g.Requirements = nil },
			wantErr: "at least one capability requirement",
		},
		{
			name: "requirement target out of range",
			mutate: func(g *Goal) {
				g.Requirements[0].TargetLevel = 11
			},
			wantErr: "target_level must be between 1 and 10",
		},
		{
			name: "requirement weight out of range",
			mutate: func(g *Goal) {
				g.Requirements[0].Weight = 1.5
			},
			wantErr: "weight must be between 0 and 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGoal()
			tt.mutate(&g)
			err := g.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTaskValidate(t *testing.T) {
	due := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	task := Task{
		ID:              "c1-engineering-go-1",
		Domain:          "engineering",
		Capability:      "go",
		Difficulty:      2,
		EstimatedImpact: 0.6,
		DueDate:         due,
		Status:          StatusPending,
	}
	require.NoError(t, task.Validate())

	bad := task
	bad.Difficulty = 4
	assert.Error(t, bad.Validate())

	bad = task
	bad.EstimatedImpact = 1.2
	assert.Error(t, bad.Validate())

	bad = task
	bad.Status = "abandoned"
	assert.Error(t, bad.Validate())

	bad = task
	bad.DueDate = time.Time{}
	assert.Error(t, bad.Validate())
}

func TestIntegrityReportRates(t *testing.T) {
	r := IntegrityReport{
		CompletedCount:  4,
		CompletedOnTime: 3,
		CompletedLate:   1,
		MissedCount:     1,
		PendingCount:    3,
	}
	assert.InDelta(t, 0.5, r.CompletionRate(), 1e-9)
	assert.InDelta(t, 0.75, r.OnTimeRate(), 1e-9)
	assert.InDelta(t, 0.25, r.LateRate(), 1e-9)

	var empty IntegrityReport
	assert.Equal(t, 0.0, empty.CompletionRate())
	assert.Equal(t, 0.0, empty.OnTimeRate())
	assert.Equal(t, 0.0, empty.LateRate())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusCompleted.IsValid())
	assert.True(t, StatusMissed.IsValid())
	assert.False(t, TaskStatus("done").IsValid())

	assert.True(t, GoalOutcome.IsValid())
	assert.False(t, GoalType("").IsValid())

	assert.True(t, MetricNumeric.IsValid())
	assert.False(t, MetricKind("gauge").IsValid())
}
