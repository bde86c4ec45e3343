package failure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxislabs/praxis/internal/config"
	"github.com/praxislabs/praxis/internal/types"
)

func entry(score, completed, onTime, late, missed, pending int) types.CycleHistoryEntry {
	return types.CycleHistoryEntry{
		Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Integrity: types.IntegrityReport{
			Score:           score,
			CompletedCount:  completed,
			CompletedOnTime: onTime,
			CompletedLate:   late,
			MissedCount:     missed,
			PendingCount:    pending,
		},
	}
}

func TestAnalyzeEmptyHistorySynthesizesWindow(t *testing.T) {
	current := types.IntegrityReport{Score: 80, CompletedCount: 4, CompletedOnTime: 4}

	analysis := Analyze(nil, current, config.Default().Failure)

	assert.Equal(t, 1, analysis.WindowSize)
	assert.Equal(t, TrendUnknown, analysis.Trend)
	assert.Equal(t, 80.0, analysis.AvgIntegrity)
	assert.Equal(t, DirectionHold, analysis.Throughput.Direction)
	assert.Equal(t, 1.0, analysis.Throughput.Factor)
}

func TestAnalyzeWindowIsLastThree(t *testing.T) {
	history := []types.CycleHistoryEntry{
		entry(10, 1, 1, 0, 9, 0),
		entry(50, 5, 5, 0, 5, 0),
		entry(60, 6, 6, 0, 4, 0),
		entry(70, 7, 7, 0, 3, 0),
	}

	analysis := Analyze(history, types.IntegrityReport{}, config.Default().Failure)

	assert.Equal(t, 3, analysis.WindowSize)
	// Window is entries 50/60/70, not the leading 10.
	assert.InDelta(t, 60.0, analysis.AvgIntegrity, 1e-9)
	assert.Equal(t, TrendImproving, analysis.Trend)
}

func TestAnalyzeTrend(t *testing.T) {
	tests := []struct {
		name   string
		scores [2]int
		want   Trend
	}{
		{"improving over +10", [2]int{40, 60}, TrendImproving},
		{"declining past -10", [2]int{60, 40}, TrendDeclining},
		{"stable inside band", [2]int{50, 58}, TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := []types.CycleHistoryEntry{
				entry(tt.scores[0], 5, 5, 0, 0, 0),
				entry(tt.scores[1], 5, 5, 0, 0, 0),
			}
			analysis := Analyze(history, types.IntegrityReport{}, config.Default().Failure)
			assert.Equal(t, tt.want, analysis.Trend)
		})
	}
}

func TestAnalyzeCatchUpCycle(t *testing.T) {
	// Chronic low integrity plus a high miss rate forces the 0.5
	// catch-up factor.
	history := []types.CycleHistoryEntry{
		entry(30, 2, 2, 0, 8, 0),
		entry(25, 1, 1, 0, 9, 0),
		entry(35, 3, 3, 0, 7, 0),
	}

	analysis := Analyze(history, types.IntegrityReport{}, config.Default().Failure)

	require.True(t, analysis.ChronicLowIntegrity)
	require.True(t, analysis.HighMissRate)
	assert.True(t, analysis.AvoidanceSuspected)
	assert.Equal(t, DirectionDecrease, analysis.Throughput.Direction)
	assert.Equal(t, 0.5, analysis.Throughput.Factor)
	assert.True(t, analysis.Throughput.EnforceCatchUpCycle)
}

func TestAnalyzeDecliningDecrease(t *testing.T) {
	history := []types.CycleHistoryEntry{
		entry(70, 5, 5, 0, 5, 0),
		entry(60, 5, 5, 0, 5, 0),
		entry(45, 5, 5, 0, 5, 0),
	}

	analysis := Analyze(history, types.IntegrityReport{}, config.Default().Failure)

	assert.Equal(t, TrendDeclining, analysis.Trend)
	assert.Equal(t, DirectionDecrease, analysis.Throughput.Direction)
	assert.Equal(t, 0.7, analysis.Throughput.Factor)
	assert.False(t, analysis.Throughput.EnforceCatchUpCycle)
}

func TestAnalyzeImprovingIncrease(t *testing.T) {
	history := []types.CycleHistoryEntry{
		entry(60, 9, 9, 0, 1, 0),
		entry(70, 9, 9, 0, 1, 0),
		entry(85, 9, 9, 0, 1, 0),
	}

	analysis := Analyze(history, types.IntegrityReport{}, config.Default().Failure)

	assert.Equal(t, TrendImproving, analysis.Trend)
	assert.Equal(t, DirectionIncrease, analysis.Throughput.Direction)
	assert.Equal(t, 1.2, analysis.Throughput.Factor)
}

func TestAnalyzeLateRate(t *testing.T) {
	history := []types.CycleHistoryEntry{
		entry(60, 4, 1, 3, 0, 0),
		entry(65, 4, 2, 2, 0, 0),
	}

	analysis := Analyze(history, types.IntegrityReport{}, config.Default().Failure)

	assert.InDelta(t, 0.625, analysis.LateRate, 1e-9)
	assert.True(t, analysis.HighLateRate)
}

func TestAnalyzeCapabilityFlags(t *testing.T) {
	regress := func(delta float64) types.CapabilityChange {
		return types.CapabilityChange{Domain: "engineering", Capability: "go", Delta: delta}
	}
	flat := func(delta float64) types.CapabilityChange {
		return types.CapabilityChange{Domain: "writing", Capability: "prose", Delta: delta}
	}

	history := []types.CycleHistoryEntry{
		{Integrity: types.IntegrityReport{Score: 30, MissedCount: 8, CompletedCount: 2, CompletedOnTime: 2},
			Changes: []types.CapabilityChange{regress(-0.3), flat(0.05)}},
		{Integrity: types.IntegrityReport{Score: 30, MissedCount: 8, CompletedCount: 2, CompletedOnTime: 2},
			Changes: []types.CapabilityChange{regress(-0.25), flat(-0.02)}},
	}

	analysis := Analyze(history, types.IntegrityReport{}, config.Default().Failure)

	require.True(t, analysis.HighMissRate)
	require.Len(t, analysis.CapabilityFlags, 2)
	// Sorted by domain/capability key.
	assert.Equal(t, FlagRegression, analysis.CapabilityFlags[0].Flag)
	assert.Equal(t, "engineering", analysis.CapabilityFlags[0].Domain)
	assert.Equal(t, FlagChronicMiss, analysis.CapabilityFlags[1].Flag)
	assert.Equal(t, "writing", analysis.CapabilityFlags[1].Domain)
}

func TestAnalyzeRegressionWinsOverChronicMiss(t *testing.T) {
	ch := func(delta float64) types.CapabilityChange {
		return types.CapabilityChange{Domain: "d", Capability: "c", Delta: delta}
	}
	// Deltas of exactly -0.25 are both regressions; chronic_miss must
	// not double-flag the same capability.
	history := []types.CycleHistoryEntry{
		{Integrity: types.IntegrityReport{Score: 20, MissedCount: 9, CompletedCount: 1, CompletedOnTime: 1},
			Changes: []types.CapabilityChange{ch(-0.25)}},
		{Integrity: types.IntegrityReport{Score: 20, MissedCount: 9, CompletedCount: 1, CompletedOnTime: 1},
			Changes: []types.CapabilityChange{ch(-0.3)}},
	}

	analysis := Analyze(history, types.IntegrityReport{}, config.Default().Failure)

	require.Len(t, analysis.CapabilityFlags, 1)
	assert.Equal(t, FlagRegression, analysis.CapabilityFlags[0].Flag)
}

func TestAnalyzeDeterminism(t *testing.T) {
	history := []types.CycleHistoryEntry{
		entry(40, 2, 1, 1, 6, 2),
		entry(55, 5, 4, 1, 5, 0),
		entry(50, 4, 3, 1, 4, 2),
	}
	before := make([]types.CycleHistoryEntry, len(history))
	copy(before, history)

	first := Analyze(history, types.IntegrityReport{}, config.Default().Failure)
	second := Analyze(history, types.IntegrityReport{}, config.Default().Failure)

	assert.Equal(t, first, second)
	assert.Equal(t, before, history)
}
