// Package failure analyzes a rolling window of cycle history for
// failure patterns: miss and lateness rates, integrity trend, and
// per-capability regression or stagnation. Its output drives the
// throughput recommendation consumed by health and governance.
package failure

import (
	"math"
	"sort"

	"github.com/praxislabs/praxis/internal/config"
	"github.com/praxislabs/praxis/internal/types"
)

// Trend describes how integrity moved across the analysis window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
	TrendUnknown   Trend = "unknown" // Fewer than two window points
)

// Direction is the recommended throughput adjustment.
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
	DirectionHold     Direction = "hold"
)

// CapabilityFlagKind labels a per-capability pattern.
type CapabilityFlagKind string

const (
	FlagRegression  CapabilityFlagKind = "regression"   // Repeated negative deltas
	FlagChronicMiss CapabilityFlagKind = "chronic_miss" // Flat deltas under a high miss rate
)

// Throughput is the analyzer's recommendation for next-cycle load.
type Throughput struct {
	Direction           Direction `json:"direction"`
	Factor              float64   `json:"factor"` // Clamped to [MinFactor, MaxFactor]
	EnforceCatchUpCycle bool      `json:"enforce_catch_up_cycle"`
}

// CapabilityFlag marks one capability showing a failure pattern across
// the window.
type CapabilityFlag struct {
	Domain     string             `json:"domain"`
	Capability string             `json:"capability"`
	Flag       CapabilityFlagKind `json:"flag"`
}

// Analysis is the full failure pattern report for one cycle.
type Analysis struct {
	WindowSize        int     `json:"window_size"`
	AvgIntegrity      float64 `json:"avg_integrity"`
	AvgCompletionRate float64 `json:"avg_completion_rate"`
	AvgOnTimeRate     float64 `json:"avg_on_time_rate"`
	Trend             Trend   `json:"trend"`
	MissRate          float64 `json:"miss_rate"`
	LateRate          float64 `json:"late_rate"`

	HighMissRate        bool `json:"high_miss_rate"`
	HighLateRate        bool `json:"high_late_rate"`
	ChronicLowIntegrity bool `json:"chronic_low_integrity"`
	AvoidanceSuspected  bool `json:"avoidance_suspected"`

	Throughput      Throughput       `json:"throughput"`
	CapabilityFlags []CapabilityFlag `json:"capability_flags,omitempty"`
}

// Analyze inspects the trailing history window, falling back to a
// single synthesized point from the current integrity report when no
// history exists yet.
func Analyze(history []types.CycleHistoryEntry, current types.IntegrityReport, cfg config.FailureConfig) Analysis {
	window := historyWindow(history, current, cfg.WindowSize)

	var analysis Analysis
	analysis.WindowSize = len(window)

	var sumIntegrity, sumCompletion, sumOnTime, sumLate float64
	for _, entry := range window {
		sumIntegrity += float64(entry.Integrity.Score)
		sumCompletion += entry.Integrity.CompletionRate()
		sumOnTime += entry.Integrity.OnTimeRate()
		sumLate += entry.Integrity.LateRate()
	}
	n := float64(len(window))
	analysis.AvgIntegrity = sumIntegrity / n
	analysis.AvgCompletionRate = sumCompletion / n
	analysis.AvgOnTimeRate = sumOnTime / n
	analysis.LateRate = sumLate / n
	analysis.MissRate = 1 - analysis.AvgCompletionRate

	analysis.Trend = windowTrend(window, cfg.TrendDelta)

	analysis.HighMissRate = analysis.MissRate > cfg.HighMissRate
	analysis.HighLateRate = analysis.LateRate > cfg.HighLateRate
	analysis.ChronicLowIntegrity = analysis.AvgIntegrity < cfg.ChronicIntegrity
	analysis.AvoidanceSuspected = analysis.HighMissRate && analysis.ChronicLowIntegrity

	analysis.Throughput = recommendThroughput(analysis, cfg)
	analysis.CapabilityFlags = capabilityFlags(window, analysis.HighMissRate, cfg)

	return analysis
}

// historyWindow returns the trailing size entries, or one synthesized
// entry when the history is empty.
func historyWindow(history []types.CycleHistoryEntry, current types.IntegrityReport, size int) []types.CycleHistoryEntry {
	if len(history) == 0 {
		return []types.CycleHistoryEntry{{Integrity: current}}
	}
	if len(history) <= size {
		return history
	}
	return history[len(history)-size:]
}

func windowTrend(window []types.CycleHistoryEntry, delta float64) Trend {
	if len(window) < 2 {
		return TrendUnknown
	}
	movement := float64(window[len(window)-1].Integrity.Score - window[0].Integrity.Score)
	switch {
	case movement > delta:
		return TrendImproving
	case movement < -delta:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func recommendThroughput(a Analysis, cfg config.FailureConfig) Throughput {
	rec := Throughput{Direction: DirectionHold, Factor: 1.0}

	switch {
	case a.ChronicLowIntegrity && a.HighMissRate:
		rec = Throughput{Direction: DirectionDecrease, Factor: cfg.CatchUpFactor, EnforceCatchUpCycle: true}
	case a.Trend == TrendDeclining && a.AvgCompletionRate < 0.6:
		rec = Throughput{Direction: DirectionDecrease, Factor: cfg.DecreaseFactor}
	case a.Trend == TrendImproving && a.AvgCompletionRate > 0.8:
		rec = Throughput{Direction: DirectionIncrease, Factor: cfg.IncreaseFactor}
	}

	rec.Factor = math.Min(math.Max(rec.Factor, cfg.MinFactor), cfg.MaxFactor)
	return rec
}

// capabilityFlags scans the window's per-capability deltas. Two or more
// strongly negative deltas flag a regression; failing that, two or more
// flat deltas under a high miss rate flag a chronic miss. Flags are
// emitted in sorted key order so output is deterministic.
func capabilityFlags(window []types.CycleHistoryEntry, highMissRate bool, cfg config.FailureConfig) []CapabilityFlag {
	type tally struct {
		domain, capability string
		regressions        int
		stagnant           int
	}
	tallies := make(map[string]*tally)

	for _, entry := range window {
		for _, change := range entry.Changes {
			key := change.Domain + "/" + change.Capability
			t, ok := tallies[key]
			if !ok {
				t = &tally{domain: change.Domain, capability: change.Capability}
				tallies[key] = t
			}
			if change.Delta < cfg.RegressionDelta {
				t.regressions++
			}
			if math.Abs(change.Delta) <= cfg.StagnationDelta {
				t.stagnant++
			}
		}
	}

	keys := make([]string, 0, len(tallies))
	for key := range tallies {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var flags []CapabilityFlag
	for _, key := range keys {
		t := tallies[key]
		switch {
		case t.regressions >= 2:
			flags = append(flags, CapabilityFlag{Domain: t.domain, Capability: t.capability, Flag: FlagRegression})
		case t.stagnant >= 2 && highMissRate:
			flags = append(flags, CapabilityFlag{Domain: t.domain, Capability: t.capability, Flag: FlagChronicMiss})
		}
	}
	return flags
}
