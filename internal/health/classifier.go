// Package health aggregates the cycle's integrity, failure, forecast,
// and scheduling signals into a single system status plus governance
// recommendations.
//
// Status moves only upward within one evaluation: a later check can
// escalate green to yellow or yellow to red, never the reverse. The
// check order below is part of the package contract; reordering it
// changes which reasons attach to a given final status.
package health

import (
	"math"

	"github.com/praxislabs/praxis/internal/config"
	"github.com/praxislabs/praxis/internal/failure"
	"github.com/praxislabs/praxis/internal/forecast"
	"github.com/praxislabs/praxis/internal/types"
)

// Status is the traffic-light system health classification.
type Status string

const (
	StatusGreen  Status = "green"
	StatusYellow Status = "yellow"
	StatusRed    Status = "red"
)

// Reason codes attached to a classification.
const (
	ReasonChronicLowIntegrity  = "chronic_low_integrity"
	ReasonModerateLowIntegrity = "moderate_low_integrity"
	ReasonHighMissRate         = "high_miss_rate"
	ReasonHighLateRate         = "high_late_rate"
	ReasonOffTrackForecast     = "off_track_forecast"
	ReasonHighVolatility       = "high_volatility"
)

// Inputs collects the upstream reports the classifier reads.
type Inputs struct {
	Integrity      types.IntegrityReport
	Failure        failure.Analysis
	Forecast       forecast.Report
	ScheduledCount int
	OverflowCount  int
	HistoryLength  int
}

// Report is the health classification plus governance recommendations.
type Report struct {
	Status  Status   `json:"status"`
	Reasons []string `json:"reasons,omitempty"`

	StructuralDrift bool `json:"structural_drift"`
	ExecutionDrift  bool `json:"execution_drift"`

	RecommendedCycleDays        int `json:"recommended_cycle_days"`
	RecommendedMaxTasksPerCycle int `json:"recommended_max_tasks_per_cycle"`

	EnforceIdentityReset bool `json:"enforce_identity_reset"`
	EnforceGoalReview    bool `json:"enforce_goal_review"`
}

// Classify runs the documented check sequence and derives the
// governance recommendations from the final status.
func Classify(in Inputs, cfg config.HealthConfig) Report {
	report := Report{Status: StatusGreen}

	bump := func(to Status, reason string) {
		report.Reasons = append(report.Reasons, reason)
		if to == StatusRed || (to == StatusYellow && report.Status == StatusGreen) {
			report.Status = to
		}
	}

	score := float64(in.Integrity.Score)
	switch {
	case score < cfg.RedIntegrity:
		bump(StatusRed, ReasonChronicLowIntegrity)
	case score < cfg.YellowIntegrity:
		bump(StatusYellow, ReasonModerateLowIntegrity)
	}

	if in.Failure.HighMissRate {
		if in.Failure.ChronicLowIntegrity {
			bump(StatusRed, ReasonHighMissRate)
		} else {
			bump(StatusYellow, ReasonHighMissRate)
		}
	}
	if in.Failure.HighLateRate {
		bump(StatusYellow, ReasonHighLateRate)
	}
	if in.Forecast.Goal.OnTrack != nil && !*in.Forecast.Goal.OnTrack {
		bump(StatusYellow, ReasonOffTrackForecast)
	}
	if in.Forecast.Volatility.IntegrityStdDev > cfg.IntegrityStdDevLimit ||
		in.Forecast.Volatility.DeltaStdDev > cfg.DeltaStdDevLimit {
		bump(StatusYellow, ReasonHighVolatility)
	}

	report.StructuralDrift = in.OverflowCount > in.ScheduledCount ||
		(in.Failure.Throughput.Direction == failure.DirectionDecrease &&
			in.ScheduledCount > cfg.StructuralDriftMaxsched)
	report.ExecutionDrift = in.Forecast.Volatility.IntegrityStdDev > cfg.ExecutionDriftStdDev ||
		(in.Forecast.Sustainability.AvgIntegrity < cfg.SustainabilityFloor &&
			in.Forecast.Goal.ProjectedDate == nil)

	avgIntegrity := in.Failure.AvgIntegrity
	switch {
	case report.Status == StatusRed && in.Failure.HighMissRate:
		report.RecommendedCycleDays = cfg.RecoveryCycleDays
	case report.Status == StatusGreen && avgIntegrity > cfg.SprintIntegrity && in.OverflowCount == 0:
		report.RecommendedCycleDays = cfg.SprintCycleDays
	default:
		report.RecommendedCycleDays = cfg.DefaultCycleDays
	}

	maxTasks := int(math.Round(float64(cfg.BaseTasksPerCycle) * in.Failure.Throughput.Factor))
	if maxTasks < cfg.MinTasksPerCycle {
		maxTasks = cfg.MinTasksPerCycle
	}
	if maxTasks > cfg.MaxTasksPerCycle {
		maxTasks = cfg.MaxTasksPerCycle
	}
	report.RecommendedMaxTasksPerCycle = maxTasks

	// Reset only fires on a plateau: red status, bottomed-out average,
	// and no capability movement to speak of.
	report.EnforceIdentityReset = report.Status == StatusRed &&
		avgIntegrity < cfg.RedIntegrity &&
		in.Forecast.Volatility.DeltaStdDev < cfg.ResetDeltaStdDev

	offTrack := in.Forecast.Goal.OnTrack != nil && !*in.Forecast.Goal.OnTrack
	stalled := in.Forecast.Goal.ProjectedDate == nil &&
		in.HistoryLength >= cfg.ReviewMinHistoryLen &&
		avgIntegrity < cfg.ReviewIntegrity
	report.EnforceGoalReview = offTrack || stalled ||
		(report.Status == StatusRed && in.Failure.HighMissRate)

	return report
}
