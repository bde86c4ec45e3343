// Package governance converts the cycle's health, failure, forecast,
// and portfolio signals into a throughput mode and an allowed-task
// count. The machine holds no state between cycles: every call
// recomputes the mode fresh from the signals it is handed.
package governance

import (
	"fmt"
	"math"

	"github.com/praxislabs/praxis/internal/config"
)

// Mode is the cycle throughput mode.
type Mode string

const (
	ModeExecute       Mode = "execute"
	ModeConserve      Mode = "conserve"
	ModeHalt          Mode = "halt"
	ModeResetIdentity Mode = "reset_identity"
	ModeReviewGoal    Mode = "review_goal"
)

// Severity grades how forcefully the mode intervenes.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// HealthState mirrors the health classifier's status without importing it.
type HealthState string

const (
	HealthGreen  HealthState = "green"
	HealthYellow HealthState = "yellow"
	HealthRed    HealthState = "red"
)

// Flags raised on the result.
const (
	FlagIdentityResetEnforced = "identity_reset_enforced"
	FlagGoalReviewEnforced    = "goal_review_enforced"
	FlagCatchUpCycle          = "catch_up_cycle"
)

// Signals are the inputs the state machine decides on. The pipeline
// assembles them from the upstream engine reports.
type Signals struct {
	Health               HealthState
	EnforceIdentityReset bool
	EnforceGoalReview    bool
	CatchUpCycle         bool
	HighFailureRate      bool
	PortfolioImbalanced  bool

	// OnTrack is the forecast's tri-state goal signal; nil means unknown.
	OnTrack *bool

	// HasProjection reports whether any goal projection exists.
	HasProjection bool

	// DaysToDeadline is nil when the goal carries no deadline.
	DaysToDeadline *int

	// BaseAllowed is the kept-task count from compression; the resulting
	// AllowedTasks never exceeds it.
	BaseAllowed int
}

// Result is the governance verdict for one cycle.
type Result struct {
	Mode         Mode     `json:"mode"`
	AllowedTasks int      `json:"allowed_tasks"`
	Severity     Severity `json:"severity"`
	Flags        []string `json:"flags,omitempty"`
	Advisories   []string `json:"advisories"`
}

// Decide runs the precedence chain: identity reset, then goal review,
// then halt, then conserve, then execute. The allowed-task count is
// derived from the compression base and clamped so it never exceeds it.
func Decide(signals Signals, cfg config.GovernanceConfig) Result {
	base := signals.BaseAllowed
	if base < 0 {
		base = 0
	}

	deadlineThreat := signals.OnTrack != nil && !*signals.OnTrack
	if !deadlineThreat && signals.DaysToDeadline != nil && signals.HasProjection &&
		*signals.DaysToDeadline <= cfg.DeadlineThreatDays {
		deadlineThreat = true
	}

	var result Result
	switch {
	case signals.EnforceIdentityReset:
		result.Mode = ModeResetIdentity
		result.Severity = SeverityHigh
		result.AllowedTasks = minInt(base, cfg.ReviewTaskCap)

	case signals.EnforceGoalReview:
		result.Mode = ModeReviewGoal
		result.Severity = SeverityMedium
		result.AllowedTasks = minInt(base, cfg.ReviewTaskCap)

	case signals.Health == HealthRed && signals.HighFailureRate:
		result.Mode = ModeHalt
		result.Severity = SeverityHigh
		result.AllowedTasks = 0

	case signals.Health == HealthRed || signals.HighFailureRate || deadlineThreat:
		result.Mode = ModeConserve
		result.Severity = SeverityMedium
		scale := cfg.ConserveMediumScale
		if signals.Health == HealthRed || (signals.HighFailureRate && deadlineThreat) {
			result.Severity = SeverityHigh
			scale = cfg.ConserveHighScale
		}
		result.AllowedTasks = int(math.Floor(float64(base) * scale))

	default:
		result.Mode = ModeExecute
		result.Severity = SeverityLow
		result.AllowedTasks = base
	}

	if result.AllowedTasks < 0 {
		result.AllowedTasks = 0
	}
	if result.AllowedTasks > base {
		result.AllowedTasks = base
	}

	if signals.EnforceIdentityReset {
		result.Flags = append(result.Flags, FlagIdentityResetEnforced)
	}
	if signals.EnforceGoalReview {
		result.Flags = append(result.Flags, FlagGoalReviewEnforced)
	}
	if signals.CatchUpCycle {
		result.Flags = append(result.Flags, FlagCatchUpCycle)
	}

	result.Advisories = append(result.Advisories, fmt.Sprintf("health_%s", signals.Health))
	if signals.HighFailureRate {
		result.Advisories = append(result.Advisories, "high_failure_rate")
	}
	if deadlineThreat {
		result.Advisories = append(result.Advisories, "deadline_threat")
	}
	if signals.PortfolioImbalanced {
		result.Advisories = append(result.Advisories, "portfolio_imbalanced")
	}
	result.Advisories = append(result.Advisories, fmt.Sprintf("mode_%s", result.Mode))
	if result.AllowedTasks < base {
		result.Advisories = append(result.Advisories,
			fmt.Sprintf("allowed_tasks_reduced_from_%d_to_%d", base, result.AllowedTasks))
	}

	return result
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
