package pipeline

import (
	"time"

	"github.com/praxislabs/praxis/internal/calendar"
	"github.com/praxislabs/praxis/internal/compression"
	"github.com/praxislabs/praxis/internal/failure"
	"github.com/praxislabs/praxis/internal/forecast"
	"github.com/praxislabs/praxis/internal/governance"
	"github.com/praxislabs/praxis/internal/health"
	"github.com/praxislabs/praxis/internal/portfolio"
	"github.com/praxislabs/praxis/internal/schedule"
	"github.com/praxislabs/praxis/internal/types"
)

// Error codes set on a neutral result.
const (
	ErrCodeInvalidGoal     = "invalid_goal"
	ErrCodeInvalidIdentity = "invalid_identity"
)

// Input is the snapshot a cycle runs against. The pipeline never
// mutates any of it; callers own persistence and the single-writer
// guarantee on these documents.
type Input struct {
	Goal     *types.Goal
	Identity []types.CapabilityLevel

	// Tasks is the prior cycle's task list with externally reported
	// statuses.
	Tasks []types.Task

	// History is the append-only record of past cycles.
	History []types.CycleHistoryEntry

	// Now is the single time source for the whole cycle.
	Now time.Time

	// CycleDays is the planning window length; 0 means the default 7.
	CycleDays int
}

// Analysis groups the per-engine reports in the cycle result.
type Analysis struct {
	Failure           failure.Analysis     `json:"failure"`
	Forecast          forecast.Report      `json:"forecast"`
	SystemHealth      health.Report        `json:"system_health"`
	Milestones        []calendar.Milestone `json:"milestones,omitempty"`
	StrategicCalendar calendar.Calendar    `json:"strategic_calendar"`
	CompressedPlan    compression.Result   `json:"compressed_plan"`
	Portfolio         portfolio.Analysis   `json:"portfolio"`
	CycleGovernance   governance.Result    `json:"cycle_governance"`
}

// Result is everything one cycle produces. A validation failure yields
// a neutral result with ErrorCode set instead of an error: callers can
// tell "cycle produced no changes" apart from a crash.
type Result struct {
	ErrorCode string `json:"error_code,omitempty"`

	// Tasks is the next cycle's task list: every kept candidate,
	// pending, ordered by compression score.
	Tasks []types.Task `json:"tasks"`

	TaskBoard TaskBoard             `json:"task_board"`
	Schedule  schedule.Result       `json:"schedule"`
	Analysis  Analysis              `json:"analysis"`
	Integrity types.IntegrityReport `json:"integrity"`
	Gaps      []types.CapabilityGap `json:"gaps"`

	// Identity is the post-cycle identity after folding task outcomes.
	Identity []types.CapabilityLevel `json:"identity"`

	// History is the input history plus this cycle's new entry.
	History []types.CycleHistoryEntry `json:"history"`
}

// DomainStatus classifies a board entry's domain within the portfolio.
type DomainStatus string

const (
	DomainBalanced DomainStatus = "balanced"
	DomainDominant DomainStatus = "dominant"
)

// BoardEntry is one task's row on the cycle task board.
type BoardEntry struct {
	Task               types.Task         `json:"task"`
	Decision           compression.Action `json:"decision"`
	Score              float64            `json:"score"`
	GovernanceEligible bool               `json:"governance_eligible"`
	Scheduled          bool               `json:"scheduled"`
	Overflow           bool               `json:"overflow"`
	DomainStatus       DomainStatus       `json:"domain_status"`
	Reasons            []string           `json:"reasons"`
}

// BoardSummary is the count rollup across board entries.
type BoardSummary struct {
	Kept               int `json:"kept"`
	Deferred           int `json:"deferred"`
	Dropped            int `json:"dropped"`
	Scheduled          int `json:"scheduled"`
	Overflow           int `json:"overflow"`
	GovernanceEligible int `json:"governance_eligible"`
}

// TaskBoard presents every candidate with its decision and context.
type TaskBoard struct {
	Entries []BoardEntry `json:"entries"`
	Summary BoardSummary `json:"summary"`
}
