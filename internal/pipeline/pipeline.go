// Package pipeline sequences the cycle engines in a fixed order and
// assembles the cycle result. The orchestration order is a contract:
// scoring, identity fold, failure analysis, forecast, gap ranking, task
// generation, strategic calendar, scheduling, health classification,
// compression, portfolio, governance, board assembly. Health reads the
// schedule's overflow numbers, and governance caps what compression
// kept, so the order is load-bearing.
package pipeline

import (
	"time"

	"github.com/praxislabs/praxis/internal/calendar"
	"github.com/praxislabs/praxis/internal/compression"
	"github.com/praxislabs/praxis/internal/config"
	"github.com/praxislabs/praxis/internal/failure"
	"github.com/praxislabs/praxis/internal/forecast"
	"github.com/praxislabs/praxis/internal/gaps"
	"github.com/praxislabs/praxis/internal/governance"
	"github.com/praxislabs/praxis/internal/health"
	"github.com/praxislabs/praxis/internal/portfolio"
	"github.com/praxislabs/praxis/internal/schedule"
	"github.com/praxislabs/praxis/internal/scoring"
	"github.com/praxislabs/praxis/internal/types"
)

// Advisor is the optional LLM suggestion layer. It consumes a finished
// cycle result and may annotate it with free-form suggestions; it holds
// no decision logic and the pipeline never depends on its output.
// Implementations live outside this module.
type Advisor interface {
	Suggest(result *Result) ([]string, error)
}

// Run executes one full cycle against the supplied snapshots. It is
// synchronous, performs no I/O, and derives every timestamp from
// input.Now. Identical inputs produce identical results.
func Run(input Input, cfg config.EngineConfig) Result {
	if input.Goal == nil || input.Goal.Validate() != nil {
		return neutralResult(input, ErrCodeInvalidGoal)
	}
	for i := range input.Identity {
		if input.Identity[i].Validate() != nil {
			return neutralResult(input, ErrCodeInvalidIdentity)
		}
	}

	cycleDays := input.CycleDays
	if cycleDays < 1 {
		cycleDays = 7
	}

	// Close out the prior cycle: score it and fold outcomes into the
	// identity.
	integrity := scoring.Compute(input.Tasks, cfg.Scoring)
	identityAfter, changes := applyOutcomes(input.Identity, input.Tasks, cfg.TaskGen)

	entry := types.CycleHistoryEntry{
		Timestamp:      input.Now,
		Integrity:      integrity,
		IdentityBefore: append([]types.CapabilityLevel(nil), input.Identity...),
		IdentityAfter:  append([]types.CapabilityLevel(nil), identityAfter...),
		Changes:        changes,
	}
	history := make([]types.CycleHistoryEntry, 0, len(input.History)+1)
	history = append(history, input.History...)
	history = append(history, entry)

	failureAnalysis := failure.Analyze(input.History, integrity, cfg.Failure)
	forecastReport := forecast.Project(input.Goal, identityAfter, history, cfg.Failure.WindowSize, cfg.Forecast)

	ranked := gaps.Compute(input.Goal, identityAfter)

	// Plan the new cycle: carried-over pending work first, then fresh
	// candidates from the open gaps.
	candidates := carryForward(input.Tasks)
	candidates = append(candidates, generateTasks(ranked, len(history), input.Now, cycleDays, cfg.TaskGen)...)

	cal := calendar.Build(input.Now, cycleDays, input.Goal, candidates, cfg.Calendar)
	sched := schedule.Plan(candidates, input.Now, cycleDays, cfg.Schedule)

	healthReport := health.Classify(health.Inputs{
		Integrity:      integrity,
		Failure:        failureAnalysis,
		Forecast:       forecastReport,
		ScheduledCount: sched.ScheduledCount(),
		OverflowCount:  len(sched.OverflowTasks),
		HistoryLength:  len(history),
	}, cfg.Health)

	compressed := compression.Compress(
		toCandidates(candidates, sched.CycleStart, cycleDays),
		healthReport.RecommendedMaxTasksPerCycle,
		cal.ReadinessFor(0),
		cal.HasMilestones(0),
		cfg.Compression,
	)

	balance := portfolio.Analyze(candidates, cfg.Portfolio)

	gov := governance.Decide(governanceSignals(input, healthReport, failureAnalysis, forecastReport, balance, len(compressed.Kept)), cfg.Governance)

	board := buildBoard(candidates, compressed, sched, balance, gov.AllowedTasks)

	var milestones []calendar.Milestone
	if len(cal.Cycles) > 0 {
		milestones = cal.Cycles[0].Milestones
	}

	return Result{
		Tasks:     keptTasks(candidates, compressed),
		TaskBoard: board,
		Schedule:  sched,
		Analysis: Analysis{
			Failure:           failureAnalysis,
			Forecast:          forecastReport,
			SystemHealth:      healthReport,
			Milestones:        milestones,
			StrategicCalendar: cal,
			CompressedPlan:    compressed,
			Portfolio:         balance,
			CycleGovernance:   gov,
		},
		Integrity: integrity,
		Gaps:      ranked,
		Identity:  identityAfter,
		History:   history,
	}
}

func governanceSignals(input Input, healthReport health.Report, failureAnalysis failure.Analysis, forecastReport forecast.Report, balance portfolio.Analysis, baseAllowed int) governance.Signals {
	signals := governance.Signals{
		Health:               governance.HealthState(healthReport.Status),
		EnforceIdentityReset: healthReport.EnforceIdentityReset,
		EnforceGoalReview:    healthReport.EnforceGoalReview,
		CatchUpCycle:         failureAnalysis.Throughput.EnforceCatchUpCycle,
		HighFailureRate:      failureAnalysis.HighMissRate,
		PortfolioImbalanced:  balance.Imbalanced,
		OnTrack:              forecastReport.Goal.OnTrack,
		HasProjection:        forecastReport.Goal.ProjectedDate != nil,
		BaseAllowed:          baseAllowed,
	}
	if input.Goal.Deadline != nil {
		days := int(input.Goal.Deadline.Sub(input.Now).Hours() / 24)
		signals.DaysToDeadline = &days
	}
	return signals
}

// toCandidates maps generated tasks to compression candidates. Every
// pipeline candidate carries a due date, so DeadlineCycle is always set
// here; undated candidates only occur for external callers of the
// compression package.
func toCandidates(tasks []types.Task, start time.Time, cycleDays int) []compression.Candidate {
	out := make([]compression.Candidate, 0, len(tasks))
	for _, task := range tasks {
		dc := deadlineCycleFor(task.DueDate, start, cycleDays)
		out = append(out, compression.Candidate{
			ID:            task.ID,
			Domain:        task.Domain,
			Capability:    task.Capability,
			ImpactWeight:  task.EstimatedImpact,
			Difficulty:    task.Difficulty,
			DeadlineCycle: &dc,
		})
	}
	return out
}

func keptTasks(candidates []types.Task, compressed compression.Result) []types.Task {
	byID := make(map[string]types.Task, len(candidates))
	for _, task := range candidates {
		byID[task.ID] = task
	}
	out := make([]types.Task, 0, len(compressed.Kept))
	for _, decision := range compressed.Kept {
		out = append(out, byID[decision.TaskID])
	}
	return out
}

func neutralResult(input Input, code string) Result {
	return Result{
		ErrorCode: code,
		Identity:  append([]types.CapabilityLevel(nil), input.Identity...),
		History:   append([]types.CycleHistoryEntry(nil), input.History...),
	}
}
