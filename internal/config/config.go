// Package config holds the engine configuration: every threshold and tier
// table the cycle engines consult. The configuration is an explicit
// immutable value passed into the pipeline call, never ambient global
// state, so cycles stay reproducible under test overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ScoringConfig parameterizes the integrity score computation.
type ScoringConfig struct {
	// DifficultyWeights maps difficulty tier (1-3) to its score weight.
	DifficultyWeights map[int]float64 `yaml:"difficulty_weights"`

	// LateMultiplier discounts the contribution of late completions.
	LateMultiplier float64 `yaml:"late_multiplier"`
}

// FailureConfig parameterizes the failure pattern analyzer.
type FailureConfig struct {
	// WindowSize is how many trailing history entries feed the analysis.
	WindowSize int `yaml:"window_size"`

	// TrendDelta is the score movement across the window that separates
	// improving/declining from stable.
	TrendDelta float64 `yaml:"trend_delta"`

	// HighMissRate flags a window whose miss rate exceeds this.
	HighMissRate float64 `yaml:"high_miss_rate"`

	// HighLateRate flags a window whose late rate exceeds this.
	HighLateRate float64 `yaml:"high_late_rate"`

	// ChronicIntegrity flags a window whose average score falls below this.
	ChronicIntegrity float64 `yaml:"chronic_integrity"`

	// Throughput factors per recommendation tier.
	CatchUpFactor   float64 `yaml:"catch_up_factor"`
	DecreaseFactor  float64 `yaml:"decrease_factor"`
	IncreaseFactor  float64 `yaml:"increase_factor"`
	MinFactor       float64 `yaml:"min_factor"`
	MaxFactor       float64 `yaml:"max_factor"`

	// RegressionDelta marks a per-capability cycle delta as a regression.
	RegressionDelta float64 `yaml:"regression_delta"`

	// StagnationDelta bounds |delta| for the chronic-miss flag.
	StagnationDelta float64 `yaml:"stagnation_delta"`
}

// ForecastConfig parameterizes trajectory projection.
type ForecastConfig struct {
	// DefaultCycleDays is assumed between cycles when history has fewer
	// than two timestamps.
	DefaultCycleDays float64 `yaml:"default_cycle_days"`
}

// HealthConfig parameterizes the system health classifier.
type HealthConfig struct {
	RedIntegrity    float64 `yaml:"red_integrity"`
	YellowIntegrity float64 `yaml:"yellow_integrity"`

	// Volatility ceilings before the cycle is flagged unstable.
	IntegrityStdDevLimit float64 `yaml:"integrity_stddev_limit"`
	DeltaStdDevLimit     float64 `yaml:"delta_stddev_limit"`

	// Drift thresholds.
	ExecutionDriftStdDev   float64 `yaml:"execution_drift_stddev"`
	SustainabilityFloor    float64 `yaml:"sustainability_floor"`
	StructuralDriftMaxsched int    `yaml:"structural_drift_max_scheduled"`

	// Cycle length recommendations.
	RecoveryCycleDays int `yaml:"recovery_cycle_days"`
	SprintCycleDays   int `yaml:"sprint_cycle_days"`
	DefaultCycleDays  int `yaml:"default_cycle_days"`
	SprintIntegrity   float64 `yaml:"sprint_integrity"`

	// Task throughput recommendation bounds.
	BaseTasksPerCycle int `yaml:"base_tasks_per_cycle"`
	MinTasksPerCycle  int `yaml:"min_tasks_per_cycle"`
	MaxTasksPerCycle  int `yaml:"max_tasks_per_cycle"`

	// Identity reset fires only when performance is flat at the bottom.
	ResetDeltaStdDev float64 `yaml:"reset_delta_stddev"`

	// Goal review fires on long stalls below this average score.
	ReviewIntegrity     float64 `yaml:"review_integrity"`
	ReviewMinHistoryLen int     `yaml:"review_min_history_len"`
}

// ScheduleConfig parameterizes the temporal scheduler.
type ScheduleConfig struct {
	SlotsPerDay         int `yaml:"slots_per_day"`
	SlotCapacityMinutes int `yaml:"slot_capacity_minutes"`

	// DurationMinutes maps difficulty tier to task duration.
	DurationMinutes map[int]int `yaml:"duration_minutes"`

	// PriorityImpact is the floor for a task to claim the day-0
	// "power of today" attempt.
	PriorityImpact float64 `yaml:"priority_impact"`
}

// CompressionConfig parameterizes the keep/defer/drop decision.
type CompressionConfig struct {
	HeavyMultiplier  float64 `yaml:"heavy_multiplier"`
	LightMultiplier  float64 `yaml:"light_multiplier"`
	NormalMultiplier float64 `yaml:"normal_multiplier"`

	MinAllowed int `yaml:"min_allowed"`
	MaxAllowed int `yaml:"max_allowed"`

	ImpactWeight     float64 `yaml:"impact_weight"`
	DeadlineWeight   float64 `yaml:"deadline_weight"`
	DifficultyWeight float64 `yaml:"difficulty_weight"`
	AlignmentWeight  float64 `yaml:"alignment_weight"`

	HighImpact float64 `yaml:"high_impact"`

	// DeferScore is the minimum score for an undated leftover task to be
	// deferred instead of dropped.
	DeferScore float64 `yaml:"defer_score"`
}

// GovernanceConfig parameterizes the throughput state machine.
type GovernanceConfig struct {
	// Conserve-mode scale factors by severity.
	ConserveHighScale   float64 `yaml:"conserve_high_scale"`
	ConserveMediumScale float64 `yaml:"conserve_medium_scale"`

	// ReviewTaskCap bounds throughput in reset/review modes.
	ReviewTaskCap int `yaml:"review_task_cap"`

	// DeadlineThreatDays is how close a goal deadline must be, with a
	// projection present, to count as a deadline threat.
	DeadlineThreatDays int `yaml:"deadline_threat_days"`
}

// CalendarConfig parameterizes readiness classification.
type CalendarConfig struct {
	// HeavyMilestones marks a cycle heavy at or above this count.
	HeavyMilestones int `yaml:"heavy_milestones"`

	// Horizon is how many upcoming cycles the strategic calendar covers.
	HorizonCycles int `yaml:"horizon_cycles"`
}

// PortfolioConfig parameterizes domain balance analysis.
type PortfolioConfig struct {
	// DominanceShare flags the portfolio imbalanced when one domain
	// exceeds this share of candidate tasks.
	DominanceShare float64 `yaml:"dominance_share"`
}

// TaskGenConfig parameterizes candidate task generation from gaps.
type TaskGenConfig struct {
	// MaxCandidates caps how many gap-derived tasks one cycle proposes.
	MaxCandidates int `yaml:"max_candidates"`

	// Difficulty tier boundaries on raw gap size.
	HardGap     float64 `yaml:"hard_gap"`
	ModerateGap float64 `yaml:"moderate_gap"`

	// Level movement applied when task outcomes are folded back into
	// the identity at cycle close.
	OnTimeGain float64 `yaml:"on_time_gain"`
	LateGain   float64 `yaml:"late_gain"`
	MissLoss   float64 `yaml:"miss_loss"`
}

// EngineConfig aggregates every engine's tunables.
type EngineConfig struct {
	Scoring     ScoringConfig     `yaml:"scoring"`
	Failure     FailureConfig     `yaml:"failure"`
	Forecast    ForecastConfig    `yaml:"forecast"`
	Health      HealthConfig      `yaml:"health"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	Compression CompressionConfig `yaml:"compression"`
	Governance  GovernanceConfig  `yaml:"governance"`
	Calendar    CalendarConfig    `yaml:"calendar"`
	Portfolio   PortfolioConfig   `yaml:"portfolio"`
	TaskGen     TaskGenConfig     `yaml:"taskgen"`
}

// Default returns the engine configuration with standard thresholds.
func Default() EngineConfig {
	return EngineConfig{
		Scoring: ScoringConfig{
			DifficultyWeights: map[int]float64{1: 0.8, 2: 1.0, 3: 1.2},
			LateMultiplier:    0.7,
		},
		Failure: FailureConfig{
			WindowSize:       3,
			TrendDelta:       10,
			HighMissRate:     0.4,
			HighLateRate:     0.4,
			ChronicIntegrity: 40,
			CatchUpFactor:    0.5,
			DecreaseFactor:   0.7,
			IncreaseFactor:   1.2,
			MinFactor:        0.4,
			MaxFactor:        1.5,
			RegressionDelta:  -0.2,
			StagnationDelta:  0.1,
		},
		Forecast: ForecastConfig{
			DefaultCycleDays: 7,
		},
		Health: HealthConfig{
			RedIntegrity:            40,
			YellowIntegrity:         60,
			IntegrityStdDevLimit:    15,
			DeltaStdDevLimit:        0.8,
			ExecutionDriftStdDev:    20,
			SustainabilityFloor:     50,
			StructuralDriftMaxsched: 10,
			RecoveryCycleDays:       14,
			SprintCycleDays:         5,
			DefaultCycleDays:        7,
			SprintIntegrity:         75,
			BaseTasksPerCycle:       10,
			MinTasksPerCycle:        4,
			MaxTasksPerCycle:        20,
			ResetDeltaStdDev:        0.3,
			ReviewIntegrity:         50,
			ReviewMinHistoryLen:     5,
		},
		Schedule: ScheduleConfig{
			SlotsPerDay:         4,
			SlotCapacityMinutes: 60,
			DurationMinutes:     map[int]int{1: 30, 2: 60, 3: 90},
			PriorityImpact:      0.7,
		},
		Compression: CompressionConfig{
			HeavyMultiplier:  0.7,
			LightMultiplier:  1.2,
			NormalMultiplier: 1.0,
			MinAllowed:       3,
			MaxAllowed:       25,
			ImpactWeight:     0.5,
			DeadlineWeight:   0.3,
			DifficultyWeight: 0.1,
			AlignmentWeight:  0.1,
			HighImpact:       0.7,
			DeferScore:       0.4,
		},
		Governance: GovernanceConfig{
			ConserveHighScale:   0.4,
			ConserveMediumScale: 0.7,
			ReviewTaskCap:       2,
			DeadlineThreatDays:  30,
		},
		Calendar: CalendarConfig{
			HeavyMilestones: 4,
			HorizonCycles:   4,
		},
		Portfolio: PortfolioConfig{
			DominanceShare: 0.6,
		},
		TaskGen: TaskGenConfig{
			MaxCandidates: 8,
			HardGap:       3.0,
			ModerateGap:   1.5,
			OnTimeGain:    0.3,
			LateGain:      0.15,
			MissLoss:      0.05,
		},
	}
}

// Load reads .praxis/engine.yaml under root and overlays it onto the
// defaults. A missing file returns the defaults unchanged.
func Load(root string) (EngineConfig, error) {
	cfg := Default()

	path := filepath.Join(root, ".praxis", "engine.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}
