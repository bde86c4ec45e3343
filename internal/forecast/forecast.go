// Package forecast projects capability and goal trajectories from the
// history window. Projections are deliberately conservative: a
// capability gets a projected date only when at least two delta samples
// exist and their average is positive. A single data point, or a flat or
// negative trend, yields no projection rather than a wild extrapolation.
package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/praxislabs/praxis/internal/config"
	"github.com/praxislabs/praxis/internal/types"
)

// CapabilityForecast is the projection for one required capability.
type CapabilityForecast struct {
	Domain       string  `json:"domain"`
	Capability   string  `json:"capability"`
	CurrentLevel float64 `json:"current_level"`
	TargetLevel  float64 `json:"target_level"`
	Gap          float64 `json:"gap"`
	AvgDelta     float64 `json:"avg_delta"`
	SampleCount  int     `json:"sample_count"`

	// CyclesToTarget is 0 when the target is already met and meaningful
	// only when ProjectedDate is set.
	CyclesToTarget int        `json:"cycles_to_target"`
	ProjectedDate  *time.Time `json:"projected_date,omitempty"`

	// Feasible is true when the target is met or a projection exists.
	Feasible bool `json:"feasible"`
}

// GoalForecast aggregates capability projections to the goal level.
type GoalForecast struct {
	// CyclesToTarget is the weight-averaged cycles across capabilities
	// with a feasible projection; nil when nothing is projectable.
	CyclesToTarget *float64   `json:"cycles_to_target,omitempty"`
	ProjectedDate  *time.Time `json:"projected_date,omitempty"`

	// OnTrack is nil (unknown) unless both a projected date and a goal
	// deadline exist.
	OnTrack *bool `json:"on_track,omitempty"`
}

// Volatility measures how unstable recent cycles have been.
type Volatility struct {
	IntegrityStdDev float64 `json:"integrity_stddev"`
	DeltaStdDev     float64 `json:"delta_stddev"`
}

// Sustainability measures whether the current pace can continue.
type Sustainability struct {
	AvgIntegrity      float64 `json:"avg_integrity"`
	AvgDeltaMagnitude float64 `json:"avg_delta_magnitude"`
}

// Report is the full forecast for one cycle.
type Report struct {
	CycleDays      float64              `json:"cycle_days"`
	Capabilities   []CapabilityForecast `json:"capabilities"`
	Goal           GoalForecast         `json:"goal"`
	Volatility     Volatility           `json:"volatility"`
	Sustainability Sustainability       `json:"sustainability"`
}

// Project builds the forecast for every goal requirement. The identity
// snapshot supplies current levels when the history window has no record
// of a capability.
func Project(goal *types.Goal, identity []types.CapabilityLevel, history []types.CycleHistoryEntry, windowSize int, cfg config.ForecastConfig) Report {
	window := history
	if len(window) > windowSize {
		window = window[len(window)-windowSize:]
	}

	report := Report{
		CycleDays: avgCycleDays(window, cfg.DefaultCycleDays),
	}

	levels := make(map[string]float64, len(identity))
	for _, cap := range identity {
		levels[cap.Key()] = cap.Level
	}

	var lastTimestamp time.Time
	if len(window) > 0 {
		lastTimestamp = window[len(window)-1].Timestamp
	}

	reqs := append([]types.CapabilityRequirement(nil), goal.Requirements...)
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].Domain != reqs[j].Domain {
			return reqs[i].Domain < reqs[j].Domain
		}
		return reqs[i].Capability < reqs[j].Capability
	})

	var weightedCycles, weightSum float64
	for _, req := range reqs {
		cf := projectCapability(req, window, levels, report.CycleDays, lastTimestamp)
		report.Capabilities = append(report.Capabilities, cf)
		if cf.Feasible {
			weightedCycles += float64(cf.CyclesToTarget) * req.Weight
			weightSum += req.Weight
		}
	}

	if weightSum > 0 {
		cycles := weightedCycles / weightSum
		report.Goal.CyclesToTarget = &cycles
		if len(window) > 0 {
			projected := lastTimestamp.Add(time.Duration(cycles*report.CycleDays*24) * time.Hour)
			report.Goal.ProjectedDate = &projected
		}
	}
	if report.Goal.ProjectedDate != nil && goal.Deadline != nil {
		onTrack := !report.Goal.ProjectedDate.After(*goal.Deadline)
		report.Goal.OnTrack = &onTrack
	}

	report.Volatility = windowVolatility(window)
	report.Sustainability = windowSustainability(window)
	return report
}

func projectCapability(req types.CapabilityRequirement, window []types.CycleHistoryEntry, identity map[string]float64, cycleDays float64, lastTimestamp time.Time) CapabilityForecast {
	key := req.Domain + "/" + req.Capability

	var deltas []float64
	var fromChanges, fromSnapshots float64
	var haveChange, haveSnapshot bool
	for _, entry := range window {
		for _, change := range entry.Changes {
			if change.Domain == req.Domain && change.Capability == req.Capability {
				deltas = append(deltas, change.Delta)
				fromChanges, haveChange = change.After, true
			}
		}
		for _, cap := range entry.IdentityAfter {
			if cap.Domain == req.Domain && cap.Capability == req.Capability {
				fromSnapshots, haveSnapshot = cap.Level, true
			}
		}
	}

	// Change records are authoritative; identity-after snapshots and the
	// live identity are fallbacks, in that order.
	latest := identity[key]
	if haveChange {
		latest = fromChanges
	} else if haveSnapshot {
		latest = fromSnapshots
	}

	cf := CapabilityForecast{
		Domain:       req.Domain,
		Capability:   req.Capability,
		CurrentLevel: latest,
		TargetLevel:  req.TargetLevel,
		Gap:          req.TargetLevel - latest,
		SampleCount:  len(deltas),
	}

	if cf.Gap <= 0 {
		cf.Feasible = true
		return cf
	}

	if len(deltas) >= 2 {
		var sum float64
		for _, d := range deltas {
			sum += d
		}
		cf.AvgDelta = sum / float64(len(deltas))
		if cf.AvgDelta > 0 {
			cf.CyclesToTarget = int(math.Ceil(cf.Gap / cf.AvgDelta))
			projected := lastTimestamp.Add(time.Duration(float64(cf.CyclesToTarget)*cycleDays*24) * time.Hour)
			cf.ProjectedDate = &projected
			cf.Feasible = true
		}
	}
	return cf
}

// avgCycleDays averages the gaps between consecutive window timestamps,
// defaulting when fewer than two points exist.
func avgCycleDays(window []types.CycleHistoryEntry, defaultDays float64) float64 {
	if len(window) < 2 {
		return defaultDays
	}
	var total float64
	for i := 1; i < len(window); i++ {
		total += window[i].Timestamp.Sub(window[i-1].Timestamp).Hours() / 24
	}
	days := total / float64(len(window)-1)
	if days <= 0 {
		return defaultDays
	}
	return days
}

func windowVolatility(window []types.CycleHistoryEntry) Volatility {
	scores := make([]float64, 0, len(window))
	var deltas []float64
	for _, entry := range window {
		scores = append(scores, float64(entry.Integrity.Score))
		for _, change := range entry.Changes {
			deltas = append(deltas, change.Delta)
		}
	}
	return Volatility{
		IntegrityStdDev: stddev(scores),
		DeltaStdDev:     stddev(deltas),
	}
}

func windowSustainability(window []types.CycleHistoryEntry) Sustainability {
	if len(window) == 0 {
		return Sustainability{}
	}
	var sumScore, sumMag float64
	var deltaCount int
	for _, entry := range window {
		sumScore += float64(entry.Integrity.Score)
		for _, change := range entry.Changes {
			sumMag += math.Abs(change.Delta)
			deltaCount++
		}
	}
	s := Sustainability{AvgIntegrity: sumScore / float64(len(window))}
	if deltaCount > 0 {
		s.AvgDeltaMagnitude = sumMag / float64(deltaCount)
	}
	return s
}

// stddev returns the population standard deviation, 0 for fewer than
// two samples.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)))
}
