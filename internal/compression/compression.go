// Package compression makes the capacity-constrained keep/defer/drop
// decision over candidate tasks. Its output partitions the input: every
// candidate lands in exactly one of kept, deferred, or dropped.
package compression

import (
	"math"
	"sort"

	"github.com/praxislabs/praxis/internal/calendar"
	"github.com/praxislabs/praxis/internal/config"
)

// Action is the compression verdict for one candidate.
type Action string

const (
	ActionKeep  Action = "keep"
	ActionDefer Action = "defer"
	ActionDrop  Action = "drop"
)

// Reason codes attached to decisions.
const (
	ReasonKeptWithinCapacity = "kept_within_capacity"
	ReasonHighImpact         = "high_impact"
	ReasonDeadlineNowOrPast  = "deadline_now_or_past"
	ReasonDeadlineSoon       = "deadline_soon"
	ReasonHighDifficulty     = "high_difficulty"
	ReasonDeferredToDeadline = "deferred_to_deadline_window"
	ReasonDeadlineExpired    = "deadline_expired"
	ReasonDeferredNextCycle  = "deferred_next_cycle"
	ReasonLowScore           = "low_score"
)

// Candidate is one task proposed for the upcoming cycle.
type Candidate struct {
	ID           string  `json:"id"`
	Domain       string  `json:"domain"`
	Capability   string  `json:"capability"`
	ImpactWeight float64 `json:"impact_weight"`
	Difficulty   int     `json:"difficulty"`

	// DeadlineCycle counts cycles until the candidate is due: 0 for this
	// cycle, 1 for the next, negative when overdue. Nil when undated.
	DeadlineCycle *int `json:"deadline_cycle,omitempty"`
}

// Decision records what happened to one candidate and why.
type Decision struct {
	TaskID      string   `json:"task_id"`
	Score       float64  `json:"score"`
	Action      Action   `json:"action"`
	TargetCycle *int     `json:"target_cycle,omitempty"` // Set for deferrals
	ReasonCodes []string `json:"reason_codes"`
}

// Result is the full compression outcome. Kept, Deferred, and Dropped
// are disjoint and together cover every input candidate.
type Result struct {
	MaxAllowed int        `json:"max_allowed"`
	Kept       []Decision `json:"kept"`
	Deferred   []Decision `json:"deferred"`
	Dropped    []Decision `json:"dropped"`
}

// Decisions returns the concatenated partitions.
func (r *Result) Decisions() []Decision {
	out := make([]Decision, 0, len(r.Kept)+len(r.Deferred)+len(r.Dropped))
	out = append(out, r.Kept...)
	out = append(out, r.Deferred...)
	out = append(out, r.Dropped...)
	return out
}

// Compress scores the candidates and keeps the top maxAllowed, where
// maxAllowed is the governance base cap stretched or shrunk by the
// target cycle's calendar readiness. Leftover candidates are deferred
// toward their deadline window when one exists, deferred one cycle when
// still worth carrying, and dropped otherwise.
func Compress(candidates []Candidate, baseCap int, readiness calendar.Readiness, hasMilestones bool, cfg config.CompressionConfig) Result {
	multiplier := cfg.NormalMultiplier
	switch readiness {
	case calendar.ReadinessHeavy:
		multiplier = cfg.HeavyMultiplier
	case calendar.ReadinessLight:
		multiplier = cfg.LightMultiplier
	}

	maxAllowed := int(math.Round(float64(baseCap) * multiplier))
	if maxAllowed < cfg.MinAllowed {
		maxAllowed = cfg.MinAllowed
	}
	if maxAllowed > cfg.MaxAllowed {
		maxAllowed = cfg.MaxAllowed
	}

	scored := make([]Decision, 0, len(candidates))
	byID := make(map[string]Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
		scored = append(scored, Decision{
			TaskID: c.ID,
			Score:  score(c, hasMilestones, cfg),
		})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].TaskID < scored[j].TaskID
	})

	result := Result{MaxAllowed: maxAllowed}
	for i, decision := range scored {
		c := byID[decision.TaskID]
		if i < maxAllowed {
			decision.Action = ActionKeep
			decision.ReasonCodes = keepReasons(c, cfg)
			result.Kept = append(result.Kept, decision)
			continue
		}
		decision = overflowDecision(decision, c, cfg)
		if decision.Action == ActionDefer {
			result.Deferred = append(result.Deferred, decision)
		} else {
			result.Dropped = append(result.Dropped, decision)
		}
	}
	return result
}

func score(c Candidate, hasMilestones bool, cfg config.CompressionConfig) float64 {
	proximity := 0.0
	if c.DeadlineCycle != nil {
		switch {
		case *c.DeadlineCycle <= 0:
			proximity = 1.0
		case *c.DeadlineCycle == 1:
			proximity = 0.8
		case *c.DeadlineCycle == 2:
			proximity = 0.5
		default:
			proximity = 0.2
		}
	}

	difficulty := 1.0
	if c.Difficulty > 3 {
		difficulty = 0.7
	}

	alignment := 0.8
	if hasMilestones {
		alignment = 1.0
	}

	return c.ImpactWeight*cfg.ImpactWeight +
		proximity*cfg.DeadlineWeight +
		difficulty*cfg.DifficultyWeight +
		alignment*cfg.AlignmentWeight
}

func keepReasons(c Candidate, cfg config.CompressionConfig) []string {
	var reasons []string
	if c.ImpactWeight >= cfg.HighImpact {
		reasons = append(reasons, ReasonHighImpact)
	}
	if c.DeadlineCycle != nil {
		if *c.DeadlineCycle <= 0 {
			reasons = append(reasons, ReasonDeadlineNowOrPast)
		} else if *c.DeadlineCycle == 1 {
			reasons = append(reasons, ReasonDeadlineSoon)
		}
	}
	if c.Difficulty >= 3 {
		reasons = append(reasons, ReasonHighDifficulty)
	}
	return append(reasons, ReasonKeptWithinCapacity)
}

// overflowDecision handles candidates beyond capacity. Deferring to
// deadlineCycle-1 does not reconcile several tasks colliding on the same
// tight window; that collision is a known limitation kept as-is.
func overflowDecision(decision Decision, c Candidate, cfg config.CompressionConfig) Decision {
	switch {
	case c.DeadlineCycle != nil && *c.DeadlineCycle >= 2:
		target := *c.DeadlineCycle - 1
		decision.Action = ActionDefer
		decision.TargetCycle = &target
		decision.ReasonCodes = []string{ReasonDeferredToDeadline}
	case c.DeadlineCycle != nil:
		decision.Action = ActionDrop
		decision.ReasonCodes = []string{ReasonDeadlineExpired}
	case decision.Score >= cfg.DeferScore:
		target := 1
		decision.Action = ActionDefer
		decision.TargetCycle = &target
		decision.ReasonCodes = []string{ReasonDeferredNextCycle}
	default:
		decision.Action = ActionDrop
		decision.ReasonCodes = []string{ReasonLowScore}
	}
	return decision
}
