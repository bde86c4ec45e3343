package types

import "time"

// IntegrityReport is the scored outcome of one cycle's task set.
// Score is always in [0,100].
type IntegrityReport struct {
	Score           int     `json:"score"`
	CompletedCount  int     `json:"completed_count"`
	CompletedOnTime int     `json:"completed_on_time"`
	CompletedLate   int     `json:"completed_late"`
	MissedCount     int     `json:"missed_count"`
	PendingCount    int     `json:"pending_count"`
	RawTotal        float64 `json:"raw_total"`
	MaxPossible     float64 `json:"max_possible"`
}

// CompletionRate returns completed tasks over all tasks in the cycle,
// 0 when the cycle had no tasks.
func (r *IntegrityReport) CompletionRate() float64 {
	total := r.CompletedCount + r.MissedCount + r.PendingCount
	if total == 0 {
		return 0
	}
	return float64(r.CompletedCount) / float64(total)
}

// OnTimeRate returns on-time completions over all completions,
// 0 when nothing was completed.
func (r *IntegrityReport) OnTimeRate() float64 {
	if r.CompletedCount == 0 {
		return 0
	}
	return float64(r.CompletedOnTime) / float64(r.CompletedCount)
}

// LateRate returns late completions over all completions,
// 0 when nothing was completed.
func (r *IntegrityReport) LateRate() float64 {
	done := r.CompletedOnTime + r.CompletedLate
	if done == 0 {
		return 0
	}
	return float64(r.CompletedLate) / float64(done)
}

// CapabilityChange records how one capability level moved during a cycle.
type CapabilityChange struct {
	Domain     string  `json:"domain"`
	Capability string  `json:"capability"`
	Before     float64 `json:"before"`
	After      float64 `json:"after"`
	Delta      float64 `json:"delta"`
}

// CycleHistoryEntry is one append-only record of a completed cycle.
// Entries are immutable once written; engines read them as snapshots
// and never modify them.
type CycleHistoryEntry struct {
	Timestamp      time.Time         `json:"timestamp"`
	Integrity      IntegrityReport   `json:"integrity"`
	IdentityBefore []CapabilityLevel `json:"identity_before"`
	IdentityAfter  []CapabilityLevel `json:"identity_after"`
	Changes        []CapabilityChange `json:"changes"`
}
