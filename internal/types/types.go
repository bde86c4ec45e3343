// Package types defines the core data model shared by every cycle engine:
// goals, identity capabilities, tasks, and cycle history.
package types

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus represents the outcome state of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
	StatusMissed    TaskStatus = "missed"
)

// IsValid checks if the status value is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusMissed:
		return true
	}
	return false
}

// GoalType classifies what kind of goal is being pursued.
type GoalType string

const (
	GoalOutcome  GoalType = "outcome"  // Measurable end state
	GoalProcess  GoalType = "process"  // Sustained practice or habit
	GoalLearning GoalType = "learning" // Capability acquisition
)

// IsValid checks if the goal type value is valid
func (g GoalType) IsValid() bool {
	switch g {
	case GoalOutcome, GoalProcess, GoalLearning:
		return true
	}
	return false
}

// MetricKind distinguishes how goal progress is measured.
type MetricKind string

const (
	MetricNumeric MetricKind = "numeric"
	MetricBinary  MetricKind = "binary"
)

// IsValid checks if the metric kind value is valid
func (m MetricKind) IsValid() bool {
	switch m {
	case MetricNumeric, MetricBinary:
		return true
	}
	return false
}

// Metric is an optional quantitative measure attached to a goal.
type Metric struct {
	Kind    MetricKind `json:"kind"`
	Target  float64    `json:"target"`
	Current float64    `json:"current"`
	Unit    string     `json:"unit,omitempty"`
}

// CapabilityRequirement states the level a goal demands from one
// identity capability, and how much that capability matters to the goal.
type CapabilityRequirement struct {
	Domain      string  `json:"domain"`
	Capability  string  `json:"capability"`
	TargetLevel float64 `json:"target_level"`
	Weight      float64 `json:"weight"` // Relative importance in [0,1]
}

// Validate checks if the requirement has valid field values
func (r *CapabilityRequirement) Validate() error {
	if strings.TrimSpace(r.Domain) == "" {
		return fmt.Errorf("domain is required")
	}
	if strings.TrimSpace(r.Capability) == "" {
		return fmt.Errorf("capability is required")
	}
	if r.TargetLevel < 1 || r.TargetLevel > 10 {
		return fmt.Errorf("target_level must be between 1 and 10 (got %g)", r.TargetLevel)
	}
	if r.Weight < 0 || r.Weight > 1 {
		return fmt.Errorf("weight must be between 0 and 1 (got %g)", r.Weight)
	}
	return nil
}

// Goal is the validated goal document a cycle runs against.
// Goal-text validation and classification happen upstream; by the time a
// Goal reaches the core it must pass Validate.
type Goal struct {
	ID           string                  `json:"id"`
	Outcome      string                  `json:"outcome"`
	Type         GoalType                `json:"type"`
	Metric       *Metric                 `json:"metric,omitempty"`
	Deadline     *time.Time              `json:"deadline,omitempty"`
	Requirements []CapabilityRequirement `json:"requirements"`
	CreatedAt    time.Time               `json:"created_at"`
}

// Validate checks if the goal has valid field values
func (g *Goal) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(g.Outcome) == "" {
		return fmt.Errorf("outcome is required")
	}
	if len(g.Outcome) > 500 {
		return fmt.Errorf("outcome must be 500 characters or less (got %d)", len(g.Outcome))
	}
	if !g.Type.IsValid() {
		return fmt.Errorf("invalid goal type: %s", g.Type)
	}
	if g.Metric != nil && !g.Metric.Kind.IsValid() {
		return fmt.Errorf("invalid metric kind: %s", g.Metric.Kind)
	}
	if len(g.Requirements) == 0 {
		return fmt.Errorf("at least one capability requirement is required")
	}
	for i := range g.Requirements {
		if err := g.Requirements[i].Validate(); err != nil {
			return fmt.Errorf("requirement %d: %w", i, err)
		}
	}
	return nil
}

// CapabilityLevel is one entry of the identity state: the current level
// of a single capability within a domain. Levels live on a 1-10 scale.
type CapabilityLevel struct {
	Domain     string  `json:"domain"`
	Capability string  `json:"capability"`
	Level      float64 `json:"level"`
}

// Validate checks if the capability level has valid field values
func (c *CapabilityLevel) Validate() error {
	if strings.TrimSpace(c.Domain) == "" {
		return fmt.Errorf("domain is required")
	}
	if strings.TrimSpace(c.Capability) == "" {
		return fmt.Errorf("capability is required")
	}
	if c.Level < 1 || c.Level > 10 {
		return fmt.Errorf("level must be between 1 and 10 (got %g)", c.Level)
	}
	return nil
}

// Key returns the canonical "domain/capability" identifier used to join
// identity entries, requirements, and history deltas.
func (c CapabilityLevel) Key() string {
	return c.Domain + "/" + c.Capability
}

// Task represents a single unit of cycle work. Tasks are owned by the
// cycle that generated them; Status and OnTime are mutated externally
// between cycles as the user reports outcomes.
type Task struct {
	ID              string     `json:"id"`
	Domain          string     `json:"domain"`
	Capability      string     `json:"capability"`
	Title           string     `json:"title,omitempty"`
	Difficulty      int        `json:"difficulty"`       // 1, 2, or 3
	EstimatedImpact float64    `json:"estimated_impact"` // [0,1]
	DueDate         time.Time  `json:"due_date"`
	Status          TaskStatus `json:"status"`
	OnTime          bool       `json:"on_time"` // Only meaningful when Status is completed
}

// Validate checks if the task has valid field values
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if t.Difficulty < 1 || t.Difficulty > 3 {
		return fmt.Errorf("difficulty must be between 1 and 3 (got %d)", t.Difficulty)
	}
	if t.EstimatedImpact < 0 || t.EstimatedImpact > 1 {
		return fmt.Errorf("estimated_impact must be between 0 and 1 (got %g)", t.EstimatedImpact)
	}
	if t.DueDate.IsZero() {
		return fmt.Errorf("due_date is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", t.Status)
	}
	return nil
}

// CapabilityGap is the per-cycle deficit between a required capability
// level and the current identity level. Gaps are recomputed every cycle
// and never persisted.
type CapabilityGap struct {
	Domain       string  `json:"domain"`
	Capability   string  `json:"capability"`
	TargetLevel  float64 `json:"target_level"`
	CurrentLevel float64 `json:"current_level"`
	Weight       float64 `json:"weight"`
	RawGap       float64 `json:"raw_gap"`      // max(target-current, 0)
	WeightedGap  float64 `json:"weighted_gap"` // RawGap * Weight
	Rank         int     `json:"rank"`         // 1-based, by WeightedGap descending
}
