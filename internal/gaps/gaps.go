// Package gaps computes per-cycle capability gaps: the deficit between
// what the goal requires and where the identity currently stands.
package gaps

import (
	"sort"

	"github.com/praxislabs/praxis/internal/types"
)

// Compute derives a ranked gap list from the goal requirements and the
// current identity. Gaps are ranked by weighted gap descending, with a
// lexicographic (domain, capability) tie-break so ranking is stable.
// The list is rebuilt every cycle and never persisted.
func Compute(goal *types.Goal, identity []types.CapabilityLevel) []types.CapabilityGap {
	levels := make(map[string]float64, len(identity))
	for _, cap := range identity {
		levels[cap.Key()] = cap.Level
	}

	result := make([]types.CapabilityGap, 0, len(goal.Requirements))
	for _, req := range goal.Requirements {
		current := levels[req.Domain+"/"+req.Capability]
		raw := req.TargetLevel - current
		if raw < 0 {
			raw = 0
		}
		result = append(result, types.CapabilityGap{
			Domain:       req.Domain,
			Capability:   req.Capability,
			TargetLevel:  req.TargetLevel,
			CurrentLevel: current,
			Weight:       req.Weight,
			RawGap:       raw,
			WeightedGap:  raw * req.Weight,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].WeightedGap != result[j].WeightedGap {
			return result[i].WeightedGap > result[j].WeightedGap
		}
		if result[i].Domain != result[j].Domain {
			return result[i].Domain < result[j].Domain
		}
		return result[i].Capability < result[j].Capability
	})
	for i := range result {
		result[i].Rank = i + 1
	}
	return result
}
