package gaps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxislabs/praxis/internal/types"
)

func TestComputeRanksByWeightedGap(t *testing.T) {
	goal := &types.Goal{
		Requirements: []types.CapabilityRequirement{
			{Domain: "writing", Capability: "prose", TargetLevel: 6, Weight: 0.3},
			{Domain: "engineering", Capability: "go", TargetLevel: 8, Weight: 0.9},
			{Domain: "health", Capability: "sleep", TargetLevel: 5, Weight: 0.5},
		},
	}
	identity := []types.CapabilityLevel{
		{Domain: "engineering", Capability: "go", Level: 4},
		{Domain: "writing", Capability: "prose", Level: 5},
		{Domain: "health", Capability: "sleep", Level: 6},
	}

	result := Compute(goal, identity)
	require.Len(t, result, 3)

	// engineering/go: gap 4 * 0.9 = 3.6 leads.
	assert.Equal(t, "engineering", result[0].Domain)
	assert.Equal(t, 1, result[0].Rank)
	assert.InDelta(t, 3.6, result[0].WeightedGap, 1e-9)

	// writing/prose: gap 1 * 0.3 = 0.3.
	assert.Equal(t, "writing", result[1].Domain)
	assert.InDelta(t, 0.3, result[1].WeightedGap, 1e-9)

	// health/sleep is already above target: raw gap clamps to 0.
	assert.Equal(t, "health", result[2].Domain)
	assert.Equal(t, 0.0, result[2].RawGap)
	assert.Equal(t, 3, result[2].Rank)
}

func TestComputeUnknownCapabilityDefaultsToZeroLevel(t *testing.T) {
	goal := &types.Goal{
		Requirements: []types.CapabilityRequirement{
			{Domain: "engineering", Capability: "rust", TargetLevel: 5, Weight: 1},
		},
	}

	result := Compute(goal, nil)
	require.Len(t, result, 1)
	assert.Equal(t, 0.0, result[0].CurrentLevel)
	assert.Equal(t, 5.0, result[0].RawGap)
}

func TestComputeTieBreakIsLexicographic(t *testing.T) {
	goal := &types.Goal{
		Requirements: []types.CapabilityRequirement{
			{Domain: "b", Capability: "x", TargetLevel: 5, Weight: 0.5},
			{Domain: "a", Capability: "y", TargetLevel: 5, Weight: 0.5},
		},
	}

	result := Compute(goal, nil)
	assert.Equal(t, "a", result[0].Domain)
	assert.Equal(t, "b", result[1].Domain)
}

func TestComputeDoesNotMutateInputs(t *testing.T) {
	goal := &types.Goal{
		Requirements: []types.CapabilityRequirement{
			{Domain: "a", Capability: "x", TargetLevel: 5, Weight: 0.5},
			{Domain: "b", Capability: "y", TargetLevel: 7, Weight: 0.9},
		},
	}
	originalReqs := append([]types.CapabilityRequirement(nil), goal.Requirements...)

	first := Compute(goal, nil)
	second := Compute(goal, nil)

	assert.Equal(t, originalReqs, goal.Requirements)
	assert.Equal(t, first, second)
}
