package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultThresholds(t *testing.T) {
	cfg := Default()

	assert.Equal(t, map[int]float64{1: 0.8, 2: 1.0, 3: 1.2}, cfg.Scoring.DifficultyWeights)
	assert.Equal(t, 0.7, cfg.Scoring.LateMultiplier)
	assert.Equal(t, 3, cfg.Failure.WindowSize)
	assert.Equal(t, 4, cfg.Schedule.SlotsPerDay)
	assert.Equal(t, 60, cfg.Schedule.SlotCapacityMinutes)
	assert.Equal(t, map[int]int{1: 30, 2: 60, 3: 90}, cfg.Schedule.DurationMinutes)
	assert.Equal(t, 3, cfg.Compression.MinAllowed)
	assert.Equal(t, 25, cfg.Compression.MaxAllowed)
	assert.Equal(t, 4, cfg.Health.MinTasksPerCycle)
	assert.Equal(t, 20, cfg.Health.MaxTasksPerCycle)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".praxis"), 0755))
	yaml := []byte("schedule:\n  slots_per_day: 6\nfailure:\n  high_miss_rate: 0.5\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".praxis", "engine.yaml"), yaml, 0644))

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Schedule.SlotsPerDay)
	assert.Equal(t, 0.5, cfg.Failure.HighMissRate)
	// Untouched sections keep their defaults.
	assert.Equal(t, 60, cfg.Schedule.SlotCapacityMinutes)
	assert.Equal(t, 0.4, cfg.Failure.HighLateRate)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".praxis"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".praxis", "engine.yaml"), []byte("{not yaml"), 0644))

	_, err := Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}
