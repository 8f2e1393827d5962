package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestLoadConfigDefaults(t *testing.T) {
	filename := writeConfig(t, `{
		"roads": [{"direction": "north", "lanes": [1, 2, 0]}],
		"schedule": [{"pattern": "singleGreen", "direction": "north"}]
	}`)

	cfg, err := LoadConfig(filename)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Simulation.TicksPerSecond)
	assert.Equal(t, 20, cfg.Simulation.RunTime)
	assert.Equal(t, 5, cfg.Lane.MaxVehiclesPerLane)
	assert.Equal(t, 2, cfg.Lane.TimeToCross)
	assert.Equal(t, "straight", cfg.Lane.ExitFallback)
	assert.Equal(t, 1, cfg.Lane.ExitDischargePerLane)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 1, cfg.Schedule[0].Duration)
	require.NotNil(t, cfg.Schedule[0].YellowDuration)
	assert.Equal(t, 1, *cfg.Schedule[0].YellowDuration)
	assert.Equal(t, cfg.Roads, cfg.ExitRoads, "exit roads mirror approaches")
}

func TestLoadConfigKeepsValues(t *testing.T) {
	filename := writeConfig(t, `{
		"simulation": {"ticksPerSecond": 10, "runTime": -1},
		"lane": {"maxVehiclesPerLane": 8, "exitDischargePerLane": -1},
		"trafficLight": {"onDuration": 4, "yellowDuration": 2},
		"schedule": [{"pattern": "doubleGreen", "direction": "east", "duration": 6, "yellowDuration": 3}]
	}`)

	cfg, err := LoadConfig(filename)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Simulation.TicksPerSecond)
	assert.Equal(t, -1, cfg.Simulation.RunTime)
	assert.Equal(t, 8, cfg.Lane.MaxVehiclesPerLane)
	assert.Equal(t, -1, cfg.Lane.ExitDischargePerLane)
	assert.Equal(t, 10, cfg.Logging.IntervalWriteToLog)
	assert.Equal(t, 6, cfg.Schedule[0].Duration)
	require.NotNil(t, cfg.Schedule[0].YellowDuration)
	assert.Equal(t, 3, *cfg.Schedule[0].YellowDuration)
}

func TestLoadConfigExplicitYellow(t *testing.T) {
	filename := writeConfig(t, `{
		"trafficLight": {"yellowDuration": 2},
		"schedule": [
			{"pattern": "doubleGreen", "direction": "east", "yellowDuration": 0},
			{"pattern": "doubleGreen", "direction": "east", "yellowDuration": -1},
			{"pattern": "doubleGreen", "direction": "east"}
		]
	}`)

	cfg, err := LoadConfig(filename)
	require.NoError(t, err)

	require.Len(t, cfg.Schedule, 3)
	for i, want := range []int{0, -1, 2} {
		require.NotNil(t, cfg.Schedule[i].YellowDuration)
		assert.Equal(t, want, *cfg.Schedule[i].YellowDuration, "entry %d", i)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `{"roads": [`))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Len(t, cfg.Roads, 4)
	assert.Equal(t, [3]int{3, 4, 5}, cfg.Roads[0].Lanes)
	require.Len(t, cfg.Schedule, 4)
	assert.Equal(t, "doubleGreenLeft", cfg.Schedule[1].Pattern)
	assert.Equal(t, 3, cfg.Schedule[0].Duration)
	assert.Len(t, cfg.ExitRoads, 4)
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := LoadConfig("config.json")
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Simulation.TicksPerSecond)
	assert.Len(t, cfg.Roads, 4)
	assert.Len(t, cfg.Schedule, 4)
}
