package simulator

import (
	"testing"

	"smartTraffic/config"
	"smartTraffic/element"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIntersectionDefault(t *testing.T) {
	inter, err := BuildIntersection(config.Default(), discardLogger)
	require.NoError(t, err)

	assert.Equal(t, 4, inter.NumRoads())
	ok, _ := inter.Validate()
	assert.True(t, ok)

	configs := inter.LightConfigs()
	require.Len(t, configs, 4)
	assert.Equal(t, DoubleGreenLeft, configs[1].Pattern())
	assert.Equal(t, element.North, configs[1].Direction())
	assert.Equal(t, 3, configs[1].Duration())

	for dir := element.Direction(0); dir < element.NumDirections; dir++ {
		exit, ok := inter.ExitRoad(dir)
		require.True(t, ok)
		approach, _ := inter.Road(dir)
		assert.NotSame(t, approach, exit)
		assert.Equal(t, approach.TotalNumLanes(), exit.TotalNumLanes())
	}
}

func intPtr(v int) *int { return &v }

func TestBuildIntersectionYellow(t *testing.T) {
	cfg := config.Default()
	cfg.TrafficLight.YellowDuration = 2
	cfg.Schedule = []config.LightConfigEntry{
		{Pattern: "doubleGreen", Direction: "north", Duration: 3},
		{Pattern: "doubleGreen", Direction: "north", Duration: 3, YellowDuration: intPtr(0)},
		{Pattern: "doubleGreen", Direction: "north", Duration: 3, YellowDuration: intPtr(element.Forever)},
	}

	inter, err := BuildIntersection(cfg, discardLogger)
	require.NoError(t, err)

	configs := inter.LightConfigs()
	require.Len(t, configs, 3)
	assert.Equal(t, 2, configs[0].YellowDuration(), "omitted yellow uses the light default")
	assert.Equal(t, 0, configs[1].YellowDuration())
	assert.Equal(t, element.Forever, configs[2].YellowDuration())
}

func TestBuildIntersectionErrors(t *testing.T) {
	road := func(dir string, l [3]int) config.RoadConfig {
		return config.RoadConfig{Direction: dir, Lanes: l}
	}

	tests := []struct {
		name   string
		cfg    config.Config
		target error
	}{
		{
			name:   "bad direction",
			cfg:    config.Config{Roads: []config.RoadConfig{road("up", [3]int{0, 1, 0})}},
			target: element.ErrInvalidDirection,
		},
		{
			name:   "turn not possible",
			cfg:    config.Config{Roads: []config.RoadConfig{road("north", [3]int{0, 1, 0}), road("east", [3]int{2, 1, 0})}},
			target: ErrInvalidConfig,
		},
		{
			name:   "duplicate road",
			cfg:    config.Config{Roads: []config.RoadConfig{road("north", [3]int{0, 1, 0}), road("North", [3]int{0, 1, 0})}},
			target: ErrInvalidConfig,
		},
		{
			name:   "bad exit road",
			cfg:    config.Config{ExitRoads: []config.RoadConfig{road("north", [3]int{0, -1, 0})}},
			target: element.ErrInvalidLanes,
		},
		{
			name:   "bad pattern",
			cfg:    config.Config{Schedule: []config.LightConfigEntry{{Pattern: "allRed", Direction: "north"}}},
			target: ErrInvalidConfig,
		},
		{
			name:   "bad fallback",
			cfg:    config.Config{Lane: config.LaneConfig{ExitFallback: "left"}},
			target: ErrInvalidConfig,
		},
		{
			name:   "bad yellow",
			cfg:    config.Config{Schedule: []config.LightConfigEntry{{Pattern: "singleGreen", Direction: "north", YellowDuration: intPtr(-2)}}},
			target: ErrInvalidConfig,
		},
		{
			name:   "bad duration",
			cfg:    config.Config{Schedule: []config.LightConfigEntry{{Pattern: "singleGreen", Direction: "north", Duration: -5}}},
			target: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildIntersection(&tt.cfg, discardLogger)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}
