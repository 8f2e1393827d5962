package simulator

import (
	"testing"

	"smartTraffic/element"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requirePanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %v", r)
		assert.ErrorIs(t, err, target)
	}()
	fn()
}

func mustLight(t *testing.T, inter *Intersection, dir element.Direction, turn element.TurnType) *element.TrafficLight {
	t.Helper()
	light, ok := inter.Light(dir, turn)
	require.True(t, ok, "%s %s light", dir, turn)
	return light
}

func TestDoubleGreenLeftScenario(t *testing.T) {
	inter := newFourWay(t)
	inter.Schedule(NewLightConfig(DoubleGreenLeft, element.North, 2, 1))
	require.NoError(t, inter.Start())

	north := mustLight(t, inter, element.North, element.Left)
	south := mustLight(t, inter, element.South, element.Left)

	for tick := 1; tick <= 2; tick++ {
		assert.Equal(t, 2, inter.Tick(), "tick %d", tick)
		assert.Equal(t, element.GreenLeft, north.Color())
		assert.Equal(t, element.GreenLeft, south.Color())
	}

	assert.Equal(t, 2, inter.Tick())
	assert.Equal(t, element.Yellow, north.Color())
	assert.Equal(t, element.Yellow, south.Color())

	assert.Equal(t, 0, inter.Tick())
	assert.True(t, north.IsRed())
	assert.True(t, south.IsRed())
	assert.Equal(t, int64(4), inter.Time())

	for _, turn := range []element.TurnType{element.Straight, element.Right} {
		assert.True(t, mustLight(t, inter, element.North, turn).IsRed(), "other lights untouched")
	}
}

func TestDoubleGreen(t *testing.T) {
	inter := newFourWay(t)

	require.True(t, inter.DoubleGreen(element.North, 3, 1))
	assert.Equal(t, 4, inter.NumUnfinishedLights(), "straight and right on North and South")
	for _, dir := range []element.Direction{element.North, element.South} {
		assert.Equal(t, element.Green, mustLight(t, inter, dir, element.Straight).Color())
		assert.Equal(t, element.GreenRight, mustLight(t, inter, dir, element.Right).Color())
		assert.True(t, mustLight(t, inter, dir, element.Left).IsRed())
	}

	require.True(t, inter.DoubleGreen(element.North, 3, 1))
	assert.Equal(t, 4, inter.NumUnfinishedLights(), "restarting lit lights is not counted twice")

	require.True(t, inter.DoubleGreen(element.East, 3, 1))
	assert.Equal(t, 7, inter.NumUnfinishedLights(), "East straight, West straight and right")
}

func TestDoubleGreenMissingOpposite(t *testing.T) {
	inter := newTestIntersection(Options{})
	require.Equal(t, Success, inter.AddRoad(element.North, lanes(0, 1, 0)))
	require.Equal(t, Success, inter.AddRoad(element.East, lanes(0, 1, 0)))
	require.Equal(t, Success, inter.AddRoad(element.West, lanes(0, 1, 0)))

	assert.False(t, inter.DoubleGreen(element.North, 3, 1))
	assert.False(t, inter.DoubleGreenLeft(element.North, 3, 1))
	assert.False(t, inter.SingleGreen(element.South, 3, 1))
	assert.True(t, mustLight(t, inter, element.North, element.Straight).IsRed())
	assert.Zero(t, inter.NumUnfinishedLights())

	assert.True(t, inter.DoubleGreen(element.East, 3, 1))
	assert.Equal(t, 2, inter.NumUnfinishedLights())
}

func TestSingleGreen(t *testing.T) {
	inter := newFourWay(t)

	require.True(t, inter.SingleGreen(element.West, 2, 1))
	assert.Equal(t, 3, inter.NumUnfinishedLights())
	assert.Equal(t, element.GreenLeft, mustLight(t, inter, element.West, element.Left).Color())
	assert.Equal(t, element.Green, mustLight(t, inter, element.West, element.Straight).Color())
	assert.Equal(t, element.GreenRight, mustLight(t, inter, element.West, element.Right).Color())
	assert.True(t, mustLight(t, inter, element.East, element.Straight).IsRed())
}

func TestPatternDurationsInSeconds(t *testing.T) {
	inter := newTestIntersection(Options{TicksPerSecond: 10})
	require.Equal(t, Success, inter.AddRoad(element.North, lanes(0, 1, 0)))
	require.Equal(t, Success, inter.AddRoad(element.South, lanes(0, 1, 0)))
	require.Equal(t, Success, inter.AddRoad(element.East, lanes(0, 1, 0)))

	inter.Schedule(NewLightConfig(DoubleGreen, element.South, 3, 2))
	require.NoError(t, inter.Start())

	light := mustLight(t, inter, element.North, element.Straight)
	assert.Equal(t, 30, light.DurationRemaining())
	assert.Equal(t, 20, light.ColorDuration(element.Yellow))
}

func TestScheduleLoops(t *testing.T) {
	inter := newFourWay(t)
	assert.ErrorIs(t, inter.Start(), ErrEmptySchedule)
	assert.ErrorIs(t, inter.NextLightConfig(), ErrEmptySchedule)
	_, ok := inter.CurrentLightConfig()
	assert.False(t, ok)

	first := NewLightConfig(DoubleGreen, element.North, 1, 1)
	second := NewLightConfig(SingleGreen, element.East, 1, 1)
	inter.Schedule(first)
	inter.Schedule(second)
	assert.Len(t, inter.LightConfigs(), 2)

	require.NoError(t, inter.Start())
	current, ok := inter.CurrentLightConfig()
	require.True(t, ok)
	assert.Equal(t, first, current)

	require.NoError(t, inter.NextLightConfig())
	current, _ = inter.CurrentLightConfig()
	assert.Equal(t, second, current)

	require.NoError(t, inter.NextLightConfig())
	current, _ = inter.CurrentLightConfig()
	assert.Equal(t, first, current)
}

func TestScheduleMissingRoad(t *testing.T) {
	inter := newTestIntersection(Options{})
	require.Equal(t, Success, inter.AddRoad(element.North, lanes(0, 1, 0)))
	inter.Schedule(NewLightConfig(DoubleGreen, element.North, 2, 1))

	err := inter.Start()
	assert.ErrorIs(t, err, ErrRoadNotFound)
	assert.Zero(t, inter.NumUnfinishedLights())
	assert.True(t, mustLight(t, inter, element.North, element.Straight).IsRed())
}

func TestScheduleRunsThroughConfigs(t *testing.T) {
	inter := newFourWay(t)
	inter.Schedule(NewLightConfig(DoubleGreen, element.North, 2, 1))
	inter.Schedule(NewLightConfig(DoubleGreenLeft, element.North, 1, 1))
	require.NoError(t, inter.Start())

	ticks := 0
	for inter.Tick() != 0 {
		ticks++
		require.Less(t, ticks, 10)
	}
	assert.Equal(t, 3, ticks, "two green ticks and one yellow tick before red")

	require.NoError(t, inter.NextLightConfig())
	assert.Equal(t, 2, inter.NumUnfinishedLights())
	assert.Equal(t, element.GreenLeft, mustLight(t, inter, element.South, element.Left).Color())
}

func TestInvalidPattern(t *testing.T) {
	requirePanicsWith(t, ErrInvalidPattern, func() {
		NewLightConfig(NumPatterns, element.North, 1, 1)
	})

	inter := newFourWay(t)
	requirePanicsWith(t, ErrInvalidPattern, func() {
		inter.applyLightConfig(LightConfig{pattern: NumPatterns, direction: element.North})
	})
}

func TestInvalidDurations(t *testing.T) {
	requirePanicsWith(t, element.ErrInvalidDuration, func() {
		NewLightConfig(DoubleGreen, element.North, -2, 1)
	})

	inter := newFourWay(t)
	requirePanicsWith(t, element.ErrInvalidDuration, func() {
		inter.SingleGreen(element.North, 1, -3)
	})
	assert.True(t, mustLight(t, inter, element.North, element.Straight).IsRed(), "checked before any light changes")
}

func TestLightDesync(t *testing.T) {
	inter := newFourWay(t)
	road, _ := inter.Road(element.East)
	road.SetGreen(1, 1)

	inter.Tick()
	inter.Tick()
	assert.Equal(t, element.Yellow, mustLight(t, inter, element.East, element.Straight).Color())
	requirePanicsWith(t, ErrLightDesync, func() {
		inter.Tick()
	})
}

func TestParsePattern(t *testing.T) {
	for p := Pattern(0); p < NumPatterns; p++ {
		got, err := ParsePattern(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	got, err := ParsePattern("DOUBLEGREENLEFT")
	require.NoError(t, err)
	assert.Equal(t, DoubleGreenLeft, got)

	_, err = ParsePattern("allRed")
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestLightConfig(t *testing.T) {
	cfg := NewLightConfig(SingleGreen, element.West, 3, 1)

	assert.Equal(t, SingleGreen, cfg.Pattern())
	assert.Equal(t, element.West, cfg.Direction())
	assert.Equal(t, 4, cfg.TotalDuration(2))
	assert.Equal(t, "singleGreen(West, 3s+1s)", cfg.String())
	assert.Equal(t, element.Forever, NewLightConfig(SingleGreen, element.West, element.Forever, 1).TotalDuration(1))

	kept := NewLightConfig(SingleGreen, element.West, 3, element.Forever)
	assert.Equal(t, 5, kept.TotalDuration(2), "yellow kept from the light")
	assert.Equal(t, element.Forever, kept.TotalDuration(element.Forever))
}

func TestKeptYellowMatchesLight(t *testing.T) {
	inter := newFourWay(t)
	for turn := element.TurnType(0); turn < element.NumTurnTypes; turn++ {
		mustLight(t, inter, element.West, turn).SetYellowDuration(2)
	}
	light := mustLight(t, inter, element.West, element.Straight)

	cfg := NewLightConfig(SingleGreen, element.West, 3, element.Forever)
	inter.Schedule(cfg)
	require.NoError(t, inter.Start())

	ticks := 0
	for inter.Tick() != 0 {
		ticks++
		require.Less(t, ticks, 20)
	}
	assert.Equal(t, cfg.TotalDuration(light.ColorDuration(element.Yellow)), ticks, "one tick per second")
}
