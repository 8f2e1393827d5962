package simulator

import (
	"testing"

	"smartTraffic/element"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemStateUpdate(t *testing.T) {
	inter := newStraightOnly(t, Options{TicksPerSecond: 1, Lane: LaneConfig{TimeToCross: 1}})
	inter.Schedule(NewLightConfig(DoubleGreen, element.North, 10, 1))
	require.NoError(t, inter.Start())
	gen := NewVehicleGenerator(2, 0, nil, 1, 3)

	gen.Generate(inter)
	for i := 0; i < 3; i++ {
		inter.Tick()
	}

	state := NewSystemState()
	state.Update(inter, gen)

	generated, queued, crossing, directed := state.GetVehicleCounts()
	assert.Equal(t, int64(6), generated)
	assert.Equal(t, uint64(2), directed, "first vehicle on North and South")
	assert.Equal(t, 2, crossing)
	assert.Equal(t, 2, queued, "East is red")

	rec := state.Record()
	assert.Equal(t, int64(3), rec.Time)
	assert.Equal(t, 2, rec.UnfinishedLights)
	assert.Equal(t, "doubleGreen(North, 10s+1s)", rec.LightConfig)
	assert.Equal(t, 2, rec.Exited)

	state.Update(inter, nil)
	generated, _, _, _ = state.GetVehicleCounts()
	assert.Equal(t, int64(6), generated, "counts kept without a generator")
}
