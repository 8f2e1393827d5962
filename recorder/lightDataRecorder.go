package recorder

import (
	"strconv"

	"smartTraffic/element"
)

var lightDataHeader = []string{
	"RunID", "Time", "Road", "Turn", "Color", "DurationRemaining", "VehiclesDirected",
}

// RecordLightData 缓存一个信号灯的状态
func (r *Recorder) RecordLightData(time int64, dir element.Direction, turn element.TurnType, light *element.TrafficLight) {
	if light == nil {
		return
	}
	r.caches[KindLight].add([]string{
		r.runID.String(),
		strconv.FormatInt(time, 10),
		dir.String(),
		turn.String(),
		light.Color().String(),
		strconv.Itoa(light.DurationRemaining()),
		strconv.FormatUint(light.NumVehiclesDirected(), 10),
	})
}

// RecordRoadLights 缓存一条道路上所有信号灯的状态
func (r *Recorder) RecordRoadLights(time int64, road *element.Road) {
	for turn := element.TurnType(0); turn < element.NumTurnTypes; turn++ {
		if light, ok := road.Light(turn); ok {
			r.RecordLightData(time, road.Direction(), turn, light)
		}
	}
}
