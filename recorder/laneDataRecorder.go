package recorder

import (
	"strconv"

	"smartTraffic/element"
)

var laneDataHeader = []string{
	"RunID", "Time", "Road", "Turn", "Lanes", "Queued", "Crossing", "Progress", "Jams", "Dropped", "Discharged",
}

// RecordLaneData 缓存一组车道的排队和通过状态，占位车道组不记录
func (r *Recorder) RecordLaneData(time int64, dir element.Direction, opt *element.TurnOption) {
	if opt == nil || !opt.IsValid() {
		return
	}
	r.caches[KindLane].add([]string{
		r.runID.String(),
		strconv.FormatInt(time, 10),
		dir.String(),
		opt.Type().String(),
		strconv.Itoa(opt.NumLanes()),
		strconv.Itoa(opt.QueuedVehicles()),
		strconv.Itoa(opt.NumVehiclesCurrentlyCrossing()),
		strconv.Itoa(opt.CurrentVehicleProgress()),
		strconv.Itoa(opt.NumJams()),
		strconv.Itoa(opt.NumDroppedVehicles()),
		strconv.Itoa(opt.NumDischargedVehicles()),
	})
}

// RecordRoadLanes 缓存一条道路上所有有效车道组的状态
func (r *Recorder) RecordRoadLanes(time int64, road *element.Road) {
	for _, opt := range road.TurnOptions() {
		r.RecordLaneData(time, road.Direction(), opt)
	}
}
