package simulator

import (
	"log/slog"
	"time"

	"smartTraffic/log"
	"smartTraffic/recorder"
)

// WriteData 缓存所有道路的信号灯和车道状态并写入文件
func WriteData(inter *Intersection, rec *recorder.Recorder) {
	RecordIntersection(inter, rec)
	rec.Flush()
}

// RecordIntersection 缓存所有道路的信号灯和车道状态
func RecordIntersection(inter *Intersection, rec *recorder.Recorder) {
	for _, road := range inter.Roads() {
		rec.RecordRoadLights(inter.Time(), road)
		rec.RecordRoadLanes(inter.Time(), road)
	}
}

// FinishSimulation 完成模拟，写入最后的数据
// 记录写入操作的时间消耗
func FinishSimulation(inter *Intersection, state *SystemState, rec *recorder.Recorder) error {
	log.WriteLog("writing final data")
	startTime := time.Now()

	if state != nil {
		state.RecordData(rec)
	}
	WriteData(inter, rec)
	err := rec.Close()

	log.Logger().Info("final data write completed", slog.Duration("elapsed", time.Since(startTime)))
	return err
}
