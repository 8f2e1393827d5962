package recorder

import (
	"strconv"
)

var systemDataHeader = []string{
	"RunID", "Time", "Generated", "Rejected", "Queued", "Crossing", "Directed", "Exited",
	"Dropped", "Jams", "FallbackExits", "UnfinishedLights", "LightConfig",
}

// SystemRecord 某一时刻的系统状态
type SystemRecord struct {
	Time             int64
	Generated        int64
	Rejected         int64
	Queued           int
	Crossing         int
	Directed         uint64
	Exited           int
	Dropped          int
	Jams             int
	FallbackExits    int
	UnfinishedLights int
	LightConfig      string
}

// RecordSystemData 缓存一条系统状态数据
func (r *Recorder) RecordSystemData(rec SystemRecord) {
	r.caches[KindSystem].add([]string{
		r.runID.String(),
		strconv.FormatInt(rec.Time, 10),
		strconv.FormatInt(rec.Generated, 10),
		strconv.FormatInt(rec.Rejected, 10),
		strconv.Itoa(rec.Queued),
		strconv.Itoa(rec.Crossing),
		strconv.FormatUint(rec.Directed, 10),
		strconv.Itoa(rec.Exited),
		strconv.Itoa(rec.Dropped),
		strconv.Itoa(rec.Jams),
		strconv.Itoa(rec.FallbackExits),
		strconv.Itoa(rec.UnfinishedLights),
		rec.LightConfig,
	})
}
