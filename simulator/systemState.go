package simulator

import (
	"log/slog"
	"sync"

	"smartTraffic/element"
	"smartTraffic/log"
	"smartTraffic/recorder"

	"github.com/samber/lo"
)

// SystemState 缓存并管理路口的系统状态信息
// 包括排队、通过、放行、丢弃等关键指标
type SystemState struct {
	time             int64
	numGenerated     int64
	numRejected      int64
	numQueued        int
	numCrossing      int
	numDirected      uint64
	unfinishedLights int
	lightConfig      string
	stats            Stats
	mu               sync.RWMutex // 保护并发访问
}

// NewSystemState 创建一个新的系统状态对象
func NewSystemState() *SystemState {
	return &SystemState{}
}

// Update 从路口和车辆生成器中获取最新的状态，gen可以为nil
func (s *SystemState) Update(inter *Intersection, gen *VehicleGenerator) {
	opts := lo.FlatMap(inter.Roads(), func(road *element.Road, _ int) []*element.TurnOption {
		return lo.Filter(road.TurnOptions(), func(opt *element.TurnOption, _ int) bool {
			return opt.IsValid()
		})
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	s.time = inter.Time()
	s.numQueued = lo.SumBy(opts, func(opt *element.TurnOption) int {
		return opt.QueuedVehicles()
	})
	s.numCrossing = lo.SumBy(opts, func(opt *element.TurnOption) int {
		return opt.NumVehiclesCurrentlyCrossing()
	})
	s.numDirected = lo.SumBy(opts, func(opt *element.TurnOption) uint64 {
		light, _ := opt.Light()
		return light.NumVehiclesDirected()
	})
	s.unfinishedLights = inter.NumUnfinishedLights()
	s.stats = inter.Stats()
	s.lightConfig = ""
	if cfg, ok := inter.CurrentLightConfig(); ok {
		s.lightConfig = cfg.String()
	}
	if gen != nil {
		s.numGenerated, s.numRejected = gen.Counts()
	}
}

// Record 返回当前状态对应的记录
func (s *SystemState) Record() recorder.SystemRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return recorder.SystemRecord{
		Time:             s.time,
		Generated:        s.numGenerated,
		Rejected:         s.numRejected,
		Queued:           s.numQueued,
		Crossing:         s.numCrossing,
		Directed:         s.numDirected,
		Exited:           s.stats.VehiclesExited,
		Dropped:          s.stats.VehiclesDropped,
		Jams:             s.stats.Jams,
		FallbackExits:    s.stats.FallbackExits,
		UnfinishedLights: s.unfinishedLights,
		LightConfig:      s.lightConfig,
	}
}

// RecordData 将当前系统状态交给recorder缓存
func (s *SystemState) RecordData(rec *recorder.Recorder) {
	if rec == nil {
		return
	}
	rec.RecordSystemData(s.Record())
}

// LogStatus 输出系统状态日志
func (s *SystemState) LogStatus(ticksPerSecond int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log.Logger().Info("status",
		slog.String("time", log.ConvertTimeStepToTime(int(s.time), ticksPerSecond)),
		slog.String("lightConfig", s.lightConfig),
		slog.Int("unfinishedLights", s.unfinishedLights),
		slog.Int64("generated", s.numGenerated),
		slog.Int("queued", s.numQueued),
		slog.Int("crossing", s.numCrossing),
		slog.Uint64("directed", s.numDirected),
		slog.Int("dropped", s.stats.VehiclesDropped),
		slog.Int("jams", s.stats.Jams),
	)
}

// GetVehicleCounts 返回各类车辆计数
// 返回值依次为: 生成的车辆总数、排队车辆数、正在通过的车辆数、已放行车辆数
func (s *SystemState) GetVehicleCounts() (int64, int, int, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.numGenerated, s.numQueued, s.numCrossing, s.numDirected
}

// GetJams 返回累计堵塞次数和丢弃的车辆数
func (s *SystemState) GetJams() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats.Jams, s.stats.VehiclesDropped
}

func (s *SystemState) Time() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.time
}
