package simulator

import (
	"fmt"
	"log/slog"
	"strings"

	"smartTraffic/element"
	"smartTraffic/log"

	"github.com/pkg/errors"
)

// MinNumRoads 有效路口至少需要的道路数
const MinNumRoads = 3

// ExitFallback 出口道路缺少同转向车道时的处理方式
type ExitFallback int

const (
	FallbackStraight ExitFallback = iota // 使用出口道路的直行车道
	FallbackNone                         // 车辆直接离开模拟范围
)

func (f ExitFallback) String() string {
	if f == FallbackNone {
		return "none"
	}
	return "straight"
}

// ParseExitFallback 解析配置中的出口回退方式，空字符串视为straight
func ParseExitFallback(s string) (ExitFallback, error) {
	switch strings.ToLower(s) {
	case "", "straight":
		return FallbackStraight, nil
	case "none":
		return FallbackNone, nil
	default:
		return FallbackStraight, errors.Wrapf(ErrInvalidConfig, "unknown exit fallback %q", s)
	}
}

// LaneConfig 新建道路时使用的车道参数，时间单位为秒
type LaneConfig struct {
	MaxVehiclesPerLane int
	TimeToCross        int
	OnDuration         int
}

// Options 路口参数
type Options struct {
	TicksPerSecond       int
	Lane                 LaneConfig
	ExitFallback         ExitFallback
	ExitDischargePerLane int // 每tick每条出口车道驶离的车辆数，<=0表示不驶离
	Logger               *slog.Logger
}

// DefaultOptions 返回默认参数
func DefaultOptions() Options {
	return Options{
		TicksPerSecond: 1,
		Lane: LaneConfig{
			MaxVehiclesPerLane: element.DefaultMaxVehiclesPerLane,
			TimeToCross:        element.DefaultTimeToCross,
			OnDuration:         element.DefaultOnDuration,
		},
		ExitFallback:         FallbackStraight,
		ExitDischargePerLane: 1,
	}
}

// Stats 路口运行以来的累计统计
type Stats struct {
	VehiclesExited   int // 完成通过路口的车辆数
	VehiclesDropped  int // 因出口已满或红灯滞留而丢弃的车辆数
	Jams             int
	FallbackExits    int // 使用直行车道作为出口的次数
	VehiclesRejected int // 因排队已满未能进入的车辆数
}

// Intersection 一个四方位路口
// 负责道路拓扑、信号配置轮换和每个tick的车辆与信号灯推进
type Intersection struct {
	opts   Options
	logger *slog.Logger

	roads         [element.NumDirections]*element.Road
	exitRoads     [element.NumDirections]*element.Road
	expectedRoads [element.NumDirections]bool
	numRoads      int

	lightConfigs     []LightConfig
	configIndex      int
	unfinishedLights int
	started          bool

	time  int64
	stats Stats
}

// NewIntersection 创建一个空路口，Options中的零值使用默认值
func NewIntersection(opts Options) *Intersection {
	defaults := DefaultOptions()
	if opts.TicksPerSecond <= 0 {
		opts.TicksPerSecond = defaults.TicksPerSecond
	}
	if opts.Lane.MaxVehiclesPerLane <= 0 {
		opts.Lane.MaxVehiclesPerLane = defaults.Lane.MaxVehiclesPerLane
	}
	if opts.Lane.TimeToCross <= 0 {
		opts.Lane.TimeToCross = defaults.Lane.TimeToCross
	}
	if opts.Lane.OnDuration == 0 || opts.Lane.OnDuration < element.Forever {
		opts.Lane.OnDuration = defaults.Lane.OnDuration
	}
	if opts.Logger == nil {
		opts.Logger = log.Logger()
	}

	return &Intersection{
		opts:   opts,
		logger: opts.Logger,
	}
}

func (i *Intersection) laneOptions() element.LaneOptions {
	return element.LaneOptions{
		MaxVehiclesPerLane: i.opts.Lane.MaxVehiclesPerLane,
		CrossTicks:         element.SecondsToTicks(i.opts.Lane.TimeToCross, i.opts.TicksPerSecond),
		OnDuration:         element.SecondsToTicks(i.opts.Lane.OnDuration, i.opts.TicksPerSecond),
	}
}

// AddRoad 在dir方位加入一条道路，lanes按 左转/直行/右转 给出车道数
//
// 左转车道数不能超过左转目标道路的直行车道数，右转同理。
// 目标道路尚不存在时将其标记为期望存在的道路。
// 失败时路口状态不变。
func (i *Intersection) AddRoad(dir element.Direction, lanes [element.NumTurnTypes]int) IntersectionError {
	if !element.IsValidDirection(dir) {
		return Unknown
	}
	if i.roads[dir] != nil {
		return AlreadyExists
	}

	leftDir, rightDir := element.LeftOf(dir), element.RightOf(dir)
	leftOK, leftExpected := i.turnIsPossible(leftDir, lanes[element.Left])
	rightOK, rightExpected := i.turnIsPossible(rightDir, lanes[element.Right])
	if !leftOK || !rightOK {
		i.logger.Debug("turn not possible",
			slog.String("road", dir.String()),
			slog.Bool("left", leftOK),
			slog.Bool("right", rightOK),
		)
		return TurnNotPossible
	}

	road, err := element.NewRoad(dir, lanes, i.laneOptions())
	if err != nil {
		i.logger.Debug("add road failed", slog.String("road", dir.String()), slog.String("error", err.Error()))
		return Unknown
	}

	i.roads[dir] = road
	i.numRoads++
	i.expectedRoads[dir] = false
	if leftExpected {
		i.expectedRoads[leftDir] = true
	}
	if rightExpected {
		i.expectedRoads[rightDir] = true
	}
	return Success
}

// turnIsPossible 检查转向目标道路能否容纳newLanes条转向车道
// 第二个返回值表示目标道路尚不存在，需要标记为期望道路
func (i *Intersection) turnIsPossible(target element.Direction, newLanes int) (bool, bool) {
	if newLanes <= 0 {
		return true, false
	}
	end := i.roads[target]
	if end == nil {
		return true, true
	}
	return newLanes <= end.NumLanes(element.Straight), false
}

// SetExitRoad 设置dir一侧的出口道路，road为nil时等同于ClearExitRoad
func (i *Intersection) SetExitRoad(dir element.Direction, road *element.Road) {
	if !element.IsValidDirection(dir) {
		panic(errors.Wrapf(element.ErrInvalidDirection, "set exit road %d", int(dir)))
	}
	i.exitRoads[dir] = road
}

// ClearExitRoad 移除dir一侧的出口道路，驶向该侧的车辆直接离开模拟范围
func (i *Intersection) ClearExitRoad(dir element.Direction) {
	i.SetExitRoad(dir, nil)
}

// ExitRoad 返回dir一侧的出口道路
func (i *Intersection) ExitRoad(dir element.Direction) (*element.Road, bool) {
	if !element.IsValidDirection(dir) {
		return nil, false
	}
	road := i.exitRoads[dir]
	return road, road != nil
}

// Validate 检查路口是否可以运行：至少3条道路且没有缺失的期望道路
// 结果不影响路口状态，不满足的原因写入日志并返回
func (i *Intersection) Validate() (bool, []string) {
	var reasons []string
	if i.numRoads < MinNumRoads {
		reasons = append(reasons, fmt.Sprintf("intersection has %d roads, at least %d required", i.numRoads, MinNumRoads))
	}
	for dir := element.Direction(0); dir < element.NumDirections; dir++ {
		if i.expectedRoads[dir] {
			reasons = append(reasons, fmt.Sprintf("road %s is expected by a turn but does not exist", dir))
		}
	}

	for _, reason := range reasons {
		i.logger.Warn("intersection invalid", slog.String("reason", reason))
	}
	for _, problem := range i.VerifyTopology() {
		i.logger.Warn("intersection topology", slog.String("problem", problem))
	}

	return len(reasons) == 0, reasons
}

func (i *Intersection) RoadExists(dir element.Direction) bool {
	return element.IsValidDirection(dir) && i.roads[dir] != nil
}

// Road 返回dir方位的进口道路
func (i *Intersection) Road(dir element.Direction) (*element.Road, bool) {
	if !i.RoadExists(dir) {
		return nil, false
	}
	return i.roads[dir], true
}

// Light 返回dir方位道路上某个转向的信号灯
func (i *Intersection) Light(dir element.Direction, turn element.TurnType) (*element.TrafficLight, bool) {
	road, ok := i.Road(dir)
	if !ok || !element.IsValidTurnType(turn) {
		return nil, false
	}
	return road.Light(turn)
}

// RoadIsExpected dir方位的道路被其他道路的转向需要但尚未加入
func (i *Intersection) RoadIsExpected(dir element.Direction) bool {
	return element.IsValidDirection(dir) && i.expectedRoads[dir]
}

func (i *Intersection) NumRoads() int {
	return i.numRoads
}

// NumUnfinishedLights 已启动且尚未变回红灯的信号灯数量
func (i *Intersection) NumUnfinishedLights() int {
	return i.unfinishedLights
}

// Time 已执行的tick数
func (i *Intersection) Time() int64 {
	return i.time
}

func (i *Intersection) TicksPerSecond() int {
	return i.opts.TicksPerSecond
}

func (i *Intersection) Stats() Stats {
	return i.stats
}

// Roads 按方位顺序返回所有已存在的进口道路
func (i *Intersection) Roads() []*element.Road {
	roads := make([]*element.Road, 0, i.numRoads)
	for _, road := range i.roads {
		if road != nil {
			roads = append(roads, road)
		}
	}
	return roads
}

// AddVehicles 向dir方位道路的某个转向车道加入n辆车
// 道路或转向不存在、n<=0或队列溢出时返回false，溢出部分计为被拒绝
func (i *Intersection) AddVehicles(dir element.Direction, turn element.TurnType, n int) bool {
	road, ok := i.Road(dir)
	if !ok || !element.IsValidTurnType(turn) {
		return false
	}
	opt := road.TurnOption(turn)
	if !opt.IsValid() {
		return false
	}

	space := opt.MaxNumVehicles() - opt.QueuedVehicles()
	if opt.AddVehicles(n) {
		return true
	}
	if n > space {
		i.stats.VehiclesRejected += n - max(space, 0)
	}
	return false
}
