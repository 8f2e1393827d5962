package element

import "fmt"

// TurnType 表示一组车道在道路上的转向类型
type TurnType int

const (
	Left TurnType = iota
	Straight
	Right
	NumTurnTypes
)

const (
	DefaultMaxVehiclesPerLane = 5
	DefaultNumLanes           = 1
	DefaultTimeToCross        = 2 // 秒
)

// IsValidTurnType 检查转向类型是否在合法范围内
func IsValidTurnType(t TurnType) bool {
	return t >= 0 && t < NumTurnTypes
}

func (t TurnType) String() string {
	switch t {
	case Left:
		return "left"
	case Straight:
		return "straight"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("TurnType(%d)", int(t))
	}
}

// OnColor 返回控制该转向车道的信号灯绿灯类型
func (t TurnType) OnColor() Color {
	switch t {
	case Left:
		return GreenLeft
	case Straight:
		return Green
	case Right:
		return GreenRight
	default:
		fatal(ErrInvalidTurnType, "on color of %s", t)
		return Red
	}
}

// CrossingResult 一次NextVehiclesBeginCrossing的结果
type CrossingResult struct {
	Exited  int  // 完成通过并进入出口车道的车辆数
	Dropped int  // 出口车道已满而被丢弃的车辆数
	Started int  // 本次开始通过路口的车辆数
	Jammed  bool // 出口车道已满
}

// TurnOption 表示由同一个信号灯控制的一组车道
// 同时保存这些车道中排队车辆和正在通过路口的车辆状态
type TurnOption struct {
	turnType           TurnType
	light              *TrafficLight // 车道数为0时为nil
	numLanes           int
	maxVehiclesPerLane int
	timeToCross        int // 通过路口需要的tick数

	queuedVehicles        int // 排队等待的车辆数
	currentProgress       int // 正在通过路口的车辆剩余tick数
	numCurrentlyCrossing  int // 正在通过路口的车辆数
	numJams               int
	numDroppedVehicles    int
	numDischargedVehicles int
}

// NewTurnOption 创建一组转向车道
// lanes为0时返回占位对象：没有信号灯，也不会有车辆进出
func NewTurnOption(turnType TurnType, lanes, maxVehiclesPerLane, crossTicks, onDuration, redDuration int) *TurnOption {
	if !IsValidTurnType(turnType) {
		fatal(ErrInvalidTurnType, "new turn option %d", int(turnType))
	}
	if lanes < 0 || maxVehiclesPerLane < 0 || crossTicks < 0 {
		fatal(ErrInvalidLanes, "lanes %d, maxVehiclesPerLane %d, crossTicks %d", lanes, maxVehiclesPerLane, crossTicks)
	}

	opt := &TurnOption{turnType: turnType}
	if lanes == 0 {
		return opt
	}

	opt.light = NewTrafficLight(turnType.OnColor(), onDuration, redDuration)
	opt.numLanes = lanes
	opt.maxVehiclesPerLane = maxVehiclesPerLane
	opt.timeToCross = crossTicks
	return opt
}

// IsValid 车道数大于0的转向才是有效的
func (o *TurnOption) IsValid() bool {
	return o.numLanes > 0 && o.light != nil
}

// QueueIsFull 排队车辆数达到上限
func (o *TurnOption) QueueIsFull() bool {
	return o.queuedVehicles >= o.MaxNumVehicles()
}

// QueueIsEmpty 没有排队车辆
func (o *TurnOption) QueueIsEmpty() bool {
	return o.queuedVehicles == 0
}

// AddVehicles 向队列中加入n辆车，队列上限为MaxNumVehicles
// n<=0或超出上限时返回false，超出部分被截断
func (o *TurnOption) AddVehicles(n int) bool {
	if n <= 0 {
		return false
	}

	space := o.MaxNumVehicles() - o.queuedVehicles
	if n > space {
		o.queuedVehicles = o.MaxNumVehicles()
		return false
	}

	o.queuedVehicles += n
	return true
}

// VehiclesAreCrossing 是否有车辆正在通过路口
func (o *TurnOption) VehiclesAreCrossing() bool {
	return o.numCurrentlyCrossing > 0
}

// ProgressVehicles 正在通过路口的车辆前进一个tick
func (o *TurnOption) ProgressVehicles() {
	if !o.VehiclesAreCrossing() {
		fatal(ErrNothingCrossing, "progress %s vehicles", o.turnType)
	}
	if o.currentProgress > 0 {
		o.currentProgress--
	}
}

// NextVehiclesBeginCrossing 已完成通过的车辆离开本车道并进入exit的队列
// exit为nil时车辆直接离开模拟范围；exit已满时车辆被丢弃并报告堵塞
// 仅在绿灯时放行下一批车辆（最多每条车道一辆）
func (o *TurnOption) NextVehiclesBeginCrossing(exit *TurnOption) CrossingResult {
	var result CrossingResult

	if finished := o.numCurrentlyCrossing; finished > 0 {
		o.light.AddVehiclesDirected(finished)
		switch {
		case exit == nil:
			result.Exited = finished
		default:
			space := exit.MaxNumVehicles() - exit.queuedVehicles
			if !exit.AddVehicles(finished) {
				result.Exited = max(space, 0)
				result.Dropped = finished - result.Exited
				result.Jammed = true
				o.numJams++
				o.numDroppedVehicles += result.Dropped
			} else {
				result.Exited = finished
			}
		}
		o.numCurrentlyCrossing = 0
		o.currentProgress = 0
	}

	if o.light != nil && o.light.IsGreen() {
		batch := min(o.queuedVehicles, o.numLanes)
		if batch > 0 {
			o.queuedVehicles -= batch
			o.numCurrentlyCrossing = batch
			o.currentProgress = o.timeToCross
			result.Started = batch
		}
	}

	return result
}

// VehiclesLeftInIntersection 信号灯变红时仍有车辆在路口内
// 清空通过状态并记录一次堵塞，返回滞留的车辆数
func (o *TurnOption) VehiclesLeftInIntersection() int {
	if !o.VehiclesAreCrossing() {
		fatal(ErrNothingCrossing, "%s light turned red", o.turnType)
	}

	stranded := o.numCurrentlyCrossing
	o.numCurrentlyCrossing = 0
	o.currentProgress = 0
	o.numJams++
	o.numDroppedVehicles += stranded

	return stranded
}

// Discharge 从队列中移除最多n辆车，用于出口车道的车辆驶离
func (o *TurnOption) Discharge(n int) int {
	if n <= 0 {
		return 0
	}
	out := min(n, o.queuedVehicles)
	o.queuedVehicles -= out
	o.numDischargedVehicles += out
	return out
}

func (o *TurnOption) Type() TurnType {
	return o.turnType
}

// Light 返回控制该转向的信号灯，占位对象返回false
func (o *TurnOption) Light() (*TrafficLight, bool) {
	return o.light, o.light != nil
}

func (o *TurnOption) NumLanes() int {
	return o.numLanes
}

func (o *TurnOption) MaxVehiclesPerLane() int {
	return o.maxVehiclesPerLane
}

// MaxNumVehicles 队列容量 = 车道数 × 每车道最大车辆数
func (o *TurnOption) MaxNumVehicles() int {
	return o.numLanes * o.maxVehiclesPerLane
}

func (o *TurnOption) TimeToCross() int {
	return o.timeToCross
}

func (o *TurnOption) QueuedVehicles() int {
	return o.queuedVehicles
}

func (o *TurnOption) CurrentVehicleProgress() int {
	return o.currentProgress
}

func (o *TurnOption) NumVehiclesCurrentlyCrossing() int {
	return o.numCurrentlyCrossing
}

func (o *TurnOption) NumJams() int {
	return o.numJams
}

func (o *TurnOption) NumDroppedVehicles() int {
	return o.numDroppedVehicles
}

func (o *TurnOption) NumDischargedVehicles() int {
	return o.numDischargedVehicles
}
