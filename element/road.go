package element

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Direction 停车等待时车辆所在道路的方位
type Direction int

const (
	North Direction = iota
	East
	South
	West
	NumDirections
)

// IsValidDirection 检查方位是否在合法范围内
func IsValidDirection(dir Direction) bool {
	return dir >= 0 && dir < NumDirections
}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection 解析方位名称，大小写不敏感
func ParseDirection(s string) (Direction, error) {
	for d := Direction(0); d < NumDirections; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return NumDirections, errors.Wrapf(ErrInvalidDirection, "parse %q", s)
}

// RightOf 返回dir右侧的方位
func RightOf(dir Direction) Direction {
	mustDirection(dir)
	return (dir + 1) % NumDirections
}

// LeftOf 返回dir左侧的方位
func LeftOf(dir Direction) Direction {
	mustDirection(dir)
	return (dir + NumDirections - 1) % NumDirections
}

// OppositeOf 返回dir对面的方位，要求方位数为偶数
func OppositeOf(dir Direction) Direction {
	if NumDirections%2 != 0 {
		panic("OppositeOf is undefined for an odd number of directions")
	}
	opposite := dir
	for i := 0; i < int(NumDirections)/2; i++ {
		opposite = LeftOf(opposite)
	}
	return opposite
}

// TurnTarget 从dir出发按turn转向后到达的路口方位
func TurnTarget(dir Direction, turn TurnType) Direction {
	switch turn {
	case Left:
		return LeftOf(dir)
	case Right:
		return RightOf(dir)
	case Straight:
		return OppositeOf(dir)
	default:
		fatal(ErrInvalidTurnType, "turn target of %s", turn)
		return NumDirections
	}
}

func mustDirection(dir Direction) {
	if !IsValidDirection(dir) {
		fatal(ErrInvalidDirection, "direction %d", int(dir))
	}
}

// LaneOptions 道路上所有车道共用的参数
type LaneOptions struct {
	MaxVehiclesPerLane int
	CrossTicks         int // 通过路口需要的tick数
	OnDuration         int // 信号灯默认绿灯时长（tick）
}

// DefaultLaneOptions 按默认值和刷新率生成车道参数
func DefaultLaneOptions(ticksPerSecond int) LaneOptions {
	return LaneOptions{
		MaxVehiclesPerLane: DefaultMaxVehiclesPerLane,
		CrossTicks:         SecondsToTicks(DefaultTimeToCross, ticksPerSecond),
		OnDuration:         SecondsToTicks(DefaultOnDuration, ticksPerSecond),
	}
}

// Road 某一方位的道路，每种转向对应一组车道
type Road struct {
	direction   Direction
	turnOptions [NumTurnTypes]*TurnOption // 车道数为0的转向为占位对象
}

// NewRoad 创建一条道路，lanes按 左转/直行/右转 的顺序给出车道数
func NewRoad(dir Direction, lanes [NumTurnTypes]int, opts LaneOptions) (*Road, error) {
	if !IsValidDirection(dir) {
		return nil, errors.Wrapf(ErrInvalidDirection, "new road %d", int(dir))
	}
	for turn, n := range lanes {
		if n < 0 {
			return nil, errors.Wrapf(ErrInvalidLanes, "road %s %s lanes %d", dir, TurnType(turn), n)
		}
	}

	road := &Road{direction: dir}
	for turn := TurnType(0); turn < NumTurnTypes; turn++ {
		road.turnOptions[turn] = NewTurnOption(turn, lanes[turn], opts.MaxVehiclesPerLane, opts.CrossTicks, opts.OnDuration, Forever)
	}
	return road, nil
}

func (r *Road) Direction() Direction {
	return r.direction
}

// TurnOption 返回某个转向的车道组（可能为占位对象）
func (r *Road) TurnOption(turn TurnType) *TurnOption {
	if !IsValidTurnType(turn) {
		fatal(ErrInvalidTurnType, "road %s turn option %d", r.direction, int(turn))
	}
	return r.turnOptions[turn]
}

// TurnOptions 返回所有转向的车道组，顺序为 左转/直行/右转
func (r *Road) TurnOptions() []*TurnOption {
	return r.turnOptions[:]
}

// Light 返回某个转向的信号灯
func (r *Road) Light(turn TurnType) (*TrafficLight, bool) {
	return r.TurnOption(turn).Light()
}

// NumLanes 返回某个转向的车道数
func (r *Road) NumLanes(turn TurnType) int {
	return r.TurnOption(turn).NumLanes()
}

// TotalNumLanes 所有转向的车道数之和
func (r *Road) TotalNumLanes() int {
	return lo.SumBy(r.TurnOptions(), func(o *TurnOption) int {
		return o.NumLanes()
	})
}

// SetGreen 启动直行信号灯
// 返回设置的信号灯数量和其中由红灯新激活的数量
func (r *Road) SetGreen(onDuration, yellowDuration int) (int, int) {
	return r.startLight(Straight, onDuration, yellowDuration)
}

// SetGreenLeft 启动左转信号灯
func (r *Road) SetGreenLeft(onDuration, yellowDuration int) (int, int) {
	return r.startLight(Left, onDuration, yellowDuration)
}

// SetGreenRight 启动右转信号灯
func (r *Road) SetGreenRight(onDuration, yellowDuration int) (int, int) {
	return r.startLight(Right, onDuration, yellowDuration)
}

func (r *Road) startLight(turn TurnType, onDuration, yellowDuration int) (int, int) {
	light, ok := r.Light(turn)
	if !ok {
		return 0, 0
	}

	light.SetOnDuration(onDuration)
	if yellowDuration != Forever {
		light.SetYellowDuration(yellowDuration)
	}
	if light.Start() {
		return 1, 1
	}
	return 1, 0
}

// SetAllLightDurations 设置所有信号灯的持续时间，yellowDuration为-1时保持黄灯时长不变
// 返回设置的信号灯数量
func (r *Road) SetAllLightDurations(onDuration, redDuration, yellowDuration int) int {
	if onDuration < Forever || redDuration < Forever || yellowDuration < Forever {
		fatal(ErrInvalidDuration, "road %s durations %d/%d/%d", r.direction, onDuration, redDuration, yellowDuration)
	}

	numLightsSet := 0
	for _, opt := range r.turnOptions {
		light, ok := opt.Light()
		if !ok {
			continue
		}
		light.SetOnDuration(onDuration)
		light.SetDuration(Red, redDuration)
		if yellowDuration != Forever {
			light.SetYellowDuration(yellowDuration)
		}
		numLightsSet++
	}
	return numLightsSet
}
