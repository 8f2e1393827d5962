package element

import (
	"fmt"
	"strings"
)

// Color 表示信号灯颜色
type Color int

const (
	Green Color = iota
	GreenLeft
	GreenRight
	Yellow
	Red
	NumColors
)

const (
	// Forever 表示该颜色永不过期
	Forever = -1

	DefaultOnDuration     = 1
	DefaultYellowDuration = 1
)

// IsValidColor 检查颜色是否在合法范围内
func IsValidColor(c Color) bool {
	return c >= 0 && c < NumColors
}

// IsGreen 三种绿灯（直行、左转、右转）均视为绿灯
func (c Color) IsGreen() bool {
	return c == Green || c == GreenLeft || c == GreenRight
}

func (c Color) String() string {
	switch c {
	case Green:
		return "green"
	case GreenLeft:
		return "greenLeft"
	case GreenRight:
		return "greenRight"
	case Yellow:
		return "yellow"
	case Red:
		return "red"
	default:
		return fmt.Sprintf("Color(%d)", int(c))
	}
}

// SecondsToTicks 按给定的刷新率将秒转换为tick数，Forever保持不变
func SecondsToTicks(seconds, ticksPerSecond int) int {
	if seconds == Forever {
		return Forever
	}
	if ticksPerSecond <= 0 {
		panic("ticksPerSecond must be positive")
	}
	return seconds * ticksPerSecond
}

// TrafficLight 单个信号灯的状态机
// 颜色循环: onColor -> yellow -> red -> onColor
type TrafficLight struct {
	onColor           Color          // 该灯的绿灯类型
	color             Color          // 当前颜色
	durationRemaining int            // 当前颜色剩余tick数，-1表示永不过期
	colorDuration     [NumColors]int // 每种颜色的持续时间
	freshStart        bool           // Start发生在两个tick之间，其后第一个tick即为该颜色的第一个tick
	vehiclesDirected  uint64         // 该灯放行通过路口的车辆累计数
}

// NewTrafficLight 创建一个新的信号灯，初始为红灯且永不过期，直到调用Start
func NewTrafficLight(onColor Color, onDuration, redDuration int) *TrafficLight {
	if !onColor.IsGreen() {
		fatal(ErrInvalidState, "on color must be a green variant, got %s", onColor)
	}

	light := &TrafficLight{
		onColor:           onColor,
		color:             Red,
		durationRemaining: Forever,
	}
	light.colorDuration[Yellow] = DefaultYellowDuration
	light.colorDuration[Red] = Forever
	light.SetDuration(onColor, onDuration)
	light.SetDuration(Red, redDuration)

	return light
}

// Start 切换到onColor并按持续时间表重置倒计时
// 返回调用前该灯是否为红灯（即是否为一次新的激活）
func (l *TrafficLight) Start() bool {
	wasRed := l.color == Red
	l.setColor(l.onColor)
	l.freshStart = true
	return wasRed
}

// Tick 倒计时减一（若为正），然后判断是否切换颜色，返回新的倒计时
func (l *TrafficLight) Tick() int {
	if l.durationRemaining > 0 && !l.freshStart {
		l.durationRemaining--
	}
	l.freshStart = false

	l.NextState()

	return l.durationRemaining
}

// NextState 倒计时为0时切换到下一个颜色
func (l *TrafficLight) NextState() Color {
	if l.durationRemaining != 0 {
		return l.color
	}

	switch l.color {
	case Green, GreenLeft, GreenRight:
		l.setColor(Yellow)
	case Yellow:
		l.setColor(Red)
	case Red:
		l.setColor(l.onColor)
	default:
		fatal(ErrInvalidState, "color %s in NextState", l.color)
	}

	return l.color
}

func (l *TrafficLight) setColor(c Color) {
	if !IsValidColor(c) {
		fatal(ErrInvalidState, "set color %s", c)
	}
	l.color = c
	l.durationRemaining = l.colorDuration[c]
}

// SetDuration 设置某个颜色的持续时间，小于-1视为致命错误
func (l *TrafficLight) SetDuration(c Color, duration int) {
	if !IsValidColor(c) {
		fatal(ErrInvalidState, "set duration of color %s", c)
	}
	if duration < Forever {
		fatal(ErrInvalidDuration, "color %s duration %d", c, duration)
	}
	l.colorDuration[c] = duration
}

// SetOnDuration 设置绿灯持续时间
func (l *TrafficLight) SetOnDuration(duration int) {
	l.SetDuration(l.onColor, duration)
}

// SetYellowDuration 设置黄灯持续时间
func (l *TrafficLight) SetYellowDuration(duration int) {
	l.SetDuration(Yellow, duration)
}

// SetDurationRemaining 直接覆盖当前倒计时
func (l *TrafficLight) SetDurationRemaining(duration int) {
	if duration < Forever {
		fatal(ErrInvalidDuration, "remaining duration %d", duration)
	}
	l.durationRemaining = duration
}

// AddVehiclesDirected 累加放行车辆数
func (l *TrafficLight) AddVehiclesDirected(n int) uint64 {
	if n > 0 {
		l.vehiclesDirected += uint64(n)
	}
	return l.vehiclesDirected
}

func (l *TrafficLight) Color() Color {
	return l.color
}

func (l *TrafficLight) OnColor() Color {
	return l.onColor
}

func (l *TrafficLight) IsGreen() bool {
	return l.color.IsGreen()
}

func (l *TrafficLight) IsRed() bool {
	return l.color == Red
}

func (l *TrafficLight) DurationRemaining() int {
	return l.durationRemaining
}

// ColorDuration 返回某个颜色的持续时间
func (l *TrafficLight) ColorDuration(c Color) int {
	if !IsValidColor(c) {
		fatal(ErrInvalidState, "duration of color %s", c)
	}
	return l.colorDuration[c]
}

func (l *TrafficLight) NumVehiclesDirected() uint64 {
	return l.vehiclesDirected
}

// String 格式: <c:'green' dr:2 2-0-0-1--1>
func (l *TrafficLight) String() string {
	durations := make([]string, NumColors)
	for c := Color(0); c < NumColors; c++ {
		durations[c] = fmt.Sprint(l.colorDuration[c])
	}
	return fmt.Sprintf("<c:'%s' dr:%d %s>", l.color, l.durationRemaining, strings.Join(durations, "-"))
}
