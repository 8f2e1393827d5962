package simulator

import (
	"fmt"
	"strconv"
	"strings"

	"smartTraffic/element"

	"github.com/pkg/errors"
)

// Pattern 信号配置的放行方式
type Pattern int

const (
	DoubleGreen     Pattern = iota // 本方向与对向直行、右转
	SingleGreen                    // 本方向直行、右转、左转
	DoubleGreenLeft                // 本方向与对向左转
	NumPatterns
)

func (p Pattern) String() string {
	switch p {
	case DoubleGreen:
		return "doubleGreen"
	case SingleGreen:
		return "singleGreen"
	case DoubleGreenLeft:
		return "doubleGreenLeft"
	default:
		return "Pattern(" + strconv.Itoa(int(p)) + ")"
	}
}

// ParsePattern 解析配置文件中的放行方式名称，不区分大小写
func ParsePattern(s string) (Pattern, error) {
	for p := Pattern(0); p < NumPatterns; p++ {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return NumPatterns, errors.Wrapf(ErrInvalidConfig, "unknown pattern %q", s)
}

// LightConfig 信号配置表中的一项，创建后不可修改
// Duration和YellowDuration的单位为秒，Duration为-1表示永久，YellowDuration为-1表示沿用信号灯当前黄灯时长
type LightConfig struct {
	pattern        Pattern
	direction      element.Direction
	duration       int
	yellowDuration int
}

// NewLightConfig 创建一项信号配置
func NewLightConfig(pattern Pattern, dir element.Direction, duration, yellowDuration int) LightConfig {
	if pattern < 0 || pattern >= NumPatterns {
		panic(errors.Wrapf(ErrInvalidPattern, "new light config %d", int(pattern)))
	}
	if !element.IsValidDirection(dir) {
		panic(errors.Wrapf(element.ErrInvalidDirection, "new light config %d", int(dir)))
	}
	if duration < element.Forever || yellowDuration < element.Forever {
		panic(errors.Wrapf(element.ErrInvalidDuration, "new light config %d/%d", duration, yellowDuration))
	}
	return LightConfig{
		pattern:        pattern,
		direction:      dir,
		duration:       duration,
		yellowDuration: yellowDuration,
	}
}

func (c LightConfig) Pattern() Pattern {
	return c.pattern
}

func (c LightConfig) Direction() element.Direction {
	return c.direction
}

func (c LightConfig) Duration() int {
	return c.duration
}

func (c LightConfig) YellowDuration() int {
	return c.yellowDuration
}

// TotalDuration 绿灯与黄灯时长之和，绿灯为永久时返回-1
// 黄灯为-1时信号灯沿用当前黄灯时长，由调用方传入keptYellow（秒）
func (c LightConfig) TotalDuration(keptYellow int) int {
	if c.duration == element.Forever {
		return element.Forever
	}
	yellow := c.yellowDuration
	if yellow == element.Forever {
		yellow = keptYellow
	}
	if yellow == element.Forever {
		return element.Forever
	}
	return c.duration + yellow
}

func (c LightConfig) String() string {
	return fmt.Sprintf("%s(%s, %ds+%ds)", c.pattern, c.direction, c.duration, c.yellowDuration)
}
