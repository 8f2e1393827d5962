package simulator

import (
	"log/slog"

	"smartTraffic/element"

	"github.com/pkg/errors"
)

// Schedule 在信号配置表末尾追加一项
func (i *Intersection) Schedule(cfg LightConfig) {
	i.lightConfigs = append(i.lightConfigs, cfg)
}

// LightConfigs 返回信号配置表的副本
func (i *Intersection) LightConfigs() []LightConfig {
	return append([]LightConfig(nil), i.lightConfigs...)
}

// CurrentLightConfig 返回当前生效的信号配置，未启动时返回false
func (i *Intersection) CurrentLightConfig() (LightConfig, bool) {
	if !i.started || len(i.lightConfigs) == 0 {
		return LightConfig{}, false
	}
	return i.lightConfigs[i.configIndex], true
}

// Start 应用信号配置表中的第一项
// 配置需要的道路不存在时返回ErrRoadNotFound，信号灯保持不变
func (i *Intersection) Start() error {
	if len(i.lightConfigs) == 0 {
		return ErrEmptySchedule
	}
	i.configIndex = 0
	i.started = true
	return i.applyCurrentConfig()
}

// NextLightConfig 循环切换到下一项信号配置并应用
func (i *Intersection) NextLightConfig() error {
	if len(i.lightConfigs) == 0 {
		return ErrEmptySchedule
	}
	if !i.started {
		return i.Start()
	}
	i.configIndex = (i.configIndex + 1) % len(i.lightConfigs)
	return i.applyCurrentConfig()
}

func (i *Intersection) applyCurrentConfig() error {
	cfg := i.lightConfigs[i.configIndex]
	if !i.applyLightConfig(cfg) {
		i.logger.Warn("light config skipped",
			slog.Int("index", i.configIndex),
			slog.String("config", cfg.String()),
		)
		return errors.Wrapf(ErrRoadNotFound, "light config %d %s", i.configIndex, cfg)
	}
	i.logger.Debug("light config applied",
		slog.Int64("time", i.time),
		slog.Int("index", i.configIndex),
		slog.String("config", cfg.String()),
		slog.Int("unfinishedLights", i.unfinishedLights),
	)
	return nil
}

func (i *Intersection) applyLightConfig(cfg LightConfig) bool {
	tps := i.opts.TicksPerSecond
	on := element.SecondsToTicks(cfg.Duration(), tps)
	yellow := element.SecondsToTicks(cfg.YellowDuration(), tps)

	switch cfg.Pattern() {
	case DoubleGreen:
		return i.DoubleGreen(cfg.Direction(), on, yellow)
	case SingleGreen:
		return i.SingleGreen(cfg.Direction(), on, yellow)
	case DoubleGreenLeft:
		return i.DoubleGreenLeft(cfg.Direction(), on, yellow)
	default:
		panic(errors.Wrapf(ErrInvalidPattern, "apply light config %d", int(cfg.Pattern())))
	}
}

// DoubleGreen dir方位与对向道路的直行和右转同时放行
// 时长单位为tick，yellowDuration为-1时保持黄灯时长不变
// 任一道路不存在时返回false且不修改任何信号灯
func (i *Intersection) DoubleGreen(dir element.Direction, onDuration, yellowDuration int) bool {
	mustDurations(onDuration, yellowDuration)
	road, ok := i.Road(dir)
	if !ok {
		return false
	}
	opposite, ok := i.Road(element.OppositeOf(dir))
	if !ok {
		return false
	}

	for _, r := range []*element.Road{road, opposite} {
		i.countActivated(r.SetGreen(onDuration, yellowDuration))
		i.countActivated(r.SetGreenRight(onDuration, yellowDuration))
	}
	return true
}

// SingleGreen dir方位道路的直行、右转和左转同时放行
func (i *Intersection) SingleGreen(dir element.Direction, onDuration, yellowDuration int) bool {
	mustDurations(onDuration, yellowDuration)
	road, ok := i.Road(dir)
	if !ok {
		return false
	}

	i.countActivated(road.SetGreen(onDuration, yellowDuration))
	i.countActivated(road.SetGreenRight(onDuration, yellowDuration))
	i.countActivated(road.SetGreenLeft(onDuration, yellowDuration))
	return true
}

// DoubleGreenLeft dir方位与对向道路的左转同时放行
func (i *Intersection) DoubleGreenLeft(dir element.Direction, onDuration, yellowDuration int) bool {
	mustDurations(onDuration, yellowDuration)
	road, ok := i.Road(dir)
	if !ok {
		return false
	}
	opposite, ok := i.Road(element.OppositeOf(dir))
	if !ok {
		return false
	}

	i.countActivated(road.SetGreenLeft(onDuration, yellowDuration))
	i.countActivated(opposite.SetGreenLeft(onDuration, yellowDuration))
	return true
}

// countActivated 只统计由红灯新启动的信号灯，已亮起的灯重新启动不重复计数
func (i *Intersection) countActivated(_, activated int) {
	i.unfinishedLights += activated
}

func mustDurations(onDuration, yellowDuration int) {
	if onDuration < element.Forever || yellowDuration < element.Forever {
		panic(errors.Wrapf(element.ErrInvalidDuration, "light durations %d/%d", onDuration, yellowDuration))
	}
}
