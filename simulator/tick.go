package simulator

import (
	"log/slog"

	"smartTraffic/element"

	"github.com/pkg/errors"
)

// Tick 推进路口一个tick，返回尚未变回红灯的信号灯数量
//
// 按方位顺序处理每条道路的每个有效转向：先推进车辆，再推进信号灯。
// 随后出口道路按ExitDischargePerLane驶离车辆。
// 返回0表示当前信号配置已结束，调用方可以切换到下一项。
func (i *Intersection) Tick() int {
	for _, road := range i.roads {
		if road == nil {
			continue
		}
		for _, opt := range road.TurnOptions() {
			if !opt.IsValid() {
				continue
			}
			i.handleVehicles(road.Direction(), opt)
			i.handleLight(road.Direction(), opt)
		}
	}
	i.dischargeExitRoads()

	i.time++
	return i.unfinishedLights
}

func (i *Intersection) handleVehicles(dir element.Direction, opt *element.TurnOption) {
	light, _ := opt.Light()

	switch {
	case opt.VehiclesAreCrossing() && opt.CurrentVehicleProgress() == 0:
		i.beginCrossing(dir, opt)
	case opt.VehiclesAreCrossing() && light.IsRed():
		stranded := opt.VehiclesLeftInIntersection()
		i.stats.Jams++
		i.stats.VehiclesDropped += stranded
		i.logger.Warn("traffic jam",
			slog.Int64("time", i.time),
			slog.String("road", dir.String()),
			slog.String("turn", opt.Type().String()),
			slog.Int("dropped", stranded),
			slog.String("cause", "light turned red while crossing"),
		)
	case opt.VehiclesAreCrossing():
		opt.ProgressVehicles()
	case light.IsGreen() && !opt.QueueIsEmpty():
		i.beginCrossing(dir, opt)
	}
}

// beginCrossing 放行已完成通过的车辆并让下一批车辆开始通过
func (i *Intersection) beginCrossing(dir element.Direction, opt *element.TurnOption) {
	exit, fellBack := i.exitTurnOption(dir, opt.Type())
	result := opt.NextVehiclesBeginCrossing(exit)

	i.stats.VehiclesExited += result.Exited
	if fellBack && result.Exited+result.Dropped > 0 {
		i.stats.FallbackExits++
	}
	if !result.Jammed {
		return
	}
	i.stats.Jams++
	i.stats.VehiclesDropped += result.Dropped
	i.logger.Warn("traffic jam",
		slog.Int64("time", i.time),
		slog.String("road", dir.String()),
		slog.String("turn", opt.Type().String()),
		slog.Int("dropped", result.Dropped),
		slog.String("cause", "exit queue full"),
	)
}

// exitTurnOption 返回从dir方位执行turn转向后进入的出口车道组，以及是否回退到了直行车道
// 出口道路不存在时返回nil，车辆离开模拟范围
func (i *Intersection) exitTurnOption(dir element.Direction, turn element.TurnType) (*element.TurnOption, bool) {
	exit := i.exitRoads[element.TurnTarget(dir, turn)]
	if exit == nil {
		return nil, false
	}
	if opt := exit.TurnOption(turn); opt.IsValid() {
		return opt, false
	}
	if i.opts.ExitFallback != FallbackStraight {
		return nil, false
	}
	if opt := exit.TurnOption(element.Straight); opt.IsValid() {
		return opt, true
	}
	return nil, false
}

func (i *Intersection) handleLight(dir element.Direction, opt *element.TurnOption) {
	light, _ := opt.Light()
	if light.IsRed() {
		return
	}

	light.Tick()
	if !light.IsRed() {
		return
	}

	i.unfinishedLights--
	if i.unfinishedLights < 0 {
		panic(errors.Wrapf(ErrLightDesync, "%s %s light at tick %d", dir, opt.Type(), i.time))
	}
}

// dischargeExitRoads 出口车道上的车辆驶离路口范围
// 同时作为进口道路的出口不驶离，其车辆由信号灯放行
func (i *Intersection) dischargeExitRoads() {
	perLane := i.opts.ExitDischargePerLane
	if perLane <= 0 {
		return
	}
	for _, exit := range i.exitRoads {
		if exit == nil || i.isApproach(exit) {
			continue
		}
		for _, opt := range exit.TurnOptions() {
			if opt.IsValid() {
				opt.Discharge(perLane * opt.NumLanes())
			}
		}
	}
}

func (i *Intersection) isApproach(road *element.Road) bool {
	for _, r := range i.roads {
		if r == road {
			return true
		}
	}
	return false
}
