package simulator

import (
	"log/slog"

	"smartTraffic/config"
	"smartTraffic/element"

	"github.com/pkg/errors"
)

// BuildIntersection 根据配置组装路口：进口道路、出口道路和信号配置表
// 道路按配置中的顺序加入，转向可行性检查依赖这一顺序
func BuildIntersection(cfg *config.Config, logger *slog.Logger) (*Intersection, error) {
	fallback, err := ParseExitFallback(cfg.Lane.ExitFallback)
	if err != nil {
		return nil, err
	}

	inter := NewIntersection(Options{
		TicksPerSecond: cfg.Simulation.TicksPerSecond,
		Lane: LaneConfig{
			MaxVehiclesPerLane: cfg.Lane.MaxVehiclesPerLane,
			TimeToCross:        cfg.Lane.TimeToCross,
			OnDuration:         cfg.TrafficLight.OnDuration,
		},
		ExitFallback:         fallback,
		ExitDischargePerLane: cfg.Lane.ExitDischargePerLane,
		Logger:               logger,
	})

	for _, rc := range cfg.Roads {
		dir, err := element.ParseDirection(rc.Direction)
		if err != nil {
			return nil, errors.Wrap(err, "road")
		}
		if result := inter.AddRoad(dir, rc.Lanes); result != Success {
			return nil, errors.Wrapf(ErrInvalidConfig, "add road %s: %s", dir, result)
		}
	}

	for _, rc := range cfg.ExitRoads {
		dir, err := element.ParseDirection(rc.Direction)
		if err != nil {
			return nil, errors.Wrap(err, "exit road")
		}
		road, err := element.NewRoad(dir, rc.Lanes, inter.laneOptions())
		if err != nil {
			return nil, errors.Wrapf(err, "exit road %s", dir)
		}
		inter.SetExitRoad(dir, road)
	}

	for n, entry := range cfg.Schedule {
		pattern, err := ParsePattern(entry.Pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "schedule entry %d", n)
		}
		dir, err := element.ParseDirection(entry.Direction)
		if err != nil {
			return nil, errors.Wrapf(err, "schedule entry %d", n)
		}
		yellow := cfg.TrafficLight.YellowDuration
		if entry.YellowDuration != nil {
			yellow = *entry.YellowDuration
		}
		if entry.Duration < element.Forever || yellow < element.Forever {
			return nil, errors.Wrapf(ErrInvalidConfig, "schedule entry %d durations %d/%d", n, entry.Duration, yellow)
		}
		inter.Schedule(NewLightConfig(pattern, dir, entry.Duration, yellow))
	}

	return inter, nil
}
