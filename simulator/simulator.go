package simulator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"smartTraffic/element"
	"smartTraffic/log"
	"smartTraffic/recorder"

	"github.com/pkg/errors"
)

// RunOptions 模拟主循环的参数
type RunOptions struct {
	RunTime                int  // 模拟秒数，-1表示一直运行
	RealTime               bool // 按每秒TicksPerSecond个tick的真实节奏运行
	Generator              *VehicleGenerator
	Recorder               *recorder.Recorder
	IntervalWriteToLog     int // 输出状态日志并记录信号灯、车道数据的间隔（tick）
	IntervalWriteOtherData int // 写入CSV的间隔（tick）
}

// Run 运行模拟主循环
//
// 路口先经过Validate检查并应用第一项信号配置，
// 之后每个tick生成车辆、推进路口，所有信号灯变回红灯后切换到下一项配置。
// RunTime到达或ctx取消后返回，取消时同时返回ctx的错误。
func Run(ctx context.Context, inter *Intersection, opts RunOptions) (*SystemState, error) {
	if ok, reasons := inter.Validate(); !ok {
		return nil, errors.Wrap(ErrInvalidConfig, strings.Join(reasons, "; "))
	}
	if err := inter.Start(); err != nil {
		if errors.Is(err, ErrEmptySchedule) {
			return nil, err
		}
		log.LogError("first light config not applied", err)
	}

	tps := inter.TicksPerSecond()
	if opts.IntervalWriteToLog <= 0 {
		opts.IntervalWriteToLog = tps
	}
	if opts.IntervalWriteOtherData <= 0 {
		opts.IntervalWriteOtherData = 10 * tps
	}

	var ticker *time.Ticker
	if opts.RealTime {
		ticker = time.NewTicker(time.Second / time.Duration(tps))
		defer ticker.Stop()
	}

	state := NewSystemState()
	totalTicks := int64(opts.RunTime) * int64(tps)
	for step := int64(0); opts.RunTime == element.Forever || step < totalTicks; step++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return state, ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return state, err
		}

		if opts.Generator != nil {
			opts.Generator.Generate(inter)
		}

		if inter.Tick() == 0 {
			if err := inter.NextLightConfig(); err != nil {
				log.LogError("light config not applied", err, slog.Int64("time", inter.Time()))
			}
		}

		state.Update(inter, opts.Generator)
		if opts.Recorder != nil {
			state.RecordData(opts.Recorder)
		}

		if step%int64(opts.IntervalWriteToLog) == 0 {
			state.LogStatus(tps)
			if opts.Recorder != nil {
				RecordIntersection(inter, opts.Recorder)
			}
		}
		if opts.Recorder != nil && step%int64(opts.IntervalWriteOtherData) == 0 {
			opts.Recorder.Flush()
		}
	}

	return state, nil
}
