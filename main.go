package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"smartTraffic/config"
	"smartTraffic/log"
	"smartTraffic/recorder"
	"smartTraffic/simulator"
	"smartTraffic/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func main() {
	configFile := flag.String("config", "config/config.json", "配置文件路径，为空时使用内置演示路口")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintf(os.Stderr, "simulation failed: %+v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	// 加载配置文件
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// 生成唯一的运行标识
	runID := uuid.New()

	// 初始化资源
	pool, rec, err := initializeResources(cfg, runID)
	if err != nil {
		return err
	}
	defer func() {
		log.WriteLog("stopping worker pool")
		pool.Stop()
		log.CloseLog()
	}()

	// 初始化模拟环境
	inter, gen, err := initializeSimulationEnvironment(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 开始模拟
	log.WriteLog("----------------------------------Simulation Start----------------------------------")
	state, err := simulator.Run(ctx, inter, simulator.RunOptions{
		RunTime:                cfg.Simulation.RunTime,
		RealTime:               cfg.Simulation.RealTime,
		Generator:              gen,
		Recorder:               rec,
		IntervalWriteToLog:     cfg.Logging.IntervalWriteToLog,
		IntervalWriteOtherData: cfg.Logging.IntervalWriteOtherData,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	// 完成模拟，写入最后的数据
	if rec != nil {
		if err := simulator.FinishSimulation(inter, state, rec); err != nil {
			return err
		}
	}

	jams, dropped := state.GetJams()
	log.Logger().Info("completed",
		slog.Int64("ticks", inter.Time()),
		slog.Int("jams", jams),
		slog.Int("dropped", dropped),
	)
	return nil
}

// 初始化系统资源
func initializeResources(cfg *config.Config, runID uuid.UUID) (*utils.WorkerPool, *recorder.Recorder, error) {
	initTime := time.Now().Format("20060102150405")

	// 日志初始化
	logFile := filepath.Join(cfg.Logging.LogDir, fmt.Sprintf("%s_%s.log", initTime, runID))
	if err := log.InitLog(logFile, log.ParseLevel(cfg.Logging.Level)); err != nil {
		return nil, nil, err
	}
	log.LogEnvironment()

	// 记录模拟参数
	log.LogSimParameters(
		runID.String(),
		cfg.Simulation.TicksPerSecond,
		cfg.Simulation.RunTime,
		cfg.Lane.MaxVehiclesPerLane,
		cfg.Lane.TimeToCross,
		cfg.Demand.ArrivalRate,
		len(cfg.Schedule),
	)

	// 初始化工作池
	numWorkers := runtime.GOMAXPROCS(0)
	pool := utils.NewWorkerPool(numWorkers)
	if !cfg.Logging.RecordData {
		return pool, nil, nil
	}

	// 数据CSV初始化
	rec, err := recorder.NewRecorder(cfg.Logging.DataDir, runID, pool)
	if err != nil {
		pool.Stop()
		return nil, nil, err
	}
	return pool, rec, nil
}

// 初始化模拟环境
func initializeSimulationEnvironment(cfg *config.Config) (*simulator.Intersection, *simulator.VehicleGenerator, error) {
	inter, err := simulator.BuildIntersection(cfg, log.Logger())
	if err != nil {
		return nil, nil, err
	}
	log.Logger().Info("intersection built",
		slog.Int("roads", inter.NumRoads()),
		slog.Int("lightConfigs", len(inter.LightConfigs())),
	)

	var profile []float64
	if cfg.Demand.ProfileFile != "" {
		profile, err = simulator.ReadDemandCSV(cfg.Demand.ProfileFile)
		if err != nil {
			return nil, nil, err
		}
	}
	gen := simulator.NewVehicleGenerator(
		cfg.Demand.ArrivalRate,
		cfg.Demand.RandomDisRange,
		profile,
		cfg.Simulation.TicksPerSecond,
		cfg.Simulation.Seed,
	)
	return inter, gen, nil
}
