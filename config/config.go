package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Config 保存所有配置项的顶级结构
type Config struct {
	Simulation   SimulationConfig   `json:"simulation"`
	Logging      LoggingConfig      `json:"logging"`
	Lane         LaneConfig         `json:"lane"`
	TrafficLight TrafficLightConfig `json:"trafficLight"`
	Demand       DemandConfig       `json:"demand"`
	Roads        []RoadConfig       `json:"roads"`
	ExitRoads    []RoadConfig       `json:"exitRoads"`
	Schedule     []LightConfigEntry `json:"schedule"`
}

// SimulationConfig 保存模拟相关的配置项
type SimulationConfig struct {
	TicksPerSecond int    `json:"ticksPerSecond"` // 每秒tick数
	RunTime        int    `json:"runTime"`        // 模拟秒数，-1表示一直运行
	RealTime       bool   `json:"realTime"`       // 是否按真实时间节奏运行
	Seed           uint64 `json:"seed"`           // 随机数种子，0表示使用时间
}

// LoggingConfig 保存日志与数据记录相关的配置项
type LoggingConfig struct {
	LogDir                 string `json:"logDir"`
	DataDir                string `json:"dataDir"`
	Level                  string `json:"level"`
	IntervalWriteToLog     int    `json:"intervalWriteToLog"`     // 输出状态日志的间隔（tick）
	IntervalWriteOtherData int    `json:"intervalWriteOtherData"` // 写入CSV的间隔（tick）
	RecordData             bool   `json:"recordData"`
}

// LaneConfig 保存车道相关的配置项
type LaneConfig struct {
	MaxVehiclesPerLane   int    `json:"maxVehiclesPerLane"`
	TimeToCross          int    `json:"timeToCross"`          // 秒
	ExitFallback         string `json:"exitFallback"`         // "straight" 或 "none"
	ExitDischargePerLane int    `json:"exitDischargePerLane"` // 每tick每条出口车道驶离的车辆数，-1表示不驶离
}

// TrafficLightConfig 保存信号灯相关的配置项
type TrafficLightConfig struct {
	OnDuration     int `json:"onDuration"`     // 秒
	YellowDuration int `json:"yellowDuration"` // 秒
}

// DemandConfig 保存车辆到达相关的配置项
type DemandConfig struct {
	ArrivalRate    float64 `json:"arrivalRate"`    // 每组转向车道每秒到达的车辆数
	RandomDisRange float64 `json:"randomDisRange"` // 随机波动范围 (0-1)
	ProfileFile    string  `json:"profileFile"`    // 按秒变化的需求系数CSV，可为空
}

// RoadConfig 一条道路的方位和各转向车道数（左转/直行/右转）
type RoadConfig struct {
	Direction string `json:"direction"`
	Lanes     [3]int `json:"lanes"`
}

// LightConfigEntry 信号配置表中的一项
type LightConfigEntry struct {
	Pattern        string `json:"pattern"` // doubleGreen / singleGreen / doubleGreenLeft
	Direction      string `json:"direction"`
	Duration       int    `json:"duration"`       // 秒
	YellowDuration *int   `json:"yellowDuration"` // 秒，省略时使用trafficLight.yellowDuration，-1表示沿用信号灯当前黄灯时长
}

// LoadConfig 从JSON文件加载配置并补齐默认值
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", filename)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Default 返回原始演示路口的配置
func Default() *Config {
	cfg := &Config{
		Simulation: SimulationConfig{RunTime: 20},
		Logging:    LoggingConfig{RecordData: true},
		Demand:     DemandConfig{ArrivalRate: 0.5, RandomDisRange: 0.2},
		Roads: []RoadConfig{
			{Direction: "north", Lanes: [3]int{3, 4, 5}},
			{Direction: "east", Lanes: [3]int{0, 1, 0}},
			{Direction: "west", Lanes: [3]int{2, 3, 1}},
			{Direction: "south", Lanes: [3]int{1, 2, 3}},
		},
		Schedule: []LightConfigEntry{
			{Pattern: "doubleGreen", Direction: "north", Duration: 3},
			{Pattern: "doubleGreenLeft", Direction: "north", Duration: 3},
			{Pattern: "doubleGreen", Direction: "east", Duration: 3},
			{Pattern: "singleGreen", Direction: "west", Duration: 3},
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	// 设置模拟参数的默认值
	if cfg.Simulation.TicksPerSecond <= 0 {
		cfg.Simulation.TicksPerSecond = 1
	}
	if cfg.Simulation.RunTime == 0 || cfg.Simulation.RunTime < -1 {
		cfg.Simulation.RunTime = 20
	}

	// 设置日志参数的默认值
	if cfg.Logging.LogDir == "" {
		cfg.Logging.LogDir = "./log"
	}
	if cfg.Logging.DataDir == "" {
		cfg.Logging.DataDir = "./data"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.IntervalWriteToLog <= 0 {
		cfg.Logging.IntervalWriteToLog = cfg.Simulation.TicksPerSecond
	}
	if cfg.Logging.IntervalWriteOtherData <= 0 {
		cfg.Logging.IntervalWriteOtherData = 10 * cfg.Simulation.TicksPerSecond
	}

	// 设置车道参数的默认值
	if cfg.Lane.MaxVehiclesPerLane <= 0 {
		cfg.Lane.MaxVehiclesPerLane = 5
	}
	if cfg.Lane.TimeToCross <= 0 {
		cfg.Lane.TimeToCross = 2
	}
	if cfg.Lane.ExitFallback == "" {
		cfg.Lane.ExitFallback = "straight"
	}
	if cfg.Lane.ExitDischargePerLane == 0 {
		cfg.Lane.ExitDischargePerLane = 1
	}

	// 设置信号灯参数的默认值
	if cfg.TrafficLight.OnDuration <= 0 {
		cfg.TrafficLight.OnDuration = 1
	}
	if cfg.TrafficLight.YellowDuration <= 0 {
		cfg.TrafficLight.YellowDuration = 1
	}

	// 设置需求参数的默认值
	if cfg.Demand.ArrivalRate < 0 {
		cfg.Demand.ArrivalRate = 0
	}
	if cfg.Demand.RandomDisRange < 0 || cfg.Demand.RandomDisRange > 1 {
		cfg.Demand.RandomDisRange = 0
	}

	// 信号配置表中未指定的时长使用信号灯默认值
	for i := range cfg.Schedule {
		if cfg.Schedule[i].Duration == 0 {
			cfg.Schedule[i].Duration = cfg.TrafficLight.OnDuration
		}
		if cfg.Schedule[i].YellowDuration == nil {
			yellow := cfg.TrafficLight.YellowDuration
			cfg.Schedule[i].YellowDuration = &yellow
		}
	}

	// 出口道路默认与进口道路车道数相同
	if len(cfg.ExitRoads) == 0 {
		cfg.ExitRoads = append([]RoadConfig(nil), cfg.Roads...)
	}
}
