package simulator

import (
	"encoding/csv"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"strconv"

	"smartTraffic/log"

	"github.com/pkg/errors"
)

// GetGenerateVehicleCount 根据期望到达量计算本tick应生成的车辆数量
//
// 算法:
//  1. 期望到达量乘以 [1-randomDis, 1+randomDis] 范围内的随机因子
//  2. 取整数部分作为基础车辆数
//  3. 剩余小数部分作为生成额外一辆车的概率
func GetGenerateVehicleCount(rng *rand.Rand, demand, randomDis float64) int {
	if randomDis < 0 || randomDis > 1 {
		randomDis = math.Max(0, math.Min(1, randomDis))
	}

	randomFactor := 1 + (rng.Float64()*2*randomDis - randomDis)
	baseDemand := math.Max(demand*randomFactor, 0)

	baseN := math.Floor(baseDemand)
	if rng.Float64() < baseDemand-baseN {
		baseN++
	}
	return int(baseN)
}

// DemandFactor 返回第second秒的需求系数，需求曲线为空时为1
// 需求曲线按其长度循环使用
func DemandFactor(profile []float64, second int64) float64 {
	if len(profile) == 0 || second < 0 {
		return 1
	}
	return profile[second%int64(len(profile))]
}

// ReadDemandCSV 从CSV文件读取按秒变化的需求系数
//
// 文件格式:
//
//	第一行为标题
//	之后每行包含秒序号和对应的需求系数
//
// 无法解析或为负数的行被跳过
func ReadDemandCSV(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open demand file")
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read demand file %s", filename)
	}
	if len(records) < 2 {
		return nil, errors.Errorf("demand file %s has insufficient data", filename)
	}

	demand := make([]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < 2 {
			log.Logger().Warn("demand record has insufficient fields", slog.Int("line", i+2))
			continue
		}
		factor, err := strconv.ParseFloat(record[1], 64)
		if err != nil || factor < 0 {
			log.Logger().Warn("demand record skipped", slog.Int("line", i+2), slog.String("value", record[1]))
			continue
		}
		demand = append(demand, factor)
	}

	log.Logger().Info("demand profile loaded", slog.Int("points", len(demand)), slog.String("file", filename))
	return demand, nil
}
