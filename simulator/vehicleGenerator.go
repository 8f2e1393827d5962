package simulator

import (
	"math/rand/v2"
	"time"

	"smartTraffic/element"
)

// VehicleGenerator 按到达率向每组有效进口车道加入车辆
type VehicleGenerator struct {
	rng            *rand.Rand
	arrivalRate    float64 // 每组车道每秒到达的车辆数
	randomDis      float64
	profile        []float64
	ticksPerSecond int

	numGenerated int64
	numRejected  int64
}

// NewVehicleGenerator 创建车辆生成器，seed为0时使用当前时间
func NewVehicleGenerator(arrivalRate, randomDis float64, profile []float64, ticksPerSecond int, seed uint64) *VehicleGenerator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if ticksPerSecond <= 0 {
		ticksPerSecond = 1
	}
	return &VehicleGenerator{
		rng:            rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		arrivalRate:    max(arrivalRate, 0),
		randomDis:      randomDis,
		profile:        profile,
		ticksPerSecond: ticksPerSecond,
	}
}

// Generate 为当前tick生成车辆，返回实际进入队列的车辆数
func (g *VehicleGenerator) Generate(inter *Intersection) int {
	second := inter.Time() / int64(g.ticksPerSecond)
	demand := g.arrivalRate * DemandFactor(g.profile, second) / float64(g.ticksPerSecond)

	added := 0
	for _, road := range inter.Roads() {
		for turn := element.TurnType(0); turn < element.NumTurnTypes; turn++ {
			opt := road.TurnOption(turn)
			if !opt.IsValid() {
				continue
			}
			n := GetGenerateVehicleCount(g.rng, demand, g.randomDis)
			if n == 0 {
				continue
			}
			g.numGenerated += int64(n)

			before := opt.QueuedVehicles()
			inter.AddVehicles(road.Direction(), turn, n)
			accepted := opt.QueuedVehicles() - before
			g.numRejected += int64(n - accepted)
			added += accepted
		}
	}
	return added
}

// Counts 返回生成的车辆总数和因队列已满被拒绝的车辆数
func (g *VehicleGenerator) Counts() (int64, int64) {
	return g.numGenerated, g.numRejected
}
