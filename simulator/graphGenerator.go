package simulator

import (
	"fmt"

	"smartTraffic/element"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// exitNodeOffset 出口车道组节点ID的起始值
const exitNodeOffset = 100

// LaneNode 拓扑图中的一个节点，对应一组进口或出口车道
type LaneNode struct {
	id        int64
	Direction element.Direction
	Turn      element.TurnType
	Exit      bool
	Lanes     int
}

func (n LaneNode) ID() int64 {
	return n.id
}

func (n LaneNode) String() string {
	kind := "approach"
	if n.Exit {
		kind = "exit"
	}
	return fmt.Sprintf("%s %s %s", kind, n.Direction, n.Turn)
}

func laneNodeID(dir element.Direction, turn element.TurnType, exit bool) int64 {
	id := int64(dir)*int64(element.NumTurnTypes) + int64(turn)
	if exit {
		id += exitNodeOffset
	}
	return id
}

// TopologyGraph 构建路口的车道拓扑图
//
// 每组有效的进口车道和出口车道各为一个节点，
// 每个转向从进口车道组指向其实际进入的出口车道组。
// 车辆直接离开模拟范围的转向没有出边。
func (i *Intersection) TopologyGraph() *simple.DirectedGraph {
	g := simple.NewDirectedGraph()

	for dir, exit := range i.exitRoads {
		if exit == nil {
			continue
		}
		for _, opt := range exit.TurnOptions() {
			if !opt.IsValid() {
				continue
			}
			g.AddNode(LaneNode{
				id:        laneNodeID(element.Direction(dir), opt.Type(), true),
				Direction: element.Direction(dir),
				Turn:      opt.Type(),
				Exit:      true,
				Lanes:     opt.NumLanes(),
			})
		}
	}

	for _, road := range i.Roads() {
		for _, opt := range road.TurnOptions() {
			if !opt.IsValid() {
				continue
			}
			from := LaneNode{
				id:        laneNodeID(road.Direction(), opt.Type(), false),
				Direction: road.Direction(),
				Turn:      opt.Type(),
				Lanes:     opt.NumLanes(),
			}
			g.AddNode(from)

			to, ok := i.exitLaneNode(road.Direction(), opt.Type())
			if !ok {
				continue
			}
			g.SetEdge(simple.Edge{F: from, T: g.Node(to)})
		}
	}

	return g
}

// exitLaneNode 返回转向实际进入的出口车道组节点ID，不计入回退统计
func (i *Intersection) exitLaneNode(dir element.Direction, turn element.TurnType) (int64, bool) {
	side := element.TurnTarget(dir, turn)
	exit := i.exitRoads[side]
	if exit == nil {
		return 0, false
	}
	if exit.TurnOption(turn).IsValid() {
		return laneNodeID(side, turn, true), true
	}
	if i.opts.ExitFallback == FallbackStraight && exit.TurnOption(element.Straight).IsValid() {
		return laneNodeID(side, element.Straight, true), true
	}
	return 0, false
}

// VerifyTopology 检查车道拓扑，返回发现的问题
// 这些问题不影响路口能否运行，只作为提示
func (i *Intersection) VerifyTopology() []string {
	g := i.TopologyGraph()
	var problems []string

	for _, road := range i.Roads() {
		for _, opt := range road.TurnOptions() {
			if !opt.IsValid() {
				continue
			}
			dir, turn := road.Direction(), opt.Type()
			side := element.TurnTarget(dir, turn)
			exit := i.exitRoads[side]
			if exit == nil {
				continue
			}

			node := g.Node(laneNodeID(dir, turn, false))
			targets := graph.NodesOf(g.From(node.ID()))
			switch {
			case len(targets) == 0:
				problems = append(problems, fmt.Sprintf("%s %s has no exit lane on %s, vehicles leave the intersection", dir, turn, side))
			case targets[0].(LaneNode).Turn != turn:
				problems = append(problems, fmt.Sprintf("%s %s exits into %s straight lanes", dir, turn, side))
			}
			if len(targets) > 0 {
				if lanes := targets[0].(LaneNode).Lanes; lanes < opt.NumLanes() {
					problems = append(problems, fmt.Sprintf("%s %s has %d lanes but exit has %d", dir, turn, opt.NumLanes(), lanes))
				}
			}
		}
	}

	nodes := g.Nodes()
	for nodes.Next() {
		n := nodes.Node().(LaneNode)
		if n.Exit && g.To(n.ID()).Len() == 0 {
			problems = append(problems, fmt.Sprintf("%s is never used", n))
		}
	}

	return problems
}
