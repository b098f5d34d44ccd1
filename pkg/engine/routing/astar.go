package routing

import (
	"math"

	"github.com/lintang-b-s/navigatorx-lm/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
)

/*
AStar. unidirectional A* search.

Hart, P.E., Nilsson, N.J. and Raphael, B. (1968) “A Formal Basis for the Heuristic Determination of Minimum Cost Paths”:
with an admissible heuristic the first time the target is extracted from the queue its label is the shortest path weight,
as long as nodes whose label improves after extraction are reopened. a consistent heuristic never reopens.
*/
type AStar struct {
	graph     da.RoadGraph
	weighting costfunction.Weighting
	approx    WeightApproximator

	forwardInfo map[da.Index]*VertexInfo
	pq          *da.MinHeap[da.Index]

	numSettledNodes int
	maxVisitedNodes int
}

func NewAStar(g da.RoadGraph, w costfunction.Weighting) *AStar {
	return &AStar{
		graph:           g,
		weighting:       w,
		approx:          NewBeelineApproximator(g, w),
		forwardInfo:     make(map[da.Index]*VertexInfo),
		pq:              da.NewFourAryHeap[da.Index](),
		maxVisitedNodes: math.MaxInt,
	}
}

func (as *AStar) SetApproximation(approx WeightApproximator) {
	as.approx = approx
}

func (as *AStar) GetApproximation() WeightApproximator {
	return as.approx
}

func (as *AStar) CalcPath(from, to da.Index) (*Path, error) {
	if err := checkNodes(as.graph, from, to); err != nil {
		return nil, err
	}
	if err := as.approx.SetTo(to); err != nil {
		return nil, err
	}

	as.forwardInfo = make(map[da.Index]*VertexInfo)
	as.pq = da.NewFourAryHeap[da.Index]()
	as.numSettledNodes = 0

	h, err := as.approx.Approximate(from)
	if err != nil {
		return nil, err
	}
	relax(as.pq, as.forwardInfo, from, 0, 0, da.INVALID_VERTEX_ID, h)

	for !as.pq.IsEmpty() {
		queryKey, _ := as.pq.ExtractMin()
		u := queryKey.GetItem()
		uInfo := as.forwardInfo[u]
		uInfo.Scan()
		as.numSettledNodes++

		if u == to {
			return newPath(as.forwardInfo, to), nil
		}
		if as.numSettledNodes > as.maxVisitedNodes {
			return nil, ErrMaxVisitedNodesExceeded
		}

		var relaxErr error
		as.graph.ForEdgesOf(u, func(e *da.EdgeState) {
			if relaxErr != nil {
				return
			}
			v := e.GetAdjNode()
			edgeWeight := as.weighting.CalcWeight(e, false)
			if math.IsInf(edgeWeight, 1) {
				return
			}
			newWeight := uInfo.GetWeight() + edgeWeight
			if vInfo, ok := as.forwardInfo[v]; ok && da.Le(vInfo.GetWeight(), newWeight) {
				return
			}
			hv, err := as.approx.Approximate(v)
			if err != nil {
				relaxErr = err
				return
			}
			relax(as.pq, as.forwardInfo, v, newWeight, uInfo.GetDistance()+e.GetLength(), u, newWeight+hv)
		})
		if relaxErr != nil {
			return nil, relaxErr
		}
	}
	return NewNotFoundPath(), nil
}

func (as *AStar) GetName() string {
	return ASTAR
}

func (as *AStar) GetVisitedNodes() int {
	return as.numSettledNodes
}

func (as *AStar) SetMaxVisitedNodes(n int) {
	as.maxVisitedNodes = n
}
