package routing

import (
	"math"

	"github.com/lintang-b-s/navigatorx-lm/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
)

/*
AStarBidirection. bidirectional A* with balanced potentials (see BalancedApproximator).

1. bidirectional A*: Ikeda, T. et al. (1994) ‘A fast algorithm for finding better routes by AI search techniques’, in Proceedings of VNIS’94 - 1994 Vehicle Navigation and Information Systems Conference, pp. 291–296. Available at: https://doi.org/10.1109/VNIS.1994.396824.
2. ALT: Goldberg, A.V. and Harrelson, C. (2005) ‘Computing the shortest path: A search meets graph theory’, in Proceedings of the Sixteenth Annual ACM-SIAM Symposium on Discrete Algorithms, pp. 156–165.

the key of a node in both queues sums up to the weight of the path through it plus fromOffset+toOffset,
so the search stops as soon as topForward + topBackward >= µ + fromOffset + toOffset + slack.
landmark potentials are only consistent up to the quantization slack, nodes whose label improves after
they were scanned are reopened.
*/
type AStarBidirection struct {
	graph     da.RoadGraph
	weighting costfunction.Weighting
	approx    *BalancedApproximator

	forwardInfo  map[da.Index]*VertexInfo
	backwardInfo map[da.Index]*VertexInfo
	forwardPq    *da.MinHeap[da.Index]
	backwardPq   *da.MinHeap[da.Index]

	bestWeight  float64
	forwardMid  da.Index
	backwardMid da.Index
	midLength   float64

	numSettledNodes int
	maxVisitedNodes int
}

func NewAStarBidirection(g da.RoadGraph, w costfunction.Weighting) *AStarBidirection {
	return &AStarBidirection{
		graph:           g,
		weighting:       w,
		approx:          NewBalancedApproximator(NewBeelineApproximator(g, w)),
		maxVisitedNodes: math.MaxInt,
	}
}

func (bs *AStarBidirection) SetApproximation(approx WeightApproximator) {
	bs.approx = NewBalancedApproximator(approx)
}

func (bs *AStarBidirection) GetApproximation() WeightApproximator {
	return bs.approx.GetApproximation()
}

func (bs *AStarBidirection) CalcPath(from, to da.Index) (*Path, error) {
	if err := checkNodes(bs.graph, from, to); err != nil {
		return nil, err
	}
	if err := bs.approx.SetFromTo(from, to); err != nil {
		return nil, err
	}

	bs.forwardInfo = make(map[da.Index]*VertexInfo)
	bs.backwardInfo = make(map[da.Index]*VertexInfo)
	bs.forwardPq = da.NewFourAryHeap[da.Index]()
	bs.backwardPq = da.NewFourAryHeap[da.Index]()
	bs.bestWeight = math.Inf(1)
	bs.forwardMid, bs.backwardMid = da.INVALID_VERTEX_ID, da.INVALID_VERTEX_ID
	bs.numSettledNodes = 0

	if from == to {
		return &Path{Weight: 0, Distance: 0, Nodes: []da.Index{from}, Found: true}, nil
	}

	hf, err := bs.approx.Approximate(from, false)
	if err != nil {
		return nil, err
	}
	hb, err := bs.approx.Approximate(to, true)
	if err != nil {
		return nil, err
	}
	relax(bs.forwardPq, bs.forwardInfo, from, 0, 0, da.INVALID_VERTEX_ID, hf)
	relax(bs.backwardPq, bs.backwardInfo, to, 0, 0, da.INVALID_VERTEX_ID, hb)

	// hb == fromOffset + toOffset
	stoppingOffset := hb + bs.approx.GetSlack()

	for !bs.forwardPq.IsEmpty() && !bs.backwardPq.IsEmpty() {
		if bs.forwardPq.GetMinrank()+bs.backwardPq.GetMinrank() >= bs.bestWeight+stoppingOffset {
			break
		}
		if bs.numSettledNodes > bs.maxVisitedNodes {
			return nil, ErrMaxVisitedNodesExceeded
		}

		var err error
		if bs.forwardPq.Size() <= bs.backwardPq.Size() {
			err = bs.step(bs.forwardPq, bs.forwardInfo, bs.backwardInfo, false)
		} else {
			err = bs.step(bs.backwardPq, bs.backwardInfo, bs.forwardInfo, true)
		}
		if err != nil {
			return nil, err
		}
	}

	if math.IsInf(bs.bestWeight, 1) {
		return NewNotFoundPath(), nil
	}
	return bs.buildPath(), nil
}

// step scans the minimum of one queue. reverse means the backward search, which walks edges adj->base.
func (bs *AStarBidirection) step(pq *da.MinHeap[da.Index], info, otherInfo map[da.Index]*VertexInfo,
	reverse bool) error {
	queryKey, _ := pq.ExtractMin()
	u := queryKey.GetItem()
	uInfo := info[u]
	uInfo.Scan()
	bs.numSettledNodes++

	var relaxErr error
	bs.graph.ForEdgesOf(u, func(e *da.EdgeState) {
		if relaxErr != nil {
			return
		}
		v := e.GetAdjNode()
		edgeWeight := bs.weighting.CalcWeight(e, reverse)
		if math.IsInf(edgeWeight, 1) {
			return
		}
		newWeight := uInfo.GetWeight() + edgeWeight
		newDistance := uInfo.GetDistance() + e.GetLength()

		if vOther, ok := otherInfo[v]; ok {
			bs.updateBestPath(u, v, newWeight+vOther.GetWeight(), newDistance+vOther.GetDistance(), reverse)
		}

		if vInfo, ok := info[v]; ok && da.Le(vInfo.GetWeight(), newWeight) {
			return
		}
		hv, err := bs.approx.Approximate(v, reverse)
		if err != nil {
			relaxErr = err
			return
		}
		relax(pq, info, v, newWeight, newDistance, u, newWeight+hv)
	})
	return relaxErr
}

func (bs *AStarBidirection) updateBestPath(u, v da.Index, weight, distance float64, reverse bool) {
	if weight >= bs.bestWeight {
		return
	}
	bs.bestWeight = weight
	bs.midLength = distance
	if reverse {
		bs.forwardMid, bs.backwardMid = v, u
	} else {
		bs.forwardMid, bs.backwardMid = u, v
	}
}

func (bs *AStarBidirection) buildPath() *Path {
	nodes := extractPath(bs.forwardInfo, bs.forwardMid)
	backward := util.ReverseG(extractPath(bs.backwardInfo, bs.backwardMid))
	if bs.forwardMid == bs.backwardMid {
		backward = backward[1:]
	}
	nodes = append(nodes, backward...)
	return &Path{
		Weight:   bs.bestWeight,
		Distance: bs.midLength,
		Nodes:    nodes,
		Found:    true,
	}
}

func (bs *AStarBidirection) GetName() string {
	return ASTAR_BIDIRECT
}

func (bs *AStarBidirection) GetVisitedNodes() int {
	return bs.numSettledNodes
}

func (bs *AStarBidirection) SetMaxVisitedNodes(n int) {
	bs.maxVisitedNodes = n
}
