package routing

import (
	"math"

	"github.com/lintang-b-s/navigatorx-lm/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
)

// Dijkstra. plain unidirectional search, used as reference and when no heuristic is wanted.
type Dijkstra struct {
	graph     da.RoadGraph
	weighting costfunction.Weighting

	forwardInfo map[da.Index]*VertexInfo
	pq          *da.MinHeap[da.Index]

	numSettledNodes int
	maxVisitedNodes int
}

func NewDijkstra(g da.RoadGraph, w costfunction.Weighting) *Dijkstra {
	return &Dijkstra{
		graph:           g,
		weighting:       w,
		forwardInfo:     make(map[da.Index]*VertexInfo),
		pq:              da.NewFourAryHeap[da.Index](),
		maxVisitedNodes: math.MaxInt,
	}
}

func (d *Dijkstra) CalcPath(from, to da.Index) (*Path, error) {
	if err := checkNodes(d.graph, from, to); err != nil {
		return nil, err
	}
	d.init(from)

	for !d.pq.IsEmpty() {
		queryKey, _ := d.pq.ExtractMin()
		u := queryKey.GetItem()
		uInfo := d.forwardInfo[u]
		uInfo.Scan()
		d.numSettledNodes++

		if u == to {
			return newPath(d.forwardInfo, to), nil
		}
		if d.numSettledNodes > d.maxVisitedNodes {
			return nil, ErrMaxVisitedNodesExceeded
		}
		d.relaxEdges(u, uInfo)
	}
	return NewNotFoundPath(), nil
}

// CalcWeights. one-to-all search from the root, returns the settled weights.
func (d *Dijkstra) CalcWeights(from da.Index) (map[da.Index]float64, error) {
	if err := checkNodes(d.graph, from, from); err != nil {
		return nil, err
	}
	d.init(from)
	weights := make(map[da.Index]float64)
	for !d.pq.IsEmpty() {
		queryKey, _ := d.pq.ExtractMin()
		u := queryKey.GetItem()
		uInfo := d.forwardInfo[u]
		uInfo.Scan()
		d.numSettledNodes++
		weights[u] = uInfo.GetWeight()
		d.relaxEdges(u, uInfo)
	}
	return weights, nil
}

func (d *Dijkstra) init(from da.Index) {
	d.forwardInfo = make(map[da.Index]*VertexInfo)
	d.pq = da.NewFourAryHeap[da.Index]()
	d.numSettledNodes = 0
	relax(d.pq, d.forwardInfo, from, 0, 0, da.INVALID_VERTEX_ID, 0)
}

func (d *Dijkstra) relaxEdges(u da.Index, uInfo *VertexInfo) {
	d.graph.ForEdgesOf(u, func(e *da.EdgeState) {
		v := e.GetAdjNode()
		edgeWeight := d.weighting.CalcWeight(e, false)
		if math.IsInf(edgeWeight, 1) {
			return
		}
		newWeight := uInfo.GetWeight() + edgeWeight
		vInfo, ok := d.forwardInfo[v]
		if ok && (vInfo.IsScanned() || da.Le(vInfo.GetWeight(), newWeight)) {
			return
		}
		relax(d.pq, d.forwardInfo, v, newWeight, uInfo.GetDistance()+e.GetLength(), u, newWeight)
	})
}

func (d *Dijkstra) GetName() string {
	return DIJKSTRA
}

func (d *Dijkstra) GetVisitedNodes() int {
	return d.numSettledNodes
}

func (d *Dijkstra) SetMaxVisitedNodes(n int) {
	d.maxVisitedNodes = n
}

func checkNodes(g da.RoadGraph, from, to da.Index) error {
	n := da.Index(g.NumberOfVertices())
	if from >= n || to >= n {
		return ErrInvalidNode
	}
	return nil
}

func newPath(info map[da.Index]*VertexInfo, to da.Index) *Path {
	return &Path{
		Weight:   info[to].GetWeight(),
		Distance: info[to].GetDistance(),
		Nodes:    extractPath(info, to),
		Found:    true,
	}
}
