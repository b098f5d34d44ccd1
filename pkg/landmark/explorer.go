package landmark

import (
	"context"
	"math"

	"github.com/lintang-b-s/navigatorx-lm/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
)

const ctxCheckInterval = 1 << 14

// edgeWeight. weight of walking e in the search direction, +Inf if the edge is skipped.
type edgeWeight func(e *da.EdgeState, reverse bool) float64

// explorer. one-to-many Dijkstra from a set of roots, forward or backward.
type explorer struct {
	graph   da.RoadGraph
	weight  edgeWeight
	reverse bool

	weights   []float64
	heapNodes []*da.PriorityQueueNode[da.Index]
	pq        *da.MinHeap[da.Index]
}

type exploreResult struct {
	weights  []float64  // +Inf for nodes not reached
	visited  []da.Index // settle order
	lastNode da.Index   // most distant settled node
}

func (r *exploreResult) count() int {
	return len(r.visited)
}

func newExplorer(g da.RoadGraph, weight edgeWeight, reverse bool) *explorer {
	return &explorer{
		graph:   g,
		weight:  weight,
		reverse: reverse,
	}
}

func (ex *explorer) explore(ctx context.Context, roots []da.Index) (*exploreResult, error) {
	n := ex.graph.GetBaseNodeCount()
	ex.weights = make([]float64, n)
	for i := range ex.weights {
		ex.weights[i] = math.Inf(1)
	}
	ex.heapNodes = make([]*da.PriorityQueueNode[da.Index], n)
	ex.pq = da.NewFourAryHeap[da.Index]()

	for _, root := range roots {
		if ex.heapNodes[root] != nil {
			continue
		}
		ex.weights[root] = 0
		ex.heapNodes[root] = da.NewPriorityQueueNode(0, root)
		ex.pq.Insert(ex.heapNodes[root])
	}

	res := &exploreResult{
		visited:  make([]da.Index, 0),
		lastNode: da.INVALID_VERTEX_ID,
	}
	for !ex.pq.IsEmpty() {
		if len(res.visited)%ctxCheckInterval == 0 && util.StopConcurrentOperation(ctx) {
			return nil, ctx.Err()
		}
		queryKey, _ := ex.pq.ExtractMin()
		u := queryKey.GetItem()
		res.visited = append(res.visited, u)
		res.lastNode = u

		ex.graph.ForEdgesOf(u, func(e *da.EdgeState) {
			v := e.GetAdjNode()
			if int(v) >= n {
				return
			}
			w := ex.weight(e, ex.reverse)
			if math.IsInf(w, 1) {
				return
			}
			newWeight := ex.weights[u] + w
			if newWeight >= ex.weights[v] {
				return
			}
			ex.weights[v] = newWeight
			if ex.heapNodes[v] == nil {
				ex.heapNodes[v] = da.NewPriorityQueueNode(newWeight, v)
				ex.pq.Insert(ex.heapNodes[v])
			} else {
				ex.pq.DecreaseKey(ex.heapNodes[v], newWeight)
			}
		})
	}
	res.weights = ex.weights
	return res, nil
}

func weightingEdgeWeight(w costfunction.Weighting) edgeWeight {
	return func(e *da.EdgeState, reverse bool) float64 {
		return w.CalcWeight(e, reverse)
	}
}

// isBidirectional. e can be traversed both ways under w.
func isBidirectional(w costfunction.Weighting, e *da.EdgeState) bool {
	return !math.IsInf(w.CalcWeight(e, false), 1) && !math.IsInf(w.CalcWeight(e, true), 1)
}

// selectionEdgeWeight. distance based weight over the edges usable in both directions, spreads
// landmarks geographically.
func selectionEdgeWeight(w costfunction.Weighting) edgeWeight {
	return func(e *da.EdgeState, reverse bool) float64 {
		if !isBidirectional(w, e) {
			return math.Inf(1)
		}
		return e.GetLength()
	}
}
