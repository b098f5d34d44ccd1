package landmark

import (
	"math"

	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
)

// maxTowerSearchSettled. settled nodes of the search for the tower node next to a virtual target.
const maxTowerSearchSettled = 2

/*
LMApproximator. ALT lower bound, Goldberg, A.V. and Harrelson, C. (2005) ‘Computing the shortest path: A search meets graph theory’.

for a landmark L the triangle inequality gives d(v,t) >= d(L,t) - d(L,v) and d(v,t) >= d(v,L) - d(t,L).
the bound is the maximum over the active landmarks, computed on the quantized weights. a lossy table gives
every difference an error of up to one quantum, that quantum is subtracted before converting back.

a reverse approximator estimates d(t,v) instead, with the differences negated.
*/
type LMApproximator struct {
	graph   da.RoadGraph
	lms     *LandmarkStorage
	reverse bool
	epsilon float64
	factor  float64
	quantum int

	activeIndices     []int
	activeFromWeights []int
	activeToWeights   []int
	activeSubnetwork  int

	to          da.Index
	towerNode   da.Index
	proxyWeight float64
	recalc      bool

	fallback       bool
	fallbackApprox *routing.BeelineApproximator
}

func NewLMApproximator(g da.RoadGraph, lms *LandmarkStorage, activeLandmarks int, reverse bool) (*LMApproximator, error) {
	if activeLandmarks < 1 || activeLandmarks > lms.GetLandmarkCount() {
		return nil, util.WrapErrorf(ErrInvalidLandmarkSize, util.ErrBadParamInput,
			"active landmarks must be between 1 and %d, got %d", lms.GetLandmarkCount(), activeLandmarks)
	}
	if !lms.IsInitialized() {
		return nil, util.WrapErrorf(ErrNotInitialized, util.ErrPrecondition, "landmarks of %s", lms.GetName())
	}
	return newLMApproximator(g, lms, activeLandmarks, reverse), nil
}

func newLMApproximator(g da.RoadGraph, lms *LandmarkStorage, activeLandmarks int, reverse bool) *LMApproximator {
	quantum := 1
	if lms.IsExact() {
		quantum = 0
	}
	return &LMApproximator{
		graph:             g,
		lms:               lms,
		reverse:           reverse,
		epsilon:           routing.DEFAULT_EPSILON,
		factor:            lms.GetFactor(),
		quantum:           quantum,
		activeIndices:     make([]int, activeLandmarks),
		activeFromWeights: make([]int, activeLandmarks),
		activeToWeights:   make([]int, activeLandmarks),
		to:                da.INVALID_VERTEX_ID,
		towerNode:         da.INVALID_VERTEX_ID,
		fallbackApprox:    routing.NewBeelineApproximator(g, lms.GetWeighting()),
	}
}

func (la *LMApproximator) SetEpsilon(epsilon float64) *LMApproximator {
	la.epsilon = epsilon
	la.fallbackApprox.SetEpsilon(epsilon)
	return la
}

func (la *LMApproximator) GetEpsilon() float64 {
	return la.epsilon
}

// SetTo binds the approximator to a target, the active landmarks are chosen on the next Approximate.
func (la *LMApproximator) SetTo(to da.Index) error {
	if int(to) >= la.graph.NumberOfVertices() {
		return routing.ErrInvalidNode
	}
	la.to = to
	la.recalc = true
	if err := la.fallbackApprox.SetTo(to); err != nil {
		return err
	}

	tower, weight, found := la.findTowerNode(to)
	if !found {
		la.fallback = true
		return nil
	}
	la.towerNode = tower
	la.proxyWeight = weight
	return nil
}

// findTowerNode. nearest tower node of a virtual node. a forward approximator walks from to towards the tower
// node, a reverse one from the tower node to to.
func (la *LMApproximator) findTowerNode(to da.Index) (da.Index, float64, bool) {
	if !la.graph.IsVirtual(to) {
		return to, 0, true
	}
	weighting := la.lms.GetWeighting()
	pq := da.NewBinaryHeap[da.Index]()
	weights := map[da.Index]float64{to: 0}
	heapNodes := map[da.Index]*da.PriorityQueueNode[da.Index]{to: da.NewPriorityQueueNode(0, to)}
	pq.Insert(heapNodes[to])

	for settled := 0; !pq.IsEmpty() && settled < maxTowerSearchSettled; settled++ {
		queryKey, _ := pq.ExtractMin()
		u := queryKey.GetItem()
		if !la.graph.IsVirtual(u) {
			return u, weights[u], true
		}
		la.graph.ForEdgesOf(u, func(e *da.EdgeState) {
			v := e.GetAdjNode()
			w := weighting.CalcWeight(e, la.reverse)
			if math.IsInf(w, 1) {
				return
			}
			newWeight := weights[u] + w
			if old, ok := weights[v]; ok && old <= newWeight {
				return
			}
			weights[v] = newWeight
			if hn, ok := heapNodes[v]; ok {
				pq.DecreaseKey(hn, newWeight)
				return
			}
			heapNodes[v] = da.NewPriorityQueueNode(newWeight, v)
			pq.Insert(heapNodes[v])
		})
	}
	return da.INVALID_VERTEX_ID, 0, false
}

func (la *LMApproximator) Approximate(v da.Index) (float64, error) {
	if la.fallback {
		return la.fallbackApprox.Approximate(v)
	}
	if v == la.to {
		return 0, nil
	}
	if la.graph.IsVirtual(v) {
		return la.approximateVirtual(v)
	}
	return la.approximateTower(v)
}

func (la *LMApproximator) approximateTower(v da.Index) (float64, error) {
	if la.recalc {
		ok, err := la.lms.ChooseActiveLandmarks(v, la.towerNode, la.activeIndices, la.activeFromWeights,
			la.activeToWeights, la.reverse)
		if err != nil {
			return 0, err
		}
		if !ok {
			// sticky, the bounds of the table are not trusted for the rest of this search
			la.fallback = true
			return la.fallbackApprox.Approximate(v)
		}
		la.activeSubnetwork = la.lms.GetSubnetwork(la.towerNode)
		la.recalc = false
	}

	if la.lms.GetSubnetwork(v) != la.activeSubnetwork {
		// the weights of v belong to other landmarks
		return 0, nil
	}

	bound := float64(util.Max(0, la.remainingWeightUnderestimation(v)-la.quantum)) * la.factor
	return math.Max(0, (bound-la.proxyWeight)*la.epsilon), nil
}

/*
approximateVirtual. a virtual node has no landmark weights. its bound is the minimum of c(v,x) + h(x) over the
nodes x where the walk along the chain of v ends: the tower nodes of the split edge or the target. every
neighbour w of v lies on such a walk, so h(v) <= c(v,w) + h(w) and the potentials stay consistent.
a virtual node without any exit can not reach the target and gets 0.
*/
func (la *LMApproximator) approximateVirtual(v da.Index) (float64, error) {
	weighting := la.lms.GetWeighting()
	weights := map[da.Index]float64{v: 0}
	exits := make([]da.Index, 0, 2)
	stack := []da.Index{v}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		la.graph.ForEdgesOf(u, func(e *da.EdgeState) {
			w := weighting.CalcWeight(e, la.reverse)
			if math.IsInf(w, 1) {
				return
			}
			x := e.GetAdjNode()
			newWeight := weights[u] + w
			old, seen := weights[x]
			if seen && old <= newWeight {
				return
			}
			weights[x] = newWeight
			if x == la.to || !la.graph.IsVirtual(x) {
				if !seen {
					exits = append(exits, x)
				}
				return
			}
			stack = append(stack, x)
		})
	}

	best := math.Inf(1)
	for _, x := range exits {
		hx, err := la.Approximate(x)
		if err != nil {
			return 0, err
		}
		best = math.Min(best, weights[x]+hx)
	}
	if la.fallback {
		return la.fallbackApprox.Approximate(v)
	}
	if math.IsInf(best, 1) {
		return 0, nil
	}
	return best, nil
}

// remainingWeightUnderestimation. quantized lower bound of d(v, towerNode), d(towerNode, v) if reverse.
func (la *LMApproximator) remainingWeightUnderestimation(v da.Index) int {
	maxWeightInt := 0
	for i, lmIdx := range la.activeIndices {
		fromWeightInt := la.activeFromWeights[i] - la.lms.fromWeight(lmIdx, v)
		toWeightInt := la.lms.toWeight(lmIdx, v) - la.activeToWeights[i]
		if la.reverse {
			fromWeightInt = -fromWeightInt
			toWeightInt = -toWeightInt
		}
		maxWeightInt = util.Max(maxWeightInt, util.Max(fromWeightInt, toWeightInt))
	}
	return maxWeightInt
}

// Invalidate forces a new choice of the active landmarks.
func (la *LMApproximator) Invalidate() {
	la.recalc = true
}

func (la *LMApproximator) Reverse() routing.WeightApproximator {
	return newLMApproximator(la.graph, la.lms, len(la.activeIndices), !la.reverse).SetEpsilon(la.epsilon)
}

func (la *LMApproximator) GetSlack() float64 {
	return la.factor
}

func (la *LMApproximator) IsFallback() bool {
	return la.fallback
}

func (la *LMApproximator) GetActiveLandmarkIndices() []int {
	return la.activeIndices
}
