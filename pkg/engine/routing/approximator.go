package routing

import (
	"math"

	"github.com/lintang-b-s/navigatorx-lm/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/geo"
)

// BeelineApproximator. weighting.MinWeight of the great circle distance to the target.
// admissible as long as no edge is shorter than the straight line between its endpoints.
type BeelineApproximator struct {
	graph     da.RoadGraph
	weighting costfunction.Weighting
	toLat     float64
	toLon     float64
	epsilon   float64
}

func NewBeelineApproximator(g da.RoadGraph, w costfunction.Weighting) *BeelineApproximator {
	return &BeelineApproximator{
		graph:     g,
		weighting: w,
		epsilon:   DEFAULT_EPSILON,
	}
}

func (ba *BeelineApproximator) SetEpsilon(epsilon float64) *BeelineApproximator {
	ba.epsilon = epsilon
	return ba
}

func (ba *BeelineApproximator) SetTo(to da.Index) error {
	if int(to) >= ba.graph.NumberOfVertices() {
		return ErrInvalidNode
	}
	ba.toLat, ba.toLon = ba.graph.GetVertexCoordinates(to)
	return nil
}

func (ba *BeelineApproximator) Approximate(v da.Index) (float64, error) {
	lat, lon := ba.graph.GetVertexCoordinates(v)
	dist := geo.CalculateHaversineDistance(lat, lon, ba.toLat, ba.toLon) * 1000
	return ba.weighting.MinWeight(dist) * ba.epsilon, nil
}

func (ba *BeelineApproximator) Reverse() WeightApproximator {
	return NewBeelineApproximator(ba.graph, ba.weighting).SetEpsilon(ba.epsilon)
}

func (ba *BeelineApproximator) GetSlack() float64 {
	return 0
}

/*
BalancedApproximator. potentials for bidirectional A*.

Ikeda, T. et al. (1994) ‘A fast algorithm for finding better routes by AI search techniques’:
the forward search uses pf(v) = 1/2(πt(v) - πs(v)) and the backward search pb(v) = -pf(v), πt is a lower bound
of d(v,t) and πs a lower bound of d(s,v). both are consistent if πt and πs are, and the sum of the two
queue keys of a node equals the length of the path through it.
the offsets keep the values non negative.
*/
type BalancedApproximator struct {
	forward    WeightApproximator
	reverse    WeightApproximator
	fromOffset float64
	toOffset   float64
}

func NewBalancedApproximator(forward WeightApproximator) *BalancedApproximator {
	return &BalancedApproximator{
		forward: forward,
		reverse: forward.Reverse(),
	}
}

func (b *BalancedApproximator) SetFromTo(from, to da.Index) error {
	if err := b.reverse.SetTo(from); err != nil {
		return err
	}
	if err := b.forward.SetTo(to); err != nil {
		return err
	}
	fromWeight, err := b.forward.Approximate(from)
	if err != nil {
		return err
	}
	toWeight, err := b.reverse.Approximate(to)
	if err != nil {
		return err
	}
	b.fromOffset = 0.5 * fromWeight
	b.toOffset = 0.5 * toWeight
	return nil
}

func (b *BalancedApproximator) Approximate(v da.Index, reverse bool) (float64, error) {
	weightToTo, err := b.forward.Approximate(v)
	if err != nil {
		return 0, err
	}
	weightToFrom, err := b.reverse.Approximate(v)
	if err != nil {
		return 0, err
	}
	if reverse {
		return b.fromOffset + 0.5*(weightToFrom-weightToTo), nil
	}
	return b.toOffset + 0.5*(weightToTo-weightToFrom), nil
}

func (b *BalancedApproximator) GetSlack() float64 {
	return math.Max(b.forward.GetSlack(), b.reverse.GetSlack())
}

func (b *BalancedApproximator) GetApproximation() WeightApproximator {
	return b.forward
}
