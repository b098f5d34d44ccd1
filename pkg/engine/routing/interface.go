package routing

import (
	"github.com/lintang-b-s/navigatorx-lm/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
)

// WeightApproximator. lower bound of the remaining weight of a search.
// forward approximators estimate d(v, to), reverse ones estimate d(to, v).
type WeightApproximator interface {
	SetTo(to da.Index) error
	Approximate(v da.Index) (float64, error)
	// Reverse. new approximator for the opposite search direction, unbound to any target.
	Reverse() WeightApproximator
	// GetSlack. maximum amount by which two approximations may violate consistency.
	GetSlack() float64
}

type RoutingAlgorithm interface {
	CalcPath(from, to da.Index) (*Path, error)
	GetName() string
	GetVisitedNodes() int
	SetMaxVisitedNodes(n int)
}

// HeuristicAware. search algorithms that accept a distance estimator.
type HeuristicAware interface {
	RoutingAlgorithm
	SetApproximation(approx WeightApproximator)
	GetApproximation() WeightApproximator
}

type AlgorithmFactory interface {
	CreateAlgo(g da.RoadGraph, w costfunction.Weighting, opts AlgorithmOptions) (RoutingAlgorithm, error)
}

type HeuristicAlgoFactory interface {
	AlgorithmFactory
	CreateHeuristicAlgo(g da.RoadGraph, w costfunction.Weighting, opts AlgorithmOptions) (HeuristicAware, error)
}
