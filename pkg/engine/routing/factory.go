package routing

import (
	"fmt"

	"github.com/lintang-b-s/navigatorx-lm/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
)

// DefaultAlgorithmFactory. builds plain searches, heuristic searches start with a beeline approximator.
type DefaultAlgorithmFactory struct{}

func NewDefaultAlgorithmFactory() *DefaultAlgorithmFactory {
	return &DefaultAlgorithmFactory{}
}

func (f *DefaultAlgorithmFactory) CreateAlgo(g da.RoadGraph, w costfunction.Weighting,
	opts AlgorithmOptions) (RoutingAlgorithm, error) {
	if opts.Algorithm == DIJKSTRA {
		algo := NewDijkstra(g, w)
		algo.SetMaxVisitedNodes(opts.GetMaxVisitedNodes())
		return algo, nil
	}
	return f.CreateHeuristicAlgo(g, w, opts)
}

func (f *DefaultAlgorithmFactory) CreateHeuristicAlgo(g da.RoadGraph, w costfunction.Weighting,
	opts AlgorithmOptions) (HeuristicAware, error) {
	var algo HeuristicAware
	switch opts.Algorithm {
	case ASTAR:
		algo = NewAStar(g, w)
	case ASTAR_BIDIRECT, "":
		algo = NewAStarBidirection(g, w)
	default:
		return nil, fmt.Errorf("%w: %q, expected one of %s, %s, %s", ErrUnsupportedAlgorithm, opts.Algorithm,
			DIJKSTRA, ASTAR, ASTAR_BIDIRECT)
	}
	approx := NewBeelineApproximator(g, w)
	approx.SetEpsilon(opts.GetEpsilon())
	algo.SetApproximation(approx)
	algo.SetMaxVisitedNodes(opts.GetMaxVisitedNodes())
	return algo, nil
}
