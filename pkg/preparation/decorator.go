package preparation

import (
	"github.com/lintang-b-s/navigatorx-lm/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-lm/pkg/landmark"
	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
)

// LMAlgoFactoryDecorator. algorithm factory whose heuristic searches use the landmarks of one preparation.
type LMAlgoFactoryDecorator struct {
	base             routing.HeuristicAlgoFactory
	preparation      *landmark.PrepareLandmarks
	disablingAllowed bool
}

func NewLMAlgoFactoryDecorator(base routing.HeuristicAlgoFactory, preparation *landmark.PrepareLandmarks,
	disablingAllowed bool) *LMAlgoFactoryDecorator {
	return &LMAlgoFactoryDecorator{
		base:             base,
		preparation:      preparation,
		disablingAllowed: disablingAllowed,
	}
}

func (d *LMAlgoFactoryDecorator) CreateAlgo(g da.RoadGraph, w costfunction.Weighting,
	opts routing.AlgorithmOptions) (routing.RoutingAlgorithm, error) {
	if opts.DisableLM {
		if !d.disablingAllowed {
			return nil, util.WrapErrorf(ErrDisablingNotAllowed, util.ErrBadParamInput,
				"landmarks of %s can not be disabled per request", d.preparation.GetLMConfig().GetName())
		}
		return d.base.CreateAlgo(g, w, opts)
	}
	if opts.Algorithm == routing.DIJKSTRA {
		return d.base.CreateAlgo(g, w, opts)
	}

	lmWeighting := d.preparation.GetLMConfig().GetWeighting()
	if w.GetName() != lmWeighting.GetName() {
		return nil, util.WrapErrorf(ErrNoMatchingProfile, util.ErrBadParamInput,
			"landmarks of %s are computed for %s, the request uses %s", d.preparation.GetLMConfig().GetName(),
			lmWeighting.GetName(), w.GetName())
	}

	algo, err := d.base.CreateHeuristicAlgo(g, w, opts)
	if err != nil {
		return nil, err
	}
	return d.preparation.Decorate(g, algo, opts)
}

func (d *LMAlgoFactoryDecorator) GetPreparation() *landmark.PrepareLandmarks {
	return d.preparation
}
