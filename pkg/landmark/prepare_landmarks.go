package landmark

import (
	"context"
	"sync"
	"time"

	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-lm/pkg/storage"
	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
)

// PrepareLandmarks. builds, persists and loads the landmarks of one LMConfig and attaches them to searches.
type PrepareLandmarks struct {
	graph           *da.Graph
	lmConfig        LMConfig
	lms             *LandmarkStorage
	activeLandmarks int
	listener        PreparationListener

	mu               sync.Mutex
	prepared         bool
	totalPrepareTime time.Duration
}

func NewPrepareLandmarks(dir *storage.Directory, graph *da.Graph, lmConfig LMConfig, landmarks,
	activeLandmarks int) (*PrepareLandmarks, error) {
	if activeLandmarks > landmarks || activeLandmarks < 1 {
		return nil, util.WrapErrorf(ErrInvalidLandmarkSize, util.ErrBadParamInput,
			"%s: active landmarks (%d) must be between 1 and the number of landmarks (%d)", lmConfig.GetName(),
			activeLandmarks, landmarks)
	}
	lms, err := NewLandmarkStorage(dir, graph, lmConfig, landmarks)
	if err != nil {
		return nil, err
	}
	return &PrepareLandmarks{
		graph:           graph,
		lmConfig:        lmConfig,
		lms:             lms,
		activeLandmarks: activeLandmarks,
		listener:        NopListener{},
	}, nil
}

func (pl *PrepareLandmarks) SetLandmarkSuggestions(suggestions []*LandmarkSuggestion) *PrepareLandmarks {
	pl.lms.SetLandmarkSuggestions(suggestions)
	return pl
}

func (pl *PrepareLandmarks) SetMinimumNodes(minimumNodes int) *PrepareLandmarks {
	pl.lms.SetMinimumNodes(minimumNodes)
	return pl
}

func (pl *PrepareLandmarks) SetMaximumWeight(maxWeight float64) *PrepareLandmarks {
	pl.lms.SetMaximumWeight(maxWeight)
	return pl
}

func (pl *PrepareLandmarks) SetListener(listener PreparationListener) *PrepareLandmarks {
	pl.listener = listener
	pl.lms.SetListener(listener)
	return pl
}

// LoadExisting. true if persisted landmarks were loaded.
func (pl *PrepareLandmarks) LoadExisting() (bool, error) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	ok, err := pl.lms.LoadExisting()
	if err != nil {
		return false, err
	}
	pl.prepared = ok
	return ok, nil
}

// DoWork creates the landmarks and persists them.
func (pl *PrepareLandmarks) DoWork(ctx context.Context) error {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	if pl.prepared {
		return util.WrapErrorf(ErrAlreadyInitialized, util.ErrPrecondition, "preparation of %s already done",
			pl.lmConfig.GetName())
	}

	start := time.Now()
	if err := pl.lms.CreateLandmarks(ctx); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "create landmarks of %s", pl.lmConfig.GetName())
	}
	if err := pl.lms.Flush(); err != nil {
		return err
	}
	pl.totalPrepareTime = time.Since(start)
	pl.prepared = true

	pl.listener.OnProgress(pl.lmConfig.GetName(), 100)
	return nil
}

/*
Decorate attaches an LMApproximator to algo and returns it. the active landmark count of opts overrides the default,
opts.DisableLM returns algo unchanged.
*/
func (pl *PrepareLandmarks) Decorate(g da.RoadGraph, algo routing.HeuristicAware,
	opts routing.AlgorithmOptions) (routing.HeuristicAware, error) {
	if opts.DisableLM {
		return algo, nil
	}
	if !pl.IsPrepared() {
		return nil, util.WrapErrorf(ErrNotInitialized, util.ErrPrecondition, "landmarks of %s are not prepared",
			pl.lmConfig.GetName())
	}
	activeLandmarks := pl.activeLandmarks
	if opts.ActiveLandmarks > 0 {
		activeLandmarks = opts.ActiveLandmarks
	}
	approx, err := NewLMApproximator(g, pl.lms, activeLandmarks, false)
	if err != nil {
		return nil, err
	}
	approx.SetEpsilon(opts.GetEpsilon())
	algo.SetApproximation(approx)
	return algo, nil
}

func (pl *PrepareLandmarks) GetLandmarkStorage() *LandmarkStorage {
	return pl.lms
}

func (pl *PrepareLandmarks) GetLMConfig() LMConfig {
	return pl.lmConfig
}

func (pl *PrepareLandmarks) GetActiveLandmarks() int {
	return pl.activeLandmarks
}

func (pl *PrepareLandmarks) IsPrepared() bool {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return pl.prepared
}

func (pl *PrepareLandmarks) GetTotalPrepareTime() time.Duration {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return pl.totalPrepareTime
}

// GetSubnetworkCount. number of subnetworks with landmarks, subnetwork 0 not included.
func (pl *PrepareLandmarks) GetSubnetworkCount() int {
	return util.Max(0, pl.lms.GetSubnetworksWithLandmarks()-1)
}
