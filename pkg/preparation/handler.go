package preparation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lintang-b-s/navigatorx-lm/pkg"
	"github.com/lintang-b-s/navigatorx-lm/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-lm/pkg/landmark"
	"github.com/lintang-b-s/navigatorx-lm/pkg/storage"
	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PreparationResult. outcome of the preparation of one profile.
type PreparationResult struct {
	Profile     string
	Loaded      bool
	Subnetworks int
	Duration    time.Duration
}

// PreparationHandler. creates, builds or loads the landmark preparations of every configured profile.
type PreparationHandler struct {
	cfg    *Config
	logger *zap.Logger

	profiles       []*LMProfile
	profileConfigs map[string]ProfileConfig

	preparations []*landmark.PrepareLandmarks
	byName       map[string]*landmark.PrepareLandmarks
	results      []PreparationResult

	mu         sync.Mutex
	properties map[string]string
	finished   atomic.Int64
}

func NewPreparationHandler(cfg *Config, logger *zap.Logger) (*PreparationHandler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &PreparationHandler{
		cfg:            cfg,
		logger:         logger,
		profiles:       make([]*LMProfile, 0, len(cfg.Landmark.Profiles)),
		profileConfigs: make(map[string]ProfileConfig, len(cfg.Landmark.Profiles)),
		byName:         make(map[string]*landmark.PrepareLandmarks),
		properties:     make(map[string]string),
	}
	for _, pc := range cfg.Landmark.Profiles {
		if err := h.AddProfile(pc); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *PreparationHandler) AddProfile(pc ProfileConfig) error {
	if _, ok := h.profileConfigs[pc.Name]; ok {
		return util.WrapErrorf(ErrDuplicateProfile, util.ErrBadParamInput, "profile %q is configured twice", pc.Name)
	}
	profile, err := NewLMProfile(pc.Name, pc.Vehicle, pc.Weighting)
	if err != nil {
		return err
	}
	if pc.MaxSpeed == 0 {
		pc.MaxSpeed = pkg.DEFAULT_MAX_SPEED
	}
	h.profiles = append(h.profiles, profile)
	h.profileConfigs[pc.Name] = pc
	return nil
}

// CreatePreparations creates one preparation per profile. suggestion files are read once and shared by all profiles.
func (h *PreparationHandler) CreatePreparations(g *da.Graph, locIndex landmark.LocationIndex) error {
	suggestions := make([]*landmark.LandmarkSuggestion, 0, len(h.cfg.Landmark.Suggestions))
	for _, path := range h.cfg.Landmark.Suggestions {
		suggestion, err := landmark.ReadLandmarkSuggestion(path, locIndex)
		if err != nil {
			return err
		}
		suggestions = append(suggestions, suggestion)
	}

	dir := storage.NewDirectory(h.cfg.Landmark.Location)
	listener := landmark.NewZapListener(h.logger)
	preparations := make([]*landmark.PrepareLandmarks, 0, len(h.profiles))
	for _, profile := range h.profiles {
		pc := h.profileConfigs[profile.Name]
		weighting, err := costfunction.NewWeighting(pc.Vehicle, pc.Weighting, pc.MaxSpeed)
		if err != nil {
			return util.WrapErrorf(err, util.ErrBadParamInput, "profile %s", profile.Name)
		}

		pl, err := landmark.NewPrepareLandmarks(dir, g, landmark.NewLMConfig(profile.Name, weighting),
			h.cfg.Landmark.Count, h.cfg.Landmark.ActiveLandmarks)
		if err != nil {
			return err
		}
		minNetworkSize := h.cfg.Landmark.MinNetworkSize
		if pc.MinNetworkSize > 0 {
			minNetworkSize = pc.MinNetworkSize
		}
		pl.SetMinimumNodes(minNetworkSize).
			SetMaximumWeight(pc.MaximumLMWeight).
			SetLandmarkSuggestions(suggestions).
			SetListener(listener)
		preparations = append(preparations, pl)
	}

	h.preparations = preparations
	h.results = nil
	h.byName = make(map[string]*landmark.PrepareLandmarks, len(preparations))
	for i, pl := range preparations {
		h.byName[h.profiles[i].Name] = pl
	}
	return nil
}

/*
LoadOrDoWork loads the persisted landmarks of every profile and builds the missing ones.
profiles are prepared in parallel by at most cfg.Landmark.Threads workers, the first failure cancels the others.
once every profile is prepared, later calls return the results of the first successful call.
*/
func (h *PreparationHandler) LoadOrDoWork(ctx context.Context) ([]PreparationResult, error) {
	if h.preparations == nil {
		return nil, util.WrapErrorf(ErrNotCreated, util.ErrPrecondition, "call CreatePreparations first")
	}
	if h.results != nil {
		h.logger.Info("landmarks already prepared", zap.Int("profiles", len(h.results)))
		return append([]PreparationResult(nil), h.results...), nil
	}

	results := make([]PreparationResult, len(h.preparations))
	total := len(h.preparations)
	h.finished.Store(0)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(h.cfg.Landmark.Threads)
	for i, pl := range h.preparations {
		eg.Go(func() error {
			name := pl.GetLMConfig().GetName()
			start := time.Now()
			loaded, err := h.loadOrBuild(egCtx, pl)
			if err != nil {
				return fmt.Errorf("landmark preparation of profile %s: %w", name, err)
			}
			results[i] = PreparationResult{
				Profile:     name,
				Loaded:      loaded,
				Subnetworks: pl.GetSubnetworkCount(),
				Duration:    time.Since(start),
			}

			done := h.finished.Add(1)
			h.logger.Info("landmark preparation finished", zap.String("profile", name),
				zap.Bool("loaded", loaded), zap.Int64("done", done), zap.Int("total", total))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.results = results
	for _, res := range results {
		h.properties["prepare.lm."+res.Profile+".done"] = "true"
		h.properties["prepare.lm."+res.Profile+".subnetworks"] = fmt.Sprintf("%d", res.Subnetworks)
	}
	h.mu.Unlock()

	h.logger.Sugar().Infof("landmarks ready for %d profiles", total)
	return append([]PreparationResult(nil), results...), nil
}

// loadOrBuild. a preparation that is already done, by an earlier call that failed on another profile, counts as loaded.
func (h *PreparationHandler) loadOrBuild(ctx context.Context, pl *landmark.PrepareLandmarks) (bool, error) {
	if pl.IsPrepared() {
		return true, nil
	}
	loaded, err := pl.LoadExisting()
	if err != nil && !errors.Is(err, landmark.ErrStaleData) {
		return false, err
	}
	if err != nil {
		h.logger.Warn("persisted landmarks are stale, rebuilding", zap.String("profile", pl.GetLMConfig().GetName()),
			zap.Error(err))
	}
	if loaded {
		return true, nil
	}
	return false, pl.DoWork(ctx)
}

func (h *PreparationHandler) GetProperties() map[string]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	props := make(map[string]string, len(h.properties))
	for k, v := range h.properties {
		props[k] = v
	}
	return props
}

// GetAlgorithmFactory. factory using the landmarks of profileName, the name is matched exactly.
func (h *PreparationHandler) GetAlgorithmFactory(profileName string,
	base routing.HeuristicAlgoFactory) (*LMAlgoFactoryDecorator, error) {
	pl, err := h.GetPreparation(profileName)
	if err != nil {
		return nil, err
	}
	return NewLMAlgoFactoryDecorator(base, pl, h.cfg.Landmark.DisablingAllowed), nil
}

// SelectAlgorithmFactory. GetAlgorithmFactory for the profile chosen by SelectProfile.
func (h *PreparationHandler) SelectAlgorithmFactory(hints ProfileHints,
	base routing.HeuristicAlgoFactory) (*LMAlgoFactoryDecorator, error) {
	profile, err := SelectProfile(h.profiles, hints)
	if err != nil {
		return nil, err
	}
	return h.GetAlgorithmFactory(profile.Name, base)
}

func (h *PreparationHandler) GetPreparation(profileName string) (*landmark.PrepareLandmarks, error) {
	pl, ok := h.byName[profileName]
	if !ok {
		return nil, util.WrapErrorf(ErrUnknownProfile, util.ErrNotFound,
			"profile %q, available profiles: %s. disable landmarks for this request to route without them",
			profileName, profileNames(h.profiles))
	}
	return pl, nil
}

func (h *PreparationHandler) GetProfiles() []*LMProfile {
	return h.profiles
}

func (h *PreparationHandler) IsEnabled() bool {
	return len(h.profiles) > 0
}
