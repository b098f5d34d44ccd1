package landmark

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"math"
	"sort"
	"time"

	"github.com/lintang-b-s/navigatorx-lm/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/geo"
	"github.com/lintang-b-s/navigatorx-lm/pkg/storage"
	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
)

/*
LandmarkStorage. landmarks of one weighting and the quantized weights between every node and every landmark.

[1] Goldberg, A.V. and Harrelson, C. (2005) ‘Computing the shortest path: A search meets graph theory’, in Proceedings of the Sixteenth Annual ACM-SIAM Symposium on Discrete Algorithms, pp. 156–165.
[2] Goldberg, A.V. and Werneck, R.F. (2005) ‘Computing Point-to-Point Shortest Paths from External Memory’, ALENEX/ANALCO, pp. 26–40.

landmarks are selected with the farthest heuristic of [1] section 6: the first landmark is the node farthest from a seed,
every next landmark is the node farthest from all landmarks chosen so far.
weights are stored as 16 bit integers (quantized with factor) like in [2], which keeps the table small enough for
continental graphs.

weight table layout, one row per node:

	(node*landmarks + i)*4 + 0: from weight, landmark i -> node
	(node*landmarks + i)*4 + 2: to weight, node -> landmark i

followed by the landmark node ids of every subnetwork as int32. subnetwork 0 holds the nodes without landmarks.
*/
type LandmarkStorage struct {
	graph     *da.Graph
	weighting costfunction.Weighting
	name      string
	profile   string
	listener  PreparationListener

	landmarkWeightDA *storage.DataAccess
	subnetworkDA     *storage.DataAccess

	landmarks    int
	lmRowLength  int64
	factor       float64
	maxWeight    float64
	minimumNodes int
	suggestions  []*LandmarkSuggestion

	landmarkIDs [][]int32
	subnetworks []int32
	conflicts   []error

	exact       bool
	initialized bool
	buildId     int32
}

func NewLandmarkStorage(dir *storage.Directory, graph *da.Graph, lmConfig LMConfig, landmarks int) (*LandmarkStorage, error) {
	if landmarks < 1 || landmarks > math.MaxUint8 {
		return nil, util.WrapErrorf(ErrInvalidLandmarkSize, util.ErrBadParamInput,
			"landmarks must be between 1 and %d, got %d", math.MaxUint8, landmarks)
	}
	return &LandmarkStorage{
		graph:            graph,
		weighting:        lmConfig.GetWeighting(),
		name:             lmConfig.GetName(),
		profile:          lmConfig.GetName(),
		listener:         NopListener{},
		landmarkWeightDA: dir.Create("landmarks_" + lmConfig.GetName()),
		subnetworkDA:     dir.Create("landmarks_subnetwork_" + lmConfig.GetName()),
		landmarks:        landmarks,
		lmRowLength:      int64(landmarks) * LM_ROW_ENTRY,
		minimumNodes:     util.MinInt(graph.NumberOfVertices()/2, 500000),
		suggestions:      make([]*LandmarkSuggestion, 0),
		landmarkIDs:      make([][]int32, 0),
		conflicts:        make([]error, 0),
		exact:            true,
	}, nil
}

func (ls *LandmarkStorage) SetMinimumNodes(minimumNodes int) {
	ls.minimumNodes = minimumNodes
}

// SetMaximumWeight. upper bound of the weights stored in the table, <= 0 derives it from the graph extent.
func (ls *LandmarkStorage) SetMaximumWeight(maxWeight float64) {
	ls.maxWeight = maxWeight
}

func (ls *LandmarkStorage) SetLandmarkSuggestions(suggestions []*LandmarkSuggestion) {
	ls.suggestions = suggestions
}

func (ls *LandmarkStorage) SetListener(listener PreparationListener) {
	ls.listener = listener
}

// CreateLandmarks selects the landmarks of every subnetwork and fills the weight table.
func (ls *LandmarkStorage) CreateLandmarks(ctx context.Context) error {
	if ls.initialized {
		return util.WrapErrorf(ErrAlreadyInitialized, util.ErrPrecondition, "landmarks of %s", ls.name)
	}

	if err := ls.initFactor(); err != nil {
		return err
	}

	nodeCount := ls.graph.NumberOfVertices()
	ls.landmarkWeightDA.Create(int64(nodeCount) * ls.lmRowLength)
	for pos := int64(0); pos < ls.landmarkWeightDA.Capacity(); pos += 2 {
		ls.landmarkWeightDA.SetShort(pos, SHORT_INFINITY)
	}

	ls.subnetworks = make([]int32, nodeCount)
	for i := range ls.subnetworks {
		ls.subnetworks[i] = UNSET_SUBNETWORK
	}
	unclear := make([]int32, ls.landmarks)
	for i := range unclear {
		unclear[i] = -1
	}
	ls.landmarkIDs = [][]int32{unclear}
	ls.conflicts = make([]error, 0)
	ls.exact = true

	components := bidirectionalComponents(ls.graph, ls.weighting)
	for ci, comp := range components {
		if util.StopConcurrentOperation(ctx) {
			return ctx.Err()
		}
		ls.listener.OnProgress(ls.profile, (ci+1)*100/len(components))

		if len(comp) < ls.minimumNodes {
			// too small, stays in subnetwork 0. components are sorted, all following ones are smaller.
			continue
		}

		seed := da.INVALID_VERTEX_ID
		for _, u := range comp {
			if ls.subnetworks[u] == UNSET_SUBNETWORK {
				seed = u
				break
			}
		}
		if seed == da.INVALID_VERTEX_ID {
			// already claimed through one way edges by a bigger subnetwork
			continue
		}

		if len(ls.landmarkIDs) > MAX_SUBNETWORKS {
			return util.WrapErrorf(ErrTooManySubnetworks, util.ErrInternalServerError,
				"%s: more than %d subnetworks with at least %d nodes, increase the minimum network size",
				ls.name, MAX_SUBNETWORKS, ls.minimumNodes)
		}

		err := ls.createLandmarksForSubnetwork(ctx, seed, len(comp))
		if err != nil {
			if errors.Is(err, ErrSubnetworkConflict) {
				ls.conflicts = append(ls.conflicts, err)
				ls.listener.OnSubnetworkRejected(ls.profile, err)
				continue
			}
			return err
		}
	}

	ls.buildId = int32(time.Now().UnixNano() & math.MaxInt32)
	ls.initialized = true
	return nil
}

func (ls *LandmarkStorage) initFactor() error {
	maxWeight := ls.maxWeight
	if maxWeight <= 0 {
		dist := DEFAULT_REFERENCE_DIST
		bounds := ls.graph.GetBounds()
		if bounds.IsValid() {
			diagonal := geo.CalculateHaversineDistance(bounds.GetMinLat(), bounds.GetMinLon(),
				bounds.GetMaxLat(), bounds.GetMaxLon()) * 1000
			if diagonal < SMALL_GRAPH_DIAGONAL {
				dist = diagonal * SMALL_GRAPH_DIAGONAL_MULT
			}
		}
		maxWeight = ls.weighting.MinWeight(dist)
	}

	// rounded so that it is stored exactly in the header
	factor := math.Round(maxWeight/PRECISION*DOUBLE_MULTIPLIER) / DOUBLE_MULTIPLIER
	if factor <= 0 || factor*DOUBLE_MULTIPLIER > math.MaxInt32 || math.IsNaN(factor) {
		return util.WrapErrorf(ErrInvalidFactor, util.ErrBadParamInput,
			"%s: factor %f derived from maximum weight %f", ls.name, factor, maxWeight)
	}
	ls.factor = factor
	return nil
}

func (ls *LandmarkStorage) createLandmarksForSubnetwork(ctx context.Context, seed da.Index, size int) error {
	subnetworkId := int32(len(ls.landmarkIDs))

	lms, err := ls.selectLandmarks(ctx, seed)
	if err != nil {
		return err
	}

	realWeight := weightingEdgeWeight(ls.weighting)
	for i, lm := range lms {
		if util.StopConcurrentOperation(ctx) {
			return ctx.Err()
		}

		fromRes, err := newExplorer(ls.graph, realWeight, false).explore(ctx, []da.Index{lm})
		if err != nil {
			return err
		}
		toRes, err := newExplorer(ls.graph, realWeight, true).explore(ctx, []da.Index{lm})
		if err != nil {
			return err
		}

		if i == 0 {
			// nothing is written before both searches of the first landmark are validated
			if err := ls.checkSubnetworks(subnetworkId, fromRes.visited, toRes.visited); err != nil {
				return err
			}
			for _, visited := range [][]da.Index{fromRes.visited, toRes.visited} {
				for _, u := range visited {
					ls.subnetworks[u] = subnetworkId
				}
			}
		}

		if err := ls.initLandmarkWeights(i, subnetworkId, fromRes, FROM_OFFSET); err != nil {
			return err
		}
		if err := ls.initLandmarkWeights(i, subnetworkId, toRes, TO_OFFSET); err != nil {
			return err
		}
	}

	ids := make([]int32, ls.landmarks)
	for i, lm := range lms {
		ids[i] = int32(lm)
	}
	ls.landmarkIDs = append(ls.landmarkIDs, ids)
	ls.listener.OnSubnetworkBuilt(ls.profile, int(subnetworkId), size)
	return nil
}

// selectLandmarks. landmarks of a suggestion whose box contains the seed, else the farthest heuristic.
func (ls *LandmarkStorage) selectLandmarks(ctx context.Context, seed da.Index) ([]da.Index, error) {
	lat, lon := ls.graph.GetVertexCoordinates(seed)
	for _, suggestion := range ls.suggestions {
		if !suggestion.GetBox().Contains(lat, lon) {
			continue
		}
		if len(suggestion.GetNodeIds()) < ls.landmarks {
			return nil, util.WrapErrorf(ErrTooFewSuggestions, util.ErrBadParamInput,
				"%s: suggestion contains %d nodes but %d landmarks are required", ls.name,
				len(suggestion.GetNodeIds()), ls.landmarks)
		}
		lms := make([]da.Index, ls.landmarks)
		copy(lms, suggestion.GetNodeIds())
		return lms, nil
	}

	selection := newExplorer(ls.graph, selectionEdgeWeight(ls.weighting), false)
	lms := make([]da.Index, 0, ls.landmarks)
	res, err := selection.explore(ctx, []da.Index{seed})
	if err != nil {
		return nil, err
	}
	lms = append(lms, res.lastNode)
	for len(lms) < ls.landmarks {
		if util.StopConcurrentOperation(ctx) {
			return nil, ctx.Err()
		}
		res, err = selection.explore(ctx, lms)
		if err != nil {
			return nil, err
		}
		lms = append(lms, res.lastNode)
	}
	return lms, nil
}

func (ls *LandmarkStorage) checkSubnetworks(subnetworkId int32, visitedSets ...[]da.Index) error {
	for _, visited := range visitedSets {
		for _, u := range visited {
			owner := ls.subnetworks[u]
			if owner != UNSET_SUBNETWORK && owner != subnetworkId {
				return util.WrapErrorf(ErrSubnetworkConflict, util.ErrConflict,
					"%s: node %d of subnetwork %d is already assigned to subnetwork %d", ls.name, u,
					subnetworkId, owner)
			}
		}
	}
	return nil
}

// initLandmarkWeights stores the weights of one search. only nodes of the subnetwork are written.
func (ls *LandmarkStorage) initLandmarkWeights(lmIdx int, subnetworkId int32, res *exploreResult, offset int64) error {
	for _, u := range res.visited {
		if ls.subnetworks[u] != subnetworkId {
			continue
		}
		if err := ls.setWeight(ls.pointer(u, lmIdx)+offset, res.weights[u]); err != nil {
			return util.WrapErrorf(err, util.ErrInternalServerError, "%s: node %d, landmark %d", ls.name, u, lmIdx)
		}
	}
	return nil
}

func (ls *LandmarkStorage) pointer(node da.Index, lmIdx int) int64 {
	return int64(node)*ls.lmRowLength + int64(lmIdx)*LM_ROW_ENTRY
}

// setWeight quantizes w and stores it at pos. the only write access to the weight table.
func (ls *LandmarkStorage) setWeight(pos int64, w float64) error {
	if math.IsInf(w, 1) {
		ls.landmarkWeightDA.SetShort(pos, SHORT_INFINITY)
		return nil
	}
	q := w / ls.factor
	if q > math.MaxInt32 {
		return fmt.Errorf("%w: weight %f, factor %f", ErrWeightOverflow, w, ls.factor)
	}
	rounded := math.Round(q)
	if rounded >= SHORT_MAX {
		ls.landmarkWeightDA.SetShort(pos, SHORT_MAX)
		return nil
	}
	if math.Abs(q-rounded) > EXACT_TOLERANCE {
		ls.exact = false
	}
	ls.landmarkWeightDA.SetShort(pos, uint16(rounded))
	return nil
}

// getShort reads an entry, SHORT_INFINITY is returned as SHORT_MAX.
func (ls *LandmarkStorage) getShort(pos int64) int {
	v := ls.landmarkWeightDA.GetShort(pos)
	if v == SHORT_INFINITY {
		return SHORT_MAX
	}
	return int(v)
}

func (ls *LandmarkStorage) fromWeight(lmIdx int, node da.Index) int {
	return ls.getShort(ls.pointer(node, lmIdx) + FROM_OFFSET)
}

func (ls *LandmarkStorage) toWeight(lmIdx int, node da.Index) int {
	return ls.getShort(ls.pointer(node, lmIdx) + TO_OFFSET)
}

// GetFromWeight. quantized weight from landmark lmIdx to node.
func (ls *LandmarkStorage) GetFromWeight(lmIdx int, node da.Index) (int, error) {
	if err := ls.checkRead(lmIdx, node); err != nil {
		return 0, err
	}
	return ls.fromWeight(lmIdx, node), nil
}

// GetToWeight. quantized weight from node to landmark lmIdx.
func (ls *LandmarkStorage) GetToWeight(lmIdx int, node da.Index) (int, error) {
	if err := ls.checkRead(lmIdx, node); err != nil {
		return 0, err
	}
	return ls.toWeight(lmIdx, node), nil
}

func (ls *LandmarkStorage) checkRead(lmIdx int, node da.Index) error {
	if !ls.initialized {
		return util.WrapErrorf(ErrNotInitialized, util.ErrPrecondition, "landmarks of %s", ls.name)
	}
	if lmIdx < 0 || lmIdx >= ls.landmarks || int(node) >= len(ls.subnetworks) {
		return util.WrapErrorf(storage.ErrOutOfBounds, util.ErrPrecondition, "landmark %d, node %d", lmIdx, node)
	}
	return nil
}

/*
ChooseActiveLandmarks. picks the len(activeIndices) landmarks giving the tightest lower bound between from and to,
and caches their weights at to in activeFroms and activeTos.
returns false if the landmarks can not be used for this pair, the caller falls back to another heuristic.
*/
func (ls *LandmarkStorage) ChooseActiveLandmarks(from, to da.Index, activeIndices, activeFroms, activeTos []int,
	reverse bool) (bool, error) {
	if !ls.initialized {
		return false, util.WrapErrorf(ErrNotInitialized, util.ErrPrecondition, "landmarks of %s", ls.name)
	}
	subnetworkFrom := ls.GetSubnetwork(from)
	subnetworkTo := ls.GetSubnetwork(to)
	if subnetworkFrom != subnetworkTo {
		if subnetworkFrom == int(UNCLEAR_SUBNETWORK) || subnetworkTo == int(UNCLEAR_SUBNETWORK) {
			return false, nil
		}
		return false, util.WrapErrorf(ErrConnectionNotFound, util.ErrNotFound,
			"node %d is in subnetwork %d, node %d in subnetwork %d", from, subnetworkFrom, to, subnetworkTo)
	}
	if subnetworkFrom == int(UNCLEAR_SUBNETWORK) {
		return false, nil
	}

	type lmScore struct {
		idx   int
		score int
	}
	scores := make([]lmScore, ls.landmarks)
	for i := 0; i < ls.landmarks; i++ {
		fromW := ls.fromWeight(i, to) - ls.fromWeight(i, from)
		toW := ls.toWeight(i, from) - ls.toWeight(i, to)
		score := util.Max(fromW, toW)
		if reverse {
			score = util.Max(-fromW, -toW)
		}
		scores[i] = lmScore{idx: i, score: score}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	for j := 0; j < len(activeIndices) && j < ls.landmarks; j++ {
		lmIdx := scores[j].idx
		activeIndices[j] = lmIdx
		activeFroms[j] = ls.fromWeight(lmIdx, to)
		activeTos[j] = ls.toWeight(lmIdx, to)
	}
	return true, nil
}

// Flush persists the weight table and the subnetworks. each file is replaced atomically, both carry the build id.
func (ls *LandmarkStorage) Flush() error {
	if !ls.initialized {
		return util.WrapErrorf(ErrNotInitialized, util.ErrPrecondition, "landmarks of %s", ls.name)
	}
	nodeCount := int64(len(ls.subnetworks))
	tableBytes := nodeCount * ls.lmRowLength
	ls.landmarkWeightDA.EnsureCapacity(tableBytes + int64(len(ls.landmarkIDs)*ls.landmarks*LANDMARK_BYTES))
	pos := tableBytes
	for _, ids := range ls.landmarkIDs {
		for _, id := range ids {
			ls.landmarkWeightDA.SetInt(pos, id)
			pos += LANDMARK_BYTES
		}
	}

	flags := int32(0)
	if ls.exact {
		flags |= FLAG_EXACT
	}
	ls.landmarkWeightDA.SetHeader(HEADER_NODE_COUNT, int32(nodeCount))
	ls.landmarkWeightDA.SetHeader(HEADER_LANDMARKS, int32(ls.landmarks))
	ls.landmarkWeightDA.SetHeader(HEADER_SUBNETWORKS, int32(len(ls.landmarkIDs)))
	ls.landmarkWeightDA.SetHeader(HEADER_FACTOR, int32(math.Round(ls.factor*DOUBLE_MULTIPLIER)))
	ls.landmarkWeightDA.SetHeader(HEADER_BUILD_ID, ls.buildId)
	ls.landmarkWeightDA.SetHeader(HEADER_FLAGS, flags)
	ls.landmarkWeightDA.SetHeader(HEADER_WEIGHTING_HASH, ls.weightingHash())

	ls.subnetworkDA.Create(nodeCount)
	for u, sub := range ls.subnetworks {
		if sub == UNSET_SUBNETWORK {
			sub = UNCLEAR_SUBNETWORK
		}
		ls.subnetworkDA.SetByte(int64(u), byte(sub))
	}
	ls.subnetworkDA.SetHeader(SUBNETWORK_HEADER_NODE_COUNT, int32(nodeCount))
	ls.subnetworkDA.SetHeader(SUBNETWORK_HEADER_BUILD_ID, ls.buildId)

	if err := ls.landmarkWeightDA.Flush(); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "flush landmarks of %s", ls.name)
	}
	if err := ls.subnetworkDA.Flush(); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "flush subnetworks of %s", ls.name)
	}
	return nil
}

// LoadExisting reads persisted landmarks, false if there are none.
func (ls *LandmarkStorage) LoadExisting() (bool, error) {
	if ls.initialized {
		return false, util.WrapErrorf(ErrAlreadyInitialized, util.ErrPrecondition, "landmarks of %s", ls.name)
	}
	ok, err := ls.landmarkWeightDA.LoadExisting()
	if err != nil || !ok {
		return false, err
	}

	stale := func(format string, args ...interface{}) error {
		return util.WrapErrorf(ErrStaleData, util.ErrPrecondition, "%s: "+format, append([]interface{}{ls.name}, args...)...)
	}

	nodeCount := ls.graph.NumberOfVertices()
	if got := ls.landmarkWeightDA.GetHeader(HEADER_NODE_COUNT); int(got) != nodeCount {
		return false, stale("persisted node count %d, graph has %d", got, nodeCount)
	}
	if got := ls.landmarkWeightDA.GetHeader(HEADER_LANDMARKS); int(got) != ls.landmarks {
		return false, stale("persisted landmark count %d, configured %d", got, ls.landmarks)
	}
	if got := ls.landmarkWeightDA.GetHeader(HEADER_WEIGHTING_HASH); got != ls.weightingHash() {
		return false, stale("persisted landmarks belong to another weighting than %s", ls.weighting.GetName())
	}
	subnetworkCount := int(ls.landmarkWeightDA.GetHeader(HEADER_SUBNETWORKS))
	tableBytes := int64(nodeCount) * ls.lmRowLength
	if subnetworkCount < 1 || ls.landmarkWeightDA.Capacity() < tableBytes+int64(subnetworkCount*ls.landmarks*LANDMARK_BYTES) {
		return false, stale("weight table is truncated")
	}
	buildId := ls.landmarkWeightDA.GetHeader(HEADER_BUILD_ID)

	ok, err = ls.subnetworkDA.LoadExisting()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, stale("subnetwork file is missing")
	}
	if got := ls.subnetworkDA.GetHeader(SUBNETWORK_HEADER_BUILD_ID); got != buildId {
		return false, stale("subnetwork file belongs to build %d, weight table to build %d", got, buildId)
	}
	if got := ls.subnetworkDA.GetHeader(SUBNETWORK_HEADER_NODE_COUNT); int(got) != nodeCount ||
		ls.subnetworkDA.Capacity() < int64(nodeCount) {
		return false, stale("subnetwork file has %d nodes, graph has %d", got, nodeCount)
	}

	ls.factor = float64(ls.landmarkWeightDA.GetHeader(HEADER_FACTOR)) / DOUBLE_MULTIPLIER
	ls.exact = ls.landmarkWeightDA.GetHeader(HEADER_FLAGS)&FLAG_EXACT != 0
	ls.buildId = buildId

	ls.landmarkIDs = make([][]int32, subnetworkCount)
	pos := tableBytes
	for s := range ls.landmarkIDs {
		ls.landmarkIDs[s] = make([]int32, ls.landmarks)
		for i := range ls.landmarkIDs[s] {
			ls.landmarkIDs[s][i] = ls.landmarkWeightDA.GetInt(pos)
			pos += LANDMARK_BYTES
		}
	}

	ls.subnetworks = make([]int32, nodeCount)
	for u := range ls.subnetworks {
		ls.subnetworks[u] = int32(ls.subnetworkDA.GetByte(int64(u)))
	}

	ls.initialized = true
	return true, nil
}

func (ls *LandmarkStorage) Close() {
	ls.landmarkWeightDA.Close()
	ls.subnetworkDA.Close()
}

func (ls *LandmarkStorage) weightingHash() int32 {
	return int32(crc32.ChecksumIEEE([]byte(ls.weighting.GetName())))
}

func (ls *LandmarkStorage) IsInitialized() bool {
	return ls.initialized
}

// IsExact. every stored weight was a multiple of the factor.
func (ls *LandmarkStorage) IsExact() bool {
	return ls.exact
}

func (ls *LandmarkStorage) GetFactor() float64 {
	return ls.factor
}

func (ls *LandmarkStorage) GetLandmarkCount() int {
	return ls.landmarks
}

func (ls *LandmarkStorage) GetMinimumNodes() int {
	return ls.minimumNodes
}

func (ls *LandmarkStorage) GetWeighting() costfunction.Weighting {
	return ls.weighting
}

func (ls *LandmarkStorage) GetName() string {
	return ls.name
}

func (ls *LandmarkStorage) GetBuildId() int32 {
	return ls.buildId
}

// GetSubnetworksWithLandmarks. number of subnetworks including subnetwork 0.
func (ls *LandmarkStorage) GetSubnetworksWithLandmarks() int {
	return len(ls.landmarkIDs)
}

func (ls *LandmarkStorage) GetLandmarks(subnetwork int) []int32 {
	return ls.landmarkIDs[subnetwork]
}

// GetSubnetwork. 0 for nodes without landmarks.
func (ls *LandmarkStorage) GetSubnetwork(node da.Index) int {
	sub := ls.subnetworks[node]
	if sub == UNSET_SUBNETWORK {
		return int(UNCLEAR_SUBNETWORK)
	}
	return int(sub)
}

// GetSubnetworkConflicts. subnetworks rejected during CreateLandmarks.
func (ls *LandmarkStorage) GetSubnetworkConflicts() []error {
	return ls.conflicts
}

func (ls *LandmarkStorage) GetGraph() *da.Graph {
	return ls.graph
}
