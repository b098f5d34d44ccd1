package landmark

import (
	"context"
	"testing"

	"github.com/lintang-b-s/navigatorx-lm/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-lm/pkg/storage"
	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newTestPreparation(t *testing.T, dir *storage.Directory, g *da.Graph, landmarks, active int) *PrepareLandmarks {
	t.Helper()
	w := costfunction.NewFastestWeighting("car", 80)
	pl, err := NewPrepareLandmarks(dir, g, NewLMConfig("car", w), landmarks, active)
	require.NoError(t, err)
	return pl.SetMinimumNodes(10)
}

func TestNewPrepareLandmarksValidation(t *testing.T) {
	g := createLineGraph(t)
	w := costfunction.NewShortestWeighting("car")
	tests := []struct {
		name      string
		landmarks int
		active    int
	}{
		{"more active than landmarks", 4, 5},
		{"no active landmarks", 4, 0},
		{"too many landmarks", 300, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPrepareLandmarks(storage.NewRAMDirectory(), g, NewLMConfig("car", w), tt.landmarks, tt.active)
			assert.ErrorIs(t, err, ErrInvalidLandmarkSize)
			assert.ErrorIs(t, err, util.ErrBadParamInput)
		})
	}
}

func TestPrepareLandmarksDoWork(t *testing.T) {
	gb := da.NewGraphBuilder()
	addGrid(t, gb, 8, 9, -7.75, 110.36)
	g := gb.Build()
	listener := &recordingListener{}
	pl := newTestPreparation(t, storage.NewRAMDirectory(), g, 4, 2).SetListener(listener)

	assert.False(t, pl.IsPrepared())
	require.NoError(t, pl.DoWork(context.Background()))
	assert.True(t, pl.IsPrepared())
	assert.Equal(t, 1, pl.GetSubnetworkCount())
	assert.Equal(t, 2, pl.GetActiveLandmarks())
	assert.Equal(t, "car", pl.GetLMConfig().GetName())
	assert.Positive(t, pl.GetTotalPrepareTime())
	assert.Equal(t, 100, listener.progress[len(listener.progress)-1])

	err := pl.DoWork(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestPrepareLandmarksLoadExisting(t *testing.T) {
	gb := da.NewGraphBuilder()
	addGrid(t, gb, 6, 6, -7.75, 110.36)
	g := gb.Build()
	location := t.TempDir()

	pl := newTestPreparation(t, storage.NewDirectory(location), g, 3, 2)
	ok, err := pl.LoadExisting()
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, pl.DoWork(context.Background()))

	loaded := newTestPreparation(t, storage.NewDirectory(location), g, 3, 2)
	ok, err = loaded.LoadExisting()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, loaded.IsPrepared())
	assert.Equal(t, pl.GetLandmarkStorage().GetLandmarks(1), loaded.GetLandmarkStorage().GetLandmarks(1))
}

func TestDecorate(t *testing.T) {
	gb := da.NewGraphBuilder()
	addGrid(t, gb, 8, 9, -7.75, 110.36)
	g := gb.Build()
	w := costfunction.NewFastestWeighting("car", 80)
	pl := newTestPreparation(t, storage.NewRAMDirectory(), g, 4, 2)

	_, err := pl.Decorate(g, routing.NewAStar(g, w), routing.NewAlgorithmOptions(routing.ASTAR))
	assert.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, pl.DoWork(context.Background()))

	t.Run("disabled", func(t *testing.T) {
		opts := routing.NewAlgorithmOptions(routing.ASTAR)
		opts.DisableLM = true
		algo, err := pl.Decorate(g, routing.NewAStar(g, w), opts)
		require.NoError(t, err)
		assert.IsType(t, &routing.BeelineApproximator{}, algo.GetApproximation())
	})

	t.Run("active landmarks override", func(t *testing.T) {
		opts := routing.NewAlgorithmOptions(routing.ASTAR)
		opts.ActiveLandmarks = 3
		opts.Epsilon = 1.2
		algo, err := pl.Decorate(g, routing.NewAStar(g, w), opts)
		require.NoError(t, err)
		approx, ok := algo.GetApproximation().(*LMApproximator)
		require.True(t, ok)
		assert.Len(t, approx.GetActiveLandmarkIndices(), 3)
		assert.Equal(t, 1.2, approx.GetEpsilon())
	})

	t.Run("too many active landmarks", func(t *testing.T) {
		opts := routing.NewAlgorithmOptions(routing.ASTAR)
		opts.ActiveLandmarks = 5
		_, err := pl.Decorate(g, routing.NewAStar(g, w), opts)
		assert.ErrorIs(t, err, ErrInvalidLandmarkSize)
	})

	t.Run("agrees with dijkstra", func(t *testing.T) {
		rd := rand.New(rand.NewSource(7))
		for i := 0; i < 50; i++ {
			from := da.Index(rd.Intn(g.NumberOfVertices()))
			to := da.Index(rd.Intn(g.NumberOfVertices()))
			ref, err := routing.NewDijkstra(g, w).CalcPath(from, to)
			require.NoError(t, err)

			algos := []routing.HeuristicAware{routing.NewAStar(g, w), routing.NewAStarBidirection(g, w)}
			for _, algo := range algos {
				decorated, err := pl.Decorate(g, algo, routing.NewAlgorithmOptions(algo.GetName()))
				require.NoError(t, err)
				p, err := decorated.CalcPath(from, to)
				require.NoError(t, err)
				require.Equal(t, ref.Found, p.Found)
				assert.InDelta(t, ref.Weight, p.Weight, 1e-6, "%s %d->%d", algo.GetName(), from, to)
			}
		}
	})
}

func TestDecorateBidirectionalWithVirtualNodes(t *testing.T) {
	gb := da.NewGraphBuilder()
	addGrid(t, gb, 8, 9, -7.75, 110.36)
	g := gb.Build()
	w := costfunction.NewFastestWeighting("car", 80)
	pl := newTestPreparation(t, storage.NewRAMDirectory(), g, 4, 2)
	require.NoError(t, pl.DoWork(context.Background()))

	rd := rand.New(rand.NewSource(3))
	for round := 0; round < 100; round++ {
		qg := routing.NewQueryGraph(g)
		virtuals := addRandomVirtualNodes(t, qg, g, rd, 3)
		queries := [][2]da.Index{
			{virtuals[0], virtuals[1]},
			{virtuals[1], virtuals[0]},
			{da.Index(rd.Intn(g.NumberOfVertices())), virtuals[2]},
			{virtuals[2], da.Index(rd.Intn(g.NumberOfVertices()))},
		}
		for _, q := range queries {
			ref, err := routing.NewDijkstra(qg, w).CalcPath(q[0], q[1])
			require.NoError(t, err)

			decorated, err := pl.Decorate(qg, routing.NewAStarBidirection(qg, w),
				routing.NewAlgorithmOptions(routing.ASTAR_BIDIRECT))
			require.NoError(t, err)
			p, err := decorated.CalcPath(q[0], q[1])
			require.NoError(t, err)
			require.Equal(t, ref.Found, p.Found)
			assert.InDelta(t, ref.Weight, p.Weight, 1e-6, "round %d %d->%d", round, q[0], q[1])
		}
	}
}
