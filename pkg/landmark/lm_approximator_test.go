package landmark

import (
	"context"
	"math"
	"testing"

	"github.com/lintang-b-s/navigatorx-lm/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// allPairsWeights. weights[u][v] is the shortest path weight u->v, missing if unreachable.
func allPairsWeights(t *testing.T, g da.RoadGraph, w costfunction.Weighting) []map[da.Index]float64 {
	t.Helper()
	weights := make([]map[da.Index]float64, g.NumberOfVertices())
	for u := range weights {
		res, err := routing.NewDijkstra(g, w).CalcWeights(da.Index(u))
		require.NoError(t, err)
		weights[u] = res
	}
	return weights
}

func shortestWeight(weights []map[da.Index]float64, u, v da.Index) float64 {
	if w, ok := weights[u][v]; ok {
		return w
	}
	return math.Inf(1)
}

func TestLineGraphApproximation(t *testing.T) {
	g := createLineGraph(t)
	lms := newTestStorage(t, g, costfunction.NewShortestWeighting("car"), 2, 2)
	// factor 1 keeps the table exact, no quantum is subtracted and the bound of a 2 meter path is exactly 2.
	// the derived factor of this tiny graph is lossy and gives 1.99956.
	lms.SetMaximumWeight(1 << 16)
	require.NoError(t, lms.CreateLandmarks(context.Background()))

	approx, err := NewLMApproximator(g, lms, 2, false)
	require.NoError(t, err)
	require.NoError(t, approx.SetTo(4))

	h, err := approx.Approximate(2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, h)

	h, err = approx.Approximate(4)
	require.NoError(t, err)
	assert.Equal(t, 0.0, h)
	assert.Equal(t, 1.0, approx.GetSlack())
	assert.False(t, approx.IsFallback())
}

func TestLMApproximatorIsAdmissible(t *testing.T) {
	gb := da.NewGraphBuilder()
	addGrid(t, gb, 8, 9, -7.75, 110.36)
	g := gb.Build()
	w := costfunction.NewFastestWeighting("car", 80)
	lms := newTestStorage(t, g, w, 4, 10)
	require.NoError(t, lms.CreateLandmarks(context.Background()))
	require.False(t, lms.IsExact())

	weights := allPairsWeights(t, g, w)
	n := da.Index(g.NumberOfVertices())

	tests := []struct {
		name    string
		active  int
		reverse bool
	}{
		{"forward, 2 active", 2, false},
		{"forward, all active", 4, false},
		{"reverse, 2 active", 2, true},
		{"reverse, all active", 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := 0.0
			for target := da.Index(0); target < n; target += 5 {
				approx, err := NewLMApproximator(g, lms, tt.active, tt.reverse)
				require.NoError(t, err)
				require.NoError(t, approx.SetTo(target))
				for v := da.Index(0); v < n; v++ {
					h, err := approx.Approximate(v)
					require.NoError(t, err)
					require.GreaterOrEqual(t, h, 0.0)

					actual := shortestWeight(weights, v, target)
					if tt.reverse {
						actual = shortestWeight(weights, target, v)
					}
					assert.LessOrEqual(t, h, actual+1e-9, "target %d, node %d", target, v)
					sum += h
				}
			}
			assert.Greater(t, sum, 0.0)
		})
	}
}

func TestLMApproximatorVirtualTarget(t *testing.T) {
	gb := da.NewGraphBuilder()
	ids := addGrid(t, gb, 5, 6, -7.75, 110.36)
	g := gb.Build()
	w := costfunction.NewFastestWeighting("car", 80)
	lms := newTestStorage(t, g, w, 3, 5)
	require.NoError(t, lms.CreateLandmarks(context.Background()))

	qg := routing.NewQueryGraph(g)
	// edge 0 is the horizontal street ids[0] -> ids[1]
	lat, lon := g.GetVertexCoordinates(ids[0])
	virtual, err := qg.AddVirtualNode(0, lat, lon+0.0003)
	require.NoError(t, err)
	require.True(t, qg.IsVirtual(virtual))

	weights := allPairsWeights(t, qg, w)
	for _, reverse := range []bool{false, true} {
		approx, err := NewLMApproximator(qg, lms, 2, reverse)
		require.NoError(t, err)
		require.NoError(t, approx.SetTo(virtual))
		assert.False(t, approx.IsFallback())

		for v := da.Index(0); int(v) < qg.NumberOfVertices(); v++ {
			h, err := approx.Approximate(v)
			require.NoError(t, err)
			actual := shortestWeight(weights, v, virtual)
			if reverse {
				actual = shortestWeight(weights, virtual, v)
			}
			assert.LessOrEqual(t, h, actual+1e-9, "node %d", v)
		}
		h, err := approx.Approximate(virtual)
		require.NoError(t, err)
		assert.Equal(t, 0.0, h)
	}
}

func TestLMApproximatorSmallComponentFallsBack(t *testing.T) {
	gb := da.NewGraphBuilder()
	grid := addGrid(t, gb, 20, 30, -7.75, 110.36)
	small := addTriangle(t, gb, -7.70, 110.45)
	g := gb.Build()
	w := costfunction.NewFastestWeighting("car", 80)
	lms := newTestStorage(t, g, w, 4, 100)
	require.NoError(t, lms.CreateLandmarks(context.Background()))

	approx, err := NewLMApproximator(g, lms, 2, false)
	require.NoError(t, err)
	require.NoError(t, approx.SetTo(small[0]))

	beeline := routing.NewBeelineApproximator(g, w)
	require.NoError(t, beeline.SetTo(small[0]))

	h, err := approx.Approximate(small[1])
	require.NoError(t, err)
	assert.True(t, approx.IsFallback())
	expected, _ := beeline.Approximate(small[1])
	assert.Equal(t, expected, h)

	// sticky for the rest of the search
	h, err = approx.Approximate(grid[0])
	require.NoError(t, err)
	expected, _ = beeline.Approximate(grid[0])
	assert.Equal(t, expected, h)
}

func TestLMApproximatorDisconnected(t *testing.T) {
	gb := da.NewGraphBuilder()
	triangleA := addTriangle(t, gb, 0, 0)
	triangleB := addTriangle(t, gb, 0.5, 0.5)
	g := gb.Build()
	w := costfunction.NewFastestWeighting("car", 80)
	lms := newTestStorage(t, g, w, 2, 3)
	require.NoError(t, lms.CreateLandmarks(context.Background()))

	approx, err := NewLMApproximator(g, lms, 1, false)
	require.NoError(t, err)
	require.NoError(t, approx.SetTo(triangleB[0]))
	_, err = approx.Approximate(triangleA[0])
	assert.ErrorIs(t, err, ErrConnectionNotFound)

	astar := routing.NewAStar(g, w)
	astar.SetApproximation(approx)
	_, err = astar.CalcPath(triangleA[1], triangleB[2])
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestLMApproximatorReverseAndInvalidate(t *testing.T) {
	gb := da.NewGraphBuilder()
	addGrid(t, gb, 6, 6, -7.75, 110.36)
	g := gb.Build()
	w := costfunction.NewFastestWeighting("car", 80)
	lms := newTestStorage(t, g, w, 4, 5)
	require.NoError(t, lms.CreateLandmarks(context.Background()))

	approx, err := NewLMApproximator(g, lms, 2, false)
	require.NoError(t, err)
	approx.SetEpsilon(1.5)

	reversed, ok := approx.Reverse().(*LMApproximator)
	require.True(t, ok)
	assert.Equal(t, 1.5, reversed.GetEpsilon())
	assert.True(t, reversed.reverse)
	assert.Equal(t, approx.GetSlack(), reversed.GetSlack())
	assert.Len(t, reversed.GetActiveLandmarkIndices(), 2)

	twice, ok := reversed.Reverse().(*LMApproximator)
	require.True(t, ok)
	require.NotNil(t, twice)
	assert.False(t, twice.reverse)
	assert.Equal(t, 1.5, twice.GetEpsilon())

	require.NoError(t, approx.SetTo(30))
	_, err = approx.Approximate(0)
	require.NoError(t, err)
	first := append([]int(nil), approx.GetActiveLandmarkIndices()...)

	approx.Invalidate()
	_, err = approx.Approximate(0)
	require.NoError(t, err)
	assert.Equal(t, first, approx.GetActiveLandmarkIndices())

	assert.ErrorIs(t, approx.SetTo(da.Index(g.NumberOfVertices())), routing.ErrInvalidNode)
}

func TestNewLMApproximatorValidation(t *testing.T) {
	g := createLineGraph(t)
	lms := newTestStorage(t, g, costfunction.NewShortestWeighting("car"), 2, 2)

	_, err := NewLMApproximator(g, lms, 1, false)
	assert.ErrorIs(t, err, ErrNotInitialized)

	lms.SetMaximumWeight(1 << 16)
	require.NoError(t, lms.CreateLandmarks(context.Background()))
	for _, active := range []int{0, 3} {
		_, err = NewLMApproximator(g, lms, active, false)
		assert.ErrorIs(t, err, ErrInvalidLandmarkSize)
	}
}

// addRandomVirtualNodes snaps n points onto random edges of g, two of them can share an edge.
func addRandomVirtualNodes(t *testing.T, qg *routing.QueryGraph, g *da.Graph, rd *rand.Rand, n int) []da.Index {
	t.Helper()
	virtuals := make([]da.Index, 0, n)
	for i := 0; i < n; i++ {
		edgeId := da.Index(rd.Intn(min(g.NumberOfEdges(), 20)))
		e := g.GetEdgeById(edgeId)
		baseLat, baseLon := g.GetVertexCoordinates(e.GetBase())
		adjLat, adjLon := g.GetVertexCoordinates(e.GetAdj())
		fraction := 0.1 + 0.8*rd.Float64()
		v, err := qg.AddVirtualNode(edgeId, baseLat+fraction*(adjLat-baseLat), baseLon+fraction*(adjLon-baseLon))
		require.NoError(t, err)
		virtuals = append(virtuals, v)
	}
	return virtuals
}

func TestLMApproximatorConsistentWithVirtualNodes(t *testing.T) {
	gb := da.NewGraphBuilder()
	addGrid(t, gb, 6, 7, -7.75, 110.36)
	g := gb.Build()
	w := costfunction.NewFastestWeighting("car", 80)
	lms := newTestStorage(t, g, w, 4, 10)
	require.NoError(t, lms.CreateLandmarks(context.Background()))

	rd := rand.New(rand.NewSource(11))
	for round := 0; round < 20; round++ {
		qg := routing.NewQueryGraph(g)
		virtuals := addRandomVirtualNodes(t, qg, g, rd, 3)
		weights := allPairsWeights(t, qg, w)

		for _, reverse := range []bool{false, true} {
			approx, err := NewLMApproximator(qg, lms, 2, reverse)
			require.NoError(t, err)
			to := virtuals[0]
			require.NoError(t, approx.SetTo(to))

			h := make([]float64, qg.NumberOfVertices())
			for v := range h {
				h[v], err = approx.Approximate(da.Index(v))
				require.NoError(t, err)
				actual := shortestWeight(weights, da.Index(v), to)
				if reverse {
					actual = shortestWeight(weights, to, da.Index(v))
				}
				assert.LessOrEqual(t, h[v], actual+1e-9, "round %d node %d", round, v)
			}

			// h(u) <= c(u,v) + h(v) along every edge, up to the quantization slack
			for u := da.Index(0); int(u) < qg.NumberOfVertices(); u++ {
				qg.ForEdgesOf(u, func(e *da.EdgeState) {
					c := w.CalcWeight(e, reverse)
					if math.IsInf(c, 1) {
						return
					}
					v := e.GetAdjNode()
					assert.LessOrEqual(t, h[u], c+h[v]+approx.GetSlack()+1e-6,
						"round %d reverse %v edge %d->%d", round, reverse, u, v)
				})
			}
		}
	}
}
