package routing

import (
	"math"
	"testing"

	"github.com/lintang-b-s/navigatorx-lm/pkg"
	"github.com/lintang-b-s/navigatorx-lm/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// createGridGraph. rows x cols grid, every third horizontal street is one way, speeds vary per row.
func createGridGraph(t *testing.T, rows, cols int) *da.Graph {
	t.Helper()
	gb := da.NewGraphBuilder()
	id := func(r, c int) da.Index { return da.Index(r*cols + c) }
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			gb.AddVertex(-7.75+float64(r)*0.001, 110.36+float64(c)*0.001)
		}
	}
	g := gb.Build()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			speed := 30.0 + float64((r*7+c*3)%5)*10
			if c+1 < cols {
				dist := g.GetHaversineDistanceFromUtoV(id(r, c), id(r, c+1))
				_, err := gb.AddEdge(id(r, c), id(r, c+1), dist, speed, true, r%3 != 1, pkg.RESIDENTIAL)
				require.NoError(t, err)
			}
			if r+1 < rows {
				_, err := gb.AddRoad(id(r, c), id(r+1, c), speed)
				require.NoError(t, err)
			}
		}
	}
	return gb.Build()
}

func TestAlgorithmsAgreeWithDijkstra(t *testing.T) {
	g := createGridGraph(t, 8, 9)
	w := costfunction.NewFastestWeighting("car", 80)
	factory := NewDefaultAlgorithmFactory()
	rd := rand.New(rand.NewSource(42))

	for i := 0; i < 60; i++ {
		from := da.Index(rd.Intn(g.NumberOfVertices()))
		to := da.Index(rd.Intn(g.NumberOfVertices()))

		ref, err := NewDijkstra(g, w).CalcPath(from, to)
		require.NoError(t, err)

		for _, name := range []string{ASTAR, ASTAR_BIDIRECT} {
			algo, err := factory.CreateAlgo(g, w, NewAlgorithmOptions(name))
			require.NoError(t, err)
			p, err := algo.CalcPath(from, to)
			require.NoError(t, err)
			require.Equal(t, ref.Found, p.Found)
			if !ref.Found {
				continue
			}
			assert.InDelta(t, ref.Weight, p.Weight, 1e-6, "%s %d->%d", name, from, to)
			assert.Equal(t, from, p.Nodes[0])
			assert.Equal(t, to, p.Nodes[len(p.Nodes)-1])
			assert.InDelta(t, ref.Weight, pathWeight(t, g, w, p.Nodes), 1e-6)
		}
	}
}

func pathWeight(t *testing.T, g da.RoadGraph, w costfunction.Weighting, nodes []da.Index) float64 {
	total := 0.0
	for i := 0; i+1 < len(nodes); i++ {
		best := math.Inf(1)
		g.ForEdgesOf(nodes[i], func(e *da.EdgeState) {
			if e.GetAdjNode() == nodes[i+1] {
				best = math.Min(best, w.CalcWeight(e, false))
			}
		})
		require.False(t, math.IsInf(best, 1), "no edge %d->%d", nodes[i], nodes[i+1])
		total += best
	}
	return total
}

func TestOneWayAndUnreachable(t *testing.T) {
	gb := da.NewGraphBuilder()
	for i := 0; i < 4; i++ {
		gb.AddVertex(0, float64(i)*0.001)
	}
	_, err := gb.AddEdge(0, 1, 111, 50, true, false, pkg.RESIDENTIAL)
	require.NoError(t, err)
	_, err = gb.AddEdge(1, 2, 111, 50, true, false, pkg.RESIDENTIAL)
	require.NoError(t, err)
	g := gb.Build()
	w := costfunction.NewShortestWeighting("car")

	tests := []struct {
		name      string
		from, to  da.Index
		wantFound bool
		want      float64
	}{
		{"with direction", 0, 2, true, 222},
		{"against direction", 2, 0, false, 0},
		{"isolated", 0, 3, false, 0},
		{"same node", 1, 1, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, algo := range []RoutingAlgorithm{NewDijkstra(g, w), NewAStar(g, w), NewAStarBidirection(g, w)} {
				p, err := algo.CalcPath(tt.from, tt.to)
				require.NoError(t, err)
				assert.Equal(t, tt.wantFound, p.Found, algo.GetName())
				if tt.wantFound {
					assert.InDelta(t, tt.want, p.Weight, 1e-9, algo.GetName())
				}
			}
		})
	}
}

func TestMaxVisitedNodes(t *testing.T) {
	g := createGridGraph(t, 6, 6)
	w := costfunction.NewShortestWeighting("car")
	opts := NewAlgorithmOptions(DIJKSTRA)
	opts.MaxVisitedNodes = 3

	algo, err := NewDefaultAlgorithmFactory().CreateAlgo(g, w, opts)
	require.NoError(t, err)
	_, err = algo.CalcPath(0, 35)
	assert.ErrorIs(t, err, ErrMaxVisitedNodesExceeded)
}

func TestFactory(t *testing.T) {
	g := createGridGraph(t, 2, 2)
	w := costfunction.NewShortestWeighting("car")
	factory := NewDefaultAlgorithmFactory()

	algo, err := factory.CreateAlgo(g, w, NewAlgorithmOptions(DIJKSTRA))
	require.NoError(t, err)
	_, isHeuristic := algo.(HeuristicAware)
	assert.False(t, isHeuristic)

	ha, err := factory.CreateHeuristicAlgo(g, w, NewAlgorithmOptions(ASTAR_BIDIRECT))
	require.NoError(t, err)
	assert.Equal(t, ASTAR_BIDIRECT, ha.GetName())
	assert.IsType(t, &BeelineApproximator{}, ha.GetApproximation())

	_, err = factory.CreateHeuristicAlgo(g, w, NewAlgorithmOptions(DIJKSTRA))
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	_, err = factory.CreateAlgo(g, w, NewAlgorithmOptions("bellmanford"))
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestQueryGraphVirtualNode(t *testing.T) {
	gb := da.NewGraphBuilder()
	a := gb.AddVertex(0, 0)
	b := gb.AddVertex(0, 0.01)
	c := gb.AddVertex(0.01, 0.01)
	_, err := gb.AddRoad(a, b, 50)
	require.NoError(t, err)
	_, err = gb.AddRoad(b, c, 50)
	require.NoError(t, err)
	g := gb.Build()
	w := costfunction.NewShortestWeighting("car")

	qg := NewQueryGraph(g)
	mid, err := qg.AddVirtualNode(0, 0.0001, 0.005)
	require.NoError(t, err)
	assert.Equal(t, da.Index(3), mid)
	assert.True(t, qg.IsVirtual(mid))
	assert.Equal(t, 3, qg.GetBaseNodeCount())
	assert.Equal(t, 4, qg.NumberOfVertices())

	edgeLength := g.GetEdgeById(0).GetLength()
	for _, algo := range []RoutingAlgorithm{NewDijkstra(qg, w), NewAStar(qg, w), NewAStarBidirection(qg, w)} {
		p, err := algo.CalcPath(mid, c)
		require.NoError(t, err)
		require.True(t, p.Found)
		assert.InDelta(t, edgeLength/2+g.GetEdgeById(1).GetLength(), p.Weight, 1.0, algo.GetName())
		assert.Equal(t, []da.Index{mid, b, c}, p.Nodes, algo.GetName())

		p, err = algo.CalcPath(a, b)
		require.NoError(t, err)
		assert.Equal(t, []da.Index{a, mid, b}, p.Nodes, "the stored edge is replaced by the chain")
		assert.InDelta(t, edgeLength, p.Weight, 1e-6)
	}

	second, err := qg.AddVirtualNode(0, 0, 0.0025)
	require.NoError(t, err)
	p, err := NewDijkstra(qg, w).CalcPath(a, mid)
	require.NoError(t, err)
	assert.Equal(t, []da.Index{a, second, mid}, p.Nodes)
}

func TestPathPolyline(t *testing.T) {
	gb := da.NewGraphBuilder()
	gb.AddVertex(38.5, -120.2)
	gb.AddVertex(40.7, -120.95)
	gb.AddVertex(43.252, -126.453)
	g := gb.Build()

	p := &Path{Nodes: []da.Index{0, 1, 2}, Found: true}
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", p.Polyline(g))
}
