package landmark

import (
	"sync"
	"testing"

	"github.com/lintang-b-s/navigatorx-lm/pkg"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/geo"
	"github.com/stretchr/testify/require"
)

// createLineGraph. 0-1-2-3-4, bidirectional edges of length 1 meter.
func createLineGraph(t *testing.T) *da.Graph {
	t.Helper()
	gb := da.NewGraphBuilder()
	for i := 0; i < 5; i++ {
		gb.AddVertex(0, float64(i)*0.000008)
	}
	for i := 0; i < 4; i++ {
		_, err := gb.AddEdge(da.Index(i), da.Index(i+1), 1, 50, true, true, pkg.RESIDENTIAL)
		require.NoError(t, err)
	}
	return gb.Build()
}

// addGrid adds a rows x cols grid starting at (lat, lon). every third row of horizontal streets is one way.
func addGrid(t *testing.T, gb *da.GraphBuilder, rows, cols int, lat, lon float64) []da.Index {
	t.Helper()
	ids := make([]da.Index, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			ids = append(ids, gb.AddVertex(lat+float64(r)*0.001, lon+float64(c)*0.001))
		}
	}
	id := func(r, c int) da.Index { return ids[r*cols+c] }
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			speed := 30.0 + float64((r*7+c*3)%5)*10
			if c+1 < cols {
				uLat, uLon := lat+float64(r)*0.001, lon+float64(c)*0.001
				dist := geo.CalculateHaversineDistance(uLat, uLon, uLat, uLon+0.001) * 1000
				_, err := gb.AddEdge(id(r, c), id(r, c+1), dist, speed, true, r%3 != 1, pkg.RESIDENTIAL)
				require.NoError(t, err)
			}
			if r+1 < rows {
				_, err := gb.AddRoad(id(r, c), id(r+1, c), speed)
				require.NoError(t, err)
			}
		}
	}
	return ids
}

// addTriangle adds three nodes connected in both directions.
func addTriangle(t *testing.T, gb *da.GraphBuilder, lat, lon float64) []da.Index {
	t.Helper()
	a := gb.AddVertex(lat, lon)
	b := gb.AddVertex(lat+0.001, lon)
	c := gb.AddVertex(lat, lon+0.001)
	for _, e := range [][2]da.Index{{a, b}, {b, c}, {c, a}} {
		_, err := gb.AddRoad(e[0], e[1], 40)
		require.NoError(t, err)
	}
	return []da.Index{a, b, c}
}

type recordingListener struct {
	mu       sync.Mutex
	progress []int
	built    []int
	rejected []error
}

func (rl *recordingListener) OnProgress(profile string, percent int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.progress = append(rl.progress, percent)
}

func (rl *recordingListener) OnSubnetworkBuilt(profile string, id, size int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.built = append(rl.built, id)
}

func (rl *recordingListener) OnSubnetworkRejected(profile string, err error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.rejected = append(rl.rejected, err)
}

type fakeLocationIndex struct {
	nodes map[[2]float64]da.Index
}

func (f *fakeLocationIndex) FindClosestNode(lat, lon, radiusKm float64) (da.Index, bool) {
	id, ok := f.nodes[[2]float64{lat, lon}]
	return id, ok
}
