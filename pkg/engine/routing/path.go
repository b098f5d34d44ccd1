package routing

import (
	"math"

	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
	"github.com/twpayne/go-polyline"
)

type Path struct {
	Weight   float64
	Distance float64 // meter
	Nodes    []da.Index
	Found    bool
}

func NewNotFoundPath() *Path {
	return &Path{
		Weight:   math.Inf(1),
		Distance: math.Inf(1),
		Nodes:    make([]da.Index, 0),
	}
}

func (p *Path) GetCoordinates(g da.RoadGraph) [][]float64 {
	coords := make([][]float64, 0, len(p.Nodes))
	for _, u := range p.Nodes {
		lat, lon := g.GetVertexCoordinates(u)
		coords = append(coords, []float64{lat, lon})
	}
	return coords
}

// Polyline. encoded polyline (precision 5) of the path nodes.
func (p *Path) Polyline(g da.RoadGraph) string {
	return string(polyline.EncodeCoords(p.GetCoordinates(g)))
}

// extractPath follows the parent pointers from target back to the search root.
func extractPath(info map[da.Index]*VertexInfo, target da.Index) []da.Index {
	nodes := make([]da.Index, 0)
	for u := target; u != da.INVALID_VERTEX_ID; u = info[u].GetParent() {
		nodes = append(nodes, u)
	}
	return util.ReverseG(nodes)
}
