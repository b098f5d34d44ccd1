package datastructure

import (
	"fmt"

	"github.com/lintang-b-s/navigatorx-lm/pkg"
)

type GraphBuilder struct {
	vertices []*Vertex
	edges    []*Edge
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		vertices: make([]*Vertex, 0),
		edges:    make([]*Edge, 0),
	}
}

func (gb *GraphBuilder) AddVertex(lat, lon float64) Index {
	id := Index(len(gb.vertices))
	gb.vertices = append(gb.vertices, NewVertex(lat, lon, id))
	return id
}

// AddEdge. dist in meter, speed in km/h. forward allows u->v, backward allows v->u.
func (gb *GraphBuilder) AddEdge(u, v Index, dist, speed float64, forward, backward bool,
	hwType pkg.OsmHighwayType) (Index, error) {
	n := Index(len(gb.vertices))
	if u >= n || v >= n {
		return INVALID_EDGE_ID, fmt.Errorf("edge (%d,%d) references unknown vertex, number of vertices: %d", u, v, n)
	}
	if dist < 0 {
		return INVALID_EDGE_ID, fmt.Errorf("edge (%d,%d) has negative distance %f", u, v, dist)
	}
	id := Index(len(gb.edges))
	gb.edges = append(gb.edges, NewEdge(id, u, v, dist, speed, forward, backward, hwType))
	return id, nil
}

// AddRoad. bidirectional edge with the distance taken from the vertex coordinates.
func (gb *GraphBuilder) AddRoad(u, v Index, speed float64) (Index, error) {
	if int(u) >= len(gb.vertices) || int(v) >= len(gb.vertices) {
		return INVALID_EDGE_ID, fmt.Errorf("edge (%d,%d) references unknown vertex", u, v)
	}
	uv, vv := gb.vertices[u], gb.vertices[v]
	dist := haversineMeter(uv.lat, uv.lon, vv.lat, vv.lon)
	return gb.AddEdge(u, v, dist, speed, true, true, pkg.RESIDENTIAL)
}

func (gb *GraphBuilder) Build() *Graph {
	return NewGraph(gb.vertices, gb.edges)
}
