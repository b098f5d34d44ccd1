package datastructure

import (
	"math"

	"github.com/lintang-b-s/navigatorx-lm/pkg"
	"github.com/lintang-b-s/navigatorx-lm/pkg/geo"
)

type Index uint32

const (
	INVALID_VERTEX_ID Index = math.MaxUint32
	INVALID_EDGE_ID   Index = math.MaxUint32
)

type Vertex struct {
	lat float64
	lon float64
	id  Index
}

func NewVertex(lat, lon float64, id Index) *Vertex {
	return &Vertex{
		lat: lat,
		lon: lon,
		id:  id,
	}
}

func (v *Vertex) GetID() Index {
	return v.id
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

// Edge is stored once for both travel directions. forward means base->adj is accessible,
// backward means adj->base is accessible.
type Edge struct {
	edgeId   Index
	base     Index
	adj      Index
	dist     float64 // meter
	speed    float64 // km/h
	forward  bool
	backward bool
	hwType   pkg.OsmHighwayType
}

func NewEdge(edgeId, base, adj Index, dist, speed float64, forward, backward bool,
	hwType pkg.OsmHighwayType) *Edge {
	return &Edge{
		edgeId:   edgeId,
		base:     base,
		adj:      adj,
		dist:     dist,
		speed:    speed,
		forward:  forward,
		backward: backward,
		hwType:   hwType,
	}
}

func (e *Edge) GetEdgeId() Index {
	return e.edgeId
}

func (e *Edge) GetBase() Index {
	return e.base
}

func (e *Edge) GetAdj() Index {
	return e.adj
}

func (e *Edge) GetLength() float64 {
	return e.dist
}

func (e *Edge) GetEdgeSpeed() float64 {
	return e.speed
}

func (e *Edge) IsForward() bool {
	return e.forward
}

func (e *Edge) IsBackward() bool {
	return e.backward
}

func (e *Edge) GetHighwayType() pkg.OsmHighwayType {
	return e.hwType
}

// EdgeState is an edge seen from one of its endpoints: baseNode is the node whose edges are
// iterated, forward/backward are oriented accordingly.
type EdgeState struct {
	edgeId   Index
	baseNode Index
	adjNode  Index
	dist     float64
	speed    float64
	forward  bool
	backward bool
	hwType   pkg.OsmHighwayType
}

func NewEdgeState(edgeId, baseNode, adjNode Index, dist, speed float64, forward, backward bool,
	hwType pkg.OsmHighwayType) EdgeState {
	return EdgeState{
		edgeId:   edgeId,
		baseNode: baseNode,
		adjNode:  adjNode,
		dist:     dist,
		speed:    speed,
		forward:  forward,
		backward: backward,
		hwType:   hwType,
	}
}

func (es *EdgeState) GetEdgeId() Index {
	return es.edgeId
}

func (es *EdgeState) GetBaseNode() Index {
	return es.baseNode
}

func (es *EdgeState) GetAdjNode() Index {
	return es.adjNode
}

func (es *EdgeState) GetLength() float64 {
	return es.dist
}

func (es *EdgeState) GetEdgeSpeed() float64 {
	return es.speed
}

// IsForward. baseNode -> adjNode is accessible
func (es *EdgeState) IsForward() bool {
	return es.forward
}

// IsBackward. adjNode -> baseNode is accessible
func (es *EdgeState) IsBackward() bool {
	return es.backward
}

func (es *EdgeState) GetHighwayType() pkg.OsmHighwayType {
	return es.hwType
}

// RoadGraph is the read-only graph view consumed by the searches and by the landmark preparation.
// node ids >= GetBaseNodeCount() are virtual nodes.
type RoadGraph interface {
	NumberOfVertices() int
	GetBaseNodeCount() int
	ForEdgesOf(u Index, handle func(e *EdgeState))
	GetVertexCoordinates(u Index) (float64, float64)
	IsVirtual(u Index) bool
}

// Graph. static road network in compressed sparse row form.
// firstEdge[u]..firstEdge[u+1] indexes adjEdges, which holds the ids of all edges incident to u.
type Graph struct {
	vertices  []*Vertex
	edges     []*Edge
	firstEdge []Index
	adjEdges  []Index
	bounds    *BoundingBox
}

func NewGraph(vertices []*Vertex, edges []*Edge) *Graph {
	n := len(vertices)
	firstEdge := make([]Index, n+1)
	for _, e := range edges {
		firstEdge[e.base+1]++
		if e.adj != e.base {
			firstEdge[e.adj+1]++
		}
	}
	for i := 1; i <= n; i++ {
		firstEdge[i] += firstEdge[i-1]
	}

	adjEdges := make([]Index, firstEdge[n])
	pos := make([]Index, n)
	copy(pos, firstEdge[:n])
	for _, e := range edges {
		adjEdges[pos[e.base]] = e.edgeId
		pos[e.base]++
		if e.adj != e.base {
			adjEdges[pos[e.adj]] = e.edgeId
			pos[e.adj]++
		}
	}

	g := &Graph{
		vertices:  vertices,
		edges:     edges,
		firstEdge: firstEdge,
		adjEdges:  adjEdges,
	}
	g.bounds = g.computeBounds()
	return g
}

func (g *Graph) computeBounds() *BoundingBox {
	if len(g.vertices) == 0 {
		return NewInvalidBoundingBox()
	}
	minLat, minLon := math.MaxFloat64, math.MaxFloat64
	maxLat, maxLon := -math.MaxFloat64, -math.MaxFloat64
	for _, v := range g.vertices {
		minLat = math.Min(minLat, v.lat)
		minLon = math.Min(minLon, v.lon)
		maxLat = math.Max(maxLat, v.lat)
		maxLon = math.Max(maxLon, v.lon)
	}
	return NewBoundingBox(minLat, minLon, maxLat, maxLon)
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices)
}

func (g *Graph) GetBaseNodeCount() int {
	return len(g.vertices)
}

func (g *Graph) NumberOfEdges() int {
	return len(g.edges)
}

func (g *Graph) IsVirtual(u Index) bool {
	return false
}

func (g *Graph) GetVertices() []*Vertex {
	return g.vertices
}

func (g *Graph) GetVertex(u Index) *Vertex {
	return g.vertices[u]
}

func (g *Graph) GetVertexCoordinates(u Index) (float64, float64) {
	v := g.vertices[u]
	return v.lat, v.lon
}

func (g *Graph) GetEdgeById(edgeId Index) *Edge {
	return g.edges[edgeId]
}

func (g *Graph) GetBounds() *BoundingBox {
	return g.bounds
}

// GetEdge returns edgeId oriented so that baseNode is its base.
func (g *Graph) GetEdge(edgeId, baseNode Index) EdgeState {
	return g.orient(g.edges[edgeId], baseNode)
}

func (g *Graph) orient(e *Edge, baseNode Index) EdgeState {
	if e.base == baseNode {
		return NewEdgeState(e.edgeId, e.base, e.adj, e.dist, e.speed, e.forward, e.backward, e.hwType)
	}
	return NewEdgeState(e.edgeId, e.adj, e.base, e.dist, e.speed, e.backward, e.forward, e.hwType)
}

func (g *Graph) ForEdgesOf(u Index, handle func(e *EdgeState)) {
	for i := g.firstEdge[u]; i < g.firstEdge[u+1]; i++ {
		es := g.orient(g.edges[g.adjEdges[i]], u)
		handle(&es)
	}
}

func (g *Graph) GetDegree(u Index) int {
	return int(g.firstEdge[u+1] - g.firstEdge[u])
}

func (g *Graph) ForEdges(handle func(e *Edge)) {
	for _, e := range g.edges {
		handle(e)
	}
}

// GetHaversineDistanceFromUtoV. in meter
func (g *Graph) GetHaversineDistanceFromUtoV(u, v Index) float64 {
	uLat, uLon := g.GetVertexCoordinates(u)
	vLat, vLon := g.GetVertexCoordinates(v)
	return geo.CalculateHaversineDistance(uLat, uLon, vLat, vLon) * 1000
}
