package routing

import (
	"fmt"
	"math"
	"sort"

	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/geo"
)

type virtualNode struct {
	lat      float64
	lon      float64
	edgeId   da.Index
	fraction float64 // position along the edge measured from its base, 0..1
}

// QueryGraph. overlays virtual nodes snapped onto edge interiors on top of a base graph.
// an edge carrying virtual nodes is replaced by the chain base - v1 - ... - vk - adj,
// virtual node ids start at base.NumberOfVertices().
type QueryGraph struct {
	base         *da.Graph
	virtualNodes []virtualNode
	edgeChains   map[da.Index][]da.Index // edgeId -> virtual nodes sorted by fraction
}

func NewQueryGraph(base *da.Graph) *QueryGraph {
	return &QueryGraph{
		base:         base,
		virtualNodes: make([]virtualNode, 0),
		edgeChains:   make(map[da.Index][]da.Index),
	}
}

// AddVirtualNode snaps (lat, lon) onto edgeId and returns the id of the new virtual node.
func (qg *QueryGraph) AddVirtualNode(edgeId da.Index, lat, lon float64) (da.Index, error) {
	if int(edgeId) >= qg.base.NumberOfEdges() {
		return da.INVALID_VERTEX_ID, fmt.Errorf("edge %d does not exist", edgeId)
	}
	e := qg.base.GetEdgeById(edgeId)
	baseLat, baseLon := qg.base.GetVertexCoordinates(e.GetBase())
	adjLat, adjLon := qg.base.GetVertexCoordinates(e.GetAdj())

	projection := geo.ProjectPointToLineCoord(geo.NewCoordinate(baseLat, baseLon), geo.NewCoordinate(adjLat, adjLon),
		geo.NewCoordinate(lat, lon))

	fraction := 0.0
	segmentLength := geo.CalculateHaversineDistance(baseLat, baseLon, adjLat, adjLon)
	if segmentLength > 0 {
		fraction = geo.CalculateHaversineDistance(baseLat, baseLon, projection.GetLat(), projection.GetLon()) /
			segmentLength
	}
	if fraction > 1 {
		fraction = 1
	}

	id := da.Index(qg.base.NumberOfVertices() + len(qg.virtualNodes))
	qg.virtualNodes = append(qg.virtualNodes, virtualNode{
		lat:      projection.GetLat(),
		lon:      projection.GetLon(),
		edgeId:   edgeId,
		fraction: fraction,
	})

	chain := append(qg.edgeChains[edgeId], id)
	sort.SliceStable(chain, func(i, j int) bool {
		return qg.virtual(chain[i]).fraction < qg.virtual(chain[j]).fraction
	})
	qg.edgeChains[edgeId] = chain
	return id, nil
}

func (qg *QueryGraph) virtual(u da.Index) virtualNode {
	return qg.virtualNodes[int(u)-qg.base.NumberOfVertices()]
}

func (qg *QueryGraph) NumberOfVertices() int {
	return qg.base.NumberOfVertices() + len(qg.virtualNodes)
}

func (qg *QueryGraph) GetBaseNodeCount() int {
	return qg.base.NumberOfVertices()
}

func (qg *QueryGraph) IsVirtual(u da.Index) bool {
	return int(u) >= qg.base.NumberOfVertices()
}

func (qg *QueryGraph) GetVertexCoordinates(u da.Index) (float64, float64) {
	if qg.IsVirtual(u) {
		vn := qg.virtual(u)
		return vn.lat, vn.lon
	}
	return qg.base.GetVertexCoordinates(u)
}

func (qg *QueryGraph) GetBaseGraph() *da.Graph {
	return qg.base
}

func (qg *QueryGraph) ForEdgesOf(u da.Index, handle func(e *da.EdgeState)) {
	if !qg.IsVirtual(u) {
		qg.base.ForEdgesOf(u, func(e *da.EdgeState) {
			chain, ok := qg.edgeChains[e.GetEdgeId()]
			if !ok {
				handle(e)
				return
			}
			// u is the base or the adj of the stored edge, replace the edge by the first piece of the chain.
			stored := qg.base.GetEdgeById(e.GetEdgeId())
			if stored.GetBase() == u && stored.GetAdj() != u {
				qg.handlePiece(stored, u, chain[0], 0, qg.virtual(chain[0]).fraction, handle)
			} else {
				last := chain[len(chain)-1]
				qg.handlePiece(stored, u, last, 1, qg.virtual(last).fraction, handle)
			}
		})
		return
	}

	vn := qg.virtual(u)
	stored := qg.base.GetEdgeById(vn.edgeId)
	chain := qg.edgeChains[vn.edgeId]
	pos := 0
	for i, id := range chain {
		if id == u {
			pos = i
			break
		}
	}

	// towards the base of the stored edge
	prev, prevFraction := stored.GetBase(), 0.0
	if pos > 0 {
		prev, prevFraction = chain[pos-1], qg.virtual(chain[pos-1]).fraction
	}
	qg.handlePiece(stored, u, prev, vn.fraction, prevFraction, handle)

	// towards the adj of the stored edge
	next, nextFraction := stored.GetAdj(), 1.0
	if pos < len(chain)-1 {
		next, nextFraction = chain[pos+1], qg.virtual(chain[pos+1]).fraction
	}
	qg.handlePiece(stored, u, next, vn.fraction, nextFraction, handle)
}

// handlePiece emits the part of stored between the positions uFraction and vFraction, oriented u->v.
func (qg *QueryGraph) handlePiece(stored *da.Edge, u, v da.Index, uFraction, vFraction float64,
	handle func(e *da.EdgeState)) {
	length := stored.GetLength() * math.Abs(vFraction-uFraction)
	forward, backward := stored.IsForward(), stored.IsBackward()
	if vFraction < uFraction {
		// walking towards the base of the stored edge
		forward, backward = backward, forward
	}
	es := da.NewEdgeState(stored.GetEdgeId(), u, v, length, stored.GetEdgeSpeed(), forward, backward,
		stored.GetHighwayType())
	handle(&es)
}
