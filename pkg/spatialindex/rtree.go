package spatialindex

import (
	"math"

	"github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

type Rtree struct {
	tr    *rtree.RTreeG[edgeEntry]
	graph *datastructure.Graph
}

// edgeEntry. leaf of the r-tree, one per stored edge.
type edgeEntry struct {
	edgeId datastructure.Index
	base   datastructure.Index
	adj    datastructure.Index
}

// EdgeSnap. a query point projected onto the closest edge.
type EdgeSnap struct {
	EdgeId datastructure.Index
	Lat    float64
	Lon    float64
	// Distance from the query point to the projection, in meter.
	Distance float64
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[edgeEntry]
	return &Rtree{
		tr: &tr,
	}
}

// Build. build r-tree, with each leaf having bounding box with radius boundingBoxRadius (in km) around the edge
func (rt *Rtree) Build(graph *datastructure.Graph, boundingBoxRadius float64, log *zap.Logger) {
	log.Info("Building R-tree spatial index...", zap.Int("edges", graph.NumberOfEdges()))
	rt.graph = graph
	graph.ForEdges(func(e *datastructure.Edge) {
		fromLat, fromLon := graph.GetVertexCoordinates(e.GetBase())
		toLat, toLon := graph.GetVertexCoordinates(e.GetAdj())
		lowerFromLat, lowerFromLon := geo.GetDestinationPoint(fromLat, fromLon, 225, boundingBoxRadius)
		upperFromLat, upperFromLon := geo.GetDestinationPoint(fromLat, fromLon, 45, boundingBoxRadius)

		lowerToLat, lowerToLon := geo.GetDestinationPoint(toLat, toLon, 225, boundingBoxRadius)
		upperToLat, upperToLon := geo.GetDestinationPoint(toLat, toLon, 45, boundingBoxRadius)

		minLat := math.Min(lowerFromLat, lowerToLat)
		minLon := math.Min(lowerFromLon, lowerToLon)
		maxLat := math.Max(upperFromLat, upperToLat)
		maxLon := math.Max(upperFromLon, upperToLon)

		rt.tr.Insert([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat},
			edgeEntry{edgeId: e.GetEdgeId(), base: e.GetBase(), adj: e.GetAdj()})
	})

	log.Info("R-tree spatial index built.")
}

// searchWithinRadius search for all edges within radius (in km) from the query point (qLat, qLon)
func (rt *Rtree) searchWithinRadius(qLat, qLon, radius float64) []edgeEntry {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius)

	results := make([]edgeEntry, 0, 10)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data edgeEntry) bool {
			results = append(results, data)
			return true
		})
	return results
}

// FindClosestNode. nearest edge endpoint within radiusKm of (lat, lon).
func (rt *Rtree) FindClosestNode(lat, lon, radiusKm float64) (datastructure.Index, bool) {
	best := datastructure.INVALID_VERTEX_ID
	bestDist := math.Inf(1)
	for _, entry := range rt.searchWithinRadius(lat, lon, radiusKm) {
		for _, u := range [2]datastructure.Index{entry.base, entry.adj} {
			uLat, uLon := rt.graph.GetVertexCoordinates(u)
			dist := geo.CalculateHaversineDistance(lat, lon, uLat, uLon)
			if dist < bestDist || (dist == bestDist && u < best) {
				best, bestDist = u, dist
			}
		}
	}
	if best == datastructure.INVALID_VERTEX_ID || bestDist > radiusKm {
		return datastructure.INVALID_VERTEX_ID, false
	}
	return best, true
}

// FindClosestEdge. projection of (lat, lon) onto the nearest edge within radiusKm.
func (rt *Rtree) FindClosestEdge(lat, lon, radiusKm float64) (EdgeSnap, bool) {
	snap := EdgeSnap{EdgeId: datastructure.INVALID_EDGE_ID, Distance: math.Inf(1)}
	query := geo.NewCoordinate(lat, lon)
	for _, entry := range rt.searchWithinRadius(lat, lon, radiusKm) {
		baseLat, baseLon := rt.graph.GetVertexCoordinates(entry.base)
		adjLat, adjLon := rt.graph.GetVertexCoordinates(entry.adj)
		projection := geo.ProjectPointToLineCoord(geo.NewCoordinate(baseLat, baseLon),
			geo.NewCoordinate(adjLat, adjLon), query)
		dist := geo.CalculateHaversineDistance(lat, lon, projection.GetLat(), projection.GetLon()) * 1000
		if dist < snap.Distance || (dist == snap.Distance && entry.edgeId < snap.EdgeId) {
			snap = EdgeSnap{EdgeId: entry.edgeId, Lat: projection.GetLat(), Lon: projection.GetLon(), Distance: dist}
		}
	}
	if snap.EdgeId == datastructure.INVALID_EDGE_ID || snap.Distance > radiusKm*1000 {
		return snap, false
	}
	return snap, true
}
