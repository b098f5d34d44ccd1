package geo

import (
	"github.com/lintang-b-s/navigatorx-lm/pkg/util"

	"github.com/golang/geo/s2"
)

// ProjectPointToLineCoord. closest point to snap on the great circle segment pointA-pointB.
func ProjectPointToLineCoord(pointA Coordinate, pointB Coordinate,
	snap Coordinate) Coordinate {
	pointA = roundToSixDigits(pointA)
	pointB = roundToSixDigits(pointB)
	snap = roundToSixDigits(snap)

	pointAS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(pointA.Lat, pointA.Lon))
	pointBS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(pointB.Lat, pointB.Lon))
	snapS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(snap.Lat, snap.Lon))
	projection := s2.Project(snapS2, pointAS2, pointBS2)
	projectLatLng := s2.LatLngFromPoint(projection)
	return NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// roundToSixDigits. ~0.1 m, the precision of the graph file.
func roundToSixDigits(n Coordinate) Coordinate {
	if util.CountDecimalPlacesF64(n.Lat) > 6 {
		n.Lat = util.RoundFloat(n.Lat, 6)
	}
	if util.CountDecimalPlacesF64(n.Lon) > 6 {
		n.Lon = util.RoundFloat(n.Lon, 6)
	}
	return n
}
