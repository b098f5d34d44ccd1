package routing

import "errors"

const (
	DIJKSTRA       = "dijkstra"
	ASTAR          = "astar"
	ASTAR_BIDIRECT = "astarbi"

	DEFAULT_EPSILON = 1.0
)

var (
	ErrMaxVisitedNodesExceeded = errors.New("maximum number of visited nodes exceeded")
	ErrUnsupportedAlgorithm    = errors.New("unsupported routing algorithm")
	ErrInvalidNode             = errors.New("node does not exist in graph")
)
