package landmark

import "math"

const (
	// SHORT_INFINITY marks an unreachable entry of the weight table.
	SHORT_INFINITY = math.MaxUint16
	// SHORT_MAX is the largest finite weight, bigger values saturate.
	SHORT_MAX         = SHORT_INFINITY - 1
	PRECISION         = 1 << 16
	DOUBLE_MULTIPLIER = 1e6

	UNSET_SUBNETWORK   int32 = -1
	UNCLEAR_SUBNETWORK int32 = 0
	MAX_SUBNETWORKS          = math.MaxUint8

	EXACT_TOLERANCE = 1e-9

	SMALL_GRAPH_DIAGONAL      = 50_000.0 // meter
	SMALL_GRAPH_DIAGONAL_MULT = 7.0
	DEFAULT_REFERENCE_DIST    = 6_000_000.0 // meter

	SUGGESTION_SNAP_RADIUS = 1.0 // km

	// bytes per node and landmark slot: from weight + to weight
	LM_ROW_ENTRY   = 4
	FROM_OFFSET    = 0
	TO_OFFSET      = 2
	LANDMARK_BYTES = 4
)

// header slots of the landmark weight file
const (
	HEADER_NODE_COUNT = iota
	HEADER_LANDMARKS
	HEADER_SUBNETWORKS
	HEADER_FACTOR
	HEADER_BUILD_ID
	HEADER_FLAGS
	HEADER_WEIGHTING_HASH
)

// header slots of the subnetwork file
const (
	SUBNETWORK_HEADER_NODE_COUNT = iota
	SUBNETWORK_HEADER_BUILD_ID
)

const (
	FLAG_EXACT int32 = 1 << iota
)
