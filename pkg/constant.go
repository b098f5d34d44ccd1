package pkg

const (
	INF_WEIGHT float64 = 1e15

	DEFAULT_LANDMARKS          = 16
	DEFAULT_ACTIVE_LANDMARKS   = 8
	DEFAULT_MIN_NETWORK_SIZE   = 500
	DEFAULT_PREPARATION_THREAD = 1
	DEFAULT_MAX_SPEED          = 120.0 // km/h
)

type OsmHighwayType uint8

// highway class of an edge, stored in the graph file. https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
const (
	MOTORWAY       OsmHighwayType = 0
	TRUNK          OsmHighwayType = 1
	PRIMARY        OsmHighwayType = 2
	SECONDARY      OsmHighwayType = 3
	TERTIARY       OsmHighwayType = 4
	RESIDENTIAL    OsmHighwayType = 5
	SERVICE        OsmHighwayType = 6
	UNCLASSIFIED   OsmHighwayType = 7
	MOTORWAY_LINK  OsmHighwayType = 8
	TRUNK_LINK     OsmHighwayType = 9
	PRIMARY_LINK   OsmHighwayType = 10
	SECONDARY_LINK OsmHighwayType = 11
	TERTIARY_LINK  OsmHighwayType = 12
	LIVING_STREET  OsmHighwayType = 13
	ROAD           OsmHighwayType = 14
	TRACK          OsmHighwayType = 15
	MOTORROAD      OsmHighwayType = 16
	FERRY          OsmHighwayType = 17
	UNKNOWN        OsmHighwayType = 18
)
