package landmark

import "errors"

var (
	ErrAlreadyInitialized  = errors.New("landmarks already initialized")
	ErrNotInitialized      = errors.New("landmarks not initialized")
	ErrConnectionNotFound  = errors.New("connection between locations not found, they lie in different subnetworks")
	ErrSubnetworkConflict  = errors.New("subnetwork conflict")
	ErrWeightOverflow      = errors.New("weight does not fit into the quantized range, the maximum weight is too small")
	ErrStaleData           = errors.New("persisted landmark data does not match the graph")
	ErrTooFewSuggestions   = errors.New("too few landmark suggestions")
	ErrTooManySubnetworks  = errors.New("too many subnetworks")
	ErrInvalidFactor       = errors.New("invalid quantization factor")
	ErrInvalidLandmarkSize = errors.New("invalid number of landmarks")
)
