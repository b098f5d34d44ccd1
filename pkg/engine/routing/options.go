package routing

import "math"

// AlgorithmOptions. per request routing parameters.
type AlgorithmOptions struct {
	Algorithm string
	// ActiveLandmarks. 0 means the preparation default.
	ActiveLandmarks int
	// Epsilon. weight of the heuristic, values > 1 give up optimality.
	Epsilon         float64
	DisableLM       bool
	MaxVisitedNodes int
}

func NewAlgorithmOptions(algorithm string) AlgorithmOptions {
	return AlgorithmOptions{
		Algorithm:       algorithm,
		Epsilon:         DEFAULT_EPSILON,
		MaxVisitedNodes: math.MaxInt,
	}
}

func (o AlgorithmOptions) GetEpsilon() float64 {
	if o.Epsilon <= 0 {
		return DEFAULT_EPSILON
	}
	return o.Epsilon
}

func (o AlgorithmOptions) GetMaxVisitedNodes() int {
	if o.MaxVisitedNodes <= 0 {
		return math.MaxInt
	}
	return o.MaxVisitedNodes
}
