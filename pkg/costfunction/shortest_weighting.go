package costfunction

import (
	"fmt"
	"math"
)

// ShortestWeighting. distance in meter.
type ShortestWeighting struct {
	vehicle string
}

func NewShortestWeighting(vehicle string) *ShortestWeighting {
	return &ShortestWeighting{vehicle: vehicle}
}

func (sw *ShortestWeighting) CalcWeight(e EdgeAttributes, reverse bool) float64 {
	if !accessible(e, reverse) {
		return math.Inf(1)
	}
	return e.GetLength()
}

func (sw *ShortestWeighting) MinWeight(distance float64) float64 {
	return distance
}

func (sw *ShortestWeighting) GetName() string {
	return fmt.Sprintf("%s_shortest", sw.vehicle)
}

// NewWeighting. weighting by name, used by the profile configuration.
func NewWeighting(vehicle, weighting string, maxSpeed float64) (Weighting, error) {
	switch weighting {
	case "fastest":
		if maxSpeed <= 0 {
			return nil, fmt.Errorf("fastest weighting for %s needs a positive max speed, got %f", vehicle, maxSpeed)
		}
		return NewFastestWeighting(vehicle, maxSpeed), nil
	case "shortest":
		return NewShortestWeighting(vehicle), nil
	default:
		return nil, fmt.Errorf("unknown weighting %q, supported: fastest, shortest", weighting)
	}
}
