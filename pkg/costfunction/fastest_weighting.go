package costfunction

import (
	"fmt"
	"math"
	"strconv"
)

const (
	defaultSpeed = 20.0 // km/h
)

// FastestWeighting. travel time in seconds.
type FastestWeighting struct {
	vehicle  string
	maxSpeed float64 // km/h
}

func NewFastestWeighting(vehicle string, maxSpeed float64) *FastestWeighting {
	return &FastestWeighting{
		vehicle:  vehicle,
		maxSpeed: maxSpeed,
	}
}

func (fw *FastestWeighting) CalcWeight(e EdgeAttributes, reverse bool) float64 {
	if !accessible(e, reverse) {
		return math.Inf(1)
	}
	speed := e.GetEdgeSpeed()
	if speed <= 0 {
		speed = defaultSpeed
	}
	speed = math.Min(speed, fw.maxSpeed)
	return e.GetLength() / (speed / 3.6)
}

func (fw *FastestWeighting) MinWeight(distance float64) float64 {
	return distance / (fw.maxSpeed / 3.6)
}

// GetName. includes the max speed, it caps the edge speeds and so changes the weights.
func (fw *FastestWeighting) GetName() string {
	return fmt.Sprintf("%s_fastest_%s", fw.vehicle, strconv.FormatFloat(fw.maxSpeed, 'f', -1, 64))
}

func (fw *FastestWeighting) GetMaxSpeed() float64 {
	return fw.maxSpeed
}
