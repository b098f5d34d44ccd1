package costfunction

import (
	"github.com/lintang-b-s/navigatorx-lm/pkg"
	"github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
)

type EdgeAttributes interface {
	GetEdgeId() datastructure.Index
	GetLength() float64
	GetEdgeSpeed() float64
	GetHighwayType() pkg.OsmHighwayType
	IsForward() bool
	IsBackward() bool
}

// Weighting. edge cost model. CalcWeight returns +Inf when the edge cannot be traversed in the
// requested direction: reverse=false means base->adj, reverse=true means adj->base.
type Weighting interface {
	CalcWeight(e EdgeAttributes, reverse bool) float64
	// MinWeight. lower bound of the weight needed to travel distance meters.
	MinWeight(distance float64) float64
	// GetName. stable identity, two weightings with different costs never share a name.
	GetName() string
}

func accessible(e EdgeAttributes, reverse bool) bool {
	if reverse {
		return e.IsBackward()
	}
	return e.IsForward()
}
