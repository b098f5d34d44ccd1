package landmark

import "github.com/lintang-b-s/navigatorx-lm/pkg/costfunction"

// LMConfig. name of a landmark preparation and the weighting its landmarks are computed for.
// the name is part of the persisted file names.
type LMConfig struct {
	name      string
	weighting costfunction.Weighting
}

func NewLMConfig(name string, weighting costfunction.Weighting) LMConfig {
	return LMConfig{name: name, weighting: weighting}
}

func (c LMConfig) GetName() string {
	return c.name
}

func (c LMConfig) GetWeighting() costfunction.Weighting {
	return c.weighting
}
