package preparation

import (
	"regexp"

	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
)

var profileNameRegex = regexp.MustCompile(`^[a-z0-9_\-]+$`)

// LMProfile. a landmark preparation is identified by its profile name, the name is part of the persisted file names.
type LMProfile struct {
	Name      string
	Vehicle   string
	Weighting string
}

func NewLMProfile(name, vehicle, weighting string) (*LMProfile, error) {
	if !IsValidProfileName(name) {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"profile name %q must only contain lower case letters, digits, '_' and '-'", name)
	}
	return &LMProfile{Name: name, Vehicle: vehicle, Weighting: weighting}, nil
}

func IsValidProfileName(name string) bool {
	return profileNameRegex.MatchString(name)
}

func (p *LMProfile) Equal(other *LMProfile) bool {
	return other != nil && p.Name == other.Name
}

func (p *LMProfile) GetName() string {
	return p.Name
}

func (p *LMProfile) String() string {
	return p.Name + "|" + p.Vehicle + "|" + p.Weighting
}
