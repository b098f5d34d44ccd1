package preparation

import (
	"strings"

	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
)

// ProfileHints. request parameters used to pick a landmark profile, empty fields match everything.
type ProfileHints struct {
	Vehicle   string
	Weighting string
}

/*
SelectProfile picks the landmark profile of a request.
a single profile is used when the request does not ask for anything, with more profiles such a request is
ambiguous. otherwise the first profile matching every non empty hint is returned. landmarks of one weighting are never used for another one, their bounds would not be
admissible.
*/
func SelectProfile(profiles []*LMProfile, hints ProfileHints) (*LMProfile, error) {
	if len(profiles) == 0 {
		return nil, util.WrapErrorf(ErrNoMatchingProfile, util.ErrNotFound, "no landmark profiles are configured")
	}
	if hints.Vehicle == "" && hints.Weighting == "" {
		if len(profiles) == 1 {
			return profiles[0], nil
		}
		return nil, util.WrapErrorf(ErrNoMatchingProfile, util.ErrBadParamInput,
			"request does not specify vehicle or weighting, choose one of %s or disable landmarks for this request",
			profileNames(profiles))
	}

	for _, p := range profiles {
		if hints.Vehicle != "" && hints.Vehicle != p.Vehicle {
			continue
		}
		if hints.Weighting != "" && hints.Weighting != p.Weighting {
			continue
		}
		return p, nil
	}

	return nil, util.WrapErrorf(ErrNoMatchingProfile, util.ErrNotFound,
		"vehicle=%q weighting=%q, available profiles: %s. disable landmarks for this request if the profile is intended",
		hints.Vehicle, hints.Weighting, profileNames(profiles))
}

func profileNames(profiles []*LMProfile) string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}
