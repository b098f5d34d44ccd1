package preparation

import (
	"testing"

	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProfile(t *testing.T, name, vehicle, weighting string) *LMProfile {
	t.Helper()
	p, err := NewLMProfile(name, vehicle, weighting)
	require.NoError(t, err)
	return p
}

func TestNewLMProfile(t *testing.T) {
	for _, name := range []string{"car", "car_fastest", "bike-2"} {
		_, err := NewLMProfile(name, "car", "fastest")
		assert.NoError(t, err, name)
	}
	for _, name := range []string{"", "Car", "car fastest", "car/fastest"} {
		_, err := NewLMProfile(name, "car", "fastest")
		assert.ErrorIs(t, err, util.ErrBadParamInput, name)
	}

	a := mustProfile(t, "car", "car", "fastest")
	b := mustProfile(t, "car", "car", "shortest")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(mustProfile(t, "truck", "car", "fastest")))
	assert.False(t, a.Equal(nil))
}

func TestSelectProfile(t *testing.T) {
	carFastest := mustProfile(t, "car_fastest", "car", "fastest")
	carShortest := mustProfile(t, "car_shortest", "car", "shortest")
	bike := mustProfile(t, "bike", "bike", "shortest")
	all := []*LMProfile{carFastest, carShortest, bike}

	tests := []struct {
		name     string
		profiles []*LMProfile
		hints    ProfileHints
		want     *LMProfile
		wantErr  error
	}{
		{"single profile without hints", []*LMProfile{bike}, ProfileHints{}, bike, nil},
		{"weighting", all, ProfileHints{Weighting: "shortest"}, carShortest, nil},
		{"vehicle and weighting", all, ProfileHints{Vehicle: "bike", Weighting: "shortest"}, bike, nil},
		{"vehicle only", all, ProfileHints{Vehicle: "car"}, carFastest, nil},
		{"no cross weighting", []*LMProfile{carFastest}, ProfileHints{Weighting: "shortest"}, nil, ErrNoMatchingProfile},
		{"ambiguous", all, ProfileHints{}, nil, ErrNoMatchingProfile},
		{"no profiles", nil, ProfileHints{}, nil, ErrNoMatchingProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectProfile(tt.profiles, tt.hints)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := SelectProfile(all, ProfileHints{Vehicle: "truck"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[car_fastest, car_shortest, bike]")
	assert.Contains(t, err.Error(), "disable landmarks")
}
