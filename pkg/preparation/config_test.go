package preparation

import (
	"strings"
	"testing"

	"github.com/lintang-b-s/navigatorx-lm/pkg"
	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readYaml(t *testing.T, content string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(content)))
	return v
}

func TestLoadConfig(t *testing.T) {
	v := readYaml(t, `
graph_file: ./data/yogyakarta.txt.bz2
landmark:
  location: /tmp/landmarks
  count: 12
  active_landmarks: 6
  threads: 2
  disabling_allowed: false
  suggestions:
    - ./data/yogyakarta_landmarks.txt
  profiles:
    - name: car_fastest
      vehicle: car
      weighting: fastest
      maximum_lm_weight: 3600
    - name: car_shortest
      vehicle: car
      weighting: shortest
      min_network_size: 50
`)
	cfg, err := LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "./data/yogyakarta.txt.bz2", cfg.GraphFile)
	assert.Equal(t, 12, cfg.Landmark.Count)
	assert.Equal(t, 6, cfg.Landmark.ActiveLandmarks)
	assert.Equal(t, 2, cfg.Landmark.Threads)
	assert.Equal(t, pkg.DEFAULT_MIN_NETWORK_SIZE, cfg.Landmark.MinNetworkSize)
	assert.False(t, cfg.Landmark.DisablingAllowed)
	assert.Equal(t, []string{"./data/yogyakarta_landmarks.txt"}, cfg.Landmark.Suggestions)
	require.Len(t, cfg.Landmark.Profiles, 2)
	assert.Equal(t, 3600.0, cfg.Landmark.Profiles[0].MaximumLMWeight)
	assert.Equal(t, pkg.DEFAULT_MAX_SPEED, cfg.Landmark.Profiles[0].MaxSpeed)
	assert.Equal(t, 50, cfg.Landmark.Profiles[1].MinNetworkSize)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, pkg.DEFAULT_LANDMARKS, cfg.Landmark.Count)
	assert.Equal(t, pkg.DEFAULT_ACTIVE_LANDMARKS, cfg.Landmark.ActiveLandmarks)
	assert.Equal(t, pkg.DEFAULT_PREPARATION_THREAD, cfg.Landmark.Threads)
	assert.True(t, cfg.Landmark.DisablingAllowed)
	assert.Empty(t, cfg.Landmark.Profiles)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		message string
	}{
		{
			name: "active landmarks above count",
			yaml: `
landmark:
  count: 4
  active_landmarks: 8
`,
			message: "must not be greater than the number of landmarks",
		},
		{
			name: "too many landmarks",
			yaml: `
landmark:
  count: 300
`,
			message: "Count",
		},
		{
			name: "invalid profile name",
			yaml: `
landmark:
  profiles:
    - name: Car Fastest
      vehicle: car
      weighting: fastest
`,
			message: "must only contain lower case letters",
		},
		{
			name: "unknown weighting",
			yaml: `
landmark:
  profiles:
    - name: car_eco
      vehicle: car
      weighting: eco
`,
			message: "Weighting",
		},
		{
			name: "duplicate profile",
			yaml: `
landmark:
  profiles:
    - name: car
      vehicle: car
      weighting: fastest
    - name: car
      vehicle: car
      weighting: shortest
`,
			message: "Profiles",
		},
		{
			name: "no threads",
			yaml: `
landmark:
  threads: 0
`,
			message: "Threads",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(readYaml(t, tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, util.ErrBadParamInput)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
