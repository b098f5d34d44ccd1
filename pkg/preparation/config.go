package preparation

import (
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/navigatorx-lm/pkg"
	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
	"github.com/spf13/viper"
)

type ProfileConfig struct {
	Name      string  `mapstructure:"name" validate:"required,profilename"`
	Vehicle   string  `mapstructure:"vehicle" validate:"required"`
	Weighting string  `mapstructure:"weighting" validate:"required,oneof=fastest shortest"`
	MaxSpeed  float64 `mapstructure:"max_speed" validate:"gte=0"`
	// MaximumLMWeight overrides the weight range of the quantization, 0 derives it from the graph.
	MaximumLMWeight float64 `mapstructure:"maximum_lm_weight" validate:"gte=0"`
	MinNetworkSize  int     `mapstructure:"min_network_size" validate:"gte=0"`
}

type LandmarkConfig struct {
	Location         string          `mapstructure:"location" validate:"required"`
	Count            int             `mapstructure:"count" validate:"min=1,max=255"`
	ActiveLandmarks  int             `mapstructure:"active_landmarks" validate:"min=1"`
	Threads          int             `mapstructure:"threads" validate:"min=1"`
	MinNetworkSize   int             `mapstructure:"min_network_size" validate:"gte=0"`
	DisablingAllowed bool            `mapstructure:"disabling_allowed"`
	Suggestions      []string        `mapstructure:"suggestions"`
	Profiles         []ProfileConfig `mapstructure:"profiles" validate:"dive"`
}

type Config struct {
	GraphFile string         `mapstructure:"graph_file" validate:"required"`
	Landmark  LandmarkConfig `mapstructure:"landmark"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("graph_file", "./data/graph.txt.bz2")
	v.SetDefault("landmark.location", "./data/landmarks")
	v.SetDefault("landmark.count", pkg.DEFAULT_LANDMARKS)
	v.SetDefault("landmark.active_landmarks", pkg.DEFAULT_ACTIVE_LANDMARKS)
	v.SetDefault("landmark.threads", pkg.DEFAULT_PREPARATION_THREAD)
	v.SetDefault("landmark.min_network_size", pkg.DEFAULT_MIN_NETWORK_SIZE)
	v.SetDefault("landmark.disabling_allowed", true)
}

// LoadConfig reads the landmark settings of v, applies the defaults and validates them.
func LoadConfig(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "unmarshal config")
	}
	for i := range cfg.Landmark.Profiles {
		if cfg.Landmark.Profiles[i].MaxSpeed == 0 {
			cfg.Landmark.Profiles[i].MaxSpeed = pkg.DEFAULT_MAX_SPEED
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	validate := validator.New()
	_ = validate.RegisterValidation("profilename", func(fl validator.FieldLevel) bool {
		return IsValidProfileName(fl.Field().String())
	})
	validate.RegisterStructValidation(validateLandmarkConfig, LandmarkConfig{})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	registerTranslation(validate, trans, "profilename",
		"{0} must only contain lower case letters, digits, '_' and '-'")
	registerTranslation(validate, trans, "ltecount", "{0} must not be greater than the number of landmarks")

	vv := translateError(err, trans)
	vvString := []string{}
	for _, v := range vv {
		vvString = append(vvString, v.Error())
	}
	return util.WrapErrorf(err, util.ErrBadParamInput, "validation error: %v", strings.Join(vvString, "; "))
}

func validateLandmarkConfig(sl validator.StructLevel) {
	lc := sl.Current().Interface().(LandmarkConfig)
	if lc.ActiveLandmarks > lc.Count {
		sl.ReportError(lc.ActiveLandmarks, "ActiveLandmarks", "active_landmarks", "ltecount", "")
	}

	seen := make(map[string]struct{}, len(lc.Profiles))
	for _, p := range lc.Profiles {
		if _, ok := seen[p.Name]; ok {
			sl.ReportError(p.Name, "Profiles", "profiles", "unique", "")
			return
		}
		seen[p.Name] = struct{}{}
	}
}

func registerTranslation(validate *validator.Validate, trans ut.Translator, tag, text string) {
	_ = validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
		return ut.Add(tag, text, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, fe.Field())
		return t
	})
}

func translateError(err error, trans ut.Translator) []error {
	validatorErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []error{err}
	}
	errs := make([]error, 0, len(validatorErrs))
	for _, e := range validatorErrs {
		errs = append(errs, fmt.Errorf("%s", e.Translate(trans)))
	}
	return errs
}
