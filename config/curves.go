package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/smarsx/larena/vrgda"
)

// CurveConfig is a named pricing preset in real units (no fixed-point scaling).
type CurveConfig struct {
	Variant                string            `yaml:"variant"`
	InitialPrice           float64           `yaml:"initial_price"`
	PerPeriodPriceDecrease float64           `yaml:"per_period_price_decrease"`
	LogisticScale          float64           `yaml:"logistic_scale"`
	TimeScale              float64           `yaml:"time_scale"`
	TimeShift              float64           `yaml:"time_shift"`
	UnitsPerPeriod         float64           `yaml:"units_per_period"`
	Switchover             *SwitchoverConfig `yaml:"switchover"`
}

// SwitchoverConfig leaves Decay unset to keep the pre-switchover decay.
type SwitchoverConfig struct {
	Time           *float64 `yaml:"time"`
	Units          *float64 `yaml:"units"`
	Decay          *float64 `yaml:"decay"`
	UnitsPerPeriod float64  `yaml:"units_per_period"`
}

// CurveSet is the layout of a standalone curves file.
type CurveSet struct {
	Curves map[string]CurveConfig `yaml:"curves"`
}

// Curve converts the preset into a validated vrgda.Curve.
func (c CurveConfig) Curve() (vrgda.Curve, error) {
	variant, err := vrgda.ParseVariant(c.Variant)
	if err != nil {
		return vrgda.Curve{}, err
	}

	curve := vrgda.Curve{
		Variant:      variant,
		InitialPrice: c.InitialPrice,
		Decay:        c.PerPeriodPriceDecrease,
		Logistic: vrgda.LogisticSchedule{
			Asymptote: c.LogisticScale,
			Steepness: c.TimeScale,
			TimeShift: c.TimeShift,
		},
		Linear: vrgda.LinearSchedule{UnitsPerPeriod: c.UnitsPerPeriod},
	}
	if sw := c.Switchover; sw != nil {
		decay := c.PerPeriodPriceDecrease
		if sw.Decay != nil {
			decay = *sw.Decay
		}
		curve.Switchover = &vrgda.Switchover{
			Time:           sw.Time,
			Units:          sw.Units,
			Decay:          decay,
			UnitsPerPeriod: sw.UnitsPerPeriod,
		}
	}

	if err := curve.Validate(); err != nil {
		return vrgda.Curve{}, err
	}
	return curve, nil
}

// Curve looks up a preset by name.
func (cfg *Config) Curve(name string) (vrgda.Curve, error) {
	c, ok := cfg.Curves[name]
	if !ok {
		return vrgda.Curve{}, fmt.Errorf("curve %q is not configured", name)
	}
	return c.Curve()
}

// LoadCurves loads curve presets from the given path.
func LoadCurves(path string) (*CurveSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curves file: %w", err)
	}

	var set CurveSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse curves file: %w", err)
	}
	if len(set.Curves) == 0 {
		return nil, fmt.Errorf("curves file %s defines no curves", path)
	}
	return &set, nil
}
