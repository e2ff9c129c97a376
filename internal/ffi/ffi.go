// Package ffi maps the fixed-point arguments an external test harness passes on
// the command line onto a vrgda.Curve, and the resulting price back onto a
// fixed-point integer.
package ffi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/holiman/uint256"

	"github.com/smarsx/larena/internal/units"
	"github.com/smarsx/larena/vrgda"
)

// Kind names an item type priced by the harness.
type Kind string

const (
	// KindLarena switches from a logistic schedule to a linear one.
	KindLarena Kind = "larena"
	// KindPages is a flat-rate item sold at a constant pace.
	KindPages    Kind = "pages"
	KindLogistic Kind = "logistic"
	KindLinear   Kind = "linear"
)

// Args holds raw command-line values. Fixed-point fields carry integers scaled
// by 10^decimals; an empty string means the flag was not given.
type Args struct {
	TimeSinceStart          int64
	NumSold                 string
	InitialPrice            string
	PerPeriodPriceDecrease  string
	LogisticScale           string
	TimeScale               string
	TimeShift               string
	PerPeriodPostSwitchover string
	SwitchoverTime          string
	SwitchoverUnits         string
	PostSwitchoverDecay     string
}

// Request is a normalized pricing request.
type Request struct {
	Kind    Kind
	Curve   vrgda.Curve
	Elapsed float64
	Sold    float64
}

type builder func(a Args, s units.Scale, c *vrgda.Curve) error

var builders = map[Kind]builder{
	KindLarena:   buildLarena,
	KindPages:    buildLinear,
	KindLogistic: buildLogistic,
	KindLinear:   buildLinear,
}

// Kinds lists the supported item kinds in sorted order.
func Kinds() []string {
	out := make([]string, 0, len(builders))
	for k := range builders {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := builders[k]; !ok {
		return "", fmt.Errorf("unknown type %q, expected one of %s", s, strings.Join(Kinds(), ", "))
	}
	return k, nil
}

// Build normalizes raw arguments into a Request using the given scale.
func Build(kind Kind, a Args, s units.Scale) (Request, error) {
	build, ok := builders[kind]
	if !ok {
		return Request{}, fmt.Errorf("unknown type %q", kind)
	}
	if err := s.Validate(); err != nil {
		return Request{}, err
	}

	sold, err := required("num_sold", a.NumSold, units.ParseCount)
	if err != nil {
		return Request{}, err
	}

	var c vrgda.Curve
	if c.InitialPrice, err = required("initial_price", a.InitialPrice, s.ParseFixed); err != nil {
		return Request{}, err
	}
	if c.Decay, err = required("per_period_price_decrease", a.PerPeriodPriceDecrease, s.ParseFixed); err != nil {
		return Request{}, err
	}
	if err := build(a, s, &c); err != nil {
		return Request{}, err
	}

	return Request{
		Kind:    kind,
		Curve:   c,
		Elapsed: s.Periods(a.TimeSinceStart),
		Sold:    sold,
	}, nil
}

// Compute prices the request and scales the price back to fixed point.
func Compute(req Request, s units.Scale) (*uint256.Int, vrgda.Quote, error) {
	q, err := req.Curve.Quote(req.Elapsed, req.Sold)
	if err != nil {
		return nil, vrgda.Quote{}, err
	}
	fixed, err := s.ToFixed(q.Price)
	if err != nil {
		return nil, q, fmt.Errorf("scale price: %w", err)
	}
	return fixed, q, nil
}

func buildLogistic(a Args, s units.Scale, c *vrgda.Curve) error {
	c.Variant = vrgda.LogisticOnly
	var err error
	if c.Logistic.Asymptote, err = required("logistic_scale", a.LogisticScale, s.ParseFixed); err != nil {
		return err
	}
	if c.Logistic.Steepness, err = required("time_scale", a.TimeScale, s.ParseFixed); err != nil {
		return err
	}
	c.Logistic.TimeShift, err = optional("time_shift", a.TimeShift, 0, s.ParseFixed)
	return err
}

func buildLinear(a Args, s units.Scale, c *vrgda.Curve) error {
	c.Variant = vrgda.LinearOnly
	var err error
	c.Linear.UnitsPerPeriod, err = required("per_period_post_switchover", a.PerPeriodPostSwitchover, s.ParseFixed)
	return err
}

// buildLarena prices as a plain logistic curve until a switchover flag is
// given. After the switchover the schedule is linear at
// per_period_post_switchover units per period.
func buildLarena(a Args, s units.Scale, c *vrgda.Curve) error {
	if err := buildLogistic(a, s, c); err != nil {
		return err
	}
	if a.SwitchoverTime == "" && a.SwitchoverUnits == "" {
		return nil
	}

	sw := &vrgda.Switchover{}
	if a.SwitchoverTime != "" {
		t, err := s.ParseFixed(a.SwitchoverTime)
		if err != nil {
			return fmt.Errorf("switchover_time: %w", err)
		}
		sw.Time = &t
	}
	if a.SwitchoverUnits != "" {
		u, err := units.ParseCount(a.SwitchoverUnits)
		if err != nil {
			return fmt.Errorf("switchover_units: %w", err)
		}
		sw.Units = &u
	}

	var err error
	if sw.UnitsPerPeriod, err = optional("per_period_post_switchover", a.PerPeriodPostSwitchover, 0, s.ParseFixed); err != nil {
		return err
	}
	if sw.Decay, err = optional("post_switchover_decay", a.PostSwitchoverDecay, c.Decay, s.ParseFixed); err != nil {
		return err
	}

	c.Variant = vrgda.LogisticThenLinear
	c.Switchover = sw
	return nil
}

func required(name, raw string, parse func(string) (float64, error)) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("missing --%s", name)
	}
	v, err := parse(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

func optional(name, raw string, def float64, parse func(string) (float64, error)) (float64, error) {
	if raw == "" {
		return def, nil
	}
	return required(name, raw, parse)
}
