package vrgda

import (
	"fmt"
	"math"
	"strings"
)

// Variant selects how a Curve derives the target sale time.
type Variant int

const (
	// LogisticOnly always uses the logistic schedule.
	LogisticOnly Variant = iota + 1
	// LinearOnly always uses the linear schedule.
	LinearOnly
	// LogisticThenLinear uses the logistic schedule until the switchover
	// threshold and the post-switchover rules from then on.
	LogisticThenLinear
)

var variantNames = map[Variant]string{
	LogisticOnly:       "logistic",
	LinearOnly:         "linear",
	LogisticThenLinear: "logistic_to_linear",
}

func (v Variant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// ParseVariant accepts the names returned by Variant.String.
func ParseVariant(s string) (Variant, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for v, n := range variantNames {
		if n == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown curve variant %q", s)
}

// Phase records which rule produced a quote.
type Phase int

const (
	PhaseLogistic Phase = iota + 1
	PhaseLinear
	PhasePostSwitchover
)

func (p Phase) String() string {
	switch p {
	case PhaseLogistic:
		return "logistic"
	case PhaseLinear:
		return "linear"
	case PhasePostSwitchover:
		return "post_switchover"
	default:
		return "unknown"
	}
}

// Switchover configures where a LogisticThenLinear curve leaves the logistic
// schedule. The phase depends on units sold only: a Time threshold is turned
// into the units the logistic schedule expects to have sold by then. The
// threshold is inclusive on the post side, and when both thresholds are set
// the lower unit count wins.
type Switchover struct {
	// Time is the elapsed time threshold, in periods.
	Time *float64
	// Units is the units-sold threshold.
	Units *float64
	// Decay is the per-period decay applied after the switchover.
	Decay float64
	// UnitsPerPeriod linearizes the target time after the switchover, anchored
	// at the switchover point. Zero keeps the logistic target time.
	UnitsPerPeriod float64
}

// Curve is a stateless pricing configuration. The zero value is invalid.
type Curve struct {
	Variant      Variant
	InitialPrice float64
	Decay        float64
	Logistic     LogisticSchedule
	Linear       LinearSchedule
	Switchover   *Switchover
}

// Quote is the result of pricing one (elapsed, sold) pair.
type Quote struct {
	Price      float64
	TargetTime float64
	Decay      float64
	Phase      Phase
}

// Validate checks every parameter the curve's variant uses.
func (c Curve) Validate() error {
	if err := checkDecay(c.Decay); err != nil {
		return err
	}
	if !(c.InitialPrice > 0) || math.IsInf(c.InitialPrice, 0) {
		return fmt.Errorf("%w: initial price %v must be positive", ErrDegenerateConfiguration, c.InitialPrice)
	}

	switch c.Variant {
	case LogisticOnly:
		return c.Logistic.Validate()
	case LinearOnly:
		return c.Linear.Validate()
	case LogisticThenLinear:
		if err := c.Logistic.Validate(); err != nil {
			return err
		}
		return c.validateSwitchover()
	default:
		return fmt.Errorf("%w: unknown variant %v", ErrDegenerateConfiguration, c.Variant)
	}
}

func (c Curve) validateSwitchover() error {
	sw := c.Switchover
	if sw == nil || (sw.Time == nil && sw.Units == nil) {
		return fmt.Errorf("%w: %v curve needs a switchover time or units", ErrDegenerateConfiguration, c.Variant)
	}
	if err := checkDecay(sw.Decay); err != nil {
		return fmt.Errorf("post-switchover decay: %w", err)
	}
	if math.IsNaN(sw.UnitsPerPeriod) || math.IsInf(sw.UnitsPerPeriod, 0) || sw.UnitsPerPeriod < 0 {
		return fmt.Errorf("%w: post-switchover units per period %v", ErrDegenerateConfiguration, sw.UnitsPerPeriod)
	}
	if sw.Time != nil && (math.IsNaN(*sw.Time) || math.IsInf(*sw.Time, 0)) {
		return fmt.Errorf("%w: switchover time %v", ErrDegenerateConfiguration, *sw.Time)
	}
	if sw.Units != nil {
		if math.IsNaN(*sw.Units) || *sw.Units < 0 {
			return fmt.Errorf("%w: switchover units %v", ErrDegenerateConfiguration, *sw.Units)
		}
		if capacity := c.Logistic.Capacity(); *sw.Units >= capacity {
			return fmt.Errorf("%w: switchover units %v, capacity %v", ErrCapacityExceeded, *sw.Units, capacity)
		}
	}
	return nil
}

// Price returns the spot price after elapsed periods with sold units sold.
func (c Curve) Price(elapsed, sold float64) (float64, error) {
	q, err := c.Quote(elapsed, sold)
	if err != nil {
		return 0, err
	}
	return q.Price, nil
}

// Quote picks the target-time rule and decay for (elapsed, sold) and runs the
// decay kernel. Domain errors from the schedules are returned unchanged.
func (c Curve) Quote(elapsed, sold float64) (Quote, error) {
	if err := c.Validate(); err != nil {
		return Quote{}, err
	}
	if err := checkFinite("elapsed time", elapsed); err != nil {
		return Quote{}, err
	}

	var (
		phase  Phase
		decay  = c.Decay
		target float64
		err    error
	)
	switch c.Variant {
	case LogisticOnly:
		phase = PhaseLogistic
		target, err = c.Logistic.TargetTime(sold)
	case LinearOnly:
		phase = PhaseLinear
		target, err = c.Linear.TargetTime(sold)
	case LogisticThenLinear:
		var threshold float64
		if _, threshold, err = c.SwitchoverPoint(); err != nil {
			return Quote{}, err
		}
		if sold >= threshold {
			phase = PhasePostSwitchover
			decay = c.Switchover.Decay
			target, err = c.postSwitchoverTarget(sold)
		} else {
			phase = PhaseLogistic
			target, err = c.Logistic.TargetTime(sold)
		}
	}
	if err != nil {
		return Quote{}, err
	}

	price, err := Price(c.InitialPrice, decay, elapsed, target)
	if err != nil {
		return Quote{}, err
	}
	return Quote{Price: price, TargetTime: target, Decay: decay, Phase: phase}, nil
}

func (c Curve) postSwitchoverTarget(sold float64) (float64, error) {
	sw := c.Switchover
	if sw.UnitsPerPeriod == 0 {
		return c.Logistic.TargetTime(sold)
	}

	anchorTime, anchorUnits, err := c.SwitchoverPoint()
	if err != nil {
		return 0, err
	}
	offset, err := LinearTargetTime(sold-anchorUnits, sw.UnitsPerPeriod)
	if err != nil {
		return 0, err
	}
	return anchorTime + offset, nil
}

// SwitchoverPoint returns the (time, units) point on the logistic schedule
// where the curve switches. Sales at or above the returned units are priced
// with the post-switchover rules.
func (c Curve) SwitchoverPoint() (float64, float64, error) {
	sw := c.Switchover
	if sw == nil || (sw.Time == nil && sw.Units == nil) {
		return 0, 0, fmt.Errorf("%w: no switchover configured", ErrDegenerateConfiguration)
	}
	if sw.Time != nil {
		units := c.Logistic.SoldBy(*sw.Time)
		if sw.Units == nil || units <= *sw.Units {
			return *sw.Time, units, nil
		}
	}
	t, err := c.Logistic.TargetTime(*sw.Units)
	if err != nil {
		return 0, 0, err
	}
	return t, *sw.Units, nil
}
