package vrgda

import (
	"fmt"
	"math"
)

// LogisticSchedule describes a sales schedule that follows a logistic curve
// bounded by Asymptote.
type LogisticSchedule struct {
	// Asymptote is the total number of units the schedule approaches.
	Asymptote float64
	// Steepness is the time scale of the curve. Must be non-zero.
	Steepness float64
	// TimeShift moves the curve along the time axis.
	TimeShift float64
}

// LinearSchedule expects a constant number of sales per period.
type LinearSchedule struct {
	UnitsPerPeriod float64
}

// Validate reports configuration errors that do not depend on units sold.
func (s LogisticSchedule) Validate() error {
	if s.Steepness == 0 || math.IsNaN(s.Steepness) || math.IsInf(s.Steepness, 0) {
		return fmt.Errorf("%w: logistic steepness %v", ErrDegenerateConfiguration, s.Steepness)
	}
	if !(s.Asymptote > 0) || math.IsInf(s.Asymptote, 0) {
		return fmt.Errorf("%w: logistic asymptote %v must be positive", ErrDegenerateConfiguration, s.Asymptote)
	}
	if math.IsNaN(s.TimeShift) || math.IsInf(s.TimeShift, 0) {
		return fmt.Errorf("%w: logistic time shift %v", ErrDegenerateConfiguration, s.TimeShift)
	}
	return nil
}

// InitialValue is the value of the logistic curve at time zero.
func (s LogisticSchedule) InitialValue() float64 {
	return s.Asymptote / (1 + math.Exp(s.Steepness*s.TimeShift))
}

// Capacity is the number of units the schedule can absorb before its inverse
// is undefined.
func (s LogisticSchedule) Capacity() float64 {
	return s.Asymptote - s.InitialValue()
}

// TargetTime returns the time at which sold units were expected to be sold.
func (s LogisticSchedule) TargetTime(sold float64) (float64, error) {
	return LogisticTargetTime(sold, s.Asymptote, s.Steepness, s.TimeShift)
}

// SoldBy is the inverse of TargetTime: the units expected to be sold by time t.
func (s LogisticSchedule) SoldBy(t float64) float64 {
	return s.Asymptote/(1+math.Exp(s.Steepness*(s.TimeShift-t))) - s.InitialValue()
}

// LogisticTargetTime inverts a logistic sales schedule. At sold == 0 the result
// is zero and it grows towards infinity as sold approaches the capacity
// asymptote - asymptote/(1+e^(steepness*timeShift)).
func LogisticTargetTime(sold, asymptote, steepness, timeShift float64) (float64, error) {
	s := LogisticSchedule{Asymptote: asymptote, Steepness: steepness, TimeShift: timeShift}
	if err := s.Validate(); err != nil {
		return 0, err
	}

	if err := checkFinite("units sold", sold); err != nil {
		return 0, err
	}

	capacity := s.Capacity()
	value := sold + s.InitialValue()
	if sold >= capacity || value >= asymptote {
		return 0, fmt.Errorf("%w: sold %v, capacity %v", ErrCapacityExceeded, sold, capacity)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%w: sold %v", ErrNegativeUnitsSold, sold)
	}

	return timeShift - math.Log(asymptote/value-1)/steepness, nil
}

// Validate reports configuration errors.
func (s LinearSchedule) Validate() error {
	if !(s.UnitsPerPeriod > 0) || math.IsInf(s.UnitsPerPeriod, 0) {
		return fmt.Errorf("%w: units per period %v must be positive", ErrDegenerateConfiguration, s.UnitsPerPeriod)
	}
	return nil
}

// TargetTime returns sold / UnitsPerPeriod.
func (s LinearSchedule) TargetTime(sold float64) (float64, error) {
	return LinearTargetTime(sold, s.UnitsPerPeriod)
}

// LinearTargetTime returns the time at which sold units were expected to be
// sold at a constant rate.
func LinearTargetTime(sold, unitsPerPeriod float64) (float64, error) {
	if err := (LinearSchedule{UnitsPerPeriod: unitsPerPeriod}).Validate(); err != nil {
		return 0, err
	}
	if err := checkFinite("units sold", sold); err != nil {
		return 0, err
	}
	return sold / unitsPerPeriod, nil
}

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is %v", ErrInvalidInput, name, v)
	}
	return nil
}
