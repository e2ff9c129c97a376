package vrgda

import "errors"

// Domain errors returned by the pricing functions. Callers match them with
// errors.Is; the wrapped message carries the offending values.
var (
	// ErrInvalidDecayRate is returned when a per-period decay is outside [0, 1).
	ErrInvalidDecayRate = errors.New("vrgda: decay rate must be in [0, 1)")
	// ErrCapacityExceeded is returned when units sold reach the logistic asymptote.
	ErrCapacityExceeded = errors.New("vrgda: sold count exceeds curve capacity")
	// ErrDegenerateConfiguration covers zero steepness, non-positive rates and
	// non-positive initial prices.
	ErrDegenerateConfiguration = errors.New("vrgda: degenerate curve configuration")
	// ErrNegativeUnitsSold is returned when units sold place the logistic value
	// at or below zero.
	ErrNegativeUnitsSold = errors.New("vrgda: units sold below curve origin")
	// ErrInvalidInput is returned when elapsed time or units sold is NaN or infinite.
	ErrInvalidInput = errors.New("vrgda: elapsed time and units sold must be finite")
	// ErrNonFinitePrice is returned when the power term overflows float64.
	ErrNonFinitePrice = errors.New("vrgda: price is not finite")
)
