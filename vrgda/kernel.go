// Package vrgda prices items sold through a Variable Rate Gradual Dutch
// Auction. Every function is pure: the same inputs always produce the same
// price and nothing is cached between calls.
//
// Time is measured in periods (days for the shipped curves) and prices are
// plain reals; fixed-point conversion happens in the callers.
package vrgda

import (
	"fmt"
	"math"
)

// Price scales initialPrice by (1 - decay)^(elapsed - target).
//
// Selling behind schedule (elapsed > target) lowers the price, selling ahead of
// it (elapsed < target) raises it. When elapsed equals target the initial price
// is returned unchanged.
func Price(initialPrice, decay, elapsed, target float64) (float64, error) {
	if err := checkDecay(decay); err != nil {
		return 0, err
	}
	if !(initialPrice > 0) || math.IsInf(initialPrice, 0) {
		return 0, fmt.Errorf("%w: initial price %v must be positive", ErrDegenerateConfiguration, initialPrice)
	}

	price := initialPrice * math.Pow(1-decay, elapsed-target)
	if math.IsInf(price, 0) || math.IsNaN(price) {
		return 0, fmt.Errorf("%w: elapsed %v, target %v", ErrNonFinitePrice, elapsed, target)
	}
	return price, nil
}

func checkDecay(decay float64) error {
	if math.IsNaN(decay) || decay < 0 || decay >= 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidDecayRate, decay)
	}
	return nil
}
