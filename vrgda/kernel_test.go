package vrgda

import (
	"errors"
	"math"
	"testing"
)

func approxEqual(a, b, rel float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= rel*math.Max(math.Abs(a), math.Abs(b))
}

func TestPriceOnSchedule(t *testing.T) {
	for _, target := range []float64{-3.5, 0, 1, 42.25} {
		got, err := Price(2.5, 0.31, target, target)
		if err != nil {
			t.Fatalf("Price: %v", err)
		}
		if got != 2.5 {
			t.Errorf("target %v: expected initial price 2.5, got %v", target, got)
		}
	}
}

func TestPriceDirection(t *testing.T) {
	behind, err := Price(1, 0.2, 3, 1)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if behind >= 1 {
		t.Errorf("behind schedule should decay below 1, got %v", behind)
	}

	ahead, err := Price(1, 0.2, 1, 3)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if ahead <= 1 {
		t.Errorf("ahead of schedule should rise above 1, got %v", ahead)
	}
	if !approxEqual(behind*ahead, 1, 1e-12) {
		t.Errorf("symmetric offsets should cancel, got %v * %v", behind, ahead)
	}
}

func TestPriceScaleInvariance(t *testing.T) {
	base, err := Price(1.75, 0.05, 10.5, 7.25)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	for _, k := range []float64{0.001, 3, 1e18} {
		scaled, err := Price(k*1.75, 0.05, 10.5, 7.25)
		if err != nil {
			t.Fatalf("Price: %v", err)
		}
		if !approxEqual(scaled, k*base, 1e-12) {
			t.Errorf("k=%v: expected %v, got %v", k, k*base, scaled)
		}
	}
}

func TestPriceMonotoneInElapsed(t *testing.T) {
	prev := math.Inf(1)
	for elapsed := -5.0; elapsed <= 5; elapsed += 0.25 {
		p, err := Price(1, 0.4, elapsed, 0)
		if err != nil {
			t.Fatalf("Price: %v", err)
		}
		if p >= prev {
			t.Fatalf("price not strictly decreasing at %v: %v >= %v", elapsed, p, prev)
		}
		prev = p
	}
}

func TestPriceErrors(t *testing.T) {
	cases := []struct {
		name    string
		initial float64
		decay   float64
		elapsed float64
		want    error
	}{
		{"decay one", 1, 1, 1, ErrInvalidDecayRate},
		{"decay above one", 1, 1.5, 1, ErrInvalidDecayRate},
		{"negative decay", 1, -0.1, 1, ErrInvalidDecayRate},
		{"nan decay", 1, math.NaN(), 1, ErrInvalidDecayRate},
		{"zero price", 0, 0.1, 1, ErrDegenerateConfiguration},
		{"negative price", -2, 0.1, 1, ErrDegenerateConfiguration},
		{"overflow", 1, 0.999999, -1e6, ErrNonFinitePrice},
	}
	for _, c := range cases {
		_, err := Price(c.initial, c.decay, c.elapsed, 0)
		if !errors.Is(err, c.want) {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, err)
		}
	}
}
