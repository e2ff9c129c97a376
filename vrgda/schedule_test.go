package vrgda

import (
	"errors"
	"math"
	"testing"
)

func TestLogisticTargetTimeAtZero(t *testing.T) {
	for _, shift := range []float64{0, 0.5, -2} {
		got, err := LogisticTargetTime(0, 6392, 0.0023, shift)
		if err != nil {
			t.Fatalf("shift %v: %v", shift, err)
		}
		if math.Abs(got) > 1e-9 {
			t.Errorf("shift %v: expected target 0, got %v", shift, got)
		}
	}
}

func TestLogisticTargetTimeIncreasing(t *testing.T) {
	prev := math.Inf(-1)
	for sold := 0.0; sold < 4; sold += 0.5 {
		got, err := LogisticTargetTime(sold, 10, 0.5, 0)
		if err != nil {
			t.Fatalf("sold %v: %v", sold, err)
		}
		if got <= prev {
			t.Fatalf("target time not increasing at sold %v: %v <= %v", sold, got, prev)
		}
		prev = got
	}
}

func TestLogisticTargetTimeClosedForm(t *testing.T) {
	asymptote, steepness, shift, sold := 100.0, 0.25, 1.5, 37.0
	initial := asymptote / (1 + math.Exp(steepness*shift))
	want := shift - math.Log(-1+asymptote/(sold+initial))/steepness

	got, err := LogisticTargetTime(sold, asymptote, steepness, shift)
	if err != nil {
		t.Fatalf("LogisticTargetTime: %v", err)
	}
	if !approxEqual(got, want, 1e-12) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestLogisticCapacityBoundary(t *testing.T) {
	// asymptote 10 with no shift starts at 5, leaving capacity 5
	s := LogisticSchedule{Asymptote: 10, Steepness: 1}
	if c := s.Capacity(); c != 5 {
		t.Fatalf("expected capacity 5, got %v", c)
	}
	for _, sold := range []float64{5, 5.5, 1e9} {
		if _, err := s.TargetTime(sold); !errors.Is(err, ErrCapacityExceeded) {
			t.Errorf("sold %v: expected ErrCapacityExceeded, got %v", sold, err)
		}
	}
	if _, err := s.TargetTime(4.999); err != nil {
		t.Errorf("sold just below capacity: %v", err)
	}
}

func TestLogisticTargetTimeErrors(t *testing.T) {
	cases := []struct {
		name      string
		sold      float64
		asymptote float64
		steepness float64
		want      error
	}{
		{"zero steepness", 1, 10, 0, ErrDegenerateConfiguration},
		{"zero asymptote", 1, 0, 1, ErrDegenerateConfiguration},
		{"below origin", -5, 10, 1, ErrNegativeUnitsSold},
		{"far below origin", -8, 10, 1, ErrNegativeUnitsSold},
		{"nan sold", math.NaN(), 10, 1, ErrInvalidInput},
	}
	for _, c := range cases {
		_, err := LogisticTargetTime(c.sold, c.asymptote, c.steepness, 0)
		if !errors.Is(err, c.want) {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, err)
		}
	}
}

func TestLogisticSoldByInvertsTargetTime(t *testing.T) {
	s := LogisticSchedule{Asymptote: 6392, Steepness: 0.0023, TimeShift: 0}
	for _, sold := range []float64{0, 1, 250, 3000} {
		target, err := s.TargetTime(sold)
		if err != nil {
			t.Fatalf("TargetTime(%v): %v", sold, err)
		}
		if back := s.SoldBy(target); math.Abs(back-sold) > 1e-6 {
			t.Errorf("SoldBy(TargetTime(%v)) = %v", sold, back)
		}
	}
}

func TestLinearTargetTime(t *testing.T) {
	got, err := LinearTargetTime(9, 4)
	if err != nil {
		t.Fatalf("LinearTargetTime: %v", err)
	}
	if got != 2.25 {
		t.Errorf("expected 2.25, got %v", got)
	}

	for _, rate := range []float64{0, -1, math.Inf(1)} {
		if _, err := LinearTargetTime(1, rate); !errors.Is(err, ErrDegenerateConfiguration) {
			t.Errorf("rate %v: expected ErrDegenerateConfiguration, got %v", rate, err)
		}
	}
}
