package processor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/smarsx/larena/internal/units"
	"github.com/smarsx/larena/vrgda"
)

func linearCurve() vrgda.Curve {
	return vrgda.Curve{
		Variant:      vrgda.LinearOnly,
		InitialPrice: 1,
		Decay:        0.1,
		Linear:       vrgda.LinearSchedule{UnitsPerPeriod: 1},
	}
}

func TestPricerRunOrdersRows(t *testing.T) {
	p, err := NewPricer("pages", linearCurve(), units.DefaultScale(), 3)
	if err != nil {
		t.Fatalf("new pricer: %v", err)
	}
	rows, err := p.Run(context.Background(), []float64{0, 1, 2}, []float64{0, 1})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if prev.Sold > cur.Sold || (prev.Sold == cur.Sold && prev.Elapsed >= cur.Elapsed) {
			t.Fatalf("rows out of order at %d: %+v then %+v", i, prev, cur)
		}
	}
	first := rows[0]
	if first.Elapsed != 0 || first.Sold != 0 {
		t.Fatalf("unexpected first row %+v", first)
	}
	if first.Price != 1 || first.PriceFixed != "1000000000000000000" {
		t.Fatalf("expected on-schedule price 1, got %v (%s)", first.Price, first.PriceFixed)
	}
	if first.Phase != "linear" || first.Curve != "pages" {
		t.Fatalf("unexpected row labels %+v", first)
	}
	if priced, failed := p.Stats(); priced != 6 || failed != 0 {
		t.Fatalf("expected 6 priced, got %d priced %d failed", priced, failed)
	}
}

func TestPricerRecordsPairErrors(t *testing.T) {
	curve := vrgda.Curve{
		Variant:      vrgda.LogisticOnly,
		InitialPrice: 1,
		Decay:        0.1,
		Logistic:     vrgda.LogisticSchedule{Asymptote: 10, Steepness: 1},
	}
	p, err := NewPricer("logistic", curve, units.DefaultScale(), 2)
	if err != nil {
		t.Fatalf("new pricer: %v", err)
	}
	rows, err := p.Run(context.Background(), []float64{0, 1}, []float64{0, 2, 5})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	failed := 0
	for _, r := range rows {
		if r.Sold == 5 {
			if !r.Failed() || !strings.Contains(r.Error, vrgda.ErrCapacityExceeded.Error()) {
				t.Fatalf("expected capacity error for %+v", r)
			}
			if r.Price != 0 || r.PriceFixed != "" {
				t.Fatalf("failed row carries a price: %+v", r)
			}
			failed++
			continue
		}
		if r.Failed() {
			t.Fatalf("unexpected error row %+v", r)
		}
	}
	if failed != 2 {
		t.Fatalf("expected 2 failed rows, got %d", failed)
	}
	if priced, nfailed := p.Stats(); priced != 4 || nfailed != 2 {
		t.Fatalf("stats mismatch: %d priced %d failed", priced, nfailed)
	}
}

func TestNewPricerRejectsInvalidCurve(t *testing.T) {
	c := linearCurve()
	c.Decay = 1
	if _, err := NewPricer("bad", c, units.DefaultScale(), 1); !errors.Is(err, vrgda.ErrInvalidDecayRate) {
		t.Fatalf("expected ErrInvalidDecayRate, got %v", err)
	}
}

func TestPricerRunCancelled(t *testing.T) {
	p, err := NewPricer("pages", linearCurve(), units.DefaultScale(), 1)
	if err != nil {
		t.Fatalf("new pricer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Run(ctx, []float64{0, 1}, []float64{0}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
