package processor

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smarsx/larena/internal/units"
	"github.com/smarsx/larena/logger"
	"github.com/smarsx/larena/models"
	"github.com/smarsx/larena/vrgda"
)

// Pricer prices every pair of an (elapsed, sold) grid against one curve.
type Pricer struct {
	name    string
	curve   vrgda.Curve
	scale   units.Scale
	workers int
	log     *logger.Log

	priced int64
	failed int64
}

// NewPricer validates the curve and scale up front so that per-pair failures
// are limited to domain errors of the pair itself.
func NewPricer(name string, curve vrgda.Curve, scale units.Scale, workers int) (*Pricer, error) {
	if err := curve.Validate(); err != nil {
		return nil, fmt.Errorf("curve %s: %w", name, err)
	}
	if err := scale.Validate(); err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}
	if workers < 1 {
		workers = 1
	}

	log := logger.GetLogger()
	log.WithComponent("pricer").WithFields(logger.Fields{
		"curve":   name,
		"variant": curve.Variant.String(),
		"workers": workers,
	}).Debug("pricer initialized")

	return &Pricer{name: name, curve: curve, scale: scale, workers: workers, log: log}, nil
}

// Run prices the Cartesian product of elapsed and sold. A pair that fails
// keeps its error text in the row; only context cancellation aborts the run.
// Rows come back ordered by sold, then elapsed.
func (p *Pricer) Run(ctx context.Context, elapsed, sold []float64) ([]models.ScheduleRow, error) {
	start := time.Now()
	rows := make([]models.ScheduleRow, len(elapsed)*len(sold))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, s := range sold {
		for j, e := range elapsed {
			idx := i*len(elapsed) + j
			s, e := s, e
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				rows[idx] = p.priceRow(e, s)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("price grid: %w", err)
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].Sold != rows[b].Sold {
			return rows[a].Sold < rows[b].Sold
		}
		return rows[a].Elapsed < rows[b].Elapsed
	})

	logger.LogPerformanceEntry(p.log.WithComponent("pricer"), "pricer", "run", time.Since(start), logger.Fields{
		"curve":  p.name,
		"rows":   len(rows),
		"priced": atomic.LoadInt64(&p.priced),
		"failed": atomic.LoadInt64(&p.failed),
	})
	return rows, nil
}

func (p *Pricer) priceRow(elapsed, sold float64) models.ScheduleRow {
	row := models.ScheduleRow{Curve: p.name, Elapsed: elapsed, Sold: sold}

	if err := p.fill(&row); err != nil {
		atomic.AddInt64(&p.failed, 1)
		row.Error = err.Error()
		p.log.WithComponent("pricer").WithError(err).WithFields(logger.Fields{
			"curve":   p.name,
			"elapsed": elapsed,
			"sold":    sold,
		}).Debug("pair not priced")
		return row
	}
	atomic.AddInt64(&p.priced, 1)
	return row
}

func (p *Pricer) fill(row *models.ScheduleRow) error {
	q, err := p.curve.Quote(row.Elapsed, row.Sold)
	if err != nil {
		return err
	}
	fixed, err := p.scale.ToFixed(q.Price)
	if err != nil {
		return err
	}
	row.TargetTime = q.TargetTime
	row.Decay = q.Decay
	row.Phase = q.Phase.String()
	row.Price = q.Price
	row.PriceFixed = fixed.Dec()
	return nil
}

// Stats returns the priced and failed pair counts accumulated by Run.
func (p *Pricer) Stats() (priced, failed int64) {
	return atomic.LoadInt64(&p.priced), atomic.LoadInt64(&p.failed)
}
