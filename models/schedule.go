package models

import "time"

// ScheduleRow is one priced (elapsed, sold) pair of a curve preset.
// Rows whose pair failed to price keep the zero price and carry the error text.
type ScheduleRow struct {
	Curve      string  `json:"curve" parquet:"name=curve, type=BYTE_ARRAY, convertedtype=UTF8"`
	Elapsed    float64 `json:"elapsed" parquet:"name=elapsed, type=DOUBLE"`
	Sold       float64 `json:"sold" parquet:"name=sold, type=DOUBLE"`
	TargetTime float64 `json:"target_time" parquet:"name=target_time, type=DOUBLE"`
	Decay      float64 `json:"decay" parquet:"name=decay, type=DOUBLE"`
	Phase      string  `json:"phase" parquet:"name=phase, type=BYTE_ARRAY, convertedtype=UTF8"`
	Price      float64 `json:"price" parquet:"name=price, type=DOUBLE"`
	PriceFixed string  `json:"price_fixed" parquet:"name=price_fixed, type=BYTE_ARRAY, convertedtype=UTF8"`
	Error      string  `json:"error,omitempty" parquet:"name=error, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// Failed reports whether the pair could not be priced.
func (r ScheduleRow) Failed() bool {
	return r.Error != ""
}

// ScheduleBatch groups the rows of one price-schedule run.
type ScheduleBatch struct {
	RunID     string
	Curve     string
	Rows      []ScheduleRow
	Timestamp time.Time
}

// Counts returns the number of priced and failed rows.
func (b ScheduleBatch) Counts() (priced, failed int) {
	for _, r := range b.Rows {
		if r.Failed() {
			failed++
		} else {
			priced++
		}
	}
	return priced, failed
}
