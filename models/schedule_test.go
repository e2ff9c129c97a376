package models

import "testing"

func TestScheduleBatchCounts(t *testing.T) {
	batch := ScheduleBatch{
		Curve: "larena",
		Rows: []ScheduleRow{
			{Curve: "larena", Price: 1.5, PriceFixed: "1500000000000000000"},
			{Curve: "larena", Error: "capacity exceeded"},
			{Curve: "larena", Price: 2},
		},
	}
	priced, failed := batch.Counts()
	if priced != 2 || failed != 1 {
		t.Fatalf("expected 2 priced and 1 failed, got %d and %d", priced, failed)
	}
}

func TestScheduleBatchCountsEmpty(t *testing.T) {
	priced, failed := ScheduleBatch{}.Counts()
	if priced != 0 || failed != 0 {
		t.Fatalf("expected zero counts, got %d and %d", priced, failed)
	}
}
