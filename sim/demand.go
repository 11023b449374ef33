package sim

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the calendar date format used in configs, CSVs and stores.
const DateLayout = "2006-01-02"

// Day normalizes t to midnight UTC of its calendar date.
// The simulation clock only ever holds normalized days.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date into a normalized day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return Day(t), nil
}

// DemandRecord is one day's demand for one (product, warehouse) pair.
type DemandRecord struct {
	Date        time.Time
	ProductID   string
	WarehouseID string
	Units       int
	UnitPrice   float64
	UnitCost    float64
}

// Key returns the position this record draws from.
func (r DemandRecord) Key() PositionKey {
	return PositionKey{ProductID: r.ProductID, WarehouseID: r.WarehouseID}
}

// DemandTrace is an ordered, day-indexed demand sequence.
// Records on the same day keep their input order.
type DemandTrace struct {
	records []DemandRecord
	byDay   map[time.Time][]DemandRecord
}

// NewDemandTrace normalizes every record date and orders the trace by day.
func NewDemandTrace(records []DemandRecord) *DemandTrace {
	sorted := make([]DemandRecord, len(records))
	copy(sorted, records)
	for i := range sorted {
		sorted[i].Date = Day(sorted[i].Date)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	t := &DemandTrace{
		records: sorted,
		byDay:   make(map[time.Time][]DemandRecord),
	}
	for _, r := range sorted {
		t.byDay[r.Date] = append(t.byDay[r.Date], r)
	}
	return t
}

// Len returns the number of records in the trace.
func (t *DemandTrace) Len() int { return len(t.records) }

// Records returns the trace in day order.
func (t *DemandTrace) Records() []DemandRecord { return t.records }

// ForDate returns the records dated on the given day.
func (t *DemandTrace) ForDate(date time.Time) []DemandRecord {
	return t.byDay[Day(date)]
}

// Window returns the sub-trace within [start, end] inclusive and the number of
// records filtered out for falling outside it.
func (t *DemandTrace) Window(start, end time.Time) (*DemandTrace, int) {
	start, end = Day(start), Day(end)
	kept := make([]DemandRecord, 0, len(t.records))
	for _, r := range t.records {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		kept = append(kept, r)
	}
	return NewDemandTrace(kept), len(t.records) - len(kept)
}
