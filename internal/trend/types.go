package trend

import (
	"fmt"
	"sort"
	"time"
)

// Record is one row of the daily trend table: the index level plus the
// net trading amount of each investor category for that day. Flow values
// are signed (net buying is positive, net selling negative).
type Record struct {
	Date          time.Time `json:"date"`
	Index         float64   `json:"index"`
	Foreign       float64   `json:"foreign"`
	Individual    float64   `json:"individual"`
	Institutional float64   `json:"institutional"`
}

// Table is the ordered sequence of daily records loaded from the source
// workbook. It is constructed once at startup and never mutated, so it
// may be shared read-only across request handlers.
type Table struct {
	records []Record
}

// NewTable builds a Table from the given records. Records are sorted
// ascending by date; dates must be unique. Date components below the
// calendar day are dropped.
func NewTable(records []Record) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records")
	}

	rs := make([]Record, len(records))
	copy(rs, records)
	for i := range rs {
		rs[i].Date = Day(rs[i].Date)
	}

	sort.Slice(rs, func(i, j int) bool {
		return rs[i].Date.Before(rs[j].Date)
	})

	for i := 1; i < len(rs); i++ {
		if rs[i].Date.Equal(rs[i-1].Date) {
			return nil, fmt.Errorf("duplicate date %s", rs[i].Date.Format("2006-01-02"))
		}
	}

	return &Table{records: rs}, nil
}

// Len returns the number of records in the table.
func (t *Table) Len() int { return len(t.records) }

// MinDate returns the earliest date in the table.
func (t *Table) MinDate() time.Time { return t.records[0].Date }

// MaxDate returns the latest date in the table.
func (t *Table) MaxDate() time.Time { return t.records[len(t.records)-1].Date }

// Bounds returns the full date range covered by the table.
func (t *Table) Bounds() DateRange {
	return DateRange{Start: t.MinDate(), End: t.MaxDate()}
}

// Records returns a copy of the table's records in date order.
func (t *Table) Records() []Record {
	rs := make([]Record, len(t.records))
	copy(rs, t.records)
	return rs
}

// DateRange is a closed [Start, End] interval of calendar dates. Ranges
// produced by the resolvers always satisfy Start <= End and lie within
// the table bounds they were resolved against.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls within the range, inclusive on both
// ends.
func (r DateRange) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return r.Start.Format("2006-01-02") + ".." + r.End.Format("2006-01-02")
}

// Day truncates t to midnight UTC, the canonical form for all dates in
// this package.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
