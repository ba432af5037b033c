package trend

import "sort"

// RawView returns the contiguous slice of records whose dates fall
// within r, inclusive on both ends, in date order. The result is a copy
// and may be mutated by the caller.
func RawView(t *Table, r DateRange) []Record {
	lo, hi := t.rangeIndices(r)
	view := make([]Record, hi-lo)
	copy(view, t.records[lo:hi])
	return view
}

// CumulativeView returns the same slice as RawView with each investor
// flow column replaced by its running sum. Accumulation restarts at the
// first record of the range, so the first cumulative record equals the
// first raw record. The index column is left untransformed.
func CumulativeView(t *Table, r DateRange) []Record {
	view := RawView(t, r)

	var foreign, individual, institutional float64
	for i := range view {
		foreign += view[i].Foreign
		individual += view[i].Individual
		institutional += view[i].Institutional
		view[i].Foreign = foreign
		view[i].Individual = individual
		view[i].Institutional = institutional
	}
	return view
}

// rangeIndices locates the half-open record interval [lo, hi) covered
// by r.
func (t *Table) rangeIndices(r DateRange) (lo, hi int) {
	lo = sort.Search(len(t.records), func(i int) bool {
		return !t.records[i].Date.Before(r.Start)
	})
	hi = sort.Search(len(t.records), func(i int) bool {
		return t.records[i].Date.After(r.End)
	})
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
