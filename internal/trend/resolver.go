package trend

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when an explicit range collapses to
// start > end after clamping to the table bounds. Callers are expected
// to fall back to the all-time range.
var ErrInvalidRange = errors.New("invalid date range")

// ErrUnknownPreset is returned for preset identifiers outside the
// enumerated set.
var ErrUnknownPreset = errors.New("unknown preset")

// Resolve computes the concrete date range for a preset against the
// given table bounds. The end is always the latest available date; the
// start is the preset offset back from it, clamped to the earliest
// available date. Resolving the same preset twice against unchanged
// bounds yields an identical range.
func Resolve(p Preset, bounds DateRange) (DateRange, error) {
	if p == PresetAll {
		return bounds, nil
	}

	days, ok := p.Days()
	if !ok {
		return DateRange{}, fmt.Errorf("%w: %q", ErrUnknownPreset, p)
	}

	end := bounds.End
	start := end.AddDate(0, 0, -days)
	if start.Before(bounds.Start) {
		start = bounds.Start
	}

	return DateRange{Start: start, End: end}, nil
}

// ResolveExplicit clamps an explicit (start, end) pair to the table
// bounds: start is raised to the earliest available date, end lowered
// to the latest. If the clamped interval is empty the pair never
// overlapped the data and ErrInvalidRange is returned.
func ResolveExplicit(start, end time.Time, bounds DateRange) (DateRange, error) {
	start, end = Day(start), Day(end)

	if start.Before(bounds.Start) {
		start = bounds.Start
	}
	if end.After(bounds.End) {
		end = bounds.End
	}

	if start.After(end) {
		return DateRange{}, fmt.Errorf("%w: %s..%s outside table bounds %s",
			ErrInvalidRange,
			start.Format("2006-01-02"), end.Format("2006-01-02"), bounds)
	}

	return DateRange{Start: start, End: end}, nil
}
