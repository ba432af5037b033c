package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"krxtrend/internal/trend"
)

// ViewSelection is the user's current chart selection: either a preset
// or an explicit (start, end) pair. An empty selection means all-time.
type ViewSelection struct {
	Preset trend.Preset
	Start  *time.Time
	End    *time.Time
}

// Snapshot is everything the chart-rendering frontend needs for one
// selection: the resolved range (for picker/slider initialization), the
// raw series, and the cumulative series. Notice is set when the
// requested range was unusable and the service fell back to all-time.
type Snapshot struct {
	Range      trend.DateRange `json:"range"`
	Notice     string          `json:"notice,omitempty"`
	Raw        []trend.Record  `json:"raw"`
	Cumulative []trend.Record  `json:"cumulative"`
}

// Summary describes the loaded table for the dashboard footer.
type Summary struct {
	Rows     int       `json:"rows"`
	Columns  []string  `json:"columns"`
	MinDate  time.Time `json:"min_date"`
	MaxDate  time.Time `json:"max_date"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
}

// TrendService serves chart data derived from the table loaded at
// startup. The table is immutable, so the service is safe for
// concurrent use.
type TrendService struct {
	table    *trend.Table
	source   string
	loadedAt time.Time
	logger   *slog.Logger
}

// NewTrendService creates a trend service over the given table. source
// names the workbook the table was loaded from.
func NewTrendService(table *trend.Table, source string, logger *slog.Logger) (*TrendService, error) {
	if table == nil || table.Len() == 0 {
		return nil, fmt.Errorf("trend service requires a non-empty table")
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("trend service initialized",
		slog.String("source", source),
		slog.Int("rows", table.Len()),
		slog.Time("min_date", table.MinDate()),
		slog.Time("max_date", table.MaxDate()))

	return &TrendService{
		table:    table,
		source:   source,
		loadedAt: time.Now().UTC(),
		logger:   logger,
	}, nil
}

// Snapshot resolves the selection against the table bounds and derives
// both chart views. An explicit range that does not overlap the data
// degrades to the all-time range with a notice instead of failing: the
// frontend must never be left without a renderable chart.
func (s *TrendService) Snapshot(ctx context.Context, sel ViewSelection) (*Snapshot, error) {
	bounds := s.table.Bounds()

	r, notice, err := s.resolve(ctx, sel, bounds)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Range:      r,
		Notice:     notice,
		Raw:        trend.RawView(s.table, r),
		Cumulative: trend.CumulativeView(s.table, r),
	}

	s.logger.DebugContext(ctx, "snapshot derived",
		slog.String("range", r.String()),
		slog.Int("rows", len(snap.Raw)),
		slog.Bool("fallback", notice != ""))

	return snap, nil
}

func (s *TrendService) resolve(ctx context.Context, sel ViewSelection, bounds trend.DateRange) (trend.DateRange, string, error) {
	if sel.Start != nil && sel.End != nil {
		r, err := trend.ResolveExplicit(*sel.Start, *sel.End, bounds)
		if err == nil {
			return r, "", nil
		}
		if !errors.Is(err, trend.ErrInvalidRange) {
			return trend.DateRange{}, "", err
		}

		s.logger.WarnContext(ctx, "explicit range outside table bounds, falling back to all-time",
			slog.Time("start", *sel.Start),
			slog.Time("end", *sel.End),
			slog.String("bounds", bounds.String()))
		return bounds, "requested range is outside the available data; showing all-time", nil
	}

	preset := sel.Preset
	if preset == "" {
		preset = trend.PresetAll
	}
	r, err := trend.Resolve(preset, bounds)
	if err != nil {
		return trend.DateRange{}, "", err
	}
	return r, "", nil
}

// Bounds returns the table's full date range.
func (s *TrendService) Bounds(ctx context.Context) trend.DateRange {
	return s.table.Bounds()
}

// Presets returns the preset list for the UI dropdown.
func (s *TrendService) Presets(ctx context.Context) []trend.PresetInfo {
	return trend.Presets()
}

// Summary returns the loaded table's shape for the dashboard footer.
func (s *TrendService) Summary(ctx context.Context) Summary {
	return Summary{
		Rows:     s.table.Len(),
		Columns:  []string{"날짜", "지수", "외국인", "개인", "기관종합"},
		MinDate:  s.table.MinDate(),
		MaxDate:  s.table.MaxDate(),
		Source:   s.source,
		LoadedAt: s.loadedAt,
	}
}
