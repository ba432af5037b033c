package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krxtrend/internal/trend"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestService(t *testing.T) *TrendService {
	t.Helper()

	records := []trend.Record{
		{Date: day("2024-01-02"), Index: 2500, Foreign: -5, Individual: 3, Institutional: 2},
		{Date: day("2024-01-03"), Index: 2510, Foreign: 10, Individual: -4, Institutional: -6},
		{Date: day("2024-01-04"), Index: 2490, Foreign: 3, Individual: 1, Institutional: -4},
		{Date: day("2024-01-05"), Index: 2520, Foreign: -2, Individual: 2, Institutional: 0},
	}
	table, err := trend.NewTable(records)
	require.NoError(t, err)

	svc, err := NewTrendService(table, "시간별 일별동향_20240105_153000.xlsx",
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return svc
}

func TestNewTrendServiceRejectsEmptyTable(t *testing.T) {
	_, err := NewTrendService(nil, "x.xlsx", nil)
	assert.Error(t, err)
}

func TestSnapshotDefaultsToAllTime(t *testing.T) {
	svc := newTestService(t)

	snap, err := svc.Snapshot(context.Background(), ViewSelection{})
	require.NoError(t, err)

	assert.Equal(t, day("2024-01-02"), snap.Range.Start)
	assert.Equal(t, day("2024-01-05"), snap.Range.End)
	assert.Len(t, snap.Raw, 4)
	assert.Len(t, snap.Cumulative, 4)
	assert.Empty(t, snap.Notice)
}

func TestSnapshotPreset(t *testing.T) {
	svc := newTestService(t)

	snap, err := svc.Snapshot(context.Background(), ViewSelection{Preset: trend.Preset7D})
	require.NoError(t, err)

	// 7 days back from the last date covers the whole short table.
	assert.Len(t, snap.Raw, 4)
	assert.Equal(t, day("2024-01-05"), snap.Range.End)
}

func TestSnapshotUnknownPreset(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Snapshot(context.Background(), ViewSelection{Preset: "14d"})
	assert.ErrorIs(t, err, trend.ErrUnknownPreset)
}

func TestSnapshotExplicitRange(t *testing.T) {
	svc := newTestService(t)

	start, end := day("2024-01-03"), day("2024-01-04")
	snap, err := svc.Snapshot(context.Background(), ViewSelection{Start: &start, End: &end})
	require.NoError(t, err)

	require.Len(t, snap.Raw, 2)
	assert.Equal(t, day("2024-01-03"), snap.Raw[0].Date)
	assert.Empty(t, snap.Notice)
}

func TestSnapshotExplicitRangeFallsBackToAllTime(t *testing.T) {
	svc := newTestService(t)

	// Entirely after the table: clamping inverts the range, so the
	// service degrades to all-time rather than erroring.
	start, end := day("2025-01-01"), day("2025-02-01")
	snap, err := svc.Snapshot(context.Background(), ViewSelection{Start: &start, End: &end})
	require.NoError(t, err)

	assert.Len(t, snap.Raw, 4)
	assert.NotEmpty(t, snap.Notice)
	assert.Equal(t, svc.Bounds(context.Background()), snap.Range)
}

func TestSnapshotCumulativeRestartsAtRangeStart(t *testing.T) {
	svc := newTestService(t)

	start, end := day("2024-01-03"), day("2024-01-05")
	snap, err := svc.Snapshot(context.Background(), ViewSelection{Start: &start, End: &end})
	require.NoError(t, err)

	require.Len(t, snap.Cumulative, 3)
	assert.Equal(t, 10.0, snap.Cumulative[0].Foreign)
	assert.Equal(t, 13.0, snap.Cumulative[1].Foreign)
	assert.Equal(t, 11.0, snap.Cumulative[2].Foreign)
	// Index stays raw in the cumulative view.
	assert.Equal(t, 2510.0, snap.Cumulative[0].Index)
}

func TestPresetsExposesKoreanLabels(t *testing.T) {
	svc := newTestService(t)

	presets := svc.Presets(context.Background())
	require.NotEmpty(t, presets)
	assert.Equal(t, trend.PresetAll, presets[0].ID)
	assert.Equal(t, "전체 기간", presets[0].Label)
}

func TestSummary(t *testing.T) {
	svc := newTestService(t)

	sum := svc.Summary(context.Background())
	assert.Equal(t, 4, sum.Rows)
	assert.Equal(t, []string{"날짜", "지수", "외국인", "개인", "기관종합"}, sum.Columns)
	assert.Equal(t, day("2024-01-02"), sum.MinDate)
	assert.Equal(t, day("2024-01-05"), sum.MaxDate)
	assert.Equal(t, "시간별 일별동향_20240105_153000.xlsx", sum.Source)
	assert.False(t, sum.LoadedAt.IsZero())
}
