package http

import (
	"context"

	"krxtrend/internal/services"
	"krxtrend/internal/trend"
)

// TrendServiceInterface defines the service surface the trend handler
// depends on, so tests can substitute a stub.
type TrendServiceInterface interface {
	Snapshot(ctx context.Context, sel services.ViewSelection) (*services.Snapshot, error)
	Bounds(ctx context.Context) trend.DateRange
	Presets(ctx context.Context) []trend.PresetInfo
	Summary(ctx context.Context) services.Summary
}
