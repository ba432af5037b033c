// Command trendcsv exports a trend workbook as CSV without starting the
// server: it finds the newest workbook in the data directory (or takes
// an explicit file), resolves the requested range, and writes the raw
// or cumulative view.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"krxtrend/internal/config"
	"krxtrend/internal/dataprocessing"
	"krxtrend/internal/exporter"
	"krxtrend/internal/files"
	"krxtrend/internal/infrastructure"
	"krxtrend/internal/trend"
)

func main() {
	file := flag.String("file", "", "trend workbook to export (defaults to the newest workbook in the data directory)")
	dir := flag.String("dir", "", "data directory to search (defaults to the configured data dir)")
	out := flag.String("out", "trend.csv", "output csv file path, or - for stdout")
	view := flag.String("view", "raw", "raw | cumulative")
	preset := flag.String("preset", "all", "range preset: all 7d 30d 90d 1y 2y 3y 4y 5y 10y")
	start := flag.String("start", "", "explicit range start (YYYY-MM-DD, requires -end, overrides -preset)")
	end := flag.String("end", "", "explicit range end (YYYY-MM-DD)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if err := run(cfg, logger, *file, *dir, *out, *view, *preset, *start, *end); err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, file, dir, out, view, preset, start, end string) error {
	if view != "raw" && view != "cumulative" {
		return fmt.Errorf("unknown view %q, want raw or cumulative", view)
	}

	if file == "" {
		if dir == "" {
			dir = cfg.GetDataDir()
		}
		found, err := files.NewDiscovery(dir).LatestTrendFile(".")
		if err != nil {
			return err
		}
		file = found.Path
		logger.Info("selected workbook", "file", found.Name, "stamp", found.Stamp)
	}

	table, err := dataprocessing.ParseFile(file)
	if err != nil {
		return err
	}

	r, err := resolveRange(table, preset, start, end)
	if err != nil {
		return err
	}

	records := trend.RawView(table, r)
	if view == "cumulative" {
		records = trend.CumulativeView(table, r)
	}

	logger.Info("exporting",
		"view", view,
		"range", r.String(),
		"rows", len(records))

	cw := exporter.NewCSVWriter(logger)
	if out == "-" {
		return cw.Write(os.Stdout, records)
	}
	return cw.WriteFile(out, records)
}

func resolveRange(table *trend.Table, preset, start, end string) (trend.DateRange, error) {
	bounds := table.Bounds()

	if (start == "") != (end == "") {
		return trend.DateRange{}, errors.New("-start and -end must be given together")
	}
	if start != "" {
		s, err := time.Parse("2006-01-02", start)
		if err != nil {
			return trend.DateRange{}, fmt.Errorf("invalid -start: %w", err)
		}
		e, err := time.Parse("2006-01-02", end)
		if err != nil {
			return trend.DateRange{}, fmt.Errorf("invalid -end: %w", err)
		}
		return trend.ResolveExplicit(s, e, bounds)
	}

	return trend.Resolve(trend.Preset(preset), bounds)
}
