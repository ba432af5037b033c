package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"krxtrend/internal/trend"
)

// Headers are the CSV column labels, matching the source workbook.
var Headers = []string{"날짜", "지수", "외국인", "개인", "기관종합"}

// utf8BOM helps Excel recognize the Korean headers as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter exports trend records as CSV.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// Write streams records to w as CSV: a UTF-8 BOM, the header row, then
// one row per record in date order.
func (cw *CSVWriter) Write(w io.Writer, records []trend.Record) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, rec := range records {
		row := []string{
			rec.Date.Format("2006-01-02"),
			formatValue(rec.Index),
			formatValue(rec.Foreign),
			formatValue(rec.Individual),
			formatValue(rec.Institutional),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes records to filePath, creating parent directories as
// needed. An existing file is truncated.
func (cw *CSVWriter) WriteFile(filePath string, records []trend.Record) error {
	cw.logger.Info("writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if err := cw.Write(file, records); err != nil {
		return err
	}
	return file.Sync()
}

// formatValue renders a cell without trailing zeros so whole-number
// flows export as integers, the way the source workbook shows them.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
