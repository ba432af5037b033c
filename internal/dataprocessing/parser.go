package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"krxtrend/internal/trend"
)

// Column header labels as they appear in the source workbook.
const (
	ColDate          = "날짜"
	ColIndex         = "지수"
	ColForeign       = "외국인"
	ColIndividual    = "개인"
	ColInstitutional = "기관종합"
)

// requiredColumns lists every header label the workbook must carry.
var requiredColumns = []string{ColDate, ColIndex, ColForeign, ColIndividual, ColInstitutional}

// headerScanLimit bounds how deep into a sheet the header row is looked
// for. The source export puts it in the first few rows.
const headerScanLimit = 10

// dateFormats are the date renderings observed in the source exports.
var dateFormats = []string{
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06",
}

// ParseFile reads a daily trend workbook and builds the immutable trend
// table. The sheet holding the data is found by its header row (the row
// containing the 날짜 and 지수 labels); column positions are mapped from
// the header text rather than assumed.
func ParseFile(filePath string) (*trend.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, rows, headerRow, columns, err := findDataSheet(f)
	if err != nil {
		return nil, err
	}

	slog.Debug("found trend data",
		slog.String("sheet", sheet),
		slog.Int("header_row", headerRow),
		slog.Int("total_rows", len(rows)))

	var records []trend.Record
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rec, err := parseRecord(sheet, i+1, row, columns)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	table, err := trend.NewTable(records)
	if err != nil {
		return nil, fmt.Errorf("invalid trend data in %s: %w", filePath, err)
	}

	slog.Info("trend workbook loaded",
		slog.String("sheet", sheet),
		slog.Int("records", table.Len()),
		slog.Time("min_date", table.MinDate()),
		slog.Time("max_date", table.MaxDate()))

	return table, nil
}

// findDataSheet scans the workbook for the sheet containing the trend
// header row and maps each required column label to its position.
func findDataSheet(f *excelize.File) (sheet string, rows [][]string, headerRow int, columns map[string]int, err error) {
	for _, name := range f.GetSheetList() {
		sheetRows, rowErr := f.GetRows(name)
		if rowErr != nil {
			continue
		}

		for i, row := range sheetRows {
			if i >= headerScanLimit {
				break
			}
			cols := mapColumns(row)
			if _, ok := cols[ColDate]; !ok {
				continue
			}
			if _, ok := cols[ColIndex]; !ok {
				continue
			}

			// Header row located; every required column must be present.
			for _, required := range requiredColumns {
				if _, ok := cols[required]; !ok {
					return "", nil, 0, nil, &SchemaError{Column: required}
				}
			}
			return name, sheetRows, i, cols, nil
		}
	}

	return "", nil, 0, nil, &SchemaError{Column: ColDate}
}

// mapColumns maps trimmed header labels to their column index.
func mapColumns(row []string) map[string]int {
	cols := make(map[string]int, len(row))
	for j, header := range row {
		label := strings.TrimSpace(header)
		if label == "" {
			continue
		}
		if _, exists := cols[label]; !exists {
			cols[label] = j
		}
	}
	return cols
}

func parseRecord(sheet string, rowNum int, row []string, columns map[string]int) (trend.Record, error) {
	date, err := parseDateCell(cellAt(row, columns[ColDate]))
	if err != nil {
		return trend.Record{}, &ParseError{
			Sheet: sheet, Row: rowNum, Column: ColDate,
			Value: cellAt(row, columns[ColDate]), Err: err,
		}
	}

	rec := trend.Record{Date: date}

	numeric := []struct {
		column string
		dst    *float64
	}{
		{ColIndex, &rec.Index},
		{ColForeign, &rec.Foreign},
		{ColIndividual, &rec.Individual},
		{ColInstitutional, &rec.Institutional},
	}

	for _, n := range numeric {
		raw := cellAt(row, columns[n.column])
		v, err := parseNumericCell(raw)
		if err != nil {
			return trend.Record{}, &ParseError{
				Sheet: sheet, Row: rowNum, Column: n.column,
				Value: raw, Err: err,
			}
		}
		*n.dst = v
	}

	return rec, nil
}

// parseDateCell parses a date cell in any of the formats the source
// emits.
func parseDateCell(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}

	for _, format := range dateFormats {
		if d, err := time.Parse(format, value); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

// parseNumericCell parses a numeric cell, tolerating thousands
// separators. Empty cells read as zero, matching how the source
// dashboard treats missing flow values.
func parseNumericCell(value string) (float64, error) {
	value = strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}

func cellAt(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
