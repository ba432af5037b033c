package dataprocessing

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook builds a minimal trend workbook in a temp dir. The
// header slice becomes the first row; each data row follows in order.
func writeWorkbook(t *testing.T, header []interface{}, dataRows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	setRow := func(rowNum int, values []interface{}) {
		for colIdx, val := range values {
			col, err := excelize.ColumnNumberToName(colIdx + 1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, col+strconv.Itoa(rowNum), val))
		}
	}

	setRow(1, header)
	for i, row := range dataRows {
		setRow(i+2, row)
	}

	path := filepath.Join(t.TempDir(), "시간별 일별동향_20251030_000958.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

var trendHeader = []interface{}{"날짜", "지수", "외국인", "개인", "기관종합"}

func TestParseFileWellFormedWorkbook(t *testing.T) {
	path := writeWorkbook(t, trendHeader, [][]interface{}{
		{"2023-01-03", "2400.5", "1,200", "-800", "-400"},
		{"2023-01-02", "2380.1", "-300", "500", "-200"},
	})

	table, err := ParseFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	records := table.Records()
	// Sorted ascending regardless of workbook order.
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, 2380.1, records[0].Index)
	assert.Equal(t, -300.0, records[0].Foreign)
	assert.Equal(t, 500.0, records[0].Individual)
	assert.Equal(t, -200.0, records[0].Institutional)

	// Thousands separators stripped.
	assert.Equal(t, 1200.0, records[1].Foreign)
}

func TestParseFileSkipsLeadingRowsBeforeHeader(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "시간별 일별동향"))
	// Header on row 3, data on row 4.
	for j, h := range []string{"날짜", "지수", "외국인", "개인", "기관종합"} {
		col, err := excelize.ColumnNumberToName(j + 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, col+"3", h))
		require.NoError(t, f.SetCellValue(sheet, col+"4", []string{"2023-05-01", "2500", "10", "20", "30"}[j]))
	}
	path := filepath.Join(t.TempDir(), "시간별 일별동향_20230501_101010.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestParseFileMissingColumn(t *testing.T) {
	path := writeWorkbook(t,
		[]interface{}{"날짜", "지수", "외국인", "개인"}, // 기관종합 absent
		[][]interface{}{{"2023-01-02", "2380.1", "-300", "500"}},
	)

	_, err := ParseFile(path)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "기관종합", schemaErr.Column)
}

func TestParseFileBadDate(t *testing.T) {
	path := writeWorkbook(t, trendHeader, [][]interface{}{
		{"not-a-date", "2380.1", "1", "2", "3"},
	})

	_, err := ParseFile(path)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "날짜", parseErr.Column)
	assert.Equal(t, "not-a-date", parseErr.Value)
}

func TestParseFileBadNumeric(t *testing.T) {
	path := writeWorkbook(t, trendHeader, [][]interface{}{
		{"2023-01-02", "2380.1", "garbage", "2", "3"},
	})

	_, err := ParseFile(path)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "외국인", parseErr.Column)
}

func TestParseFileEmptyFlowCellReadsZero(t *testing.T) {
	path := writeWorkbook(t, trendHeader, [][]interface{}{
		{"2023-01-02", "2380.1", "", "2", "3"},
	})

	table, err := ParseFile(path)
	require.NoError(t, err)
	assert.Zero(t, table.Records()[0].Foreign)
}

func TestParseFileDuplicateDates(t *testing.T) {
	path := writeWorkbook(t, trendHeader, [][]interface{}{
		{"2023-01-02", "2380.1", "1", "2", "3"},
		{"2023-01-02", "2381.0", "4", "5", "6"},
	})

	_, err := ParseFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate date")
}

func TestParseFileNoHeaderAnywhere(t *testing.T) {
	path := writeWorkbook(t,
		[]interface{}{"foo", "bar"},
		[][]interface{}{{"1", "2"}},
	)

	_, err := ParseFile(path)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}
