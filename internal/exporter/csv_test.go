package exporter

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krxtrend/internal/trend"
)

func testRecords() []trend.Record {
	d := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	return []trend.Record{
		{Date: d("2024-01-02"), Index: 2500.5, Foreign: -5, Individual: 3, Institutional: 2},
		{Date: d("2024-01-03"), Index: 2510, Foreign: 10, Individual: -4, Institutional: -6},
	}
}

func TestWriteEmitsBOMAndKoreanHeaders(t *testing.T) {
	var buf bytes.Buffer
	cw := NewCSVWriter(slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, cw.Write(&buf, testRecords()))

	out := buf.Bytes()
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, out[:3])

	lines := strings.Split(strings.TrimSpace(string(out[3:])), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "날짜,지수,외국인,개인,기관종합", lines[0])
	assert.Equal(t, "2024-01-02,2500.5,-5,3,2", lines[1])
	assert.Equal(t, "2024-01-03,2510,10,-4,-6", lines[2])
}

func TestWriteFileCreatesParentDirs(t *testing.T) {
	cw := NewCSVWriter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	path := filepath.Join(t.TempDir(), "out", "trend.csv")

	require.NoError(t, cw.WriteFile(path, testRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-01-02")
}

func TestWriteEmptyRecordsStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	cw := NewCSVWriter(nil)

	require.NoError(t, cw.Write(&buf, nil))
	assert.Contains(t, buf.String(), "날짜")
}
