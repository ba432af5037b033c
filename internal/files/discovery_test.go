package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
}

func TestFindTrendFilesMatchesNamingConvention(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "시간별 일별동향_20251030_000958.xls")
	touch(t, dir, "시간별 일별동향_20240101_120000.xlsx")
	touch(t, dir, "시간별 일별동향_latest.xls")     // no timestamp
	touch(t, dir, "다른파일_20251030_000958.xls") // wrong prefix
	touch(t, dir, "notes.txt")

	files, err := NewDiscovery(dir).FindTrendFiles(".")
	require.NoError(t, err)
	require.Len(t, files, 2)

	// Sorted ascending by embedded timestamp.
	assert.Equal(t, "시간별 일별동향_20240101_120000.xlsx", files[0].Name)
	assert.Equal(t, "시간별 일별동향_20251030_000958.xls", files[1].Name)
	assert.Equal(t, time.Date(2025, 10, 30, 0, 9, 58, 0, time.UTC), files[1].Stamp)
}

func TestLatestTrendFilePicksNewestStamp(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "시간별 일별동향_20230601_090000.xls")
	touch(t, dir, "시간별 일별동향_20251030_000958.xls")
	touch(t, dir, "시간별 일별동향_20240315_181530.xlsx")

	latest, err := NewDiscovery(dir).LatestTrendFile(".")
	require.NoError(t, err)
	assert.Equal(t, "시간별 일별동향_20251030_000958.xls", latest.Name)
}

func TestLatestTrendFileDeterministicTieBreak(t *testing.T) {
	dir := t.TempDir()
	// Same stamp, different extension: lexicographically larger name wins.
	touch(t, dir, "시간별 일별동향_20251030_000958.xls")
	touch(t, dir, "시간별 일별동향_20251030_000958.xlsx")

	d := NewDiscovery(dir)
	for i := 0; i < 3; i++ {
		latest, err := d.LatestTrendFile(".")
		require.NoError(t, err)
		assert.Equal(t, "시간별 일별동향_20251030_000958.xlsx", latest.Name)
	}
}

func TestLatestTrendFileEmptyDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "unrelated.csv")

	_, err := NewDiscovery(dir).LatestTrendFile(".")
	require.ErrorIs(t, err, ErrNoDataFile)
}

func TestFindTrendFilesMissingDir(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).FindTrendFiles("does-not-exist")
	require.Error(t, err)
}
