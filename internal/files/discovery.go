package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// ErrNoDataFile is returned when the data directory holds no workbook
// matching the trend file naming convention. Fatal at startup: the
// dashboard cannot render without data.
var ErrNoDataFile = errors.New("no trend workbook found")

// trendFilePattern matches the export naming convention of the source:
// 시간별 일별동향_YYYYMMDD_HHMMSS with an Excel extension.
var trendFilePattern = regexp.MustCompile(`^시간별 일별동향_(\d{8}_\d{6})\.(?i:xlsx?)$`)

// FileInfo describes a discovered trend workbook.
type FileInfo struct {
	Path    string
	Name    string
	Stamp   time.Time // parsed from the filename, not the filesystem
	Size    int64
	ModTime time.Time
}

// Discovery locates trend workbooks under a base directory.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance rooted at basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindTrendFiles returns all workbooks in dir matching the trend naming
// convention, sorted by embedded timestamp ascending with the filename
// as tie-breaker. Relative dirs are resolved against the base path.
func (d *Discovery) FindTrendFiles(dir string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		m := trendFilePattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		stamp, err := time.Parse("20060102_150405", m[1])
		if err != nil {
			// Digits matched but do not form a real timestamp; the file
			// still counts as a candidate, ranked last.
			stamp = time.Time{}
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Stamp:   stamp,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	// Deterministic order regardless of directory iteration order.
	sort.Slice(files, func(i, j int) bool {
		if !files[i].Stamp.Equal(files[j].Stamp) {
			return files[i].Stamp.Before(files[j].Stamp)
		}
		return strings.Compare(files[i].Name, files[j].Name) < 0
	})

	return files, nil
}

// LatestTrendFile returns the workbook with the newest embedded
// timestamp. When several exports are present the newest one wins; a
// directory without any matching workbook yields ErrNoDataFile.
func (d *Discovery) LatestTrendFile(dir string) (FileInfo, error) {
	files, err := d.FindTrendFiles(dir)
	if err != nil {
		return FileInfo{}, err
	}
	if len(files) == 0 {
		return FileInfo{}, fmt.Errorf("%w in %s", ErrNoDataFile, dir)
	}
	return files[len(files)-1], nil
}
