package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"artwork-helper/internal/logging"
	"artwork-helper/internal/metrics"
)

// Purge empties each directory, recreating it afterwards, and returns the
// number of files removed. Missing directories are created.
func Purge(dirs ...string) (int, error) {
	removed := 0
	var errs []error

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		stats, err := folderStats(dir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			logging.Warn("Could not count files in %s: %v", dir, err)
		}

		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", dir, err))
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			errs = append(errs, fmt.Errorf("failed to recreate %s: %w", dir, err))
			continue
		}

		removed += stats.Files
		logging.Info("Purged %d files from %s", stats.Files, dir)
	}

	metrics.CachePurgedFilesTotal.Add(float64(removed))
	return removed, errors.Join(errs...)
}

// FolderStats returns file counts and sizes for each subdirectory of root.
func FolderStats(root string) (map[string]metrics.FolderStats, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	result := make(map[string]metrics.FolderStats)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		stats, err := folderStats(filepath.Join(root, entry.Name()))
		if err != nil {
			return nil, err
		}
		result[entry.Name()] = stats
	}
	return result, nil
}

func folderStats(dir string) (metrics.FolderStats, error) {
	var stats metrics.FolderStats
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		stats.Files++
		stats.Bytes += info.Size()
		return nil
	})
	return stats, err
}

// Counter is implemented by stores that can report their size.
type Counter interface {
	Count(ctx context.Context) (int, error)
	FileSizes() map[string]int64
}

// StatsProvider reports cache statistics to a metrics.Collector.
type StatsProvider struct {
	OutputDir string
	Store     Counter
}

// GetStats implements metrics.StatsProvider.
func (p StatsProvider) GetStats() metrics.Stats {
	var stats metrics.Stats

	if p.Store != nil {
		n, err := p.Store.Count(context.Background())
		if err != nil {
			logging.Warn("Failed to count lookup entries: %v", err)
		}
		stats.LookupEntries = n
		stats.DBFileSizes = p.Store.FileSizes()
	}

	folders, err := FolderStats(p.OutputDir)
	if err != nil {
		logging.Warn("Failed to read output folders: %v", err)
	}
	stats.Folders = folders
	return stats
}
