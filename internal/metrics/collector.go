package metrics

import (
	"time"

	"artwork-helper/internal/logging"
)

// StatsProvider reports the size of the processed-artwork cache.
type StatsProvider interface {
	GetStats() Stats
}

// FolderStats describes one output folder.
type FolderStats struct {
	Files int
	Bytes int64
}

// Stats holds the current cache statistics.
type Stats struct {
	LookupEntries int
	Folders       map[string]FolderStats
	DBFileSizes   map[string]int64 // "main", "wal", "shm"
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	LookupEntries.Set(float64(stats.LookupEntries))
	for folder, fs := range stats.Folders {
		OutputFiles.WithLabelValues(folder).Set(float64(fs.Files))
		OutputBytes.WithLabelValues(folder).Set(float64(fs.Bytes))
	}
	for file, size := range stats.DBFileSizes {
		DBSizeBytes.WithLabelValues(file).Set(float64(size))
	}

	logging.Debug("Metrics collected: entries=%d, folders=%d", stats.LookupEntries, len(stats.Folders))
}
