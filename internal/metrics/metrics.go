package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artwork_helper_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artwork_helper_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "artwork_helper_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artwork_helper_db_queries_total",
			Help: "Total number of lookup database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artwork_helper_db_query_duration_seconds",
			Help:    "Lookup database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "artwork_helper_db_size_bytes",
			Help: "Size of SQLite database files in bytes",
		},
		[]string{"file"}, // "main", "wal", "shm"
	)
)

// Transform metrics
var (
	TransformsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artwork_helper_transforms_total",
			Help: "Total number of artwork transforms by outcome",
		},
		[]string{"transform", "status"},
	)

	TransformDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artwork_helper_transform_duration_seconds",
			Help:    "Duration of transform phases in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"transform", "phase"}, // "resize", "blur", "analyze", "encode", "total"
	)

	VipsLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artwork_helper_vips_loads_total",
			Help: "Total number of shrink-on-load decodes through libvips",
		},
		[]string{"status"},
	)
)

// Cache metrics
var (
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artwork_helper_cache_lookups_total",
			Help: "Total number of processed-artwork lookups",
		},
		[]string{"result"}, // "hit", "miss", "stale"
	)

	CacheStagedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "artwork_helper_cache_staged_total",
			Help: "Total number of sources copied into the staging directory",
		},
	)

	CachePurgedFilesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "artwork_helper_cache_purged_files_total",
			Help: "Total number of processed files removed by purges",
		},
	)

	LookupEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "artwork_helper_lookup_entries",
			Help: "Number of rows in the lookup table",
		},
	)

	OutputFiles = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "artwork_helper_output_files",
			Help: "Number of processed files per output folder",
		},
		[]string{"folder"},
	)

	OutputBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "artwork_helper_output_bytes",
			Help: "Size of processed files per output folder in bytes",
		},
		[]string{"folder"},
	)
)

// Editor metrics
var (
	EditorRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artwork_helper_editor_requests_total",
			Help: "Total number of artwork processing requests",
		},
		[]string{"status"}, // "success", "empty", "error"
	)

	EditorRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "artwork_helper_editor_request_duration_seconds",
			Help:    "Duration of artwork processing requests in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	EditorArtworkTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artwork_helper_editor_artwork_total",
			Help: "Total number of art types handled, by outcome",
		},
		[]string{"art_type", "status"}, // status: "cached", "processed", "skipped", "failed"
	)

	ResolveTimeoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "artwork_helper_resolve_timeouts_total",
			Help: "Total number of artwork URLs that did not resolve before the poll timeout",
		},
	)
)

// Memory metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "artwork_helper_memory_usage_ratio",
			Help: "Heap allocation as a fraction of the Go memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "artwork_helper_memory_paused",
			Help: "1 while artwork requests are held back for memory pressure",
		},
	)

	MemoryPausesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "artwork_helper_memory_pauses_total",
			Help: "Total number of times memory pressure paused artwork requests",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "artwork_helper_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artwork_helper_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"volume", "operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artwork_helper_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"volume", "operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artwork_helper_filesystem_retry_attempts_total",
			Help: "Total number of retries after NFS stale file handle errors",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artwork_helper_filesystem_retry_success_total",
			Help: "Total number of operations that succeeded after retrying",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artwork_helper_filesystem_retry_failures_total",
			Help: "Total number of operations that failed after all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artwork_helper_filesystem_retry_duration_seconds",
			Help:    "Total duration of filesystem operations including retries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artwork_helper_filesystem_stale_errors_total",
			Help: "Total number of NFS stale file handle errors",
		},
		[]string{"operation", "volume"},
	)
)
