// Package metrics provides Prometheus instrumentation for the artwork helper.
//
// All metrics are prefixed with "artwork_helper_" and registered with the
// default registry through promauto, so they are served by promhttp.Handler
// without further setup.
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: Counter of requests by method, path and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of requests being served
//
// ## Database Metrics
//
//   - DBQueryTotal: Counter of lookup queries by operation and status
//   - DBQueryDuration: Histogram of lookup query duration by operation
//   - DBSizeBytes: Gauge of database file sizes (main, WAL, SHM)
//
// ## Transform Metrics
//
//   - TransformsTotal: Counter of crop and blur runs by outcome
//   - TransformDuration: Histogram of resize, blur, analyze and encode phases
//   - VipsLoadsTotal: Counter of shrink-on-load decodes through libvips
//
// ## Cache Metrics
//
//   - CacheLookupsTotal: Counter of lookups by result (hit, miss, stale)
//   - CacheStagedTotal: Counter of sources copied to the staging directory
//   - CachePurgedFilesTotal: Counter of processed files removed by purges
//   - LookupEntries, OutputFiles, OutputBytes: Gauges updated by Collector
//
// ## Editor Metrics
//
//   - EditorRequestsTotal, EditorRequestDuration: per request
//   - EditorArtworkTotal: per art type, by outcome
//   - ResolveTimeoutsTotal: URLs that never resolved within the poll timeout
//
// ## Memory Metrics
//
//   - MemoryUsageRatio: heap allocation relative to GOMEMLIMIT
//   - MemoryPaused, MemoryPausesTotal: backpressure state of the HTTP host
//
// ## Filesystem Metrics
//
// Recorded through the filesystem.Observer returned by
// NewFilesystemObserver, labeled by volume (raw, temp, output, database).
//
// # Initialization
//
// Call InitializeMetrics once at startup so every series exists before the
// first scrape.
package metrics
