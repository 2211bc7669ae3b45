// Package startup loads the helper's configuration and handles startup and
// shutdown logging.
//
// # Configuration
//
// Values are read in this order, later sources winning: built-in defaults,
// an optional TOML file, environment variables, and finally command line
// flags applied by the caller with [Config.Apply]. The following environment
// variables are supported:
//
//   - ARTWORK_CONFIG: Path to the TOML file (default: <data dir>/artwork-helper.toml)
//   - ARTWORK_DATA_DIR: Directory for processed artwork and the lookup database (default: /data)
//   - ARTWORK_RAW_CACHE_DIR: The host's thumbnail cache holding downloaded artwork (default: /thumbnails)
//   - ARTWORK_DATABASE_PATH: Lookup database file (default: <data dir>/artwork.db)
//   - ARTWORK_POLL_INTERVAL: How often an unresolved artwork URL is checked (default: 20ms)
//   - ARTWORK_POLL_TIMEOUT: How long an artwork URL is waited for (default: 2s)
//   - ARTWORK_USE_VIPS: Decode large sources through libvips (default: false)
//   - ARTWORK_PORT: HTTP port of the serve command (default: 8080)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: false)
//   - ARTWORK_LOG_LEVEL, LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//
// Read elsewhere: ARTWORK_WORKERS (package workers) and MEMORY_LIMIT,
// MEMORY_RATIO (package memory).
//
// A configuration file looks like:
//
//	data_dir = "/srv/artwork"
//	raw_cache_dir = "/home/kodi/.kodi/userdata/Thumbnails"
//	use_vips = true
//
//	[processes]
//	clearlogo = "crop"
//	fanart = "blur"
//
//	[poll]
//	interval = "50ms"
//	timeout = "3s"
//
//	[color]
//	shift = 0.4
//	jpeg_quality = 90
//
// # Directory Setup
//
// [Config.Prepare] creates the data directory and its temp, crop and blur
// folders and checks that they are writable. A missing raw cache directory is
// only a warning: sources are then staged from their original location.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
package startup
