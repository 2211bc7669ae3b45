/*
Package filesystem wraps the file operations of the helper with retry logic
for NFS stale file handle errors.

Kodi installations frequently keep the thumbnail cache and the userdata
folder on network storage. Stat, open and write calls that fail with ESTALE
are retried with exponential backoff; every other error is returned at once.

# Usage

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())

	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
	    return err
	}
	defer f.Close()

	err = filesystem.WriteFileWithRetry(dst, data, 0o644, filesystem.DefaultRetryConfig())

# Volumes

Metrics are labeled by volume. Register the configured directories once at
startup:

	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
	    "raw":      cfg.RawCacheDir,
	    "temp":     cfg.TempDir,
	    "output":   cfg.OutputDir,
	    "database": filepath.Dir(cfg.DatabasePath),
	}))

Paths outside every volume are labeled "unknown".

# Metrics

The package does not import Prometheus. The metrics package provides an
Observer that is installed with SetObserver; without one, nothing is
recorded.
*/
package filesystem
