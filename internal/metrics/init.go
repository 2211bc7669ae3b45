package metrics

// Folders are the output folders of the supported transforms.
var Folders = []string{"crop", "blur"}

// InitializeMetrics pre-populates the expected label combinations so every
// metric is exported from the first scrape.
func InitializeMetrics() {
	for _, file := range []string{"main", "wal", "shm"} {
		DBSizeBytes.WithLabelValues(file)
	}

	volumes := []string{"raw", "temp", "output", "database", "unknown"}
	for _, vol := range volumes {
		for _, op := range []string{"stat", "open", "write"} {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}

	for _, folder := range Folders {
		for _, phase := range []string{"resize", "analyze", "encode", "total"} {
			TransformDuration.WithLabelValues(folder, phase)
		}
		for _, status := range []string{"success", "error_transform", "error_encode"} {
			TransformsTotal.WithLabelValues(folder, status)
		}
		OutputFiles.WithLabelValues(folder)
		OutputBytes.WithLabelValues(folder)
	}
	TransformDuration.WithLabelValues("blur", "blur")

	for _, status := range []string{"success", "error"} {
		VipsLoadsTotal.WithLabelValues(status)
	}

	for _, result := range []string{"hit", "miss", "stale"} {
		CacheLookupsTotal.WithLabelValues(result)
	}

	for _, status := range []string{"success", "empty", "error"} {
		EditorRequestsTotal.WithLabelValues(status)
	}

	for _, op := range []string{"initialize_schema", "add_entry", "get_entry", "count"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}
}
