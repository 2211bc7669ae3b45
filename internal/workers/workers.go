package workers

import (
	"os"
	"runtime"
	"strconv"
)

// EnvOverride names the environment variable that fixes the worker count.
const EnvOverride = "ARTWORK_WORKERS"

// Count returns the number of workers for a task with the given
// per-CPU multiplier, capped at limit (0 means no cap). Available CPUs
// come from GOMAXPROCS so container limits are respected.
//
// A positive ARTWORK_WORKERS value takes precedence over the calculation.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(EnvOverride); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	workers := int(float64(runtime.GOMAXPROCS(0)) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForCPU returns the worker count for image transforms (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}
