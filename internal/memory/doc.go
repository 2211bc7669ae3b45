// Package memory keeps artwork decoding inside the container memory limit.
//
// Decoding a 4K fanart image allocates tens of megabytes, and libvips adds
// memory the Go runtime does not see. Two tools cover this:
//
//   - [ConfigureFromEnv] sets GOMEMLIMIT from the container limit, keeping a
//     share of it for libvips and goroutine stacks.
//   - [Monitor] samples the heap and holds artwork requests back while it is
//     close to the limit.
//
// # Environment Variables
//
//   - GOMEMLIMIT: standard Go variable; when set it wins and nothing is changed.
//   - MEMORY_LIMIT: container limit in bytes, usually from the Downward API.
//   - MEMORY_RATIO: share of MEMORY_LIMIT given to the Go heap (default 0.80).
//
// Example deployment snippet:
//
//	env:
//	- name: MEMORY_LIMIT
//	  valueFrom:
//	    resourceFieldRef:
//	      resource: limits.memory
//	- name: MEMORY_RATIO
//	  value: "0.7"
//
// # Backpressure
//
// The monitor pauses once heap allocation reaches CriticalWaterMark of the
// limit and resumes only after it falls below HighWaterMark, so requests do
// not flap around a single threshold. Without a limit the monitor never
// pauses.
package memory
