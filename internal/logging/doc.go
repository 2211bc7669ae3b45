// Package logging provides the leveled logger shared by every artwork-helper
// component.
//
// Levels, from most to least verbose:
//   - DEBUG: cache hits, transform phases, poll timeouts
//   - INFO: startup, configuration, transform results
//   - WARN: recoverable storage and filesystem problems
//   - ERROR: unexpected failures caught at the editor boundary
//   - FATAL: configuration errors that stop the process
//
// The level is read once from ARTWORK_LOG_LEVEL, falling back to LOG_LEVEL.
// DEBUG=1 forces debug output regardless of either.
package logging
