// Package database stores the processed-artwork lookup table in SQLite.
//
// The table maps an original artwork URL to the processed file, the hash of
// the raw bytes it was made from, and the color metadata computed for it.
// Several helper processes may share one database file, so the store keeps
// no idle connections: every call takes its own connection and releases it,
// relying on WAL mode and a busy timeout for cross-process safety.
package database
