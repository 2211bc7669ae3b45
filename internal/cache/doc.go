// Package cache derives cache paths for artwork URLs and decides whether a
// stored lookup row is still valid.
//
// Files are named after the host's thumbnail naming scheme: a CRC-32 of the
// lowercased, decoded URL. The host keeps the raw downloaded artwork under
// <raw>/<first hex digit>/<name>.<ext>; the helper fingerprints that file
// and stores the fingerprint with the processed result. A row is reused only
// while the fingerprint matches and the processed file still exists.
package cache
