// Command artwork-helper produces the processed artwork a media center skin
// displays: cropped logos, blurred backdrops and the colors to draw them
// with.
//
// Usage:
//
//	artwork-helper [global options] <command> [options]
//
// Commands:
//
//	process  Process the artwork of one item and print key=value lines.
//	         Art URLs come from --url (used for every art type) or from
//	         --art TYPE=URL pairs stored under --context.
//
//	         artwork-helper process --url 'image://http%3a%2f%2fhost%2flogo.png/' \
//	             --process clearlogo=crop --process fanart=blur
//
//	serve    Serve POST /api/artwork, health probes and /metrics until
//	         SIGINT or SIGTERM.
//
// Global options map to the ARTWORK_* environment variables and override
// both the environment and the TOML configuration file; see package
// startup for the full list.
//
// Processed files are written under <data-dir>/crop and <data-dir>/blur and
// recorded in <data-dir>/artwork.db, which cmd/clearcache can purge.
package main
