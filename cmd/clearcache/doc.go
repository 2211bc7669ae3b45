// Command clearcache purges or inspects the processed artwork cache.
//
// Usage:
//
//	clearcache <command> [--yes]
//
// Commands:
//
//	purge   Remove every processed and staged file (<data>/crop,
//	        <data>/blur, <data>/temp) and delete the lookup database.
//	        Asks for confirmation when stdin is a terminal; otherwise
//	        --yes is required.
//
//	status  Print the number of lookup rows and the file count and size
//	        of each output folder.
//
// Configuration is read like artwork-helper reads it: ARTWORK_CONFIG, the
// TOML file in the data directory, then ARTWORK_* environment variables.
//
// Purging while artwork-helper is processing is safe but wasteful: rows
// whose files vanish are treated as stale and regenerated.
package main
