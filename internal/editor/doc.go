// Package editor turns artwork requests into published attributes.
//
// For every requested art type the Editor resolves the artwork URL, reuses
// a valid cached result or runs the transform, stores the lookup row and
// merges the metadata into one flat map:
//
//	clearlogo             /data/crop/3c1f09a2.png
//	clearlogo_color       ff1d4f7a
//	clearlogo_contrast    ff7fa9d6
//	clearlogo_luminosity  71
//
// Failures never reach the caller. An art type that cannot be resolved,
// decoded, transformed or written is left out of the map; anything
// unexpected empties the whole map and is logged at error level.
package editor
