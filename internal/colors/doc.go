// Package colors analyzes processed artwork: it extracts the dominant color,
// scores its luminosity and derives an accent color that stands out against
// it.
//
// Colors leave this package as 8-digit ARGB hex strings with the alpha
// channel forced to "ff", which is the format skins consume directly.
package colors
