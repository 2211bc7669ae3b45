// Package artwork implements the two artwork transforms used by skins:
//
//   - Crop: trims transparent borders from clearlogo-style artwork and
//     encodes the result as PNG, keeping the alpha channel.
//   - Blur: shrinks fanart to a small backdrop, applies a wide Gaussian
//     blur and encodes the result as JPEG.
//
// Transforms are a closed set. Each one has a fixed output extension, output
// folder and implementation; there is no lookup by name beyond
// ParseTransform. Both transforms finish by running color analysis on the
// final image so callers receive the dominant color, contrast color and
// luminosity alongside the encoded bytes.
//
// Source images are decoded with the imaging library. When libvips has been
// initialized with InitVips, very large sources are shrunk while decoding,
// which keeps memory bounded for 4K fanart.
package artwork
