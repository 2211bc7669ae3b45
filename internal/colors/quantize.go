package colors

import (
	"image"
	"image/draw"
	"sort"
)

const (
	// PaletteSize is the number of entries produced by the quantizer.
	PaletteSize = 16

	// alphaCutoff drops pixels that are effectively transparent.
	alphaCutoff = 64
)

type bucket struct {
	c RGB
	n int
}

// histogram counts opaque colors. It never holds more entries than the
// image has pixels.
func histogram(img image.Image) []bucket {
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		b := img.Bounds()
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}

	counts := make(map[RGB]int)
	b := nrgba.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := nrgba.Pix[(y-b.Min.Y)*nrgba.Stride:]
		for x := 0; x < b.Dx(); x++ {
			px := row[x*4 : x*4+4]
			if px[3] <= alphaCutoff {
				continue
			}
			counts[RGB{R: px[0], G: px[1], B: px[2]}]++
		}
	}

	buckets := make([]bucket, 0, len(counts))
	for c, n := range counts {
		buckets = append(buckets, bucket{c: c, n: n})
	}
	// Map order is random; sort so the quantizer is deterministic.
	sort.Slice(buckets, func(i, j int) bool {
		a, b := buckets[i].c, buckets[j].c
		if a.R != b.R {
			return a.R < b.R
		}
		if a.G != b.G {
			return a.G < b.G
		}
		return a.B < b.B
	})
	return buckets
}

// box is a median-cut cell over a slice of histogram buckets.
type box struct {
	buckets []bucket
	pixels  int
}

func newBox(buckets []bucket) box {
	n := 0
	for _, b := range buckets {
		n += b.n
	}
	return box{buckets: buckets, pixels: n}
}

func channel(c RGB, ch int) uint8 {
	switch ch {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}

// widest returns the channel with the largest value range and that range.
func (bx box) widest() (ch int, spread int) {
	for i := 0; i < 3; i++ {
		lo, hi := uint8(255), uint8(0)
		for _, b := range bx.buckets {
			v := channel(b.c, i)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if d := int(hi) - int(lo); d > spread {
			ch, spread = i, d
		}
	}
	return ch, spread
}

// split cuts the box at the pixel-weighted median of its widest channel.
func (bx box) split() (box, box) {
	ch, _ := bx.widest()
	sorted := make([]bucket, len(bx.buckets))
	copy(sorted, bx.buckets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return channel(sorted[i].c, ch) < channel(sorted[j].c, ch)
	})

	half := bx.pixels / 2
	acc, cut := 0, 1
	for i, b := range sorted[:len(sorted)-1] {
		acc += b.n
		cut = i + 1
		if acc >= half {
			break
		}
	}
	return newBox(sorted[:cut]), newBox(sorted[cut:])
}

// mean is the pixel-weighted average color of the box.
func (bx box) mean() RGB {
	var r, g, b int
	for _, bk := range bx.buckets {
		r += int(bk.c.R) * bk.n
		g += int(bk.c.G) * bk.n
		b += int(bk.c.B) * bk.n
	}
	half := bx.pixels / 2
	return RGB{
		R: uint8((r + half) / bx.pixels),
		G: uint8((g + half) / bx.pixels),
		B: uint8((b + half) / bx.pixels),
	}
}

// PaletteEntry is one quantized color and the number of pixels it stands for.
type PaletteEntry struct {
	Color  RGB
	Pixels int
}

// quantize reduces the histogram to at most size colors using median cut.
// The box holding the most pixels is split first.
func quantize(buckets []bucket, size int) []PaletteEntry {
	if len(buckets) == 0 {
		return nil
	}

	boxes := []box{newBox(buckets)}
	for len(boxes) < size {
		idx := -1
		for i, bx := range boxes {
			if len(bx.buckets) < 2 {
				continue
			}
			if _, spread := bx.widest(); spread == 0 {
				continue
			}
			if idx < 0 || bx.pixels > boxes[idx].pixels {
				idx = i
			}
		}
		if idx < 0 {
			break
		}
		a, b := boxes[idx].split()
		boxes[idx] = a
		boxes = append(boxes, b)
	}

	palette := make([]PaletteEntry, 0, len(boxes))
	for _, bx := range boxes {
		palette = append(palette, PaletteEntry{Color: bx.mean(), Pixels: bx.pixels})
	}
	sort.SliceStable(palette, func(i, j int) bool {
		return palette[i].Pixels > palette[j].Pixels
	})
	return palette
}

// Palette returns the adaptive palette of the opaque pixels of img, most
// frequent entry first.
func Palette(img image.Image) []PaletteEntry {
	return quantize(histogram(img), PaletteSize)
}
