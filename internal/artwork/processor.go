package artwork

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"time"

	"artwork-helper/internal/colors"
	"artwork-helper/internal/logging"
	"artwork-helper/internal/metrics"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

const (
	cropMaxWidth       = 1840
	cropMaxHeight      = 713
	cropFinalWidth     = 1600
	cropFinalHeight    = 620
	blurMaxWidth       = 480
	blurMaxHeight      = 270
	blurRadius         = 50
	defaultJPEGQuality = 90
)

// ErrEmptyBoundingBox is returned by Crop when the image has no visible pixel.
var ErrEmptyBoundingBox = errors.New("image has no non-transparent pixels")

// Result is the output of a successful transform.
type Result struct {
	Image      image.Image
	Data       []byte
	Format     imaging.Format
	Color      string
	Contrast   string
	Luminosity int
}

// Processor runs transforms. It holds no per-image state and is safe for
// concurrent use.
type Processor struct {
	shift       float64
	jpegQuality int
}

// Option configures a Processor.
type Option func(*Processor)

// WithShift sets the lightness shift used for contrast colors.
func WithShift(shift float64) Option {
	return func(p *Processor) { p.shift = shift }
}

// WithJPEGQuality sets the quality of Blur output.
func WithJPEGQuality(quality int) Option {
	return func(p *Processor) {
		if quality > 0 && quality <= 100 {
			p.jpegQuality = quality
		}
	}
}

// NewProcessor returns a Processor with the default shift and JPEG quality.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		shift:       colors.DefaultShift,
		jpegQuality: defaultJPEGQuality,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Transform runs t on img, analyzes the result and encodes it.
func (p *Processor) Transform(t Transform, img image.Image) (*Result, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTransform, int(t))
	}
	if img == nil {
		return nil, fmt.Errorf("%s: nil image", t)
	}

	start := time.Now()
	spec := t.spec()

	out, err := spec.run(p, img)
	if err != nil {
		recordTransform(t, "error_transform", start)
		return nil, fmt.Errorf("%s failed: %w", t, err)
	}

	phase := time.Now()
	analysis := colors.Analyze(out, p.shift)
	observePhase(t.String(), "analyze", phase)

	phase = time.Now()
	var buf bytes.Buffer
	if spec.format == imaging.JPEG {
		err = imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(p.jpegQuality))
	} else {
		err = imaging.Encode(&buf, out, spec.format)
	}
	if err != nil {
		recordTransform(t, "error_encode", start)
		return nil, fmt.Errorf("%s: failed to encode %s: %w", t, spec.format, err)
	}
	observePhase(t.String(), "encode", phase)

	recordTransform(t, "success", start)
	logging.Debug("%s: %dx%d -> %dx%d, color %s, luminosity %d",
		t, img.Bounds().Dx(), img.Bounds().Dy(), out.Bounds().Dx(), out.Bounds().Dy(),
		analysis.Color, analysis.LuminosityInt())

	return &Result{
		Image:      out,
		Data:       buf.Bytes(),
		Format:     spec.format,
		Color:      analysis.Color,
		Contrast:   analysis.Contrast,
		Luminosity: analysis.LuminosityInt(),
	}, nil
}

// crop shrinks oversized logos, trims them to their visible content and
// shrinks again if the trimmed logo is still too large.
func (p *Processor) crop(img image.Image) (image.Image, error) {
	phase := time.Now()
	nrgba := imaging.Clone(img)
	if exceeds(nrgba, cropMaxWidth, cropMaxHeight) {
		nrgba = imaging.Fit(nrgba, cropMaxWidth, cropMaxHeight, imaging.Lanczos)
	}
	observePhase(cropName, "resize", phase)

	box, ok := alphaBounds(nrgba)
	if !ok {
		return nil, ErrEmptyBoundingBox
	}
	if box != nrgba.Bounds() {
		nrgba = imaging.Crop(nrgba, box)
	}

	if exceeds(nrgba, cropFinalWidth, cropFinalHeight) {
		nrgba = imaging.Fit(nrgba, cropFinalWidth, cropFinalHeight, imaging.Lanczos)
	}
	return nrgba, nil
}

// blur shrinks fanart to backdrop size and blurs it.
func (p *Processor) blur(img image.Image) (image.Image, error) {
	phase := time.Now()
	small := img
	if exceeds(img, blurMaxWidth, blurMaxHeight) {
		small = imaging.Fit(img, blurMaxWidth, blurMaxHeight, imaging.Lanczos)
	}
	observePhase(blurName, "resize", phase)

	phase = time.Now()
	out := blur.Gaussian(small, blurRadius)
	observePhase(blurName, "blur", phase)
	return out, nil
}

func exceeds(img image.Image, width, height int) bool {
	b := img.Bounds()
	return b.Dx() > width || b.Dy() > height
}

// alphaBounds returns the smallest rectangle containing every pixel whose
// alpha is non-zero.
func alphaBounds(img *image.NRGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] == 0 {
				continue
			}
			px := b.Min.X + x
			if px < minX {
				minX = px
			}
			if px > maxX {
				maxX = px
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < minX || maxY < minY {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// observePhase takes a name: transform functions must not reference the
// dispatch table they are stored in.
func observePhase(name, phase string, start time.Time) {
	metrics.TransformDuration.WithLabelValues(name, phase).Observe(time.Since(start).Seconds())
}

func recordTransform(t Transform, status string, start time.Time) {
	metrics.TransformsTotal.WithLabelValues(t.String(), status).Inc()
	metrics.TransformDuration.WithLabelValues(t.String(), "total").Observe(time.Since(start).Seconds())
}
