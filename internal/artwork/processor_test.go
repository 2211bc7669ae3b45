package artwork

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// newLogo returns a transparent canvas with an opaque gradient rectangle.
func newLogo(width, height int, content image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := content.Min.Y; y < content.Max.Y; y++ {
		for x := content.Min.X; x < content.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func TestCropOpaqueImageIsUnchanged(t *testing.T) {
	src := newLogo(120, 48, image.Rect(0, 0, 120, 48))

	res, err := NewProcessor().Transform(Crop, src)
	if err != nil {
		t.Fatalf("Transform(Crop) error: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 120 || decoded.Bounds().Dy() != 48 {
		t.Fatalf("output size = %v, want 120x48", decoded.Bounds())
	}
	for y := 0; y < 48; y++ {
		for x := 0; x < 120; x++ {
			want := src.NRGBAAt(x, y)
			got := color.NRGBAModel.Convert(decoded.At(x, y)).(color.NRGBA)
			if got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestCropTrimsTransparentBorder(t *testing.T) {
	src := newLogo(200, 100, image.Rect(50, 20, 150, 60))

	res, err := NewProcessor().Transform(Crop, src)
	if err != nil {
		t.Fatalf("Transform(Crop) error: %v", err)
	}
	if b := res.Image.Bounds(); b.Dx() != 100 || b.Dy() != 40 {
		t.Errorf("cropped size = %dx%d, want 100x40", b.Dx(), b.Dy())
	}
}

func TestCropKeepsSemiTransparentPixels(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	src.SetNRGBA(10, 10, color.NRGBA{R: 255, A: 1})
	src.SetNRGBA(30, 40, color.NRGBA{G: 255, A: 255})

	res, err := NewProcessor().Transform(Crop, src)
	if err != nil {
		t.Fatalf("Transform(Crop) error: %v", err)
	}
	if b := res.Image.Bounds(); b.Dx() != 21 || b.Dy() != 31 {
		t.Errorf("cropped size = %dx%d, want 21x31", b.Dx(), b.Dy())
	}
}

func TestCropFullyTransparentFails(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 64))

	res, err := NewProcessor().Transform(Crop, src)
	if !errors.Is(err, ErrEmptyBoundingBox) {
		t.Fatalf("error = %v, want ErrEmptyBoundingBox", err)
	}
	if res != nil {
		t.Error("expected nil result")
	}
}

func TestCropDownscalesLargeLogos(t *testing.T) {
	src := newLogo(3680, 1426, image.Rect(0, 0, 3680, 1426))

	res, err := NewProcessor().Transform(Crop, src)
	if err != nil {
		t.Fatalf("Transform(Crop) error: %v", err)
	}
	b := res.Image.Bounds()
	if b.Dx() > cropFinalWidth || b.Dy() > cropFinalHeight {
		t.Errorf("output %dx%d exceeds %dx%d", b.Dx(), b.Dy(), cropFinalWidth, cropFinalHeight)
	}
	if b.Dx() != cropFinalWidth {
		t.Errorf("width = %d, want %d (aspect preserved, width bound)", b.Dx(), cropFinalWidth)
	}
}

func TestCropResultMetadata(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	res, err := NewProcessor().Transform(Crop, src)
	if err != nil {
		t.Fatalf("Transform(Crop) error: %v", err)
	}
	if res.Color != "ffffffff" || res.Contrast != "ff999999" || res.Luminosity != 1000 {
		t.Errorf("metadata = %s/%s/%d, want ffffffff/ff999999/1000", res.Color, res.Contrast, res.Luminosity)
	}
}

func TestBlurShrinksAndEncodesJPEG(t *testing.T) {
	src := newLogo(1920, 1080, image.Rect(0, 0, 1920, 1080))

	res, err := NewProcessor().Transform(Blur, src)
	if err != nil {
		t.Fatalf("Transform(Blur) error: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if cfg.Width != 480 || cfg.Height != 270 {
		t.Errorf("output size = %dx%d, want 480x270", cfg.Width, cfg.Height)
	}
	if len(res.Color) != 8 || len(res.Contrast) != 8 {
		t.Errorf("colors %q/%q are not 8-digit ARGB", res.Color, res.Contrast)
	}
	if res.Luminosity < 0 || res.Luminosity > 1000 {
		t.Errorf("luminosity %d outside [0,1000]", res.Luminosity)
	}
}

func TestBlurKeepsSmallImagesSize(t *testing.T) {
	src := newLogo(200, 100, image.Rect(0, 0, 200, 100))

	res, err := NewProcessor().Transform(Blur, src)
	if err != nil {
		t.Fatalf("Transform(Blur) error: %v", err)
	}
	if b := res.Image.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("blurred size = %dx%d, want 200x100", b.Dx(), b.Dy())
	}
}

func TestTransformRejectsInvalidInput(t *testing.T) {
	p := NewProcessor()
	if _, err := p.Transform(Transform(0), image.NewNRGBA(image.Rect(0, 0, 1, 1))); !errors.Is(err, ErrUnknownTransform) {
		t.Errorf("invalid transform error = %v", err)
	}
	if _, err := p.Transform(Crop, nil); err == nil {
		t.Error("nil image should fail")
	}
}

func TestAlphaBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	if _, ok := alphaBounds(img); ok {
		t.Error("empty image should have no bounds")
	}
	img.SetNRGBA(3, 4, color.NRGBA{A: 10})
	img.SetNRGBA(7, 2, color.NRGBA{A: 10})
	got, ok := alphaBounds(img)
	if !ok || got != image.Rect(3, 2, 8, 5) {
		t.Errorf("alphaBounds = %v, %v; want (3,2)-(8,5)", got, ok)
	}
}
