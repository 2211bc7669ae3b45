package artwork

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"artwork-helper/internal/filesystem"
	"artwork-helper/internal/logging"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // WebP artwork from scrapers
)

// ErrDecode marks source bytes that are not a decodable image.
var ErrDecode = errors.New("cannot decode image")

// ImageDimensions holds image width and height
type ImageDimensions struct {
	Width  int
	Height int
}

// GetImageDimensions returns image dimensions without fully decoding the image
func GetImageDimensions(path string) (*ImageDimensions, error) {
	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &ImageDimensions{
		Width:  config.Width,
		Height: config.Height,
	}, nil
}

// Decode reads an image in any registered format, applying EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// Open decodes the source image at path for transform t. With libvips
// available, sources larger than the transform's working size are shrunk
// during decoding.
func (p *Processor) Open(path string, t Transform) (image.Image, error) {
	if IsVipsAvailable() && t.Valid() {
		bound := t.spec().bound
		if dims, err := GetImageDimensions(path); err == nil && (dims.Width > bound.X || dims.Height > bound.Y) {
			img, err := LoadImageWithVips(path, bound.X, bound.Y)
			if err == nil {
				return img, nil
			}
			logging.Debug("vips load failed for %s, falling back to imaging: %v", path, err)
		}
	}

	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open source %s: %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logging.Warn("failed to close source %s: %v", path, err)
		}
	}()

	img, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
