package artwork

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"artwork-helper/internal/logging"
	"artwork-helper/internal/metrics"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"
)

var (
	vipsMutex     sync.Mutex
	vipsAvailable bool
)

// vipsLevel returns the most verbose libvips level worth forwarding at the
// given application log level.
func vipsLevel(level logging.LogLevel) vips.LogLevel {
	switch level {
	case logging.LevelDebug:
		return vips.LogLevelInfo
	case logging.LevelInfo:
		return vips.LogLevelWarning
	case logging.LevelWarn:
		return vips.LogLevelError
	default:
		return vips.LogLevelCritical
	}
}

func forwardVipsLog(domain string, level vips.LogLevel, msg string) {
	switch level {
	case vips.LogLevelError, vips.LogLevelCritical:
		logging.Error("[%s] %s", domain, msg)
	case vips.LogLevelWarning:
		logging.Warn("[%s] %s", domain, msg)
	default:
		logging.Debug("[%s] %s", domain, msg)
	}
}

// InitVips starts libvips for shrink-on-load decoding. It is optional: until
// it is called, Open decodes everything with the imaging library.
func InitVips() error {
	vipsMutex.Lock()
	defer vipsMutex.Unlock()

	if vipsAvailable {
		return nil
	}

	vips.LoggingSettings(forwardVipsLog, vipsLevel(logging.GetLevel()))

	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
	})

	vipsAvailable = true
	logging.Info("libvips initialized (version: %s)", vips.Version)
	return nil
}

// ShutdownVips releases libvips resources.
func ShutdownVips() {
	vipsMutex.Lock()
	defer vipsMutex.Unlock()

	if vipsAvailable {
		vips.Shutdown()
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available
func IsVipsAvailable() bool {
	vipsMutex.Lock()
	defer vipsMutex.Unlock()
	return vipsAvailable
}

// LoadImageWithVips decodes path with libvips, fitting it inside
// maxWidth x maxHeight. The result goes through PNG so alpha survives.
func LoadImageWithVips(path string, maxWidth, maxHeight int) (image.Image, error) {
	if !IsVipsAvailable() {
		return nil, fmt.Errorf("libvips not available")
	}

	ref, err := vips.LoadImageFromFile(path, vips.NewImportParams())
	if err != nil {
		metrics.VipsLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	logging.Debug("vips loaded %s: %dx%d, fitting into %dx%d",
		filepath.Base(path), ref.Width(), ref.Height(), maxWidth, maxHeight)

	if err := ref.Thumbnail(maxWidth, maxHeight, vips.InterestingNone); err != nil {
		metrics.VipsLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("vips resize failed: %w", err)
	}

	data, _, err := ref.ExportPng(vips.NewPngExportParams())
	if err != nil {
		metrics.VipsLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("vips export failed: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		metrics.VipsLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to decode vips output: %w", err)
	}

	metrics.VipsLoadsTotal.WithLabelValues("success").Inc()
	return img, nil
}
