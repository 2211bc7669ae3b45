package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"artwork-helper/internal/filesystem"
)

// ErrRemoteSource is returned for URLs that would need a network fetch.
var ErrRemoteSource = errors.New("remote artwork sources are not fetched")

// SourceOpener provides the original bytes of an artwork URL when the host
// has not cached them.
type SourceOpener interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// FileSource opens file:// URLs and plain local paths. Relative paths are
// resolved against Root when it is set.
type FileSource struct {
	Root string
}

// Open implements SourceOpener.
func (s FileSource) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := url
	switch {
	case len(url) >= len("file://") && strings.EqualFold(url[:len("file://")], "file://"):
		path = url[len("file://"):]
	case strings.Contains(url, "://"):
		return nil, fmt.Errorf("%w: %s", ErrRemoteSource, url)
	}

	if !filepath.IsAbs(path) && s.Root != "" {
		path = filepath.Join(s.Root, path)
	}

	return filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
}
