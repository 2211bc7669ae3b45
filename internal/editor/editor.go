package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime/debug"
	"sort"
	"strconv"
	"time"

	"artwork-helper/internal/artwork"
	"artwork-helper/internal/cache"
	"artwork-helper/internal/database"
	"artwork-helper/internal/filesystem"
	"artwork-helper/internal/logging"
	"artwork-helper/internal/metrics"
)

// Attribute key suffixes
const (
	ColorSuffix      = "_color"
	ContrastSuffix   = "_contrast"
	LuminositySuffix = "_luminosity"
)

// Transformer decodes sources and runs transforms; *artwork.Processor
// implements it.
type Transformer interface {
	Open(path string, t artwork.Transform) (image.Image, error)
	Transform(t artwork.Transform, img image.Image) (*artwork.Result, error)
}

// Editor processes artwork requests.
type Editor struct {
	cache        *cache.Manager
	transformer  Transformer
	resolver     ContextResolver
	metadata     MetadataSource
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// Option configures an Editor.
type Option func(*Editor)

// WithResolver sets the resolver used when no URL is given.
func WithResolver(r ContextResolver) Option {
	return func(e *Editor) { e.resolver = r }
}

// WithMetadata sets the metadata source used by Update.
func WithMetadata(m MetadataSource) Option {
	return func(e *Editor) { e.metadata = m }
}

// WithPoll sets how often and how long URL resolution is retried.
func WithPoll(interval, timeout time.Duration) Option {
	return func(e *Editor) {
		if interval > 0 {
			e.pollInterval = interval
		}
		if timeout > 0 {
			e.pollTimeout = timeout
		}
	}
}

// New returns an Editor.
func New(manager *cache.Manager, transformer Transformer, opts ...Option) *Editor {
	e := &Editor{
		cache:        manager,
		transformer:  transformer,
		pollInterval: DefaultPollInterval,
		pollTimeout:  DefaultPollTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// skipError marks a failure that only drops one art type from the result.
type skipError struct {
	stage string
	err   error
}

func (e *skipError) Error() string { return e.stage + ": " + e.err.Error() }
func (e *skipError) Unwrap() error { return e.err }

func skip(stage string, err error) error {
	return &skipError{stage: stage, err: err}
}

// ImageProcessor processes every art type in processes (art type to
// transform name) and returns the merged attributes. url, when set, is used
// for every art type; otherwise the URL is resolved from sourceContext.
// The returned map is never nil.
func (e *Editor) ImageProcessor(ctx context.Context, itemID, sourceContext string, processes map[string]string, url string) (result map[string]string) {
	start := time.Now()
	status := "success"

	defer func() {
		if r := recover(); r != nil {
			logging.Error("Artwork processing for item %s panicked: %v\n%s", itemID, r, debug.Stack())
			result = map[string]string{}
			status = "error"
		}
		if status == "success" && len(result) == 0 {
			status = "empty"
		}
		metrics.EditorRequestsTotal.WithLabelValues(status).Inc()
		metrics.EditorRequestDuration.Observe(time.Since(start).Seconds())
	}()

	artTypes := make([]string, 0, len(processes))
	for artType := range processes {
		artTypes = append(artTypes, artType)
	}
	sort.Strings(artTypes)

	result = make(map[string]string)
	for _, artType := range artTypes {
		entry, err := e.processArtType(ctx, sourceContext, artType, processes[artType], url)

		var se *skipError
		switch {
		case errors.As(err, &se):
			logging.Warn("Skipping %s for item %s: %v", artType, itemID, err)
			metrics.EditorArtworkTotal.WithLabelValues(cache.Bucket(artType), "failed").Inc()
			continue
		case err != nil:
			logging.Error("Artwork processing for item %s failed: %v", itemID, err)
			status = "error"
			return map[string]string{}
		case entry == nil:
			metrics.EditorArtworkTotal.WithLabelValues(cache.Bucket(artType), "skipped").Inc()
			continue
		}

		merge(result, artType, entry)
	}
	return result
}

// processArtType returns nil without error when no URL is available.
func (e *Editor) processArtType(ctx context.Context, sourceContext, artType, transformName, url string) (*database.Entry, error) {
	t, err := artwork.ParseTransform(transformName)
	if err != nil {
		return nil, fmt.Errorf("art type %s: %w", artType, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if url == "" {
		url = e.resolveURL(ctx, sourceContext, artType)
		if url == "" {
			logging.Debug("No %s artwork for context %q", artType, sourceContext)
			return nil, nil
		}
	}

	p, err := e.cache.Prepare(url, t.Extension())
	if err != nil {
		return nil, skip("prepare", err)
	}

	if entry, ok := e.cache.ReadLookup(ctx, p); ok {
		metrics.EditorArtworkTotal.WithLabelValues(cache.Bucket(artType), "cached").Inc()
		return entry, nil
	}

	source, destination, staged, err := e.cache.ImagePaths(ctx, p, t.Folder())
	if err != nil {
		return nil, skip("source", err)
	}

	img, err := e.transformer.Open(source, t)
	if err != nil {
		return nil, skip("decode", err)
	}

	res, err := e.transformer.Transform(t, img)
	if err != nil {
		return nil, skip("transform", err)
	}

	if err := filesystem.WriteFileWithRetry(destination, res.Data, 0o644, filesystem.DefaultRetryConfig()); err != nil {
		return nil, skip("write", err)
	}
	if staged {
		e.cache.Unstage(source)
	}

	entry := &database.Entry{
		OriginalURL:   p.URL,
		ProcessedPath: destination,
		ContentHash:   p.Hash,
		Color:         res.Color,
		Contrast:      res.Contrast,
		Luminosity:    res.Luminosity,
	}
	if err := e.cache.WriteLookup(ctx, artType, entry); err != nil {
		logging.Warn("Processed %s but could not store the lookup: %v", url, err)
	}

	metrics.EditorArtworkTotal.WithLabelValues(cache.Bucket(artType), "processed").Inc()
	logging.Debug("Processed %s %s -> %s", artType, url, destination)
	return entry, nil
}

func (e *Editor) resolveURL(ctx context.Context, sourceContext, artType string) string {
	if e.resolver == nil {
		return ""
	}

	url, err := Poll(ctx, e.pollInterval, e.pollTimeout, func() (string, bool) {
		return e.resolver.Resolve(ctx, sourceContext, artType)
	})
	if errors.Is(err, ErrPollTimeout) {
		metrics.ResolveTimeoutsTotal.Inc()
		logging.Debug("Timed out resolving %s in context %q", artType, sourceContext)
	}
	return url
}

func merge(result map[string]string, artType string, entry *database.Entry) {
	category := cache.Bucket(artType)
	result[category] = entry.ProcessedPath
	result[category+ColorSuffix] = entry.Color
	result[category+ContrastSuffix] = entry.Contrast
	result[category+LuminositySuffix] = strconv.Itoa(entry.Luminosity)
}

// AttributeKeys returns the keys ImageProcessor publishes for artType.
func AttributeKeys(artType string) []string {
	category := cache.Bucket(artType)
	return []string{
		category,
		category + ColorSuffix,
		category + ContrastSuffix,
		category + LuminositySuffix,
	}
}
