package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"artwork-helper/internal/database"
	"artwork-helper/internal/filesystem"
	"artwork-helper/internal/logging"
	"artwork-helper/internal/metrics"
)

// Lookup is the persistence the manager needs; *database.Store implements it.
type Lookup interface {
	GetEntry(ctx context.Context, url string) (*database.Entry, error)
	AddEntry(ctx context.Context, e *database.Entry) error
}

// Config locates the directories the manager works in.
type Config struct {
	// RawDir is the host's thumbnail cache holding downloaded artwork.
	RawDir string
	// TempDir receives sources that are not in RawDir.
	TempDir string
	// OutputDir holds one folder per transform.
	OutputDir string
}

// Prepared holds everything derived from one artwork URL.
type Prepared struct {
	URL      string // decoded
	Filename string
	RawPath  string
	Hash     string // "" when RawPath does not exist
}

// Manager derives cache paths and validates lookup rows.
type Manager struct {
	cfg    Config
	lookup Lookup
	source SourceOpener
}

// NewManager returns a Manager. A nil source defaults to FileSource.
func NewManager(cfg Config, lookup Lookup, source SourceOpener) *Manager {
	if source == nil {
		source = FileSource{}
	}
	return &Manager{cfg: cfg, lookup: lookup, source: source}
}

// Config returns the directories the manager was created with.
func (m *Manager) Config() Config {
	return m.cfg
}

// Prepare decodes rawURL, names its files with extension ext and
// fingerprints the raw artwork the host cached for it.
func (m *Manager) Prepare(rawURL, ext string) (*Prepared, error) {
	decoded := DecodeURL(rawURL)
	if decoded == "" {
		return nil, errors.New("empty artwork URL")
	}

	name := ThumbName(decoded)
	p := &Prepared{
		URL:      decoded,
		Filename: name + ext,
	}
	p.RawPath = filepath.Join(m.cfg.RawDir, name[:1], p.Filename)

	hash, err := ComputeHash(p.RawPath)
	if err != nil {
		return nil, err
	}
	p.Hash = hash
	return p, nil
}

// ImagePaths returns the file to read and the file to write for p. When the
// host has no raw copy, the source is staged into the temp directory first,
// unless an earlier call already staged it; staged reports that case and the
// caller should Unstage the source once the output is written.
func (m *Manager) ImagePaths(ctx context.Context, p *Prepared, folder string) (source, destination string, staged bool, err error) {
	destination = filepath.Join(m.cfg.OutputDir, folder, p.Filename)

	if _, err := filesystem.StatWithRetry(p.RawPath, filesystem.DefaultRetryConfig()); err == nil {
		return p.RawPath, destination, false, nil
	}

	source = filepath.Join(m.cfg.TempDir, p.Filename)
	if _, err := filesystem.StatWithRetry(source, filesystem.DefaultRetryConfig()); err == nil {
		logging.Debug("Reusing staged source %s", source)
		return source, destination, true, nil
	}

	if err := m.stage(ctx, p.URL, source); err != nil {
		return "", "", false, err
	}
	metrics.CacheStagedTotal.Inc()
	return source, destination, true, nil
}

func (m *Manager) stage(ctx context.Context, url, path string) error {
	r, err := m.source.Open(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to open source %s: %w", url, err)
	}
	defer func() {
		if err := r.Close(); err != nil {
			logging.Warn("failed to close source %s: %v", url, err)
		}
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read source %s: %w", url, err)
	}
	if err := filesystem.WriteFileWithRetry(path, data, 0o644, filesystem.DefaultRetryConfig()); err != nil {
		return fmt.Errorf("failed to stage %s: %w", url, err)
	}
	return nil
}

// Unstage removes a staged source file.
func (m *Manager) Unstage(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to remove staged source %s: %v", path, err)
	}
}

// ReadLookup returns the stored row for p if it is still valid: its hash
// matches p.Hash and its processed file exists. Store errors count as a
// miss.
func (m *Manager) ReadLookup(ctx context.Context, p *Prepared) (*database.Entry, bool) {
	entry, err := m.lookup.GetEntry(ctx, p.URL)
	if errors.Is(err, database.ErrNotFound) {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		logging.Warn("Lookup read failed for %s: %v", p.URL, err)
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	if !ValidateHash(entry.ContentHash, p.Hash) {
		logging.Debug("Cached artwork for %s is stale: hash changed", p.URL)
		metrics.CacheLookupsTotal.WithLabelValues("stale").Inc()
		return nil, false
	}
	if _, err := filesystem.StatWithRetry(entry.ProcessedPath, filesystem.DefaultRetryConfig()); err != nil {
		logging.Debug("Cached artwork for %s is stale: %v", p.URL, err)
		metrics.CacheLookupsTotal.WithLabelValues("stale").Inc()
		return nil, false
	}

	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return entry, true
}

// WriteLookup stores entry under the bucket of artType.
func (m *Manager) WriteLookup(ctx context.Context, artType string, entry *database.Entry) error {
	entry.Category = Bucket(artType)
	if err := m.lookup.AddEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to store lookup for %s: %w", entry.OriginalURL, err)
	}
	return nil
}

// Bucket maps an art type to its stored category. Every clearlogo variant
// shares one bucket.
func Bucket(artType string) string {
	if strings.HasPrefix(strings.ToLower(artType), "clearlogo") {
		return "clearlogo"
	}
	return artType
}
