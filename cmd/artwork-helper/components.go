package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"artwork-helper/internal/artwork"
	"artwork-helper/internal/cache"
	"artwork-helper/internal/database"
	"artwork-helper/internal/editor"
	"artwork-helper/internal/filesystem"
	"artwork-helper/internal/logging"
	"artwork-helper/internal/metrics"
	"artwork-helper/internal/startup"
)

// components are the wired services shared by the commands.
type components struct {
	cfg      *startup.Config
	store    *database.Store
	cache    *cache.Manager
	contexts *editor.ContextStore
	editor   *editor.Editor
}

type componentOptions struct {
	metadata editor.MetadataSource
}

// newComponents prepares the data directory and opens the lookup database.
func newComponents(ctx context.Context, cfg *startup.Config, opts componentOptions) (*components, error) {
	if err := cfg.Prepare(metrics.Folders...); err != nil {
		return nil, err
	}

	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		"raw":      cfg.RawCacheDir,
		"temp":     cfg.TempDir(),
		"output":   cfg.OutputDir(),
		"database": filepath.Dir(cfg.DatabasePath),
	}))

	if cfg.UseVips {
		if err := artwork.InitVips(); err != nil {
			logging.Warn("libvips unavailable: %v", err)
		}
	}
	startup.LogVipsInit(cfg.UseVips, artwork.IsVipsAvailable())

	dbStart := time.Now()
	store, err := database.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup database: %w", err)
	}
	entries, err := store.Count(ctx)
	if err != nil {
		logging.Warn("Failed to count lookup entries: %v", err)
	}
	startup.LogDatabaseInit(time.Since(dbStart), entries)

	manager := cache.NewManager(cache.Config{
		RawDir:    cfg.RawCacheDir,
		TempDir:   cfg.TempDir(),
		OutputDir: cfg.OutputDir(),
	}, store, nil)

	processor := artwork.NewProcessor(
		artwork.WithShift(cfg.Shift),
		artwork.WithJPEGQuality(cfg.JPEGQuality),
	)

	contexts := editor.NewContextStore()
	editorOpts := []editor.Option{
		editor.WithResolver(contexts),
		editor.WithPoll(cfg.PollInterval, cfg.PollTimeout),
	}
	if opts.metadata != nil {
		editorOpts = append(editorOpts, editor.WithMetadata(opts.metadata))
	}

	return &components{
		cfg:      cfg,
		store:    store,
		cache:    manager,
		contexts: contexts,
		editor:   editor.New(manager, processor, editorOpts...),
	}, nil
}

func (c *components) Close() {
	if err := c.store.Close(); err != nil {
		logging.Warn("Failed to close lookup database: %v", err)
	}
	artwork.ShutdownVips()
}
