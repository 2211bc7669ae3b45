package main

import (
	"fmt"
	"strings"

	"artwork-helper/internal/startup"

	"github.com/urfave/cli/v2"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "TOML configuration file",
			EnvVars: []string{"ARTWORK_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Usage:   "Directory for processed artwork, staging and the lookup database",
			EnvVars: []string{"ARTWORK_DATA_DIR"},
		},
		&cli.StringFlag{
			Name:    "raw-cache-dir",
			Usage:   "Host thumbnail cache holding downloaded artwork",
			EnvVars: []string{"ARTWORK_RAW_CACHE_DIR"},
		},
		&cli.StringFlag{
			Name:    "database",
			Usage:   "Lookup database path (default <data-dir>/artwork.db)",
			EnvVars: []string{"ARTWORK_DATABASE_PATH"},
		},
		&cli.DurationFlag{
			Name:    "poll-timeout",
			Usage:   "How long to wait for a context to provide an artwork URL",
			EnvVars: []string{"ARTWORK_POLL_TIMEOUT"},
		},
		&cli.BoolFlag{
			Name:    "use-vips",
			Usage:   "Decode large sources with libvips shrink-on-load",
			EnvVars: []string{"ARTWORK_USE_VIPS"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "debug, info, warn or error",
			EnvVars: []string{"ARTWORK_LOG_LEVEL"},
		},
	}
}

// loadConfig merges the configuration file, environment and flags.
func loadConfig(c *cli.Context) (*startup.Config, error) {
	cfg, err := startup.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	overrides := startup.Overrides{
		DataDir:      c.String("data-dir"),
		RawCacheDir:  c.String("raw-cache-dir"),
		DatabasePath: c.String("database"),
		PollTimeout:  c.Duration("poll-timeout"),
	}
	if c.IsSet("port") {
		overrides.Port = c.String("port")
	}
	if c.IsSet("use-vips") {
		useVips := c.Bool("use-vips")
		overrides.UseVips = &useVips
	}
	if err := cfg.Apply(overrides); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parsePairs parses KEY=VALUE arguments.
func parsePairs(values []string) (map[string]string, error) {
	pairs := make(map[string]string, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected KEY=VALUE, got %q", v)
		}
		pairs[key] = strings.TrimSpace(value)
	}
	return pairs, nil
}
