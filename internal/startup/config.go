package startup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"artwork-helper/internal/logging"

	"github.com/BurntSushi/toml"
)

// Defaults
const (
	DefaultDataDir      = "/data"
	DefaultRawCacheDir  = "/thumbnails"
	DefaultPort         = "8080"
	DefaultPollInterval = 20 * time.Millisecond
	DefaultPollTimeout  = 2 * time.Second
	DefaultShift        = 0.4
	DefaultJPEGQuality  = 90

	configFileName   = "artwork-helper.toml"
	databaseFileName = "artwork.db"
)

// Config holds all application configuration
type Config struct {
	DataDir      string
	RawCacheDir  string
	DatabasePath string
	Port         string
	PollInterval time.Duration
	PollTimeout  time.Duration
	UseVips      bool
	Shift        float64
	JPEGQuality  int

	LogHealthChecks bool

	// Processes are the art types processed when a request names none.
	Processes map[string]string

	// ConfigFile is the TOML file that was loaded, if any.
	ConfigFile string
}

// TempDir is where sources without a raw cache copy are staged.
func (c *Config) TempDir() string {
	return filepath.Join(c.DataDir, "temp")
}

// OutputDir holds one folder per transform.
func (c *Config) OutputDir() string {
	return c.DataDir
}

// fileConfig mirrors the TOML file. Pointers distinguish unset values.
type fileConfig struct {
	DataDir      *string           `toml:"data_dir"`
	RawCacheDir  *string           `toml:"raw_cache_dir"`
	DatabasePath *string           `toml:"database_path"`
	Port         *string           `toml:"port"`
	UseVips      *bool             `toml:"use_vips"`
	Processes    map[string]string `toml:"processes"`
	Poll         struct {
		Interval *time.Duration `toml:"interval"`
		Timeout  *time.Duration `toml:"timeout"`
	} `toml:"poll"`
	Color struct {
		Shift       *float64 `toml:"shift"`
		JPEGQuality *int     `toml:"jpeg_quality"`
	} `toml:"color"`
}

// LoadConfig builds the configuration from defaults, the TOML file named by
// path (or ARTWORK_CONFIG, or the default location) and the environment.
// An explicitly named file must exist.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		DataDir:      DefaultDataDir,
		RawCacheDir:  DefaultRawCacheDir,
		Port:         DefaultPort,
		PollInterval: DefaultPollInterval,
		PollTimeout:  DefaultPollTimeout,
		Shift:        DefaultShift,
		JPEGQuality:  DefaultJPEGQuality,
		Processes:    map[string]string{},
	}

	explicit := true
	if path == "" {
		path = os.Getenv("ARTWORK_CONFIG")
	}
	if path == "" {
		explicit = false
		path = filepath.Join(getEnv("ARTWORK_DATA_DIR", DefaultDataDir), configFileName)
	}

	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		logging.Debug("No configuration file at %s", path)
	}

	cfg.applyEnv()

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(cfg.DataDir, databaseFileName)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	c.ConfigFile = path

	setIf(&c.DataDir, fc.DataDir)
	setIf(&c.RawCacheDir, fc.RawCacheDir)
	setIf(&c.DatabasePath, fc.DatabasePath)
	setIf(&c.Port, fc.Port)
	setIf(&c.UseVips, fc.UseVips)
	setIf(&c.PollInterval, fc.Poll.Interval)
	setIf(&c.PollTimeout, fc.Poll.Timeout)
	setIf(&c.Shift, fc.Color.Shift)
	setIf(&c.JPEGQuality, fc.Color.JPEGQuality)
	for artType, transform := range fc.Processes {
		c.Processes[artType] = transform
	}
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (c *Config) applyEnv() {
	c.DataDir = getEnv("ARTWORK_DATA_DIR", c.DataDir)
	c.RawCacheDir = getEnv("ARTWORK_RAW_CACHE_DIR", c.RawCacheDir)
	c.DatabasePath = getEnv("ARTWORK_DATABASE_PATH", c.DatabasePath)
	c.Port = getEnv("ARTWORK_PORT", c.Port)
	c.PollInterval = getEnvDuration("ARTWORK_POLL_INTERVAL", c.PollInterval)
	c.PollTimeout = getEnvDuration("ARTWORK_POLL_TIMEOUT", c.PollTimeout)
	c.UseVips = getEnvBool("ARTWORK_USE_VIPS", c.UseVips)
	c.LogHealthChecks = getEnvBool("LOG_HEALTH_CHECKS", c.LogHealthChecks)
}

// Overrides are command line values; zero values leave the config alone.
type Overrides struct {
	DataDir      string
	RawCacheDir  string
	DatabasePath string
	Port         string
	PollTimeout  time.Duration
	UseVips      *bool
}

// Apply applies command line overrides and validates the result.
func (c *Config) Apply(o Overrides) error {
	if o.DataDir != "" {
		if c.DatabasePath == filepath.Join(c.DataDir, databaseFileName) {
			c.DatabasePath = filepath.Join(o.DataDir, databaseFileName)
		}
		c.DataDir = o.DataDir
	}
	if o.RawCacheDir != "" {
		c.RawCacheDir = o.RawCacheDir
	}
	if o.DatabasePath != "" {
		c.DatabasePath = o.DatabasePath
	}
	if o.Port != "" {
		c.Port = o.Port
	}
	if o.PollTimeout > 0 {
		c.PollTimeout = o.PollTimeout
	}
	if o.UseVips != nil {
		c.UseVips = *o.UseVips
	}
	return c.Validate()
}

// Validate checks value ranges and makes directory paths absolute.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data directory is required")
	}
	if c.PollInterval <= 0 || c.PollTimeout <= 0 {
		return fmt.Errorf("poll interval and timeout must be positive (got %v, %v)", c.PollInterval, c.PollTimeout)
	}
	if c.PollInterval > c.PollTimeout {
		return fmt.Errorf("poll interval %v exceeds poll timeout %v", c.PollInterval, c.PollTimeout)
	}
	if c.Shift < 0 || c.Shift > 1 {
		return fmt.Errorf("color shift %v outside [0,1]", c.Shift)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality %d outside [1,100]", c.JPEGQuality)
	}

	var err error
	for _, p := range []*string{&c.DataDir, &c.RawCacheDir, &c.DatabasePath} {
		if *p == "" {
			continue
		}
		if *p, err = filepath.Abs(*p); err != nil {
			return fmt.Errorf("failed to resolve path: %w", err)
		}
	}
	return nil
}

// Prepare creates the data directory layout and checks it is writable.
// folders are the transform output folders.
func (c *Config) Prepare(folders ...string) error {
	if err := ensureDirectory(c.DataDir, "data"); err != nil {
		return fmt.Errorf("data directory error: %w", err)
	}
	if err := testWriteAccess(c.DataDir); err != nil {
		return fmt.Errorf("data directory is not writable: %w", err)
	}

	for _, dir := range append([]string{c.TempDir()}, prefixed(c.OutputDir(), folders)...) {
		if err := ensureDirectory(dir, filepath.Base(dir)); err != nil {
			return err
		}
	}

	dbDir := filepath.Dir(c.DatabasePath)
	if err := ensureDirectory(dbDir, "database"); err != nil {
		return fmt.Errorf("database directory error: %w", err)
	}

	if info, err := os.Stat(c.RawCacheDir); err != nil || !info.IsDir() {
		logging.Warn("Raw artwork cache %s is not available; sources will be staged", c.RawCacheDir)
	}
	return nil
}

func prefixed(root string, names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = filepath.Join(root, name)
	}
	return out
}
