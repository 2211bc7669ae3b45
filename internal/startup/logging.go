package startup

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"artwork-helper/internal/logging"

	"github.com/gorilla/mux"
)

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// LogStartup prints the banner, system information and cfg.
func LogStartup(cfg *Config) {
	printBanner()
	logSystemInfo()
	LogConfig(cfg)
}

// LogConfig logs the effective configuration.
func LogConfig(cfg *Config) {
	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	if cfg.ConfigFile != "" {
		logging.Info("  Config file:     %s", cfg.ConfigFile)
	}
	logging.Info("  Data dir:        %s", cfg.DataDir)
	logging.Info("  Raw cache dir:   %s", cfg.RawCacheDir)
	logging.Info("  Database:        %s", cfg.DatabasePath)
	logging.Info("  Poll:            every %v for %v", cfg.PollInterval, cfg.PollTimeout)
	logging.Info("  libvips:         %s", enabledString(cfg.UseVips))
	logging.Info("  Contrast shift:  %.2f", cfg.Shift)
	logging.Info("  JPEG quality:    %d", cfg.JPEGQuality)
	logging.Info("  LOG_LEVEL:       %s", logging.GetLevel())

	if len(cfg.Processes) > 0 {
		artTypes := make([]string, 0, len(cfg.Processes))
		for artType := range cfg.Processes {
			artTypes = append(artTypes, artType)
		}
		sort.Strings(artTypes)
		logging.Info("  Default processes:")
		for _, artType := range artTypes {
			logging.Info("    %-16s %s", artType, cfg.Processes[artType])
		}
	}
	logging.Info("")
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// LogDatabaseInit logs database initialization.
func LogDatabaseInit(duration time.Duration, entries int) {
	logging.Info("  [OK] Lookup database ready in %v (%d entries)", duration, entries)
}

// LogVipsInit logs whether libvips decoding is active.
func LogVipsInit(requested, available bool) {
	switch {
	case !requested:
		logging.Info("  [--] libvips decoding disabled")
	case available:
		logging.Info("  [OK] libvips decoding enabled")
	default:
		logging.Warn("  [!!] libvips requested but unavailable, using pure Go decoding")
	}
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   route.GetName(),
			})
		}
		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes at debug level.
func LogHTTPRoutes(router *mux.Router, logHealthChecks bool) {
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}
		sort.Slice(routes, func(i, j int) bool {
			if routes[i].Path != routes[j].Path {
				return routes[i].Path < routes[j].Path
			}
			return routes[i].Method < routes[j].Method
		})

		logging.Debug("  Registered routes (%d total):", len(routes))
		for _, route := range routes {
			logging.Debug("    %-6s %s", route.Method, route.Path)
		}
	}

	if logHealthChecks {
		logging.Info("  Health check logging: ON")
	} else {
		logging.Info("  Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("  Artwork API:     http://0.0.0.0:%s/api/artwork", config.Port)
	logging.Info("  Metrics:         http://0.0.0.0:%s/metrics", config.Port)
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(reason string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (%s)", reason)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

func printBanner() {
	banner := `
------------------------------------------------------------
    _         _                   _      _  _     _
   /_\  _ _ _| |___ __ _____ _ _ | |__  | || |___| |_ __  ___ _ _
  / _ \| '_|  _\ V  V / _ \ '_|| / /  | __ / -_) | '_ \/ -_) '_|
 /_/ \_\_|  \__|\_/\_/\___/_|  |_\_\  |_||_\___|_| .__/\___|_|
                                                 |_|
------------------------------------------------------------`
	fmt.Println(strings.TrimPrefix(banner, "\n"))
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}
	logging.Info("")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Info("  [..] %s...", step)
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Error("------------------------------------------------------------")
	logging.Error("FATAL ERROR")
	logging.Error("------------------------------------------------------------")
	logging.Fatal(format, args...)
}
