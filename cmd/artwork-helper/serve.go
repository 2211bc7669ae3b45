package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"artwork-helper/internal/cache"
	"artwork-helper/internal/filesystem"
	"artwork-helper/internal/logging"
	"artwork-helper/internal/memory"
	"artwork-helper/internal/metrics"
	"artwork-helper/internal/server"
	"artwork-helper/internal/startup"
	"artwork-helper/internal/workers"

	"github.com/urfave/cli/v2"
)

const (
	statsInterval   = time.Minute
	shutdownTimeout = 30 * time.Second
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serve the artwork API, health probes and Prometheus metrics",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Usage:   "HTTP listen port",
				EnvVars: []string{"ARTWORK_PORT"},
			},
		},
		Action: func(c *cli.Context) error {
			startTime := time.Now()
			memory.ConfigureFromEnv()

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			startup.LogStartup(cfg)

			filesystem.SetObserver(metrics.NewFilesystemObserver())
			metrics.InitializeMetrics()
			metrics.AppInfo.WithLabelValues(startup.Version, startup.Commit, startup.GoVersion).Set(1)

			comp, err := newComponents(c.Context, cfg, componentOptions{})
			if err != nil {
				return err
			}
			defer comp.Close()

			collector := metrics.NewCollector(cache.StatsProvider{
				OutputDir: cfg.OutputDir(),
				Store:     comp.store,
			}, statsInterval)
			collector.Start()
			defer collector.Stop()

			monitor := memory.NewMonitor(memory.DefaultConfig())
			monitor.Start()
			defer monitor.Stop()

			srv := server.New(comp.editor, comp.contexts, comp.store, server.Config{
				Processes:     cfg.Processes,
				MaxConcurrent: workers.ForCPU(8),
				Throttle:      monitor,
			})
			router := srv.Router()
			startup.LogHTTPRoutes(router, cfg.LogHealthChecks)

			httpServer := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           server.Handler(router, cfg.LogHealthChecks),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       15 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- httpServer.ListenAndServe()
			}()
			startup.LogServerStarted(startup.ServerConfig{Port: cfg.Port, StartupDuration: time.Since(startTime)})

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-c.Context.Done():
			}

			startup.LogShutdownInitiated("signal received")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			startup.LogShutdownStep("Shutting down HTTP server")
			if err := httpServer.Shutdown(ctx); err != nil {
				logging.Warn("Server shutdown error: %v", err)
			} else {
				startup.LogShutdownStepComplete("HTTP server stopped")
			}
			startup.LogShutdownComplete()
			return nil
		},
	}
}
