package server

import (
	"context"
	"net/http"
	"time"

	"artwork-helper/internal/editor"
	"artwork-helper/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ArtworkProcessor produces the attribute map of one item; *editor.Editor
// implements it.
type ArtworkProcessor interface {
	ImageProcessor(ctx context.Context, itemID, sourceContext string, processes map[string]string, url string) map[string]string
}

// Counter reports the lookup row count; *database.Store implements it.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Throttle holds requests back under resource pressure; *memory.Monitor
// implements it.
type Throttle interface {
	Wait(ctx context.Context) error
}

// Config holds the server settings taken from the application config.
type Config struct {
	// Processes apply when a request names none.
	Processes map[string]string
	// MaxConcurrent bounds simultaneous artwork requests.
	MaxConcurrent int
	// Throttle, when set, is waited on before each artwork request runs.
	Throttle Throttle
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	processor ArtworkProcessor
	contexts  *editor.ContextStore
	store     Counter
	processes map[string]string
	sem       chan struct{}
	throttle  Throttle
	startTime time.Time
}

// New creates a Server. contexts receives the art URLs posted with requests.
func New(processor ArtworkProcessor, contexts *editor.ContextStore, store Counter, cfg Config) *Server {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	return &Server{
		processor: processor,
		contexts:  contexts,
		store:     store,
		processes: cfg.Processes,
		sem:       make(chan struct{}, cfg.MaxConcurrent),
		throttle:  cfg.Throttle,
		startTime: time.Now(),
	}
}

// Router returns the route table with request metrics installed.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))

	r.HandleFunc("/healthz", s.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", s.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", s.HealthCheck).Methods("GET")
	r.HandleFunc("/version", s.GetVersion).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/artwork", s.ProcessArtwork).Methods("POST")
	api.HandleFunc("/context/{name}", s.DeleteContext).Methods("DELETE")

	return r
}

// Handler wraps router with access logging.
func Handler(router http.Handler, logHealthChecks bool) http.Handler {
	return middleware.Logger(middleware.LoggingConfig{
		SkipPaths:       []string{"/metrics"},
		LogHealthChecks: logHealthChecks,
	})(router)
}

// acquire takes a semaphore slot and waits out the throttle, giving up
// when ctx ends first.
func (s *Server) acquire(ctx context.Context) bool {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return false
	}
	if s.throttle != nil {
		if err := s.throttle.Wait(ctx); err != nil {
			<-s.sem
			return false
		}
	}
	return true
}

func (s *Server) release() {
	<-s.sem
}
