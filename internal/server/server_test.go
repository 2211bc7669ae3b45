package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"artwork-helper/internal/editor"
)

type call struct {
	itemID, sourceContext, url string
	processes                  map[string]string
}

type fakeProcessor struct {
	mu     sync.Mutex
	calls  []call
	result map[string]string
	block  chan struct{}
}

func (f *fakeProcessor) ImageProcessor(_ context.Context, itemID, sourceContext string, processes map[string]string, url string) map[string]string {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{itemID, sourceContext, url, processes})
	if f.result == nil {
		return map[string]string{}
	}
	return f.result
}

type fakeCounter struct {
	count int
	err   error
}

func (f fakeCounter) Count(context.Context) (int, error) {
	return f.count, f.err
}

func newTestServer(p ArtworkProcessor, store Counter) (*Server, *editor.ContextStore) {
	contexts := editor.NewContextStore()
	return New(p, contexts, store, Config{
		Processes:     map[string]string{"clearlogo": "crop"},
		MaxConcurrent: 2,
	}), contexts
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/artwork", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestProcessArtwork(t *testing.T) {
	p := &fakeProcessor{result: map[string]string{"clearlogo": "/data/crop/abc.png", "clearlogo.luminosity": "213"}}
	s, _ := newTestServer(p, fakeCounter{})
	router := s.Router()

	rec := post(t, router, `{"itemId":"42","url":"image://http%3a%2f%2fhost%2flogo.png/","processes":{"clearlogo":"crop","fanart":"blur"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var got map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["clearlogo.luminosity"] != "213" {
		t.Errorf("response = %v", got)
	}

	if len(p.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(p.calls))
	}
	c := p.calls[0]
	if c.itemID != "42" || c.url != "image://http%3a%2f%2fhost%2flogo.png/" || c.processes["fanart"] != "blur" {
		t.Errorf("call = %+v", c)
	}
}

func TestProcessArtworkDefaults(t *testing.T) {
	p := &fakeProcessor{}
	s, contexts := newTestServer(p, fakeCounter{})
	router := s.Router()

	rec := post(t, router, `{"itemId":"7","context":"home","art":{"clearlogo":"file:///art/logo.png"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if strings.TrimSpace(rec.Body.String()) != "{}" {
		t.Errorf("body = %q, want empty object", rec.Body.String())
	}

	if p.calls[0].processes["clearlogo"] != "crop" {
		t.Errorf("configured processes not applied: %v", p.calls[0].processes)
	}
	if url, ok := contexts.Resolve(context.Background(), "home", "clearlogo"); !ok || url != "file:///art/logo.png" {
		t.Errorf("art not stored in context: %q, %v", url, ok)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/context/home", nil)
	del := httptest.NewRecorder()
	router.ServeHTTP(del, req)
	if del.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", del.Code)
	}
	if _, ok := contexts.Resolve(context.Background(), "home", "clearlogo"); ok {
		t.Error("context still resolvable after delete")
	}
}

func TestProcessArtworkBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"itemId":`},
		{"unknown field", `{"itemId":"1","url":"x","colour":"red"}`},
		{"no source", `{"itemId":"1"}`},
		{"art without context", `{"itemId":"1","art":{"clearlogo":"x"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProcessor{}
			s, _ := newTestServer(p, fakeCounter{})
			rec := post(t, s.Router(), tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if len(p.calls) != 0 {
				t.Error("processor should not run for a bad request")
			}
		})
	}

	s := New(&fakeProcessor{}, editor.NewContextStore(), fakeCounter{}, Config{})
	if rec := post(t, s.Router(), `{"itemId":"1","url":"x"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("no processes anywhere: status = %d, want 400", rec.Code)
	}
}

func TestProcessArtworkCanceledWhileWaiting(t *testing.T) {
	p := &fakeProcessor{block: make(chan struct{})}
	s := New(p, editor.NewContextStore(), fakeCounter{}, Config{
		Processes:     map[string]string{"clearlogo": "crop"},
		MaxConcurrent: 1,
	})
	router := s.Router()

	done := make(chan struct{})
	go func() {
		defer close(done)
		post(t, router, `{"itemId":"1","url":"x"}`)
	}()

	// wait until the first request holds the only slot
	deadline := time.Now().Add(2 * time.Second)
	for len(s.sem) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/artwork", strings.NewReader(`{"itemId":"2","url":"y"}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	close(p.block)
	<-done
	if len(p.calls) != 1 {
		t.Errorf("calls = %d, want 1", len(p.calls))
	}
}

type blockingThrottle struct{}

func (blockingThrottle) Wait(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestProcessArtworkThrottled(t *testing.T) {
	p := &fakeProcessor{}
	s := New(p, editor.NewContextStore(), fakeCounter{}, Config{
		Processes:     map[string]string{"clearlogo": "crop"},
		MaxConcurrent: 1,
		Throttle:      blockingThrottle{},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/artwork", strings.NewReader(`{"itemId":"1","url":"x"}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if len(p.calls) != 0 {
		t.Error("processor ran while throttled")
	}
	if len(s.sem) != 0 {
		t.Error("semaphore slot leaked")
	}
}

func TestHealthCheck(t *testing.T) {
	s, _ := newTestServer(&fakeProcessor{}, fakeCounter{count: 3})
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != statusHealthy || resp.LookupEntries != 3 {
		t.Errorf("response = %+v", resp)
	}

	s, _ = newTestServer(&fakeProcessor{}, fakeCounter{err: errors.New("database is locked")})
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), statusDegraded) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestLivenessAndVersion(t *testing.T) {
	s, _ := newTestServer(&fakeProcessor{}, fakeCounter{})
	router := s.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/livez", nil))
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("HEAD /livez = %d with %d body bytes", rec.Code, rec.Body.Len())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"goVersion"`) {
		t.Errorf("GET /version = %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Errorf("GET /metrics = %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(&fakeProcessor{}, fakeCounter{})
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/artwork", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
