package editor

import (
	"fmt"
	"io"
	"maps"
	"sync"
)

// PresentationSink receives published attributes. It is owned by the host.
type PresentationSink interface {
	Set(key, value string)
	Clear(key string)
}

// MapSink keeps attributes in memory. It is safe for concurrent use.
type MapSink struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMapSink returns an empty MapSink.
func NewMapSink() *MapSink {
	return &MapSink{values: make(map[string]string)}
}

// Set implements PresentationSink.
func (s *MapSink) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Clear implements PresentationSink.
func (s *MapSink) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Get returns the value stored under key.
func (s *MapSink) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Snapshot returns a copy of every attribute.
func (s *MapSink) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// WriterSink writes attributes as key=value lines. A cleared key is written
// with an empty value.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink returns a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Set implements PresentationSink.
func (s *WriterSink) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "%s=%s\n", key, value)
}

// Clear implements PresentationSink.
func (s *WriterSink) Clear(key string) {
	s.Set(key, "")
}
