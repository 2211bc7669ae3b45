package editor

import (
	"context"
	"maps"
	"sync"
)

// ContextResolver looks up the artwork URL of an art type in a UI context.
// ok is false while the context has not been populated yet.
type ContextResolver interface {
	Resolve(ctx context.Context, sourceContext, artType string) (url string, ok bool)
}

// ContextStore is a ContextResolver fed by the host: art URLs are put under
// a context name and read back by the Editor, possibly before they arrive.
type ContextStore struct {
	mu       sync.RWMutex
	contexts map[string]map[string]string
}

// NewContextStore returns an empty store.
func NewContextStore() *ContextStore {
	return &ContextStore{contexts: make(map[string]map[string]string)}
}

// Put stores art (art type to URL) under sourceContext, merging with what
// is already there.
func (s *ContextStore) Put(sourceContext string, art map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.contexts[sourceContext]
	if !ok {
		current = make(map[string]string, len(art))
		s.contexts[sourceContext] = current
	}
	maps.Copy(current, art)
}

// Delete forgets sourceContext.
func (s *ContextStore) Delete(sourceContext string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contexts, sourceContext)
}

// Resolve implements ContextResolver.
func (s *ContextStore) Resolve(_ context.Context, sourceContext, artType string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	url, ok := s.contexts[sourceContext][artType]
	return url, ok && url != ""
}

// MetadataSource provides non-artwork attributes of an item.
type MetadataSource interface {
	Metadata(ctx context.Context, itemID string) (map[string]string, error)
}

// StaticMetadata returns the same attributes for every item.
type StaticMetadata map[string]string

// Metadata implements MetadataSource.
func (m StaticMetadata) Metadata(context.Context, string) (map[string]string, error) {
	return maps.Clone(map[string]string(m)), nil
}
