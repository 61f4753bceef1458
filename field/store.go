package field

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store caches normalized fields by file path so stepping back and forth
// through a time series doesn't re-read and re-normalize each file.
type Store struct {
	cache *lru.Cache[string, *Field]
	load  func(path string) (*Field, error)
}

// NewStore creates a store holding at most size fields.
func NewStore(size int) (*Store, error) {
	if size < 1 {
		size = 1
	}
	c, err := lru.New[string, *Field](size)
	if err != nil {
		return nil, fmt.Errorf("creating field cache: %w", err)
	}
	return &Store{cache: c, load: Load}, nil
}

// Get returns the field for path, loading it on a miss.
func (s *Store) Get(path string) (*Field, error) {
	if f, ok := s.cache.Get(path); ok {
		return f, nil
	}
	f, err := s.load(path)
	if err != nil {
		return nil, err
	}
	if s.cache.Add(path, f) {
		slog.Debug("field store eviction", "size", s.cache.Len())
	}
	slog.Debug("field loaded", "path", path, "field", f)
	return f, nil
}

// Len returns the number of cached fields.
func (s *Store) Len() int { return s.cache.Len() }

// Purge drops every cached field.
func (s *Store) Purge() { s.cache.Purge() }
