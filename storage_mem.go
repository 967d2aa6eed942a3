package safeen

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// MemStorage is a transient in-memory Storage, mainly for tests.
type MemStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

var _ Storage = (*MemStorage)(nil)

func NewMemStorage() *MemStorage {
	return &MemStorage{blobs: make(map[string][]byte)}
}

func (s *MemStorage) ReadBlob(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBlobNotFound, name)
	}
	return slices.Clone(data), nil
}

func (s *MemStorage) WriteBlob(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[name] = slices.Clone(data)
	return nil
}

// Names returns the stored names in sorted order.
func (s *MemStorage) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.blobs))
}
