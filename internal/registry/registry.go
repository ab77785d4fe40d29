// Package registry maps opaque file ids to on-disk paths, the
// bookkeeping an upload/split HTTP layer needs between requests.
package registry

import (
	"sync"

	"github.com/google/uuid"
)

// Store maps file ids to filesystem paths.
type Store interface {
	Put(path string) string
	Get(id string) (string, bool)
	Delete(id string)
}

// memoryStore is an in-memory, mutex-protected Store. File ids are minted
// with google/uuid; nothing here persists across process restarts.
type memoryStore struct {
	mu    sync.RWMutex
	paths map[string]string
}

// NewMemoryStore returns a Store backed by an in-memory map.
func NewMemoryStore() Store {
	return &memoryStore{paths: make(map[string]string)}
}

func (s *memoryStore) Put(path string) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.paths[id] = path
	s.mu.Unlock()
	return id
}

func (s *memoryStore) Get(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.paths[id]
	return p, ok
}

func (s *memoryStore) Delete(id string) {
	s.mu.Lock()
	delete(s.paths, id)
	s.mu.Unlock()
}
