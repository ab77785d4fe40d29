package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStorePutGetDelete(t *testing.T) {
	s := NewMemoryStore()
	id := s.Put("/tmp/part.stl")

	path, ok := s.Get(id)
	assert.True(t, ok)
	assert.Equal(t, "/tmp/part.stl", path)

	s.Delete(id)
	_, ok = s.Get(id)
	assert.False(t, ok, "expected id to be gone after Delete")
}

func TestMemoryStoreMintsDistinctIDs(t *testing.T) {
	s := NewMemoryStore()
	a := s.Put("/tmp/a.stl")
	b := s.Put("/tmp/b.stl")
	assert.NotEqual(t, a, b, "expected distinct ids for distinct Put calls")
}
