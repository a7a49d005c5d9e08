// Package storage abstracts the client-side key-value store the session is
// persisted in. The interface mirrors the browser sessionStorage surface the
// original frontend used: per-key reads, writes, and removals, last write
// wins, no transaction across keys.
package storage

import "sync"

// KV is the minimal key-value surface the session store needs. Get reports
// false when the key has never been set or has been removed.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// MemoryStore is an in-process KV. It is the test double for the session
// store and the default backing when no persistence is wanted.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *MemoryStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}
