package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a KV persisted as a single JSON file. It gives the terminal
// console the same "survives a reload" property the original had from the
// browser's tab-scoped storage: the session outlives one process invocation
// but is only as durable as the file. Every write rewrites the whole file.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// NewFileStore loads the store at path, creating parent directories as
// needed. A missing or unreadable file starts empty rather than failing:
// storage corruption must look like "no session", not like an error.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	s := &FileStore{path: path, data: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if err == nil {
		_ = json.Unmarshal(raw, &s.data)
	}
	if s.data == nil {
		s.data = make(map[string]string)
	}
	return s, nil
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.flush()
}

func (s *FileStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	s.flush()
}

// flush persists the whole map. Write failures are swallowed: the in-memory
// view stays authoritative for the life of the process.
func (s *FileStore) flush() {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return
	}
	_ = os.WriteFile(s.path, raw, 0o600)
}
