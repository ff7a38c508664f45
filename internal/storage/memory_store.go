package storage

import (
	"fmt"
	"sync"
)

// MemoryStore keeps snapshots in process memory. Used by tests and
// --ephemeral runs.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots map[string][]byte
	// SaveErr, when set, is returned by every Save. Tests use it to simulate
	// a failing disk.
	SaveErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]byte)}
}

func (s *MemoryStore) Init() error {
	return nil
}

func (s *MemoryStore) Load(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.snapshots[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.snapshots[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) GetConfigPath() string {
	return "memory"
}
