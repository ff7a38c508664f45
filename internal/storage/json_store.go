package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is the on-disk layout of a JSON data file
type Store struct {
	Version   int                        `json:"version"`
	Snapshots map[string]json.RawMessage `json:"snapshots"`
}

type JSONStore struct {
	mu    sync.Mutex
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read storage: %w", err)
		}
		s.store = &Store{
			Version:   1,
			Snapshots: make(map[string]json.RawMessage),
		}
		return s.save()
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	// Ensure maps are initialized
	if s.store.Snapshots == nil {
		s.store.Snapshots = make(map[string]json.RawMessage)
	}

	return nil
}

func (s *JSONStore) Load(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return nil, ErrNotLoaded
	}
	raw, ok := s.store.Snapshots[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	// The file is indented on write; callers get the compact form back.
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("snapshot %s is corrupted: %w", key, err)
	}
	return buf.Bytes(), nil
}

func (s *JSONStore) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return ErrNotLoaded
	}
	if !json.Valid(data) {
		return fmt.Errorf("snapshot %s is not valid JSON", key)
	}
	prev, had := s.store.Snapshots[key]
	s.store.Snapshots[key] = append(json.RawMessage(nil), data...)
	if err := s.save(); err != nil {
		if had {
			s.store.Snapshots[key] = prev
		} else {
			delete(s.store.Snapshots, key)
		}
		return err
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// save writes to a temp file and renames it over the data file so a crash
// never leaves a half-written store.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}
