package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type fileData struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}

// JSONFileBackend stores every key in one JSON document on disk, rewritten
// atomically on each Set.
type JSONFileBackend struct {
	mu   sync.Mutex
	path string
}

func NewJSONFileBackend(path string) *JSONFileBackend {
	return &JSONFileBackend{path: path}
}

func (s *JSONFileBackend) Init(context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	return s.write(&fileData{Version: 1, Values: map[string]string{}})
}

func (s *JSONFileBackend) Close() error { return nil }

func (s *JSONFileBackend) read() (*fileData, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fileData{Version: 1, Values: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}

	fd := &fileData{}
	if err := json.Unmarshal(data, fd); err != nil {
		return nil, fmt.Errorf("failed to parse storage: %w", err)
	}
	if fd.Values == nil {
		fd.Values = map[string]string{}
	}
	return fd, nil
}

func (s *JSONFileBackend) write(fd *fileData) error {
	data, err := json.MarshalIndent(fd, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *JSONFileBackend) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fd, err := s.read()
	if err != nil {
		return "", err
	}
	v, ok := fd.Values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *JSONFileBackend) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fd, err := s.read()
	if err != nil {
		// A corrupt document is replaced rather than blocking every write.
		fd = &fileData{Version: 1, Values: map[string]string{}}
	}
	fd.Values[key] = value
	return s.write(fd)
}

func (s *JSONFileBackend) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fd, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := fd.Values[key]; !ok {
		return nil
	}
	delete(fd.Values, key)
	return s.write(fd)
}

func (s *JSONFileBackend) Location() string { return s.path }

func (s *JSONFileBackend) Path() string { return s.path }
