package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps every key in a single JSON document on disk. The file is
// re-read on each call so separate CLI invocations observe each other's
// writes, and rewritten atomically through a temp file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location
func (f *FileStore) Path() string {
	return f.path
}

// Get retrieves the value stored under key
func (f *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, false, err
	}
	value, ok := doc[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

// Set stores value under key.
// An unreadable document is replaced rather than blocking every later write.
func (f *FileStore) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		doc = make(map[string]string)
	}
	doc[key] = string(value)
	return f.write(doc)
}

// Delete removes key
func (f *FileStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		doc = make(map[string]string)
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return f.write(doc)
}

func (f *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}
	if len(data) == 0 {
		return make(map[string]string), nil
	}

	doc := make(map[string]string)
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode storage file: %w", err)
	}
	return doc, nil
}

func (f *FileStore) write(doc map[string]string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage file: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".storage-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(storageFileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), f.path)
}

// The file holds the auth token.
const storageFileMode os.FileMode = 0o600
