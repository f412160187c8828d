package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Keys used by the tracker. Values round-trip losslessly as text.
const (
	KeyAccounts        = "ipo-accounts"
	KeyTotalInvestment = "total-investment"
)

// Store is the persistence contract: a flat key-value space with last-writer-
// wins semantics and no partial-write visibility.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Open returns a file-backed store rooted at path, falling back to an
// in-memory store when the file cannot be created or read. The fallback is
// logged and never fatal: the tracker keeps working with in-memory state.
func Open(path string, logger *log.Logger) Store {
	fs, err := NewFileStore(path)
	if err != nil {
		logger.Error("falling back to in-memory store", "path", path, "error", err)
		return NewMemStore()
	}
	return fs
}

// FileStore persists the whole key space as one YAML mapping on disk. Every
// Set rewrites the file, which keeps writes atomic enough for a single-user
// tracker.
type FileStore struct {
	path   string
	values map[string]string
}

func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: make sure the location is writable before promising
		// persistence.
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		return fs, fs.flush()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	if err := yaml.Unmarshal(data, &fs.values); err != nil {
		return nil, fmt.Errorf("failed to parse store file: %w", err)
	}
	if fs.values == nil {
		fs.values = make(map[string]string)
	}
	return fs, nil
}

func (fs *FileStore) Get(key string) (string, bool, error) {
	value, ok := fs.values[key]
	return value, ok, nil
}

func (fs *FileStore) Set(key, value string) error {
	fs.values[key] = value
	return fs.flush()
}

func (fs *FileStore) flush() error {
	data, err := yaml.Marshal(fs.values)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := os.WriteFile(fs.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}

// MemStore keeps the key space in memory only. Used as the fallback backend
// and in tests.
type MemStore struct {
	values map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (ms *MemStore) Get(key string) (string, bool, error) {
	value, ok := ms.values[key]
	return value, ok, nil
}

func (ms *MemStore) Set(key, value string) error {
	ms.values[key] = value
	return nil
}
