package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// filePersistence implements Persistence with one JSON file per key under a
// state directory. It is the zero-infrastructure default backend.
type filePersistence struct {
	dir    string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewFilePersistence creates a file-backed persistence rooted at dir,
// creating the directory if needed.
func NewFilePersistence(dir string, logger zerolog.Logger) (Persistence, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}
	return &filePersistence{
		dir:    dir,
		logger: logger.With().Str("component", "file-persistence").Logger(),
	}, nil
}

// path maps a state key to a file name, replacing separator characters so a
// key can never escape the state directory.
func (f *filePersistence) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(f.dir, safe+".json")
}

func (f *filePersistence) Load(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state for %s: %w", key, err)
	}
	return data, nil
}

func (f *filePersistence) Save(_ context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state for %s: %w", key, err)
	}
	// Rename so readers never observe a half-written file.
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to commit state for %s: %w", key, err)
	}
	return nil
}

func (f *filePersistence) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete state for %s: %w", key, err)
	}
	return nil
}
