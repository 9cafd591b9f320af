package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/ballotgrid/pkg/election"
)

// FileStore keeps one JSON record per definition in a directory.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates dir if needed. An empty dir defaults to
// $XDG_DATA_HOME/ballotgrid/elections, or ~/.local/share/ballotgrid/elections.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// DefaultDir returns the default FileStore directory.
func DefaultDir() (string, error) {
	if data := os.Getenv("XDG_DATA_HOME"); data != "" {
		return filepath.Join(data, "ballotgrid", "elections"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "ballotgrid", "elections"), nil
}

func (s *FileStore) path(hash string) string {
	return filepath.Join(s.dir, hash+".json")
}

// Save writes the record for e.
func (s *FileStore) Save(ctx context.Context, e *election.Election) (string, error) {
	rec, err := Encode(e)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path(rec.Hash), data, 0o644); err != nil {
		return "", fmt.Errorf("write record: %w", err)
	}
	return rec.Hash, nil
}

// Load reads the record stored under hash.
func (s *FileStore) Load(ctx context.Context, hash string) (*election.Election, error) {
	if !validHash(hash) {
		return nil, notFound(hash)
	}
	s.mu.RLock()
	data, err := os.ReadFile(s.path(hash))
	s.mu.RUnlock()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(hash)
	}
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", hash, err)
	}
	return rec.Decode()
}

// Delete removes the record stored under hash.
func (s *FileStore) Delete(ctx context.Context, hash string) error {
	if !validHash(hash) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(hash)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove record: %w", err)
	}
	return nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

// validHash rejects anything but lowercase hex, keeping hashes from
// naming files outside the store.
func validHash(h string) bool {
	if len(h) != 64 {
		return false
	}
	for _, c := range h {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

var _ Store = (*FileStore)(nil)
