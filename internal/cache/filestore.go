package cache

import (
	"context"
	"encoding/hex"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one JSON file per snapshot key under a local directory.
// This is the default backend, filling the role browser local storage plays
// for a web client. Concurrent processes may race on the same key; last
// writer wins, which matches the advisory nature of the data.
type FileStore struct {
	dir string
}

// NewFileStore creates the backing directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Read returns the blob stored under key, or ErrMiss.
func (s *FileStore) Read(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMiss
		}
		return nil, err
	}
	return data, nil
}

// Write stores the blob atomically (tmp file + rename) so a crashed write
// never leaves a truncated snapshot behind.
func (s *FileStore) Write(_ context.Context, key string, data []byte) error {
	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, ".snapshot-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()           //nolint:errcheck
		os.Remove(tmp.Name()) //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck
		return err
	}
	return os.Rename(tmp.Name(), target)
}

// Delete removes the blob stored under key, if any.
func (s *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// path maps a key to a filename. Keys carry user ids, status labels with
// spaces and accents, and slashes; anything unsafe is replaced and a short
// hash keeps distinct keys from colliding after sanitization.
func (s *FileStore) path(key string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, key)

	h := fnv.New32a()
	h.Write([]byte(key)) //nolint:errcheck
	suffix := hex.EncodeToString(h.Sum(nil))

	return filepath.Join(s.dir, sanitized+"-"+suffix+".json")
}
