package store

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"whisperlink/internal/domain"
)

const fileKVExt = ".json"

// FileKV persists each key as its own file under dir.
type FileKV struct {
	dir string
	mu  sync.Mutex
}

// NewFileKV returns a FileKV rooted at dir, creating it with 0700 if needed.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create store directory")
	}
	return &FileKV{dir: dir}, nil
}

// Get returns the value stored under key.
func (s *FileKV) Get(key string) ([]byte, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(path)
	if err != nil {
		return nil, false, errors.Wrapf(err, "read %s", key)
	}
	if b == nil {
		return nil, false, nil
	}
	return b, true, nil
}

// Set replaces the value stored under key.
func (s *FileKV) Set(key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return errors.Wrapf(writeFile(path, value, 0o600), "write %s", key)
}

// Delete removes key; deleting a missing key is not an error.
func (s *FileKV) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return errors.Wrapf(removeFile(path), "delete %s", key)
}

func (s *FileKV) path(key string) (string, error) {
	if !validKey(key) {
		return "", errors.Wrapf(ErrInvalidKey, "%q", key)
	}
	return filepath.Join(s.dir, key+fileKVExt), nil
}

// validKey keeps keys usable as file names on every platform.
func validKey(key string) bool {
	if key == "" || key[0] == '.' {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// Compile-time assertion that FileKV implements domain.KeyValueStore.
var _ domain.KeyValueStore = (*FileKV)(nil)
