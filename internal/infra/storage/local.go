package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"salesorder-service/internal/domain"
)

// LocalStore keeps uploaded documents in a single directory.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(name string, content []byte) error {
	return os.WriteFile(s.resolve(name), content, 0o644)
}

// Remove deletes a stored file. Removing a file that is already gone is not an error.
func (s *LocalStore) Remove(name string) error {
	err := os.Remove(s.resolve(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *LocalStore) Path(name string) (string, error) {
	p := s.resolve(name)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", domain.ErrFileNotFound
	}
	return p, nil
}

// resolve keeps lookups inside the store directory.
func (s *LocalStore) resolve(name string) string {
	return filepath.Join(s.dir, filepath.Base(filepath.Clean("/"+name)))
}
