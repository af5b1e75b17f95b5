package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore reads objects from {dir}/{bucket}/{path} on the local disk.
type FileStore struct {
	root string
}

func NewFileStore(dir, bucket string) *FileStore {
	return &FileStore{root: filepath.Join(dir, bucket)}
}

func (s *FileStore) Get(_ context.Context, path string) ([]byte, error) {
	// Cleaning against "/" keeps the object inside root.
	full := filepath.Join(s.root, filepath.FromSlash(filepath.Clean("/"+path)))

	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", full, ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", full, err)
	}
	return data, nil
}

func (s *FileStore) Close() error {
	return nil
}
