// Package storage is the on-disk home for uploaded documents. The rest of
// the system treats it as an opaque collaborator: save returns a storage
// path, and later reads or deletes go through that path only.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/avolkhin/docchat-backend/internal/pkg/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LocalStore struct {
	dir    string
	logger *zap.Logger
}

func NewLocalStore(dir string, logger *zap.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, logger: logger}, nil
}

// Save writes the uploaded content under a unique name derived from the
// original filename and returns the storage path.
func (s *LocalStore) Save(name string, r io.Reader) (string, error) {
	fileName := uuid.New().String() + "_" + validator.SanitizeFilename(name)
	path := filepath.Join(s.dir, fileName)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}

	return path, nil
}

// ReadAll returns the stored content. Any failure is surfaced as
// ErrContentUnavailable.
func (s *LocalStore) ReadAll(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrContentUnavailable, err)
	}
	return data, nil
}

// Delete removes the stored file.
func (s *LocalStore) Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrContentUnavailable, err)
	}
	return nil
}
