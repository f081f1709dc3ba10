package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageStore persists uploaded product images on the local filesystem and
// serves as the write side of the static /uploads prefix.
type ImageStore interface {
	// Save writes the uploaded files and returns their stored paths,
	// relative to the process working directory (e.g. "uploads/<name>").
	Save(files []*multipart.FileHeader) ([]string, error)
	// Remove deletes stored images best-effort: a missing file is not an
	// error, and failures are logged rather than propagated, because the
	// database row is the source of truth for product state.
	Remove(paths []string)
}

type imageStore struct {
	dir    string
	logger *zap.Logger
}

// NewImageStore creates an ImageStore rooted at dir, creating it if needed.
func NewImageStore(dir string, logger *zap.Logger) (ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &imageStore{dir: dir, logger: logger}, nil
}

func (s *imageStore) Save(files []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(files))

	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			s.Remove(paths)
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}

		name := uuid.New().String() + filepath.Ext(fh.Filename)
		full := filepath.Join(s.dir, name)

		dst, err := os.Create(full)
		if err != nil {
			src.Close()
			s.Remove(paths)
			return nil, fmt.Errorf("failed to create image file: %w", err)
		}

		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			os.Remove(full)
			s.Remove(paths)
			return nil, fmt.Errorf("failed to write image file: %w", err)
		}

		paths = append(paths, filepath.ToSlash(filepath.Join(s.dir, name)))
	}

	return paths, nil
}

func (s *imageStore) Remove(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			s.logger.Warn("Failed to delete image file",
				zap.String("path", p),
				zap.Error(err),
			)
		}
	}
}
