// Package storage keeps uploaded product images on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aurawell/storefront/internal/core/domain"
)

// Disk stores files flat in a single directory.
type Disk struct {
	dir string
}

// NewDisk creates dir if needed.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{dir: dir}, nil
}

// Save writes r to name. The file is written under a temporary name first so
// readers never see a partial image.
func (d *Disk) Save(_ context.Context, name string, r io.Reader) error {
	path, err := d.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(d.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close image: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func (d *Disk) Open(_ context.Context, name string) (io.ReadCloser, error) {
	path, err := d.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrImageNotFound
	}
	return f, err
}

// path resolves name inside the upload directory. Anything that is not a
// plain file name is rejected.
func (d *Disk) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", domain.ErrInvalidImage
	}
	return filepath.Join(d.dir, name), nil
}
