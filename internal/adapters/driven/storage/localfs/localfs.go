// Package localfs provides the os-backed mirror filesystem.
package localfs

import (
	"io/fs"
	"os"
	"time"

	"github.com/custodia-labs/aipsync/internal/core/ports/driven"
)

// Ensure FS implements the interface.
var _ driven.Filesystem = (*FS)(nil)

// dirPerm is the permission used for mirror directories.
const dirPerm = 0o755

// FS is the local disk.
type FS struct{}

// New returns the local filesystem.
func New() *FS {
	return &FS{}
}

// MkdirAll creates path and any missing parents.
func (FS) MkdirAll(path string) error {
	return os.MkdirAll(path, dirPerm)
}

// Stat describes the named file.
func (FS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// RemoveAll removes path and everything below it.
func (FS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Remove removes a single file.
func (FS) Remove(path string) error {
	return os.Remove(path)
}

// CreateTemp creates a new temporary file in dir.
func (FS) CreateTemp(dir, pattern string) (driven.TempFile, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	// Mirrored documents are world readable like any other download.
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, err
	}
	return f, nil
}

// Rename replaces newpath with oldpath.
func (FS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Chtimes sets the access and modification times of path.
func (FS) Chtimes(path string, atime, mtime time.Time) error {
	return os.Chtimes(path, atime, mtime)
}
