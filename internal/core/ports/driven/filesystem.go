package driven

import (
	"io"
	"io/fs"
	"time"
)

// Filesystem is the durable state of the mirror.
// File presence and modification time are the only state kept across runs.
type Filesystem interface {
	// MkdirAll creates a directory and any missing parents. Idempotent.
	MkdirAll(path string) error

	// Stat describes the named file.
	// Missing files yield an error matching fs.ErrNotExist.
	Stat(path string) (fs.FileInfo, error)

	// RemoveAll removes a subtree. A missing path is not an error.
	RemoveAll(path string) error

	// Remove removes a single file.
	Remove(path string) error

	// CreateTemp creates a new uniquely named file in dir.
	CreateTemp(dir, pattern string) (TempFile, error)

	// Rename atomically replaces newpath with oldpath.
	Rename(oldpath, newpath string) error

	// Chtimes sets the access and modification times of the named file.
	Chtimes(path string, atime, mtime time.Time) error
}

// TempFile is a writable file created by Filesystem.CreateTemp.
type TempFile interface {
	io.Writer

	// Name returns the file path.
	Name() string

	// Sync flushes the file to stable storage.
	Sync() error

	// Close closes the file.
	Close() error
}
