package storage

import (
	"errors"
	"io"
)

var ErrFileNotFound = errors.New("file not found")

// ContractStore keeps generated contract PDFs under a single directory.
// Names are plain file names; they never contain path separators.
type ContractStore interface {
	// EnsureDir creates the contracts directory if it is missing.
	EnsureDir() error

	// Path returns the filesystem path for name.
	Path(name string) string

	// TempPath returns a fresh path in the contracts directory to render into before Commit.
	TempPath() string

	// Commit moves a rendered temp file to name, replacing any previous version.
	Commit(tempPath, name string) error

	// Exists reports whether name is stored and returns its size.
	Exists(name string) (exists bool, size int64, err error)

	// Open returns a reader for name, or ErrFileNotFound.
	Open(name string) (io.ReadCloser, error)

	// Discard removes a temp file left behind by a failed render.
	Discard(tempPath string)
}

// PhotoResolver maps the relative paths stored in rental_photos to filesystem paths.
type PhotoResolver interface {
	PhotoPath(relative string) string
}

// PhotoStore resolves and removes uploaded rental photos.
type PhotoStore interface {
	PhotoResolver
	// RemovePhoto deletes the file behind a stored photo path, or returns ErrFileNotFound.
	RemovePhoto(relative string) error
}
