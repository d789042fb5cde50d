package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a file or directory
type FileInfo struct {
	Path         string
	Size         int64
	ModTime      time.Time
	IsDir        bool
	Permissions  uint32
	RelativePath string
}

// WalkError records an entry that could not be visited during a walk.
// Walks never abort on unreadable children; they skip and report.
type WalkError struct {
	Path string
	Err  error
}

// Backend defines the interface for storage operations.
// The only implementation today is the local filesystem; the interface
// keeps the comparator and sorter testable against fakes.
type Backend interface {
	// Walk returns every file and directory under the root recursively.
	// Symbolic links are never followed and never become entries.
	// Entries that cannot be visited are returned as WalkErrors.
	Walk(ctx context.Context) ([]FileInfo, []WalkError, error)

	// List returns the direct children of the specified directory
	List(ctx context.Context, path string) ([]FileInfo, error)

	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write creates or overwrites a file with the given content.
	// If metadata is provided, timestamps and permissions are preserved.
	Write(ctx context.Context, path string, reader io.Reader, size int64, metadata *FileInfo) error

	// Move renames a file within the backend. The rename is atomic
	// on a single filesystem.
	Move(ctx context.Context, oldPath, newPath string) error

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// Stat returns file metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// MkdirAll creates a directory and all necessary parents
	MkdirAll(ctx context.Context, path string) error

	// Root returns the absolute root path of the backend
	Root() string

	// Close releases any resources held by the backend
	Close() error
}
