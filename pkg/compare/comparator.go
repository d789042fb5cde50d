package compare

import (
	"context"
	"io"

	"github.com/sdejongh/mediakit/pkg/storage"
)

// Result represents the outcome of comparing one file across two trees
type Result string

const (
	// Same indicates the file content is identical on both sides
	Same Result = "same"
	// Different indicates the file content differs
	Different Result = "different"
	// Error indicates the comparison could not be carried out
	Error Result = "error"
)

// Comparison holds the result of comparing one relative path
type Comparison struct {
	// Path is the relative path being compared
	Path string

	// Result classifies the pair
	Result Result

	// Reason explains why the files differ or match
	Reason string

	// BytesRead is the number of bytes read from both sides combined
	BytesRead int64

	// Error is set when Result is Error
	Error error
}

// ReaderWrapper wraps a reader, typically for bandwidth limiting
type ReaderWrapper func(r io.ReadCloser) io.ReadCloser

// Comparator decides whether a file common to both trees has identical
// content. The same relative path is read from both backends.
type Comparator interface {
	// Compare compares the file at path on both sides
	Compare(ctx context.Context, source, target storage.Backend, path string) (*Comparison, error)

	// Name returns the name of the comparison method
	Name() string
}
