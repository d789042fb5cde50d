package compare

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"sync"

	"github.com/sdejongh/mediakit/pkg/storage"
)

// Partial hashing configuration
const (
	// Minimum file size to enable the partial-hash fast path (1MB)
	partialHashThreshold = 1 * 1024 * 1024
	// Size of partial hash to compute (256KB)
	partialHashSize = 256 * 1024
)

// SHA256Comparator compares files by their full SHA-256 digest.
// For large files a partial hash over the leading bytes is computed
// first so clearly different files are rejected cheaply.
type SHA256Comparator struct {
	bufferSize        int
	bufferPool        *sync.Pool
	enablePartialHash bool
	readerWrapper     ReaderWrapper
}

// NewSHA256Comparator creates a new SHA-256 comparator
func NewSHA256Comparator(bufferSize int) *SHA256Comparator {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &SHA256Comparator{
		bufferSize:        bufferSize,
		enablePartialHash: true,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// SetPartialHashEnabled enables or disables the partial-hash fast path
func (c *SHA256Comparator) SetPartialHashEnabled(enabled bool) {
	c.enablePartialHash = enabled
}

// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
func (c *SHA256Comparator) SetReaderWrapper(wrapper ReaderWrapper) {
	c.readerWrapper = wrapper
}

// Compare compares the file at path on both sides by SHA-256 digest
func (c *SHA256Comparator) Compare(ctx context.Context, source, target storage.Backend, path string) (*Comparison, error) {
	sourceInfo, err := source.Stat(ctx, path)
	if err != nil {
		return &Comparison{Path: path, Result: Error, Reason: "failed to stat source file", Error: err}, nil
	}

	targetInfo, err := target.Stat(ctx, path)
	if err != nil {
		return &Comparison{Path: path, Result: Error, Reason: "failed to stat target file", Error: err}, nil
	}

	// Size mismatch means different content, no read needed
	if sourceInfo.Size != targetInfo.Size {
		return &Comparison{
			Path:   path,
			Result: Different,
			Reason: fmt.Sprintf("size mismatch: source=%d, target=%d", sourceInfo.Size, targetInfo.Size),
		}, nil
	}

	var bytesRead int64

	if c.enablePartialHash && sourceInfo.Size >= partialHashThreshold {
		var sourcePartial, targetPartial string
		var sourceN, targetN int64
		var sourceErr, targetErr error
		var wg sync.WaitGroup

		wg.Add(2)
		go func() {
			defer wg.Done()
			sourcePartial, sourceN, sourceErr = c.digest(ctx, source, path, partialHashSize)
		}()
		go func() {
			defer wg.Done()
			targetPartial, targetN, targetErr = c.digest(ctx, target, path, partialHashSize)
		}()
		wg.Wait()
		bytesRead += sourceN + targetN

		// Partial hashes are only trusted when both reads succeeded;
		// a failed read falls through to the full digest
		if sourceErr == nil && targetErr == nil && sourcePartial != targetPartial {
			return &Comparison{
				Path:      path,
				Result:    Different,
				Reason:    "partial hashes differ",
				BytesRead: bytesRead,
			}, nil
		}
	}

	var sourceHash, targetHash string
	var sourceN, targetN int64
	var sourceErr, targetErr error
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		sourceHash, sourceN, sourceErr = c.digest(ctx, source, path, -1)
	}()
	go func() {
		defer wg.Done()
		targetHash, targetN, targetErr = c.digest(ctx, target, path, -1)
	}()
	wg.Wait()
	bytesRead += sourceN + targetN

	if sourceErr != nil {
		return &Comparison{Path: path, Result: Error, Reason: "failed to hash source file", Error: sourceErr, BytesRead: bytesRead}, nil
	}
	if targetErr != nil {
		return &Comparison{Path: path, Result: Error, Reason: "failed to hash target file", Error: targetErr, BytesRead: bytesRead}, nil
	}

	if sourceHash != targetHash {
		return &Comparison{Path: path, Result: Different, Reason: "hashes differ", BytesRead: bytesRead}, nil
	}

	return &Comparison{Path: path, Result: Same, Reason: "hashes match", BytesRead: bytesRead}, nil
}

// digest computes the SHA-256 hex digest of up to limit bytes of a file
// using streaming reads; limit < 0 reads the whole file.
func (c *SHA256Comparator) digest(ctx context.Context, backend storage.Backend, path string, limit int64) (string, int64, error) {
	reader, err := backend.Read(ctx, path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	var r io.Reader = reader
	if c.readerWrapper != nil {
		r = c.readerWrapper(reader)
	}

	hasher := sha256.New()

	bufPtr := c.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer c.bufferPool.Put(bufPtr)

	var totalRead int64
	for limit < 0 || totalRead < limit {
		select {
		case <-ctx.Done():
			return "", totalRead, ctx.Err()
		default:
		}

		n, err := r.Read(buffer)
		if n > 0 {
			toHash := int64(n)
			if limit >= 0 && totalRead+toHash > limit {
				toHash = limit - totalRead
			}
			hasher.Write(buffer[:toHash])
			totalRead += toHash
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", totalRead, fmt.Errorf("failed to read file: %w", err)
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), totalRead, nil
}

// Name returns the comparator name
func (c *SHA256Comparator) Name() string {
	return "sha256"
}
