package compare

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sdejongh/mediakit/pkg/storage"
)

// BinaryComparator compares files byte-by-byte. This is the most thorough
// method and also the slowest; it reports the exact offset where files
// first differ.
type BinaryComparator struct {
	bufferSize    int
	bufferPool    *sync.Pool
	readerWrapper ReaderWrapper
}

// NewBinaryComparator creates a new byte-by-byte comparator
func NewBinaryComparator(bufferSize int) *BinaryComparator {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &BinaryComparator{
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
func (c *BinaryComparator) SetReaderWrapper(wrapper ReaderWrapper) {
	c.readerWrapper = wrapper
}

// Compare compares the file at path on both sides byte-by-byte
func (c *BinaryComparator) Compare(ctx context.Context, source, target storage.Backend, path string) (*Comparison, error) {
	sourceInfo, err := source.Stat(ctx, path)
	if err != nil {
		return &Comparison{Path: path, Result: Error, Reason: "failed to stat source file", Error: err}, nil
	}

	targetInfo, err := target.Stat(ctx, path)
	if err != nil {
		return &Comparison{Path: path, Result: Error, Reason: "failed to stat target file", Error: err}, nil
	}

	if sourceInfo.Size != targetInfo.Size {
		return &Comparison{
			Path:   path,
			Result: Different,
			Reason: fmt.Sprintf("size mismatch: source=%d, target=%d", sourceInfo.Size, targetInfo.Size),
		}, nil
	}

	sourceReader, err := source.Read(ctx, path)
	if err != nil {
		return &Comparison{Path: path, Result: Error, Reason: "failed to open source file", Error: err}, nil
	}
	defer sourceReader.Close()

	targetReader, err := target.Read(ctx, path)
	if err != nil {
		return &Comparison{Path: path, Result: Error, Reason: "failed to open target file", Error: err}, nil
	}
	defer targetReader.Close()

	var sr io.Reader = sourceReader
	var tr io.Reader = targetReader
	if c.readerWrapper != nil {
		sr = c.readerWrapper(sourceReader)
		tr = c.readerWrapper(targetReader)
	}

	sourceBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(sourceBufPtr)
	sourceBuf := *sourceBufPtr

	targetBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(targetBufPtr)
	targetBuf := *targetBufPtr

	var offset int64

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		sn, serr := io.ReadFull(sr, sourceBuf)
		tn, terr := io.ReadFull(tr, targetBuf)

		if sn != tn {
			return &Comparison{
				Path:      path,
				Result:    Different,
				Reason:    fmt.Sprintf("read mismatch at offset %d", offset),
				BytesRead: offset * 2,
			}, nil
		}

		if sn > 0 {
			if !bytes.Equal(sourceBuf[:sn], targetBuf[:tn]) {
				diffOffset := offset
				for i := 0; i < sn; i++ {
					if sourceBuf[i] != targetBuf[i] {
						diffOffset = offset + int64(i)
						break
					}
				}
				return &Comparison{
					Path:      path,
					Result:    Different,
					Reason:    fmt.Sprintf("content differs at byte offset %d", diffOffset),
					BytesRead: (offset + int64(sn)) * 2,
				}, nil
			}
			offset += int64(sn)
		}

		if serr == io.EOF || serr == io.ErrUnexpectedEOF {
			if terr == io.EOF || terr == io.ErrUnexpectedEOF {
				break
			}
			return &Comparison{
				Path:      path,
				Result:    Different,
				Reason:    fmt.Sprintf("source ended at %d but target continues", offset),
				BytesRead: offset * 2,
			}, nil
		}
		if serr != nil {
			return &Comparison{Path: path, Result: Error, Reason: "failed to read source file", Error: serr, BytesRead: offset * 2}, nil
		}
		if terr != nil {
			return &Comparison{Path: path, Result: Error, Reason: "failed to read target file", Error: terr, BytesRead: offset * 2}, nil
		}
	}

	return &Comparison{Path: path, Result: Same, Reason: "content matches", BytesRead: offset * 2}, nil
}

// Name returns the comparator name
func (c *BinaryComparator) Name() string {
	return "binary"
}
