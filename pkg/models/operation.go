package models

import (
	"time"
)

// DigestMethod defines how file contents are fingerprinted
type DigestMethod string

const (
	// DigestQuick hashes the first and last chunk of a file (MD5).
	// Fast and good enough to catch truncated or corrupted copies.
	DigestQuick DigestMethod = "quick"
	// DigestSHA256 hashes the full file content with SHA-256
	DigestSHA256 DigestMethod = "sha256"
	// DigestBinary compares files byte-by-byte without hashing
	DigestBinary DigestMethod = "binary"
)

// SortAction defines what the sorter does with a classified file
type SortAction string

const (
	// SortMove moves files into their category folder
	SortMove SortAction = "move"
	// SortCopy copies files, leaving the originals in place
	SortCopy SortAction = "copy"
)

// CollisionPolicy defines how the sorter resolves an existing destination file
type CollisionPolicy string

const (
	// CollisionRename writes the file under a numbered suffix (default)
	CollisionRename CollisionPolicy = "rename"
	// CollisionSkip leaves both files untouched
	CollisionSkip CollisionPolicy = "skip"
	// CollisionOverwrite replaces the destination file
	CollisionOverwrite CollisionPolicy = "overwrite"
)

// CompareOperation describes a single folder comparison run
type CompareOperation struct {
	ID              string
	SourcePath      string
	TargetPath      string
	CheckContent    bool
	Method          DigestMethod
	ExcludePatterns []string
	MaxWorkers      int
	BufferSize      int
	BandwidthLimit  int64
	CreatedAt       time.Time
}

// Validate checks the operation parameters
func (op *CompareOperation) Validate() error {
	if op.SourcePath == "" {
		return &ValidationError{Field: "source", Message: "must not be empty"}
	}
	if op.TargetPath == "" {
		return &ValidationError{Field: "target", Message: "must not be empty"}
	}
	switch op.Method {
	case DigestQuick, DigestSHA256, DigestBinary:
	default:
		return &ValidationError{Field: "method", Message: "must be 'quick', 'sha256', or 'binary'"}
	}
	if op.MaxWorkers < 1 {
		return &ValidationError{Field: "max_workers", Message: "must be at least 1"}
	}
	return nil
}

// SortOperation describes a single sorter run
type SortOperation struct {
	ID          string
	SourcePath  string
	Action      SortAction
	OnCollision CollisionPolicy
	Recursive   bool
	DryRun      bool
	CreatedAt   time.Time
}

// Validate checks the operation parameters
func (op *SortOperation) Validate() error {
	if op.SourcePath == "" {
		return &ValidationError{Field: "source", Message: "must not be empty"}
	}
	switch op.Action {
	case SortMove, SortCopy:
	default:
		return &ValidationError{Field: "action", Message: "must be 'move' or 'copy'"}
	}
	switch op.OnCollision {
	case CollisionRename, CollisionSkip, CollisionOverwrite:
	default:
		return &ValidationError{Field: "on_collision", Message: "must be 'rename', 'skip', or 'overwrite'"}
	}
	return nil
}
