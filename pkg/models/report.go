package models

import (
	"time"
)

// CompareReport represents the outcome of one folder comparison.
// The three path slices are disjoint; together with the identical count
// they cover every relative path seen in either tree. Reports are
// transient and never persisted.
type CompareReport struct {
	// Operation details
	OperationID  string
	SourcePath   string
	TargetPath   string
	CheckContent bool
	Method       DigestMethod

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Result sets, sorted by relative path
	OnlyInSource []string
	OnlyInTarget []string
	Differing    []string

	// IdenticalCount is the number of common paths judged identical
	IdenticalCount int

	// Statistics
	Stats CompareStats

	// Warnings collects per-file problems (unreadable entries,
	// file/directory type conflicts, digest failures)
	Warnings []Warning

	// Overall status
	Status Status
}

// CompareStats holds comparison metrics
type CompareStats struct {
	// Files seen per side
	SourceFiles int
	TargetFiles int

	// Directories seen per side
	SourceDirs int
	TargetDirs int

	// CommonPaths is the number of relative paths present on both sides
	CommonPaths int

	// FilesDigested is the number of files whose content was fingerprinted
	FilesDigested int

	// BytesDigested is the number of bytes read while fingerprinting
	BytesDigested int64
}

// SortReport represents the outcome of one sorter run
type SortReport struct {
	OperationID string
	SourcePath  string
	Action      SortAction
	DryRun      bool

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Stats    SortStats
	Warnings []Warning
	Status   Status
}

// SortStats holds sorter metrics
type SortStats struct {
	FilesScanned int
	FilesMoved   int
	FilesCopied  int
	FilesSkipped int
	FilesRenamed int
	FilesErrored int

	// PerCategory counts sorted files per destination category
	PerCategory map[string]int
}

// ProjectReport represents the outcome of one project generation
type ProjectReport struct {
	OperationID string
	ProjectPath string
	Template    string

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// FoldersCreated lists created folders relative to the project root
	FoldersCreated []string

	// FoldersSkipped lists folders that already existed (force mode)
	FoldersSkipped []string

	Status Status
}

// Status represents the overall result of a run
type Status string

const (
	// StatusSuccess indicates the run completed without warnings
	StatusSuccess Status = "success"
	// StatusPartial indicates the run completed but some files were skipped
	StatusPartial Status = "partial"
	// StatusFailed indicates the run aborted on a fatal error
	StatusFailed Status = "failed"
	// StatusCancelled indicates the run was interrupted
	StatusCancelled Status = "cancelled"
)

// ExitCode returns the process exit code for a status. Completed runs
// exit zero even when differences or per-file warnings were reported;
// only fatal errors and cancellation are non-zero.
func (s Status) ExitCode() int {
	switch s {
	case StatusSuccess, StatusPartial:
		return 0
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}
