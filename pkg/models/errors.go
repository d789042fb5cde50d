package models

import (
	"fmt"
	"time"
)

// NotFoundError indicates a root path passed to a tool does not exist
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("path does not exist: %s", e.Path)
}

// PermissionError indicates a root path exists but cannot be read
type PermissionError struct {
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Path)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// AlreadyExistsError indicates a project root the generator was asked
// to create is already present
type AlreadyExistsError struct {
	Path string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("already exists: %s", e.Path)
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Warning records a non-fatal per-file problem encountered during a run.
// Warnings never abort an operation; they are collected and listed in the
// final report.
type Warning struct {
	// Path is the affected path, relative to its root when known
	Path string

	// Op names the phase that produced the warning (walk, digest, move, ...)
	Op string

	// Message describes the problem
	Message string

	// Timestamp is when the warning was recorded
	Timestamp time.Time
}

// NewWarning builds a warning for the given phase and path
func NewWarning(op, path string, err error) Warning {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Warning{
		Path:      path,
		Op:        op,
		Message:   msg,
		Timestamp: time.Now(),
	}
}
