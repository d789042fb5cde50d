package output

import (
	"io"

	"github.com/sdejongh/mediakit/pkg/models"
)

// ProgressUpdate represents a progress notification during a comparison
type ProgressUpdate struct {
	Type        string // "file_complete", "file_error"
	FilePath    string
	BytesRead   int64
	CurrentFile int
	TotalFiles  int
	Error       error
}

// Formatter defines the interface for comparison output.
// Implementations include human-readable, JSON, and progress-bar formatters.
type Formatter interface {
	// Start initializes the formatter before the content-check phase
	Start(writer io.Writer, totalFiles int, totalBytes int64) error

	// Progress reports progress while files are being digested
	Progress(update ProgressUpdate) error

	// Complete finalizes output and displays the report
	Complete(report *models.CompareReport) error

	// Error reports a fatal error
	Error(err error) error

	// Name returns the formatter name
	Name() string
}
