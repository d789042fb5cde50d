package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/sdejongh/mediakit/pkg/models"
)

// HumanFormatter formats comparison output for reading in a terminal
type HumanFormatter struct {
	writer     io.Writer
	totalFiles int
	totalBytes int64
	startTime  time.Time
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, totalFiles int, totalBytes int64) error {
	f.writer = writer
	f.totalFiles = totalFiles
	f.totalBytes = totalBytes
	f.startTime = time.Now()

	if writer != nil {
		fmt.Fprintf(writer, "Checking content of %d common files (%s)...\n",
			totalFiles, formatBytes(totalBytes))
	}

	return nil
}

// Progress reports per-file progress during the content check
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	if f.writer == nil {
		return nil
	}

	if update.Type == "file_error" {
		fmt.Fprintf(f.writer, "[%d/%d] ✗ %s: %v\n",
			update.CurrentFile, update.TotalFiles,
			update.FilePath, update.Error)
	}

	return nil
}

// Complete displays the comparison report
func (f *HumanFormatter) Complete(report *models.CompareReport) error {
	if f.writer == nil {
		f.writer = os.Stdout
	}

	heading := color.New(color.FgCyan, color.Bold)
	missing := color.New(color.FgRed)
	extra := color.New(color.FgYellow)
	differ := color.New(color.FgMagenta)
	good := color.New(color.FgGreen)

	fmt.Fprintf(f.writer, "\n")
	heading.Fprintf(f.writer, "Folder Comparison Results\n")
	fmt.Fprintf(f.writer, "Source: %s\n", report.SourcePath)
	fmt.Fprintf(f.writer, "Target: %s\n", report.TargetPath)
	fmt.Fprintf(f.writer, "Completed in %s\n\n", report.Duration.Round(time.Millisecond))

	if len(report.OnlyInSource) > 0 {
		missing.Fprintf(f.writer, "Only in source (%d):\n", len(report.OnlyInSource))
		for _, path := range report.OnlyInSource {
			fmt.Fprintf(f.writer, "  %s\n", path)
		}
		fmt.Fprintf(f.writer, "\n")
	}

	if len(report.OnlyInTarget) > 0 {
		extra.Fprintf(f.writer, "Only in target (%d):\n", len(report.OnlyInTarget))
		for _, path := range report.OnlyInTarget {
			fmt.Fprintf(f.writer, "  %s\n", path)
		}
		fmt.Fprintf(f.writer, "\n")
	}

	if len(report.Differing) > 0 {
		differ.Fprintf(f.writer, "Content differs (%d):\n", len(report.Differing))
		for _, path := range report.Differing {
			fmt.Fprintf(f.writer, "  %s\n", path)
		}
		fmt.Fprintf(f.writer, "\n")
	}

	if len(report.OnlyInSource) == 0 && len(report.OnlyInTarget) == 0 && len(report.Differing) == 0 {
		good.Fprintf(f.writer, "Folders are identical\n\n")
	}

	fmt.Fprintf(f.writer, "Summary:\n")
	fmt.Fprintf(f.writer, "  Scanned:\n")
	fmt.Fprintf(f.writer, "    Source:       %d files, %d dirs\n", report.Stats.SourceFiles, report.Stats.SourceDirs)
	fmt.Fprintf(f.writer, "    Target:       %d files, %d dirs\n", report.Stats.TargetFiles, report.Stats.TargetDirs)
	fmt.Fprintf(f.writer, "    Common paths: %d\n", report.Stats.CommonPaths)
	fmt.Fprintf(f.writer, "  Identical:      %d\n", report.IdenticalCount)
	if report.CheckContent {
		fmt.Fprintf(f.writer, "  Digested:       %d files, %s\n",
			report.Stats.FilesDigested, formatBytes(report.Stats.BytesDigested))
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintf(f.writer, "\nWarnings (%d):\n", len(report.Warnings))
		for _, w := range report.Warnings {
			fmt.Fprintf(f.writer, "  [%s] %s: %s\n", w.Op, w.Path, w.Message)
		}
	}

	fmt.Fprintf(f.writer, "\nStatus: %s\n", report.Status)

	return nil
}

// Error reports a fatal error
func (f *HumanFormatter) Error(err error) error {
	w := f.writer
	if w == nil {
		w = os.Stderr
	}
	color.New(color.FgRed).Fprintf(w, "Error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// formatBytes renders a byte count in binary units
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
