package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/mediakit/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct {
	writer io.Writer
}

// JSONReportData is the top-level JSON report structure
type JSONReportData struct {
	OperationID  string            `json:"operation_id"`
	Source       string            `json:"source"`
	Target       string            `json:"target"`
	CheckContent bool              `json:"check_content"`
	Method       string            `json:"method,omitempty"`
	Status       string            `json:"status"`
	Duration     string            `json:"duration"`
	DurationMs   int64             `json:"duration_ms"`
	OnlyInSource []string          `json:"only_in_source"`
	OnlyInTarget []string          `json:"only_in_target"`
	Differing    []string          `json:"differing,omitempty"`
	Identical    int               `json:"identical"`
	Stats        JSONStatsData     `json:"stats"`
	Warnings     []JSONWarningData `json:"warnings,omitempty"`
}

// JSONStatsData represents statistics in JSON format
type JSONStatsData struct {
	SourceFiles   int   `json:"source_files"`
	SourceDirs    int   `json:"source_dirs"`
	TargetFiles   int   `json:"target_files"`
	TargetDirs    int   `json:"target_dirs"`
	CommonPaths   int   `json:"common_paths"`
	FilesDigested int   `json:"files_digested,omitempty"`
	BytesDigested int64 `json:"bytes_digested,omitempty"`
}

// JSONWarningData represents a warning entry
type JSONWarningData struct {
	Path    string `json:"path"`
	Op      string `json:"op"`
	Message string `json:"message"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, totalFiles int, totalBytes int64) error {
	f.writer = writer
	return nil
}

// Progress does nothing; JSON output is a single final document
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete writes the report as indented JSON
func (f *JSONFormatter) Complete(report *models.CompareReport) error {
	if f.writer == nil {
		f.writer = os.Stdout
	}

	data := buildJSONReport(report)

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Error writes a fatal error as JSON
func (f *JSONFormatter) Error(err error) error {
	w := f.writer
	if w == nil {
		w = os.Stderr
	}
	return json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func buildJSONReport(report *models.CompareReport) JSONReportData {
	data := JSONReportData{
		OperationID:  report.OperationID,
		Source:       report.SourcePath,
		Target:       report.TargetPath,
		CheckContent: report.CheckContent,
		Status:       string(report.Status),
		Duration:     report.Duration.Round(time.Millisecond).String(),
		DurationMs:   report.Duration.Milliseconds(),
		OnlyInSource: report.OnlyInSource,
		OnlyInTarget: report.OnlyInTarget,
		Differing:    report.Differing,
		Identical:    report.IdenticalCount,
		Stats: JSONStatsData{
			SourceFiles:   report.Stats.SourceFiles,
			SourceDirs:    report.Stats.SourceDirs,
			TargetFiles:   report.Stats.TargetFiles,
			TargetDirs:    report.Stats.TargetDirs,
			CommonPaths:   report.Stats.CommonPaths,
			FilesDigested: report.Stats.FilesDigested,
			BytesDigested: report.Stats.BytesDigested,
		},
	}

	if report.CheckContent {
		data.Method = string(report.Method)
	}
	if data.OnlyInSource == nil {
		data.OnlyInSource = []string{}
	}
	if data.OnlyInTarget == nil {
		data.OnlyInTarget = []string{}
	}

	data.Warnings = buildJSONWarnings(report.Warnings)

	return data
}

func buildJSONWarnings(warnings []models.Warning) []JSONWarningData {
	var out []JSONWarningData
	for _, w := range warnings {
		out = append(out, JSONWarningData{
			Path:    w.Path,
			Op:      w.Op,
			Message: w.Message,
		})
	}
	return out
}
