package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/sdejongh/mediakit/pkg/models"
)

// RenderSortReport prints the sorter summary
func RenderSortReport(w io.Writer, report *models.SortReport) {
	heading := color.New(color.FgCyan, color.Bold)
	good := color.New(color.FgGreen)

	fmt.Fprintf(w, "\n")
	if report.DryRun {
		heading.Fprintf(w, "Sort Preview (dry run)\n")
	} else {
		heading.Fprintf(w, "Sort Results\n")
	}
	fmt.Fprintf(w, "Source: %s\n", report.SourcePath)
	fmt.Fprintf(w, "Completed in %s\n\n", report.Duration.Round(time.Millisecond))

	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Files scanned: %d\n", report.Stats.FilesScanned)
	if report.Action == models.SortCopy {
		fmt.Fprintf(w, "  Files copied:  %d\n", report.Stats.FilesCopied)
	} else {
		fmt.Fprintf(w, "  Files moved:   %d\n", report.Stats.FilesMoved)
	}
	fmt.Fprintf(w, "  Renamed:       %d\n", report.Stats.FilesRenamed)
	fmt.Fprintf(w, "  Skipped:       %d\n", report.Stats.FilesSkipped)
	fmt.Fprintf(w, "  Errored:       %d\n", report.Stats.FilesErrored)

	if len(report.Stats.PerCategory) > 0 {
		fmt.Fprintf(w, "\nPer category:\n")
		categories := make([]string, 0, len(report.Stats.PerCategory))
		for category := range report.Stats.PerCategory {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			fmt.Fprintf(w, "  %-10s %d\n", category, report.Stats.PerCategory[category])
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings (%d):\n", len(report.Warnings))
		for _, warning := range report.Warnings {
			fmt.Fprintf(w, "  [%s] %s: %s\n", warning.Op, warning.Path, warning.Message)
		}
	}

	fmt.Fprintf(w, "\n")
	good.Fprintf(w, "Status: %s\n", report.Status)
}

// RenderProjectReport prints the generated folder tree
func RenderProjectReport(w io.Writer, report *models.ProjectReport) {
	heading := color.New(color.FgCyan, color.Bold)
	good := color.New(color.FgGreen)

	fmt.Fprintf(w, "\n")
	heading.Fprintf(w, "Project created: %s\n", report.ProjectPath)
	fmt.Fprintf(w, "Template: %s\n\n", report.Template)

	fmt.Fprintf(w, "Structure:\n")
	for _, folder := range report.FoldersCreated {
		depth := strings.Count(folder, "/")
		fmt.Fprintf(w, "  %s%s/\n", strings.Repeat("  ", depth), lastSegment(folder))
	}

	if len(report.FoldersSkipped) > 0 {
		fmt.Fprintf(w, "\nAlready existed (%d):\n", len(report.FoldersSkipped))
		for _, folder := range report.FoldersSkipped {
			fmt.Fprintf(w, "  %s/\n", folder)
		}
	}

	fmt.Fprintf(w, "\n")
	good.Fprintf(w, "Status: %s\n", report.Status)
}

// JSONSortData is the JSON shape of a sorter report
type JSONSortData struct {
	OperationID  string            `json:"operation_id"`
	SourcePath   string            `json:"source_path"`
	Action       string            `json:"action"`
	DryRun       bool              `json:"dry_run"`
	StartTime    time.Time         `json:"start_time"`
	EndTime      time.Time         `json:"end_time"`
	DurationMS   int64             `json:"duration_ms"`
	FilesScanned int               `json:"files_scanned"`
	FilesMoved   int               `json:"files_moved"`
	FilesCopied  int               `json:"files_copied"`
	FilesSkipped int               `json:"files_skipped"`
	FilesRenamed int               `json:"files_renamed"`
	FilesErrored int               `json:"files_errored"`
	PerCategory  map[string]int    `json:"per_category"`
	Warnings     []JSONWarningData `json:"warnings,omitempty"`
	Status       string            `json:"status"`
}

// RenderSortReportJSON prints the sorter report as indented JSON
func RenderSortReportJSON(w io.Writer, report *models.SortReport) error {
	data := JSONSortData{
		OperationID:  report.OperationID,
		SourcePath:   report.SourcePath,
		Action:       string(report.Action),
		DryRun:       report.DryRun,
		StartTime:    report.StartTime,
		EndTime:      report.EndTime,
		DurationMS:   report.Duration.Milliseconds(),
		FilesScanned: report.Stats.FilesScanned,
		FilesMoved:   report.Stats.FilesMoved,
		FilesCopied:  report.Stats.FilesCopied,
		FilesSkipped: report.Stats.FilesSkipped,
		FilesRenamed: report.Stats.FilesRenamed,
		FilesErrored: report.Stats.FilesErrored,
		PerCategory:  report.Stats.PerCategory,
		Warnings:     buildJSONWarnings(report.Warnings),
		Status:       string(report.Status),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// JSONProjectData is the JSON shape of a project generation report
type JSONProjectData struct {
	OperationID    string   `json:"operation_id"`
	ProjectPath    string   `json:"project_path"`
	Template       string   `json:"template"`
	FoldersCreated []string `json:"folders_created"`
	FoldersSkipped []string `json:"folders_skipped,omitempty"`
	Status         string   `json:"status"`
}

// RenderProjectReportJSON prints the project report as indented JSON
func RenderProjectReportJSON(w io.Writer, report *models.ProjectReport) error {
	data := JSONProjectData{
		OperationID:    report.OperationID,
		ProjectPath:    report.ProjectPath,
		Template:       report.Template,
		FoldersCreated: report.FoldersCreated,
		FoldersSkipped: report.FoldersSkipped,
		Status:         string(report.Status),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func lastSegment(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
