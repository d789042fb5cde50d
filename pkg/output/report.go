package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sdejongh/mediakit/pkg/models"
)

// WriteCompareReport writes the comparison report to a file.
// Format can be "human" or "json". Nothing is written when the trees
// turned out identical and warning-free.
func WriteCompareReport(report *models.CompareReport, path string, format string) error {
	if len(report.OnlyInSource) == 0 && len(report.OnlyInTarget) == 0 &&
		len(report.Differing) == 0 && len(report.Warnings) == 0 {
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		return writeReportJSON(report, file)
	default: // "human"
		return writeReportHuman(report, file)
	}
}

func writeReportJSON(report *models.CompareReport, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildJSONReport(report))
}

func writeReportHuman(report *models.CompareReport, w io.Writer) error {
	fmt.Fprintf(w, "Folder Comparison Report\n")
	fmt.Fprintf(w, "========================\n\n")
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Source: %s\n", report.SourcePath)
	fmt.Fprintf(w, "Target: %s\n", report.TargetPath)
	fmt.Fprintf(w, "Content check: %v", report.CheckContent)
	if report.CheckContent {
		fmt.Fprintf(w, " (%s)", report.Method)
	}
	fmt.Fprintf(w, "\n\n")

	sections := []struct {
		label string
		paths []string
	}{
		{"Only in Source", report.OnlyInSource},
		{"Only in Target", report.OnlyInTarget},
		{"Content Differs", report.Differing},
	}

	for _, section := range sections {
		if len(section.paths) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d):\n", section.label, len(section.paths))
		for _, path := range section.paths {
			fmt.Fprintf(w, "  %s\n", path)
		}
		fmt.Fprintf(w, "\n")
	}

	fmt.Fprintf(w, "Identical: %d\n", report.IdenticalCount)

	if len(report.Warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings (%d):\n", len(report.Warnings))
		for _, warning := range report.Warnings {
			fmt.Fprintf(w, "  [%s] %s: %s\n", warning.Op, warning.Path, warning.Message)
		}
	}

	return nil
}
