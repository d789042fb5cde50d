package logging

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open log file: %v", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

func TestFileLogger_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	logger, err := NewFileLogger(FileLoggerConfig{
		Path:   path,
		Format: FormatJSON,
		Level:  InfoLevel,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	ctx := context.Background()
	logger.Info(ctx, "sort started", Fields{"operation_id": "abc", "files": 3})
	logger.Error(ctx, "sort failed", errors.New("disk full"), nil)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	lines := readLines(t, path)
	if len(lines) != 2 {
		t.Fatalf("line count = %d, want 2", len(lines))
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("first line is not JSON: %v", err)
	}
	if entry["level"] != "INFO" || entry["message"] != "sort started" {
		t.Errorf("entry = %v", entry)
	}
	if entry["operation_id"] != "abc" {
		t.Errorf("operation_id = %v, want abc", entry["operation_id"])
	}

	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("second line is not JSON: %v", err)
	}
	if entry["error"] != "disk full" {
		t.Errorf("error field = %v, want disk full", entry["error"])
	}
}

func TestFileLogger_TextFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	logger, err := NewFileLogger(FileLoggerConfig{
		Path:   path,
		Format: FormatText,
		Level:  InfoLevel,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	logger.Warn(context.Background(), "slow walk", Fields{"path": "/mnt/card"})
	logger.Close()

	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("line count = %d, want 1", len(lines))
	}
	if !strings.Contains(lines[0], "[WARN] slow walk") {
		t.Errorf("line = %q, want level and message", lines[0])
	}
	if !strings.Contains(lines[0], "path=/mnt/card") {
		t.Errorf("line = %q, want field", lines[0])
	}
}

func TestFileLogger_LevelFiltering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	logger, err := NewFileLogger(FileLoggerConfig{
		Path:   path,
		Format: FormatJSON,
		Level:  WarnLevel,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	ctx := context.Background()
	logger.Debug(ctx, "dropped", nil)
	logger.Info(ctx, "dropped", nil)
	logger.Warn(ctx, "kept", nil)
	logger.Close()

	if lines := readLines(t, path); len(lines) != 1 {
		t.Errorf("line count = %d, want 1 (warn only)", len(lines))
	}
}

func TestFileLogger_WithFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	logger, err := NewFileLogger(FileLoggerConfig{
		Path:   path,
		Format: FormatJSON,
		Level:  InfoLevel,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	scoped := logger.WithFields(Fields{"operation_id": "op-1"})
	scoped.Info(context.Background(), "step", Fields{"n": 1})
	logger.Close()

	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("line count = %d, want 1", len(lines))
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["operation_id"] != "op-1" {
		t.Errorf("operation_id = %v, want op-1 (inherited field)", entry["operation_id"])
	}
}

func TestFileLogger_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	logger, err := NewFileLogger(FileLoggerConfig{
		Path:       path,
		Format:     FormatText,
		Level:      InfoLevel,
		MaxSize:    128,
		MaxBackups: 2,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	for i := 0; i < 20; i++ {
		logger.Info(context.Background(), "a log entry long enough to pass the rotation threshold quickly", nil)
	}
	logger.Close()

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("rotated backup %s.1 missing: %v", path, err)
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Errorf("backup beyond MaxBackups should not exist")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()
	ctx := context.Background()

	// Must be safe to call with nil fields and nil error
	logger.Debug(ctx, "x", nil)
	logger.Info(ctx, "x", nil)
	logger.Warn(ctx, "x", nil)
	logger.Error(ctx, "x", nil, nil)

	if logger.WithFields(Fields{"k": "v"}) == nil {
		t.Error("WithFields() should return a logger")
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
