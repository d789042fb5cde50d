package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sdejongh/mediakit/internal/platform"
	"github.com/sdejongh/mediakit/pkg/config"
	"github.com/sdejongh/mediakit/pkg/logging"
)

// validateComparePaths validates the compare command positional arguments
func validateComparePaths(source, target string) error {
	for _, path := range []string{source, target} {
		if err := platform.ValidatePath(path); err != nil {
			return err
		}
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", path)
		}
		if err != nil {
			return fmt.Errorf("failed to access path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("path is not a directory: %s", path)
		}
	}

	// Validate paths are not identical
	sourceAbs, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("failed to resolve source path: %w", err)
	}

	targetAbs, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("failed to resolve target path: %w", err)
	}

	if sourceAbs == targetAbs {
		return fmt.Errorf("source and target cannot be the same: %s", sourceAbs)
	}

	// Validate paths are not nested
	if platform.IsNested(sourceAbs, targetAbs) {
		return fmt.Errorf("target cannot be inside source directory")
	}
	if platform.IsNested(targetAbs, sourceAbs) {
		return fmt.Errorf("source cannot be inside target directory")
	}

	return nil
}

// validateSortPath validates the sort command positional argument
func validateSortPath(source string) error {
	if err := platform.ValidatePath(source); err != nil {
		return err
	}

	info, err := os.Stat(source)
	if os.IsNotExist(err) {
		return fmt.Errorf("source path does not exist: %s", source)
	}
	if err != nil {
		return fmt.Errorf("failed to access source path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source path is not a directory: %s", source)
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyGlobalFlags applies global flag overrides to the configuration
func applyGlobalFlags(cfg *config.Config) {
	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	// Enable progress in verbose mode
	if globalFlags.Verbose {
		cfg.Output.Progress = true
	}
}

// parseBandwidth parses a human-readable rate like "10M" or "1G" into
// bytes per second. An empty string means unlimited.
func parseBandwidth(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}

	multiplier := int64(1)
	value := s
	switch {
	case strings.HasSuffix(s, "K"), strings.HasSuffix(s, "k"):
		multiplier = 1024
		value = s[:len(s)-1]
	case strings.HasSuffix(s, "M"), strings.HasSuffix(s, "m"):
		multiplier = 1024 * 1024
		value = s[:len(s)-1]
	case strings.HasSuffix(s, "G"), strings.HasSuffix(s, "g"):
		multiplier = 1024 * 1024 * 1024
		value = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bandwidth value: %s", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("bandwidth cannot be negative: %s", s)
	}

	return n * multiplier, nil
}

// buildLogger creates a logger from the logging configuration
func buildLogger(cfg *config.Config) (logging.Logger, error) {
	if !cfg.Logging.Enabled || cfg.Logging.File == "" {
		return logging.NewNullLogger(), nil
	}

	var format logging.Format
	switch cfg.Logging.Format {
	case "text":
		format = logging.FormatText
	default:
		format = logging.FormatJSON
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.Logging.File,
		Format:     format,
		Level:      logging.ParseLevel(cfg.Logging.Level),
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}
