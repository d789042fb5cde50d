package config

import (
	"github.com/sdejongh/mediakit/pkg/models"
	"github.com/sdejongh/mediakit/pkg/sorter"
)

// Config represents the application configuration
type Config struct {
	Compare     CompareConfig     `yaml:"compare"`
	Sort        SortConfig        `yaml:"sort"`
	Project     ProjectConfig     `yaml:"project"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exclude     []string          `yaml:"exclude"`
}

// CompareConfig holds folder-comparison settings
type CompareConfig struct {
	CheckContent bool                `yaml:"check_content"`
	Method       models.DigestMethod `yaml:"method"`
}

// SortConfig holds file-sorter settings
type SortConfig struct {
	Action      models.SortAction      `yaml:"action"`
	OnCollision models.CollisionPolicy `yaml:"on_collision"`
	Recursive   bool                   `yaml:"recursive"`

	// Categories maps category folders to the extensions they collect
	Categories map[string][]string `yaml:"categories"`
}

// ProjectConfig holds project-generator settings
type ProjectConfig struct {
	TemplatesFile string `yaml:"templates_file"`
	DatePrefix    bool   `yaml:"date_prefix"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	MaxWorkers     int   `yaml:"max_workers"`
	BufferSize     int   `yaml:"buffer_size"`
	BandwidthLimit int64 `yaml:"bandwidth_limit"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Format     string `yaml:"format"` // "json" or "text"
	Level      string `yaml:"level"`  // "debug", "info", "warn", "error"
	File       string `yaml:"file"`
	MaxSize    int64  `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			CheckContent: false,
			Method:       models.DigestQuick,
		},
		Sort: SortConfig{
			Action:      models.SortMove,
			OnCollision: models.CollisionRename,
			Recursive:   false,
			Categories:  sorter.DefaultCategories(),
		},
		Project: ProjectConfig{
			TemplatesFile: "",
			DatePrefix:    false,
		},
		Performance: PerformanceConfig{
			MaxWorkers:     5,
			BufferSize:     65536,
			BandwidthLimit: 0,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Format:     "json",
			Level:      "info",
			File:       "mediakit.log",
			MaxSize:    1024 * 1024,
			MaxBackups: 3,
		},
		Exclude: []string{
			"*.tmp",
			".DS_Store",
			"Thumbs.db",
		},
	}
}

// Validate checks if the configuration is valid. The category table is
// built once here so malformed entries are rejected at startup.
func (c *Config) Validate() error {
	switch c.Compare.Method {
	case models.DigestQuick, models.DigestSHA256, models.DigestBinary:
	default:
		return &models.ValidationError{
			Field:   "compare.method",
			Message: "must be 'quick', 'sha256', or 'binary'",
		}
	}

	switch c.Sort.Action {
	case models.SortMove, models.SortCopy:
	default:
		return &models.ValidationError{
			Field:   "sort.action",
			Message: "must be 'move' or 'copy'",
		}
	}

	switch c.Sort.OnCollision {
	case models.CollisionRename, models.CollisionSkip, models.CollisionOverwrite:
	default:
		return &models.ValidationError{
			Field:   "sort.on_collision",
			Message: "must be 'rename', 'skip', or 'overwrite'",
		}
	}

	if _, err := sorter.NewCategoryTable(c.Sort.Categories); err != nil {
		return err
	}

	if c.Performance.MaxWorkers < 1 {
		return &models.ValidationError{
			Field:   "performance.max_workers",
			Message: "must be at least 1",
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
