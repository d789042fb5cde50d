package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/mediakit/pkg/config"
	"github.com/sdejongh/mediakit/pkg/models"
	"github.com/sdejongh/mediakit/pkg/output"
	"github.com/sdejongh/mediakit/pkg/sorter"
	"github.com/sdejongh/mediakit/pkg/storage"
)

// SortFlags holds sort command flags
type SortFlags struct {
	Copy        bool
	Recursive   bool
	DryRun      bool
	OnCollision string
	Output      string
}

var sortFlags SortFlags

// NewSortCommand creates the sort command
func NewSortCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort SOURCE",
		Short: "Sort files into category folders by extension",
		Long: `Sort the files in a folder into category subfolders (RAW, JPEG, Video, ...)
based on their extension. Files with no matching category go to Other.
Category folders are created inside the source folder as needed.`,
		Args: cobra.ExactArgs(1),
		RunE: runSort,
	}

	cmd.Flags().BoolVar(&sortFlags.Copy, "copy", false, "copy files instead of moving them")
	cmd.Flags().BoolVarP(&sortFlags.Recursive, "recursive", "r", false, "also sort files in subfolders")
	cmd.Flags().BoolVar(&sortFlags.DryRun, "dry-run", false, "report what would be done without touching files")
	cmd.Flags().StringVar(&sortFlags.OnCollision, "on-collision", "", "name collision policy: rename, skip, overwrite")
	cmd.Flags().StringVarP(&sortFlags.Output, "output", "o", "", "output format: human, json")

	return cmd
}

func runSort(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sourcePath := args[0]
	if err := validateSortPath(sourcePath); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyGlobalFlags(cfg)
	applySortFlags(cfg)

	operation, err := createSortOperation(cfg, sourcePath)
	if err != nil {
		return fmt.Errorf("failed to create sort operation: %w", err)
	}

	table, err := sorter.NewCategoryTable(cfg.Sort.Categories)
	if err != nil {
		return fmt.Errorf("invalid category table: %w", err)
	}

	backend, err := storage.NewLocal(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer backend.Close()

	logger, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	s := sorter.New(backend, table, logger, operation)

	var bar *pb.ProgressBar
	if cfg.Output.Progress && cfg.Output.Format != "json" {
		s.SetProgressCallback(func(current, total int) {
			if bar == nil {
				bar = output.NewFileBar(os.Stderr, total)
			}
			if bar != nil {
				bar.SetCurrent(int64(current))
			}
		})
	}

	report, err := s.Run(ctx)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(report.Status.ExitCode())
	}

	if !cfg.Output.Quiet {
		if cfg.Output.Format == "json" {
			if err := output.RenderSortReportJSON(os.Stdout, report); err != nil {
				return fmt.Errorf("failed to render report: %w", err)
			}
		} else {
			output.RenderSortReport(os.Stdout, report)
		}
	}

	os.Exit(report.Status.ExitCode())
	return nil
}

// applySortFlags overrides config values with command-line flags
func applySortFlags(cfg *config.Config) {
	if sortFlags.Copy {
		cfg.Sort.Action = models.SortCopy
	}

	if sortFlags.Recursive {
		cfg.Sort.Recursive = true
	}

	if sortFlags.OnCollision != "" {
		cfg.Sort.OnCollision = models.CollisionPolicy(sortFlags.OnCollision)
	}

	if sortFlags.Output != "" {
		cfg.Output.Format = sortFlags.Output
	}
}

// createSortOperation creates a sort operation from configuration
func createSortOperation(cfg *config.Config, sourcePath string) (*models.SortOperation, error) {
	operation := &models.SortOperation{
		ID:          uuid.New().String(),
		SourcePath:  sourcePath,
		Action:      cfg.Sort.Action,
		OnCollision: cfg.Sort.OnCollision,
		Recursive:   cfg.Sort.Recursive,
		DryRun:      sortFlags.DryRun,
		CreatedAt:   time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}
