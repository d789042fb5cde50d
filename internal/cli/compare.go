package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/mediakit/pkg/compare"
	"github.com/sdejongh/mediakit/pkg/config"
	"github.com/sdejongh/mediakit/pkg/models"
	"github.com/sdejongh/mediakit/pkg/output"
	"github.com/sdejongh/mediakit/pkg/ratelimit"
	"github.com/sdejongh/mediakit/pkg/storage"
)

// CompareFlags holds compare command flags
type CompareFlags struct {
	CheckContent bool
	Method       string
	Exclude      []string
	Parallel     int
	Bandwidth    string
	Output       string
	DiffReport   string
	DiffFormat   string
}

var compareFlags CompareFlags

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare SOURCE TARGET",
		Short: "Compare two folder trees",
		Long: `Compare source and target folder trees and report files present on
only one side. With --check-content, files present on both sides are also
fingerprinted and reported when their content differs.`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}

	cmd.Flags().BoolVarP(&compareFlags.CheckContent, "check-content", "c", false, "compare file content, not just presence")
	cmd.Flags().StringVar(&compareFlags.Method, "method", "", "content check method: quick, sha256, binary")
	cmd.Flags().StringSliceVar(&compareFlags.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().IntVarP(&compareFlags.Parallel, "parallel", "p", 0, "number of parallel workers (default: 5)")
	cmd.Flags().StringVarP(&compareFlags.Bandwidth, "bandwidth", "b", "", "read bandwidth limit (e.g. \"10M\", \"1G\")")
	cmd.Flags().StringVarP(&compareFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().StringVar(&compareFlags.DiffReport, "diff-report", "", "write differences report to file")
	cmd.Flags().StringVar(&compareFlags.DiffFormat, "diff-format", "human", "differences report format: human, json")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sourcePath, targetPath := args[0], args[1]
	if err := validateComparePaths(sourcePath, targetPath); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyGlobalFlags(cfg)
	applyCompareFlags(cfg)

	operation, err := createCompareOperation(cfg, sourcePath, targetPath)
	if err != nil {
		return fmt.Errorf("failed to create compare operation: %w", err)
	}

	source, err := storage.NewLocal(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer source.Close()

	target, err := storage.NewLocal(targetPath)
	if err != nil {
		return fmt.Errorf("failed to open target: %w", err)
	}
	defer target.Close()

	var comparator compare.Comparator
	if operation.CheckContent {
		comparator, err = buildComparator(ctx, operation)
		if err != nil {
			return err
		}
	}

	var formatter output.Formatter
	switch cfg.Output.Format {
	case "json":
		formatter = output.NewJSONFormatter()
	default:
		if cfg.Output.Progress {
			formatter = output.NewProgressFormatter()
		} else {
			formatter = output.NewHumanFormatter()
		}
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	tree := compare.NewTreeComparator(source, target, comparator, formatter, logger, operation, os.Stdout)

	report, err := tree.Run(ctx)
	if err != nil {
		formatter.Error(err)
		os.Exit(report.Status.ExitCode())
	}

	if !cfg.Output.Quiet {
		if err := formatter.Complete(report); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
	}

	if err := writeDiffReport(report); err != nil {
		return err
	}

	os.Exit(report.Status.ExitCode())
	return nil
}

// writeDiffReport writes the differences report when --diff-report names a
// file. --diff-format alone selects a format but requests no file.
func writeDiffReport(report *models.CompareReport) error {
	if compareFlags.DiffReport == "" {
		return nil
	}
	if err := output.WriteCompareReport(report, compareFlags.DiffReport, compareFlags.DiffFormat); err != nil {
		return fmt.Errorf("failed to write differences report: %w", err)
	}
	return nil
}

// applyCompareFlags overrides config values with command-line flags
func applyCompareFlags(cfg *config.Config) {
	if compareFlags.CheckContent {
		cfg.Compare.CheckContent = true
	}

	if compareFlags.Method != "" {
		cfg.Compare.Method = models.DigestMethod(compareFlags.Method)
	}

	if len(compareFlags.Exclude) > 0 {
		cfg.Exclude = compareFlags.Exclude
	}

	// Parallel workers (default: 5)
	if compareFlags.Parallel > 0 {
		cfg.Performance.MaxWorkers = compareFlags.Parallel
	} else if cfg.Performance.MaxWorkers == 0 {
		cfg.Performance.MaxWorkers = 5
	}

	if compareFlags.Output != "" {
		cfg.Output.Format = compareFlags.Output
	}
}

// createCompareOperation creates a compare operation from configuration
func createCompareOperation(cfg *config.Config, sourcePath, targetPath string) (*models.CompareOperation, error) {
	bandwidth, err := parseBandwidth(compareFlags.Bandwidth)
	if err != nil {
		return nil, err
	}
	if bandwidth == 0 {
		bandwidth = cfg.Performance.BandwidthLimit
	}

	operation := &models.CompareOperation{
		ID:              uuid.New().String(),
		SourcePath:      sourcePath,
		TargetPath:      targetPath,
		CheckContent:    cfg.Compare.CheckContent,
		Method:          cfg.Compare.Method,
		ExcludePatterns: cfg.Exclude,
		MaxWorkers:      cfg.Performance.MaxWorkers,
		BufferSize:      cfg.Performance.BufferSize,
		BandwidthLimit:  bandwidth,
		CreatedAt:       time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}

// buildComparator selects the file comparator for a content-checking
// operation and installs the bandwidth limiter when one is configured.
func buildComparator(ctx context.Context, operation *models.CompareOperation) (compare.Comparator, error) {
	var wrapper compare.ReaderWrapper
	if limiter := ratelimit.NewLimiter(operation.BandwidthLimit); limiter != nil {
		wrapper = func(r io.ReadCloser) io.ReadCloser {
			return ratelimit.NewReadCloser(ctx, r, limiter)
		}
	}

	switch operation.Method {
	case models.DigestQuick:
		// Fast: fingerprints the first and last chunk of each file
		c := compare.NewQuickComparator()
		c.SetReaderWrapper(wrapper)
		return c, nil

	case models.DigestSHA256:
		// Secure: full SHA-256 digest of both files
		c := compare.NewSHA256Comparator(operation.BufferSize)
		c.SetReaderWrapper(wrapper)
		return c, nil

	case models.DigestBinary:
		// Thorough: byte-by-byte comparison, reports first differing offset
		c := compare.NewBinaryComparator(operation.BufferSize)
		c.SetReaderWrapper(wrapper)
		return c, nil

	default:
		return nil, fmt.Errorf("unsupported content check method: %s (use: quick, sha256, binary)", operation.Method)
	}
}
