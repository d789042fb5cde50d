package compare

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/sdejongh/mediakit/pkg/logging"
	"github.com/sdejongh/mediakit/pkg/models"
	"github.com/sdejongh/mediakit/pkg/output"
	"github.com/sdejongh/mediakit/pkg/storage"
)

// Snapshot is the set of files and directories found under one root,
// keyed by slash-normalized relative path
type Snapshot struct {
	Files map[string]storage.FileInfo
	Dirs  map[string]struct{}
}

// BuildSnapshot walks a backend into a Snapshot, filtering excluded paths.
// Unreadable entries become warnings, not errors.
func BuildSnapshot(ctx context.Context, backend storage.Backend, excludes []string) (*Snapshot, []models.Warning, error) {
	entries, skipped, err := backend.Walk(ctx)
	if err != nil {
		return nil, nil, err
	}

	snap := &Snapshot{
		Files: make(map[string]storage.FileInfo),
		Dirs:  make(map[string]struct{}),
	}

	for _, entry := range entries {
		if shouldExclude(entry.RelativePath, excludes) {
			continue
		}
		if entry.IsDir {
			snap.Dirs[entry.RelativePath] = struct{}{}
		} else {
			snap.Files[entry.RelativePath] = entry
		}
	}

	var warnings []models.Warning
	for _, s := range skipped {
		warnings = append(warnings, models.NewWarning("walk", s.Path, s.Err))
	}

	return snap, warnings, nil
}

// TreeComparator compares two directory trees. Without content checking it
// classifies paths by presence alone; with it, common paths are handed to a
// file Comparator on a bounded worker pool.
type TreeComparator struct {
	source     storage.Backend
	target     storage.Backend
	comparator Comparator
	formatter  output.Formatter
	logger     logging.Logger
	operation  *models.CompareOperation
	writer     io.Writer
}

// NewTreeComparator creates a tree comparator. comparator may be nil when
// the operation does not check content. logger may be nil.
func NewTreeComparator(
	source, target storage.Backend,
	comparator Comparator,
	formatter output.Formatter,
	logger logging.Logger,
	operation *models.CompareOperation,
	writer io.Writer,
) *TreeComparator {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &TreeComparator{
		source:     source,
		target:     target,
		comparator: comparator,
		formatter:  formatter,
		logger:     logger,
		operation:  operation,
		writer:     writer,
	}
}

// Run executes the comparison and returns the report. Differences are not
// errors; Run fails only when a root cannot be walked.
func (t *TreeComparator) Run(ctx context.Context) (*models.CompareReport, error) {
	report := &models.CompareReport{
		OperationID:  t.operation.ID,
		SourcePath:   t.operation.SourcePath,
		TargetPath:   t.operation.TargetPath,
		CheckContent: t.operation.CheckContent,
		Method:       t.operation.Method,
		StartTime:    time.Now(),
	}

	t.logger.Info(ctx, "comparison started", logging.Fields{
		"operation_id":  t.operation.ID,
		"source":        t.operation.SourcePath,
		"target":        t.operation.TargetPath,
		"check_content": t.operation.CheckContent,
	})

	sourceSnap, targetSnap, walkWarnings, err := t.walkBoth(ctx)
	report.Warnings = append(report.Warnings, walkWarnings...)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			report.Status = models.StatusCancelled
		} else {
			report.Status = models.StatusFailed
		}
		return report, err
	}

	report.Stats.SourceFiles = len(sourceSnap.Files)
	report.Stats.SourceDirs = len(sourceSnap.Dirs)
	report.Stats.TargetFiles = len(targetSnap.Files)
	report.Stats.TargetDirs = len(targetSnap.Dirs)

	// Path-set difference. A path that is a file on one side and a
	// directory on the other counts as only-in the file-bearing side,
	// with a warning for the conflicting side.
	var common []string
	var totalBytes int64
	for path, info := range sourceSnap.Files {
		if _, ok := targetSnap.Files[path]; ok {
			common = append(common, path)
			totalBytes += info.Size
			continue
		}
		report.OnlyInSource = append(report.OnlyInSource, path)
		if _, isDir := targetSnap.Dirs[path]; isDir {
			report.Warnings = append(report.Warnings,
				models.NewWarning("compare", path, errors.New("file in source but directory in target")))
		}
	}
	for path := range targetSnap.Files {
		if _, ok := sourceSnap.Files[path]; ok {
			continue
		}
		report.OnlyInTarget = append(report.OnlyInTarget, path)
		if _, isDir := sourceSnap.Dirs[path]; isDir {
			report.Warnings = append(report.Warnings,
				models.NewWarning("compare", path, errors.New("file in target but directory in source")))
		}
	}
	report.Stats.CommonPaths = len(common)

	// Deterministic processing and output order
	sort.Strings(common)
	sort.Strings(report.OnlyInSource)
	sort.Strings(report.OnlyInTarget)

	if !t.operation.CheckContent {
		// Presence-only mode: a common path counts as identical
		report.IdenticalCount = len(common)
		t.finish(report)
		return report, nil
	}

	if t.formatter != nil {
		t.formatter.Start(t.writer, len(common), totalBytes)
	}

	if err := t.digestCommon(ctx, common, report); err != nil {
		if errors.Is(err, context.Canceled) {
			report.Status = models.StatusCancelled
			return report, err
		}
		report.Status = models.StatusFailed
		return report, err
	}

	t.finish(report)
	return report, nil
}

// walkBoth snapshots source and target concurrently
func (t *TreeComparator) walkBoth(ctx context.Context) (*Snapshot, *Snapshot, []models.Warning, error) {
	var sourceSnap, targetSnap *Snapshot
	var sourceWarn, targetWarn []models.Warning
	var sourceErr, targetErr error
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		sourceSnap, sourceWarn, sourceErr = BuildSnapshot(ctx, t.source, t.operation.ExcludePatterns)
	}()
	go func() {
		defer wg.Done()
		targetSnap, targetWarn, targetErr = BuildSnapshot(ctx, t.target, t.operation.ExcludePatterns)
	}()
	wg.Wait()

	warnings := append(sourceWarn, targetWarn...)

	if sourceErr != nil {
		return nil, nil, warnings, sourceErr
	}
	if targetErr != nil {
		return nil, nil, warnings, targetErr
	}

	return sourceSnap, targetSnap, warnings, nil
}

// digestCommon fingerprints every common path on a bounded worker pool.
// Classification is assembled from a results map after the pool drains, so
// completion order never affects the report.
func (t *TreeComparator) digestCommon(ctx context.Context, common []string, report *models.CompareReport) error {
	results := make(map[string]*Comparison, len(common))
	var mu sync.Mutex
	var fileNum int

	p := pool.New().WithMaxGoroutines(t.operation.MaxWorkers)
	for _, path := range common {
		path := path
		p.Go(func() {
			select {
			case <-ctx.Done():
				return
			default:
			}

			comparison, err := t.comparator.Compare(ctx, t.source, t.target, path)
			if err != nil {
				comparison = &Comparison{Path: path, Result: Error, Reason: "comparison failed", Error: err}
			}

			mu.Lock()
			results[path] = comparison
			fileNum++
			if t.formatter != nil {
				update := output.ProgressUpdate{
					Type:        "file_complete",
					FilePath:    path,
					CurrentFile: fileNum,
					TotalFiles:  len(common),
					BytesRead:   comparison.BytesRead,
				}
				if comparison.Result == Error {
					update.Type = "file_error"
					update.Error = comparison.Error
				}
				t.formatter.Progress(update)
			}
			mu.Unlock()
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	for _, path := range common {
		comparison, ok := results[path]
		if !ok {
			continue
		}
		switch comparison.Result {
		case Same:
			report.IdenticalCount++
			report.Stats.FilesDigested++
		case Different:
			report.Differing = append(report.Differing, path)
			report.Stats.FilesDigested++
		case Error:
			report.Warnings = append(report.Warnings,
				models.NewWarning("digest", path, comparison.Error))
			t.logger.Warn(ctx, "digest failed", logging.Fields{
				"path":  path,
				"error": comparison.Reason,
			})
		}
		report.Stats.BytesDigested += comparison.BytesRead
	}

	return nil
}

// finish stamps timing and status on a completed report
func (t *TreeComparator) finish(report *models.CompareReport) {
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	if len(report.Warnings) > 0 {
		report.Status = models.StatusPartial
	} else {
		report.Status = models.StatusSuccess
	}

	t.logger.Info(context.Background(), "comparison completed", logging.Fields{
		"operation_id":    report.OperationID,
		"only_in_source":  len(report.OnlyInSource),
		"only_in_target":  len(report.OnlyInTarget),
		"differing":       len(report.Differing),
		"identical":       report.IdenticalCount,
		"warnings":        len(report.Warnings),
	})
}
