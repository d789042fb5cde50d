package sorter

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/sdejongh/mediakit/pkg/logging"
	"github.com/sdejongh/mediakit/pkg/models"
	"github.com/sdejongh/mediakit/pkg/storage"
)

// maxRenameAttempts caps the numbered-suffix search for a free name
const maxRenameAttempts = 1000

// Sorter classifies files into category folders by extension and moves or
// copies them there. Each file operation is independent and per-file
// atomic when moving, so an interrupted run never leaves a file in a
// half-written state.
type Sorter struct {
	backend   storage.Backend
	table     *CategoryTable
	logger    logging.Logger
	operation *models.SortOperation
	progress  func(current, total int)
}

// New creates a sorter. logger may be nil.
func New(backend storage.Backend, table *CategoryTable, logger logging.Logger, operation *models.SortOperation) *Sorter {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Sorter{
		backend:   backend,
		table:     table,
		logger:    logger,
		operation: operation,
	}
}

// SetProgressCallback sets a callback invoked after each processed file
func (s *Sorter) SetProgressCallback(fn func(current, total int)) {
	s.progress = fn
}

// Run executes the sort and returns the report. Per-file failures become
// warnings; Run fails only when the root cannot be read.
func (s *Sorter) Run(ctx context.Context) (*models.SortReport, error) {
	report := &models.SortReport{
		OperationID: s.operation.ID,
		SourcePath:  s.operation.SourcePath,
		Action:      s.operation.Action,
		DryRun:      s.operation.DryRun,
		StartTime:   time.Now(),
	}
	report.Stats.PerCategory = make(map[string]int)

	s.logger.Info(ctx, "sort started", logging.Fields{
		"operation_id": s.operation.ID,
		"source":       s.operation.SourcePath,
		"action":       string(s.operation.Action),
		"recursive":    s.operation.Recursive,
		"dry_run":      s.operation.DryRun,
	})

	candidates, err := s.collect(ctx, report)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			report.Status = models.StatusCancelled
		} else {
			report.Status = models.StatusFailed
		}
		return report, err
	}
	report.Stats.FilesScanned = len(candidates)

	for i, entry := range candidates {
		select {
		case <-ctx.Done():
			report.EndTime = time.Now()
			report.Duration = report.EndTime.Sub(report.StartTime)
			report.Status = models.StatusCancelled
			return report, ctx.Err()
		default:
		}

		s.sortFile(ctx, entry, report)

		if s.progress != nil {
			s.progress(i+1, len(candidates))
		}
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	if len(report.Warnings) > 0 {
		report.Status = models.StatusPartial
	} else {
		report.Status = models.StatusSuccess
	}

	s.logger.Info(ctx, "sort completed", logging.Fields{
		"operation_id": s.operation.ID,
		"scanned":      report.Stats.FilesScanned,
		"moved":        report.Stats.FilesMoved,
		"copied":       report.Stats.FilesCopied,
		"skipped":      report.Stats.FilesSkipped,
		"errored":      report.Stats.FilesErrored,
	})

	return report, nil
}

// collect gathers the files to classify. Files already living inside a
// category folder are never candidates.
func (s *Sorter) collect(ctx context.Context, report *models.SortReport) ([]storage.FileInfo, error) {
	var entries []storage.FileInfo

	if s.operation.Recursive {
		walked, skipped, err := s.backend.Walk(ctx)
		if err != nil {
			return nil, err
		}
		for _, skip := range skipped {
			report.Warnings = append(report.Warnings, models.NewWarning("walk", skip.Path, skip.Err))
		}
		entries = walked
	} else {
		listed, err := s.backend.List(ctx, ".")
		if err != nil {
			return nil, err
		}
		entries = listed
	}

	var candidates []storage.FileInfo
	for _, entry := range entries {
		if entry.IsDir {
			continue
		}
		first := entry.RelativePath
		if idx := strings.IndexByte(first, '/'); idx >= 0 {
			first = first[:idx]
		}
		if s.table.IsCategory(first) {
			continue
		}
		candidates = append(candidates, entry)
	}

	return candidates, nil
}

// sortFile classifies and relocates one file
func (s *Sorter) sortFile(ctx context.Context, entry storage.FileInfo, report *models.SortReport) {
	category := s.table.Categorize(entry.RelativePath)
	destPath := path.Join(category, path.Base(entry.RelativePath))

	renamed := false
	exists, err := s.backend.Exists(ctx, destPath)
	if err != nil {
		report.Warnings = append(report.Warnings, models.NewWarning("sort", entry.RelativePath, err))
		report.Stats.FilesErrored++
		return
	}
	if exists {
		switch s.operation.OnCollision {
		case models.CollisionSkip:
			report.Stats.FilesSkipped++
			s.logger.Debug(ctx, "destination exists, skipping", logging.Fields{"path": entry.RelativePath})
			return
		case models.CollisionOverwrite:
			// fall through, Move/Write replace the destination
		default: // models.CollisionRename
			freePath, err := s.findFreeName(ctx, destPath)
			if err != nil {
				report.Warnings = append(report.Warnings, models.NewWarning("sort", entry.RelativePath, err))
				report.Stats.FilesErrored++
				return
			}
			destPath = freePath
			renamed = true
		}
	}

	if s.operation.DryRun {
		s.recordSuccess(report, category, renamed)
		return
	}

	if err := s.relocate(ctx, entry, destPath); err != nil {
		report.Warnings = append(report.Warnings, models.NewWarning("sort", entry.RelativePath, err))
		report.Stats.FilesErrored++
		s.logger.Error(ctx, "failed to sort file", err, logging.Fields{"path": entry.RelativePath})
		return
	}

	s.logger.Debug(ctx, "sorted file", logging.Fields{
		"path":     entry.RelativePath,
		"dest":     destPath,
		"category": category,
	})
	s.recordSuccess(report, category, renamed)
}

// relocate moves or copies one file to its destination
func (s *Sorter) relocate(ctx context.Context, entry storage.FileInfo, destPath string) error {
	if s.operation.Action == models.SortCopy {
		reader, err := s.backend.Read(ctx, entry.RelativePath)
		if err != nil {
			return err
		}
		defer reader.Close()
		return s.backend.Write(ctx, destPath, reader, entry.Size, &entry)
	}
	return s.backend.Move(ctx, entry.RelativePath, destPath)
}

// findFreeName probes numbered suffixes until an unused destination is found
func (s *Sorter) findFreeName(ctx context.Context, destPath string) (string, error) {
	ext := path.Ext(destPath)
	stem := strings.TrimSuffix(destPath, ext)

	for i := 1; i <= maxRenameAttempts; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		exists, err := s.backend.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no free name after %d attempts", maxRenameAttempts)
}

func (s *Sorter) recordSuccess(report *models.SortReport, category string, renamed bool) {
	if s.operation.Action == models.SortCopy {
		report.Stats.FilesCopied++
	} else {
		report.Stats.FilesMoved++
	}
	if renamed {
		report.Stats.FilesRenamed++
	}
	report.Stats.PerCategory[category]++
}
