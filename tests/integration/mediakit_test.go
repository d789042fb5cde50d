package integration

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sdejongh/mediakit/pkg/compare"
	"github.com/sdejongh/mediakit/pkg/models"
	"github.com/sdejongh/mediakit/pkg/output"
	"github.com/sdejongh/mediakit/pkg/project"
	"github.com/sdejongh/mediakit/pkg/sorter"
	"github.com/sdejongh/mediakit/pkg/storage"
)

// TestHelper provides utilities for integration tests
type TestHelper struct {
	t         *testing.T
	tempDir   string
	sourceDir string
	targetDir string
	source    *storage.Local
	target    *storage.Local
}

// NewTestHelper creates a new integration test helper
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "mediakit-integration-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	sourceDir := filepath.Join(tempDir, "source")
	targetDir := filepath.Join(tempDir, "target")

	if err := os.MkdirAll(sourceDir, 0755); err != nil {
		t.Fatalf("failed to create source dir: %v", err)
	}
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		t.Fatalf("failed to create target dir: %v", err)
	}

	source, err := storage.NewLocal(sourceDir)
	if err != nil {
		t.Fatalf("failed to create source backend: %v", err)
	}

	target, err := storage.NewLocal(targetDir)
	if err != nil {
		t.Fatalf("failed to create target backend: %v", err)
	}

	return &TestHelper{
		t:         t,
		tempDir:   tempDir,
		sourceDir: sourceDir,
		targetDir: targetDir,
		source:    source,
		target:    target,
	}
}

// Cleanup removes all temporary files
func (h *TestHelper) Cleanup() {
	os.RemoveAll(h.tempDir)
}

// CreateSourceFile creates a file in the source directory
func (h *TestHelper) CreateSourceFile(name string, content []byte) {
	h.t.Helper()
	path := filepath.Join(h.sourceDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		h.t.Fatalf("failed to create source file: %v", err)
	}
}

// CreateTargetFile creates a file in the target directory
func (h *TestHelper) CreateTargetFile(name string, content []byte) {
	h.t.Helper()
	path := filepath.Join(h.targetDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		h.t.Fatalf("failed to create target file: %v", err)
	}
}

// SourceFileExists checks if a file exists in the source
func (h *TestHelper) SourceFileExists(name string) bool {
	_, err := os.Stat(filepath.Join(h.sourceDir, name))
	return err == nil
}

// ReadSourceFile reads a file from the source directory
func (h *TestHelper) ReadSourceFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(h.sourceDir, name))
}

// NewCompareOperation creates a default compare operation for testing
func (h *TestHelper) NewCompareOperation(checkContent bool, method models.DigestMethod) *models.CompareOperation {
	return &models.CompareOperation{
		ID:           "integration-test",
		SourcePath:   h.sourceDir,
		TargetPath:   h.targetDir,
		CheckContent: checkContent,
		Method:       method,
		MaxWorkers:   2,
		BufferSize:   4096,
	}
}

// NewSortOperation creates a default sort operation for testing
func (h *TestHelper) NewSortOperation() *models.SortOperation {
	return &models.SortOperation{
		ID:          "integration-test",
		SourcePath:  h.sourceDir,
		Action:      models.SortMove,
		OnCollision: models.CollisionRename,
	}
}

// nullFormatter is a minimal formatter for testing
type nullFormatter struct{}

func (f *nullFormatter) Start(writer io.Writer, totalFiles int, totalBytes int64) error {
	return nil
}
func (f *nullFormatter) Progress(update output.ProgressUpdate) error { return nil }
func (f *nullFormatter) Complete(report *models.CompareReport) error { return nil }
func (f *nullFormatter) Error(err error) error                       { return nil }
func (f *nullFormatter) Name() string                                { return "null" }

var _ output.Formatter = (*nullFormatter)(nil)

// ============== Folder Compare Tests ==============

func TestCompare_BackupVerification(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	// A shoot and its backup, with one corrupted copy, one missed
	// file and one stray file on the backup drive.
	h.CreateSourceFile("RAW/IMG_0001.CR2", []byte("raw sensor data 1"))
	h.CreateSourceFile("RAW/IMG_0002.CR2", []byte("raw sensor data 2"))
	h.CreateSourceFile("JPEG/IMG_0001.jpg", []byte("jpeg data"))
	h.CreateSourceFile("notes.txt", []byte("shoot notes"))

	h.CreateTargetFile("RAW/IMG_0001.CR2", []byte("raw sensor data 1"))
	h.CreateTargetFile("RAW/IMG_0002.CR2", []byte("truncated copy!!!"))
	h.CreateTargetFile("JPEG/IMG_0001.jpg", []byte("jpeg data"))
	h.CreateTargetFile("leftover.tmp", []byte("stale"))

	op := h.NewCompareOperation(true, models.DigestSHA256)
	comparator := compare.NewSHA256Comparator(op.BufferSize)

	tc := compare.NewTreeComparator(h.source, h.target, comparator, &nullFormatter{}, nil, op, io.Discard)
	report, err := tc.Run(context.Background())

	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Status != models.StatusSuccess {
		t.Errorf("Status = %s, want success", report.Status)
	}
	if !reflect.DeepEqual(report.OnlyInSource, []string{"notes.txt"}) {
		t.Errorf("OnlyInSource = %v, want [notes.txt]", report.OnlyInSource)
	}
	if !reflect.DeepEqual(report.OnlyInTarget, []string{"leftover.tmp"}) {
		t.Errorf("OnlyInTarget = %v, want [leftover.tmp]", report.OnlyInTarget)
	}
	if !reflect.DeepEqual(report.Differing, []string{"RAW/IMG_0002.CR2"}) {
		t.Errorf("Differing = %v, want [RAW/IMG_0002.CR2]", report.Differing)
	}
	if report.IdenticalCount != 2 {
		t.Errorf("IdenticalCount = %d, want 2", report.IdenticalCount)
	}
}

func TestCompare_ExcludePatternsEndToEnd(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.CreateSourceFile("IMG_0001.CR2", []byte("raw"))
	h.CreateSourceFile(".DS_Store", []byte("finder junk"))
	h.CreateSourceFile("Lightroom/catalog.lrcat", []byte("catalog"))
	h.CreateTargetFile("IMG_0001.CR2", []byte("raw"))

	op := h.NewCompareOperation(false, models.DigestQuick)
	op.ExcludePatterns = []string{".DS_Store", "Lightroom/"}

	tc := compare.NewTreeComparator(h.source, h.target, nil, &nullFormatter{}, nil, op, io.Discard)
	report, err := tc.Run(context.Background())

	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.OnlyInSource) != 0 {
		t.Errorf("OnlyInSource = %v, want empty", report.OnlyInSource)
	}
	if report.IdenticalCount != 1 {
		t.Errorf("IdenticalCount = %d, want 1", report.IdenticalCount)
	}
}

func TestCompare_AllDigestMethodsAgree(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.CreateSourceFile("same.jpg", bytes.Repeat([]byte("a"), 20000))
	h.CreateTargetFile("same.jpg", bytes.Repeat([]byte("a"), 20000))
	h.CreateSourceFile("diff.jpg", bytes.Repeat([]byte("b"), 20000))
	h.CreateTargetFile("diff.jpg", bytes.Repeat([]byte("c"), 20000))

	methods := map[models.DigestMethod]compare.Comparator{
		models.DigestQuick:  compare.NewQuickComparator(),
		models.DigestSHA256: compare.NewSHA256Comparator(4096),
		models.DigestBinary: compare.NewBinaryComparator(4096),
	}

	for method, comparator := range methods {
		t.Run(string(method), func(t *testing.T) {
			op := h.NewCompareOperation(true, method)
			tc := compare.NewTreeComparator(h.source, h.target, comparator, &nullFormatter{}, nil, op, io.Discard)
			report, err := tc.Run(context.Background())

			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !reflect.DeepEqual(report.Differing, []string{"diff.jpg"}) {
				t.Errorf("Differing = %v, want [diff.jpg]", report.Differing)
			}
			if report.IdenticalCount != 1 {
				t.Errorf("IdenticalCount = %d, want 1", report.IdenticalCount)
			}
		})
	}
}

// ============== File Sorter Tests ==============

func TestSort_CardDump(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	// A typical memory card dump mixing raws, jpegs and video
	h.CreateSourceFile("IMG_0001.CR2", []byte("raw 1"))
	h.CreateSourceFile("IMG_0001.JPG", []byte("jpeg 1"))
	h.CreateSourceFile("IMG_0002.CR2", []byte("raw 2"))
	h.CreateSourceFile("MVI_0003.MP4", []byte("video"))
	h.CreateSourceFile("readme.txt", []byte("card info"))

	table, err := sorter.NewCategoryTable(sorter.DefaultCategories())
	if err != nil {
		t.Fatalf("NewCategoryTable() error = %v", err)
	}

	s := sorter.New(h.source, table, nil, h.NewSortOperation())
	report, err := s.Run(context.Background())

	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Status != models.StatusSuccess {
		t.Errorf("Status = %s, want success", report.Status)
	}
	if report.Stats.FilesMoved != 5 {
		t.Errorf("FilesMoved = %d, want 5", report.Stats.FilesMoved)
	}

	expected := map[string]string{
		"RAW/IMG_0001.CR2":   "raw 1",
		"RAW/IMG_0002.CR2":   "raw 2",
		"JPEG/IMG_0001.JPG":  "jpeg 1",
		"Video/MVI_0003.MP4": "video",
		"Other/readme.txt":    "card info",
	}
	for name, content := range expected {
		got, err := h.ReadSourceFile(name)
		if err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
			continue
		}
		if string(got) != content {
			t.Errorf("%s content = %q, want %q", name, got, content)
		}
	}
	if h.SourceFileExists("IMG_0001.CR2") {
		t.Error("original IMG_0001.CR2 should have been moved")
	}
}

func TestSort_ThenCompareSortedAgainstBackup(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	// Sort the card dump, then verify the sorted tree against a
	// backup that was laid out the same way by hand.
	h.CreateSourceFile("IMG_0001.CR2", []byte("raw 1"))
	h.CreateSourceFile("IMG_0001.JPG", []byte("jpeg 1"))
	h.CreateTargetFile("RAW/IMG_0001.CR2", []byte("raw 1"))
	h.CreateTargetFile("JPEG/IMG_0001.JPG", []byte("jpeg 1"))

	table, err := sorter.NewCategoryTable(sorter.DefaultCategories())
	if err != nil {
		t.Fatalf("NewCategoryTable() error = %v", err)
	}

	s := sorter.New(h.source, table, nil, h.NewSortOperation())
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("sorter Run() error = %v", err)
	}

	op := h.NewCompareOperation(true, models.DigestQuick)
	comparator := compare.NewQuickComparator()
	tc := compare.NewTreeComparator(h.source, h.target, comparator, &nullFormatter{}, nil, op, io.Discard)
	report, err := tc.Run(context.Background())

	if err != nil {
		t.Fatalf("compare Run() error = %v", err)
	}
	if len(report.OnlyInSource) != 0 || len(report.OnlyInTarget) != 0 || len(report.Differing) != 0 {
		t.Errorf("sorted tree differs from backup: source=%v target=%v differing=%v",
			report.OnlyInSource, report.OnlyInTarget, report.Differing)
	}
	if report.IdenticalCount != 2 {
		t.Errorf("IdenticalCount = %d, want 2", report.IdenticalCount)
	}
}

func TestSort_CollisionRenameEndToEnd(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.CreateSourceFile("photo.jpg", []byte("new"))
	h.CreateSourceFile("JPEG/photo.jpg", []byte("already sorted"))

	table, err := sorter.NewCategoryTable(sorter.DefaultCategories())
	if err != nil {
		t.Fatalf("NewCategoryTable() error = %v", err)
	}

	s := sorter.New(h.source, table, nil, h.NewSortOperation())
	report, err := s.Run(context.Background())

	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Stats.FilesRenamed != 1 {
		t.Errorf("FilesRenamed = %d, want 1", report.Stats.FilesRenamed)
	}

	got, err := h.ReadSourceFile("JPEG/photo_1.jpg")
	if err != nil {
		t.Fatalf("expected renamed file: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("renamed content = %q, want new", got)
	}
	existing, err := h.ReadSourceFile("JPEG/photo.jpg")
	if err != nil {
		t.Fatalf("ReadSourceFile() error = %v", err)
	}
	if string(existing) != "already sorted" {
		t.Errorf("existing file content = %q, want untouched", existing)
	}
}

// ============== Project Generator Tests ==============

func TestProject_GenerateThenSortInto(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	templates, err := project.LoadTemplates("")
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}

	generator := project.NewGenerator(nil)
	report, err := generator.Generate(context.Background(), templates["photo_basic"], project.Options{
		ID:      "integration-test",
		Name:    "client-shoot",
		BaseDir: h.sourceDir,
	})

	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if report.Status != models.StatusSuccess {
		t.Errorf("Status = %s, want success", report.Status)
	}

	projectDir := filepath.Join(h.sourceDir, "client-shoot")
	for _, folder := range []string{"RAW", "JPEG", "Edited/Finals", "Lightroom"} {
		info, err := os.Stat(filepath.Join(projectDir, folder))
		if err != nil {
			t.Errorf("expected folder %s: %v", folder, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", folder)
		}
	}

	// Drop a card dump into the fresh project and sort it in place
	dumpFile := filepath.Join(projectDir, "IMG_0001.CR2")
	if err := os.WriteFile(dumpFile, []byte("raw"), 0644); err != nil {
		t.Fatalf("failed to write card dump file: %v", err)
	}

	backend, err := storage.NewLocal(projectDir)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	table, err := sorter.NewCategoryTable(sorter.DefaultCategories())
	if err != nil {
		t.Fatalf("NewCategoryTable() error = %v", err)
	}

	op := &models.SortOperation{
		ID:          "integration-test",
		SourcePath:  projectDir,
		Action:      models.SortMove,
		OnCollision: models.CollisionRename,
	}
	s := sorter.New(backend, table, nil, op)
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("sorter Run() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(projectDir, "RAW", "IMG_0001.CR2")); err != nil {
		t.Errorf("card dump file should be sorted into RAW: %v", err)
	}
}

func TestProject_ExistingRootRefused(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.CreateSourceFile("client-shoot/old.txt", []byte("old project"))

	templates, err := project.LoadTemplates("")
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}

	generator := project.NewGenerator(nil)
	_, err = generator.Generate(context.Background(), templates["photo_basic"], project.Options{
		ID:      "integration-test",
		Name:    "client-shoot",
		BaseDir: h.sourceDir,
	})

	if err == nil {
		t.Fatal("Generate() should fail on an existing project root")
	}

	// The existing project must be untouched
	got, readErr := h.ReadSourceFile("client-shoot/old.txt")
	if readErr != nil {
		t.Fatalf("ReadSourceFile() error = %v", readErr)
	}
	if string(got) != "old project" {
		t.Errorf("existing project file = %q, want untouched", got)
	}
}
