package output

import (
	"io"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/mediakit/pkg/models"
)

// ProgressFormatter shows a progress bar while common files are digested,
// then prints the human-readable report. When stdout is not a terminal it
// behaves exactly like HumanFormatter.
type ProgressFormatter struct {
	human *HumanFormatter
	bar   *pb.ProgressBar
	mu    sync.Mutex
}

// NewProgressFormatter creates a new progress-bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{
		human: NewHumanFormatter(),
	}
}

// Start initializes the bar over the number of files to digest
func (f *ProgressFormatter) Start(writer io.Writer, totalFiles int, totalBytes int64) error {
	if !isTerminal(writer) || totalFiles == 0 {
		return f.human.Start(writer, totalFiles, totalBytes)
	}

	f.human.writer = writer
	f.human.totalFiles = totalFiles
	f.human.totalBytes = totalBytes

	f.bar = pb.New(totalFiles)
	f.bar.SetTemplateString(`Checking content {{counters . }} {{bar . }} {{percent . }}`)
	f.bar.SetWriter(writer)
	f.bar.Start()

	return nil
}

// Progress advances the bar
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar == nil {
		return f.human.Progress(update)
	}

	switch update.Type {
	case "file_complete", "file_error":
		f.bar.Increment()
	}

	return nil
}

// Complete finishes the bar and delegates to the human formatter
func (f *ProgressFormatter) Complete(report *models.CompareReport) error {
	f.mu.Lock()
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
	f.mu.Unlock()

	return f.human.Complete(report)
}

// Error reports a fatal error
func (f *ProgressFormatter) Error(err error) error {
	return f.human.Error(err)
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

// NewFileBar builds a plain file-count progress bar for the sorter.
// Returns nil when the writer is not a terminal; callers must nil-check.
func NewFileBar(writer io.Writer, total int) *pb.ProgressBar {
	if !isTerminal(writer) || total == 0 {
		return nil
	}
	bar := pb.New(total)
	bar.SetTemplateString(`Sorting {{counters . }} {{bar . }} {{percent . }}`)
	bar.SetWriter(writer)
	bar.Start()
	return bar
}

// isTerminal reports whether the writer is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
