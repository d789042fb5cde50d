package project

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sdejongh/mediakit/pkg/logging"
	"github.com/sdejongh/mediakit/pkg/models"
)

// infoFileName is the sidecar written into every generated project root
const infoFileName = "project.yaml"

// Info is the sidecar recorded at generation time
type Info struct {
	ProjectName string    `yaml:"project_name"`
	Template    string    `yaml:"template"`
	CreatedAt   time.Time `yaml:"created_at"`
}

// Options controls one project generation
type Options struct {
	// ID identifies the operation in logs and reports
	ID string

	// Name is the project name
	Name string

	// BaseDir is where the project root is created
	BaseDir string

	// DatePrefix prepends YYYYMMDD_ to the project folder name
	DatePrefix bool

	// Force skips existing folders instead of failing on an
	// existing project root
	Force bool
}

// Generator creates project folder skeletons from templates
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a generator. logger may be nil.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Generator{logger: logger}
}

// Generate creates the project root and the template's folder tree.
// An existing project root fails with *models.AlreadyExistsError unless
// opts.Force is set, in which case existing folders are skipped and the
// missing ones are created idempotently.
func (g *Generator) Generate(ctx context.Context, tmpl Template, opts Options) (*models.ProjectReport, error) {
	if err := validateName(opts.Name); err != nil {
		return nil, err
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}

	folderName := opts.Name
	if opts.DatePrefix {
		folderName = time.Now().Format("20060102") + "_" + opts.Name
	}

	projectPath, err := filepath.Abs(filepath.Join(opts.BaseDir, folderName))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path: %w", err)
	}

	report := &models.ProjectReport{
		OperationID: opts.ID,
		ProjectPath: projectPath,
		Template:    tmpl.Name,
		StartTime:   time.Now(),
	}

	if _, err := os.Stat(projectPath); err == nil {
		if !opts.Force {
			return nil, &models.AlreadyExistsError{Path: projectPath}
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to access project path: %w", err)
	}

	g.logger.Info(ctx, "generating project", logging.Fields{
		"operation_id": opts.ID,
		"project":      opts.Name,
		"template":     tmpl.Name,
		"path":         projectPath,
	})

	if err := os.MkdirAll(projectPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create project root: %w", err)
	}

	// Expand implied parents so the report lists the full tree
	folderSet := make(map[string]struct{})
	for _, folder := range tmpl.Folders {
		clean := path.Clean(strings.ReplaceAll(folder, `\`, "/"))
		for p := clean; p != "." && p != "/"; p = path.Dir(p) {
			folderSet[p] = struct{}{}
		}
	}

	folders := make([]string, 0, len(folderSet))
	for folder := range folderSet {
		folders = append(folders, folder)
	}
	sort.Strings(folders)

	for _, folder := range folders {
		select {
		case <-ctx.Done():
			report.Status = models.StatusCancelled
			return report, ctx.Err()
		default:
		}

		fullPath := filepath.Join(projectPath, filepath.FromSlash(folder))
		if _, err := os.Stat(fullPath); err == nil {
			report.FoldersSkipped = append(report.FoldersSkipped, folder)
			continue
		}
		if err := os.Mkdir(fullPath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create folder %s: %w", folder, err)
		}
		report.FoldersCreated = append(report.FoldersCreated, folder)
	}

	if err := g.writeInfo(projectPath, opts.Name, tmpl.Name); err != nil {
		return nil, err
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	report.Status = models.StatusSuccess

	g.logger.Info(ctx, "project generated", logging.Fields{
		"operation_id": opts.ID,
		"created":      len(report.FoldersCreated),
		"skipped":      len(report.FoldersSkipped),
	})

	return report, nil
}

// writeInfo records the generation sidecar in the project root
func (g *Generator) writeInfo(projectPath, name, template string) error {
	info := Info{
		ProjectName: name,
		Template:    template,
		CreatedAt:   time.Now(),
	}

	data, err := yaml.Marshal(&info)
	if err != nil {
		return fmt.Errorf("failed to marshal project info: %w", err)
	}

	infoPath := filepath.Join(projectPath, infoFileName)
	if err := os.WriteFile(infoPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write project info: %w", err)
	}

	return nil
}

// validateName rejects project names that would escape the base directory
func validateName(name string) error {
	if name == "" {
		return &models.ValidationError{Field: "project_name", Message: "must not be empty"}
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return &models.ValidationError{Field: "project_name", Message: "must be a plain folder name"}
	}
	return nil
}
