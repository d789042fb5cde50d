package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/mediakit/pkg/output"
	"github.com/sdejongh/mediakit/pkg/project"
)

// ProjectFlags holds newproject command flags
type ProjectFlags struct {
	Template   string
	Dir        string
	DatePrefix bool
	Force      bool
	List       bool
	Output     string
}

var projectFlags ProjectFlags

// NewProjectCommand creates the newproject command
func NewProjectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newproject NAME",
		Short: "Create a project folder skeleton from a template",
		Long: `Create a new project folder with the subfolder structure of a template.
Built-in templates cover photography and video work; custom templates can be
added through a YAML templates file referenced in the configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runNewProject,
	}

	cmd.Flags().StringVarP(&projectFlags.Template, "template", "t", "photo_basic", "project template name")
	cmd.Flags().StringVarP(&projectFlags.Dir, "dir", "d", ".", "directory the project is created in")
	cmd.Flags().BoolVar(&projectFlags.DatePrefix, "date-prefix", false, "prefix the folder name with today's date (YYYYMMDD_)")
	cmd.Flags().BoolVarP(&projectFlags.Force, "force", "f", false, "fill in missing folders of an existing project")
	cmd.Flags().BoolVarP(&projectFlags.List, "list", "l", false, "list available templates and exit")
	cmd.Flags().StringVarP(&projectFlags.Output, "output", "o", "", "output format: human, json")

	return cmd
}

func runNewProject(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyGlobalFlags(cfg)
	if projectFlags.Output != "" {
		cfg.Output.Format = projectFlags.Output
	}
	if cfg.Project.DatePrefix {
		projectFlags.DatePrefix = true
	}

	templates, err := project.LoadTemplates(cfg.Project.TemplatesFile)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	if projectFlags.List {
		listTemplates(templates)
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("project name is required (or use --list to show templates)")
	}
	name := args[0]

	tmpl, ok := templates[projectFlags.Template]
	if !ok {
		return fmt.Errorf("unknown template: %s (use --list to show available templates)", projectFlags.Template)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	generator := project.NewGenerator(logger)
	report, err := generator.Generate(ctx, tmpl, project.Options{
		ID:         uuid.New().String(),
		Name:       name,
		BaseDir:    projectFlags.Dir,
		DatePrefix: projectFlags.DatePrefix,
		Force:      projectFlags.Force,
	})
	if err != nil {
		return err
	}

	if !cfg.Output.Quiet {
		if cfg.Output.Format == "json" {
			if err := output.RenderProjectReportJSON(os.Stdout, report); err != nil {
				return fmt.Errorf("failed to render report: %w", err)
			}
		} else {
			output.RenderProjectReport(os.Stdout, report)
		}
	}

	os.Exit(report.Status.ExitCode())
	return nil
}

func listTemplates(templates map[string]project.Template) {
	fmt.Println("Available templates:")
	for _, name := range project.Names(templates) {
		tmpl := templates[name]
		fmt.Printf("  %-14s %s (%d folders)\n", name, tmpl.Description, len(tmpl.Folders))
	}
}
