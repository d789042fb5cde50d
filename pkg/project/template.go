package project

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sdejongh/mediakit/pkg/models"
)

// Template is a named, fixed set of folders created for a new project.
// Folder entries use forward slashes for nesting; parents are implied.
type Template struct {
	Name        string   `yaml:"-"`
	Description string   `yaml:"description"`
	Folders     []string `yaml:"folders"`
}

// Builtins returns the built-in templates
func Builtins() map[string]Template {
	return map[string]Template{
		"photo_basic": {
			Name:        "photo_basic",
			Description: "Basic photography project structure",
			Folders: []string{
				"RAW",
				"JPEG",
				"Edited/Finals",
				"Edited/Web",
				"Edited/Social",
				"Lightroom",
				"References",
			},
		},
		"video_basic": {
			Name:        "video_basic",
			Description: "Basic video project structure",
			Folders: []string{
				"01_Footage/RAW",
				"01_Footage/B-Roll",
				"01_Footage/Audio",
				"02_Assets/Music",
				"02_Assets/SFX",
				"02_Assets/Graphics",
				"02_Assets/LUTs",
				"03_Project_Files/Premiere",
				"03_Project_Files/After_Effects",
				"04_Exports/Drafts",
				"04_Exports/Finals",
				"04_Exports/Web",
			},
		},
	}
}

// Validate checks that every folder entry is a safe relative path
func (t Template) Validate() error {
	if t.Name == "" {
		return &models.ValidationError{Field: "template", Message: "name must not be empty"}
	}
	if len(t.Folders) == 0 {
		return &models.ValidationError{Field: "template " + t.Name, Message: "has no folders"}
	}
	for _, folder := range t.Folders {
		if folder == "" {
			return &models.ValidationError{Field: "template " + t.Name, Message: "empty folder entry"}
		}
		clean := path.Clean(strings.ReplaceAll(folder, `\`, "/"))
		if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
			return &models.ValidationError{
				Field: "template " + t.Name, Message: "folder escapes the project root: " + folder,
			}
		}
	}
	return nil
}

// templatesFile is the on-disk shape of a custom templates file
type templatesFile struct {
	Templates map[string]Template `yaml:"templates"`
}

// LoadTemplates returns the built-in templates merged with the custom
// templates file at path, if any. Custom entries are validated eagerly
// and may shadow builtins. An empty path returns the builtins alone.
func LoadTemplates(path string) (map[string]Template, error) {
	templates := Builtins()

	if path == "" {
		return templates, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return templates, nil
		}
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}

	var custom templatesFile
	if err := yaml.Unmarshal(data, &custom); err != nil {
		return nil, fmt.Errorf("failed to parse templates file: %w", err)
	}

	for name, tmpl := range custom.Templates {
		tmpl.Name = name
		if err := tmpl.Validate(); err != nil {
			return nil, err
		}
		templates[name] = tmpl
	}

	return templates, nil
}

// Names returns the sorted template names of a template set
func Names(templates map[string]Template) []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
