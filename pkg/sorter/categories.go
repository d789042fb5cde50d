package sorter

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/sdejongh/mediakit/pkg/models"
)

// OtherCategory is the catch-all folder for unrecognized extensions
const OtherCategory = "Other"

// DefaultCategories returns the built-in category table for photo and
// video collections
func DefaultCategories() map[string][]string {
	return map[string][]string{
		"RAW":    {".arw", ".cr2", ".cr3", ".nef", ".dng", ".raw"},
		"JPEG":   {".jpg", ".jpeg", ".jpe"},
		"PNG":    {".png"},
		"Video":  {".mp4", ".mov", ".avi", ".mkv"},
		"Audio":  {".wav", ".mp3", ".aac"},
		"Edited": {".psd", ".xmp", ".ai"},
	}
}

// CategoryTable maps file extensions to category folders. The table is
// built and validated once at startup; lookups are case-insensitive.
type CategoryTable struct {
	byExtension map[string]string
	categories  []string
}

// NewCategoryTable builds a table from a category-to-extensions mapping,
// rejecting malformed entries eagerly
func NewCategoryTable(mapping map[string][]string) (*CategoryTable, error) {
	byExtension := make(map[string]string)
	categories := make([]string, 0, len(mapping)+1)

	for category, extensions := range mapping {
		if category == "" {
			return nil, &models.ValidationError{Field: "categories", Message: "category name must not be empty"}
		}
		if strings.ContainsAny(category, `/\`) {
			return nil, &models.ValidationError{
				Field: "categories", Message: "category name must not contain path separators: " + category,
			}
		}
		if len(extensions) == 0 {
			return nil, &models.ValidationError{
				Field: "categories", Message: "category has no extensions: " + category,
			}
		}
		categories = append(categories, category)

		for _, ext := range extensions {
			normalized := strings.ToLower(ext)
			if !strings.HasPrefix(normalized, ".") || len(normalized) < 2 {
				return nil, &models.ValidationError{
					Field: "categories", Message: "extension must start with a dot: " + ext,
				}
			}
			if existing, ok := byExtension[normalized]; ok {
				return nil, &models.ValidationError{
					Field: "categories", Message: "extension " + normalized + " mapped to both " + existing + " and " + category,
				}
			}
			byExtension[normalized] = category
		}
	}

	categories = append(categories, OtherCategory)
	sort.Strings(categories)

	return &CategoryTable{
		byExtension: byExtension,
		categories:  categories,
	}, nil
}

// Categorize returns the category for a file name. Unrecognized
// extensions fall into OtherCategory.
func (t *CategoryTable) Categorize(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if category, ok := t.byExtension[ext]; ok {
		return category
	}
	return OtherCategory
}

// Categories returns every category name, including the catch-all
func (t *CategoryTable) Categories() []string {
	return t.categories
}

// IsCategory reports whether name is one of the table's category folders
func (t *CategoryTable) IsCategory(name string) bool {
	for _, category := range t.categories {
		if category == name {
			return true
		}
	}
	return false
}
