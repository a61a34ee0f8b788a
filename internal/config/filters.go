package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/thesavant42/countyroots/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultOtherColor paints the "everything else" bucket
const DefaultOtherColor = "#3399ff"

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// FiltersFile is the YAML layout of a filter configuration.
//
//	fallback_color: "rgba(0,0,0,0.1)"
//	filters:
//	  - category: Spanish
//	    color: "#e1ff00"
//	  - color: "#3399ff"   # no category: everything else
//	    enabled: false
type FiltersFile struct {
	FallbackColor string        `yaml:"fallback_color"`
	Filters       []FilterEntry `yaml:"filters"`
}

// FilterEntry is one entry of the filters list
type FilterEntry struct {
	Category *string `yaml:"category"`
	Color    string  `yaml:"color"`
	Label    string  `yaml:"label,omitempty"`
	Enabled  *bool   `yaml:"enabled,omitempty"` // defaults to true
}

// Filters is the resolved filter configuration
type Filters struct {
	FallbackColor string
	Entries       []models.FilterCategory
}

// DefaultFilters returns the built-in highlight order and palette
func DefaultFilters() Filters {
	return Filters{
		Entries: []models.FilterCategory{
			{Category: models.CategorySpanish, Color: "#e1ff00", Label: "Spanish", Enabled: true},
			{Category: models.CategoryEnglish, Color: "#ff0000", Enabled: true},
			{Other: true, Color: DefaultOtherColor, Enabled: true},
			{Category: models.CategoryNativeAmerican, Color: "#00ffff", Enabled: true},
			{Category: models.CategoryFrench, Color: "#ff00ff", Enabled: true},
			{Category: models.CategoryCivilWar, Color: "#ffffff", Enabled: true},
			{Category: models.CategoryDutch, Color: "#ff9d00", Enabled: true},
			{Category: models.CategoryGerman, Color: "#4cc600", Enabled: true},
		},
	}
}

// LoadFilters reads a filter file. An empty path yields the defaults.
func LoadFilters(path string) (Filters, error) {
	if path == "" {
		return DefaultFilters(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Filters{}, fmt.Errorf("filters file %s does not exist", path)
		}
		return Filters{}, fmt.Errorf("failed to read filters file: %w", err)
	}
	return ParseFilters(data)
}

// ParseFilters decodes and validates a YAML filter configuration
func ParseFilters(data []byte) (Filters, error) {
	var file FiltersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Filters{}, fmt.Errorf("failed to parse filters: %w", err)
	}
	if len(file.Filters) == 0 {
		return Filters{}, fmt.Errorf("filters file lists no filters")
	}

	out := Filters{FallbackColor: file.FallbackColor}
	seen := make(map[models.Selector]bool)
	for i, entry := range file.Filters {
		if !hexColor.MatchString(entry.Color) {
			return Filters{}, fmt.Errorf("filter %d: color %q is not #rgb or #rrggbb", i, entry.Color)
		}
		f := models.FilterCategory{
			Color:   entry.Color,
			Label:   entry.Label,
			Enabled: entry.Enabled == nil || *entry.Enabled,
		}
		if entry.Category == nil || *entry.Category == "" {
			f.Other = true
		} else {
			f.Category = models.Category(*entry.Category)
		}
		if seen[f.Selector()] {
			return Filters{}, fmt.Errorf("filter %d: %s listed twice", i, f.Selector())
		}
		seen[f.Selector()] = true
		out.Entries = append(out.Entries, f)
	}
	return out, nil
}
