// Package style turns cumulative query results into a layered map style.
package style

import (
	"fmt"

	"github.com/thesavant42/countyroots/internal/models"
)

const (
	// FallbackColor paints layers whose category is toggled off
	FallbackColor = "rgba(0,0,0,0.1)"

	highlightPrefix = "counties-highlighted-"
	codeField       = "FIPS"
	highlightAlpha  = 0.5
)

// CodeSource answers cumulative code queries
type CodeSource interface {
	CumulativeCodes(year int, sel models.Selector) ([]models.CodeValue, error)
}

// Synthesizer builds styles from a code source
type Synthesizer struct {
	source   CodeSource
	fallback string
}

// New creates a synthesizer. An empty fallback uses FallbackColor.
func New(source CodeSource, fallback string) *Synthesizer {
	if fallback == "" {
		fallback = FallbackColor
	}
	return &Synthesizer{source: source, fallback: fallback}
}

// Synthesize returns the base style followed by one highlight layer per
// filter, in filter order
func (s *Synthesizer) Synthesize(year int, filters []models.FilterCategory) (models.Style, error) {
	st := BaseStyle()
	for _, f := range filters {
		layer, err := s.HighlightLayer(year, f)
		if err != nil {
			return models.Style{}, err
		}
		st.Layers = append(st.Layers, layer)
	}
	return st, nil
}

// HighlightLayer builds the layer for a single filter entry
func (s *Synthesizer) HighlightLayer(year int, f models.FilterCategory) (models.LayerSpec, error) {
	codes, err := s.source.CumulativeCodes(year, f.Selector())
	if err != nil {
		return models.LayerSpec{}, fmt.Errorf("layer %s: %w", f.Selector(), err)
	}

	color := s.fallback
	if f.Enabled {
		color = f.Color
	}

	filter := make([]any, 0, len(codes)+2)
	filter = append(filter, "in", codeField)
	for _, code := range codes {
		filter = append(filter, code)
	}

	return models.LayerSpec{
		ID:          LayerID(f),
		Type:        "fill",
		Source:      "counties",
		SourceLayer: "original",
		Paint: map[string]any{
			"fill-outline-color": color,
			"fill-color":         color,
			"fill-opacity":       highlightAlpha,
		},
		Filter: filter,
	}, nil
}

// LayerID derives the highlight layer identifier from the filter category
func LayerID(f models.FilterCategory) string {
	return highlightPrefix + f.Selector().Slug()
}

// ApplyEnabled returns a copy of filters with Enabled set from the given
// selection; a nil selection leaves the configured flags untouched
func ApplyEnabled(filters []models.FilterCategory, enabled map[models.Selector]bool) []models.FilterCategory {
	out := make([]models.FilterCategory, len(filters))
	copy(out, filters)
	if enabled == nil {
		return out
	}
	for i := range out {
		out[i].Enabled = enabled[out[i].Selector()]
	}
	return out
}

// Toggle returns a copy of filters with the entry at index i flipped
func Toggle(filters []models.FilterCategory, i int) []models.FilterCategory {
	out := make([]models.FilterCategory, len(filters))
	copy(out, filters)
	if i >= 0 && i < len(out) {
		out[i].Enabled = !out[i].Enabled
	}
	return out
}
