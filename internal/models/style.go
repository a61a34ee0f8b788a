package models

// Style is the layered map style handed to the rendering surface
type Style struct {
	Version  int               `json:"version"`
	Sprite   string            `json:"sprite,omitempty"`
	Glyphs   string            `json:"glyphs,omitempty"`
	Metadata map[string]any    `json:"metadata,omitempty"`
	Sources  map[string]Source `json:"sources"`
	Layers   []LayerSpec       `json:"layers"`
}

// Source is a tile source referenced by layers
type Source struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	TileSize int    `json:"tileSize,omitempty"`
}

// LayerSpec is a single style layer
type LayerSpec struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Source      string         `json:"source"`
	SourceLayer string         `json:"source-layer,omitempty"`
	Interactive bool           `json:"interactive,omitempty"`
	Layout      map[string]any `json:"layout,omitempty"`
	Paint       map[string]any `json:"paint,omitempty"`
	Filter      []any          `json:"filter,omitempty"`
}
