package style

import "github.com/thesavant42/countyroots/internal/models"

// BaseStyle returns a fresh copy of the static part of the map style:
// satellite imagery, admin lines, water, the county fill, an empty
// selection layer and place labels
func BaseStyle() models.Style {
	return models.Style{
		Version: 8,
		Sprite:  "mapbox://sprites/mapbox/basic-v8",
		Glyphs:  "mapbox://fonts/mapbox/{fontstack}/{range}.pbf",
		Metadata: map[string]any{
			"mapbox:autocomposite": true,
		},
		Sources: map[string]models.Source{
			"mapbox-satellite": {Type: "raster", URL: "mapbox://mapbox.satellite", TileSize: 256},
			"mapbox":           {Type: "vector", URL: "mapbox://mapbox.mapbox-streets-v8"},
			"counties":         {Type: "vector", URL: "mapbox://mapbox.82pkq93d"},
		},
		Layers: baseLayers(),
	}
}

// SelectionLayerID is the static highlight layer a client fills with the
// codes of picked counties; it starts out matching nothing
const SelectionLayerID = "counties-highlighted"

func baseLayers() []models.LayerSpec {
	return []models.LayerSpec{
		{
			ID:     "satellite",
			Type:   "raster",
			Source: "mapbox-satellite",
		},
		{
			ID:          "street",
			Type:        "line",
			Source:      "mapbox",
			SourceLayer: "admin",
		},
		{
			ID:          "water",
			Type:        "fill",
			Source:      "mapbox",
			SourceLayer: "water",
			Paint: map[string]any{
				"fill-color": "#a0cfdf",
			},
		},
		{
			ID:          "counties",
			Type:        "fill",
			Source:      "counties",
			SourceLayer: "original",
			Interactive: true,
			Paint: map[string]any{
				"fill-outline-color": "rgba(0,0,0,0.1)",
				"fill-color":         "rgba(0,0,0,0.1)",
			},
		},
		{
			ID:          SelectionLayerID,
			Type:        "fill",
			Source:      "counties",
			SourceLayer: "original",
			Paint: map[string]any{
				"fill-outline-color": "#3399ff",
				"fill-color":         "#6e599f",
				"fill-opacity":       0.5,
			},
			Filter: []any{"in", "FIPS"},
		},
		{
			ID:          "names",
			Type:        "symbol",
			Source:      "mapbox",
			SourceLayer: "place_label",
			Layout: map[string]any{
				"text-field": "{name_en}",
				"text-font":  []string{"Open Sans Semibold", "Arial Unicode MS Bold"},
			},
			Paint: map[string]any{
				"text-color": "#ffffff",
			},
			Filter: []any{
				"all",
				[]any{"==", "$type", "Point"},
				[]any{"in", "type", "state", "county", "city"},
			},
		},
	}
}

// BaseLayerCount is the number of layers preceding the highlight layers
func BaseLayerCount() int {
	return len(baseLayers())
}
