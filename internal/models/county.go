package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Category is an origin category label from the closed taxonomy
type Category string

const (
	CategorySpanish        Category = "Spanish"
	CategoryEnglish        Category = "English"
	CategoryNativeAmerican Category = "Native American"
	CategoryFrench         Category = "French"
	CategoryCivilWar       Category = "Civil War"
	CategoryDutch          Category = "Dutch"
	CategoryGerman         Category = "German"
	CategoryItalian        Category = "Italian"
	CategorySwedish        Category = "Swedish"
	CategoryDanish         Category = "Denmark" // label carried by published datasets
	CategoryPolish         Category = "Polish"
	CategoryNorwegian      Category = "Norwegian"
	CategoryUnclassified   Category = "Unclassified"
)

// Categories lists every origin category in taxonomy order
var Categories = []Category{
	CategorySpanish,
	CategoryEnglish,
	CategoryNativeAmerican,
	CategoryFrench,
	CategoryCivilWar,
	CategoryDutch,
	CategoryGerman,
	CategoryItalian,
	CategorySwedish,
	CategoryDanish,
	CategoryPolish,
	CategoryNorwegian,
	CategoryUnclassified,
}

// Known reports whether c belongs to the taxonomy
func (c Category) Known() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

var (
	ErrEmptyCode   = errors.New("empty administrative code")
	ErrInvalidCode = errors.New("administrative code is not numeric")
)

// CountyRecord is one county, parish or borough as stored in the dataset file
type CountyRecord struct {
	Jurisdiction    string   `json:"jurisdiction"`
	Name            string   `json:"name"`
	Code            string   `json:"code"` // state FIPS prefix + county suffix, leading zero significant
	Seat            string   `json:"seat"`
	EstablishedYear int      `json:"establishedYear"` // parsed source year + 1
	EtymologyText   string   `json:"etymologyText"`
	OriginCategory  Category `json:"originCategory,omitempty"`
}

// CodeValue returns the record's code typed for set-membership filters
func (r CountyRecord) CodeValue() (CodeValue, error) {
	return NewCodeValue(r.Code)
}

// CodeValue is an administrative code as the rendering surface expects it.
// Codes with a leading zero stay strings, everything else is an integer.
type CodeValue struct {
	Text    string
	Number  int
	Numeric bool
}

// NewCodeValue types a raw code string
func NewCodeValue(code string) (CodeValue, error) {
	if code == "" {
		return CodeValue{}, ErrEmptyCode
	}
	if code[0] == '0' {
		return CodeValue{Text: code}, nil
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return CodeValue{}, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	return CodeValue{Text: code, Number: n, Numeric: true}, nil
}

// Value returns the code as a string or an int
func (v CodeValue) Value() any {
	if v.Numeric {
		return v.Number
	}
	return v.Text
}

func (v CodeValue) String() string {
	return v.Text
}

// MarshalJSON encodes the code as a JSON string or number
func (v CodeValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Value())
}

// Period is a named span of years used as a scrubber preset
type Period struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Contains reports whether year falls inside the period
func (p Period) Contains(year int) bool {
	return year >= p.Start && year <= p.End
}

// Periods are the presets offered by the year scrubber
var Periods = []Period{
	{Name: "Start", Start: 1617, End: 1657},
	{Name: "Mid", Start: 1658, End: 1899},
	{Name: "End", Start: 1900, End: 2013},
}

// JurisdictionStats summarizes one jurisdiction of a stored dataset
type JurisdictionStats struct {
	Jurisdiction string
	Counties     int
	Earliest     int
	Latest       int
	Unclassified int
}
