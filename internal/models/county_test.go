package models

import (
	"encoding/json"
	"errors"
	"testing"
)

// TestNewCodeValue verifies leading-zero codes stay strings and the rest
// become integers
func TestNewCodeValue(t *testing.T) {
	tests := []struct {
		code    string
		want    any
		wantErr error
	}{
		{code: "01001", want: "01001"},
		{code: "045", want: "045"},
		{code: "45", want: 45},
		{code: "19153", want: 19153},
		{code: "", wantErr: ErrEmptyCode},
		{code: "12x", wantErr: ErrInvalidCode},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			v, err := NewCodeValue(tt.code)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewCodeValue(%q) error = %v, want %v", tt.code, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCodeValue(%q) unexpected error: %v", tt.code, err)
			}
			if v.Value() != tt.want {
				t.Errorf("NewCodeValue(%q).Value() = %#v, want %#v", tt.code, v.Value(), tt.want)
			}
			if v.String() != tt.code {
				t.Errorf("String() = %q, want %q", v.String(), tt.code)
			}
		})
	}
}

// TestCodeValueJSON verifies the two code types are distinguishable on the wire
func TestCodeValueJSON(t *testing.T) {
	zero, _ := NewCodeValue("045")
	plain, _ := NewCodeValue("45")

	data, err := json.Marshal([]CodeValue{zero, plain})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got, want := string(data), `["045",45]`; got != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}
}

func TestSelectorMatches(t *testing.T) {
	tests := []struct {
		name     string
		sel      Selector
		category Category
		want     bool
	}{
		{"only same", Only(CategoryFrench), CategoryFrench, true},
		{"only other", Only(CategoryFrench), CategoryGerman, false},
		{"only is case sensitive", Only("french"), CategoryFrench, false},
		{"other unclassified", Other(), CategoryUnclassified, true},
		{"other empty", Other(), "", true},
		{"other named", Other(), CategoryEnglish, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.Matches(tt.category); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		raw  string
		want Selector
	}{
		{"", Other()},
		{"other", Other()},
		{" OTHER ", Other()},
		{"French", Only(CategoryFrench)},
		{"Native American", Only(CategoryNativeAmerican)},
	}
	for _, tt := range tests {
		if got := ParseSelector(tt.raw); got != tt.want {
			t.Errorf("ParseSelector(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}

func TestSelectorSlug(t *testing.T) {
	if got := Only(CategoryNativeAmerican).Slug(); got != "native-american" {
		t.Errorf("Slug() = %q, want native-american", got)
	}
	if got := Other().Slug(); got != "other" {
		t.Errorf("Slug() = %q, want other", got)
	}
}

func TestFilterCategoryDisplayName(t *testing.T) {
	tests := []struct {
		f    FilterCategory
		want string
	}{
		{FilterCategory{Category: CategoryDutch}, "Dutch"},
		{FilterCategory{Category: CategoryDutch, Label: "Netherlands"}, "Netherlands"},
		{FilterCategory{Other: true}, "Other"},
	}
	for _, tt := range tests {
		if got := tt.f.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func TestCategoryKnown(t *testing.T) {
	if !CategoryDanish.Known() {
		t.Error("Denmark should be known")
	}
	if Category("Scottish").Known() {
		t.Error("Scottish should not be known")
	}
}

func TestPeriodContains(t *testing.T) {
	mid := Periods[1]
	for year, want := range map[int]bool{1657: false, 1658: true, 1899: true, 1900: false} {
		if got := mid.Contains(year); got != want {
			t.Errorf("%s.Contains(%d) = %v, want %v", mid.Name, year, got, want)
		}
	}
}
