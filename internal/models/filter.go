package models

import "strings"

// Selector picks the records a cumulative query applies to.
// Other selects the "everything else" bucket: records that carry no
// recognized origin.
type Selector struct {
	Category Category
	Other    bool
}

// Only selects records of a single category
func Only(c Category) Selector {
	return Selector{Category: c}
}

// Other selects the unclassified remainder
func Other() Selector {
	return Selector{Other: true}
}

// Matches reports whether a record with category c is selected
func (s Selector) Matches(c Category) bool {
	if s.Other {
		return c == "" || c == CategoryUnclassified
	}
	return c == s.Category
}

// ParseSelector reads a selector from user input. Empty or "other" selects
// the unclassified remainder.
func ParseSelector(raw string) Selector {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "other") {
		return Other()
	}
	return Only(Category(raw))
}

func (s Selector) String() string {
	if s.Other {
		return "other"
	}
	return string(s.Category)
}

// Slug returns a lowercase, dash separated form usable in identifiers
func (s Selector) Slug() string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s.String())), " ", "-")
}

// FilterCategory is one highlight configuration entry
type FilterCategory struct {
	Category Category
	Other    bool   // category left undefined: the "everything else" bucket
	Color    string // #rrggbb
	Label    string
	Enabled  bool
}

// Selector returns the query selector for this entry
func (f FilterCategory) Selector() Selector {
	if f.Other {
		return Other()
	}
	return Only(f.Category)
}

// DisplayName returns the label, falling back to the category
func (f FilterCategory) DisplayName() string {
	if f.Label != "" {
		return f.Label
	}
	if f.Other {
		return "Other"
	}
	return string(f.Category)
}

// NameList is the de-duplicated set of place names scraped for one language
type NameList struct {
	Language string
	Names    []string
}
