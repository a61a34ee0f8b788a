package api

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrUnparseableDate is returned when a date cell yields no year
var ErrUnparseableDate = errors.New("unparseable date")

// dateLayouts are tried in order before the general parser; partial dates
// (year only, year and month) are accepted
var dateLayouts = []string{
	"2006",
	"2006-01",
	"2006-01-02",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2006",
	"Jan 2006",
	"1/2/2006",
	"01/02/2006",
	time.RFC3339,
}

var (
	citationPattern    = regexp.MustCompile(`\[[^\]]*\]`)
	spacePattern       = regexp.MustCompile(`\s+`)
	annotationPattern  = regexp.MustCompile(`\s*\([^)]*\)?`)
	circaPattern       = regexp.MustCompile(`(?i)^(c\.|ca\.|circa|c)\s+`)
	abbreviatedMonth   = regexp.MustCompile(`\b([A-Za-z]{3,})\.`)
	septemberShorthand = regexp.MustCompile(`\bSept\b`)
	yearPattern        = regexp.MustCompile(`\b\d{4}\b`)
)

// cleanDate strips citation markers, non-breaking spaces and trailing
// punctuation from a date cell
func cleanDate(s string) string {
	s = citationPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.Trim(strings.TrimSpace(s), ".;,")
}

// normalizeDate additionally drops parenthesized notes ("1850 (as Smith
// County)"), circa markers and the dots of abbreviated month names
func normalizeDate(s string) string {
	s = cleanDate(s)
	s = annotationPattern.ReplaceAllString(s, "")
	s = circaPattern.ReplaceAllString(s, "")
	s = abbreviatedMonth.ReplaceAllString(s, "$1")
	s = septemberShorthand.ReplaceAllString(s, "Sep")
	return strings.Trim(strings.TrimSpace(s), ".;,")
}

// ParseLenientYear returns the year component of a loosely formatted date
func ParseLenientYear(raw string) (int, error) {
	s := normalizeDate(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrUnparseableDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), nil
		}
	}

	// The general parser is generous with bare numbers, so its answer only
	// counts when the cell spells that year out.
	if t, err := dateparse.ParseAny(s); err == nil && containsYear(s, t.Year()) {
		return t.Year(), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnparseableDate, raw)
}

func containsYear(s string, year int) bool {
	want := strconv.Itoa(year)
	for _, m := range yearPattern.FindAllString(s, -1) {
		if m == want {
			return true
		}
	}
	return false
}

// EstablishmentYear converts a source date cell to the establishment year:
// the parsed year plus one, matching the published dataset convention.
func EstablishmentYear(raw string) (int, error) {
	year, err := ParseLenientYear(raw)
	if err != nil {
		return 0, err
	}
	return year + 1, nil
}
