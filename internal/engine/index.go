package engine

import (
	"sort"

	"github.com/thesavant42/countyroots/internal/models"
)

// Years returns the distinct establishment years in ascending order
func (e *Engine) Years() []int {
	out := make([]int, len(e.years))
	copy(out, e.years)
	return out
}

// Bounds returns the earliest and latest establishment years. ok is false
// for an empty dataset.
func (e *Engine) Bounds() (first, last int, ok bool) {
	if len(e.years) == 0 {
		return 0, 0, false
	}
	return e.years[0], e.years[len(e.years)-1], true
}

// EstablishedIn returns the records established in exactly year, in
// dataset order
func (e *Engine) EstablishedIn(year int) []models.CountyRecord {
	positions := e.byYear[year]
	out := make([]models.CountyRecord, len(positions))
	for i, pos := range positions {
		out[i] = e.records[pos]
	}
	return out
}

// Stats counts, per category, the records established on or before year.
// It walks the year index instead of the flat list.
func (e *Engine) Stats(year int) map[models.Category]int {
	counts := make(map[models.Category]int)
	cutoff := sort.Search(len(e.years), func(i int) bool { return e.years[i] > year })
	for _, y := range e.years[:cutoff] {
		for _, pos := range e.byYear[y] {
			category := e.records[pos].OriginCategory
			if category == "" {
				category = models.CategoryUnclassified
			}
			counts[category]++
		}
	}
	return counts
}

// PeriodFor returns the scrubber preset containing year
func PeriodFor(year int) (models.Period, bool) {
	for _, p := range models.Periods {
		if p.Contains(year) {
			return p, true
		}
	}
	return models.Period{}, false
}
