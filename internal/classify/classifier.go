package classify

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/countyroots/internal/models"
)

// nameNoise is dropped from county names before name-list lookup
var nameNoise = map[string]bool{
	"County": true,
	"Parish": true,
	"East":   true,
	"West":   true,
	"North":  true,
	"South":  true,
	"New":    true,
}

// NormalizeName strips county suffixes and directional words
func NormalizeName(name string) string {
	fields := strings.Fields(name)
	kept := fields[:0]
	for _, f := range fields {
		if !nameNoise[f] {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// BuildNameIndex maps normalized place names to the category of the list
// they appear in. Later lists win on conflicts. Languages outside the
// taxonomy (Scottish, Irish) are left out.
func BuildNameIndex(lists []models.NameList) map[string]models.Category {
	index := make(map[string]models.Category)
	for _, list := range lists {
		category := models.Category(list.Language)
		if !category.Known() || category == models.CategoryUnclassified {
			continue
		}
		for _, name := range list.Names {
			key := NormalizeName(name)
			if key == "" {
				continue
			}
			index[key] = category
		}
	}
	return index
}

// Classifier assigns origin categories to records
type Classifier struct {
	names  map[string]models.Category
	merge  bool
	logger *log.Logger
}

// Option configures a Classifier
type Option func(*Classifier)

// WithNameLists enables name-list membership as a fallback when no
// etymology rule matches
func WithNameLists(lists []models.NameList) Option {
	return func(c *Classifier) {
		c.names = BuildNameIndex(lists)
		c.merge = true
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// New creates a classifier. Without options only etymology rules apply.
func New(opts ...Option) *Classifier {
	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the category for one record
func (c *Classifier) Classify(rec models.CountyRecord) models.Category {
	if category, ok := MatchEtymology(rec.EtymologyText); ok {
		return category
	}
	if c.merge {
		if category, ok := c.names[NormalizeName(rec.Name)]; ok {
			return category
		}
	}
	return models.CategoryUnclassified
}

// Summary counts records per assigned category
type Summary map[models.Category]int

// ClassifyAll returns a copy of records with OriginCategory assigned.
// Records that already carry a category keep it.
func (c *Classifier) ClassifyAll(records []models.CountyRecord) ([]models.CountyRecord, Summary) {
	out := make([]models.CountyRecord, len(records))
	summary := make(Summary)
	for i, rec := range records {
		if rec.OriginCategory == "" {
			rec.OriginCategory = c.Classify(rec)
		}
		out[i] = rec
		summary[rec.OriginCategory]++
	}
	if c.logger != nil {
		c.logger.Info("Classified records", "records", len(out), "unclassified", summary[models.CategoryUnclassified], "merge", c.merge)
	}
	return out, summary
}
