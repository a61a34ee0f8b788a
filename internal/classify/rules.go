// Package classify assigns origin categories to county records.
package classify

import (
	"strings"

	"github.com/thesavant42/countyroots/internal/models"
)

// Rule maps any of a set of case-sensitive substrings to a category
type Rule struct {
	Terms    []string
	Category models.Category
}

// Match reports whether text contains any of the rule's terms
func (r Rule) Match(text string) bool {
	for _, term := range r.Terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// Rules is evaluated top to bottom and the first match wins, so text
// mentioning both French and German origins is French.
var Rules = []Rule{
	{
		Terms: []string{
			"Native American", "Tribe", "tribe", "Indians", "Navajo",
			"Apache", "Choctaw", "Native people", "Chinook",
		},
		Category: models.CategoryNativeAmerican,
	},
	{Terms: []string{"Civil War", "civil war", "confederate", "Confederate"}, Category: models.CategoryCivilWar},
	{Terms: []string{"French", "France"}, Category: models.CategoryFrench},
	{Terms: []string{"German"}, Category: models.CategoryGerman},
	{Terms: []string{"Spanish", "Spain"}, Category: models.CategorySpanish},
	{Terms: []string{"Italian", "Italy"}, Category: models.CategoryItalian},
	{Terms: []string{"Dutch", "Netherlands"}, Category: models.CategoryDutch},
	{Terms: []string{"Swedish", "Sweden"}, Category: models.CategorySwedish},
	{Terms: []string{"Danish", "Denmark"}, Category: models.CategoryDanish},
	{Terms: []string{"Polish", "Poland"}, Category: models.CategoryPolish},
	{Terms: []string{"Norway", "Norwegian"}, Category: models.CategoryNorwegian},
	{
		Terms: []string{
			"England", "Wales", "English", "British", "Britain", "United Kingdom",
		},
		Category: models.CategoryEnglish,
	},
}

// MatchEtymology returns the category of the first matching rule
func MatchEtymology(text string) (models.Category, bool) {
	for _, rule := range Rules {
		if rule.Match(text) {
			return rule.Category, true
		}
	}
	return "", false
}

// Etymology classifies free-text etymology, defaulting to Unclassified
func Etymology(text string) models.Category {
	if c, ok := MatchEtymology(text); ok {
		return c
	}
	return models.CategoryUnclassified
}
