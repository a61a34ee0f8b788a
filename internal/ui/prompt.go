package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/thesavant42/countyroots/internal/engine"
	"github.com/thesavant42/countyroots/internal/models"
)

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1
		}
		return r
	}, s)
}

// validateYear accepts integer years inside [min, max]
func validateYear(min, max int) func(string) error {
	return func(s string) error {
		year, err := engine.ParseYear(sanitizeInput(s))
		if err != nil {
			return fmt.Errorf("enter a year like 1850")
		}
		if year < min || year > max {
			return fmt.Errorf("year must be between %d and %d", min, max)
		}
		return nil
	}
}

// PromptForYear asks for a starting year, defaulting to def
func PromptForYear(min, max, def int) (int, error) {
	input := fmt.Sprint(def)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Starting Year").
				Description(fmt.Sprintf("Between %d and %d", min, max)).
				Value(&input).
				Validate(validateYear(min, max)),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return 0, fmt.Errorf("prompt cancelled: %w", err)
	}
	return engine.ParseYear(sanitizeInput(input))
}

// PickCategories lets the user choose which highlight layers are enabled.
// The returned slice keeps the input order.
func PickCategories(filters []models.FilterCategory) ([]models.FilterCategory, error) {
	options := make([]huh.Option[int], len(filters))
	var chosen []int
	for i, f := range filters {
		options[i] = huh.NewOption(fmt.Sprintf("%s  %s", f.DisplayName(), f.Color), i).Selected(f.Enabled)
		if f.Enabled {
			chosen = append(chosen, i)
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Highlight Layers").
				Description("Disabled layers are drawn in the neutral color").
				Options(options...).
				Value(&chosen),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("prompt cancelled: %w", err)
	}
	return applyChosen(filters, chosen), nil
}

// applyChosen returns a copy of filters enabled exactly at the chosen indexes
func applyChosen(filters []models.FilterCategory, chosen []int) []models.FilterCategory {
	on := make(map[int]bool, len(chosen))
	for _, i := range chosen {
		on[i] = true
	}
	out := make([]models.FilterCategory, len(filters))
	for i, f := range filters {
		f.Enabled = on[i]
		out[i] = f
	}
	return out
}
