package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Layout constants - single source of truth for all viewport dimensions
const (
	MinViewportWidth  = 72
	MaxViewportWidth  = 120
	DefaultWidth      = 90 // Used when terminal size is unknown
	DefaultHeight     = 30
	MinTableHeight    = 4
	chromeHeight      = 14 // title, year bar, new-counties box, help, borders
	defaultTableLines = 9
)

// Layout holds computed dimensions for the current terminal size
type Layout struct {
	ViewportWidth  int // clamped terminal width
	ViewportHeight int
	InnerWidth     int // ViewportWidth - border chars
	TableHeight    int // visible data rows
}

// NewLayout creates a Layout from the terminal size, clamping to min/max
func NewLayout(terminalWidth, terminalHeight int) Layout {
	width := clamp(terminalWidth, MinViewportWidth, MaxViewportWidth)
	tableHeight := terminalHeight - chromeHeight
	if tableHeight < MinTableHeight {
		tableHeight = MinTableHeight
	}
	return Layout{
		ViewportWidth:  width,
		ViewportHeight: terminalHeight,
		InnerWidth:     width - 2,
		TableHeight:    tableHeight,
	}
}

// DefaultLayout returns a layout using the default size
func DefaultLayout() Layout {
	l := NewLayout(DefaultWidth, DefaultHeight)
	l.TableHeight = defaultTableLines
	return l
}

// clamp restricts a value to the given range
func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Color palette - centralized color definitions
var (
	ColorBorder    = lipgloss.Color("196") // red
	ColorHighlight = lipgloss.Color("88")  // dark red background
	ColorText      = lipgloss.Color("15")  // bright white
	ColorAccent    = lipgloss.Color("226") // bright yellow
	ColorAccentDim = lipgloss.Color("220") // yellow (progress)
	ColorTextDim   = lipgloss.Color("241") // gray
)

// Common styles - reusable style definitions
var (
	// Border style for main viewport
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// Title style for section headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	// Normal text style
	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// Disabled layers and secondary text
	DimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	// Hint/help text style
	HintStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Italic(true)

	// Accent style for highlighted text (yellow)
	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// Progress style
	ProgressStyle = lipgloss.NewStyle().
			Foreground(ColorAccentDim)

	// Error line style
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorBorder).
			Bold(true)
)

// BorderedBox returns a style for bordered content boxes with the layout width
func BorderedBox(layout Layout) lipgloss.Style {
	return BorderStyle.Width(layout.InnerWidth)
}

// RenderNormal renders text in the normal style
func RenderNormal(s string) string {
	return NormalStyle.Render(s)
}

// Swatch renders a block in the given CSS color. Non-hex colors render dim.
func Swatch(color string) string {
	if len(color) == 0 || color[0] != '#' {
		return DimStyle.Render("■")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("■")
}

// NewAppSpinner returns the white dot spinner used for blocking work
func NewAppSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorText)
	return s
}

// ApplyTableStyles sets header and selection styles on a bubbles table
func ApplyTableStyles(t *table.Model) {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorText)
	s.Cell = s.Cell.Foreground(ColorText)
	s.Selected = s.Selected.
		Foreground(ColorText).
		Background(ColorHighlight).
		Bold(true)
	t.SetStyles(s)
}

// NewAppTheme creates a huh theme matching the app's style guide
// White text, red highlights/selection
func NewAppTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Title styling - white bold
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)
	t.Blurred.Title = t.Focused.Title

	// Description - white
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Description = t.Focused.Description

	// Base text - white
	t.Focused.Base = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Base = t.Focused.Base

	// Selected option - red background, white text
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	// Unselected option - white text
	t.Focused.UnselectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.SelectedPrefix = lipgloss.NewStyle().
		Foreground(ColorBorder).
		SetString("[x] ")
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().
		Foreground(ColorTextDim).
		SetString("[ ] ")

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	// Text input styling
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(ColorBorder)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(ColorBorder)

	return t
}
