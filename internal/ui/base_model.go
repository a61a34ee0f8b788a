package ui

// base_model.go provides common TUI helpers for Bubble Tea models.

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// ColumnSpec defines a table column with flexible or fixed width.
type ColumnSpec struct {
	Title      string
	MinWidth   int // Minimum width (0 = no minimum)
	FixedWidth int // If > 0, use this exact width (ignores FlexRatio)
	FlexRatio  int // Relative ratio for flexible columns
}

// CalculateColumns computes column widths from specs. Flexible columns
// split the space left after fixed columns by ratio.
func CalculateColumns(specs []ColumnSpec, totalWidth int) []table.Column {
	fixedTotal := 0
	flexTotal := 0
	for _, s := range specs {
		if s.FixedWidth > 0 {
			fixedTotal += s.FixedWidth
		} else {
			flexTotal += s.FlexRatio
		}
	}

	// bubbles pads every cell with one space on each side
	remaining := totalWidth - fixedTotal - 2*len(specs)
	if remaining < 0 {
		remaining = 0
	}

	columns := make([]table.Column, len(specs))
	for i, s := range specs {
		var width int
		if s.FixedWidth > 0 {
			width = s.FixedWidth
		} else if flexTotal > 0 {
			width = remaining * s.FlexRatio / flexTotal
		}
		if s.MinWidth > 0 && width < s.MinWidth {
			width = s.MinWidth
		}
		columns[i] = table.Column{Title: s.Title, Width: width}
	}
	return columns
}

// InitTable creates and configures a table with proper styling and dimensions.
func InitTable(columns []table.Column, rows []table.Row, layout Layout) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(layout.TableHeight),
	)
	ApplyTableStyles(&t)
	t.GotoTop()
	return t
}

// StandardInit returns the standard Init command for table models.
func StandardInit() tea.Cmd {
	return tea.WindowSize()
}

// HandleQuitKeys returns true and Quit cmd for q/esc/ctrl+c keys.
//
// Example:
//
//	case tea.KeyMsg:
//	    if quit, cmd := HandleQuitKeys(msg.String()); quit {
//	        m.quitting = true
//	        return m, cmd
//	    }
func HandleQuitKeys(key string) (bool, tea.Cmd) {
	switch key {
	case "q", "esc", "ctrl+c":
		return true, tea.Quit
	}
	return false, nil
}
