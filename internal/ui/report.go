package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/thesavant42/countyroots/internal/api"
	"github.com/thesavant42/countyroots/internal/models"
)

var (
	// Color palette
	purple = lipgloss.Color("99")  // for borders
	pink   = lipgloss.Color("205") // for header text
	cyan   = lipgloss.Color("86")
	white  = lipgloss.Color("255")
	green  = lipgloss.Color("82")
	yellow = lipgloss.Color("220")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(pink).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(cyan).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Foreground(pink).
			Bold(true)

	rowStyle = lipgloss.NewStyle().
			Foreground(white)

	failedRowStyle = lipgloss.NewStyle().
			Foreground(yellow).
			Bold(true)

	borderStyle = lipgloss.NewStyle().
			Foreground(purple)
)

// PrintHeader prints a styled report header
func PrintHeader(w io.Writer, title, subtitle string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(title))
	if subtitle != "" {
		fmt.Fprintln(w, subtitleStyle.Render(subtitle))
	}
}

// printTable draws a bordered table. Lipgloss only colors the lines; the
// structure is plain string formatting.
func printTable(w io.Writer, headers []string, widths []int, rows [][]string, highlight func(int) bool) {
	totalWidth := 1
	for _, width := range widths {
		totalWidth += width + 3
	}
	separator := strings.Repeat("─", totalWidth-2)

	format := func(cells []string) string {
		var sb strings.Builder
		sb.WriteString("│")
		for i, cell := range cells {
			if len(cell) > widths[i] {
				cell = cell[:widths[i]-3] + "..."
			}
			fmt.Fprintf(&sb, " %-*s │", widths[i], cell)
		}
		return sb.String()
	}

	fmt.Fprintln(w, borderStyle.Render("┌"+separator+"┐"))
	fmt.Fprintln(w, headerStyle.Render(format(headers)))
	fmt.Fprintln(w, borderStyle.Render("├"+separator+"┤"))
	for i, row := range rows {
		if highlight != nil && highlight(i) {
			fmt.Fprintln(w, failedRowStyle.Render(format(row)))
		} else {
			fmt.Fprintln(w, rowStyle.Render(format(row)))
		}
	}
	fmt.Fprintln(w, borderStyle.Render("└"+separator+"┘"))
	fmt.Fprintln(w)
}

// PrintExtractionTable prints one line per settled jurisdiction, failures
// highlighted
func PrintExtractionTable(w io.Writer, results []api.JurisdictionResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, subtitleStyle.Render("Extraction: No data"))
		return
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		rows[i] = []string{
			r.Jurisdiction.Name,
			fmt.Sprint(len(r.Records)),
			fmt.Sprint(len(r.Skipped)),
			r.Duration.Round(time.Millisecond).String(),
			status,
		}
	}
	printTable(w,
		[]string{"Jurisdiction", "Counties", "Skipped", "Time", "Status"},
		[]int{16, 8, 7, 8, 40},
		rows,
		func(i int) bool { return results[i].Err != nil },
	)
}

// PrintCategoryTable prints category counts, largest first
func PrintCategoryTable(w io.Writer, summary map[models.Category]int) {
	if len(summary) == 0 {
		fmt.Fprintln(w, subtitleStyle.Render("Classification: No data"))
		return
	}

	type entry struct {
		category models.Category
		n        int
	}
	entries := make([]entry, 0, len(summary))
	total := 0
	for c, n := range summary {
		entries = append(entries, entry{c, n})
		total += n
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n != entries[j].n {
			return entries[i].n > entries[j].n
		}
		return entries[i].category < entries[j].category
	})

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			string(e.category),
			fmt.Sprint(e.n),
			fmt.Sprintf("%.1f%%", 100*float64(e.n)/float64(total)),
		}
	}
	printTable(w, []string{"Origin", "Counties", "%"}, []int{18, 8, 6}, rows, nil)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	successStyle := lipgloss.NewStyle().
		Foreground(green).
		Bold(true)
	fmt.Fprintln(w, successStyle.Render(message))
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintln(w, ErrorStyle.Render("Error: "+message))
}
