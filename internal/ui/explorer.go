package ui

// explorer.go is the terminal year scrubber: it shows, for the selected
// year, how many counties each highlight layer would paint.

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thesavant42/countyroots/internal/models"
	"github.com/thesavant42/countyroots/internal/style"
)

// maxNewNames caps the "new this year" list
const maxNewNames = 12

// ExplorerSource is what the explorer reads from the engine
type ExplorerSource interface {
	style.CodeSource
	EstablishedIn(year int) []models.CountyRecord
}

// ExplorerConfig configures NewExplorer
type ExplorerConfig struct {
	Source    ExplorerSource
	Filters   []models.FilterCategory
	MinYear   int
	MaxYear   int
	StartYear int
}

// ExplorerModel is the Bubble Tea model for the year scrubber
type ExplorerModel struct {
	source  ExplorerSource
	filters []models.FilterCategory
	min     int
	max     int
	year    int
	period  int // index into models.Periods of the last preset jumped to

	counts []int // cumulative count per filter
	added  []int // established this year per filter
	recent []models.CountyRecord

	table    table.Model
	layout   Layout
	err      error
	quitting bool
}

// NewExplorer builds the model and runs the first query
func NewExplorer(cfg ExplorerConfig) ExplorerModel {
	filters := make([]models.FilterCategory, len(cfg.Filters))
	copy(filters, cfg.Filters)

	m := ExplorerModel{
		source:  cfg.Source,
		filters: filters,
		min:     cfg.MinYear,
		max:     cfg.MaxYear,
		year:    clamp(cfg.StartYear, cfg.MinYear, cfg.MaxYear),
		period:  -1,
		layout:  DefaultLayout(),
	}
	m.table = InitTable(explorerColumns(m.layout), nil, m.layout)
	m.refresh()
	return m
}

func explorerColumns(layout Layout) []table.Column {
	return CalculateColumns([]ColumnSpec{
		{Title: "#", FixedWidth: 2},
		{Title: "Layer", FlexRatio: 50, MinWidth: 16},
		{Title: "Color", FixedWidth: 16},
		{Title: "On", FixedWidth: 3},
		{Title: "Counties", FixedWidth: 8},
		{Title: "New", FixedWidth: 5},
	}, layout.InnerWidth)
}

// refresh re-runs the cumulative queries for the current year
func (m *ExplorerModel) refresh() {
	m.counts = make([]int, len(m.filters))
	m.added = make([]int, len(m.filters))
	m.recent = m.source.EstablishedIn(m.year)
	m.err = nil

	rows := make([]table.Row, len(m.filters))
	for i, f := range m.filters {
		codes, err := m.source.CumulativeCodes(m.year, f.Selector())
		if err != nil {
			m.err = err
		}
		m.counts[i] = len(codes)
		for _, rec := range m.recent {
			if f.Selector().Matches(rec.OriginCategory) {
				m.added[i]++
			}
		}

		on := "no"
		if f.Enabled {
			on = "yes"
		}
		key := ""
		if i < 9 {
			key = fmt.Sprint(i + 1)
		}
		rows[i] = table.Row{key, f.DisplayName(), f.Color, on, fmt.Sprint(m.counts[i]), fmt.Sprint(m.added[i])}
	}
	m.table.SetRows(rows)
}

// setYear moves the scrubber, clamped to the configured range
func (m *ExplorerModel) setYear(year int) {
	year = clamp(year, m.min, m.max)
	if year == m.year {
		return
	}
	m.year = year
	m.refresh()
}

// nextPeriod jumps to the start of the following preset
func (m *ExplorerModel) nextPeriod() {
	if len(models.Periods) == 0 {
		return
	}
	m.period = (m.period + 1) % len(models.Periods)
	m.setYear(models.Periods[m.period].Start)
}

func (m ExplorerModel) Init() tea.Cmd {
	return StandardInit()
}

func (m ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width, msg.Height)
		m.table.SetColumns(explorerColumns(m.layout))
		m.table.SetHeight(m.layout.TableHeight)
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		if quit, cmd := HandleQuitKeys(key); quit {
			m.quitting = true
			return m, cmd
		}
		switch key {
		case "left", "h":
			m.setYear(m.year - 1)
		case "right", "l":
			m.setYear(m.year + 1)
		case "[":
			m.setYear(m.year - 10)
		case "]":
			m.setYear(m.year + 10)
		case "home":
			m.setYear(m.min)
		case "end":
			m.setYear(m.max)
		case "p":
			m.nextPeriod()
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			i := int(key[0] - '1')
			if i < len(m.filters) {
				m.filters = style.Toggle(m.filters, i)
				m.refresh()
			}
		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m ExplorerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("County origins in %d", m.year)
	for _, p := range models.Periods {
		if p.Contains(m.year) {
			title += fmt.Sprintf("  (%s period)", p.Name)
			break
		}
	}
	b.WriteString(AccentStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.yearBar())
	b.WriteString("\n\n")

	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.legend())
	b.WriteString("\n\n")

	b.WriteString(TitleStyle.Render(fmt.Sprintf("New in %d: %d", m.year, len(m.recent))))
	b.WriteString("\n")
	b.WriteString(m.recentNames())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(HintStyle.Render("←/→ year  [/] decade  p period  1-9 toggle layer  q quit"))

	return BorderedBox(m.layout).Render(b.String())
}

// yearBar draws the scrubber position between min and max
func (m ExplorerModel) yearBar() string {
	width := m.layout.InnerWidth - 14
	if width < 10 {
		width = 10
	}
	span := m.max - m.min
	pos := 0
	if span > 0 {
		pos = (m.year - m.min) * (width - 1) / span
	}
	bar := ProgressStyle.Render(strings.Repeat("━", pos)) +
		AccentStyle.Render("●") +
		DimStyle.Render(strings.Repeat("─", width-1-pos))
	return fmt.Sprintf("%d %s %d", m.min, bar, m.max)
}

// legend shows each layer's swatch in the color it would be painted
func (m ExplorerModel) legend() string {
	parts := make([]string, 0, len(m.filters))
	for _, f := range m.filters {
		name := f.DisplayName()
		if f.Enabled {
			parts = append(parts, Swatch(f.Color)+" "+RenderNormal(name))
		} else {
			parts = append(parts, Swatch(style.FallbackColor)+" "+DimStyle.Render(name))
		}
	}
	return lipgloss.NewStyle().Width(m.layout.InnerWidth).Render(strings.Join(parts, "  "))
}

func (m ExplorerModel) recentNames() string {
	if len(m.recent) == 0 {
		return DimStyle.Render("none")
	}
	names := make([]string, 0, maxNewNames)
	for i, rec := range m.recent {
		if i == maxNewNames {
			names = append(names, fmt.Sprintf("and %d more", len(m.recent)-maxNewNames))
			break
		}
		names = append(names, fmt.Sprintf("%s, %s", rec.Name, rec.Jurisdiction))
	}
	return lipgloss.NewStyle().Width(m.layout.InnerWidth).Render(strings.Join(names, "; "))
}

// Year returns the year the scrubber ended on
func (m ExplorerModel) Year() int {
	return m.year
}

// Filters returns the layer configuration with the user's toggles applied
func (m ExplorerModel) Filters() []models.FilterCategory {
	out := make([]models.FilterCategory, len(m.filters))
	copy(out, m.filters)
	return out
}

// Counts returns the cumulative count per layer for the current year
func (m ExplorerModel) Counts() []int {
	out := make([]int, len(m.counts))
	copy(out, m.counts)
	return out
}

// RunExplorer runs the scrubber full screen and returns the final state
func RunExplorer(cfg ExplorerConfig) (ExplorerModel, error) {
	p := tea.NewProgram(NewExplorer(cfg), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return ExplorerModel{}, fmt.Errorf("explorer error: %w", err)
	}
	return final.(ExplorerModel), nil
}
