package tui

import (
	"fmt"
	"strings"

	"bom-dashboard/internal/bom"
	"bom-dashboard/internal/dashboard"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const (
	maxColumnWidth = 28
	// maxDetailRows bounds the yearly series shown under the table.
	maxDetailRows = 8
)

var (
	ColorAccent = lipgloss.Color("#7D56F4")
	ColorGray   = lipgloss.Color("#767676")
	ColorRed    = lipgloss.Color("#E05252")
	ColorYellow = lipgloss.Color("#E0B252")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorAccent).
			Padding(0, 1)
	tabStyle      = lipgloss.NewStyle().Foreground(ColorGray).Padding(0, 1)
	mutedStyle    = lipgloss.NewStyle().Foreground(ColorGray)
	errorStyle    = lipgloss.NewStyle().Foreground(ColorRed)
	advisoryStyle = lipgloss.NewStyle().Foreground(ColorYellow).Italic(true)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(ColorAccent)
	return s
}

func (m *Model) resize() {
	// header, filters, summary, status and help take the rest
	m.table.SetHeight(max(m.height-10, 3))
	m.table.SetWidth(m.width)
}

// rebuildTable replaces the table contents with the current rows. The
// header of the column selected for sorting is marked, with an arrow once
// the rows are sorted by it.
func (m *Model) rebuildTable() {
	rows := m.view.Rows
	m.columns = bom.Columns(rows)
	if m.sortColumn >= len(m.columns) {
		m.sortColumn = max(len(m.columns)-1, 0)
	}

	widths := make([]int, len(m.columns))
	for i, column := range m.columns {
		widths[i] = lipgloss.Width(column) + 2
	}
	cells := make([]table.Row, len(rows))
	for r, row := range rows {
		cells[r] = make(table.Row, len(m.columns))
		for i, column := range m.columns {
			text := row.Text(column)
			cells[r][i] = text
			widths[i] = max(widths[i], lipgloss.Width(text))
		}
	}

	columns := make([]table.Column, len(m.columns))
	for i, name := range m.columns {
		title := name
		if name == m.view.Sort.Column {
			if m.view.Sort.Desc {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		if i == m.sortColumn {
			title = "›" + title
		}
		columns[i] = table.Column{Title: title, Width: min(widths[i], maxColumnWidth)}
	}

	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(cells)
}

func renderTabs[T comparable](tabs []T, active T, label func(T) string) string {
	out := make([]string, len(tabs))
	for i, tab := range tabs {
		style := tabStyle
		if tab == active {
			style = activeTabStyle
		}
		out[i] = style.Render(label(tab))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func describeFilters(f bom.FilterState) string {
	parts := []string{
		fmt.Sprintf("years %d-%d", f.StartYear, f.EndYear),
		fmt.Sprintf("weeks %d-%d", f.StartWeek, f.EndWeek),
	}
	if f.CountType != "" {
		parts = append(parts, "count "+f.CountType)
	}
	if len(f.Parishes) > 0 {
		parts = append(parts, "parishes "+strings.Join(f.Parishes, ", "))
	}
	return strings.Join(parts, " · ")
}

// renderDetail lists the yearly series of the selected parish, one row per
// line as column=value pairs.
func renderDetail(parish string, rows []bom.Record) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(parish + " by year"))
	if len(rows) == 0 {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("no yearly data"))
		return b.String()
	}
	columns := bom.Columns(rows)
	for _, row := range rows[:min(len(rows), maxDetailRows)] {
		pairs := make([]string, 0, len(columns))
		for _, column := range columns {
			if text := row.Text(column); text != "" {
				pairs = append(pairs, column+"="+text)
			}
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(pairs, "  "))
	}
	if len(rows) > maxDetailRows {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("... %d more years", len(rows)-maxDetailRows)))
	}
	return b.String()
}

func (m *Model) View() string {
	v := m.view
	var b strings.Builder

	b.WriteString(titleStyle.Render("Bills of Mortality"))
	b.WriteString("\n")

	switch v.Stage {
	case dashboard.StageError:
		b.WriteString(errorStyle.Render(v.InitError))
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	case dashboard.StageReady:
	default:
		b.WriteString(mutedStyle.Render(spinnerFrame() + " " + dashboard.MessageLoading))
		return b.String()
	}

	b.WriteString(renderTabs(bom.PrimaryTabs, v.Tabs.Primary, bom.PrimaryTab.Label))
	b.WriteString("\n")
	b.WriteString(renderTabs(bom.SecondaryTabs, v.Tabs.Secondary, bom.SecondaryTab.Label))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(describeFilters(v.Filters)))
	b.WriteString("\n")

	if m.parishMode {
		b.WriteString(m.parishInput.View())
		b.WriteString("\n")
	}

	b.WriteString(m.table.View())
	b.WriteString("\n")
	if m.detail != "" {
		b.WriteString(renderDetail(m.detail, m.detailRows))
		b.WriteString("\n")
	}

	summary := v.Summary()
	switch {
	case v.Meta.Loading:
		summary = spinnerFrame() + " " + summary
	case v.Meta.Error != "":
		summary = errorStyle.Render(summary)
	}
	b.WriteString(summary)
	if len(v.Rows) > 0 {
		b.WriteString(mutedStyle.Render("  " + v.PageSummary()))
	}
	b.WriteString("\n")

	if advisory := v.Advisory(); advisory != "" {
		b.WriteString(advisoryStyle.Render(advisory))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
