package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/fund-analyzer/internal/ui/style"
)

// TableColumn represents a column configuration
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

// TableRow is one row; Style colors the whole row when set.
type TableRow struct {
	Cells []string
	Style *lipgloss.Style
}

// Table renders fixed-width columns with a header line. Cells may carry
// their own styling; widths are measured on the rendered text.
type Table struct {
	columns []TableColumn
	rows    []TableRow

	headerStyle lipgloss.Style
	cellStyle   lipgloss.Style
	sepStyle    lipgloss.Style
}

// NewTable creates a new table component
func NewTable(columns ...TableColumn) *Table {
	palette := style.DefaultPalette()

	return &Table{
		columns: columns,

		headerStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true),

		cellStyle: lipgloss.NewStyle().
			Foreground(palette.Text),

		sepStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) *Table {
	t.rows = append(t.rows, TableRow{Cells: cells})
	return t
}

// AddStyledRow adds a row rendered with s.
func (t *Table) AddStyledRow(s lipgloss.Style, cells ...string) *Table {
	t.rows = append(t.rows, TableRow{Cells: cells, Style: &s})
	return t
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// View renders the table
func (t *Table) View() string {
	if len(t.columns) == 0 {
		return ""
	}

	sep := t.sepStyle.Render(" │ ")
	lines := make([]string, 0, len(t.rows)+2)

	headers := make([]string, len(t.columns))
	rule := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = renderCell(col.Header, col, t.headerStyle)
		rule[i] = strings.Repeat("─", col.Width)
	}
	lines = append(lines, strings.Join(headers, sep))
	lines = append(lines, t.sepStyle.Render(strings.Join(rule, "─┼─")))

	for _, row := range t.rows {
		rowStyle := t.cellStyle
		if row.Style != nil {
			rowStyle = *row.Style
		}
		cells := make([]string, len(t.columns))
		for i, col := range t.columns {
			text := ""
			if i < len(row.Cells) {
				text = row.Cells[i]
			}
			cells[i] = renderCell(text, col, rowStyle)
		}
		lines = append(lines, strings.Join(cells, sep))
	}

	return strings.Join(lines, "\n")
}

// renderCell pads or truncates content to the column width.
func renderCell(content string, col TableColumn, s lipgloss.Style) string {
	if lipgloss.Width(content) > col.Width {
		runes := []rune(content)
		if col.Width > 1 && len(runes) >= col.Width {
			content = string(runes[:col.Width-1]) + "…"
		}
	}
	return s.Width(col.Width).MaxWidth(col.Width).Align(col.Align).Render(content)
}
