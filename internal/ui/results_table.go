package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aidanlsb/sift/internal/model"
)

// Alignment represents column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// ColumnDef defines a column in a ResultsTable.
type ColumnDef struct {
	Name       string         // used to look up widths, not displayed
	WidthRatio float64        // share of the flexible width, 0 means fixed
	MinWidth   int            // minimum width in characters
	MaxWidth   int            // maximum width (0 = no limit)
	Align      Alignment      // text alignment
	Style      lipgloss.Style // style applied to cells in this column
}

// ResultsTable renders rows in borderless, width-aware columns.
type ResultsTable struct {
	display *DisplayContext
	columns []ColumnDef
	rows    [][]string
}

var (
	// ColNum is the row number column.
	ColNum = ColumnDef{Name: "num", MinWidth: 4, MaxWidth: 6, Align: AlignRight, Style: Muted}

	// ColTitle holds entity titles.
	ColTitle = ColumnDef{Name: "title", WidthRatio: 0.65, MinWidth: 20, MaxWidth: 90}

	// ColBag holds the bag an entity lives in.
	ColBag = ColumnDef{Name: "bag", WidthRatio: 0.35, MinWidth: 10, MaxWidth: 40, Style: Muted}

	// SearchLayout is used for search results: [num, title, bag]
	SearchLayout = []ColumnDef{ColNum, ColTitle, ColBag}
)

// NewResultsTable creates a table with the given column layout.
func NewResultsTable(display *DisplayContext, columns []ColumnDef) *ResultsTable {
	return &ResultsTable{display: display, columns: columns}
}

// AddRow adds a row of cells, one per column.
func (t *ResultsTable) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// ColumnWidth returns the computed width of the named column.
func (t *ResultsTable) ColumnWidth(name string) int {
	widths := t.calculateWidths()
	for i, col := range t.columns {
		if col.Name == name {
			return widths[i]
		}
	}
	return 0
}

// calculateWidths gives fixed columns their minimum and splits the rest of
// the terminal between flexible columns by ratio.
func (t *ResultsTable) calculateWidths() []int {
	const columnPadding = 2
	const leftMargin = 2

	widths := make([]int, len(t.columns))
	var totalRatio float64
	var fixedWidth int
	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			widths[i] = col.MinWidth
			if col.MaxWidth > 0 && widths[i] > col.MaxWidth {
				widths[i] = col.MaxWidth
			}
			fixedWidth += widths[i]
		} else {
			totalRatio += col.WidthRatio
		}
	}

	available := t.display.TermWidth - fixedWidth - (len(t.columns)-1)*columnPadding - leftMargin
	if available < 0 {
		available = 0
	}

	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			continue
		}
		width := int(float64(available) * col.WidthRatio / totalRatio)
		if width < col.MinWidth {
			width = col.MinWidth
		}
		if col.MaxWidth > 0 && width > col.MaxWidth {
			width = col.MaxWidth
		}
		widths[i] = width
	}
	return widths
}

// Render generates the table output. An empty table renders as "".
func (t *ResultsTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}
	widths := t.calculateWidths()

	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		cells := make([]string, len(t.columns))
		for j := range t.columns {
			if j < len(row) {
				cells[j] = row[j]
			}
		}
		rows[i] = cells
	}

	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col >= len(t.columns) {
				return lipgloss.NewStyle()
			}
			def := t.columns[col]
			style := def.Style.Width(widths[col])
			if def.Align == AlignRight {
				style = style.Align(lipgloss.Right)
			} else {
				style = style.Align(lipgloss.Left)
			}
			if col < len(t.columns)-1 {
				style = style.PaddingRight(2)
			}
			return style
		}).
		Rows(rows...)

	return tbl.Render()
}

// RenderResults lays out search matches as numbered title/bag rows.
// Cells are truncated before styling so escape codes are never cut.
func RenderResults(display *DisplayContext, items []model.ResultItem) string {
	tbl := NewResultsTable(display, SearchLayout)
	titleWidth := tbl.ColumnWidth(ColTitle.Name)
	bagWidth := tbl.ColumnWidth(ColBag.Name)
	for i, item := range items {
		tbl.AddRow(
			FormatRowNum(i+1, len(items)),
			Accent.Render(TruncateWithEllipsis(item.Title, titleWidth)),
			TruncateWithEllipsis(item.Bag, bagWidth),
		)
	}
	return tbl.Render()
}

// TruncateWithEllipsis shortens s to at most maxLen runes, preferring a
// word boundary.
func TruncateWithEllipsis(s string, maxLen int) string {
	if maxLen <= 0 || lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}

	truncated := string(runes[:maxLen-3])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}

// FormatRowNum formats a row number with consistent width.
func FormatRowNum(num, maxNum int) string {
	width := len(fmt.Sprintf("%d", maxNum))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%*d", width, num)
}
