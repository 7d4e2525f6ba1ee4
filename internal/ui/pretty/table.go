package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gomdmark/pkg/extension"
)

// Table formatting constants.
const (
	tablePadding        = 2
	tableColumnCount    = 4 // MARK, COMMAND, SHORTCUT, DESCRIPTION
	minMarkWidth        = 8
	minCommandWidth     = 12
	minShortcutWidth    = 8
	minDescriptionWidth = 20
	heavySeparator      = "="
	lightSeparator      = "-"
)

// TableRow represents a single command in the extension table.
type TableRow struct {
	Mark        string
	Command     string
	Shortcut    string
	Description string
}

// RowsFromExtensions builds table rows grouped by extension, one row per command.
func RowsFromExtensions(exts []*extension.Extension) [][]TableRow {
	groups := make([][]TableRow, 0, len(exts))
	for _, ext := range exts {
		chords := make(map[string][]string)
		for _, pair := range ext.ShortcutList() {
			chords[pair[1]] = append(chords[pair[1]], pair[0])
		}

		rows := make([]TableRow, 0, len(ext.Commands))
		for _, cmd := range ext.Commands {
			rows = append(rows, TableRow{
				Mark:        ext.Name,
				Command:     cmd.Name,
				Shortcut:    strings.Join(chords[cmd.Name], ", "),
				Description: cmd.Description,
			})
		}
		if len(rows) > 0 {
			groups = append(groups, rows)
		}
	}
	return groups
}

// TableFormatter formats extension commands as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

type columnWidths struct {
	mark        int
	command     int
	shortcut    int
	description int
}

// FormatTable formats grouped rows as a table with one section per mark.
func (t *TableFormatter) FormatTable(groups [][]TableRow) string {
	if len(groups) == 0 {
		return ""
	}

	colWidths := t.calculateColumnWidths(groups)

	var builder strings.Builder

	builder.WriteString(t.formatHeader(colWidths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(colWidths, heavySeparator))
	builder.WriteString("\n")

	for i, group := range groups {
		if i > 0 {
			builder.WriteString(t.formatSeparator(colWidths, lightSeparator))
			builder.WriteString("\n")
		}
		for j, row := range group {
			// The mark name is shown once per group.
			if j > 0 {
				row.Mark = ""
			}
			builder.WriteString(t.formatRow(row, colWidths))
			builder.WriteString("\n")
		}
	}

	builder.WriteString(t.formatSeparator(colWidths, heavySeparator))
	builder.WriteString("\n")

	return builder.String()
}

// calculateColumnWidths determines optimal column widths based on content.
func (t *TableFormatter) calculateColumnWidths(groups [][]TableRow) columnWidths {
	widths := columnWidths{
		mark:        minMarkWidth,
		command:     minCommandWidth,
		shortcut:    minShortcutWidth,
		description: minDescriptionWidth,
	}

	for _, group := range groups {
		for _, row := range group {
			widths.mark = max(widths.mark, len(row.Mark))
			widths.command = max(widths.command, len(row.Command))
			widths.shortcut = max(widths.shortcut, len(row.Shortcut))
			widths.description = max(widths.description, len(row.Description))
		}
	}

	// Constrain to terminal width by shrinking the description first.
	if total := t.calculateTotalWidth(widths); total > t.termWidth {
		widths.description = max(minDescriptionWidth, widths.description-(total-t.termWidth))
	}

	return widths
}

// calculateTotalWidth calculates the total table width from column widths.
func (t *TableFormatter) calculateTotalWidth(widths columnWidths) int {
	return widths.mark + widths.command + widths.shortcut + widths.description +
		(tablePadding * tableColumnCount)
}

// formatHeader formats the table header row.
func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s ",
		widths.mark, "MARK",
		widths.command, "COMMAND",
		widths.shortcut, "SHORTCUT",
		widths.description, "DESCRIPTION",
	)
	return t.styles.TableHeader.Render(header)
}

// formatSeparator formats a separator line.
func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	sep := strings.Repeat(char, t.calculateTotalWidth(widths))
	return t.styles.TableSeparator.Render(sep)
}

// formatRow formats a single table row. Padding is applied before styling
// so ANSI sequences do not skew the column widths.
func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	pad := func(s string, width int) string {
		s = truncateString(s, width)
		return s + strings.Repeat(" ", width-len(s))
	}

	return " " +
		t.styles.Name.Render(pad(row.Mark, widths.mark)) + "  " +
		pad(row.Command, widths.command) + "  " +
		t.styles.Shortcut.Render(pad(row.Shortcut, widths.shortcut)) + "  " +
		t.styles.Description.Render(truncateString(row.Description, widths.description))
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}
