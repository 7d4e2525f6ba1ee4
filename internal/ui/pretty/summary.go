package pretty

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// ConvertStats aggregates the outcome of a convert run.
type ConvertStats struct {
	FilesProcessed int
	FilesWritten   int
	FilesUnchanged int
	FilesDiffered  int
	FilesFailed    int

	// MarkedRanges counts marked ranges per mark name across all outputs.
	MarkedRanges map[string]int
}

func pluralFiles(n int) string {
	if n == 1 {
		return wordFile
	}
	return wordFiles
}

// FormatSummaryOneLine formats conversion statistics as a single line.
// Example: "3 files converted, 2 written, 1 unchanged, 14 bold".
func (s *Styles) FormatSummaryOneLine(stats ConvertStats) string {
	parts := []string{fmt.Sprintf("%d %s converted", stats.FilesProcessed, pluralFiles(stats.FilesProcessed))}

	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	}
	if stats.FilesUnchanged > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d unchanged", stats.FilesUnchanged)))
	}
	if stats.FilesDiffered > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d would change", stats.FilesDiffered)))
	}
	if stats.FilesFailed > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesFailed)))
	}
	for _, name := range slices.Sorted(maps.Keys(stats.MarkedRanges)) {
		parts = append(parts, fmt.Sprintf("%d %s", stats.MarkedRanges[name], name))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats conversion statistics as a summary block.
func (s *Styles) FormatSummary(stats ConvertStats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files converted:   " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesWritten > 0 {
		builder.WriteString("  Files written:     " +
			s.Success.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	}
	if stats.FilesUnchanged > 0 {
		builder.WriteString("  Files unchanged:   " +
			s.Dim.Render(strconv.Itoa(stats.FilesUnchanged)) + "\n")
	}
	if stats.FilesDiffered > 0 {
		builder.WriteString("  Files to change:   " +
			s.Warning.Render(strconv.Itoa(stats.FilesDiffered)) + "\n")
	}
	if stats.FilesFailed > 0 {
		builder.WriteString("  Files failed:      " +
			s.Error.Render(strconv.Itoa(stats.FilesFailed)) + "\n")
	}

	if len(stats.MarkedRanges) > 0 {
		builder.WriteString("\n  Marked ranges:\n")
		for _, name := range slices.Sorted(maps.Keys(stats.MarkedRanges)) {
			builder.WriteString(fmt.Sprintf("    %-15s%s\n", name+":",
				s.SummaryValue.Render(strconv.Itoa(stats.MarkedRanges[name]))))
		}
	}

	builder.WriteString("\n")
	if stats.FilesFailed > 0 {
		builder.WriteString(s.Error.Render("Conversion failed for " +
			strconv.Itoa(stats.FilesFailed) + " " + pluralFiles(stats.FilesFailed)))
	} else {
		builder.WriteString(s.Success.Render("Conversion complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}
