package markdown

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/gomdmark/pkg/edit"
)

// markdownEscaper escapes characters that would otherwise start inline syntax.
//
//nolint:gochecknoglobals // immutable replacer
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
)

// Export writes content as Markdown, one paragraph per block. Marked runs
// are wrapped in their mark's delimiter; whitespace at the edges of a run is
// moved outside the delimiters so the result parses back to the same marks.
// Marks without Markdown syntax are dropped.
func (c *Codec) Export(content edit.Slice) (string, error) {
	order := make(map[string]int, c.reg.Len())
	delims := make(map[string]string, c.reg.Len())
	for i, typ := range c.reg.Types() {
		order[typ.Name()] = i
		delims[typ.Name()] = typ.Markdown().Delimiter
	}
	for _, s := range content.Spans {
		if _, ok := order[s.Mark.Type]; !ok {
			return "", fmt.Errorf("export markdown: unknown mark %q", s.Mark.Type)
		}
	}

	var sb strings.Builder
	blockStart := 0
	for i, block := range strings.Split(content.Text, "\n") {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		blockEnd := blockStart + len(block)
		w := &runWriter{sb: &sb, text: content.Text, delims: delims}
		w.block(content.Spans, blockStart, blockEnd, order)
		blockStart = blockEnd + 1
	}
	return sb.String(), nil
}

type runWriter struct {
	sb     *strings.Builder
	text   string
	delims map[string]string
	open   []string
}

func (w *runWriter) block(spans []edit.Span, from, to int, order map[string]int) {
	bounds := []int{from, to}
	for _, s := range spans {
		if s.Start > from && s.Start < to {
			bounds = append(bounds, s.Start)
		}
		if s.End > from && s.End < to {
			bounds = append(bounds, s.End)
		}
	}
	slices.Sort(bounds)
	bounds = slices.Compact(bounds)

	for i := 0; i+1 < len(bounds); i++ {
		a, b := bounds[i], bounds[i+1]

		var names []string
		for _, s := range spans {
			if s.Start <= a && s.End >= b && w.delims[s.Mark.Type] != "" {
				names = append(names, s.Mark.Type)
			}
		}
		slices.SortStableFunc(names, func(x, y string) int {
			return cmp.Compare(order[x], order[y])
		})
		names = slices.Compact(names)

		keep := 0
		for keep < len(w.open) && keep < len(names) && w.open[keep] == names[keep] {
			keep++
		}
		w.close(keep)

		segment := w.text[a:b]
		if strings.TrimSpace(segment) == "" {
			w.sb.WriteString(segment)
			continue
		}
		if keep < len(names) {
			// Leading whitespace goes before the opening delimiters.
			trimmed := strings.TrimLeft(segment, " \t")
			w.sb.WriteString(segment[:len(segment)-len(trimmed)])
			segment = trimmed
			for _, name := range names[keep:] {
				w.sb.WriteString(w.delims[name])
				w.open = append(w.open, name)
			}
		}
		escaped := markdownEscaper.Replace(segment)
		if a == from && keep == len(names) && len(names) == 0 {
			escaped = escapeBlockStart(escaped)
		}
		w.sb.WriteString(escaped)
	}
	w.close(0)
}

// close closes open delimiters down to depth keep, moving trailing
// whitespace after the closing delimiters.
func (w *runWriter) close(keep int) {
	if len(w.open) <= keep {
		return
	}

	out := w.sb.String()
	trimmed := strings.TrimRight(out, " \t")
	trailing := out[len(trimmed):]
	if trailing != "" {
		w.sb.Reset()
		w.sb.WriteString(trimmed)
	}

	for i := len(w.open) - 1; i >= keep; i-- {
		w.sb.WriteString(w.delims[w.open[i]])
	}
	w.open = w.open[:keep]
	w.sb.WriteString(trailing)
}

// orderedListMarker matches the number and delimiter of an ordered list item.
var orderedListMarker = regexp.MustCompile(`^[0-9]{1,9}[.)]`)

// escapeBlockStart escapes a leading character that would turn a paragraph
// into a heading, quote or list item.
func escapeBlockStart(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '#', '>', '-', '+':
		return `\` + s
	}
	if loc := orderedListMarker.FindStringIndex(s); loc != nil {
		return s[:loc[1]-1] + `\` + s[loc[1]-1:]
	}
	return s
}
