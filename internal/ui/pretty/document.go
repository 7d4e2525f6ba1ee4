package pretty

import (
	"slices"
	"strings"

	"github.com/yaklabco/gomdmark/pkg/doc"
	"github.com/yaklabco/gomdmark/pkg/edit"
)

// segment is a run of text with a uniform mark set.
type segment struct {
	text     string
	marks    []string
	selected bool
}

// FormatSlice renders marked text, styling each run by its marks.
func (s *Styles) FormatSlice(content edit.Slice) string {
	return s.render(segments(content, edit.Range{}))
}

// FormatState renders a document state with its selection highlighted.
func (s *Styles) FormatState(state *doc.State) string {
	sel := state.Selection()
	return s.render(segments(state.Content(), edit.Range{Start: sel.From(), End: sel.To()}))
}

func (s *Styles) render(segs []segment) string {
	var builder strings.Builder
	for _, seg := range segs {
		style := s.MarkStyle(seg.marks...)
		if seg.selected {
			style = style.Inherit(s.Selection)
		}
		// Render line by line; lipgloss pads multi-line blocks to a common width.
		for i, line := range strings.Split(seg.text, "\n") {
			if i > 0 {
				builder.WriteByte('\n')
			}
			if line != "" {
				builder.WriteString(style.Render(line))
			}
		}
	}
	return builder.String()
}

// segments splits content at every span and selection boundary.
func segments(content edit.Slice, selection edit.Range) []segment {
	cuts := []int{0, len(content.Text)}
	for _, span := range content.Spans {
		cuts = append(cuts, span.Start, span.End)
	}
	if !selection.IsEmpty() {
		cuts = append(cuts, selection.Start, selection.End)
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	var segs []segment
	for i := 0; i+1 < len(cuts); i++ {
		from, to := cuts[i], cuts[i+1]
		if from < 0 || to > len(content.Text) || from >= to {
			continue
		}

		var names []string
		for _, span := range content.Spans {
			if span.Start <= from && span.End >= to && !slices.Contains(names, span.Mark.Type) {
				names = append(names, span.Mark.Type)
			}
		}
		slices.Sort(names)

		seg := segment{
			text:     content.Text[from:to],
			marks:    names,
			selected: !selection.IsEmpty() && selection.Start <= from && selection.End >= to,
		}
		if n := len(segs); n > 0 && segs[n-1].selected == seg.selected && slices.Equal(segs[n-1].marks, seg.marks) {
			segs[n-1].text += seg.text
			continue
		}
		segs = append(segs, seg)
	}
	return segs
}
