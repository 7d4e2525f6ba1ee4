package doc

import (
	"strings"

	"github.com/yaklabco/gomdmark/pkg/edit"
	"github.com/yaklabco/gomdmark/pkg/mark"
)

// subtractRange removes r from every span whose mark is named name, splitting
// spans that straddle it. An empty name matches every mark.
func subtractRange(spans []edit.Span, r edit.Range, name string) []edit.Span {
	if r.IsEmpty() {
		return spans
	}
	out := make([]edit.Span, 0, len(spans))
	for _, s := range spans {
		if (name != "" && s.Mark.Type != name) || !s.Overlaps(r) {
			out = append(out, s)
			continue
		}
		if s.Start < r.Start {
			out = append(out, edit.Span{Range: edit.Range{Start: s.Start, End: r.Start}, Mark: s.Mark})
		}
		if s.End > r.End {
			out = append(out, edit.Span{Range: edit.Range{Start: r.End, End: s.End}, Mark: s.Mark})
		}
	}
	return out
}

// addMarkSpan attaches m over r, replacing any overlapping mark of the same
// name so that a name appears at most once per position.
func addMarkSpan(spans []edit.Span, r edit.Range, m mark.Mark) []edit.Span {
	if r.IsEmpty() {
		return spans
	}
	out := subtractRange(spans, r, m.Type)
	return append(out, edit.Span{Range: r, Mark: m})
}

// mapSpans moves spans through a text step map. Spans starting at an insertion
// point move right; spans ending there do not grow.
func mapSpans(spans []edit.Span, sm edit.StepMap) []edit.Span {
	out := make([]edit.Span, 0, len(spans))
	for _, s := range spans {
		start := sm.Map(s.Start, 1)
		end := sm.Map(s.End, -1)
		if end > start {
			out = append(out, edit.Span{Range: edit.Range{Start: start, End: end}, Mark: s.Mark})
		}
	}
	return out
}

// covered reports whether the spans named name cover every byte of [from, to)
// except block separators. A range holding only separators must have the
// separators themselves marked.
func covered(text string, spans []edit.Span, from, to int, name string) bool {
	onlySeparators := strings.Count(text[from:to], string(blockSeparator)) == to-from
	pos := from
	for pos < to {
		if text[pos] == blockSeparator && !onlySeparators {
			pos++
			continue
		}
		next := -1
		for _, s := range spans {
			if s.Mark.Type == name && s.Contains(pos) {
				next = s.End
				break
			}
		}
		if next < 0 {
			return false
		}
		pos = next
	}
	return true
}
