package edit

import (
	"cmp"
	"slices"
)

// NormalizeSpans drops empty spans, merges overlapping or touching spans of
// equal marks, and sorts the result by start offset then mark name.
func NormalizeSpans(spans []Span) []Span {
	work := make([]Span, 0, len(spans))
	for _, s := range spans {
		if !s.IsEmpty() {
			work = append(work, s)
		}
	}

	slices.SortStableFunc(work, func(a, b Span) int {
		if c := cmp.Compare(a.Mark.Type, b.Mark.Type); c != 0 {
			return c
		}
		return cmp.Compare(a.Start, b.Start)
	})

	out := make([]Span, 0, len(work))
	for _, s := range work {
		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.Mark.Eq(s.Mark) && s.Start <= last.End {
				last.End = max(last.End, s.End)
				continue
			}
		}
		out = append(out, s)
	}

	slices.SortStableFunc(out, func(a, b Span) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.Mark.Type, b.Mark.Type)
	})
	return out
}
