// Package doc provides a minimal host document: an immutable text-and-marks
// state that applies edits atomically, and a Document that owns the current
// state, its undo history, and change listeners.
package doc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/gomdmark/pkg/edit"
	"github.com/yaklabco/gomdmark/pkg/mark"
)

// blockSeparator separates text blocks. Rule lookback never crosses it.
const blockSeparator = '\n'

// State is an immutable document snapshot: text, mark spans, the selection,
// and the pending (stored) marks for the next insertion.
type State struct {
	text      string
	spans     []edit.Span
	sel       Selection
	stored    []mark.Mark
	storedSet bool
}

// NewState creates a state holding content with the cursor at its end.
func NewState(content edit.Slice) *State {
	return &State{
		text:  content.Text,
		spans: edit.NormalizeSpans(slices.Clone(content.Spans)),
		sel:   Cursor(len(content.Text)),
	}
}

// Text returns the document text.
func (s *State) Text() string {
	return s.text
}

// Len returns the document length in bytes.
func (s *State) Len() int {
	return len(s.text)
}

// Spans returns the normalized mark spans.
func (s *State) Spans() []edit.Span {
	return slices.Clone(s.spans)
}

// Content returns the whole document as a slice.
func (s *State) Content() edit.Slice {
	return edit.Slice{Text: s.text, Spans: s.Spans()}
}

// Selection returns the current selection.
func (s *State) Selection() Selection {
	return s.sel
}

// StoredMarks returns the pending marks and whether they are set. When they
// are not set, insertion uses the marks at the cursor.
func (s *State) StoredMarks() ([]mark.Mark, bool) {
	return slices.Clone(s.stored), s.storedSet
}

// WithSelection returns a copy of the state with sel, clamped to the text.
// Changing the selection drops stored marks.
func (s *State) WithSelection(sel Selection) *State {
	next := *s
	next.sel = sel.clamp(len(s.text))
	next.stored = nil
	next.storedSet = false
	return &next
}

// BlockStart returns the offset where the block containing pos starts.
func (s *State) BlockStart(pos int) int {
	pos = s.clampPos(pos)
	return strings.LastIndexByte(s.text[:pos], blockSeparator) + 1
}

// BlockEnd returns the offset where the block containing pos ends.
func (s *State) BlockEnd(pos int) int {
	pos = s.clampPos(pos)
	if i := strings.IndexByte(s.text[pos:], blockSeparator); i >= 0 {
		return pos + i
	}
	return len(s.text)
}

// TextBetween returns the text in [from, to), clamped to the document.
func (s *State) TextBetween(from, to int) string {
	from, to = s.clampPos(from), s.clampPos(to)
	if to <= from {
		return ""
	}
	return s.text[from:to]
}

// MarksOver returns the marks covering the byte at pos.
func (s *State) MarksOver(pos int) []mark.Mark {
	var marks []mark.Mark
	for _, span := range s.spans {
		if span.Contains(pos) {
			marks = mark.With(marks, span.Mark)
		}
	}
	return marks
}

// MarksAt returns the marks text inserted at pos would receive: the marks of
// the preceding character, or of the following one at the start of a block.
func (s *State) MarksAt(pos int) []mark.Mark {
	pos = s.clampPos(pos)
	if pos > s.BlockStart(pos) {
		return s.MarksOver(pos - 1)
	}
	if pos < s.BlockEnd(pos) {
		return s.MarksOver(pos)
	}
	return nil
}

// MarkRanges returns the parts of [from, to) carrying a mark named name.
func (s *State) MarkRanges(name string, from, to int) []edit.Range {
	var ranges []edit.Range
	window := edit.Range{Start: from, End: to}
	for _, span := range s.spans {
		if span.Mark.Type != name || !span.Overlaps(window) {
			continue
		}
		ranges = append(ranges, edit.Range{Start: max(span.Start, from), End: min(span.End, to)})
	}
	return ranges
}

// RangeHasMark reports whether any byte in [from, to) carries name.
func (s *State) RangeHasMark(from, to int, name string) bool {
	return len(s.MarkRanges(name, from, to)) > 0
}

// RangeFullyHasMark reports whether every non-separator byte in [from, to)
// carries name. An empty range is never fully marked.
func (s *State) RangeFullyHasMark(from, to int, name string) bool {
	from, to = s.clampPos(from), s.clampPos(to)
	if to <= from {
		return false
	}
	return covered(s.text, s.spans, from, to, name)
}

// Slice returns [from, to) as a slice with spans relative to from.
func (s *State) Slice(from, to int) edit.Slice {
	from, to = s.clampPos(from), s.clampPos(to)
	if to <= from {
		return edit.Slice{}
	}
	out := edit.Slice{Text: s.text[from:to]}
	for _, span := range s.spans {
		if span.End <= from || span.Start >= to {
			continue
		}
		out.Spans = append(out.Spans, edit.Span{
			Range: edit.Range{Start: max(span.Start, from) - from, End: min(span.End, to) - from},
			Mark:  span.Mark,
		})
	}
	return out
}

// Equal reports whether both states hold the same text, marks, selection and
// stored marks.
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.text != other.text || s.sel != other.sel || s.storedSet != other.storedSet {
		return false
	}
	if !mark.SameSet(s.stored, other.stored) {
		return false
	}
	return slices.EqualFunc(s.spans, other.spans, func(a, b edit.Span) bool {
		return a.Range == b.Range && a.Mark.Eq(b.Mark)
	})
}

func (s *State) clampPos(pos int) int {
	return max(0, min(pos, len(s.text)))
}

// Apply applies every step of e and returns the resulting state. The receiver
// is never modified: if any step is invalid, the error is returned and no
// partial result is observable.
func (s *State) Apply(e *edit.Edit) (*State, error) {
	next := &State{
		text:      s.text,
		spans:     slices.Clone(s.spans),
		sel:       s.sel,
		stored:    slices.Clone(s.stored),
		storedSet: s.storedSet,
	}
	if e == nil {
		return next, nil
	}

	for i, step := range e.Steps {
		if err := edit.ValidateStep(step, len(next.text)); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		next.applyStep(step)
	}

	next.spans = edit.NormalizeSpans(next.spans)
	return next, nil
}

func (s *State) applyStep(step edit.Step) {
	switch step.Op {
	case edit.OpDeleteText:
		r := step.Range
		sm := edit.StepMap{Pos: r.Start, Deleted: r.Len()}
		s.text = s.text[:r.Start] + s.text[r.End:]
		s.spans = mapSpans(s.spans, sm)
		s.mapSelection(sm)
		s.clearStored()

	case edit.OpInsertText:
		pos := step.Range.Start
		content := step.Content
		sm := edit.StepMap{Pos: pos, Inserted: content.Len()}
		s.text = s.text[:pos] + content.Text + s.text[pos:]
		s.spans = mapSpans(s.spans, sm)
		// Inserted text carries exactly the content's marks.
		s.spans = subtractRange(s.spans, edit.Range{Start: pos, End: pos + content.Len()}, "")
		for _, span := range content.Spans {
			s.spans = append(s.spans, edit.Span{
				Range: edit.Range{Start: pos + span.Start, End: pos + span.End},
				Mark:  span.Mark,
			})
		}
		s.mapSelection(sm)
		s.clearStored()

	case edit.OpAddMark:
		s.spans = addMarkSpan(s.spans, step.Range, step.Mark)

	case edit.OpRemoveMark:
		s.spans = subtractRange(s.spans, step.Range, step.Mark.Type)

	case edit.OpAddStoredMark:
		s.ensureStored()
		s.stored = mark.With(s.stored, step.Mark)

	case edit.OpRemoveStoredMark:
		s.ensureStored()
		s.stored = mark.Without(s.stored, step.Mark.Type)
	}
}

func (s *State) mapSelection(sm edit.StepMap) {
	s.sel = Selection{
		Anchor: sm.Map(s.sel.Anchor, 1),
		Head:   sm.Map(s.sel.Head, 1),
	}
}

func (s *State) clearStored() {
	s.stored = nil
	s.storedSet = false
}

func (s *State) ensureStored() {
	if s.storedSet {
		return
	}
	s.stored = s.MarksAt(s.sel.Head)
	s.storedSet = true
}
