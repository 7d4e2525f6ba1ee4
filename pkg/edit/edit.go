// Package edit provides the atomic edit type that rules and commands propose
// to the host document, together with a builder that tracks how positions
// move while steps are added.
package edit

import (
	"fmt"

	"github.com/yaklabco/gomdmark/pkg/mark"
)

// Range is a half-open [Start, End) byte range into the document text.
type Range struct {
	// Start is the byte index where the range begins (inclusive).
	Start int

	// End is the byte index where the range ends (exclusive).
	End int
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start >= r.End
}

// Contains returns true if offset is within the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps returns true if both ranges share at least one byte.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// String returns the range as "[start,end)".
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Span is a mark attached to a range.
type Span struct {
	Range
	Mark mark.Mark
}

// Slice is a piece of marked text. Span offsets are relative to Text.
type Slice struct {
	Text  string
	Spans []Span
}

// Plain creates a slice without marks.
func Plain(text string) Slice {
	return Slice{Text: text}
}

// Marked creates a slice whose whole text carries marks.
func Marked(text string, marks ...mark.Mark) Slice {
	s := Slice{Text: text}
	if text == "" {
		return s
	}
	for _, m := range marks {
		s.Spans = append(s.Spans, Span{Range: Range{Start: 0, End: len(text)}, Mark: m})
	}
	return s
}

// Len returns the length of the slice text in bytes.
func (s Slice) Len() int {
	return len(s.Text)
}

// OpKind identifies the operation a step performs.
type OpKind uint8

const (
	// OpDeleteText removes the text in Range.
	OpDeleteText OpKind = iota

	// OpInsertText inserts Content at Range.Start.
	OpInsertText

	// OpAddMark attaches Mark over Range.
	OpAddMark

	// OpRemoveMark detaches every mark named Mark.Type over Range.
	OpRemoveMark

	// OpAddStoredMark adds Mark to the pending marks for the next insertion.
	OpAddStoredMark

	// OpRemoveStoredMark removes marks named Mark.Type from the pending marks.
	OpRemoveStoredMark
)

// String returns the operation name.
func (k OpKind) String() string {
	switch k {
	case OpDeleteText:
		return "delete-text"
	case OpInsertText:
		return "insert-text"
	case OpAddMark:
		return "add-mark"
	case OpRemoveMark:
		return "remove-mark"
	case OpAddStoredMark:
		return "add-stored-mark"
	case OpRemoveStoredMark:
		return "remove-stored-mark"
	default:
		return "unknown"
	}
}

// ChangesText reports whether the operation alters the document text.
func (k OpKind) ChangesText() bool {
	return k == OpDeleteText || k == OpInsertText
}

// Step is one buffer operation. Its positions are expressed in the document
// produced by all preceding steps of the same edit.
type Step struct {
	Op      OpKind
	Range   Range
	Content Slice
	Mark    mark.Mark
}

// String returns a compact description of the step.
func (s Step) String() string {
	switch s.Op {
	case OpInsertText:
		return fmt.Sprintf("%s@%d %q", s.Op, s.Range.Start, s.Content.Text)
	case OpDeleteText:
		return fmt.Sprintf("%s%s", s.Op, s.Range)
	case OpAddStoredMark, OpRemoveStoredMark:
		return fmt.Sprintf("%s %s", s.Op, s.Mark)
	default:
		return fmt.Sprintf("%s%s %s", s.Op, s.Range, s.Mark)
	}
}

// Edit is an ordered sequence of steps committed as one undoable unit.
type Edit struct {
	// Label describes what produced the edit (e.g., "input-rule:star-input").
	Label string

	// Steps are applied in order.
	Steps []Step
}

// IsEmpty reports whether the edit has no steps.
func (e *Edit) IsEmpty() bool {
	return e == nil || len(e.Steps) == 0
}

// ChangesText reports whether any step alters the document text.
func (e *Edit) ChangesText() bool {
	if e == nil {
		return false
	}
	for _, s := range e.Steps {
		if s.Op.ChangesText() {
			return true
		}
	}
	return false
}

// ChangesContent reports whether any step alters text or mark spans, as
// opposed to only the stored marks.
func (e *Edit) ChangesContent() bool {
	if e == nil {
		return false
	}
	for _, s := range e.Steps {
		if s.Op != OpAddStoredMark && s.Op != OpRemoveStoredMark {
			return true
		}
	}
	return false
}

// Mapping returns the position mapping of the edit's text steps.
func (e *Edit) Mapping() Mapping {
	var m Mapping
	if e == nil {
		return m
	}
	for _, s := range e.Steps {
		m.appendStep(s)
	}
	return m
}
