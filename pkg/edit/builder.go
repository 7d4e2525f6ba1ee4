package edit

import "github.com/yaklabco/gomdmark/pkg/mark"

// Builder accumulates steps for one edit and keeps the mapping from positions
// in the original document to positions after the steps added so far.
type Builder struct {
	label   string
	steps   []Step
	mapping Mapping
}

// NewBuilder creates a Builder for an edit with the given label.
func NewBuilder(label string) *Builder {
	return &Builder{
		label: label,
		steps: make([]Step, 0),
	}
}

func (b *Builder) add(s Step) {
	b.steps = append(b.steps, s)
	b.mapping.appendStep(s)
}

// Delete adds a step that deletes bytes [from, to). Empty ranges are ignored.
func (b *Builder) Delete(from, to int) {
	if to <= from {
		return
	}
	b.add(Step{Op: OpDeleteText, Range: Range{Start: from, End: to}})
}

// Insert adds a step that inserts content at pos. Empty content is ignored.
func (b *Builder) Insert(pos int, content Slice) {
	if content.Len() == 0 {
		return
	}
	b.add(Step{Op: OpInsertText, Range: Range{Start: pos, End: pos}, Content: content})
}

// InsertText adds a step that inserts text carrying marks at pos.
func (b *Builder) InsertText(pos int, text string, marks ...mark.Mark) {
	b.Insert(pos, Marked(text, marks...))
}

// Replace replaces bytes [from, to) with content.
func (b *Builder) Replace(from, to int, content Slice) {
	b.Delete(from, to)
	b.Insert(from, content)
}

// AddMark adds a step that attaches m over [from, to).
func (b *Builder) AddMark(from, to int, m mark.Mark) {
	b.add(Step{Op: OpAddMark, Range: Range{Start: from, End: to}, Mark: m})
}

// RemoveMark adds a step that detaches marks named name over [from, to).
func (b *Builder) RemoveMark(from, to int, name string) {
	b.add(Step{Op: OpRemoveMark, Range: Range{Start: from, End: to}, Mark: mark.Mark{Type: name}})
}

// AddStoredMark adds m to the marks applied to the next insertion.
func (b *Builder) AddStoredMark(m mark.Mark) {
	b.add(Step{Op: OpAddStoredMark, Mark: m})
}

// RemoveStoredMark removes marks named name from the marks applied to the
// next insertion.
func (b *Builder) RemoveStoredMark(name string) {
	b.add(Step{Op: OpRemoveStoredMark, Mark: mark.Mark{Type: name}})
}

// Map maps a position of the original document through the steps added so far.
func (b *Builder) Map(pos int) int {
	return b.mapping.Map(pos)
}

// MapAssoc is Map with an explicit association at insertion points.
func (b *Builder) MapAssoc(pos, assoc int) int {
	return b.mapping.MapAssoc(pos, assoc)
}

// MappingSince returns the mapping of the steps added after the first n steps.
// It maps positions expressed in the document as it was after step n.
func (b *Builder) MappingSince(n int) Mapping {
	var m Mapping
	for _, s := range b.steps[min(max(n, 0), len(b.steps)):] {
		m.appendStep(s)
	}
	return m
}

// Len returns the number of steps added.
func (b *Builder) Len() int {
	return len(b.steps)
}

// Build returns the edit. The builder can keep being used afterwards.
func (b *Builder) Build() *Edit {
	steps := make([]Step, len(b.steps))
	copy(steps, b.steps)
	return &Edit{Label: b.label, Steps: steps}
}
