package edit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmark/pkg/edit"
	"github.com/yaklabco/gomdmark/pkg/mark"
)

func TestBuilder_Steps(t *testing.T) {
	t.Parallel()

	bold := mark.New("bold", nil)
	b := edit.NewBuilder("test")
	b.Replace(2, 4, edit.Plain("xyz"))
	b.Delete(3, 3)
	b.Insert(0, edit.Plain(""))
	b.AddMark(0, 2, bold)
	b.RemoveMark(0, 1, "bold")
	b.AddStoredMark(bold)
	b.RemoveStoredMark("bold")

	e := b.Build()
	assert.Equal(t, "test", e.Label)
	require.Len(t, e.Steps, 6, "empty deletes and inserts are dropped")
	assert.Equal(t, edit.OpDeleteText, e.Steps[0].Op)
	assert.Equal(t, edit.OpInsertText, e.Steps[1].Op)
	assert.Equal(t, "xyz", e.Steps[1].Content.Text)
	assert.Equal(t, edit.OpRemoveMark, e.Steps[3].Op)
	assert.Equal(t, "bold", e.Steps[3].Mark.Type)
	assert.True(t, e.ChangesText())
	assert.False(t, e.IsEmpty())
	assert.Equal(t, 6, b.Len())
}

func TestBuilder_Map(t *testing.T) {
	t.Parallel()

	// "hello **world** text" -> delete closing "**" then opening "**".
	b := edit.NewBuilder("map")
	b.Delete(13, 15)
	b.Delete(6, 8)

	assert.Equal(t, 0, b.Map(0))
	assert.Equal(t, 6, b.Map(8), "start of content moves to the deleted opening")
	assert.Equal(t, 11, b.Map(13))
	assert.Equal(t, 11, b.Map(15))
	assert.Equal(t, 16, b.Map(20))
}

func TestStepMap_Insert(t *testing.T) {
	t.Parallel()

	sm := edit.StepMap{Pos: 4, Inserted: 3}
	assert.Equal(t, 2, sm.Map(2, 1))
	assert.Equal(t, 7, sm.Map(4, 1))
	assert.Equal(t, 4, sm.Map(4, -1))
	assert.Equal(t, 9, sm.Map(6, -1))
}

func TestStepMap_Replace(t *testing.T) {
	t.Parallel()

	sm := edit.StepMap{Pos: 2, Deleted: 4, Inserted: 1}
	assert.Equal(t, 2, sm.Map(2, 1), "start of replaced range sticks left")
	assert.Equal(t, 3, sm.Map(6, -1), "end of replaced range sticks right")
	assert.Equal(t, 2, sm.Map(4, -1))
	assert.Equal(t, 3, sm.Map(4, 1))
	assert.Equal(t, 7, sm.Map(10, 1))
}

func TestEdit_Mapping(t *testing.T) {
	t.Parallel()

	var nilEdit *edit.Edit
	assert.True(t, nilEdit.IsEmpty())
	assert.False(t, nilEdit.ChangesText())
	assert.Equal(t, 5, nilEdit.Mapping().Map(5))

	e := &edit.Edit{Steps: []edit.Step{
		{Op: edit.OpInsertText, Range: edit.Range{Start: 0, End: 0}, Content: edit.Plain("ab")},
		{Op: edit.OpAddMark, Range: edit.Range{Start: 0, End: 2}, Mark: mark.New("bold", nil)},
	}}
	m := e.Mapping()
	assert.Len(t, m.Maps(), 1)
	assert.Equal(t, 2, m.Map(0))
	assert.Equal(t, 0, m.MapAssoc(0, -1))
}

func TestSlice(t *testing.T) {
	t.Parallel()

	s := edit.Marked("ab", mark.New("bold", nil))
	require.Len(t, s.Spans, 1)
	assert.Equal(t, edit.Range{Start: 0, End: 2}, s.Spans[0].Range)
	assert.Empty(t, edit.Marked("", mark.New("bold", nil)).Spans)
	assert.Equal(t, 3, edit.Plain("abc").Len())
}

func TestRange(t *testing.T) {
	t.Parallel()

	r := edit.Range{Start: 2, End: 5}
	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Contains(4))
	assert.False(t, r.Contains(5))
	assert.True(t, r.Overlaps(edit.Range{Start: 4, End: 9}))
	assert.False(t, r.Overlaps(edit.Range{Start: 5, End: 9}))
	assert.True(t, edit.Range{Start: 3, End: 3}.IsEmpty())
	assert.Equal(t, "[2,5)", r.String())
}
