package doc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmark/pkg/doc"
	"github.com/yaklabco/gomdmark/pkg/edit"
	"github.com/yaklabco/gomdmark/pkg/mark"
)

var (
	bold   = mark.New("bold", nil)
	italic = mark.New("italic", nil)
)

func span(start, end int, m mark.Mark) edit.Span {
	return edit.Span{Range: edit.Range{Start: start, End: end}, Mark: m}
}

func apply(t *testing.T, s *doc.State, build func(b *edit.Builder)) *doc.State {
	t.Helper()
	b := edit.NewBuilder("test")
	build(b)
	next, err := s.Apply(b.Build())
	require.NoError(t, err)
	return next
}

func TestNewState_NormalizesSpans(t *testing.T) {
	t.Parallel()

	s := doc.NewState(edit.Slice{
		Text: "abcdef",
		Spans: []edit.Span{
			span(3, 5, bold),
			span(0, 2, bold),
			span(2, 3, bold),
			span(1, 1, italic),
		},
	})

	assert.Equal(t, []edit.Span{span(0, 5, bold)}, s.Spans())
	assert.Equal(t, doc.Cursor(6), s.Selection())
}

func TestState_Blocks(t *testing.T) {
	t.Parallel()

	s := doc.NewState(edit.Plain("one\ntwo\n\nthree"))

	assert.Equal(t, 0, s.BlockStart(2))
	assert.Equal(t, 4, s.BlockStart(4))
	assert.Equal(t, 4, s.BlockStart(7))
	assert.Equal(t, 7, s.BlockEnd(5))
	assert.Equal(t, 9, s.BlockStart(9))
	assert.Equal(t, 14, s.BlockEnd(10))
	assert.Equal(t, "two", s.TextBetween(4, 7))
	assert.Empty(t, s.TextBetween(7, 4))
}

func TestState_MarksAt(t *testing.T) {
	t.Parallel()

	s := doc.NewState(edit.Slice{
		Text:  "ab\ncd",
		Spans: []edit.Span{span(0, 2, bold), span(3, 4, italic)},
	})

	assert.Equal(t, []mark.Mark{bold}, s.MarksAt(2), "end of bold inherits bold")
	assert.Equal(t, []mark.Mark{italic}, s.MarksAt(3), "block start uses following character")
	assert.Empty(t, s.MarksAt(5))
	assert.Equal(t, []mark.Mark{bold}, s.MarksOver(1))
}

func TestState_RangeFullyHasMark(t *testing.T) {
	t.Parallel()

	s := doc.NewState(edit.Slice{
		Text:  "ab\ncd",
		Spans: []edit.Span{span(0, 2, bold), span(3, 5, bold), span(0, 1, italic)},
	})

	assert.True(t, s.RangeFullyHasMark(0, 5, "bold"), "separator is ignored")
	assert.False(t, s.RangeFullyHasMark(0, 2, "italic"))
	assert.True(t, s.RangeHasMark(0, 2, "italic"))
	assert.False(t, s.RangeFullyHasMark(1, 1, "bold"))
	assert.False(t, s.RangeFullyHasMark(2, 3, "bold"), "unmarked separator")
	assert.False(t, doc.NewState(edit.Plain("ab\ncd")).RangeFullyHasMark(2, 3, "bold"))
	assert.Equal(t, []edit.Range{{Start: 1, End: 2}}, s.MarkRanges("bold", 1, 3))
}

func TestState_Apply_DeleteMapsSpans(t *testing.T) {
	t.Parallel()

	s := doc.NewState(edit.Slice{
		Text:  "a **bold** b",
		Spans: []edit.Span{span(4, 8, italic)},
	})
	next := apply(t, s, func(b *edit.Builder) {
		b.Delete(8, 10)
		b.Delete(2, 4)
		b.AddMark(2, 6, bold)
	})

	assert.Equal(t, "a bold b", next.Text())
	assert.Equal(t, []edit.Span{span(2, 6, bold), span(2, 6, italic)}, next.Spans())
	assert.Equal(t, "a **bold** b", s.Text(), "receiver is unchanged")
}

func TestState_Apply_InsertCarriesContentMarks(t *testing.T) {
	t.Parallel()

	s := doc.NewState(edit.Slice{Text: "abcd", Spans: []edit.Span{span(0, 4, bold)}})

	next := apply(t, s, func(b *edit.Builder) {
		b.InsertText(2, "XY")
	})
	assert.Equal(t, "abXYcd", next.Text())
	assert.Equal(t, []edit.Span{span(0, 2, bold), span(4, 6, bold)}, next.Spans(),
		"plain insertion splits the mark")

	next = apply(t, s, func(b *edit.Builder) {
		b.InsertText(4, "!", bold)
	})
	assert.Equal(t, []edit.Span{span(0, 5, bold)}, next.Spans())

	next = apply(t, s, func(b *edit.Builder) {
		b.InsertText(0, ">")
	})
	assert.Equal(t, []edit.Span{span(1, 5, bold)}, next.Spans())
}

func TestState_Apply_MarkSetSemantics(t *testing.T) {
	t.Parallel()

	red := mark.New("color", mark.Attrs{"value": "red"})
	blue := mark.New("color", mark.Attrs{"value": "blue"})

	s := doc.NewState(edit.Slice{Text: "abcdef", Spans: []edit.Span{span(0, 4, red)}})
	next := apply(t, s, func(b *edit.Builder) {
		b.AddMark(2, 6, blue)
	})
	assert.Equal(t, []edit.Span{span(0, 2, red), span(2, 6, blue)}, next.Spans())

	next = apply(t, next, func(b *edit.Builder) {
		b.RemoveMark(1, 3, "color")
	})
	assert.Equal(t, []edit.Span{span(0, 1, red), span(3, 6, blue)}, next.Spans())
}

func TestState_Apply_SelectionAndStoredMarks(t *testing.T) {
	t.Parallel()

	s := doc.NewState(edit.Slice{Text: "ab", Spans: []edit.Span{span(0, 2, bold)}})

	next := apply(t, s, func(b *edit.Builder) {
		b.RemoveStoredMark("bold")
	})
	stored, set := next.StoredMarks()
	assert.True(t, set)
	assert.Empty(t, stored)

	next = apply(t, next, func(b *edit.Builder) {
		b.AddStoredMark(italic)
	})
	stored, _ = next.StoredMarks()
	assert.Equal(t, []mark.Mark{italic}, stored)

	next = apply(t, next, func(b *edit.Builder) {
		b.InsertText(2, "c")
	})
	_, set = next.StoredMarks()
	assert.False(t, set, "text changes clear stored marks")
	assert.Equal(t, doc.Cursor(3), next.Selection())
}

func TestState_Apply_InvalidIsAtomic(t *testing.T) {
	t.Parallel()

	s := doc.NewState(edit.Plain("abc"))
	b := edit.NewBuilder("bad")
	b.Delete(0, 1)
	b.Delete(0, 5)

	next, err := s.Apply(b.Build())
	require.Error(t, err)
	assert.Nil(t, next)
	assert.Equal(t, "abc", s.Text())
}

func TestState_SliceAndEqual(t *testing.T) {
	t.Parallel()

	s := doc.NewState(edit.Slice{Text: "hello world", Spans: []edit.Span{span(6, 11, bold)}})

	sl := s.Slice(4, 8)
	assert.Equal(t, "o wo", sl.Text)
	assert.Equal(t, []edit.Span{span(2, 4, bold)}, sl.Spans)
	assert.Empty(t, s.Slice(5, 5).Text)

	other := doc.NewState(s.Content())
	assert.True(t, s.Equal(other))
	assert.False(t, s.Equal(other.WithSelection(doc.Cursor(0))))
	assert.Equal(t, doc.Select(11, 0), s.WithSelection(doc.Select(40, -2)).Selection())
}
