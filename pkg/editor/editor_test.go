package editor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmark/pkg/commands"
	"github.com/yaklabco/gomdmark/pkg/doc"
	"github.com/yaklabco/gomdmark/pkg/edit"
	"github.com/yaklabco/gomdmark/pkg/editor"
	"github.com/yaklabco/gomdmark/pkg/extension/bold"
	"github.com/yaklabco/gomdmark/pkg/mark"
)

var boldMark = mark.New(bold.Name, nil)

func span(start, end int, m mark.Mark) edit.Span {
	return edit.Span{Range: edit.Range{Start: start, End: end}, Mark: m}
}

func newEditor(t *testing.T, opts ...editor.Option) *editor.Editor {
	t.Helper()
	opts = append([]editor.Option{editor.WithGOOS("linux")}, opts...)
	ed, err := editor.New(opts...)
	require.NoError(t, err)
	return ed
}

func TestEditor_TypeDelimiters(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"**bold**", "__bold__"} {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			ed := newEditor(t)
			require.NoError(t, ed.Type(input))

			assert.Equal(t, "bold", ed.State().Text())
			assert.Equal(t, []edit.Span{span(0, 4, boldMark)}, ed.State().Spans())

			out, err := ed.HTML()
			require.NoError(t, err)
			assert.Equal(t, "<p><strong>bold</strong></p>", out)

			md, err := ed.Markdown()
			require.NoError(t, err)
			assert.Equal(t, "**bold**", md)
		})
	}
}

func TestEditor_TypingContinuesUnmarked(t *testing.T) {
	t.Parallel()

	ed := newEditor(t)
	require.NoError(t, ed.Type("hello **world** again"))

	assert.Equal(t, "hello world again", ed.State().Text())
	assert.Equal(t, []edit.Span{span(6, 11, boldMark)}, ed.State().Spans())
}

func TestEditor_UndoRevertsRuleInOneStep(t *testing.T) {
	t.Parallel()

	ed := newEditor(t)
	require.NoError(t, ed.Type("**b**"))
	require.Equal(t, "b", ed.State().Text())

	require.NoError(t, ed.Undo())
	assert.Equal(t, "**b*", ed.State().Text())
	assert.Empty(t, ed.State().Spans())

	require.NoError(t, ed.Redo())
	assert.Equal(t, "b", ed.State().Text())
	assert.Equal(t, []edit.Span{span(0, 1, boldMark)}, ed.State().Spans())
}

func TestEditor_ListenersSeeOnlyFinalState(t *testing.T) {
	t.Parallel()

	ed := newEditor(t)
	require.NoError(t, ed.Type("**b*"))

	var changes []doc.Change
	ed.Document().OnChange(func(c doc.Change) {
		changes = append(changes, c)
	})

	require.NoError(t, ed.Type("*"))
	require.Len(t, changes, 1)
	assert.Equal(t, "b", changes[0].After.Text())
	assert.Equal(t, "**b*", changes[0].Before.Text())
}

func TestEditor_PasteText(t *testing.T) {
	t.Parallel()

	ed := newEditor(t)
	require.NoError(t, ed.PasteText("hello **world** and **more** text"))

	assert.Equal(t, "hello world and more text", ed.State().Text())
	assert.Equal(t, []edit.Span{span(6, 11, boldMark), span(16, 20, boldMark)}, ed.State().Spans())

	require.NoError(t, ed.Undo())
	assert.Empty(t, ed.State().Text())
}

func TestEditor_PasteWithoutMatch(t *testing.T) {
	t.Parallel()

	ed := newEditor(t, editor.WithContent(edit.Plain("ab")))
	ed.Select(1, 1)
	require.NoError(t, ed.PasteText("--"))
	assert.Equal(t, "a--b", ed.State().Text())
}

func TestEditor_PasteHTMLAndMarkdown(t *testing.T) {
	t.Parallel()

	ed := newEditor(t)
	require.NoError(t, ed.PasteHTML(`<p>a <b>b</b> <b style="font-weight:normal">c</b></p>`))
	assert.Equal(t, "a b c", ed.State().Text())
	assert.Equal(t, []edit.Span{span(2, 3, boldMark)}, ed.State().Spans())

	ed = newEditor(t)
	require.NoError(t, ed.PasteMarkdown(context.Background(), "x **y**"))
	assert.Equal(t, "x y", ed.State().Text())
	assert.Equal(t, []edit.Span{span(2, 3, boldMark)}, ed.State().Spans())
}

func TestEditor_ShortcutTogglesSelection(t *testing.T) {
	t.Parallel()

	ed := newEditor(t, editor.WithContent(edit.Plain("abc")))
	ed.Select(0, 3)

	handled, err := ed.Press("Mod-b")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, []edit.Span{span(0, 3, boldMark)}, ed.State().Spans())

	handled, err = ed.Press("Ctrl-b")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Empty(t, ed.State().Spans())

	handled, err = ed.Press("Ctrl-q")
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestEditor_ShortcutAtCaretMarksNextCharacter(t *testing.T) {
	t.Parallel()

	ed := newEditor(t, editor.WithContent(edit.Plain("a")))

	_, err := ed.Press("Mod-b")
	require.NoError(t, err)
	require.NoError(t, ed.Type("x"))

	assert.Equal(t, "ax", ed.State().Text())
	assert.Equal(t, []edit.Span{span(1, 2, boldMark)}, ed.State().Spans())

	// Marks at the cursor carry over to the next character.
	require.NoError(t, ed.Type("y"))
	assert.Equal(t, []edit.Span{span(1, 3, boldMark)}, ed.State().Spans())
}

func TestEditor_NotEditable(t *testing.T) {
	t.Parallel()

	ed := newEditor(t, editor.WithContent(edit.Plain("abc")))
	ed.SetEditable(false)

	require.ErrorIs(t, ed.Type("x"), commands.ErrNotEditable)
	require.ErrorIs(t, ed.PasteText("x"), commands.ErrNotEditable)
	require.ErrorIs(t, ed.Exec(bold.CommandToggle), commands.ErrNotEditable)
	assert.Equal(t, "abc", ed.State().Text())
}

func TestEditor_Options(t *testing.T) {
	t.Parallel()

	ed := newEditor(t, editor.WithInputRules(false), editor.WithPasteRules(false))
	require.NoError(t, ed.Type("**b**"))
	assert.Equal(t, "**b**", ed.State().Text())

	require.NoError(t, ed.PasteText(" **c**"))
	assert.Equal(t, "**b** **c**", ed.State().Text())
	assert.Empty(t, ed.State().Spans())

	require.ErrorIs(t, ed.Exec("toggleItalic"), commands.ErrUnknownCommand)

	ext, err := bold.Factory(map[string]any{"HTMLAttributes": map[string]any{"class": "x"}})
	require.NoError(t, err)
	ed = newEditor(t, editor.WithExtensions(ext), editor.WithContent(edit.Marked("y", boldMark)))
	out, err := ed.HTML()
	require.NoError(t, err)
	assert.Equal(t, `<p><strong class="x">y</strong></p>`, out)
	assert.Len(t, ed.Extensions(), 1)
}

func TestEditor_EmptyExtensionList(t *testing.T) {
	t.Parallel()

	ed := newEditor(t, editor.WithExtensions())
	assert.Empty(t, ed.Extensions())
	assert.Empty(t, ed.Marks().Types())

	require.NoError(t, ed.Type("x **y**"))
	assert.Equal(t, "x **y**", ed.State().Text())
	assert.Empty(t, ed.State().Spans())

	pressed, err := ed.Press("Ctrl-b")
	require.NoError(t, err)
	assert.False(t, pressed)
}

func TestEditor_NoBreakSpaceBeforeDelimiters(t *testing.T) {
	t.Parallel()

	// U+00A0 is two bytes, so the marked word starts at byte 7.
	ed := newEditor(t)
	require.NoError(t, ed.PasteText("hello\u00a0**world**"))
	assert.Equal(t, "hello\u00a0world", ed.State().Text())
	assert.Equal(t, []edit.Span{span(7, 12, boldMark)}, ed.State().Spans())

	ed = newEditor(t)
	require.NoError(t, ed.Type("hello\u00a0**world**"))
	assert.Equal(t, "hello\u00a0world", ed.State().Text())
	assert.Equal(t, []edit.Span{span(7, 12, boldMark)}, ed.State().Spans())
}
