package markdown_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmark/pkg/edit"
	"github.com/yaklabco/gomdmark/pkg/extension/bold"
	"github.com/yaklabco/gomdmark/pkg/mark"
	"github.com/yaklabco/gomdmark/pkg/markdown"
)

var (
	boldMark   = mark.New(bold.Name, nil)
	italicMark = mark.New("italic", nil)
)

func span(start, end int, m mark.Mark) edit.Span {
	return edit.Span{Range: edit.Range{Start: start, End: end}, Mark: m}
}

func registry(t *testing.T, withItalic bool) *mark.Registry {
	t.Helper()
	reg := mark.NewRegistry()
	_, err := reg.Register(bold.MarkSpec(bold.Options{}))
	require.NoError(t, err)
	if withItalic {
		_, err = reg.Register(mark.Spec{
			Name:     "italic",
			Render:   func(mark.Attrs) mark.Element { return mark.Element{Tag: "em", Hole: true} },
			Markdown: mark.MarkdownSyntax{Delimiter: "*", EmphasisLevel: 1},
		})
		require.NoError(t, err)
	}
	return reg
}

func TestImport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		flavor    string
		src       string
		wantText  string
		wantSpans []edit.Span
	}{
		{
			name:      "strong emphasis",
			src:       "hello **world** and __more__",
			wantText:  "hello world and more",
			wantSpans: []edit.Span{span(6, 11, boldMark), span(16, 20, boldMark)},
		},
		{
			name:     "single emphasis without a mark",
			src:      "*soft*",
			wantText: "soft",
		},
		{
			name:      "blocks",
			src:       "# Title\n\npara **b**\n\n- x\n- y\n",
			wantText:  "Title\npara b\nx\ny",
			wantSpans: []edit.Span{span(11, 12, boldMark)},
		},
		{
			name:     "soft and hard breaks",
			src:      "a\nb  \nc",
			wantText: "a b\nc",
		},
		{
			name:     "escapes",
			src:      `2\*3 and ` + "`a\\*b`",
			wantText: `2*3 and a\*b`,
		},
		{
			name:      "commonmark keeps tildes",
			flavor:    markdown.FlavorCommonMark,
			src:       "~~x~~ **y**",
			wantText:  "~~x~~ y",
			wantSpans: []edit.Span{span(6, 7, boldMark)},
		},
		{
			name:      "gfm strikethrough keeps its text",
			flavor:    markdown.FlavorGFM,
			src:       "~~x~~ **y**",
			wantText:  "x y",
			wantSpans: []edit.Span{span(2, 3, boldMark)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			codec := markdown.New(registry(t, false), tt.flavor)
			content, err := codec.Import(context.Background(), []byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, content.Text)
			if len(tt.wantSpans) == 0 {
				assert.Empty(t, content.Spans)
				return
			}
			assert.Equal(t, tt.wantSpans, content.Spans)
		})
	}
}

func TestImport_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := markdown.New(registry(t, false), "").Import(ctx, []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestExport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content edit.Slice
		want    string
	}{
		{
			name:    "marked word",
			content: edit.Slice{Text: "hello world", Spans: []edit.Span{span(6, 11, boldMark)}},
			want:    "hello **world**",
		},
		{
			name:    "whitespace moves outside",
			content: edit.Slice{Text: "a b c", Spans: []edit.Span{span(0, 2, boldMark)}},
			want:    "**a** b c",
		},
		{
			name:    "escapes",
			content: edit.Plain("2*3_4"),
			want:    `2\*3\_4`,
		},
		{
			name:    "block start",
			content: edit.Plain("# not a heading"),
			want:    `\# not a heading`,
		},
		{
			name:    "ordered list marker",
			content: edit.Plain("1. item\n12) item"),
			want:    "1\\. item\n\n12\\) item",
		},
		{
			name:    "number without marker",
			content: edit.Plain("2024 was a year"),
			want:    "2024 was a year",
		},
		{
			name:    "blocks",
			content: edit.Slice{Text: "a\nb", Spans: []edit.Span{span(0, 3, boldMark)}},
			want:    "**a**\n\n**b**",
		},
		{
			name:    "nested",
			content: edit.Slice{Text: "abc", Spans: []edit.Span{span(0, 3, boldMark), span(1, 2, italicMark)}},
			want:    "**a*b*c**",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := markdown.New(registry(t, true), "").Export(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	_, err := markdown.New(registry(t, false), "").Export(edit.Marked("x", mark.New("underline", nil)))
	require.Error(t, err)
}

func TestExportImport_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := markdown.New(registry(t, true), markdown.FlavorGFM)
	content := edit.Slice{
		Text: "plain **not** bold\nabc and more",
		Spans: []edit.Span{
			span(19, 22, boldMark),
			span(20, 21, italicMark),
			span(27, 31, boldMark),
		},
	}

	out, err := codec.Export(content)
	require.NoError(t, err)

	back, err := codec.Import(context.Background(), []byte(out))
	require.NoError(t, err)
	assert.Equal(t, content.Text, back.Text)
	assert.Equal(t, content.Spans, back.Spans)
}

func TestExportImport_OrderedListText(t *testing.T) {
	t.Parallel()

	codec := markdown.New(registry(t, false), markdown.FlavorGFM)
	content := edit.Plain("1. item")

	out, err := codec.Export(content)
	require.NoError(t, err)
	assert.Equal(t, `1\. item`, out)

	back, err := codec.Import(context.Background(), []byte(out))
	require.NoError(t, err)
	assert.Equal(t, "1. item", back.Text)
}
