// Package markdown imports Markdown into marked text with goldmark and
// exports marked text back to Markdown delimiters.
package markdown

import (
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/gomdmark/pkg/edit"
	"github.com/yaklabco/gomdmark/pkg/mark"
)

// Flavor identifies the Markdown flavor supported by the codec.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Codec converts between Markdown and marked text for the marks in a
// registry that declare Markdown syntax.
type Codec struct {
	flavor string
	reg    *mark.Registry
	md     goldmark.Markdown
}

// New creates a codec for the given flavor. Invalid flavors default to
// "commonmark".
func New(reg *mark.Registry, flavor string) *Codec {
	f := FlavorOrDefault(flavor)
	return &Codec{
		flavor: f,
		reg:    reg,
		md:     newGoldmarkInstance(f),
	}
}

// Flavor returns the configured Markdown flavor.
func (c *Codec) Flavor() string {
	return c.flavor
}

// FlavorOrDefault returns the flavor if valid, otherwise CommonMark.
func FlavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

// IsValidFlavor reports whether flavor names a supported flavor.
func IsValidFlavor(flavor string) bool {
	return flavor == FlavorCommonMark || flavor == FlavorGFM
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option

	switch flavor {
	case FlavorGFM:
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	case FlavorCommonMark:
	}

	return goldmark.New(opts...)
}

// Import parses src and returns its text with one block per paragraph,
// heading or code block. Emphasis becomes the mark whose Markdown syntax
// declares that emphasis level; other inline syntax keeps only its text.
func (c *Codec) Import(ctx context.Context, src []byte) (edit.Slice, error) {
	if err := ctx.Err(); err != nil {
		return edit.Slice{}, fmt.Errorf("import cancelled: %w", err)
	}

	root := c.md.Parser().Parse(text.NewReader(src), parser.WithContext(parser.NewContext()))

	b := &importer{src: src, levels: c.emphasisMarks()}
	if err := b.block(root); err != nil {
		return edit.Slice{}, err
	}
	return edit.Slice{Text: b.sb.String(), Spans: edit.NormalizeSpans(b.spans)}, nil
}

// emphasisMarks maps emphasis levels to the first registered mark importing
// them.
func (c *Codec) emphasisMarks() map[int]mark.Mark {
	levels := make(map[int]mark.Mark)
	for _, typ := range c.reg.Types() {
		level := typ.Markdown().EmphasisLevel
		if level == 0 {
			continue
		}
		if _, taken := levels[level]; !taken {
			levels[level] = typ.Default()
		}
	}
	return levels
}

type importer struct {
	src    []byte
	levels map[int]mark.Mark
	sb     strings.Builder
	spans  []edit.Span
	blocks int
}

func (b *importer) startBlock() {
	if b.blocks > 0 {
		b.sb.WriteByte('\n')
	}
	b.blocks++
}

func (b *importer) block(n ast.Node) error {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
		b.startBlock()
		return b.inlines(node, nil)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := node.Lines()
		for i := range lines.Len() {
			b.startBlock()
			seg := lines.At(i)
			b.sb.WriteString(strings.TrimRight(string(seg.Value(b.src)), "\r\n"))
		}
		return nil
	case *ast.ThematicBreak, *ast.HTMLBlock:
		return nil
	}

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if err := b.block(child); err != nil {
			return err
		}
	}
	return nil
}

func (b *importer) inlines(n ast.Node, marks []mark.Mark) error {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			b.write(string(util.UnescapePunctuations(node.Segment.Value(b.src))), marks)
			switch {
			case node.HardLineBreak():
				b.startBlock()
			case node.SoftLineBreak():
				b.write(" ", marks)
			}
		case *ast.String:
			b.write(string(node.Value), marks)
		case *ast.CodeSpan:
			b.codeSpan(node, marks)
		case *ast.AutoLink:
			b.write(string(node.URL(b.src)), marks)
		case *ast.RawHTML:
			// Inline HTML carries no text of its own.
		case *ast.Emphasis:
			inner := marks
			if m, ok := b.levels[node.Level]; ok {
				inner = mark.With(marks, m)
			}
			if err := b.inlines(node, inner); err != nil {
				return err
			}
		default:
			if err := b.inlines(node, marks); err != nil {
				return err
			}
		}
	}
	return nil
}

// codeSpan writes code span text verbatim; backslashes are literal in code.
func (b *importer) codeSpan(n *ast.CodeSpan, marks []mark.Mark) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			b.write(string(t.Segment.Value(b.src)), marks)
		}
	}
}

func (b *importer) write(s string, marks []mark.Mark) {
	if s == "" {
		return
	}
	start := b.sb.Len()
	b.sb.WriteString(s)
	for _, m := range marks {
		b.spans = append(b.spans, edit.Span{Range: edit.Range{Start: start, End: b.sb.Len()}, Mark: m})
	}
}
