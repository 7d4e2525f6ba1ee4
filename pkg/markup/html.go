package markup

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yaklabco/gomdmark/pkg/edit"
	"github.com/yaklabco/gomdmark/pkg/mark"
)

// ErrUnknownMark is returned when rendering a mark that is not registered.
var ErrUnknownMark = errors.New("unknown mark")

//nolint:gochecknoglobals // lookup tables
var (
	blockElements = map[atom.Atom]bool{
		atom.P: true, atom.Div: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
		atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
		atom.Blockquote: true, atom.Pre: true, atom.Section: true, atom.Article: true,
		atom.Header: true, atom.Footer: true, atom.Table: true, atom.Tr: true,
	}
	skippedElements = map[atom.Atom]bool{
		atom.Script: true, atom.Style: true, atom.Head: true, atom.Title: true, atom.Template: true,
	}
)

// ParseHTML parses an HTML fragment into marked text. Block elements and
// <br> become block boundaries; every element is offered to the registered
// parse rules and the marks they produce cover the element's text.
func ParseHTML(reg *mark.Registry, src string) (edit.Slice, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return edit.Slice{}, fmt.Errorf("parse html: %w", err)
	}

	r := &htmlReader{reg: reg}
	for _, n := range nodes {
		r.walk(n, nil)
	}
	return edit.Slice{Text: r.sb.String(), Spans: edit.NormalizeSpans(r.spans)}, nil
}

type htmlReader struct {
	reg          *mark.Registry
	sb           strings.Builder
	spans        []edit.Span
	pendingBreak bool
}

func (r *htmlReader) walk(n *html.Node, marks []mark.Mark) {
	switch n.Type {
	case html.TextNode:
		r.text(n.Data, marks)
		return
	case html.ElementNode:
		if skippedElements[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Br {
			r.sb.WriteByte('\n')
			r.pendingBreak = false
			return
		}
	case html.DocumentNode:
	default:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		r.breakBlock()
	}
	if n.Type == html.ElementNode {
		for _, m := range ParseElement(r.reg, ElementFromNode(n)) {
			marks = mark.With(marks, m)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c, marks)
	}
	if block {
		r.breakBlock()
	}
}

func (r *htmlReader) breakBlock() {
	if r.sb.Len() > 0 {
		r.pendingBreak = true
	}
}

func (r *htmlReader) text(s string, marks []mark.Mark) {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	if s == "" {
		return
	}
	if strings.TrimSpace(s) == "" && (r.sb.Len() == 0 || r.pendingBreak) {
		return
	}
	if r.pendingBreak {
		r.sb.WriteByte('\n')
		r.pendingBreak = false
	}

	start := r.sb.Len()
	r.sb.WriteString(s)
	for _, m := range marks {
		r.spans = append(r.spans, edit.Span{Range: edit.Range{Start: start, End: r.sb.Len()}, Mark: m})
	}
}

// RenderHTML renders marked text as one <p> per block. Marks nest in
// registration order, and an open element is reused across adjacent runs that
// share it.
func RenderHTML(reg *mark.Registry, content edit.Slice) (string, error) {
	order := make(map[string]int, reg.Len())
	for i, name := range reg.Names() {
		order[name] = i
	}
	for _, s := range content.Spans {
		if _, ok := order[s.Mark.Type]; !ok {
			return "", fmt.Errorf("render html: %w: %q", ErrUnknownMark, s.Mark.Type)
		}
	}

	var sb strings.Builder
	blockStart := 0
	for _, block := range strings.Split(content.Text, "\n") {
		p := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
		blockEnd := blockStart + len(block)
		renderInline(reg, p, content, blockStart, blockEnd, order)
		if err := html.Render(&sb, p); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
		blockStart = blockEnd + 1
	}
	return sb.String(), nil
}

type openMark struct {
	mark mark.Mark
	node *html.Node
}

func renderInline(reg *mark.Registry, parent *html.Node, content edit.Slice, from, to int, order map[string]int) {
	bounds := []int{from, to}
	for _, s := range content.Spans {
		if s.Start > from && s.Start < to {
			bounds = append(bounds, s.Start)
		}
		if s.End > from && s.End < to {
			bounds = append(bounds, s.End)
		}
	}
	slices.Sort(bounds)
	bounds = slices.Compact(bounds)

	var stack []openMark
	for i := 0; i+1 < len(bounds); i++ {
		a, b := bounds[i], bounds[i+1]

		var marks []mark.Mark
		for _, s := range content.Spans {
			if s.Start <= a && s.End >= b {
				marks = append(marks, s.Mark)
			}
		}
		slices.SortStableFunc(marks, func(x, y mark.Mark) int {
			return cmp.Compare(order[x.Type], order[y.Type])
		})

		keep := 0
		for keep < len(stack) && keep < len(marks) && stack[keep].mark.Eq(marks[keep]) {
			keep++
		}
		stack = stack[:keep]

		for _, m := range marks[keep:] {
			typ, _ := reg.Get(m.Type)
			node := elementNode(typ.Render(m.Attrs))
			top(parent, stack).AppendChild(node)
			stack = append(stack, openMark{mark: m, node: node})
		}

		top(parent, stack).AppendChild(&html.Node{Type: html.TextNode, Data: content.Text[a:b]})
	}
}

func top(parent *html.Node, stack []openMark) *html.Node {
	if len(stack) == 0 {
		return parent
	}
	return stack[len(stack)-1].node
}

func elementNode(el mark.Element) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     el.Tag,
		DataAtom: atom.Lookup([]byte(el.Tag)),
	}
	for _, key := range slices.Sorted(maps.Keys(el.Attrs)) {
		value := el.Attrs[key]
		if value == nil {
			continue
		}
		n.Attr = append(n.Attr, html.Attribute{Key: key, Val: mark.Stringify(value)})
	}
	return n
}
