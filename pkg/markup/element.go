package markup

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/yaklabco/gomdmark/pkg/mark"
)

// nodeElement adapts an *html.Node to mark.ElementView.
type nodeElement struct {
	node   *html.Node
	styles map[string]string
}

// ElementFromNode returns a view of an element node. The inline style
// attribute is parsed once.
func ElementFromNode(n *html.Node) mark.ElementView {
	el := &nodeElement{node: n}
	if style, ok := el.Attr("style"); ok {
		el.styles = ParseStyle(style)
	}
	return el
}

func (e *nodeElement) Tag() string {
	return strings.ToLower(e.node.Data)
}

func (e *nodeElement) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func (e *nodeElement) Style(property string) (string, bool) {
	v, ok := e.styles[strings.ToLower(property)]
	return v, ok
}

const important = "!important"

// ParseStyle parses an inline style declaration list. Property names are
// lower-cased, values trimmed and stripped of "!important". When a property
// is declared twice the last declaration wins.
func ParseStyle(style string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		value = strings.TrimSpace(value)
		if n := len(value) - len(important); n >= 0 && strings.EqualFold(value[n:], important) {
			value = strings.TrimSpace(value[:n])
		}
		out[prop] = value
	}
	return out
}
