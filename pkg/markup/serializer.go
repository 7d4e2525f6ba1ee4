// Package markup maps marks to and from their markup form: per-mark parse
// and render through the registered rules, and an HTML fragment codec built
// on golang.org/x/net/html.
package markup

import (
	"strings"

	"github.com/yaklabco/gomdmark/pkg/mark"
)

// Serializer applies one mark type's parse rules and render rule.
type Serializer struct {
	typ *mark.Type
}

// NewSerializer creates a serializer for typ.
func NewSerializer(typ *mark.Type) *Serializer {
	return &Serializer{typ: typ}
}

// Parse evaluates the parse rules in order and returns the mark built by the
// first rule whose selector matches el and whose guard accepts. A rejecting
// guard, or attributes the schema refuses, fall through to the next rule.
func (s *Serializer) Parse(el mark.ElementView) (mark.Mark, bool) {
	if el == nil {
		return mark.Mark{}, false
	}

	for _, rule := range s.typ.ParseRules() {
		in, ok := selectorMatch(rule, el)
		if !ok {
			continue
		}
		attrs, accepted := rule.Evaluate(in).Accepted()
		if !accepted {
			continue
		}
		m, err := s.typ.Create(attrs)
		if err != nil {
			continue
		}
		return m, true
	}
	return mark.Mark{}, false
}

// Render delegates to the render rule. Attributes pass through unmodified.
func (s *Serializer) Render(m mark.Mark) mark.Element {
	return s.typ.Render(m.Attrs)
}

func selectorMatch(rule mark.ParseRule, el mark.ElementView) (mark.GuardInput, bool) {
	switch {
	case rule.Tag != "":
		if strings.EqualFold(el.Tag(), rule.Tag) {
			return mark.GuardInput{Element: el}, true
		}
	case rule.Style != "":
		if value, ok := el.Style(rule.Style); ok {
			return mark.GuardInput{Element: el, Value: value}, true
		}
	}
	return mark.GuardInput{}, false
}

// ParseElement returns the marks every registered type recognises on el, in
// registration order.
func ParseElement(reg *mark.Registry, el mark.ElementView) []mark.Mark {
	var marks []mark.Mark
	for _, typ := range reg.Types() {
		if m, ok := NewSerializer(typ).Parse(el); ok {
			marks = mark.With(marks, m)
		}
	}
	return marks
}
