package mark

import (
	"fmt"
	"regexp"
)

// PatternKind classifies where a pattern is evaluated.
type PatternKind uint8

const (
	// PatternInput patterns are tested against the text before the cursor after
	// each typed character; a match must end at the cursor.
	PatternInput PatternKind = iota

	// PatternPaste patterns are scanned globally over pasted text.
	PatternPaste
)

// String returns the kind name.
func (k PatternKind) String() string {
	switch k {
	case PatternInput:
		return "input"
	case PatternPaste:
		return "paste"
	default:
		return "unknown"
	}
}

// Pattern recognises delimiter syntax in plain text.
type Pattern struct {
	// Name identifies the pattern in logs and listings (e.g., "star-input").
	Name string

	// Kind is the regime the pattern belongs to.
	Kind PatternKind

	// Expr is the compiled expression.
	Expr *regexp.Regexp

	// SpanGroup is the capture group covering the delimited span that is
	// replaced. Group 0 means the whole match.
	SpanGroup int

	// ContentGroup is the capture group holding the text to keep.
	ContentGroup int
}

// NewPattern compiles expr into a pattern. Paste patterns are compiled in
// multi-line mode so that ^ and $ match at line boundaries. The span group
// defaults to group 1 when the expression has more than one group, and the
// content group defaults to the last group.
func NewPattern(name string, kind PatternKind, expr string) (Pattern, error) {
	source := expr
	if kind == PatternPaste {
		source = "(?m)" + expr
	}

	re, err := regexp.Compile(source)
	if err != nil {
		return Pattern{}, fmt.Errorf("compile pattern %q: %w", name, err)
	}

	groups := re.NumSubexp()
	if groups < 1 {
		return Pattern{}, fmt.Errorf("pattern %q: %w: expression has no capture group", name, ErrInvalidSpec)
	}

	spanGroup := 0
	if groups > 1 {
		spanGroup = 1
	}

	return Pattern{
		Name:         name,
		Kind:         kind,
		Expr:         re,
		SpanGroup:    spanGroup,
		ContentGroup: groups,
	}, nil
}

// MustPattern is like NewPattern but panics on error. It is meant for
// package-level pattern tables built from constant expressions.
func MustPattern(name string, kind PatternKind, expr string) Pattern {
	p, err := NewPattern(name, kind, expr)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) validate(kind PatternKind) error {
	if p.Expr == nil {
		return fmt.Errorf("pattern %q: missing expression", p.Name)
	}
	if p.Kind != kind {
		return fmt.Errorf("pattern %q: %s pattern listed with %s patterns", p.Name, p.Kind, kind)
	}
	groups := p.Expr.NumSubexp()
	if p.ContentGroup < 1 || p.ContentGroup > groups {
		return fmt.Errorf("pattern %q: content group %d out of range", p.Name, p.ContentGroup)
	}
	if p.SpanGroup < 0 || p.SpanGroup > groups {
		return fmt.Errorf("pattern %q: span group %d out of range", p.Name, p.SpanGroup)
	}
	return nil
}
