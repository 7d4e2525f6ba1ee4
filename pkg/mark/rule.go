package mark

// ElementView is the read-only view of a markup element that parse rules inspect.
type ElementView interface {
	// Tag returns the lower-case element name.
	Tag() string

	// Attr returns the value of an element attribute.
	Attr(name string) (string, bool)

	// Style returns the value of an inline style property.
	Style(property string) (string, bool)
}

// GuardInput is what a guard receives when its selector matched.
type GuardInput struct {
	// Element is the matched element.
	Element ElementView

	// Value is the matched style value for style rules, empty for tag rules.
	Value string
}

// GuardResult is the tagged outcome of a guard: either rejected, or accepted
// with a (possibly empty) attribute map.
type GuardResult struct {
	attrs    Attrs
	accepted bool
}

// Accept returns an accepting result carrying attrs.
func Accept(attrs Attrs) GuardResult {
	return GuardResult{attrs: attrs, accepted: true}
}

// Reject returns a result that makes evaluation fall through to the next rule.
func Reject() GuardResult {
	return GuardResult{}
}

// Accepted returns the extracted attributes and whether the guard accepted.
func (r GuardResult) Accepted() (Attrs, bool) {
	return r.attrs, r.accepted
}

// Guard inspects a selector match and may veto it.
type Guard func(in GuardInput) GuardResult

// ParseRule matches an external markup fragment. Exactly one of Tag and Style
// must be set.
type ParseRule struct {
	// Tag matches elements by name (e.g., "strong").
	Tag string

	// Style matches elements carrying an inline style property (e.g., "font-weight").
	Style string

	// Guard optionally vetoes the match or extracts attributes.
	Guard Guard
}

// Selector returns a human-readable form of the rule's selector.
func (r ParseRule) Selector() string {
	if r.Tag != "" {
		return "tag " + r.Tag
	}
	return "style " + r.Style
}

// Evaluate runs the guard for a selector match. A rule without a guard accepts
// with empty attributes.
func (r ParseRule) Evaluate(in GuardInput) GuardResult {
	if r.Guard == nil {
		return Accept(nil)
	}
	return r.Guard(in)
}

// Element describes the markup produced for a mark: a tag name, an attribute
// map, and whether the marked content is placed inside it.
type Element struct {
	Tag   string
	Attrs Attrs
	Hole  bool
}

// RenderRule produces markup for a mark's attributes. It must be deterministic
// and free of side effects.
type RenderRule func(attrs Attrs) Element
