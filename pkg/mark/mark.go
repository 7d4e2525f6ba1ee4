// Package mark defines mark types, their attribute schema, and the registration
// table that maps mark names to parse rules, render rules and delimiter patterns.
package mark

import (
	"maps"
	"reflect"
	"slices"
	"strings"
)

// Attrs holds the attribute values of a mark instance.
type Attrs map[string]any

// Clone returns a shallow copy of the attributes. A nil map clones to nil.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	return maps.Clone(a)
}

// Equal reports whether both attribute maps hold the same values.
// A nil map and an empty map are equal.
func (a Attrs) Equal(other Attrs) bool {
	if len(a) == 0 && len(other) == 0 {
		return true
	}
	return reflect.DeepEqual(map[string]any(a), map[string]any(other))
}

// Mark is a named, attributed annotation applied over a contiguous text range.
type Mark struct {
	// Type is the registered mark name (e.g., "bold").
	Type string

	// Attrs holds the attribute values; empty for marks without attributes.
	Attrs Attrs
}

// New creates a mark instance without consulting a registry.
func New(name string, attrs Attrs) Mark {
	return Mark{Type: name, Attrs: attrs}
}

// Eq reports whether two marks have the same type and attributes.
func (m Mark) Eq(other Mark) bool {
	return m.Type == other.Type && m.Attrs.Equal(other.Attrs)
}

// String returns a compact description such as "bold" or "link{href=/x}".
func (m Mark) String() string {
	if len(m.Attrs) == 0 {
		return m.Type
	}
	keys := slices.Sorted(maps.Keys(m.Attrs))
	var sb strings.Builder
	sb.WriteString(m.Type)
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(stringify(m.Attrs[k]))
	}
	sb.WriteByte('}')
	return sb.String()
}

// Contains reports whether marks holds a mark named name.
func Contains(marks []Mark, name string) bool {
	return slices.ContainsFunc(marks, func(m Mark) bool { return m.Type == name })
}

// Without returns marks with every mark named name removed.
func Without(marks []Mark, name string) []Mark {
	out := make([]Mark, 0, len(marks))
	for _, m := range marks {
		if m.Type != name {
			out = append(out, m)
		}
	}
	return out
}

// With returns marks with m added, replacing any mark of the same type.
func With(marks []Mark, m Mark) []Mark {
	out := Without(marks, m.Type)
	return append(out, m)
}

// SameSet reports whether a and b hold the same marks regardless of order.
func SameSet(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for _, m := range a {
		if !slices.ContainsFunc(b, m.Eq) {
			return false
		}
	}
	return true
}
