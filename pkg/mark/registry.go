package mark

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrInvalidSpec is returned when a mark spec fails validation.
var ErrInvalidSpec = errors.New("invalid mark spec")

// MarkdownSyntax describes how a mark is written in Markdown.
type MarkdownSyntax struct {
	// Delimiter wraps the marked text on export (e.g., "**").
	Delimiter string

	// EmphasisLevel is the Markdown emphasis level imported as this mark
	// (2 for strong emphasis). Zero disables import.
	EmphasisLevel int
}

// Spec is the data a mark type registers with.
type Spec struct {
	// Name is the unique mark name.
	Name string

	// Attrs is the attribute schema.
	Attrs map[string]AttributeSpec

	// ParseRules are evaluated in order; the first accepting rule wins.
	ParseRules []ParseRule

	// Render produces the markup element for a mark instance.
	Render RenderRule

	// InputPatterns are evaluated after each typed character, in order.
	InputPatterns []Pattern

	// PastePatterns are scanned over pasted text, in order.
	PastePatterns []Pattern

	// Markdown is the optional Markdown syntax of the mark.
	Markdown MarkdownSyntax
}

func (s *Spec) validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidSpec)
	}
	if s.Render == nil {
		return fmt.Errorf("%w: mark %q has no render rule", ErrInvalidSpec, s.Name)
	}
	for i, rule := range s.ParseRules {
		if (rule.Tag == "") == (rule.Style == "") {
			return fmt.Errorf("%w: mark %q parse rule %d must set exactly one of tag and style",
				ErrInvalidSpec, s.Name, i)
		}
	}
	for _, p := range s.InputPatterns {
		if err := p.validate(PatternInput); err != nil {
			return fmt.Errorf("%w: mark %q: %w", ErrInvalidSpec, s.Name, err)
		}
	}
	for _, p := range s.PastePatterns {
		if err := p.validate(PatternPaste); err != nil {
			return fmt.Errorf("%w: mark %q: %w", ErrInvalidSpec, s.Name, err)
		}
	}
	return nil
}

// Type is a registered mark type.
type Type struct {
	spec     Spec
	defaults Attrs
}

// Name returns the mark name.
func (t *Type) Name() string {
	return t.spec.Name
}

// Spec returns the spec the type was registered with.
func (t *Type) Spec() Spec {
	return t.spec
}

// ParseRules returns the ordered parse rules.
func (t *Type) ParseRules() []ParseRule {
	return t.spec.ParseRules
}

// InputPatterns returns the ordered input patterns.
func (t *Type) InputPatterns() []Pattern {
	return t.spec.InputPatterns
}

// PastePatterns returns the ordered paste patterns.
func (t *Type) PastePatterns() []Pattern {
	return t.spec.PastePatterns
}

// Markdown returns the Markdown syntax of the mark.
func (t *Type) Markdown() MarkdownSyntax {
	return t.spec.Markdown
}

// Render produces the markup element for attrs.
func (t *Type) Render(attrs Attrs) Element {
	return t.spec.Render(attrs)
}

// Create builds a mark instance, filling defaults from the schema.
func (t *Type) Create(attrs Attrs) (Mark, error) {
	built, err := computeAttrs(t.spec.Name, t.spec.Attrs, attrs)
	if err != nil {
		return Mark{}, err
	}
	return Mark{Type: t.spec.Name, Attrs: built}, nil
}

// Default returns a mark instance carrying only default attribute values.
func (t *Type) Default() Mark {
	return Mark{Type: t.spec.Name, Attrs: t.defaults.Clone()}
}

func newType(spec Spec) *Type {
	var defaults Attrs
	for key, attr := range spec.Attrs {
		if !attr.Required {
			if defaults == nil {
				defaults = Attrs{}
			}
			defaults[key] = attr.Default
		}
	}
	return &Type{spec: spec, defaults: defaults}
}

// Registry is the registration table of mark types, keyed by name.
// Types keep the order in which they were first registered; that order is the
// tie-break between patterns of different marks.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Type
	order  []string
}

// NewRegistry creates an empty mark registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Type),
	}
}

// Register validates spec and adds it to the registry.
// Re-registering a name replaces its spec but keeps its position.
func (r *Registry) Register(spec Spec) (*Type, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	typ := newType(spec)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[spec.Name]; !exists {
		r.order = append(r.order, spec.Name)
	}
	r.byName[spec.Name] = typ
	return typ, nil
}

// Get retrieves a mark type by name.
func (r *Registry) Get(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	typ, ok := r.byName[name]
	return typ, ok
}

// Types returns all registered types in registration order.
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Type, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.byName[name])
	}
	return result
}

// Names returns all registered mark names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
