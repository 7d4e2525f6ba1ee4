// Package bold provides the bold mark extension: the mark itself, how it is
// recognised in markup and Markdown-like delimiters, its commands and its
// keyboard shortcut.
package bold

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/yaklabco/gomdmark/pkg/commands"
	"github.com/yaklabco/gomdmark/pkg/extension"
	"github.com/yaklabco/gomdmark/pkg/mark"
)

// Name is the mark and extension name.
const Name = "bold"

// Pattern names.
const (
	StarInput       = "star-input"
	StarPaste       = "star-paste"
	UnderscoreInput = "underscore-input"
	UnderscorePaste = "underscore-paste"
)

// Space matches the same characters as \s in an ECMAScript pattern: ASCII
// whitespace plus no-break space, the Unicode space separators, the line and
// paragraph separators and the byte order mark.
const Space = `[\s\v\x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`

// Delimiter expressions. Input expressions are anchored at the cursor, paste
// expressions are scanned over every line of the pasted text.
const (
	StarInputExpr       = `(?:^|` + Space + `)((?:\*\*)((?:[^*]+))(?:\*\*))$`
	StarPasteExpr       = `(?:^|` + Space + `)((?:\*\*)((?:[^*]+))(?:\*\*))`
	UnderscoreInputExpr = `(?:^|` + Space + `)((?:__)((?:[^_]+))(?:__))$`
	UnderscorePasteExpr = `(?:^|` + Space + `)((?:__)((?:[^_]+))(?:__))`
)

// Command names.
const (
	CommandAdd    = "addBold"
	CommandToggle = "toggleBold"
	CommandRemove = "removeBold"
)

// Shortcut toggles bold.
const Shortcut = "Mod-b"

// OptionHTMLAttributes is the option key for attributes added to every
// rendered element.
const OptionHTMLAttributes = "HTMLAttributes"

//nolint:gochecknoglobals // compiled once, shared by every bold registration
var (
	fontWeightPattern = regexp.MustCompile(`^(bold(er)?|[5-9]\d{2,})$`)

	// Star patterns come first: when both delimiter styles could match, the
	// star pattern wins.
	inputPatterns = []mark.Pattern{
		mark.MustPattern(StarInput, mark.PatternInput, StarInputExpr),
		mark.MustPattern(UnderscoreInput, mark.PatternInput, UnderscoreInputExpr),
	}
	pastePatterns = []mark.Pattern{
		mark.MustPattern(StarPaste, mark.PatternPaste, StarPasteExpr),
		mark.MustPattern(UnderscorePaste, mark.PatternPaste, UnderscorePasteExpr),
	}
)

func init() {
	extension.Register(Name, Factory)
}

// Options configures the bold extension.
type Options struct {
	// HTMLAttributes are merged into every rendered <strong>. Attributes on
	// the mark itself take precedence.
	HTMLAttributes mark.Attrs
}

// ParseOptions validates raw configuration options. HTMLAttributes must be a
// map with scalar values; any other option is rejected.
func ParseOptions(raw map[string]any) (Options, error) {
	var opts Options
	for key, value := range raw {
		if key != OptionHTMLAttributes {
			return Options{}, fmt.Errorf("unknown option %q", key)
		}
		attrs, err := htmlAttributes(value)
		if err != nil {
			return Options{}, fmt.Errorf("option %s: %w", OptionHTMLAttributes, err)
		}
		opts.HTMLAttributes = attrs
	}
	return opts, nil
}

func htmlAttributes(value any) (mark.Attrs, error) {
	var attrs mark.Attrs
	switch v := value.(type) {
	case nil:
		return nil, nil //nolint:nilnil // absent attributes are valid
	case map[string]any:
		attrs = mark.Attrs(maps.Clone(v))
	case mark.Attrs:
		attrs = v.Clone()
	case map[string]string:
		attrs = make(mark.Attrs, len(v))
		for key, s := range v {
			attrs[key] = s
		}
	default:
		return nil, fmt.Errorf("must be a map of attributes, got %T", value)
	}

	for key, attr := range attrs {
		if strings.TrimSpace(key) == "" {
			return nil, errors.New("empty attribute name")
		}
		if !mark.IsScalar(attr) {
			return nil, fmt.Errorf("attribute %q: value of type %T is not a scalar", key, attr)
		}
	}
	return attrs, nil
}

// MarkSpec returns the bold mark spec for opts.
func MarkSpec(opts Options) mark.Spec {
	base := opts.HTMLAttributes.Clone()
	return mark.Spec{
		Name: Name,
		ParseRules: []mark.ParseRule{
			{Tag: "strong"},
			{Tag: "b", Guard: notNormalWeight},
			{Style: "font-weight", Guard: boldWeight},
		},
		Render: func(attrs mark.Attrs) mark.Element {
			return mark.Element{Tag: "strong", Attrs: mergeAttrs(base, attrs), Hole: true}
		},
		InputPatterns: inputPatterns,
		PastePatterns: pastePatterns,
		Markdown: mark.MarkdownSyntax{
			Delimiter:     "**",
			EmphasisLevel: 2,
		},
	}
}

// New builds the bold extension.
func New(opts Options) *extension.Extension {
	m := mark.New(Name, nil)
	return &extension.Extension{
		Name:        Name,
		Description: "Strong importance, rendered as <strong>",
		Spec:        MarkSpec(opts),
		Commands: []extension.NamedCommand{
			{Name: CommandAdd, Description: "Add bold to the selection", Command: commands.AddMark(m)},
			{Name: CommandToggle, Description: "Toggle bold on the selection", Command: commands.ToggleMark(m)},
			{Name: CommandRemove, Description: "Remove bold from the selection", Command: commands.RemoveMark(Name)},
		},
		Shortcuts: map[string]string{Shortcut: CommandToggle},
		Options:   []string{OptionHTMLAttributes},
	}
}

// Factory builds the extension from configuration options.
func Factory(options map[string]any) (*extension.Extension, error) {
	opts, err := ParseOptions(options)
	if err != nil {
		return nil, err
	}
	return New(opts), nil
}

// notNormalWeight rejects <b> elements whose inline font-weight is normal,
// the way documents pasted from word processors wrap non-bold text.
func notNormalWeight(in mark.GuardInput) mark.GuardResult {
	if in.Element != nil {
		if weight, ok := in.Element.Style("font-weight"); ok && strings.EqualFold(weight, "normal") {
			return mark.Reject()
		}
	}
	return mark.Accept(nil)
}

func boldWeight(in mark.GuardInput) mark.GuardResult {
	if fontWeightPattern.MatchString(in.Value) {
		return mark.Accept(nil)
	}
	return mark.Reject()
}

func mergeAttrs(base, attrs mark.Attrs) mark.Attrs {
	if len(base) == 0 && len(attrs) == 0 {
		return nil
	}
	out := make(mark.Attrs, len(base)+len(attrs))
	maps.Copy(out, base)
	maps.Copy(out, attrs)
	return out
}
