package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// MarkInfo describes a mark extension for template generation.
type MarkInfo struct {
	Name        string
	Description string
	Shortcuts   []string
	Options     []string
}

// MarkInfoProvider returns information about the available marks.
// It decouples this package from the extension registry.
type MarkInfoProvider func() []MarkInfo

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string

	// Marks lists the marks to document; nil documents none.
	Marks MarkInfoProvider
}

// GenerateTemplate creates a commented configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	var marks []MarkInfo
	if opts.Marks != nil {
		marks = opts.Marks()
	}
	slices.SortFunc(marks, func(a, b MarkInfo) int {
		return strings.Compare(a.Name, b.Name)
	})

	if opts.Format == "json" {
		return templateToJSON(marks)
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Markdown flavor used by convert: commonmark or gfm
flavor: commonmark

# Rewrite delimiters into marks while typing (e.g. **bold**)
input_rules: true

# Rewrite delimiters into marks in pasted text
paste_rules: true

# Maximum number of undo steps (0 = default)
# history_depth: 1000

# Mark-specific configuration
marks:
`)

	if len(marks) == 0 {
		buf.WriteString("  {}\n")
	}
	for _, m := range marks {
		buf.WriteString(fmt.Sprintf("\n  # %s\n", m.Description))
		if len(m.Shortcuts) > 0 {
			buf.WriteString(fmt.Sprintf("  # Shortcuts: %s\n", strings.Join(m.Shortcuts, ", ")))
		}
		buf.WriteString(fmt.Sprintf("  %s:\n", m.Name))
		buf.WriteString("    enabled: true\n")
		if len(m.Options) > 0 {
			buf.WriteString("    # options:\n")
		}
		for _, opt := range m.Options {
			buf.WriteString(fmt.Sprintf("    #   %s: {}\n", opt))
		}
	}

	return buf.Bytes(), nil
}

// templateToJSON renders the same defaults as JSON.
func templateToJSON(marks []MarkInfo) ([]byte, error) {
	markMap := make(map[string]any, len(marks))
	for _, m := range marks {
		markMap[m.Name] = map[string]any{"enabled": true}
	}

	cfg := map[string]any{
		"flavor":      string(FlavorCommonMark),
		"input_rules": true,
		"paste_rules": true,
		"marks":       markMap,
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gomdmark configuration
# See: https://github.com/yaklabco/gomdmark`
}
