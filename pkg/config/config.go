// Package config defines the configuration types for gomdmark.
// These types are pure data structures; loading, discovery and merging live in
// internal/configloader.
package config

import "slices"

// Flavor specifies the Markdown flavor used when importing and exporting.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// IsValid returns true if the flavor is supported.
func (f Flavor) IsValid() bool {
	switch f {
	case FlavorCommonMark, FlavorGFM:
		return true
	default:
		return false
	}
}

// OutputFormat specifies how the CLI prints a document.
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatHTML     OutputFormat = "html"
	FormatMarkdown OutputFormat = "markdown"
	FormatJSON     OutputFormat = "json"
)

// IsValid returns true if the output format is supported.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatHTML, FormatMarkdown, FormatJSON:
		return true
	default:
		return false
	}
}

// MarkConfig holds per-mark configuration.
type MarkConfig struct {
	// Enabled turns the mark extension on or off. Nil means enabled.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Options are passed to the extension factory (e.g., HTMLAttributes).
	Options map[string]any `yaml:"options,omitempty"`
}

// Config is the root configuration structure for gomdmark.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor"`

	// InputRules enables delimiter rules while typing. Nil means enabled.
	InputRules *bool `yaml:"input_rules,omitempty"`

	// PasteRules enables delimiter rules on paste. Nil means enabled.
	PasteRules *bool `yaml:"paste_rules,omitempty"`

	// HistoryDepth bounds the undo history; zero uses the default.
	HistoryDepth int `yaml:"history_depth,omitempty"`

	// Marks contains per-mark configuration keyed by mark name.
	Marks map[string]MarkConfig `yaml:"marks"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// DisableMarks contains mark names to disable regardless of Marks.
	DisableMarks []string `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Flavor: FlavorCommonMark,
		Marks:  make(map[string]MarkConfig),
		Format: FormatText,
	}
}

// InputRulesEnabled reports whether input rules run.
func (c *Config) InputRulesEnabled() bool {
	return c.InputRules == nil || *c.InputRules
}

// PasteRulesEnabled reports whether paste rules run.
func (c *Config) PasteRulesEnabled() bool {
	return c.PasteRules == nil || *c.PasteRules
}

// MarkEnabled reports whether the mark extension named name is enabled.
func (c *Config) MarkEnabled(name string) bool {
	if slices.Contains(c.DisableMarks, name) {
		return false
	}
	mc, ok := c.Marks[name]
	return !ok || mc.Enabled == nil || *mc.Enabled
}

// MarkOptions returns the factory options configured for name.
func (c *Config) MarkOptions(name string) map[string]any {
	return c.Marks[name].Options
}
