package configloader

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/gomdmark/pkg/config"
	"github.com/yaklabco/gomdmark/pkg/extension"
)

// ValidationError is an invalid configuration value.
type ValidationError struct {
	// Field is the config path, e.g. "marks.bold.options".
	Field string
	Value any

	Message string

	// FilePath is the config file the value came from, when known.
	FilePath string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, 3)
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	return strings.Join(append(parts, e.Message), ": ")
}

// ValidationResult collects findings. Errors prevent loading; warnings are
// reported and otherwise ignored.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks cfg against the supported values and the registered marks.
// Mark options are checked by building the mark's extension with them.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Flavor != "" && !cfg.Flavor.IsValid() {
		result.fail("flavor", cfg.Flavor, "invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor)
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: text, html, markdown, json", cfg.Format)
	}
	if cfg.HistoryDepth < 0 {
		result.fail("history_depth", cfg.HistoryDepth, "history_depth must be >= 0 (0 means default)")
	}

	validateMarks(cfg, extension.DefaultRegistry, result)
	return result
}

func validateMarks(cfg *config.Config, registry *extension.Registry, result *ValidationResult) {
	for _, name := range slices.Sorted(maps.Keys(cfg.Marks)) {
		field := "marks." + name
		if _, ok := registry.Get(name); !ok {
			result.warn(field, name, "unknown mark %q; it will be ignored", name)
			continue
		}

		options := cfg.Marks[name].Options
		if options == nil {
			continue
		}
		if _, err := registry.Build(name, options); err != nil {
			result.fail(field+".options", options, "%v", err)
		}
	}

	for i, name := range cfg.DisableMarks {
		if _, ok := registry.Get(name); !ok {
			result.warn(fmt.Sprintf("disable_marks[%d]", i), name, "unknown mark %q; it will be ignored", name)
		}
	}
}
