package configloader

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/gomdmark/pkg/config"
)

const envVarPrefix = "GOMDMARK_"

// envVar binds one GOMDMARK_* variable to the config field it sets.
type envVar struct {
	field       string
	description string
	apply       func(cfg *config.Config, value string) error
}

var envVars = map[string]envVar{
	"FLAVOR": {
		field:       "flavor",
		description: "Markdown flavor: commonmark or gfm",
		apply: func(cfg *config.Config, v string) error {
			cfg.Flavor = config.Flavor(v)
			return nil
		},
	},
	"FORMAT": {
		field:       "format",
		description: "Output format: text, html, markdown, or json",
		apply: func(cfg *config.Config, v string) error {
			cfg.Format = config.OutputFormat(v)
			return nil
		},
	},
	"INPUT_RULES": {
		field:       "input_rules",
		description: "Apply input rules while typing: true or false",
		apply:       boolSetter(func(cfg *config.Config, b *bool) { cfg.InputRules = b }),
	},
	"PASTE_RULES": {
		field:       "paste_rules",
		description: "Apply paste rules on paste: true or false",
		apply:       boolSetter(func(cfg *config.Config, b *bool) { cfg.PasteRules = b }),
	},
	"HISTORY_DEPTH": {
		field:       "history_depth",
		description: "Maximum number of undo steps (0 = default)",
		apply: func(cfg *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", v)
			}
			cfg.HistoryDepth = n
			return nil
		},
	},
	"DISABLE_MARKS": {
		field:       "disable_marks",
		description: "Comma-separated list of marks to disable",
		apply: func(cfg *config.Config, v string) error {
			cfg.DisableMarks = splitList(v)
			return nil
		},
	},
}

func boolSetter(set func(*config.Config, *bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("expected true/false/1/0, got %q", v)
		}
		set(cfg, &b)
		return nil
	}
}

// LoadFromEnv applies GOMDMARK_* overrides to cfg. Unset and empty variables
// are ignored.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, suffix := range slices.Sorted(maps.Keys(envVars)) {
		name := envVarPrefix + suffix
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if err := envVars[suffix].apply(cfg, value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

// splitList splits a comma-separated value, dropping blank elements.
func splitList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetEnvVarName returns the variable that sets a config field, or "".
func GetEnvVarName(field string) string {
	for suffix, v := range envVars {
		if v.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns every supported variable with its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envVars))
	for suffix, v := range envVars {
		vars[envVarPrefix+suffix] = v.description
	}
	return vars
}
