package config

import (
	"bytes"
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the configuration to YAML format.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent())

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToYAMLWithHeader serializes the configuration with a header comment.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	yamlBytes, err := c.ToYAML()
	if err != nil {
		return nil, err
	}

	if header == "" {
		return yamlBytes, nil
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if header[len(header)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(yamlBytes)

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if cfg.Marks == nil {
		cfg.Marks = make(map[string]MarkConfig)
	}

	return cfg, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := &Config{
		Flavor:       c.Flavor,
		InputRules:   cloneBool(c.InputRules),
		PasteRules:   cloneBool(c.PasteRules),
		HistoryDepth: c.HistoryDepth,
		Format:       c.Format,
	}

	if c.Marks != nil {
		clone.Marks = make(map[string]MarkConfig, len(c.Marks))
		for name, mc := range c.Marks {
			clone.Marks[name] = mc.clone()
		}
	}

	if c.DisableMarks != nil {
		clone.DisableMarks = make([]string, len(c.DisableMarks))
		copy(clone.DisableMarks, c.DisableMarks)
	}

	return clone
}

// clone creates a deep copy of a MarkConfig.
func (mc MarkConfig) clone() MarkConfig {
	clone := MarkConfig{Enabled: cloneBool(mc.Enabled)}
	if mc.Options != nil {
		clone.Options = make(map[string]any, len(mc.Options))
		for key, value := range mc.Options {
			clone.Options[key] = cloneValue(value)
		}
	}
	return clone
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// cloneValue copies the nested maps and slices YAML decoding produces.
func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			out[key] = cloneValue(inner)
		}
		return out
	case map[string]string:
		return maps.Clone(v)
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return v
	}
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
