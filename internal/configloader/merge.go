package configloader

import (
	"maps"

	"github.com/yaklabco/gomdmark/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointer booleans: override overwrites base if override is non-nil
//   - Maps: deep merge, with override's values taking precedence
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.HistoryDepth != 0 {
		result.HistoryDepth = override.HistoryDepth
	}

	if override.InputRules != nil {
		result.InputRules = override.InputRules
	}
	if override.PasteRules != nil {
		result.PasteRules = override.PasteRules
	}

	result.Marks = mergeMarks(base.Marks, override.Marks)

	if override.DisableMarks != nil {
		result.DisableMarks = override.DisableMarks
	}

	return &result
}

// mergeMarks performs deep merge of mark configurations.
func mergeMarks(base, override map[string]config.MarkConfig) map[string]config.MarkConfig {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]config.MarkConfig, len(base)+len(override))
	maps.Copy(result, base)

	for key, val := range override {
		if existing, ok := result[key]; ok {
			result[key] = mergeMarkConfig(existing, val)
		} else {
			result[key] = val
		}
	}

	return result
}

// mergeMarkConfig merges individual mark configurations.
// Options merge key by key; nested option values are replaced whole.
func mergeMarkConfig(base, override config.MarkConfig) config.MarkConfig {
	result := base

	if override.Enabled != nil {
		result.Enabled = override.Enabled
	}

	if override.Options != nil {
		options := make(map[string]any, len(base.Options)+len(override.Options))
		maps.Copy(options, base.Options)
		maps.Copy(options, override.Options)
		result.Options = options
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
