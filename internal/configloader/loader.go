// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support, and validation against the registered marks.
package configloader

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gomdmark/pkg/config"
	"github.com/yaklabco/gomdmark/pkg/extension"
	"github.com/yaklabco/gomdmark/pkg/fsutil"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	// If set, project config discovery is skipped.
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (GOMDMARK_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.gomdmark.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/gomdmark/config.yaml)
//  6. System config (/etc/gomdmark/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{
		Paths: &ConfigPaths{},
	}

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	cfg := config.NewConfig()

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	result.Paths = paths

	if opts.ExplicitPath != "" {
		result.Paths.Explicit = opts.ExplicitPath
	}

	layers := []struct {
		name    string
		path    string
		ignored bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig || opts.ExplicitPath != ""},
		{"explicit", opts.ExplicitPath, false},
	}

	for _, layer := range layers {
		if layer.ignored || layer.path == "" {
			continue
		}
		fileCfg, err := loadConfigFile(ctx, layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	// Mark names are case-insensitive in config files ("Bold" and "bold").
	normalizeMarkKeys(cfg, extension.DefaultRegistry, result)

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}

	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Message)
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile loads a configuration from a YAML or JSON file.
func loadConfigFile(ctx context.Context, path string) (*config.Config, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if IsJSONConfig(path) {
		content = stripJSONComments(content)
	}

	// JSON is a subset of YAML, so one decoder serves both formats.
	cfg := &config.Config{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, &ValidationError{
			FilePath: path,
			Message:  fmt.Sprintf("parse config: %v", err),
		}
	}

	if cfg.Marks == nil {
		cfg.Marks = make(map[string]config.MarkConfig)
	}

	return cfg, nil
}

// normalizeMarkKeys rewrites mark keys to the registered extension names.
// If one mark is configured under several spellings, warns and uses the last value encountered.
func normalizeMarkKeys(cfg *config.Config, registry *extension.Registry, result *LoadResult) {
	if len(cfg.Marks) == 0 {
		return
	}

	canonical := make(map[string]string)
	for _, name := range registry.Names() {
		canonical[strings.ToLower(name)] = name
	}

	normalized := make(map[string]config.MarkConfig, len(cfg.Marks))
	seen := make(map[string]string)

	for key, markCfg := range cfg.Marks {
		name, found := canonical[strings.ToLower(key)]
		if !found {
			// Unknown mark; validation warns about it later.
			normalized[key] = markCfg
			continue
		}

		if originalKey, exists := seen[name]; exists {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("duplicate mark configuration: %q and %q both refer to %s; using last value",
					originalKey, key, name))
		}

		seen[name] = key
		normalized[name] = markCfg
	}

	cfg.Marks = normalized
}
