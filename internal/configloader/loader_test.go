package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/gomdmark/pkg/config"
	_ "github.com/yaklabco/gomdmark/pkg/extension/bold" // Register marks
)

func isolatedOptions(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolatedOptions(t.TempDir()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}
	if result.Config.Flavor != config.FlavorCommonMark {
		t.Errorf("expected flavor %q, got %q", config.FlavorCommonMark, result.Config.Flavor)
	}
	if !result.Config.InputRulesEnabled() || !result.Config.PasteRulesEnabled() {
		t.Error("expected rules to be enabled by default")
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no loaded files, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".gomdmark.yml", `
flavor: gfm
paste_rules: false
marks:
  bold:
    enabled: false
`)

	result, err := Load(context.Background(), isolatedOptions(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != config.FlavorGFM {
		t.Errorf("expected flavor %q, got %q", config.FlavorGFM, result.Config.Flavor)
	}
	if result.Config.PasteRulesEnabled() {
		t.Error("expected paste rules to be disabled")
	}
	if result.Config.MarkEnabled("bold") {
		t.Error("expected bold to be disabled")
	}
	if len(result.LoadedFrom) != 1 {
		t.Errorf("expected 1 loaded file, got %d", len(result.LoadedFrom))
	}
}

func TestLoad_ProjectConfigFromSubdirectory(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".gomdmark.yaml", "flavor: gfm\n")

	nested := filepath.Join(tmpDir, "docs", "guide")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := Load(context.Background(), isolatedOptions(nested))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Flavor != config.FlavorGFM {
		t.Errorf("expected flavor %q, got %q", config.FlavorGFM, result.Config.Flavor)
	}
}

func TestLoad_JSONCConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".gomdmark.jsonc", `{
  // prefer GitHub flavor
  "flavor": "gfm",
  /* attributes for <strong> */
  "marks": {"bold": {"options": {"HTMLAttributes": {"class": "a//b"}}}}
}`)

	result, err := Load(context.Background(), isolatedOptions(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != config.FlavorGFM {
		t.Errorf("expected flavor %q, got %q", config.FlavorGFM, result.Config.Flavor)
	}
	attrs, ok := result.Config.MarkOptions("bold")["HTMLAttributes"].(map[string]any)
	if !ok || attrs["class"] != "a//b" {
		t.Errorf("expected class a//b to survive comment stripping, got %v", result.Config.MarkOptions("bold"))
	}
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".gomdmark.yml", "history_depth: 5\n")
	customPath := writeConfig(t, tmpDir, "custom-config.yml", "flavor: gfm\n")

	opts := isolatedOptions(tmpDir)
	opts.ExplicitPath = customPath

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != config.FlavorGFM {
		t.Errorf("expected flavor %q, got %q", config.FlavorGFM, result.Config.Flavor)
	}
	if result.Config.HistoryDepth != 0 {
		t.Errorf("expected project config to be skipped, got history_depth %d", result.Config.HistoryDepth)
	}
	if result.Paths.Explicit != customPath {
		t.Errorf("expected explicit path %q, got %q", customPath, result.Paths.Explicit)
	}
}

func TestLoad_MissingExplicitConfig(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t.TempDir())
	opts.ExplicitPath = filepath.Join(t.TempDir(), "missing.yml")

	if _, err := Load(context.Background(), opts); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".gomdmark.yml", `
flavor: commonmark
input_rules: true
history_depth: 2
`)

	disabled := false
	opts := isolatedOptions(tmpDir)
	opts.CLIConfig = &config.Config{
		Flavor:     config.FlavorGFM,
		InputRules: &disabled,
		Format:     config.FormatHTML,
	}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != config.FlavorGFM {
		t.Errorf("expected flavor %q (CLI override), got %q", config.FlavorGFM, result.Config.Flavor)
	}
	if result.Config.InputRulesEnabled() {
		t.Error("expected input rules disabled (CLI override)")
	}
	if result.Config.HistoryDepth != 2 {
		t.Errorf("expected history_depth 2 from project config, got %d", result.Config.HistoryDepth)
	}
	if result.Config.Format != config.FormatHTML {
		t.Errorf("expected format %q, got %q", config.FormatHTML, result.Config.Format)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "flavor", content: "flavor: invalid-flavor\n", field: "flavor"},
		{name: "history depth", content: "history_depth: -1\n", field: "history_depth"},
		{
			name:    "mark options",
			content: "marks:\n  bold:\n    options:\n      color: red\n",
			field:   "marks.bold.options",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			writeConfig(t, tmpDir, ".gomdmark.yml", tt.content)

			_, err := Load(context.Background(), isolatedOptions(tmpDir))
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, vErr.Field)
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := writeConfig(t, tmpDir, ".gomdmark.yml", "marks: [bold\n")

	_, err := Load(context.Background(), isolatedOptions(tmpDir))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("expected error to name %s, got %v", path, err)
	}
}

func TestLoad_UnknownMarkWarns(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".gomdmark.yml", "marks:\n  sparkle:\n    enabled: true\n")

	result, err := Load(context.Background(), isolatedOptions(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "sparkle") {
		t.Errorf("expected warning about unknown mark, got %v", result.Warnings)
	}
}

func TestLoad_NormalizesMarkKeys(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".gomdmark.yml", "marks:\n  Bold:\n    enabled: false\n")

	result, err := Load(context.Background(), isolatedOptions(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, ok := result.Config.Marks["Bold"]; ok {
		t.Error("expected Bold to be rewritten")
	}
	if result.Config.MarkEnabled("bold") {
		t.Error("expected bold to be disabled")
	}
}

func TestLoad_WarnsDuplicateMarks(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".gomdmark.yml", `
marks:
  bold:
    enabled: false
  BOLD:
    enabled: true
`)

	result, err := Load(context.Background(), isolatedOptions(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	foundWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "duplicate") && strings.Contains(w, "bold") {
			foundWarning = true
			break
		}
	}
	if !foundWarning {
		t.Errorf("expected warning about duplicate mark, got warnings: %v", result.Warnings)
	}
	if len(result.Config.Marks) != 1 {
		t.Errorf("expected a single bold entry, got %v", result.Config.Marks)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("GOMDMARK_FLAVOR", "gfm")
	t.Setenv("GOMDMARK_INPUT_RULES", "false")
	t.Setenv("GOMDMARK_DISABLE_MARKS", " bold , ,")

	opts := isolatedOptions(t.TempDir())
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != config.FlavorGFM {
		t.Errorf("expected flavor %q, got %q", config.FlavorGFM, result.Config.Flavor)
	}
	if result.Config.InputRulesEnabled() {
		t.Error("expected input rules disabled from environment")
	}
	if len(result.Config.DisableMarks) != 1 || result.Config.DisableMarks[0] != "bold" {
		t.Errorf("expected DisableMarks [bold], got %v", result.Config.DisableMarks)
	}
}

func TestLoad_EnvironmentInvalidBool(t *testing.T) {
	t.Setenv("GOMDMARK_PASTE_RULES", "sometimes")

	opts := isolatedOptions(t.TempDir())
	opts.IgnoreEnv = false

	_, err := Load(context.Background(), opts)
	if err == nil || !strings.Contains(err.Error(), "GOMDMARK_PASTE_RULES") {
		t.Fatalf("expected invalid boolean error, got %v", err)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolatedOptions(t.TempDir()))
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	on, off := true, false
	base := &config.Config{
		Flavor: config.FlavorCommonMark,
		Marks: map[string]config.MarkConfig{
			"bold": {Options: map[string]any{"HTMLAttributes": map[string]any{"class": "a"}, "keep": 1}},
		},
	}
	middle := &config.Config{PasteRules: &off}
	top := &config.Config{
		InputRules: &on,
		Marks: map[string]config.MarkConfig{
			"bold": {Enabled: &off, Options: map[string]any{"HTMLAttributes": map[string]any{"id": "b"}}},
		},
	}

	got := MergeAll(base, middle, top)

	if got.Flavor != config.FlavorCommonMark {
		t.Errorf("expected flavor to survive, got %q", got.Flavor)
	}
	if got.PasteRulesEnabled() || !got.InputRulesEnabled() {
		t.Error("expected paste rules off and input rules on")
	}
	bold := got.Marks["bold"]
	if bold.Enabled == nil || *bold.Enabled {
		t.Error("expected bold disabled by top layer")
	}
	if bold.Options["keep"] != 1 {
		t.Errorf("expected base option to survive, got %v", bold.Options)
	}
	attrs, _ := bold.Options["HTMLAttributes"].(map[string]any)
	if attrs["id"] != "b" || attrs["class"] != nil {
		t.Errorf("expected nested options replaced whole, got %v", attrs)
	}
	if _, ok := base.Marks["bold"].Options["HTMLAttributes"].(map[string]any)["id"]; ok {
		t.Error("merge must not mutate base options")
	}

	if MergeAll() != nil {
		t.Error("expected nil for no configs")
	}
}

func TestStripJSONComments(t *testing.T) {
	t.Parallel()

	input := `{"a": "http://x", // trailing
/* block */ "b": "\"/*\""}`
	want := `{"a": "http://x", 
 "b": "\"/*\""}`

	if got := string(stripJSONComments([]byte(input))); got != want {
		t.Errorf("stripJSONComments() = %q, want %q", got, want)
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	for _, name := range []string{"GOMDMARK_FLAVOR", "GOMDMARK_INPUT_RULES", "GOMDMARK_PASTE_RULES", "GOMDMARK_DISABLE_MARKS"} {
		if vars[name] == "" {
			t.Errorf("expected description for %s", name)
		}
	}
	if got := GetEnvVarName("history_depth"); got != "GOMDMARK_HISTORY_DEPTH" {
		t.Errorf("GetEnvVarName(history_depth) = %q", got)
	}
}

func TestLoadFromEnv_HistoryDepth(t *testing.T) {
	t.Setenv("GOMDMARK_HISTORY_DEPTH", "12")

	cfg := config.NewConfig()
	if err := LoadFromEnv(cfg); err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.HistoryDepth != 12 {
		t.Errorf("HistoryDepth = %d, want 12", cfg.HistoryDepth)
	}

	t.Setenv("GOMDMARK_HISTORY_DEPTH", "many")
	err := LoadFromEnv(config.NewConfig())
	if err == nil || !strings.Contains(err.Error(), "GOMDMARK_HISTORY_DEPTH") {
		t.Fatalf("expected invalid integer error, got %v", err)
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	got := splitList(" bold, italic ,,code ")
	want := []string{"bold", "italic", "code"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("splitList() = %v, want %v", got, want)
	}
	if splitList("") != nil {
		t.Error("splitList(\"\") should be nil")
	}
}
