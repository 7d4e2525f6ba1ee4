package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gomdmark/internal/configloader"
	"github.com/yaklabco/gomdmark/internal/logging"
	"github.com/yaklabco/gomdmark/internal/ui/pretty"
	"github.com/yaklabco/gomdmark/pkg/config"
	"github.com/yaklabco/gomdmark/pkg/editor"
	"github.com/yaklabco/gomdmark/pkg/extension"
	"github.com/yaklabco/gomdmark/pkg/mark"
)

// ErrInvalidUsage is returned for flag and argument combinations that cannot run.
var ErrInvalidUsage = errors.New("invalid usage")

// ErrNoInput is returned when neither arguments nor piped stdin supply input.
var ErrNoInput = fmt.Errorf("%w: no input given", ErrInvalidUsage)

// commandContext returns the command's context, falling back to Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves configuration for a command with cliCfg layered on top.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldPaths, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldInputRules, cfg.InputRulesEnabled(),
		logging.FieldPasteRules, cfg.PasteRulesEnabled(),
	)

	return cfg, nil
}

// buildExtensions builds every registered extension the configuration enables.
func buildExtensions(cfg *config.Config) ([]*extension.Extension, error) {
	names := extension.Names()
	exts := make([]*extension.Extension, 0, len(names))
	for _, name := range names {
		if !cfg.MarkEnabled(name) {
			continue
		}
		ext, err := extension.Build(name, cfg.MarkOptions(name))
		if err != nil {
			return nil, err
		}
		exts = append(exts, ext)
	}
	return exts, nil
}

// newEditor creates an editor configured from cfg.
func newEditor(cfg *config.Config, logger *log.Logger) (*editor.Editor, error) {
	exts, err := buildExtensions(cfg)
	if err != nil {
		return nil, err
	}

	return editor.New(
		editor.WithLogger(logger),
		editor.WithExtensions(exts...),
		editor.WithInputRules(cfg.InputRulesEnabled()),
		editor.WithPasteRules(cfg.PasteRulesEnabled()),
		editor.WithHistoryDepth(cfg.HistoryDepth),
		editor.WithFlavor(string(cfg.Flavor)),
	)
}

// readInput joins the arguments, or reads stdin when there are none and it is piped.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", ErrNoInput
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", ErrNoInput
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

// spanJSON is a marked range in JSON output.
type spanJSON struct {
	Start int        `json:"start"`
	End   int        `json:"end"`
	Mark  string     `json:"mark"`
	Attrs mark.Attrs `json:"attrs,omitempty"`
}

// documentJSON is a document in JSON output.
type documentJSON struct {
	Text      string     `json:"text"`
	Spans     []spanJSON `json:"spans"`
	Selection [2]int     `json:"selection"`
}

// renderDocument formats the editor's document in the requested format.
func renderDocument(ed *editor.Editor, format config.OutputFormat, styles *pretty.Styles) (string, error) {
	state := ed.State()

	switch format {
	case config.FormatHTML:
		return ed.HTML()
	case config.FormatMarkdown:
		return ed.Markdown()
	case config.FormatJSON:
		sel := state.Selection()
		out := documentJSON{
			Text:      state.Text(),
			Spans:     make([]spanJSON, 0, len(state.Spans())),
			Selection: [2]int{sel.Anchor, sel.Head},
		}
		for _, span := range state.Spans() {
			out.Spans = append(out.Spans, spanJSON{
				Start: span.Start,
				End:   span.End,
				Mark:  span.Mark.Type,
				Attrs: span.Mark.Attrs,
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode document: %w", err)
		}
		return string(data), nil
	case config.FormatText, "":
		if styles == nil {
			return state.Text(), nil
		}
		return styles.FormatSlice(state.Content()), nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", ErrInvalidUsage, format)
	}
}

// outputStyles returns styles for cmd's output stream honoring --color.
func outputStyles(cmd *cobra.Command) *pretty.Styles {
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	return pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))
}

// printDocument writes the document to cmd's output followed by a newline.
func printDocument(cmd *cobra.Command, ed *editor.Editor, format config.OutputFormat) error {
	out, err := renderDocument(ed, format, outputStyles(cmd))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// formatFlag validates the --format flag value.
func formatFlag(value string) (config.OutputFormat, error) {
	format := config.OutputFormat(value)
	if !format.IsValid() {
		return "", fmt.Errorf("%w: invalid format %q: must be text, html, markdown or json", ErrInvalidUsage, value)
	}
	return format, nil
}
