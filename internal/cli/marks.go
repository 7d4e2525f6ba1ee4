package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmark/internal/logging"
	"github.com/yaklabco/gomdmark/internal/ui/pretty"
	"github.com/yaklabco/gomdmark/pkg/extension"
	"github.com/yaklabco/gomdmark/pkg/mark"
)

type marksFlags struct {
	format string
}

const (
	formatJSON  = "json"
	formatTable = "table"
	formatText  = "text"
)

// markInfo represents a mark extension in JSON output.
type markInfo struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	ParseRules    []string          `json:"parse_rules"`
	InputPatterns []patternInfo     `json:"input_patterns"`
	PastePatterns []patternInfo     `json:"paste_patterns"`
	Commands      []string          `json:"commands"`
	Shortcuts     map[string]string `json:"shortcuts"`
	Markdown      string            `json:"markdown,omitempty"`
}

type patternInfo struct {
	Name string `json:"name"`
	Expr string `json:"expr"`
}

func newMarksCommand() *cobra.Command {
	flags := &marksFlags{}

	cmd := &cobra.Command{
		Use:   "marks",
		Short: "List available mark extensions",
		Long: `List the registered mark extensions with their parse rules, input and
paste patterns, commands and keyboard shortcuts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exts, err := registeredExtensions()
			if err != nil {
				return err
			}

			switch flags.format {
			case formatJSON:
				return outputMarksJSON(cmd.OutOrStdout(), exts)
			case formatTable:
				styles := outputStyles(cmd)
				table := pretty.NewTableFormatter(styles, pretty.TerminalWidth(cmd.OutOrStdout()))
				_, err := fmt.Fprint(cmd.OutOrStdout(), table.FormatTable(pretty.RowsFromExtensions(exts)))
				return err
			case formatText:
				return outputMarksText(cmd.OutOrStdout(), exts)
			default:
				return fmt.Errorf("%w: invalid format %q: must be text, table or json", ErrInvalidUsage, flags.format)
			}
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", formatText, "output format: text, table, json")

	return cmd
}

// registeredExtensions builds every registered extension with default options.
func registeredExtensions() ([]*extension.Extension, error) {
	names := extension.Names()
	exts := make([]*extension.Extension, 0, len(names))
	for _, name := range names {
		ext, err := extension.Build(name, nil)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", name, err)
		}
		exts = append(exts, ext)
	}
	return exts, nil
}

func outputMarksText(w io.Writer, exts []*extension.Extension) error {
	logger := logging.NewInteractive(w)

	if len(exts) == 0 {
		logger.Info("no marks registered")
		return nil
	}

	logger.Info("available marks")

	for _, ext := range exts {
		logger.Info(ext.Name,
			logging.FieldDescription, ext.Description,
			logging.FieldParseRules, len(ext.Spec.ParseRules),
			logging.FieldShortcuts, len(ext.Shortcuts),
		)
		for _, pair := range ext.ShortcutList() {
			logger.Info("  shortcut", logging.FieldChord, pair[0], logging.FieldCommand, pair[1])
		}
	}

	return nil
}

func outputMarksJSON(w io.Writer, exts []*extension.Extension) error {
	infos := make([]markInfo, 0, len(exts))
	for _, ext := range exts {
		info := markInfo{
			Name:          ext.Name,
			Description:   ext.Description,
			ParseRules:    make([]string, 0, len(ext.Spec.ParseRules)),
			InputPatterns: patternInfos(ext.Spec.InputPatterns),
			PastePatterns: patternInfos(ext.Spec.PastePatterns),
			Commands:      make([]string, 0, len(ext.Commands)),
			Shortcuts:     ext.Shortcuts,
			Markdown:      ext.Spec.Markdown.Delimiter,
		}
		for _, rule := range ext.Spec.ParseRules {
			info.ParseRules = append(info.ParseRules, describeParseRule(rule))
		}
		for _, cmd := range ext.Commands {
			info.Commands = append(info.Commands, cmd.Name)
		}
		infos = append(infos, info)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding marks: %w", err)
	}
	return nil
}

func patternInfos(patterns []mark.Pattern) []patternInfo {
	out := make([]patternInfo, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, patternInfo{Name: p.Name, Expr: p.Expr.String()})
	}
	return out
}

// describeParseRule renders a parse rule selector, e.g. "tag b (guarded)".
func describeParseRule(rule mark.ParseRule) string {
	desc := rule.Selector()
	if rule.Guard != nil {
		desc += " (guarded)"
	}
	return desc
}
