package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmark/internal/logging"
	"github.com/yaklabco/gomdmark/pkg/config"
)

type typeFlags struct {
	format     string
	inputRules bool
	selectAll  bool
	press      []string
	undo       int
}

func newTypeCommand() *cobra.Command {
	flags := &typeFlags{}

	cmd := &cobra.Command{
		Use:   "type [text...]",
		Short: "Type text into an empty document",
		Long: `Type text into an empty document one character at a time, running input
rules after every keystroke, and print the resulting document.

Text is read from the arguments, or from stdin when no argument is given.

Examples:
  gomdmark type 'some **bold** text'
  gomdmark type --format html 'a __strong__ word'
  gomdmark type --select-all --press Mod-b 'everything bold'
  gomdmark type --undo 1 'undo the **rule**'`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runType(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, html, markdown, json")
	cmd.Flags().BoolVar(&flags.inputRules, "input-rules", true, "apply input rules while typing")
	cmd.Flags().BoolVar(&flags.selectAll, "select-all", false, "select the whole document after typing")
	cmd.Flags().StringSliceVar(&flags.press, "press", nil, "key chords to press after typing (e.g. Mod-b)")
	cmd.Flags().IntVar(&flags.undo, "undo", 0, "number of edits to undo at the end")

	return cmd
}

func runType(cmd *cobra.Command, args []string, flags *typeFlags) error {
	logger := logging.Default()

	format, err := formatFlag(flags.format)
	if err != nil {
		return err
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	cliCfg := &config.Config{}
	if cmd.Flags().Changed("input-rules") {
		cliCfg.InputRules = &flags.inputRules
	}

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	ed, err := newEditor(cfg, logger)
	if err != nil {
		return err
	}

	if err := ed.Type(text); err != nil {
		return fmt.Errorf("type: %w", err)
	}

	if flags.selectAll {
		ed.Select(0, ed.State().Len())
	}

	for _, chord := range flags.press {
		handled, err := ed.Press(chord)
		if err != nil {
			return fmt.Errorf("press %s: %w", chord, err)
		}
		if !handled {
			return fmt.Errorf("%w: no command is bound to %s", ErrInvalidUsage, chord)
		}
	}

	for range flags.undo {
		if err := ed.Undo(); err != nil {
			return fmt.Errorf("undo: %w", err)
		}
	}

	return printDocument(cmd, ed, format)
}
