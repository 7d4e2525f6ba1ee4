package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmark/internal/logging"
	"github.com/yaklabco/gomdmark/pkg/config"
	"github.com/yaklabco/gomdmark/pkg/langdetect"
)

// Input formats accepted by paste and convert.
const (
	inputText     = langdetect.Text
	inputHTML     = langdetect.HTML
	inputMarkdown = langdetect.Markdown
)

type pasteFlags struct {
	format     string
	from       string
	pasteRules bool
}

func newPasteCommand() *cobra.Command {
	flags := &pasteFlags{}

	cmd := &cobra.Command{
		Use:   "paste [text...]",
		Short: "Paste content into an empty document",
		Long: `Paste content into an empty document in one step, running paste rules over
the pasted text, and print the resulting document.

Content is read from the arguments, or from stdin when no argument is given.

Examples:
  gomdmark paste 'hello **world** and **more** text'
  gomdmark paste --from html '<p><b>bold</b> and <span style="font-weight:700">heavy</span></p>'
  cat notes.md | gomdmark paste --from markdown --format html`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaste(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, html, markdown, json")
	cmd.Flags().StringVar(&flags.from, "from", inputText, "input format: text, html, markdown")
	cmd.Flags().BoolVar(&flags.pasteRules, "paste-rules", true, "apply paste rules to pasted text")

	return cmd
}

func runPaste(cmd *cobra.Command, args []string, flags *pasteFlags) error {
	logger := logging.Default()

	format, err := formatFlag(flags.format)
	if err != nil {
		return err
	}

	if !isInputFormat(flags.from) {
		return fmt.Errorf("%w: invalid input format %q: must be text, html or markdown", ErrInvalidUsage, flags.from)
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	cliCfg := &config.Config{}
	if cmd.Flags().Changed("paste-rules") {
		cliCfg.PasteRules = &flags.pasteRules
	}

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	ed, err := newEditor(cfg, logger)
	if err != nil {
		return err
	}

	if err := pasteAs(commandContext(cmd), ed, flags.from, text); err != nil {
		return fmt.Errorf("paste: %w", err)
	}

	return printDocument(cmd, ed, format)
}
