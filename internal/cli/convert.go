package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmark/internal/logging"
	"github.com/yaklabco/gomdmark/internal/ui/pretty"
	"github.com/yaklabco/gomdmark/pkg/config"
	"github.com/yaklabco/gomdmark/pkg/editor"
	"github.com/yaklabco/gomdmark/pkg/fsutil"
	"github.com/yaklabco/gomdmark/pkg/langdetect"
	"github.com/yaklabco/gomdmark/pkg/runner"
)

// ErrConversionFailed is returned when at least one input could not be converted.
var ErrConversionFailed = errors.New("conversion failed")

type convertFlags struct {
	from           string
	to             string
	flavor         string
	output         string
	outDir         string
	exclude        []string
	jobs           int
	followSymlinks bool
	backup         bool
	diff           bool
	summary        bool
}

func newConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [paths...]",
		Short: "Convert documents between text, HTML and Markdown",
		Long: `Convert documents between plain text, HTML and Markdown.

Each input is pasted into an empty document, so paste rules apply to the
incoming text, then rendered in the target format. The input format defaults
to the file extension (.html, .htm, .md, .markdown). Inputs without a known
extension are read as HTML when they open with a tag, else as plain text.
With no paths, stdin is read.

With --out-dir, paths may be directories. Every document found is converted
concurrently and written under the output directory, mirroring its relative
path with the extension of the target format.

With --diff, nothing is written. A unified diff against each existing output
file is printed instead.

Examples:
  gomdmark convert --to html notes.md
  gomdmark convert --from html --to markdown page.html -o page.md
  gomdmark convert --to html --out-dir site/ docs/ --exclude 'drafts/**'
  gomdmark convert --to markdown --diff -o page.md page.html
  echo 'plain **bold**' | gomdmark convert --to markdown`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.from, "from", "", "input format: text, html, markdown (default: by extension)")
	cmd.Flags().StringVar(&flags.to, "to", string(config.FormatHTML), "output format: text, html, markdown, json")
	cmd.Flags().StringVar(&flags.flavor, "flavor", string(config.FlavorCommonMark), "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the result to a file (single input only)")
	cmd.Flags().StringVar(&flags.outDir, "out-dir", "", "convert files and directories into this directory")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "glob patterns to skip with --out-dir")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "concurrent conversions with --out-dir (0 = number of CPUs)")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "walk symlinked directories with --out-dir")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "keep a backup of files that get overwritten")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print a diff of output changes instead of writing")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a conversion summary to stderr")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string, flags *convertFlags) error {
	format, err := formatFlag(flags.to)
	if err != nil {
		return err
	}
	if flags.from != "" && !isInputFormat(flags.from) {
		return fmt.Errorf("%w: invalid input format %q: must be text, html or markdown", ErrInvalidUsage, flags.from)
	}
	if flags.output != "" && flags.outDir != "" {
		return fmt.Errorf("%w: --output and --out-dir are mutually exclusive", ErrInvalidUsage)
	}
	if flags.output != "" && len(args) > 1 {
		return fmt.Errorf("%w: --output accepts a single input", ErrInvalidUsage)
	}
	if flags.outDir != "" && len(args) == 0 {
		return fmt.Errorf("%w: --out-dir needs at least one path", ErrInvalidUsage)
	}
	if flags.diff && flags.output == "" && flags.outDir == "" {
		return fmt.Errorf("%w: --diff needs --output or --out-dir", ErrInvalidUsage)
	}

	cliCfg := &config.Config{Format: format}
	if cmd.Flags().Changed("flavor") {
		cliCfg.Flavor = config.Flavor(flags.flavor)
	}

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	var stats pretty.ConvertStats
	if flags.outDir != "" {
		stats, err = convertBatch(cmd, args, flags, cfg, format)
	} else {
		stats, err = convertInputs(cmd, args, flags, cfg, format)
	}
	if err != nil {
		return err
	}

	if flags.summary {
		styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.ErrOrStderr()))
		if _, err := fmt.Fprint(cmd.ErrOrStderr(), styles.FormatSummary(stats)); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if stats.FilesFailed > 0 {
		total := stats.FilesProcessed + stats.FilesFailed
		return fmt.Errorf("%w: %d of %d inputs", ErrConversionFailed, stats.FilesFailed, total)
	}
	return nil
}

// convertInputs converts stdin or the named files one after another, printing
// each result or writing it to --output.
func convertInputs(
	cmd *cobra.Command,
	args []string,
	flags *convertFlags,
	cfg *config.Config,
	format config.OutputFormat,
) (pretty.ConvertStats, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)
	stats := pretty.ConvertStats{MarkedRanges: make(map[string]int)}

	type input struct {
		path    string
		content string
		snap    *fsutil.Snapshot
	}

	var inputs []input
	if len(args) == 0 {
		text, err := readInput(cmd, nil)
		if err != nil {
			return stats, err
		}
		inputs = append(inputs, input{content: text})
	}
	for _, path := range args {
		data, snap, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			return stats, err
		}
		inputs = append(inputs, input{path: path, content: string(data), snap: snap})
	}

	for _, in := range inputs {
		from := flags.from
		if from == "" {
			from = langdetect.Detect(in.path, []byte(in.content))
		}

		out, marks, err := convertContent(ctx, cfg, logger, from, in.content, format)
		if err != nil {
			stats.FilesFailed++
			logger.Error("conversion failed", logging.FieldPath, displayName(in.path), logging.FieldError, err)
			continue
		}
		stats.FilesProcessed++
		for name, n := range marks {
			stats.MarkedRanges[name] += n
		}

		if flags.output == "" {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), out); err != nil {
				return stats, fmt.Errorf("write output: %w", err)
			}
			continue
		}

		var source *fsutil.Snapshot
		if in.snap != nil && samePath(in.path, flags.output) {
			source = in.snap
		}
		changed, diff, err := deliver(ctx, flags.output, out+"\n", flags, source)
		if err != nil {
			return stats, err
		}
		switch {
		case diff != "":
			stats.FilesDiffered++
			if err := printDiff(cmd, diff); err != nil {
				return stats, err
			}
		case changed:
			stats.FilesWritten++
			logger.Debug("wrote output", logging.FieldPath, flags.output)
		default:
			stats.FilesUnchanged++
		}
	}

	return stats, nil
}

// convertBatch converts every document under args into --out-dir using a
// pool of workers.
func convertBatch(
	cmd *cobra.Command,
	args []string,
	flags *convertFlags,
	cfg *config.Config,
	format config.OutputFormat,
) (pretty.ConvertStats, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	workDir, err := os.Getwd()
	if err != nil {
		return pretty.ConvertStats{}, fmt.Errorf("get working directory: %w", err)
	}

	task := func(ctx context.Context, file runner.File) (runner.Conversion, error) {
		data, snap, err := fsutil.ReadFile(ctx, file.Path)
		if err != nil {
			return runner.Conversion{}, err
		}

		from := flags.from
		if from == "" {
			from = langdetect.Detect(file.Path, data)
		}

		out, marks, err := convertContent(ctx, cfg, logger, from, string(data), format)
		if err != nil {
			return runner.Conversion{}, err
		}

		dest := filepath.Join(flags.outDir, filepath.FromSlash(outputName(file.Rel, format)))
		if !flags.diff {
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return runner.Conversion{}, fmt.Errorf("create output directory: %w", err)
			}
		}

		var source *fsutil.Snapshot
		if samePath(file.Path, dest) {
			source = snap
		}
		written, diff, err := deliver(ctx, dest, out+"\n", flags, source)
		if err != nil {
			return runner.Conversion{}, err
		}
		return runner.Conversion{Output: dest, Written: written, Diff: diff, Marks: marks}, nil
	}

	result, err := runner.New(task).Run(ctx, runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		ExcludeGlobs:   flags.exclude,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           flags.jobs,
	})
	if err != nil {
		return pretty.ConvertStats{}, err
	}

	for _, outcome := range result.Files {
		if outcome.Error != nil {
			logger.Error("conversion failed", logging.FieldPath, outcome.File.Path, logging.FieldError, outcome.Error)
			continue
		}
		logger.Debug("converted",
			logging.FieldPath, outcome.File.Path,
			logging.FieldOutput, outcome.Conversion.Output,
			logging.FieldWritten, outcome.Conversion.Written,
		)
		if outcome.Conversion.Diff != "" {
			if err := printDiff(cmd, outcome.Conversion.Diff); err != nil {
				return pretty.ConvertStats{}, err
			}
		}
	}

	return pretty.ConvertStats{
		FilesProcessed: result.Stats.FilesConverted,
		FilesWritten:   result.Stats.FilesWritten,
		FilesUnchanged: result.Stats.FilesUnchanged,
		FilesDiffered:  result.Stats.FilesDiffered,
		FilesFailed:    result.Stats.FilesFailed,
		MarkedRanges:   result.Stats.MarkedRanges,
	}, nil
}

// convertContent pastes content into a fresh editor and renders it. It returns
// the rendered document and the number of marked ranges per mark.
func convertContent(
	ctx context.Context,
	cfg *config.Config,
	logger *log.Logger,
	from, content string,
	format config.OutputFormat,
) (string, map[string]int, error) {
	logger.Debug("converting", logging.FieldInput, from)

	ed, err := newEditor(cfg, logger)
	if err != nil {
		return "", nil, err
	}
	if err := pasteAs(ctx, ed, from, content); err != nil {
		return "", nil, err
	}

	marks := make(map[string]int)
	for _, span := range ed.State().Spans() {
		marks[span.Mark.Type]++
	}

	out, err := renderDocument(ed, format, nil)
	if err != nil {
		return "", nil, err
	}
	return out, marks, nil
}

// isInputFormat reports whether from names a supported input format.
func isInputFormat(from string) bool {
	return from == inputText || from == inputHTML || from == inputMarkdown
}

// pasteAs pastes content into ed interpreting it as the given input format.
func pasteAs(ctx context.Context, ed *editor.Editor, from, content string) error {
	switch from {
	case inputText:
		return ed.PasteText(content)
	case inputHTML:
		return ed.PasteHTML(content)
	case inputMarkdown:
		return ed.PasteMarkdown(ctx, content)
	default:
		return fmt.Errorf("%w: invalid input format %q: must be text, html or markdown", ErrInvalidUsage, from)
	}
}

// deliver writes content to path, or with --diff returns the change writing
// it would make.
func deliver(
	ctx context.Context,
	path, content string,
	flags *convertFlags,
	source *fsutil.Snapshot,
) (bool, string, error) {
	if !flags.diff {
		written, err := writeOutput(ctx, path, content, flags.backup, source)
		return written, "", err
	}

	diff, err := fsutil.PreviewWrite(ctx, path, content)
	if err != nil {
		return false, "", err
	}
	if !diff.HasChanges() {
		return false, "", nil
	}
	logging.FromContext(ctx).Debug("output would change",
		logging.FieldPath, path,
		logging.FieldAdditions, diff.Additions,
		logging.FieldDeletions, diff.Deletions,
	)
	return false, diff.Text, nil
}

func printDiff(cmd *cobra.Command, diff string) error {
	if _, err := fmt.Fprint(cmd.OutOrStdout(), outputStyles(cmd).FormatDiff(diff)); err != nil {
		return fmt.Errorf("write diff: %w", err)
	}
	return nil
}

// writeOutput writes content to path atomically, backing up an existing file
// first when requested. When the output overwrites the input, source guards
// against the input changing while it was converted.
// It reports whether the file changed.
func writeOutput(ctx context.Context, path, content string, backup bool, source *fsutil.Snapshot) (bool, error) {
	if source != nil {
		changed, err := fsutil.Changed(ctx, source)
		if err != nil {
			return false, err
		}
		if changed {
			return false, fmt.Errorf("%s changed during conversion; not overwriting", path)
		}
	}

	if backup {
		backupPath, err := fsutil.Backup(ctx, path)
		if err != nil {
			return false, fmt.Errorf("backup %s: %w", path, err)
		}
		if backupPath != "" {
			logging.FromContext(ctx).Debug("created backup", logging.FieldPath, backupPath)
		}
	}

	written, err := fsutil.WriteIfChanged(ctx, path, []byte(content), 0)
	if err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return written, nil
}

// outputName swaps the extension of rel for the one matching format.
func outputName(rel string, format config.OutputFormat) string {
	ext := map[config.OutputFormat]string{
		config.FormatHTML:     ".html",
		config.FormatMarkdown: ".md",
		config.FormatJSON:     ".json",
		config.FormatText:     ".txt",
	}[format]
	return strings.TrimSuffix(rel, filepath.Ext(rel)) + ext
}

// samePath reports whether two paths name the same file location.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func displayName(path string) string {
	if path == "" {
		return "stdin"
	}
	return path
}

func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return "auto"
	}
	return mode
}
