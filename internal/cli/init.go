package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmark/internal/logging"
	"github.com/yaklabco/gomdmark/pkg/config"
	"github.com/yaklabco/gomdmark/pkg/fsutil"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	format string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Initialize a new gomdmark configuration file",
		Long: `Create a new .gomdmark.yml configuration file in the current directory
with sensible defaults and every registered mark documented.

Examples:
  gomdmark init                    Create .gomdmark.yml
  gomdmark init --format json      Create .gomdmark.json instead
  gomdmark init config/custom.yml  Write to a custom file path`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runInit(cmd, flags, path)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags, outputPath string) error {
	logger := logging.NewInteractive(cmd.OutOrStdout())

	if flags.format != "yaml" && flags.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrInvalidUsage, flags.format)
	}

	if outputPath == "" {
		if flags.format == formatJSON {
			outputPath = ".gomdmark.json"
		} else {
			outputPath = ".gomdmark.yml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Format: flags.format,
		Marks:  markInfoProvider,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(commandContext(cmd), absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'gomdmark marks' to see all available marks")

	return nil
}

// markInfoProvider describes the registered marks for template generation.
func markInfoProvider() []config.MarkInfo {
	exts, err := registeredExtensions()
	if err != nil {
		logging.Default().Warn("listing marks for template", logging.FieldError, err)
		return nil
	}

	infos := make([]config.MarkInfo, 0, len(exts))
	for _, ext := range exts {
		info := config.MarkInfo{
			Name:        ext.Name,
			Description: ext.Description,
			Options:     ext.Options,
		}
		for _, pair := range ext.ShortcutList() {
			info.Shortcuts = append(info.Shortcuts, pair[0]+" "+pair[1])
		}
		infos = append(infos, info)
	}
	return infos
}
