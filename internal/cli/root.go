// Package cli provides the Cobra command structure for gomdmark.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmark/internal/logging"

	// Register built-in mark extensions.
	_ "github.com/yaklabco/gomdmark/pkg/extension/bold"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gomdmark command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gomdmark",
		Short: "Inline marks for rich text: input rules, paste rules and serialization",
		Long: `gomdmark applies inline formatting marks to rich text the way an editor does.

Typing **text** or __text__ turns the delimited text bold as soon as the
closing delimiter is typed; pasting text does the same for every delimited
run. Marks parse from and render to HTML and Markdown, so documents can be
converted between plain text, HTML and Markdown.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
			cmd.SetContext(logging.WithLogger(commandContext(cmd), logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newTypeCommand())
	rootCmd.AddCommand(newPasteCommand())
	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newMarksCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter("color")
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
