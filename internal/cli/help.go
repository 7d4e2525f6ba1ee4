package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gomdmark/internal/ui/pretty"
)

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Mark        lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles derives help styles from the output styles for a color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	base := pretty.NewStyles(colorEnabled)
	styles := &HelpStyles{
		Command:     base.Name,
		Heading:     base.SummaryTitle,
		Subcommand:  base.Success,
		Flag:        base.Shortcut,
		Description: base.Description,
		Example:     base.Dim,
		Mark:        base.MarkStyle("bold"),
		Dim:         base.Dim,
	}
	if colorEnabled {
		styles.Heading = styles.Heading.Foreground(lipgloss.Color("11"))
		styles.Subcommand = styles.Subcommand.UnsetBold()
	}
	return styles
}

// HelpFormatter renders styled help for a command tree. The color mode is
// read from a flag of the command being rendered, so it is only known once
// flags are parsed.
type HelpFormatter struct {
	colorFlag string
}

// NewHelpFormatter creates a help formatter that takes its color mode from
// the flag named colorFlag.
func NewHelpFormatter(colorFlag string) *HelpFormatter {
	return &HelpFormatter{colorFlag: colorFlag}
}

// stylesFor resolves the help styles for cmd writing to w.
func (h *HelpFormatter) stylesFor(cmd *cobra.Command, w io.Writer) *HelpStyles {
	mode := "auto"
	if f := cmd.Flag(h.colorFlag); f != nil {
		mode = f.Value.String()
	}
	return NewHelpStyles(pretty.IsColorEnabled(mode, w))
}

// render executes one of the help templates for cmd.
func (h *HelpFormatter) render(cmd *cobra.Command, w io.Writer, name, text string) error {
	view := helpView{styles: h.stylesFor(cmd, w)}
	tmpl, err := template.New(name).Funcs(view.funcs()).Parse(text)
	if err != nil {
		return fmt.Errorf("parse %s template: %w", name, err)
	}
	if err := tmpl.Execute(w, cmd); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// helpView renders help fragments with one set of styles.
type helpView struct {
	styles *HelpStyles
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}
{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}{{end}}
{{- if .HasExample}}

{{ heading "Examples:" }}
{{ example .Example }}{{end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (pad .Name .NamePadding) }} {{ describe .Short }}{{end}}{{end}}{{end}}
{{- if not .HasParent}}{{with marks}}

{{ heading "Marks:" }}
{{ . }}{{end}}{{end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}{{end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}{{end}}
{{- if .HasAvailableSubCommands}}

Run "{{ command (print .CommandPath " [command] --help") }}" for details on a command.{{end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trimLines . }}

{{end}}` + usageTemplate

func (v helpView) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":    v.styles.Heading.Render,
		"command":    v.styles.Command.Render,
		"subcommand": v.styles.Subcommand.Render,
		"describe":   v.styles.Description.Render,
		"example":    v.styles.Example.Render,
		"dim":        v.styles.Dim.Render,
		"flags":      v.flagLines,
		"marks":      v.markLines,
		"pad":        rpad,
		"join":       strings.Join,
		"trimLines":  trimTrailingWhitespaces,
	}
}

// markLines lists the registered marks and their shortcuts for the root help.
func (v helpView) markLines() string {
	exts, err := registeredExtensions()
	if err != nil || len(exts) == 0 {
		return ""
	}

	lines := make([]string, 0, len(exts))
	for _, ext := range exts {
		line := "  " + v.styles.Mark.Render(rpad(ext.Name, 10)) + " " + v.styles.Description.Render(ext.Description)
		for _, pair := range ext.ShortcutList() {
			line += v.styles.Dim.Render(" [" + pair[0] + "]")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// flagRow is one flag in the help output, unstyled.
type flagRow struct {
	names string
	kind  string
	usage string
}

// flagLines renders the visible flags of a set as aligned, styled rows.
func (v helpView) flagLines(flags *pflag.FlagSet) string {
	var rows []flagRow
	width := 0

	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		row := flagRow{names: "    --" + f.Name}
		if f.Shorthand != "" {
			row.names = "-" + f.Shorthand + ", --" + f.Name
		}
		row.kind, row.usage = pflag.UnquoteUsage(f)
		if hasDefault(f) {
			row.usage += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		rows = append(rows, row)

		if w := len(row.names) + len(row.kind) + 1; w > width {
			width = w
		}
	})

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		plain := len(row.names)
		line := "  " + v.styles.Flag.Render(row.names)
		if row.kind != "" {
			line += " " + v.styles.Dim.Render(row.kind)
			plain += len(row.kind) + 1
		}
		line += strings.Repeat(" ", width-plain+3) + v.styles.Description.Render(row.usage)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// hasDefault reports whether a flag default is worth printing.
func hasDefault(f *pflag.Flag) bool {
	switch f.DefValue {
	case "", "false", "0", "[]":
		return false
	}
	return true
}

// ApplyToCommand installs styled help and usage output on cmd. Subcommands
// inherit both.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return h.render(command, command.OutOrStderr(), "usage", usageTemplate)
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := h.render(command, command.OutOrStdout(), "help", helpTemplate); err != nil {
			command.PrintErrln(err)
		}
	})
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
