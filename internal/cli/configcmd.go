package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmark/internal/configloader"
)

type configFlags struct {
	env bool
}

func newConfigCommand() *cobra.Command {
	flags := &configFlags{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Resolve configuration from every source (system, user and project files,
--config, and GOMDMARK_* environment variables) and print the result as YAML.

Examples:
  gomdmark config                  Print the merged configuration
  gomdmark config --env            List supported environment variables`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.env {
				return printEnvVars(cmd)
			}
			return printEffectiveConfig(cmd)
		},
	}

	cmd.Flags().BoolVar(&flags.env, "env", false, "list supported environment variables")

	return cmd
}

func printEffectiveConfig(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	data, err := cfg.ToYAMLWithHeader("# effective gomdmark configuration")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func printEnvVars(cmd *cobra.Command) error {
	vars := configloader.ListEnvVars()
	width := 0
	for name := range vars {
		width = max(width, len(name))
	}

	var builder strings.Builder
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		builder.WriteString(fmt.Sprintf("%-*s  %s\n", width, name, vars[name]))
	}

	_, err := fmt.Fprint(cmd.OutOrStdout(), builder.String())
	return err
}
