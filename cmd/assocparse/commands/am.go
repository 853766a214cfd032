package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/assocparse/am"
	"github.com/teranos/assocparse/errors"
)

func newAmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "am",
		Short: "Manage assocparse configuration",
		Long: `am - Manage assocparse configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (ASSOCPARSE_* prefix, e.g. ASSOCPARSE_PARSER_FORMAT)
3. Project config (am.toml or config.toml, searched upward from the working directory)
4. User config (~/.assocparse/am.toml)
5. System config (/etc/assocparse/am.toml)
6. Default values

Examples:
  assocparse am show                  # Show effective configuration as TOML
  assocparse am show --sources        # Show where each setting came from
  assocparse am init                  # Write ./am.toml with defaults
  assocparse am validate              # Validate current configuration`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newAmShowCmd(), newAmInitCmd(), newAmValidateCmd())
	return cmd
}

func newAmShowCmd() *cobra.Command {
	var format string
	var sources bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sources {
				return showSources(cmd, format)
			}
			cfg, err := am.Load()
			if err != nil {
				return errors.Wrap(err, "failed to load config")
			}
			if format == "toml" {
				data, err := toml.Marshal(cfg)
				if err != nil {
					return errors.Wrap(err, "failed to marshal config to TOML")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "# assocparse configuration\n%s", data)
				return nil
			}
			return writeStructured(cmd.OutOrStdout(), format, cfg)
		},
	}
	cmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")
	cmd.Flags().BoolVar(&sources, "sources", false, "List every setting with its origin")
	return cmd
}

func showSources(cmd *cobra.Command, format string) error {
	settings := am.Introspect()
	if format != "toml" {
		return writeStructured(cmd.OutOrStdout(), format, settings)
	}

	data := pterm.TableData{{"KEY", "VALUE", "SOURCE", "FROM"}}
	for _, s := range settings {
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render settings")
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)
	return nil
}

func newAmInitCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file holding the defaults",
		Long: `Write a configuration file holding every setting at its default value.

An existing file is kept as <file>.back1 (older copies rotate to .back2
and .back3).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				wd, err := os.Getwd()
				if err != nil {
					return errors.Wrap(err, "failed to determine working directory")
				}
				path = filepath.Join(wd, "am.toml")
			}
			if err := am.WriteConfig(am.Defaults(), path); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "File to write (default ./am.toml)")
	return cmd
}

func newAmValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := am.Load()
			if err != nil {
				return errors.Wrap(err, "configuration validation failed")
			}
			if _, err := cfg.BuildParserConfig(); err != nil {
				return errors.Wrap(err, "configuration validation failed")
			}
			printSuccess(cmd.OutOrStdout(), "Configuration is valid")
			return nil
		},
	}
}
