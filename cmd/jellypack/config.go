// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"maps"
	"slices"

	"jellypack-cli/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `jellypack config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect jellypack configuration",
		Long: `Inspect jellypack configuration.

The first existing file is used:
  1. the --config flag
  2. the user config file
     - Linux: ~/.config/jellypack/config.cue
     - macOS: ~/Library/Application Support/jellypack/config.cue
     - Windows: %APPDATA%\jellypack\config.cue
  3. jellypack.cue in the project root

JELLYPACK_* environment variables override file values, e.g.
JELLYPACK_OUTPUT_DIR=dist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}
			path, err := config.ResolvePath(config.LoadOptions{
				ConfigFilePath: flags.configPath,
				ProjectDir:     flags.projectRoot(),
			})
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}
			showConfig(app, cfg, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(app *App, cfg *config.Config, path string) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	out := app.stdout

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	if path != "" {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintf(out, "  log_level: %s\n", valueStyle.Render(string(cfg.UI.LogLevel)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("build"))
	if cfg.Build.EnvFile == "" {
		fmt.Fprintf(out, "  env_file: %s\n", SubtitleStyle.Render("(none)"))
	} else {
		fmt.Fprintf(out, "  env_file: %s\n", valueStyle.Render(cfg.Build.EnvFile))
	}
	fmt.Fprintln(out, "  tools:")
	if len(cfg.Build.Tools) == 0 {
		fmt.Fprintf(out, "    %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, kind := range slices.Sorted(maps.Keys(cfg.Build.Tools)) {
		fmt.Fprintf(out, "    %s: %s\n", kind, valueStyle.Render(cfg.Build.Tools[kind]))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("output"))
	fmt.Fprintf(out, "  dir: %s\n", valueStyle.Render(cfg.Output.Dir))
}
