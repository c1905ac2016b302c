// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the jellypack command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "jellypack",
		Short: "Turn a source project into an installable package",
		Long: TitleStyle.Render("jellypack") + SubtitleStyle.Render(" - Turn a source project into an installable package") + `

jellypack detects the project's build format, runs its native release
build, collects the binaries it produced and bundles them into a
compressed package next to a generated package manifest.

` + SubtitleStyle.Render("Recognized projects:") + `
  cargo    Cargo.toml with a [package] table

A .jellyfish marker file at the project root selects the extended install
format, which also bundles every top-level *.jfx file.

` + SubtitleStyle.Render("Examples:") + `
  jellypack package                      Build and package the project
  jellypack describe --url https://...   Print the package manifest
  jellypack release -o foo.toml          Package and write the manifest
  jellypack inspect foo.jpkg             List a package's contents`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging and detailed error guidance")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $HOME/.config/jellypack/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&flags.dir, "dir", "C", "", "project root (default is the working directory)")
	rootCmd.PersistentFlags().StringVar(&flags.format, "format", "", "force the project format instead of detecting it (e.g. cargo)")

	rootCmd.AddCommand(newPackageCommand(app, flags))
	rootCmd.AddCommand(newDescribeCommand(app, flags))
	rootCmd.AddCommand(newReleaseCommand(app, flags))
	rootCmd.AddCommand(newInspectCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the jellypack CLI and exits the process with the resulting code.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(exitFailure))
	}
}
