// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
)

func newPackageCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "package",
		Short: "Build the project and bundle its artifacts",
		Long: `Build the project with its native tool and bundle the release artifacts.

The package is written as <name>.jpkg to output.dir (the working
directory by default). A failed build aborts packaging and jellypack exits
with the build tool's exit code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}

			res, err := sess.service.Package(cmd.Context())
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}

			printPackageResult(app, res.ArchivePath, res.Size, len(res.Artifacts))
			return nil
		},
	}
}

func printPackageResult(app *App, path string, size int64, artifacts int) {
	fmt.Fprintf(app.stdout, "%s %s (%s, %s)\n",
		SuccessStyle.Render("Packaged"),
		CmdStyle.Render(path),
		humanize.Bytes(uint64(max(size, 0))),
		english.Plural(artifacts, "artifact", "artifacts"),
	)
}
