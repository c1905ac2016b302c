// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/spf13/cobra"

func newReleaseCommand(app *App, flags *rootFlags) *cobra.Command {
	df := &describeFlags{}

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Package the project and emit its manifest",
		Long: `Run package and describe from a single project detection.

The manifest's install type always matches the package written in the same
run, even if the .jellyfish marker changes afterwards. The manifest is
printed after the package summary unless --output is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}

			res, err := sess.service.Release(cmd.Context(), df.request(cmd))
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}

			printPackageResult(app, res.Package.ArchivePath, res.Package.Size, len(res.Package.Artifacts))
			printDescribeResult(app, res.Describe)
			return nil
		},
	}
	df.register(cmd)

	return cmd
}
