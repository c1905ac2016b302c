// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"jellypack-cli/internal/app/pipeline"

	"github.com/spf13/cobra"
)

// describeFlags holds the manifest override flags shared by describe and release.
type describeFlags struct {
	url    string
	output string
}

func (f *describeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "url", "", "download URL written to install.url")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the manifest to this file instead of stdout")
}

// request converts the flags into a DescribeRequest. An unset --url keeps
// the placeholder; an explicit empty --url is passed through.
func (f *describeFlags) request(cmd *cobra.Command) pipeline.DescribeRequest {
	req := pipeline.DescribeRequest{OutputPath: f.output}
	if cmd.Flags().Changed("url") {
		url := f.url
		req.DownloadURL = &url
	}
	return req
}

func newDescribeCommand(app *App, flags *rootFlags) *cobra.Command {
	df := &describeFlags{}

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the package manifest for the project",
		Long: `Print the package manifest derived from the project descriptor.

describe never builds the project. Without --url the install URL is the
placeholder <download-url>.`,
		Example: `  # Print the manifest
  jellypack describe

  # Fill in the download URL and write to a file
  jellypack describe --url https://example.com/foo.jpkg -o foo.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}

			res, err := sess.service.Describe(cmd.Context(), df.request(cmd))
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}

			printDescribeResult(app, res)
			return nil
		},
	}
	df.register(cmd)

	return cmd
}

func printDescribeResult(app *App, res *pipeline.DescribeResult) {
	if res.OutputPath == "" {
		fmt.Fprint(app.stdout, string(res.Data))
		return
	}
	fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Manifest written to"), CmdStyle.Render(res.OutputPath))
}
