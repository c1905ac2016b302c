// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io/fs"

	"jellypack-cli/internal/issue"
	"jellypack-cli/pkg/archive"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
)

func newInspectCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <package>",
		Short: "List the contents of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := archive.Entries(args[0])
			if err != nil {
				return app.fail(cmd, issue.NewErrorContext().
					WithStage("inspect package").
					WithSubject(args[0]).
					WithHint("Check that the file is a ."+archive.Extension+" package written by jellypack").
					Wrap(err).
					Err(), flags.verbose)
			}

			var total uint64
			fmt.Fprintln(app.stdout, TitleStyle.Render(args[0]))
			for _, e := range entries {
				name := e.Name
				if e.IsDir {
					name = entryDirStyle.Render(name)
				}
				fmt.Fprintf(app.stdout, "  %s  %8s  %s\n",
					fs.FileMode(e.Mode).Perm(),
					humanize.Bytes(uint64(max(e.Size, 0))),
					name,
				)
				total += uint64(max(e.Size, 0))
			}
			fmt.Fprintf(app.stdout, "%s\n", SubtitleStyle.Render(fmt.Sprintf("%s, %s uncompressed",
				english.Plural(len(entries), "entry", "entries"), humanize.Bytes(total))))
			return nil
		},
	}
}
