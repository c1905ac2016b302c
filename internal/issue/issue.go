// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	NoProjectFormatId Id = iota + 1
	MalformedDescriptorId
	BuildToolNotFoundId
	BuildFailedId
	ArchiveFailedId
	ManifestFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	noProjectFormatIssue = &Issue{
		id: NoProjectFormatId,
		mdMsg: `
# No project found!

jellypack could not recognize the project in this directory.

## Recognized projects:
- **cargo**: a ` + "`Cargo.toml`" + ` with a ` + "`[package]`" + ` table

## Things you can try:
- Run jellypack from the project root, or point at it:
~~~
$ jellypack package --dir /path/to/project
~~~`,
		extLinks: []HttpLink{"https://doc.rust-lang.org/cargo/reference/manifest.html"},
	}

	malformedDescriptorIssue = &Issue{
		id: MalformedDescriptorId,
		mdMsg: `
# Project descriptor could not be read!

The descriptor exists but does not have the expected shape.

## The package table must declare a name and a version:
~~~toml
[package]
name = "foo"
version = "1.2.0"
~~~

Versions inherited from a workspace (` + "`version.workspace = true`" + `) are not supported.`,
		extLinks: []HttpLink{"https://doc.rust-lang.org/cargo/reference/manifest.html#the-package-section"},
	}

	buildToolNotFoundIssue = &Issue{
		id: BuildToolNotFoundId,
		mdMsg: `
# Build tool not found!

The project's native build tool is not on your PATH.

## Things you can try:
- Install the Rust toolchain:
~~~
$ curl --proto '=https' --tlsv1.2 -sSf https://sh.rustup.rs | sh
~~~
- Or point jellypack at a specific binary in your config:
~~~cue
build: tools: cargo: "/opt/rust/bin/cargo"
~~~`,
		extLinks: []HttpLink{"https://rustup.rs"},
	}

	buildFailedIssue = &Issue{
		id: BuildFailedId,
		mdMsg: `
# The release build failed!

The build tool ran but exited with an error. Its own output above
explains why; nothing was packaged.

## Things you can try:
- Reproduce the build by hand:
~~~
$ cargo build --release
~~~`,
	}

	archiveFailedIssue = &Issue{
		id: ArchiveFailedId,
		mdMsg: `
# The package could not be written!

An artifact or sidecar file could not be read, or the output directory is
not writable. No partial package was left behind.

## Things you can try:
- Check permissions on the output directory and the build outputs
- Re-run with ` + "`--verbose`" + ` to see which entry failed`,
	}

	manifestFailedIssue = &Issue{
		id: ManifestFailedId,
		mdMsg: `
# The manifest could not be generated!

Encoding the package manifest failed. This points to a bug in jellypack;
please report it together with the project descriptor.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the jellypack configuration file.

## Configuration file locations:
- Linux: ~/.config/jellypack/config.cue
- macOS: ~/Library/Application Support/jellypack/config.cue
- Windows: %APPDATA%\jellypack\config.cue

## Example configuration:
~~~cue
ui: {
  verbose: false
  log_level: "info"
}
build: {
  env_file: ".env.build?"
}
output: dir: "dist"
~~~`,
	}

	issues = map[Id]*Issue{
		noProjectFormatIssue.id:     noProjectFormatIssue,
		malformedDescriptorIssue.id: malformedDescriptorIssue,
		buildToolNotFoundIssue.id:   buildToolNotFoundIssue,
		buildFailedIssue.id:         buildFailedIssue,
		archiveFailedIssue.id:       archiveFailedIssue,
		manifestFailedIssue.id:      manifestFailedIssue,
		configLoadFailedIssue.id:    configLoadFailedIssue,
	}
)

// Values returns every known issue ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
