// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"jellypack-cli/internal/issue"
	"jellypack-cli/internal/testutil"
	"jellypack-cli/pkg/archive"
	"jellypack-cli/pkg/artifact"
	"jellypack-cli/pkg/build"
	"jellypack-cli/pkg/format"
	"jellypack-cli/pkg/manifest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, root string, exec build.Executor) (*Service, string) {
	t.Helper()
	out := t.TempDir()
	return NewService(root,
		WithExecutor(exec),
		WithLocator(artifact.NewLocator("linux")),
		WithPackager(archive.NewPackager(archive.WithOutputDir(out), archive.WithProjectRoot(root))),
	), out
}

func entryNames(t *testing.T, path string) []string {
	t.Helper()
	entries, err := archive.Entries(path)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

func TestPackage_EndToEnd(t *testing.T) {
	t.Parallel()

	p := testutil.NewCargoProject(t, "foo", "1.2.0")
	exec := &testutil.SimulatedBuild{Root: p.Root, Outputs: []string{"foo"}}
	svc, out := newService(t, p.Root, exec)

	res, err := svc.Package(t.Context())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "foo.jpkg"), res.ArchivePath)
	assert.Equal(t, format.InstallStandard, res.Install)
	assert.Equal(t, "foo", res.Project.Name)
	assert.Positive(t, res.Size)
	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, artifact.KindExecutable, res.Artifacts[0].Kind)
	assert.Equal(t, []string{"bin/", "bin/foo"}, entryNames(t, res.ArchivePath))
	assert.Equal(t, 1, exec.Calls())
}

func TestPackage_ExtendedIncludesSidecars(t *testing.T) {
	t.Parallel()

	p := testutil.NewCargoProject(t, "my-tool", "0.3.1")
	p.MarkExtended(t)
	p.AddFile(t, "setup.jfx", "x")
	p.AddFile(t, "README.md", "x")

	exec := &testutil.SimulatedBuild{Root: p.Root, Outputs: []string{"my-tool", "libmy_tool.a"}}
	svc, _ := newService(t, p.Root, exec)

	res, err := svc.Package(t.Context())
	require.NoError(t, err)

	assert.Equal(t, format.InstallExtended, res.Install)
	assert.Equal(t, []string{"bin/", "bin/libmy_tool.a", "bin/my-tool", "setup.jfx"}, entryNames(t, res.ArchivePath))
}

func TestPackage_NoArtifactsStillPackages(t *testing.T) {
	t.Parallel()

	p := testutil.NewCargoProject(t, "empty", "1.0.0")
	svc, _ := newService(t, p.Root, &testutil.SimulatedBuild{Root: p.Root})

	res, err := svc.Package(t.Context())
	require.NoError(t, err)
	assert.Empty(t, res.Artifacts)
	assert.Equal(t, []string{"bin/"}, entryNames(t, res.ArchivePath))
}

func TestPackage_NoProjectFormat(t *testing.T) {
	t.Parallel()

	exec := &testutil.SimulatedBuild{}
	svc, _ := newService(t, t.TempDir(), exec)

	_, err := svc.Package(t.Context())
	require.ErrorIs(t, err, ErrNoProjectFormat)

	var ae *issue.ActionableError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, issue.NoProjectFormatId, ae.Issue)
	assert.Zero(t, exec.Calls(), "build must not run without a project")
}

func TestPackage_MalformedDescriptor(t *testing.T) {
	t.Parallel()

	p := testutil.NewCargoProject(t, "foo", "1.0.0")
	p.WriteDescriptor(t, "[package]\nname = \"foo\"\n")
	exec := &testutil.SimulatedBuild{Root: p.Root}
	svc, _ := newService(t, p.Root, exec)

	_, err := svc.Package(t.Context())
	require.ErrorIs(t, err, format.ErrMalformedDescriptor)

	var ae *issue.ActionableError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, issue.MalformedDescriptorId, ae.Issue)
	assert.Equal(t, filepath.Join(p.Root, "Cargo.toml"), ae.Subject)
	assert.Zero(t, exec.Calls())
}

func TestPackage_BuildFailures(t *testing.T) {
	t.Parallel()

	exit101 := build.Outcome{ExitCode: 101, ExitCodeKnown: true}

	tests := []struct {
		name      string
		outcome   build.Outcome
		err       error
		wantErr   error
		wantIssue issue.Id
	}{
		{
			name:      "tool not found",
			err:       &build.ToolNotFoundError{Tool: "cargo", Cause: errors.New("not in PATH")},
			wantErr:   build.ErrToolNotFound,
			wantIssue: issue.BuildToolNotFoundId,
		},
		{
			name:      "non-zero exit",
			outcome:   exit101,
			err:       &build.BuildFailedError{Tool: "cargo", Outcome: exit101},
			wantErr:   build.ErrBuildFailed,
			wantIssue: issue.BuildFailedId,
		},
		{
			name:      "unsuccessful outcome without error",
			outcome:   build.Outcome{ExitCode: 2, ExitCodeKnown: true},
			wantErr:   build.ErrBuildFailed,
			wantIssue: issue.BuildFailedId,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := testutil.NewCargoProject(t, "foo", "1.0.0")
			exec := &testutil.SimulatedBuild{Root: p.Root, Outputs: []string{"foo"}, Outcome: tt.outcome, Err: tt.err}
			svc, out := newService(t, p.Root, exec)

			_, err := svc.Package(t.Context())
			require.ErrorIs(t, err, tt.wantErr)

			var ae *issue.ActionableError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.wantIssue, ae.Issue)
			assert.NoFileExists(t, filepath.Join(out, "foo.jpkg"))
		})
	}
}

func TestPackage_ArchiveFailure(t *testing.T) {
	t.Parallel()

	p := testutil.NewCargoProject(t, "foo", "1.0.0")
	svc := NewService(p.Root,
		WithExecutor(&testutil.SimulatedBuild{Root: p.Root, Outputs: []string{"foo"}}),
		WithPackager(archive.NewPackager(archive.WithOutputDir(filepath.Join(t.TempDir(), "missing")))),
	)

	_, err := svc.Package(t.Context())
	require.ErrorIs(t, err, archive.ErrCreateFailed)

	var ae *issue.ActionableError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, issue.ArchiveFailedId, ae.Issue)
}

func TestPackage_CanceledBeforeBuild(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	p := testutil.NewCargoProject(t, "foo", "1.0.0")
	exec := &testutil.SimulatedBuild{Root: p.Root}
	svc, _ := newService(t, p.Root, exec)

	_, err := svc.Package(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, exec.Calls())
}

func TestDescribe_EndToEnd(t *testing.T) {
	t.Parallel()

	p := testutil.NewCargoProject(t, "foo", "1.2.0")
	exec := &testutil.SimulatedBuild{Root: p.Root}
	svc, _ := newService(t, p.Root, exec)

	url := "https://x/y"
	res, err := svc.Describe(t.Context(), DescribeRequest{DownloadURL: &url})
	require.NoError(t, err)

	assert.Equal(t, &manifest.PackageManifest{
		Name:         "foo",
		FriendlyName: "foo",
		Version:      "1.2.0",
		Install:      manifest.InstallInfo{URL: "https://x/y", Type: manifest.InstallTypeStandard},
	}, res.Manifest)
	assert.Empty(t, res.OutputPath)
	assert.Zero(t, exec.Calls(), "describe must not build")

	parsed, err := manifest.Parse(res.Data)
	require.NoError(t, err)
	assert.Equal(t, res.Manifest, parsed)
}

func TestDescribe_PlaceholderAndOutputFile(t *testing.T) {
	t.Parallel()

	p := testutil.NewCargoProject(t, "foo", "1.2.0")
	p.MarkExtended(t)
	svc, _ := newService(t, p.Root, &testutil.SimulatedBuild{Root: p.Root})

	dest := filepath.Join(t.TempDir(), "foo.toml")
	res, err := svc.Describe(t.Context(), DescribeRequest{OutputPath: dest})
	require.NoError(t, err)

	assert.Equal(t, dest, res.OutputPath)
	assert.True(t, res.Manifest.HasPlaceholderURL())
	assert.Equal(t, manifest.InstallTypeJellyfish, res.Manifest.Install.Type)

	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, res.Data, written)
}

func TestDescribe_OutputWriteFailure(t *testing.T) {
	t.Parallel()

	p := testutil.NewCargoProject(t, "foo", "1.2.0")
	svc, _ := newService(t, p.Root, &testutil.SimulatedBuild{Root: p.Root})

	_, err := svc.Describe(t.Context(), DescribeRequest{OutputPath: filepath.Join(t.TempDir(), "no", "such", "dir.toml")})

	var ae *issue.ActionableError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, issue.ManifestFailedId, ae.Issue)
}

func TestRelease_SharesDetection(t *testing.T) {
	t.Parallel()

	p := testutil.NewCargoProject(t, "foo", "1.2.0")
	p.MarkExtended(t)
	exec := &testutil.SimulatedBuild{Root: p.Root, Outputs: []string{"foo"}}
	svc, _ := newService(t, p.Root, exec)

	dest := filepath.Join(t.TempDir(), "foo.toml")
	res, err := svc.Release(t.Context(), DescribeRequest{OutputPath: dest})
	require.NoError(t, err)

	assert.Equal(t, res.Package.Detection, res.Describe.Detection)
	assert.Equal(t, format.InstallExtended, res.Package.Install)
	assert.Equal(t, manifest.InstallTypeJellyfish, res.Describe.Manifest.Install.Type)
	assert.FileExists(t, res.Package.ArchivePath)
	assert.FileExists(t, dest)
}

func TestRelease_BuildFailureWritesNoManifest(t *testing.T) {
	t.Parallel()

	p := testutil.NewCargoProject(t, "foo", "1.2.0")
	exec := &testutil.SimulatedBuild{
		Root: p.Root,
		Err:  &build.BuildFailedError{Tool: "cargo", Outcome: build.Outcome{ExitCode: 1, ExitCodeKnown: true}},
	}
	svc, _ := newService(t, p.Root, exec)

	dest := filepath.Join(t.TempDir(), "foo.toml")
	_, err := svc.Release(t.Context(), DescribeRequest{OutputPath: dest})
	require.ErrorIs(t, err, build.ErrBuildFailed)
	assert.NoFileExists(t, dest)

	leftovers, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "staged manifest should be removed")
}

func TestRelease_UnwritableManifestFailsBeforeBuild(t *testing.T) {
	t.Parallel()

	p := testutil.NewCargoProject(t, "foo", "1.2.0")
	exec := &testutil.SimulatedBuild{Root: p.Root, Outputs: []string{"foo"}}
	svc, out := newService(t, p.Root, exec)

	dest := filepath.Join(t.TempDir(), "no", "such", "foo.toml")
	_, err := svc.Release(t.Context(), DescribeRequest{OutputPath: dest})

	var ae *issue.ActionableError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, issue.ManifestFailedId, ae.Issue)
	assert.Zero(t, exec.Calls(), "build must not run when the manifest cannot be written")
	assert.NoFileExists(t, filepath.Join(out, "foo.jpkg"))
}

func TestDetect_ForcedFormat(t *testing.T) {
	t.Parallel()

	svc := NewService(t.TempDir(), WithFormat(format.KindCargo))
	_, err := svc.Detect(t.Context())
	require.ErrorIs(t, err, format.ErrDescriptorNotFound)

	svc = NewService(t.TempDir(), WithFormat("npm"))
	_, err = svc.Detect(t.Context())
	require.ErrorIs(t, err, format.ErrUnknownFormat)
}
