// SPDX-License-Identifier: MPL-2.0

package build

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"jellypack-cli/pkg/format"
)

var cargoProject = format.Native{Format: format.KindCargo, Name: "foo", Version: "1.2.0"}

// fakeTool writes an executable shell script standing in for the build tool.
// Tests using it do not run in parallel: a concurrent fork can hold the
// script open for writing and fail the exec with ETXTBSY.
func fakeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake build tool is a POSIX shell script")
	}
	path := filepath.Join(t.TempDir(), "cargo")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunner_Success(t *testing.T) {
	dir := t.TempDir()
	tool := fakeTool(t, `echo "$@" > invoked.txt; echo building; echo warn >&2`)

	var stdout, stderr bytes.Buffer
	r := NewRunner(dir, WithToolPath(format.KindCargo, tool), WithOutput(&stdout, &stderr))

	outcome, err := r.Build(cargoProject)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !outcome.Succeeded || !outcome.ExitCodeKnown || outcome.ExitCode != 0 {
		t.Errorf("Build() outcome = %+v, want success with code 0", outcome)
	}

	invoked, err := os.ReadFile(filepath.Join(dir, "invoked.txt"))
	if err != nil {
		t.Fatalf("tool did not run in project dir: %v", err)
	}
	if got := strings.TrimSpace(string(invoked)); got != "build --release" {
		t.Errorf("tool args = %q, want %q", got, "build --release")
	}
	if stdout.String() != "building\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
	if stderr.String() != "warn\n" {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunner_BuildFailed(t *testing.T) {
	tool := fakeTool(t, "exit 101")
	r := NewRunner(t.TempDir(), WithToolPath(format.KindCargo, tool), WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))

	outcome, err := r.Build(cargoProject)
	if !errors.Is(err, ErrBuildFailed) {
		t.Fatalf("Build() error = %v, want ErrBuildFailed", err)
	}
	var bfe *BuildFailedError
	if !errors.As(err, &bfe) {
		t.Fatalf("error is not *BuildFailedError: %T", err)
	}
	if bfe.Outcome.ExitCode != 101 || !bfe.Outcome.ExitCodeKnown {
		t.Errorf("BuildFailedError outcome = %+v", bfe.Outcome)
	}
	if outcome.Succeeded || outcome.ExitCode != 101 {
		t.Errorf("Build() outcome = %+v, want failure with code 101", outcome)
	}
	if !strings.Contains(err.Error(), "101") {
		t.Errorf("error message %q should carry the exit code", err.Error())
	}
}

func TestRunner_ToolNotFound(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "no-such-cargo")
	r := NewRunner(t.TempDir(), WithToolPath(format.KindCargo, missing))

	_, err := r.Build(cargoProject)
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("Build() error = %v, want ErrToolNotFound", err)
	}
	var tnf *ToolNotFoundError
	if !errors.As(err, &tnf) || tnf.Tool != missing {
		t.Errorf("ToolNotFoundError = %+v", tnf)
	}
}

func TestRunner_RelativeToolPathResolvesAgainstWorkingDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake build tool is a POSIX shell script")
	}
	cwd := t.TempDir()
	if err := os.MkdirAll(filepath.Join(cwd, "tools"), 0o755); err != nil {
		t.Fatal(err)
	}
	script := "#!/bin/sh\necho ran > ran.txt\n"
	if err := os.WriteFile(filepath.Join(cwd, "tools", "cargo"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(cwd)

	projectDir := t.TempDir()
	r := NewRunner(projectDir, WithToolPath(format.KindCargo, "./tools/cargo"), WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))

	outcome, err := r.Build(cargoProject)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !outcome.Succeeded {
		t.Errorf("Build() outcome = %+v, want success", outcome)
	}
	if _, err := os.Stat(filepath.Join(projectDir, "ran.txt")); err != nil {
		t.Errorf("tool did not run in project dir: %v", err)
	}
}

func TestRunner_NoneFormat(t *testing.T) {
	t.Parallel()

	_, err := NewRunner(t.TempDir()).Build(format.None{})
	if !errors.Is(err, ErrNoProjectFormat) {
		t.Errorf("Build(None) error = %v, want ErrNoProjectFormat", err)
	}
}

func TestRunner_Env(t *testing.T) {
	dir := t.TempDir()
	tool := fakeTool(t, `printf '%s' "$JP_PROFILE" > profile.txt`)
	r := NewRunner(dir, WithToolPath(format.KindCargo, tool), WithEnv([]string{"JP_PROFILE=ci"}))

	if _, err := r.Build(cargoProject); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "profile.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "ci" {
		t.Errorf("JP_PROFILE = %q, want %q", got, "ci")
	}
}

func TestOutcomeFromExit(t *testing.T) {
	t.Parallel()

	if o := outcomeFromExit(-1); o.ExitCodeKnown {
		t.Errorf("outcomeFromExit(-1) = %+v, want unknown exit code", o)
	}
	if o := outcomeFromExit(2); !o.ExitCodeKnown || o.ExitCode != 2 || o.Succeeded {
		t.Errorf("outcomeFromExit(2) = %+v", o)
	}
}
