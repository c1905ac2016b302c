// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"jellypack-cli/pkg/build"
	"jellypack-cli/pkg/format"
)

type (
	// Project is a temporary cargo project root.
	Project struct {
		Root string
	}

	// SimulatedBuild is a build.Executor that writes placeholder release
	// outputs instead of spawning the native tool.
	SimulatedBuild struct {
		// Root is the project root the outputs are written under.
		Root string
		// Outputs are file names created in target/release on success.
		Outputs []string
		// Outcome is returned when Err is nil. The zero value is replaced by
		// a successful outcome.
		Outcome build.Outcome
		// Err fails Build without writing any output.
		Err error

		mu    sync.Mutex
		calls int
	}
)

// NewCargoProject creates a project root with a Cargo.toml declaring name
// and version.
func NewCargoProject(t testing.TB, name, version string) *Project {
	t.Helper()
	p := &Project{Root: t.TempDir()}
	p.WriteDescriptor(t, "[package]\nname = \""+name+"\"\nversion = \""+version+"\"\n")
	return p
}

// WriteDescriptor replaces Cargo.toml with content.
func (p *Project) WriteDescriptor(t testing.TB, content string) {
	t.Helper()
	MustWriteFile(t, filepath.Join(p.Root, "Cargo.toml"), content, 0o644)
}

// MarkExtended creates the install-format marker file.
func (p *Project) MarkExtended(t testing.TB) {
	t.Helper()
	MustWriteFile(t, filepath.Join(p.Root, format.MarkerFile), "", 0o644)
}

// AddFile writes a file relative to the project root and returns its path.
func (p *Project) AddFile(t testing.TB, rel, content string) string {
	t.Helper()
	return MustWriteFile(t, filepath.Join(p.Root, filepath.FromSlash(rel)), content, 0o644)
}

// Build implements build.Executor.
func (b *SimulatedBuild) Build(format.ProjectFormat) (build.Outcome, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()

	if b.Err != nil {
		return b.Outcome, b.Err
	}

	dir := filepath.Join(b.Root, "target", "release")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return build.Outcome{}, err
	}
	for _, name := range b.Outputs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("binary "+name), 0o755); err != nil {
			return build.Outcome{}, err
		}
	}

	if b.Outcome == (build.Outcome{}) {
		return build.Outcome{Succeeded: true, ExitCodeKnown: true}, nil
	}
	return b.Outcome, nil
}

// Calls returns how many times Build ran.
func (b *SimulatedBuild) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}
