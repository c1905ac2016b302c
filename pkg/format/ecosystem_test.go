// SPDX-License-Identifier: MPL-2.0

package format

import (
	"errors"
	"slices"
	"testing"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	eco, ok := Lookup(KindCargo)
	if !ok {
		t.Fatal("Lookup(cargo) not found")
	}
	if eco.Descriptor != "Cargo.toml" {
		t.Errorf("Descriptor = %q", eco.Descriptor)
	}
	if eco.Tool != "cargo" || !slices.Equal(eco.BuildArgs, []string{"build", "--release"}) {
		t.Errorf("build invocation = %s %v", eco.Tool, eco.BuildArgs)
	}
	if eco.OutputDir != "target/release" {
		t.Errorf("OutputDir = %q", eco.OutputDir)
	}

	if _, ok := Lookup(Kind("nope")); ok {
		t.Error("Lookup(nope) should not be found")
	}
}

func TestEcosystems_ReturnsCopy(t *testing.T) {
	t.Parallel()

	ecos := Ecosystems()
	ecos[0].Tool = "mutated"
	if eco, _ := Lookup(KindCargo); eco.Tool != "cargo" {
		t.Error("Ecosystems() must not expose the registry")
	}
}

func TestCargoArtifactNames(t *testing.T) {
	t.Parallel()

	eco, _ := Lookup(KindCargo)

	tests := []struct {
		goos     string
		wantExe  string
		wantLibs []string
	}{
		{goos: "linux", wantExe: "my-tool", wantLibs: []string{"libmy_tool.a", "libmy_tool.so"}},
		{goos: "darwin", wantExe: "my-tool", wantLibs: []string{"libmy_tool.a", "libmy_tool.dylib"}},
		{goos: "windows", wantExe: "my-tool.exe", wantLibs: []string{"my_tool.dll", "my_tool.lib"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			t.Parallel()
			if got := eco.ExecutableName("my-tool", tt.goos); got != tt.wantExe {
				t.Errorf("ExecutableName() = %q, want %q", got, tt.wantExe)
			}
			if got := eco.LibraryNames("my-tool", tt.goos); !slices.Equal(got, tt.wantLibs) {
				t.Errorf("LibraryNames() = %v, want %v", got, tt.wantLibs)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	if k, err := ParseKind("cargo"); err != nil || k != KindCargo {
		t.Errorf("ParseKind(cargo) = %q, %v", k, err)
	}
	_, err := ParseKind("Rust")
	var ufe *UnknownFormatError
	if !errors.As(err, &ufe) || ufe.Value != "Rust" {
		t.Errorf("ParseKind(Rust) error = %v", err)
	}
}
