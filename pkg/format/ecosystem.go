// SPDX-License-Identifier: MPL-2.0

package format

import (
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/slices"
)

type (
	// Ecosystem describes one supported build ecosystem: how it is detected,
	// how it is built and where its release artifacts are found.
	Ecosystem struct {
		// Kind is the registry key.
		Kind Kind
		// Descriptor is the file name, relative to the project root, whose
		// presence identifies the ecosystem.
		Descriptor string
		// Tool is the executable invoked to build the project.
		Tool string
		// BuildArgs is the release build invocation passed to Tool.
		BuildArgs []string
		// OutputDir is the release output directory relative to the project root.
		OutputDir string

		// parse extracts the package name and version from descriptor bytes.
		parse func(data []byte) (descriptorFields, error)
		// executable maps a project name to the executable file name for goos.
		executable func(name, goos string) string
		// libraries maps a project name to the library file names for goos.
		libraries func(name, goos string) []string
	}

	descriptorFields struct {
		Name    *string
		Version *string
	}

	cargoDescriptor struct {
		Package *struct {
			Name    *string `toml:"name"`
			Version *string `toml:"version"`
		} `toml:"package"`
	}
)

// registry is ordered by detection precedence.
var registry = []Ecosystem{
	{
		Kind:       KindCargo,
		Descriptor: "Cargo.toml",
		Tool:       "cargo",
		BuildArgs:  []string{"build", "--release"},
		OutputDir:  "target/release",
		parse:      parseCargo,
		executable: cargoExecutable,
		libraries:  cargoLibraries,
	},
}

// Ecosystems returns the registered ecosystems in detection order.
func Ecosystems() []Ecosystem {
	return slices.Clone(registry)
}

// Lookup returns the ecosystem registered under kind.
func Lookup(kind Kind) (Ecosystem, bool) {
	i := slices.IndexFunc(registry, func(e Ecosystem) bool { return e.Kind == kind })
	if i < 0 {
		return Ecosystem{}, false
	}
	return registry[i], true
}

// ExecutableName returns the file name of the executable built for a
// project called name on goos.
func (e Ecosystem) ExecutableName(name, goos string) string {
	return e.executable(name, goos)
}

// LibraryNames returns the candidate library file names built for a
// project called name on goos.
func (e Ecosystem) LibraryNames(name, goos string) []string {
	return e.libraries(name, goos)
}

func knownKinds() string {
	kinds := make([]string, 0, len(registry))
	for _, e := range registry {
		kinds = append(kinds, string(e.Kind))
	}
	return strings.Join(kinds, ", ")
}

func parseCargo(data []byte) (descriptorFields, error) {
	var d cargoDescriptor
	if err := toml.Unmarshal(data, &d); err != nil {
		return descriptorFields{}, err
	}
	if d.Package == nil {
		return descriptorFields{}, nil
	}
	return descriptorFields{Name: d.Package.Name, Version: d.Package.Version}, nil
}

func cargoExecutable(name, goos string) string {
	if goos == "windows" {
		return name + ".exe"
	}
	return name
}

// cargoLibraries follows cargo's naming: the crate name with dashes turned
// into underscores, a static archive and the platform's dynamic library.
func cargoLibraries(name, goos string) []string {
	stem := strings.ReplaceAll(name, "-", "_")
	switch goos {
	case "windows":
		return []string{stem + ".dll", stem + ".lib"}
	case "darwin":
		return []string{"lib" + stem + ".a", "lib" + stem + ".dylib"}
	default:
		return []string{"lib" + stem + ".a", "lib" + stem + ".so"}
	}
}
