// SPDX-License-Identifier: MPL-2.0

// Package artifact locates the files a release build produced.
//
// Artifacts are found by naming convention only: the ecosystem registry
// supplies the executable and library file names for the project, and each
// one present in the build output directory is returned. Missing names are
// skipped, so binary-only, library-only and artifact-free projects are all
// valid.
package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"jellypack-cli/pkg/format"
)

const (
	// KindExecutable is a runnable program.
	KindExecutable Kind = "executable"
	// KindLibrary is a static or dynamic library.
	KindLibrary Kind = "library"
)

// ErrNoProjectFormat is returned when Locate is called with format.None.
var ErrNoProjectFormat = errors.New("no project format to locate artifacts for")

type (
	// Kind classifies an artifact by its file name.
	Kind string

	// Artifact references a build output file on disk.
	Artifact struct {
		Path string
		Kind Kind
	}

	// Locator finds artifacts for a target operating system.
	Locator struct {
		goos string
	}
)

// Name returns the artifact's file name.
func (a Artifact) Name() string {
	return filepath.Base(a.Path)
}

// NewLocator creates a Locator for goos. An empty goos means the host.
func NewLocator(goos string) *Locator {
	if goos == "" {
		goos = runtime.GOOS
	}
	return &Locator{goos: goos}
}

// Locate is NewLocator("").Locate, using the host operating system.
func Locate(pf format.ProjectFormat, dir string) ([]Artifact, error) {
	return NewLocator("").Locate(pf, dir)
}

// Locate checks dir for the conventional artifact names of pf and returns
// those that exist as regular files, sorted by path.
func (l *Locator) Locate(pf format.ProjectFormat, dir string) ([]Artifact, error) {
	native, ok := format.AsNative(pf)
	if !ok {
		return nil, ErrNoProjectFormat
	}
	eco, ok := format.Lookup(native.Format)
	if !ok {
		return nil, &format.UnknownFormatError{Value: native.Format}
	}

	candidates := []Artifact{{Path: filepath.Join(dir, eco.ExecutableName(native.Name, l.goos)), Kind: KindExecutable}}
	for _, name := range eco.LibraryNames(native.Name, l.goos) {
		candidates = append(candidates, Artifact{Path: filepath.Join(dir, name), Kind: KindLibrary})
	}

	found := make([]Artifact, 0, len(candidates))
	for _, c := range candidates {
		info, err := os.Stat(c.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to stat artifact %s: %w", c.Path, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		found = append(found, c)
	}

	slices.SortFunc(found, func(a, b Artifact) int { return strings.Compare(a.Path, b.Path) })
	return found, nil
}
