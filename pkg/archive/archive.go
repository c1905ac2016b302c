// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"jellypack-cli/pkg/artifact"
	"jellypack-cli/pkg/format"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

const (
	// Extension is the package file extension.
	Extension = "jpkg"
	// ArtifactDir is the top-level directory holding build artifacts.
	ArtifactDir = "bin"
)

var (
	// ErrCreateFailed is the sentinel error wrapped by CreateFailedError.
	ErrCreateFailed = errors.New("failed to create archive")
	// ErrAppendFailed is the sentinel error wrapped by AppendFailedError.
	ErrAppendFailed = errors.New("failed to append to archive")

	// entryModTime is stamped on every entry for reproducible output.
	entryModTime = time.Unix(0, 0).UTC()
)

type (
	// CreateFailedError is returned when the archive file cannot be created,
	// finalized or moved into place.
	CreateFailedError struct {
		Path  string
		Cause error
	}

	// AppendFailedError is returned when an artifact or sidecar cannot be
	// read into the archive.
	AppendFailedError struct {
		Path  string
		Cause error
	}

	// Packager writes packages into an output directory.
	Packager struct {
		outputDir   string
		projectRoot string
		logger      *log.Logger
	}

	// Option configures a Packager during construction.
	Option func(*Packager)
)

// Error implements the error interface.
func (e *CreateFailedError) Error() string {
	return fmt.Sprintf("failed to create archive %s: %v", e.Path, e.Cause)
}

// Unwrap returns ErrCreateFailed so callers can use errors.Is for programmatic detection.
func (e *CreateFailedError) Unwrap() error { return ErrCreateFailed }

// Error implements the error interface.
func (e *AppendFailedError) Error() string {
	return fmt.Sprintf("failed to append %s to archive: %v", e.Path, e.Cause)
}

// Unwrap returns ErrAppendFailed so callers can use errors.Is for programmatic detection.
func (e *AppendFailedError) Unwrap() error { return ErrAppendFailed }

// WithOutputDir sets the directory the package is written to. Default ".".
func WithOutputDir(dir string) Option {
	return func(p *Packager) {
		if dir != "" {
			p.outputDir = dir
		}
	}
}

// WithProjectRoot sets the directory searched for sidecar files. Default ".".
func WithProjectRoot(dir string) Option {
	return func(p *Packager) {
		if dir != "" {
			p.projectRoot = dir
		}
	}
}

// WithLogger sets the logger used for per-entry diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(p *Packager) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPackager creates a Packager.
func NewPackager(opts ...Option) *Packager {
	p := &Packager{
		outputDir:   ".",
		projectRoot: ".",
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Path returns the destination path of the package called name.
func (p *Packager) Path(name string) string {
	return filepath.Join(p.outputDir, name+"."+Extension)
}

// Package writes "<name>.jpkg" containing artifacts under bin/ and, for
// extended installs, the project's sidecar files at the top level. It
// returns the path of the written package.
func (p *Packager) Package(artifacts []artifact.Artifact, install format.InstallFormat, name string) (string, error) {
	dest := p.Path(name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", &CreateFailedError{Path: dest, Cause: fmt.Errorf("invalid package name %q", name)}
	}

	var sidecars []string
	if install == format.InstallExtended {
		var err error
		if sidecars, err = Sidecars(p.projectRoot); err != nil {
			return "", &AppendFailedError{Path: filepath.Join(p.projectRoot, format.SidecarPattern), Cause: err}
		}
	}

	tmp, err := os.CreateTemp(p.outputDir, "."+name+"-*.tmp")
	if err != nil {
		return "", &CreateFailedError{Path: dest, Cause: err}
	}

	if err := p.write(tmp, dest, artifacts, sidecars); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}

	if err := finalize(tmp, dest); err != nil {
		os.Remove(tmp.Name())
		return "", &CreateFailedError{Path: dest, Cause: err}
	}

	p.logger.Info("package written", "path", dest, "artifacts", len(artifacts), "sidecars", len(sidecars))
	return dest, nil
}

func (p *Packager) write(w io.Writer, dest string, artifacts []artifact.Artifact, sidecars []string) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return &CreateFailedError{Path: dest, Cause: err}
	}
	tw := tar.NewWriter(enc)

	if err := tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeDir,
		Name:     ArtifactDir + "/",
		Mode:     0o755,
		ModTime:  entryModTime,
	}); err != nil {
		enc.Close()
		return &CreateFailedError{Path: dest, Cause: err}
	}

	sorted := slices.Clone(artifacts)
	slices.SortFunc(sorted, func(a, b artifact.Artifact) int { return strings.Compare(a.Path, b.Path) })

	for _, a := range sorted {
		if err := p.appendFile(tw, a.Path, ArtifactDir+"/"+filepath.Base(a.Path)); err != nil {
			enc.Close()
			return err
		}
	}
	for _, path := range sidecars {
		if err := p.appendFile(tw, path, filepath.Base(path)); err != nil {
			enc.Close()
			return err
		}
	}

	if err := tw.Close(); err != nil {
		enc.Close()
		return &CreateFailedError{Path: dest, Cause: err}
	}
	if err := enc.Close(); err != nil {
		return &CreateFailedError{Path: dest, Cause: err}
	}
	return nil
}

// appendFile streams the file at path into tw under entryName.
func (p *Packager) appendFile(tw *tar.Writer, path, entryName string) error {
	f, err := os.Open(path)
	if err != nil {
		return &AppendFailedError{Path: path, Cause: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return &AppendFailedError{Path: path, Cause: err}
	}
	if !info.Mode().IsRegular() {
		return &AppendFailedError{Path: path, Cause: errors.New("not a regular file")}
	}

	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     entryName,
		Mode:     int64(info.Mode().Perm()),
		Size:     info.Size(),
		ModTime:  entryModTime,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return &AppendFailedError{Path: path, Cause: err}
	}
	if _, err := io.Copy(tw, f); err != nil {
		return &AppendFailedError{Path: path, Cause: err}
	}

	p.logger.Debug("appended", "entry", entryName, "size", info.Size())
	return nil
}

// finalize closes tmp and atomically moves it to dest.
func finalize(tmp *os.File, dest string) error {
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// Sidecars returns the regular files at the top level of root matching
// format.SidecarPattern, sorted by name.
func Sidecars(root string) ([]string, error) {
	fsys := os.DirFS(root)
	matches, err := doublestar.Glob(fsys, format.SidecarPattern)
	if err != nil {
		return nil, err
	}
	slices.Sort(matches)

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := fs.Stat(fsys, m)
		if err != nil {
			return nil, err
		}
		if !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, filepath.Join(root, filepath.FromSlash(m)))
	}
	return paths, nil
}
