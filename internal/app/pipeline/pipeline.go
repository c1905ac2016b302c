// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"jellypack-cli/internal/issue"
	"jellypack-cli/pkg/archive"
	"jellypack-cli/pkg/artifact"
	"jellypack-cli/pkg/build"
	"jellypack-cli/pkg/format"
	"jellypack-cli/pkg/manifest"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/semver"
)

// ErrNoProjectFormat is returned when the project root holds no recognized descriptor.
var ErrNoProjectFormat = errors.New("no recognized project format")

type (
	// Service runs the jellypack operations against one project root.
	Service struct {
		root     string
		kind     format.Kind
		executor build.Executor
		locator  *artifact.Locator
		packager *archive.Packager
		logger   *log.Logger
	}

	// Option configures a Service.
	Option func(*Service)

	// Detection is the shared result of classifying the project root.
	Detection struct {
		Project format.Native
		Install format.InstallFormat
	}

	// DescribeRequest carries the caller's manifest overrides.
	DescribeRequest struct {
		// DownloadURL replaces the placeholder install URL when non-nil.
		DownloadURL *string
		// OutputPath receives the manifest. Empty means the caller prints Data.
		OutputPath string
	}

	// PackageResult describes a written package.
	PackageResult struct {
		Detection
		Artifacts   []artifact.Artifact
		ArchivePath string
		Size        int64
	}

	// DescribeResult holds a compiled manifest and its encoding.
	DescribeResult struct {
		Detection
		Manifest   *manifest.PackageManifest
		Data       []byte
		OutputPath string
	}

	// ReleaseResult pairs a package with the manifest describing it.
	ReleaseResult struct {
		Package  *PackageResult
		Describe *DescribeResult
	}
)

// WithFormat forces detection to a single ecosystem.
func WithFormat(kind format.Kind) Option {
	return func(s *Service) {
		s.kind = kind
	}
}

// WithExecutor replaces the native build runner.
func WithExecutor(e build.Executor) Option {
	return func(s *Service) {
		if e != nil {
			s.executor = e
		}
	}
}

// WithLocator replaces the host artifact locator.
func WithLocator(l *artifact.Locator) Option {
	return func(s *Service) {
		if l != nil {
			s.locator = l
		}
	}
}

// WithPackager replaces the default packager, which writes to the
// working directory and reads sidecars from the project root.
func WithPackager(p *archive.Packager) Option {
	return func(s *Service) {
		if p != nil {
			s.packager = p
		}
	}
}

// WithLogger sets the logger used for stage transitions.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service for the project rooted at root.
func NewService(root string, opts ...Option) *Service {
	s := &Service{
		root:     root,
		executor: build.NewRunner(root),
		locator:  artifact.NewLocator(""),
		packager: archive.NewPackager(archive.WithProjectRoot(root)),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Detect classifies the project root. A root with no descriptor fails
// with ErrNoProjectFormat.
func (s *Service) Detect(ctx context.Context) (Detection, error) {
	if err := checkCanceled(ctx, "detect project format"); err != nil {
		return Detection{}, err
	}

	var (
		pf      format.ProjectFormat
		install format.InstallFormat
		err     error
	)
	if s.kind != "" {
		pf, install, err = format.DetectAs(s.root, s.kind)
	} else {
		pf, install, err = format.Detect(s.root)
	}
	if err != nil {
		return Detection{}, detectError(s.root, err)
	}

	native, ok := format.AsNative(pf)
	if !ok {
		return Detection{}, issue.NewErrorContext().
			WithStage("detect project format").
			WithSubject(s.root).
			WithHint("Run jellypack from the project root or pass --dir").
			WithIssue(issue.NoProjectFormatId).
			Wrap(ErrNoProjectFormat).
			Err()
	}

	if !semver.IsValid("v" + native.Version) {
		s.logger.Warn("version is not a semantic version", "version", native.Version)
	}
	s.logger.Info("project detected", "format", native.Format, "name", native.Name, "version", native.Version, "install", install)

	return Detection{Project: native, Install: install}, nil
}

// Package runs detect, build, locate and archive in sequence.
func (s *Service) Package(ctx context.Context) (*PackageResult, error) {
	det, err := s.Detect(ctx)
	if err != nil {
		return nil, err
	}
	return s.packageDetected(ctx, det)
}

// Describe runs detect and compiles the manifest.
func (s *Service) Describe(ctx context.Context, req DescribeRequest) (*DescribeResult, error) {
	det, err := s.Detect(ctx)
	if err != nil {
		return nil, err
	}
	return s.describeDetected(ctx, det, req)
}

// Release packages the project and describes the written package from a
// single detection, so the manifest install type always matches the archive.
// The manifest is compiled before the build so it cannot fail after the
// package is written.
func (s *Service) Release(ctx context.Context, req DescribeRequest) (*ReleaseResult, error) {
	det, err := s.Detect(ctx)
	if err != nil {
		return nil, err
	}

	m, data, err := s.compile(det, req)
	if err != nil {
		return nil, err
	}

	// The manifest is staged next to its destination before the build so a
	// write failure surfaces before any archive exists.
	var staged string
	if req.OutputPath != "" {
		if staged, err = stageManifest(req.OutputPath, data); err != nil {
			return nil, err
		}
		defer os.Remove(staged)
	}

	pkg, err := s.packageDetected(ctx, det)
	if err != nil {
		return nil, err
	}

	desc := &DescribeResult{Detection: det, Manifest: m, Data: data}
	if staged != "" {
		if err := os.Rename(staged, req.OutputPath); err != nil {
			return nil, manifestWriteError(req.OutputPath, err)
		}
		s.logger.Info("manifest written", "path", req.OutputPath)
		desc.OutputPath = req.OutputPath
	}

	return &ReleaseResult{Package: pkg, Describe: desc}, nil
}

// stageManifest writes data to a hidden temp file in the directory of out.
func stageManifest(out string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(out), "."+filepath.Base(out)+"-*.tmp")
	if err != nil {
		return "", manifestWriteError(out, err)
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if err = errors.Join(werr, cerr); err == nil {
		err = os.Chmod(f.Name(), 0o644)
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", manifestWriteError(out, err)
	}
	return f.Name(), nil
}

func (s *Service) packageDetected(ctx context.Context, det Detection) (*PackageResult, error) {
	if err := checkCanceled(ctx, "build project"); err != nil {
		return nil, err
	}

	outcome, err := s.executor.Build(det.Project)
	if err == nil && !outcome.Succeeded {
		err = &build.BuildFailedError{Tool: string(det.Project.Format), Outcome: outcome}
	}
	if err != nil {
		return nil, buildError(det, err)
	}
	s.logger.Info("build succeeded", "format", det.Project.Format)

	if err := checkCanceled(ctx, "locate artifacts"); err != nil {
		return nil, err
	}

	eco, ok := format.Lookup(det.Project.Format)
	if !ok {
		return nil, &format.UnknownFormatError{Value: det.Project.Format}
	}
	outputDir := filepath.Join(s.root, eco.OutputDir)

	artifacts, err := s.locator.Locate(det.Project, outputDir)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithStage("locate artifacts").
			WithSubject(outputDir).
			WithHint("Check that the build output directory is readable").
			WithIssue(issue.ArchiveFailedId).
			Wrap(err).
			Err()
	}
	if len(artifacts) == 0 {
		s.logger.Warn("no artifacts found", "dir", outputDir)
	}
	for _, a := range artifacts {
		s.logger.Debug("artifact located", "path", a.Path, "kind", a.Kind)
	}

	if err := checkCanceled(ctx, "create package"); err != nil {
		return nil, err
	}

	path, err := s.packager.Package(artifacts, det.Install, det.Project.Name)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithStage("create package").
			WithSubject(s.packager.Path(det.Project.Name)).
			WithHint("Check that the output directory exists and is writable").
			WithHint("Check that the artifacts and sidecar files are readable").
			WithIssue(issue.ArchiveFailedId).
			Wrap(err).
			Err()
	}

	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	return &PackageResult{
		Detection:   det,
		Artifacts:   artifacts,
		ArchivePath: path,
		Size:        size,
	}, nil
}

func (s *Service) describeDetected(ctx context.Context, det Detection, req DescribeRequest) (*DescribeResult, error) {
	m, data, err := s.compile(det, req)
	if err != nil {
		return nil, err
	}
	return s.emit(ctx, det, m, data, req.OutputPath)
}

func (s *Service) compile(det Detection, req DescribeRequest) (*manifest.PackageManifest, []byte, error) {
	m, err := manifest.Compile(det.Project, det.Install, manifest.Overrides{DownloadURL: req.DownloadURL})
	if err == nil {
		var data []byte
		if data, err = manifest.Marshal(m); err == nil {
			if m.HasPlaceholderURL() {
				s.logger.Warn("manifest has no download URL", "placeholder", manifest.PlaceholderURL)
			}
			return m, data, nil
		}
	}
	return nil, nil, issue.NewErrorContext().
		WithStage("compile manifest").
		WithSubject(det.Project.Name).
		WithIssue(issue.ManifestFailedId).
		Wrap(err).
		Err()
}

func (s *Service) emit(ctx context.Context, det Detection, m *manifest.PackageManifest, data []byte, outputPath string) (*DescribeResult, error) {
	res := &DescribeResult{Detection: det, Manifest: m, Data: data}
	if outputPath == "" {
		return res, nil
	}

	if err := checkCanceled(ctx, "write manifest"); err != nil {
		return nil, err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return nil, manifestWriteError(outputPath, err)
	}
	s.logger.Info("manifest written", "path", outputPath)
	res.OutputPath = outputPath
	return res, nil
}

func manifestWriteError(path string, err error) error {
	return issue.NewErrorContext().
		WithStage("write manifest").
		WithSubject(path).
		WithHint("Check that the destination directory exists and is writable").
		WithIssue(issue.ManifestFailedId).
		Wrap(err).
		Err()
}

func detectError(root string, err error) error {
	ctx := issue.NewErrorContext().
		WithStage("detect project format").
		WithSubject(root)

	var malformed *format.MalformedDescriptorError
	switch {
	case errors.As(err, &malformed):
		ctx = ctx.WithSubject(malformed.Path).
			WithHint("Fix the descriptor so it declares package.name and package.version").
			WithIssue(issue.MalformedDescriptorId)
	case errors.Is(err, format.ErrDescriptorNotFound):
		ctx = ctx.WithHint("Drop --format to detect the project format automatically").
			WithIssue(issue.NoProjectFormatId)
	case errors.Is(err, format.ErrUnknownFormat):
		ctx = ctx.WithHint("Use one of the supported formats, e.g. --format cargo")
	}

	return ctx.Wrap(err).Err()
}

func buildError(det Detection, err error) error {
	ctx := issue.NewErrorContext().
		WithStage("build project").
		WithSubject(det.Project.String())

	switch {
	case errors.Is(err, build.ErrToolNotFound):
		ctx = ctx.WithHint("Install the build tool or set build.tools." + string(det.Project.Format) + " in the config").
			WithIssue(issue.BuildToolNotFoundId)
	case errors.Is(err, build.ErrBuildFailed):
		ctx = ctx.WithHint("Read the build tool output above for diagnostics").
			WithIssue(issue.BuildFailedId)
	}

	return ctx.Wrap(err).Err()
}

func checkCanceled(ctx context.Context, stage string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s canceled: %w", stage, err)
	}
	return nil
}
