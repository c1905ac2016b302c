// SPDX-License-Identifier: MPL-2.0

package build

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"jellypack-cli/pkg/format"
	"jellypack-cli/pkg/types"

	"github.com/charmbracelet/log"
)

var (
	// ErrNoProjectFormat is returned when Build is called with format.None.
	ErrNoProjectFormat = errors.New("no project format to build")
	// ErrToolNotFound is the sentinel error wrapped by ToolNotFoundError.
	ErrToolNotFound = errors.New("build tool not found")
	// ErrBuildFailed is the sentinel error wrapped by BuildFailedError.
	ErrBuildFailed = errors.New("build failed")
)

type (
	// Executor builds a detected project.
	Executor interface {
		Build(pf format.ProjectFormat) (Outcome, error)
	}

	// Outcome is the observed termination of the build tool.
	Outcome struct {
		// Succeeded is true iff the tool exited with status zero.
		Succeeded bool
		// ExitCode is the tool's exit status when ExitCodeKnown is set.
		ExitCode types.ExitCode
		// ExitCodeKnown is false when the tool was terminated by a signal.
		ExitCodeKnown bool
	}

	// ToolNotFoundError is returned when the build tool cannot be located or spawned.
	ToolNotFoundError struct {
		Tool  string
		Cause error
	}

	// BuildFailedError is returned when the build tool ran and exited non-zero.
	BuildFailedError struct {
		Tool    string
		Outcome Outcome
	}

	// Runner is the os/exec backed Executor.
	Runner struct {
		dir    string
		stdout io.Writer
		stderr io.Writer
		tools  map[format.Kind]string
		env    []string
		logger *log.Logger
	}

	// Option configures a Runner during construction.
	Option func(*Runner)
)

// Error implements the error interface.
func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("build tool %q not found: %v", e.Tool, e.Cause)
}

// Unwrap returns ErrToolNotFound so callers can use errors.Is for programmatic detection.
func (e *ToolNotFoundError) Unwrap() error { return ErrToolNotFound }

// Error implements the error interface.
func (e *BuildFailedError) Error() string {
	if e.Outcome.ExitCodeKnown {
		return fmt.Sprintf("%s exited with status %s", e.Tool, e.Outcome.ExitCode)
	}
	return fmt.Sprintf("%s was terminated before exiting", e.Tool)
}

// Unwrap returns ErrBuildFailed so callers can use errors.Is for programmatic detection.
func (e *BuildFailedError) Unwrap() error { return ErrBuildFailed }

// WithOutput sets the sinks the tool's stdout and stderr are connected to.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithToolPath overrides the executable used for one ecosystem.
func WithToolPath(kind format.Kind, path string) Option {
	return func(r *Runner) {
		if path != "" {
			r.tools[kind] = path
		}
	}
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(env []string) Option {
	return func(r *Runner) {
		r.env = append(r.env, env...)
	}
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a Runner that builds the project rooted at dir.
func NewRunner(dir string, opts ...Option) *Runner {
	r := &Runner{
		dir:    dir,
		stdout: os.Stdout,
		stderr: os.Stderr,
		tools:  make(map[format.Kind]string),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Build runs the ecosystem's release build and blocks until it exits.
// A non-zero exit returns the Outcome together with a *BuildFailedError.
func (r *Runner) Build(pf format.ProjectFormat) (Outcome, error) {
	native, ok := format.AsNative(pf)
	if !ok {
		return Outcome{}, ErrNoProjectFormat
	}
	eco, ok := format.Lookup(native.Format)
	if !ok {
		return Outcome{}, &format.UnknownFormatError{Value: native.Format}
	}

	tool := eco.Tool
	if override, ok := r.tools[eco.Kind]; ok {
		tool = override
	}

	toolPath, err := exec.LookPath(tool)
	if err != nil {
		return Outcome{}, &ToolNotFoundError{Tool: tool, Cause: err}
	}
	// A relative override resolves against the working directory, not r.dir.
	if toolPath, err = filepath.Abs(toolPath); err != nil {
		return Outcome{}, &ToolNotFoundError{Tool: tool, Cause: err}
	}

	cmd := exec.Command(toolPath, eco.BuildArgs...)
	cmd.Dir = r.dir
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}

	r.logger.Info("running build", "tool", toolPath, "args", strings.Join(eco.BuildArgs, " "), "dir", r.dir)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Outcome{}, &ToolNotFoundError{Tool: tool, Cause: err}
		}
		outcome := outcomeFromExit(exitErr.ExitCode())
		return outcome, &BuildFailedError{Tool: tool, Outcome: outcome}
	}

	return Outcome{Succeeded: true, ExitCode: 0, ExitCodeKnown: true}, nil
}

// outcomeFromExit maps an os/exec exit status to an Outcome.
func outcomeFromExit(code int) Outcome {
	exitCode, ok := types.FromProcess(code)
	return Outcome{ExitCode: exitCode, ExitCodeKnown: ok}
}
