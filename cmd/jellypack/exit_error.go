// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"jellypack-cli/internal/app/pipeline"
	"jellypack-cli/pkg/build"
	"jellypack-cli/pkg/format"
	"jellypack-cli/pkg/types"
)

const (
	// exitFailure is used for every failure without a more specific code.
	exitFailure types.ExitCode = 1
	// exitUsage is used when the invocation cannot apply to the project root.
	exitUsage types.ExitCode = 2
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// classifyExitCode maps a pipeline failure to the process exit code. A
// failed build exits with the build tool's own status when it is known.
func classifyExitCode(err error) types.ExitCode {
	var failed *build.BuildFailedError
	if errors.As(err, &failed) {
		if failed.Outcome.ExitCodeKnown && failed.Outcome.ExitCode.Failed() {
			return failed.Outcome.ExitCode
		}
		return exitFailure
	}

	switch {
	case errors.Is(err, pipeline.ErrNoProjectFormat),
		errors.Is(err, format.ErrDescriptorNotFound),
		errors.Is(err, format.ErrUnknownFormat):
		return exitUsage
	default:
		return exitFailure
	}
}
