// SPDX-License-Identifier: MPL-2.0

// Package types holds the value types passed from the build stage up to
// the command layer.
package types

import (
	"errors"
	"fmt"
	"strconv"
)

// maxExitCode is the largest status a POSIX parent can observe.
const maxExitCode = 255

// ErrExitCodeOutOfRange is wrapped by every ExitCodeRangeError.
var ErrExitCodeOutOfRange = errors.New("exit code out of range")

type (
	// ExitCode is a status jellypack either observed from the build tool
	// or reports for itself. It always fits in one byte once validated.
	ExitCode int

	// ExitCodeRangeError reports a status that does not fit in one byte.
	ExitCodeRangeError struct {
		Value int
	}
)

func (e *ExitCodeRangeError) Error() string {
	return fmt.Sprintf("exit code %d does not fit in 0..%d", e.Value, maxExitCode)
}

func (e *ExitCodeRangeError) Unwrap() error { return ErrExitCodeOutOfRange }

// FromProcess converts the value of os.ProcessState.ExitCode. It reports
// false for -1, which means the process was terminated by a signal, and
// for any value a parent process could not have observed.
func FromProcess(code int) (ExitCode, bool) {
	c := ExitCode(code)
	if c.Validate() != nil {
		return 0, false
	}
	return c, true
}

// Validate returns an *ExitCodeRangeError when c cannot be handed to os.Exit
// without truncation.
func (c ExitCode) Validate() error {
	if c < 0 || c > maxExitCode {
		return &ExitCodeRangeError{Value: int(c)}
	}
	return nil
}

// Failed reports whether c is a nonzero status.
func (c ExitCode) Failed() bool { return c != 0 }

func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
