// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError reports which pipeline stage failed, on what, and
	// what the operator can try next. Issue optionally points at the long
	// form guidance rendered below the error by the CLI.
	//
	//	err := issue.NewErrorContext().
	//		WithStage("detect project format").
	//		WithSubject("./Cargo.toml").
	//		WithHint("Check that [package] declares name and version").
	//		WithIssue(issue.MalformedDescriptorId).
	//		Wrap(cause).
	//		Err()
	ActionableError struct {
		// Stage is a verb phrase such as "build project" or "write manifest".
		Stage string
		// Subject is the descriptor, tool, or output path the stage worked on.
		Subject string
		Hints   []string
		Issue   Id
		Cause   error
	}

	// ErrorContext accumulates an ActionableError one field at a time.
	ErrorContext struct {
		report ActionableError
	}
)

// NewErrorContext starts an empty report.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error renders "failed to <stage>[: <subject>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Stage}
	if e.Subject != "" {
		parts = append(parts, e.Subject)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error with one bulleted hint per line. In verbose
// mode each link of the cause chain follows on its own numbered line.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if len(e.Hints) > 0 {
		b.WriteByte('\n')
	}
	for _, h := range e.Hints {
		b.WriteString("\n  • " + h)
	}

	if !verbose || e.Cause == nil {
		return b.String()
	}
	b.WriteString("\n\nError chain:")
	for i, cause := 1, e.Cause; cause != nil; i, cause = i+1, errors.Unwrap(cause) {
		fmt.Fprintf(&b, "\n  %d. %s", i, cause)
	}
	return b.String()
}

func (c *ErrorContext) WithStage(stage string) *ErrorContext {
	c.report.Stage = stage
	return c
}

func (c *ErrorContext) WithSubject(subject string) *ErrorContext {
	c.report.Subject = subject
	return c
}

// WithHint appends a recovery hint; hints print in the order added.
func (c *ErrorContext) WithHint(hint string) *ErrorContext {
	c.report.Hints = append(c.report.Hints, hint)
	return c
}

func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.report.Issue = id
	return c
}

func (c *ErrorContext) Wrap(cause error) *ErrorContext {
	c.report.Cause = cause
	return c
}

// Report returns a copy of the accumulated error, or nil when no stage was
// named.
func (c *ErrorContext) Report() *ActionableError {
	if c.report.Stage == "" {
		return nil
	}
	r := c.report
	r.Hints = append([]string(nil), c.report.Hints...)
	return &r
}

// Err is Report typed as error, so a missing stage yields a nil interface.
func (c *ErrorContext) Err() error {
	if r := c.Report(); r != nil {
		return r
	}
	return nil
}
