// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// Pipeline stages return plain sentinel-wrapping errors; the orchestration
// layer wraps them in an ActionableError naming the stage that failed, and
// may link an Issue whose Markdown guidance the CLI renders with glamour.
package issue
