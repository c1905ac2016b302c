// SPDX-License-Identifier: MPL-2.0

// Package pipeline wires detection, the native build, artifact lookup,
// archiving and manifest compilation into the jellypack operations.
// Every stage fails fast; a failure never leaves a partial package behind.
package pipeline
