// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for jellypack.
//
// Handlers are thin: they resolve flags and configuration into a
// pipeline.Service and render its results. All packaging behavior lives in
// internal/app/pipeline and the pkg/ stages.
package cmd
