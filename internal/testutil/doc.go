// SPDX-License-Identifier: MPL-2.0

// Package testutil provides fixtures shared by jellypack tests: project
// roots on disk and a simulated native build.
package testutil
