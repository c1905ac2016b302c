// SPDX-License-Identifier: MPL-2.0

// Package build runs a project's native release build.
//
// The build is a synchronous barrier: Build blocks until the external tool
// exits, and artifacts must only be located after it reports success. The
// tool's stdout and stderr stream straight through to the caller's sinks;
// nothing is captured or parsed.
package build
