// SPDX-License-Identifier: MPL-2.0

// Package archive bundles located artifacts into a distributable package.
//
// A package is a tar stream compressed with zstd at its strongest level and
// named "<project>.jpkg". Its layout is:
//
//	bin/              always present, possibly empty
//	bin/<artifact>    each artifact, flattened to its file name
//	<sidecar>.jfx     extended installs only, flattened at the top level
//
// Entries are written in sorted order with a fixed modification time and
// no owner information, so the same inputs produce the same bytes.
//
// The archive is streamed into a temporary file next to the destination and
// renamed into place only once every entry has been written and both the
// tar and zstd streams are closed. On any failure the temporary file is
// removed, so a failed run never leaves a partial package behind.
package archive
