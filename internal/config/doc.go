// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is read from, in order of precedence:
//
//  1. the file passed with --config
//  2. ~/.config/jellypack/config.cue (XDG equivalent on Linux,
//     ~/Library/Application Support/jellypack/config.cue on macOS,
//     %APPDATA%\jellypack\config.cue on Windows)
//  3. jellypack.cue in the project root
//
// Only the first file found is used. Files are validated against the embedded
// #Config schema before being merged over the defaults, and JELLYPACK_* environment
// variables (JELLYPACK_UI_LOG_LEVEL, JELLYPACK_OUTPUT_DIR, ...) override both.
package config
