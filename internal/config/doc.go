// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/sgbench/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/sgbench/config.cue on macOS, %APPDATA%\sgbench\config.cue
// on Windows), falling back to a config.cue in the current directory. The package provides
// type-safe access to the semgrep binary path, benchmark root, metric namespace, dashboard
// URL, docker image, and UI settings.
//
// Loaded files are validated against a CUE schema (config_schema.cue) so that malformed
// configurations fail with field-level error messages instead of silent misbehavior.
package config
