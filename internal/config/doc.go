// SPDX-License-Identifier: MPL-2.0

// Package config handles wplint configuration using Viper with CUE as the file format.
//
// Configuration is read from the first of: the file named by --config, wplint.cue in
// the plugin directory, or config.cue in the user config directory
// ($XDG_CONFIG_HOME/wplint on Linux, ~/Library/Application Support/wplint on macOS,
// %APPDATA%\wplint on Windows). Environment variables prefixed with WPLINT_ override
// individual keys (WPLINT_OUTPUT_FORMAT=json).
//
// Files are validated against an embedded CUE schema (config_schema.cue) so that
// typos and invalid rule levels are reported with their path.
package config
