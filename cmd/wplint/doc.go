// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for wplint.
//
// This package implements the Cobra command hierarchy: validate, headers,
// rules, explain, baseline and config. Handlers receive an App that carries
// the configuration provider, output writers and logger.
package cmd
