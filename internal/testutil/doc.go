// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include file and directory creation (MustWriteFile,
// MustMkdirAll), environment management (MustSetenv, SetHomeDir) and a valid
// plugin fixture (NewDemoPlugin) that tests mutate to reach a failing state.
package testutil
