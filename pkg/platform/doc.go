// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes the runtime.GOOS values wplint branches on when
// locating the user configuration directory.
package platform
