// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"testing"

	"github.com/pwcc/wplint/pkg/platform"
)

// SetHomeDir sets the appropriate HOME environment variable based on platform
// and returns a cleanup function to restore the original value.
//
// Platform handling:
//   - Windows: Sets USERPROFILE
//   - Linux/macOS: Sets HOME and clears XDG_CONFIG_HOME
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
//	    // Test code that resolves the user config directory...
//	}
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	if platform.IsWindows() {
		restore := MustSetenv(t, "USERPROFILE", dir)
		restoreAppData := MustSetenv(t, "APPDATA", "")
		return func() {
			restoreAppData()
			restore()
		}
	}

	restore := MustSetenv(t, "HOME", dir)
	restoreXDG := MustSetenv(t, "XDG_CONFIG_HOME", "")
	return func() {
		restoreXDG()
		restore()
	}
}
