// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// Files of the demo plugin. Every check of the default rules passes against
// them; artifacts are absent so their checks are skipped.
const (
	DemoPluginPHP = `<?php
/**
 * Plugin Name: Demo
 * Description: A demo plugin.
 * Version: 1.2.0
 * Requires at least: 6.0
 * Requires PHP: 8.1
 * Author: Peter Wilson
 * License: GPL-2.0-or-later
 */
`
	DemoReadme = `=== Demo ===
Contributors: peterwilsoncc
Tested up to: 6.6
Stable tag: 1.2.0
License: GPL-2.0-or-later

A demo plugin.
`
	DemoNamespacePHP = "<?php\nnamespace PWCC\\Demo;\n\nconst PLUGIN_VERSION = '1.2.0';\n"
)

// NewDemoPlugin creates the demo plugin in a directory named "demo" under a
// fresh temporary directory and returns its path.
func NewDemoPlugin(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "demo")
	MustWriteFile(t, dir, "demo.php", DemoPluginPHP)
	MustWriteFile(t, dir, "readme.txt", DemoReadme)
	MustWriteFile(t, dir, "inc/namespace.php", DemoNamespacePHP)
	return dir
}
