// SPDX-License-Identifier: MPL-2.0

// wplint validates the metadata of a WordPress plugin: readme.txt and plugin
// file headers, cross-file consistency, version synchronisation and banner
// assets.
package main

import cmd "github.com/pwcc/wplint/cmd/wplint"

func main() {
	cmd.Execute()
}
