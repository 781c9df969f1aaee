// SPDX-License-Identifier: MPL-2.0

// Package header implements the header rule engine for WordPress plugin metadata.
//
// Two file kinds carry metadata headers: the plugin's readme.txt and its main PHP
// file. Each kind has a Spec mapping header names to a requirement Level
// (required, optional, forbidden). Rules bundles both specs with the deprecated
// alias table and the derived set of CommonPairs whose values must agree across
// files.
//
// The checks in this package are pure functions over Extracted header values. They
// never read files; the caller supplies headers parsed by pkg/filedata.
package header
