// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// These benchmarks cover the hot paths of a validation run:
//   - CUE configuration loading and schema validation
//   - Header block extraction
//   - The full validation pipeline over a plugin directory
//   - Report rendering
//
// To generate a PGO profile, run:
//
//	go test -run '^$' -bench . -cpuprofile default.pgo ./internal/benchmark
package benchmark
