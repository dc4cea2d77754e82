// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// They cover the hot paths of a merge:
//   - pom.xml parsing and rewriting
//   - dependency aggregation
//   - tree copying with content comparison
//   - CUE configuration decoding
//   - the end-to-end merge on an in-memory project
//
// To generate a profile, run:
//
//	go test -run=^$ -bench=. -cpuprofile=default.pgo ./internal/benchmark
package benchmark
