// SPDX-License-Identifier: MPL-2.0

// Package harness drives the corpus × variant benchmark matrix.
//
// Execution is strictly sequential: exactly one semgrep child process runs
// at a time, and no two measurements overlap. That is a correctness
// requirement, not a limitation — concurrent runs would share CPU, memory,
// and filesystem caches and invalidate the timing comparisons the harness
// exists to produce.
package harness
