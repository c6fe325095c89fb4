// SPDX-License-Identifier: MPL-2.0

// Package bench defines the static benchmark catalogs: the corpora
// (rule-set / target-codebase pairs) that semgrep is benchmarked against,
// and the option variants whose timings are compared to the baseline.
//
// Catalogs are plain data. Constructor functions return fresh slices so
// callers receive immutable-by-convention values and never share backing
// arrays with the package.
package bench
