// SPDX-License-Identifier: MPL-2.0

// Package invoke builds and executes semgrep invocations.
//
// Builder turns one (corpus, variant) pair into an Invocation — the full
// argument vector, environment overrides, and working directory for a
// single benchmark run — branching on containerized versus native
// execution. Runner executes an Invocation synchronously, times it, and
// classifies the child's exit status.
package invoke
