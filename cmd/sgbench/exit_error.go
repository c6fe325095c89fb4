// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"sgbench/internal/invoke"
)

// ExitError carries the intended process exit status out of RunE handlers
// so Execute can map it to os.Exit after fang has finished rendering.
//
// The bench command follows semgrep's own exit convention: invoke.ExitPartial
// (3) when at least one run reported findings or skipped targets, the failing
// child's status when a semgrep run died fatally, and 1 for everything else
// (config errors, prepare failures, upload failures).
type ExitError struct {
	Code invoke.ExitCode
	Err  error
}

// Error renders the wrapped cause when present and falls back to the bare
// status, e.g. for a findings-only partial run that has nothing else to say.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap exposes the cause to errors.Is/As.
func (e *ExitError) Unwrap() error {
	return e.Err
}
