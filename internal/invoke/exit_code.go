// SPDX-License-Identifier: MPL-2.0

package invoke

import "strconv"

const (
	// ExitOK means semgrep completed and analyzed every input.
	ExitOK ExitCode = 0
	// ExitPartial means the scan completed but some files could not be
	// parsed or analyzed. Non-fatal: the timing is still valid for the
	// files that were processed.
	ExitPartial ExitCode = 3
)

// ExitCode is a semgrep process exit status. Anything other than ExitOK
// and ExitPartial is fatal to the benchmark run.
type ExitCode int

// IsSuccess returns true if every input was analyzed.
func (c ExitCode) IsSuccess() bool { return c == ExitOK }

// IsPartial returns true if the scan finished but skipped some inputs.
func (c ExitCode) IsPartial() bool { return c == ExitPartial }

// IsFatal returns true for any status that must abort the run.
func (c ExitCode) IsFatal() bool { return !c.IsSuccess() && !c.IsPartial() }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
