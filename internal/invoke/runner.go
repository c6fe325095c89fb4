// SPDX-License-Identifier: MPL-2.0

package invoke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrInvocationFailed is the sentinel error wrapped by InvocationError.
var ErrInvocationFailed = errors.New("invocation failed")

type (
	// Measurement is the timed outcome of one invocation.
	Measurement struct {
		// Duration is the wall-clock time of the child process, measured
		// with the monotonic clock.
		Duration time.Duration
		// Code is the child's exit status: ExitOK or ExitPartial. Fatal
		// codes never produce a Measurement.
		Code ExitCode
	}

	// InvocationError reports a fatal benchmark run: a semgrep exit status
	// outside {0, 3}, or a child process that could not be started at all
	// (Code is -1 in that case). It wraps ErrInvocationFailed for
	// errors.Is compatibility.
	InvocationError struct {
		Argv []string
		Code ExitCode
		Err  error
	}

	// Runner executes invocations synchronously, one at a time. Benchmark
	// measurements must never overlap: concurrent runs would share CPU,
	// memory, and filesystem caches and invalidate the timings.
	Runner struct {
		// Stdout and Stderr receive the child's output. They default to
		// the harness's own streams.
		Stdout io.Writer
		Stderr io.Writer
	}
)

// Error implements the error interface.
func (e *InvocationError) Error() string {
	cmd := strings.Join(e.Argv, " ")
	if e.Err != nil {
		return fmt.Sprintf("invocation failed: %s: %v", cmd, e.Err)
	}
	return fmt.Sprintf("invocation failed: %s: exit status %s", cmd, e.Code)
}

// Unwrap returns ErrInvocationFailed so callers can use errors.Is.
func (e *InvocationError) Unwrap() error { return ErrInvocationFailed }

// NewRunner creates a Runner wired to the process's standard streams.
func NewRunner() *Runner {
	return &Runner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes the invocation synchronously and times it. No harness-level
// timeout is applied — the analysis tool is explicitly given an unbounded
// timeout and some corpora legitimately take hours.
//
// The invocation's environment overrides are layered onto the inherited
// environment of the child process only; the harness's own environment is
// never mutated.
//
// Exit status 0 and 3 return a Measurement (3 marks a partial analysis,
// recorded but non-fatal). Any other status, or a failure to spawn the
// child, returns an *InvocationError.
func (r *Runner) Run(ctx context.Context, inv Invocation) (Measurement, error) {
	if len(inv.Argv) == 0 {
		return Measurement{}, &InvocationError{Code: -1, Err: errors.New("empty argument vector")}
	}

	cmd := exec.CommandContext(ctx, inv.Argv[0], inv.Argv[1:]...)
	cmd.Dir = inv.Dir
	cmd.Env = append(os.Environ(), envToSlice(inv.Env)...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Measurement{}, &InvocationError{Argv: inv.Argv, Code: -1, Err: err}
		}
		code := ExitCode(exitErr.ExitCode())
		if code.IsPartial() {
			return Measurement{Duration: elapsed, Code: code}, nil
		}
		return Measurement{}, &InvocationError{Argv: inv.Argv, Code: code}
	}

	return Measurement{Duration: elapsed, Code: ExitOK}, nil
}

// envToSlice converts environment overrides to the KEY=VALUE form expected
// by exec.Cmd.Env.
func envToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	return result
}
