// SPDX-License-Identifier: MPL-2.0

package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"sgbench/internal/bench"
)

// PrepScriptName is the corpus-local preparation hook. It materializes the
// corpus's rule and target inputs (clones, downloads, checkouts) and must
// exit zero before any variant runs.
const PrepScriptName = "prepare"

// ErrPrepFailed is the sentinel error wrapped by PrepError.
var ErrPrepFailed = errors.New("corpus preparation failed")

type (
	// PrepError reports a preparation hook that could not run or exited
	// non-zero. Always fatal: without prepared inputs no timing from this
	// corpus would be meaningful.
	PrepError struct {
		Corpus string
		Err    error
	}

	// ScriptPreparer runs the corpus-local prepare hook. Executable hooks
	// run directly; scripts without the exec bit fall back to the embedded
	// POSIX interpreter so checkouts on filesystems that drop permission
	// bits still prepare.
	ScriptPreparer struct {
		Stdout io.Writer
		Stderr io.Writer
	}
)

// Error implements the error interface.
func (e *PrepError) Error() string {
	return fmt.Sprintf("preparing corpus %s: %v", e.Corpus, e.Err)
}

// Unwrap returns ErrPrepFailed so callers can use errors.Is.
func (e *PrepError) Unwrap() error { return ErrPrepFailed }

// NewScriptPreparer creates a ScriptPreparer wired to the process's
// standard streams.
func NewScriptPreparer() *ScriptPreparer {
	return &ScriptPreparer{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Prepare runs the corpus's prepare hook in dir. The hook takes no
// arguments and its only contract is a zero exit code.
func (p *ScriptPreparer) Prepare(ctx context.Context, corpus bench.Corpus, dir string) error {
	script := filepath.Join(dir, PrepScriptName)

	info, err := os.Stat(script)
	if err != nil {
		return &PrepError{Corpus: corpus.Name, Err: err}
	}

	if info.Mode()&0o111 == 0 {
		return p.runInterpreted(ctx, corpus, script, dir)
	}

	cmd := exec.CommandContext(ctx, script)
	cmd.Dir = dir
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr
	if err := cmd.Run(); err != nil {
		return &PrepError{Corpus: corpus.Name, Err: err}
	}
	return nil
}

// runInterpreted executes a non-executable prepare script through the
// embedded shell interpreter.
func (p *ScriptPreparer) runInterpreted(ctx context.Context, corpus bench.Corpus, script, dir string) error {
	src, err := os.Open(script)
	if err != nil {
		return &PrepError{Corpus: corpus.Name, Err: err}
	}
	defer src.Close()

	prog, err := syntax.NewParser().Parse(src, PrepScriptName)
	if err != nil {
		return &PrepError{Corpus: corpus.Name, Err: fmt.Errorf("parse %s: %w", PrepScriptName, err)}
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, p.Stdout, p.Stderr),
	)
	if err != nil {
		return &PrepError{Corpus: corpus.Name, Err: err}
	}

	if err := runner.Run(ctx, prog); err != nil {
		return &PrepError{Corpus: corpus.Name, Err: err}
	}
	return nil
}
