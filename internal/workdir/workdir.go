// SPDX-License-Identifier: MPL-2.0

// Package workdir provides a scoped working-directory guard. It is the one
// place in the harness that touches the process-wide working directory:
// every other component receives the resolved directory as an explicit
// parameter and sets it on the child process it spawns.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// With switches the working directory to path, invokes body with the
// absolute resolved path, and restores the previous working directory on
// every exit path: normal return, error return, and panic. Nested calls
// restore in LIFO order.
//
// The absolute path is handed to body so process spawns can set
// exec.Cmd.Dir explicitly instead of relying on the ambient directory.
func With(path string, body func(abs string) error) (err error) {
	prev, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("workdir: record current directory: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("workdir: resolve %s: %w", path, err)
	}

	if err := os.Chdir(abs); err != nil {
		return fmt.Errorf("workdir: enter %s: %w", path, err)
	}

	defer func() {
		if restoreErr := os.Chdir(prev); restoreErr != nil && err == nil {
			err = fmt.Errorf("workdir: restore %s: %w", prev, restoreErr)
		}
	}()

	return body(abs)
}
