// SPDX-License-Identifier: MPL-2.0

package invoke

import (
	"fmt"
	"path/filepath"

	"sgbench/internal/bench"
)

const (
	// DefaultSemgrepPath is used when no explicit binary path is configured.
	DefaultSemgrepPath = "semgrep"

	// EngineOptionsVar is the environment variable read by semgrep-core.
	// It carries a space-separated argument string that tunes low-level
	// engine behavior independent of the tool-level flags.
	EngineOptionsVar = "SEMGREP_CORE_EXTRA"

	// containerRuleDir and containerTargetDir are the fixed mount points
	// handed to semgrep inside the container.
	containerRuleDir   = "/rules"
	containerTargetDir = "/targets"
)

// requiredFlags are appended to every invocation, containerized or native.
// --timeout 0 disables the per-rule timeout (large corpora legitimately
// take hours) and --no-git-ignore is needed because benchmark inputs are
// materialized by the prepare hook and sit under .gitignore.
var requiredFlags = []string{"--strict", "--timeout", "0", "--verbose", "--no-git-ignore"}

type (
	// Invocation is the fully resolved argument vector, environment
	// overrides, and working directory for one benchmark run. Built fresh
	// per (corpus, variant) pair and never reused.
	//
	// Env is applied to the spawned child only, never to the harness
	// process, so no two invocations can observe each other's engine
	// options.
	Invocation struct {
		Argv []string
		Env  map[string]string
		Dir  string
	}

	// Builder constructs invocations for one benchmark session. The zero
	// value builds native invocations of the semgrep binary on PATH.
	Builder struct {
		// SemgrepPath is the semgrep binary used for native runs.
		// Defaults to DefaultSemgrepPath when empty.
		SemgrepPath string
		// DockerImage, when non-empty, switches to containerized
		// execution against the given image.
		DockerImage string
	}
)

// Build constructs the invocation for running variant against corpus.
// dir is the corpus's absolute directory; the corpus's rule and target
// directories are resolved against it.
//
// Both branches require absolute rule/target paths: docker does not
// resolve relative bind-mount sources against the container's view, and
// semgrep's native mode is documented to require absolute paths.
func (b *Builder) Build(corpus bench.Corpus, variant bench.Variant, dir string) (Invocation, error) {
	ruleDir, err := absJoin(dir, corpus.RuleDir)
	if err != nil {
		return Invocation{}, fmt.Errorf("resolving rule dir for corpus %s: %w", corpus.Name, err)
	}
	targetDir, err := absJoin(dir, corpus.TargetDir)
	if err != nil {
		return Invocation{}, fmt.Errorf("resolving target dir for corpus %s: %w", corpus.Name, err)
	}

	var argv []string
	if b.DockerImage != "" {
		argv = []string{
			"docker", "run", "--rm",
			"-v", ruleDir + ":" + containerRuleDir,
			"-v", targetDir + ":" + containerTargetDir,
			b.DockerImage,
			"--config", containerRuleDir,
			containerTargetDir,
		}
	} else {
		argv = []string{b.semgrep(), "--config", ruleDir, targetDir}
	}

	argv = append(argv, requiredFlags...)
	if variant.ToolExtraArgs != "" {
		argv = append(argv, variant.ToolExtraArgs)
	}

	return Invocation{
		Argv: argv,
		Env:  map[string]string{EngineOptionsVar: variant.EngineExtraArgs},
		Dir:  dir,
	}, nil
}

func (b *Builder) semgrep() string {
	if b.SemgrepPath != "" {
		return b.SemgrepPath
	}
	return DefaultSemgrepPath
}

// absJoin resolves rel against base and guarantees an absolute result even
// when base itself is relative.
func absJoin(base, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel), nil
	}
	return filepath.Abs(filepath.Join(base, rel))
}
