// SPDX-License-Identifier: MPL-2.0

package bench

import (
	"errors"
	"fmt"
)

const (
	// SetStandard is the public corpus set used for the published numbers.
	SetStandard CorpusSet = "std"
	// SetDummy is a tiny corpus set for fast iteration on the harness itself.
	SetDummy CorpusSet = "dummy"
	// SetGitLab is the CI-partner corpus set (GitLab rules against GitLab repos).
	SetGitLab CorpusSet = "gitlab"
	// SetInternal is the internal-only corpus set; its prepare hooks pull
	// repositories that are not publicly accessible.
	SetInternal CorpusSet = "internal"
)

// ErrUnknownCorpusSet is the sentinel error wrapped by UnknownCorpusSetError.
var ErrUnknownCorpusSet = errors.New("unknown corpus set")

type (
	// Corpus pairs one rule set with one target codebase as a single
	// benchmark case. RuleDir and TargetDir are relative to the corpus
	// directory and only exist after the corpus's prepare hook has run.
	Corpus struct {
		// Name is unique within a corpus set and doubles as the corpus's
		// subdirectory name under the benchmark root.
		Name string
		// RuleDir holds the semgrep rules for this case.
		RuleDir string
		// TargetDir holds the codebase the rules are run against.
		TargetDir string
	}

	// CorpusSet identifies one of the four selectable corpus catalogs.
	CorpusSet string

	// UnknownCorpusSetError is returned when a CorpusSet is not one of the
	// recognized catalogs. It wraps ErrUnknownCorpusSet for errors.Is.
	UnknownCorpusSetError struct {
		Value CorpusSet
	}
)

// Error implements the error interface.
func (e *UnknownCorpusSetError) Error() string {
	return fmt.Sprintf("unknown corpus set %q (valid: std, dummy, gitlab, internal)", e.Value)
}

// Unwrap returns ErrUnknownCorpusSet so callers can use errors.Is.
func (e *UnknownCorpusSetError) Unwrap() error { return ErrUnknownCorpusSet }

// Validate returns an error if the CorpusSet is not a recognized catalog.
func (s CorpusSet) Validate() error {
	switch s {
	case SetStandard, SetDummy, SetGitLab, SetInternal:
		return nil
	default:
		return &UnknownCorpusSetError{Value: s}
	}
}

// String returns the catalog name.
func (s CorpusSet) String() string { return string(s) }

// StandardCorpora returns the public benchmark cases. These are the corpora
// behind the numbers on the public dashboard.
func StandardCorpora() []Corpus {
	return []Corpus{
		{Name: "zulip", RuleDir: "input/rules", TargetDir: "input/zulip"},
		{Name: "big-js", RuleDir: "input/rules", TargetDir: "input/repo"},
		{Name: "njsbox", RuleDir: "input/njsbox-rules", TargetDir: "input/njsbox"},
		{Name: "lodash", RuleDir: "input/rules", TargetDir: "input/lodash"},
	}
}

// DummyCorpora returns a single trivial case that prepares and runs in
// seconds, for exercising the harness end to end.
func DummyCorpora() []Corpus {
	return []Corpus{
		{Name: "dummy", RuleDir: "input/dummy/rules", TargetDir: "input/dummy/targets"},
	}
}

// GitLabCorpora returns the CI-partner cases: GitLab's rule sets against
// GitLab's own repositories.
func GitLabCorpora() []Corpus {
	return []Corpus{
		{Name: "gitlab-gitaly", RuleDir: "input/gitlab-rules", TargetDir: "input/gitaly"},
		{Name: "gitlab-gdk", RuleDir: "input/gitlab-rules", TargetDir: "input/gdk"},
		{Name: "gitlab-workhorse", RuleDir: "input/gitlab-rules", TargetDir: "input/workhorse"},
	}
}

// InternalCorpora returns cases whose prepare hooks need access to private
// repositories. They only run from machines with the right credentials.
func InternalCorpora() []Corpus {
	return []Corpus{
		{Name: "dogfood", RuleDir: "input/policy-rules", TargetDir: "input/dogfood"},
		{Name: "socket-hardening", RuleDir: "input/rules", TargetDir: "input/socket"},
	}
}

// SelectCorpora maps a validated CorpusSet to its catalog. Exactly one
// catalog is active per run; the CLI layer enforces that the selection
// flags are mutually exclusive.
func SelectCorpora(set CorpusSet) ([]Corpus, error) {
	switch set {
	case SetStandard:
		return StandardCorpora(), nil
	case SetDummy:
		return DummyCorpora(), nil
	case SetGitLab:
		return GitLabCorpora(), nil
	case SetInternal:
		return InternalCorpora(), nil
	default:
		return nil, &UnknownCorpusSetError{Value: set}
	}
}
