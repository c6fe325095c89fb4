// SPDX-License-Identifier: MPL-2.0

package harness

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"sgbench/internal/bench"
	"sgbench/internal/invoke"
)

// Harness tests drive workdir scopes and therefore mutate the process
// working directory; they do not run in parallel.

type (
	fakeRunner struct {
		calls   []invoke.Invocation
		results []invoke.Measurement
		errs    []error
	}

	fakePreparer struct {
		calls []string
		err   error
	}

	fakeSink struct {
		calls []string
		err   error
	}
)

func (r *fakeRunner) Run(_ context.Context, inv invoke.Invocation) (invoke.Measurement, error) {
	i := len(r.calls)
	r.calls = append(r.calls, inv)
	if i < len(r.errs) && r.errs[i] != nil {
		return invoke.Measurement{}, r.errs[i]
	}
	if i < len(r.results) {
		return r.results[i], nil
	}
	return invoke.Measurement{Duration: time.Second, Code: invoke.ExitOK}, nil
}

func (p *fakePreparer) Prepare(_ context.Context, corpus bench.Corpus, _ string) error {
	p.calls = append(p.calls, corpus.Name)
	return p.err
}

func (s *fakeSink) Report(_ context.Context, name string, _ float64) error {
	s.calls = append(s.calls, name)
	return s.err
}

func quietLogger() *log.Logger {
	return log.New(bytes.NewBuffer(nil))
}

// newBenchRoot creates a benchmark root containing one directory per corpus.
func newBenchRoot(t *testing.T, corpora []bench.Corpus) string {
	t.Helper()
	root := t.TempDir()
	for _, c := range corpora {
		if err := os.Mkdir(filepath.Join(root, c.Name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestRunSingleCorpusSingleVariant(t *testing.T) {
	corpora := []bench.Corpus{{Name: "c1", RuleDir: "rules/", TargetDir: "targets/"}}
	root := newBenchRoot(t, corpora)

	runner := &fakeRunner{
		results: []invoke.Measurement{{Duration: 2500 * time.Millisecond, Code: invoke.ExitOK}},
	}
	sink := &fakeSink{}
	var out bytes.Buffer

	h := New(Options{
		Corpora:  corpora,
		Variants: []bench.Variant{{Name: "v1"}},
		Builder:  &invoke.Builder{},
		Runner:   runner,
		Prep:     &fakePreparer{},
		Root:     root,
		Logger:   quietLogger(),
		Stdout:   &out,
		// Sink deliberately nil: uploading disabled.
	})

	results, err := h.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if want := "semgrep.bench.c1.v1.duration = 2.500 s\n"; out.String() != want {
		t.Errorf("printed report = %q, want %q", out.String(), want)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Partial {
		t.Error("result marked partial for exit status 0")
	}
	if len(sink.calls) != 0 {
		t.Errorf("sink called %d times with uploading disabled", len(sink.calls))
	}
	if len(runner.calls) != 1 {
		t.Fatalf("runner called %d times, want 1", len(runner.calls))
	}
}

func TestRunFatalExitAbortsMatrix(t *testing.T) {
	corpora := []bench.Corpus{
		{Name: "c1", RuleDir: "rules/", TargetDir: "targets/"},
		{Name: "c2", RuleDir: "rules/", TargetDir: "targets/"},
	}
	root := newBenchRoot(t, corpora)

	before, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	fatal := &invoke.InvocationError{Code: 7}
	runner := &fakeRunner{errs: []error{fatal}}
	var out bytes.Buffer

	h := New(Options{
		Corpora:  corpora,
		Variants: []bench.Variant{{Name: "v1"}, {Name: "v2"}},
		Builder:  &invoke.Builder{},
		Runner:   runner,
		Prep:     &fakePreparer{},
		Root:     root,
		Logger:   quietLogger(),
		Stdout:   &out,
	})

	_, err = h.Run(context.Background())
	if !errors.Is(err, invoke.ErrInvocationFailed) {
		t.Fatalf("Run returned %v, want invocation failure", err)
	}

	if len(runner.calls) != 1 {
		t.Errorf("runner called %d times after fatal exit, want 1", len(runner.calls))
	}
	if out.Len() != 0 {
		t.Errorf("report printed despite aborted run: %q", out.String())
	}
	if after, _ := os.Getwd(); after != before {
		t.Errorf("working directory not restored after abort: %q", after)
	}
}

func TestRunPartialIsRecordedAndContinues(t *testing.T) {
	corpora := []bench.Corpus{{Name: "c1", RuleDir: "rules/", TargetDir: "targets/"}}
	root := newBenchRoot(t, corpora)

	runner := &fakeRunner{
		results: []invoke.Measurement{
			{Duration: time.Second, Code: invoke.ExitPartial},
			{Duration: 2 * time.Second, Code: invoke.ExitOK},
		},
	}
	var out bytes.Buffer

	h := New(Options{
		Corpora:  corpora,
		Variants: []bench.Variant{{Name: "v1"}, {Name: "v2"}},
		Builder:  &invoke.Builder{},
		Runner:   runner,
		Prep:     &fakePreparer{},
		Root:     root,
		Logger:   quietLogger(),
		Stdout:   &out,
	})

	results, err := h.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !results[0].Partial {
		t.Error("exit status 3 not recorded as partial")
	}
	if results[1].Partial {
		t.Error("exit status 0 recorded as partial")
	}
}

func TestRunPrepFailureIsFatal(t *testing.T) {
	corpora := []bench.Corpus{{Name: "c1", RuleDir: "rules/", TargetDir: "targets/"}}
	root := newBenchRoot(t, corpora)

	prep := &fakePreparer{err: &PrepError{Corpus: "c1", Err: errors.New("clone failed")}}
	runner := &fakeRunner{}

	h := New(Options{
		Corpora:  corpora,
		Variants: []bench.Variant{{Name: "v1"}},
		Builder:  &invoke.Builder{},
		Runner:   runner,
		Prep:     prep,
		Root:     root,
		Logger:   quietLogger(),
		Stdout:   bytes.NewBuffer(nil),
	})

	_, err := h.Run(context.Background())
	if !errors.Is(err, ErrPrepFailed) {
		t.Fatalf("Run returned %v, want preparation failure", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("runner called %d times after prep failure, want 0", len(runner.calls))
	}
}

func TestRunUploadFailureAbortsBeforeNextVariant(t *testing.T) {
	corpora := []bench.Corpus{{Name: "c1", RuleDir: "rules/", TargetDir: "targets/"}}
	root := newBenchRoot(t, corpora)

	sinkErr := errors.New("connection reset")
	runner := &fakeRunner{}
	sink := &fakeSink{err: sinkErr}

	h := New(Options{
		Corpora:  corpora,
		Variants: []bench.Variant{{Name: "v1"}, {Name: "v2"}},
		Builder:  &invoke.Builder{},
		Runner:   runner,
		Prep:     &fakePreparer{},
		Sink:     sink,
		Root:     root,
		Logger:   quietLogger(),
		Stdout:   bytes.NewBuffer(nil),
	})

	_, err := h.Run(context.Background())
	if !errors.Is(err, sinkErr) {
		t.Fatalf("Run returned %v, want sink error", err)
	}
	if len(runner.calls) != 1 {
		t.Errorf("runner called %d times, want 1 (abort before next variant)", len(runner.calls))
	}
	if len(sink.calls) != 1 {
		t.Errorf("sink called %d times, want 1", len(sink.calls))
	}
}

func TestRunUploadsEveryRecordedMetric(t *testing.T) {
	corpora := []bench.Corpus{
		{Name: "c1", RuleDir: "rules/", TargetDir: "targets/"},
		{Name: "c2", RuleDir: "rules/", TargetDir: "targets/"},
	}
	root := newBenchRoot(t, corpora)

	sink := &fakeSink{}
	h := New(Options{
		Corpora:  corpora,
		Variants: []bench.Variant{{Name: "v1"}, {Name: "v2"}},
		Builder:  &invoke.Builder{},
		Runner:   &fakeRunner{},
		Prep:     &fakePreparer{},
		Sink:     sink,
		Root:     root,
		Logger:   quietLogger(),
		Stdout:   bytes.NewBuffer(nil),
	})

	if _, err := h.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := []string{
		"semgrep.bench.c1.v1.duration",
		"semgrep.bench.c1.v2.duration",
		"semgrep.bench.c2.v1.duration",
		"semgrep.bench.c2.v2.duration",
	}
	if len(sink.calls) != len(want) {
		t.Fatalf("sink called %d times, want %d", len(sink.calls), len(want))
	}
	for i, name := range want {
		if sink.calls[i] != name {
			t.Errorf("upload[%d] = %q, want %q", i, sink.calls[i], name)
		}
	}
}

func TestRunPassesCorpusDirToBuilderAndRunner(t *testing.T) {
	corpora := []bench.Corpus{{Name: "c1", RuleDir: "rules/", TargetDir: "targets/"}}
	root := newBenchRoot(t, corpora)

	runner := &fakeRunner{}
	h := New(Options{
		Corpora:  corpora,
		Variants: []bench.Variant{{Name: "v1"}},
		Builder:  &invoke.Builder{},
		Runner:   runner,
		Prep:     &fakePreparer{},
		Root:     root,
		Logger:   quietLogger(),
		Stdout:   bytes.NewBuffer(nil),
	})

	if _, err := h.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	wantDir, err := filepath.EvalSymlinks(filepath.Join(root, "c1"))
	if err != nil {
		t.Fatal(err)
	}
	gotDir, err := filepath.EvalSymlinks(runner.calls[0].Dir)
	if err != nil {
		t.Fatal(err)
	}
	if gotDir != wantDir {
		t.Errorf("invocation dir = %q, want %q", gotDir, wantDir)
	}
	if !filepath.IsAbs(runner.calls[0].Argv[2]) {
		t.Errorf("rule path %q is not absolute", runner.calls[0].Argv[2])
	}
}
