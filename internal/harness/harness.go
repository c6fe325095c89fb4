// SPDX-License-Identifier: MPL-2.0

package harness

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"sgbench/internal/bench"
	"sgbench/internal/invoke"
	"sgbench/internal/workdir"
)

const (
	// DefaultNamespace prefixes every metric name.
	DefaultNamespace = "semgrep.bench"
	// DefaultRoot is the top-level directory holding one subdirectory per
	// corpus.
	DefaultRoot = "bench"
)

type (
	// CommandRunner executes one built invocation and times it.
	// Implemented by invoke.Runner.
	CommandRunner interface {
		Run(ctx context.Context, inv invoke.Invocation) (invoke.Measurement, error)
	}

	// InvocationBuilder turns one (corpus, variant) pair into an
	// invocation. Implemented by invoke.Builder.
	InvocationBuilder interface {
		Build(corpus bench.Corpus, variant bench.Variant, dir string) (invoke.Invocation, error)
	}

	// Preparer materializes a corpus's inputs before any variant runs.
	// Implemented by ScriptPreparer.
	Preparer interface {
		Prepare(ctx context.Context, corpus bench.Corpus, dir string) error
	}

	// MetricSink publishes one duration metric. Implemented by
	// metrics.Reporter.
	MetricSink interface {
		Report(ctx context.Context, name string, seconds float64) error
	}

	// Result is the recorded outcome of one (corpus, variant) run.
	// Results are produced in matrix iteration order.
	Result struct {
		Corpus   string
		Variant  string
		Duration time.Duration
		Partial  bool
		Message  string
	}

	// Options configures a Harness. Builder is required; the remaining
	// collaborators default to their production implementations. Sink is
	// optional: nil disables metric uploading.
	Options struct {
		Corpora   []bench.Corpus
		Variants  []bench.Variant
		Builder   InvocationBuilder
		Runner    CommandRunner
		Prep      Preparer
		Sink      MetricSink
		Namespace string
		Root      string
		Logger    *log.Logger
		Stdout    io.Writer
	}

	// Harness drives the corpus × variant matrix sequentially. The first
	// fatal failure — preparation, invocation, or upload — aborts the
	// whole run; there is no per-corpus isolation or retry.
	Harness struct {
		corpora   []bench.Corpus
		variants  []bench.Variant
		builder   InvocationBuilder
		runner    CommandRunner
		prep      Preparer
		sink      MetricSink
		namespace string
		root      string
		logger    *log.Logger
		stdout    io.Writer
		results   []Result
	}
)

// New creates a Harness from opts, filling unset collaborators with
// production defaults.
func New(opts Options) *Harness {
	h := &Harness{
		corpora:   opts.Corpora,
		variants:  opts.Variants,
		builder:   opts.Builder,
		runner:    opts.Runner,
		prep:      opts.Prep,
		sink:      opts.Sink,
		namespace: opts.Namespace,
		root:      opts.Root,
		logger:    opts.Logger,
		stdout:    opts.Stdout,
	}
	if h.variants == nil {
		h.variants = bench.DefaultVariants()
	}
	if h.runner == nil {
		h.runner = invoke.NewRunner()
	}
	if h.prep == nil {
		h.prep = NewScriptPreparer()
	}
	if h.namespace == "" {
		h.namespace = DefaultNamespace
	}
	if h.root == "" {
		h.root = DefaultRoot
	}
	if h.logger == nil {
		h.logger = log.Default()
	}
	if h.stdout == nil {
		h.stdout = os.Stdout
	}
	return h
}

// Run executes the full matrix and prints the recorded result messages in
// production order once every corpus has completed. It returns the results
// so callers can render additional summaries.
//
// On the first fatal failure Run aborts and returns the error; results
// recorded so far are not printed. Partially analyzed runs (semgrep exit
// status 3) are recorded and the matrix continues.
func (h *Harness) Run(ctx context.Context) ([]Result, error) {
	for _, corpus := range h.corpora {
		if err := h.runCorpus(ctx, corpus); err != nil {
			return nil, err
		}
	}

	for _, res := range h.results {
		fmt.Fprintln(h.stdout, res.Message)
	}
	return h.results, nil
}

func (h *Harness) runCorpus(ctx context.Context, corpus bench.Corpus) error {
	return workdir.With(filepath.Join(h.root, corpus.Name), func(dir string) error {
		h.logger.Info("preparing corpus", "corpus", corpus.Name)
		if err := h.prep.Prepare(ctx, corpus, dir); err != nil {
			return err
		}

		for _, variant := range h.variants {
			if err := h.runVariant(ctx, corpus, variant, dir); err != nil {
				return err
			}
		}
		return nil
	})
}

func (h *Harness) runVariant(ctx context.Context, corpus bench.Corpus, variant bench.Variant, dir string) error {
	name := h.metricName(corpus.Name, variant.Name)

	inv, err := h.builder.Build(corpus, variant, dir)
	if err != nil {
		return err
	}

	h.logger.Info("running benchmark", "metric", name, "command", strings.Join(inv.Argv, " "))
	m, err := h.runner.Run(ctx, inv)
	if err != nil {
		return err
	}
	if m.Code.IsPartial() {
		h.logger.Warn("some inputs could not be analyzed", "metric", name, "exit_code", m.Code)
	}

	h.results = append(h.results, Result{
		Corpus:   corpus.Name,
		Variant:  variant.Name,
		Duration: m.Duration,
		Partial:  m.Code.IsPartial(),
		Message:  fmt.Sprintf("%s = %.3f s", name, m.Duration.Seconds()),
	})

	if h.sink != nil {
		h.logger.Info("uploading metric", "metric", name)
		if err := h.sink.Report(ctx, name, m.Duration.Seconds()); err != nil {
			return err
		}
	}
	return nil
}

// metricName formats the dashboard metric name for one (corpus, variant)
// pair: {namespace}.{corpus}.{variant}.duration.
func (h *Harness) metricName(corpus, variant string) string {
	return fmt.Sprintf("%s.%s.%s.duration", h.namespace, corpus, variant)
}
