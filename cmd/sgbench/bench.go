// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"sgbench/internal/bench"
	"sgbench/internal/config"
	"sgbench/internal/harness"
	"sgbench/internal/invoke"
	"sgbench/internal/metrics"
)

var (
	benchStd      bool
	benchDummy    bool
	benchGitLab   bool
	benchInternal bool
	benchUpload   bool
	benchSemgrep  string
	benchDocker   string
	benchRootDir  string
	benchNS       string

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Run the corpus × variant benchmark matrix",
		Long: `Run full semgrep benchmarks over the selected corpus set.

For each corpus the prepare hook runs once inside the corpus directory,
then every variant runs semgrep over the corpus rules and targets with
the variant's engine options. Durations are printed after the whole
matrix completes, one metric per line:

  semgrep.bench.<corpus>.<variant>.duration = <seconds> s

Exit status is 0 when every run succeeded, 3 when at least one run
reported findings or skipped targets, and 1 on fatal errors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd)
		},
	}
)

func init() {
	flags := benchCmd.Flags()

	flags.BoolVar(&benchStd, "std", false, "run the standard corpus set (default)")
	flags.BoolVar(&benchDummy, "dummy", false, "run the tiny smoke-test corpus set")
	flags.BoolVar(&benchGitLab, "gitlab", false, "run the GitLab corpus set")
	flags.BoolVar(&benchInternal, "internal", false, "run the internal corpus set")
	benchCmd.MarkFlagsMutuallyExclusive("std", "dummy", "gitlab", "internal")

	flags.BoolVar(&benchUpload, "upload", false, "POST durations to the metrics dashboard")
	flags.StringVar(&benchSemgrep, "semgrep", "", "path to the semgrep binary")
	flags.StringVar(&benchDocker, "docker", "", "run semgrep via this container image instead of natively")
	flags.StringVar(&benchRootDir, "root", "", "directory holding one subdirectory per corpus")
	flags.StringVar(&benchNS, "namespace", "", "metric name prefix")
}

// selectedCorpusSet maps the mutually exclusive set flags to a CorpusSet.
// No flag means the standard set.
func selectedCorpusSet() bench.CorpusSet {
	switch {
	case benchDummy:
		return bench.SetDummy
	case benchGitLab:
		return bench.SetGitLab
	case benchInternal:
		return bench.SetInternal
	default:
		return bench.SetStandard
	}
}

// stringOverride returns the flag value when set, the config value otherwise.
func stringOverride(flags *pflag.FlagSet, name, flagValue, cfgValue string) string {
	if flags.Changed(name) {
		return flagValue
	}
	return cfgValue
}

func runBench(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 1, Err: err}
	}

	if !verbose {
		verbose = cfg.UI.Verbose
	}
	logger := newLogger(verbose)

	flags := cmd.Flags()
	semgrepPath := stringOverride(flags, "semgrep", benchSemgrep, string(cfg.SemgrepPath))
	dockerImage := stringOverride(flags, "docker", benchDocker, string(cfg.DockerImage))
	root := stringOverride(flags, "root", benchRootDir, string(cfg.BenchRoot))
	namespace := stringOverride(flags, "namespace", benchNS, string(cfg.MetricNamespace))
	upload := benchUpload || cfg.Upload

	corpora, err := bench.SelectCorpora(selectedCorpusSet())
	if err != nil {
		return err
	}

	var sink harness.MetricSink
	if upload {
		sink = metrics.NewReporter(
			metrics.WithBaseURL(string(cfg.DashboardURL)),
			metrics.WithUserAgent("sgbench/"+Version),
			metrics.WithLogger(logger),
		)
	}

	h := harness.New(harness.Options{
		Corpora:   corpora,
		Builder:   &invoke.Builder{SemgrepPath: semgrepPath, DockerImage: dockerImage},
		Sink:      sink,
		Namespace: namespace,
		Root:      root,
		Logger:    logger,
	})

	results, err := h.Run(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

		var invErr *invoke.InvocationError
		if errors.As(err, &invErr) && invErr.Code > 0 {
			return &ExitError{Code: invErr.Code, Err: err}
		}
		return &ExitError{Code: 1, Err: err}
	}

	if verbose && len(results) > 0 {
		if summary, rerr := harness.RenderSummary(results); rerr == nil {
			fmt.Fprint(cmd.OutOrStdout(), summary)
		} else {
			logger.Debug("could not render summary", "err", rerr)
		}
	}

	partial := 0
	for _, res := range results {
		if res.Partial {
			partial++
		}
	}
	if partial > 0 {
		return &ExitError{
			Code: invoke.ExitPartial,
			Err:  fmt.Errorf("%d of %d runs reported findings or skipped targets", partial, len(results)),
		}
	}
	return nil
}
