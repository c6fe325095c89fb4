// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"testing"

	"github.com/spf13/pflag"

	"sgbench/internal/bench"
)

// resetBenchFlags restores the package-level flag state after a test.
func resetBenchFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		benchStd = false
		benchDummy = false
		benchGitLab = false
		benchInternal = false
	})
}

func TestSelectedCorpusSet(t *testing.T) {
	resetBenchFlags(t)

	tests := []struct {
		name string
		set  func()
		want bench.CorpusSet
	}{
		{name: "default is standard", set: func() {}, want: bench.SetStandard},
		{name: "std flag", set: func() { benchStd = true }, want: bench.SetStandard},
		{name: "dummy flag", set: func() { benchDummy = true }, want: bench.SetDummy},
		{name: "gitlab flag", set: func() { benchGitLab = true }, want: bench.SetGitLab},
		{name: "internal flag", set: func() { benchInternal = true }, want: bench.SetInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			benchStd, benchDummy, benchGitLab, benchInternal = false, false, false, false
			tt.set()

			if got := selectedCorpusSet(); got != tt.want {
				t.Errorf("selectedCorpusSet() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStringOverride(t *testing.T) {
	t.Parallel()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("semgrep", "", "")

	if got := stringOverride(flags, "semgrep", "", "/from/config"); got != "/from/config" {
		t.Errorf("unchanged flag: got %q, want config value", got)
	}

	if err := flags.Set("semgrep", "/from/flag"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if got := stringOverride(flags, "semgrep", "/from/flag", "/from/config"); got != "/from/flag" {
		t.Errorf("changed flag: got %q, want flag value", got)
	}
}

func TestBenchCorpusSetFlagsMutuallyExclusive(t *testing.T) {
	resetBenchFlags(t)

	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"bench", "--std", "--dummy"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for combined --std and --dummy")
	}
}
