// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"path/filepath"
	"testing"
)

func TestProviderLoadDefaults(t *testing.T) {
	t.Parallel()

	p := NewProvider()
	cfg, err := p.Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SemgrepPath != DefaultConfig().SemgrepPath {
		t.Errorf("SemgrepPath = %q, want default", cfg.SemgrepPath)
	}
}

func TestProviderResolveReportsSource(t *testing.T) {
	t.Parallel()

	p := NewProvider()

	// No config file: empty resolved path, defaults in effect.
	cfg, resolvedPath, err := p.Resolve(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolvedPath != "" {
		t.Errorf("resolved path = %q, want empty for defaults", resolvedPath)
	}
	if cfg.MetricNamespace != DefaultConfig().MetricNamespace {
		t.Errorf("MetricNamespace = %q, want default", cfg.MetricNamespace)
	}

	// With a config file: the path of the file that was read.
	dir := writeConfig(t, `bench_root: "perf/bench"`)
	want := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)

	cfg, resolvedPath, err = p.Resolve(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolvedPath != want {
		t.Errorf("resolved path = %q, want %q", resolvedPath, want)
	}
	if cfg.BenchRoot != "perf/bench" {
		t.Errorf("BenchRoot = %q, want value from resolved file", cfg.BenchRoot)
	}
}
