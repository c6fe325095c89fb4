// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes content as config.cue in a fresh temp dir and returns the dir.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Parallel()

	p := NewProvider()
	cfg, err := p.Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := DefaultConfig()
	if cfg.SemgrepPath != want.SemgrepPath {
		t.Errorf("SemgrepPath = %q, want %q", cfg.SemgrepPath, want.SemgrepPath)
	}
	if cfg.BenchRoot != want.BenchRoot {
		t.Errorf("BenchRoot = %q, want %q", cfg.BenchRoot, want.BenchRoot)
	}
	if cfg.MetricNamespace != want.MetricNamespace {
		t.Errorf("MetricNamespace = %q, want %q", cfg.MetricNamespace, want.MetricNamespace)
	}
	if cfg.DashboardURL != want.DashboardURL {
		t.Errorf("DashboardURL = %q, want %q", cfg.DashboardURL, want.DashboardURL)
	}
	if cfg.Upload {
		t.Error("Upload should default to false")
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("UI.ColorScheme = %q, want %q", cfg.UI.ColorScheme, ColorSchemeAuto)
	}
}

func TestLoadValidConfigFile(t *testing.T) {
	t.Parallel()

	dir := writeConfig(t, `
semgrep_path: "/opt/semgrep/bin/semgrep"
metric_namespace: "semgrep.bench.nightly"
upload: true
ui: verbose: true
`)

	p := NewProvider()
	cfg, err := p.Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SemgrepPath != "/opt/semgrep/bin/semgrep" {
		t.Errorf("SemgrepPath = %q", cfg.SemgrepPath)
	}
	if cfg.MetricNamespace != "semgrep.bench.nightly" {
		t.Errorf("MetricNamespace = %q", cfg.MetricNamespace)
	}
	if !cfg.Upload {
		t.Error("Upload should be true")
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose should be true")
	}
	// Unset fields keep defaults.
	if cfg.BenchRoot != DefaultConfig().BenchRoot {
		t.Errorf("BenchRoot = %q, want default", cfg.BenchRoot)
	}
}

func TestLoadExplicitConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.cue")
	if err := os.WriteFile(path, []byte(`docker_image: "semgrep/semgrep:latest"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	p := NewProvider()
	cfg, err := p.Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DockerImage != "semgrep/semgrep:latest" {
		t.Errorf("DockerImage = %q", cfg.DockerImage)
	}
}

func TestLoadExplicitConfigFileMissing(t *testing.T) {
	t.Parallel()

	p := NewProvider()
	_, err := p.Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue"),
	})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
	if !strings.Contains(err.Error(), "failed to load configuration") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestLoadInvalidCUESyntax(t *testing.T) {
	t.Parallel()

	dir := writeConfig(t, `semgrep_path: "unterminated`)

	p := NewProvider()
	_, err := p.Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err == nil {
		t.Fatal("expected error for invalid CUE syntax")
	}
}

func TestLoadSchemaViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "wrong type", content: `upload: "yes"`},
		{name: "bad color scheme", content: `ui: color_scheme: "neon"`},
		{name: "empty semgrep path", content: `semgrep_path: ""`},
		{name: "bad namespace", content: `metric_namespace: ".leading.dot"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := writeConfig(t, tt.content)
			p := NewProvider()
			if _, err := p.Load(context.Background(), LoadOptions{ConfigDirPath: dir}); err == nil {
				t.Fatal("expected schema validation error")
			}
		})
	}
}

func TestLoadValidationBeyondSchema(t *testing.T) {
	t.Parallel()

	// Passes the schema regex but has no host, so Config.IsValid rejects it.
	dir := writeConfig(t, `dashboard_url: "http://"`)

	p := NewProvider()
	_, err := p.Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err == nil {
		t.Fatal("expected validation error for URL without host")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig: %v", err)
	}
}

func TestLoadCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProvider()
	if _, err := p.Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %q, want %q", got, dir)
	}
}

func TestGenerateCUERoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.DockerImage = "semgrep/semgrep:1.0"
	cfg.Upload = true

	rendered := GenerateCUE(cfg)

	dir := writeConfig(t, rendered)
	p := NewProvider()
	loaded, err := p.Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() of generated config error = %v", err)
	}
	if loaded.DockerImage != cfg.DockerImage {
		t.Errorf("DockerImage = %q, want %q", loaded.DockerImage, cfg.DockerImage)
	}
	if !loaded.Upload {
		t.Error("Upload should survive the round trip")
	}
}
