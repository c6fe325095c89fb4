// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"sgbench/internal/harness"
	"sgbench/internal/invoke"
	"sgbench/internal/metrics"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidBinaryFilePath is returned when a BinaryFilePath value is whitespace-only.
	ErrInvalidBinaryFilePath = errors.New("invalid binary file path")
	// ErrInvalidBenchRoot is returned when a BenchRootPath value is empty or whitespace-only.
	ErrInvalidBenchRoot = errors.New("invalid bench root")
	// ErrInvalidMetricNamespace is returned when a MetricNamespace value is malformed.
	ErrInvalidMetricNamespace = errors.New("invalid metric namespace")
	// ErrInvalidDashboardURL is returned when a DashboardURL value is not an http(s) URL.
	ErrInvalidDashboardURL = errors.New("invalid dashboard URL")
	// ErrInvalidDockerImage is returned when a DockerImage value is whitespace-only.
	ErrInvalidDockerImage = errors.New("invalid docker image")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// BinaryFilePath represents a filesystem path to an executable.
	// The zero value ("") is valid and means "use the default binary".
	// Non-zero values must not be whitespace-only.
	BinaryFilePath string

	// InvalidBinaryFilePathError is returned when a BinaryFilePath value is
	// non-empty but whitespace-only. It wraps ErrInvalidBinaryFilePath.
	InvalidBinaryFilePathError struct {
		Value BinaryFilePath
	}

	// BenchRootPath represents the directory holding one subdirectory per corpus.
	// A valid path must be non-empty and not whitespace-only.
	BenchRootPath string

	// InvalidBenchRootError is returned when a BenchRootPath value is empty
	// or whitespace-only. It wraps ErrInvalidBenchRoot.
	InvalidBenchRootError struct {
		Value BenchRootPath
	}

	// MetricNamespace is the dotted prefix for uploaded metric names,
	// e.g. "semgrep.bench". Valid values are non-empty and contain no
	// empty dot-separated segments.
	MetricNamespace string

	// InvalidMetricNamespaceError is returned when a MetricNamespace value
	// is empty or has empty segments. It wraps ErrInvalidMetricNamespace.
	InvalidMetricNamespaceError struct {
		Value MetricNamespace
	}

	// DashboardURL is the base URL of the metrics dashboard.
	// A valid value parses as an absolute http or https URL.
	DashboardURL string

	// InvalidDashboardURLError is returned when a DashboardURL value does not
	// parse as an http(s) URL. It wraps ErrInvalidDashboardURL.
	InvalidDashboardURLError struct {
		Value DashboardURL
	}

	// DockerImage names the semgrep container image. The zero value ("")
	// is valid and means "run the semgrep binary natively".
	DockerImage string

	// InvalidDockerImageError is returned when a DockerImage value is
	// non-empty but whitespace-only. It wraps ErrInvalidDockerImage.
	InvalidDockerImageError struct {
		Value DockerImage
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// UIConfig holds terminal output settings.
	UIConfig struct {
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
		Verbose     bool        `mapstructure:"verbose"`
	}

	// InvalidUIConfigError aggregates UIConfig field validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// Config is the top-level application configuration.
	Config struct {
		SemgrepPath     BinaryFilePath  `mapstructure:"semgrep_path"`
		BenchRoot       BenchRootPath   `mapstructure:"bench_root"`
		MetricNamespace MetricNamespace `mapstructure:"metric_namespace"`
		DashboardURL    DashboardURL    `mapstructure:"dashboard_url"`
		DockerImage     DockerImage     `mapstructure:"docker_image"`
		Upload          bool            `mapstructure:"upload"`
		UI              UIConfig        `mapstructure:"ui"`
	}

	// InvalidConfigError aggregates Config field validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		SemgrepPath:     BinaryFilePath(invoke.DefaultSemgrepPath),
		BenchRoot:       BenchRootPath(harness.DefaultRoot),
		MetricNamespace: MetricNamespace(harness.DefaultNamespace),
		DashboardURL:    DashboardURL(metrics.DefaultBaseURL),
		DockerImage:     "",
		Upload:          false,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}

// String returns the string representation of the BinaryFilePath.
func (p BinaryFilePath) String() string { return string(p) }

// IsValid returns whether the BinaryFilePath is valid.
// The zero value ("") is valid (means "use the default binary").
func (p BinaryFilePath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidBinaryFilePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBinaryFilePathError.
func (e *InvalidBinaryFilePathError) Error() string {
	return fmt.Sprintf("invalid binary file path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidBinaryFilePath for errors.Is() compatibility.
func (e *InvalidBinaryFilePathError) Unwrap() error { return ErrInvalidBinaryFilePath }

// String returns the string representation of the BenchRootPath.
func (p BenchRootPath) String() string { return string(p) }

// IsValid returns whether the BenchRootPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p BenchRootPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidBenchRootError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBenchRootError.
func (e *InvalidBenchRootError) Error() string {
	return fmt.Sprintf("invalid bench root %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidBenchRoot for errors.Is() compatibility.
func (e *InvalidBenchRootError) Unwrap() error { return ErrInvalidBenchRoot }

// String returns the string representation of the MetricNamespace.
func (n MetricNamespace) String() string { return string(n) }

// IsValid returns whether the MetricNamespace is valid.
// A valid namespace is non-empty and every dot-separated segment is non-empty.
func (n MetricNamespace) IsValid() (bool, []error) {
	if strings.TrimSpace(string(n)) == "" {
		return false, []error{&InvalidMetricNamespaceError{Value: n}}
	}
	for _, seg := range strings.Split(string(n), ".") {
		if strings.TrimSpace(seg) == "" {
			return false, []error{&InvalidMetricNamespaceError{Value: n}}
		}
	}
	return true, nil
}

// Error implements the error interface for InvalidMetricNamespaceError.
func (e *InvalidMetricNamespaceError) Error() string {
	return fmt.Sprintf("invalid metric namespace %q: must be non-empty dot-separated segments", e.Value)
}

// Unwrap returns ErrInvalidMetricNamespace for errors.Is() compatibility.
func (e *InvalidMetricNamespaceError) Unwrap() error { return ErrInvalidMetricNamespace }

// String returns the string representation of the DashboardURL.
func (u DashboardURL) String() string { return string(u) }

// IsValid returns whether the DashboardURL is valid.
// A valid value parses as an absolute http or https URL with a host.
func (u DashboardURL) IsValid() (bool, []error) {
	parsed, err := url.Parse(string(u))
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return false, []error{&InvalidDashboardURLError{Value: u}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDashboardURLError.
func (e *InvalidDashboardURLError) Error() string {
	return fmt.Sprintf("invalid dashboard URL %q: must be an absolute http(s) URL", e.Value)
}

// Unwrap returns ErrInvalidDashboardURL for errors.Is() compatibility.
func (e *InvalidDashboardURLError) Unwrap() error { return ErrInvalidDashboardURL }

// String returns the string representation of the DockerImage.
func (i DockerImage) String() string { return string(i) }

// IsValid returns whether the DockerImage is valid.
// The zero value ("") is valid (means "run semgrep natively").
func (i DockerImage) IsValid() (bool, []error) {
	if i == "" {
		return true, nil
	}
	if strings.TrimSpace(string(i)) == "" {
		return false, []error{&InvalidDockerImageError{Value: i}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDockerImageError.
func (e *InvalidDockerImageError) Error() string {
	return fmt.Sprintf("invalid docker image %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidDockerImage for errors.Is() compatibility.
func (e *InvalidDockerImageError) Unwrap() error { return ErrInvalidDockerImage }

// String returns the string representation of the ColorScheme.
func (s ColorScheme) String() string { return string(s) }

// IsValid returns whether the ColorScheme is valid.
func (s ColorScheme) IsValid() (bool, []error) {
	switch s {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: s}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q: must be one of auto, dark, light", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to each typed field's IsValid(); Upload needs no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.SemgrepPath.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.BenchRoot.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.MetricNamespace.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.DashboardURL.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.DockerImage.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
