// SPDX-License-Identifier: MPL-2.0

// Package metrics publishes benchmark durations to the semgrep metrics
// dashboard.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// DefaultBaseURL is the public metrics dashboard.
	DefaultBaseURL = "https://dashboard.semgrep.dev"

	// maxResponseBytes bounds how much of the dashboard response is read.
	// The body carries no control semantics; it is consumed for diagnostic
	// logging only.
	maxResponseBytes = 4 << 10
)

// ErrUploadFailed is the sentinel error wrapped by UploadError.
var ErrUploadFailed = errors.New("metric upload failed")

type (
	// UploadError reports a failed metric upload: either a transport
	// failure (StatusCode is zero) or a non-2xx dashboard response. It is
	// a distinct error class from analysis failures — it reflects the
	// reporting side-channel, not the measurement itself.
	UploadError struct {
		Metric     string
		StatusCode int
		Err        error
	}

	// Reporter posts metric values to the dashboard. There is no retry:
	// any failure surfaces immediately to the caller.
	Reporter struct {
		httpClient *http.Client
		baseURL    string
		userAgent  string
		logger     *log.Logger
	}

	// ReporterOption configures a Reporter during construction.
	ReporterOption func(*Reporter)
)

// Error implements the error interface.
func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("uploading metric %s: %v", e.Metric, e.Err)
	}
	return fmt.Sprintf("uploading metric %s: dashboard returned status %d", e.Metric, e.StatusCode)
}

// Unwrap returns ErrUploadFailed so callers can use errors.Is.
func (e *UploadError) Unwrap() error { return ErrUploadFailed }

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy
// configurations.
func WithHTTPClient(c *http.Client) ReporterOption {
	return func(r *Reporter) {
		r.httpClient = c
	}
}

// WithBaseURL overrides the dashboard base URL, primarily for test servers.
func WithBaseURL(base string) ReporterOption {
	return func(r *Reporter) {
		r.baseURL = strings.TrimRight(base, "/")
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ReporterOption {
	return func(r *Reporter) {
		r.userAgent = ua
	}
}

// WithLogger sets the logger used for upload diagnostics.
func WithLogger(logger *log.Logger) ReporterOption {
	return func(r *Reporter) {
		r.logger = logger
	}
}

// NewReporter creates a Reporter with sensible defaults: the public
// dashboard, http.DefaultClient, and the package default logger.
func NewReporter(opts ...ReporterOption) *Reporter {
	r := &Reporter{
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
		userAgent:  "sgbench/dev",
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report POSTs one duration metric to {base}/api/metric/{name}. The body
// is the plain decimal ASCII representation of seconds. The response body
// is read and discarded; its content is logged at debug level only.
func (r *Reporter) Report(ctx context.Context, name string, seconds float64) error {
	url := fmt.Sprintf("%s/api/metric/%s", r.baseURL, name)
	body := strconv.FormatFloat(seconds, 'f', -1, 64)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return &UploadError{Metric: name, Err: err}
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return &UploadError{Metric: name, Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UploadError{Metric: name, StatusCode: resp.StatusCode}
	}

	r.logger.Debug("metric uploaded",
		"metric", name,
		"value", body,
		"status", resp.StatusCode,
		"response", strings.TrimSpace(string(respBody)))
	return nil
}
