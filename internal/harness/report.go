// SPDX-License-Identifier: MPL-2.0

package harness

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownSummary renders the results as a markdown table, one row per
// (corpus, variant) pair in production order.
func MarkdownSummary(results []Result) string {
	var b strings.Builder
	b.WriteString("# Benchmark results\n\n")
	b.WriteString("| Corpus | Variant | Duration | Outcome |\n")
	b.WriteString("|--------|---------|----------|----------|\n")
	for _, res := range results {
		outcome := "ok"
		if res.Partial {
			outcome = "partial"
		}
		fmt.Fprintf(&b, "| %s | %s | %.3f s | %s |\n",
			res.Corpus, res.Variant, res.Duration.Seconds(), outcome)
	}
	return b.String()
}

// RenderSummary renders the markdown summary for terminal display.
func RenderSummary(results []Result) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(MarkdownSummary(results))
}
