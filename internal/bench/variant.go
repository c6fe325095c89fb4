// SPDX-License-Identifier: MPL-2.0

package bench

// Variant is one named configuration of engine and tool options whose
// timings are compared against the "std" baseline. Values are immutable
// after construction.
type Variant struct {
	// Name is unique within the variant list and appears in metric names.
	Name string
	// EngineExtraArgs is a space-separated argument string handed to
	// semgrep-core through its environment channel. It tunes low-level
	// engine behavior (caching, filtering, GC) independent of tool flags.
	EngineExtraArgs string
	// ToolExtraArgs, when non-empty, is appended to the semgrep command
	// line as one additional argument.
	ToolExtraArgs string
}

// DefaultVariants returns the fixed, ordered variant list. Order matters:
// results are produced and reported in this order, and the dashboard
// charts assume it is stable across runs.
func DefaultVariants() []Variant {
	return []Variant{
		{Name: "std"},
		{Name: "no-cache", EngineExtraArgs: "-no_opt_cache"},
		{Name: "max-cache", EngineExtraArgs: "-opt_max_cache"},
		{Name: "no-bloom", EngineExtraArgs: "-no_bloom_filter"},
		{Name: "no-gc-tuning", EngineExtraArgs: "-no_gc_tuning"},
		{Name: "filter-rules", ToolExtraArgs: "--optimizations"},
	}
}
