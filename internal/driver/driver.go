// Package driver wires unit loading, the analysis pipeline, the
// summary cache and timing collection into one entry point for the
// CLI.
package driver

import (
	"context"
	"fmt"

	"blend65/internal/analysis"
	"blend65/internal/diag"
	"blend65/internal/observ"
	"blend65/internal/source"
	"blend65/internal/symbols"
)

// defaultMaxDiagnostics mirrors the analysis default for loader bags.
const defaultMaxDiagnostics = 256

// Options configures one driver run.
type Options struct {
	// Analysis configures the orchestrator, usually preloaded from the
	// project manifest.
	Analysis analysis.Options
	// Jobs caps loader parallelism; 0 uses one worker per CPU.
	Jobs int
	// Timings appends an ObsTimings diagnostic describing stage
	// durations.
	Timings bool
	// Cache, when set, short-circuits batches whose digest already has
	// an up-to-date summary.
	Cache *SummaryCache
	// Package names the project inside cache payloads and keys.
	Package string
}

func (o Options) maxDiagnostics() int {
	if o.Analysis.MaxDiagnostics > 0 {
		return o.Analysis.MaxDiagnostics
	}
	return defaultMaxDiagnostics
}

// Outcome bundles everything one run produced. On a cache hit Result
// stays nil and Summary carries the cached aggregate.
type Outcome struct {
	Batch       *Batch
	Result      *analysis.Result
	Summary     *SummaryPayload
	Diagnostics []diag.Diagnostic
	Timing      *observ.Report
	CacheHit    bool
}

// AnalyzeDir runs the full pipeline over every unit file beneath dir.
func AnalyzeDir(ctx context.Context, dir string, opts Options) (*Outcome, error) {
	files, err := ListUnitFiles(dir)
	if err != nil {
		return nil, err
	}
	return AnalyzeFiles(ctx, files, opts)
}

// AnalyzeFiles runs the full pipeline over an explicit list of unit
// files: parallel load and decode, cache probe, semantic analysis,
// diagnostic merge.
func AnalyzeFiles(ctx context.Context, paths []string, opts Options) (*Outcome, error) {
	timer := observ.NewTimer()

	stopLoad := timer.Track("load")
	batch, err := LoadFiles(ctx, paths, opts.maxDiagnostics(), opts.Jobs)
	if err != nil {
		return nil, err
	}
	stopLoad(fmt.Sprintf("%d units", len(batch.Units)))

	out := &Outcome{Batch: batch}
	key := CombineDigests(batch.Digest(), optionsDigest(opts))

	if opts.Cache != nil && batch.CleanLoad() {
		stopProbe := timer.Track("cache probe")
		var payload SummaryPayload
		hit, cacheErr := opts.Cache.Get(key, &payload)
		stopProbe("")
		if cacheErr == nil && hit {
			out.CacheHit = true
			out.Summary = &payload
			report := timer.Report()
			out.Timing = &report
			return out, nil
		}
	}

	stopAnalyze := timer.Track("analyze")
	res := analysis.Analyze(batch.Decoded(), opts.Analysis)
	stopAnalyze(fmt.Sprintf("%d symbols", res.Summary.TotalSymbols))

	out.Result = res
	out.Summary = SummaryFromResult(opts.Package, res)

	merged := mergeDiagnostics(batch, res.Diagnostics, opts.maxDiagnostics())
	merged.Sort()

	// Only error-free runs are cached. A hit replays the summary without
	// diagnostics, so an errored batch must always be re-analyzed.
	if opts.Cache != nil && batch.CleanLoad() && res.Summary.Errors == 0 {
		stopStore := timer.Track("cache store")
		if putErr := opts.Cache.Put(key, out.Summary); putErr != nil {
			merged.Add(diag.New(diag.SevInfo, diag.ObsInfo, source.Span{},
				fmt.Sprintf("summary cache write failed: %v", putErr)))
		}
		stopStore("")
	}

	report := timer.Report()
	out.Timing = &report
	if opts.Timings {
		appendTimingDiagnostic(merged, "analysis", report)
	}
	out.Diagnostics = merged.Items()
	return out, nil
}

// BuildSymbolTable loads units and builds only the symbol table, the
// cheap path behind the symbols command.
func BuildSymbolTable(ctx context.Context, paths []string, opts Options) (*Batch, *symbols.Table, []diag.Diagnostic, error) {
	batch, err := LoadFiles(ctx, paths, opts.maxDiagnostics(), opts.Jobs)
	if err != nil {
		return nil, nil, nil, err
	}
	orch := analysis.New(opts.Analysis)
	table := orch.BuildSymbolTable(batch.Decoded())
	merged := mergeDiagnostics(batch, orch.Diagnostics(), opts.maxDiagnostics())
	merged.Sort()
	return batch, table, merged.Items(), nil
}

// mergeDiagnostics folds per-unit load diagnostics and the pipeline
// diagnostics into one bag, growing past max as needed.
func mergeDiagnostics(batch *Batch, extra []diag.Diagnostic, max int) *diag.Bag {
	merged := diag.NewBag(max)
	for i := range batch.Units {
		merged.Merge(batch.Units[i].Bag)
	}
	if len(extra) > 0 {
		overflow := diag.NewBag(len(extra))
		for _, d := range extra {
			overflow.Add(d)
		}
		merged.Merge(overflow)
	}
	return merged
}

// optionsDigest fingerprints the knobs that change analysis output, so
// a manifest edit invalidates cached summaries.
func optionsDigest(opts Options) Digest {
	return DigestBytes(fmt.Appendf(nil, "%s|%d|%d|%d|%+v",
		opts.Package,
		opts.Analysis.ZeroPageBudget,
		opts.Analysis.ZeroPageReserved,
		opts.Analysis.MaxDiagnostics,
		opts.Analysis.Weights))
}
