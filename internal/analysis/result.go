package analysis

import (
	"time"

	"blend65/internal/diag"
	"blend65/internal/opt"
	"blend65/internal/symbols"
)

// ModuleAnalysis is the cross-file module view: per-module import and
// export name lists, the module dependency graph, and any dependency
// cycles found in it.
type ModuleAnalysis struct {
	Imports      map[string][]string
	Exports      map[string][]string
	Dependencies map[string][]string
	Cycles       [][]string
}

// VariableAnalysis collects every analyzed variable with its
// optimization metadata plus batch-wide usage statistics.
type VariableAnalysis struct {
	Variables          []*VariableInfo
	ZeroPageCandidates []string
	RegisterCandidates []string
	TotalReads         int
	TotalWrites        int
}

// FunctionAnalysis collects every analyzed function with its metadata
// plus batch-wide call statistics.
type FunctionAnalysis struct {
	Functions         []*FunctionInfo
	InlineCandidates  []string
	CallbackFunctions []string
	CallSites         int
	CallsInLoops      int
}

// CoordinationAnalysis holds the cross-symbol planning output. A
// coordination-phase internal failure leaves it empty without failing
// the batch.
type CoordinationAnalysis struct {
	ZeroPage  opt.ZeroPagePlan
	Registers map[opt.Register]string
	CallGraph map[string][]string
	Recursive []string
	Degraded  bool
}

// Summary is the aggregated metric block of a run.
type Summary struct {
	TotalSymbols int
	Units        int
	Errors       int
	Warnings     int
	Elapsed      time.Duration
	// OptimizationCoverage is the percentage of variables and functions
	// carrying at least one positive recommendation, in [0,100].
	OptimizationCoverage float64
	// QualityScore blends error count and optimization coverage into a
	// single [0,100] health figure.
	QualityScore float64
}

// Result is the comprehensive bundle of one Analyze run. Failed marks
// a batch aborted by the module phase or an internal fault; aborted
// batches still carry Table and Modules, so cycle reports keep their
// structure, but the remaining views stay zero.
type Result struct {
	Failed bool

	Table        *symbols.Table
	Modules      ModuleAnalysis
	Variables    VariableAnalysis
	Functions    FunctionAnalysis
	Expressions  ExpressionAnalysis
	Coordination CoordinationAnalysis

	Diagnostics []diag.Diagnostic
	Summary     Summary
}

// optimizationCoverage computes the percentage of symbols with a
// positive recommendation. Zero candidates means zero coverage.
func optimizationCoverage(vars []*VariableInfo, funcs []*FunctionInfo) float64 {
	total := len(vars) + len(funcs)
	if total == 0 {
		return 0
	}
	positive := 0
	for _, v := range vars {
		if v.ZeroPage.Recommendation.Positive() || v.Register.Recommendation.Positive() {
			positive++
		}
	}
	for _, f := range funcs {
		if f.Inline.Recommendation.Positive() {
			positive++
		}
	}
	return 100 * float64(positive) / float64(total)
}

// qualityScore blends the error count with optimization coverage.
// Zero errors with full coverage scores 100; every error cuts the
// error component in proportion.
func qualityScore(errors int, coverage float64) float64 {
	errScore := 100.0 / float64(1+errors)
	return 0.6*errScore + 0.4*coverage
}
