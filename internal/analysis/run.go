package analysis

import (
	"fmt"
	"time"

	"blend65/internal/ast"
	"blend65/internal/diag"
	"blend65/internal/source"
	"blend65/internal/symbols"
)

// Analyze runs the full pipeline over a batch of parsed units with the
// given options. It is the one-shot form of Orchestrator.Analyze.
func Analyze(units []*ast.CompilationUnit, opts Options) *Result {
	return New(opts).Analyze(units)
}

// Analyze runs the five phases over the batch and returns the
// comprehensive result. The orchestrator resets first, so consecutive
// calls on one instance never share state. The module phase is
// fail-fast: a registration failure or a dependency cycle aborts the
// batch with a failed result. Every later phase accumulates. A panic
// anywhere in the pipeline is converted into a failed result carrying
// a single InvalidOperation diagnostic.
func (o *Orchestrator) Analyze(units []*ast.CompilationUnit) (res *Result) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = panicResult(r, len(units), started)
		}
	}()

	o.runPhase(PhaseReset, len(units), func() { o.Reset() })

	modulesOK := true
	o.runPhase(PhaseModules, len(units), func() { modulesOK = o.runModules(units) })
	if !modulesOK {
		res = o.failedResult(len(units), started)
		o.observe(PhaseEvent{Phase: PhaseDone, Status: PhaseEnd, Units: len(units), Elapsed: time.Since(started)})
		return res
	}

	o.runPhase(PhaseDeclarations, len(units), func() { o.runDeclarations(units) })

	o.runPhase(PhaseExpressions, len(units), func() {
		for _, unit := range units {
			o.expressions.analyzeUnit(unit)
		}
	})

	var coord CoordinationAnalysis
	o.runPhase(PhaseCoordination, len(units), func() { coord = o.runCoordination() })

	o.runPhase(PhaseAggregation, len(units), func() { res = o.aggregate(len(units), coord, started) })
	o.observe(PhaseEvent{Phase: PhaseDone, Status: PhaseEnd, Units: len(units), Elapsed: time.Since(started)})
	return res
}

// BuildSymbolTable runs only the table-building phases and returns the
// populated table; diagnostics stay available on the orchestrator. It
// is the cheap entry point for tooling that wants symbols without
// scores.
func (o *Orchestrator) BuildSymbolTable(units []*ast.CompilationUnit) *symbols.Table {
	o.Reset()
	if !o.runModules(units) {
		return o.table
	}
	for _, unit := range o.modules.unitOrder(units) {
		o.declareUnit(unit)
	}
	return o.table
}

// runPhase wraps one phase with start and end observer events.
func (o *Orchestrator) runPhase(phase Phase, units int, fn func()) {
	o.observe(PhaseEvent{Phase: phase, Status: PhaseStart, Units: units})
	begun := time.Now()
	fn()
	o.observe(PhaseEvent{Phase: phase, Status: PhaseEnd, Units: units, Elapsed: time.Since(begun)})
}

// runModules registers every module header and rejects batches whose
// dependency graph has cycles.
func (o *Orchestrator) runModules(units []*ast.CompilationUnit) bool {
	for _, unit := range units {
		if !o.modules.registerUnit(unit) {
			return false
		}
	}
	return len(o.modules.detectCycles()) == 0
}

// aggregate folds every view into the result bundle and computes the
// summary metrics.
func (o *Orchestrator) aggregate(units int, coord CoordinationAnalysis, started time.Time) *Result {
	o.bag.Sort()
	res := &Result{
		Table:        o.table,
		Modules:      o.modules.result(),
		Variables:    o.variables.result(),
		Functions:    o.functions.result(),
		Expressions:  o.expressions.result(),
		Coordination: coord,
		Diagnostics:  o.bag.Items(),
		Summary: Summary{
			TotalSymbols: o.table.Symbols.Len(),
			Units:        units,
			Errors:       o.bag.ErrorCount(),
			Warnings:     o.bag.WarningCount(),
			Elapsed:      time.Since(started),
		},
	}
	res.Summary.OptimizationCoverage = optimizationCoverage(res.Variables.Variables, res.Functions.Functions)
	res.Summary.QualityScore = qualityScore(res.Summary.Errors, res.Summary.OptimizationCoverage)
	return res
}

// failedResult is the bundle for a batch the module phase rejected:
// diagnostics, the module view so cycle reports keep their structure,
// and the summary counts.
func (o *Orchestrator) failedResult(units int, started time.Time) *Result {
	o.bag.Sort()
	res := &Result{
		Failed:      true,
		Table:       o.table,
		Modules:     o.modules.result(),
		Diagnostics: o.bag.Items(),
		Summary: Summary{
			TotalSymbols: o.table.Symbols.Len(),
			Units:        units,
			Errors:       o.bag.ErrorCount(),
			Warnings:     o.bag.WarningCount(),
			Elapsed:      time.Since(started),
		},
	}
	res.Summary.QualityScore = qualityScore(res.Summary.Errors, 0)
	return res
}

// panicResult converts an internal fault into a failed result with one
// InvalidOperation diagnostic. It touches no orchestrator state; the
// panic may have left it inconsistent.
func panicResult(cause interface{}, units int, started time.Time) *Result {
	d := diag.NewError(diag.SemaInvalidOperation, source.Span{},
		fmt.Sprintf("internal analysis failure: %v", cause))
	return &Result{
		Failed:      true,
		Diagnostics: []diag.Diagnostic{d},
		Summary: Summary{
			Units:   units,
			Errors:  1,
			Elapsed: time.Since(started),
		},
	}
}
