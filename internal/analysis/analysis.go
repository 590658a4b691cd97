// Package analysis drives semantic analysis over a batch of parsed
// units: a five-phase orchestrator that builds the symbol table,
// validates declarations and function bodies, aggregates expression
// metadata, runs the cross-symbol optimization planners, and folds
// everything into one result bundle.
//
// One orchestrator instance owns its symbol table, checker, and
// per-kind analyzers. Runs are fully synchronous; Reset recreates all
// of that state, so repeated Analyze calls on one instance never leak
// symbols across batches.
package analysis

import (
	"blend65/internal/diag"
	"blend65/internal/opt"
	"blend65/internal/sema"
	"blend65/internal/source"
	"blend65/internal/symbols"
)

// defaultMaxDiagnostics bounds the bag when Options leave it unset.
const defaultMaxDiagnostics = 256

// Options configures an orchestrator. The zero value is usable: stock
// weights, a 256-byte zero page, no observer.
type Options struct {
	// Weights tune the optimization scorers, usually preloaded from the
	// project manifest.
	Weights opt.Weights
	// ZeroPageBudget is the number of zero-page bytes the planner may
	// hand out; 0 means the full page.
	ZeroPageBudget int
	// ZeroPageReserved is subtracted from the budget up front for bytes
	// the runtime claims.
	ZeroPageReserved int
	// MaxDiagnostics caps the accumulated diagnostics per run.
	MaxDiagnostics int
	// Observer, when set, receives a start and end event per phase.
	Observer PhaseObserver
}

func (o Options) withDefaults() Options {
	if o.Weights == (opt.Weights{}) {
		o.Weights = opt.DefaultWeights()
	}
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = defaultMaxDiagnostics
	}
	return o
}

// Orchestrator runs the analysis pipeline. Not safe for concurrent
// use; the table and analyzers are exclusively owned.
type Orchestrator struct {
	opts Options

	table    *symbols.Table
	resolver *symbols.Resolver
	checker  *sema.Checker
	bag      *diag.Bag
	reporter diag.Reporter

	modules     *moduleAnalyzer
	variables   *variableAnalyzer
	functions   *functionAnalyzer
	expressions *expressionAnalyzer
}

// New builds an orchestrator; Analyze calls Reset itself, so a fresh
// instance is immediately usable.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{opts: opts.withDefaults()}
	o.Reset()
	return o
}

// Reset discards and recreates the symbol table, checker, analyzers
// and accumulators. It runs at the start of every Analyze call.
func (o *Orchestrator) Reset() {
	o.bag = diag.NewBag(o.opts.MaxDiagnostics)
	o.reporter = diag.NewDedupReporter(diag.BagReporter{Bag: o.bag})
	o.table = symbols.NewTable(symbols.Hints{}, source.NewInterner())
	o.resolver = symbols.NewResolver(o.table, symbols.ResolverOptions{Reporter: o.reporter})
	o.checker = sema.NewChecker(o.resolver, o.reporter)
	o.modules = newModuleAnalyzer(o.resolver, o.reporter)
	o.variables = newVariableAnalyzer(o.checker, o.reporter, o.opts.Weights)
	o.functions = newFunctionAnalyzer(o.checker, o.reporter, o.opts.Weights, o.variables)
	o.expressions = newExpressionAnalyzer()
}

// Table exposes the symbol table built by the last run.
func (o *Orchestrator) Table() *symbols.Table { return o.table }

// Diagnostics exposes the diagnostics accumulated by the last run.
func (o *Orchestrator) Diagnostics() []diag.Diagnostic { return o.bag.Items() }

func (o *Orchestrator) observe(ev PhaseEvent) {
	if o.opts.Observer != nil {
		o.opts.Observer(ev)
	}
}
