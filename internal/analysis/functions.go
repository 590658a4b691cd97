package analysis

import (
	"strings"

	"blend65/internal/ast"
	"blend65/internal/diag"
	"blend65/internal/opt"
	"blend65/internal/sema"
	"blend65/internal/source"
	"blend65/internal/symbols"
)

// FunctionInfo is one analyzed function plus its optimization
// metadata. Label is the module-qualified name and is unique across
// the batch; call-graph edges and scan keys use it.
type FunctionInfo struct {
	Symbol    symbols.SymbolID
	Name      string
	Label     string
	Module    string
	Callback  bool
	Exported  bool
	Signature *symbols.FunctionSignature
	Span      source.Span

	Metrics opt.FunctionMetrics
	Usage   opt.FunctionUsage
	Inline  opt.InlineScore
	// Scan is nil for bodyless stubs.
	Scan *opt.FunctionScan
}

// functionAnalyzer validates function declarations, checks their
// bodies, and scores the collected functions for inlining once the
// whole batch has been scanned. Declaration and body checking are
// separate steps so a body may call functions declared later in the
// module, including mutual recursion.
type functionAnalyzer struct {
	checker  *sema.Checker
	reporter diag.Reporter
	weights  opt.Weights
	vars     *variableAnalyzer

	pending map[*ast.FunctionDecl]pendingBody
	funcs   []*FunctionInfo
}

// pendingBody carries a declared function between the signature sweep
// and the body sweep.
type pendingBody struct {
	module string
	label  string
	id     symbols.SymbolID
	sig    *symbols.FunctionSignature
	valid  bool
}

func newFunctionAnalyzer(checker *sema.Checker, reporter diag.Reporter, weights opt.Weights, vars *variableAnalyzer) *functionAnalyzer {
	return &functionAnalyzer{
		checker:  checker,
		reporter: reporter,
		weights:  weights,
		vars:     vars,
		pending:  make(map[*ast.FunctionDecl]pendingBody),
	}
}

// analyzeDeclaration validates the signature and declares the function
// symbol; the body waits for checkDeclared. The symbol is declared
// even when the signature fails validation, so call sites resolve, but
// invalid functions are not collected as optimization candidates.
func (a *functionAnalyzer) analyzeDeclaration(module string, decl *ast.FunctionDecl) bool {
	sig, ok := a.checker.BuildSignature(decl)
	if !ok {
		return false
	}
	valid := a.checker.ValidateFunctionSignature(decl, sig)

	resolver := a.checker.Resolver()
	id, declared := resolver.Declare(&symbols.Symbol{
		Name:      resolver.Table().Strings.Intern(decl.Name),
		Kind:      symbols.SymbolFunction,
		Span:      decl.Span,
		Signature: sig,
	})
	if !declared {
		return false
	}

	a.pending[decl] = pendingBody{
		module: module,
		label:  module + "." + decl.Name,
		id:     id,
		sig:    sig,
		valid:  valid,
	}
	return valid
}

// checkDeclared runs the deferred body check for a declared function.
// It runs inside the function's module scope after every declaration
// of the batch has been processed, so bodies may reference forward.
// Functions whose body has errors are not collected and their scans do
// not join the call graph.
func (a *functionAnalyzer) checkDeclared(decl *ast.FunctionDecl) bool {
	p, ok := a.pending[decl]
	if !ok {
		return false
	}
	bodyOK := true
	var scan *opt.FunctionScan
	if p.valid && decl.HasBody {
		bodyOK = a.checkBody(p.module, p.label, decl, p.sig)
		scan = opt.ScanFunction(decl)
		a.qualifyCallees(scan)
	}
	if !p.valid || !bodyOK {
		return false
	}

	a.funcs = append(a.funcs, &FunctionInfo{
		Symbol:    p.id,
		Name:      decl.Name,
		Label:     p.label,
		Module:    p.module,
		Callback:  decl.Callback,
		Signature: p.sig,
		Span:      decl.Span,
		Metrics:   opt.ComputeFunctionMetrics(decl),
		Scan:      scan,
	})
	return true
}

// checkBody walks the statements of one function inside a fresh
// function scope, declaring parameters and locals as it goes.
func (a *functionAnalyzer) checkBody(module, label string, decl *ast.FunctionDecl, sig *symbols.FunctionSignature) bool {
	resolver := a.checker.Resolver()
	resolver.EnterScope(symbols.ScopeFunction, decl.Name, decl.Span)
	defer resolver.ExitScope()

	b := &bodyChecker{
		checker:  a.checker,
		reporter: a.reporter,
		vars:     a.vars,
		fn:       decl,
		label:    label,
		module:   module,
		sig:      sig,
		ok:       true,
	}
	b.declareParams()
	b.stmts(decl.Body)
	return b.ok
}

// qualifyCallees rewrites bare call-site names into module-qualified
// labels so scans from different modules merge into one call graph.
// Imported bindings map back to the exporting module's function;
// builtins and unresolved names keep their bare name. Runs in the
// module scope after the body walk.
func (a *functionAnalyzer) qualifyCallees(scan *opt.FunctionScan) {
	resolver := a.checker.Resolver()
	table := resolver.Table()
	for i, site := range scan.Calls {
		if strings.Contains(site.Callee, ".") {
			continue
		}
		id, ok := resolver.LookupString(site.Callee)
		if !ok {
			continue
		}
		sym := table.Symbols.Get(id)
		if sym == nil || sym.Kind != symbols.SymbolFunction {
			continue
		}
		scan.Calls[i].Callee = a.functionLabel(sym, site.Callee)
	}
}

// functionLabel derives the batch-unique label of a function symbol.
func (a *functionAnalyzer) functionLabel(sym *symbols.Symbol, name string) string {
	table := a.checker.Resolver().Table()
	if sym.IsImported() {
		return sym.ModulePath + "." + table.Strings.MustLookup(sym.ImportName)
	}
	if scope := table.Scopes.Get(sym.Scope); scope != nil && scope.Kind == symbols.ScopeModule {
		return scope.Name + "." + name
	}
	return name
}

// scans returns the per-label scan map for collected functions with
// bodies.
func (a *functionAnalyzer) scans() map[string]*opt.FunctionScan {
	scans := make(map[string]*opt.FunctionScan, len(a.funcs))
	for _, info := range a.funcs {
		if info.Scan != nil {
			scans[info.Label] = info.Scan
		}
	}
	return scans
}

// computeMetadata scores every collected function once all bodies are
// scanned. Call statistics come from the merged scan set; export
// status is read off the symbol, which the export pass has marked by
// now.
func (a *functionAnalyzer) computeMetadata() {
	table := a.checker.Resolver().Table()
	usage := opt.AggregateUsage(a.scans())
	for _, info := range a.funcs {
		if sym := table.Symbols.Get(info.Symbol); sym != nil {
			info.Exported = sym.IsExported()
		}
		info.Usage = usage[info.Label]
		info.Inline = opt.ScoreInline(opt.FunctionFacts{
			Name:     info.Label,
			Metrics:  info.Metrics,
			Usage:    info.Usage,
			Scan:     info.Scan,
			Callback: info.Callback,
			Exported: info.Exported,
		}, a.weights.Inline)
	}
}

// result assembles the function-analysis view.
func (a *functionAnalyzer) result() FunctionAnalysis {
	out := FunctionAnalysis{Functions: a.funcs}
	for _, info := range a.funcs {
		out.CallSites += info.Usage.CallCount
		out.CallsInLoops += info.Usage.LoopCalls
		if info.Inline.Recommendation.Positive() {
			out.InlineCandidates = append(out.InlineCandidates, info.Label)
		}
		if info.Callback {
			out.CallbackFunctions = append(out.CallbackFunctions, info.Label)
		}
	}
	return out
}
