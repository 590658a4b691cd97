package analysis

import (
	"blend65/internal/ast"
	"blend65/internal/diag"
	"blend65/internal/opt"
	"blend65/internal/sema"
	"blend65/internal/source"
	"blend65/internal/symbols"
	"blend65/internal/types"
)

// VariableInfo is one analyzed variable plus its optimization
// metadata. Label is unique across the batch (locals are prefixed
// with their function), Name is the declared identifier.
type VariableInfo struct {
	Symbol  symbols.SymbolID
	Name    string
	Label   string
	Module  string
	Local   bool
	Type    types.Type
	Storage types.StorageClass
	Span    source.Span

	Facts    opt.VariableFacts
	ZeroPage opt.ZeroPageScore
	Register opt.RegisterScore
}

// variableAnalyzer validates variable declarations, declares their
// symbols, and later scores the collected variables once usage has
// been attributed.
type variableAnalyzer struct {
	checker  *sema.Checker
	reporter diag.Reporter
	weights  opt.Weights

	vars []*VariableInfo
}

func newVariableAnalyzer(checker *sema.Checker, reporter diag.Reporter, weights opt.Weights) *variableAnalyzer {
	return &variableAnalyzer{checker: checker, reporter: reporter, weights: weights}
}

// analyzeDeclaration checks one module-level variable declaration and
// declares its symbol. Declarations with errors still declare a
// best-effort symbol when the type is known, so later references do
// not cascade into UndefinedSymbol noise, but they are not collected
// as optimization candidates.
func (a *variableAnalyzer) analyzeDeclaration(module string, decl *ast.VariableDecl) bool {
	varType, storage, ok := a.checkDeclaration(symbols.ScopeModule, decl)
	if varType == nil {
		return false
	}

	resolver := a.checker.Resolver()
	id, declared := resolver.Declare(&symbols.Symbol{
		Name:    resolver.Table().Strings.Intern(decl.Name),
		Kind:    symbols.SymbolVariable,
		Span:    decl.Span,
		Type:    varType,
		Storage: storage,
		HasInit: decl.Init != nil,
	})
	if !declared || !ok {
		return false
	}

	a.vars = append(a.vars, &VariableInfo{
		Symbol:  id,
		Name:    decl.Name,
		Label:   module + "." + decl.Name,
		Module:  module,
		Type:    varType,
		Storage: storage,
		Span:    decl.Span,
	})
	return true
}

// collectLocal registers a function-local variable already declared by
// the body walk, labeled function.name for batch-unique planning.
func (a *variableAnalyzer) collectLocal(function, module string, id symbols.SymbolID, decl *ast.VariableDecl, varType types.Type) {
	a.vars = append(a.vars, &VariableInfo{
		Symbol: id,
		Name:   decl.Name,
		Label:  function + "." + decl.Name,
		Module: module,
		Local:  true,
		Type:   varType,
		Span:   decl.Span,
	})
}

// collectParam registers a function parameter as a local of its
// function. Parameters compete for the zero page and registers like
// any other local.
func (a *variableAnalyzer) collectParam(function, module string, id symbols.SymbolID, p ast.Param, paramType types.Type) {
	a.vars = append(a.vars, &VariableInfo{
		Symbol: id,
		Name:   p.Name,
		Label:  function + "." + p.Name,
		Module: module,
		Local:  true,
		Type:   paramType,
		Span:   p.Span,
	})
}

// checkDeclaration validates the type, storage class, and initializer
// of a variable declaration in the given scope kind. It returns the
// resolved type (nil when undeterminable) and whether every check
// passed.
func (a *variableAnalyzer) checkDeclaration(scope symbols.ScopeKind, decl *ast.VariableDecl) (types.Type, types.StorageClass, bool) {
	storage, known := types.ParseStorageClass(decl.Storage)
	if !known {
		diag.ReportError(a.reporter, diag.SemaInvalidStorageClass, decl.Span,
			"unknown storage class '"+decl.Storage+"'").
			WithHelp("valid storage classes are zp, ram, data and const").
			Emit()
		return nil, storage, false
	}

	var varType types.Type
	switch {
	case decl.Type != nil:
		t, ok := a.checker.ConvertType(decl.Type)
		if !ok {
			return nil, storage, false
		}
		t, ok = a.checker.ResolveType(t, decl.Type.Loc())
		if !ok {
			return nil, storage, false
		}
		varType = t
	case decl.Init != nil:
		t, ok := a.checker.InferExpressionType(decl.Init)
		if !ok {
			return nil, storage, false
		}
		varType = t
	default:
		diag.ReportError(a.reporter, diag.SemaTypeMismatch, decl.Span,
			"variable '"+decl.Name+"' needs a type annotation or an initializer").
			Emit()
		return nil, storage, false
	}

	ok := a.checker.ValidateVariableStorageClass(storage, scope, decl.Init != nil, varType, decl.Span)

	if decl.Init != nil && decl.Type != nil {
		initType, inferred := a.checker.InferExpressionType(decl.Init)
		if !inferred {
			return varType, storage, false
		}
		if !a.checker.CheckAssignmentCompatibility(varType, initType, decl.Init.Loc()) {
			return varType, storage, false
		}
	}
	return varType, storage, ok
}

// computeMetadata scores every collected variable. Module-level usage
// is attributed by resolved symbol across all function bodies and
// initializers; locals score against the owning function's scan,
// keyed by their function-qualified label.
func (a *variableAnalyzer) computeMetadata(bySymbol map[symbols.SymbolID]opt.VariableUsage, byLabel map[string]opt.VariableUsage) {
	for _, info := range a.vars {
		var usage opt.VariableUsage
		var found bool
		if info.Local {
			usage, found = byLabel[info.Label]
		} else {
			usage, found = bySymbol[info.Symbol]
		}
		if !found {
			usage = opt.VariableUsage{FirstUse: -1, LastUse: -1}
		}
		info.Facts = opt.VariableFacts{
			Name:    info.Label,
			Type:    info.Type,
			Storage: info.Storage,
			Usage:   usage,
		}
		info.ZeroPage = opt.ScoreZeroPage(info.Facts, a.weights.ZeroPage)
		info.Register = opt.ScoreRegister(info.Facts)
	}
}

// result assembles the variable-analysis view.
func (a *variableAnalyzer) result() VariableAnalysis {
	out := VariableAnalysis{Variables: a.vars}
	for _, info := range a.vars {
		out.TotalReads += info.Facts.Usage.Reads
		out.TotalWrites += info.Facts.Usage.Writes
		if info.ZeroPage.Recommendation.Positive() {
			out.ZeroPageCandidates = append(out.ZeroPageCandidates, info.Label)
		}
		if info.Register.Preferred.Physical() && info.Register.Recommendation.Positive() {
			out.RegisterCandidates = append(out.RegisterCandidates, info.Label)
		}
	}
	return out
}
