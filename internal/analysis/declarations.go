package analysis

import (
	"fmt"

	"blend65/internal/ast"
	"blend65/internal/diag"
	"blend65/internal/opt"
	"blend65/internal/source"
	"blend65/internal/symbols"
	"blend65/internal/types"
)

// runDeclarations is the second phase, two sweeps over the batch in
// dependency order. The first sweep declares every module-level symbol
// and marks exports, so imports bind against exports declared earlier
// in the same sweep. The second checks function bodies, which may now
// reference any declaration of their module regardless of order,
// including mutually recursive functions. Module initializers stay in
// the first sweep; they evaluate top to bottom at startup, so they see
// only what precedes them. Errors accumulate and never abort the
// phase. Afterwards usage is attributed across the batch and every
// collected symbol is scored.
func (o *Orchestrator) runDeclarations(units []*ast.CompilationUnit) {
	ordered := o.modules.unitOrder(units)
	for _, unit := range ordered {
		o.declareUnit(unit)
	}
	for _, unit := range ordered {
		o.checkUnitBodies(unit)
	}
	bySymbol, byLabel := o.attributeUsage(units)
	o.variables.computeMetadata(bySymbol, byLabel)
	o.functions.computeMetadata()
}

// declareUnit processes one unit inside its module scope: imports
// first, then declarations in order, then export marks.
func (o *Orchestrator) declareUnit(unit *ast.CompilationUnit) {
	path := modulePath(unit)
	var span source.Span
	if unit.Module != nil {
		span = unit.Module.Span
	}
	scopeID, _ := o.resolver.EnterModule(path, span)
	if !scopeID.IsValid() {
		return
	}
	defer o.resolver.ExitModule()

	for _, imp := range unit.Imports {
		o.resolver.ImportSymbol(symbols.ImportRecord{
			Module: imp.Module,
			Name:   imp.Symbol,
			Alias:  imp.Alias,
			Span:   imp.Span,
		})
	}
	for _, decl := range unit.Decls {
		o.declare(path, decl)
	}
	for _, exp := range unit.Exports {
		o.export(exp)
	}
}

// checkUnitBodies runs the deferred body checks of one unit inside its
// module scope.
func (o *Orchestrator) checkUnitBodies(unit *ast.CompilationUnit) {
	path := modulePath(unit)
	var span source.Span
	if unit.Module != nil {
		span = unit.Module.Span
	}
	scopeID, _ := o.resolver.EnterModule(path, span)
	if !scopeID.IsValid() {
		return
	}
	defer o.resolver.ExitModule()

	for _, decl := range unit.Decls {
		if fn, ok := decl.(*ast.FunctionDecl); ok {
			o.functions.checkDeclared(fn)
		}
	}
}

// declare dispatches one top-level declaration to its analyzer.
func (o *Orchestrator) declare(module string, decl ast.Declaration) {
	switch d := decl.(type) {
	case *ast.VariableDecl:
		o.variables.analyzeDeclaration(module, d)
	case *ast.FunctionDecl:
		o.functions.analyzeDeclaration(module, d)
	case *ast.TypeDecl:
		o.declareType(d)
	case *ast.EnumDecl:
		o.declareEnum(d)
	default:
		diag.ReportError(o.reporter, diag.SemaInvalidOperation, decl.Loc(),
			"unsupported declaration kind").Emit()
	}
}

// declareType declares a named type. Alias declarations carry their
// underlying annotation for lazy resolution; record-style declarations
// keep the field list for downstream consumers.
func (o *Orchestrator) declareType(d *ast.TypeDecl) bool {
	sym := &symbols.Symbol{
		Name:    o.table.Strings.Intern(d.Name),
		Kind:    symbols.SymbolType,
		Span:    d.Span,
		Extends: d.Extends,
	}
	if d.Underlying != nil {
		t, ok := o.checker.ConvertType(d.Underlying)
		if !ok {
			return false
		}
		sym.Type = t
	}
	for _, f := range d.Fields {
		ft, ok := o.checker.ConvertType(f.Type)
		if !ok {
			return false
		}
		sym.Fields = append(sym.Fields, symbols.FieldInfo{Name: f.Name, Type: ft})
	}
	_, declared := o.resolver.Declare(sym)
	return declared
}

// declareEnum resolves the member values and declares the byte-backed
// enum symbol.
func (o *Orchestrator) declareEnum(d *ast.EnumDecl) bool {
	members, ok := o.checker.EnumMembers(d)
	if !ok {
		return false
	}
	_, declared := o.resolver.Declare(&symbols.Symbol{
		Name:    o.table.Strings.Intern(d.Name),
		Kind:    symbols.SymbolEnum,
		Span:    d.Span,
		Type:    types.Byte,
		Members: members,
	})
	return declared
}

// export marks one declared name as module-visible. The target must
// already exist in the enclosing module scope.
func (o *Orchestrator) export(exp *ast.ExportDecl) bool {
	nameID := o.table.Strings.Intern(exp.Name)
	id, ok := o.resolver.LookupInScope(nameID, o.resolver.CurrentScope())
	if !ok {
		diag.ReportError(o.reporter, diag.SemaUndefinedSymbol, exp.Span,
			fmt.Sprintf("cannot export undeclared symbol '%s'", exp.Name)).
			WithHelp("declare it in this module before the export").Emit()
		return false
	}
	return o.resolver.ExportSymbol(id)
}

// attributeUsage folds the function scans and module-level initializer
// scans into the two views the variable scorers read: module variables
// keyed by resolved symbol so every unit contributes to one count,
// locals keyed by function-qualified label.
func (o *Orchestrator) attributeUsage(units []*ast.CompilationUnit) (map[symbols.SymbolID]opt.VariableUsage, map[string]opt.VariableUsage) {
	bySymbol := make(map[symbols.SymbolID]opt.VariableUsage)
	byLabel := make(map[string]opt.VariableUsage)

	for _, info := range o.functions.funcs {
		if info.Scan == nil {
			continue
		}
		for name, usage := range info.Scan.Vars {
			if info.Scan.Locals[name] {
				mergeUsage(byLabel, info.Label+"."+name, *usage)
				continue
			}
			if id, ok := o.moduleVariable(info.Module, name); ok {
				mergeUsage(bySymbol, id, *usage)
			}
		}
	}
	for _, unit := range units {
		module := modulePath(unit)
		for _, decl := range unit.Decls {
			v, ok := decl.(*ast.VariableDecl)
			if !ok || v.Init == nil {
				continue
			}
			scan := opt.ScanExpression(v.Init)
			for name, usage := range scan.Vars {
				if id, ok := o.moduleVariable(module, name); ok {
					mergeUsage(bySymbol, id, *usage)
				}
			}
		}
	}
	return bySymbol, byLabel
}

// moduleVariable resolves a bare name against a module's scope to the
// defining variable symbol. Imported bindings chase back to the
// exporting module so usage from every importer lands on one symbol.
func (o *Orchestrator) moduleVariable(module, name string) (symbols.SymbolID, bool) {
	scopeID, ok := o.table.ModuleScope(module)
	if !ok {
		return symbols.NoSymbolID, false
	}
	nameID, ok := o.table.Strings.Index(name)
	if !ok {
		return symbols.NoSymbolID, false
	}
	id, ok := o.resolver.LookupInScope(nameID, scopeID)
	if !ok {
		return symbols.NoSymbolID, false
	}
	sym := o.table.Symbols.Get(id)
	if sym == nil || sym.Kind != symbols.SymbolVariable {
		return symbols.NoSymbolID, false
	}
	if !sym.IsImported() {
		return id, true
	}
	exports, ok := o.table.Exports(sym.ModulePath)
	if !ok {
		return symbols.NoSymbolID, false
	}
	export, ok := exports.Lookup(o.table.Strings.MustLookup(sym.ImportName))
	if !ok {
		return symbols.NoSymbolID, false
	}
	return export.Symbol, true
}

// mergeUsage folds one scan's counts for a variable into the
// accumulated view under key.
func mergeUsage[K comparable](into map[K]opt.VariableUsage, key K, u opt.VariableUsage) {
	have, ok := into[key]
	if !ok {
		into[key] = u
		return
	}
	have.Reads += u.Reads
	have.Writes += u.Writes
	have.LoopUses += u.LoopUses
	have.HotPathUses += u.HotPathUses
	have.ArithUses += u.ArithUses
	have.IndexUses += u.IndexUses
	have.CallArgUses += u.CallArgUses
	have.HardwareAccess = have.HardwareAccess || u.HardwareAccess
	if u.FirstUse >= 0 && (have.FirstUse < 0 || u.FirstUse < have.FirstUse) {
		have.FirstUse = u.FirstUse
	}
	if u.LastUse > have.LastUse {
		have.LastUse = u.LastUse
	}
	into[key] = have
}
