package symbols

import (
	"fmt"
	"strings"

	"blend65/internal/diag"
	"blend65/internal/source"
)

// ImportRecord describes one import request and, after resolution, the
// local binding it produced. ImportSymbol returns a new record instead of
// mutating its input.
type ImportRecord struct {
	Module   string
	Name     string
	Alias    string
	Span     source.Span
	Resolved SymbolID
}

// LocalName returns the name the record binds in the importing scope.
func (rec ImportRecord) LocalName() string {
	if rec.Alias != "" {
		return rec.Alias
	}
	return rec.Name
}

// EnterModule declares the module symbol (in the Global scope) and enters
// a Module-kind scope named after the qualified path. A module seen in an
// earlier unit is re-entered rather than redeclared, so several units may
// contribute to one module.
func (r *Resolver) EnterModule(path string, span source.Span) (ScopeID, SymbolID) {
	if scopeID, ok := r.table.ModuleScope(path); ok {
		symID, _ := r.table.ModuleSymbol(path)
		r.stack = append(r.stack, scopeID)
		return scopeID, symID
	}

	nameID := r.table.Strings.Intern(path)
	sym := &Symbol{
		Name:       nameID,
		Kind:       SymbolModule,
		Span:       span,
		ModulePath: path,
	}
	symID, ok := r.declareInGlobal(sym)
	if !ok {
		return NoScopeID, NoSymbolID
	}
	scopeID := r.table.Scopes.New(ScopeModule, r.table.Global, path, span)
	r.table.registerModule(path, scopeID, symID)
	r.stack = append(r.stack, scopeID)
	return scopeID, symID
}

// declareInGlobal declares directly into the Global scope regardless of
// the current stack position. Module symbols always live there.
func (r *Resolver) declareInGlobal(sym *Symbol) (SymbolID, bool) {
	scope := r.table.Scopes.Get(r.table.Global)
	if scope == nil {
		return NoSymbolID, false
	}
	if prevID, exists := scope.NameIndex[sym.Name]; exists {
		r.reportDuplicate(sym.Name, sym.Span, prevID)
		return NoSymbolID, false
	}
	sym.Scope = r.table.Global
	id := r.table.Symbols.New(sym)
	scope.Symbols = append(scope.Symbols, id)
	scope.NameIndex[sym.Name] = id
	return id, true
}

// ExitModule leaves the current module scope. Called outside a module
// scope it reports InvalidScope and leaves the stack untouched.
func (r *Resolver) ExitModule() bool {
	current := r.CurrentScope()
	scope := r.table.Scopes.Get(current)
	if scope == nil || scope.Kind != ScopeModule {
		r.report(diag.NewError(diag.SemaInvalidScope, r.scopeSpan(current),
			"exitModule called outside a module scope"))
		return false
	}
	r.stack = r.stack[:len(r.stack)-1]
	return true
}

// enclosingModule finds the nearest Module scope on the stack.
func (r *Resolver) enclosingModule() (ScopeID, *Scope) {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if scope := r.table.Scopes.Get(r.stack[i]); scope != nil && scope.Kind == ScopeModule {
			return r.stack[i], scope
		}
	}
	return NoScopeID, nil
}

// ExportSymbol marks an already-declared symbol as exported from the
// enclosing module. It fails with InvalidScope outside a module scope and
// with DuplicateSymbol when the name is already exported.
func (r *Resolver) ExportSymbol(symID SymbolID) bool {
	sym := r.table.Symbols.Get(symID)
	if sym == nil {
		return false
	}
	_, modScope := r.enclosingModule()
	if modScope == nil {
		r.report(diag.NewError(diag.SemaInvalidScope, sym.Span,
			fmt.Sprintf("cannot export '%s' outside a module scope", r.table.SymbolName(symID))).
			WithHelp("declare a module header before exporting symbols"))
		return false
	}
	exports, ok := r.table.Exports(modScope.Name)
	if !ok {
		return false
	}
	name := r.table.SymbolName(symID)
	if prev, exists := exports.Lookup(name); exists {
		r.report(diag.NewError(diag.SemaDuplicateSymbol, sym.Span,
			fmt.Sprintf("'%s' is already exported from module '%s'", name, modScope.Name)).
			WithNote(prev.Span, "previous export here"))
		return false
	}
	sym.Flags |= SymbolFlagExported
	exports.Add(ExportedSymbol{
		Name:      name,
		Symbol:    symID,
		Kind:      sym.Kind,
		Span:      sym.Span,
		Signature: sym.Signature,
	})
	return true
}

// ImportSymbol resolves rec against the source module's exports, binds the
// resolved symbol under the local alias in the current scope, and returns
// a new resolved record. Failure reports ImportNotFound (listing the
// available exports) and returns ok=false.
func (r *Resolver) ImportSymbol(rec ImportRecord) (ImportRecord, bool) {
	exports, ok := r.table.Exports(rec.Module)
	if !ok {
		r.report(diag.NewError(diag.SemaImportNotFound, rec.Span,
			fmt.Sprintf("cannot import '%s': module '%s' not found", rec.Name, rec.Module)).
			WithHelp(r.knownModulesHelp()))
		return rec, false
	}
	export, ok := exports.Lookup(rec.Name)
	if !ok {
		d := diag.NewError(diag.SemaImportNotFound, rec.Span,
			fmt.Sprintf("module '%s' has no export named '%s'", rec.Module, rec.Name))
		names := exports.Names()
		if closest, ok := ClosestName(rec.Name, names); ok {
			d = d.WithHelp(fmt.Sprintf("did you mean '%s'?", closest))
		}
		if len(names) > 0 {
			d = d.WithHelp("available exports: " + strings.Join(names, ", "))
		} else {
			d = d.WithHelp(fmt.Sprintf("module '%s' exports nothing", rec.Module))
		}
		r.report(d)
		return rec, false
	}

	origin := r.table.Symbols.Get(export.Symbol)
	if origin == nil {
		return rec, false
	}
	binding := *origin
	binding.Name = r.table.Strings.Intern(rec.LocalName())
	binding.Span = rec.Span
	binding.Flags = (origin.Flags &^ SymbolFlagExported) | SymbolFlagImported
	binding.ModulePath = rec.Module
	binding.ImportName = origin.Name

	id, ok := r.Declare(&binding)
	if !ok {
		return rec, false
	}
	rec.Resolved = id
	return rec, true
}

// QualifiedResult classifies a LookupQualified outcome.
type QualifiedResult uint8

const (
	QualifiedOK QualifiedResult = iota
	QualifiedUndefined
	QualifiedNoModule
	QualifiedNoExport
)

// LookupQualified resolves a dotted name. Single-segment names use
// ordinary scoped lookup; multi-segment names split into a module path
// and a leaf and resolve only through that module's export mapping.
func (r *Resolver) LookupQualified(parts []string) (SymbolID, QualifiedResult) {
	switch len(parts) {
	case 0:
		return NoSymbolID, QualifiedUndefined
	case 1:
		if id, ok := r.LookupString(parts[0]); ok {
			return id, QualifiedOK
		}
		return NoSymbolID, QualifiedUndefined
	}
	modPath := strings.Join(parts[:len(parts)-1], ".")
	leaf := parts[len(parts)-1]
	exports, ok := r.table.Exports(modPath)
	if !ok {
		return NoSymbolID, QualifiedNoModule
	}
	export, ok := exports.Lookup(leaf)
	if !ok {
		return NoSymbolID, QualifiedNoExport
	}
	return export.Symbol, QualifiedOK
}

func (r *Resolver) knownModulesHelp() string {
	paths := r.table.ModulePaths()
	if len(paths) == 0 {
		return "no modules are registered yet; check the import's module path"
	}
	return "known modules: " + strings.Join(paths, ", ")
}
