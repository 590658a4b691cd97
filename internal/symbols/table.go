package symbols

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"blend65/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates the scope and symbol arenas plus the per-module
// registries. One orchestrator instance owns one table; tables are not
// safe for concurrent use.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner

	Global ScopeID

	modScopes  map[string]ScopeID
	modSymbols map[string]SymbolID
	modExports map[string]*ModuleExports
}

// NewTable builds a fresh table with optional capacity hints. If strings
// is nil, a fresh interner is allocated. The Global root scope always
// exists and is never exited.
func NewTable(h Hints, strings *source.Interner) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	t := &Table{
		Scopes:     NewScopes(scopeCap),
		Symbols:    NewSymbols(symCap),
		Strings:    strings,
		modScopes:  make(map[string]ScopeID),
		modSymbols: make(map[string]SymbolID),
		modExports: make(map[string]*ModuleExports),
	}
	t.Global = t.Scopes.New(ScopeGlobal, NoScopeID, "", source.Span{})
	return t
}

// ModuleScope returns the scope registered for the qualified module path.
func (t *Table) ModuleScope(path string) (ScopeID, bool) {
	id, ok := t.modScopes[path]
	return id, ok
}

// ModuleSymbol returns the module symbol registered for the path.
func (t *Table) ModuleSymbol(path string) (SymbolID, bool) {
	id, ok := t.modSymbols[path]
	return id, ok
}

// Exports returns the export map of the named module.
func (t *Table) Exports(path string) (*ModuleExports, bool) {
	ex, ok := t.modExports[path]
	return ex, ok
}

// ModulePaths lists registered modules in sorted order.
func (t *Table) ModulePaths() []string {
	paths := make([]string, 0, len(t.modScopes))
	for p := range t.modScopes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (t *Table) registerModule(path string, scope ScopeID, sym SymbolID) *ModuleExports {
	t.modScopes[path] = scope
	t.modSymbols[path] = sym
	ex := NewModuleExports(path)
	t.modExports[path] = ex
	return ex
}

// SymbolName resolves a symbol's interned name to its text.
func (t *Table) SymbolName(id SymbolID) string {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return ""
	}
	return t.Strings.MustLookup(sym.Name)
}
