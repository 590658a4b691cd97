package symbols

import (
	"sort"

	"blend65/internal/source"
)

// ExportedSymbol captures what importers need to know about a symbol
// exported from a module.
type ExportedSymbol struct {
	Name      string
	Symbol    SymbolID
	Kind      SymbolKind
	Span      source.Span
	Signature *FunctionSignature
}

// ModuleExports maps exported names for one module. Names are unique;
// the language has no overloading.
type ModuleExports struct {
	Path    string
	Symbols map[string]ExportedSymbol
}

// NewModuleExports creates an exports container for the given module path.
func NewModuleExports(path string) *ModuleExports {
	return &ModuleExports{
		Path:    path,
		Symbols: make(map[string]ExportedSymbol),
	}
}

// Add registers an exported symbol under its textual name; returns false
// when the name is already exported.
func (m *ModuleExports) Add(sym ExportedSymbol) bool {
	if m == nil {
		return false
	}
	if _, exists := m.Symbols[sym.Name]; exists {
		return false
	}
	m.Symbols[sym.Name] = sym
	return true
}

// Lookup returns the export registered under name.
func (m *ModuleExports) Lookup(name string) (ExportedSymbol, bool) {
	if m == nil {
		return ExportedSymbol{}, false
	}
	sym, ok := m.Symbols[name]
	return sym, ok
}

// Names lists exported names in sorted order, for deterministic
// suggestion lists.
func (m *ModuleExports) Names() []string {
	if m == nil || len(m.Symbols) == 0 {
		return nil
	}
	names := make([]string, 0, len(m.Symbols))
	for name := range m.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
