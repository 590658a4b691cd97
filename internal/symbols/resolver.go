package symbols

import (
	"fmt"
	"sort"

	"blend65/internal/diag"
	"blend65/internal/source"
)

// ResolverOptions configures resolver construction.
type ResolverOptions struct {
	Reporter diag.Reporter
	Prelude  []PreludeEntry
}

// PreludeEntry describes a built-in symbol injected into the Global scope
// before any unit is visited.
type PreludeEntry struct {
	Name      string
	Kind      SymbolKind
	Flags     SymbolFlags
	Signature *FunctionSignature
}

// Resolver drives scope management and declaration/lookup. The Global
// scope sits at the bottom of the stack and is never popped.
type Resolver struct {
	table    *Table
	reporter diag.Reporter
	stack    []ScopeID
}

// NewResolver wires a resolver to a table's Global scope and installs the
// prelude entries.
func NewResolver(table *Table, opts ResolverOptions) *Resolver {
	r := &Resolver{
		table:    table,
		reporter: opts.Reporter,
		stack:    make([]ScopeID, 0, 8),
	}
	r.stack = append(r.stack, table.Global)
	r.installPrelude(mergePrelude(opts.Prelude))
	return r
}

// Table exposes the underlying symbol table.
func (r *Resolver) Table() *Table { return r.table }

// CurrentScope returns the scope at the top of the stack.
func (r *Resolver) CurrentScope() ScopeID {
	if len(r.stack) == 0 {
		return NoScopeID
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the current scope nesting depth; Global alone is 1.
func (r *Resolver) Depth() int { return len(r.stack) }

// EnterScope creates a child of the current scope, makes it current and
// returns its ID. Name is a debug label (module path, function name).
func (r *Resolver) EnterScope(kind ScopeKind, name string, span source.Span) ScopeID {
	parent := r.CurrentScope()
	scope := r.table.Scopes.New(kind, parent, name, span)
	r.stack = append(r.stack, scope)
	return scope
}

// ExitScope restores the parent scope as current. Exiting the Global
// scope is a configuration error: it is reported as InvalidScope and the
// stack is left untouched.
func (r *Resolver) ExitScope() bool {
	if len(r.stack) <= 1 {
		r.report(diag.NewError(diag.SemaInvalidScope, r.scopeSpan(r.CurrentScope()),
			"cannot exit the global scope").
			WithHelp("every enterScope must pair with exactly one exitScope"))
		return false
	}
	r.stack = r.stack[:len(r.stack)-1]
	return true
}

// Declare installs sym into the current scope. A same-name symbol already
// in that scope fails with DuplicateSymbol carrying a note at the original
// declaration; a same-name symbol in an enclosing scope only produces a
// shadowing warning.
func (r *Resolver) Declare(sym *Symbol) (SymbolID, bool) {
	scopeID := r.CurrentScope()
	scope := r.table.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID, false
	}
	if prevID, exists := scope.NameIndex[sym.Name]; exists {
		r.reportDuplicate(sym.Name, sym.Span, prevID)
		return NoSymbolID, false
	}
	r.CheckShadowing(sym.Name, sym.Span)

	sym.Scope = scopeID
	id := r.table.Symbols.New(sym)
	scope.Symbols = append(scope.Symbols, id)
	scope.NameIndex[sym.Name] = id
	return id, true
}

// Lookup walks from the current scope outward to Global and returns the
// first symbol with the given name (nearest scope wins).
func (r *Resolver) Lookup(name source.StringID) (SymbolID, bool) {
	scopeID := r.CurrentScope()
	for scopeID.IsValid() {
		scope := r.table.Scopes.Get(scopeID)
		if scope == nil {
			break
		}
		if id, ok := scope.NameIndex[name]; ok {
			return id, true
		}
		scopeID = scope.Parent
	}
	return NoSymbolID, false
}

// LookupString is Lookup for a plain string name.
func (r *Resolver) LookupString(name string) (SymbolID, bool) {
	id, ok := r.table.Strings.Index(name)
	if !ok {
		return NoSymbolID, false
	}
	return r.Lookup(id)
}

// LookupInScope performs a direct, non-walking lookup in one scope.
func (r *Resolver) LookupInScope(name source.StringID, scopeID ScopeID) (SymbolID, bool) {
	scope := r.table.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID, false
	}
	id, ok := scope.NameIndex[name]
	return id, ok
}

// AccessibleSymbols merges the whole scope chain with inner entries taking
// priority, keyed by symbol text.
func (r *Resolver) AccessibleSymbols() map[string]SymbolID {
	merged := make(map[string]SymbolID)
	scopeID := r.CurrentScope()
	for scopeID.IsValid() {
		scope := r.table.Scopes.Get(scopeID)
		if scope == nil {
			break
		}
		for nameID, symID := range scope.NameIndex {
			name := r.table.Strings.MustLookup(nameID)
			if _, taken := merged[name]; !taken {
				merged[name] = symID
			}
		}
		scopeID = scope.Parent
	}
	return merged
}

// AccessibleNames lists every visible name in sorted order.
func (r *Resolver) AccessibleNames() []string {
	merged := r.AccessibleSymbols()
	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckShadowing issues a non-fatal warning when name already exists in an
// enclosing scope.
func (r *Resolver) CheckShadowing(name source.StringID, span source.Span) {
	scope := r.table.Scopes.Get(r.CurrentScope())
	if scope == nil {
		return
	}
	parent := scope.Parent
	for parent.IsValid() {
		parentScope := r.table.Scopes.Get(parent)
		if parentScope == nil {
			break
		}
		if prevID, ok := parentScope.NameIndex[name]; ok {
			r.reportShadowing(name, span, prevID)
			return
		}
		parent = parentScope.Parent
	}
}

func (r *Resolver) report(d diag.Diagnostic) {
	if r.reporter != nil {
		r.reporter.Report(d)
	}
}

func (r *Resolver) scopeSpan(id ScopeID) source.Span {
	if scope := r.table.Scopes.Get(id); scope != nil {
		return scope.Span
	}
	return source.Span{}
}

func (r *Resolver) reportDuplicate(name source.StringID, span source.Span, prevID SymbolID) {
	if r.reporter == nil {
		return
	}
	nameStr := r.table.Strings.MustLookup(name)
	d := diag.NewError(diag.SemaDuplicateSymbol, span,
		fmt.Sprintf("duplicate declaration of '%s'", nameStr))
	if prev := r.table.Symbols.Get(prevID); prev != nil {
		noteMsg := "previous declaration here"
		if prev.Flags&SymbolFlagBuiltin != 0 {
			noteMsg = "built-in declaration here"
		}
		if prev.Span != (source.Span{}) {
			d = d.WithNote(prev.Span, noteMsg)
		}
		d = d.WithHelp(fmt.Sprintf("rename one of the '%s' declarations", nameStr))
	}
	r.report(d)
}

func (r *Resolver) reportShadowing(name source.StringID, span source.Span, prevID SymbolID) {
	if r.reporter == nil {
		return
	}
	nameStr := r.table.Strings.MustLookup(name)
	d := diag.NewWarning(diag.SemaShadowedDeclaration, span,
		fmt.Sprintf("declaration of '%s' shadows a previous binding", nameStr))
	if prev := r.table.Symbols.Get(prevID); prev != nil {
		noteMsg := "previous declaration here"
		if prev.Flags&SymbolFlagBuiltin != 0 {
			noteMsg = "built-in declaration here"
		}
		if prev.Span != (source.Span{}) {
			d = d.WithNote(prev.Span, noteMsg)
		}
	}
	r.report(d)
}

// installPrelude declares built-in entries directly into the Global scope.
func (r *Resolver) installPrelude(entries []PreludeEntry) {
	scope := r.table.Scopes.Get(r.table.Global)
	if scope == nil {
		return
	}
	for _, entry := range entries {
		nameID := r.table.Strings.Intern(entry.Name)
		if _, exists := scope.NameIndex[nameID]; exists {
			continue
		}
		sym := Symbol{
			Name:      nameID,
			Kind:      entry.Kind,
			Scope:     r.table.Global,
			Flags:     entry.Flags | SymbolFlagBuiltin,
			Signature: entry.Signature,
		}
		id := r.table.Symbols.New(&sym)
		scope.Symbols = append(scope.Symbols, id)
		scope.NameIndex[nameID] = id
	}
}
