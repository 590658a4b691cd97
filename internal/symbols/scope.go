package symbols

import "blend65/internal/source"

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeGlobal             // the single root scope
	ScopeModule             // module-level (top-level declarations)
	ScopeFunction           // function body scope
	ScopeBlock              // generic block scope
)

var scopeKindNames = [...]string{
	ScopeInvalid:  "invalid",
	ScopeGlobal:   "global",
	ScopeModule:   "module",
	ScopeFunction: "function",
	ScopeBlock:    "block",
}

func (k ScopeKind) String() string {
	if int(k) < len(scopeKindNames) {
		return scopeKindNames[k]
	}
	return "invalid"
}

// Scope models a lexical scope with a parent-child hierarchy. Names are
// unique within one scope; shadowing across scopes is legal.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Name      string // debug name: module path, function name, or ""
	Span      source.Span
	NameIndex map[source.StringID]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
