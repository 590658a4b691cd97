package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"blend65/internal/source"
)

// ScopeID identifies a scope in the table arena.
type ScopeID uint32

const (
	// NoScopeID marks the absence of a scope reference.
	NoScopeID ScopeID = 0
)

// IsValid reports whether the scope ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// SymbolID identifies a symbol in the table arena.
type SymbolID uint32

const (
	// NoSymbolID marks the absence of a symbol reference.
	NoSymbolID SymbolID = 0
)

// IsValid reports whether the symbol ID refers to an allocated symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// arena is a compact slice store addressed by one of the uint32 ID
// families above. Index 0 stays unused so the zero ID always means
// "no reference".
type arena[ID ~uint32, T any] struct {
	data []T
}

func newArena[ID ~uint32, T any](capacity, fallback uint32) arena[ID, T] {
	if capacity == 0 {
		capacity = fallback
	}
	return arena[ID, T]{data: make([]T, 1, capacity+1)}
}

func (a *arena[ID, T]) alloc(v T) ID {
	value, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	a.data = append(a.data, v)
	return ID(value)
}

func (a *arena[ID, T]) get(id ID) *T {
	if id == 0 || int(id) >= len(a.data) {
		return nil
	}
	return &a.data[id]
}

func (a *arena[ID, T]) count() int { return len(a.data) - 1 }

func (a *arena[ID, T]) slice() []T {
	if len(a.data) <= 1 {
		return nil
	}
	return a.data[1:]
}

// Scopes stores every allocated scope.
type Scopes struct {
	arena[ScopeID, Scope]
}

// NewScopes creates a scope arena with an optional capacity hint.
func NewScopes(capacity uint32) *Scopes {
	return &Scopes{arena: newArena[ScopeID, Scope](capacity, 32)}
}

// New allocates a scope, wires it into its parent's child list and
// returns its ID.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, name string, span source.Span) ScopeID {
	id := s.alloc(Scope{
		Kind:      kind,
		Parent:    parent,
		Name:      name,
		Span:      span,
		NameIndex: make(map[source.StringID]SymbolID),
	})
	if parentScope := s.Get(parent); parentScope != nil {
		parentScope.Children = append(parentScope.Children, id)
	}
	return id
}

// Get returns the scope for id, or nil when id is out of range.
func (s *Scopes) Get(id ScopeID) *Scope { return s.get(id) }

// Len reports the number of allocated scopes.
func (s *Scopes) Len() int { return s.count() }

// Data exposes the allocated scopes in allocation order.
func (s *Scopes) Data() []Scope { return s.slice() }

// Symbols stores every declared symbol.
type Symbols struct {
	arena[SymbolID, Symbol]
}

// NewSymbols creates a symbol arena with an optional capacity hint.
func NewSymbols(capacity uint32) *Symbols {
	return &Symbols{arena: newArena[SymbolID, Symbol](capacity, 64)}
}

// New copies sym into the arena and returns its ID.
func (s *Symbols) New(sym *Symbol) SymbolID {
	if sym == nil {
		panic("symbols.New: nil symbol")
	}
	return s.alloc(*sym)
}

// Get returns the symbol for id, or nil when id is out of range.
func (s *Symbols) Get(id SymbolID) *Symbol { return s.get(id) }

// Len reports the number of declared symbols.
func (s *Symbols) Len() int { return s.count() }

// Data exposes the declared symbols in declaration order.
func (s *Symbols) Data() []Symbol { return s.slice() }
