package symbols

import (
	"blend65/internal/source"
	"blend65/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolModule
	SymbolVariable
	SymbolFunction
	SymbolType
	SymbolEnum
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolModule:
		return "module"
	case SymbolVariable:
		return "variable"
	case SymbolFunction:
		return "function"
	case SymbolType:
		return "type"
	case SymbolEnum:
		return "enum"
	default:
		return "invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	SymbolFlagExported SymbolFlags = 1 << iota
	SymbolFlagImported
	SymbolFlagBuiltin
	SymbolFlagLocal
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	if f&SymbolFlagExported != 0 {
		labels = append(labels, "exported")
	}
	if f&SymbolFlagImported != 0 {
		labels = append(labels, "imported")
	}
	if f&SymbolFlagBuiltin != 0 {
		labels = append(labels, "builtin")
	}
	if f&SymbolFlagLocal != 0 {
		labels = append(labels, "local")
	}
	return labels
}

// EnumMemberValue is one resolved enumerator.
type EnumMemberValue struct {
	Name  string
	Value int64
	Span  source.Span
}

// FieldInfo is one field of a record-style type symbol. Fields are carried
// for downstream consumers; name resolution only follows Type.
type FieldInfo struct {
	Name string
	Type types.Type
}

// Symbol describes a named entity available in a scope. Kind decides which
// payload fields are meaningful: Type and Storage for variables (Type also
// holds a type symbol's underlying definition), Signature for functions,
// ModulePath for modules and imported bindings, Members for enums.
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Scope ScopeID
	Span  source.Span
	Flags SymbolFlags

	Type    types.Type
	Storage types.StorageClass
	HasInit bool

	Signature *FunctionSignature

	ModulePath string
	ImportName source.StringID

	Extends []string
	Fields  []FieldInfo

	Members []EnumMemberValue
}

// IsExported reports whether the symbol has been marked exported.
func (s *Symbol) IsExported() bool { return s.Flags&SymbolFlagExported != 0 }

// IsImported reports whether the symbol is an imported binding.
func (s *Symbol) IsImported() bool { return s.Flags&SymbolFlagImported != 0 }

// IsLocal reports whether the symbol is function-local.
func (s *Symbol) IsLocal() bool { return s.Flags&SymbolFlagLocal != 0 }

// Member finds an enum member by name.
func (s *Symbol) Member(name string) (EnumMemberValue, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return EnumMemberValue{}, false
}
