// Package ast defines the parsed-unit contract the analyzer consumes.
//
// Units arrive already parsed; the lexer and parser live upstream and are
// out of scope. Nodes carry source spans so diagnostics can point back into
// the original files. decode.go reads the kind-tagged JSON wire format the
// upstream parser emits.
package ast

import "blend65/internal/source"

// Node is the base interface for all syntax-tree nodes.
type Node interface {
	Loc() source.Span
}

// Declaration is a top-level declaration inside a compilation unit.
type Declaration interface {
	Node
	declNode()
}

// Statement is a node that performs an action inside a function body.
type Statement interface {
	Node
	stmtNode()
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	exprNode()
}

// TypeAnnotation is a syntactic type as written in source, before the
// checker converts it to a type value.
type TypeAnnotation interface {
	Node
	typeNode()
}

// CompilationUnit is one parsed source file.
type CompilationUnit struct {
	Path    string
	File    source.FileID
	Module  *ModuleDecl
	Imports []*ImportDecl
	Exports []*ExportDecl
	Decls   []Declaration
}

// ModuleDecl is the optional module header; Name is the qualified dotted
// name ("Game.Sprites").
type ModuleDecl struct {
	Name string
	Span source.Span
}

func (m *ModuleDecl) Loc() source.Span { return m.Span }

// ImportDecl names one symbol pulled from another module. Alias defaults
// to Symbol when empty.
type ImportDecl struct {
	Module string
	Symbol string
	Alias  string
	Span   source.Span
}

func (i *ImportDecl) Loc() source.Span { return i.Span }

// LocalName returns the name the import binds in the importing scope.
func (i *ImportDecl) LocalName() string {
	if i.Alias != "" {
		return i.Alias
	}
	return i.Symbol
}

// ExportDecl marks one declared name as visible to other modules.
type ExportDecl struct {
	Name string
	Span source.Span
}

func (e *ExportDecl) Loc() source.Span { return e.Span }

// VariableDecl declares a variable, either at module level or as a local
// statement. Storage is the raw storage-class keyword ("" when omitted).
type VariableDecl struct {
	Name    string
	Storage string
	Type    TypeAnnotation
	Init    Expression
	Span    source.Span
}

func (v *VariableDecl) Loc() source.Span { return v.Span }
func (v *VariableDecl) declNode()        {}
func (v *VariableDecl) stmtNode()        {}

// Param is one function parameter.
type Param struct {
	Name     string
	Type     TypeAnnotation
	Optional bool
	Default  Expression
	Span     source.Span
}

// FunctionDecl declares a function. A nil Body marks a stub (a forward or
// intrinsic declaration); an empty non-nil Body is a defined function that
// does nothing.
type FunctionDecl struct {
	Name     string
	Callback bool
	Params   []Param
	Return   TypeAnnotation
	Body     []Statement
	HasBody  bool
	Span     source.Span
}

func (f *FunctionDecl) Loc() source.Span { return f.Span }
func (f *FunctionDecl) declNode()        {}

// Field is one named field of a record-style type declaration.
type Field struct {
	Name string
	Type TypeAnnotation
	Span source.Span
}

// TypeDecl declares a named type. Alias-style declarations carry
// Underlying; record-style declarations carry Fields and optionally
// Extends. Only Underlying participates in name resolution.
type TypeDecl struct {
	Name       string
	Extends    []string
	Fields     []Field
	Underlying TypeAnnotation
	Span       source.Span
}

func (t *TypeDecl) Loc() source.Span { return t.Span }
func (t *TypeDecl) declNode()        {}

// EnumMember is one enumerator; Value is nil for auto-increment.
type EnumMember struct {
	Name  string
	Value Expression
	Span  source.Span
}

// EnumDecl declares a byte-backed enumeration.
type EnumDecl struct {
	Name    string
	Members []EnumMember
	Span    source.Span
}

func (e *EnumDecl) Loc() source.Span { return e.Span }
func (e *EnumDecl) declNode()        {}
