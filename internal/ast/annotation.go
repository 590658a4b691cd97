package ast

import "blend65/internal/source"

// PrimitiveAnnotation names a built-in scalar type (byte, word, boolean,
// void, callback).
type PrimitiveAnnotation struct {
	Name string
	Span source.Span
}

func (p *PrimitiveAnnotation) Loc() source.Span { return p.Span }
func (p *PrimitiveAnnotation) typeNode()        {}

// ArrayAnnotation is an element type plus a size expression; the size must
// constant-fold during checking.
type ArrayAnnotation struct {
	Elem TypeAnnotation
	Size Expression
	Span source.Span
}

func (a *ArrayAnnotation) Loc() source.Span { return a.Span }
func (a *ArrayAnnotation) typeNode()        {}

// NamedAnnotation references a user-declared type or enum by name.
type NamedAnnotation struct {
	Name string
	Span source.Span
}

func (n *NamedAnnotation) Loc() source.Span { return n.Span }
func (n *NamedAnnotation) typeNode()        {}

// CallbackAnnotation is a full function-pointer signature.
type CallbackAnnotation struct {
	Params []TypeAnnotation
	Return TypeAnnotation
	Span   source.Span
}

func (c *CallbackAnnotation) Loc() source.Span { return c.Span }
func (c *CallbackAnnotation) typeNode()        {}
