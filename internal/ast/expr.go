package ast

import (
	"strings"

	"blend65/internal/source"
)

// UnaryOp enumerates prefix operators.
type UnaryOp uint8

const (
	OpNot UnaryOp = iota
)

func (op UnaryOp) String() string {
	if op == OpNot {
		return "not"
	}
	return "?"
}

// ParseUnaryOp maps a wire-format operator string to its UnaryOp.
func ParseUnaryOp(s string) (UnaryOp, bool) {
	if s == "not" {
		return OpNot, true
	}
	return 0, false
}

// BinaryOp enumerates infix operators.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

var binaryOpNames = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpAnd: "and", OpOr: "or",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// ParseBinaryOp maps a wire-format operator string to its BinaryOp.
func ParseBinaryOp(s string) (BinaryOp, bool) {
	for op, name := range binaryOpNames {
		if name == s {
			return BinaryOp(op), true
		}
	}
	return 0, false
}

// IsArithmetic reports whether op is + - * / %.
func (op BinaryOp) IsArithmetic() bool { return op <= OpMod }

// IsComparison reports whether op is a relational operator.
func (op BinaryOp) IsComparison() bool { return op >= OpEq && op <= OpGe }

// IsLogical reports whether op is and/or.
func (op BinaryOp) IsLogical() bool { return op == OpAnd || op == OpOr }

// NumberLit is an integer literal. The language has no integer wider than
// word, so int64 holds every representable value with room to flag
// out-of-range inputs.
type NumberLit struct {
	Value int64
	Span  source.Span
}

func (n *NumberLit) Loc() source.Span { return n.Span }
func (n *NumberLit) exprNode()        {}

// BooleanLit is true or false.
type BooleanLit struct {
	Value bool
	Span  source.Span
}

func (b *BooleanLit) Loc() source.Span { return b.Span }
func (b *BooleanLit) exprNode()        {}

// Identifier is a plain name reference.
type Identifier struct {
	Name string
	Span source.Span
}

func (i *Identifier) Loc() source.Span { return i.Span }
func (i *Identifier) exprNode()        {}

// QualifiedName is a dotted path ("Utils.random", "Color.red"). Parts has
// at least two segments; a single segment parses as Identifier.
type QualifiedName struct {
	Parts []string
	Span  source.Span
}

func (q *QualifiedName) Loc() source.Span { return q.Span }
func (q *QualifiedName) exprNode()        {}

// String joins the path with dots.
func (q *QualifiedName) String() string { return strings.Join(q.Parts, ".") }

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expression
	Span    source.Span
}

func (u *UnaryExpr) Loc() source.Span { return u.Span }
func (u *UnaryExpr) exprNode()        {}

// BinaryExpr applies an infix operator.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
	Span  source.Span
}

func (b *BinaryExpr) Loc() source.Span { return b.Span }
func (b *BinaryExpr) exprNode()        {}

// CallExpr invokes Callee with Args. Callee is an Identifier or a
// QualifiedName; the intrinsics peek and poke arrive as ordinary calls.
type CallExpr struct {
	Callee Expression
	Args   []Expression
	Span   source.Span
}

func (c *CallExpr) Loc() source.Span { return c.Span }
func (c *CallExpr) exprNode()        {}

// IndexExpr subscripts Base with Index.
type IndexExpr struct {
	Base  Expression
	Index Expression
	Span  source.Span
}

func (i *IndexExpr) Loc() source.Span { return i.Span }
func (i *IndexExpr) exprNode()        {}

// ArrayLit lists element expressions; the element type is inferred from
// the first element.
type ArrayLit struct {
	Elements []Expression
	Span     source.Span
}

func (a *ArrayLit) Loc() source.Span { return a.Span }
func (a *ArrayLit) exprNode()        {}
