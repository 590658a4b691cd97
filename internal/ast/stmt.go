package ast

import "blend65/internal/source"

// BlockStmt groups statements and opens a nested scope.
type BlockStmt struct {
	Body []Statement
	Span source.Span
}

func (b *BlockStmt) Loc() source.Span { return b.Span }
func (b *BlockStmt) stmtNode()        {}

// AssignStmt stores Value into Target. Target is an identifier, a
// qualified name or an index expression.
type AssignStmt struct {
	Target Expression
	Value  Expression
	Span   source.Span
}

func (a *AssignStmt) Loc() source.Span { return a.Span }
func (a *AssignStmt) stmtNode()        {}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	Expr Expression
	Span source.Span
}

func (e *ExprStmt) Loc() source.Span { return e.Span }
func (e *ExprStmt) stmtNode()        {}

// IfStmt branches on Cond; Else may be nil.
type IfStmt struct {
	Cond Expression
	Then []Statement
	Else []Statement
	Span source.Span
}

func (i *IfStmt) Loc() source.Span { return i.Span }
func (i *IfStmt) stmtNode()        {}

// WhileStmt loops while Cond holds.
type WhileStmt struct {
	Cond Expression
	Body []Statement
	Span source.Span
}

func (w *WhileStmt) Loc() source.Span { return w.Span }
func (w *WhileStmt) stmtNode()        {}

// ForStmt is a counted loop; Init, Cond and Update may each be nil.
type ForStmt struct {
	Init   Statement
	Cond   Expression
	Update Statement
	Body   []Statement
	Span   source.Span
}

func (f *ForStmt) Loc() source.Span { return f.Span }
func (f *ForStmt) stmtNode()        {}

// ReturnStmt leaves the enclosing function; Value is nil for bare returns.
type ReturnStmt struct {
	Value Expression
	Span  source.Span
}

func (r *ReturnStmt) Loc() source.Span { return r.Span }
func (r *ReturnStmt) stmtNode()        {}
