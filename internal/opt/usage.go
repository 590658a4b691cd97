package opt

import (
	"blend65/internal/ast"
)

// VariableUsage records how one variable is used inside a scanned
// region. Counts are raw; the scorers weigh them.
type VariableUsage struct {
	Reads  int
	Writes int
	// LoopUses counts uses inside at least one loop, HotPathUses
	// inside nested loops.
	LoopUses    int
	HotPathUses int
	ArithUses   int
	IndexUses   int
	CallArgUses int
	// HardwareAccess marks values fed to peek or poke.
	HardwareAccess bool
	// FirstUse and LastUse are statement ordinals within the scanned
	// body, for lifetime length. -1 when never used.
	FirstUse int
	LastUse  int
}

// AccessCount is the total number of reads and writes.
func (u *VariableUsage) AccessCount() int { return u.Reads + u.Writes }

// LifetimeLength is the statement distance between first and last use.
func (u *VariableUsage) LifetimeLength() int {
	if u.FirstUse < 0 {
		return 0
	}
	return u.LastUse - u.FirstUse + 1
}

// CallSite is one function invocation found during a scan. Hot marks
// sites inside nested loops.
type CallSite struct {
	Callee string
	InLoop bool
	Hot    bool
}

// FunctionScan is the result of walking one function body: name-keyed
// variable usage, every call site, and the names the body declares.
type FunctionScan struct {
	Vars   map[string]*VariableUsage
	Calls  []CallSite
	Locals map[string]bool
	// WritesOutside is set when the body assigns to a name it does not
	// declare, which the inliner treats as a visible side effect.
	WritesOutside bool
	// HardwareWrites counts poke calls.
	HardwareWrites int
}

// ScanFunction walks a function body and collects usage facts. Names
// are not resolved against the symbol table here; callers attribute
// them to symbols afterwards.
func ScanFunction(fn *ast.FunctionDecl) *FunctionScan {
	scan := &FunctionScan{
		Vars:   make(map[string]*VariableUsage),
		Locals: make(map[string]bool),
	}
	for _, p := range fn.Params {
		scan.Locals[p.Name] = true
	}
	s := &usageScanner{scan: scan}
	s.walkStmts(fn.Body)
	return scan
}

// ScanExpression collects usage facts from a standalone expression,
// such as a module-level initializer.
func ScanExpression(expr ast.Expression) *FunctionScan {
	scan := &FunctionScan{
		Vars:   make(map[string]*VariableUsage),
		Locals: make(map[string]bool),
	}
	s := &usageScanner{scan: scan}
	s.walkExpr(expr, exprCtx{})
	return scan
}

type usageScanner struct {
	scan      *FunctionScan
	loopDepth int
	ordinal   int
}

// exprCtx carries the syntactic position of a subexpression during the
// walk.
type exprCtx struct {
	write    bool
	arith    bool
	index    bool
	callArg  bool
	hardware bool
}

func (s *usageScanner) use(name string, ctx exprCtx) {
	u := s.scan.Vars[name]
	if u == nil {
		u = &VariableUsage{FirstUse: s.ordinal, LastUse: s.ordinal}
		s.scan.Vars[name] = u
	} else {
		u.LastUse = s.ordinal
	}
	if ctx.write {
		u.Writes++
	} else {
		u.Reads++
	}
	if s.loopDepth > 0 {
		u.LoopUses++
	}
	if s.loopDepth > 1 {
		u.HotPathUses++
	}
	if ctx.arith {
		u.ArithUses++
	}
	if ctx.index {
		u.IndexUses++
	}
	if ctx.callArg {
		u.CallArgUses++
	}
	if ctx.hardware {
		u.HardwareAccess = true
	}
}

func (s *usageScanner) walkStmts(stmts []ast.Statement) {
	for _, stmt := range stmts {
		s.walkStmt(stmt)
	}
}

func (s *usageScanner) walkStmt(stmt ast.Statement) {
	if stmt == nil {
		return
	}
	s.ordinal++
	switch st := stmt.(type) {
	case *ast.VariableDecl:
		s.scan.Locals[st.Name] = true
		if st.Init != nil {
			s.use(st.Name, exprCtx{write: true})
			s.walkExpr(st.Init, exprCtx{})
		}
	case *ast.BlockStmt:
		s.walkStmts(st.Body)
	case *ast.AssignStmt:
		s.walkTarget(st.Target)
		s.walkExpr(st.Value, exprCtx{})
	case *ast.ExprStmt:
		s.walkExpr(st.Expr, exprCtx{})
	case *ast.IfStmt:
		s.walkExpr(st.Cond, exprCtx{})
		s.walkStmts(st.Then)
		s.walkStmts(st.Else)
	case *ast.WhileStmt:
		s.loopDepth++
		s.walkExpr(st.Cond, exprCtx{})
		s.walkStmts(st.Body)
		s.loopDepth--
	case *ast.ForStmt:
		s.walkStmt(st.Init)
		s.loopDepth++
		s.walkExpr(st.Cond, exprCtx{})
		s.walkStmt(st.Update)
		s.walkStmts(st.Body)
		s.loopDepth--
	case *ast.ReturnStmt:
		s.walkExpr(st.Value, exprCtx{})
	}
}

// walkTarget handles the left side of an assignment: a bare name is a
// write, an indexed name is a write through the array plus a read of
// the index.
func (s *usageScanner) walkTarget(target ast.Expression) {
	switch t := target.(type) {
	case *ast.Identifier:
		s.use(t.Name, exprCtx{write: true})
		if !s.scan.Locals[t.Name] {
			s.scan.WritesOutside = true
		}
	case *ast.IndexExpr:
		s.walkTarget(t.Base)
		s.walkExpr(t.Index, exprCtx{index: true})
	default:
		s.walkExpr(target, exprCtx{})
	}
}

func (s *usageScanner) walkExpr(expr ast.Expression, ctx exprCtx) {
	switch e := expr.(type) {
	case nil:
	case *ast.NumberLit, *ast.BooleanLit:
	case *ast.Identifier:
		s.use(e.Name, ctx)
	case *ast.QualifiedName:
	case *ast.UnaryExpr:
		s.walkExpr(e.Operand, ctx)
	case *ast.BinaryExpr:
		sub := ctx
		if e.Op.IsArithmetic() {
			sub.arith = true
		}
		s.walkExpr(e.Left, sub)
		s.walkExpr(e.Right, sub)
	case *ast.CallExpr:
		s.walkCall(e)
	case *ast.IndexExpr:
		s.walkExpr(e.Base, ctx)
		idx := ctx
		idx.index = true
		s.walkExpr(e.Index, idx)
	case *ast.ArrayLit:
		for _, el := range e.Elements {
			s.walkExpr(el, ctx)
		}
	}
}

func (s *usageScanner) walkCall(call *ast.CallExpr) {
	callee := calleeName(call.Callee)
	if callee != "" {
		s.scan.Calls = append(s.scan.Calls, CallSite{
			Callee: callee,
			InLoop: s.loopDepth > 0,
			Hot:    s.loopDepth > 1,
		})
	}
	hardware := callee == "peek" || callee == "poke"
	if callee == "poke" {
		s.scan.HardwareWrites++
		s.scan.WritesOutside = true
	}
	if _, named := call.Callee.(*ast.Identifier); !named {
		if _, qual := call.Callee.(*ast.QualifiedName); !qual {
			s.walkExpr(call.Callee, exprCtx{})
		}
	}
	for _, arg := range call.Args {
		s.walkExpr(arg, exprCtx{callArg: true, hardware: hardware})
	}
}

func calleeName(callee ast.Expression) string {
	switch e := callee.(type) {
	case *ast.Identifier:
		return e.Name
	case *ast.QualifiedName:
		return e.String()
	default:
		return ""
	}
}
