package analysis

import (
	"fmt"

	"blend65/internal/ast"
	"blend65/internal/diag"
	"blend65/internal/sema"
	"blend65/internal/source"
	"blend65/internal/symbols"
	"blend65/internal/types"
)

// bodyChecker walks one function body: it declares parameters and
// locals, type-checks every statement, and registers locals with the
// variable analyzer. Errors accumulate; a bad statement never stops
// the walk.
type bodyChecker struct {
	checker  *sema.Checker
	reporter diag.Reporter
	vars     *variableAnalyzer

	fn     *ast.FunctionDecl
	label  string
	module string
	sig    *symbols.FunctionSignature
	ok     bool
}

// declareParams binds each parameter as a local variable in the
// function scope and hands it to the variable analyzer; parameters
// compete for placement like any other local.
func (b *bodyChecker) declareParams() {
	resolver := b.checker.Resolver()
	for i, p := range b.fn.Params {
		pt, ok := b.checker.ResolveType(b.sig.Params[i].Type, p.Span)
		if !ok {
			b.ok = false
			continue
		}
		id, declared := resolver.Declare(&symbols.Symbol{
			Name:    resolver.Table().Strings.Intern(p.Name),
			Kind:    symbols.SymbolVariable,
			Span:    p.Span,
			Flags:   symbols.SymbolFlagLocal,
			Type:    pt,
			HasInit: p.Default != nil,
		})
		if !declared {
			b.ok = false
			continue
		}
		b.vars.collectParam(b.label, b.module, id, p, pt)
	}
}

func (b *bodyChecker) stmts(list []ast.Statement) {
	for _, stmt := range list {
		b.stmt(stmt)
	}
}

func (b *bodyChecker) stmt(stmt ast.Statement) {
	switch st := stmt.(type) {
	case nil:
	case *ast.VariableDecl:
		b.local(st)
	case *ast.BlockStmt:
		b.block(st.Body, st.Span)
	case *ast.AssignStmt:
		b.assign(st)
	case *ast.ExprStmt:
		if _, ok := b.checker.InferExpressionType(st.Expr); !ok {
			b.ok = false
		}
	case *ast.IfStmt:
		b.condition(st.Cond, "if")
		b.block(st.Then, st.Span)
		if st.Else != nil {
			b.block(st.Else, st.Span)
		}
	case *ast.WhileStmt:
		b.condition(st.Cond, "while")
		b.block(st.Body, st.Span)
	case *ast.ForStmt:
		b.forStmt(st)
	case *ast.ReturnStmt:
		b.returnStmt(st)
	default:
		diag.ReportError(b.reporter, diag.SemaInvalidOperation, stmt.Loc(),
			"unsupported statement").Emit()
		b.ok = false
	}
}

func (b *bodyChecker) block(body []ast.Statement, span source.Span) {
	resolver := b.checker.Resolver()
	resolver.EnterScope(symbols.ScopeBlock, "", span)
	b.stmts(body)
	resolver.ExitScope()
}

// local checks and declares a function-local variable. The enclosing
// scope kind decides the storage-class rules; explicit classes are
// illegal here.
func (b *bodyChecker) local(st *ast.VariableDecl) {
	resolver := b.checker.Resolver()
	kind := resolver.Table().Scopes.Get(resolver.CurrentScope()).Kind
	varType, storage, ok := b.vars.checkDeclaration(kind, st)
	if varType == nil {
		b.ok = false
		return
	}
	id, declared := resolver.Declare(&symbols.Symbol{
		Name:    resolver.Table().Strings.Intern(st.Name),
		Kind:    symbols.SymbolVariable,
		Span:    st.Span,
		Flags:   symbols.SymbolFlagLocal,
		Type:    varType,
		Storage: storage,
		HasInit: st.Init != nil,
	})
	if !declared || !ok {
		b.ok = false
		return
	}
	b.vars.collectLocal(b.label, b.module, id, st, varType)
}

func (b *bodyChecker) assign(st *ast.AssignStmt) {
	target, tok := b.targetType(st.Target)
	value, vok := b.checker.InferExpressionType(st.Value)
	if !tok || !vok {
		b.ok = false
		return
	}
	if !b.checker.CheckAssignmentCompatibility(target, value, st.Value.Loc()) {
		b.ok = false
	}
}

// targetType validates the left side of an assignment and returns the
// type being stored into.
func (b *bodyChecker) targetType(target ast.Expression) (types.Type, bool) {
	resolver := b.checker.Resolver()
	switch t := target.(type) {
	case *ast.Identifier:
		id, ok := resolver.LookupString(t.Name)
		if !ok {
			// the checker produces the usual undefined-symbol report
			b.checker.InferExpressionType(t)
			return nil, false
		}
		return b.variableTarget(resolver.Table().Symbols.Get(id), t.Name, t.Span)
	case *ast.IndexExpr:
		base, ok := b.targetType(t.Base)
		if !ok {
			return nil, false
		}
		return b.checker.CheckArrayAccess(base, t.Index, t.Loc())
	case *ast.QualifiedName:
		if id, res := resolver.LookupQualified(t.Parts); res == symbols.QualifiedOK {
			return b.variableTarget(resolver.Table().Symbols.Get(id), t.String(), t.Span)
		}
		if _, ok := b.checker.InferExpressionType(t); ok {
			// resolvable but not module storage, an enum member say
			diag.ReportError(b.reporter, diag.SemaInvalidOperation, t.Span,
				fmt.Sprintf("cannot assign to '%s'", t.String())).Emit()
		}
		return nil, false
	default:
		diag.ReportError(b.reporter, diag.SemaInvalidOperation, target.Loc(),
			"assignment target must be a variable or array element").Emit()
		return nil, false
	}
}

// variableTarget enforces that an assignment target is a writable
// variable and resolves its type.
func (b *bodyChecker) variableTarget(sym *symbols.Symbol, name string, span source.Span) (types.Type, bool) {
	if sym == nil {
		return nil, false
	}
	if sym.Kind != symbols.SymbolVariable {
		diag.ReportError(b.reporter, diag.SemaInvalidOperation, span,
			fmt.Sprintf("cannot assign to %s '%s'", sym.Kind, name)).Emit()
		return nil, false
	}
	if sym.Storage.ReadOnly() {
		diag.ReportError(b.reporter, diag.SemaInvalidOperation, span,
			fmt.Sprintf("cannot assign to '%s' declared '%s'", name, sym.Storage)).
			WithHelp("const and data variables are read-only").Emit()
		return nil, false
	}
	return b.checker.ResolveType(sym.Type, span)
}

func (b *bodyChecker) condition(cond ast.Expression, construct string) {
	if cond == nil {
		return
	}
	t, ok := b.checker.InferExpressionType(cond)
	if !ok {
		b.ok = false
		return
	}
	if !types.IsBoolean(t) {
		diag.ReportError(b.reporter, diag.SemaTypeMismatch, cond.Loc(),
			fmt.Sprintf("%s condition must be boolean, got %s", construct, t)).Emit()
		b.ok = false
	}
}

// forStmt opens one block scope around the whole loop so the init
// declaration is visible to the condition, the update, and the body.
func (b *bodyChecker) forStmt(st *ast.ForStmt) {
	resolver := b.checker.Resolver()
	resolver.EnterScope(symbols.ScopeBlock, "", st.Span)
	if st.Init != nil {
		b.stmt(st.Init)
	}
	b.condition(st.Cond, "for")
	if st.Update != nil {
		b.stmt(st.Update)
	}
	b.block(st.Body, st.Span)
	resolver.ExitScope()
}

func (b *bodyChecker) returnStmt(st *ast.ReturnStmt) {
	want, ok := b.checker.ResolveType(b.sig.Return, st.Span)
	if !ok {
		b.ok = false
		return
	}
	if st.Value == nil {
		if !types.IsVoid(want) {
			diag.ReportError(b.reporter, diag.SemaTypeMismatch, st.Span,
				fmt.Sprintf("function '%s' returns %s, this return has no value", b.fn.Name, want)).Emit()
			b.ok = false
		}
		return
	}
	if types.IsVoid(want) {
		diag.ReportError(b.reporter, diag.SemaTypeMismatch, st.Value.Loc(),
			fmt.Sprintf("function '%s' returns no value", b.fn.Name)).Emit()
		b.ok = false
		return
	}
	got, ok := b.checker.InferExpressionType(st.Value)
	if !ok {
		b.ok = false
		return
	}
	if !b.checker.CheckAssignmentCompatibility(want, got, st.Value.Loc()) {
		b.ok = false
	}
}
