package sema

import (
	"fmt"

	"blend65/internal/ast"
	"blend65/internal/diag"
	"blend65/internal/source"
	"blend65/internal/symbols"
	"blend65/internal/types"
)

// callable is the checker's view of something invocable: resolved
// parameter types, how many of them a call must supply, and the
// resolved return type.
type callable struct {
	label    string
	params   []types.Type
	required int
	ret      types.Type
}

func (c *Checker) inferCall(call *ast.CallExpr) (types.Type, bool) {
	target, ok := c.resolveCallee(call.Callee)
	if !ok {
		return nil, false
	}
	if !c.checkCallArgs(target, call.Args, call.Loc()) {
		return nil, false
	}
	return target.ret, true
}

func (c *Checker) resolveCallee(callee ast.Expression) (callable, bool) {
	switch e := callee.(type) {
	case *ast.Identifier:
		id, ok := c.resolver.LookupString(e.Name)
		if !ok {
			c.reportWithHelp(diag.SemaUndefinedSymbol, e.Loc(), c.suggestName(e.Name),
				"undefined symbol '%s'", e.Name)
			return callable{}, false
		}
		return c.callableFromSymbol(c.symbol(id), "'"+e.Name+"'", e.Loc())

	case *ast.QualifiedName:
		id, res := c.resolver.LookupQualified(e.Parts)
		if res != symbols.QualifiedOK {
			// Reuse the value-position diagnostics for the miss.
			_, _ = c.inferQualified(e)
			return callable{}, false
		}
		return c.callableFromSymbol(c.symbol(id), "'"+e.String()+"'", e.Loc())

	default:
		t, ok := c.InferExpressionType(e)
		if !ok {
			return callable{}, false
		}
		cb := types.AsCallback(t)
		if cb == nil {
			c.report(diag.SemaTypeMismatch, e.Loc(), "expression of type %s is not callable", t)
			return callable{}, false
		}
		return callable{
			label:    "callback value",
			params:   cb.Params,
			required: len(cb.Params),
			ret:      cb.Return,
		}, true
	}
}

func (c *Checker) callableFromSymbol(sym *symbols.Symbol, label string, span source.Span) (callable, bool) {
	switch sym.Kind {
	case symbols.SymbolFunction:
		sig := sym.Signature
		if sig == nil {
			c.report(diag.SemaInvalidOperation, span, "function %s has no signature", label)
			return callable{}, false
		}
		params := make([]types.Type, len(sig.Params))
		for i, p := range sig.Params {
			rp, ok := c.ResolveType(p.Type, span)
			if !ok {
				return callable{}, false
			}
			params[i] = rp
		}
		var ret types.Type = types.Void
		if sig.Return != nil {
			r, ok := c.ResolveType(sig.Return, span)
			if !ok {
				return callable{}, false
			}
			ret = r
		}
		return callable{label: label, params: params, required: sig.RequiredArgs(), ret: ret}, true

	case symbols.SymbolVariable:
		t, ok := c.ResolveType(sym.Type, span)
		if !ok {
			return callable{}, false
		}
		cb := types.AsCallback(t)
		if cb == nil {
			if types.IsBareCallback(t) {
				c.reportWithHelp(diag.SemaTypeMismatch, span,
					"declare it with a full signature like callback(byte): void",
					"cannot call %s: its callback type has no signature", label)
				return callable{}, false
			}
			c.report(diag.SemaTypeMismatch, span, "%s is not callable; it has type %s", label, t)
			return callable{}, false
		}
		return callable{label: label, params: cb.Params, required: len(cb.Params), ret: cb.Return}, true

	default:
		c.report(diag.SemaTypeMismatch, span, "%s is not callable", label)
		return callable{}, false
	}
}

func (c *Checker) checkCallArgs(target callable, args []ast.Expression, span source.Span) bool {
	if len(args) < target.required || len(args) > len(target.params) {
		c.report(diag.SemaTypeMismatch, span, "%s expects %s, got %d",
			target.label, expectedArgCount(target.required, len(target.params)), len(args))
		return false
	}
	for i, arg := range args {
		argType, ok := c.InferExpressionType(arg)
		if !ok {
			return false
		}
		if !types.AssignmentCompatible(target.params[i], argType) {
			c.report(diag.SemaTypeMismatch, arg.Loc(),
				"argument %d of %s: expected %s, got %s", i+1, target.label, target.params[i], argType)
			return false
		}
	}
	return true
}

func expectedArgCount(required, total int) string {
	if required == total {
		if total == 1 {
			return "1 argument"
		}
		return fmt.Sprintf("%d arguments", total)
	}
	return fmt.Sprintf("%d to %d arguments", required, total)
}
