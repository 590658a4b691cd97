package sema

import (
	"fmt"
	"strings"

	"blend65/internal/ast"
	"blend65/internal/diag"
	"blend65/internal/source"
	"blend65/internal/symbols"
	"blend65/internal/types"
)

// InferExpressionType computes the type of an expression. Every type
// it returns is concrete: named types are resolved on the way out, so
// callers never need a second resolution pass. On failure exactly one
// diagnostic has been reported for the offending subexpression.
func (c *Checker) InferExpressionType(expr ast.Expression) (types.Type, bool) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		return c.literalType(e)
	case *ast.BooleanLit:
		return types.Boolean, true
	case *ast.Identifier:
		return c.inferIdentifier(e)
	case *ast.QualifiedName:
		return c.inferQualified(e)
	case *ast.UnaryExpr:
		return c.inferUnary(e)
	case *ast.BinaryExpr:
		return c.inferBinary(e)
	case *ast.CallExpr:
		return c.inferCall(e)
	case *ast.IndexExpr:
		base, ok := c.InferExpressionType(e.Base)
		if !ok {
			return nil, false
		}
		return c.CheckArrayAccess(base, e.Index, e.Loc())
	case *ast.ArrayLit:
		return c.inferArrayLit(e)
	default:
		c.report(diag.SemaInvalidOperation, expr.Loc(), "unsupported expression")
		return nil, false
	}
}

// literalType classifies a numeric literal: byte when it fits in 8
// bits, word when it fits in 16. There is no wider integer type.
func (c *Checker) literalType(lit *ast.NumberLit) (types.Type, bool) {
	switch {
	case lit.Value >= 0 && lit.Value <= 255:
		return types.Byte, true
	case lit.Value >= 0 && lit.Value <= 65535:
		return types.Word, true
	default:
		c.reportWithHelp(diag.SemaTypeMismatch, lit.Loc(),
			"values 0 through 65535 are representable",
			"numeric literal %d does not fit in byte or word", lit.Value)
		return nil, false
	}
}

func (c *Checker) inferIdentifier(e *ast.Identifier) (types.Type, bool) {
	id, ok := c.resolver.LookupString(e.Name)
	if !ok {
		c.reportWithHelp(diag.SemaUndefinedSymbol, e.Loc(), c.suggestName(e.Name),
			"undefined symbol '%s'", e.Name)
		return nil, false
	}
	return c.valueTypeOf(c.symbol(id), e.Name, e.Loc())
}

// valueTypeOf derives the type a symbol has when it appears in value
// position. A function used as a value becomes a callback.
func (c *Checker) valueTypeOf(sym *symbols.Symbol, name string, span source.Span) (types.Type, bool) {
	switch sym.Kind {
	case symbols.SymbolVariable:
		return c.ResolveType(sym.Type, span)
	case symbols.SymbolFunction:
		if sym.Signature == nil {
			c.report(diag.SemaInvalidOperation, span, "function '%s' has no signature", name)
			return nil, false
		}
		return c.ResolveType(sym.Signature.CallbackType(), span)
	case symbols.SymbolEnum:
		help := "access a member with '" + name + ".<member>'"
		if len(sym.Members) > 0 {
			help = "access a member like '" + name + "." + sym.Members[0].Name + "'"
		}
		c.reportWithHelp(diag.SemaTypeMismatch, span, help,
			"enum '%s' cannot be used as a value", name)
		return nil, false
	case symbols.SymbolType:
		c.report(diag.SemaTypeMismatch, span, "'%s' is a type, not a value", name)
		return nil, false
	case symbols.SymbolModule:
		c.report(diag.SemaTypeMismatch, span, "'%s' is a module, not a value", name)
		return nil, false
	default:
		c.report(diag.SemaInvalidOperation, span, "'%s' cannot be used in an expression", name)
		return nil, false
	}
}

// inferQualified resolves a dotted reference. Two-part names check the
// enum-member route first; everything else goes through module
// exports.
func (c *Checker) inferQualified(q *ast.QualifiedName) (types.Type, bool) {
	if len(q.Parts) == 2 {
		if id, ok := c.resolver.LookupString(q.Parts[0]); ok {
			if sym := c.symbol(id); sym.Kind == symbols.SymbolEnum {
				return c.enumMemberType(sym, q.Parts[0], q.Parts[1], q.Loc())
			}
		}
	}
	id, res := c.resolver.LookupQualified(q.Parts)
	switch res {
	case symbols.QualifiedOK:
		return c.valueTypeOf(c.symbol(id), q.String(), q.Loc())
	case symbols.QualifiedNoModule:
		modPath := strings.Join(q.Parts[:len(q.Parts)-1], ".")
		c.reportWithHelp(diag.SemaModuleNotFound, q.Loc(), c.knownModulesHelp(),
			"module '%s' is not defined", modPath)
		return nil, false
	case symbols.QualifiedNoExport:
		modPath := strings.Join(q.Parts[:len(q.Parts)-1], ".")
		leaf := q.Parts[len(q.Parts)-1]
		c.reportWithHelp(diag.SemaExportNotFound, q.Loc(), c.exportsHelp(modPath, leaf),
			"module '%s' has no export named '%s'", modPath, leaf)
		return nil, false
	default:
		c.reportWithHelp(diag.SemaUndefinedSymbol, q.Loc(), c.suggestName(q.Parts[0]),
			"undefined symbol '%s'", q.String())
		return nil, false
	}
}

func (c *Checker) enumMemberType(sym *symbols.Symbol, enumName, member string, span source.Span) (types.Type, bool) {
	if _, ok := sym.Member(member); !ok {
		names := make([]string, len(sym.Members))
		for i, m := range sym.Members {
			names[i] = m.Name
		}
		help := ""
		if best, ok := symbols.ClosestName(member, names); ok {
			help = "did you mean '" + enumName + "." + best + "'?"
		} else if len(names) > 0 {
			help = "members: " + strings.Join(names, ", ")
		}
		c.reportWithHelp(diag.SemaUndefinedSymbol, span, help,
			"enum '%s' has no member '%s'", enumName, member)
		return nil, false
	}
	return types.Byte, true
}

func (c *Checker) knownModulesHelp() string {
	paths := c.resolver.Table().ModulePaths()
	if len(paths) == 0 {
		return "no modules are defined yet"
	}
	return "known modules: " + strings.Join(paths, ", ")
}

func (c *Checker) exportsHelp(modPath, want string) string {
	exp, ok := c.resolver.Table().Exports(modPath)
	if !ok || len(exp.Names()) == 0 {
		return "module '" + modPath + "' exports nothing"
	}
	names := exp.Names()
	if best, ok := symbols.ClosestName(want, names); ok {
		return "did you mean '" + best + "'?"
	}
	return "available exports: " + strings.Join(names, ", ")
}

func (c *Checker) inferUnary(e *ast.UnaryExpr) (types.Type, bool) {
	operand, ok := c.InferExpressionType(e.Operand)
	if !ok {
		return nil, false
	}
	if e.Op != ast.OpNot {
		c.report(diag.SemaInvalidOperation, e.Loc(), "unsupported unary operator")
		return nil, false
	}
	if !types.IsBoolean(operand) {
		c.report(diag.SemaTypeMismatch, e.Loc(),
			"operator %s needs a boolean operand, got %s", e.Op, operand)
		return nil, false
	}
	return types.Boolean, true
}

func (c *Checker) inferBinary(e *ast.BinaryExpr) (types.Type, bool) {
	left, ok := c.InferExpressionType(e.Left)
	if !ok {
		return nil, false
	}
	right, ok := c.InferExpressionType(e.Right)
	if !ok {
		return nil, false
	}

	switch {
	case e.Op.IsArithmetic():
		if !types.IsNumeric(left) || !types.IsNumeric(right) {
			c.report(diag.SemaTypeMismatch, e.Loc(),
				"operator %s needs byte or word operands, got %s and %s", e.Op, left, right)
			return nil, false
		}
		if types.IsWord(left) || types.IsWord(right) {
			return types.Word, true
		}
		return types.Byte, true

	case e.Op.IsComparison():
		if !types.AssignmentCompatible(left, right) && !types.AssignmentCompatible(right, left) {
			c.reportWithHelp(diag.SemaTypeMismatch, e.Loc(),
				"compare values of the same type; there is no implicit byte/word conversion",
				"cannot compare %s with %s", left, right)
			return nil, false
		}
		return types.Boolean, true

	case e.Op.IsLogical():
		if !types.IsBoolean(left) || !types.IsBoolean(right) {
			c.report(diag.SemaTypeMismatch, e.Loc(),
				"operator %s needs boolean operands, got %s and %s", e.Op, left, right)
			return nil, false
		}
		return types.Boolean, true

	default:
		c.report(diag.SemaInvalidOperation, e.Loc(), "unsupported binary operator")
		return nil, false
	}
}

// CheckArrayAccess validates an index expression against an array type
// and yields the element type. Literal indices are bounds-checked at
// analysis time; runtime indices are not.
func (c *Checker) CheckArrayAccess(arrType types.Type, index ast.Expression, span source.Span) (types.Type, bool) {
	resolved, ok := c.ResolveType(arrType, span)
	if !ok {
		return nil, false
	}
	arr := types.AsArray(resolved)
	if arr == nil {
		c.reportWithHelp(diag.SemaTypeMismatch, span,
			"only arrays can be indexed", "cannot index %s", resolved)
		return nil, false
	}
	idxType, ok := c.InferExpressionType(index)
	if !ok {
		return nil, false
	}
	if !types.IsNumeric(idxType) {
		c.report(diag.SemaTypeMismatch, index.Loc(),
			"array index must be byte or word, got %s", idxType)
		return nil, false
	}
	if lit, isLit := index.(*ast.NumberLit); isLit && lit.Value >= int64(arr.Count) {
		c.reportWithHelp(diag.SemaArrayBounds, index.Loc(),
			fmt.Sprintf("valid indices are 0 through %d", arr.Count-1),
			"index %d is out of bounds for %s", lit.Value, arr)
		return nil, false
	}
	return arr.Elem, true
}

func (c *Checker) inferArrayLit(e *ast.ArrayLit) (types.Type, bool) {
	if len(e.Elements) == 0 {
		c.reportWithHelp(diag.SemaTypeMismatch, e.Loc(),
			"give the array at least one element or declare an explicit type",
			"cannot infer the type of an empty array literal")
		return nil, false
	}
	elem, ok := c.InferExpressionType(e.Elements[0])
	if !ok {
		return nil, false
	}
	for i, el := range e.Elements[1:] {
		et, ok := c.InferExpressionType(el)
		if !ok {
			return nil, false
		}
		if !types.AssignmentCompatible(elem, et) {
			c.report(diag.SemaTypeMismatch, el.Loc(),
				"array element %d has type %s, expected %s", i+2, et, elem)
			return nil, false
		}
	}
	return types.NewArray(elem, len(e.Elements)), true
}
