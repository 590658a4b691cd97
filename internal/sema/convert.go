package sema

import (
	"blend65/internal/ast"
	"blend65/internal/diag"
	"blend65/internal/source"
	"blend65/internal/types"
)

// maxArraySize bounds declared array lengths. Sizes above this cannot
// be addressed with a 16-bit index.
const maxArraySize = 65536

// ConvertType turns a syntactic type annotation into a semantic type.
// Primitive annotations map one to one, array sizes must fold to a
// constant in [1, 65536], and named annotations pass through unresolved
// for ResolveType to chase later.
func (c *Checker) ConvertType(ann ast.TypeAnnotation) (types.Type, bool) {
	switch a := ann.(type) {
	case *ast.PrimitiveAnnotation:
		prim, ok := types.PrimitiveByName(a.Name)
		if !ok {
			c.report(diag.SemaTypeMismatch, a.Loc(), "unknown primitive type '%s'", a.Name)
			return nil, false
		}
		return prim, true

	case *ast.ArrayAnnotation:
		elem, ok := c.ConvertType(a.Elem)
		if !ok {
			return nil, false
		}
		size, ok := c.foldArraySize(a.Size)
		if !ok {
			return nil, false
		}
		return types.NewArray(elem, size), true

	case *ast.NamedAnnotation:
		return types.NewNamed(a.Name), true

	case *ast.CallbackAnnotation:
		params := make([]types.Type, 0, len(a.Params))
		for _, p := range a.Params {
			pt, ok := c.ConvertType(p)
			if !ok {
				return nil, false
			}
			params = append(params, pt)
		}
		var ret types.Type = types.Void
		if a.Return != nil {
			rt, ok := c.ConvertType(a.Return)
			if !ok {
				return nil, false
			}
			ret = rt
		}
		return types.NewCallback(params, ret), true

	default:
		c.report(diag.SemaInvalidOperation, ann.Loc(), "unsupported type annotation")
		return nil, false
	}
}

// foldArraySize evaluates an array-size expression and enforces the
// declared-size rules.
func (c *Checker) foldArraySize(size ast.Expression) (int, bool) {
	if size == nil {
		c.report(diag.SemaConstantRequired, source.Span{}, "array type needs a size expression")
		return 0, false
	}
	v, st := FoldConstant(size)
	switch st {
	case FoldOK:
	case FoldDivZero:
		c.report(diag.SemaInvalidOperation, size.Loc(), "division by zero in constant array size")
		return 0, false
	case FoldInexact:
		c.report(diag.SemaArrayBounds, size.Loc(), "array size must be a whole number")
		return 0, false
	case FoldOverflow:
		c.report(diag.SemaArrayBounds, size.Loc(), "array size constant overflows")
		return 0, false
	default:
		c.reportWithHelp(diag.SemaConstantRequired, size.Loc(),
			"array sizes fold number literals with + - * / only",
			"array size must be a constant expression")
		return 0, false
	}
	if v <= 0 {
		c.report(diag.SemaArrayBounds, size.Loc(), "array size must be positive, got %d", v)
		return 0, false
	}
	if v > maxArraySize {
		c.report(diag.SemaArrayBounds, size.Loc(), "array size %d exceeds the %d-element limit", v, maxArraySize)
		return 0, false
	}
	return int(v), true
}
