package sema

import (
	"blend65/internal/diag"
	"blend65/internal/source"
	"blend65/internal/symbols"
	"blend65/internal/types"
)

// ResolveNamedType chases a type name to its concrete type. Enum names
// resolve to byte. The visited set carries the names already on the
// resolution path; revisiting one is a definition cycle.
func (c *Checker) ResolveNamedType(name string, span source.Span, visited map[string]bool) (types.Type, bool) {
	if visited == nil {
		visited = make(map[string]bool)
	}
	if visited[name] {
		c.report(diag.SemaCircularDependency, span, "circular type definition involving '%s'", name)
		return nil, false
	}

	id, ok := c.resolver.LookupString(name)
	if !ok {
		c.reportWithHelp(diag.SemaUndefinedSymbol, span, c.suggestName(name), "undefined type '%s'", name)
		return nil, false
	}
	sym := c.symbol(id)
	switch sym.Kind {
	case symbols.SymbolType:
		if sym.Type == nil {
			c.report(diag.SemaInvalidOperation, span, "type '%s' has no definition", name)
			return nil, false
		}
		visited[name] = true
		defer delete(visited, name)
		return c.resolveWithin(sym.Type, span, visited)
	case symbols.SymbolEnum:
		return types.Byte, true
	default:
		c.report(diag.SemaTypeMismatch, span, "'%s' is a %s, not a type", name, sym.Kind)
		return nil, false
	}
}

// ResolveType replaces every named component of t with its concrete
// definition, returning a type whose Size is computable. Primitives
// pass through untouched.
func (c *Checker) ResolveType(t types.Type, span source.Span) (types.Type, bool) {
	return c.resolveWithin(t, span, make(map[string]bool))
}

func (c *Checker) resolveWithin(t types.Type, span source.Span, visited map[string]bool) (types.Type, bool) {
	switch tt := t.(type) {
	case nil:
		return nil, false
	case *types.PrimitiveType:
		return tt, true
	case *types.NamedType:
		if tt.Resolved != nil {
			return tt.Resolved, true
		}
		resolved, ok := c.ResolveNamedType(tt.Name, span, visited)
		if !ok {
			return nil, false
		}
		tt.Resolved = resolved
		return resolved, true
	case *types.ArrayType:
		elem, ok := c.resolveWithin(tt.Elem, span, visited)
		if !ok {
			return nil, false
		}
		if elem == tt.Elem {
			return tt, true
		}
		return types.NewArray(elem, tt.Count), true
	case *types.CallbackType:
		params := make([]types.Type, len(tt.Params))
		changed := false
		for i, p := range tt.Params {
			rp, ok := c.resolveWithin(p, span, visited)
			if !ok {
				return nil, false
			}
			params[i] = rp
			changed = changed || rp != p
		}
		var ret types.Type = types.Void
		if tt.Return != nil {
			r, ok := c.resolveWithin(tt.Return, span, visited)
			if !ok {
				return nil, false
			}
			ret = r
		}
		if !changed && ret == tt.Return {
			return tt, true
		}
		return types.NewCallback(params, ret), true
	default:
		c.report(diag.SemaInvalidOperation, span, "cannot resolve type %s", t)
		return nil, false
	}
}
