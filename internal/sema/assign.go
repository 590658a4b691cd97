package sema

import (
	"fmt"

	"blend65/internal/diag"
	"blend65/internal/source"
	"blend65/internal/types"
)

// CheckAssignmentCompatibility verifies that a value of type src may
// be stored into a location of type target. Both sides are resolved to
// concrete types first; exact equality short-circuits. On failure the
// diagnostic names the closest mismatch rather than just the two
// top-level types.
func (c *Checker) CheckAssignmentCompatibility(target, src types.Type, span source.Span) bool {
	if target == nil || src == nil {
		return false
	}
	rt, ok := c.ResolveType(target, span)
	if !ok {
		return false
	}
	rs, ok := c.ResolveType(src, span)
	if !ok {
		return false
	}
	if rt.Equals(rs) {
		return true
	}
	if types.AssignmentCompatible(rt, rs) {
		return true
	}
	c.reportAssignMismatch(rt, rs, span)
	return false
}

func (c *Checker) reportAssignMismatch(target, src types.Type, span source.Span) {
	if ta, sa := types.AsArray(target), types.AsArray(src); ta != nil && sa != nil {
		if ta.Count != sa.Count {
			c.reportWithHelp(diag.SemaArrayBounds, span,
				"array assignment needs matching sizes",
				"array size mismatch: expected %d elements, got %d", ta.Count, sa.Count)
			return
		}
		c.reportWithHelp(diag.SemaTypeMismatch, span,
			fmt.Sprintf("element types %s and %s are not compatible", ta.Elem, sa.Elem),
			"cannot assign %s to %s", src, target)
		return
	}

	if tc, sc := types.AsCallback(target), types.AsCallback(src); tc != nil && sc != nil {
		c.reportCallbackMismatch(tc, sc, span)
		return
	}

	help := ""
	if types.IsNumeric(target) && types.IsNumeric(src) {
		help = "there is no implicit byte/word conversion; match the declared type exactly"
	} else if named := types.AsNamed(src); named != nil && named.Resolved == nil {
		help = fmt.Sprintf("type '%s' is not resolved yet", named.Name)
	}
	c.reportWithHelp(diag.SemaTypeMismatch, span, help, "cannot assign %s to %s", src, target)
}

func (c *Checker) reportCallbackMismatch(target, src *types.CallbackType, span source.Span) {
	detail := ""
	switch {
	case len(target.Params) != len(src.Params):
		detail = fmt.Sprintf("expected %d parameters, got %d", len(target.Params), len(src.Params))
	case !types.AssignmentCompatible(target.Return, src.Return):
		detail = fmt.Sprintf("return types differ: expected %s, got %s", target.Return, src.Return)
	default:
		for i := range target.Params {
			if !types.AssignmentCompatible(target.Params[i], src.Params[i]) {
				detail = fmt.Sprintf("parameter %d: expected %s, got %s", i+1, target.Params[i], src.Params[i])
				break
			}
		}
	}
	c.reportWithHelp(diag.SemaCallbackMismatch, span, detail,
		"callback signature mismatch: expected %s, got %s", target, src)
}
