package sema

import (
	"blend65/internal/ast"
	"blend65/internal/diag"
	"blend65/internal/symbols"
	"blend65/internal/types"
)

// maxCallbackParamElems caps array parameters of callback functions.
// Callbacks are invoked indirectly and must keep a statically-sized,
// cheap calling convention.
const maxCallbackParamElems = 256

// BuildSignature converts a function declaration's annotations into a
// semantic signature. A missing return annotation means void.
func (c *Checker) BuildSignature(decl *ast.FunctionDecl) (*symbols.FunctionSignature, bool) {
	sig := &symbols.FunctionSignature{
		Params:     make([]symbols.ParamInfo, 0, len(decl.Params)),
		Return:     types.Void,
		IsCallback: decl.Callback,
		HasBody:    decl.HasBody,
	}
	for _, p := range decl.Params {
		pt, ok := c.ConvertType(p.Type)
		if !ok {
			return nil, false
		}
		sig.Params = append(sig.Params, symbols.ParamInfo{
			Name:       p.Name,
			Type:       pt,
			Optional:   p.Optional,
			HasDefault: p.Default != nil,
		})
	}
	if decl.Return != nil {
		rt, ok := c.ConvertType(decl.Return)
		if !ok {
			return nil, false
		}
		sig.Return = rt
	}
	return sig, true
}

// ValidateFunctionSignature checks the declaration-level rules of a
// signature: unique parameter names, required parameters before
// optional ones, constant defaults, and the callback restrictions on
// array returns and oversized array parameters.
func (c *Checker) ValidateFunctionSignature(decl *ast.FunctionDecl, sig *symbols.FunctionSignature) bool {
	seen := make(map[string]int, len(decl.Params))
	sawOptional := false
	for i, p := range decl.Params {
		if prev, dup := seen[p.Name]; dup {
			if c.reporter != nil {
				diag.ReportError(c.reporter, diag.SemaDuplicateIdentifier, p.Span,
					"duplicate parameter '"+p.Name+"'").
					WithNote(decl.Params[prev].Span, "first declared here").
					Emit()
			}
			return false
		}
		seen[p.Name] = i

		optional := p.Optional || p.Default != nil
		if sawOptional && !optional {
			c.report(diag.SemaInvalidOperation, p.Span,
				"required parameter '%s' follows an optional parameter", p.Name)
			return false
		}
		sawOptional = sawOptional || optional

		if p.Default != nil {
			if _, isBool := p.Default.(*ast.BooleanLit); !isBool {
				if _, st := FoldConstant(p.Default); st != FoldOK {
					c.report(diag.SemaConstantRequired, p.Default.Loc(),
						"default value of parameter '%s' must be a constant", p.Name)
					return false
				}
			}
		}
	}

	if !sig.IsCallback {
		return true
	}
	if ret := types.AsArray(sig.Return); ret != nil {
		c.reportWithHelp(diag.SemaCallbackMismatch, decl.Span,
			"return a scalar or write through a module-level buffer instead",
			"callback function '%s' cannot return an array", decl.Name)
		return false
	}
	for i, p := range sig.Params {
		arr := types.AsArray(p.Type)
		if arr == nil {
			continue
		}
		if arr.Count > maxCallbackParamElems {
			c.report(diag.SemaCallbackMismatch, decl.Params[i].Span,
				"callback parameter '%s' has %d elements, above the %d-element limit",
				p.Name, arr.Count, maxCallbackParamElems)
			return false
		}
	}
	return true
}
