package sema

import (
	"blend65/internal/ast"
	"blend65/internal/diag"
	"blend65/internal/symbols"
)

// EnumMembers folds an enum declaration into concrete member values.
// Members without an explicit value continue from the previous one,
// starting at zero. Every value must land in byte range because enums
// resolve to byte.
func (c *Checker) EnumMembers(decl *ast.EnumDecl) ([]symbols.EnumMemberValue, bool) {
	members := make([]symbols.EnumMemberValue, 0, len(decl.Members))
	seen := make(map[string]int, len(decl.Members))
	next := int64(0)
	for _, m := range decl.Members {
		if prev, dup := seen[m.Name]; dup {
			if c.reporter != nil {
				diag.ReportError(c.reporter, diag.SemaDuplicateIdentifier, m.Span,
					"duplicate enum member '"+m.Name+"'").
					WithNote(decl.Members[prev].Span, "first declared here").
					Emit()
			}
			return nil, false
		}
		seen[m.Name] = len(members)

		value := next
		if m.Value != nil {
			v, st := FoldConstant(m.Value)
			switch st {
			case FoldOK:
				value = v
			case FoldDivZero:
				c.report(diag.SemaInvalidOperation, m.Value.Loc(),
					"division by zero in enum member '%s'", m.Name)
				return nil, false
			default:
				c.report(diag.SemaConstantRequired, m.Value.Loc(),
					"value of enum member '%s' must be a constant expression", m.Name)
				return nil, false
			}
		}
		if value < 0 || value > 255 {
			c.reportWithHelp(diag.SemaTypeMismatch, m.Span,
				"enums resolve to byte, so members range 0 through 255",
				"enum member '%s' has value %d, which does not fit in a byte", m.Name, value)
			return nil, false
		}
		members = append(members, symbols.EnumMemberValue{Name: m.Name, Value: value, Span: m.Span})
		next = value + 1
	}
	return members, true
}
