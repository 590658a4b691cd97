package sema

import (
	"blend65/internal/diag"
	"blend65/internal/source"
	"blend65/internal/symbols"
	"blend65/internal/types"
)

// zpCapacity is the number of addressable zero-page bytes. A single
// variable larger than the whole page can never be placed there.
const zpCapacity = 256

// ValidateVariableStorageClass enforces where each storage class may
// appear. No class at all is always legal. Explicit classes are
// reserved for module-level variables, const and data need an
// initializer, and zp demands a type whose size fits the page.
func (c *Checker) ValidateVariableStorageClass(class types.StorageClass, scope symbols.ScopeKind, hasInit bool, varType types.Type, span source.Span) bool {
	if class == types.StorageNone {
		return true
	}
	if scope != symbols.ScopeGlobal && scope != symbols.ScopeModule {
		c.reportWithHelp(diag.SemaInvalidStorageClass, span,
			"move the declaration to module scope or drop the storage class",
			"storage class '%s' is only allowed on module-level variables", class)
		return false
	}
	if class.RequiresInitializer() && !hasInit {
		c.reportWithHelp(diag.SemaConstantRequired, span,
			"add an initializer or use a plain variable",
			"'%s' variable needs an initializer", class)
		return false
	}
	if class == types.StorageZeroPage {
		resolved, ok := c.ResolveType(varType, span)
		if !ok {
			return false
		}
		if size := resolved.Size(); size > zpCapacity {
			c.reportWithHelp(diag.SemaInvalidStorageClass, span,
				"zero page holds 256 bytes in total; use 'ram' for larger variables",
				"type %s is %d bytes, too large for zero page", resolved, size)
			return false
		}
	}
	return true
}
