// Package sema implements the type-level validators of the analyzer:
// annotation conversion, named-type resolution, assignment compatibility,
// storage-class and signature validation, and expression type inference.
//
// Validators fail fast: each reports at most one diagnostic for the
// subtree it was asked about and returns ok=false. Accumulating errors
// across declarations is the orchestrator's job, not the checker's.
package sema

import (
	"fmt"

	"blend65/internal/diag"
	"blend65/internal/source"
	"blend65/internal/symbols"
)

// Checker validates types and expressions against a resolver's symbol
// table. It holds no per-run state beyond the resolver it was built
// with; the orchestrator discards and recreates it on every Reset.
type Checker struct {
	resolver *symbols.Resolver
	reporter diag.Reporter
}

// NewChecker builds a checker that resolves names through resolver and
// reports through reporter. A nil reporter silences diagnostics.
func NewChecker(resolver *symbols.Resolver, reporter diag.Reporter) *Checker {
	return &Checker{resolver: resolver, reporter: reporter}
}

// Resolver exposes the underlying resolver for callers that interleave
// declaration and checking.
func (c *Checker) Resolver() *symbols.Resolver { return c.resolver }

func (c *Checker) report(code diag.Code, span source.Span, format string, args ...interface{}) {
	if c.reporter == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if b := diag.ReportError(c.reporter, code, span, msg); b != nil {
		b.Emit()
	}
}

func (c *Checker) reportWithHelp(code diag.Code, span source.Span, help string, format string, args ...interface{}) {
	if c.reporter == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	b := diag.ReportError(c.reporter, code, span, msg)
	if b == nil {
		return
	}
	if help != "" {
		b = b.WithHelp(help)
	}
	b.Emit()
}

// suggestName produces a "did you mean" help line for an unresolved
// identifier, or "" when nothing in scope is close enough.
func (c *Checker) suggestName(name string) string {
	if c.resolver == nil {
		return ""
	}
	best, ok := symbols.ClosestName(name, c.resolver.AccessibleNames())
	if !ok {
		return ""
	}
	return fmt.Sprintf("did you mean '%s'?", best)
}

func (c *Checker) symbol(id symbols.SymbolID) *symbols.Symbol {
	if c.resolver == nil {
		return nil
	}
	return c.resolver.Table().Symbols.Get(id)
}
