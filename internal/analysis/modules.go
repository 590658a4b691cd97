package analysis

import (
	"fmt"
	"sort"
	"strings"

	"blend65/internal/ast"
	"blend65/internal/diag"
	"blend65/internal/source"
	"blend65/internal/symbols"
)

// defaultModule is the module path for units without a module header.
const defaultModule = "main"

// moduleAnalyzer registers module headers, extracts import and export
// name lists, and builds the module dependency graph the cycle check
// runs over.
type moduleAnalyzer struct {
	resolver *symbols.Resolver
	reporter diag.Reporter

	imports map[string][]string
	exports map[string][]string
	deps    map[string][]string
	spans   map[string]source.Span
	order   []string
	cycles  [][]string
}

func newModuleAnalyzer(resolver *symbols.Resolver, reporter diag.Reporter) *moduleAnalyzer {
	return &moduleAnalyzer{
		resolver: resolver,
		reporter: reporter,
		imports:  make(map[string][]string),
		exports:  make(map[string][]string),
		deps:     make(map[string][]string),
		spans:    make(map[string]source.Span),
	}
}

// modulePath names the module a unit contributes to.
func modulePath(unit *ast.CompilationUnit) string {
	if unit.Module != nil && unit.Module.Name != "" {
		return unit.Module.Name
	}
	return defaultModule
}

// registerUnit declares the unit's module and records its import and
// export lists. Registration failure (the module name colliding with a
// non-module symbol) aborts the phase.
func (a *moduleAnalyzer) registerUnit(unit *ast.CompilationUnit) bool {
	path := modulePath(unit)
	var span source.Span
	if unit.Module != nil {
		span = unit.Module.Span
	}

	scopeID, _ := a.resolver.EnterModule(path, span)
	if !scopeID.IsValid() {
		return false
	}
	a.resolver.ExitModule()

	if _, seen := a.deps[path]; !seen {
		a.deps[path] = nil
		a.spans[path] = span
		a.order = append(a.order, path)
	}
	for _, imp := range unit.Imports {
		a.imports[path] = appendUnique(a.imports[path], imp.Module+"."+imp.Symbol)
		a.deps[path] = appendUnique(a.deps[path], imp.Module)
	}
	for _, exp := range unit.Exports {
		a.exports[path] = appendUnique(a.exports[path], exp.Name)
	}
	return true
}

func appendUnique(list []string, s string) []string {
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}

// detectCycles runs a DFS with an explicit recursion stack over the
// dependency graph and reports every cycle as CircularDependency
// naming the cycle path. Edges to unregistered modules are ignored;
// the import binding reports those separately.
func (a *moduleAnalyzer) detectCycles() [][]string {
	const (
		white = iota
		grey
		black
	)
	state := make(map[string]int, len(a.order))
	var stack []string
	var cycles [][]string

	var visit func(mod string)
	visit = func(mod string) {
		state[mod] = grey
		stack = append(stack, mod)
		for _, dep := range a.deps[mod] {
			if _, known := a.deps[dep]; !known {
				continue
			}
			switch state[dep] {
			case white:
				visit(dep)
			case grey:
				start := 0
				for i, name := range stack {
					if name == dep {
						start = i
						break
					}
				}
				cycle := append(append([]string(nil), stack[start:]...), dep)
				cycles = append(cycles, cycle)
			}
		}
		stack = stack[:len(stack)-1]
		state[mod] = black
	}
	for _, mod := range a.order {
		if state[mod] == white {
			visit(mod)
		}
	}

	for _, cycle := range cycles {
		head := cycle[0]
		diag.ReportError(a.reporter, diag.SemaCircularDependency, a.spans[head],
			fmt.Sprintf("circular module dependency: %s", strings.Join(cycle, " -> "))).
			WithHelp("break the cycle by moving shared declarations into a third module").
			Emit()
	}
	a.cycles = cycles
	return cycles
}

// unitOrder permutes the units so every module comes after the modules
// it imports, letting later units bind exports declared earlier in the
// same pass. Units of one module keep their input order; unknown and
// cyclic modules sort last.
func (a *moduleAnalyzer) unitOrder(units []*ast.CompilationUnit) []*ast.CompilationUnit {
	rank := a.moduleRank()
	ordered := make([]*ast.CompilationUnit, len(units))
	copy(ordered, units)
	sort.SliceStable(ordered, func(i, j int) bool {
		return rank[modulePath(ordered[i])] < rank[modulePath(ordered[j])]
	})
	return ordered
}

// moduleRank runs Kahn's algorithm over the dependency graph and ranks
// every registered module dependencies-first. Modules stuck in a cycle
// never drain; they rank after everything else in registration order.
func (a *moduleAnalyzer) moduleRank() map[string]int {
	indeg := make(map[string]int, len(a.order))
	importers := make(map[string][]string, len(a.order))
	for _, mod := range a.order {
		for _, dep := range a.deps[mod] {
			if _, known := a.deps[dep]; !known || dep == mod {
				continue
			}
			indeg[mod]++
			importers[dep] = append(importers[dep], mod)
		}
	}

	queue := make([]string, 0, len(a.order))
	for _, mod := range a.order {
		if indeg[mod] == 0 {
			queue = append(queue, mod)
		}
	}
	rank := make(map[string]int, len(a.order))
	next := 0
	for len(queue) > 0 {
		mod := queue[0]
		queue = queue[1:]
		rank[mod] = next
		next++
		for _, imp := range importers[mod] {
			indeg[imp]--
			if indeg[imp] == 0 {
				queue = append(queue, imp)
			}
		}
	}
	for _, mod := range a.order {
		if _, done := rank[mod]; !done {
			rank[mod] = next
			next++
		}
	}
	return rank
}

// result assembles the module-analysis view.
func (a *moduleAnalyzer) result() ModuleAnalysis {
	return ModuleAnalysis{
		Imports:      a.imports,
		Exports:      a.exports,
		Dependencies: a.deps,
		Cycles:       a.cycles,
	}
}
