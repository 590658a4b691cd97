package analysis

import (
	"fmt"
	"math/bits"
	"sort"

	"blend65/internal/ast"
	"blend65/internal/sema"
	"blend65/internal/source"
)

// ConstantExpr is one maximal constant subexpression found during the
// expression phase.
type ConstantExpr struct {
	Span  source.Span
	Value int64
}

// OpportunityKind classifies an expression-level optimization opening.
type OpportunityKind uint8

const (
	// OpportunityConstantFold marks a multi-node expression that
	// reduces to one constant at compile time.
	OpportunityConstantFold OpportunityKind = iota
	// OpportunityStrengthReduce marks a multiply, divide or modulo by
	// a power of two; the CPU has no hardware multiply.
	OpportunityStrengthReduce
	// OpportunityCachedIndex marks an array element computed more than
	// once in a single statement.
	OpportunityCachedIndex
)

var opportunityNames = [...]string{
	"constant_fold",
	"strength_reduce",
	"cached_index",
}

func (k OpportunityKind) String() string {
	if int(k) < len(opportunityNames) {
		return opportunityNames[k]
	}
	return "unknown"
}

// Opportunity is one flagged optimization opening with its location
// and a human-readable detail line.
type Opportunity struct {
	Kind   OpportunityKind
	Span   source.Span
	Detail string
}

// ExpressionAnalysis aggregates the per-expression annotations of a
// batch: how many expressions were costed, the constant subset, a
// name-to-reference index, the flagged opportunities, and averaged
// cost metrics.
type ExpressionAnalysis struct {
	Count         int
	Constants     []ConstantExpr
	References    map[string][]source.Span
	Opportunities []Opportunity

	AvgCycles     float64
	AvgComplexity float64
	AvgPressure   float64
}

// Per-node cycle estimates for generated 6502-style code. Multiply,
// divide and modulo have no hardware support and expand into runtime
// routines.
const (
	cyclesLiteral   = 2
	cyclesLoad      = 3
	cyclesQualified = 4
	cyclesAddSub    = 4
	cyclesMulDiv    = 40
	cyclesCompare   = 5
	cyclesLogical   = 4
	cyclesNot       = 3
	cyclesCallBase  = 12
	cyclesCallArg   = 4
	cyclesIndex     = 6
)

// exprCost is the annotation computed for one expression tree.
type exprCost struct {
	cycles     int
	complexity int
	pressure   int
}

// expressionAnalyzer walks every function body and module initializer
// a second time, costing each statement-level expression and flagging
// optimization openings. The walk is purely syntactic; the bodies were
// type-checked in the declaration phase.
type expressionAnalyzer struct {
	count         int
	sumCycles     int
	sumComplexity int
	sumPressure   int

	constants []ConstantExpr
	refs      map[string][]source.Span
	opps      []Opportunity

	// per-statement index-expression occurrence counts
	idx map[string]*indexSite
}

type indexSite struct {
	span  source.Span
	count int
}

func newExpressionAnalyzer() *expressionAnalyzer {
	return &expressionAnalyzer{refs: make(map[string][]source.Span)}
}

func (a *expressionAnalyzer) analyzeUnit(unit *ast.CompilationUnit) {
	for _, decl := range unit.Decls {
		switch d := decl.(type) {
		case *ast.VariableDecl:
			if d.Init != nil {
				a.begin()
				a.top(d.Init)
				a.flush()
			}
		case *ast.FunctionDecl:
			a.stmts(d.Body)
		}
	}
}

func (a *expressionAnalyzer) stmts(list []ast.Statement) {
	for _, stmt := range list {
		a.stmt(stmt)
	}
}

// stmt costs the expressions a statement carries directly, then
// recurses. Repeated-index detection is scoped to one statement, so
// the flush happens before nested statements run.
func (a *expressionAnalyzer) stmt(stmt ast.Statement) {
	switch st := stmt.(type) {
	case nil:
	case *ast.VariableDecl:
		if st.Init != nil {
			a.begin()
			a.top(st.Init)
			a.flush()
		}
	case *ast.BlockStmt:
		a.stmts(st.Body)
	case *ast.AssignStmt:
		a.begin()
		a.target(st.Target)
		a.top(st.Value)
		a.flush()
	case *ast.ExprStmt:
		a.begin()
		a.top(st.Expr)
		a.flush()
	case *ast.IfStmt:
		a.begin()
		a.top(st.Cond)
		a.flush()
		a.stmts(st.Then)
		a.stmts(st.Else)
	case *ast.WhileStmt:
		a.begin()
		a.top(st.Cond)
		a.flush()
		a.stmts(st.Body)
	case *ast.ForStmt:
		a.stmt(st.Init)
		if st.Cond != nil {
			a.begin()
			a.top(st.Cond)
			a.flush()
		}
		a.stmt(st.Update)
		a.stmts(st.Body)
	case *ast.ReturnStmt:
		if st.Value != nil {
			a.begin()
			a.top(st.Value)
			a.flush()
		}
	}
}

// target records references on the left side of an assignment. A bare
// name is not costed; an indexed target carries a real address
// computation and goes through the full annotation.
func (a *expressionAnalyzer) target(t ast.Expression) {
	switch e := t.(type) {
	case *ast.Identifier:
		a.refs[e.Name] = append(a.refs[e.Name], e.Span)
	case *ast.QualifiedName:
		a.refs[e.String()] = append(a.refs[e.String()], e.Span)
	case nil:
	default:
		a.top(t)
	}
}

// top annotates one statement-level expression and folds it into the
// batch totals.
func (a *expressionAnalyzer) top(expr ast.Expression) {
	if expr == nil {
		return
	}
	cost := annotate(expr)
	a.count++
	a.sumCycles += cost.cycles
	a.sumComplexity += cost.complexity
	a.sumPressure += cost.pressure

	a.references(expr)
	a.constantSubtrees(expr)
	a.strengthReduce(expr)
	a.countIndexes(expr)
}

// annotate computes the cost triple for an expression tree: estimated
// cycles, node count, and register pressure by the usual
// labeling (a node needing both operands live costs one more slot).
func annotate(expr ast.Expression) exprCost {
	switch e := expr.(type) {
	case nil:
		return exprCost{}
	case *ast.NumberLit, *ast.BooleanLit:
		return exprCost{cycles: cyclesLiteral, complexity: 1, pressure: 1}
	case *ast.Identifier:
		return exprCost{cycles: cyclesLoad, complexity: 1, pressure: 1}
	case *ast.QualifiedName:
		return exprCost{cycles: cyclesQualified, complexity: 1, pressure: 1}
	case *ast.UnaryExpr:
		op := annotate(e.Operand)
		return exprCost{
			cycles:     op.cycles + cyclesNot,
			complexity: op.complexity + 1,
			pressure:   op.pressure,
		}
	case *ast.BinaryExpr:
		left := annotate(e.Left)
		right := annotate(e.Right)
		pressure := left.pressure
		if right.pressure > pressure {
			pressure = right.pressure
		}
		if left.pressure == right.pressure {
			pressure++
		}
		return exprCost{
			cycles:     left.cycles + right.cycles + binaryCycles(e.Op),
			complexity: left.complexity + right.complexity + 1,
			pressure:   pressure,
		}
	case *ast.CallExpr:
		cost := exprCost{cycles: cyclesCallBase, complexity: 1, pressure: 1}
		for _, arg := range e.Args {
			ac := annotate(arg)
			cost.cycles += ac.cycles + cyclesCallArg
			cost.complexity += ac.complexity
			if ac.pressure > cost.pressure {
				cost.pressure = ac.pressure
			}
		}
		return cost
	case *ast.IndexExpr:
		base := annotate(e.Base)
		idx := annotate(e.Index)
		pressure := base.pressure
		if idx.pressure > pressure {
			pressure = idx.pressure
		}
		if base.pressure == idx.pressure {
			pressure++
		}
		return exprCost{
			cycles:     base.cycles + idx.cycles + cyclesIndex,
			complexity: base.complexity + idx.complexity + 1,
			pressure:   pressure,
		}
	case *ast.ArrayLit:
		cost := exprCost{complexity: 1, pressure: 1}
		for _, el := range e.Elements {
			ec := annotate(el)
			cost.cycles += ec.cycles
			cost.complexity += ec.complexity
			if ec.pressure > cost.pressure {
				cost.pressure = ec.pressure
			}
		}
		return cost
	default:
		return exprCost{complexity: 1, pressure: 1}
	}
}

func binaryCycles(op ast.BinaryOp) int {
	switch {
	case op == ast.OpMul || op == ast.OpDiv || op == ast.OpMod:
		return cyclesMulDiv
	case op.IsComparison():
		return cyclesCompare
	case op.IsLogical():
		return cyclesLogical
	default:
		return cyclesAddSub
	}
}

// references fills the name-to-span index. Names in call position are
// skipped; the index tracks data references.
func (a *expressionAnalyzer) references(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Identifier:
		a.refs[e.Name] = append(a.refs[e.Name], e.Span)
	case *ast.QualifiedName:
		a.refs[e.String()] = append(a.refs[e.String()], e.Span)
	case *ast.UnaryExpr:
		a.references(e.Operand)
	case *ast.BinaryExpr:
		a.references(e.Left)
		a.references(e.Right)
	case *ast.CallExpr:
		switch e.Callee.(type) {
		case *ast.Identifier, *ast.QualifiedName:
		default:
			a.references(e.Callee)
		}
		for _, arg := range e.Args {
			a.references(arg)
		}
	case *ast.IndexExpr:
		a.references(e.Base)
		a.references(e.Index)
	case *ast.ArrayLit:
		for _, el := range e.Elements {
			a.references(el)
		}
	}
}

// constantSubtrees records every maximal non-leaf subtree that folds
// to a constant, and flags it as a folding opportunity.
func (a *expressionAnalyzer) constantSubtrees(expr ast.Expression) {
	switch e := expr.(type) {
	case nil:
	case *ast.NumberLit, *ast.BooleanLit, *ast.Identifier, *ast.QualifiedName:
	case *ast.BinaryExpr:
		if value, st := sema.FoldConstant(e); st == sema.FoldOK {
			a.constants = append(a.constants, ConstantExpr{Span: e.Span, Value: value})
			a.opps = append(a.opps, Opportunity{
				Kind:   OpportunityConstantFold,
				Span:   e.Span,
				Detail: fmt.Sprintf("folds to %d at compile time", value),
			})
			return
		}
		a.constantSubtrees(e.Left)
		a.constantSubtrees(e.Right)
	case *ast.UnaryExpr:
		a.constantSubtrees(e.Operand)
	case *ast.CallExpr:
		for _, arg := range e.Args {
			a.constantSubtrees(arg)
		}
	case *ast.IndexExpr:
		a.constantSubtrees(e.Base)
		a.constantSubtrees(e.Index)
	case *ast.ArrayLit:
		for _, el := range e.Elements {
			a.constantSubtrees(el)
		}
	}
}

// strengthReduce flags multiplies, divides and modulos whose constant
// operand is a power of two.
func (a *expressionAnalyzer) strengthReduce(expr ast.Expression) {
	ast.Inspect(expr, func(n ast.Node) bool {
		bin, ok := n.(*ast.BinaryExpr)
		if !ok {
			return true
		}
		switch bin.Op {
		case ast.OpMul:
			if v, k, ok := powerOfTwo(bin.Right); ok {
				a.reduceOpp(bin.Span, "multiply by %d is %d left shifts", v, k)
			} else if v, k, ok := powerOfTwo(bin.Left); ok {
				a.reduceOpp(bin.Span, "multiply by %d is %d left shifts", v, k)
			}
		case ast.OpDiv:
			if v, k, ok := powerOfTwo(bin.Right); ok {
				a.reduceOpp(bin.Span, "divide by %d is %d right shifts", v, k)
			}
		case ast.OpMod:
			if v, _, ok := powerOfTwo(bin.Right); ok {
				a.reduceOpp(bin.Span, "modulo %d is a mask with %d", v, v-1)
			}
		}
		return true
	})
}

func (a *expressionAnalyzer) reduceOpp(span source.Span, format string, args ...interface{}) {
	a.opps = append(a.opps, Opportunity{
		Kind:   OpportunityStrengthReduce,
		Span:   span,
		Detail: fmt.Sprintf(format, args...),
	})
}

// powerOfTwo reports whether the expression folds to a power of two of
// at least 2, returning the value and the shift count.
func powerOfTwo(expr ast.Expression) (int64, int, bool) {
	v, st := sema.FoldConstant(expr)
	if st != sema.FoldOK || v < 2 || v&(v-1) != 0 {
		return 0, 0, false
	}
	return v, bits.TrailingZeros64(uint64(v)), true
}

func (a *expressionAnalyzer) begin() {
	a.idx = make(map[string]*indexSite)
}

// countIndexes tallies renderable index expressions within the current
// statement. Only identifier bases with an identifier or constant
// index render; anything else cannot be proven identical cheaply.
func (a *expressionAnalyzer) countIndexes(expr ast.Expression) {
	ast.Inspect(expr, func(n ast.Node) bool {
		ix, ok := n.(*ast.IndexExpr)
		if !ok {
			return true
		}
		key, ok := indexKey(ix)
		if !ok {
			return true
		}
		site := a.idx[key]
		if site == nil {
			a.idx[key] = &indexSite{span: ix.Span, count: 1}
			return true
		}
		site.count++
		return true
	})
}

func indexKey(ix *ast.IndexExpr) (string, bool) {
	base, ok := ix.Base.(*ast.Identifier)
	if !ok {
		return "", false
	}
	switch idx := ix.Index.(type) {
	case *ast.Identifier:
		return base.Name + "[" + idx.Name + "]", true
	default:
		if v, st := sema.FoldConstant(ix.Index); st == sema.FoldOK {
			return fmt.Sprintf("%s[%d]", base.Name, v), true
		}
	}
	return "", false
}

// flush turns repeated indexes of the finished statement into cached-
// index opportunities, in key order for determinism.
func (a *expressionAnalyzer) flush() {
	keys := make([]string, 0, len(a.idx))
	for key, site := range a.idx {
		if site.count > 1 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		site := a.idx[key]
		a.opps = append(a.opps, Opportunity{
			Kind:   OpportunityCachedIndex,
			Span:   site.span,
			Detail: fmt.Sprintf("%s is computed %d times in one statement; cache the element in a local", key, site.count),
		})
	}
	a.idx = nil
}

// result assembles the expression-analysis view.
func (a *expressionAnalyzer) result() ExpressionAnalysis {
	out := ExpressionAnalysis{
		Count:         a.count,
		Constants:     a.constants,
		References:    a.refs,
		Opportunities: a.opps,
	}
	if a.count > 0 {
		out.AvgCycles = float64(a.sumCycles) / float64(a.count)
		out.AvgComplexity = float64(a.sumComplexity) / float64(a.count)
		out.AvgPressure = float64(a.sumPressure) / float64(a.count)
	}
	return out
}
