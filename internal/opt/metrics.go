package opt

import (
	"blend65/internal/ast"
)

// FunctionMetrics is the complexity bundle the inlining scorer weighs.
// EstimatedSize is in target-code bytes, derived from per-node costs,
// and only meaningful relative to other functions.
type FunctionMetrics struct {
	NodeCount     int
	EstimatedSize int
	LocalCount    int
	CallCount     int
	MaxNesting    int
	ReturnCount   int
	HasLoops      bool
	HasBranches   bool
	Cyclomatic    int
	// DirectlyRecursive is set when the body calls the function's own
	// name. Mutual recursion shows up later in the call graph.
	DirectlyRecursive bool
	ParamCount        int
	HasBody           bool
}

// Rough per-construct byte costs for generated 6502-style code.
const (
	costAssign = 6
	costCall   = 12
	costBranch = 8
	costLoop   = 10
	costReturn = 3
	costBinary = 5
	costIndex  = 7
	costOther  = 2
)

// ComputeFunctionMetrics derives the complexity bundle from a function
// declaration. Stub declarations without a body report zeroes.
func ComputeFunctionMetrics(fn *ast.FunctionDecl) FunctionMetrics {
	m := FunctionMetrics{ParamCount: len(fn.Params), HasBody: fn.HasBody}
	if !fn.HasBody {
		return m
	}

	ast.InspectStatements(fn.Body, func(n ast.Node) bool {
		m.NodeCount++
		switch node := n.(type) {
		case *ast.VariableDecl:
			m.LocalCount++
			m.EstimatedSize += costAssign
		case *ast.AssignStmt:
			m.EstimatedSize += costAssign
		case *ast.IfStmt:
			m.HasBranches = true
			m.Cyclomatic++
			m.EstimatedSize += costBranch
		case *ast.WhileStmt, *ast.ForStmt:
			m.HasLoops = true
			m.Cyclomatic++
			m.EstimatedSize += costLoop
		case *ast.ReturnStmt:
			m.ReturnCount++
			m.EstimatedSize += costReturn
		case *ast.CallExpr:
			m.CallCount++
			m.EstimatedSize += costCall
			if calleeName(node.Callee) == fn.Name {
				m.DirectlyRecursive = true
			}
		case *ast.BinaryExpr:
			if node.Op.IsLogical() {
				m.Cyclomatic++
			}
			m.EstimatedSize += costBinary
		case *ast.IndexExpr:
			m.EstimatedSize += costIndex
		default:
			m.EstimatedSize += costOther
		}
		return true
	})
	m.Cyclomatic++
	m.MaxNesting = maxNesting(fn.Body, 0)
	return m
}

func maxNesting(stmts []ast.Statement, depth int) int {
	deepest := depth
	for _, stmt := range stmts {
		var inner int
		switch st := stmt.(type) {
		case *ast.BlockStmt:
			inner = maxNesting(st.Body, depth+1)
		case *ast.IfStmt:
			inner = maxNesting(st.Then, depth+1)
			if e := maxNesting(st.Else, depth+1); e > inner {
				inner = e
			}
		case *ast.WhileStmt:
			inner = maxNesting(st.Body, depth+1)
		case *ast.ForStmt:
			inner = maxNesting(st.Body, depth+1)
		default:
			continue
		}
		if inner > deepest {
			deepest = inner
		}
	}
	return deepest
}
