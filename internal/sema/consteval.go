package sema

import (
	"math"

	"blend65/internal/ast"
)

// FoldStatus classifies the outcome of constant folding.
type FoldStatus uint8

const (
	FoldOK FoldStatus = iota
	// FoldNotConst marks expressions outside the folder's grammar:
	// anything but integer literals combined with + - * /.
	FoldNotConst
	// FoldDivZero marks a division by a zero constant.
	FoldDivZero
	// FoldInexact marks a division with a non-zero remainder.
	FoldInexact
	// FoldOverflow marks an intermediate value outside the 32-bit range.
	FoldOverflow
)

// FoldConstant reduces an expression to an integer constant. The folder
// is deliberately small: integer literals and the four arithmetic
// operators over them, nothing else. Identifiers, calls, and the
// remaining operators all come back FoldNotConst.
func FoldConstant(expr ast.Expression) (int64, FoldStatus) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		return e.Value, FoldOK
	case *ast.BinaryExpr:
		if !e.Op.IsArithmetic() || e.Op == ast.OpMod {
			return 0, FoldNotConst
		}
		left, st := FoldConstant(e.Left)
		if st != FoldOK {
			return 0, st
		}
		right, st := FoldConstant(e.Right)
		if st != FoldOK {
			return 0, st
		}
		return foldBinary(e.Op, left, right)
	default:
		return 0, FoldNotConst
	}
}

func foldBinary(op ast.BinaryOp, left, right int64) (int64, FoldStatus) {
	var v int64
	switch op {
	case ast.OpAdd:
		v = left + right
	case ast.OpSub:
		v = left - right
	case ast.OpMul:
		v = left * right
		if left != 0 && v/left != right {
			return 0, FoldOverflow
		}
	case ast.OpDiv:
		if right == 0 {
			return 0, FoldDivZero
		}
		if left%right != 0 {
			return 0, FoldInexact
		}
		v = left / right
	default:
		return 0, FoldNotConst
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, FoldOverflow
	}
	return v, FoldOK
}
