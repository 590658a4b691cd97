package sema

import (
	"strings"
	"testing"

	"blend65/internal/ast"
	"blend65/internal/diag"
	"blend65/internal/symbols"
	"blend65/internal/types"
)

func addSignature() *symbols.FunctionSignature {
	return &symbols.FunctionSignature{
		Params: []symbols.ParamInfo{
			{Name: "a", Type: types.Byte},
			{Name: "b", Type: types.Byte},
		},
		Return: types.Word,
	}
}

func TestCallReturnType(t *testing.T) {
	c, _ := newTestChecker()
	declareTestFunc(t, c, "add", addSignature())

	call := &ast.CallExpr{
		Callee: ident("add"),
		Args:   []ast.Expression{num(1), num(2)},
		Span:   at(0, 9),
	}
	got, ok := c.InferExpressionType(call)
	if !ok || !types.IsWord(got) {
		t.Fatalf("add(1, 2) = %v, want word", got)
	}
}

func TestCallArity(t *testing.T) {
	c, bag := newTestChecker()
	declareTestFunc(t, c, "add", addSignature())

	call := &ast.CallExpr{Callee: ident("add"), Args: []ast.Expression{num(1)}, Span: at(0, 6)}
	if _, ok := c.InferExpressionType(call); ok {
		t.Fatalf("add(1) accepted")
	}
	d := bag.Errors()[0]
	if d.Code != diag.SemaTypeMismatch {
		t.Fatalf("code = %v, want SemaTypeMismatch", d.Code)
	}
	if !strings.Contains(d.Message, "2 arguments") {
		t.Fatalf("message = %q, want the expected arity", d.Message)
	}
}

func TestCallArgumentMismatch(t *testing.T) {
	c, bag := newTestChecker()
	declareTestFunc(t, c, "add", addSignature())

	call := &ast.CallExpr{
		Callee: ident("add"),
		Args:   []ast.Expression{num(1), num(300)},
		Span:   at(0, 11),
	}
	if _, ok := c.InferExpressionType(call); ok {
		t.Fatalf("word argument accepted for byte parameter")
	}
	d := bag.Errors()[0]
	if d.Code != diag.SemaTypeMismatch || !strings.Contains(d.Message, "argument 2") {
		t.Fatalf("got %v %q", d.Code, d.Message)
	}
}

func TestCallOptionalParams(t *testing.T) {
	sig := &symbols.FunctionSignature{
		Params: []symbols.ParamInfo{
			{Name: "sprite", Type: types.Byte},
			{Name: "color", Type: types.Byte, Optional: true, HasDefault: true},
		},
		Return: types.Void,
	}
	c, bag := newTestChecker()
	declareTestFunc(t, c, "show", sig)

	one := &ast.CallExpr{Callee: ident("show"), Args: []ast.Expression{num(1)}, Span: at(0, 7)}
	if _, ok := c.InferExpressionType(one); !ok {
		t.Fatalf("call without optional argument rejected: %+v", bag.Items())
	}
	two := &ast.CallExpr{Callee: ident("show"), Args: []ast.Expression{num(1), num(2)}, Span: at(0, 10)}
	if _, ok := c.InferExpressionType(two); !ok {
		t.Fatalf("call with optional argument rejected")
	}
	three := &ast.CallExpr{Callee: ident("show"), Args: []ast.Expression{num(1), num(2), num(3)}, Span: at(0, 13)}
	if _, ok := c.InferExpressionType(three); ok {
		t.Fatalf("extra argument accepted")
	}
	d := bag.Errors()[0]
	if !strings.Contains(d.Message, "1 to 2 arguments") {
		t.Fatalf("message = %q, want the 1-to-2 range", d.Message)
	}
}

func TestCallThroughCallbackVariable(t *testing.T) {
	c, _ := newTestChecker()
	declareTestVar(t, c, "handler", types.NewCallback([]types.Type{types.Byte}, types.Void))

	call := &ast.CallExpr{Callee: ident("handler"), Args: []ast.Expression{num(7)}, Span: at(0, 10)}
	got, ok := c.InferExpressionType(call)
	if !ok || !types.IsVoid(got) {
		t.Fatalf("handler(7) = %v, want void", got)
	}
}

func TestCallBareCallbackRejected(t *testing.T) {
	c, bag := newTestChecker()
	declareTestVar(t, c, "handler", types.Callback)

	call := &ast.CallExpr{Callee: ident("handler"), Span: at(0, 9)}
	if _, ok := c.InferExpressionType(call); ok {
		t.Fatalf("bare callback variable called")
	}
	d := bag.Errors()[0]
	if d.Code != diag.SemaTypeMismatch || len(d.Help) == 0 {
		t.Fatalf("got %v, want a TypeMismatch with help", d.Code)
	}
}

func TestCallNonFunction(t *testing.T) {
	c, bag := newTestChecker()
	declareTestVar(t, c, "score", types.Byte)

	call := &ast.CallExpr{Callee: ident("score"), Span: at(0, 7)}
	if _, ok := c.InferExpressionType(call); ok {
		t.Fatalf("calling a byte variable accepted")
	}
	if code := firstCode(t, bag); code != diag.SemaTypeMismatch {
		t.Fatalf("code = %v, want SemaTypeMismatch", code)
	}
}

func TestCallQualifiedExport(t *testing.T) {
	c, bag := newTestChecker()
	r := c.Resolver()
	r.EnterModule("Game.Utils", at(0, 10))
	id, _ := r.Declare(&symbols.Symbol{
		Name:      r.Table().Strings.Intern("random"),
		Kind:      symbols.SymbolFunction,
		Span:      at(12, 30),
		Signature: &symbols.FunctionSignature{Return: types.Byte},
	})
	r.ExportSymbol(id)
	r.ExitModule()

	call := &ast.CallExpr{
		Callee: &ast.QualifiedName{Parts: []string{"Game", "Utils", "random"}, Span: at(40, 56)},
		Span:   at(40, 58),
	}
	got, ok := c.InferExpressionType(call)
	if !ok || !types.IsByte(got) {
		t.Fatalf("Game.Utils.random() = %v, want byte: %+v", got, bag.Items())
	}
}

func TestQualifiedExportMissing(t *testing.T) {
	c, bag := newTestChecker()
	r := c.Resolver()
	r.EnterModule("Game.Utils", at(0, 10))
	r.ExitModule()

	q := &ast.QualifiedName{Parts: []string{"Game", "Utils", "random"}, Span: at(0, 16)}
	if _, ok := c.InferExpressionType(q); ok {
		t.Fatalf("missing export resolved")
	}
	if code := firstCode(t, bag); code != diag.SemaExportNotFound {
		t.Fatalf("code = %v, want SemaExportNotFound", code)
	}
}

func TestQualifiedModuleMissing(t *testing.T) {
	c, bag := newTestChecker()
	q := &ast.QualifiedName{Parts: []string{"Game", "Sound", "play"}, Span: at(0, 15)}
	if _, ok := c.InferExpressionType(q); ok {
		t.Fatalf("unknown module resolved")
	}
	if code := firstCode(t, bag); code != diag.SemaModuleNotFound {
		t.Fatalf("code = %v, want SemaModuleNotFound", code)
	}
}
