package sema

import (
	"testing"

	"blend65/internal/ast"
	"blend65/internal/diag"
	"blend65/internal/types"
)

func byteAnn(start uint32) *ast.PrimitiveAnnotation {
	return &ast.PrimitiveAnnotation{Name: "byte", Span: at(start, start+4)}
}

func TestBuildSignature(t *testing.T) {
	c, _ := newTestChecker()
	decl := &ast.FunctionDecl{
		Name: "add",
		Params: []ast.Param{
			{Name: "a", Type: byteAnn(0), Span: at(0, 7)},
			{Name: "b", Type: byteAnn(9), Span: at(9, 16)},
		},
		Return:  &ast.PrimitiveAnnotation{Name: "word", Span: at(19, 23)},
		HasBody: true,
		Span:    at(0, 40),
	}
	sig, ok := c.BuildSignature(decl)
	if !ok {
		t.Fatalf("BuildSignature failed")
	}
	if got := sig.String(); got != "(a: byte, b: byte): word" {
		t.Fatalf("signature = %q", got)
	}
	if sig.RequiredArgs() != 2 || sig.IsCallback || !sig.HasBody {
		t.Fatalf("signature flags wrong: %+v", sig)
	}
}

func TestBuildSignatureDefaultsVoid(t *testing.T) {
	c, _ := newTestChecker()
	sig, ok := c.BuildSignature(&ast.FunctionDecl{Name: "tick", Span: at(0, 10)})
	if !ok {
		t.Fatalf("BuildSignature failed")
	}
	if !types.IsVoid(sig.Return) {
		t.Fatalf("missing return annotation should mean void, got %s", sig.Return)
	}
	if sig.HasBody {
		t.Fatalf("declaration without body marked as defined")
	}
}

func TestValidateSignatureDuplicateParam(t *testing.T) {
	c, bag := newTestChecker()
	decl := &ast.FunctionDecl{
		Name: "f",
		Params: []ast.Param{
			{Name: "x", Type: byteAnn(0), Span: at(2, 9)},
			{Name: "x", Type: byteAnn(11), Span: at(11, 18)},
		},
		Span: at(0, 30),
	}
	sig, ok := c.BuildSignature(decl)
	if !ok {
		t.Fatalf("BuildSignature failed")
	}
	if c.ValidateFunctionSignature(decl, sig) {
		t.Fatalf("duplicate parameter accepted")
	}
	d := bag.Errors()[0]
	if d.Code != diag.SemaDuplicateIdentifier {
		t.Fatalf("code = %v, want SemaDuplicateIdentifier", d.Code)
	}
	if len(d.Notes) == 0 || d.Notes[0].Span != at(2, 9) {
		t.Fatalf("note should point at the first parameter, got %+v", d.Notes)
	}
}

func TestValidateSignatureRequiredAfterOptional(t *testing.T) {
	c, bag := newTestChecker()
	decl := &ast.FunctionDecl{
		Name: "f",
		Params: []ast.Param{
			{Name: "a", Type: byteAnn(0), Optional: true, Span: at(2, 10)},
			{Name: "b", Type: byteAnn(12), Span: at(12, 19)},
		},
		Span: at(0, 30),
	}
	sig, _ := c.BuildSignature(decl)
	if c.ValidateFunctionSignature(decl, sig) {
		t.Fatalf("required parameter after optional accepted")
	}
	if code := firstCode(t, bag); code != diag.SemaInvalidOperation {
		t.Fatalf("code = %v, want SemaInvalidOperation", code)
	}
}

func TestValidateSignatureNonConstantDefault(t *testing.T) {
	c, bag := newTestChecker()
	decl := &ast.FunctionDecl{
		Name: "f",
		Params: []ast.Param{
			{Name: "a", Type: byteAnn(0), Default: ident("n"), Span: at(2, 12)},
		},
		Span: at(0, 20),
	}
	sig, _ := c.BuildSignature(decl)
	if c.ValidateFunctionSignature(decl, sig) {
		t.Fatalf("non-constant default accepted")
	}
	if code := firstCode(t, bag); code != diag.SemaConstantRequired {
		t.Fatalf("code = %v, want SemaConstantRequired", code)
	}
}

func TestValidateCallbackArrayReturn(t *testing.T) {
	c, bag := newTestChecker()
	decl := &ast.FunctionDecl{
		Name:     "onFrame",
		Callback: true,
		Return: &ast.ArrayAnnotation{
			Elem: byteAnn(0),
			Size: num(4),
			Span: at(20, 27),
		},
		Span: at(0, 40),
	}
	sig, ok := c.BuildSignature(decl)
	if !ok {
		t.Fatalf("BuildSignature failed")
	}
	if c.ValidateFunctionSignature(decl, sig) {
		t.Fatalf("callback with array return accepted")
	}
	if code := firstCode(t, bag); code != diag.SemaCallbackMismatch {
		t.Fatalf("code = %v, want SemaCallbackMismatch", code)
	}
}

func TestValidateCallbackLargeArrayParam(t *testing.T) {
	c, bag := newTestChecker()
	decl := &ast.FunctionDecl{
		Name:     "onData",
		Callback: true,
		Params: []ast.Param{
			{
				Name: "buf",
				Type: &ast.ArrayAnnotation{Elem: byteAnn(0), Size: num(512), Span: at(8, 17)},
				Span: at(2, 17),
			},
		},
		Span: at(0, 30),
	}
	sig, ok := c.BuildSignature(decl)
	if !ok {
		t.Fatalf("BuildSignature failed")
	}
	if c.ValidateFunctionSignature(decl, sig) {
		t.Fatalf("512-element callback parameter accepted")
	}
	if code := firstCode(t, bag); code != diag.SemaCallbackMismatch {
		t.Fatalf("code = %v, want SemaCallbackMismatch", code)
	}

	c2, _ := newTestChecker()
	small := &ast.FunctionDecl{
		Name:     "onData",
		Callback: true,
		Params: []ast.Param{
			{
				Name: "buf",
				Type: &ast.ArrayAnnotation{Elem: byteAnn(0), Size: num(256), Span: at(8, 17)},
				Span: at(2, 17),
			},
		},
		Span: at(0, 30),
	}
	sig2, _ := c2.BuildSignature(small)
	if !c2.ValidateFunctionSignature(small, sig2) {
		t.Fatalf("256-element callback parameter rejected")
	}
}

func TestEnumMembersFolding(t *testing.T) {
	c, _ := newTestChecker()
	decl := &ast.EnumDecl{
		Name: "Color",
		Members: []ast.EnumMember{
			{Name: "red", Span: at(0, 3)},
			{Name: "green", Value: num(5), Span: at(5, 13)},
			{Name: "blue", Span: at(15, 19)},
		},
		Span: at(0, 25),
	}
	members, ok := c.EnumMembers(decl)
	if !ok {
		t.Fatalf("EnumMembers failed")
	}
	want := []int64{0, 5, 6}
	for i, m := range members {
		if m.Value != want[i] {
			t.Fatalf("member %s = %d, want %d", m.Name, m.Value, want[i])
		}
	}
}

func TestEnumMembersDuplicate(t *testing.T) {
	c, bag := newTestChecker()
	decl := &ast.EnumDecl{
		Name: "Color",
		Members: []ast.EnumMember{
			{Name: "red", Span: at(0, 3)},
			{Name: "red", Span: at(5, 8)},
		},
		Span: at(0, 12),
	}
	if _, ok := c.EnumMembers(decl); ok {
		t.Fatalf("duplicate member accepted")
	}
	if code := firstCode(t, bag); code != diag.SemaDuplicateIdentifier {
		t.Fatalf("code = %v, want SemaDuplicateIdentifier", code)
	}
}

func TestEnumMembersOutOfRange(t *testing.T) {
	c, bag := newTestChecker()
	decl := &ast.EnumDecl{
		Name: "Huge",
		Members: []ast.EnumMember{
			{Name: "big", Value: num(300), Span: at(0, 8)},
		},
		Span: at(0, 12),
	}
	if _, ok := c.EnumMembers(decl); ok {
		t.Fatalf("member value 300 accepted")
	}
	if code := firstCode(t, bag); code != diag.SemaTypeMismatch {
		t.Fatalf("code = %v, want SemaTypeMismatch", code)
	}
}
