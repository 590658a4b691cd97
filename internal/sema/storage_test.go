package sema

import (
	"strings"
	"testing"

	"blend65/internal/diag"
	"blend65/internal/symbols"
	"blend65/internal/types"
)

func TestStorageClassNoneAlwaysLegal(t *testing.T) {
	for _, scope := range []symbols.ScopeKind{
		symbols.ScopeGlobal, symbols.ScopeModule, symbols.ScopeFunction, symbols.ScopeBlock,
	} {
		c, bag := newTestChecker()
		if !c.ValidateVariableStorageClass(types.StorageNone, scope, false, types.Byte, at(0, 1)) {
			t.Errorf("no storage class rejected in %s scope: %+v", scope, bag.Items())
		}
	}
}

func TestStorageClassLocalRejected(t *testing.T) {
	for _, class := range []types.StorageClass{
		types.StorageZeroPage, types.StorageRAM, types.StorageData, types.StorageConst,
	} {
		c, bag := newTestChecker()
		if c.ValidateVariableStorageClass(class, symbols.ScopeFunction, true, types.Byte, at(0, 1)) {
			t.Errorf("storage class %s accepted in function scope", class)
			continue
		}
		if code := firstCode(t, bag); code != diag.SemaInvalidStorageClass {
			t.Errorf("%s: code = %v, want SemaInvalidStorageClass", class, code)
		}
	}
}

func TestStorageClassInitializerRequired(t *testing.T) {
	for _, class := range []types.StorageClass{types.StorageConst, types.StorageData} {
		c, bag := newTestChecker()
		if c.ValidateVariableStorageClass(class, symbols.ScopeModule, false, types.Byte, at(0, 1)) {
			t.Errorf("%s without initializer accepted", class)
			continue
		}
		if code := firstCode(t, bag); code != diag.SemaConstantRequired {
			t.Errorf("%s: code = %v, want SemaConstantRequired", class, code)
		}
	}

	c, _ := newTestChecker()
	if !c.ValidateVariableStorageClass(types.StorageConst, symbols.ScopeModule, true, types.Byte, at(0, 1)) {
		t.Fatalf("const with initializer rejected")
	}
}

func TestStorageClassZeroPageSize(t *testing.T) {
	c, bag := newTestChecker()
	big := types.NewArray(types.Byte, 300)
	if c.ValidateVariableStorageClass(types.StorageZeroPage, symbols.ScopeModule, false, big, at(0, 1)) {
		t.Fatalf("300-byte array accepted for zero page")
	}
	d := bag.Errors()[0]
	if d.Code != diag.SemaInvalidStorageClass {
		t.Fatalf("code = %v, want SemaInvalidStorageClass", d.Code)
	}
	if !strings.Contains(d.Message, "too large for zero page") {
		t.Fatalf("message = %q, want it to mention zero page", d.Message)
	}

	c2, _ := newTestChecker()
	small := types.NewArray(types.Byte, 256)
	if !c2.ValidateVariableStorageClass(types.StorageZeroPage, symbols.ScopeModule, false, small, at(0, 1)) {
		t.Fatalf("256-byte array rejected for zero page")
	}
}

func TestStorageClassZeroPageNamed(t *testing.T) {
	c, bag := newTestChecker()
	declareTestType(t, c, "Buffer", types.NewArray(types.Word, 200))
	if c.ValidateVariableStorageClass(types.StorageZeroPage, symbols.ScopeModule, false, types.NewNamed("Buffer"), at(0, 1)) {
		t.Fatalf("400-byte named type accepted for zero page")
	}
	if code := firstCode(t, bag); code != diag.SemaInvalidStorageClass {
		t.Fatalf("code = %v, want SemaInvalidStorageClass", code)
	}
}
