package sema

import (
	"testing"

	"blend65/internal/diag"
	"blend65/internal/types"
)

func TestAssignmentDistinctPrimitives(t *testing.T) {
	prims := []types.Type{types.Byte, types.Word, types.Boolean, types.Void, types.Callback}
	for _, dst := range prims {
		for _, src := range prims {
			c, bag := newTestChecker()
			got := c.CheckAssignmentCompatibility(dst, src, at(0, 1))
			want := dst.Equals(src)
			if got != want {
				t.Errorf("CheckAssignmentCompatibility(%s, %s) = %v, want %v", dst, src, got, want)
			}
			if !want && !bag.HasErrors() {
				t.Errorf("mismatch %s := %s reported nothing", dst, src)
			}
		}
	}
}

func TestAssignmentByteWordHelp(t *testing.T) {
	c, bag := newTestChecker()
	if c.CheckAssignmentCompatibility(types.Word, types.Byte, at(0, 1)) {
		t.Fatalf("byte assigned to word without a cast")
	}
	d := bag.Errors()[0]
	if d.Code != diag.SemaTypeMismatch {
		t.Fatalf("code = %v, want SemaTypeMismatch", d.Code)
	}
	if len(d.Help) == 0 {
		t.Fatalf("numeric mismatch should carry a suggestion")
	}
}

func TestAssignmentArraySizeMismatch(t *testing.T) {
	c, bag := newTestChecker()
	dst := types.NewArray(types.Byte, 10)
	src := types.NewArray(types.Byte, 5)
	if c.CheckAssignmentCompatibility(dst, src, at(0, 1)) {
		t.Fatalf("arrays of different sizes accepted")
	}
	if code := firstCode(t, bag); code != diag.SemaArrayBounds {
		t.Fatalf("code = %v, want SemaArrayBounds", code)
	}
}

func TestAssignmentArrayElemMismatch(t *testing.T) {
	c, bag := newTestChecker()
	dst := types.NewArray(types.Byte, 10)
	src := types.NewArray(types.Word, 10)
	if c.CheckAssignmentCompatibility(dst, src, at(0, 1)) {
		t.Fatalf("arrays of different element types accepted")
	}
	if code := firstCode(t, bag); code != diag.SemaTypeMismatch {
		t.Fatalf("code = %v, want SemaTypeMismatch", code)
	}
}

func TestAssignmentCallbackMismatch(t *testing.T) {
	dst := types.NewCallback([]types.Type{types.Byte}, types.Void)

	t.Run("parameter count", func(t *testing.T) {
		c, bag := newTestChecker()
		src := types.NewCallback([]types.Type{types.Byte, types.Byte}, types.Void)
		if c.CheckAssignmentCompatibility(dst, src, at(0, 1)) {
			t.Fatalf("callback with extra parameter accepted")
		}
		if code := firstCode(t, bag); code != diag.SemaCallbackMismatch {
			t.Fatalf("code = %v, want SemaCallbackMismatch", code)
		}
	})

	t.Run("return type", func(t *testing.T) {
		c, bag := newTestChecker()
		src := types.NewCallback([]types.Type{types.Byte}, types.Word)
		if c.CheckAssignmentCompatibility(dst, src, at(0, 1)) {
			t.Fatalf("callback with different return accepted")
		}
		if code := firstCode(t, bag); code != diag.SemaCallbackMismatch {
			t.Fatalf("code = %v, want SemaCallbackMismatch", code)
		}
	})

	t.Run("matching", func(t *testing.T) {
		c, _ := newTestChecker()
		src := types.NewCallback([]types.Type{types.Byte}, types.Void)
		if !c.CheckAssignmentCompatibility(dst, src, at(0, 1)) {
			t.Fatalf("identical callbacks rejected")
		}
	})
}

func TestAssignmentResolvesNamed(t *testing.T) {
	c, _ := newTestChecker()
	declareTestType(t, c, "Score", types.Word)

	if !c.CheckAssignmentCompatibility(types.NewNamed("Score"), types.Word, at(0, 1)) {
		t.Fatalf("word value rejected for a word-backed named type")
	}
	if !c.CheckAssignmentCompatibility(types.Word, types.NewNamed("Score"), at(0, 1)) {
		t.Fatalf("named source rejected for its underlying type")
	}
}

func TestAssignmentUnresolvedNamedFails(t *testing.T) {
	c, bag := newTestChecker()
	if c.CheckAssignmentCompatibility(types.NewNamed("Ghost"), types.Byte, at(0, 1)) {
		t.Fatalf("unresolvable named target accepted")
	}
	if code := firstCode(t, bag); code != diag.SemaUndefinedSymbol {
		t.Fatalf("code = %v, want SemaUndefinedSymbol", code)
	}
}
