package symbols

import (
	"testing"

	"blend65/internal/diag"
	"blend65/internal/source"
	"blend65/internal/types"
)

func newTestResolver() (*Resolver, *diag.Bag) {
	bag := diag.NewBag(64)
	table := NewTable(Hints{}, nil)
	r := NewResolver(table, ResolverOptions{Reporter: diag.BagReporter{Bag: bag}})
	return r, bag
}

func at(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func declareVar(t *testing.T, r *Resolver, name string, span source.Span) SymbolID {
	t.Helper()
	id, ok := r.Declare(&Symbol{
		Name: r.Table().Strings.Intern(name),
		Kind: SymbolVariable,
		Span: span,
		Type: types.Byte,
	})
	if !ok {
		t.Fatalf("Declare(%q) failed", name)
	}
	return id
}

func TestShadowingAcrossScopes(t *testing.T) {
	r, bag := newTestResolver()
	outer := declareVar(t, r, "x", at(0, 1))

	block := r.EnterScope(ScopeBlock, "", at(2, 20))
	inner := declareVar(t, r, "x", at(4, 5))
	if inner == outer {
		t.Fatalf("inner and outer x share a symbol ID")
	}
	if bag.HasErrors() {
		t.Fatalf("shadowing must not be an error: %+v", bag.Items())
	}
	if !bag.HasWarnings() {
		t.Fatalf("shadowing should warn")
	}

	nameID, _ := r.Table().Strings.Index("x")
	got, ok := r.Lookup(nameID)
	if !ok || got != inner {
		t.Fatalf("Lookup inside block = %d, want inner %d", got, inner)
	}
	if id, ok := r.LookupInScope(nameID, block); !ok || id != inner {
		t.Fatalf("LookupInScope(block) = %d, want %d", id, inner)
	}

	if !r.ExitScope() {
		t.Fatalf("ExitScope failed")
	}
	got, ok = r.Lookup(nameID)
	if !ok || got != outer {
		t.Fatalf("Lookup after exit = %d, want outer %d", got, outer)
	}
}

func TestDuplicateInSameScope(t *testing.T) {
	r, bag := newTestResolver()
	first := at(0, 5)
	declareVar(t, r, "score", first)

	_, ok := r.Declare(&Symbol{
		Name: r.Table().Strings.Intern("score"),
		Kind: SymbolVariable,
		Span: at(10, 15),
		Type: types.Byte,
	})
	if ok {
		t.Fatalf("duplicate declaration accepted")
	}
	if !bag.HasErrors() {
		t.Fatalf("duplicate declaration produced no error")
	}
	d := bag.Errors()[0]
	if d.Code != diag.SemaDuplicateSymbol {
		t.Fatalf("code = %v, want SemaDuplicateSymbol", d.Code)
	}
	if len(d.Notes) == 0 || d.Notes[0].Span != first {
		t.Fatalf("related note should point at the first declaration, got %+v", d.Notes)
	}
}

func TestExitGlobalScope(t *testing.T) {
	r, bag := newTestResolver()
	if r.ExitScope() {
		t.Fatalf("exiting the global scope must fail")
	}
	if !bag.HasErrors() {
		t.Fatalf("exiting the global scope should report")
	}
	if bag.Errors()[0].Code != diag.SemaInvalidScope {
		t.Fatalf("code = %v, want SemaInvalidScope", bag.Errors()[0].Code)
	}
	if r.CurrentScope() != r.Table().Global {
		t.Fatalf("global scope must remain current")
	}
}

func TestAccessibleSymbolsInnerPriority(t *testing.T) {
	r, _ := newTestResolver()
	outer := declareVar(t, r, "x", at(0, 1))
	declareVar(t, r, "y", at(2, 3))
	r.EnterScope(ScopeBlock, "", at(4, 20))
	inner := declareVar(t, r, "x", at(6, 7))

	merged := r.AccessibleSymbols()
	if merged["x"] != inner {
		t.Fatalf("merged x = %d, want inner %d (outer %d)", merged["x"], inner, outer)
	}
	if _, ok := merged["y"]; !ok {
		t.Fatalf("outer y should remain accessible")
	}
	if _, ok := merged["peek"]; !ok {
		t.Fatalf("prelude intrinsics should be accessible")
	}
}

func TestPreludeIntrinsics(t *testing.T) {
	r, _ := newTestResolver()
	id, ok := r.LookupString("poke")
	if !ok {
		t.Fatalf("poke not in prelude")
	}
	sym := r.Table().Symbols.Get(id)
	if sym.Kind != SymbolFunction || sym.Flags&SymbolFlagBuiltin == 0 {
		t.Fatalf("poke = kind %v flags %v", sym.Kind, sym.Flags.Strings())
	}
	if got := sym.Signature.String(); got != "(address: word, value: byte): void" {
		t.Fatalf("poke signature = %q", got)
	}
	peekID, _ := r.LookupString("peek")
	peek := r.Table().Symbols.Get(peekID)
	if !types.IsByte(peek.Signature.Return) {
		t.Fatalf("peek must return byte")
	}
}

func TestFunctionValueType(t *testing.T) {
	sig := &FunctionSignature{
		Params: []ParamInfo{
			{Name: "a", Type: types.Byte},
			{Name: "b", Type: types.Byte},
		},
		Return: types.Word,
	}
	cb := sig.CallbackType()
	if got := cb.String(); got != "callback(byte, byte): word" {
		t.Fatalf("CallbackType = %q", got)
	}
}
