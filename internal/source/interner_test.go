package source

import (
	"testing"
)

func TestInternerBasic(t *testing.T) {
	interner := NewInterner()

	if s, ok := interner.Lookup(NoStringID); !ok || s != "" {
		t.Errorf("NoStringID should map to the empty string, got %q ok=%v", s, ok)
	}

	id1 := interner.Intern("player")
	if id1 == NoStringID {
		t.Error("Intern must not return NoStringID for a non-empty string")
	}

	id2 := interner.Intern("player")
	if id1 != id2 {
		t.Errorf("identical strings must share an ID: %d != %d", id1, id2)
	}

	if s, ok := interner.Lookup(id1); !ok || s != "player" {
		t.Errorf("Lookup returned %q ok=%v", s, ok)
	}

	id3 := interner.Intern("enemy")
	if id3 == id1 {
		t.Error("distinct strings must get distinct IDs")
	}

	if interner.Len() != 3 { // "", "player", "enemy"
		t.Errorf("Len = %d, want 3", interner.Len())
	}
}

func TestInternerNormalization(t *testing.T) {
	interner := NewInterner()

	// U+00E9 (é) vs e + U+0301 (combining acute): same identifier after NFC.
	composed := interner.Intern("café")
	decomposed := interner.Intern("café")
	if composed != decomposed {
		t.Errorf("NFC-equal identifiers must intern to one ID: %d != %d", composed, decomposed)
	}
	if s := interner.MustLookup(composed); s != "café" {
		t.Errorf("stored form should be NFC, got %q", s)
	}
}

func TestInternerBytes(t *testing.T) {
	interner := NewInterner()
	a := interner.InternBytes([]byte("score"))
	b := interner.Intern("score")
	if a != b {
		t.Errorf("InternBytes and Intern disagree: %d != %d", a, b)
	}
}
