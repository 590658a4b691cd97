package types

import "testing"

func TestTypeString(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"byte", Byte, "byte"},
		{"word", Word, "word"},
		{"boolean", Boolean, "boolean"},
		{"void", Void, "void"},
		{"bare callback", Callback, "callback"},
		{"array", NewArray(Byte, 10), "byte[10]"},
		{"nested array", NewArray(NewArray(Byte, 10), 5), "byte[10][5]"},
		{"named", NewNamed("SpriteId"), "SpriteId"},
		{"callback sig", NewCallback([]Type{Byte, Byte}, Word), "callback(byte, byte): word"},
		{"callback no params", NewCallback(nil, Void), "callback(): void"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEquality(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same primitive", Byte, NewPrimitive(KindByte), true},
		{"distinct primitives", Byte, Word, false},
		{"array same", NewArray(Byte, 8), NewArray(Byte, 8), true},
		{"array size differs", NewArray(Byte, 8), NewArray(Byte, 9), false},
		{"array elem differs", NewArray(Byte, 8), NewArray(Word, 8), false},
		{"array vs primitive", NewArray(Byte, 1), Byte, false},
		{"named same name", NewNamed("Color"), NewNamed("Color"), true},
		{"named different name", NewNamed("Color"), NewNamed("Palette"), false},
		{
			"named ignores resolution",
			&NamedType{Name: "Color", Resolved: Byte},
			&NamedType{Name: "Color", Resolved: Word},
			true,
		},
		{
			"callback same",
			NewCallback([]Type{Byte}, Word),
			NewCallback([]Type{Byte}, Word),
			true,
		},
		{
			"callback return differs",
			NewCallback([]Type{Byte}, Word),
			NewCallback([]Type{Byte}, Byte),
			false,
		},
		{
			"callback arity differs",
			NewCallback([]Type{Byte}, Word),
			NewCallback([]Type{Byte, Byte}, Word),
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equals(tt.b); got != tt.want {
				t.Fatalf("Equals(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Equals(tt.a); got != tt.want {
				t.Fatalf("Equals(%s, %s) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestAssignmentCompatible(t *testing.T) {
	tests := []struct {
		name     string
		dst, src Type
		want     bool
	}{
		{"identical primitives", Byte, Byte, true},
		{"no byte to word widening", Word, Byte, false},
		{"no word to byte narrowing", Byte, Word, false},
		{"boolean is not byte", Byte, Boolean, false},
		{"matching arrays", NewArray(Byte, 4), NewArray(Byte, 4), true},
		{"array size mismatch", NewArray(Byte, 4), NewArray(Byte, 5), false},
		{"array elem mismatch", NewArray(Byte, 4), NewArray(Word, 4), false},
		{
			"nested arrays",
			NewArray(NewArray(Byte, 2), 3),
			NewArray(NewArray(Byte, 2), 3),
			true,
		},
		{
			"callbacks identical",
			NewCallback([]Type{Byte, Byte}, Word),
			NewCallback([]Type{Byte, Byte}, Word),
			true,
		},
		{
			"callback param mismatch",
			NewCallback([]Type{Byte}, Word),
			NewCallback([]Type{Word}, Word),
			false,
		},
		{
			"callback return mismatch",
			NewCallback([]Type{Byte}, Byte),
			NewCallback([]Type{Byte}, Word),
			false,
		},
		{"unresolved named", NewNamed("Color"), Byte, false},
		{
			"resolved named accepts underlying",
			&NamedType{Name: "Color", Resolved: Byte},
			Byte,
			true,
		},
		{
			"resolved named rejects other primitive",
			&NamedType{Name: "Color", Resolved: Byte},
			Word,
			false,
		},
		{"same named both sides", NewNamed("Color"), NewNamed("Color"), true},
		{"nil source", Byte, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssignmentCompatible(tt.dst, tt.src); got != tt.want {
				t.Fatalf("AssignmentCompatible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSizes(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want int
	}{
		{"byte", Byte, 1},
		{"boolean", Boolean, 1},
		{"word", Word, 2},
		{"void", Void, 0},
		{"bare callback", Callback, 2},
		{"callback sig", NewCallback([]Type{Byte}, Word), 2},
		{"byte array", NewArray(Byte, 10), 10},
		{"word array", NewArray(Word, 10), 20},
		{"nested array", NewArray(NewArray(Byte, 10), 5), 50},
		{"unresolved named", NewNamed("Color"), -1},
		{"resolved named", &NamedType{Name: "Color", Resolved: Word}, 2},
		{"array of unresolved", NewArray(NewNamed("Color"), 4), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Size(); got != tt.want {
				t.Fatalf("Size(%s) = %d, want %d", tt.typ, got, tt.want)
			}
		})
	}
}

func TestParseStorageClass(t *testing.T) {
	tests := []struct {
		in   string
		want StorageClass
		ok   bool
	}{
		{"", StorageNone, true},
		{"zp", StorageZeroPage, true},
		{"ram", StorageRAM, true},
		{"data", StorageData, true},
		{"const", StorageConst, true},
		{"io", StorageNone, false},
		{"ZP", StorageNone, false},
	}
	for _, tt := range tests {
		got, ok := ParseStorageClass(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseStorageClass(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if !StorageConst.ReadOnly() || StorageData.ReadOnly() {
		t.Fatalf("ReadOnly: const=%v data=%v", StorageConst.ReadOnly(), StorageData.ReadOnly())
	}
	if !StorageData.RequiresInitializer() || !StorageConst.RequiresInitializer() {
		t.Fatalf("RequiresInitializer should hold for data and const")
	}
	if StorageZeroPage.RequiresInitializer() {
		t.Fatalf("zp must not require an initializer")
	}
}
