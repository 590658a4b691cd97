// Package types models the Blend65 type system: four scalar primitives, a
// bare callback pointer, fixed-size arrays, named references and structured
// callback signatures.
//
// Types are immutable after creation. Equality is structural and exact per
// variant; assignment compatibility (compat.go) is strictly narrower. Sizes
// are in bytes of target memory, -1 when not yet known.
package types

import (
	"fmt"
	"strings"
)

// Type is the closed set of Blend65 type values. The marker method keeps
// the set closed to this package.
type Type interface {
	// String returns the canonical source-syntax rendering of the type.
	String() string

	// Equals checks structural equality with another type. Named types
	// compare by name only, without resolution.
	Equals(other Type) bool

	// Size returns the storage size in bytes, or -1 when the size is not
	// known yet (unresolved named types).
	Size() int

	isType()
}

// PrimitiveKind enumerates the built-in scalar names.
type PrimitiveKind uint8

const (
	KindByte PrimitiveKind = iota
	KindWord
	KindBoolean
	KindVoid
	// KindCallback is the bare `callback` annotation: a 16-bit code pointer
	// with no signature attached. Signature-carrying callbacks are
	// CallbackType values.
	KindCallback
)

func (k PrimitiveKind) name() string {
	switch k {
	case KindByte:
		return "byte"
	case KindWord:
		return "word"
	case KindBoolean:
		return "boolean"
	case KindVoid:
		return "void"
	case KindCallback:
		return "callback"
	default:
		return "?"
	}
}

// PrimitiveType is a built-in scalar type.
type PrimitiveType struct {
	kind PrimitiveKind
}

// NewPrimitive returns the primitive type for kind.
func NewPrimitive(kind PrimitiveKind) *PrimitiveType {
	return &PrimitiveType{kind: kind}
}

// PrimitiveByName maps a source-syntax annotation name to its primitive.
func PrimitiveByName(name string) (*PrimitiveType, bool) {
	switch name {
	case "byte":
		return Byte, true
	case "word":
		return Word, true
	case "boolean":
		return Boolean, true
	case "void":
		return Void, true
	case "callback":
		return Callback, true
	default:
		return nil, false
	}
}

func (p *PrimitiveType) Kind() PrimitiveKind { return p.kind }
func (p *PrimitiveType) String() string      { return p.kind.name() }
func (p *PrimitiveType) isType()             {}

func (p *PrimitiveType) Size() int {
	switch p.kind {
	case KindByte, KindBoolean:
		return 1
	case KindWord, KindCallback:
		return 2
	case KindVoid:
		return 0
	default:
		return -1
	}
}

func (p *PrimitiveType) Equals(other Type) bool {
	o, ok := other.(*PrimitiveType)
	return ok && p.kind == o.kind
}

// ArrayType is a fixed-size array. Count is compile-time evaluated and
// kept in [0, 65536] by the checker's annotation conversion.
type ArrayType struct {
	Elem  Type
	Count int
}

// NewArray returns an array of count elements of elem.
func NewArray(elem Type, count int) *ArrayType {
	return &ArrayType{Elem: elem, Count: count}
}

// String renders inner-to-outer: Array{Array{byte,10},5} is "byte[10][5]".
func (a *ArrayType) String() string {
	return fmt.Sprintf("%s[%d]", a.Elem.String(), a.Count)
}

func (a *ArrayType) Size() int {
	es := a.Elem.Size()
	if es < 0 {
		return -1
	}
	return es * a.Count
}

func (a *ArrayType) isType() {}

func (a *ArrayType) Equals(other Type) bool {
	o, ok := other.(*ArrayType)
	return ok && a.Count == o.Count && a.Elem.Equals(o.Elem)
}

// NamedType is a reference to a user-declared type or enum by name.
// Resolved caches what the checker resolved the name to; it stays nil
// until resolution and never participates in Equals.
type NamedType struct {
	Name     string
	Resolved Type
}

// NewNamed returns an unresolved reference to name.
func NewNamed(name string) *NamedType {
	return &NamedType{Name: name}
}

func (n *NamedType) String() string { return n.Name }
func (n *NamedType) isType()        {}

func (n *NamedType) Size() int {
	if n.Resolved != nil {
		return n.Resolved.Size()
	}
	return -1
}

func (n *NamedType) Equals(other Type) bool {
	o, ok := other.(*NamedType)
	return ok && n.Name == o.Name
}

// CallbackType is a function-pointer type with a full signature.
type CallbackType struct {
	Params []Type
	Return Type
}

// NewCallback returns a callback type; ret must be non-nil (use Void).
func NewCallback(params []Type, ret Type) *CallbackType {
	return &CallbackType{Params: params, Return: ret}
}

// String renders as "callback(byte, byte): word".
func (c *CallbackType) String() string {
	params := make([]string, len(c.Params))
	for i, p := range c.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("callback(%s): %s", strings.Join(params, ", "), c.Return.String())
}

// Size is the stored size of the pointer, not of the callee.
func (c *CallbackType) Size() int { return 2 }

func (c *CallbackType) isType() {}

func (c *CallbackType) Equals(other Type) bool {
	o, ok := other.(*CallbackType)
	if !ok {
		return false
	}
	if !c.Return.Equals(o.Return) {
		return false
	}
	if len(c.Params) != len(o.Params) {
		return false
	}
	for i := range c.Params {
		if !c.Params[i].Equals(o.Params[i]) {
			return false
		}
	}
	return true
}

// Shared primitive instances. Equality is structural, so fresh
// NewPrimitive values compare equal to these; the singletons just avoid
// churn on the hot inference paths.
var (
	Byte     = NewPrimitive(KindByte)
	Word     = NewPrimitive(KindWord)
	Boolean  = NewPrimitive(KindBoolean)
	Void     = NewPrimitive(KindVoid)
	Callback = NewPrimitive(KindCallback)
)

// IsNumeric reports whether t is byte or word.
func IsNumeric(t Type) bool {
	p, ok := t.(*PrimitiveType)
	return ok && (p.kind == KindByte || p.kind == KindWord)
}

// IsByte reports whether t is the byte primitive.
func IsByte(t Type) bool {
	p, ok := t.(*PrimitiveType)
	return ok && p.kind == KindByte
}

// IsWord reports whether t is the word primitive.
func IsWord(t Type) bool {
	p, ok := t.(*PrimitiveType)
	return ok && p.kind == KindWord
}

// IsBoolean reports whether t is the boolean primitive.
func IsBoolean(t Type) bool {
	p, ok := t.(*PrimitiveType)
	return ok && p.kind == KindBoolean
}

// IsVoid reports whether t is the void primitive.
func IsVoid(t Type) bool {
	p, ok := t.(*PrimitiveType)
	return ok && p.kind == KindVoid
}

// IsBareCallback reports whether t is the callback primitive: a raw
// 16-bit function pointer with no recorded signature.
func IsBareCallback(t Type) bool {
	p, ok := t.(*PrimitiveType)
	return ok && p.kind == KindCallback
}

// AsArray unwraps t as an array type, or nil.
func AsArray(t Type) *ArrayType {
	a, _ := t.(*ArrayType)
	return a
}

// AsCallback unwraps t as a signature-carrying callback type, or nil.
// The bare callback primitive does not qualify.
func AsCallback(t Type) *CallbackType {
	c, _ := t.(*CallbackType)
	return c
}

// AsNamed unwraps t as a named reference, or nil.
func AsNamed(t Type) *NamedType {
	n, _ := t.(*NamedType)
	return n
}
