package types

// maxResolveDepth bounds cache-chasing through NamedType.Resolved so a
// buggy resolution cycle cannot hang the compatibility check.
const maxResolveDepth = 32

// Underlying unwraps resolved named references down to a concrete type.
// An unresolved reference is returned as-is.
func Underlying(t Type) Type {
	for depth := 0; depth < maxResolveDepth; depth++ {
		n, ok := t.(*NamedType)
		if !ok || n.Resolved == nil {
			return t
		}
		t = n.Resolved
	}
	return t
}

// AssignmentCompatible reports whether a value of type src may be stored
// into a location of type dst.
//
// The relation is strictly narrower than equality: identical types are
// always compatible; two distinct primitives never are (no implicit
// byte/word widening on this target); arrays need matching sizes and
// compatible elements; callbacks need a compatible return and pairwise
// compatible parameters, with the destination's parameter type accepting
// the source's. Unresolved named types are conservatively incompatible.
func AssignmentCompatible(dst, src Type) bool {
	if dst == nil || src == nil {
		return false
	}
	if dst.Equals(src) {
		return true
	}
	dst = Underlying(dst)
	src = Underlying(src)
	if dst.Equals(src) {
		return true
	}

	switch d := dst.(type) {
	case *ArrayType:
		s, ok := src.(*ArrayType)
		if !ok {
			return false
		}
		return d.Count == s.Count && AssignmentCompatible(d.Elem, s.Elem)
	case *CallbackType:
		s, ok := src.(*CallbackType)
		if !ok {
			return false
		}
		if !AssignmentCompatible(d.Return, s.Return) {
			return false
		}
		if len(d.Params) != len(s.Params) {
			return false
		}
		for i := range d.Params {
			if !AssignmentCompatible(d.Params[i], s.Params[i]) {
				return false
			}
		}
		return true
	default:
		// Distinct primitives, unresolved named references, or a variant
		// mismatch.
		return false
	}
}
