package symbols

import (
	"strings"

	"blend65/internal/types"
)

// ParamInfo is one declared function parameter.
type ParamInfo struct {
	Name       string
	Type       types.Type
	Optional   bool
	HasDefault bool
}

// FunctionSignature captures a function's calling contract.
type FunctionSignature struct {
	Params     []ParamInfo
	Return     types.Type
	IsCallback bool
	HasBody    bool
}

// CallbackType synthesizes the function-pointer type of this signature,
// used when a function name appears in value position.
func (sig *FunctionSignature) CallbackType() *types.CallbackType {
	params := make([]types.Type, len(sig.Params))
	for i := range sig.Params {
		params[i] = sig.Params[i].Type
	}
	ret := sig.Return
	if ret == nil {
		ret = types.Void
	}
	return types.NewCallback(params, ret)
}

// RequiredArgs returns how many leading parameters have no default and are
// not optional.
func (sig *FunctionSignature) RequiredArgs() int {
	n := 0
	for _, p := range sig.Params {
		if p.Optional || p.HasDefault {
			break
		}
		n++
	}
	return n
}

// String renders "name(param: type, ...): ret" without the name, for
// diagnostics: "(seed: byte): byte".
func (sig *FunctionSignature) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range sig.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteString(": ")
		if p.Type != nil {
			b.WriteString(p.Type.String())
		} else {
			b.WriteString("?")
		}
	}
	b.WriteString("): ")
	if sig.Return != nil {
		b.WriteString(sig.Return.String())
	} else {
		b.WriteString("void")
	}
	return b.String()
}

// SignaturesEqual compares parameter types, return type and callback
// tagging; parameter names and defaults do not participate.
func SignaturesEqual(a, b *FunctionSignature) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.IsCallback != b.IsCallback {
		return false
	}
	ar, br := a.Return, b.Return
	if ar == nil {
		ar = types.Void
	}
	if br == nil {
		br = types.Void
	}
	if !ar.Equals(br) {
		return false
	}
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		at, bt := a.Params[i].Type, b.Params[i].Type
		if at == nil || bt == nil {
			if at != bt {
				return false
			}
			continue
		}
		if !at.Equals(bt) {
			return false
		}
	}
	return true
}
