package symbols

import "blend65/internal/types"

// builtinPreludeEntries returns the built-in symbols exposed to every
// unit: the hardware read/write intrinsics. There is no io storage class;
// memory-mapped registers are reached through these calls.
func builtinPreludeEntries() []PreludeEntry {
	return []PreludeEntry{
		{
			Name: "peek",
			Kind: SymbolFunction,
			Signature: &FunctionSignature{
				Params: []ParamInfo{{Name: "address", Type: types.Word}},
				Return: types.Byte,
			},
		},
		{
			Name: "poke",
			Kind: SymbolFunction,
			Signature: &FunctionSignature{
				Params: []ParamInfo{
					{Name: "address", Type: types.Word},
					{Name: "value", Type: types.Byte},
				},
				Return: types.Void,
			},
		},
	}
}

// mergePrelude combines the default builtins with caller-provided entries.
func mergePrelude(custom []PreludeEntry) []PreludeEntry {
	defaults := builtinPreludeEntries()
	if len(custom) == 0 {
		return defaults
	}
	result := make([]PreludeEntry, 0, len(defaults)+len(custom))
	result = append(result, defaults...)
	result = append(result, custom...)
	return result
}
