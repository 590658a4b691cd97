package types

// StorageClass selects the target memory region a variable lives in.
// Hardware registers are reached through the peek/poke intrinsics, not a
// storage class.
type StorageClass uint8

const (
	// StorageNone means the declaration carried no storage class; placement
	// is left to the downstream code generator.
	StorageNone StorageClass = iota
	// StorageZeroPage places the variable in the fast low-memory page.
	StorageZeroPage
	// StorageRAM places the variable in general RAM.
	StorageRAM
	// StorageData places the variable in the pre-initialized data segment.
	StorageData
	// StorageConst places the variable in read-only constant memory.
	StorageConst
)

func (sc StorageClass) String() string {
	switch sc {
	case StorageNone:
		return ""
	case StorageZeroPage:
		return "zp"
	case StorageRAM:
		return "ram"
	case StorageData:
		return "data"
	case StorageConst:
		return "const"
	default:
		return "?"
	}
}

// ParseStorageClass maps a source-syntax storage keyword to its class.
// The empty string parses as StorageNone.
func ParseStorageClass(s string) (StorageClass, bool) {
	switch s {
	case "":
		return StorageNone, true
	case "zp":
		return StorageZeroPage, true
	case "ram":
		return StorageRAM, true
	case "data":
		return StorageData, true
	case "const":
		return StorageConst, true
	default:
		return StorageNone, false
	}
}

// RequiresInitializer reports whether the class demands a compile-time
// initializer (both segments are emitted into the binary image).
func (sc StorageClass) RequiresInitializer() bool {
	return sc == StorageData || sc == StorageConst
}

// ReadOnly reports whether writes to the variable are illegal.
func (sc StorageClass) ReadOnly() bool {
	return sc == StorageConst
}
