package diag

import (
	"fmt"
)

// Code is a compact, stable identifier for a diagnostic kind.
type Code uint16

const (
	// UnknownCode covers diagnostics without a dedicated code.
	UnknownCode Code = 0

	// Semantic analysis. This block is the closed set of semantic error
	// kinds; new semantic failures must map onto one of these.
	SemaInfo                Code = 3000
	SemaUndefinedSymbol     Code = 3001
	SemaDuplicateSymbol     Code = 3002
	SemaDuplicateIdentifier Code = 3003
	SemaTypeMismatch        Code = 3004
	SemaInvalidStorageClass Code = 3005
	SemaImportNotFound      Code = 3006
	SemaExportNotFound      Code = 3007
	SemaModuleNotFound      Code = 3008
	SemaInvalidScope        Code = 3009
	SemaConstantRequired    Code = 3010
	SemaCallbackMismatch    Code = 3011
	SemaArrayBounds         Code = 3012
	SemaInvalidOperation    Code = 3013
	SemaCircularDependency  Code = 3014

	// Semantic warnings (never fatal).
	SemaShadowedDeclaration Code = 3100

	// Unit loading and decoding.
	IOLoadFileError Code = 4001
	IODecodeError   Code = 4002

	// Project manifest.
	ProjManifestError Code = 5001
	ProjInvalidOption Code = 5002

	// Observability.
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	SemaInfo:                "Semantic information",
	SemaUndefinedSymbol:     "Undefined symbol",
	SemaDuplicateSymbol:     "Duplicate symbol",
	SemaDuplicateIdentifier: "Duplicate identifier",
	SemaTypeMismatch:        "Type mismatch",
	SemaInvalidStorageClass: "Invalid storage class",
	SemaImportNotFound:      "Import not found",
	SemaExportNotFound:      "Export not found",
	SemaModuleNotFound:      "Module not found",
	SemaInvalidScope:        "Invalid scope operation",
	SemaConstantRequired:    "Constant expression required",
	SemaCallbackMismatch:    "Callback signature mismatch",
	SemaArrayBounds:         "Array bounds violation",
	SemaInvalidOperation:    "Invalid operation",
	SemaCircularDependency:  "Circular dependency",
	SemaShadowedDeclaration: "Declaration shadows an outer binding",
	IOLoadFileError:         "I/O load file error",
	IODecodeError:           "Unit decode error",
	ProjManifestError:       "Project manifest error",
	ProjInvalidOption:       "Invalid project option",
	ObsInfo:                 "Observability information",
	ObsTimings:              "Pipeline timings",
}

// ID returns the short stable form, e.g. "SEM3002".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

// Title returns the human-readable description of the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// IsSemantic reports whether the code belongs to the semantic block
// (including warnings).
func (c Code) IsSemantic() bool {
	return c >= 3000 && c < 4000
}
