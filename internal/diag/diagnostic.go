package diag

import (
	"blend65/internal/source"
)

// Note attaches a secondary location to a diagnostic, typically pointing at
// a related declaration ("previous declaration here").
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one analysis finding.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Help     []string
}
