// Package diag defines the diagnostic model shared by every analysis phase.
//
// Diagnostic is the central record: a Severity, a stable numeric Code, a
// human-oriented message, the primary source.Span, optional Notes pointing at
// related locations (e.g. "previous declaration here"), and optional Help
// strings suggesting how to address the problem.
//
// Producers emit through a Reporter so they stay decoupled from storage. Bag
// aggregates diagnostics with a cap and supports deterministic sorting and
// deduplication. Rendering lives in internal/diagfmt; this package performs
// no formatting or IO.
package diag
