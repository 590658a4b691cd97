package diag

import (
	"testing"

	"blend65/internal/source"
)

func span(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func TestBagCap(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(NewError(SemaTypeMismatch, span(1, 0, 1), "first")) {
		t.Fatalf("first Add dropped")
	}
	if !bag.Add(NewError(SemaTypeMismatch, span(1, 2, 3), "second")) {
		t.Fatalf("second Add dropped")
	}
	if bag.Add(NewError(SemaTypeMismatch, span(1, 4, 5), "third")) {
		t.Fatalf("Add above cap accepted")
	}
	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
}

func TestBagSeverityQueries(t *testing.T) {
	bag := NewBag(16)
	bag.Add(New(SevWarning, SemaShadowedDeclaration, span(1, 0, 1), "shadowed"))
	if bag.HasErrors() {
		t.Fatalf("HasErrors = true with only a warning")
	}
	if !bag.HasWarnings() {
		t.Fatalf("HasWarnings = false with a warning present")
	}
	bag.Add(NewError(SemaUndefinedSymbol, span(1, 2, 3), "undefined"))
	if !bag.HasErrors() {
		t.Fatalf("HasErrors = false with an error present")
	}
	if bag.ErrorCount() != 1 {
		t.Fatalf("ErrorCount = %d, want 1", bag.ErrorCount())
	}
	if bag.WarningCount() != 1 {
		t.Fatalf("WarningCount = %d, want 1", bag.WarningCount())
	}
}

func TestBagMergeGrowsCap(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(SemaTypeMismatch, span(1, 0, 1), "a"))
	b := NewBag(1)
	b.Add(NewError(SemaUndefinedSymbol, span(1, 2, 3), "b"))
	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("merged Len = %d, want 2", a.Len())
	}
	if !a.Add(NewError(SemaArrayBounds, span(1, 4, 5), "c")) {
		// Merge raised the cap to the merged total; one more still fits only
		// if cap grew past the original 1.
		t.Fatalf("Add after Merge dropped")
	}
}

func TestBagSortOrder(t *testing.T) {
	bag := NewBag(8)
	bag.Add(NewError(SemaTypeMismatch, span(2, 0, 1), "later file"))
	bag.Add(New(SevWarning, SemaShadowedDeclaration, span(1, 5, 6), "warning at 5"))
	bag.Add(NewError(SemaUndefinedSymbol, span(1, 5, 6), "error at 5"))
	bag.Add(NewError(SemaDuplicateSymbol, span(1, 0, 1), "error at 0"))
	bag.Sort()

	items := bag.Items()
	if items[0].Message != "error at 0" {
		t.Fatalf("items[0] = %q, want %q", items[0].Message, "error at 0")
	}
	// Same span: error sorts before warning.
	if items[1].Message != "error at 5" {
		t.Fatalf("items[1] = %q, want %q", items[1].Message, "error at 5")
	}
	if items[2].Message != "warning at 5" {
		t.Fatalf("items[2] = %q, want %q", items[2].Message, "warning at 5")
	}
	if items[3].Message != "later file" {
		t.Fatalf("items[3] = %q, want %q", items[3].Message, "later file")
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(8)
	at := span(1, 4, 9)
	bag.Add(NewError(SemaUndefinedSymbol, at, "undefined symbol 'x'"))
	bag.Add(NewError(SemaUndefinedSymbol, at, "undefined symbol 'x'"))
	bag.Add(NewError(SemaUndefinedSymbol, span(1, 12, 13), "undefined symbol 'y'"))
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("deduped Len = %d, want 2", bag.Len())
	}
}

func TestReportBuilderEmitOnce(t *testing.T) {
	bag := NewBag(4)
	r := BagReporter{Bag: bag}
	rb := ReportError(r, SemaImportNotFound, span(1, 0, 4), "module 'Utils' has no export 'random'").
		WithNote(span(1, 0, 4), "imported here").
		WithHelp("did you mean 'getRandom'?")
	rb.Emit()
	rb.Emit()
	if bag.Len() != 1 {
		t.Fatalf("Len = %d after double Emit, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != SemaImportNotFound {
		t.Fatalf("Code = %v, want SemaImportNotFound", d.Code)
	}
	if len(d.Notes) != 1 || len(d.Help) != 1 {
		t.Fatalf("Notes/Help = %d/%d, want 1/1", len(d.Notes), len(d.Help))
	}
}

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{SemaUndefinedSymbol, "SEM3001"},
		{SemaCircularDependency, "SEM3014"},
		{IOLoadFileError, "IO4001"},
		{ProjManifestError, "PRJ5001"},
		{ObsTimings, "OBS6001"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Fatalf("ID(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(8)
	r := NewDedupReporter(BagReporter{Bag: bag})
	d := NewError(SemaTypeMismatch, span(1, 0, 3), "type mismatch: expected byte, found word")
	r.Report(d)
	r.Report(d)
	if bag.Len() != 1 {
		t.Fatalf("Len = %d, want 1", bag.Len())
	}
}
