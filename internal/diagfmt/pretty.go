package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"blend65/internal/diag"
	"blend65/internal/source"
)

// Pretty writes diagnostics in a compact human-readable form, one
// block per diagnostic:
//
//	src/game.bl:3:14: ERROR SEM3004: type mismatch: expected byte, found word
//	    3 | poke(border, score)
//	      |              ^~~~~
//	  note: score declared as word here (src/game.bl:1:5)
//	  help: mask the value with & 255 first
//
// Diagnostics print in slice order; callers sort beforehand.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	for i := range diags {
		printDiagnostic(w, &diags[i], fs, opts)
	}
}

func printDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := severityColor(d.Severity, opts.Color).Sprint(d.Severity.String())
	code := newColor(opts.Color, color.Bold).Sprint(d.Code.ID())

	if loc, ok := formatLocation(fs, d.Primary, opts.PathMode); ok {
		fmt.Fprintf(w, "%s: %s %s: %s\n", loc, sev, code, d.Message)
		if opts.Context >= 0 {
			printPreview(w, fs, d.Primary, opts)
		}
	} else {
		fmt.Fprintf(w, "%s %s: %s\n", sev, code, d.Message)
	}

	if opts.ShowNotes {
		for _, note := range d.Notes {
			if loc, ok := formatLocation(fs, note.Span, opts.PathMode); ok {
				fmt.Fprintf(w, "  note: %s (%s)\n", note.Msg, loc)
			} else {
				fmt.Fprintf(w, "  note: %s\n", note.Msg)
			}
		}
	}
	if opts.ShowHelp {
		for _, help := range d.Help {
			fmt.Fprintf(w, "  help: %s\n", help)
		}
	}
}

// formatLocation renders "path:line:col" for a span, or ok=false for
// diagnostics without a real location (zero span, or a span pointing
// outside the set).
func formatLocation(fs *source.FileSet, span source.Span, mode PathMode) (string, bool) {
	if fs == nil || span == (source.Span{}) || int(span.File) >= fs.Len() {
		return "", false
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs, span.File, mode), start.Line, start.Col), true
}

func formatPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

// printPreview shows the primary line with a caret underline, plus
// opts.Context lines of surrounding source.
func printPreview(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts) {
	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)

	firstLine := start.Line
	if ctx := uint32(opts.Context); ctx < firstLine {
		firstLine -= ctx
	} else {
		firstLine = 1
	}
	lastLine := start.Line + uint32(opts.Context)

	gutter := len(fmt.Sprintf("%d", lastLine))
	for line := firstLine; line <= lastLine; line++ {
		text := file.GetLine(line)
		if text == "" && line > start.Line {
			break
		}
		display := strings.ReplaceAll(text, "\t", " ")
		fmt.Fprintf(w, "  %*d | %s\n", gutter, line, display)
		if line == start.Line {
			printCaret(w, gutter, display, start.Col, span.Len(), opts)
		}
	}
}

func printCaret(w io.Writer, gutter int, line string, col uint32, length uint32, opts PrettyOpts) {
	prefixEnd := int(col) - 1
	if prefixEnd > len(line) {
		prefixEnd = len(line)
	}
	pad := runewidth.StringWidth(line[:prefixEnd])

	underlineEnd := prefixEnd + int(length)
	if underlineEnd > len(line) {
		underlineEnd = len(line)
	}
	width := runewidth.StringWidth(line[prefixEnd:underlineEnd])
	if width < 1 {
		width = 1
	}

	caret := "^" + strings.Repeat("~", width-1)
	caret = newColor(opts.Color, color.FgGreen, color.Bold).Sprint(caret)
	fmt.Fprintf(w, "  %*s | %s%s\n", gutter, "", strings.Repeat(" ", pad), caret)
}

func severityColor(sev diag.Severity, enabled bool) *color.Color {
	switch sev {
	case diag.SevError:
		return newColor(enabled, color.FgRed, color.Bold)
	case diag.SevWarning:
		return newColor(enabled, color.FgYellow, color.Bold)
	default:
		return newColor(enabled, color.FgCyan)
	}
}

// newColor builds a color that ignores the package-global NoColor
// detection, so output stays deterministic for a given opts.Color.
func newColor(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
