package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"blend65/internal/driver"
)

// PrettySummary prints the aggregate footer of a run. cached marks a
// summary replayed from the batch cache.
func PrettySummary(w io.Writer, s *driver.SummaryPayload, cached bool, opts PrettyOpts) {
	if s == nil {
		return
	}

	name := s.Package
	if name == "" {
		name = "batch"
	}
	head := fmt.Sprintf("%s: %s, %s", name,
		countNoun(s.Units, "unit"), countNoun(s.TotalSymbols, "symbol"))
	if s.ElapsedMS > 0 {
		head += fmt.Sprintf(" in %.1f ms", s.ElapsedMS)
	}
	if cached {
		head += " (cached)"
	}
	fmt.Fprintln(w, head)

	if s.Failed {
		fmt.Fprintln(w, newColor(opts.Color, color.FgRed, color.Bold).Sprint("analysis failed"))
	}

	errs := countNoun(s.Errors, "error")
	if s.Errors > 0 {
		errs = newColor(opts.Color, color.FgRed, color.Bold).Sprint(errs)
	}
	warns := countNoun(s.Warnings, "warning")
	if s.Warnings > 0 {
		warns = newColor(opts.Color, color.FgYellow, color.Bold).Sprint(warns)
	}
	fmt.Fprintf(w, "%s, %s\n", errs, warns)

	fmt.Fprintf(w, "coverage %.1f%%, quality %.1f\n", s.Coverage, s.Quality)
	if s.ZeroPageCandidates > 0 || s.InlineCandidates > 0 {
		fmt.Fprintf(w, "zero page candidates %d, inline candidates %d\n",
			s.ZeroPageCandidates, s.InlineCandidates)
	}
}

func countNoun(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
