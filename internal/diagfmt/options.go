package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	// Context is the number of source lines shown around the primary
	// line; negative disables the preview entirely.
	Context   int
	ShowNotes bool
	ShowHelp  bool
}

// JSONOpts configures JSON output of diagnostics and reports.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	// Max caps the emitted diagnostics without touching the source
	// slice; 0 means no cap.
	Max          int
	IncludeNotes bool
	IncludeHelp  bool
	Indent       bool
}
