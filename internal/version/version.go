package version

import "github.com/fatih/color"

// Build metadata for the blend65 CLI. The Git* and BuildDate values
// stay empty unless injected at link time via -ldflags.

var (
	majorColor = color.New(color.FgCyan, color.Bold)
	minorColor = color.New(color.FgMagenta, color.Bold)
	patchColor = color.New(color.FgWhite, color.Bold)

	// Version is the semantic version of the CLI.
	Version = semver(0, 1, 0) + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

func semver(major, minor, patch int) string {
	return majorColor.Sprintf("%d", major) + "." +
		minorColor.Sprintf("%d", minor) + "." +
		patchColor.Sprintf("%d", patch)
}
