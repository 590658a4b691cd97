package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"blend65/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "blend65",
	Short: "Blend65 semantic analyzer and optimization planner",
	Long:  `Blend65 analyzes serialized compilation units: it resolves modules and symbols, checks types, and plans zero page and register placement for 6502-family targets`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
