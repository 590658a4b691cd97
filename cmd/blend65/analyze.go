package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"blend65/internal/diag"
	"blend65/internal/diagfmt"
	"blend65/internal/driver"
	"blend65/internal/project"
	"blend65/internal/source"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <unit.json...|directory>",
	Short: "Run semantic analysis over serialized units",
	Long:  `Run the full analysis pipeline over serialized compilation units or every *.json unit beneath a directory: module resolution, declaration collection, type checking, and optimization planning`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	analyzeCmd.Flags().Bool("progress", false, "render live phase progress while analyzing")
	analyzeCmd.Flags().Int("jobs", 0, "max parallel workers for unit loading (0=auto)")
	analyzeCmd.Flags().Bool("cache", false, "reuse cached summaries for unchanged batches")
	analyzeCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	analyzeCmd.Flags().Bool("suggest", false, "include help suggestions in output")
	analyzeCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
		// supported
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	progress, err := cmd.Flags().GetBool("progress")
	if err != nil {
		return fmt.Errorf("failed to get progress flag: %w", err)
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}

	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}

	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}

	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	files, err := collectUnitFiles(args)
	if err != nil {
		return err
	}

	manifest, err := project.LoadOrDefault(".")
	if err != nil {
		return err
	}

	opts := driver.Options{
		Analysis: manifest.AnalysisOptions(),
		Jobs:     jobs,
		Timings:  showTimings,
		Package:  manifest.Package.Name,
	}
	// The flag wins over the manifest only when the user set it.
	if cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		opts.Analysis.MaxDiagnostics = maxDiagnostics
	}
	if useCache {
		cache, cacheErr := driver.OpenSummaryCache("blend65")
		if cacheErr != nil {
			return fmt.Errorf("failed to open summary cache: %w", cacheErr)
		}
		opts.Cache = cache
	}

	var out *driver.Outcome
	if progress && !quiet {
		title := fmt.Sprintf("blend65 analyze (%s)", countNoun(len(files), "unit"))
		out, err = runAnalyzeWithUI(cmd.Context(), title, files, opts)
	} else {
		out, err = driver.AnalyzeFiles(cmd.Context(), files, opts)
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch format {
	case "pretty":
		prettyOpts := diagfmt.PrettyOpts{
			Color:     useColor,
			Context:   2,
			PathMode:  pathMode,
			ShowNotes: withNotes,
			ShowHelp:  suggest,
		}
		diagfmt.Pretty(os.Stdout, out.Diagnostics, outcomeFileSet(out), prettyOpts)
		if !quiet && out.Summary != nil {
			diagfmt.PrettySummary(os.Stdout, out.Summary, out.CacheHit, prettyOpts)
		}
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
			IncludeHelp:      suggest,
			Indent:           true,
		}
		if err := diagfmt.Report(os.Stdout, out, jsonOpts); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	}

	if analysisFailed(out) {
		// Diagnostics are already printed; suppress the usage dump.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

// collectUnitFiles expands directory arguments into their unit files and
// passes file arguments through unchanged.
func collectUnitFiles(args []string) ([]string, error) {
	files := make([]string, 0, len(args))
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path: %w", err)
		}
		if !st.IsDir() {
			files = append(files, arg)
			continue
		}
		listed, err := driver.ListUnitFiles(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, listed...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no unit files found")
	}
	return files, nil
}

func analysisFailed(out *driver.Outcome) bool {
	if out.Summary != nil && out.Summary.Failed {
		return true
	}
	for i := range out.Diagnostics {
		if out.Diagnostics[i].Severity >= diag.SevError {
			return true
		}
	}
	return false
}

func outcomeFileSet(out *driver.Outcome) *source.FileSet {
	if out.Batch == nil {
		return nil
	}
	return out.Batch.FileSet
}

func countNoun(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
