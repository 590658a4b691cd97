package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"blend65/internal/diag"
	"blend65/internal/diagfmt"
	"blend65/internal/driver"
	"blend65/internal/project"
	"blend65/internal/symbols"
	"blend65/internal/types"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols [flags] <unit.json...|directory>",
	Short: "Build and print the symbol table without running full analysis",
	Long:  `Resolve modules and collect declarations only, then print each module's symbols and exports. Type checking and optimization planning are skipped`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSymbols,
}

func init() {
	symbolsCmd.Flags().Int("jobs", 0, "max parallel workers for unit loading (0=auto)")
	symbolsCmd.Flags().Bool("exports", false, "print only exported names")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	exportsOnly, err := cmd.Flags().GetBool("exports")
	if err != nil {
		return fmt.Errorf("failed to get exports flag: %w", err)
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
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
		Package:  manifest.Package.Name,
	}

	batch, table, diags, err := driver.BuildSymbolTable(cmd.Context(), files, opts)
	if err != nil {
		return fmt.Errorf("symbol table build failed: %w", err)
	}

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	diagfmt.Pretty(os.Stdout, diags, batch.FileSet, diagfmt.PrettyOpts{
		Color:   useColor,
		Context: 2,
	})

	printSymbolTable(os.Stdout, table, exportsOnly)
	if !quiet {
		fmt.Fprintf(os.Stdout, "\n%s, %s\n",
			countNoun(len(table.ModulePaths()), "module"),
			countNoun(table.Symbols.Len(), "symbol"))
	}

	for i := range diags {
		if diags[i].Severity >= diag.SevError {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return fmt.Errorf("")
		}
	}
	return nil
}

func printSymbolTable(w io.Writer, table *symbols.Table, exportsOnly bool) {
	for idx, path := range table.ModulePaths() {
		if idx > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "module %s\n", path)
		if !exportsOnly {
			if scopeID, ok := table.ModuleScope(path); ok {
				scope := table.Scopes.Get(scopeID)
				for _, symID := range scope.Symbols {
					sym := table.Symbols.Get(symID)
					fmt.Fprintf(w, "  %-8s %s\n", sym.Kind, describeSymbol(table, symID, sym))
				}
			}
		}
		if ex, ok := table.Exports(path); ok {
			if names := ex.Names(); len(names) > 0 {
				fmt.Fprintf(w, "  exports: %s\n", strings.Join(names, ", "))
			}
		}
	}
}

// describeSymbol renders the per-kind payload after the symbol name:
// type and storage for variables, the signature for functions, the
// member count for enums, the underlying type for type aliases.
func describeSymbol(table *symbols.Table, id symbols.SymbolID, sym *symbols.Symbol) string {
	var b strings.Builder
	b.WriteString(table.SymbolName(id))
	switch sym.Kind {
	case symbols.SymbolVariable:
		if sym.Type != nil {
			b.WriteString(": ")
			b.WriteString(sym.Type.String())
		}
		if sym.Storage != types.StorageNone {
			b.WriteString(" [")
			b.WriteString(sym.Storage.String())
			b.WriteString("]")
		}
	case symbols.SymbolFunction:
		if sym.Signature != nil {
			b.WriteString(sym.Signature.String())
		}
	case symbols.SymbolEnum:
		fmt.Fprintf(&b, " (%s)", countNoun(len(sym.Members), "member"))
	case symbols.SymbolType:
		if sym.Type != nil {
			b.WriteString(" = ")
			b.WriteString(sym.Type.String())
		}
	}
	if sym.IsImported() && sym.ModulePath != "" {
		fmt.Fprintf(&b, " (from %s)", sym.ModulePath)
	}
	return b.String()
}
