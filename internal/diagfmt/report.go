package diagfmt

import (
	"io"

	"blend65/internal/analysis"
	"blend65/internal/driver"
	"blend65/internal/observ"
	"blend65/internal/opt"
	"blend65/internal/source"
)

// ReportJSON is the comprehensive report emitted by --format json: run
// summary, module graph, per-symbol optimization metadata, zero-page
// plan, and the merged diagnostics. Detail sections stay empty when the
// run was served from the summary cache.
type ReportJSON struct {
	Package  string `json:"package,omitempty"`
	CacheHit bool   `json:"cache_hit,omitempty"`
	Failed   bool   `json:"failed"`
	Degraded bool   `json:"degraded,omitempty"`

	Summary   SummaryJSON       `json:"summary"`
	Modules   *ModulesJSON      `json:"modules,omitempty"`
	Variables []VariableJSON    `json:"variables,omitempty"`
	Functions []FunctionJSON    `json:"functions,omitempty"`
	ZeroPage  *ZeroPageJSON     `json:"zero_page,omitempty"`
	Registers map[string]string `json:"registers,omitempty"`

	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Timing      *observ.Report   `json:"timing,omitempty"`
}

// SummaryJSON is the aggregate metric block.
type SummaryJSON struct {
	TotalSymbols int     `json:"total_symbols"`
	Units        int     `json:"units"`
	Errors       int     `json:"errors"`
	Warnings     int     `json:"warnings"`
	Coverage     float64 `json:"optimization_coverage"`
	Quality      float64 `json:"quality_score"`
	ElapsedMS    float64 `json:"elapsed_ms"`
}

// ModulesJSON is the module graph view.
type ModulesJSON struct {
	Dependencies map[string][]string `json:"dependencies,omitempty"`
	Imports      map[string][]string `json:"imports,omitempty"`
	Exports      map[string][]string `json:"exports,omitempty"`
	Cycles       [][]string          `json:"cycles,omitempty"`
}

// ScoreJSON is one optimization verdict.
type ScoreJSON struct {
	Score          int      `json:"score"`
	Recommendation string   `json:"recommendation"`
	Reasons        []string `json:"reasons,omitempty"`
	Blockers       []string `json:"blockers,omitempty"`
}

// RegisterJSON is the register preference of a variable.
type RegisterJSON struct {
	Preferred      string `json:"preferred"`
	Score          int    `json:"score"`
	Recommendation string `json:"recommendation"`
}

// VariableJSON is one analyzed variable. Name is the batch-unique
// label; locals carry their function prefix.
type VariableJSON struct {
	Name     string       `json:"name"`
	Module   string       `json:"module"`
	Type     string       `json:"type"`
	Storage  string       `json:"storage"`
	Local    bool         `json:"local,omitempty"`
	Reads    int          `json:"reads"`
	Writes   int          `json:"writes"`
	LoopUses int          `json:"loop_uses,omitempty"`
	ZeroPage ScoreJSON    `json:"zero_page"`
	Register RegisterJSON `json:"register"`
}

// FunctionJSON is one analyzed function.
type FunctionJSON struct {
	Name      string    `json:"name"`
	Module    string    `json:"module"`
	Callback  bool      `json:"callback,omitempty"`
	Exported  bool      `json:"exported,omitempty"`
	Size      int       `json:"estimated_size"`
	CallCount int       `json:"call_count"`
	LoopCalls int       `json:"loop_calls,omitempty"`
	Recursive bool      `json:"recursive,omitempty"`
	Inline    ScoreJSON `json:"inline"`
}

// ZeroPageJSON is the zero-page allocation plan.
type ZeroPageJSON struct {
	Budget    int           `json:"budget"`
	Reserved  int           `json:"reserved"`
	BytesUsed int           `json:"bytes_used"`
	Placed    []PlannedJSON `json:"placed,omitempty"`
	Rejected  []PlannedJSON `json:"rejected,omitempty"`
}

// PlannedJSON is one variable in the zero-page plan.
type PlannedJSON struct {
	Name  string `json:"name"`
	Size  int    `json:"size"`
	Score int    `json:"score"`
}

// BuildReport converts a driver outcome into the report DTO.
func BuildReport(out *driver.Outcome, opts JSONOpts) ReportJSON {
	report := ReportJSON{
		CacheHit: out.CacheHit,
		Timing:   out.Timing,
	}

	report.Diagnostics = BuildDiagnosticsOutput(out.Diagnostics, outFileSet(out), opts).Diagnostics

	if out.Summary != nil {
		report.Package = out.Summary.Package
		report.Failed = out.Summary.Failed
		report.Summary = SummaryJSON{
			TotalSymbols: out.Summary.TotalSymbols,
			Units:        out.Summary.Units,
			Errors:       out.Summary.Errors,
			Warnings:     out.Summary.Warnings,
			Coverage:     out.Summary.Coverage,
			Quality:      out.Summary.Quality,
			ElapsedMS:    out.Summary.ElapsedMS,
		}
	}

	if res := out.Result; res != nil {
		report.Failed = res.Failed
		report.Degraded = res.Coordination.Degraded
		report.Modules = buildModules(res.Modules)
		report.Variables = buildVariables(res.Variables.Variables)
		report.Functions = buildFunctions(res.Functions.Functions)
		report.ZeroPage = buildZeroPage(res.Coordination.ZeroPage)
		report.Registers = buildRegisters(res.Coordination.Registers)
	}
	return report
}

// Report serializes the full outcome to w.
func Report(w io.Writer, out *driver.Outcome, opts JSONOpts) error {
	return encode(w, BuildReport(out, opts), opts)
}

func outFileSet(out *driver.Outcome) *source.FileSet {
	if out.Batch == nil {
		return nil
	}
	return out.Batch.FileSet
}

func buildModules(m analysis.ModuleAnalysis) *ModulesJSON {
	if len(m.Dependencies) == 0 && len(m.Imports) == 0 && len(m.Exports) == 0 && len(m.Cycles) == 0 {
		return nil
	}
	return &ModulesJSON{
		Dependencies: m.Dependencies,
		Imports:      m.Imports,
		Exports:      m.Exports,
		Cycles:       m.Cycles,
	}
}

func buildVariables(vars []*analysis.VariableInfo) []VariableJSON {
	if len(vars) == 0 {
		return nil
	}
	out := make([]VariableJSON, 0, len(vars))
	for _, v := range vars {
		vj := VariableJSON{
			Name:     v.Label,
			Module:   v.Module,
			Storage:  v.Storage.String(),
			Local:    v.Local,
			Reads:    v.Facts.Usage.Reads,
			Writes:   v.Facts.Usage.Writes,
			LoopUses: v.Facts.Usage.LoopUses,
			ZeroPage: ScoreJSON{
				Score:          v.ZeroPage.Score,
				Recommendation: v.ZeroPage.Recommendation.String(),
				Reasons:        v.ZeroPage.Reasons,
			},
			Register: RegisterJSON{
				Preferred:      v.Register.Preferred.String(),
				Score:          v.Register.Score,
				Recommendation: v.Register.Recommendation.String(),
			},
		}
		if v.Type != nil {
			vj.Type = v.Type.String()
		}
		out = append(out, vj)
	}
	return out
}

func buildFunctions(funcs []*analysis.FunctionInfo) []FunctionJSON {
	if len(funcs) == 0 {
		return nil
	}
	out := make([]FunctionJSON, 0, len(funcs))
	for _, f := range funcs {
		out = append(out, FunctionJSON{
			Name:      f.Label,
			Module:    f.Module,
			Callback:  f.Callback,
			Exported:  f.Exported,
			Size:      f.Metrics.EstimatedSize,
			CallCount: f.Usage.CallCount,
			LoopCalls: f.Usage.LoopCalls,
			Recursive: f.Usage.Recursive || f.Metrics.DirectlyRecursive,
			Inline: ScoreJSON{
				Score:          f.Inline.Score,
				Recommendation: f.Inline.Recommendation.String(),
				Reasons:        f.Inline.Reasons,
				Blockers:       f.Inline.Blockers,
			},
		})
	}
	return out
}

func buildZeroPage(plan opt.ZeroPagePlan) *ZeroPageJSON {
	if plan.Budget == 0 && len(plan.Placed) == 0 && len(plan.Rejected) == 0 {
		return nil
	}
	return &ZeroPageJSON{
		Budget:    plan.Budget,
		Reserved:  plan.Reserved,
		BytesUsed: plan.BytesUsed,
		Placed:    buildPlanned(plan.Placed),
		Rejected:  buildPlanned(plan.Rejected),
	}
}

func buildPlanned(vars []opt.PlannedVariable) []PlannedJSON {
	out := make([]PlannedJSON, 0, len(vars))
	for _, v := range vars {
		out = append(out, PlannedJSON{Name: v.Name, Size: v.Size, Score: v.Score.Score})
	}
	return out
}

func buildRegisters(regs map[opt.Register]string) map[string]string {
	if len(regs) == 0 {
		return nil
	}
	out := make(map[string]string, len(regs))
	for reg, name := range regs {
		out[reg.String()] = name
	}
	return out
}
