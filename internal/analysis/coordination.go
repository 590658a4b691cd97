package analysis

import (
	"sort"

	"blend65/internal/opt"
)

// runCoordination is the cross-symbol phase: it plans the zero page,
// marks register interference, assigns the three CPU registers, and
// derives the call graph with its recursion report. An internal fault
// here degrades to an empty result instead of failing the batch; the
// per-symbol metadata from the earlier phases stays valid either way.
func (o *Orchestrator) runCoordination() (coord CoordinationAnalysis) {
	defer func() {
		if recover() != nil {
			coord = CoordinationAnalysis{Degraded: true}
		}
	}()
	return o.coordinate()
}

func (o *Orchestrator) coordinate() CoordinationAnalysis {
	vars := o.variables.vars
	facts := make([]opt.VariableFacts, 0, len(vars))
	for _, v := range vars {
		facts = append(facts, v.Facts)
	}
	// A reserve covering the whole page leaves nothing to plan; the
	// planner reads budget 0 as "use the default", so guard here.
	var plan opt.ZeroPagePlan
	if budget := o.zeroPageBudget(); budget > 0 {
		plan = opt.PlanZeroPage(facts, budget, o.opts.Weights.ZeroPage)
	}

	strategies := make([]opt.FunctionRegisterStrategy, 0, len(o.functions.funcs))
	for _, info := range o.functions.funcs {
		if info.Scan != nil {
			strategies = append(strategies, opt.StrategyFor(info.Label, info.Metrics, info.Scan))
		}
	}
	// Scores point into the collected infos so interference marks land
	// in the result bundle.
	scores := make(map[string]*opt.RegisterScore, len(vars))
	for _, v := range vars {
		scores[v.Label] = &v.Register
	}
	registers := opt.AssignRegisters(scores, strategies)

	graph := opt.BuildCallGraph(o.functions.scans())
	callGraph := make(map[string][]string, len(o.functions.funcs))
	var recursive []string
	for _, info := range o.functions.funcs {
		if info.Scan == nil {
			continue
		}
		callGraph[info.Label] = graph.Callees(info.Label)
	}
	for label, rec := range graph.Recursive() {
		if rec {
			recursive = append(recursive, label)
		}
	}
	sort.Strings(recursive)

	return CoordinationAnalysis{
		ZeroPage:  plan,
		Registers: registers,
		CallGraph: callGraph,
		Recursive: recursive,
	}
}

// zeroPageBudget applies the configured reserve to the configured
// budget. Zero budget means the whole page.
func (o *Orchestrator) zeroPageBudget() int {
	budget := o.opts.ZeroPageBudget
	if budget <= 0 {
		budget = opt.ZeroPageCapacity
	}
	budget -= o.opts.ZeroPageReserved
	if budget < 0 {
		budget = 0
	}
	return budget
}
