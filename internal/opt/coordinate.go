package opt

import (
	"sort"

	"blend65/internal/types"
)

// CallGraph is the caller→callee view over a batch of function scans.
// Edges are deduplicated; the raw sites stay available for stats.
type CallGraph struct {
	edges map[string][]string
	sites map[string][]CallSite
}

// BuildCallGraph assembles the graph from per-function scans keyed by
// function name.
func BuildCallGraph(scans map[string]*FunctionScan) *CallGraph {
	g := &CallGraph{
		edges: make(map[string][]string, len(scans)),
		sites: make(map[string][]CallSite, len(scans)),
	}
	for name, scan := range scans {
		seen := make(map[string]bool)
		var edges []string
		for _, site := range scan.Calls {
			g.sites[name] = append(g.sites[name], site)
			if !seen[site.Callee] {
				seen[site.Callee] = true
				edges = append(edges, site.Callee)
			}
		}
		sort.Strings(edges)
		g.edges[name] = edges
	}
	return g
}

// Callees returns the deduplicated callee list for one function.
func (g *CallGraph) Callees(name string) []string {
	return g.edges[name]
}

// Reachable walks the graph from the given roots with a worklist and
// returns every function name reached, roots included.
func (g *CallGraph) Reachable(roots ...string) map[string]bool {
	reached := make(map[string]bool, len(roots))
	work := make([]string, 0, len(roots))
	for _, root := range roots {
		if !reached[root] {
			reached[root] = true
			work = append(work, root)
		}
	}
	for len(work) > 0 {
		fn := work[0]
		work = work[1:]
		for _, callee := range g.edges[fn] {
			if !reached[callee] {
				reached[callee] = true
				work = append(work, callee)
			}
		}
	}
	return reached
}

// Recursive reports which scanned functions can reach themselves,
// covering both direct and mutual recursion.
func (g *CallGraph) Recursive() map[string]bool {
	out := make(map[string]bool, len(g.edges))
	for name, callees := range g.edges {
		if len(callees) == 0 {
			continue
		}
		if g.Reachable(callees...)[name] {
			out[name] = true
		}
	}
	return out
}

// AggregateUsage folds every scan's call sites into per-callee usage
// counts and marks recursion from the graph. Only functions that were
// scanned get an entry; calls to unscanned names still count toward
// the callee's totals when the callee itself was scanned.
func AggregateUsage(scans map[string]*FunctionScan) map[string]FunctionUsage {
	usage := make(map[string]FunctionUsage, len(scans))
	for name := range scans {
		usage[name] = FunctionUsage{}
	}
	for _, scan := range scans {
		for _, site := range scan.Calls {
			u, ok := usage[site.Callee]
			if !ok {
				continue
			}
			u.CallCount++
			if site.InLoop {
				u.LoopCalls++
			}
			if site.Hot {
				u.HotPathCalls++
			}
			usage[site.Callee] = u
		}
	}
	for name, recursive := range BuildCallGraph(scans).Recursive() {
		u := usage[name]
		u.Recursive = u.Recursive || recursive
		usage[name] = u
	}
	return usage
}

// PlannedVariable is one zero-page placement decision.
type PlannedVariable struct {
	Name  string
	Size  int
	Score ZeroPageScore
}

// ZeroPagePlan is the outcome of the greedy budget fill: who got a
// slot, who competed and lost, and how full the page ended up.
type ZeroPagePlan struct {
	Budget    int
	Reserved  int
	BytesUsed int
	Placed    []PlannedVariable
	Rejected  []PlannedVariable
}

// Pressure is the fraction of the budget claimed so far, in [0,1].
func (p ZeroPagePlan) Pressure() float64 {
	if p.Budget <= 0 {
		return 1
	}
	used := float64(p.Reserved + p.BytesUsed)
	if used >= float64(p.Budget) {
		return 1
	}
	return used / float64(p.Budget)
}

// PlanZeroPage runs the greedy zero-page allocation. Variables already
// declared zp claim their bytes up front as Reserved. The remaining
// candidates are scored, sorted best first, and admitted while they
// fit and stay recommended; each admission raises the capacity
// pressure fed into every later score.
func PlanZeroPage(vars []VariableFacts, budget int, w ZeroPageWeights) ZeroPagePlan {
	if budget <= 0 {
		budget = ZeroPageCapacity
	}
	plan := ZeroPagePlan{Budget: budget}

	var candidates []VariableFacts
	for _, f := range vars {
		if f.Storage == types.StorageZeroPage {
			if size := f.Size(); size > 0 {
				plan.Reserved += size
			}
			continue
		}
		if f.Size() > 0 {
			candidates = append(candidates, f)
		}
	}

	// Initial ranking without pressure so the order is stable.
	initial := make(map[string]int, len(candidates))
	for _, f := range candidates {
		initial[f.Name] = ScoreZeroPage(f, w).Score
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := initial[candidates[i].Name], initial[candidates[j].Name]
		if si != sj {
			return si > sj
		}
		return candidates[i].Name < candidates[j].Name
	})

	for _, f := range candidates {
		f.ZeroPagePressure = plan.Pressure()
		score := ScoreZeroPage(f, w)
		size := f.Size()
		planned := PlannedVariable{Name: f.Name, Size: size, Score: score}
		fits := plan.Reserved+plan.BytesUsed+size <= budget
		if score.Recommendation.Positive() && fits {
			plan.BytesUsed += size
			plan.Placed = append(plan.Placed, planned)
		} else {
			plan.Rejected = append(plan.Rejected, planned)
		}
	}
	return plan
}

// AssignRegisters picks the winning candidate per physical register
// after interference has been marked: the highest positive score wins,
// ties broken by name.
func AssignRegisters(scores map[string]*RegisterScore, strategies []FunctionRegisterStrategy) map[Register]string {
	MarkInterference(scores, strategies)

	assigned := make(map[Register]string)
	best := make(map[Register]int)
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sc := scores[name]
		if !sc.Preferred.Physical() || !sc.Recommendation.Positive() {
			continue
		}
		if _, taken := assigned[sc.Preferred]; !taken || sc.Score > best[sc.Preferred] {
			assigned[sc.Preferred] = name
			best[sc.Preferred] = sc.Score
		}
	}
	return assigned
}
