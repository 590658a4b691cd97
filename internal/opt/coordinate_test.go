package opt

import (
	"testing"

	"blend65/internal/types"
)

func scansFrom(edges map[string][]CallSite) map[string]*FunctionScan {
	scans := make(map[string]*FunctionScan, len(edges))
	for name, calls := range edges {
		scans[name] = &FunctionScan{Calls: calls}
	}
	return scans
}

func TestCallGraphReachable(t *testing.T) {
	scans := scansFrom(map[string][]CallSite{
		"main":   {{Callee: "update"}, {Callee: "draw", InLoop: true}},
		"update": {{Callee: "draw"}},
		"draw":   {},
		"debug":  {{Callee: "draw"}},
	})
	g := BuildCallGraph(scans)

	reached := g.Reachable("main")
	for _, name := range []string{"main", "update", "draw"} {
		if !reached[name] {
			t.Errorf("%s not reached from main", name)
		}
	}
	if reached["debug"] {
		t.Error("debug reached from main")
	}
}

func TestCallGraphRecursion(t *testing.T) {
	scans := scansFrom(map[string][]CallSite{
		"self": {{Callee: "self"}},
		"ping": {{Callee: "pong"}},
		"pong": {{Callee: "ping"}},
		"leaf": {},
		"top":  {{Callee: "leaf"}},
	})
	rec := BuildCallGraph(scans).Recursive()

	for _, name := range []string{"self", "ping", "pong"} {
		if !rec[name] {
			t.Errorf("%s not marked recursive", name)
		}
	}
	for _, name := range []string{"leaf", "top"} {
		if rec[name] {
			t.Errorf("%s wrongly marked recursive", name)
		}
	}
}

func TestAggregateUsage(t *testing.T) {
	scans := scansFrom(map[string][]CallSite{
		"main": {
			{Callee: "step", InLoop: true},
			{Callee: "step", InLoop: true, Hot: true},
			{Callee: "init"},
		},
		"init": {{Callee: "step"}},
		"step": {{Callee: "step", InLoop: true}},
	})
	usage := AggregateUsage(scans)

	step := usage["step"]
	if step.CallCount != 4 {
		t.Errorf("step calls = %d, want 4", step.CallCount)
	}
	if step.LoopCalls != 3 {
		t.Errorf("step loop calls = %d, want 3", step.LoopCalls)
	}
	if step.HotPathCalls != 1 {
		t.Errorf("step hot calls = %d, want 1", step.HotPathCalls)
	}
	if !step.Recursive {
		t.Error("self-calling step not marked recursive")
	}
	if usage["init"].Recursive {
		t.Error("init wrongly marked recursive")
	}
	if usage["init"].CallCount != 1 {
		t.Errorf("init calls = %d, want 1", usage["init"].CallCount)
	}
}

func hotByte(name string) VariableFacts {
	return byteFacts(name, VariableUsage{
		Reads: 10, Writes: 4, LoopUses: 8, ArithUses: 6, FirstUse: 1, LastUse: 4,
	})
}

func TestPlanZeroPageBudget(t *testing.T) {
	vars := []VariableFacts{
		hotByte("a"),
		hotByte("b"),
		hotByte("c"),
	}
	plan := PlanZeroPage(vars, 2, DefaultZeroPageWeights())

	if len(plan.Placed) != 2 {
		t.Fatalf("placed = %d, want 2", len(plan.Placed))
	}
	if len(plan.Rejected) != 1 {
		t.Fatalf("rejected = %d, want 1", len(plan.Rejected))
	}
	if plan.BytesUsed != 2 {
		t.Errorf("bytes used = %d, want 2", plan.BytesUsed)
	}
	if p := plan.Pressure(); p != 1 {
		t.Errorf("pressure = %v, want 1", p)
	}
	// Equal scores fall back to name order.
	if plan.Placed[0].Name != "a" || plan.Placed[1].Name != "b" {
		t.Errorf("placement order: %s, %s", plan.Placed[0].Name, plan.Placed[1].Name)
	}
}

func TestPlanZeroPageReservesDeclared(t *testing.T) {
	declared := VariableFacts{
		Name:    "fast",
		Type:    types.NewArray(types.Byte, 3),
		Storage: types.StorageZeroPage,
	}
	plan := PlanZeroPage([]VariableFacts{declared, hotByte("v")}, 4, DefaultZeroPageWeights())

	if plan.Reserved != 3 {
		t.Errorf("reserved = %d, want 3", plan.Reserved)
	}
	for _, p := range plan.Placed {
		if p.Name == "fast" {
			t.Error("declared zp variable competed for promotion")
		}
	}
	if len(plan.Placed) != 1 || plan.Placed[0].Name != "v" {
		t.Errorf("placed = %+v, want just v", plan.Placed)
	}
}

func TestPlanZeroPageSkipsWeakCandidates(t *testing.T) {
	weak := VariableFacts{
		Name:    "lut",
		Type:    types.NewArray(types.Byte, 100),
		Storage: types.StorageConst,
		Usage:   VariableUsage{Reads: 1, FirstUse: 1, LastUse: 1},
	}
	plan := PlanZeroPage([]VariableFacts{weak}, 256, DefaultZeroPageWeights())
	if len(plan.Placed) != 0 {
		t.Errorf("weak candidate placed: %+v", plan.Placed)
	}
	if len(plan.Rejected) != 1 {
		t.Errorf("rejected = %d, want 1", len(plan.Rejected))
	}
}

func mediumByte(name string) VariableFacts {
	return byteFacts(name, VariableUsage{
		Reads: 3, Writes: 1, LoopUses: 2, FirstUse: 1, LastUse: 4,
	})
}

func TestPlanZeroPagePressureFeedback(t *testing.T) {
	vars := make([]VariableFacts, 0, 8)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		vars = append(vars, mediumByte(name))
	}
	plan := PlanZeroPage(vars, 16, DefaultZeroPageWeights())

	if len(plan.Placed) != 8 {
		t.Fatalf("placed = %d, want 8", len(plan.Placed))
	}
	first := plan.Placed[0].Score.Score
	last := plan.Placed[7].Score.Score
	if last >= first {
		t.Errorf("pressure did not drop later scores: first=%d last=%d", first, last)
	}
}

func TestPlanZeroPagePressureCanReject(t *testing.T) {
	reserved := VariableFacts{
		Name:    "buffers",
		Type:    types.NewArray(types.Byte, 95),
		Storage: types.StorageZeroPage,
	}
	plan := PlanZeroPage([]VariableFacts{reserved, mediumByte("v")}, 100, DefaultZeroPageWeights())

	if len(plan.Placed) != 0 {
		t.Errorf("placed under heavy pressure: %+v", plan.Placed)
	}
	if len(plan.Rejected) != 1 {
		t.Fatalf("rejected = %d, want 1", len(plan.Rejected))
	}
	if plan.Rejected[0].Score.Recommendation.Positive() {
		t.Errorf("rejected candidate still positive: %+v", plan.Rejected[0].Score)
	}
}

func TestAssignRegisters(t *testing.T) {
	scores := map[string]*RegisterScore{
		"speed": {Preferred: RegisterA, Score: 90, Recommendation: StronglyRecommended},
		"delta": {Preferred: RegisterA, Score: 70, Recommendation: Recommended},
		"i":     {Preferred: RegisterX, Score: 75, Recommendation: Recommended},
		"addr":  {Preferred: RegisterZeroPage, Score: 65, Recommendation: Recommended},
		"tmp":   {Preferred: RegisterY, Score: 30, Recommendation: Discouraged},
	}
	assigned := AssignRegisters(scores, nil)

	if assigned[RegisterA] != "speed" {
		t.Errorf("A = %q, want speed", assigned[RegisterA])
	}
	if assigned[RegisterX] != "i" {
		t.Errorf("X = %q, want i", assigned[RegisterX])
	}
	if _, ok := assigned[RegisterY]; ok {
		t.Error("discouraged candidate won Y")
	}
	if _, ok := assigned[RegisterZeroPage]; ok {
		t.Error("zero page treated as a physical register")
	}
	if got := scores["delta"].InterferesWith; len(got) != 1 || got[0] != "speed" {
		t.Errorf("delta interference = %v, want [speed]", got)
	}
}
