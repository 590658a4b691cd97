package opt

import (
	"testing"

	"blend65/internal/ast"
	"blend65/internal/types"
)

func TestRegisterArithPrefersAccumulator(t *testing.T) {
	f := byteFacts("sum", VariableUsage{
		Reads: 6, Writes: 2, ArithUses: 5, FirstUse: 1, LastUse: 9,
	})
	got := ScoreRegister(f)
	if got.Preferred != RegisterA {
		t.Fatalf("preferred = %s, want A", got.Preferred)
	}
	if !got.Recommendation.Positive() {
		t.Errorf("accumulator candidate not recommended: %d", got.Score)
	}
}

func TestRegisterIndexPrefersX(t *testing.T) {
	f := byteFacts("i", VariableUsage{
		Reads: 5, Writes: 2, IndexUses: 4, FirstUse: 1, LastUse: 6,
	})
	if got := ScoreRegister(f); got.Preferred != RegisterX {
		t.Errorf("preferred = %s, want X", got.Preferred)
	}
}

func TestRegisterLoopCounterPrefersY(t *testing.T) {
	f := byteFacts("j", VariableUsage{
		Reads: 3, Writes: 1, LoopUses: 3, FirstUse: 1, LastUse: 4,
	})
	if got := ScoreRegister(f); got.Preferred != RegisterY {
		t.Errorf("preferred = %s, want Y", got.Preferred)
	}
}

func TestRegisterWideVariableFallsBack(t *testing.T) {
	addr := VariableFacts{
		Name:  "addr",
		Type:  types.Word,
		Usage: VariableUsage{Reads: 4, LoopUses: 2, FirstUse: 1, LastUse: 3},
	}
	got := ScoreRegister(addr)
	if got.Preferred != RegisterZeroPage {
		t.Errorf("loop-used word preferred = %s, want zero_page", got.Preferred)
	}

	table := VariableFacts{
		Name:  "table",
		Type:  types.NewArray(types.Byte, 32),
		Usage: VariableUsage{Reads: 2, FirstUse: 1, LastUse: 2},
	}
	got = ScoreRegister(table)
	if got.Preferred != RegisterMemory {
		t.Errorf("array preferred = %s, want memory", got.Preferred)
	}
	if got.Preferred.Physical() {
		t.Error("memory counted as a physical register")
	}
}

func TestRegisterNoEvidence(t *testing.T) {
	quiet := byteFacts("flag", VariableUsage{Reads: 1, FirstUse: 1, LastUse: 1})
	got := ScoreRegister(quiet)
	if got.Preferred.Physical() {
		t.Errorf("unpatterned variable got a register: %s", got.Preferred)
	}
	if got.Recommendation.Positive() {
		t.Errorf("unpatterned variable recommended: %d", got.Score)
	}
}

func TestRegisterHardwarePenalty(t *testing.T) {
	clean := byteFacts("v", VariableUsage{Reads: 4, ArithUses: 3, FirstUse: 1, LastUse: 3})
	dirty := clean
	dirty.Usage.HardwareAccess = true

	a := ScoreRegister(clean)
	b := ScoreRegister(dirty)
	if b.Score >= a.Score {
		t.Errorf("hardware access did not lower score: %d vs %d", b.Score, a.Score)
	}
}

func TestMarkInterference(t *testing.T) {
	scores := map[string]*RegisterScore{
		"speed": {Preferred: RegisterA, Score: 90, Recommendation: StronglyRecommended},
		"delta": {Preferred: RegisterA, Score: 80, Recommendation: StronglyRecommended},
		"i":     {Preferred: RegisterX, Score: 70, Recommendation: Recommended},
	}
	strategies := []FunctionRegisterStrategy{
		{Name: "init", Uses: []Register{RegisterA}},
	}
	MarkInterference(scores, strategies)

	want := []string{"delta", "function init"}
	got := scores["speed"].InterferesWith
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("speed interference = %v, want %v", got, want)
	}
	if len(scores["i"].InterferesWith) != 0 {
		t.Errorf("i interference = %v, want none", scores["i"].InterferesWith)
	}
}

func TestStrategyFor(t *testing.T) {
	decl := fn("render",
		while(&ast.BooleanLit{Value: true},
			assign(
				&ast.IndexExpr{Base: id("screen"), Index: id("i")},
				&ast.BinaryExpr{Op: ast.OpAdd, Left: id("c"), Right: num(1)},
			),
		),
	)
	scan := ScanFunction(decl)
	m := ComputeFunctionMetrics(decl)
	strat := StrategyFor("render", m, scan)

	for _, want := range []Register{RegisterX, RegisterA, RegisterY} {
		if !strat.uses(want) {
			t.Errorf("strategy missing %s: %v", want, strat.Uses)
		}
	}
}
