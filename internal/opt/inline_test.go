package opt

import (
	"strings"
	"testing"
)

func leafFacts(name string) FunctionFacts {
	return FunctionFacts{
		Name: name,
		Metrics: FunctionMetrics{
			NodeCount:     4,
			EstimatedSize: 18,
			ReturnCount:   1,
			Cyclomatic:    1,
			HasBody:       true,
		},
		Usage: FunctionUsage{CallCount: 1},
	}
}

func TestInlineTinyLeaf(t *testing.T) {
	got := ScoreInline(leafFacts("clamp"), DefaultInlineWeights())
	if len(got.Blockers) != 0 {
		t.Fatalf("unexpected blockers: %v", got.Blockers)
	}
	if got.Recommendation != StronglyRecommended {
		t.Errorf("tiny leaf: %d (%s), want strongly_recommended", got.Score, got.Recommendation)
	}
}

func TestInlineRecursionBlocks(t *testing.T) {
	f := leafFacts("walk")
	f.Usage.Recursive = true
	got := ScoreInline(f, DefaultInlineWeights())
	if got.Score != 0 || got.Recommendation != StronglyDiscouraged {
		t.Errorf("recursive function scored %d (%s)", got.Score, got.Recommendation)
	}
	if len(got.Blockers) != 1 || got.Blockers[0] != "recursive" {
		t.Errorf("blockers = %v", got.Blockers)
	}
}

func TestInlineAddressBlockers(t *testing.T) {
	cb := leafFacts("onVBlank")
	cb.Callback = true
	if got := ScoreInline(cb, DefaultInlineWeights()); len(got.Blockers) == 0 || got.Score != 0 {
		t.Errorf("callback function not blocked: %+v", got)
	}

	exp := leafFacts("random")
	exp.Exported = true
	got := ScoreInline(exp, DefaultInlineWeights())
	if got.Score != 0 {
		t.Errorf("exported function scored %d", got.Score)
	}
	found := false
	for _, b := range got.Blockers {
		if strings.Contains(b, "exported") {
			found = true
		}
	}
	if !found {
		t.Errorf("blockers = %v, want an exported entry", got.Blockers)
	}
}

func TestInlineStubBlocked(t *testing.T) {
	f := leafFacts("peek")
	f.Metrics.HasBody = false
	if got := ScoreInline(f, DefaultInlineWeights()); got.Score != 0 {
		t.Errorf("bodyless function scored %d", got.Score)
	}
}

func TestInlineLargeBodyDiscouraged(t *testing.T) {
	f := leafFacts("render")
	f.Metrics.EstimatedSize = 400
	f.Metrics.ReturnCount = 3
	f.Metrics.ParamCount = 5
	f.Usage.CallCount = 9
	got := ScoreInline(f, DefaultInlineWeights())
	if got.Recommendation.Positive() {
		t.Errorf("large function recommended: %d (%s)", got.Score, got.Recommendation)
	}
}

func TestInlineLoopCallsRaiseScore(t *testing.T) {
	base := leafFacts("step")
	base.Usage.CallCount = 2
	plain := ScoreInline(base, DefaultInlineWeights())

	hot := base
	hot.Usage.LoopCalls = 2
	hot.Usage.HotPathCalls = 1
	inLoop := ScoreInline(hot, DefaultInlineWeights())
	if inLoop.Score <= plain.Score {
		t.Errorf("loop calls did not raise score: %d vs %d", inLoop.Score, plain.Score)
	}
}

func TestInlineSideEffectsPenalized(t *testing.T) {
	pure := leafFacts("add")
	clean := ScoreInline(pure, DefaultInlineWeights())

	effectful := leafFacts("add")
	effectful.Scan = &FunctionScan{WritesOutside: true}
	dirty := ScoreInline(effectful, DefaultInlineWeights())
	if dirty.Score >= clean.Score {
		t.Errorf("side effects did not lower score: %d vs %d", dirty.Score, clean.Score)
	}
}
