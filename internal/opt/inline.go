package opt

import "fmt"

// FunctionUsage counts how a function is called across the whole
// program, as opposed to FunctionMetrics which describes its body.
type FunctionUsage struct {
	CallCount    int
	LoopCalls    int
	HotPathCalls int
	Recursive    bool
}

// FunctionFacts bundles everything the inline scorer needs to know
// about one function.
type FunctionFacts struct {
	Name     string
	Metrics  FunctionMetrics
	Usage    FunctionUsage
	Scan     *FunctionScan
	Callback bool
	Exported bool
}

// InlineWeights tunes the inline scorer. Fields carry toml tags so a
// project manifest can override individual weights.
type InlineWeights struct {
	SmallBody    float64 `toml:"small_body"`
	TinyBody     float64 `toml:"tiny_body"`
	LoopCall     float64 `toml:"loop_call"`
	HotPathCall  float64 `toml:"hot_path_call"`
	SingleCaller float64 `toml:"single_caller"`
	Leaf         float64 `toml:"leaf"`

	LargeBody   float64 `toml:"large_body"`
	ManyParams  float64 `toml:"many_params"`
	MultiReturn float64 `toml:"multi_return"`
	SideEffects float64 `toml:"side_effects"`
	ManyCallers float64 `toml:"many_callers"`
	DeepNesting float64 `toml:"deep_nesting"`
}

// DefaultInlineWeights returns the stock tuning.
func DefaultInlineWeights() InlineWeights {
	return InlineWeights{
		SmallBody:    15,
		TinyBody:     25,
		LoopCall:     12,
		HotPathCall:  8,
		SingleCaller: 20,
		Leaf:         10,

		LargeBody:   40,
		ManyParams:  10,
		MultiReturn: 12,
		SideEffects: 15,
		ManyCallers: 10,
		DeepNesting: 8,
	}
}

// Size and shape cutoffs for the inline heuristics, in estimated
// bytes of generated code and plain counts.
const (
	tinyBodyBytes    = 24
	smallBodyBytes   = 64
	largeBodyBytes   = 160
	manyParamsCount  = 4
	manyCallersCount = 5
	deepNestingLevel = 3
)

// InlineScore is the verdict for one function. Blockers lists hard
// reasons inlining is impossible; a non-empty Blockers forces a zero
// score regardless of the evidence in Reasons.
type InlineScore struct {
	Score          int
	Recommendation Recommendation
	Reasons        []string
	Blockers       []string
}

// ScoreInline rates how profitable inlining a function would be.
// Callback-tagged and exported functions must keep a stable address,
// and recursive functions cannot be expanded at all, so each of those
// is a blocker rather than a weight.
func ScoreInline(f FunctionFacts, w InlineWeights) InlineScore {
	var blockers []string
	if f.Usage.Recursive || f.Metrics.DirectlyRecursive {
		blockers = append(blockers, "recursive")
	}
	if f.Callback {
		blockers = append(blockers, "callback-tagged, address must stay fixed")
	}
	if f.Exported {
		blockers = append(blockers, "exported, address must stay fixed")
	}
	if !f.Metrics.HasBody {
		blockers = append(blockers, "no body to inline")
	}
	if len(blockers) > 0 {
		return InlineScore{
			Score:          0,
			Recommendation: StronglyDiscouraged,
			Blockers:       blockers,
		}
	}

	score := 50.0
	var reasons []string
	add := func(delta float64, format string, args ...interface{}) {
		score += delta
		reasons = append(reasons, fmt.Sprintf(format, args...))
	}

	size := f.Metrics.EstimatedSize
	switch {
	case size <= tinyBodyBytes:
		add(w.TinyBody, "tiny body (~%d bytes)", size)
	case size <= smallBodyBytes:
		add(w.SmallBody, "small body (~%d bytes)", size)
	case size >= largeBodyBytes:
		add(-w.LargeBody, "large body (~%d bytes)", size)
	}

	if f.Usage.LoopCalls > 0 {
		add(w.LoopCall, "%d call sites inside loops", f.Usage.LoopCalls)
	}
	if f.Usage.HotPathCalls > 0 {
		add(w.HotPathCall, "%d hot-path call sites", f.Usage.HotPathCalls)
	}
	switch {
	case f.Usage.CallCount == 1:
		add(w.SingleCaller, "single call site")
	case f.Usage.CallCount >= manyCallersCount:
		add(-w.ManyCallers, "%d call sites would duplicate the body", f.Usage.CallCount)
	}
	if f.Metrics.CallCount == 0 {
		add(w.Leaf, "leaf function")
	}
	if f.Metrics.ParamCount >= manyParamsCount {
		add(-w.ManyParams, "%d parameters", f.Metrics.ParamCount)
	}
	if f.Metrics.ReturnCount > 1 {
		add(-w.MultiReturn, "%d return points", f.Metrics.ReturnCount)
	}
	if f.Metrics.MaxNesting >= deepNestingLevel {
		add(-w.DeepNesting, "nesting depth %d", f.Metrics.MaxNesting)
	}
	if f.Scan != nil && (f.Scan.WritesOutside || f.Scan.HardwareWrites > 0) {
		add(-w.SideEffects, "visible side effects")
	}

	final := clampScore(score)
	return InlineScore{
		Score:          final,
		Recommendation: ForScore(final),
		Reasons:        reasons,
	}
}
