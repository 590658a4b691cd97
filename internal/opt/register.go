package opt

import (
	"fmt"
	"sort"
)

// RegisterScore is the placement verdict for one variable: which
// register (or fallback tier) it wants, how strongly, and who it
// fights with for that register.
type RegisterScore struct {
	Preferred      Register
	Score          int
	Recommendation Recommendation
	Reasons        []string
	// InterferesWith lists other candidates wanting the same physical
	// register, filled during coordination.
	InterferesWith []string
}

// ScoreRegister picks a preferred register from usage-pattern
// evidence. Only single-byte variables can live in A, X, or Y;
// anything wider falls back to zero page or plain memory.
func ScoreRegister(f VariableFacts) RegisterScore {
	u := f.Usage
	size := f.Size()

	if size != 1 {
		return wideRegisterScore(f)
	}

	// Evidence per register: arithmetic favors the accumulator, index
	// use favors X, loop counting favors Y when X is the index.
	arith := u.ArithUses
	index := u.IndexUses
	loop := u.LoopUses

	var preferred Register
	var evidence int
	var reason string
	switch {
	case arith > index && arith > 0:
		preferred = RegisterA
		evidence = arith
		reason = fmt.Sprintf("%d accumulator-style arithmetic uses", arith)
	case index > 0:
		preferred = RegisterX
		evidence = index
		reason = fmt.Sprintf("%d index uses", index)
	case loop > 0:
		preferred = RegisterY
		evidence = loop
		reason = fmt.Sprintf("%d loop-counter uses", loop)
	default:
		return lowEvidenceScore(f)
	}

	score := 40 + 10*evidence
	if u.HotPathUses > 0 {
		score += 15
	}
	if u.HardwareAccess {
		score -= 20
	}
	final := clampScore(float64(score))
	return RegisterScore{
		Preferred:      preferred,
		Score:          final,
		Recommendation: ForScore(final),
		Reasons:        []string{reason},
	}
}

func wideRegisterScore(f VariableFacts) RegisterScore {
	size := f.Size()
	if size > 0 && size <= smallVariableBytes && f.Usage.LoopUses > 0 {
		return RegisterScore{
			Preferred:      RegisterZeroPage,
			Score:          60,
			Recommendation: Recommended,
			Reasons:        []string{fmt.Sprintf("%d bytes, loop-used, zero page indirection", size)},
		}
	}
	return RegisterScore{
		Preferred:      RegisterMemory,
		Score:          20,
		Recommendation: Discouraged,
		Reasons:        []string{fmt.Sprintf("%d bytes does not fit a register", size)},
	}
}

func lowEvidenceScore(f VariableFacts) RegisterScore {
	if f.Usage.AccessCount() >= highFrequencyAccesses {
		return RegisterScore{
			Preferred:      RegisterZeroPage,
			Score:          55,
			Recommendation: Neutral,
			Reasons:        []string{"frequent but unpatterned access"},
		}
	}
	return RegisterScore{
		Preferred:      RegisterMemory,
		Score:          25,
		Recommendation: Discouraged,
		Reasons:        []string{"no register-shaped usage"},
	}
}

// FunctionRegisterStrategy records which physical registers a function
// body already burns internally, so coordination can mark variable
// candidates that would collide with it.
type FunctionRegisterStrategy struct {
	Name string
	Uses []Register
}

// StrategyFor derives a function's internal register usage from its
// metrics: loops claim X, arithmetic-heavy bodies claim A, indexed
// access claims Y as the second index.
func StrategyFor(name string, m FunctionMetrics, scan *FunctionScan) FunctionRegisterStrategy {
	strat := FunctionRegisterStrategy{Name: name}
	if m.HasLoops {
		strat.Uses = append(strat.Uses, RegisterX)
	}
	arith, index := 0, 0
	for _, u := range scan.Vars {
		arith += u.ArithUses
		index += u.IndexUses
	}
	if arith > 0 {
		strat.Uses = append(strat.Uses, RegisterA)
	}
	if index > 0 {
		strat.Uses = append(strat.Uses, RegisterY)
	}
	return strat
}

func (s FunctionRegisterStrategy) uses(r Register) bool {
	for _, u := range s.Uses {
		if u == r {
			return true
		}
	}
	return false
}

// MarkInterference fills InterferesWith on every candidate: first with
// the names of other candidates preferring the same physical register,
// then with functions whose internal strategy claims it. Candidate
// keys must be unique names; the scores map is mutated in place.
func MarkInterference(scores map[string]*RegisterScore, strategies []FunctionRegisterStrategy) {
	byReg := make(map[Register][]string)
	for name, sc := range scores {
		if sc.Preferred.Physical() {
			byReg[sc.Preferred] = append(byReg[sc.Preferred], name)
		}
	}
	for _, names := range byReg {
		sort.Strings(names)
	}
	for name, sc := range scores {
		if !sc.Preferred.Physical() {
			continue
		}
		for _, other := range byReg[sc.Preferred] {
			if other != name {
				sc.InterferesWith = append(sc.InterferesWith, other)
			}
		}
		for _, strat := range strategies {
			if strat.uses(sc.Preferred) {
				sc.InterferesWith = append(sc.InterferesWith, "function "+strat.Name)
			}
		}
	}
}
