package opt

import (
	"fmt"

	"blend65/internal/types"
)

// VariableFacts is everything the variable scorers look at, gathered
// by the analyzers before scoring.
type VariableFacts struct {
	Name    string
	Type    types.Type
	Storage types.StorageClass
	Usage   VariableUsage
	// ZeroPagePressure is the fraction of the zero-page budget already
	// claimed by better candidates, in [0,1].
	ZeroPagePressure float64
}

// Size returns the variable's byte size, or -1 when unknown.
func (f VariableFacts) Size() int {
	if f.Type == nil {
		return -1
	}
	return f.Type.Size()
}

// ZeroPageWeights tune the promotion scorer. Positive fields push a
// variable toward the zero page, negative pull it away; the defaults
// keep every contribution within roughly one recommendation bucket.
type ZeroPageWeights struct {
	AccessFrequency float64 `toml:"access_frequency"`
	LoopUse         float64 `toml:"loop_use"`
	HotPath         float64 `toml:"hot_path"`
	SmallSize       float64 `toml:"small_size"`
	ArithIndex      float64 `toml:"arith_index"`
	NoStorageClass  float64 `toml:"no_storage_class"`
	ShortLifetime   float64 `toml:"short_lifetime"`

	AlreadyZeroPage float64 `toml:"already_zero_page"`
	TooLarge        float64 `toml:"too_large"`
	HardwareAccess  float64 `toml:"hardware_access"`
	ConstData       float64 `toml:"const_data"`
	LowFrequency    float64 `toml:"low_frequency"`
	SingleUse       float64 `toml:"single_use"`
	Pressure        float64 `toml:"pressure"`
}

// DefaultZeroPageWeights returns the stock tuning.
func DefaultZeroPageWeights() ZeroPageWeights {
	return ZeroPageWeights{
		AccessFrequency: 3,
		LoopUse:         15,
		HotPath:         10,
		SmallSize:       10,
		ArithIndex:      8,
		NoStorageClass:  5,
		ShortLifetime:   5,

		AlreadyZeroPage: 50,
		TooLarge:        60,
		HardwareAccess:  20,
		ConstData:       40,
		LowFrequency:    15,
		SingleUse:       10,
		Pressure:        30,
	}
}

// ZeroPageCapacity is the page size the planner defaults to when no
// budget is configured.
const ZeroPageCapacity = 256

// Access-count cutoffs for the frequency factors.
const (
	highFrequencyAccesses = 5
	lowFrequencyAccesses  = 2
	shortLifetimeStmts    = 8
	smallVariableBytes    = 2
	zeroPageMaxBytes      = 64
)

// ZeroPageScore is the scored verdict for one variable.
type ZeroPageScore struct {
	Score          int
	Recommendation Recommendation
	// Reasons lists the factors that moved the score, strongest first
	// in declaration order.
	Reasons []string
}

// ScoreZeroPage weighs the supporting factors against the opposing
// ones and produces a 0-100 promotion score.
func ScoreZeroPage(f VariableFacts, w ZeroPageWeights) ZeroPageScore {
	score := 50.0
	var reasons []string
	add := func(delta float64, reason string) {
		score += delta
		reasons = append(reasons, reason)
	}

	u := f.Usage
	size := f.Size()

	if n := u.AccessCount(); n >= highFrequencyAccesses {
		add(w.AccessFrequency*float64(n), fmt.Sprintf("accessed %d times", n))
	} else if n <= lowFrequencyAccesses {
		add(-w.LowFrequency, fmt.Sprintf("only %d accesses", n))
	}
	if u.LoopUses > 0 {
		add(w.LoopUse, fmt.Sprintf("%d uses inside loops", u.LoopUses))
	}
	if u.HotPathUses > 0 {
		add(w.HotPath, fmt.Sprintf("%d uses in nested loops", u.HotPathUses))
	}
	if size > 0 && size <= smallVariableBytes {
		add(w.SmallSize, fmt.Sprintf("small (%d bytes)", size))
	}
	if n := u.ArithUses + u.IndexUses; n > 0 {
		add(w.ArithIndex, fmt.Sprintf("%d arithmetic or index uses", n))
	}
	if f.Storage == types.StorageNone {
		add(w.NoStorageClass, "no explicit storage class")
	}
	if life := u.LifetimeLength(); life > 0 && life <= shortLifetimeStmts {
		add(w.ShortLifetime, fmt.Sprintf("short lifetime (%d statements)", life))
	}

	if f.Storage == types.StorageZeroPage {
		add(-w.AlreadyZeroPage, "already declared zp")
	}
	if size > zeroPageMaxBytes || size < 0 {
		// Cap at the baseline first: an oversized variable must never
		// reach a positive recommendation, however hot its usage is.
		if score > 50 {
			score = 50
		}
		add(-w.TooLarge, fmt.Sprintf("%d bytes is too large to promote", size))
	}
	if u.HardwareAccess {
		add(-w.HardwareAccess, "used in hardware register access")
	}
	if f.Storage == types.StorageConst || f.Storage == types.StorageData {
		add(-w.ConstData, fmt.Sprintf("'%s' data stays in its segment", f.Storage))
	}
	if u.AccessCount() == 1 {
		add(-w.SingleUse, "single use")
	}
	if f.ZeroPagePressure > 0 {
		add(-w.Pressure*f.ZeroPagePressure,
			fmt.Sprintf("zero page %d%% claimed", int(f.ZeroPagePressure*100)))
	}

	final := clampScore(score)
	return ZeroPageScore{
		Score:          final,
		Recommendation: ForScore(final),
		Reasons:        reasons,
	}
}
