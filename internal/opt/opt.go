// Package opt computes optimization metadata for analyzed programs:
// zero-page promotion scores, preferred-register choices, function
// complexity metrics, and inlining recommendations.
//
// Everything here is advisory. Scores are heuristics in [0,100] meant
// to rank candidates for a downstream code generator, not guarantees
// about placement or inlining.
package opt

// Recommendation buckets a score into a discrete advice level.
type Recommendation uint8

const (
	StronglyDiscouraged Recommendation = iota
	Discouraged
	Neutral
	Recommended
	StronglyRecommended
)

var recommendationNames = [...]string{
	"strongly_discouraged",
	"discouraged",
	"neutral",
	"recommended",
	"strongly_recommended",
}

func (r Recommendation) String() string {
	if int(r) < len(recommendationNames) {
		return recommendationNames[r]
	}
	return "unknown"
}

// Positive reports whether the advice argues for the optimization.
func (r Recommendation) Positive() bool {
	return r >= Recommended
}

// ForScore maps a 0-100 score onto a recommendation bucket.
func ForScore(score int) Recommendation {
	switch {
	case score >= 80:
		return StronglyRecommended
	case score >= 60:
		return Recommended
	case score >= 40:
		return Neutral
	case score >= 20:
		return Discouraged
	default:
		return StronglyDiscouraged
	}
}

// Register is a placement target for a hot variable.
type Register uint8

const (
	RegisterNone Register = iota
	RegisterA
	RegisterX
	RegisterY
	RegisterZeroPage
	RegisterMemory
)

var registerNames = [...]string{"none", "A", "X", "Y", "zero_page", "memory"}

func (r Register) String() string {
	if int(r) < len(registerNames) {
		return registerNames[r]
	}
	return "none"
}

// Physical reports whether r names one of the three CPU registers.
func (r Register) Physical() bool {
	return r == RegisterA || r == RegisterX || r == RegisterY
}

func clampScore(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return int(v)
	}
}
